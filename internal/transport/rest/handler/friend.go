package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"moodiary/internal/service"
	"moodiary/internal/transport/rest/middleware"
)

// FriendHandler handles friend and friend request endpoints
type FriendHandler struct {
	friendSvc *service.FriendService
	logger    *zap.Logger
}

// NewFriendHandler creates a new friend handler
func NewFriendHandler(friendSvc *service.FriendService, logger *zap.Logger) *FriendHandler {
	return &FriendHandler{friendSvc: friendSvc, logger: logger}
}

// SendRequestBody is the request body for POST /v1/friends/requests
type SendRequestBody struct {
	PublicID string `json:"publicId"`
}

// List handles GET /v1/friends
func (h *FriendHandler) List(w http.ResponseWriter, r *http.Request) {
	friends, err := h.friendSvc.ListFriends(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"friends": friends})
}

// Remove handles DELETE /v1/friends/{userId}
func (h *FriendHandler) Remove(w http.ResponseWriter, r *http.Request) {
	err := h.friendSvc.Remove(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["userId"])
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListRequests handles GET /v1/friends/requests?direction=incoming|outgoing
func (h *FriendHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	var incoming bool
	switch r.URL.Query().Get("direction") {
	case "", "incoming":
		incoming = true
	case "outgoing":
	default:
		writeError(w, http.StatusBadRequest, "direction must be incoming or outgoing")
		return
	}

	reqs, err := h.friendSvc.ListRequests(r.Context(), middleware.GetUserID(r.Context()), incoming)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"requests": reqs})
}

// SendRequest handles POST /v1/friends/requests
func (h *FriendHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	var body SendRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.PublicID == "" {
		writeError(w, http.StatusBadRequest, "publicId is required")
		return
	}

	req, err := h.friendSvc.SendRequest(r.Context(), middleware.GetUserID(r.Context()), body.PublicID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

// Accept handles POST /v1/friends/requests/{requestId}/accept
func (h *FriendHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, true)
}

// Reject handles POST /v1/friends/requests/{requestId}/reject
func (h *FriendHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, false)
}

func (h *FriendHandler) respond(w http.ResponseWriter, r *http.Request, accept bool) {
	req, err := h.friendSvc.Respond(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["requestId"], accept)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}
