package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"moodiary/internal/service"
	"moodiary/internal/transport/rest/middleware"
)

var errInvalidLimit = errors.New("limit must be a non-negative integer")

// AssessmentHandler handles the stress check endpoints
type AssessmentHandler struct {
	assessmentSvc *service.AssessmentService
	logger        *zap.Logger
}

// NewAssessmentHandler creates a new assessment handler
func NewAssessmentHandler(assessmentSvc *service.AssessmentService, logger *zap.Logger) *AssessmentHandler {
	return &AssessmentHandler{assessmentSvc: assessmentSvc, logger: logger}
}

// SubmitRequest carries one answer per question; null marks an unanswered item
type SubmitRequest struct {
	Answers []*int `json:"answers"`
}

// Questionnaire handles GET /v1/assessments/questionnaire
func (h *AssessmentHandler) Questionnaire(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.assessmentSvc.Questionnaire())
}

// Submit handles POST /v1/assessments
func (h *AssessmentHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.assessmentSvc.Submit(r.Context(), middleware.GetUserID(r.Context()), req.Answers)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// History handles GET /v1/assessments?limit=N
func (h *AssessmentHandler) History(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	list, err := h.assessmentSvc.History(r.Context(), middleware.GetUserID(r.Context()), limit)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"assessments": list})
}

// Today handles GET /v1/assessments/today
func (h *AssessmentHandler) Today(w http.ResponseWriter, r *http.Request) {
	status, err := h.assessmentSvc.TodayStatus(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// Get handles GET /v1/assessments/{id}
func (h *AssessmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.assessmentSvc.Get(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
