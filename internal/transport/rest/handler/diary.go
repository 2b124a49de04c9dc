package handler

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"moodiary/internal/dates"
	"moodiary/internal/model"
	"moodiary/internal/service"
	"moodiary/internal/transport/rest/middleware"
)

const (
	maxUploadBytes    = 11 << 20
	multipartMemory   = 1 << 20
	photoFormField    = "photo"
	multipartFormMIME = "multipart/form-data"
)

// DiaryHandler handles diary entry, photo and feed endpoints
type DiaryHandler struct {
	diarySvc *service.DiaryService
	loc      *time.Location
	logger   *zap.Logger
}

// NewDiaryHandler creates a new diary handler
func NewDiaryHandler(diarySvc *service.DiaryService, loc *time.Location, logger *zap.Logger) *DiaryHandler {
	return &DiaryHandler{diarySvc: diarySvc, loc: loc, logger: logger}
}

// Create handles POST /v1/diary
func (h *DiaryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.DiaryEntryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.diarySvc.Create(r.Context(), middleware.GetUserID(r.Context()), in)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// List handles GET /v1/diary?month=YYYY-MM, defaulting to the current month
func (h *DiaryHandler) List(w http.ResponseWriter, r *http.Request) {
	year, month, err := h.month(r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := h.diarySvc.ListMine(r.Context(), middleware.GetUserID(r.Context()), year, month)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}

// Stats handles GET /v1/diary/stats?month=YYYY-MM
func (h *DiaryHandler) Stats(w http.ResponseWriter, r *http.Request) {
	year, month, err := h.month(r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	stats, err := h.diarySvc.MonthStats(r.Context(), middleware.GetUserID(r.Context()), year, month)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Get handles GET /v1/diary/{entryId}
func (h *DiaryHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry, err := h.diarySvc.Get(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["entryId"])
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// Update handles PUT /v1/diary/{entryId}
func (h *DiaryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in model.DiaryEntryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.diarySvc.Update(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["entryId"], in)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// Delete handles DELETE /v1/diary/{entryId}
func (h *DiaryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.diarySvc.Delete(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["entryId"]); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadPhoto handles POST /v1/diary/photos. The image is either the "photo"
// part of a multipart form or the raw request body.
func (h *DiaryHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	var (
		body        io.Reader
		contentType string
		size        int64
	)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == multipartFormMIME {
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}
		file, header, err := r.FormFile(photoFormField)
		if err != nil {
			writeError(w, http.StatusBadRequest, "photo field is required")
			return
		}
		defer file.Close()
		body, contentType, size = file, header.Header.Get("Content-Type"), header.Size
	} else {
		body, contentType, size = r.Body, mediaType, r.ContentLength
	}

	key, err := h.diarySvc.UploadPhoto(r.Context(), middleware.GetUserID(r.Context()), contentType, body, size)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"photoKey": key})
}

// Feed handles GET /v1/feed?before=RFC3339&limit=N
func (h *DiaryHandler) Feed(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var before *time.Time
	if s := q.Get("before"); s != "" {
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "before must be an RFC3339 timestamp")
			return
		}
		before = &t
	}
	limit, err := parseLimit(q.Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := h.diarySvc.Feed(r.Context(), middleware.GetUserID(r.Context()), before, limit)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}

func (h *DiaryHandler) month(s string) (int, time.Month, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		now := time.Now().In(h.loc)
		return now.Year(), now.Month(), nil
	}
	return dates.ParseMonth(s, h.loc)
}

// parseLimit returns 0 for an empty value so the service default applies.
func parseLimit(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, errInvalidLimit
	}
	return n, nil
}
