package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/eshaffer321/ration-form/internal/api/dto"
	"github.com/eshaffer321/ration-form/internal/infrastructure/storage"
)

// SubmissionsHandler serves the submission log.
type SubmissionsHandler struct {
	*Base
	repo storage.SubmissionRepository
}

// NewSubmissionsHandler creates a new submissions handler.
func NewSubmissionsHandler(repo storage.SubmissionRepository, logger *slog.Logger) *SubmissionsHandler {
	return &SubmissionsHandler{Base: NewBase(logger), repo: repo}
}

// List handles GET /api/submissions - returns paginated submissions.
func (h *SubmissionsHandler) List(w http.ResponseWriter, r *http.Request) {
	filters := storage.SubmissionFilters{
		Email:    r.URL.Query().Get("email"),
		Type:     r.URL.Query().Get("type"),
		Status:   r.URL.Query().Get("status"),
		DaysBack: ParseIntParam(r, "days_back", 0),
		Limit:    ParseIntParam(r, "limit", 50),
		Offset:   ParseIntParam(r, "offset", 0),
	}

	result, err := h.repo.ListSubmissions(filters)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, dto.ToSubmissionListResponse(result))
}

// Get handles GET /api/submissions/{id}.
func (h *SubmissionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("submission ID must be a number"))
		return
	}

	sub, err := h.repo.GetSubmission(id)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, dto.ToSubmissionResponse(sub, true))
}

// Stats handles GET /api/stats.
func (h *SubmissionsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.repo.GetStats()
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, dto.ToStatsResponse(stats))
}
