package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eshaffer321/ration-form/internal/api/dto"
	"github.com/eshaffer321/ration-form/internal/application/service"
	"github.com/eshaffer321/ration-form/internal/domain/billdraft"
	"github.com/eshaffer321/ration-form/internal/domain/expense"
)

// FormService is the session API the form handlers drive.
type FormService interface {
	CreateForm() service.View
	GetForm(id string) (service.View, error)
	DiscardForm(id string) error
	Dispatch(id string, a expense.Action) (service.View, error)
	CommitDraft(id string) (service.View, error)
	ImportBillDraft(id string, tokens []billdraft.Token) (service.View, error)
	Submit(ctx context.Context, id string) (service.SubmitResult, error)
}

// FormsHandler handles form session requests.
type FormsHandler struct {
	*Base
	svc FormService
}

// NewFormsHandler creates a new forms handler.
func NewFormsHandler(svc FormService, logger *slog.Logger) *FormsHandler {
	return &FormsHandler{Base: NewBase(logger), svc: svc}
}

// Create handles POST /api/forms - opens a new form session.
func (h *FormsHandler) Create(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusCreated, h.svc.CreateForm())
}

// Get handles GET /api/forms/{id}.
func (h *FormsHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.GetForm(chi.URLParam(r, "id"))
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, view)
}

// Delete handles DELETE /api/forms/{id}.
func (h *FormsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DiscardForm(chi.URLParam(r, "id")); err != nil {
		h.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Dispatch handles POST /api/forms/{id}/actions - applies one form action.
func (h *FormsHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	var req dto.ActionRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}
	action, err := req.ToAction()
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}

	view, err := h.svc.Dispatch(chi.URLParam(r, "id"), action)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, view)
}

// CommitItem handles POST /api/forms/{id}/items - adds the item draft if complete.
func (h *FormsHandler) CommitItem(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.CommitDraft(chi.URLParam(r, "id"))
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	status := http.StatusOK
	if view.State.Errors.ItemDraft {
		status = http.StatusUnprocessableEntity
	}
	h.WriteJSON(w, status, view)
}

// ImportBillDraft handles POST /api/forms/{id}/bill-draft.
func (h *FormsHandler) ImportBillDraft(w http.ResponseWriter, r *http.Request) {
	var req dto.BillDraftRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		h.WriteServiceError(w, err)
		return
	}

	view, err := h.svc.ImportBillDraft(chi.URLParam(r, "id"), req.Tokens)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, view)
}

// Submit handles POST /api/forms/{id}/submit. The body is {"res": bool}
// plus the resulting form.
func (h *FormsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Submit(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}
