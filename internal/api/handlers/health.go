package handlers

import (
	"net/http"

	"github.com/eshaffer321/ration-form/internal/api/dto"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	*Base
	activeForms func() int
}

// NewHealthHandler creates a new health handler. activeForms may be nil.
func NewHealthHandler(activeForms func() int) *HealthHandler {
	return &HealthHandler{Base: NewBase(nil), activeForms: activeForms}
}

// ServeHTTP handles the health check request.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n := 0
	if h.activeForms != nil {
		n = h.activeForms()
	}
	h.WriteJSON(w, http.StatusOK, dto.NewHealthResponse(n))
}
