package handlers

import (
	"net/http"

	"github.com/eshaffer321/ration-form/internal/api/dto"
	"github.com/eshaffer321/ration-form/internal/domain/expense"
	"github.com/eshaffer321/ration-form/internal/domain/ration"
)

// OptionsHandler serves the picker catalogs.
type OptionsHandler struct {
	*Base
}

// NewOptionsHandler creates a new options handler.
func NewOptionsHandler() *OptionsHandler {
	return &OptionsHandler{Base: NewBase(nil)}
}

// Get handles GET /api/options.
func (h *OptionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	clearances := make([]string, 0, len(expense.Clearances))
	for _, c := range expense.Clearances {
		clearances = append(clearances, string(c))
	}

	h.WriteJSON(w, http.StatusOK, dto.OptionsResponse{
		Types:      expense.TypeOptions,
		Vendors:    expense.VendorPresets,
		Locations:  expense.LocationPresets,
		Payers:     ration.Payers(),
		Units:      []ration.Unit{ration.Percent, ration.FixedAmount},
		Clearances: clearances,
		Presets:    ration.Presets(),
	})
}
