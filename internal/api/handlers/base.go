package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/eshaffer321/ration-form/internal/api/dto"
	"github.com/eshaffer321/ration-form/internal/application/service"
	"github.com/eshaffer321/ration-form/internal/infrastructure/storage"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// Base provides shared functionality for all handlers.
type Base struct {
	logger *slog.Logger
}

// NewBase creates a new base handler with the given logger.
func NewBase(logger *slog.Logger) *Base {
	if logger == nil {
		logger = slog.Default()
	}
	return &Base{logger: logger}
}

// WriteJSON writes a JSON response with the given status code.
func (b *Base) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError writes an error response with the given status code.
func (b *Base) WriteError(w http.ResponseWriter, status int, err dto.APIError) {
	b.WriteJSON(w, status, err)
}

// WriteServiceError maps a service or storage error to a response.
func (b *Base) WriteServiceError(w http.ResponseWriter, err error) {
	var apiErr dto.APIError
	switch {
	case errors.As(err, &apiErr):
		status := http.StatusBadRequest
		if apiErr.Code == dto.ErrCodeNotFound {
			status = http.StatusNotFound
		}
		b.WriteError(w, status, apiErr)
	case errors.Is(err, service.ErrFormNotFound):
		b.WriteError(w, http.StatusNotFound, dto.NotFoundError("form"))
	case errors.Is(err, storage.ErrNotFound):
		b.WriteError(w, http.StatusNotFound, dto.NotFoundError("submission"))
	case errors.Is(err, service.ErrNoRecognizer):
		b.WriteError(w, http.StatusServiceUnavailable, dto.UnavailableError(err.Error()))
	default:
		b.logger.Error("request failed", "error", err)
		b.WriteError(w, http.StatusInternalServerError, dto.InternalError())
	}
}

// DecodeJSON reads a JSON body into v, writing a 400 on failure.
func (b *Base) DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		b.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid JSON body: "+err.Error()))
		return false
	}
	return true
}

// ParseIntParam parses an integer query parameter with a default value.
func ParseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return parsed
}
