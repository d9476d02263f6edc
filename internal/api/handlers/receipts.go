package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/eshaffer321/ration-form/internal/api/dto"
	"github.com/eshaffer321/ration-form/internal/application/service"
)

// MaxReceiptBytes caps uploaded receipt images.
const MaxReceiptBytes = 10 << 20

// ReceiptScanner turns a receipt image into a bill draft.
type ReceiptScanner interface {
	ScanReceipt(ctx context.Context, image []byte) (service.Scan, error)
}

// ReceiptsHandler handles receipt uploads.
type ReceiptsHandler struct {
	*Base
	scanner ReceiptScanner
}

// NewReceiptsHandler creates a new receipts handler.
func NewReceiptsHandler(scanner ReceiptScanner, logger *slog.Logger) *ReceiptsHandler {
	return &ReceiptsHandler{Base: NewBase(logger), scanner: scanner}
}

// Scan handles POST /api/receipts - multipart upload in field "file".
// Returns {"res": text, "tokens": [...]}.
func (h *ReceiptsHandler) Scan(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxReceiptBytes)
	if err := r.ParseMultipartForm(MaxReceiptBytes); err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid multipart upload"))
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("file is required"))
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("failed to read upload"))
		return
	}

	scan, err := h.scanner.ScanReceipt(r.Context(), image)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, scan)
}
