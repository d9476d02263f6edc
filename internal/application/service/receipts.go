package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/eshaffer321/ration-form/internal/domain/billdraft"
	"github.com/eshaffer321/ration-form/internal/domain/expense"
	"github.com/eshaffer321/ration-form/internal/observability/metrics"
)

// ErrNoRecognizer is returned by ScanReceipt when OCR is not configured.
var ErrNoRecognizer = errors.New("receipt scanning is not configured")

// Scan is the OCR text of a receipt and its first-pass classification.
type Scan struct {
	Text   string            `json:"res"`
	Tokens []billdraft.Token `json:"tokens"`
}

// ScanReceipt extracts text from a receipt image and tokenizes it into a
// bill draft.
func (s *ExpenseService) ScanReceipt(ctx context.Context, image []byte) (Scan, error) {
	if s.recognizer == nil {
		return Scan{}, ErrNoRecognizer
	}

	text, err := s.recognizer.Recognize(ctx, image)
	if err != nil {
		s.metrics.ObserveScan(metrics.ResultError)
		return Scan{}, fmt.Errorf("failed to scan receipt: %w", err)
	}
	s.metrics.ObserveScan(metrics.ResultSuccess)

	tokens := billdraft.Tokenize(text, s.newID)
	if tokens == nil {
		tokens = []billdraft.Token{}
	}
	s.logger.Info("receipt scanned", "bytes", len(image), "tokens", len(tokens))
	return Scan{Text: text, Tokens: tokens}, nil
}

// ImportBillDraft segments tokens into line items, appends them to the form
// and closes the upload modal.
func (s *ExpenseService) ImportBillDraft(id string, tokens []billdraft.Token) (View, error) {
	sess, err := s.session(id)
	if err != nil {
		return View{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	items := billdraft.Segment(tokens)
	s.dispatchLocked(sess, expense.ImportItems{Items: items})
	state := s.dispatchLocked(sess, expense.ShowModal{Mode: expense.ModalNone})

	s.metrics.ObserveBillDraft(len(items))
	s.logger.Info("bill draft imported", "form_id", id, "items", len(items))
	return newView(id, state), nil
}
