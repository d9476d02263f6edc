package service

import (
	"context"
	"errors"
	"time"

	"github.com/eshaffer321/ration-form/internal/adapters/spreadsheet"
	"github.com/eshaffer321/ration-form/internal/domain/expense"
	"github.com/eshaffer321/ration-form/internal/infrastructure/storage"
	"github.com/eshaffer321/ration-form/internal/observability/metrics"
)

var errNoAppender = errors.New("no spreadsheet configured")

// SubmitResult reports whether the row reached the spreadsheet.
type SubmitResult struct {
	Res          bool   `json:"res"`
	SubmissionID int64  `json:"submission_id,omitempty"`
	Form         View   `json:"form"`
	Error        string `json:"error,omitempty"`
}

// Submit appends the form to the spreadsheet. The submitter's email is
// remembered first if none is stored yet. On success the session is reset;
// on failure it is left untouched so the user can retry.
//
// A spreadsheet failure is reported through Res, not the error, which is
// reserved for an unknown form.
func (s *ExpenseService) Submit(ctx context.Context, id string) (SubmitResult, error) {
	sess, err := s.session(id)
	if err != nil {
		return SubmitResult{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	form := sess.store.State().Form
	s.rememberEmail(form.Email)

	now := s.now()
	row := spreadsheet.BuildRow(form, now)

	start := time.Now()
	appendErr := s.append(ctx, row)
	elapsed := time.Since(start)

	sub := &storage.Submission{
		FormID:      id,
		Email:       form.Email,
		Date:        form.Date,
		Vendor:      form.Vendor,
		Location:    form.Location,
		Type:        form.Type,
		PaidBy:      string(form.PaidBy),
		Clearance:   string(form.Clearance),
		TotalCost:   totalOf(form),
		ItemCount:   len(form.Items),
		Status:      storage.StatusSent,
		SubmittedAt: now,
		Row:         row,
	}
	if appendErr != nil {
		sub.Status = storage.StatusFailed
		sub.ErrorMessage = appendErr.Error()
	}
	s.record(sub)

	if appendErr != nil {
		s.metrics.ObserveSubmission(metrics.ResultError, elapsed)
		s.logger.Error("submit failed", "form_id", id, "error", appendErr)
		return SubmitResult{
			Res:          false,
			SubmissionID: sub.ID,
			Form:         newView(id, sess.store.State()),
			Error:        appendErr.Error(),
		}, nil
	}

	s.metrics.ObserveSubmission(metrics.ResultSuccess, elapsed)
	s.logger.Info("expense submitted",
		"form_id", id,
		"submission_id", sub.ID,
		"total", sub.TotalCost,
		"items", sub.ItemCount,
	)

	sess.store.Dispatch(expense.Reset{})
	state := sess.store.Dispatch(expense.SetField{Field: expense.FieldEmail, Value: s.rememberedEmail()})
	sess.touchedAt = s.now()

	return SubmitResult{
		Res:          true,
		SubmissionID: sub.ID,
		Form:         newView(id, state),
	}, nil
}

func (s *ExpenseService) append(ctx context.Context, row []string) error {
	if s.appender == nil {
		return errNoAppender
	}
	return s.appender.Append(ctx, row)
}

// rememberEmail stores email unless one is already remembered.
func (s *ExpenseService) rememberEmail(email string) {
	if s.storage == nil || email == "" {
		return
	}
	written, err := s.storage.SetPreferenceIfAbsent(storage.PreferenceUserEmail, email)
	if err != nil {
		s.logger.Warn("failed to remember email", "error", err)
		return
	}
	if written {
		s.logger.Debug("remembered submitter email")
	}
}

// record writes the submission log entry. A storage failure is logged and
// does not change the submit outcome.
func (s *ExpenseService) record(sub *storage.Submission) {
	if s.storage == nil {
		return
	}
	if err := s.storage.SaveSubmission(sub); err != nil {
		s.logger.Warn("failed to record submission", "form_id", sub.FormID, "error", err)
	}
}
