package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/ration-form/internal/domain/billdraft"
	"github.com/eshaffer321/ration-form/internal/domain/expense"
	"github.com/eshaffer321/ration-form/internal/domain/ration"
	"github.com/eshaffer321/ration-form/internal/infrastructure/storage"
	"github.com/eshaffer321/ration-form/internal/observability/metrics"
)

type stubAppender struct {
	mu   sync.Mutex
	rows [][]string
	err  error
}

func (a *stubAppender) Append(_ context.Context, row []string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	a.rows = append(a.rows, row)
	return nil
}

type stubRecognizer struct {
	text string
	err  error
}

func (r stubRecognizer) Recognize(context.Context, []byte) (string, error) {
	return r.text, r.err
}

var testNow = time.Date(2024, 3, 7, 14, 5, 9, 0, time.UTC)

func sequence(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

type fixture struct {
	svc      *ExpenseService
	repo     *storage.MockRepository
	appender *stubAppender
	clock    *time.Time
}

func newFixture(t *testing.T, recognizer stubRecognizer) *fixture {
	t.Helper()
	now := testNow
	f := &fixture{
		repo:     storage.NewMockRepository(),
		appender: &stubAppender{},
		clock:    &now,
	}
	clock := func() time.Time { return *f.clock }
	f.svc = NewExpenseService(Deps{
		Machine: expense.NewMachine(
			expense.WithIDGenerator(sequence("item")),
			expense.WithClock(clock),
		),
		Recognizer: recognizer,
		Appender:   f.appender,
		Storage:    f.repo,
		Metrics:    metrics.New(),
		Clock:      clock,
		NewID:      sequence("form"),
	})
	return f
}

func addItem(t *testing.T, svc *ExpenseService, id, label, price, amount string) View {
	t.Helper()
	for _, a := range []expense.Action{
		expense.SetDraftField{Field: expense.DraftLabel, Value: label},
		expense.SetDraftField{Field: expense.DraftPrice, Value: price},
		expense.SetDraftField{Field: expense.DraftAmount, Value: amount},
	} {
		_, err := svc.Dispatch(id, a)
		require.NoError(t, err)
	}
	view, err := svc.CommitDraft(id)
	require.NoError(t, err)
	return view
}

func TestExpenseService_CreateForm(t *testing.T) {
	f := newFixture(t, stubRecognizer{})

	view := f.svc.CreateForm()

	assert.Equal(t, "form-1", view.ID)
	assert.Equal(t, "2024-03-07", view.State.Form.Date)
	assert.Empty(t, view.State.Form.Email)
	assert.Equal(t, "0.00", view.TotalCost)
	assert.Equal(t, ration.Initial(), view.State.Form.Ration)
	assert.Equal(t, 1, f.svc.ActiveForms())
}

func TestExpenseService_CreateForm_PrefillsRememberedEmail(t *testing.T) {
	f := newFixture(t, stubRecognizer{})
	require.NoError(t, f.repo.SetPreference(storage.PreferenceUserEmail, "me@example.com"))

	view := f.svc.CreateForm()

	assert.Equal(t, "me@example.com", view.State.Form.Email)
}

func TestExpenseService_UnknownForm(t *testing.T) {
	f := newFixture(t, stubRecognizer{})

	_, err := f.svc.GetForm("missing")
	assert.ErrorIs(t, err, ErrFormNotFound)

	_, err = f.svc.Dispatch("missing", expense.Reset{})
	assert.ErrorIs(t, err, ErrFormNotFound)

	_, err = f.svc.Submit(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrFormNotFound)

	assert.ErrorIs(t, f.svc.DiscardForm("missing"), ErrFormNotFound)
}

func TestExpenseService_CommitDraft(t *testing.T) {
	f := newFixture(t, stubRecognizer{})
	id := f.svc.CreateForm().ID

	t.Run("incomplete draft is flagged", func(t *testing.T) {
		_, err := f.svc.Dispatch(id, expense.SetDraftField{Field: expense.DraftLabel, Value: "Tea"})
		require.NoError(t, err)

		view, err := f.svc.CommitDraft(id)
		require.NoError(t, err)
		assert.True(t, view.State.Errors.ItemDraft)
		assert.Empty(t, view.State.Form.Items)
	})

	t.Run("complete draft is appended", func(t *testing.T) {
		view := addItem(t, f.svc, id, "Tea", "3.5", "2")
		require.Len(t, view.State.Form.Items, 1)
		assert.Equal(t, "3.50", view.State.Form.Items[0].Price)
		assert.False(t, view.State.Errors.ItemDraft)
		assert.Equal(t, "7.00", view.TotalCost)
	})
}

func TestExpenseService_DerivedFigures(t *testing.T) {
	f := newFixture(t, stubRecognizer{})
	id := f.svc.CreateForm().ID
	addItem(t, f.svc, id, "Rice", "100", "1")

	_, err := f.svc.Dispatch(id, expense.ChangeRationUnit{Payer: ration.Payer1, Unit: ration.FixedAmount})
	require.NoError(t, err)
	_, err = f.svc.Dispatch(id, expense.SetRationAmount{Payer: ration.Payer1, Value: "20"})
	require.NoError(t, err)
	view, err := f.svc.Dispatch(id, expense.SetRationAmount{Payer: ration.Payer2, Value: "50"})
	require.NoError(t, err)

	assert.True(t, view.Breakdown.Subsidies.Equal(dec("20")))
	assert.True(t, view.Breakdown.Percents.Equal(dec("50")))
	assert.True(t, view.EffectivePercentages.Of(ration.Payer1).Equal(dec("20")))
	assert.True(t, view.EffectivePercentages.Of(ration.Payer2).Equal(dec("40")))
	assert.Equal(t, "40.00", view.Owed.Of(ration.Payer2).StringFixed(2))
	assert.True(t, view.Owed.Sum().Equal(dec("60")))
}

func TestExpenseService_RejectedRationEditLeavesState(t *testing.T) {
	f := newFixture(t, stubRecognizer{})
	id := f.svc.CreateForm().ID
	addItem(t, f.svc, id, "Rice", "10", "1")

	_, err := f.svc.Dispatch(id, expense.SetRationAmount{Payer: ration.Payer1, Value: "80"})
	require.NoError(t, err)
	view, err := f.svc.Dispatch(id, expense.SetRationAmount{Payer: ration.Payer2, Value: "30"})
	require.NoError(t, err)

	assert.Equal(t, "80", view.State.Form.Ration.Get(ration.Payer1).Amount)
	assert.Equal(t, "0", view.State.Form.Ration.Get(ration.Payer2).Amount)
}

func TestExpenseService_ScanAndImportBillDraft(t *testing.T) {
	f := newFixture(t, stubRecognizer{text: "milk tea 4.50 2\nbun 1.20 3\n"})
	id := f.svc.CreateForm().ID

	_, err := f.svc.Dispatch(id, expense.ShowModal{Mode: expense.ModalUploadReceipt})
	require.NoError(t, err)

	scan, err := f.svc.ScanReceipt(context.Background(), []byte("png"))
	require.NoError(t, err)
	require.Len(t, scan.Tokens, 6)
	assert.Equal(t, "milk tea", scan.Tokens[0].Text)
	assert.Equal(t, billdraft.Item, scan.Tokens[0].Classification)

	view, err := f.svc.ImportBillDraft(id, scan.Tokens)
	require.NoError(t, err)
	require.Len(t, view.State.Form.Items, 2)
	assert.Equal(t, "milk tea", view.State.Form.Items[0].Label)
	assert.Equal(t, "4.50", view.State.Form.Items[0].Price)
	assert.Equal(t, "3", view.State.Form.Items[1].Amount)
	assert.False(t, view.State.Modal.IsShown)
	assert.Equal(t, "12.60", view.TotalCost)
}

func TestExpenseService_ScanReceipt_Errors(t *testing.T) {
	t.Run("recognizer error", func(t *testing.T) {
		f := newFixture(t, stubRecognizer{err: errors.New("tesseract missing")})
		_, err := f.svc.ScanReceipt(context.Background(), []byte("png"))
		assert.ErrorContains(t, err, "tesseract missing")
	})

	t.Run("no recognizer", func(t *testing.T) {
		svc := NewExpenseService(Deps{})
		_, err := svc.ScanReceipt(context.Background(), nil)
		assert.ErrorIs(t, err, ErrNoRecognizer)
	})
}

func TestExpenseService_Submit(t *testing.T) {
	f := newFixture(t, stubRecognizer{})
	id := f.svc.CreateForm().ID

	for _, a := range []expense.Action{
		expense.SetField{Field: expense.FieldEmail, Value: "me@example.com"},
		expense.SetField{Field: expense.FieldType, Value: "Grocery"},
		expense.SetField{Field: expense.FieldPaidBy, Value: string(ration.Payer2)},
	} {
		_, err := f.svc.Dispatch(id, a)
		require.NoError(t, err)
	}
	addItem(t, f.svc, id, "Tea", "3.5", "2")

	result, err := f.svc.Submit(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, result.Res)

	require.Len(t, f.appender.rows, 1)
	row := f.appender.rows[0]
	assert.Equal(t, "07/03/2024 02:05:09", row[0])
	assert.Equal(t, "me@example.com", row[1])
	assert.Equal(t, "2x Tea RM3.50", row[6])
	assert.Equal(t, "7", row[8])

	email, err := f.repo.GetPreference(storage.PreferenceUserEmail)
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", email)

	saved := f.repo.LastSavedSubmission
	require.NotNil(t, saved)
	assert.Equal(t, storage.StatusSent, saved.Status)
	assert.Equal(t, "7.00", saved.TotalCost)
	assert.Equal(t, result.SubmissionID, saved.ID)

	// Session is reset and keeps the remembered email
	assert.Empty(t, result.Form.State.Form.Items)
	assert.Empty(t, result.Form.State.Form.Type)
	assert.Equal(t, "me@example.com", result.Form.State.Form.Email)
}

func TestExpenseService_Submit_KeepsFirstRememberedEmail(t *testing.T) {
	f := newFixture(t, stubRecognizer{})
	require.NoError(t, f.repo.SetPreference(storage.PreferenceUserEmail, "first@example.com"))
	id := f.svc.CreateForm().ID

	_, err := f.svc.Dispatch(id, expense.SetField{Field: expense.FieldEmail, Value: "other@example.com"})
	require.NoError(t, err)

	_, err = f.svc.Submit(context.Background(), id)
	require.NoError(t, err)

	email, err := f.repo.GetPreference(storage.PreferenceUserEmail)
	require.NoError(t, err)
	assert.Equal(t, "first@example.com", email)
}

func TestExpenseService_Submit_AppendFailure(t *testing.T) {
	f := newFixture(t, stubRecognizer{})
	f.appender.err = errors.New("quota exceeded")
	id := f.svc.CreateForm().ID
	addItem(t, f.svc, id, "Tea", "3.5", "2")

	result, err := f.svc.Submit(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, result.Res)
	assert.Equal(t, "quota exceeded", result.Error)

	// Form is kept for a retry
	view, err := f.svc.GetForm(id)
	require.NoError(t, err)
	assert.Len(t, view.State.Form.Items, 1)

	require.NotNil(t, f.repo.LastSavedSubmission)
	assert.Equal(t, storage.StatusFailed, f.repo.LastSavedSubmission.Status)
}

func TestExpenseService_Submit_StorageFailureStillSucceeds(t *testing.T) {
	f := newFixture(t, stubRecognizer{})
	f.repo.SaveSubmissionErr = errors.New("disk full")
	id := f.svc.CreateForm().ID

	result, err := f.svc.Submit(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, result.Res)
	assert.Len(t, f.appender.rows, 1)
}

func TestExpenseService_DiscardAndCleanup(t *testing.T) {
	f := newFixture(t, stubRecognizer{})
	first := f.svc.CreateForm().ID
	second := f.svc.CreateForm().ID

	require.NoError(t, f.svc.DiscardForm(first))
	assert.Equal(t, 1, f.svc.ActiveForms())

	*f.clock = testNow.Add(2 * time.Hour)
	assert.Equal(t, 0, f.svc.CleanupIdleForms(3*time.Hour))
	assert.Equal(t, 1, f.svc.CleanupIdleForms(time.Hour))

	_, err := f.svc.GetForm(second)
	assert.ErrorIs(t, err, ErrFormNotFound)
}

func TestExpenseService_BackgroundCleanupStops(t *testing.T) {
	f := newFixture(t, stubRecognizer{})
	f.svc.StartBackgroundCleanup(time.Millisecond, time.Hour)
	f.svc.StopBackgroundCleanup()
	f.svc.StopBackgroundCleanup()
}

func TestExpenseService_ConcurrentDispatch(t *testing.T) {
	f := newFixture(t, stubRecognizer{})
	id := f.svc.CreateForm().ID

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Dispatch(id, expense.ImportItems{Items: []expense.LineItem{
				{ID: "x", Label: "a", Price: "1", Amount: "1"},
			}})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	view, err := f.svc.GetForm(id)
	require.NoError(t, err)
	assert.Len(t, view.State.Form.Items, 20)
	assert.Equal(t, "20.00", view.TotalCost)
}
