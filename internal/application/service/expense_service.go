// Package service drives expense form sessions and their side effects.
package service

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eshaffer321/ration-form/internal/adapters/ocr"
	"github.com/eshaffer321/ration-form/internal/adapters/spreadsheet"
	"github.com/eshaffer321/ration-form/internal/domain/expense"
	"github.com/eshaffer321/ration-form/internal/domain/money"
	"github.com/eshaffer321/ration-form/internal/domain/ration"
	"github.com/eshaffer321/ration-form/internal/infrastructure/storage"
	"github.com/eshaffer321/ration-form/internal/observability/metrics"
)

// ErrFormNotFound is returned for an unknown or discarded form ID.
var ErrFormNotFound = errors.New("form not found")

// DefaultSessionIdleTimeout is how long an untouched form session is kept.
const DefaultSessionIdleTimeout = 24 * time.Hour

// View is a form state plus the figures derived from it.
type View struct {
	ID                   string           `json:"id"`
	State                expense.State    `json:"state"`
	TotalCost            string           `json:"total_cost"`
	Breakdown            ration.Breakdown `json:"breakdown"`
	EffectivePercentages ration.Shares    `json:"effective_percentages"`
	Owed                 ration.Amounts   `json:"owed"`
}

func newView(id string, s expense.State) View {
	total := s.Form.TotalCost()
	return View{
		ID:                   id,
		State:                s,
		TotalCost:            money.FormatCurrency(total),
		Breakdown:            ration.Summarize(s.Form.Ration),
		EffectivePercentages: ration.EffectivePercentages(s.Form.Ration, total),
		Owed:                 ration.Owed(s.Form.Ration, total),
	}
}

// session is one form being edited. Its mutex serializes dispatch.
type session struct {
	mu        sync.Mutex
	store     *expense.Store
	touchedAt time.Time
}

// Deps are the collaborators of an ExpenseService.
type Deps struct {
	Machine    *expense.Machine
	Recognizer ocr.Recognizer
	Appender   spreadsheet.Appender
	Storage    storage.Repository
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
	Clock      func() time.Time
	NewID      func() string
}

// ExpenseService manages form sessions.
type ExpenseService struct {
	machine    *expense.Machine
	recognizer ocr.Recognizer
	appender   spreadsheet.Appender
	storage    storage.Repository
	metrics    *metrics.Metrics
	logger     *slog.Logger
	now        func() time.Time
	newID      func() string

	sessions      map[string]*session
	sessionsMutex sync.RWMutex

	// Background cleanup
	cleanupStop chan struct{}
	cleanupDone chan struct{}
}

// NewExpenseService creates a service. Zero-valued deps get defaults:
// a fresh Machine, the wall clock, UUIDs and the default logger.
func NewExpenseService(deps Deps) *ExpenseService {
	s := &ExpenseService{
		machine:    deps.Machine,
		recognizer: deps.Recognizer,
		appender:   deps.Appender,
		storage:    deps.Storage,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
		now:        deps.Clock,
		newID:      deps.NewID,
		sessions:   make(map[string]*session),
	}
	if s.machine == nil {
		s.machine = expense.NewMachine()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}

// CreateForm opens a new session at the initial state, prefilled with the
// remembered email when there is one.
func (s *ExpenseService) CreateForm() View {
	id := s.newID()
	store := expense.NewStore(s.machine, s.initialState())

	s.sessionsMutex.Lock()
	s.sessions[id] = &session{store: store, touchedAt: s.now()}
	count := len(s.sessions)
	s.sessionsMutex.Unlock()

	s.metrics.SetActiveForms(count)
	s.logger.Info("form created", "form_id", id)
	return newView(id, store.State())
}

// initialState is the machine's initial state with the remembered email.
func (s *ExpenseService) initialState() expense.State {
	state := s.machine.Initial()
	if email := s.rememberedEmail(); email != "" {
		state = s.machine.Reduce(state, expense.SetField{Field: expense.FieldEmail, Value: email})
	}
	return state
}

func (s *ExpenseService) rememberedEmail() string {
	if s.storage == nil {
		return ""
	}
	email, err := s.storage.GetPreference(storage.PreferenceUserEmail)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("failed to read remembered email", "error", err)
		}
		return ""
	}
	return email
}

// GetForm returns the current view of a session.
func (s *ExpenseService) GetForm(id string) (View, error) {
	sess, err := s.session(id)
	if err != nil {
		return View{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return newView(id, sess.store.State()), nil
}

// DiscardForm drops a session.
func (s *ExpenseService) DiscardForm(id string) error {
	s.sessionsMutex.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	count := len(s.sessions)
	s.sessionsMutex.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrFormNotFound, id)
	}
	s.metrics.SetActiveForms(count)
	s.logger.Info("form discarded", "form_id", id)
	return nil
}

// Dispatch applies one action to a session.
func (s *ExpenseService) Dispatch(id string, a expense.Action) (View, error) {
	sess, err := s.session(id)
	if err != nil {
		return View{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	state := s.dispatchLocked(sess, a)
	return newView(id, state), nil
}

// CommitDraft appends the item draft when it is complete and flags the
// draft as invalid otherwise.
func (s *ExpenseService) CommitDraft(id string) (View, error) {
	sess, err := s.session(id)
	if err != nil {
		return View{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	var a expense.Action = expense.AddDraftItem{}
	if !expense.ValidateDraft(sess.store.State().Form.ItemDraft) {
		a = expense.FlagError{Field: expense.ErrorItemDraft}
	}
	return newView(id, s.dispatchLocked(sess, a)), nil
}

// dispatchLocked runs a against a session whose mutex is held.
func (s *ExpenseService) dispatchLocked(sess *session, a expense.Action) expense.State {
	before := sess.store.State().Form.Ration
	state := sess.store.Dispatch(a)
	sess.touchedAt = s.now()

	s.metrics.ObserveAction(a.Kind())
	if isRationEdit(a) && state.Form.Ration == before {
		s.metrics.ObserveRationRejection(a.Kind())
		s.logger.Debug("ration edit left unapplied", "action", a.Kind())
	}
	return state
}

func isRationEdit(a expense.Action) bool {
	switch a.(type) {
	case expense.SetRationAmount, expense.StepRationAmount, expense.ApplyRationPreset:
		return true
	}
	return false
}

func (s *ExpenseService) session(id string) (*session, error) {
	s.sessionsMutex.RLock()
	defer s.sessionsMutex.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFormNotFound, id)
	}
	return sess, nil
}

// ActiveForms returns the number of open sessions.
func (s *ExpenseService) ActiveForms() int {
	s.sessionsMutex.RLock()
	defer s.sessionsMutex.RUnlock()
	return len(s.sessions)
}

// CleanupIdleForms removes sessions untouched for longer than maxIdle.
func (s *ExpenseService) CleanupIdleForms(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)

	s.sessionsMutex.Lock()
	removed := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := sess.touchedAt.Before(cutoff)
		sess.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			removed++
		}
	}
	count := len(s.sessions)
	s.sessionsMutex.Unlock()

	if removed > 0 {
		s.metrics.SetActiveForms(count)
		s.logger.Debug("cleaned up idle forms", "removed", removed)
	}
	return removed
}

// StartBackgroundCleanup periodically drops idle sessions.
// Call StopBackgroundCleanup to stop it.
func (s *ExpenseService) StartBackgroundCleanup(checkInterval, maxIdle time.Duration) {
	s.cleanupStop = make(chan struct{})
	s.cleanupDone = make(chan struct{})

	go func() {
		defer close(s.cleanupDone)

		ticker := time.NewTicker(checkInterval)
		defer ticker.Stop()

		s.logger.Info("background form cleanup started",
			"check_interval", checkInterval,
			"max_idle", maxIdle,
		)

		for {
			select {
			case <-s.cleanupStop:
				s.logger.Info("background form cleanup stopped")
				return
			case <-ticker.C:
				s.CleanupIdleForms(maxIdle)
			}
		}
	}()
}

// StopBackgroundCleanup stops the cleanup goroutine and waits for it to exit.
func (s *ExpenseService) StopBackgroundCleanup() {
	if s.cleanupStop == nil {
		return
	}
	close(s.cleanupStop)
	<-s.cleanupDone
	s.cleanupStop = nil
}

// totalOf is the plain decimal string stored with a submission.
func totalOf(form expense.Form) string {
	return form.TotalCost().StringFixed(2)
}
