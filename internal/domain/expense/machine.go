package expense

import (
	"time"

	"github.com/google/uuid"

	"github.com/eshaffer321/ration-form/internal/domain/money"
	"github.com/eshaffer321/ration-form/internal/domain/ration"
)

// Machine reduces actions over State. It owns the clock and ID source used
// for fresh drafts and the default date, so Reduce stays deterministic under
// test.
type Machine struct {
	newID func() string
	now   func() time.Time
}

// Option configures a Machine.
type Option func(*Machine)

// WithIDGenerator overrides the draft ID source (default: random UUIDs).
func WithIDGenerator(fn func() string) Option {
	return func(m *Machine) { m.newID = fn }
}

// WithClock overrides the clock used for the default date.
func WithClock(fn func() time.Time) Option {
	return func(m *Machine) { m.now = fn }
}

// NewMachine creates a Machine.
func NewMachine(opts ...Option) *Machine {
	m := &Machine{
		newID: uuid.NewString,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewDraft returns an empty line item with a fresh ID.
func (m *Machine) NewDraft() LineItem {
	return LineItem{ID: m.newID()}
}

// Initial returns the default state: today's date, no items, an empty
// draft, the zero ration and a hidden modal.
func (m *Machine) Initial() State {
	return State{
		Form: Form{
			Date:      m.now().Format("2006-01-02"),
			Items:     []LineItem{},
			ItemDraft: m.NewDraft(),
			Ration:    ration.Initial(),
		},
	}
}

// Reduce applies a to s and returns the next state. Unknown or refused
// actions return s unchanged.
func (m *Machine) Reduce(s State, a Action) State {
	total := s.Form.TotalCost()

	switch a := a.(type) {
	case SetField:
		return setField(s, a)

	case SetDraftField:
		switch a.Field {
		case DraftLabel:
			s.Form.ItemDraft.Label = a.Value
		case DraftPrice:
			s.Form.ItemDraft.Price = a.Value
		case DraftAmount:
			s.Form.ItemDraft.Amount = a.Value
		default:
			return s
		}
		s.Errors.ItemDraft = false
		return s

	case AddDraftItem:
		item := s.Form.ItemDraft
		item.Price = money.FormatString(item.Price)
		s.Form.Items = appendItems(s.Form.Items, item)
		s.Form.ItemDraft = m.NewDraft()
		s.Errors.ItemDraft = false
		return s

	case ImportItems:
		s.Form.Items = appendItems(s.Form.Items, a.Items...)
		return s

	case RemoveItem:
		next := make([]LineItem, 0, len(s.Form.Items))
		for _, item := range s.Form.Items {
			if item.ID != a.ID {
				next = append(next, item)
			}
		}
		s.Form.Items = next
		s.Form.Ration = ration.OnItemRemoved(s.Form.Ration, TotalCost(next))
		return s

	case SetRationAmount:
		s.Form.Ration = ration.SetAmount(s.Form.Ration, total, a.Payer, a.Value)
		return s

	case StepRationAmount:
		current := money.Parse(s.Form.Ration.Get(a.Payer).Amount)
		value := ration.Step(current, a.Direction).String()
		s.Form.Ration = ration.SetAmount(s.Form.Ration, total, a.Payer, value)
		return s

	case ChangeRationUnit:
		s.Form.Ration = ration.ChangeUnit(s.Form.Ration, a.Payer, a.Unit)
		return s

	case ApplyRationPreset:
		s.Form.Ration = ration.ApplyPreset(s.Form.Ration, total, a.Preset)
		return s

	case ResetRation:
		s.Form.Ration = ration.Reset()
		return s

	case FlagError:
		if a.Field == ErrorItemDraft {
			s.Errors.ItemDraft = true
		}
		return s

	case ShowModal:
		s.Modal = Modal{IsShown: a.Mode != ModalNone, Mode: a.Mode}
		return s

	case Reset:
		return m.Initial()
	}

	return s
}

func setField(s State, a SetField) State {
	switch a.Field {
	case FieldEmail:
		s.Form.Email = a.Value
	case FieldDate:
		s.Form.Date = a.Value
	case FieldVendor:
		s.Form.Vendor = a.Value
	case FieldLocation:
		s.Form.Location = a.Value
	case FieldType:
		s.Form.Type = a.Value
	case FieldDescription:
		s.Form.Description = a.Value
	case FieldPaidBy:
		s.Form.PaidBy = ration.Payer(a.Value)
	case FieldClearance:
		s.Form.Clearance = Clearance(a.Value)
	}
	return s
}

// appendItems never writes into items' backing array.
func appendItems(items []LineItem, more ...LineItem) []LineItem {
	next := make([]LineItem, 0, len(items)+len(more))
	next = append(next, items...)
	return append(next, more...)
}
