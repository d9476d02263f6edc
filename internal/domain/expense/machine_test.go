package expense

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/ration-form/internal/domain/ration"
)

func newTestMachine() *Machine {
	n := 0
	return NewMachine(
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
		WithClock(func() time.Time {
			return time.Date(2024, time.March, 7, 10, 0, 0, 0, time.UTC)
		}),
	)
}

func reduceAll(m *Machine, s State, actions ...Action) State {
	for _, a := range actions {
		s = m.Reduce(s, a)
	}
	return s
}

func TestInitial(t *testing.T) {
	m := newTestMachine()
	s := m.Initial()

	assert.Equal(t, "2024-03-07", s.Form.Date)
	assert.Empty(t, s.Form.Items)
	assert.Equal(t, "id-1", s.Form.ItemDraft.ID)
	assert.Equal(t, ration.Initial(), s.Form.Ration)
	assert.False(t, s.Modal.IsShown)
	assert.False(t, s.Errors.ItemDraft)
}

func TestReduce_SetField(t *testing.T) {
	m := newTestMachine()
	s := reduceAll(m, m.Initial(),
		SetField{Field: FieldEmail, Value: "me@example.com"},
		SetField{Field: FieldVendor, Value: "Vendor #2"},
		SetField{Field: FieldLocation, Value: "Location #5"},
		SetField{Field: FieldType, Value: "Food"},
		SetField{Field: FieldDescription, Value: "lunch"},
		SetField{Field: FieldPaidBy, Value: "Name #2"},
		SetField{Field: FieldClearance, Value: "Partial"},
		SetField{Field: FieldDate, Value: "2024-01-31"},
	)

	assert.Equal(t, "me@example.com", s.Form.Email)
	assert.Equal(t, "Vendor #2", s.Form.Vendor)
	assert.Equal(t, "Location #5", s.Form.Location)
	assert.Equal(t, "Food", s.Form.Type)
	assert.Equal(t, "lunch", s.Form.Description)
	assert.Equal(t, ration.Payer2, s.Form.PaidBy)
	assert.Equal(t, ClearancePartial, s.Form.Clearance)
	assert.Equal(t, "2024-01-31", s.Form.Date)

	unchanged := m.Reduce(s, SetField{Field: Field("nope"), Value: "x"})
	assert.Equal(t, s, unchanged)
}

func TestReduce_DraftEditClearsError(t *testing.T) {
	m := newTestMachine()
	s := m.Reduce(m.Initial(), FlagError{Field: ErrorItemDraft})
	require.True(t, s.Errors.ItemDraft)

	s = m.Reduce(s, SetDraftField{Field: DraftLabel, Value: "Milk"})

	assert.False(t, s.Errors.ItemDraft)
	assert.Equal(t, "Milk", s.Form.ItemDraft.Label)
}

func TestReduce_AddDraftItem(t *testing.T) {
	m := newTestMachine()
	s := reduceAll(m, m.Initial(),
		SetDraftField{Field: DraftLabel, Value: "Rice"},
		SetDraftField{Field: DraftPrice, Value: "1234.5"},
		SetDraftField{Field: DraftAmount, Value: "2"},
		AddDraftItem{},
	)

	require.Len(t, s.Form.Items, 1)
	assert.Equal(t, LineItem{ID: "id-1", Label: "Rice", Price: "1,234.50", Amount: "2"}, s.Form.Items[0])
	assert.Equal(t, LineItem{ID: "id-2"}, s.Form.ItemDraft)
	assert.True(t, decimal.RequireFromString("2469").Equal(s.Form.TotalCost()))
}

func TestReduce_ImportItems(t *testing.T) {
	m := newTestMachine()
	s := m.Reduce(m.Initial(), ImportItems{Items: []LineItem{
		{ID: "a", Label: "Tea", Price: "2.00", Amount: "1"},
		{ID: "b", Label: "Cake", Price: "not-a-price", Amount: "1"},
	}})

	require.Len(t, s.Form.Items, 2)
	assert.Equal(t, "not-a-price", s.Form.Items[1].Price, "imported as-is")
	assert.True(t, decimal.RequireFromString("2").Equal(s.Form.TotalCost()))
}

func TestReduce_RemoveItem(t *testing.T) {
	m := newTestMachine()
	withItems := m.Reduce(m.Initial(), ImportItems{Items: []LineItem{
		{ID: "a", Label: "A", Price: "30", Amount: "1"},
		{ID: "b", Label: "B", Price: "10", Amount: "1"},
	}})

	t.Run("fully subsidised bill loses its subsidy when it shrinks", func(t *testing.T) {
		s := reduceAll(m, withItems,
			ChangeRationUnit{Payer: ration.Payer1, Unit: ration.FixedAmount},
			SetRationAmount{Payer: ration.Payer1, Value: "40"},
		)
		require.Equal(t, "40", s.Form.Ration.Get(ration.Payer1).Amount)

		s = m.Reduce(s, RemoveItem{ID: "a"})

		require.Len(t, s.Form.Items, 1)
		assert.Equal(t, ration.Entry{Amount: "0", Unit: ration.FixedAmount}, s.Form.Ration.Get(ration.Payer1))
	})

	t.Run("covered subsidy survives", func(t *testing.T) {
		s := reduceAll(m, withItems,
			ChangeRationUnit{Payer: ration.Payer1, Unit: ration.FixedAmount},
			SetRationAmount{Payer: ration.Payer1, Value: "5"},
			SetRationAmount{Payer: ration.Payer2, Value: "50"},
		)

		s = m.Reduce(s, RemoveItem{ID: "a"})

		assert.Equal(t, "5", s.Form.Ration.Get(ration.Payer1).Amount)
		assert.Equal(t, "50", s.Form.Ration.Get(ration.Payer2).Amount)
	})

	t.Run("removing the last item resets the ration", func(t *testing.T) {
		s := reduceAll(m, withItems,
			ChangeRationUnit{Payer: ration.Payer1, Unit: ration.FixedAmount},
			SetRationAmount{Payer: ration.Payer1, Value: "5"},
			SetRationAmount{Payer: ration.Payer2, Value: "50"},
			RemoveItem{ID: "a"},
			RemoveItem{ID: "b"},
		)

		assert.Empty(t, s.Form.Items)
		assert.Equal(t, ration.Initial(), s.Form.Ration)
	})

	t.Run("input state is not modified", func(t *testing.T) {
		_ = m.Reduce(withItems, RemoveItem{ID: "a"})
		require.Len(t, withItems.Form.Items, 2)
		assert.Equal(t, "a", withItems.Form.Items[0].ID)
	})
}

func TestReduce_RationActions(t *testing.T) {
	m := newTestMachine()
	s := m.Reduce(m.Initial(), ImportItems{Items: []LineItem{{ID: "a", Label: "A", Price: "100", Amount: "1"}}})

	s = m.Reduce(s, SetRationAmount{Payer: ration.Payer1, Value: "30"})
	assert.Equal(t, "30", s.Form.Ration.Get(ration.Payer1).Amount)

	refused := m.Reduce(s, SetRationAmount{Payer: ration.Payer2, Value: "80"})
	assert.Equal(t, s, refused)

	s = m.Reduce(s, StepRationAmount{Payer: ration.Payer2, Direction: ration.Increase})
	assert.Equal(t, "25", s.Form.Ration.Get(ration.Payer2).Amount)

	s = m.Reduce(s, StepRationAmount{Payer: ration.Payer1, Direction: ration.Decrease})
	assert.Equal(t, "25", s.Form.Ration.Get(ration.Payer1).Amount)

	s = m.Reduce(s, ChangeRationUnit{Payer: ration.Payer1, Unit: ration.FixedAmount})
	assert.Equal(t, ration.Entry{Amount: "0", Unit: ration.FixedAmount}, s.Form.Ration.Get(ration.Payer1))

	preset, _ := ration.PresetByLabel("Preset #1")
	s = m.Reduce(s, ApplyRationPreset{Preset: preset.Ration})
	assert.Equal(t, preset.Ration, s.Form.Ration)

	s = m.Reduce(s, ResetRation{})
	assert.Equal(t, ration.Initial(), s.Form.Ration)
}

func TestReduce_PresetIgnoredOnEmptyBill(t *testing.T) {
	m := newTestMachine()
	preset, _ := ration.PresetByLabel("Preset #4")

	s := m.Reduce(m.Initial(), ApplyRationPreset{Preset: preset.Ration})

	assert.Equal(t, ration.Initial(), s.Form.Ration)
}

func TestReduce_Modal(t *testing.T) {
	m := newTestMachine()

	s := m.Reduce(m.Initial(), ShowModal{Mode: ModalUploadReceipt})
	assert.Equal(t, Modal{IsShown: true, Mode: ModalUploadReceipt}, s.Modal)

	s = m.Reduce(s, ShowModal{Mode: ModalNone})
	assert.Equal(t, Modal{IsShown: false, Mode: ModalNone}, s.Modal)
}

func TestReduce_Reset(t *testing.T) {
	m := newTestMachine()
	s := reduceAll(m, m.Initial(),
		SetField{Field: FieldVendor, Value: "Vendor #1"},
		SetDraftField{Field: DraftLabel, Value: "half typed"},
		ImportItems{Items: []LineItem{{ID: "a", Label: "A", Price: "1", Amount: "1"}}},
		ShowModal{Mode: ModalType},
		Reset{},
	)

	assert.Empty(t, s.Form.Vendor)
	assert.Empty(t, s.Form.Items)
	assert.Empty(t, s.Form.ItemDraft.Label)
	assert.False(t, s.Modal.IsShown)
}

func TestValidateDraft(t *testing.T) {
	assert.True(t, ValidateDraft(LineItem{Label: "a", Price: "1", Amount: "1"}))
	assert.False(t, ValidateDraft(LineItem{Price: "1", Amount: "1"}))
	assert.False(t, ValidateDraft(LineItem{Label: "a", Amount: "1"}))
	assert.False(t, ValidateDraft(LineItem{Label: "a", Price: "1"}))
}

func TestTotalCost(t *testing.T) {
	items := []LineItem{
		{Price: "2.50", Amount: "4"},
		{Price: "1,000.00", Amount: "1"},
		{Price: "", Amount: "3"},
	}
	assert.True(t, decimal.RequireFromString("1010").Equal(TotalCost(items)))
}

func TestStore(t *testing.T) {
	m := newTestMachine()
	store := NewStore(m, m.Initial())

	s := store.Dispatch(ImportItems{Items: []LineItem{{ID: "a", Label: "A", Price: "1", Amount: "1"}}})
	require.Len(t, s.Form.Items, 1)

	// Mutating a returned snapshot must not leak into the store.
	s.Form.Items[0].Label = "tampered"
	assert.Equal(t, "A", store.State().Form.Items[0].Label)
}
