package expense

import "github.com/eshaffer321/ration-form/internal/domain/ration"

// Action is a state transition request. The set of actions is closed; only
// types in this package implement it.
type Action interface {
	// Kind is the action's wire name.
	Kind() string
	action()
}

// Field names a top-level scalar field of Form.
type Field string

const (
	FieldEmail       Field = "email"
	FieldDate        Field = "date"
	FieldVendor      Field = "vendor"
	FieldLocation    Field = "location"
	FieldType        Field = "type"
	FieldDescription Field = "description"
	FieldPaidBy      Field = "paid_by"
	FieldClearance   Field = "clearance"
)

// DraftField names a field of the in-progress line item.
type DraftField string

const (
	DraftLabel  DraftField = "label"
	DraftPrice  DraftField = "price"
	DraftAmount DraftField = "amount"
)

// ErrorField names a field that can be flagged invalid.
type ErrorField string

const ErrorItemDraft ErrorField = "itemDraft"

// SetField replaces one top-level field. No validation is done.
type SetField struct {
	Field Field
	Value string
}

// SetDraftField updates the item draft and clears its error flag.
type SetDraftField struct {
	Field DraftField
	Value string
}

// AddDraftItem formats the draft price, appends the draft as an item and
// starts a fresh draft. Callers check ValidateDraft first.
type AddDraftItem struct{}

// ImportItems appends items as-is, typically from a scanned receipt.
type ImportItems struct {
	Items []LineItem
}

// RemoveItem drops an item and reconciles the ration with the smaller bill.
type RemoveItem struct {
	ID string
}

// SetRationAmount sets a payer's amount, subject to the ration rules.
type SetRationAmount struct {
	Payer ration.Payer
	Value string
}

// StepRationAmount moves a payer's amount one rung along the step ladder and
// applies it like SetRationAmount.
type StepRationAmount struct {
	Payer     ration.Payer
	Direction ration.Direction
}

// ChangeRationUnit switches a payer's unit and zeroes its amount.
type ChangeRationUnit struct {
	Payer ration.Payer
	Unit  ration.Unit
}

// ApplyRationPreset replaces the ration when the bill is non-empty.
type ApplyRationPreset struct {
	Preset ration.Map
}

// ResetRation restores the all-zero ration.
type ResetRation struct{}

// FlagError marks a field invalid until its next edit.
type FlagError struct {
	Field ErrorField
}

// ShowModal opens the modal in Mode, or hides it for ModalNone.
type ShowModal struct {
	Mode ModalMode
}

// Reset discards the whole form, items and draft included.
type Reset struct{}

func (SetField) Kind() string          { return "input" }
func (SetDraftField) Kind() string     { return "item/input" }
func (AddDraftItem) Kind() string      { return "item/add" }
func (ImportItems) Kind() string       { return "item/ocr_add" }
func (RemoveItem) Kind() string        { return "item/remove" }
func (SetRationAmount) Kind() string   { return "ration/input" }
func (StepRationAmount) Kind() string  { return "ration/step" }
func (ChangeRationUnit) Kind() string  { return "ration/change_unit" }
func (ApplyRationPreset) Kind() string { return "ration/preset_input" }
func (ResetRation) Kind() string       { return "ration/reset" }
func (FlagError) Kind() string         { return "error" }
func (ShowModal) Kind() string         { return "modal" }
func (Reset) Kind() string             { return "reset" }

func (SetField) action()          {}
func (SetDraftField) action()     {}
func (AddDraftItem) action()      {}
func (ImportItems) action()       {}
func (RemoveItem) action()        {}
func (SetRationAmount) action()   {}
func (StepRationAmount) action()  {}
func (ChangeRationUnit) action()  {}
func (ApplyRationPreset) action() {}
func (ResetRation) action()       {}
func (FlagError) action()         {}
func (ShowModal) action()         {}
func (Reset) action()             {}
