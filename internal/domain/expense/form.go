// Package expense is the state machine behind the expense form.
//
// State is an immutable snapshot: Machine.Reduce takes the current State and
// one Action and returns a new State. Ration edits are delegated to the
// ration package, which decides whether an edit is committed or refused.
package expense

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/eshaffer321/ration-form/internal/domain/money"
	"github.com/eshaffer321/ration-form/internal/domain/ration"
)

// LineItem is one row of the bill. Price and Amount (quantity) are decimal
// strings.
type LineItem struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Price  string `json:"price"`
	Amount string `json:"amount"`
}

// Cost is price times quantity.
func (i LineItem) Cost() decimal.Decimal {
	return money.Parse(i.Price).Mul(money.Parse(i.Amount))
}

// TotalCost sums the cost of every item.
func TotalCost(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Cost())
	}
	return total
}

// ValidateDraft reports whether a draft can be added: label, price and
// quantity must all be filled in.
func ValidateDraft(item LineItem) bool {
	return item.Label != "" && item.Price != "" && item.Amount != ""
}

// Clearance records whether the expense has been settled between payers.
type Clearance string

const (
	ClearanceUnset     Clearance = ""
	ClearanceYes       Clearance = "Yes"
	ClearancePartial   Clearance = "Partial"
	ClearanceNo        Clearance = "No"
	ClearanceRepayment Clearance = "Repayment"
)

// ModalMode identifies which picker is open. ModalNone hides the modal.
type ModalMode string

const (
	ModalNone           ModalMode = ""
	ModalType           ModalMode = "type"
	ModalPaidBy         ModalMode = "paid_by"
	ModalRationPreset   ModalMode = "ration_preset"
	ModalVendorPreset   ModalMode = "vendor_preset"
	ModalLocationPreset ModalMode = "location_preset"
	ModalUploadReceipt  ModalMode = "upload_receipt"
)

// Modal is UI selection state.
type Modal struct {
	IsShown bool      `json:"is_shown"`
	Mode    ModalMode `json:"mode"`
}

// Form is the expense being edited.
type Form struct {
	Email       string       `json:"email"`
	Date        string       `json:"date"`
	Vendor      string       `json:"vendor"`
	Location    string       `json:"location"`
	Type        string       `json:"type"`
	Items       []LineItem   `json:"items"`
	Description string       `json:"description"`
	ItemDraft   LineItem     `json:"item_draft"`
	PaidBy      ration.Payer `json:"paid_by"`
	Ration      ration.Map   `json:"ration"`
	Clearance   Clearance    `json:"clearance"`
}

// TotalCost is the bill total over the form's items.
func (f Form) TotalCost() decimal.Decimal {
	return TotalCost(f.Items)
}

// Errors flags fields that failed validation.
type Errors struct {
	ItemDraft bool `json:"item_draft"`
}

// State is everything the form reducer owns.
type State struct {
	Form   Form   `json:"form"`
	Modal  Modal  `json:"modal"`
	Errors Errors `json:"errors"`
}

// Clone returns a copy that shares no slices with s.
func (s State) Clone() State {
	s.Form.Items = slices.Clone(s.Form.Items)
	if s.Form.Items == nil {
		s.Form.Items = []LineItem{}
	}
	return s
}
