package dto

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/eshaffer321/ration-form/internal/domain/billdraft"
	"github.com/eshaffer321/ration-form/internal/domain/expense"
	"github.com/eshaffer321/ration-form/internal/domain/ration"
)

// ActionRequest is one form action on the wire:
//
//	{"type": "ration/input", "payload": {"key": "Name #1", "value": "50"}}
type ActionRequest struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// keyValue is the payload shape of the field and ration actions.
type keyValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ToAction decodes the request into a form action. Unknown types and
// malformed payloads are reported as validation errors.
func (r ActionRequest) ToAction() (expense.Action, error) {
	switch r.Type {
	case "input":
		kv, err := r.keyValue()
		if err != nil {
			return nil, err
		}
		return expense.SetField{Field: expense.Field(kv.Key), Value: kv.Value}, nil

	case "item/input":
		kv, err := r.keyValue()
		if err != nil {
			return nil, err
		}
		return expense.SetDraftField{Field: expense.DraftField(kv.Key), Value: kv.Value}, nil

	case "item/add":
		return expense.AddDraftItem{}, nil

	case "item/ocr_add":
		var items []expense.LineItem
		if err := r.decode(&items); err != nil {
			return nil, err
		}
		return expense.ImportItems{Items: items}, nil

	case "item/remove":
		var id string
		if err := r.decode(&id); err != nil {
			return nil, err
		}
		return expense.RemoveItem{ID: id}, nil

	case "ration/input":
		kv, err := r.keyValue()
		if err != nil {
			return nil, err
		}
		payer, err := parsePayer(kv.Key)
		if err != nil {
			return nil, err
		}
		return expense.SetRationAmount{Payer: payer, Value: kv.Value}, nil

	case "ration/step":
		kv, err := r.keyValue()
		if err != nil {
			return nil, err
		}
		payer, err := parsePayer(kv.Key)
		if err != nil {
			return nil, err
		}
		dir, ok := ration.ParseDirection(kv.Value)
		if !ok {
			return nil, ValidationError(fmt.Sprintf("unknown step direction %q", kv.Value))
		}
		return expense.StepRationAmount{Payer: payer, Direction: dir}, nil

	case "ration/change_unit":
		kv, err := r.keyValue()
		if err != nil {
			return nil, err
		}
		payer, err := parsePayer(kv.Key)
		if err != nil {
			return nil, err
		}
		unit := ration.Unit(kv.Value)
		if !unit.Valid() {
			return nil, ValidationError(fmt.Sprintf("unknown ration unit %q", kv.Value))
		}
		return expense.ChangeRationUnit{Payer: payer, Unit: unit}, nil

	case "ration/preset_input":
		preset, err := r.preset()
		if err != nil {
			return nil, err
		}
		return expense.ApplyRationPreset{Preset: preset}, nil

	case "ration/reset":
		return expense.ResetRation{}, nil

	case "error":
		var field string
		if err := r.decode(&field); err != nil {
			return nil, err
		}
		return expense.FlagError{Field: expense.ErrorField(field)}, nil

	case "modal":
		var mode *string
		if err := r.decode(&mode); err != nil {
			return nil, err
		}
		if mode == nil {
			return expense.ShowModal{Mode: expense.ModalNone}, nil
		}
		return expense.ShowModal{Mode: expense.ModalMode(*mode)}, nil

	case "reset":
		return expense.Reset{}, nil

	case "":
		return nil, ValidationError("action type is required")
	}

	return nil, ValidationError(fmt.Sprintf("unknown action type %q", r.Type))
}

func (r ActionRequest) decode(v any) error {
	if len(bytes.TrimSpace(r.Payload)) == 0 {
		return ValidationError(fmt.Sprintf("%s: payload is required", r.Type))
	}
	if err := json.Unmarshal(r.Payload, v); err != nil {
		return ValidationError(fmt.Sprintf("%s: invalid payload: %v", r.Type, err))
	}
	return nil
}

func (r ActionRequest) keyValue() (keyValue, error) {
	var kv keyValue
	err := r.decode(&kv)
	return kv, err
}

// preset accepts either a full ration object or the label of a built-in preset.
func (r ActionRequest) preset() (ration.Map, error) {
	var label string
	if err := json.Unmarshal(r.Payload, &label); err == nil {
		p, ok := ration.PresetByLabel(label)
		if !ok {
			return ration.Map{}, ValidationError(fmt.Sprintf("unknown preset %q", label))
		}
		return p.Ration, nil
	}
	var m ration.Map
	if err := r.decode(&m); err != nil {
		return ration.Map{}, err
	}
	return m, nil
}

func parsePayer(key string) (ration.Payer, error) {
	p, ok := ration.ParsePayer(key)
	if !ok {
		return "", ValidationError(fmt.Sprintf("unknown payer %q", key))
	}
	return p, nil
}

// BillDraftRequest carries the reviewed tokens of a scanned receipt.
type BillDraftRequest struct {
	Tokens []billdraft.Token `json:"tokens"`
}

// Validate checks every token carries a known classification.
func (r BillDraftRequest) Validate() error {
	for _, tok := range r.Tokens {
		if !tok.Classification.Valid() {
			return ValidationError(fmt.Sprintf("token %q has unknown type %q", tok.ID, tok.Classification))
		}
	}
	return nil
}

// SubmissionListParams represents query parameters for listing submissions.
type SubmissionListParams struct {
	Email    string `json:"email"`
	Type     string `json:"type"`
	Status   string `json:"status"`
	DaysBack int    `json:"days_back"`
	Limit    int    `json:"limit"`
	Offset   int    `json:"offset"`
}
