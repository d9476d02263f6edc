// Package ration keeps the four-payer cost split of a bill consistent with
// the bill's total cost.
//
// Each payer carries an Entry that is either a percentage share or a fixed
// subsidy in currency. Fixed subsidies take precedence: they come off the
// bill first and percentage shares apply to what remains. Every operation in
// this package is a pure transform that takes a Map and returns a new one;
// rejected edits return the input unchanged.
package ration

import (
	"encoding/json"
	"fmt"
)

// Unit is how a payer's amount is interpreted.
type Unit string

const (
	// Percent means the amount is a share of the bill in percent.
	Percent Unit = "%"
	// FixedAmount means the amount is a subsidy in currency.
	FixedAmount Unit = "RM"
)

// Valid reports whether u is a known unit.
func (u Unit) Valid() bool {
	return u == Percent || u == FixedAmount
}

// Payer is one of the four fixed identities a bill can be split between.
type Payer string

const (
	Payer1 Payer = "Name #1"
	Payer2 Payer = "Name #2"
	Payer3 Payer = "Name #3"
	Payer4 Payer = "Name #4"
)

// PayerCount is the number of payers in every Map.
const PayerCount = 4

var payers = [PayerCount]Payer{Payer1, Payer2, Payer3, Payer4}

// Payers returns the payers in their fixed display order.
func Payers() []Payer {
	out := make([]Payer, PayerCount)
	copy(out, payers[:])
	return out
}

// ParsePayer returns the payer named s.
func ParsePayer(s string) (Payer, bool) {
	p := Payer(s)
	_, ok := p.index()
	return p, ok
}

func (p Payer) index() (int, bool) {
	for i, candidate := range payers {
		if candidate == p {
			return i, true
		}
	}
	return 0, false
}

// Entry is one payer's allocation.
type Entry struct {
	Amount string `json:"amount"`
	Unit   Unit   `json:"unit"`
}

func (e Entry) subsidy() bool {
	return e.Unit == FixedAmount
}

// String renders the entry the way the spreadsheet stores it, e.g. "25%".
func (e Entry) String() string {
	return e.Amount + string(e.Unit)
}

// Map holds one Entry per payer, in payer order. It is a value type: copying
// a Map copies every entry.
type Map [PayerCount]Entry

// Initial returns the all-zero, all-percent map.
func Initial() Map {
	var m Map
	for i := range m {
		m[i] = Entry{Amount: "0", Unit: Percent}
	}
	return m
}

// Get returns the entry for p. Unknown payers get the zero Entry.
func (m Map) Get(p Payer) Entry {
	i, ok := p.index()
	if !ok {
		return Entry{}
	}
	return m[i]
}

// With returns a copy of m with p's entry replaced.
func (m Map) With(p Payer, e Entry) Map {
	i, ok := p.index()
	if !ok {
		return m
	}
	m[i] = e
	return m
}

// Strings returns each entry's spreadsheet form in payer order.
func (m Map) Strings() []string {
	out := make([]string, PayerCount)
	for i, e := range m {
		out[i] = e.String()
	}
	return out
}

// MarshalJSON encodes the map as an object keyed by payer name.
func (m Map) MarshalJSON() ([]byte, error) {
	obj := make(map[Payer]Entry, PayerCount)
	for i, p := range payers {
		obj[p] = m[i]
	}
	return json.Marshal(obj)
}

// UnmarshalJSON decodes an object keyed by payer name. Payers missing from
// the object keep their initial zero entry.
func (m *Map) UnmarshalJSON(data []byte) error {
	var obj map[string]Entry
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	next := Initial()
	for key, entry := range obj {
		p, ok := ParsePayer(key)
		if !ok {
			return fmt.Errorf("unknown payer %q", key)
		}
		if entry.Unit == "" {
			entry.Unit = Percent
		}
		if !entry.Unit.Valid() {
			return fmt.Errorf("payer %q: unknown unit %q", key, entry.Unit)
		}
		if entry.Amount == "" {
			entry.Amount = "0"
		}
		next = next.With(p, entry)
	}

	*m = next
	return nil
}
