package ration

import (
	"github.com/shopspring/decimal"

	"github.com/eshaffer321/ration-form/internal/domain/money"
)

// Breakdown sums a map's entries by unit.
type Breakdown struct {
	Percents  decimal.Decimal `json:"percents"`
	Subsidies decimal.Decimal `json:"subsidies"`
}

// Summarize returns the percent and subsidy totals of m.
func Summarize(m Map) Breakdown {
	b := Breakdown{Percents: decimal.Zero, Subsidies: decimal.Zero}
	for _, e := range m {
		amount := money.Parse(e.Amount)
		if e.subsidy() {
			b.Subsidies = b.Subsidies.Add(amount)
		} else {
			b.Percents = b.Percents.Add(amount)
		}
	}
	return b
}

// SetAmount sets p's amount to value against a bill of total.
//
// The edit is refused (m is returned unchanged) when the subsidies would
// exceed the bill, or when percentages would exceed 100 on a bill that is not
// fully subsidised. When the subsidies exactly cover the bill, every percent
// entry is forced to zero.
func SetAmount(m Map, total decimal.Decimal, p Payer, value string) Map {
	i, ok := p.index()
	if !ok {
		return m
	}

	next := m
	next[i].Amount = value
	b := Summarize(next)

	if total.Sub(b.Subsidies).IsNegative() {
		return m
	}

	if total.Equal(b.Subsidies) {
		for j := range next {
			if !next[j].subsidy() {
				next[j].Amount = "0"
			}
		}
		return next
	}

	if b.Percents.GreaterThan(money.Hundred()) {
		return m
	}

	return next
}

// ChangeUnit switches p to unit u and always resets p's amount to zero.
func ChangeUnit(m Map, p Payer, u Unit) Map {
	if !u.Valid() {
		return m
	}
	return m.With(p, Entry{Amount: "0", Unit: u})
}

// ApplyPreset replaces m with preset when there is something to allocate.
func ApplyPreset(m Map, total decimal.Decimal, preset Map) Map {
	if !total.IsPositive() {
		return m
	}
	return preset
}

// Reset returns the initial map.
func Reset() Map {
	return Initial()
}

// OnItemRemoved reconciles m after the bill dropped to nextTotal.
//
// An empty bill resets everything. Otherwise, if the remaining bill can no
// longer cover the fixed subsidies, every subsidy is zeroed and percent
// entries are kept.
func OnItemRemoved(m Map, nextTotal decimal.Decimal) Map {
	if nextTotal.IsZero() {
		return Initial()
	}

	b := Summarize(m)
	if nextTotal.Sub(b.Subsidies).IsNegative() {
		next := m
		for i := range next {
			if next[i].subsidy() {
				next[i].Amount = "0"
			}
		}
		return next
	}

	return m
}
