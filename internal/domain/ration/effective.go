package ration

import (
	"encoding/json"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/eshaffer321/ration-form/internal/domain/money"
)

// Shares are display-only percentages of the total cost, one per payer in
// payer order.
type Shares [PayerCount]decimal.Decimal

// Of returns p's share.
func (s Shares) Of(p Payer) decimal.Decimal {
	i, ok := p.index()
	if !ok {
		return decimal.Zero
	}
	return s[i]
}

// Sum adds all shares. It is 100 exactly when the map allocates the whole bill.
func (s Shares) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, v := range s {
		sum = sum.Add(v)
	}
	return sum
}

// MarshalJSON encodes the shares as an object of payer name to float.
func (s Shares) MarshalJSON() ([]byte, error) {
	obj := make(map[Payer]float64, PayerCount)
	for i, p := range payers {
		obj[p] = s[i].InexactFloat64()
	}
	return json.Marshal(obj)
}

// UnmarshalJSON decodes the object form written by MarshalJSON. Missing
// payers are zero.
func (s *Shares) UnmarshalJSON(data []byte) error {
	var obj map[Payer]decimal.Decimal
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	for i, p := range payers {
		v, ok := obj[p]
		if !ok {
			v = decimal.Zero
		}
		s[i] = v
	}
	return nil
}

// EffectivePercentages converts m into percentages of total for rendering a
// proportional bar. Subsidies are taken off the base first; percent entries
// then apply to what remains. The remaining base never goes below zero.
func EffectivePercentages(m Map, total decimal.Decimal) Shares {
	var shares Shares
	for i := range shares {
		shares[i] = decimal.Zero
	}
	if total.IsZero() {
		return shares
	}

	order := make([]int, PayerCount)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return m[order[a]].subsidy() && !m[order[b]].subsidy()
	})

	hundred := money.Hundred()
	base := total
	for _, i := range order {
		amount := money.Parse(m[i].Amount)
		if m[i].subsidy() {
			shares[i] = amount.Div(total).Mul(hundred)
			base = base.Sub(amount)
			continue
		}
		remaining := decimal.Max(base, decimal.Zero)
		shares[i] = remaining.Mul(amount.Div(hundred)).Div(total).Mul(hundred)
	}

	return shares
}
