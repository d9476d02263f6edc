package ration

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/eshaffer321/ration-form/internal/domain/money"
)

// maxRoundingFix bounds the cent residue Owed will absorb into one payer.
var maxRoundingFix = decimal.RequireFromString("0.10")

// Amounts are money values per payer, in payer order.
type Amounts [PayerCount]decimal.Decimal

// Of returns p's amount.
func (a Amounts) Of(p Payer) decimal.Decimal {
	i, ok := p.index()
	if !ok {
		return decimal.Zero
	}
	return a[i]
}

// Sum adds all amounts.
func (a Amounts) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, v := range a {
		sum = sum.Add(v)
	}
	return sum
}

// MarshalJSON encodes the amounts as payer name to a two-decimal string.
func (a Amounts) MarshalJSON() ([]byte, error) {
	obj := make(map[Payer]string, PayerCount)
	for i, p := range payers {
		obj[p] = a[i].StringFixed(2)
	}
	return json.Marshal(obj)
}

// UnmarshalJSON decodes the object form written by MarshalJSON.
func (a *Amounts) UnmarshalJSON(data []byte) error {
	var obj map[Payer]decimal.Decimal
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	for i, p := range payers {
		a[i] = obj[p]
	}
	return nil
}

// Owed converts m into the amount each payer owes on a bill of total,
// rounded to cents. Subsidies are owed as entered; percent entries share
// what the subsidies leave.
//
// When m allocates the whole bill, a rounding residue under ten cents is
// moved onto the largest amount so the figures add up to total.
func Owed(m Map, total decimal.Decimal) Amounts {
	var owed Amounts
	for i := range owed {
		owed[i] = decimal.Zero
	}
	if !total.IsPositive() {
		return owed
	}

	shares := EffectivePercentages(m, total)
	hundred := money.Hundred()
	for i, share := range shares {
		owed[i] = total.Mul(share).Div(hundred).Round(2)
	}

	if !shares.Sum().Round(6).Equal(hundred) {
		return owed
	}

	diff := total.Round(2).Sub(owed.Sum())
	if diff.IsZero() || diff.Abs().GreaterThanOrEqual(maxRoundingFix) {
		return owed
	}
	maxIdx := 0
	for i, v := range owed {
		if v.GreaterThan(owed[maxIdx]) {
			maxIdx = i
		}
	}
	owed[maxIdx] = owed[maxIdx].Add(diff)
	return owed
}
