package ration

import "github.com/shopspring/decimal"

// Direction selects which way Step moves along the ladder.
type Direction int

const (
	Increase Direction = iota
	Decrease
)

// ParseDirection accepts "+"/"increase" and "-"/"decrease".
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "+", "increase":
		return Increase, true
	case "-", "decrease":
		return Decrease, true
	}
	return 0, false
}

var ladder = []decimal.Decimal{
	decimal.NewFromInt(0),
	decimal.NewFromInt(25),
	decimal.NewFromInt(33),
	decimal.NewFromInt(50),
	decimal.NewFromInt(66),
	decimal.NewFromInt(75),
	decimal.NewFromInt(100),
}

// Step moves p to the next rung of 0, 25, 33, 50, 66, 75, 100.
// Increasing picks the first rung above p and stops at 100; decreasing picks
// the first rung below p and stops at 0. Values between rungs snap to the
// adjacent rung in the direction of travel.
func Step(p decimal.Decimal, d Direction) decimal.Decimal {
	if d == Increase {
		for _, rung := range ladder {
			if rung.GreaterThan(p) {
				return rung
			}
		}
		return ladder[len(ladder)-1]
	}

	for i := len(ladder) - 1; i >= 0; i-- {
		if ladder[i].LessThan(p) {
			return ladder[i]
		}
	}
	return ladder[0]
}
