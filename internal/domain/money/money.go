// Package money parses and formats the decimal strings the expense form
// stores for prices, quantities and ration amounts.
//
// Amounts stay strings in state so they render exactly as typed. Arithmetic
// goes through Parse, which never fails: blank or malformed input counts as
// zero.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Hundred is 100 as a decimal, the percentage ceiling.
func Hundred() decimal.Decimal {
	return hundred
}

// Parse converts a decimal string to a decimal.Decimal.
// Grouping commas are ignored so values produced by FormatCurrency parse back.
func Parse(s string) decimal.Decimal {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Valid reports whether s parses as a number without falling back to zero.
func Valid(s string) bool {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return false
	}
	_, err := decimal.NewFromString(s)
	return err == nil
}

// FormatCurrency renders v with two fraction digits and en-IN digit grouping
// (1,23,456.78), without a currency symbol.
func FormatCurrency(v decimal.Decimal) string {
	fixed := v.StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}

	whole, frac, _ := strings.Cut(fixed, ".")
	return sign + groupIndian(whole) + "." + frac
}

// FormatString is FormatCurrency over a decimal string.
func FormatString(s string) string {
	return FormatCurrency(Parse(s))
}

// groupIndian inserts separators after the last three digits, then every two.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]

	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}

	return strings.Join(append(groups, tail), ",")
}
