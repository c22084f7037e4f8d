// Package money centralizes the fixed-point rules used by every calculator:
// all monetary and hour values are decimal with 2-decimal rounding.
package money

import "github.com/shopspring/decimal"

var (
	hundred      = decimal.NewFromInt(100)
	sixtyMinutes = decimal.NewFromInt(60)
)

// Round normalizes a value to the engine-wide 2-decimal precision.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Percent returns rate% of base, rounded.
func Percent(base, rate decimal.Decimal) decimal.Decimal {
	return Round(base.Mul(rate).Div(hundred))
}

// Ratio returns num/den as a percentage (0-100), rounded.
// Returns zero when den is zero.
func Ratio(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return Round(num.Mul(hundred).Div(den))
}

// MinutesToHours converts a minute count to decimal hours, rounded.
func MinutesToHours(minutes int) decimal.Decimal {
	return Round(decimal.NewFromInt(int64(minutes)).Div(sixtyMinutes))
}
