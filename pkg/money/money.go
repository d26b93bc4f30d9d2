// Package money holds the currency arithmetic shared by pricing, coupons and the gateway.
// Amounts are major units (whole rupees with optional paise fraction) held as decimals.
package money

import (
	"github.com/shopspring/decimal"
)

// MinorUnitsPerMajor is the number of paise in a rupee.
const MinorUnitsPerMajor = 100

var hundred = decimal.NewFromInt(100)

// ToMinorUnits converts a major-unit amount to integer minor units, rounding half up.
// Truncation would under-charge, so 10.005 becomes 1001, not 1000.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(MinorUnitsPerMajor)).Round(0).IntPart()
}

// FromMinorUnits converts integer minor units back to a major-unit amount.
func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}

// Percent returns amount * pct / 100.
func Percent(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Mul(pct).Div(hundred)
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	if v.LessThan(lo) {
		return lo
	}
	if v.GreaterThan(hi) {
		return hi
	}
	return v
}
