package money

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round2 rounds half away from zero to two decimal places. Going through the
// shortest decimal representation keeps 2.675 at 2.68 instead of 2.67.
func Round2(val float64) float64 {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return 0
	}
	return decimal.NewFromFloat(val).Round(2).InexactFloat64()
}

// Sum adds values in decimal space so long ledgers do not drift.
func Sum(vals ...float64) float64 {
	total := decimal.Zero
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.InexactFloat64()
}

// Div returns num/den, or 0 when den is zero.
func Div(num float64, den float64) float64 {
	if den == 0 {
		return 0
	}
	out := num / den
	if math.IsNaN(out) || math.IsInf(out, 0) {
		return 0
	}
	return out
}

// Percent returns part/whole*100, or 0 when whole is zero.
func Percent(part float64, whole float64) float64 {
	return Div(part, whole) * 100
}

func NonNegative(val float64) float64 {
	if val < 0 || math.IsNaN(val) {
		return 0
	}
	return val
}
