// Package money holds the rounding rules shared by the quality gate, the EV engine and the
// paydown simulator. Values are rounded half away from zero on their shortest decimal form.
package money

import "github.com/shopspring/decimal"

// Round rounds v to the given number of decimal places.
func Round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// Cents rounds a dollar amount to two decimals.
func Cents(v float64) float64 {
	return Round(v, 2)
}

// Percent returns part/total*100 rounded to two decimals, or 0 when total is 0.
func Percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return decimal.NewFromInt(int64(part)).
		Div(decimal.NewFromInt(int64(total))).
		Mul(decimal.NewFromInt(100)).
		Round(2).
		InexactFloat64()
}
