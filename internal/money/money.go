// Package money provides exact 2-decimal USD arithmetic.
//
// Amounts cross the API boundary as float64, but every multiplication and
// summation runs through shopspring/decimal so that rate math rounds the way
// the frozen rate tables expect (70 * 0.0725 must round to 5.08, which naive
// float64 rounding gets wrong).
package money

import "github.com/shopspring/decimal"

// Round2 rounds an amount to 2 decimal places, half away from zero.
func Round2(amount float64) float64 {
	return decimal.NewFromFloat(amount).Round(2).InexactFloat64()
}

// MulRate multiplies an amount by a rate and rounds the result to 2 decimals.
func MulRate(amount, rate float64) float64 {
	a := decimal.NewFromFloat(amount)
	r := decimal.NewFromFloat(rate)
	return a.Mul(r).Round(2).InexactFloat64()
}

// MulQty multiplies a unit amount by an integer quantity, rounded to 2 decimals.
func MulQty(amount float64, qty int) float64 {
	a := decimal.NewFromFloat(amount)
	return a.Mul(decimal.NewFromInt(int64(qty))).Round(2).InexactFloat64()
}

// Sum adds amounts exactly and rounds the total to 2 decimals.
func Sum(amounts ...float64) float64 {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(decimal.NewFromFloat(a))
	}
	return total.Round(2).InexactFloat64()
}
