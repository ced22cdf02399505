package domain

import "math"

// Money is a monetary amount in integer cents. All persisted prices,
// budgets and bids use this type; floating point appears only inside
// scoring math and is rounded exactly once on the way back in.
type Money int64

// MoneyFromFloat converts whole currency units to cents, rounding half
// away from zero. Negative amounts clamp to zero: nothing in the engine
// ever owes money.
func MoneyFromFloat(units float64) Money {
	if units <= 0 || math.IsNaN(units) {
		return 0
	}
	return Money(math.Round(units * 100))
}

// Float returns the amount in whole currency units.
func (m Money) Float() float64 {
	return float64(m) / 100
}
