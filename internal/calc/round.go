// Package calc implements the staking-reward and currency-exchange calculators.
package calc

import "github.com/shopspring/decimal"

const displayPlaces = 2

var (
	hundred    = decimal.NewFromInt(100)
	daysInYear = decimal.NewFromInt(365)
)

// Round2 rounds d to the two fraction digits shown on screen.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(displayPlaces)
}

// Display formats d with exactly two fraction digits.
func Display(d decimal.Decimal) string {
	return d.StringFixed(displayPlaces)
}
