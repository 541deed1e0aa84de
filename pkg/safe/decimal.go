// Package safe provides lenient conversions for user-entered numeric input.
package safe

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// maxDigits bounds the digits accepted from a form field; longer numbers parse as zero.
const maxDigits = 24

var numericPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)`)

// Decimal parses the leading plain number of raw the way a form field does:
// trailing garbage (exponents included) is ignored and input without a leading
// number, or with more than maxDigits digits, yields zero.
func Decimal(raw string) decimal.Decimal {
	match := numericPrefix.FindString(strings.TrimSpace(raw))
	if match == "" {
		return decimal.Zero
	}
	match = strings.TrimPrefix(match, "+")
	match = strings.TrimSuffix(match, ".")
	if digits := len(match) - strings.Count(match, "-") - strings.Count(match, "."); digits > maxDigits {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(match)
	if err != nil {
		return decimal.Zero
	}
	return d
}
