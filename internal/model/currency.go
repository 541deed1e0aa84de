package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCurrency is returned for currency codes outside the supported set.
var ErrUnknownCurrency = errors.New("unknown currency")

// Currency is a fiat currency accepted by the exchange widget.
type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	JPY Currency = "JPY"
)

// Currencies lists every supported currency.
var Currencies = []Currency{USD, EUR, GBP, JPY}

// ParseCurrency resolves a currency code, ignoring case and surrounding spaces.
func ParseCurrency(raw string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(raw)))
	for _, known := range Currencies {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCurrency, raw)
}
