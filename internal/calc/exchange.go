package calc

import (
	"fmt"

	"github.com/goodnatureofminers/greenchain-backend/internal/model"
	"github.com/goodnatureofminers/greenchain-backend/pkg/safe"
	"github.com/shopspring/decimal"
)

// RateTable maps every supported currency to the tokens bought per unit.
type RateTable map[model.Currency]decimal.Decimal

// DefaultRates returns the fixed conversion rates of the exchange widget.
func DefaultRates() RateTable {
	return RateTable{
		model.USD: decimal.NewFromInt(10),
		model.EUR: decimal.NewFromInt(11),
		model.GBP: decimal.NewFromInt(13),
		model.JPY: decimal.RequireFromString("0.09"),
	}
}

// NewRateTable builds a table, requiring a positive rate for every supported currency.
func NewRateTable(rates map[model.Currency]decimal.Decimal) (RateTable, error) {
	table := make(RateTable, len(model.Currencies))
	for _, c := range model.Currencies {
		rate, ok := rates[c]
		if !ok {
			return nil, fmt.Errorf("missing rate for %s", c)
		}
		if !rate.IsPositive() {
			return nil, fmt.Errorf("rate for %s must be positive, got %s", c, rate)
		}
		table[c] = rate
	}
	for c := range rates {
		if _, ok := table[c]; !ok {
			return nil, fmt.Errorf("rate for %w %q", model.ErrUnknownCurrency, c)
		}
	}
	return table, nil
}

// Rate returns the rate for c.
func (t RateTable) Rate(c model.Currency) (decimal.Decimal, error) {
	rate, ok := t[c]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %q", model.ErrUnknownCurrency, c)
	}
	return rate, nil
}

// Convert returns the tokens bought with amount of currency c.
func (t RateTable) Convert(amount decimal.Decimal, c model.Currency) (decimal.Decimal, error) {
	rate, err := t.Rate(c)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(rate), nil
}

// ParseAmount reads an amount typed into the exchange form, zero when unparsable.
func ParseAmount(raw string) decimal.Decimal {
	return safe.Decimal(raw)
}

// ExchangeQuote is the live preview shown while the exchange form is edited.
type ExchangeQuote struct {
	Currency  model.Currency  `json:"currency"`
	Amount    decimal.Decimal `json:"amount"`
	Rate      decimal.Decimal `json:"rate"`
	Converted decimal.Decimal `json:"converted"`
	Display   string          `json:"display"`
}

// Quote recomputes the converted amount for the raw form input.
func (t RateTable) Quote(raw string, c model.Currency) (ExchangeQuote, error) {
	amount := ParseAmount(raw)
	rate, err := t.Rate(c)
	if err != nil {
		return ExchangeQuote{}, err
	}
	converted := amount.Mul(rate)
	return ExchangeQuote{
		Currency:  c,
		Amount:    amount,
		Rate:      rate,
		Converted: converted,
		Display:   Display(converted) + " " + model.TokenSymbol,
	}, nil
}
