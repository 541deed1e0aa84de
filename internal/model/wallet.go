package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TokenSymbol is the ticker of the platform token.
const TokenSymbol = "GRNC"

// StakeIntent is a request to lock tokens for a number of days.
type StakeIntent struct {
	Amount     decimal.Decimal `json:"amount"`
	PeriodDays int             `json:"period_days"`
}

// ExchangeIntent is a request to buy tokens with fiat currency.
type ExchangeIntent struct {
	Currency Currency        `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

// StakePosition records a submitted stake and its projected, uncredited reward.
type StakePosition struct {
	Amount          decimal.Decimal `json:"amount"`
	PeriodDays      int             `json:"period_days"`
	APY             decimal.Decimal `json:"apy"`
	ProjectedReward decimal.Decimal `json:"projected_reward"`
	StakedAt        time.Time       `json:"staked_at"`
	MaturesAt       time.Time       `json:"matures_at"`
}

// Matured reports whether the lock period has elapsed at now.
func (p StakePosition) Matured(now time.Time) bool {
	return !now.Before(p.MaturesAt)
}
