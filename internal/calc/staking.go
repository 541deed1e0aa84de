package calc

import (
	"errors"
	"fmt"

	"github.com/goodnatureofminers/greenchain-backend/internal/model"
	"github.com/shopspring/decimal"
)

var (
	ErrStakeBelowMinimum   = errors.New("stake amount below minimum")
	ErrPeriodBelowMinimum  = errors.New("stake period below minimum")
	ErrPeriodAboveMaximum  = errors.New("stake period above maximum")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// StakingPolicy holds the staking constants shown by the wallet.
type StakingPolicy struct {
	MinAmount     decimal.Decimal
	MinPeriodDays int
	MaxPeriodDays int
	// APY is a percentage, 8 means 8%.
	APY decimal.Decimal
	// PanelCost is the token price of one solar panel funded by staking.
	PanelCost decimal.Decimal
}

// DefaultStakingPolicy returns the policy of the production dashboard.
func DefaultStakingPolicy() StakingPolicy {
	return StakingPolicy{
		MinAmount:     decimal.NewFromInt(100),
		MinPeriodDays: 180,
		MaxPeriodDays: 365,
		APY:           decimal.NewFromInt(8),
		PanelCost:     decimal.NewFromInt(500),
	}
}

// Check validates the policy constants.
func (p StakingPolicy) Check() error {
	if p.MinAmount.IsNegative() {
		return errors.New("minimum stake must not be negative")
	}
	if p.MinPeriodDays < 0 || p.MaxPeriodDays < p.MinPeriodDays {
		return fmt.Errorf("invalid stake period bounds [%d, %d]", p.MinPeriodDays, p.MaxPeriodDays)
	}
	if p.APY.IsNegative() {
		return errors.New("apy must not be negative")
	}
	if !p.PanelCost.IsPositive() {
		return errors.New("panel cost must be positive")
	}
	return nil
}

// Reward projects the pro-rated reward of staking amount for days:
// amount * APY/100 / 365 * days, rounded to two digits.
func (p StakingPolicy) Reward(amount decimal.Decimal, days int) decimal.Decimal {
	if !amount.IsPositive() || days <= 0 {
		return decimal.Zero
	}
	numerator := amount.Mul(p.APY).Mul(decimal.NewFromInt(int64(days)))
	return Round2(numerator.Div(hundred.Mul(daysInYear)))
}

// SolarPanels returns how many whole panels amount would fund.
func (p StakingPolicy) SolarPanels(amount decimal.Decimal) int64 {
	if !amount.IsPositive() {
		return 0
	}
	return amount.Div(p.PanelCost).Floor().IntPart()
}

// StakeQuote is the live preview shown while the stake form is edited.
type StakeQuote struct {
	Amount      decimal.Decimal `json:"amount"`
	PeriodDays  int             `json:"period_days"`
	APY         decimal.Decimal `json:"apy"`
	Reward      decimal.Decimal `json:"reward"`
	Display     string          `json:"display"`
	SolarPanels int64           `json:"solar_panels"`
	Warnings    []string        `json:"warnings,omitempty"`
}

// Quote previews intent. Bounds violations are reported as warnings only.
func (p StakingPolicy) Quote(intent model.StakeIntent) StakeQuote {
	reward := p.Reward(intent.Amount, intent.PeriodDays)
	q := StakeQuote{
		Amount:      intent.Amount,
		PeriodDays:  intent.PeriodDays,
		APY:         p.APY,
		Reward:      reward,
		Display:     Display(reward),
		SolarPanels: p.SolarPanels(intent.Amount),
	}
	for _, err := range p.violations(intent) {
		q.Warnings = append(q.Warnings, err.Error())
	}
	return q
}

// Validate checks intent against the policy and the available balance.
func (p StakingPolicy) Validate(intent model.StakeIntent, balance decimal.Decimal) error {
	if v := p.violations(intent); len(v) > 0 {
		return v[0]
	}
	if intent.Amount.GreaterThan(balance) {
		return fmt.Errorf("%w: stake %s, balance %s", ErrInsufficientBalance, intent.Amount, balance)
	}
	return nil
}

func (p StakingPolicy) violations(intent model.StakeIntent) []error {
	var errs []error
	if intent.Amount.LessThan(p.MinAmount) {
		errs = append(errs, fmt.Errorf("%w: %s < %s", ErrStakeBelowMinimum, intent.Amount, p.MinAmount))
	}
	if intent.PeriodDays < p.MinPeriodDays {
		errs = append(errs, fmt.Errorf("%w: %d < %d days", ErrPeriodBelowMinimum, intent.PeriodDays, p.MinPeriodDays))
	}
	if intent.PeriodDays > p.MaxPeriodDays {
		errs = append(errs, fmt.Errorf("%w: %d > %d days", ErrPeriodAboveMaximum, intent.PeriodDays, p.MaxPeriodDays))
	}
	return errs
}
