// Package wallet keeps the token balance of a session and applies the staking and
// exchange calculators to it on submit.
package wallet

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goodnatureofminers/greenchain-backend/internal/calc"
	"github.com/goodnatureofminers/greenchain-backend/internal/clock"
	"github.com/goodnatureofminers/greenchain-backend/internal/model"
	"github.com/shopspring/decimal"
)

// ErrNothingToExchange is returned when the exchange form holds no positive amount.
var ErrNothingToExchange = errors.New("nothing to exchange")

const (
	opStake    = "stake"
	opExchange = "exchange"
)

var (
	defaultBalance = decimal.NewFromInt(1000)
	// impactPool is the balance that counts as a 100% impact share.
	impactPool = decimal.NewFromInt(2000)
)

// Config holds the starting balance and calculator settings.
type Config struct {
	StartingBalance decimal.Decimal
	Policy          calc.StakingPolicy
	Rates           calc.RateTable
}

// DefaultConfig returns a 1000 GRNC wallet with the default policy and rates.
func DefaultConfig() Config {
	return Config{
		StartingBalance: defaultBalance,
		Policy:          calc.DefaultStakingPolicy(),
		Rates:           calc.DefaultRates(),
	}
}

// StakeForm is the content of the staking form.
type StakeForm struct {
	Amount     decimal.Decimal `json:"amount"`
	PeriodDays int             `json:"period_days"`
}

// ExchangeForm is the content of the exchange form. Amount is kept as typed.
type ExchangeForm struct {
	Currency model.Currency `json:"currency"`
	Amount   string         `json:"amount"`
}

// Snapshot is a copy of the wallet state for rendering.
type Snapshot struct {
	Balance       decimal.Decimal       `json:"balance"`
	ImpactShare   decimal.Decimal       `json:"impact_share"`
	Positions     []model.StakePosition `json:"positions"`
	StakeForm     StakeForm             `json:"stake_form"`
	StakeQuote    calc.StakeQuote       `json:"stake_quote"`
	ExchangeForm  ExchangeForm          `json:"exchange_form"`
	ExchangeQuote calc.ExchangeQuote    `json:"exchange_quote"`
}

// Wallet is the balance and form state of one session.
type Wallet struct {
	policy  calc.StakingPolicy
	rates   calc.RateTable
	clock   clock.Clock
	metrics Metrics

	mu        sync.Mutex
	balance   decimal.Decimal
	positions []model.StakePosition
	stake     StakeForm
	exchange  ExchangeForm
}

// New builds a Wallet with dependencies.
func New(cfg Config, clk clock.Clock, metrics Metrics) (*Wallet, error) {
	if clk == nil {
		return nil, errors.New("clock is required")
	}
	if metrics == nil {
		return nil, errors.New("wallet metrics is required")
	}
	if err := cfg.Policy.Check(); err != nil {
		return nil, fmt.Errorf("check staking policy: %w", err)
	}
	rates, err := calc.NewRateTable(cfg.Rates)
	if err != nil {
		return nil, fmt.Errorf("build rate table: %w", err)
	}
	if cfg.StartingBalance.IsNegative() {
		return nil, errors.New("starting balance must not be negative")
	}

	return &Wallet{
		policy:  cfg.Policy,
		rates:   rates,
		clock:   clk,
		metrics: metrics,
		balance: cfg.StartingBalance,
		stake: StakeForm{
			Amount:     cfg.Policy.MinAmount,
			PeriodDays: cfg.Policy.MinPeriodDays,
		},
		exchange: ExchangeForm{Currency: model.USD},
	}, nil
}

// Balance returns the current token balance.
func (w *Wallet) Balance() decimal.Decimal {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.balance
}

// ImpactShare is the balance as a percentage of the impact pool, two digits.
func (w *Wallet) ImpactShare() decimal.Decimal {
	w.mu.Lock()
	defer w.mu.Unlock()
	return impactShare(w.balance)
}

func impactShare(balance decimal.Decimal) decimal.Decimal {
	return calc.Round2(balance.Div(impactPool).Mul(decimal.NewFromInt(100)))
}

// SetStakeInput replaces the staking form and returns the fresh preview.
func (w *Wallet) SetStakeInput(intent model.StakeIntent) calc.StakeQuote {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.stake = StakeForm{Amount: intent.Amount, PeriodDays: intent.PeriodDays}
	return w.policy.Quote(w.stakeIntent())
}

// SubmitStake locks the form amount. The projected reward is recorded with the
// position but never credited.
func (w *Wallet) SubmitStake() (model.StakePosition, error) {
	started := time.Now()

	w.mu.Lock()
	defer w.mu.Unlock()

	intent := w.stakeIntent()
	if err := w.policy.Validate(intent, w.balance); err != nil {
		w.metrics.ObserveOperation(opStake, intent.Amount, err, started)
		return model.StakePosition{}, fmt.Errorf("validate stake: %w", err)
	}

	now := w.clock.Now()
	position := model.StakePosition{
		Amount:          intent.Amount,
		PeriodDays:      intent.PeriodDays,
		APY:             w.policy.APY,
		ProjectedReward: w.policy.Reward(intent.Amount, intent.PeriodDays),
		StakedAt:        now,
		MaturesAt:       now.AddDate(0, 0, intent.PeriodDays),
	}
	w.balance = w.balance.Sub(intent.Amount)
	w.positions = append(w.positions, position)
	w.metrics.ObserveOperation(opStake, intent.Amount, nil, started)

	return position, nil
}

// SetExchangeInput replaces the exchange form and returns the fresh preview. The form
// is left untouched for an unknown currency.
func (w *Wallet) SetExchangeInput(currency, rawAmount string) (calc.ExchangeQuote, error) {
	c, err := model.ParseCurrency(currency)
	if err != nil {
		return calc.ExchangeQuote{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.exchange = ExchangeForm{Currency: c, Amount: rawAmount}
	return w.rates.Quote(rawAmount, c)
}

// SubmitExchange credits the converted form amount and clears the amount input.
func (w *Wallet) SubmitExchange() (calc.ExchangeQuote, error) {
	started := time.Now()

	w.mu.Lock()
	defer w.mu.Unlock()

	quote, err := w.rates.Quote(w.exchange.Amount, w.exchange.Currency)
	if err != nil {
		w.metrics.ObserveOperation(opExchange, decimal.Zero, err, started)
		return calc.ExchangeQuote{}, fmt.Errorf("quote exchange: %w", err)
	}
	if !quote.Amount.IsPositive() {
		w.metrics.ObserveOperation(opExchange, decimal.Zero, ErrNothingToExchange, started)
		return calc.ExchangeQuote{}, ErrNothingToExchange
	}

	w.balance = w.balance.Add(quote.Converted)
	w.exchange.Amount = ""
	w.metrics.ObserveOperation(opExchange, quote.Converted, nil, started)

	return quote, nil
}

// Snapshot copies the wallet state together with both previews.
func (w *Wallet) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	// the rate table covers every currency the form accepts
	exchangeQuote, _ := w.rates.Quote(w.exchange.Amount, w.exchange.Currency)

	return Snapshot{
		Balance:       w.balance,
		ImpactShare:   impactShare(w.balance),
		Positions:     append([]model.StakePosition(nil), w.positions...),
		StakeForm:     w.stake,
		StakeQuote:    w.policy.Quote(w.stakeIntent()),
		ExchangeForm:  w.exchange,
		ExchangeQuote: exchangeQuote,
	}
}

func (w *Wallet) stakeIntent() model.StakeIntent {
	return model.StakeIntent{Amount: w.stake.Amount, PeriodDays: w.stake.PeriodDays}
}
