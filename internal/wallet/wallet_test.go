package wallet

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/goodnatureofminers/greenchain-backend/internal/calc"
	"github.com/goodnatureofminers/greenchain-backend/internal/clock"
	"github.com/goodnatureofminers/greenchain-backend/internal/model"
	"github.com/shopspring/decimal"
)

type decimalMatcher struct {
	want decimal.Decimal
}

func (m decimalMatcher) Matches(x interface{}) bool {
	d, ok := x.(decimal.Decimal)
	return ok && d.Equal(m.want)
}

func (m decimalMatcher) String() string {
	return fmt.Sprintf("is decimal %s", m.want)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decEq(s string) gomock.Matcher {
	return decimalMatcher{want: dec(s)}
}

var testNow = time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

func newTestWallet(t *testing.T, metrics Metrics) *Wallet {
	t.Helper()
	w, err := New(DefaultConfig(), clock.NewManual(testNow), metrics)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return w
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	metrics := NewMockMetrics(gomock.NewController(t))
	badRates := DefaultConfig()
	badRates.Rates = calc.RateTable{model.USD: dec("10")}
	badPolicy := DefaultConfig()
	badPolicy.Policy.MaxPeriodDays = 1
	negative := DefaultConfig()
	negative.StartingBalance = dec("-1")

	tests := []struct {
		name    string
		cfg     Config
		clk     clock.Clock
		metrics Metrics
	}{
		{name: "nil clock", cfg: DefaultConfig(), metrics: metrics},
		{name: "nil metrics", cfg: DefaultConfig(), clk: clock.System{}},
		{name: "incomplete rates", cfg: badRates, clk: clock.System{}, metrics: metrics},
		{name: "bad policy", cfg: badPolicy, clk: clock.System{}, metrics: metrics},
		{name: "negative balance", cfg: negative, clk: clock.System{}, metrics: metrics},
	}
	for _, tt := range tests {
		if _, err := New(tt.cfg, tt.clk, tt.metrics); err == nil {
			t.Fatalf("%s: expected error", tt.name)
		}
	}
}

func TestWallet_Defaults(t *testing.T) {
	t.Parallel()

	w := newTestWallet(t, NewMockMetrics(gomock.NewController(t)))
	snap := w.Snapshot()

	if !snap.Balance.Equal(dec("1000")) {
		t.Fatalf("balance = %s, want 1000", snap.Balance)
	}
	if !snap.ImpactShare.Equal(dec("50")) {
		t.Fatalf("impact share = %s, want 50", snap.ImpactShare)
	}
	if !snap.StakeForm.Amount.Equal(dec("100")) || snap.StakeForm.PeriodDays != 180 {
		t.Fatalf("stake form = %+v, want 100 for 180 days", snap.StakeForm)
	}
	if snap.StakeQuote.Display != "3.95" {
		t.Fatalf("stake preview = %s, want 3.95", snap.StakeQuote.Display)
	}
	if snap.ExchangeForm.Currency != model.USD || snap.ExchangeForm.Amount != "" {
		t.Fatalf("exchange form = %+v, want empty USD", snap.ExchangeForm)
	}
	if !snap.ExchangeQuote.Converted.IsZero() {
		t.Fatalf("empty exchange preview = %s, want 0", snap.ExchangeQuote.Converted)
	}
}

func TestWallet_SubmitExchange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		currency    string
		amount      string
		prepare     func(m *MockMetrics)
		wantBalance string
		wantErr     error
		wantInput   string
	}{
		{
			name:     "fifty dollars",
			currency: "USD",
			amount:   "50",
			prepare: func(m *MockMetrics) {
				m.EXPECT().ObserveOperation(opExchange, decEq("500"), nil, gomock.Any())
			},
			wantBalance: "1500",
		},
		{
			name:     "yen rate",
			currency: "jpy",
			amount:   "1000",
			prepare: func(m *MockMetrics) {
				m.EXPECT().ObserveOperation(opExchange, decEq("90"), nil, gomock.Any())
			},
			wantBalance: "1090",
		},
		{
			name:     "numeric prefix",
			currency: "GBP",
			amount:   "2abc",
			prepare: func(m *MockMetrics) {
				m.EXPECT().ObserveOperation(opExchange, decEq("26"), nil, gomock.Any())
			},
			wantBalance: "1026",
		},
		{
			name:     "unparsable is a no-op",
			currency: "EUR",
			amount:   "abc",
			prepare: func(m *MockMetrics) {
				m.EXPECT().ObserveOperation(opExchange, gomock.Any(), ErrNothingToExchange, gomock.Any())
			},
			wantBalance: "1000",
			wantErr:     ErrNothingToExchange,
			wantInput:   "abc",
		},
		{
			name:     "negative is a no-op",
			currency: "EUR",
			amount:   "-5",
			prepare: func(m *MockMetrics) {
				m.EXPECT().ObserveOperation(opExchange, gomock.Any(), ErrNothingToExchange, gomock.Any())
			},
			wantBalance: "1000",
			wantErr:     ErrNothingToExchange,
			wantInput:   "-5",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			metrics := NewMockMetrics(gomock.NewController(t))
			tt.prepare(metrics)
			w := newTestWallet(t, metrics)

			if _, err := w.SetExchangeInput(tt.currency, tt.amount); err != nil {
				t.Fatalf("SetExchangeInput() error: %v", err)
			}
			_, err := w.SubmitExchange()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("SubmitExchange() error = %v, want %v", err, tt.wantErr)
			}
			snap := w.Snapshot()
			if !snap.Balance.Equal(dec(tt.wantBalance)) {
				t.Fatalf("balance = %s, want %s", snap.Balance, tt.wantBalance)
			}
			if snap.ExchangeForm.Amount != tt.wantInput {
				t.Fatalf("exchange input = %q, want %q", snap.ExchangeForm.Amount, tt.wantInput)
			}
		})
	}
}

func TestWallet_SetExchangeInputUnknownCurrency(t *testing.T) {
	t.Parallel()

	w := newTestWallet(t, NewMockMetrics(gomock.NewController(t)))
	if _, err := w.SetExchangeInput("EUR", "10"); err != nil {
		t.Fatalf("SetExchangeInput() error: %v", err)
	}
	if _, err := w.SetExchangeInput("BTC", "10"); !errors.Is(err, model.ErrUnknownCurrency) {
		t.Fatalf("SetExchangeInput() error = %v, want ErrUnknownCurrency", err)
	}
	if got := w.Snapshot().ExchangeForm; got.Currency != model.EUR || got.Amount != "10" {
		t.Fatalf("exchange form changed to %+v", got)
	}
}

func TestWallet_SubmitStake(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		intent      model.StakeIntent
		prepare     func(m *MockMetrics)
		wantBalance string
		wantErr     error
	}{
		{
			name:   "minimum stake",
			intent: model.StakeIntent{Amount: dec("100"), PeriodDays: 180},
			prepare: func(m *MockMetrics) {
				m.EXPECT().ObserveOperation(opStake, decEq("100"), nil, gomock.Any())
			},
			wantBalance: "900",
		},
		{
			name:   "whole balance",
			intent: model.StakeIntent{Amount: dec("1000"), PeriodDays: 365},
			prepare: func(m *MockMetrics) {
				m.EXPECT().ObserveOperation(opStake, decEq("1000"), nil, gomock.Any())
			},
			wantBalance: "0",
		},
		{
			name:   "below minimum amount",
			intent: model.StakeIntent{Amount: dec("99.99"), PeriodDays: 180},
			prepare: func(m *MockMetrics) {
				m.EXPECT().ObserveOperation(opStake, gomock.Any(), gomock.Not(nil), gomock.Any())
			},
			wantBalance: "1000",
			wantErr:     calc.ErrStakeBelowMinimum,
		},
		{
			name:   "below minimum period",
			intent: model.StakeIntent{Amount: dec("100"), PeriodDays: 30},
			prepare: func(m *MockMetrics) {
				m.EXPECT().ObserveOperation(opStake, gomock.Any(), gomock.Not(nil), gomock.Any())
			},
			wantBalance: "1000",
			wantErr:     calc.ErrPeriodBelowMinimum,
		},
		{
			name:   "above maximum period",
			intent: model.StakeIntent{Amount: dec("100"), PeriodDays: 400},
			prepare: func(m *MockMetrics) {
				m.EXPECT().ObserveOperation(opStake, gomock.Any(), gomock.Not(nil), gomock.Any())
			},
			wantBalance: "1000",
			wantErr:     calc.ErrPeriodAboveMaximum,
		},
		{
			name:   "more than balance",
			intent: model.StakeIntent{Amount: dec("1000.01"), PeriodDays: 180},
			prepare: func(m *MockMetrics) {
				m.EXPECT().ObserveOperation(opStake, gomock.Any(), gomock.Not(nil), gomock.Any())
			},
			wantBalance: "1000",
			wantErr:     calc.ErrInsufficientBalance,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			metrics := NewMockMetrics(gomock.NewController(t))
			tt.prepare(metrics)
			w := newTestWallet(t, metrics)

			w.SetStakeInput(tt.intent)
			position, err := w.SubmitStake()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("SubmitStake() error = %v, want %v", err, tt.wantErr)
			}
			snap := w.Snapshot()
			if !snap.Balance.Equal(dec(tt.wantBalance)) {
				t.Fatalf("balance = %s, want %s", snap.Balance, tt.wantBalance)
			}
			if tt.wantErr != nil {
				if len(snap.Positions) != 0 {
					t.Fatalf("rejected stake recorded a position")
				}
				return
			}
			if len(snap.Positions) != 1 || snap.Positions[0] != position {
				t.Fatalf("positions = %+v, want [%+v]", snap.Positions, position)
			}
			if want := testNow.AddDate(0, 0, tt.intent.PeriodDays); !position.MaturesAt.Equal(want) {
				t.Fatalf("matures at %v, want %v", position.MaturesAt, want)
			}
			if position.Matured(testNow) {
				t.Fatalf("fresh position reported matured")
			}
		})
	}
}

func TestWallet_StakeRewardNotCredited(t *testing.T) {
	t.Parallel()

	metrics := NewMockMetrics(gomock.NewController(t))
	metrics.EXPECT().ObserveOperation(opStake, gomock.Any(), nil, gomock.Any()).Times(2)
	metrics.EXPECT().ObserveOperation(opStake, gomock.Any(), gomock.Not(nil), gomock.Any())
	w := newTestWallet(t, metrics)

	quote := w.SetStakeInput(model.StakeIntent{Amount: dec("500"), PeriodDays: 365})
	if quote.Display != "40.00" || quote.SolarPanels != 1 {
		t.Fatalf("quote = %+v, want reward 40.00 and one panel", quote)
	}
	position, err := w.SubmitStake()
	if err != nil {
		t.Fatalf("SubmitStake() error: %v", err)
	}
	if !position.ProjectedReward.Equal(dec("40")) {
		t.Fatalf("projected reward = %s, want 40", position.ProjectedReward)
	}
	if _, err := w.SubmitStake(); err != nil {
		t.Fatalf("second SubmitStake() error: %v", err)
	}
	if _, err := w.SubmitStake(); !errors.Is(err, calc.ErrInsufficientBalance) {
		t.Fatalf("third SubmitStake() error = %v, want ErrInsufficientBalance", err)
	}
}
