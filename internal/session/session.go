// Package session ties the per-user dashboard state together: view state, wallet and
// live feed, created on sign-in and released on sign-out or expiry.
package session

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/goodnatureofminers/greenchain-backend/internal/calc"
	"github.com/goodnatureofminers/greenchain-backend/internal/catalog"
	"github.com/goodnatureofminers/greenchain-backend/internal/clock"
	"github.com/goodnatureofminers/greenchain-backend/internal/feed"
	"github.com/goodnatureofminers/greenchain-backend/internal/model"
	"github.com/goodnatureofminers/greenchain-backend/internal/ui"
	"github.com/goodnatureofminers/greenchain-backend/internal/wallet"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	msgExchanged = "Exchange successful!"
	msgStaked    = "Staking successful! Your GRNC is now working towards a greener future."
)

// Config holds the settings every new session is built with.
type Config struct {
	Feed   feed.Config
	Wallet wallet.Config
	UI     ui.Config
}

// Factory builds sessions from shared dependencies.
type Factory struct {
	cfg           Config
	catalog       *catalog.Catalog
	clock         clock.Clock
	feedMetrics   feed.Metrics
	walletMetrics wallet.Metrics
	logger        *zap.Logger
	newRandom     func() feed.Random
	newID         func() string
}

// NewFactory builds a Factory with dependencies.
func NewFactory(
	cfg Config,
	cat *catalog.Catalog,
	clk clock.Clock,
	feedMetrics feed.Metrics,
	walletMetrics wallet.Metrics,
	logger *zap.Logger,
) (*Factory, error) {
	if cat == nil {
		return nil, errors.New("catalog is required")
	}
	if clk == nil {
		return nil, errors.New("clock is required")
	}
	if feedMetrics == nil || walletMetrics == nil {
		return nil, errors.New("feed and wallet metrics are required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	if len(cfg.Feed.Actors) == 0 {
		cfg.Feed.Actors = cat.Actors
	}

	return &Factory{
		cfg:           cfg,
		catalog:       cat,
		clock:         clk,
		feedMetrics:   feedMetrics,
		walletMetrics: walletMetrics,
		logger:        logger,
		newRandom: func() feed.Random {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
		newID: uuid.NewString,
	}, nil
}

// New builds a session for the signed-in email.
func (f *Factory) New(email string) (*Session, error) {
	id := f.newID()
	now := f.clock.Now()
	logger := f.logger.With(zap.String("session", id))

	w, err := wallet.New(f.cfg.Wallet, f.clock, f.walletMetrics)
	if err != nil {
		return nil, fmt.Errorf("create wallet: %w", err)
	}

	feedCfg := f.cfg.Feed
	feedCfg.Seed = f.catalog.SeedFeed(now)
	live, err := feed.NewService(feedCfg, f.newRandom(), f.clock, f.feedMetrics, logger)
	if err != nil {
		return nil, fmt.Errorf("create feed: %w", err)
	}

	return &Session{
		ID:        id,
		Email:     email,
		CreatedAt: now,
		Wallet:    w,
		Feed:      live,
		catalog:   f.catalog,
		reducer:   ui.NewReducer(f.cfg.UI, f.clock),
		view:      ui.Initial(),
	}, nil
}

// Session is the state container of one signed-in user.
type Session struct {
	ID        string
	Email     string
	CreatedAt time.Time
	Wallet    *wallet.Wallet
	Feed      *feed.Service

	catalog *catalog.Catalog
	reducer *ui.Reducer

	mu        sync.Mutex
	view      ui.State
	closeOnce sync.Once
}

// View returns the current view state with expired banners cleared.
func (s *Session) View() ui.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.view = s.reducer.Expire(s.view)
	return s.view
}

// Dispatch applies a view action. Opening a project requires it to exist.
func (s *Session) Dispatch(a ui.Action) (ui.State, error) {
	if a.Type == ui.ActionOpenProject {
		if _, err := s.catalog.Project(a.ProjectID); err != nil {
			return s.View(), fmt.Errorf("open project: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.reducer.Reduce(s.view, a)
	if err != nil {
		return s.view, err
	}
	s.view = next
	return s.view, nil
}

// SubmitExchange credits the exchange form and shows the success banner.
func (s *Session) SubmitExchange() (calc.ExchangeQuote, ui.State, error) {
	quote, err := s.Wallet.SubmitExchange()
	if err != nil {
		return calc.ExchangeQuote{}, s.View(), err
	}
	return quote, s.banner(msgExchanged), nil
}

// SubmitStake locks the staking form amount and shows the success banner.
func (s *Session) SubmitStake() (model.StakePosition, ui.State, error) {
	position, err := s.Wallet.SubmitStake()
	if err != nil {
		return model.StakePosition{}, s.View(), err
	}
	return position, s.banner(msgStaked), nil
}

func (s *Session) banner(message string) ui.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.view = s.reducer.Banner(s.view, ui.BannerSuccess, message)
	return s.view
}

// Overview is the dashboard home page.
type Overview struct {
	Feed            feed.Snapshot        `json:"feed"`
	TreesEquivalent float64              `json:"trees_equivalent"`
	HomesPowered    float64              `json:"homes_powered"`
	EnergyProfile   []model.EnergySample `json:"energy_profile"`
	EnergyMix       []model.EnergyShare  `json:"energy_mix"`
	Achievements    []model.Achievement  `json:"achievements"`
	TokenPrice      model.TokenPrice     `json:"token_price"`
}

// Overview assembles the home page from the live feed and the catalog.
func (s *Session) Overview() Overview {
	snap := s.Feed.Snapshot()
	return Overview{
		Feed:            snap,
		TreesEquivalent: snap.Impact.TreesEquivalent(),
		HomesPowered:    snap.Impact.HomesPowered(),
		EnergyProfile:   s.catalog.EnergyProfile,
		EnergyMix:       s.catalog.EnergyMix,
		Achievements:    s.catalog.Achievements,
		TokenPrice:      s.catalog.TokenPrice,
	}
}

// WalletView is the wallet page.
type WalletView struct {
	wallet.Snapshot
	TokenPrice   model.TokenPrice          `json:"token_price"`
	PriceHistory []model.PricePoint        `json:"price_history"`
	Transactions []model.WalletTransaction `json:"transactions"`
}

// WalletView assembles the wallet page.
func (s *Session) WalletView() WalletView {
	return WalletView{
		Snapshot:     s.Wallet.Snapshot(),
		TokenPrice:   s.catalog.TokenPrice,
		PriceHistory: s.catalog.PriceHistory,
		Transactions: s.catalog.WalletTransactions,
	}
}

// Close stops the feed. It reports whether this call did the closing.
func (s *Session) Close() bool {
	closed := false
	s.closeOnce.Do(func() {
		s.Feed.Close()
		closed = true
	})
	return closed
}
