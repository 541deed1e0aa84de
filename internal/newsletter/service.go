// Package newsletter collects footer newsletter signups and confirms them in batches.
package newsletter

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/goodnatureofminers/greenchain-backend/internal/clock"
	"github.com/goodnatureofminers/greenchain-backend/pkg/batcher"
	"go.uber.org/zap"
)

// ErrInvalidEmail is returned for input that is not a bare email address.
var ErrInvalidEmail = errors.New("invalid email address")

// Config tunes batching of signups.
type Config struct {
	BatchSize     int
	FlushInterval time.Duration
	RPS           int
}

// DefaultConfig flushes every 100 signups or every second.
func DefaultConfig() Config {
	return Config{BatchSize: 100, FlushInterval: time.Second, RPS: 10}
}

// Service accepts signups and confirms them into the registry in the background.
type Service struct {
	registry *Registry
	batcher  *batcher.Batcher[Subscription]
	clock    clock.Clock
	metrics  Metrics
	logger   *zap.Logger
}

// NewService builds a Service with dependencies.
func NewService(cfg Config, registry *Registry, clk clock.Clock, metrics Metrics, logger *zap.Logger) (*Service, error) {
	if registry == nil {
		return nil, errors.New("registry is required")
	}
	if clk == nil {
		return nil, errors.New("clock is required")
	}
	if metrics == nil {
		return nil, errors.New("newsletter metrics is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	s := &Service{
		registry: registry,
		clock:    clk,
		metrics:  metrics,
		logger:   logger.Named("newsletter"),
	}
	b, err := batcher.New(batcher.Config{
		Size:     cfg.BatchSize,
		Interval: cfg.FlushInterval,
		RPS:      cfg.RPS,
	}, s.confirm, s.logger)
	if err != nil {
		return nil, fmt.Errorf("create signup batcher: %w", err)
	}
	s.batcher = b

	return s, nil
}

// Start begins confirming queued signups.
func (s *Service) Start(ctx context.Context) {
	s.batcher.Start(ctx)
}

// Stop confirms whatever is queued and stops.
func (s *Service) Stop() {
	s.batcher.Stop()
}

// Subscribe validates and queues an address.
func (s *Service) Subscribe(ctx context.Context, email string) error {
	addr, err := parseEmail(email)
	if err != nil {
		s.metrics.ObserveSignup(err)
		return err
	}
	err = s.batcher.Add(ctx, Subscription{Email: addr, SubscribedAt: s.clock.Now()})
	s.metrics.ObserveSignup(err)
	if err != nil {
		return fmt.Errorf("queue signup: %w", err)
	}
	return nil
}

// Registry exposes the confirmed subscribers.
func (s *Service) Registry() *Registry {
	return s.registry
}

func (s *Service) confirm(_ context.Context, batch []Subscription) error {
	started := time.Now()
	confirmed := 0
	for _, sub := range batch {
		if s.registry.Add(sub) {
			confirmed++
		}
	}
	s.logger.Debug("subscribers confirmed", zap.Int("batch", len(batch)), zap.Int("new", confirmed))
	s.metrics.ObserveBatch(len(batch), nil, started)
	return nil
}

func parseEmail(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Address != trimmed || addr.Name != "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidEmail, raw)
	}
	return normalize(addr.Address), nil
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
