package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/goodnatureofminers/greenchain-backend/pkg/workerpool"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned for unknown, expired or signed-out sessions.
	ErrNotFound = errors.New("session not found")
	// ErrStoreFull is returned when the store cannot admit another session.
	ErrStoreFull = errors.New("session store full")
	// ErrStoreClosed is returned after Close.
	ErrStoreClosed = errors.New("session store closed")
)

const (
	reasonSignOut  = "sign_out"
	reasonEvicted  = "evicted"
	reasonShutdown = "shutdown"

	defaultTTL         = 12 * time.Hour
	defaultMaxSessions = 10_000
	shutdownWorkers    = 8
)

// StoreConfig bounds the number and lifetime of sessions.
type StoreConfig struct {
	TTL         time.Duration
	MaxSessions int64
}

// Store keeps live sessions in a TTL cache. A session leaving the cache for any
// reason is closed.
type Store struct {
	factory *Factory
	metrics Metrics
	logger  *zap.Logger
	ttl     time.Duration

	cache *ristretto.Cache
	// live tracks admitted sessions so Close can release them all.
	live sync.Map

	mu     sync.RWMutex
	closed bool

	// stopping relabels cache exits during shutdown.
	stopping atomic.Bool
}

// NewStore builds a Store with dependencies.
func NewStore(cfg StoreConfig, factory *Factory, metrics Metrics, logger *zap.Logger) (*Store, error) {
	if factory == nil {
		return nil, errors.New("session factory is required")
	}
	if metrics == nil {
		return nil, errors.New("session metrics is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTTL
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = defaultMaxSessions
	}

	s := &Store{
		factory: factory,
		metrics: metrics,
		logger:  logger.Named("sessions"),
		ttl:     cfg.TTL,
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		// every session costs 1, so MaxCost is the session count
		NumCounters:        cfg.MaxSessions * 10,
		MaxCost:            cfg.MaxSessions,
		IgnoreInternalCost: true,
		BufferItems:        64,
		OnExit: func(val interface{}) {
			sess, ok := val.(*Session)
			if !ok {
				return
			}
			reason := reasonEvicted
			if s.stopping.Load() {
				reason = reasonShutdown
			}
			s.release(sess, reason)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create session cache: %w", err)
	}
	s.cache = cache

	return s, nil
}

// Create opens a session for email.
func (s *Store) Create(email string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	sess, err := s.factory.New(email)
	if err != nil {
		s.metrics.ObserveOpened(err)
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.live.Store(sess.ID, sess)
	if !s.cache.SetWithTTL(sess.ID, sess, 1, s.ttl) {
		s.live.Delete(sess.ID)
		sess.Close()
		s.metrics.ObserveOpened(ErrStoreFull)
		return nil, ErrStoreFull
	}
	s.cache.Wait()
	if _, ok := s.cache.Get(sess.ID); !ok {
		// rejected by the admission policy; OnExit has already released it
		s.release(sess, reasonEvicted)
		s.metrics.ObserveOpened(ErrStoreFull)
		return nil, ErrStoreFull
	}

	s.metrics.ObserveOpened(nil)
	s.logger.Debug("session opened", zap.String("session", sess.ID))
	return sess, nil
}

// Get returns a live session.
func (s *Store) Get(id string) (*Session, error) {
	val, ok := s.cache.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	sess, ok := val.(*Session)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return sess, nil
}

// Delete signs a session out and closes it.
func (s *Store) Delete(id string) error {
	sess, err := s.Get(id)
	if err != nil {
		return err
	}
	s.release(sess, reasonSignOut)
	s.cache.Del(id)
	s.cache.Wait()
	return nil
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	n := 0
	s.live.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Close releases every live session and stops the cache.
func (s *Store) Close() {
	_ = s.Shutdown(context.Background())
}

// Shutdown releases every live session on a bounded number of goroutines and stops
// the cache. Sessions not released before ctx is done are closed one by one when the
// cache stops, and ctx's error is returned.
func (s *Store) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.stopping.Store(true)
	s.mu.Unlock()

	var open []*Session
	s.live.Range(func(_, val any) bool {
		open = append(open, val.(*Session))
		return true
	})
	err := workerpool.Process(ctx, shutdownWorkers, open, func(ctx context.Context, sess *Session) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.release(sess, reasonShutdown)
		return nil
	})
	s.cache.Close()
	if err != nil {
		return fmt.Errorf("release sessions: %w", err)
	}
	return nil
}

func (s *Store) release(sess *Session, reason string) {
	if !sess.Close() {
		return
	}
	s.live.Delete(sess.ID)
	s.metrics.ObserveClosed(reason)
	s.logger.Debug("session closed", zap.String("session", sess.ID), zap.String("reason", reason))
}
