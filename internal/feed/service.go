package feed

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/goodnatureofminers/greenchain-backend/internal/clock"
	"github.com/goodnatureofminers/greenchain-backend/internal/model"
	"go.uber.org/zap"
)

// ErrClosed is returned by a Service that has been closed.
var ErrClosed = errors.New("feed closed")

// Config tunes a Service.
type Config struct {
	Interval   time.Duration
	HistoryCap int
	Actors     []string
	Seed       []model.Transaction
}

// Event is pushed to subscribers after every tick.
type Event struct {
	Transaction model.Transaction `json:"transaction"`
	Impact      model.Impact      `json:"impact"`
}

// Snapshot is a point-in-time copy of the feed state.
type Snapshot struct {
	Transactions []model.Transaction `json:"transactions"`
	Impact       model.Impact        `json:"impact"`
	Running      bool                `json:"running"`
}

// Service owns the live feed of one session. The periodic loop only runs while at
// least one viewer holds a lease obtained from Acquire.
type Service struct {
	logger    *zap.Logger
	metrics   Metrics
	generator *Generator
	sleep     func(context.Context, time.Duration) error
	interval  time.Duration

	mu          sync.Mutex
	history     *History
	impact      model.Impact
	subscribers map[uint64]chan Event
	nextSub     uint64
	viewers     int
	stop        context.CancelFunc
	done        chan struct{}
	closed      bool
}

// NewService builds a Service with dependencies.
func NewService(cfg Config, rnd Random, clk clock.Clock, metrics Metrics, logger *zap.Logger) (*Service, error) {
	if metrics == nil {
		return nil, errors.New("feed metrics is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	generator, err := NewGenerator(rnd, clk, cfg.Actors)
	if err != nil {
		return nil, err
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = defaultInterval
	}

	return &Service{
		logger:      logger.Named("feed"),
		metrics:     metrics,
		generator:   generator,
		sleep:       clock.SleepWithContext,
		interval:    interval,
		history:     NewHistory(cfg.HistoryCap, cfg.Seed),
		subscribers: make(map[uint64]chan Event),
	}, nil
}

// Acquire registers a viewer and starts the loop for the first one. The returned
// release func must be called when the viewer goes away; it is safe to call twice.
func (s *Service) Acquire() (release func(), err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}
	s.viewers++
	s.metrics.AddViewers(1)
	if s.viewers == 1 {
		s.startLocked()
	}

	var once sync.Once
	return func() { once.Do(s.release) }, nil
}

func (s *Service) startLocked() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.stop, s.done = cancel, done

	go func() {
		defer close(done)
		if err := s.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Warn("feed loop stopped", zap.Error(err))
		}
	}()
	s.logger.Debug("feed loop started", zap.Duration("interval", s.interval))
}

func (s *Service) release() {
	s.mu.Lock()
	if s.viewers == 0 {
		s.mu.Unlock()
		return
	}
	s.viewers--
	s.metrics.AddViewers(-1)

	var (
		stop context.CancelFunc
		done chan struct{}
	)
	if s.viewers == 0 {
		stop, done = s.stop, s.done
		s.stop, s.done = nil, nil
	}
	s.mu.Unlock()

	if stop != nil {
		stop()
		<-done
		s.logger.Debug("feed loop stopped; no viewers left")
	}
}

// Run ticks every interval until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	for {
		if err := s.sleep(ctx, s.interval); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		s.Tick()
	}
}

// Tick applies one simulated step and notifies subscribers. Subscribers that are not
// keeping up miss the event rather than stalling the feed.
func (s *Service) Tick() Event {
	started := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	step := s.generator.Next()
	s.history.Push(step.Transaction)
	s.impact = Apply(s.impact, step)

	evt := Event{Transaction: step.Transaction, Impact: s.impact}
	for id, ch := range s.subscribers {
		select {
		case ch <- evt:
		default:
			s.logger.Debug("subscriber lagging; event dropped", zap.Uint64("subscriber", id))
		}
	}
	s.metrics.ObserveTick(step.Transaction.Kind, step.EnergyDelta, started)

	return evt
}

// Subscribe returns a channel receiving every subsequent tick and a func that
// unsubscribes and closes the channel.
func (s *Service) Subscribe() (<-chan Event, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, nil, ErrClosed
	}
	id := s.nextSub
	s.nextSub++
	ch := make(chan Event, subscriberBuffer)
	s.subscribers[id] = ch

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if sub, ok := s.subscribers[id]; ok {
				delete(s.subscribers, id)
				close(sub)
			}
		})
	}
	return ch, unsubscribe, nil
}

// Snapshot copies the current history and totals.
func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		Transactions: s.history.Items(),
		Impact:       s.impact,
		Running:      s.stop != nil,
	}
}

// Close stops the loop regardless of outstanding leases and closes all subscriptions.
func (s *Service) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	if s.viewers > 0 {
		s.metrics.AddViewers(-s.viewers)
		s.viewers = 0
	}
	s.mu.Unlock()

	if stop != nil {
		stop()
		<-done
	}

	s.mu.Lock()
	for id, ch := range s.subscribers {
		delete(s.subscribers, id)
		close(ch)
	}
	s.mu.Unlock()
}
