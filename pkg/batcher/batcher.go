// Package batcher provides a generic buffered batch processor with rate limiting.
package batcher

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

// ErrStopped is returned by Add once Stop has been called.
var ErrStopped = errors.New("batcher stopped")

// Config controls when a batch is flushed.
type Config struct {
	// Size flushes as soon as this many items are buffered.
	Size int
	// Interval flushes a partial batch after this long.
	Interval time.Duration
	// RPS caps flushes per second.
	RPS int
	// OnFlush, if set, is called after every flush attempt.
	OnFlush func(size int, err error)
}

// Batcher buffers items and flushes them either by size or interval.
type Batcher[T any] struct {
	cfg    Config
	flush  func(context.Context, []T) error
	items  chan T
	rl     ratelimit.Limiter
	logger *zap.Logger

	wg       sync.WaitGroup
	stop     chan struct{}
	stopOnce sync.Once
}

// New constructs a Batcher. flush receives a batch it may keep.
func New[T any](cfg Config, flush func(context.Context, []T) error, logger *zap.Logger) (*Batcher[T], error) {
	if flush == nil {
		return nil, errors.New("flush func is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	if cfg.Size <= 0 || cfg.Interval <= 0 || cfg.RPS <= 0 {
		return nil, errors.New("batch size, interval and rps must be positive")
	}

	return &Batcher[T]{
		cfg:    cfg,
		flush:  flush,
		items:  make(chan T, cfg.Size*2),
		rl:     ratelimit.New(cfg.RPS),
		logger: logger,
		stop:   make(chan struct{}),
	}, nil
}

// Start begins the background flushing loop.
func (b *Batcher[T]) Start(ctx context.Context) {
	b.wg.Add(1)
	go b.run(ctx)
}

// Stop flushes everything queued so far and waits for the loop to exit. It is safe to
// call more than once.
func (b *Batcher[T]) Stop() {
	b.stopOnce.Do(func() { close(b.stop) })
	b.wg.Wait()
}

// Add queues an item for batching, respecting context cancellation.
func (b *Batcher[T]) Add(ctx context.Context, item T) error {
	select {
	case <-b.stop:
		return ErrStopped
	default:
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-b.stop:
		return ErrStopped
	case b.items <- item:
		return nil
	}
}

func (b *Batcher[T]) run(ctx context.Context) {
	defer b.wg.Done()

	ticker := time.NewTicker(b.cfg.Interval)
	defer ticker.Stop()

	buf := make([]T, 0, b.cfg.Size)

	flush := func(ctx context.Context) {
		if len(buf) == 0 {
			return
		}

		b.rl.Take()
		batch := make([]T, len(buf))
		copy(batch, buf)
		buf = buf[:0]

		err := b.flush(ctx, batch)
		if err != nil {
			b.logger.Error("batch not flushed", zap.Int("size", len(batch)), zap.Error(err))
		} else {
			b.logger.Debug("batch flushed", zap.Int("size", len(batch)))
		}
		if b.cfg.OnFlush != nil {
			b.cfg.OnFlush(len(batch), err)
		}
	}

	// drain takes whatever is still queued so a shutdown does not lose items.
	drain := func(ctx context.Context) {
		for {
			select {
			case item := <-b.items:
				buf = append(buf, item)
				if len(buf) >= b.cfg.Size {
					flush(ctx)
				}
			default:
				flush(ctx)
				return
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			drain(context.WithoutCancel(ctx))
			return

		case <-b.stop:
			drain(ctx)
			return

		case item := <-b.items:
			buf = append(buf, item)
			if len(buf) >= b.cfg.Size {
				flush(ctx)
			}

		case <-ticker.C:
			flush(ctx)
		}
	}
}
