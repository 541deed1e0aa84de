// Package workerpool runs bounded concurrent work over a slice of items.
package workerpool

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Process runs process for every item on at most workers goroutines. The first error
// cancels the remaining work and is returned.
func Process[T any](ctx context.Context, workers int, items []T, process func(context.Context, T) error) error {
	parent := ctx
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))

	for _, item := range items {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			return process(ctx, item)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return parent.Err()
}
