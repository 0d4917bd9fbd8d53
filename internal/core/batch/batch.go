// Package batch runs a worker over items in fixed-size concurrent chunks with
// a pause between chunks, to stay under an upstream provider's rate limits
package batch

import (
	"context"
	"time"

	perr "github.com/TanvirAuntu75/snapverse/internal/platform/errors"

	"golang.org/x/sync/errgroup"
)

// Defaults
const (
	DefaultSize  = 5
	DefaultDelay = time.Second
)

// Options controls chunking
type Options struct {
	Size  int           // items per chunk, DefaultSize when <= 0
	Delay time.Duration // pause between chunks; 0 means none
	// OnChunk, when set, is called after each completed chunk with its index
	// and size
	OnChunk func(index, size int)
}

// DefaultOptions is 5 items per chunk, 1s apart
func DefaultOptions() Options { return Options{Size: DefaultSize, Delay: DefaultDelay} }

// Worker processes one item
type Worker[T, R any] func(ctx context.Context, item T) (R, error)

// Result is the outcome of one item under Settle
type Result[R any] struct {
	Value R
	Err   error
}

// sleep is swapped in tests
var sleep = func(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (o Options) size() int {
	if o.Size <= 0 {
		return DefaultSize
	}
	return o.Size
}

// Process runs worker over items in contiguous chunks. Items of a chunk run
// concurrently and the next chunk starts Delay after the whole chunk is done.
// Results are in input order. The first worker error fails the call and
// cancels the rest of its chunk. Cancellation of ctx is checked before each
// chunk and during the pause.
func Process[T, R any](ctx context.Context, items []T, worker Worker[T, R], opts Options) ([]R, error) {
	out := make([]R, len(items))
	err := run(ctx, len(items), opts, func(ctx context.Context, lo, hi int) error {
		g, gctx := errgroup.WithContext(ctx)
		for i := lo; i < hi; i++ {
			g.Go(func() error {
				r, err := worker(gctx, items[i])
				if err != nil {
					return err
				}
				out[i] = r
				return nil
			})
		}
		return g.Wait()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Settle is Process with per-item failure: a failing item records its error
// and the rest of the batch carries on. Only cancellation of ctx fails the
// call, and then the results completed so far are returned with it.
func Settle[T, R any](ctx context.Context, items []T, worker Worker[T, R], opts Options) ([]Result[R], error) {
	out := make([]Result[R], len(items))
	err := run(ctx, len(items), opts, func(ctx context.Context, lo, hi int) error {
		var g errgroup.Group
		for i := lo; i < hi; i++ {
			g.Go(func() error {
				r, err := worker(ctx, items[i])
				out[i] = Result[R]{Value: r, Err: err}
				return nil
			})
		}
		return g.Wait()
	})
	if err != nil {
		return out, err
	}
	return out, nil
}

func run(ctx context.Context, n int, opts Options, chunk func(ctx context.Context, lo, hi int) error) error {
	size := opts.size()
	for idx, lo := 0, 0; lo < n; idx, lo = idx+1, lo+size {
		if lo > 0 {
			if err := sleep(ctx, opts.Delay); err != nil {
				return perr.FromContext(err, "batch canceled")
			}
		}
		if err := ctx.Err(); err != nil {
			return perr.FromContext(err, "batch canceled")
		}
		hi := min(lo+size, n)
		if err := chunk(ctx, lo, hi); err != nil {
			return err
		}
		if opts.OnChunk != nil {
			opts.OnChunk(idx, hi-lo)
		}
	}
	return nil
}
