// Package limiter implements the order-preserving bounded map described in
// §4.1: run an async function over a sequence with a bounded number of
// in-flight operations, storing each result at its original index.
package limiter

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Map runs fn(ctx, items[i]) for every i with at most `limit` concurrent
// invocations, storing result i at index i of the returned slice regardless
// of completion order. If fn returns an error for some i, that error is
// recorded at errs[i] (the second return value) and the remaining work continues — the
// contract in §4.1 requires per-operation errors to surface "in the same
// form as a direct call", not to abort sibling operations.
//
// If ctx is cancelled, Map stops scheduling new work and returns the
// partial, positionally-correct results collected so far alongside ctx.Err().
func Map[T, R any](ctx context.Context, limit int, items []T, fn func(context.Context, T) (R, error)) ([]R, []error, error) {
	if limit < 1 {
		limit = 1
	}

	results := make([]R, len(items))
	errs := make([]error, len(items))

	sem := semaphore.NewWeighted(int64(limit))
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i, item := range items {
			if ctx.Err() != nil {
				break
			}
			if err := sem.Acquire(ctx, 1); err != nil {
				break
			}
			i, item := i, item
			go func() {
				defer sem.Release(1)
				r, err := fn(ctx, item)
				results[i] = r
				errs[i] = err
			}()
		}
		// Wait for all in-flight work to drain by acquiring the full weight.
		// context.Background() keeps this wait in place after ctx is cancelled.
		_ = sem.Acquire(context.Background(), int64(limit))
		sem.Release(int64(limit))
	}()

	<-done
	if ctx.Err() != nil {
		return results, errs, ctx.Err()
	}
	return results, errs, nil
}
