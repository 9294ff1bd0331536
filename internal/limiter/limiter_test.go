package limiter

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"
)

func TestMapPreservesPositionalOrder(t *testing.T) {
	items := []int{5, 4, 3, 2, 1, 0}
	results, errs, err := Map(context.Background(), 2, items, func(ctx context.Context, n int) (int, error) {
		time.Sleep(time.Duration(n) * time.Millisecond)
		return n * 10, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, n := range items {
		if errs[i] != nil {
			t.Fatalf("unexpected per-item error at %d: %v", i, errs[i])
		}
		if results[i] != n*10 {
			t.Fatalf("results[%d] = %d, want %d", i, results[i], n*10)
		}
	}
}

func TestMapBoundsConcurrency(t *testing.T) {
	const limit = 3
	var current, max int64
	items := make([]int, 20)
	_, _, err := Map(context.Background(), limit, items, func(ctx context.Context, n int) (int, error) {
		c := atomic.AddInt64(&current, 1)
		for {
			m := atomic.LoadInt64(&max)
			if c <= m || atomic.CompareAndSwapInt64(&max, m, c) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		atomic.AddInt64(&current, -1)
		return n, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if max > limit {
		t.Fatalf("observed %d concurrent operations, want <= %d", max, limit)
	}
}

func TestMapSurfacesPerItemErrors(t *testing.T) {
	items := []int{1, 2, 3}
	_, errs, err := Map(context.Background(), 2, items, func(ctx context.Context, n int) (int, error) {
		if n == 2 {
			return 0, fmt.Errorf("boom")
		}
		return n, nil
	})
	if err != nil {
		t.Fatalf("unexpected top-level error: %v", err)
	}
	if errs[1] == nil {
		t.Fatal("expected per-item error at index 1")
	}
	if errs[0] != nil || errs[2] != nil {
		t.Fatal("did not expect errors on the other items")
	}
}

func TestMapHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	items := []int{1, 2, 3}
	_, _, err := Map(ctx, 1, items, func(ctx context.Context, n int) (int, error) {
		return n, nil
	})
	if err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestMapSingleLimitIsSequential(t *testing.T) {
	items := []int{1, 2, 3, 4}
	var order []int
	_, _, err := Map(context.Background(), 1, items, func(ctx context.Context, n int) (int, error) {
		order = append(order, n)
		return n, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != len(items) {
		t.Fatalf("expected all %d items processed, got %d", len(items), len(order))
	}
}
