package ratelimit

import (
	"context"
	"testing"
	"time"
)

// countingAdapter records how often each operation ran.
type countingAdapter struct {
	fetches int
	stores  int
}

func (c *countingAdapter) Fetch(context.Context, string) (any, bool, error) {
	c.fetches++
	return nil, false, nil
}

func (c *countingAdapter) Store(context.Context, string, any, time.Time) error {
	c.stores++
	return nil
}

func (c *countingAdapter) Delete(context.Context, string) error { return nil }
func (c *countingAdapter) DeleteAll(context.Context) error      { return nil }
func (c *countingAdapter) Has(context.Context, string) (bool, error) {
	return false, nil
}

func TestAdapter_ReadsPassThroughUnlimited(t *testing.T) {
	backend := &countingAdapter{}
	a := Wrap(backend, 0.001, 1) // effectively no write budget after the burst
	ctx := t.Context()

	for range 50 {
		if _, _, err := a.Fetch(ctx, "k"); err != nil {
			t.Fatalf("Fetch: %v", err)
		}
	}
	if backend.fetches != 50 {
		t.Fatalf("fetches = %d, want 50", backend.fetches)
	}
}

func TestAdapter_WritesWaitForTokens(t *testing.T) {
	backend := &countingAdapter{}
	a := Wrap(backend, 100, 2)
	ctx := t.Context()

	start := time.Now()
	for range 4 {
		if err := a.Store(ctx, "k", "v", time.Time{}); err != nil {
			t.Fatalf("Store: %v", err)
		}
	}
	elapsed := time.Since(start)

	if backend.stores != 4 {
		t.Fatalf("stores = %d, want 4", backend.stores)
	}
	// Burst of 2 is free; the remaining 2 wait ~10ms each at 100 ops/s.
	if elapsed < 15*time.Millisecond {
		t.Fatalf("4 writes finished in %v, expected rate limiting to slow them", elapsed)
	}
}

func TestAdapter_WaitHonorsContext(t *testing.T) {
	backend := &countingAdapter{}
	a := Wrap(backend, 0.001, 1)

	// Exhaust the burst.
	if err := a.Store(t.Context(), "k", "v", time.Time{}); err != nil {
		t.Fatalf("Store: %v", err)
	}

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()

	if err := a.Store(ctx, "k", "v", time.Time{}); err == nil {
		t.Fatal("expected context deadline error while waiting for a token")
	}
	if backend.stores != 1 {
		t.Fatalf("stores = %d, want 1: the blocked write must not reach the backend", backend.stores)
	}
}
