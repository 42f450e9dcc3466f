package breaker

import (
	"context"
	"time"

	"github.com/dweisser/cachepool"
)

// Adapter wraps another adapter behind a circuit breaker. Backend failures
// count against the breaker; once it trips, operations return ErrOpen
// without touching the backend. A rejected Fetch surfaces ErrOpen, which
// the Pool degrades to a miss.
type Adapter struct {
	next cachepool.Adapter
	b    *Breaker
}

// Wrap creates a breaker-guarded adapter around next.
func Wrap(next cachepool.Adapter, cfg Config) *Adapter {
	return &Adapter{next: next, b: New(cfg)}
}

// Breaker exposes the underlying breaker for health inspection.
func (a *Adapter) Breaker() *Breaker {
	return a.b
}

// Fetch passes through the breaker.
func (a *Adapter) Fetch(ctx context.Context, key string) (any, bool, error) {
	var (
		value any
		ok    bool
	)
	err := a.b.Do(func() error {
		var err error
		value, ok, err = a.next.Fetch(ctx, key)
		return err
	})
	return value, ok, err
}

// Store passes through the breaker.
func (a *Adapter) Store(ctx context.Context, key string, value any, expiresAt time.Time) error {
	return a.b.Do(func() error {
		return a.next.Store(ctx, key, value, expiresAt)
	})
}

// Delete passes through the breaker.
func (a *Adapter) Delete(ctx context.Context, key string) error {
	return a.b.Do(func() error {
		return a.next.Delete(ctx, key)
	})
}

// DeleteAll passes through the breaker.
func (a *Adapter) DeleteAll(ctx context.Context) error {
	return a.b.Do(func() error {
		return a.next.DeleteAll(ctx)
	})
}

// Has passes through the breaker.
func (a *Adapter) Has(ctx context.Context, key string) (bool, error) {
	var ok bool
	err := a.b.Do(func() error {
		var err error
		ok, err = a.next.Has(ctx, key)
		return err
	})
	return ok, err
}

var _ cachepool.Adapter = (*Adapter)(nil)
