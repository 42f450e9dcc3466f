// Package ratelimit provides a token-bucket gate, backed by
// golang.org/x/time/rate, for storage adapters whose backends need write
// pressure kept in check.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/dweisser/cachepool"
)

// Adapter wraps another adapter and blocks mutating operations (Store,
// Delete, DeleteAll) until the token bucket permits them. Reads pass
// through unlimited. Waiting honors context cancellation.
type Adapter struct {
	next cachepool.Adapter
	lim  *rate.Limiter
}

// Wrap creates a rate-limited adapter permitting ops writes per second with
// the given burst size.
func Wrap(next cachepool.Adapter, ops float64, burst int) *Adapter {
	return &Adapter{
		next: next,
		lim:  rate.NewLimiter(rate.Limit(ops), burst),
	}
}

// Fetch passes through to the wrapped adapter.
func (a *Adapter) Fetch(ctx context.Context, key string) (any, bool, error) {
	return a.next.Fetch(ctx, key)
}

// Store waits for a token, then passes through.
func (a *Adapter) Store(ctx context.Context, key string, value any, expiresAt time.Time) error {
	if err := a.lim.Wait(ctx); err != nil {
		return err
	}
	return a.next.Store(ctx, key, value, expiresAt)
}

// Delete waits for a token, then passes through.
func (a *Adapter) Delete(ctx context.Context, key string) error {
	if err := a.lim.Wait(ctx); err != nil {
		return err
	}
	return a.next.Delete(ctx, key)
}

// DeleteAll waits for a token, then passes through.
func (a *Adapter) DeleteAll(ctx context.Context) error {
	if err := a.lim.Wait(ctx); err != nil {
		return err
	}
	return a.next.DeleteAll(ctx)
}

// Has passes through to the wrapped adapter.
func (a *Adapter) Has(ctx context.Context, key string) (bool, error) {
	return a.next.Has(ctx, key)
}

var _ cachepool.Adapter = (*Adapter)(nil)
