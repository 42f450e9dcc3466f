package retry

import (
	"context"
	"errors"
	"time"

	"github.com/dweisser/cachepool"
)

// Adapter wraps another adapter and retries failed backend operations per
// the configured policy. Key-validation errors are never retried; they
// cannot succeed on a second attempt.
type Adapter struct {
	next cachepool.Adapter
	cfg  Config
}

// Wrap creates a retrying adapter around next.
func Wrap(next cachepool.Adapter, cfg Config) *Adapter {
	base := cfg.Retryable
	cfg.Retryable = func(err error) bool {
		if errors.Is(err, cachepool.ErrInvalidKey) {
			return false
		}
		if base == nil {
			return true
		}
		return base(err)
	}
	return &Adapter{next: next, cfg: cfg}
}

type fetchResult struct {
	value any
	ok    bool
}

// Fetch retries the wrapped Fetch.
func (a *Adapter) Fetch(ctx context.Context, key string) (any, bool, error) {
	res, err := Do(ctx, a.cfg, func(ctx context.Context) (fetchResult, error) {
		v, ok, err := a.next.Fetch(ctx, key)
		return fetchResult{value: v, ok: ok}, err
	})
	return res.value, res.ok, err
}

// Store retries the wrapped Store.
func (a *Adapter) Store(ctx context.Context, key string, value any, expiresAt time.Time) error {
	_, err := Do(ctx, a.cfg, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, a.next.Store(ctx, key, value, expiresAt)
	})
	return err
}

// Delete retries the wrapped Delete.
func (a *Adapter) Delete(ctx context.Context, key string) error {
	_, err := Do(ctx, a.cfg, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, a.next.Delete(ctx, key)
	})
	return err
}

// DeleteAll retries the wrapped DeleteAll.
func (a *Adapter) DeleteAll(ctx context.Context) error {
	_, err := Do(ctx, a.cfg, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, a.next.DeleteAll(ctx)
	})
	return err
}

// Has retries the wrapped Has.
func (a *Adapter) Has(ctx context.Context, key string) (bool, error) {
	return Do(ctx, a.cfg, func(ctx context.Context) (bool, error) {
		return a.next.Has(ctx, key)
	})
}

var _ cachepool.Adapter = (*Adapter)(nil)
