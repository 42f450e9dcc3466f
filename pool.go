package cachepool

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
)

// Pool is a cache repository: it validates keys, hands out Items backed by
// an Adapter, and buffers deferred writes until Commit. A Pool is safe for
// concurrent use; access to the deferred buffer and the Adapter calls it
// triggers are serialized per operation.
type Pool struct {
	adapter Adapter
	clock   Clock

	mu       sync.Mutex
	deferred map[string]*Item
	order    []string // insertion order, keeps Commit deterministic
}

// New creates a Pool persisting through adapter.
func New(adapter Adapter, opts ...Option) *Pool {
	cfg := config{clock: realClock{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Pool{
		adapter:  adapter,
		clock:    cfg.clock,
		deferred: make(map[string]*Item),
	}
}

// GetItem returns the Item for key. A buffered deferred item is returned as
// an independent copy; mutating it does not touch the buffer unless it is
// explicitly re-saved. Otherwise the returned item resolves lazily from the
// backend on first IsHit/Get. A miss still yields an Item, never nil.
func (p *Pool) GetItem(ctx context.Context, key string) (*Item, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	p.mu.Lock()
	if it, ok := p.deferred[key]; ok {
		p.mu.Unlock()
		return it.clone(), nil
	}
	p.mu.Unlock()

	it := NewDeferredItem(key, func(ctx context.Context) (any, bool) {
		v, ok, err := p.adapter.Fetch(ctx, key)
		if err != nil {
			// Fail soft: a broken backend reads as a miss.
			return nil, false
		}
		return v, ok
	})
	it.setClock(p.clock)
	return it, nil
}

// GetItems returns an Item per key. Every key validates before any item is
// built; an empty key list yields an empty map. Misses are present in the
// result with IsHit reporting false; no key is ever omitted.
func (p *Pool) GetItems(ctx context.Context, keys ...string) (map[string]*Item, error) {
	for _, key := range keys {
		if err := ValidateKey(key); err != nil {
			return nil, err
		}
	}

	items := make(map[string]*Item, len(keys))
	for _, key := range keys {
		it, err := p.GetItem(ctx, key)
		if err != nil {
			return nil, err
		}
		items[key] = it
	}
	return items, nil
}

// HasItem reports whether key currently resolves to a hit. The result is a
// point-in-time answer: a later GetItem may observe a different state if
// the backend changes in between. Callers needing the value atomically
// should hold on to a single Item instead of re-querying.
func (p *Pool) HasItem(ctx context.Context, key string) (bool, error) {
	it, err := p.GetItem(ctx, key)
	if err != nil {
		return false, err
	}
	return it.IsHit(ctx), nil
}

// Clear drops the deferred buffer unconditionally, then asks the backend to
// delete everything in its scope.
func (p *Pool) Clear(ctx context.Context) error {
	p.mu.Lock()
	p.deferred = make(map[string]*Item)
	p.order = nil
	p.mu.Unlock()

	return p.adapter.DeleteAll(ctx)
}

// DeleteItem removes key from the deferred buffer and the backend. Deleting
// an absent key succeeds.
func (p *Pool) DeleteItem(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	p.mu.Lock()
	if _, ok := p.deferred[key]; ok {
		delete(p.deferred, key)
		p.order = slices.DeleteFunc(p.order, func(k string) bool { return k == key })
	}
	p.mu.Unlock()

	return p.adapter.Delete(ctx, key)
}

// DeleteItems deletes every key. All keys validate up front; afterwards
// every delete is attempted regardless of earlier failures and the
// failures, if any, are joined into a single error.
func (p *Pool) DeleteItems(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if err := ValidateKey(key); err != nil {
			return err
		}
	}

	var errs []error
	for _, key := range keys {
		if err := p.DeleteItem(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Save persists item immediately. A pending resolver is resolved first so
// the stored value matches what the caller would observe. An already past
// expiration is passed through; the backend guarantees the next Fetch for
// the key reports a miss.
func (p *Pool) Save(ctx context.Context, item *Item) error {
	if err := ValidateKey(item.Key()); err != nil {
		return err
	}
	value, expiresAt := item.snapshot(ctx)
	return p.adapter.Store(ctx, item.Key(), value, expiresAt)
}

// SaveDeferred buffers item for a later Commit. The buffer holds an
// independent copy, so further mutation of item has no effect until it is
// saved again. Re-saving a buffered key overwrites the copy but keeps its
// original commit position. Buffering is memory-only and cannot fail.
func (p *Pool) SaveDeferred(item *Item) error {
	if err := ValidateKey(item.Key()); err != nil {
		return err
	}

	c := item.clone()
	c.setClock(p.clock)

	p.mu.Lock()
	defer p.mu.Unlock()
	key := c.Key()
	if _, ok := p.deferred[key]; !ok {
		p.order = append(p.order, key)
	}
	p.deferred[key] = c
	return nil
}

// Commit saves every deferred item in insertion order. Every save is
// attempted even after a failure; the buffer is cleared unconditionally
// afterwards. Failures are reduced to a single error without per-key
// detail; callers needing diagnostics should Save items individually.
func (p *Pool) Commit(ctx context.Context) error {
	p.mu.Lock()
	deferred := p.deferred
	order := p.order
	p.deferred = make(map[string]*Item)
	p.order = nil
	p.mu.Unlock()

	var failed int
	for _, key := range order {
		it, ok := deferred[key]
		if !ok {
			continue
		}
		if err := p.Save(ctx, it); err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("cachepool: commit: %d of %d deferred saves failed", failed, len(order))
	}
	return nil
}

// Deferred returns the number of items waiting for Commit.
func (p *Pool) Deferred() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.deferred)
}

// Close flushes the deferred buffer as a best effort. Storage failures
// during teardown are swallowed: there is no caller able to act on them
// and a failing cache must never take the application down.
func (p *Pool) Close() error {
	_ = p.Commit(context.Background())
	return nil
}
