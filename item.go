package cachepool

import (
	"context"
	"sync"
	"time"
)

// Resolver produces an item's value on first access. ok reports whether the
// lookup was a hit; a hit may legitimately carry a nil value.
type Resolver func(ctx context.Context) (value any, ok bool)

// Item is a single cache entry: a key, an opaque value and an optional
// absolute expiration. Items handed out by a Pool resolve their value
// lazily from the backend; the resolver runs at most once per Item and its
// result is memoized. All methods are safe for concurrent use.
type Item struct {
	mu sync.Mutex

	key       string
	value     any
	hasValue  bool
	expiresAt time.Time // zero means no expiration
	resolve   Resolver  // pending until first IsHit/Get, then nil
	clock     Clock
}

// NewItem creates an Item with an eagerly set value. The key is not
// validated here; validation happens when the item passes through a Pool.
func NewItem(key string, value any) *Item {
	return &Item{
		key:      key,
		value:    value,
		hasValue: true,
		clock:    realClock{},
	}
}

// NewDeferredItem creates an Item whose value is produced by resolve on
// first access. Pools use this for backend-backed lookups; it is exported so
// custom loaders can participate in the same lazy contract.
func NewDeferredItem(key string, resolve Resolver) *Item {
	return &Item{
		key:     key,
		resolve: resolve,
		clock:   realClock{},
	}
}

// Key returns the item's key.
func (it *Item) Key() string {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.key
}

// SetKey reassigns the item's key. No validation happens at this layer;
// pool-managed keys are validated by the Pool.
func (it *Item) SetKey(key string) {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.key = key
}

// Set stores value immediately and discards any pending resolver.
func (it *Item) Set(value any) {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.value = value
	it.hasValue = true
	it.resolve = nil
}

// SetResolver replaces the item's value with a pending resolver, returning
// the item to the unresolved state.
func (it *Item) SetResolver(resolve Resolver) {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.value = nil
	it.hasValue = false
	it.resolve = resolve
}

// Get returns the item's value, or nil when the item is not a hit. A stored
// nil is indistinguishable from a miss here; use IsHit to tell them apart.
func (it *Item) Get(ctx context.Context) any {
	it.mu.Lock()
	defer it.mu.Unlock()
	if !it.hit(ctx) {
		return nil
	}
	return it.value
}

// IsHit reports whether the item holds a live value. A pending resolver is
// invoked here, exactly once; hit state and value are established together
// under the same lock so Get cannot observe a different outcome.
func (it *Item) IsHit(ctx context.Context) bool {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.hit(ctx)
}

// hit resolves and evaluates expiration. Must be called with it.mu held.
func (it *Item) hit(ctx context.Context) bool {
	if it.resolve != nil {
		it.value, it.hasValue = it.resolve(ctx)
		it.resolve = nil
	}
	if !it.hasValue {
		return false
	}
	if !it.expiresAt.IsZero() {
		return it.expiresAt.After(it.clock.Now())
	}
	return true
}

// ExpiresAt sets the absolute expiration. The zero time clears it, meaning
// the entry never expires (or falls back to backend-default retention).
func (it *Item) ExpiresAt(t time.Time) {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.expiresAt = t
}

// ExpiresAfter sets the expiration to now+d. A non-positive d marks the
// item as already expired; use ExpiresAt with the zero time to clear an
// expiration instead.
func (it *Item) ExpiresAfter(d time.Duration) {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.expiresAt = it.clock.Now().Add(d)
}

// Expiration returns the absolute expiration, or the zero time when none is
// set.
func (it *Item) Expiration() time.Time {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.expiresAt
}

// clone returns an independent copy. Pools clone items across the deferred
// buffer boundary so callers cannot mutate buffered state in place. A
// pending resolver is shared but each copy invokes it independently, at
// most once.
func (it *Item) clone() *Item {
	it.mu.Lock()
	defer it.mu.Unlock()
	return &Item{
		key:       it.key,
		value:     it.value,
		hasValue:  it.hasValue,
		expiresAt: it.expiresAt,
		resolve:   it.resolve,
		clock:     it.clock,
	}
}

// snapshot resolves a pending resolver and returns the current value and
// expiration in one step. Used by Pool.Save.
func (it *Item) snapshot(ctx context.Context) (value any, expiresAt time.Time) {
	it.mu.Lock()
	defer it.mu.Unlock()
	if it.resolve != nil {
		it.value, it.hasValue = it.resolve(ctx)
		it.resolve = nil
	}
	return it.value, it.expiresAt
}

func (it *Item) setClock(c Clock) {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.clock = c
}
