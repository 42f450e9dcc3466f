package storage

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/dweisser/cachepool"
)

// Memory is an in-process adapter backed by ristretto. Each entry has a
// cost of 1, so maxEntries bounds the entry count. Ristretto enforces the
// TTL; a guard against the stored expiration covers the window before its
// internal cleanup runs.
type Memory struct {
	rc *ristretto.Cache[string, memoryEntry]
}

type memoryEntry struct {
	value     any
	expiresAt time.Time
}

// NewMemory creates an in-process adapter holding at most maxEntries
// entries.
func NewMemory(maxEntries int64) (*Memory, error) {
	rc, err := ristretto.NewCache(&ristretto.Config[string, memoryEntry]{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Memory{rc: rc}, nil
}

// Fetch retrieves the entry for key, reporting a miss once its expiration
// has passed.
func (m *Memory) Fetch(_ context.Context, key string) (any, bool, error) {
	if err := cachepool.ValidateKey(key); err != nil {
		return nil, false, err
	}

	e, ok := m.rc.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && !e.expiresAt.After(time.Now()) {
		m.rc.Del(key)
		return nil, false, nil
	}
	return e.value, true, nil
}

// Store writes the entry for key. A past expiresAt removes any existing
// entry instead of writing.
func (m *Memory) Store(ctx context.Context, key string, value any, expiresAt time.Time) error {
	if err := cachepool.ValidateKey(key); err != nil {
		return err
	}

	var ttl time.Duration
	if !expiresAt.IsZero() {
		ttl = time.Until(expiresAt)
		if ttl <= 0 {
			return m.Delete(ctx, key)
		}
	}

	m.rc.SetWithTTL(key, memoryEntry{value: value, expiresAt: expiresAt}, 1, ttl)
	m.rc.Wait()
	return nil
}

// Delete removes the entry for key. Removing an absent key succeeds.
func (m *Memory) Delete(_ context.Context, key string) error {
	if err := cachepool.ValidateKey(key); err != nil {
		return err
	}
	m.rc.Del(key)
	m.rc.Wait()
	return nil
}

// DeleteAll drops every entry.
func (m *Memory) DeleteAll(_ context.Context) error {
	m.rc.Clear()
	return nil
}

// Has reports whether an unexpired entry exists for key.
func (m *Memory) Has(ctx context.Context, key string) (bool, error) {
	_, ok, err := m.Fetch(ctx, key)
	return ok, err
}

// Close releases the underlying ristretto cache.
func (m *Memory) Close() {
	m.rc.Close()
}

var _ cachepool.Adapter = (*Memory)(nil)
