package cachepool

import (
	"context"
	"time"
)

// Adapter is the storage boundary a Pool persists through. Implementations
// live in the storage package; the middleware packages (metrics, tracing,
// ratelimit, retry, breaker) wrap one Adapter in another.
//
// Contract:
//   - Fetch returns (nil, false, nil) for a missing or expired key; a miss
//     is not an error.
//   - Store with a zero expiresAt persists without expiration. A past
//     expiresAt means the entry is already expired: the adapter may skip or
//     remove the entry, but a subsequent Fetch must report a miss.
//   - Delete is idempotent; deleting an absent key is not an error.
//   - DeleteAll removes every entry within the adapter's own scope only.
//   - Has reports whether an unexpired entry exists without necessarily
//     decoding its value.
type Adapter interface {
	Fetch(ctx context.Context, key string) (value any, ok bool, err error)
	Store(ctx context.Context, key string, value any, expiresAt time.Time) error
	Delete(ctx context.Context, key string) error
	DeleteAll(ctx context.Context) error
	Has(ctx context.Context, key string) (bool, error)
}
