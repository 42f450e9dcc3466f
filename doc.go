// Package cachepool provides a key/value cache pool with per-item
// expiration, a deferred-write buffer, and pluggable storage backends.
//
// # Overview
//
// A [Pool] coordinates [Item] entries on top of an [Adapter], the only
// boundary the core depends on. Items carry an opaque value and an
// optional absolute expiration; items handed out by a pool resolve
// their value lazily from the backend on first access, exactly once.
//
// # Basic Usage
//
//	ctx := context.Background()
//
//	backend, _ := storage.NewFS("/var/cache/app")
//	pool := cachepool.New(backend)
//	defer pool.Close()
//
//	item, err := pool.GetItem(ctx, "user_42")
//	if err != nil {
//		return err // invalid key
//	}
//	if !item.IsHit(ctx) {
//		item.Set(loadUser(42))
//		item.ExpiresAfter(5 * time.Minute)
//		_ = pool.Save(ctx, item)
//	}
//
// # Deferred Writes
//
// SaveDeferred buffers items in memory; Commit flushes the buffer to
// the backend in insertion order. Close performs a final best-effort
// commit so buffered entries are not silently lost on teardown:
//
//	for _, u := range users {
//		it := cachepool.NewItem("user_"+u.ID, u)
//		it.ExpiresAfter(time.Hour)
//		_ = pool.SaveDeferred(it)
//	}
//	if err := pool.Commit(ctx); err != nil {
//		// at least one buffered write failed
//	}
//
// # Backends and Middleware
//
// The storage package ships filesystem, in-process (ristretto) and
// Redis adapters. The metrics, tracing, ratelimit, retry and breaker
// packages wrap any Adapter with cross-cutting behavior:
//
//	backend, _ := storage.NewFS(dir)
//	instrumented, _ := metrics.Wrap(backend, prometheus.DefaultRegisterer)
//	pool := cachepool.New(tracing.Wrap(instrumented, nil))
//
// # Errors
//
// Key validation failures wrap [ErrInvalidKey] and are always surfaced;
// they are programmer errors. Backend failures are returned as plain
// errors from the mutating operations and reported as misses from the
// reading ones; a broken cache never takes the application down.
package cachepool
