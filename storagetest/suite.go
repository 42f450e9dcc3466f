// Package storagetest provides a conformance suite for validating adapter
// implementations against the cachepool.Adapter contract.
//
// Example usage:
//
//	func TestFSConformance(t *testing.T) {
//		storagetest.Run(t, func(t *testing.T) cachepool.Adapter {
//			a, err := storage.NewFSOn(memfs.New(), codec.JSON{})
//			require.NoError(t, err)
//			return a
//		})
//	}
package storagetest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dweisser/cachepool"
)

// Factory returns a fresh, empty adapter. Each subtest calls it once and
// may write through it freely.
type Factory func(t *testing.T) cachepool.Adapter

// Run executes every conformance test against adapters built by newAdapter.
func Run(t *testing.T, newAdapter Factory) {
	t.Run("MissingKey", func(t *testing.T) {
		a := newAdapter(t)
		ctx := t.Context()

		_, ok, err := a.Fetch(ctx, "absent")
		require.NoError(t, err, "a miss is not an error")
		require.False(t, ok)

		exists, err := a.Has(ctx, "absent")
		require.NoError(t, err)
		require.False(t, exists)
	})

	t.Run("RoundTrip", func(t *testing.T) {
		a := newAdapter(t)
		ctx := t.Context()

		require.NoError(t, a.Store(ctx, "greeting", "hello", time.Time{}))

		v, ok, err := a.Fetch(ctx, "greeting")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "hello", v)

		exists, err := a.Has(ctx, "greeting")
		require.NoError(t, err)
		require.True(t, exists)
	})

	t.Run("NilValue", func(t *testing.T) {
		a := newAdapter(t)
		ctx := t.Context()

		require.NoError(t, a.Store(ctx, "nothing", nil, time.Time{}))

		v, ok, err := a.Fetch(ctx, "nothing")
		require.NoError(t, err)
		require.True(t, ok, "nil is a legitimate stored value")
		require.Nil(t, v)
	})

	t.Run("Overwrite", func(t *testing.T) {
		a := newAdapter(t)
		ctx := t.Context()

		require.NoError(t, a.Store(ctx, "k", "one", time.Time{}))
		require.NoError(t, a.Store(ctx, "k", "two", time.Time{}))

		v, ok, err := a.Fetch(ctx, "k")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "two", v)
	})

	t.Run("FutureExpiry", func(t *testing.T) {
		a := newAdapter(t)
		ctx := t.Context()

		require.NoError(t, a.Store(ctx, "soon", "v", time.Now().Add(time.Hour)))

		_, ok, err := a.Fetch(ctx, "soon")
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("PastExpiry", func(t *testing.T) {
		a := newAdapter(t)
		ctx := t.Context()

		// Storing an already-expired entry must leave the key unreadable.
		require.NoError(t, a.Store(ctx, "stale", "v", time.Now().Add(-time.Minute)))

		_, ok, err := a.Fetch(ctx, "stale")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("PastExpiryReplacesLiveEntry", func(t *testing.T) {
		a := newAdapter(t)
		ctx := t.Context()

		require.NoError(t, a.Store(ctx, "k", "live", time.Time{}))
		require.NoError(t, a.Store(ctx, "k", "dead", time.Now().Add(-time.Second)))

		_, ok, err := a.Fetch(ctx, "k")
		require.NoError(t, err)
		require.False(t, ok, "expired store must supersede the live entry")
	})

	t.Run("IdempotentDelete", func(t *testing.T) {
		a := newAdapter(t)
		ctx := t.Context()

		require.NoError(t, a.Delete(ctx, "ghost"))
		require.NoError(t, a.Delete(ctx, "ghost"), "second delete must also succeed")

		require.NoError(t, a.Store(ctx, "real", "v", time.Time{}))
		require.NoError(t, a.Delete(ctx, "real"))

		_, ok, err := a.Fetch(ctx, "real")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("DeleteAll", func(t *testing.T) {
		a := newAdapter(t)
		ctx := t.Context()

		for _, key := range []string{"a", "b", "c"} {
			require.NoError(t, a.Store(ctx, key, key, time.Time{}))
		}
		require.NoError(t, a.DeleteAll(ctx))

		for _, key := range []string{"a", "b", "c"} {
			_, ok, err := a.Fetch(ctx, key)
			require.NoError(t, err)
			require.False(t, ok, "key %q should be gone", key)
		}
	})

	t.Run("InvalidKey", func(t *testing.T) {
		a := newAdapter(t)
		ctx := t.Context()

		for _, key := range []string{"", "with/slash", "with space", "a:b"} {
			err := a.Store(ctx, key, "v", time.Time{})
			require.ErrorIs(t, err, cachepool.ErrInvalidKey, "key %q", key)
		}
	})
}
