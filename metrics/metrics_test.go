package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// stubAdapter serves one key and optionally fails everything.
type stubAdapter struct {
	err error
}

func (s *stubAdapter) Fetch(_ context.Context, key string) (any, bool, error) {
	if s.err != nil {
		return nil, false, s.err
	}
	if key == "present" {
		return "v", true, nil
	}
	return nil, false, nil
}

func (s *stubAdapter) Store(context.Context, string, any, time.Time) error { return s.err }
func (s *stubAdapter) Delete(context.Context, string) error                { return s.err }
func (s *stubAdapter) DeleteAll(context.Context) error                     { return s.err }
func (s *stubAdapter) Has(context.Context, string) (bool, error)           { return false, s.err }

func newTestAdapter(t *testing.T, backend *stubAdapter) *Adapter {
	t.Helper()
	a, err := Wrap(backend, prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	return a
}

func TestHitAndMissCounters(t *testing.T) {
	a := newTestAdapter(t, &stubAdapter{})
	ctx := t.Context()

	_, _, _ = a.Fetch(ctx, "present")
	_, _, _ = a.Fetch(ctx, "present")
	_, _, _ = a.Fetch(ctx, "absent")

	if got := testutil.ToFloat64(a.hits); got != 2 {
		t.Fatalf("hits = %v, want 2", got)
	}
	if got := testutil.ToFloat64(a.misses); got != 1 {
		t.Fatalf("misses = %v, want 1", got)
	}
}

func TestOperationOutcomes(t *testing.T) {
	a := newTestAdapter(t, &stubAdapter{})
	ctx := t.Context()

	_ = a.Store(ctx, "k", "v", time.Time{})
	_ = a.Delete(ctx, "k")
	_ = a.DeleteAll(ctx)

	for _, op := range []string{"store", "delete", "delete_all"} {
		if got := testutil.ToFloat64(a.ops.WithLabelValues(op, "ok")); got != 1 {
			t.Fatalf("ops{%s,ok} = %v, want 1", op, got)
		}
	}
}

func TestErrorOutcome(t *testing.T) {
	a := newTestAdapter(t, &stubAdapter{err: errors.New("down")})
	ctx := t.Context()

	_ = a.Store(ctx, "k", "v", time.Time{})
	_, _, _ = a.Fetch(ctx, "k")

	if got := testutil.ToFloat64(a.ops.WithLabelValues("store", "error")); got != 1 {
		t.Fatalf("ops{store,error} = %v, want 1", got)
	}
	// A failed read counts as neither hit nor miss.
	if got := testutil.ToFloat64(a.hits) + testutil.ToFloat64(a.misses); got != 0 {
		t.Fatalf("hit/miss counters = %v, want 0 on backend failure", got)
	}
}

func TestDuplicateRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := Wrap(&stubAdapter{}, reg); err != nil {
		t.Fatalf("first Wrap: %v", err)
	}
	if _, err := Wrap(&stubAdapter{}, reg); err == nil {
		t.Fatal("expected duplicate registration error")
	}
}
