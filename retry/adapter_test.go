package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dweisser/cachepool"
)

// flakyAdapter fails the first failures calls of every operation.
type flakyAdapter struct {
	failures int
	calls    int
	stored   map[string]any
}

func newFlakyAdapter(failures int) *flakyAdapter {
	return &flakyAdapter{failures: failures, stored: make(map[string]any)}
}

func (f *flakyAdapter) attempt() error {
	f.calls++
	if f.calls <= f.failures {
		return errors.New("flaky")
	}
	return nil
}

func (f *flakyAdapter) Fetch(_ context.Context, key string) (any, bool, error) {
	if err := f.attempt(); err != nil {
		return nil, false, err
	}
	v, ok := f.stored[key]
	return v, ok, nil
}

func (f *flakyAdapter) Store(_ context.Context, key string, value any, _ time.Time) error {
	if err := f.attempt(); err != nil {
		return err
	}
	f.stored[key] = value
	return nil
}

func (f *flakyAdapter) Delete(_ context.Context, key string) error {
	if err := f.attempt(); err != nil {
		return err
	}
	delete(f.stored, key)
	return nil
}

func (f *flakyAdapter) DeleteAll(context.Context) error {
	if err := f.attempt(); err != nil {
		return err
	}
	f.stored = make(map[string]any)
	return nil
}

func (f *flakyAdapter) Has(ctx context.Context, key string) (bool, error) {
	_, ok, err := f.Fetch(ctx, key)
	return ok, err
}

func testConfig() Config {
	return Config{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
}

func TestAdapter_RetriesTransientFailures(t *testing.T) {
	flaky := newFlakyAdapter(2)
	a := Wrap(flaky, testConfig())
	ctx := t.Context()

	if err := a.Store(ctx, "k", "v", time.Time{}); err != nil {
		t.Fatalf("Store should succeed on the third attempt: %v", err)
	}
	if flaky.calls != 3 {
		t.Fatalf("made %d calls, want 3", flaky.calls)
	}

	v, ok, err := a.Fetch(ctx, "k")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !ok || v != "v" {
		t.Fatalf("Fetch = (%v, %v), want (v, true)", v, ok)
	}
}

func TestAdapter_GivesUpEventually(t *testing.T) {
	flaky := newFlakyAdapter(10)
	a := Wrap(flaky, testConfig())

	if err := a.Store(t.Context(), "k", "v", time.Time{}); err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if flaky.calls != 3 {
		t.Fatalf("made %d calls, want 3", flaky.calls)
	}
}

func TestAdapter_InvalidKeyNotRetried(t *testing.T) {
	calls := 0
	bad := adapterFunc(func() error {
		calls++
		return fmt.Errorf("%w: bad key", cachepool.ErrInvalidKey)
	})
	a := Wrap(bad, testConfig())

	err := a.Delete(t.Context(), "irrelevant")
	if !errors.Is(err, cachepool.ErrInvalidKey) {
		t.Fatalf("err = %v, want ErrInvalidKey", err)
	}
	if calls != 1 {
		t.Fatalf("made %d calls, want 1: programmer errors never retry", calls)
	}
}

// adapterFunc fails every operation with the produced error.
type adapterFunc func() error

func (f adapterFunc) Fetch(context.Context, string) (any, bool, error) { return nil, false, f() }
func (f adapterFunc) Store(context.Context, string, any, time.Time) error {
	return f()
}
func (f adapterFunc) Delete(context.Context, string) error  { return f() }
func (f adapterFunc) DeleteAll(context.Context) error       { return f() }
func (f adapterFunc) Has(context.Context, string) (bool, error) {
	return false, f()
}
