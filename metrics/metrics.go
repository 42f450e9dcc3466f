// Package metrics provides a Prometheus-instrumented storage adapter:
// per-operation counters split by outcome, hit/miss counters for reads, and
// an operation latency histogram.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dweisser/cachepool"
)

// Adapter wraps another adapter and records Prometheus metrics for every
// backend operation.
type Adapter struct {
	next cachepool.Adapter

	ops      *prometheus.CounterVec
	hits     prometheus.Counter
	misses   prometheus.Counter
	duration *prometheus.HistogramVec
}

// Wrap creates an instrumented adapter around next, registering its
// collectors with reg. Registering two instrumented adapters with the same
// registerer requires distinct registries or a wrapping prometheus
// Registerer with extra labels.
func Wrap(next cachepool.Adapter, reg prometheus.Registerer) (*Adapter, error) {
	a := &Adapter{
		next: next,
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cachepool",
			Name:      "backend_operations_total",
			Help:      "Backend operations by operation and outcome.",
		}, []string{"op", "outcome"}),
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cachepool",
			Name:      "hits_total",
			Help:      "Backend reads that found a live entry.",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cachepool",
			Name:      "misses_total",
			Help:      "Backend reads that found nothing.",
		}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "cachepool",
			Name:      "backend_operation_seconds",
			Help:      "Backend operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}

	for _, c := range []prometheus.Collector{a.ops, a.hits, a.misses, a.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// observe records the shared per-operation metrics.
func (a *Adapter) observe(op string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	a.ops.WithLabelValues(op, outcome).Inc()
	a.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// Fetch instruments the wrapped Fetch.
func (a *Adapter) Fetch(ctx context.Context, key string) (any, bool, error) {
	start := time.Now()
	value, ok, err := a.next.Fetch(ctx, key)
	a.observe("fetch", start, err)
	if err == nil {
		if ok {
			a.hits.Inc()
		} else {
			a.misses.Inc()
		}
	}
	return value, ok, err
}

// Store instruments the wrapped Store.
func (a *Adapter) Store(ctx context.Context, key string, value any, expiresAt time.Time) error {
	start := time.Now()
	err := a.next.Store(ctx, key, value, expiresAt)
	a.observe("store", start, err)
	return err
}

// Delete instruments the wrapped Delete.
func (a *Adapter) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := a.next.Delete(ctx, key)
	a.observe("delete", start, err)
	return err
}

// DeleteAll instruments the wrapped DeleteAll.
func (a *Adapter) DeleteAll(ctx context.Context) error {
	start := time.Now()
	err := a.next.DeleteAll(ctx)
	a.observe("delete_all", start, err)
	return err
}

// Has instruments the wrapped Has.
func (a *Adapter) Has(ctx context.Context, key string) (bool, error) {
	start := time.Now()
	ok, err := a.next.Has(ctx, key)
	a.observe("has", start, err)
	if err == nil {
		if ok {
			a.hits.Inc()
		} else {
			a.misses.Inc()
		}
	}
	return ok, err
}

var _ cachepool.Adapter = (*Adapter)(nil)
