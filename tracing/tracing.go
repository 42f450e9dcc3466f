// Package tracing provides an OpenTelemetry-instrumented storage adapter.
// It is entirely optional; spans are only created when an adapter is
// wrapped via [Wrap].
package tracing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dweisser/cachepool"
)

// Config holds the OpenTelemetry configuration used by the traced adapter.
type Config struct {
	// TracerProvider supplies the Tracer used to create spans. When nil the
	// global otel.GetTracerProvider() is used.
	TracerProvider trace.TracerProvider
}

// tracer returns a configured [trace.Tracer].
func (c *Config) tracer() trace.Tracer {
	tp := c.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return tp.Tracer("github.com/dweisser/cachepool/tracing")
}

// Adapter wraps another adapter and creates a client span per backend
// operation, recording the key and, for reads, whether the lookup hit.
type Adapter struct {
	next cachepool.Adapter
	cfg  Config
}

// Wrap creates a traced adapter around next. A nil cfg uses the global
// tracer provider.
func Wrap(next cachepool.Adapter, cfg *Config) *Adapter {
	if cfg == nil {
		cfg = &Config{}
	}
	return &Adapter{next: next, cfg: *cfg}
}

// Fetch traces the wrapped Fetch, recording the hit outcome.
func (a *Adapter) Fetch(ctx context.Context, key string) (any, bool, error) {
	ctx, span := a.start(ctx, "cache.fetch", key)
	defer span.End()

	value, ok, err := a.next.Fetch(ctx, key)
	span.SetAttributes(attribute.Bool("cache.hit", ok))
	recordStatus(span, err)
	return value, ok, err
}

// Store traces the wrapped Store.
func (a *Adapter) Store(ctx context.Context, key string, value any, expiresAt time.Time) error {
	ctx, span := a.start(ctx, "cache.store", key)
	defer span.End()

	if !expiresAt.IsZero() {
		span.SetAttributes(attribute.String("cache.expires_at", expiresAt.Format(time.RFC3339)))
	}
	err := a.next.Store(ctx, key, value, expiresAt)
	recordStatus(span, err)
	return err
}

// Delete traces the wrapped Delete.
func (a *Adapter) Delete(ctx context.Context, key string) error {
	ctx, span := a.start(ctx, "cache.delete", key)
	defer span.End()

	err := a.next.Delete(ctx, key)
	recordStatus(span, err)
	return err
}

// DeleteAll traces the wrapped DeleteAll.
func (a *Adapter) DeleteAll(ctx context.Context) error {
	ctx, span := a.cfg.tracer().Start(ctx, "cache.delete_all", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	err := a.next.DeleteAll(ctx)
	recordStatus(span, err)
	return err
}

// Has traces the wrapped Has, recording the outcome.
func (a *Adapter) Has(ctx context.Context, key string) (bool, error) {
	ctx, span := a.start(ctx, "cache.has", key)
	defer span.End()

	ok, err := a.next.Has(ctx, key)
	span.SetAttributes(attribute.Bool("cache.hit", ok))
	recordStatus(span, err)
	return ok, err
}

// --- helpers ----------------------------------------------------------------

func (a *Adapter) start(ctx context.Context, op, key string) (context.Context, trace.Span) {
	return a.cfg.tracer().Start(ctx, op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("cache.key", key)),
	)
}

// recordStatus sets the span status from the operation outcome.
func recordStatus(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}

var _ cachepool.Adapter = (*Adapter)(nil)
