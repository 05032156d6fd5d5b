package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation name used for editor spans.
const TracerName = "github.com/bploeckelman/nodes"

// TracingConfig configures OpenTelemetry tracing.
type TracingConfig struct {
	ServiceName    string
	ServiceVersion string

	// Exporter receives finished spans. If nil, tracing is a no-op.
	Exporter sdktrace.SpanExporter

	// SampleRate is the trace sampling rate (0.0 to 1.0).
	SampleRate float64
}

// DefaultTracingConfig returns a configuration with no exporter.
func DefaultTracingConfig() *TracingConfig {
	return &TracingConfig{
		ServiceName: "nodes",
		SampleRate:  1.0,
	}
}

// TracerProvider wraps the OpenTelemetry tracer provider.
type TracerProvider struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
}

// InitTracing installs a global tracer provider that sends spans to
// cfg.Exporter. Without an exporter it returns a no-op provider.
func InitTracing(ctx context.Context, cfg *TracingConfig) (*TracerProvider, error) {
	if cfg == nil {
		cfg = DefaultTracingConfig()
	}
	if cfg.Exporter == nil {
		return &TracerProvider{tracer: otel.Tracer(TracerName)}, nil
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("service.version", cfg.ServiceVersion),
	)

	var sampler sdktrace.Sampler
	switch {
	case cfg.SampleRate >= 1.0:
		sampler = sdktrace.AlwaysSample()
	case cfg.SampleRate <= 0:
		sampler = sdktrace.NeverSample()
	default:
		sampler = sdktrace.TraceIDRatioBased(cfg.SampleRate)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(cfg.Exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	)
	otel.SetTracerProvider(provider)

	return &TracerProvider{
		provider: provider,
		tracer:   provider.Tracer(TracerName),
	}, nil
}

// Shutdown flushes and stops the provider.
func (tp *TracerProvider) Shutdown(ctx context.Context) error {
	if tp.provider != nil {
		return tp.provider.Shutdown(ctx)
	}
	return nil
}

// Tracer returns the underlying tracer.
func (tp *TracerProvider) Tracer() trace.Tracer {
	return tp.tracer
}

// =============================================================================
// Tracing Hooks
// =============================================================================

// TracingHooks implements DocumentHooks by recording one span per save or
// load. Spans are backdated to the operation's start.
type TracingHooks struct {
	tracer trace.Tracer
}

// NewTracingHooks returns hooks that use the global tracer provider.
func NewTracingHooks() *TracingHooks {
	return &TracingHooks{tracer: otel.Tracer(TracerName)}
}

// NewTracingHooksWithTracer returns hooks that use tracer.
func NewTracingHooksWithTracer(tracer trace.Tracer) *TracingHooks {
	return &TracingHooks{tracer: tracer}
}

func (h *TracingHooks) OnLoadStart(ctx context.Context, name string) {
	trace.SpanFromContext(ctx).AddEvent("document.load.start",
		trace.WithAttributes(attribute.String("document.name", name)))
}

func (h *TracingHooks) OnLoadComplete(ctx context.Context, name string, nodeCount int, duration time.Duration, err error) {
	h.record(ctx, "document.load", name, nodeCount, duration, err)
}

func (h *TracingHooks) OnSaveComplete(ctx context.Context, name string, nodeCount int, duration time.Duration, err error) {
	h.record(ctx, "document.save", name, nodeCount, duration, err)
}

func (h *TracingHooks) record(ctx context.Context, op, name string, nodeCount int, duration time.Duration, err error) {
	end := time.Now()
	_, span := h.tracer.Start(ctx, op,
		trace.WithTimestamp(end.Add(-duration)),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("document.name", name),
			attribute.Int("document.node_count", nodeCount),
		),
	)
	RecordError(span, err)
	span.End(trace.WithTimestamp(end))
}

// RecordError records an error on a span.
func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
