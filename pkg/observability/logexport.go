package observability

import (
	"context"

	"github.com/charmbracelet/log"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// LogExporter is a span exporter that writes each finished span as a debug
// log line. It backs the CLI's --trace flag.
type LogExporter struct {
	Logger *log.Logger
}

// ExportSpans implements sdktrace.SpanExporter.
func (e *LogExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	logger := e.Logger
	if logger == nil {
		logger = log.Default()
	}
	for _, s := range spans {
		kv := []any{
			"span", s.Name(),
			"duration", s.EndTime().Sub(s.StartTime()),
			"status", s.Status().Code.String(),
		}
		for _, a := range s.Attributes() {
			kv = append(kv, string(a.Key), a.Value.Emit())
		}
		logger.Debug("trace", kv...)
	}
	return nil
}

// Shutdown implements sdktrace.SpanExporter.
func (e *LogExporter) Shutdown(context.Context) error { return nil }
