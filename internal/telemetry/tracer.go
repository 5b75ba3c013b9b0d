package telemetry

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Tracer returns the named tracer registered against whatever global
// TracerProvider the host process configured (a caller that never calls
// InitTracerProvider gets otel's built-in no-op provider for free, so
// Forest code can always call this unconditionally).
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}

// InitTracerProvider installs a real SDK TracerProvider that logs
// completed spans through slog, and registers it as the process's global
// provider. Call once at process startup; the caller owns the returned
// provider's Shutdown.
func InitTracerProvider(ctx context.Context, serviceName string, samplingRate float64) (*sdktrace.TracerProvider, error) {
	res, err := resource.New(ctx, resource.WithAttributes(
		attribute.String("service.name", serviceName),
	))
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(&slogSpanExporter{}),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(samplingRate)),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	return tp, nil
}

// slogSpanExporter logs completed spans at debug level rather than
// shipping them to a collector — a minimal stand-in for the OTLP/Jaeger
// exporters a deployed build would configure instead, in the spirit of
// the teacher's own in-process DebugExporter.
type slogSpanExporter struct{}

func (e *slogSpanExporter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, span := range spans {
		slog.Debug("span",
			"name", span.Name(),
			"trace_id", span.SpanContext().TraceID().String(),
			"duration_ms", span.EndTime().Sub(span.StartTime()).Milliseconds(),
			"status", span.Status().Code.String(),
		)
	}
	return nil
}

func (e *slogSpanExporter) Shutdown(context.Context) error { return nil }

var _ sdktrace.SpanExporter = (*slogSpanExporter)(nil)
