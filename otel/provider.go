package otel

import (
	"context"
	"fmt"
	"strings"

	otelapi "go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// InitTracing installs a global OTLP/HTTP trace provider pointed at the
// given collector endpoint (host:port). The returned shutdown function
// flushes remaining spans.
func InitTracing(ctx context.Context, endpoint, serviceName, version string) (func(context.Context) error, error) {
	clean := strings.TrimSpace(endpoint)
	if clean == "" {
		return nil, fmt.Errorf("otel: collector endpoint is empty")
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(clean),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("otel: create trace exporter: %w", err)
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(version),
	))
	if err != nil {
		return nil, fmt.Errorf("otel: build resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otelapi.SetTracerProvider(provider)

	return provider.Shutdown, nil
}
