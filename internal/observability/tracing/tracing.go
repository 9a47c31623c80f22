// Package tracing configures the OpenTelemetry tracer provider.
package tracing

import (
	"cmp"
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/zap"
)

// Collector endpoint variables. Both hold URLs such as
// http://collector:4318; the traces variable is used as-is, the generic one
// gets /v1/traces appended by the exporter.
const (
	EndpointEnv       = "OTEL_EXPORTER_OTLP_ENDPOINT"
	TracesEndpointEnv = "OTEL_EXPORTER_OTLP_TRACES_ENDPOINT"
)

// Shutdown flushes pending spans and stops the provider.
type Shutdown func(context.Context) error

// Init installs a batching OTLP/HTTP tracer provider when a collector
// endpoint is configured. Otherwise tracing stays a no-op and the returned
// Shutdown does nothing.
func Init(ctx context.Context, log *zap.Logger, serviceName, version string) (Shutdown, error) {
	endpoint := cmp.Or(os.Getenv(TracesEndpointEnv), os.Getenv(EndpointEnv))
	if endpoint == "" {
		log.Info("tracing disabled", zap.String("reason", EndpointEnv+" not set"))
		return func(context.Context) error { return nil }, nil
	}

	// The exporter reads the endpoint variables itself, including scheme
	// (http means insecure) and path.
	exporter, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithTelemetrySDK(),
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(cmp.Or(version, "dev")),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("build trace resource: %w", err)
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	log.Info("tracing initialized", zap.String("endpoint", endpoint))
	return tp.Shutdown, nil
}
