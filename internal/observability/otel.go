// Package observability configures OpenTelemetry tracing for the service.
// Setup is a no-op unless tracing is enabled in configuration, so local and
// test runs never need a collector.
package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"google.golang.org/grpc/credentials"

	"github.com/tbourn/go-users-api/internal/config"
)

// Collector wiring is held in function variables so tests can fail either
// step without a live OTLP endpoint.
var (
	newTraceExporter = func(ctx context.Context, cfg config.OTELConfig) (*otlptrace.Exporter, error) {
		opts := []otlptracegrpc.Option{
			otlptracegrpc.WithEndpoint(cfg.Endpoint),
		}
		if cfg.Insecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		} else {
			opts = append(opts, otlptracegrpc.WithTLSCredentials(
				credentials.NewClientTLSFromCert(nil, "")))
		}
		return otlptrace.New(ctx, otlptracegrpc.NewClient(opts...))
	}

	newServiceResource = func(ctx context.Context, cfg config.OTELConfig, version string) (*resource.Resource, error) {
		return resource.New(ctx, resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(version),
		))
	}
)

// SetupOTel installs the global tracer provider and propagators for the API
// and returns a shutdown function that flushes batched spans. When tracing is
// disabled the globals are left untouched and shutdown is a no-op.
func SetupOTel(ctx context.Context, cfg config.OTELConfig, version string) (func(context.Context) error, error) {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	exp, err := newTraceExporter(ctx, cfg)
	if err != nil {
		return nil, err
	}

	res, err := newServiceResource(ctx, cfg, version)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))

	return tp.Shutdown, nil
}
