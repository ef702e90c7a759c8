// Package infrastructure builds the OpenTelemetry providers of the service.
package infrastructure

import (
	"context"
	"fmt"

	"github.com/architeacher/specargs/internal/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.32.0"
	otelTrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type ShutdownFunc func(ctx context.Context) error

func noShutdown(context.Context) error { return nil }

// NewTracerProvider exports spans over OTLP/gRPC when traces are enabled and
// an endpoint is configured, and hands out a noop provider otherwise. The
// exporting provider becomes the global one.
func NewTracerProvider(ctx context.Context, cfg config.Telemetry) (otelTrace.TracerProvider, ShutdownFunc, error) {
	if !cfg.Traces.Enabled || cfg.OTLPEndpoint == "" {
		return noop.NewTracerProvider(), noShutdown, nil
	}

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("creating OTLP trace exporter: %w", err)
	}

	res, err := serviceResource(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	sampler := sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.Traces.SamplerRatio))
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp, tp.Shutdown, nil
}

// NewMeterProvider returns a meter provider whose measurements are collected
// on demand through the returned reader, backing the /metrics snapshot.
func NewMeterProvider(ctx context.Context, cfg config.Telemetry) (*sdkmetric.MeterProvider, *sdkmetric.ManualReader, error) {
	res, err := serviceResource(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
		sdkmetric.WithResource(res),
	)

	return provider, reader, nil
}

func serviceResource(ctx context.Context, cfg config.Telemetry) (*resource.Resource, error) {
	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
	))
	if err != nil {
		return nil, fmt.Errorf("describing the service resource: %w", err)
	}

	return res, nil
}
