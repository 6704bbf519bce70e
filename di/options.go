package di

import (
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/inject/logger"
)

// RegistryOption configures a Registry at creation.
type RegistryOption func(*registryOptions)

type registryOptions struct {
	logger         *logger.Logger
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	id             uuid.UUID
}

// WithLogger sets the logger used during Init. Defaults to the global logger.
func WithLogger(l *logger.Logger) RegistryOption {
	return func(o *registryOptions) {
		o.logger = l
	}
}

// WithTracerProvider sets the tracer provider for the init span.
// Defaults to the global OpenTelemetry provider.
func WithTracerProvider(tp trace.TracerProvider) RegistryOption {
	return func(o *registryOptions) {
		o.tracerProvider = tp
	}
}

// WithMeterProvider sets the meter provider for registry metrics.
// Defaults to the global OpenTelemetry provider.
func WithMeterProvider(mp metric.MeterProvider) RegistryOption {
	return func(o *registryOptions) {
		o.meterProvider = mp
	}
}

// WithID overrides the generated registry identity.
func WithID(id uuid.UUID) RegistryOption {
	return func(o *registryOptions) {
		o.id = id
	}
}
