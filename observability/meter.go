package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/inject/logger"
)

// InitMeter creates a meter provider exporting to cfg.Endpoint over OTLP/HTTP
// and installs it globally. The provider must be shut down on exit.
func InitMeter(ctx context.Context, cfg Config) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", cfg.ServiceName,
		"endpoint", cfg.Endpoint,
		"interval", cfg.Interval.String(),
	))

	return mp, nil
}

// RegistryMetrics holds the instruments recorded while a registry initializes.
type RegistryMetrics struct {
	registrations metric.Int64Counter
	overwrites    metric.Int64Counter
	initDuration  metric.Float64Histogram
}

// NewRegistryMetrics creates registry instruments on the given meter.
func NewRegistryMetrics(meter metric.Meter) (*RegistryMetrics, error) {
	registrations, err := meter.Int64Counter(MetricRegistrations,
		metric.WithDescription("Registry entries created, by kind"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricRegistrations, err)
	}

	overwrites, err := meter.Int64Counter(MetricOverwrites,
		metric.WithDescription("Interface keys overwritten by a later injectable"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricOverwrites, err)
	}

	initDuration, err := meter.Float64Histogram(MetricInitDuration,
		metric.WithDescription("Duration of registry initialization in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricInitDuration, err)
	}

	return &RegistryMetrics{
		registrations: registrations,
		overwrites:    overwrites,
		initDuration:  initDuration,
	}, nil
}

// RecordRegistration counts a registry entry of the given kind.
func (m *RegistryMetrics) RecordRegistration(ctx context.Context, kind string) {
	m.registrations.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrKind, kind)))
}

// RecordOverwrite counts an interface key replaced by a later injectable.
func (m *RegistryMetrics) RecordOverwrite(ctx context.Context, iface string) {
	m.overwrites.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrInterface, iface)))
}

// RecordInit records how long an Init call took and how it ended.
func (m *RegistryMetrics) RecordInit(ctx context.Context, status string, d time.Duration) {
	m.initDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String(AttrStatus, status)))
}
