// Package observability provides OpenTelemetry tracing and metrics for the
// container.
//
// Providers:
//
//	p, err := observability.Setup(ctx, cfg)
//	defer p.Shutdown(ctx)
//
// Registry instruments:
//
//	m, err := observability.NewRegistryMetrics(otel.Meter(observability.InstrumentationName))
//	m.RecordRegistration(ctx, observability.KindConcrete)
package observability
