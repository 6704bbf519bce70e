package di

import (
	"context"
	"fmt"
	"reflect"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/inject/errors"
	"github.com/kbukum/inject/logger"
	"github.com/kbukum/inject/observability"
)

// registration is a single registry entry. Interface aliases share the
// instance of the concrete entry they were resolved from.
type registration struct {
	instance any
	concrete reflect.Type
	alias    bool
}

// Registry maps type identities to singleton instances. It is populated once
// by Init and read-only afterwards. Build one with New; a zero Registry uses
// the global logger and providers and has no scanner, so its Init fails.
type Registry struct {
	id      uuid.UUID
	scanner Scanner
	log     *logger.Logger
	tracer  trace.Tracer
	metrics *observability.RegistryMetrics

	started atomic.Bool
	entries atomic.Pointer[map[reflect.Type]registration]
}

// New creates an empty registry that discovers injectables with scanner.
func New(scanner Scanner, opts ...RegistryOption) *Registry {
	o := &registryOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logger.GetGlobalLogger()
	}
	if o.tracerProvider == nil {
		o.tracerProvider = otel.GetTracerProvider()
	}
	if o.meterProvider == nil {
		o.meterProvider = otel.GetMeterProvider()
	}
	if o.id == uuid.Nil {
		o.id = uuid.New()
	}

	log := o.logger.WithComponent("di")
	metrics, err := observability.NewRegistryMetrics(o.meterProvider.Meter(observability.InstrumentationName))
	if err != nil {
		log.Warn("registry metrics disabled", logger.ErrorFields("metrics", err))
		metrics, _ = observability.NewRegistryMetrics(noop.NewMeterProvider().Meter(observability.InstrumentationName))
	}

	return &Registry{
		id:      o.id,
		scanner: scanner,
		log:     log,
		tracer:  o.tracerProvider.Tracer(observability.InstrumentationName),
		metrics: metrics,
	}
}

// fillDefaults completes a Registry that was not built by New.
func (r *Registry) fillDefaults() {
	if r.log != nil && r.tracer != nil && r.metrics != nil && r.id != uuid.Nil {
		return
	}
	d := New(r.scanner)
	if r.id == uuid.Nil {
		r.id = d.id
	}
	if r.log == nil {
		r.log = d.log
	}
	if r.tracer == nil {
		r.tracer = d.tracer
	}
	if r.metrics == nil {
		r.metrics = d.metrics
	}
}

// ID returns the registry identity used in logs and spans.
func (r *Registry) ID() uuid.UUID { return r.id }

// Initialized reports whether Init completed successfully.
func (r *Registry) Initialized() bool { return r.entries.Load() != nil }

// Init discovers every injectable under root and builds its singleton, in
// scan order. It aborts on the first failure and then publishes nothing.
// Init may be called only once per registry.
func (r *Registry) Init(ctx context.Context, root string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if !r.started.CompareAndSwap(false, true) {
		return errors.InitializationFailed("", fmt.Errorf("registry %s already initialized", r.id))
	}
	r.fillDefaults()

	start := time.Now()
	ctx, span := r.tracer.Start(ctx, observability.SpanInit, trace.WithAttributes(
		attribute.String(observability.AttrRoot, root),
		attribute.String(observability.AttrRegistryID, r.id.String()),
	))
	defer span.End()

	log := r.log.WithFields(logger.Fields(
		logger.FieldRegistryID, r.id.String(),
		logger.FieldRoot, root,
	))
	log.Info("initializing injectable registry")

	entries, err := r.build(ctx, span, log, root)
	elapsed := time.Since(start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.metrics.RecordInit(ctx, observability.StatusFailed, elapsed)
		log.Error("injectable registry initialization aborted", logger.ErrorFields("init", err))
		return err
	}

	r.entries.Store(&entries)
	span.SetAttributes(attribute.Int(observability.AttrCount, len(entries)))
	r.metrics.RecordInit(ctx, observability.StatusOK, elapsed)
	log.Info("injectable registry initialized", logger.Fields(
		logger.FieldCount, len(entries),
		logger.FieldDuration, elapsed.Milliseconds(),
	))
	return nil
}

func (r *Registry) build(ctx context.Context, span trace.Span, log *logger.Logger, root string) (map[reflect.Type]registration, error) {
	if r.scanner == nil {
		return nil, errors.InitializationFailed("", fmt.Errorf("no scanner configured"))
	}
	descriptors, err := r.scanner.Scan(root)
	if err != nil {
		return nil, errors.InitializationFailed("", fmt.Errorf("scanning %q: %w", root, err))
	}

	entries := make(map[reflect.Type]registration, len(descriptors))
	for _, d := range descriptors {
		if d.Abstract() {
			return nil, errors.InitializationFailed(d.String(),
				fmt.Errorf("%s is an interface and cannot be an injectable", d))
		}
		if _, dup := entries[d.typ]; dup {
			return nil, errors.InitializationFailed(d.String(),
				fmt.Errorf("%s is marked more than once", d))
		}

		instance, err := construct(ctx, d)
		if err != nil {
			return nil, errors.InitializationFailed(d.String(), err)
		}

		entries[d.typ] = registration{instance: instance, concrete: d.typ}
		r.metrics.RecordRegistration(ctx, observability.KindConcrete)
		span.AddEvent(observability.EventRegistered, trace.WithAttributes(
			attribute.String(observability.AttrType, d.String()),
		))
		log.Debug("injectable registered", logger.Fields(logger.FieldType, d.String()))

		if !d.resolveIfc || len(d.interfaces) == 0 {
			continue
		}
		ifc := d.interfaces[0]
		if err := checkCapability(ifc, instance); err != nil {
			return nil, errors.InitializationFailed(d.String(), err)
		}
		if prev, ok := entries[ifc]; ok {
			r.metrics.RecordOverwrite(ctx, ifc.String())
			log.Warn("interface already resolved; last registration wins", logger.Fields(
				logger.FieldInterface, ifc.String(),
				logger.FieldPrevious, typeName(prev.concrete),
				logger.FieldType, d.String(),
			))
		}
		entries[ifc] = registration{instance: instance, concrete: d.typ, alias: true}
		r.metrics.RecordRegistration(ctx, observability.KindInterface)
		log.Debug("interface resolved", logger.Fields(
			logger.FieldInterface, ifc.String(),
			logger.FieldType, d.String(),
		))
	}
	return entries, nil
}

func checkCapability(ifc reflect.Type, instance any) error {
	if ifc == nil || ifc.Kind() != reflect.Interface {
		return fmt.Errorf("declared capability %s is not an interface", typeName(ifc))
	}
	if !reflect.TypeOf(instance).Implements(ifc) {
		return fmt.Errorf("%T does not implement declared capability %s", instance, ifc)
	}
	return nil
}

func (r *Registry) load() map[reflect.Type]registration {
	if p := r.entries.Load(); p != nil {
		return *p
	}
	return nil
}
