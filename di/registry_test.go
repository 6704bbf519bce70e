package di

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/inject/errors"
	"github.com/kbukum/inject/logger"
	"github.com/kbukum/inject/observability"
)

func newTestRegistry(t *testing.T, s Scanner, opts ...RegistryOption) *Registry {
	t.Helper()
	return New(s, append([]RegistryOption{WithLogger(logger.Nop())}, opts...)...)
}

func mustInit(t *testing.T, r *Registry) {
	t.Helper()
	if err := r.Init(context.Background(), ""); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
}

func TestInit_ConcreteAndFirstInterfaceShareInstance(t *testing.T) {
	r := newTestRegistry(t, List{Injectable[*Dog](Implements[Animal]())})
	mustInit(t, r)

	dog, err := Get[*Dog](r)
	if err != nil {
		t.Fatalf("Get[*Dog] failed: %v", err)
	}
	animal, err := Get[Animal](r)
	if err != nil {
		t.Fatalf("Get[Animal] failed: %v", err)
	}
	if animal.(*Dog) != dog {
		t.Error("expected interface key to resolve to the same instance")
	}
}

func TestGet_ReturnsSameInstanceEveryTime(t *testing.T) {
	r := newTestRegistry(t, List{Injectable[*Dog](), Injectable[*Cat]()})
	mustInit(t, r)

	first := MustGet[*Dog](r)
	for i := 0; i < 5; i++ {
		if got := MustGet[*Dog](r); got != first {
			t.Fatalf("lookup %d returned a different instance", i)
		}
	}
	first.Sound()
	if MustGet[*Dog](r).barks != 1 {
		t.Error("expected state changes to be visible through later lookups")
	}
}

func TestInit_ResolveInterfaceDisabled(t *testing.T) {
	r := newTestRegistry(t, List{Injectable[*Cat](ResolveInterface(false), Implements[Animal]())})
	mustInit(t, r)

	if _, err := Get[*Cat](r); err != nil {
		t.Fatalf("Get[*Cat] failed: %v", err)
	}
	_, err := Get[Animal](r)
	if !errors.HasCode(err, errors.ErrCodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestInit_ResolveInterfaceDisabledButAnotherImplementer(t *testing.T) {
	r := newTestRegistry(t, List{
		Injectable[*Cat](ResolveInterface(false), Implements[Animal]()),
		Injectable[*Dog](Implements[Animal]()),
	})
	mustInit(t, r)

	animal := MustGet[Animal](r)
	if animal != Animal(MustGet[*Dog](r)) {
		t.Error("expected Animal to resolve to the dog")
	}
}

func TestInit_OnlyFirstDeclaredInterfaceResolved(t *testing.T) {
	r := newTestRegistry(t, List{Injectable[*Dog](Implements[Named](), Implements[Animal]())})
	mustInit(t, r)

	if _, err := Get[Named](r); err != nil {
		t.Fatalf("expected first interface registered: %v", err)
	}
	if _, err := Get[Animal](r); !stderrors.Is(err, errors.ErrNotFound) {
		t.Fatalf("expected second interface not registered, got %v", err)
	}
}

func TestInit_NoDeclaredInterface(t *testing.T) {
	r := newTestRegistry(t, List{Injectable[*Dog]()})
	mustInit(t, r)

	if r.Len() != 1 {
		t.Errorf("expected only the concrete key, got %v", r.Keys())
	}
}

func TestInit_LastWriteWinsUnderFixedOrder(t *testing.T) {
	tests := []struct {
		name  string
		order List
		want  reflect.Type
	}{
		{
			name:  "dog then cat",
			order: List{Injectable[*Dog](Implements[Animal]()), Injectable[*Cat](Implements[Animal]())},
			want:  reflect.TypeFor[*Cat](),
		},
		{
			name:  "cat then dog",
			order: List{Injectable[*Cat](Implements[Animal]()), Injectable[*Dog](Implements[Animal]())},
			want:  reflect.TypeFor[*Dog](),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRegistry(t, tc.order)
			mustInit(t, r)

			animal := MustGet[Animal](r)
			if got := reflect.TypeOf(animal); got != tc.want {
				t.Errorf("expected %s to win, got %s", tc.want, got)
			}
			concrete, err := r.Lookup(tc.want)
			if err != nil {
				t.Fatalf("Lookup failed: %v", err)
			}
			if concrete != any(animal) {
				t.Error("expected the winning interface entry to share the concrete instance")
			}
		})
	}
}

func TestInit_OverwriteIsLoggedAtWarn(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "warn", Format: "json"}, "test", &buf)
	r := New(List{
		Injectable[*Dog](Implements[Animal]()),
		Injectable[*Cat](Implements[Animal]()),
	}, WithLogger(log))
	mustInit(t, r)

	var found bool
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("invalid log line %q: %v", line, err)
		}
		if entry["level"] == "warn" {
			found = true
			if entry[logger.FieldInterface] != "di.Animal" {
				t.Errorf("unexpected interface field %v", entry[logger.FieldInterface])
			}
			if entry[logger.FieldPrevious] != "*di.Dog" || entry[logger.FieldType] != "*di.Cat" {
				t.Errorf("unexpected overwrite fields %v", entry)
			}
		}
	}
	if !found {
		t.Error("expected a warning for the overwritten interface")
	}
}

func TestInit_Metrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	r := newTestRegistry(t, List{
		Injectable[*Dog](Implements[Animal]()),
		Injectable[*Cat](Implements[Animal]()),
		Injectable[*Rock](),
	}, WithMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))))
	mustInit(t, r)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect failed: %v", err)
	}

	sums := map[string]int64{}
	var initCount uint64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					key := m.Name
					if kind, ok := dp.Attributes.Value(attribute.Key(observability.AttrKind)); ok {
						key += "/" + kind.AsString()
					}
					sums[key] += dp.Value
				}
			case metricdata.Histogram[float64]:
				for _, dp := range data.DataPoints {
					initCount += dp.Count
				}
			}
		}
	}

	want := map[string]int64{
		observability.MetricRegistrations + "/" + observability.KindConcrete:  3,
		observability.MetricRegistrations + "/" + observability.KindInterface: 2,
		observability.MetricOverwrites:                                        1,
	}
	for k, v := range want {
		if sums[k] != v {
			t.Errorf("%s: expected %d, got %d (all: %v)", k, v, sums[k], sums)
		}
	}
	if initCount != 1 {
		t.Errorf("expected one init duration sample, got %d", initCount)
	}
}

func TestInit_InterfaceMarkedFails(t *testing.T) {
	r := newTestRegistry(t, List{
		Injectable[*Dog](Implements[Animal]()),
		Injectable[Animal](),
	})

	err := r.Init(context.Background(), "")
	if !stderrors.Is(err, errors.ErrInitializationFailed) {
		t.Fatalf("expected INITIALIZATION_FAILED, got %v", err)
	}
	if !strings.Contains(err.Error(), "di.Animal") {
		t.Errorf("expected error to name the interface, got %q", err.Error())
	}
	if r.Len() != 0 || r.Initialized() {
		t.Error("expected nothing registered after abort")
	}
	if _, err := Get[*Dog](r); !stderrors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected earlier types to be unavailable, got %v", err)
	}
}

func TestInit_ConstructorRequiringArgumentsFails(t *testing.T) {
	r := newTestRegistry(t, List{
		Injectable[*Dog](),
		Injectable[*Widget](WithConstructor(NewWidget)),
		Injectable[*Cat](),
	})

	err := r.Init(context.Background(), "")
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeInitializationFailed {
		t.Fatalf("expected INITIALIZATION_FAILED, got %v", err)
	}
	if appErr.Details["type"] != "*di.Widget" {
		t.Errorf("expected widget named in details, got %v", appErr.Details)
	}
	if appErr.Cause == nil || !strings.Contains(appErr.Cause.Error(), "requires 1 argument") {
		t.Errorf("expected wrapped construction error, got %v", appErr.Cause)
	}
	for _, key := range []reflect.Type{reflect.TypeFor[*Dog](), reflect.TypeFor[*Cat]()} {
		if _, err := r.Lookup(key); !errors.HasCode(err, errors.ErrCodeNotFound) {
			t.Errorf("expected %s not registered, got %v", key, err)
		}
	}
}

func TestInit_ConstructionFailures(t *testing.T) {
	tests := []struct {
		name       string
		descriptor Descriptor
		wantCause  string
	}{
		{"constructor error", Injectable[*Broken](WithConstructor(NewBroken)), "database unreachable"},
		{"constructor panic", Injectable[*Dog](WithConstructor(func() *Dog { panic("kaboom") })), "constructor panicked: kaboom"},
		{"nil result", Injectable[*Dog](WithConstructor(func() *Dog { return nil })), "returned nil"},
		{"wrong result type", Injectable[*Dog](WithConstructor(func() *Cat { return &Cat{} })), "not assignable"},
		{"not a function", Injectable[*Dog](WithConstructor(42)), "must be a function"},
		{"bad error slot", Injectable[*Dog](WithConstructor(func() (*Dog, int) { return nil, 0 })), "(instance, error)"},
		{"too many results", Injectable[*Dog](WithConstructor(func() (*Dog, error, int) { return nil, nil, 0 })), "either (instance)"},
		{"variadic", Injectable[*Dog](WithConstructor(func(...int) *Dog { return &Dog{} })), "variadic"},
		{"value type without constructor", Injectable[Settings](), "no usable no-argument constructor"},
		{"declared capability not implemented", Injectable[*Rock](Implements[Animal]()), "does not implement"},
		{"declared capability not an interface", Injectable[*Dog](Implements[Rock]()), "not an interface"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRegistry(t, List{tc.descriptor})
			err := r.Init(context.Background(), "")
			if !errors.HasCode(err, errors.ErrCodeInitializationFailed) {
				t.Fatalf("expected INITIALIZATION_FAILED, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.wantCause) {
				t.Errorf("expected %q in %q", tc.wantCause, err.Error())
			}
			if r.Len() != 0 {
				t.Error("expected empty registry")
			}
		})
	}
}

func TestInit_ConstructorErrorIsUnwrappable(t *testing.T) {
	r := newTestRegistry(t, List{Injectable[*Broken](WithConstructor(NewBroken))})
	err := r.Init(context.Background(), "")
	if !stderrors.Is(err, errBroken) {
		t.Errorf("expected constructor error in chain, got %v", err)
	}
}

func TestInit_ConstructorShapes(t *testing.T) {
	ctx := context.WithValue(context.Background(), struct{}{}, "marker")
	r := newTestRegistry(t, List{
		Injectable[*Clock](WithConstructor(NewClock)),
		Injectable[*Session](WithConstructor(NewSession)),
		Injectable[*Widget](WithConstructor(func() *Widget { return NewWidget("gear") })),
		Injectable[Settings](WithConstructor(func() Settings { return Settings{Port: 8080} })),
		Injectable[*Dog](WithConstructor(func() Animal { return &Dog{} })),
	})
	if err := r.Init(ctx, ""); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	if !MustGet[*Clock](r).started {
		t.Error("expected (T, error) constructor to run")
	}
	if MustGet[*Session](r).ctx.Value(struct{}{}) != "marker" {
		t.Error("expected Init context to reach the constructor")
	}
	if MustGet[*Widget](r).name != "gear" {
		t.Error("expected closure constructor to run")
	}
	if MustGet[Settings](r).Port != 8080 {
		t.Error("expected value-type constructor to run")
	}
	if _, err := Get[*Dog](r); err != nil {
		t.Errorf("expected interface-returning constructor accepted: %v", err)
	}
}

func TestInit_ZeroValueConstructionForPointers(t *testing.T) {
	r := newTestRegistry(t, List{Injectable[*Settings]()})
	mustInit(t, r)

	s := MustGet[*Settings](r)
	if s == nil || s.Port != 0 {
		t.Errorf("expected zero-valued settings, got %+v", s)
	}
}

func TestInit_DuplicateMarkingFails(t *testing.T) {
	r := newTestRegistry(t, List{Injectable[*Dog](), Injectable[*Dog]()})
	err := r.Init(context.Background(), "")
	if !errors.HasCode(err, errors.ErrCodeInitializationFailed) {
		t.Fatalf("expected INITIALIZATION_FAILED, got %v", err)
	}
	if !strings.Contains(err.Error(), "more than once") {
		t.Errorf("unexpected error %q", err.Error())
	}
}

func TestInit_OnlyOnce(t *testing.T) {
	r := newTestRegistry(t, List{Injectable[*Dog]()})
	mustInit(t, r)
	dog := MustGet[*Dog](r)

	err := r.Init(context.Background(), "")
	if !errors.HasCode(err, errors.ErrCodeInitializationFailed) {
		t.Fatalf("expected second Init to fail, got %v", err)
	}
	if MustGet[*Dog](r) != dog {
		t.Error("expected registry contents unchanged after rejected Init")
	}
}

func TestInit_NoRetryAfterAbort(t *testing.T) {
	r := newTestRegistry(t, List{Injectable[Animal]()})
	if err := r.Init(context.Background(), ""); err == nil {
		t.Fatal("expected first Init to fail")
	}
	if err := r.Init(context.Background(), ""); !errors.HasCode(err, errors.ErrCodeInitializationFailed) {
		t.Fatalf("expected registry to stay unusable, got %v", err)
	}
}

func TestInit_ScannerError(t *testing.T) {
	scanErr := stderrors.New("catalog unavailable")
	r := newTestRegistry(t, ScannerFunc(func(string) ([]Descriptor, error) { return nil, scanErr }))

	err := r.Init(context.Background(), "example.com/app")
	if !errors.HasCode(err, errors.ErrCodeInitializationFailed) {
		t.Fatalf("expected INITIALIZATION_FAILED, got %v", err)
	}
	if !stderrors.Is(err, scanErr) {
		t.Error("expected scanner error in chain")
	}
}

func TestInit_NilScanner(t *testing.T) {
	r := newTestRegistry(t, nil)
	if err := r.Init(context.Background(), ""); !errors.HasCode(err, errors.ErrCodeInitializationFailed) {
		t.Fatalf("expected INITIALIZATION_FAILED, got %v", err)
	}
}

func TestInit_NilContext(t *testing.T) {
	r := newTestRegistry(t, List{Injectable[*Session](WithConstructor(NewSession))})
	if err := r.Init(nil, ""); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if MustGet[*Session](r).ctx == nil {
		t.Error("expected a background context to be supplied")
	}
}

func TestInit_UsesRootToScan(t *testing.T) {
	catalog := NewCatalog().
		Mark("example.com/app/animals", Injectable[*Dog](Implements[Animal]())).
		Mark("example.com/other", Injectable[*Cat]())

	r := newTestRegistry(t, catalog)
	if err := r.Init(context.Background(), "example.com/app"); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if _, err := Get[*Dog](r); err != nil {
		t.Errorf("expected dog under root: %v", err)
	}
	if _, ok := TryGet[*Cat](r); ok {
		t.Error("expected cat outside root to be skipped")
	}
}

func TestInit_Span(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	id := uuid.MustParse("6f1c1d2e-7a4b-4c3d-9e8f-0a1b2c3d4e5f")

	ok := newTestRegistry(t, List{Injectable[*Dog](Implements[Animal]())}, WithTracerProvider(tp), WithID(id))
	if err := ok.Init(context.Background(), "example.com/app"); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	bad := newTestRegistry(t, List{Injectable[Animal]()}, WithTracerProvider(tp))
	_ = bad.Init(context.Background(), "")

	spans := rec.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}

	first := spans[0]
	if first.Name() != observability.SpanInit {
		t.Errorf("unexpected span name %s", first.Name())
	}
	attrs := map[string]string{}
	for _, kv := range first.Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	if attrs[observability.AttrRoot] != "example.com/app" {
		t.Errorf("expected root attribute, got %v", attrs)
	}
	if attrs[observability.AttrRegistryID] != id.String() {
		t.Errorf("expected registry id attribute, got %v", attrs)
	}
	if attrs[observability.AttrCount] != "2" {
		t.Errorf("expected count attribute 2, got %v", attrs[observability.AttrCount])
	}
	if len(first.Events()) != 1 || first.Events()[0].Name != observability.EventRegistered {
		t.Errorf("expected one registration event, got %v", first.Events())
	}

	if spans[1].Status().Code != codes.Error {
		t.Errorf("expected failed init span to carry error status, got %v", spans[1].Status())
	}
}

func TestRegistry_ID(t *testing.T) {
	a := newTestRegistry(t, List{})
	b := newTestRegistry(t, List{})
	if a.ID() == uuid.Nil || a.ID() == b.ID() {
		t.Error("expected distinct generated registry ids")
	}
}

func TestRegistry_ConcurrentLookups(t *testing.T) {
	r := newTestRegistry(t, List{Injectable[*Dog](Implements[Animal]()), Injectable[*Cat]()})
	mustInit(t, r)
	want := MustGet[*Dog](r)

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			animal, err := Get[Animal](r)
			if err != nil {
				errs <- err
				return
			}
			if animal != Animal(want) {
				errs <- stderrors.New("different instance")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestInit_ZeroRegistry(t *testing.T) {
	var r Registry
	err := r.Init(context.Background(), "")
	if !errors.HasCode(err, errors.ErrCodeInitializationFailed) {
		t.Fatalf("expected INITIALIZATION_FAILED, got %v", err)
	}
	if r.ID() == uuid.Nil {
		t.Error("expected a generated registry ID")
	}
	if _, err := Get[*Dog](&r); !errors.HasCode(err, errors.ErrCodeNotFound) {
		t.Errorf("expected NOT_FOUND after failed init, got %v", err)
	}
}

func TestInit_RegistryWithoutNew(t *testing.T) {
	r := &Registry{scanner: List{Injectable[*Dog](Implements[Animal]())}}
	mustInit(t, r)

	dog := MustGet[*Dog](r)
	if animal := MustGet[Animal](r); animal != Animal(dog) {
		t.Error("expected Animal to resolve to the Dog singleton")
	}
}
