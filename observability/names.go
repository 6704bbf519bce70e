package observability

// InstrumentationName is the tracer and meter name used by the container.
const InstrumentationName = "github.com/kbukum/inject/di"

// Span and event names.
const (
	SpanInit        = "inject.init"
	EventRegistered = "inject.registered"
)

// Attribute keys.
const (
	AttrRoot       = "inject.root"
	AttrRegistryID = "inject.registry_id"
	AttrCount      = "inject.count"
	AttrType       = "inject.type"
	AttrKind       = "kind"
	AttrInterface  = "interface"
	AttrStatus     = "status"
)

// Metric names.
const (
	MetricRegistrations = "inject.registrations"
	MetricOverwrites    = "inject.interface.overwrites"
	MetricInitDuration  = "inject.init.duration"
)

// Attribute values.
const (
	KindConcrete  = "concrete"
	KindInterface = "interface"
	StatusOK      = "ok"
	StatusFailed  = "failed"
)
