package di

import (
	"reflect"
)

// Descriptor marks a type as injectable. It is produced by Injectable and
// consumed by a Registry during Init.
type Descriptor struct {
	typ         reflect.Type
	interfaces  []reflect.Type
	constructor any
	resolveIfc  bool
}

// Option configures a Descriptor.
type Option func(*Descriptor)

// Injectable marks T as injectable. T is the key the singleton is registered
// under, normally a pointer type such as *Service.
func Injectable[T any](opts ...Option) Descriptor {
	d := Descriptor{
		typ:        reflect.TypeFor[T](),
		resolveIfc: true,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// ResolveInterface controls whether the first declared interface is also
// registered as a key for the singleton. Enabled by default.
func ResolveInterface(enabled bool) Option {
	return func(d *Descriptor) {
		d.resolveIfc = enabled
	}
}

// Implements declares I as a capability interface of the marked type.
// Declaration order matters: only the first declared interface is resolved.
func Implements[I any]() Option {
	return func(d *Descriptor) {
		d.interfaces = append(d.interfaces, reflect.TypeFor[I]())
	}
}

// WithConstructor sets the function used to build the singleton. fn must take
// no arguments or a single context.Context and return the instance, optionally
// followed by an error. Without it, pointer types are built by allocating the
// zero value of their element type.
func WithConstructor(fn any) Option {
	return func(d *Descriptor) {
		d.constructor = fn
	}
}

// Type returns the key the singleton is registered under.
func (d Descriptor) Type() reflect.Type { return d.typ }

// Interfaces returns the declared capability interfaces in declaration order.
func (d Descriptor) Interfaces() []reflect.Type {
	out := make([]reflect.Type, len(d.interfaces))
	copy(out, d.interfaces)
	return out
}

// ResolvesInterface reports whether the first declared interface is registered.
func (d Descriptor) ResolvesInterface() bool { return d.resolveIfc }

// Abstract reports whether the marked type is an interface and therefore
// cannot be instantiated.
func (d Descriptor) Abstract() bool {
	return d.typ == nil || d.typ.Kind() == reflect.Interface
}

// String returns the marked type's name.
func (d Descriptor) String() string {
	return typeName(d.typ)
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
