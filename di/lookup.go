package di

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/kbukum/inject/errors"
)

// Registration describes a registry entry for introspection.
type Registration struct {
	Key      reflect.Type
	Concrete reflect.Type
	// Alias is true when Key is a capability interface resolved from Concrete.
	Alias bool
}

// Lookup returns the instance registered under key. It never constructs
// anything.
func (r *Registry) Lookup(key reflect.Type) (any, error) {
	if key == nil {
		return nil, errors.NotFound(typeName(key))
	}
	reg, ok := r.load()[key]
	if !ok {
		return nil, errors.NotFound(key.String())
	}
	actual := reflect.TypeOf(reg.instance)
	if actual == nil || !actual.AssignableTo(key) {
		return nil, errors.InvalidType(key.String(), typeName(actual))
	}
	return reg.instance, nil
}

// Get returns the singleton registered under T. Repeated calls return the
// same instance.
//
// Example:
//
//	repo, err := di.Get[UserRepository](reg)
//	if err != nil {
//	    return fmt.Errorf("resolving user repository: %w", err)
//	}
func Get[T any](r *Registry) (T, error) {
	var zero T
	key := reflect.TypeFor[T]()
	instance, err := r.Lookup(key)
	if err != nil {
		return zero, err
	}
	result, ok := instance.(T)
	if !ok {
		return zero, errors.InvalidType(key.String(), fmt.Sprintf("%T", instance))
	}
	return result, nil
}

// MustGet is like Get but panics on failure. Meant for composition roots
// where a missing dependency is a programming error.
func MustGet[T any](r *Registry) T {
	result, err := Get[T](r)
	if err != nil {
		panic(fmt.Sprintf("di: %v", err))
	}
	return result
}

// TryGet returns the singleton registered under T, or false if it is missing
// or has the wrong type.
func TryGet[T any](r *Registry) (T, bool) {
	result, err := Get[T](r)
	if err != nil {
		return result, false
	}
	return result, true
}

// Len returns the number of registered keys.
func (r *Registry) Len() int { return len(r.load()) }

// Keys returns the registered keys sorted by name.
func (r *Registry) Keys() []reflect.Type {
	entries := r.load()
	keys := make([]reflect.Type, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}

// Registrations returns one entry per registered key, sorted by key name.
func (r *Registry) Registrations() []Registration {
	entries := r.load()
	out := make([]Registration, 0, len(entries))
	for _, k := range r.Keys() {
		reg := entries[k]
		out = append(out, Registration{Key: k, Concrete: reg.concrete, Alias: reg.alias})
	}
	return out
}
