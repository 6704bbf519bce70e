package di

import (
	"context"
	"fmt"
	"reflect"
)

var (
	contextType = reflect.TypeFor[context.Context]()
	errorType   = reflect.TypeFor[error]()
)

// construct builds the singleton for d. Panics raised by the constructor are
// returned as errors.
func construct(ctx context.Context, d Descriptor) (instance any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			instance = nil
			err = fmt.Errorf("constructor panicked: %v", rec)
		}
	}()

	if d.constructor == nil {
		return constructZero(d.typ)
	}

	instance, err = callConstructor(ctx, d.constructor)
	if err != nil {
		return nil, err
	}
	if isNil(instance) {
		return nil, fmt.Errorf("constructor returned nil")
	}
	if !reflect.TypeOf(instance).AssignableTo(d.typ) {
		return nil, fmt.Errorf("constructor returned %T, not assignable to %s", instance, typeName(d.typ))
	}
	return instance, nil
}

// constructZero is the implicit no-argument constructor: it allocates the
// zero value behind a pointer type. Other kinds have no implicit constructor.
func constructZero(t reflect.Type) (any, error) {
	if t.Kind() != reflect.Pointer {
		return nil, fmt.Errorf("%s has no usable no-argument constructor: provide one with WithConstructor", typeName(t))
	}
	return reflect.New(t.Elem()).Interface(), nil
}

func callConstructor(ctx context.Context, constructor any) (any, error) {
	fn := reflect.ValueOf(constructor)
	if fn.Kind() != reflect.Func {
		return nil, fmt.Errorf("constructor must be a function, got %T", constructor)
	}

	fnType := fn.Type()
	if fnType.IsVariadic() {
		return nil, fmt.Errorf("constructor %s must not be variadic", fnType)
	}

	var args []reflect.Value
	switch {
	case fnType.NumIn() == 0:
	case fnType.NumIn() == 1 && fnType.In(0) == contextType:
		args = []reflect.Value{reflect.ValueOf(ctx)}
	default:
		return nil, fmt.Errorf("constructor %s requires %d argument(s); only func() or func(context.Context) is supported", fnType, fnType.NumIn())
	}

	switch fnType.NumOut() {
	case 1:
	case 2:
		if fnType.Out(1) != errorType {
			return nil, fmt.Errorf("constructor %s must return (instance, error)", fnType)
		}
	default:
		return nil, fmt.Errorf("constructor %s must return either (instance) or (instance, error)", fnType)
	}

	results := fn.Call(args)
	if len(results) == 2 && !results[1].IsNil() {
		return nil, results[1].Interface().(error)
	}
	return results[0].Interface(), nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
