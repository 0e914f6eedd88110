package linkz

import (
	"errors"
	"fmt"
	"reflect"
)

// Tuple validation errors.
var (
	ErrArity = errors.New("wrong number of values")
	ErrType  = errors.New("value has wrong type")
)

// Tuple is the fixed-arity unit of data crossing one edge of a chain.
// Values are positional: element i is delivered as parameter i of the
// downstream handler.
type Tuple []any

// reflectValues checks t against types and converts it for a reflective call.
// Concrete slots require the exact dynamic type. Interface slots accept any
// implementation. Nil is only accepted where the slot type can hold it.
func (t Tuple) reflectValues(types []reflect.Type) ([]reflect.Value, error) {
	if len(t) != len(types) {
		return nil, fmt.Errorf("%w: want %d, got %d", ErrArity, len(types), len(t))
	}
	values := make([]reflect.Value, len(t))
	for i, v := range t {
		want := types[i]
		if v == nil {
			if !nilable(want) {
				return nil, fmt.Errorf("%w: position %d: nil is not a %s", ErrType, i, want)
			}
			values[i] = reflect.Zero(want)
			continue
		}
		got := reflect.TypeOf(v)
		switch {
		case got == want:
			values[i] = reflect.ValueOf(v)
		case want.Kind() == reflect.Interface && got.Implements(want):
			values[i] = reflect.ValueOf(v).Convert(want)
		default:
			return nil, fmt.Errorf("%w: position %d: want %s, got %s", ErrType, i, want, got)
		}
	}
	return values, nil
}

func tupleOf(values []reflect.Value) Tuple {
	t := make(Tuple, len(values))
	for i, v := range values {
		t[i] = v.Interface()
	}
	return t
}

func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return true
	default:
		return false
	}
}
