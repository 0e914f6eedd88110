package linkz

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Signature extraction errors. These are build-time failures: they are
// returned by constructors before any value can flow.
var (
	ErrNilHandler = errors.New("handler is nil")
	ErrNotFunc    = errors.New("handler is not a function")
	ErrVariadic   = errors.New("variadic handler has no fixed call form")
)

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// Signature is the ordered input and output type lists derived from a
// handler. In and Out never include the leading context.Context parameter
// or the trailing error result; those are reported by Context and Fallible.
type Signature struct {
	In       []reflect.Type
	Out      []reflect.Type
	Context  bool
	Fallible bool
}

// Extract derives the Signature of handler.
//
// The handler must be a non-variadic func. A leading context.Context
// parameter receives the node's call context and a trailing error result
// aborts dispatch; neither is part of the value tuple. A single non-error
// result yields a one-element output list and a handler returning nothing
// yields an empty one.
//
//	sig, _ := linkz.Extract(func(ctx context.Context, n int, s string) (int, error) { ... })
//	// sig.In  = [int string]
//	// sig.Out = [int]
//
// Generic functions cannot be passed without instantiation, so an
// unresolvable call form is rejected by the compiler before Extract runs.
func Extract(handler any) (Signature, error) {
	if handler == nil {
		return Signature{}, ErrNilHandler
	}
	typ := reflect.TypeOf(handler)
	if typ.Kind() != reflect.Func {
		return Signature{}, fmt.Errorf("%w: got %s", ErrNotFunc, typ)
	}
	if reflect.ValueOf(handler).IsNil() {
		return Signature{}, ErrNilHandler
	}
	if typ.IsVariadic() {
		return Signature{}, fmt.Errorf("%w: %s", ErrVariadic, typ)
	}

	var sig Signature
	first := 0
	if typ.NumIn() > 0 && typ.In(0) == contextType {
		sig.Context = true
		first = 1
	}
	sig.In = make([]reflect.Type, 0, typ.NumIn()-first)
	for i := first; i < typ.NumIn(); i++ {
		sig.In = append(sig.In, typ.In(i))
	}

	last := typ.NumOut()
	if last > 0 && typ.Out(last-1) == errorType {
		sig.Fallible = true
		last--
	}
	sig.Out = make([]reflect.Type, 0, last)
	for i := 0; i < last; i++ {
		sig.Out = append(sig.Out, typ.Out(i))
	}
	return sig, nil
}

// String renders the value lists, e.g. "(int, string) -> (int)".
func (s Signature) String() string {
	return typeList(s.In) + " -> " + typeList(s.Out)
}

func typeList(types []reflect.Type) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return "(" + strings.Join(names, ", ") + ")"
}

// sameTypes reports whether two type lists match element-wise.
func sameTypes(a, b []reflect.Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func cloneTypes(types []reflect.Type) []reflect.Type {
	out := make([]reflect.Type, len(types))
	copy(out, types)
	return out
}
