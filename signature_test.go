package linkz

import (
	"context"
	"errors"
	"io"
	"reflect"
	"testing"
)

type counter struct{ n int }

func (c *counter) Add(delta int) int {
	c.n += delta
	return c.n
}

func TestExtract(t *testing.T) {
	intType := reflect.TypeOf(0)
	stringType := reflect.TypeOf("")
	readerType := reflect.TypeOf((*io.Reader)(nil)).Elem()

	tests := []struct {
		handler  any
		name     string
		in       []reflect.Type
		out      []reflect.Type
		context  bool
		fallible bool
	}{
		{
			name:    "single in single out",
			handler: func(int) string { return "" },
			in:      []reflect.Type{intType},
			out:     []reflect.Type{stringType},
		},
		{
			name:    "multiple results",
			handler: func(string) (int, string) { return 0, "" },
			in:      []reflect.Type{stringType},
			out:     []reflect.Type{intType, stringType},
		},
		{
			name:    "no results",
			handler: func(int, int) {},
			in:      []reflect.Type{intType, intType},
			out:     []reflect.Type{},
		},
		{
			name:    "no parameters",
			handler: func() int { return 1 },
			in:      []reflect.Type{},
			out:     []reflect.Type{intType},
		},
		{
			name:     "context and error are not values",
			handler:  func(context.Context, int) (string, error) { return "", nil },
			in:       []reflect.Type{intType},
			out:      []reflect.Type{stringType},
			context:  true,
			fallible: true,
		},
		{
			name:     "error only result",
			handler:  func(int) error { return nil },
			in:       []reflect.Type{intType},
			out:      []reflect.Type{},
			fallible: true,
		},
		{
			name:    "context in later position is a value",
			handler: func(int, context.Context) int { return 0 },
			in:      []reflect.Type{intType, reflect.TypeOf((*context.Context)(nil)).Elem()},
			out:     []reflect.Type{intType},
		},
		{
			name:    "error in earlier position is a value",
			handler: func(int) (error, int) { return nil, 0 }, //nolint:staticcheck // ST1008: error as a value
			in:      []reflect.Type{intType},
			out:     []reflect.Type{reflect.TypeOf((*error)(nil)).Elem(), intType},
		},
		{
			name:    "interface parameter",
			handler: func(io.Reader) int { return 0 },
			in:      []reflect.Type{readerType},
			out:     []reflect.Type{intType},
		},
		{
			name:    "method value",
			handler: (&counter{}).Add,
			in:      []reflect.Type{intType},
			out:     []reflect.Type{intType},
		},
		{
			name:    "captured state does not change types",
			handler: func() func(int) int { total := 0; return func(n int) int { total += n; return total } }(),
			in:      []reflect.Type{intType},
			out:     []reflect.Type{intType},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig, err := Extract(tt.handler)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !sameTypes(sig.In, tt.in) {
				t.Errorf("In = %v, want %v", sig.In, tt.in)
			}
			if !sameTypes(sig.Out, tt.out) {
				t.Errorf("Out = %v, want %v", sig.Out, tt.out)
			}
			if sig.Context != tt.context {
				t.Errorf("Context = %v, want %v", sig.Context, tt.context)
			}
			if sig.Fallible != tt.fallible {
				t.Errorf("Fallible = %v, want %v", sig.Fallible, tt.fallible)
			}
		})
	}
}

func TestExtractErrors(t *testing.T) {
	var nilFunc func(int) int

	tests := []struct {
		handler any
		want    error
		name    string
	}{
		{name: "untyped nil", handler: nil, want: ErrNilHandler},
		{name: "typed nil func", handler: nilFunc, want: ErrNilHandler},
		{name: "int", handler: 1, want: ErrNotFunc},
		{name: "struct", handler: struct{}{}, want: ErrNotFunc},
		{name: "variadic", handler: func(string, ...int) int { return 0 }, want: ErrVariadic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Extract(tt.handler); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestSignatureString(t *testing.T) {
	sig, err := Extract(func(context.Context, int, string) (bool, error) { return false, nil })
	if err != nil {
		t.Fatal(err)
	}
	if got := sig.String(); got != "(int, string) -> (bool)" {
		t.Errorf("unexpected string %q", got)
	}

	sig, err = Extract(func() {})
	if err != nil {
		t.Fatal(err)
	}
	if got := sig.String(); got != "() -> ()" {
		t.Errorf("unexpected string %q", got)
	}
}
