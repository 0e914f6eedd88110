package linkz

import "context"

// Stage is a single-value Transform whose edge types are checked by the
// compiler. The handler's In and Out are inferred from the function passed
// to Map or Apply, so nothing is declared by hand:
//
//	parse := linkz.Apply("parse", func(_ context.Context, s string) (int, error) {
//	    return strconv.Atoi(s)
//	})
//	double := linkz.Map("double", func(_ context.Context, n int) int { return n * 2 })
//	if err := linkz.Connect(parse, double); err != nil { ... }
//
// Wiring a Stage[string, int] to a Stage[string, X] does not compile.
type Stage[In, Out any] struct {
	node *Transform
}

// Terminal is a single-value Sink whose input type is checked by the compiler.
type Terminal[In any] struct {
	node *Sink
}

// Map creates a Stage from a transformation that cannot fail.
func Map[In, Out any](name Name, fn func(context.Context, In) Out) *Stage[In, Out] {
	return &Stage[In, Out]{
		node: mustTransform(name, func(ctx context.Context, in In) (Out, error) {
			return fn(ctx, in), nil
		}),
	}
}

// Apply creates a Stage from a transformation that may fail. A non-nil
// error stops the chain and is returned to the driver.
func Apply[In, Out any](name Name, fn func(context.Context, In) (Out, error)) *Stage[In, Out] {
	return &Stage[In, Out]{node: mustTransform(name, fn)}
}

// Effect creates a Terminal that runs fn for each value.
func Effect[In any](name Name, fn func(context.Context, In) error) *Terminal[In] {
	sink, err := NewSink(name, fn)
	if err != nil {
		panic(err)
	}
	return &Terminal[In]{node: sink}
}

// Consume drives value through the stage and everything downstream of it.
func (s *Stage[In, Out]) Consume(ctx context.Context, value In) error {
	return s.node.Consume(ctx, value)
}

// Node returns the underlying Transform, for wiring to reflective nodes
// and for observability access.
func (s *Stage[In, Out]) Node() *Transform {
	return s.node
}

// Consume runs the terminal handler on value.
func (t *Terminal[In]) Consume(ctx context.Context, value In) error {
	return t.node.Consume(ctx, value)
}

// Node returns the underlying Sink.
func (t *Terminal[In]) Node() *Sink {
	return t.node
}

// Connect wires up to down. The shared type B guarantees the edge matches.
func Connect[A, B, C any](up *Stage[A, B], down *Stage[B, C]) error {
	return up.node.SetConsumer(down.node)
}

// Terminate wires up to a terminal stage.
func Terminate[A, B any](up *Stage[A, B], down *Terminal[B]) error {
	return up.node.SetConsumer(down.node)
}

// mustTransform builds a Transform from a handler whose shape is fixed by
// the generic constructors, so extraction cannot fail.
func mustTransform(name Name, handler any) *Transform {
	t, err := NewTransform(name, handler)
	if err != nil {
		panic(err)
	}
	return t
}
