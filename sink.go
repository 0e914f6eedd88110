package linkz

import (
	"context"
	"fmt"
	"reflect"

	"github.com/zoobzio/clockz"
)

// Sink is a consumer-only node: the terminal stage of a chain. Its handler
// runs for effect and nothing is ever produced.
//
// Sink reports the same node.consumed.total, node.failures.total and
// node.duration.ms metrics, node.consume spans and node.consumed /
// node.failed events as Transform.
type Sink struct {
	core
}

// NewSink builds a Sink from handler. The handler must not return values
// other than an optional trailing error; use NewDiscardSink to terminate a
// chain with a handler whose results should be dropped.
//
// Example:
//
//	var seen []int
//	collect, err := linkz.NewSink("collect", func(n int) {
//	    seen = append(seen, n)
//	})
func NewSink(name Name, handler any) (*Sink, error) {
	sig, err := Extract(handler)
	if err != nil {
		return nil, fmt.Errorf("sink %q: %w", name, err)
	}
	if len(sig.Out) != 0 {
		return nil, fmt.Errorf("sink %q: %w: %s", name, ErrHasOutputs, sig)
	}
	return &Sink{core: newCore(name, KindSink, handler, sig)}, nil
}

// NewDiscardSink builds a Sink from a handler that returns values. The
// results are ignored and never forwarded; the sink still reports an
// empty output list. A trailing error result is still honoured.
func NewDiscardSink(name Name, handler any) (*Sink, error) {
	sig, err := Extract(handler)
	if err != nil {
		return nil, fmt.Errorf("sink %q: %w", name, err)
	}
	return &Sink{core: newCore(name, KindSink, handler, sig)}, nil
}

// Outputs always returns an empty list.
func (*Sink) Outputs() []reflect.Type {
	return []reflect.Type{}
}

// Consume runs the handler on values. It never produces.
func (s *Sink) Consume(ctx context.Context, values ...any) error {
	return s.dispatch(ctx, values, nil)
}

// WithClock sets a custom clock for testing.
func (s *Sink) WithClock(clock clockz.Clock) *Sink {
	s.clock = clock
	return s
}

// Close detaches the sink from the producer feeding it and shuts down its
// observability components.
func (s *Sink) Close() error {
	s.close(s)
	return nil
}
