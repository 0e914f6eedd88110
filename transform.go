package linkz

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/zoobzio/clockz"
)

// Wiring errors, returned before any value flows.
var (
	ErrNoOutputs         = errors.New("handler has no outputs")
	ErrHasOutputs        = errors.New("handler has outputs")
	ErrNilConsumer       = errors.New("consumer is nil")
	ErrSignatureMismatch = errors.New("output types do not match consumer inputs")
	ErrSelfLink          = errors.New("node cannot consume its own output")
	ErrCycle             = errors.New("link would form a cycle")
	ErrFanIn             = errors.New("consumer already has a producer")
)

// Transform is a node with both roles: it consumes a tuple matching its
// handler's parameters and produces the handler's results to at most one
// downstream Consumer.
//
// Transform owns its handler and holds only a non-owning reference to the
// downstream node. It is not safe for concurrent use: one goroutine drives
// a chain at a time, and rewiring must not race with Consume.
//
// # Observability
//
// Metrics:
//   - node.consumed.total: Counter of Consume calls
//   - node.produced.total: Counter of tuples delivered downstream
//   - node.failures.total: Counter of failed Consume/Produce calls
//   - node.unwired.total: Counter of produce attempts with no consumer
//   - node.rewired.total: Counter of downstream replacements
//   - node.duration.ms: Gauge of the last Consume duration
//
// Traces:
//   - node.consume: Span per Consume call, downstream included
//   - node.produce: Child span per delivery
//
// Events (via hooks):
//   - node.consumed, node.produced, node.failed, node.rewired
type Transform struct {
	core
	producer
}

// NewTransform builds a Transform from handler. The handler's signature is
// extracted immediately; a handler that cannot be extracted or that returns
// no values is rejected.
//
// A trailing error result is always treated as failure, never as a value,
// so a handler returning only error has no outputs and is rejected here.
// To pass errors downstream as values use Map with an error Out type.
//
// Example:
//
//	inc, err := linkz.NewTransform("increment", func(n int) int { return n + 1 })
//	split, err := linkz.NewTransform("split", func(s string) (string, string, error) {
//	    head, tail, ok := strings.Cut(s, "=")
//	    if !ok {
//	        return "", "", errMalformed
//	    }
//	    return head, tail, nil
//	})
func NewTransform(name Name, handler any) (*Transform, error) {
	sig, err := Extract(handler)
	if err != nil {
		return nil, fmt.Errorf("transform %q: %w", name, err)
	}
	if len(sig.Out) == 0 {
		return nil, fmt.Errorf("transform %q: %w: %s", name, ErrNoOutputs, sig)
	}
	return &Transform{
		core:     newCore(name, KindTransform, handler, sig),
		producer: producer{outputs: cloneTypes(sig.Out)},
	}, nil
}

// Outputs returns a copy of the node's output type list.
func (t *Transform) Outputs() []reflect.Type {
	return cloneTypes(t.outputs)
}

// Consume runs the handler on values and forwards its results downstream.
// It returns once the whole remaining chain has handled the tuple.
func (t *Transform) Consume(ctx context.Context, values ...any) error {
	return t.dispatch(ctx, values, t.forward)
}

// Produce emits values to the downstream Consumer as if the handler had
// returned them. Values must match Outputs.
func (t *Transform) Produce(ctx context.Context, values ...any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	tuple := Tuple(values)
	clock := t.getClock()
	if _, err := tuple.reflectValues(t.outputs); err != nil {
		t.metrics.Counter(NodeFailuresTotal).Inc()
		return &Error{Timestamp: clock.Now(), Values: tuple, Err: err, Path: []Name{t.name}}
	}
	if err := t.forwardRecovered(ctx, tuple); err != nil {
		t.metrics.Counter(NodeFailuresTotal).Inc()
		nodeErr := prefixed(t.name, err, tuple, clock.Now())
		_ = t.hooks.Emit(ctx, NodeEventFailed, Event{ //nolint:errcheck
			Name:      t.name,
			Kind:      t.kind,
			Outputs:   tuple,
			Error:     nodeErr,
			Timestamp: clock.Now(),
		})
		return nodeErr
	}
	return nil
}

// forwardRecovered is forward for Produce, which has no dispatch around it
// to catch a panicking downstream.
func (t *Transform) forwardRecovered(ctx context.Context, values Tuple) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return t.forward(ctx, values)
}

// forward delivers a tuple already known to match the output types.
func (t *Transform) forward(ctx context.Context, values Tuple) (err error) {
	if t.next == nil {
		t.metrics.Counter(NodeUnwiredTotal).Inc()
		return ErrNoConsumer
	}

	ctx, span := t.tracer.StartSpan(ctx, NodeProduceSpan)
	span.SetTag(NodeTagName, t.name)
	span.SetTag(NodeTagDownstream, t.next.Name())
	downstream := t.next.Name()

	completed := false
	defer func() {
		switch {
		case !completed:
			span.SetTag(NodeTagSuccess, "false")
			span.SetTag(NodeTagError, "panic")
		case err != nil:
			span.SetTag(NodeTagSuccess, "false")
			span.SetTag(NodeTagError, err.Error())
		default:
			span.SetTag(NodeTagSuccess, "true")
		}
		span.Finish()
	}()

	err = t.send(ctx, values)
	completed = true
	if err != nil {
		return err
	}

	t.metrics.Counter(NodeProducedTotal).Inc()
	_ = t.hooks.Emit(ctx, NodeEventProduced, Event{ //nolint:errcheck
		Name:       t.name,
		Kind:       t.kind,
		Downstream: downstream,
		Outputs:    values,
		Timestamp:  t.getClock().Now(),
	})
	return nil
}

// SetConsumer registers next as the only downstream Consumer, replacing
// any previous one. The replaced consumer is detached and never called by
// this node again.
//
// Wiring is checked here rather than at dispatch: next's inputs must equal
// this node's outputs, next must not be this node or lead back to it, and
// next must not already be fed by another linkz producer.
func (t *Transform) SetConsumer(next Consumer) error {
	if next == nil || isNilConsumer(next) {
		return fmt.Errorf("transform %q: %w", t.name, ErrNilConsumer)
	}
	if next == Consumer(t) {
		return fmt.Errorf("transform %q: %w", t.name, ErrSelfLink)
	}
	if !sameTypes(t.outputs, next.Inputs()) {
		return fmt.Errorf("transform %q -> %q: %w: %s vs %s",
			t.name, next.Name(), ErrSignatureMismatch, typeList(t.outputs), typeList(next.Inputs()))
	}
	if reaches(next, t) {
		return fmt.Errorf("transform %q -> %q: %w", t.name, next.Name(), ErrCycle)
	}
	tracker, tracked := next.(upstreamTracker)
	if tracked {
		if up := tracker.upstream(); up != nil && up != Producer(t) {
			return fmt.Errorf("transform %q -> %q: %w", t.name, next.Name(), ErrFanIn)
		}
	}

	prev := t.swap(next)
	if tracked {
		tracker.setUpstream(t)
	}
	if prev == nil || prev == next {
		return nil
	}

	detach(prev, t)
	t.metrics.Counter(NodeRewiredTotal).Inc()
	_ = t.hooks.Emit(context.Background(), NodeEventRewired, Event{ //nolint:errcheck
		Name:       t.name,
		Kind:       t.kind,
		Downstream: next.Name(),
		Previous:   prev.Name(),
		Timestamp:  t.getClock().Now(),
	})
	return nil
}

// ClearConsumer drops the downstream link. Subsequent produces report
// ErrNoConsumer until a new consumer is set.
func (t *Transform) ClearConsumer() {
	if prev := t.swap(nil); prev != nil {
		detach(prev, t)
	}
}

// Consumer returns the current downstream, if any.
func (t *Transform) Consumer() (Consumer, bool) {
	return t.link()
}

// WithClock sets a custom clock for testing.
func (t *Transform) WithClock(clock clockz.Clock) *Transform {
	t.clock = clock
	return t
}

// OnProduced registers a handler fired after each successful delivery.
func (t *Transform) OnProduced(handler func(context.Context, Event) error) error {
	_, err := t.hooks.Hook(NodeEventProduced, handler)
	return err
}

// OnRewired registers a handler fired when SetConsumer replaces an
// existing downstream.
func (t *Transform) OnRewired(handler func(context.Context, Event) error) error {
	_, err := t.hooks.Hook(NodeEventRewired, handler)
	return err
}

// Close detaches the node from both neighbours and shuts down its
// observability components.
func (t *Transform) Close() error {
	t.ClearConsumer()
	t.close(t)
	return nil
}

// detach clears prev's recorded upstream if it is from.
func detach(prev Consumer, from Producer) {
	if tracker, ok := prev.(upstreamTracker); ok && tracker.upstream() == from {
		tracker.setUpstream(nil)
	}
}

// reaches reports whether following downstream links from start arrives at
// target. The walk stops at the first consumer that is not a Producer.
func reaches(start Consumer, target Consumer) bool {
	seen := make(map[Producer]bool)
	cur := start
	for {
		p, ok := cur.(Producer)
		if !ok || !reflect.TypeOf(p).Comparable() || seen[p] {
			return false
		}
		seen[p] = true
		next, ok := p.Consumer()
		if !ok {
			return false
		}
		if next == target {
			return true
		}
		cur = next
	}
}

func isNilConsumer(c Consumer) bool {
	v := reflect.ValueOf(c)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Func, reflect.Chan, reflect.Slice, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}
