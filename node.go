package linkz

import (
	"context"
	"errors"
	"reflect"
	"strconv"
	"time"

	"github.com/zoobzio/clockz"
	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// Observability constants shared by every node.
const (
	// Metrics.
	NodeConsumedTotal = metricz.Key("node.consumed.total")
	NodeProducedTotal = metricz.Key("node.produced.total")
	NodeFailuresTotal = metricz.Key("node.failures.total")
	NodeUnwiredTotal  = metricz.Key("node.unwired.total")
	NodeRewiredTotal  = metricz.Key("node.rewired.total")
	NodeDurationMs    = metricz.Key("node.duration.ms")

	// Spans.
	NodeConsumeSpan = tracez.Key("node.consume")
	NodeProduceSpan = tracez.Key("node.produce")

	// Tags.
	NodeTagName       = tracez.Tag("node.name")
	NodeTagKind       = tracez.Tag("node.kind")
	NodeTagArity      = tracez.Tag("node.arity")
	NodeTagSuccess    = tracez.Tag("node.success")
	NodeTagError      = tracez.Tag("node.error")
	NodeTagDownstream = tracez.Tag("node.downstream")

	// Hook event keys.
	NodeEventConsumed = hookz.Key("node.consumed")
	NodeEventProduced = hookz.Key("node.produced")
	NodeEventFailed   = hookz.Key("node.failed")
	NodeEventRewired  = hookz.Key("node.rewired")
)

// Event describes one node lifecycle occurrence. It is emitted via hookz,
// so handlers run asynchronously and never affect dispatch.
type Event struct {
	Timestamp  time.Time     // When the event occurred
	Error      error         // Failure, for node.failed
	Name       Name          // Node name
	Kind       Kind          // Transform or sink
	Downstream Name          // Current downstream, for node.produced and node.rewired
	Previous   Name          // Replaced downstream, for node.rewired
	Inputs     Tuple         // Values consumed
	Outputs    Tuple         // Values produced
	Duration   time.Duration // Time spent in Consume, downstream included
}

// core holds what transforms and sinks have in common: the owned handler,
// its signature and the node's observability state.
type core struct {
	clock   clockz.Clock
	feeder  Producer
	metrics *metricz.Registry
	tracer  *tracez.Tracer
	hooks   *hookz.Hooks[Event]
	fn      reflect.Value
	sig     Signature
	name    Name
	kind    Kind
}

func newCore(name Name, kind Kind, handler any, sig Signature) core {
	metrics := metricz.New()
	metrics.Counter(NodeConsumedTotal)
	metrics.Counter(NodeProducedTotal)
	metrics.Counter(NodeFailuresTotal)
	metrics.Counter(NodeUnwiredTotal)
	metrics.Counter(NodeRewiredTotal)
	metrics.Gauge(NodeDurationMs)

	return core{
		name:    name,
		kind:    kind,
		fn:      reflect.ValueOf(handler),
		sig:     sig,
		metrics: metrics,
		tracer:  tracez.New(),
		hooks:   hookz.New[Event](),
	}
}

// Name returns the node name.
func (c *core) Name() Name {
	return c.name
}

// Kind reports whether the node is a transform or a sink.
func (c *core) Kind() Kind {
	return c.kind
}

// Inputs returns a copy of the node's input type list.
func (c *core) Inputs() []reflect.Type {
	return cloneTypes(c.sig.In)
}

// Signature returns the signature extracted from the handler.
func (c *core) Signature() Signature {
	return Signature{
		In:       cloneTypes(c.sig.In),
		Out:      cloneTypes(c.sig.Out),
		Context:  c.sig.Context,
		Fallible: c.sig.Fallible,
	}
}

// Metrics returns the metrics registry for this node.
func (c *core) Metrics() *metricz.Registry {
	return c.metrics
}

// Tracer returns the tracer for this node.
func (c *core) Tracer() *tracez.Tracer {
	return c.tracer
}

// OnConsumed registers a handler fired after a tuple is fully handled.
func (c *core) OnConsumed(handler func(context.Context, Event) error) error {
	_, err := c.hooks.Hook(NodeEventConsumed, handler)
	return err
}

// OnFailed registers a handler fired when Consume or Produce returns an error.
func (c *core) OnFailed(handler func(context.Context, Event) error) error {
	_, err := c.hooks.Hook(NodeEventFailed, handler)
	return err
}

func (c *core) getClock() clockz.Clock {
	if c.clock == nil {
		return clockz.RealClock
	}
	return c.clock
}

func (c *core) upstream() Producer {
	return c.feeder
}

func (c *core) setUpstream(p Producer) {
	c.feeder = p
}

// dispatch runs the handler on values and, when forward is non-nil, hands
// the results on. The returned error is always an *Error whose path starts
// with this node.
func (c *core) dispatch(ctx context.Context, values Tuple, forward func(context.Context, Tuple) error) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	clock := c.getClock()
	start := clock.Now()

	c.metrics.Counter(NodeConsumedTotal).Inc()
	ctx, span := c.tracer.StartSpan(ctx, NodeConsumeSpan)
	span.SetTag(NodeTagName, c.name)
	span.SetTag(NodeTagKind, string(c.kind))
	span.SetTag(NodeTagArity, strconv.Itoa(len(c.sig.In)))

	var outputs Tuple
	defer func() {
		elapsed := clock.Since(start)
		c.metrics.Gauge(NodeDurationMs).Set(float64(elapsed.Milliseconds()))

		if err == nil {
			span.SetTag(NodeTagSuccess, "true")
			span.Finish()
			_ = c.hooks.Emit(ctx, NodeEventConsumed, Event{ //nolint:errcheck
				Name:      c.name,
				Kind:      c.kind,
				Inputs:    values,
				Outputs:   outputs,
				Duration:  elapsed,
				Timestamp: clock.Now(),
			})
			return
		}

		c.metrics.Counter(NodeFailuresTotal).Inc()
		var nodeErr *Error
		if errors.As(err, &nodeErr) && nodeErr.Duration == 0 {
			nodeErr.Duration = elapsed
		}
		span.SetTag(NodeTagSuccess, "false")
		span.SetTag(NodeTagError, err.Error())
		span.Finish()
		_ = c.hooks.Emit(ctx, NodeEventFailed, Event{ //nolint:errcheck
			Name:      c.name,
			Kind:      c.kind,
			Inputs:    values,
			Error:     err,
			Duration:  elapsed,
			Timestamp: clock.Now(),
		})
	}()
	// Consumers outside this package may panic during forward.
	defer recoverFromPanic(&err, c.name, values, start)

	results, err := c.invoke(ctx, values, start)
	if err != nil {
		return err
	}
	if forward == nil {
		return nil
	}

	outputs = tupleOf(results)
	if err := forward(ctx, outputs); err != nil {
		return prefixed(c.name, err, values, clock.Now())
	}
	return nil
}

// invoke validates values, checks ctx and calls the handler. A trailing
// error result is split off and returned as an *Error.
func (c *core) invoke(ctx context.Context, values Tuple, start time.Time) (results []reflect.Value, err error) {
	args, err := values.reflectValues(c.sig.In)
	if err != nil {
		return nil, &Error{Timestamp: start, Values: values, Err: err, Path: []Name{c.name}}
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, &Error{
			Timestamp: start,
			Values:    values,
			Err:       ctxErr,
			Path:      []Name{c.name},
			Timeout:   errors.Is(ctxErr, context.DeadlineExceeded),
			Canceled:  errors.Is(ctxErr, context.Canceled),
		}
	}

	if c.sig.Context {
		args = append([]reflect.Value{reflect.ValueOf(&ctx).Elem()}, args...)
	}

	defer recoverFromPanic(&err, c.name, values, start)
	results = c.fn.Call(args)

	if c.sig.Fallible {
		last := results[len(results)-1]
		results = results[:len(results)-1]
		if !last.IsNil() {
			handlerErr, _ := last.Interface().(error) //nolint:errcheck // type guaranteed by Extract
			return nil, &Error{
				Timestamp: start,
				Values:    values,
				Err:       handlerErr,
				Path:      []Name{c.name},
				Timeout:   errors.Is(handlerErr, context.DeadlineExceeded),
				Canceled:  errors.Is(handlerErr, context.Canceled),
			}
		}
	}
	return results, nil
}

// close releases observability resources and detaches the node from the
// producer feeding it, so that producer reports ErrNoConsumer instead of
// calling into a discarded node.
func (c *core) close(self Consumer) {
	if c.feeder != nil {
		if next, ok := c.feeder.Consumer(); ok && next == self {
			c.feeder.ClearConsumer()
		}
		c.feeder = nil
	}
	if c.tracer != nil {
		c.tracer.Close()
	}
	c.hooks.Close()
}
