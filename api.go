package linkz

import (
	"context"
	"reflect"
)

// Name is a type alias for node names.
// Using this type encourages storing names as constants rather than
// using inline strings throughout your code.
//
// Names appear in Error.Path and in every metric, span and event a node
// emits, so they should identify the stage's job:
//
//	const (
//	    ParseName  linkz.Name = "parse"
//	    EnrichName linkz.Name = "enrich"
//	    StoreName  linkz.Name = "store"
//	)
type Name = string

// Kind identifies which capability set a node was built with.
type Kind string

// Node kinds.
const (
	KindTransform Kind = "transform"
	KindSink      Kind = "sink"
)

// Consumer is the capability to receive a value tuple.
//
// Consume must be called with exactly len(Inputs()) values whose types
// match Inputs() positionally. It returns only after the handler and any
// forwarding it triggers have completed.
type Consumer interface {
	Name() Name
	Inputs() []reflect.Type
	Consume(ctx context.Context, values ...any) error
}

// Producer is the capability to emit a value tuple to at most one
// downstream Consumer.
//
// SetConsumer replaces any previous downstream. Produce with no downstream
// registered returns an *Error wrapping ErrNoConsumer.
type Producer interface {
	Outputs() []reflect.Type
	Produce(ctx context.Context, values ...any) error
	SetConsumer(Consumer) error
	ClearConsumer()
	Consumer() (Consumer, bool)
}

// upstreamTracker is implemented by nodes that record which producer feeds
// them, so wiring can reject fan-in.
type upstreamTracker interface {
	upstream() Producer
	setUpstream(Producer)
}
