// Package linkz builds linear, synchronous processing chains out of plain Go
// functions, deriving each stage's value types from the function itself.
//
// # Overview
//
// A chain is a series of nodes. Each node owns one handler function. The
// handler's parameters become the node's input types and its results become
// the node's output types, so there is nothing to declare at the join
// points: a handler returning (int, string) can only be wired to a handler
// accepting (int, string), and the mismatch is reported when wiring, never
// while values flow.
//
// # Core Concepts
//
// Two capabilities describe every node:
//
//   - Consumer: receives a value tuple matching its input types
//   - Producer: emits a value tuple to at most one downstream Consumer
//
// Two node kinds provide them:
//
//   - Transform: Consumer and Producer; built by NewTransform, Map, Apply
//   - Sink: Consumer only; built by NewSink, NewDiscardSink, Effect
//
// Handlers may take a leading context.Context and return a trailing error.
// Neither is part of the value tuple: the context is the call context of
// Consume and a non-nil error stops the chain.
//
// # Wiring
//
// There is no pipeline object. SetConsumer points a transform at the next
// node; Link does this for a whole list:
//
//	inc, _ := linkz.NewTransform("increment", func(n int) int { return n + 1 })
//	dbl, _ := linkz.NewTransform("double", func(n int) int { return n * 2 })
//	out, _ := linkz.NewSink("print", func(n int) { fmt.Println(n) })
//
//	if err := linkz.Link(inc, dbl, out); err != nil {
//	    return err
//	}
//	err := inc.Consume(ctx, 3) // prints 8
//
// SetConsumer replaces any previous downstream. Linking a node to itself,
// closing a cycle, or feeding one node from two producers is rejected.
//
// For single-value stages the generic constructors let the compiler check
// the edges instead:
//
//	parse := linkz.Apply("parse", func(_ context.Context, s string) (int, error) {
//	    return strconv.Atoi(s)
//	})
//	show := linkz.Effect("show", func(_ context.Context, n int) error {
//	    fmt.Println(n)
//	    return nil
//	})
//	_ = linkz.Terminate(parse, show)
//
// # Execution
//
// Consume runs the handler and, for a transform, forwards the results to
// the downstream node on the same goroutine before returning. A chain of N
// nodes therefore uses N nested calls per driven tuple. Nodes hold no locks;
// a chain is driven by one goroutine at a time.
//
// The context passed to Consume flows to every handler that accepts one.
// Each node checks it before running its handler, so a canceled or expired
// context stops the chain at the next node and the driver receives an
// *Error with Canceled or Timeout set. A handler already running is not
// interrupted unless it watches the context itself.
//
// # Error Handling
//
// Wiring errors (ErrSignatureMismatch, ErrCycle, ErrFanIn, ...) and
// signature errors (ErrNotFunc, ErrVariadic, ...) are returned by
// constructors and SetConsumer. Dispatch errors reach the driver as *Error,
// whose Path names every node from the head to the one that failed:
//
//	if err := head.Consume(ctx, v); err != nil {
//	    var nodeErr *linkz.Error
//	    if errors.As(err, &nodeErr) {
//	        log.Printf("failed at %s", strings.Join(nodeErr.Path, " -> "))
//	    }
//	}
//
// A transform with no downstream never drops its output: Consume and
// Produce return an *Error wrapping ErrNoConsumer.
//
// # Observability
//
// Every node carries a metricz registry, a tracez tracer and hookz events.
// See Transform for the keys.
package linkz
