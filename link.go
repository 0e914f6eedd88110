package linkz

import (
	"errors"
	"fmt"
)

// ErrNotProducer is returned by Link when a node other than the last one
// cannot produce.
var ErrNotProducer = errors.New("node cannot produce")

// Link wires nodes into a chain in the order given: nodes[i] produces into
// nodes[i+1]. It is shorthand for calling SetConsumer on each producer and
// stops at the first wiring error. Links made before the error remain.
//
// There is no pipeline object; the returned chain is driven by calling
// Consume on nodes[0].
//
//	if err := linkz.Link(parse, validate, store); err != nil {
//	    return err
//	}
//	err := parse.Consume(ctx, line)
func Link(nodes ...Consumer) error {
	for i := 0; i+1 < len(nodes); i++ {
		if nodes[i] == nil || isNilConsumer(nodes[i]) {
			return fmt.Errorf("link %d: %w", i, ErrNilConsumer)
		}
		p, ok := nodes[i].(Producer)
		if !ok {
			return fmt.Errorf("link %d (%q): %w", i, nodes[i].Name(), ErrNotProducer)
		}
		if err := p.SetConsumer(nodes[i+1]); err != nil {
			return fmt.Errorf("link %d: %w", i, err)
		}
	}
	return nil
}

// Unlink clears the downstream link of every producer in nodes.
func Unlink(nodes ...Consumer) {
	for _, n := range nodes {
		if p, ok := n.(Producer); ok {
			p.ClearConsumer()
		}
	}
}
