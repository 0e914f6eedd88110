package linkz

import (
	"context"
	"reflect"
)

// producer is the Producer half of a transform: the output type list and
// an optional, non-owning link to the next Consumer.
type producer struct {
	next    Consumer
	outputs []reflect.Type
}

// send delivers values to the downstream Consumer. It does not validate;
// callers guarantee values match outputs.
func (p *producer) send(ctx context.Context, values Tuple) error {
	if p.next == nil {
		return ErrNoConsumer
	}
	return p.next.Consume(ctx, values...)
}

func (p *producer) link() (Consumer, bool) {
	return p.next, p.next != nil
}

// swap installs next and returns the link it replaced.
func (p *producer) swap(next Consumer) Consumer {
	prev := p.next
	p.next = next
	return prev
}
