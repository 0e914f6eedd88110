package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/zoobzio/linkz"
)

// sampleChain is parse -> scale -> label -> print. Each edge carries a
// different tuple shape so the wiring checks are visible in describe.
type sampleChain struct {
	head  *linkz.Transform
	nodes []linkz.Consumer
}

func newSampleChain(out io.Writer, factor int) (*sampleChain, error) {
	parse, err := linkz.NewTransform("parse", func(s string) (int, error) {
		return strconv.Atoi(strings.TrimSpace(s))
	})
	if err != nil {
		return nil, err
	}

	scale, err := linkz.NewTransform("scale", func(n int) int { return n * factor })
	if err != nil {
		return nil, err
	}

	label, err := linkz.NewTransform("label", func(n int) (string, int) {
		switch {
		case n < 0:
			return "negative", n
		case n == 0:
			return "zero", n
		default:
			return "positive", n
		}
	})
	if err != nil {
		return nil, err
	}

	show, err := linkz.NewSink("print", func(kind string, n int) error {
		_, err := fmt.Fprintf(out, "%-8s %d\n", kind, n)
		return err
	})
	if err != nil {
		return nil, err
	}

	nodes := []linkz.Consumer{parse, scale, label, show}
	if err := linkz.Link(nodes...); err != nil {
		return nil, err
	}
	return &sampleChain{head: parse, nodes: nodes}, nil
}

func (c *sampleChain) Close() {
	for _, n := range c.nodes {
		if closer, ok := n.(io.Closer); ok {
			_ = closer.Close() //nolint:errcheck
		}
	}
}
