package linkz

import (
	"reflect"
	"strings"
)

// Descriptor is a serializable view of one node in a chain.
type Descriptor struct {
	Name    string   `json:"name"`
	Kind    Kind     `json:"kind"`
	Inputs  []string `json:"inputs"`
	Outputs []string `json:"outputs"`
}

// String renders the descriptor as "name (int) -> (string)".
func (d Descriptor) String() string {
	return d.Name + " (" + strings.Join(d.Inputs, ", ") + ") -> (" + strings.Join(d.Outputs, ", ") + ")"
}

// Schema represents the structure of a wired chain, head first.
// It can be generated at any time without driving the chain, for
// visualization, debugging and logging:
//
//	schema := linkz.Describe(head)
//	jsonBytes, _ := json.MarshalIndent(schema, "", "  ")
//	fmt.Println(string(jsonBytes))
type Schema struct {
	Stages []Descriptor `json:"stages"`
}

// Describe walks the chain starting at head and records every node it
// reaches by following downstream links.
func Describe(head Consumer) Schema {
	var schema Schema
	seen := make(map[Consumer]bool)

	cur := head
	for cur != nil && !isNilConsumer(cur) {
		if reflect.TypeOf(cur).Comparable() {
			if seen[cur] {
				break
			}
			seen[cur] = true
		}

		d := Descriptor{
			Name:    cur.Name(),
			Inputs:  typeNames(cur.Inputs()),
			Outputs: []string{},
		}
		switch n := cur.(type) {
		case *Transform:
			d.Kind = n.Kind()
		case *Sink:
			d.Kind = n.Kind()
		}

		p, ok := cur.(Producer)
		if !ok {
			if d.Kind == "" {
				d.Kind = KindSink
			}
			schema.Stages = append(schema.Stages, d)
			break
		}
		if d.Kind == "" {
			d.Kind = KindTransform
		}
		d.Outputs = typeNames(p.Outputs())
		schema.Stages = append(schema.Stages, d)

		next, ok := p.Consumer()
		if !ok {
			break
		}
		cur = next
	}
	return schema
}

// Walk calls fn for each stage, head first.
func (s Schema) Walk(fn func(Descriptor)) {
	for _, d := range s.Stages {
		fn(d)
	}
}

// FindByName returns the first stage with the given name, or nil if not found.
func (s Schema) FindByName(name string) *Descriptor {
	for i := range s.Stages {
		if s.Stages[i].Name == name {
			return &s.Stages[i]
		}
	}
	return nil
}

// Count returns the number of stages in the schema.
func (s Schema) Count() int {
	return len(s.Stages)
}

// String renders one stage per line.
func (s Schema) String() string {
	lines := make([]string, len(s.Stages))
	for i, d := range s.Stages {
		lines[i] = d.String()
	}
	return strings.Join(lines, "\n")
}

func typeNames(types []reflect.Type) []string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return names
}
