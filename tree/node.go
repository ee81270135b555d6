package tree

import (
	"fmt"
	"slices"
)

// Evaluator computes the value of a leaf from a source.
type Evaluator interface {
	Evaluate(source any) (any, error)
}

// EvaluatorFunc adapts a function to Evaluator.
type EvaluatorFunc func(source any) (any, error)

func (f EvaluatorFunc) Evaluate(source any) (any, error) {
	return f(source)
}

// Node is one of *Leaf, *OrderedAggregate or *NamedAggregate.
type Node interface {
	// Path returns the position of the node in its tree.
	Path() Path

	node()
}

// Leaf produces the value of its evaluator.
type Leaf struct {
	path Path
	eval Evaluator
}

func (l *Leaf) Path() Path { return l.path.clone() }

// Evaluator returns the wrapped evaluator.
func (l *Leaf) Evaluator() Evaluator { return l.eval }

func (*Leaf) node() {}

// OrderedAggregate evaluates to a []any indexed by its children's steps.
// Positions without a child evaluate to nil.
type OrderedAggregate struct {
	path     Path
	children []Node
}

func (a *OrderedAggregate) Path() Path { return a.path.clone() }

// Len returns the highest occupied index plus one.
func (a *OrderedAggregate) Len() int { return len(a.children) }

// Child returns the node at index i, or nil.
func (a *OrderedAggregate) Child(i int) Node {
	if i < 0 || i >= len(a.children) {
		return nil
	}

	return a.children[i]
}

func (a *OrderedAggregate) set(i int, n Node) {
	if i >= len(a.children) {
		a.children = append(a.children, make([]Node, i+1-len(a.children))...)
	}

	a.children[i] = n
}

func (*OrderedAggregate) node() {}

// NamedAggregate evaluates to a map[string]any keyed by its children's names.
type NamedAggregate struct {
	path     Path
	names    []string
	children map[string]Node
}

func (a *NamedAggregate) Path() Path { return a.path.clone() }

// Names returns the child names in attachment order.
func (a *NamedAggregate) Names() []string { return slices.Clone(a.names) }

// Child returns the node named name, or nil.
func (a *NamedAggregate) Child(name string) Node { return a.children[name] }

func (a *NamedAggregate) set(name string, n Node) {
	if _, ok := a.children[name]; !ok {
		a.names = append(a.names, name)
	}

	a.children[name] = n
}

func (*NamedAggregate) node() {}

func newAggregate(path Path, kind StepKind) Node {
	if kind == StepIndex {
		return &OrderedAggregate{path: path}
	}

	return &NamedAggregate{path: path, children: make(map[string]Node)}
}

// aggregateKind returns the step kind an aggregate is addressed by, or zero
// for a leaf.
func aggregateKind(n Node) StepKind {
	switch n.(type) {
	case *OrderedAggregate:
		return StepIndex
	case *NamedAggregate:
		return StepName
	default:
		return 0
	}
}

func child(n Node, s Step) Node {
	switch n := n.(type) {
	case *OrderedAggregate:
		return n.Child(s.index)
	case *NamedAggregate:
		return n.Child(s.name)
	default:
		return nil
	}
}

func setChild(n Node, s Step, c Node) {
	switch n := n.(type) {
	case *OrderedAggregate:
		n.set(s.index, c)
	case *NamedAggregate:
		n.set(s.name, c)
	}
}

// Evaluate computes the value of n against source. Children are evaluated
// in index order for ordered aggregates and attachment order for named
// ones; the first error aborts evaluation and is returned unchanged.
func Evaluate(n Node, source any) (any, error) {
	switch n := n.(type) {
	case *Leaf:
		return n.eval.Evaluate(source)

	case *OrderedAggregate:
		out := make([]any, len(n.children))

		for i, c := range n.children {
			if c == nil {
				continue
			}

			v, err := Evaluate(c, source)
			if err != nil {
				return nil, err
			}

			out[i] = v
		}

		return out, nil

	case *NamedAggregate:
		out := make(map[string]any, len(n.names))

		for _, name := range n.names {
			v, err := Evaluate(n.children[name], source)
			if err != nil {
				return nil, err
			}

			out[name] = v
		}

		return out, nil

	default:
		panic(fmt.Sprintf("tree: unexpected node type %T", n))
	}
}

// Walk calls fn for n and every node below it, parents before children, in
// evaluation order. Walk stops at the first error fn returns.
func Walk(n Node, fn func(Node) error) error {
	if err := fn(n); err != nil {
		return err
	}

	switch n := n.(type) {
	case *OrderedAggregate:
		for _, c := range n.children {
			if c == nil {
				continue
			}

			if err := Walk(c, fn); err != nil {
				return err
			}
		}
	case *NamedAggregate:
		for _, name := range n.names {
			if err := Walk(n.children[name], fn); err != nil {
				return err
			}
		}
	}

	return nil
}
