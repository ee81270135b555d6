package tree

import (
	"reflect"
)

// Tree is an append-only arrangement of evaluators. The zero Tree is empty
// and ready to use. A Tree is not safe for concurrent Attach calls.
type Tree struct {
	root Node
}

// New returns an empty tree.
func New() *Tree {
	return &Tree{}
}

// Attach places e at path. Aggregates along the path are reused, or created
// with the kind of the step addressing into them.
//
// The empty path makes e the root. Attach fails with a *PathPartError for an
// invalid step, a *PathTypeError when a step kind disagrees with an existing
// aggregate, and a *NodeRedefinitionError when path or one of its prefixes is
// already occupied by a leaf. A failed Attach leaves the tree unchanged.
func (t *Tree) Attach(path Path, e Evaluator) error {
	if isNil(e) {
		return ErrNilEvaluator
	}

	for i, s := range path {
		if err := s.validate(); err != nil {
			return &PathPartError{Position: i, Value: s, Err: err}
		}
	}

	if len(path) == 0 {
		if t.root != nil {
			return &NodeRedefinitionError{Path: Path{}}
		}

		t.root = &Leaf{path: Path{}, eval: e}

		return nil
	}

	if t.root == nil {
		t.root = newAggregate(Path{}, path[0].kind)
	}

	cur := t.root

	for i, step := range path {
		if err := checkAggregate(cur, path[:i+1]); err != nil {
			return err
		}

		next := child(cur, step)

		if i == len(path)-1 {
			if next != nil {
				return &NodeRedefinitionError{Path: path.clone()}
			}

			setChild(cur, step, &Leaf{path: path.clone(), eval: e})

			return nil
		}

		if next == nil {
			// everything below a new aggregate is new, so no later step fails
			next = newAggregate(path[:i+1].clone(), path[i+1].kind)
			setChild(cur, step, next)
		}

		cur = next
	}

	return nil
}

// checkAggregate verifies that n can be addressed by the last step of at.
func checkAggregate(n Node, at Path) error {
	kind := aggregateKind(n)
	if kind == 0 {
		return &NodeRedefinitionError{Path: n.Path()}
	}

	if step := at[len(at)-1]; step.kind != kind {
		return &PathTypeError{Path: at.clone(), Want: kind}
	}

	return nil
}

// Evaluate computes the tree's output for source.
func (t *Tree) Evaluate(source any) (any, error) {
	if t.root == nil {
		return nil, ErrEmptyTree
	}

	return Evaluate(t.root, source)
}

// Root returns the root node, or nil for an empty tree.
func (t *Tree) Root() Node {
	return t.root
}

// Empty reports whether nothing has been attached.
func (t *Tree) Empty() bool {
	return t.root == nil
}

// Leaves returns the leaves in evaluation order.
func (t *Tree) Leaves() []*Leaf {
	if t.root == nil {
		return nil
	}

	var leaves []*Leaf

	_ = Walk(t.root, func(n Node) error {
		if l, ok := n.(*Leaf); ok {
			leaves = append(leaves, l)
		}

		return nil
	})

	return leaves
}

func isNil(e Evaluator) bool {
	if e == nil {
		return true
	}

	v := reflect.ValueOf(e)

	switch v.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Map, reflect.Interface, reflect.Slice, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}
