package reforge

import (
	"github.com/eizengan/reforge/tree"
)

// Transformation evaluates compiled rules against sources. Memo caches live
// as long as the Transformation and are shared by all its evaluations.
type Transformation struct {
	rules []Rule
	tree  *tree.Tree
}

// Evaluate returns the output for one source. It fails with tree.ErrEmptyTree
// when no rules were compiled; errors of the rules are returned unchanged.
func (t *Transformation) Evaluate(source any) (any, error) {
	return t.tree.Evaluate(source)
}

// EvaluateAll evaluates sources in order. The first failure is returned as
// an *EvaluationError.
func (t *Transformation) EvaluateAll(sources []any) ([]any, error) {
	return EvaluateEach(t, sources)
}

// Call evaluates a single source to its output, or several sources to a
// slice of outputs.
func (t *Transformation) Call(sources ...any) (any, error) {
	if len(sources) == 1 {
		return t.Evaluate(sources[0])
	}

	return t.EvaluateAll(sources)
}

// Rules returns a copy of the compiled rules.
func (t *Transformation) Rules() []Rule {
	out := make([]Rule, len(t.rules))
	for i, r := range t.rules {
		out[i] = cloneRule(r)
	}

	return out
}

// Tree returns the compiled tree. It must not be attached to.
func (t *Transformation) Tree() *tree.Tree {
	return t.tree
}

// EvaluateEach is EvaluateAll for a typed batch.
func EvaluateEach[S any](t *Transformation, sources []S) ([]any, error) {
	out := make([]any, len(sources))

	for i, s := range sources {
		v, err := t.Evaluate(s)
		if err != nil {
			return nil, &EvaluationError{Index: i, Err: err}
		}

		out[i] = v
	}

	return out, nil
}
