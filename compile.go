package reforge

import (
	"github.com/eizengan/reforge/transform"
	"github.com/eizengan/reforge/tree"
)

// Compile builds a Transformation from rules, attaching them in order. The
// first rule that fails aborts compilation with a *BuildError; no partial
// Transformation is returned.
func Compile(rules []Rule, opts ...Option) (*Transformation, error) {
	o := newOptions(opts)
	t := tree.New()
	kept := make([]Rule, 0, len(rules))

	for i, r := range rules {
		if err := attach(t, r); err != nil {
			o.logf("rule %d rejected: %v", i, err)
			return nil, &BuildError{Index: i, Path: r.Path, Err: err}
		}

		o.logf("rule %d attached at %s: %s memoize=%s", i, renderPath(r.Path), r.From, r.Memoize)

		kept = append(kept, cloneRule(r))
	}

	o.logf("compiled %d rules into %d leaves", len(kept), len(t.Leaves()))

	return &Transformation{rules: kept, tree: t}, nil
}

func attach(t *tree.Tree, r Rule) error {
	path, err := tree.NewPath(r.Path...)
	if err != nil {
		return err
	}

	tr, err := transform.New(r.From, r.Memoize)
	if err != nil {
		return err
	}

	return t.Attach(path, tr)
}
