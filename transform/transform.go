package transform

import (
	"errors"
	"slices"
)

// Transform computes one derived value from a source, optionally through a
// Memo. It is immutable after New apart from the memo cache.
type Transform struct {
	spec     Spec
	memoSpec MemoSpec
	eval     func(any) (any, error)
	memo     *Memo
}

// New validates spec and memo and returns the Transform they describe.
// Invalid configurations fail with a *ConfigurationError.
func New(spec Spec, memo MemoSpec) (*Transform, error) {
	eval, err := compile(spec)
	if err != nil {
		return nil, err
	}

	m, err := NewMemo(memo)
	if err != nil {
		return nil, err
	}

	return &Transform{spec: spec, memoSpec: memo, eval: eval, memo: m}, nil
}

// MustNew is like New but panics on error. It is meant for package-level
// declarations.
func MustNew(spec Spec, memo MemoSpec) *Transform {
	t, err := New(spec, memo)
	if err != nil {
		panic(err)
	}

	return t
}

func compile(spec Spec) (func(any) (any, error), error) {
	switch spec.Kind {
	case KindFunc:
		c, err := parseCallable(spec.Fn)
		if err != nil {
			return nil, configErr("transform", err)
		}

		if spec.Input == nil {
			return c.call, nil
		}

		if c.arity() == 0 {
			return nil, configErr("transform", ErrInputOnZeroArity)
		}

		input, err := compile(*spec.Input)
		if err != nil {
			var ce *ConfigurationError
			if errors.As(err, &ce) {
				return nil, configErr("transform input", ce.Err)
			}

			return nil, err
		}

		return func(source any) (any, error) {
			v, err := input(source)
			if err != nil {
				return nil, err
			}

			return c.call(v)
		}, nil

	case KindAttribute:
		if len(spec.Attributes) == 0 {
			return nil, configErr("transform", ErrEmptyChain)
		}

		steps := make([]any, len(spec.Attributes))
		for i, name := range spec.Attributes {
			if name == "" {
				return nil, configErr("transform", ErrEmptyStep)
			}

			steps[i] = name
		}

		return chain{shape: KindAttribute, steps: steps, propagateNil: spec.PropagateNil}.evaluate, nil

	case KindKey:
		if len(spec.Keys) == 0 {
			return nil, configErr("transform", ErrEmptyChain)
		}

		if slices.Contains(spec.Keys, nil) {
			return nil, configErr("transform", ErrEmptyStep)
		}

		return chain{shape: KindKey, steps: slices.Clone(spec.Keys), propagateNil: spec.PropagateNil}.evaluate, nil

	case KindValue:
		v := spec.Constant

		return func(any) (any, error) { return v, nil }, nil

	default:
		return nil, configErr("transform", ErrNoShape)
	}
}

// Evaluate returns the value derived from source. With a memo attached, a
// cached value is returned when the memo key was seen before.
func (t *Transform) Evaluate(source any) (any, error) {
	if t.memo == nil {
		return t.eval(source)
	}

	return t.memo.load(source, t.eval)
}

// Spec returns the spec the transform was built from.
func (t *Transform) Spec() Spec {
	return t.spec
}

// MemoSpec returns the memoization the transform was built with.
func (t *Transform) MemoSpec() MemoSpec {
	return t.memoSpec
}

// Memo returns the attached memo, or nil.
func (t *Transform) Memo() *Memo {
	return t.memo
}

func (t *Transform) String() string {
	if t.memo == nil {
		return t.spec.String()
	}

	return t.spec.String() + " memoize=" + t.memoSpec.String()
}
