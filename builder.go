package reforge

import (
	"github.com/eizengan/reforge/transform"
)

// Builder collects rules for Compile. Each Compile call yields an
// independent Transformation with fresh memo caches.
type Builder struct {
	rules []Rule
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// RuleOption adjusts a rule declared with Extract.
type RuleOption func(*Rule)

// Into sets the output path of the rule.
func Into(steps ...any) RuleOption {
	return func(r *Rule) {
		r.Path = steps
	}
}

// Memoize sets the memoization of the rule.
func Memoize(ms transform.MemoSpec) RuleOption {
	return func(r *Rule) {
		r.Memoize = ms
	}
}

// Extract declares a rule reading from. Without Into the rule targets the
// root of the output.
func (b *Builder) Extract(from transform.Spec, opts ...RuleOption) *Builder {
	r := Rule{From: from}
	for _, opt := range opts {
		opt(&r)
	}

	return b.Rule(r)
}

// Rule appends r as is.
func (b *Builder) Rule(r Rule) *Builder {
	b.rules = append(b.rules, cloneRule(r))
	return b
}

// Rules returns a copy of the declared rules.
func (b *Builder) Rules() []Rule {
	out := make([]Rule, len(b.rules))
	for i, r := range b.rules {
		out[i] = cloneRule(r)
	}

	return out
}

// Compile compiles the declared rules; see Compile.
func (b *Builder) Compile(opts ...Option) (*Transformation, error) {
	return Compile(b.rules, opts...)
}
