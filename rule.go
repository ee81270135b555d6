package reforge

import (
	"fmt"
	"log"
	"slices"

	"github.com/eizengan/reforge/transform"
	"github.com/eizengan/reforge/tree"
)

// Rule places the value of From at Path in the output.
type Rule struct {
	// Path holds int and string steps; an empty Path makes the rule the
	// whole output.
	Path    []any
	From    transform.Spec
	Memoize transform.MemoSpec
}

// Option configures Compile.
type Option func(*options)

type options struct {
	logger *log.Logger
}

// WithLogger logs every attached rule and a summary of the compilation.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

func (o options) logf(format string, args ...any) {
	if o.logger != nil {
		o.logger.Printf(format, args...)
	}
}

// BuildError reports the rule that failed to compile.
type BuildError struct {
	// Index is the position of the rule in the compiled list.
	Index int
	Path  []any
	Err   error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("failed to attach node at path %s: %v", renderPath(e.Path), e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// EvaluationError reports the batch position of a source that failed.
type EvaluationError struct {
	Index int
	Err   error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluating source %d: %v", e.Index, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}

func renderPath(steps []any) string {
	if p, err := tree.NewPath(steps...); err == nil {
		return p.String()
	}

	return fmt.Sprintf("%v", steps)
}

func cloneRule(r Rule) Rule {
	r.Path = slices.Clone(r.Path)
	return r
}
