package ruleset

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/eizengan/reforge/transform"
)

var ErrDuplicateFunc = errors.New("function already registered")

// FuncRegistry maps names used in rule files to Go functions.
type FuncRegistry struct {
	funcs map[string]any
}

// NewFuncRegistry creates a new empty registry.
func NewFuncRegistry() *FuncRegistry {
	return &FuncRegistry{
		funcs: make(map[string]any),
	}
}

// Register adds fn under name. fn must be usable as a transform function:
// zero or one argument, returning a value and optionally an error.
func (r *FuncRegistry) Register(name string, fn any) error {
	if name == "" {
		return errors.New("function name must not be empty")
	}

	if _, exists := r.funcs[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateFunc, name)
	}

	if _, err := transform.New(transform.Func(fn), transform.NoMemo()); err != nil {
		return fmt.Errorf("function %q: %w", name, err)
	}

	r.funcs[name] = fn

	return nil
}

// MustRegister is like Register but panics on error.
func (r *FuncRegistry) MustRegister(name string, fn any) *FuncRegistry {
	if err := r.Register(name, fn); err != nil {
		panic(err)
	}

	return r
}

// Get returns the function registered under name.
func (r *FuncRegistry) Get(name string) (any, bool) {
	if r == nil {
		return nil, false
	}

	fn, ok := r.funcs[name]

	return fn, ok
}

// Has returns true if a function with the given name exists.
func (r *FuncRegistry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Names returns all function names, sorted.
func (r *FuncRegistry) Names() []string {
	if r == nil {
		return nil
	}

	return slices.Sorted(maps.Keys(r.funcs))
}
