package transform

import (
	"errors"
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

var (
	// ErrConfiguration matches every *ConfigurationError.
	ErrConfiguration = errors.New("invalid transform configuration")

	// ErrAccess matches every *AccessFault.
	ErrAccess = errors.New("access fault")

	ErrNotCallable      = errors.New("must be a function")
	ErrBadSignature     = errors.New("must take at most one argument and return a value, optionally followed by an error")
	ErrEmptyChain       = errors.New("must name at least one step")
	ErrEmptyStep        = errors.New("must not contain empty or nil steps")
	ErrNoShape          = errors.New("must select exactly one of func, attribute, key or value")
	ErrMemoizeBy        = errors.New("must be a function or a transform configuration")
	ErrMemoizeValue     = errors.New("must be true, false, \"first\" or {by: ...}")
	ErrInputOnZeroArity = errors.New("cannot take an input when the function takes no argument")

	// ErrArgument is returned at evaluation when a value cannot be passed to a
	// function transform.
	ErrArgument = errors.New("argument type mismatch")
)

// ConfigurationError reports an invalid transform or memoize option found
// while building a Transform.
type ConfigurationError struct {
	// Option names the offending option, e.g. "transform" or "memoize by".
	Option string
	Err    error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("the %s option %v", e.Option, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrConfiguration) hold for every ConfigurationError.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

func configErr(option string, err error) error {
	return &ConfigurationError{Option: option, Err: err}
}

// AccessFault reports a chain step that could not be taken.
type AccessFault struct {
	// Shape is KindAttribute or KindKey.
	Shape Kind
	// Step is the position of the failing accessor in the chain.
	Step int
	// Accessor is the attribute name or key that failed.
	Accessor any
	// Receiver is the value the accessor was applied to.
	Receiver any
	Reason   string
	// Suggestions lists close attribute names, if any.
	Suggestions []string
}

var faultPrinter = spew.ConfigState{
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
	MaxDepth:                2,
}

func (e *AccessFault) Error() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "cannot access %s %q (step %d) on %s: %s",
		e.Shape, fmt.Sprint(e.Accessor), e.Step, describe(e.Receiver), e.Reason)

	if len(e.Suggestions) > 0 {
		sb.WriteString("; did you mean " + strings.Join(e.Suggestions, ", ") + "?")
	}

	return sb.String()
}

// Is makes errors.Is(err, ErrAccess) hold for every AccessFault.
func (e *AccessFault) Is(target error) bool {
	return target == ErrAccess
}

func describe(v any) string {
	if v == nil {
		return "nil"
	}

	return fmt.Sprintf("%T %s", v, faultPrinter.Sprint(v))
}
