package tree

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyTree     = errors.New("tree has no root node")
	ErrNilEvaluator  = errors.New("evaluator is nil")
	ErrInvalidPath   = errors.New("invalid path")
	ErrStepKind      = errors.New("path step must be an integer index or a name")
	ErrNegativeIndex = errors.New("index must not be negative")
	ErrIndexTooLarge = fmt.Errorf("index must not exceed %d", MaxIndex)
	ErrEmptyName     = errors.New("name must not be empty")
	ErrUnsetStep     = errors.New("step is unset")
)

// PathPartError reports a path step that is neither an index nor a name, or
// an index out of bounds.
type PathPartError struct {
	// Position is the zero-based position of the step in its path.
	Position int
	Value    any
	Err      error
}

func (e *PathPartError) Error() string {
	return fmt.Sprintf("path step %d (%T %v): %v", e.Position, e.Value, e.Value, e.Err)
}

func (e *PathPartError) Unwrap() error {
	return e.Err
}

// PathTypeError reports a step whose kind disagrees with the aggregate already
// established at its position.
type PathTypeError struct {
	// Path leads to and includes the offending step.
	Path Path
	// Want is the step kind of the existing aggregate.
	Want StepKind
}

func (e *PathTypeError) Error() string {
	step := e.Path[len(e.Path)-1]

	return fmt.Sprintf("expected %s at node path %s to be of %s type", step.Quote(), e.Path, e.Want)
}

// NodeRedefinitionError reports an attachment to a position that is already
// occupied, or through a leaf.
type NodeRedefinitionError struct {
	// Path is the position of the existing node.
	Path Path
}

func (e *NodeRedefinitionError) Error() string {
	if len(e.Path) == 0 {
		return "the root node has already been defined"
	}

	return "node already exists at " + e.Path.String()
}
