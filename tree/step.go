package tree

import (
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/eizengan/reforge/internal/common"
	"github.com/eizengan/reforge/utils"
)

// MaxIndex is the largest index an ordered aggregate accepts.
const MaxIndex = 1 << 20

//go:generate go tool stringer -type=StepKind -linecomment -output=stepkind_string.go

// StepKind distinguishes index steps from name steps.
type StepKind int

const (
	_ StepKind = iota // zero value marks an unset step

	StepIndex // index
	StepName  // name
)

// Step is one position in a Path. The zero Step is invalid.
type Step struct {
	kind  StepKind
	index int
	name  string
}

// IndexStep returns a step into an ordered aggregate. It does not validate i;
// Attach rejects out of range indices.
func IndexStep(i int) Step {
	return Step{kind: StepIndex, index: i}
}

// NameStep returns a step into a named aggregate.
func NameStep(name string) Step {
	return Step{kind: StepName, name: name}
}

// NewStep converts an integer of any Go integer type, a string or a Step.
func NewStep(v any) (Step, error) {
	return newStep(0, v)
}

func newStep(pos int, v any) (Step, error) {
	fail := func(err error) (Step, error) {
		return Step{}, &PathPartError{Position: pos, Value: v, Err: err}
	}

	var s Step

	switch x := v.(type) {
	case Step:
		s = x
	case string:
		s = NameStep(x)
	default:
		rv := reflect.ValueOf(v)
		if !rv.IsValid() {
			return fail(ErrStepKind)
		}

		switch {
		case utils.IsInRange(reflect.Int, rv.Kind(), reflect.Int64):
			i := rv.Int()
			if i < 0 {
				return fail(ErrNegativeIndex)
			}

			if i > MaxIndex {
				return fail(ErrIndexTooLarge)
			}

			s = IndexStep(int(i))
		case utils.IsInRange(reflect.Uint, rv.Kind(), reflect.Uint64):
			u := rv.Uint()
			if u > MaxIndex {
				return fail(ErrIndexTooLarge)
			}

			s = IndexStep(int(u))
		default:
			return fail(ErrStepKind)
		}
	}

	if err := s.validate(); err != nil {
		return fail(err)
	}

	return s, nil
}

func (s Step) validate() error {
	switch s.kind {
	case StepIndex:
		if s.index < 0 {
			return ErrNegativeIndex
		}

		if s.index > MaxIndex {
			return ErrIndexTooLarge
		}
	case StepName:
		if s.name == "" {
			return ErrEmptyName
		}
	default:
		return ErrUnsetStep
	}

	return nil
}

// Kind returns the step kind; zero for an unset step.
func (s Step) Kind() StepKind {
	return s.kind
}

// Index returns the index of an index step.
func (s Step) Index() int {
	return s.index
}

// Name returns the name of a name step.
func (s Step) Name() string {
	return s.name
}

// Value returns the step as an int or a string.
func (s Step) Value() any {
	if s.kind == StepIndex {
		return s.index
	}

	return s.name
}

// String renders the step as it appears in a path: a bare name or [i].
func (s Step) String() string {
	switch s.kind {
	case StepIndex:
		return "[" + strconv.Itoa(s.index) + "]"
	case StepName:
		return s.name
	default:
		return common.UnknownStr
	}
}

// Quote renders the step for messages: a quoted name or a bare index.
func (s Step) Quote() string {
	if s.kind == StepName {
		return strconv.Quote(s.name)
	}

	return strconv.Itoa(s.index)
}

// Path locates a node from the root. The empty path is the root itself.
type Path []Step

// NewPath converts and validates steps; see NewStep.
func NewPath(steps ...any) (Path, error) {
	path := make(Path, len(steps))

	for i, v := range steps {
		s, err := newStep(i, v)
		if err != nil {
			return nil, err
		}

		path[i] = s
	}

	return path, nil
}

// MustPath is like NewPath but panics on error.
func MustPath(steps ...any) Path {
	p, err := NewPath(steps...)
	if err != nil {
		panic(err)
	}

	return p
}

// ParsePath parses the text form of a path.
// Supports: "name", "attn.first_name", "list[2]", "grid[0][1].cell", "[0].name".
// The empty string is the root path.
func ParsePath(text string) (Path, error) {
	if text == "" {
		return Path{}, nil
	}

	var path Path

	for n, part := range strings.Split(text, ".") {
		name, indices := utils.Unpack2(strings.SplitN(part, "[", 2))
		hasIndex := strings.Contains(part, "[")

		if name == "" && (n > 0 || !hasIndex) {
			return nil, fmt.Errorf("%w %q: empty segment", ErrInvalidPath, text)
		}

		if strings.Contains(name, "]") {
			return nil, fmt.Errorf("%w %q: unbalanced ']' in %q", ErrInvalidPath, text, part)
		}

		if name != "" {
			path = append(path, NameStep(name))
		}

		if !hasIndex {
			continue
		}

		if !strings.HasSuffix(indices, "]") {
			return nil, fmt.Errorf("%w %q: unterminated index in %q", ErrInvalidPath, text, part)
		}

		for _, digits := range strings.Split(strings.TrimSuffix(indices, "]"), "][") {
			if digits == "" || strings.Trim(digits, "0123456789") != "" {
				return nil, fmt.Errorf("%w %q: index %q is not a non-negative integer", ErrInvalidPath, text, digits)
			}

			i, err := strconv.ParseUint(digits, 10, 64)
			if err != nil {
				i = math.MaxUint64
			}

			s, err := newStep(len(path), i)
			if err != nil {
				return nil, fmt.Errorf("%w %q: %w", ErrInvalidPath, text, err)
			}

			path = append(path, s)
		}
	}

	return path, nil
}

// String renders the path in the form ParsePath accepts; the root renders
// as <root>.
func (p Path) String() string {
	if len(p) == 0 {
		return "<root>"
	}

	var sb strings.Builder

	for i, s := range p {
		if i > 0 && s.kind != StepIndex {
			sb.WriteByte('.')
		}

		sb.WriteString(s.String())
	}

	return sb.String()
}

// Values returns the steps as ints and strings.
func (p Path) Values() []any {
	out := make([]any, len(p))
	for i, s := range p {
		out[i] = s.Value()
	}

	return out
}

func (p Path) clone() Path {
	return slices.Clone(p)
}
