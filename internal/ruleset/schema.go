package ruleset

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/eizengan/reforge/transform"
	"github.com/eizengan/reforge/tree"
)

var (
	ErrShape       = errors.New("from must select exactly one of func, attribute, key or value")
	ErrUnknownFunc = errors.New("unknown function")
	ErrInputShape  = errors.New("input is only allowed with func")
)

// Shape keys of a from, in the order they are reported.
const (
	shapeFunc      = "func"
	shapeAttribute = "attribute"
	shapeKey       = "key"
	shapeValue     = "value"
)

// RuleFile represents the root of a YAML rule file.
type RuleFile struct {
	// Version of the rule file schema (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Rules are compiled in the listed order.
	Rules []RuleDef `yaml:"rules"`
}

// RuleDef declares one extraction rule.
type RuleDef struct {
	// Path is where the value lands in the output; omitted means the root.
	Path PathRef `yaml:"path,omitempty"`

	// From describes how the value is read from the source.
	From FromDef `yaml:"from"`

	// Memoize selects the caching of From.
	Memoize MemoizeDef `yaml:"memoize,omitempty"`

	// Description is free text shown by the explain output.
	Description string `yaml:"description,omitempty"`
}

// FromDef describes a transform. Exactly one of Func, Attribute, Key or
// Value must be set.
type FromDef struct {
	// Func names a registered function.
	Func string `yaml:"func,omitempty"`

	// Attribute is a chain of method or field names.
	Attribute StringOrArray `yaml:"attribute,omitempty"`

	// Key is a chain of map keys, indices or struct field names.
	Key KeyList `yaml:"key,omitempty"`

	// Value is a constant.
	Value any `yaml:"value,omitempty"`

	// PropagateNil makes attribute and key chains yield null on a null step.
	PropagateNil bool `yaml:"propagate_nil,omitempty"`

	// Input feeds a nested from into Func.
	Input *FromDef `yaml:"input,omitempty"`

	// shapes lists the shape keys present in the parsed document, which
	// tells an explicit `value: null` or `key: []` apart from an absent one.
	shapes []string
}

// Shapes returns the shape keys set on f.
func (f *FromDef) Shapes() []string {
	if f.shapes != nil {
		return slices.Clone(f.shapes)
	}

	var out []string

	if f.Func != "" {
		out = append(out, shapeFunc)
	}

	if f.Attribute != nil {
		out = append(out, shapeAttribute)
	}

	if f.Key != nil {
		out = append(out, shapeKey)
	}

	if f.Value != nil {
		out = append(out, shapeValue)
	}

	return out
}

// Spec converts f into a transform spec, resolving functions in reg.
func (f *FromDef) Spec(reg *FuncRegistry) (transform.Spec, error) {
	shapes := f.Shapes()
	if len(shapes) != 1 {
		return transform.Spec{}, ErrShape
	}

	if shapes[0] != shapeFunc {
		if f.Input != nil {
			return transform.Spec{}, ErrInputShape
		}

		return transform.ParseSpec(f.record(shapes[0]))
	}

	fn, ok := reg.Get(f.Func)
	if !ok {
		return transform.Spec{}, fmt.Errorf("%w %q", ErrUnknownFunc, f.Func)
	}

	if f.PropagateNil {
		return transform.Spec{}, &transform.ConfigurationError{
			Option: "propagate_nil",
			Err:    errors.New("applies to attribute and key chains only"),
		}
	}

	spec := transform.Func(fn)

	if f.Input != nil {
		in, err := f.Input.Spec(reg)
		if err != nil {
			return transform.Spec{}, fmt.Errorf("input: %w", err)
		}

		spec = spec.From(in)
	}

	return spec, nil
}

// String describes f the way transform specs describe themselves, keeping
// function names as written in the rule file.
func (f *FromDef) String() string {
	shapes := f.Shapes()
	if len(shapes) != 1 {
		return "invalid(" + strings.Join(shapes, ", ") + ")"
	}

	if shapes[0] != shapeFunc {
		spec, err := transform.ParseSpec(f.record(shapes[0]))
		if err != nil {
			return "invalid(" + shapes[0] + ")"
		}

		return spec.String()
	}

	body := f.Func
	if f.Input != nil {
		body += " <- " + f.Input.String()
	}

	return "func(" + body + ")"
}

// record renders a structural shape in the loose form transform.ParseSpec
// accepts.
func (f *FromDef) record(shape string) map[string]any {
	rec := map[string]any{}

	switch shape {
	case shapeAttribute:
		rec[shapeAttribute] = []string(f.Attribute)
	case shapeKey:
		rec[shapeKey] = []any(f.Key)
	case shapeValue:
		rec[shapeValue] = f.Value
	}

	if f.PropagateNil {
		rec["propagate_nil"] = true
	}

	return rec
}

// MemoizeDef is the memoize option of a rule.
type MemoizeDef struct {
	// Enabled caches by source.
	Enabled bool
	// First computes the value once.
	First bool
	// By caches by the value of a derived key.
	By *FromDef
}

// IsZero reports whether memoization is off; it lets omitempty skip it.
func (m MemoizeDef) IsZero() bool {
	return !m.Enabled && !m.First && m.By == nil
}

// Spec converts m into a memo spec, resolving functions in reg.
func (m MemoizeDef) Spec(reg *FuncRegistry) (transform.MemoSpec, error) {
	if m.By != nil {
		by, err := m.By.Spec(reg)
		if err != nil {
			return transform.MemoSpec{}, fmt.Errorf("memoize by: %w", err)
		}

		return transform.MemoizeBy(by), nil
	}

	switch {
	case m.First:
		return transform.ParseMemo("first")
	default:
		return transform.ParseMemo(m.Enabled)
	}
}

func (m MemoizeDef) String() string {
	switch {
	case m.By != nil:
		return "by " + m.By.String()
	case m.First:
		return "first"
	case m.Enabled:
		return "true"
	default:
		return "false"
	}
}

// PathRef is a rule path in text form ("attn.first_name", "list[2]") or
// as a list of names and indices.
type PathRef struct {
	Text  string
	Steps []any
}

// Resolve parses or converts the path.
func (p PathRef) Resolve() (tree.Path, error) {
	if p.Steps != nil {
		return tree.NewPath(p.Steps...)
	}

	return tree.ParsePath(p.Text)
}

// IsZero reports whether the path is the root.
func (p PathRef) IsZero() bool {
	return p.Text == "" && len(p.Steps) == 0
}

func (p PathRef) String() string {
	if path, err := p.Resolve(); err == nil {
		return path.String()
	}

	if p.Steps != nil {
		return fmt.Sprintf("%v", p.Steps)
	}

	return p.Text
}

// StringOrArray is a type that can be unmarshaled from either a string or an array of strings.
type StringOrArray []string

// KeyList is a type that can be unmarshaled from either a scalar or an array of scalars.
type KeyList []any
