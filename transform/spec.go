package transform

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"github.com/eizengan/reforge/internal/common"
)

//go:generate go tool stringer -type=Kind -linecomment -output=kind_string.go

// Kind selects the shape of a Spec. Its String is the shape name as used in
// rule files.
type Kind int

const (
	_ Kind = iota // zero value is an unset (invalid) kind

	KindFunc      // func
	KindAttribute // attribute
	KindKey       // key
	KindValue     // value
)

// IsChain reports whether the kind walks a chain of accessors.
func (k Kind) IsChain() bool {
	return k == KindAttribute || k == KindKey
}

// Spec describes how a Transform computes its value. Build one with Func,
// Attribute, Key or Value; the zero Spec is invalid.
type Spec struct {
	// Kind is the discriminant; only the fields of the selected kind are read.
	Kind Kind

	// Fn is the callable for KindFunc.
	Fn any
	// Input optionally feeds the result of another shape into Fn.
	Input *Spec

	// Attributes is the chain for KindAttribute.
	Attributes []string
	// Keys is the chain for KindKey.
	Keys []any
	// PropagateNil makes a chain yield nil instead of failing on a nil step.
	PropagateNil bool

	// Constant is the result of KindValue.
	Constant any
}

// Func returns a Spec that calls fn. fn must take zero or one argument and
// return a value, optionally followed by an error.
func Func(fn any) Spec {
	return Spec{Kind: KindFunc, Fn: fn}
}

// Attribute returns a Spec reading the chain of attributes from the source.
func Attribute(names ...string) Spec {
	return Spec{Kind: KindAttribute, Attributes: names}
}

// Key returns a Spec indexing the source with the chain of keys.
func Key(keys ...any) Spec {
	return Spec{Kind: KindKey, Keys: keys}
}

// Value returns a Spec that always yields v.
func Value(v any) Spec {
	return Spec{Kind: KindValue, Constant: v}
}

// WithPropagateNil returns a copy of s with nil propagation set.
func (s Spec) WithPropagateNil(propagate bool) Spec {
	s.PropagateNil = propagate
	return s
}

// From returns a copy of a Func spec whose argument is the result of input
// rather than the source itself.
func (s Spec) From(input Spec) Spec {
	s.Input = &input
	return s
}

// String returns a compact description such as key(address.city).
func (s Spec) String() string {
	var body string

	switch s.Kind {
	case KindFunc:
		body = funcName(s.Fn)
		if s.Input != nil {
			body += " <- " + s.Input.String()
		}

		return "func(" + body + ")"
	case KindAttribute:
		body = strings.Join(s.Attributes, ".")
	case KindKey:
		parts := make([]string, len(s.Keys))
		for i, k := range s.Keys {
			parts[i] = fmt.Sprint(k)
		}

		body = strings.Join(parts, ".")
	case KindValue:
		return fmt.Sprintf("value(%v)", s.Constant)
	default:
		return common.UnknownStr
	}

	if s.PropagateNil {
		body += "?"
	}

	return s.Kind.String() + "(" + body + ")"
}

func funcName(fn any) string {
	if fn == nil {
		return "nil"
	}

	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return fmt.Sprintf("%T", fn)
	}

	if f := runtime.FuncForPC(v.Pointer()); f != nil {
		// keep the package-qualified tail, e.g. strings.ToUpper
		name := f.Name()
		if i := strings.LastIndex(name, "/"); i >= 0 {
			name = name[i+1:]
		}

		return name
	}

	return v.Type().String()
}
