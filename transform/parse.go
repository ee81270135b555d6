package transform

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
)

// ErrNotSpec is returned by ParseSpec for values that are neither a function
// nor a shape record.
var ErrNotSpec = errors.New("must be a function or a one-key record of attribute, key or value")

// ParseSpec converts a loosely typed transform configuration into a Spec.
// It accepts a Spec, a function, or a record such as
//
//	{"attribute": ["attn", "first_name"], "propagate_nil": true}
//	{"key": "date"}
//	{"value": 42}
//
// Records decoded from YAML or JSON are accepted as map[string]any or
// map[any]any with string keys.
func ParseSpec(v any) (Spec, error) {
	switch c := v.(type) {
	case nil:
		return Spec{}, configErr("transform", ErrNotSpec)
	case Spec:
		return c, nil
	case *Spec:
		if c == nil {
			return Spec{}, configErr("transform", ErrNotSpec)
		}

		return *c, nil
	case map[string]any:
		return parseShapeRecord(c)
	case map[any]any:
		rec, ok := stringKeyed(c)
		if !ok {
			return Spec{}, configErr("transform", ErrNotSpec)
		}

		return parseShapeRecord(rec)
	}

	if reflect.TypeOf(v).Kind() == reflect.Func {
		return Func(v), nil
	}

	return Spec{}, configErr("transform", ErrNotSpec)
}

func parseShapeRecord(rec map[string]any) (Spec, error) {
	var (
		spec   Spec
		shapes int
	)

	for _, k := range slices.Sorted(maps.Keys(rec)) {
		arg := rec[k]

		switch k {
		case "attribute":
			names, err := stringList(arg)
			if err != nil {
				return Spec{}, configErr("transform", err)
			}

			shapes++
			spec.Kind, spec.Attributes = KindAttribute, names

		case "key":
			shapes++
			spec.Kind, spec.Keys = KindKey, anyList(arg)

		case "value":
			shapes++
			spec.Kind, spec.Constant = KindValue, arg

		case "propagate_nil":
			b, ok := arg.(bool)
			if !ok {
				return Spec{}, configErr("propagate_nil", fmt.Errorf("must be a boolean, got %T", arg))
			}

			spec.PropagateNil = b

		default:
			return Spec{}, configErr("transform", fmt.Errorf("%w: unknown key %q", ErrNoShape, k))
		}
	}

	if shapes != 1 {
		return Spec{}, configErr("transform", ErrNoShape)
	}

	if spec.PropagateNil && !spec.Kind.IsChain() {
		return Spec{}, configErr("propagate_nil", errors.New("applies to attribute and key chains only"))
	}

	return spec, nil
}

// ParseMemo converts a loosely typed memoize option into a MemoSpec:
// nil or false disable memoization, true memoizes by source, "first"
// computes once and {"by": spec} memoizes by a derived key.
func ParseMemo(v any) (MemoSpec, error) {
	switch m := v.(type) {
	case nil:
		return NoMemo(), nil
	case MemoSpec:
		return m, nil
	case bool:
		if m {
			return MemoizeIdentity(), nil
		}

		return NoMemo(), nil
	case string:
		if m == "first" {
			return MemoizeFirst(), nil
		}
	case map[string]any:
		return parseMemoRecord(m)
	case map[any]any:
		if rec, ok := stringKeyed(m); ok {
			return parseMemoRecord(rec)
		}
	}

	return MemoSpec{}, configErr("memoize", ErrMemoizeValue)
}

func parseMemoRecord(rec map[string]any) (MemoSpec, error) {
	by, ok := rec["by"]
	if !ok || len(rec) != 1 {
		return MemoSpec{}, configErr("memoize", ErrMemoizeValue)
	}

	spec, err := ParseSpec(by)
	if err != nil {
		return MemoSpec{}, configErr("memoize by", ErrMemoizeBy)
	}

	return MemoizeBy(spec), nil
}

func stringKeyed(m map[any]any) (map[string]any, bool) {
	out := make(map[string]any, len(m))

	for k, v := range m {
		s, ok := k.(string)
		if !ok {
			return nil, false
		}

		out[s] = v
	}

	return out, true
}

func stringList(v any) ([]string, error) {
	switch l := v.(type) {
	case string:
		return []string{l}, nil
	case []string:
		return slices.Clone(l), nil
	case []any:
		out := make([]string, len(l))

		for i, e := range l {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("attribute names must be strings, got %T", e)
			}

			out[i] = s
		}

		return out, nil
	default:
		return nil, fmt.Errorf("attribute must be a name or a list of names, got %T", v)
	}
}

// anyList spreads a slice into its elements and wraps any other value.
func anyList(v any) []any {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []any{v}
	}

	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}

	return out
}
