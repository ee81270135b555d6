package transform

import (
	"fmt"
	"math"
	"reflect"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/eizengan/reforge/internal/match"
	"github.com/eizengan/reforge/utils"
)

// chain walks a sequence of attribute or key accessors.
type chain struct {
	shape        Kind
	steps        []any
	propagateNil bool
}

func (c chain) evaluate(source any) (any, error) {
	cur := source

	for i, step := range c.steps {
		v, isNil := indirect(reflect.ValueOf(cur))
		if isNil {
			if c.propagateNil {
				return nil, nil
			}

			return nil, &AccessFault{Shape: c.shape, Step: i, Accessor: step, Receiver: cur, Reason: "receiver is nil"}
		}

		var (
			next any
			err  error
		)

		if c.shape == KindAttribute {
			next, err = readAttribute(v, step.(string))
		} else {
			next, err = readKey(v, step)
		}

		if err != nil {
			if fault, ok := err.(*AccessFault); ok {
				fault.Shape, fault.Step, fault.Accessor, fault.Receiver = c.shape, i, step, cur
			}

			return nil, err
		}

		cur = next
	}

	return cur, nil
}

// indirect dereferences pointers and interfaces and reports whether a nil was
// met on the way.
func indirect(v reflect.Value) (reflect.Value, bool) {
	for {
		if !v.IsValid() {
			return v, true
		}

		switch v.Kind() {
		case reflect.Pointer, reflect.Interface:
			if v.IsNil() {
				return v, true
			}

			v = v.Elem()
		case reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return v, v.IsNil()
		default:
			return v, false
		}
	}
}

func readAttribute(v reflect.Value, name string) (any, error) {
	acc := resolveAccessor(v.Type(), name, false)

	switch acc.kind {
	case accessorMethod:
		recv := v
		if v.CanAddr() {
			recv = v.Addr()
		} else {
			recv = reflect.New(v.Type())
			recv.Elem().Set(v)
		}

		out := recv.Method(acc.method).Call(nil)
		if acc.hasErr {
			if err, _ := out[1].Interface().(error); err != nil {
				return nil, err
			}
		}

		return out[0].Interface(), nil

	case accessorField:
		return readField(v, acc.field)

	default:
		reason := acc.reason
		if v.Kind() == reflect.Map {
			reason += " (map entries are read with key chains)"
		}

		return nil, &AccessFault{Reason: reason, Suggestions: acc.suggestions}
	}
}

func readKey(v reflect.Value, key any) (any, error) {
	switch v.Kind() {
	case reflect.Map:
		k, ok := mapKey(v.Type().Key(), key)
		if !ok {
			// a key of a foreign type can never be present
			return nil, nil
		}

		e := v.MapIndex(k)
		if !e.IsValid() {
			return nil, nil
		}

		return e.Interface(), nil

	case reflect.Slice, reflect.Array:
		i, ok := toInt(key)
		if !ok {
			return nil, &AccessFault{Reason: fmt.Sprintf("index must be an integer, got %T", key)}
		}

		n := v.Len()
		if i < 0 {
			i += n
		}

		if !utils.IsInRange(0, i, n-1) {
			return nil, nil
		}

		return v.Index(i).Interface(), nil

	case reflect.Struct:
		name, ok := key.(string)
		if !ok {
			return nil, &AccessFault{Reason: fmt.Sprintf("struct keys must be field names, got %T", key)}
		}

		acc := resolveAccessor(v.Type(), name, true)
		if acc.kind != accessorField {
			return nil, &AccessFault{Reason: acc.reason, Suggestions: acc.suggestions}
		}

		return readField(v, acc.field)

	default:
		return nil, &AccessFault{Reason: fmt.Sprintf("%s values are not indexable", v.Kind())}
	}
}

func readField(v reflect.Value, index []int) (any, error) {
	f, err := v.FieldByIndexErr(index)
	if err != nil {
		return nil, &AccessFault{Reason: "embedded struct pointer is nil"}
	}

	if !f.CanInterface() {
		return nil, &AccessFault{Reason: "field is not exported"}
	}

	return f.Interface(), nil
}

func mapKey(kt reflect.Type, key any) (reflect.Value, bool) {
	if key == nil {
		if isNillableKind(kt.Kind()) {
			return reflect.Zero(kt), true
		}

		return reflect.Value{}, false
	}

	kv := reflect.ValueOf(key)
	if kv.Type().AssignableTo(kt) {
		return kv, true
	}

	switch {
	case kv.Kind() == reflect.String && kt.Kind() == reflect.String:
		return kv.Convert(kt), true
	case isIntegerKind(kv.Kind()) && isIntegerKind(kt.Kind()):
		i, ok := toInt(key)
		if !ok || (i < 0 && isUnsignedKind(kt.Kind())) {
			return reflect.Value{}, false
		}

		c := reflect.New(kt).Elem()
		if isUnsignedKind(kt.Kind()) {
			if c.OverflowUint(uint64(i)) {
				return reflect.Value{}, false
			}

			c.SetUint(uint64(i))
		} else {
			if c.OverflowInt(int64(i)) {
				return reflect.Value{}, false
			}

			c.SetInt(int64(i))
		}

		return c, true
	}

	return reflect.Value{}, false
}

// toInt converts integer values, and floats holding an integral value, to int.
func toInt(v any) (int, bool) {
	rv := reflect.ValueOf(v)

	switch {
	case !rv.IsValid():
		return 0, false
	case isIntegerKind(rv.Kind()) && !isUnsignedKind(rv.Kind()):
		i := rv.Int()
		if i < math.MinInt || i > math.MaxInt {
			return 0, false
		}

		return int(i), true
	case isUnsignedKind(rv.Kind()):
		u := rv.Uint()
		if u > math.MaxInt {
			return 0, false
		}

		return int(u), true
	case rv.Kind() == reflect.Float32 || rv.Kind() == reflect.Float64:
		f := rv.Float()
		if f != math.Trunc(f) || f < math.MinInt || f >= math.MaxInt {
			return 0, false
		}

		return int(f), true
	default:
		return 0, false
	}
}

func isIntegerKind(k reflect.Kind) bool {
	return utils.IsInRange(reflect.Int, k, reflect.Uintptr)
}

func isUnsignedKind(k reflect.Kind) bool {
	return utils.IsInRange(reflect.Uint, k, reflect.Uintptr)
}

type accessorKind int

const (
	accessorMissing accessorKind = iota
	accessorMethod
	accessorField
)

type accessor struct {
	kind   accessorKind
	method int   // index into the method set of the pointer type
	field  []int // index path for reflect.Value.FieldByIndex
	hasErr bool

	reason      string
	suggestions []string
}

type accessorKey struct {
	typ        reflect.Type
	name       string
	fieldsOnly bool
}

const accessorCacheSize = 1024

// accessors memoizes name resolution per concrete type.
var accessors = mustCache[accessorKey, accessor](accessorCacheSize)

func mustCache[K comparable, V any](size int) *lru.Cache[K, V] {
	c, err := lru.New[K, V](size)
	if err != nil {
		panic(err)
	}

	return c
}

func resolveAccessor(t reflect.Type, name string, fieldsOnly bool) accessor {
	key := accessorKey{typ: t, name: name, fieldsOnly: fieldsOnly}
	if acc, ok := accessors.Get(key); ok {
		return acc
	}

	acc := lookupAccessor(t, name, fieldsOnly)
	accessors.Add(key, acc)

	return acc
}

type candidate struct {
	name string
	acc  accessor
}

func lookupAccessor(t reflect.Type, name string, fieldsOnly bool) accessor {
	cands := accessorCandidates(t, fieldsOnly)

	for _, c := range cands {
		if c.name == name {
			return c.acc
		}
	}

	var (
		hit       *candidate
		ambiguous bool
	)

	for i := range cands {
		if match.SameIdent(cands[i].name, name) {
			if hit != nil {
				ambiguous = true
			}

			hit = &cands[i]
		}
	}

	if hit != nil && !ambiguous {
		return hit.acc
	}

	names := make([]string, len(cands))
	for i, c := range cands {
		names[i] = c.name
	}

	what := "method or field"
	if fieldsOnly {
		what = "field"
	}

	if ambiguous {
		return accessor{
			reason:      fmt.Sprintf("ambiguous %s name", what),
			suggestions: match.Suggest(name, names, 3),
		}
	}

	return accessor{
		reason:      "no such " + what,
		suggestions: match.Suggest(name, names, 3),
	}
}

// accessorCandidates lists exported zero-argument methods (unless fieldsOnly)
// followed by exported struct fields.
func accessorCandidates(t reflect.Type, fieldsOnly bool) []candidate {
	var out []candidate

	if !fieldsOnly {
		pt := reflect.PointerTo(t)
		for i := range pt.NumMethod() {
			m := pt.Method(i)
			mt := m.Type

			if mt.NumIn() != 1 {
				continue
			}

			switch {
			case mt.NumOut() == 1 && mt.Out(0) != errorType:
				out = append(out, candidate{name: m.Name, acc: accessor{kind: accessorMethod, method: i}})
			case mt.NumOut() == 2 && mt.Out(1) == errorType:
				out = append(out, candidate{name: m.Name, acc: accessor{kind: accessorMethod, method: i, hasErr: true}})
			}
		}
	}

	if t.Kind() == reflect.Struct {
		for _, f := range reflect.VisibleFields(t) {
			if !f.IsExported() {
				continue
			}

			out = append(out, candidate{name: f.Name, acc: accessor{kind: accessorField, field: f.Index}})
		}
	}

	return out
}
