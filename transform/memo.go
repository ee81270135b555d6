package transform

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/davecgh/go-spew/spew"
)

//go:generate go tool stringer -type=MemoPolicy -linecomment -output=memopolicy_string.go

// MemoPolicy selects how a Memo derives its cache keys:
// MemoNone disables caching, MemoIdentity keys by the source itself,
// MemoFirst uses one key for every source and MemoByKey keys by a value a
// transform derives from the source.
type MemoPolicy int

const (
	MemoNone     MemoPolicy = iota // none
	MemoIdentity                   // identity
	MemoFirst                      // first
	MemoByKey                      // by
)

// MemoSpec configures the Memo of a Transform.
type MemoSpec struct {
	Policy MemoPolicy
	// By derives the key when Policy is MemoByKey.
	By Spec
}

// NoMemo disables memoization.
func NoMemo() MemoSpec { return MemoSpec{Policy: MemoNone} }

// MemoizeIdentity caches results by source value.
func MemoizeIdentity() MemoSpec { return MemoSpec{Policy: MemoIdentity} }

// MemoizeFirst computes the result once and returns it for every source.
func MemoizeFirst() MemoSpec { return MemoSpec{Policy: MemoFirst} }

// MemoizeBy caches results by the value key derives from the source.
func MemoizeBy(key Spec) MemoSpec { return MemoSpec{Policy: MemoByKey, By: key} }

func (m MemoSpec) String() string {
	switch m.Policy {
	case MemoNone:
		return "-"
	case MemoIdentity:
		return "true"
	case MemoByKey:
		return "by " + m.By.String()
	default:
		return m.Policy.String()
	}
}

// Memo caches transform results. Entries are never evicted.
type Memo struct {
	policy MemoPolicy
	key    *Transform

	mu    sync.Mutex
	cache map[any]entry
}

// entry pins the keyed value so pointer addresses in its fingerprint stay
// unique while the entry lives.
type entry struct {
	value any
	pin   any
}

// NewMemo builds the Memo described by spec. It returns nil for MemoNone.
func NewMemo(spec MemoSpec) (*Memo, error) {
	switch spec.Policy {
	case MemoNone:
		return nil, nil
	case MemoIdentity, MemoFirst:
		return &Memo{policy: spec.Policy, cache: make(map[any]entry)}, nil
	case MemoByKey:
		key, err := New(spec.By, NoMemo())
		if err != nil {
			// report the by option itself, not the inner transform error
			return nil, configErr("memoize by", ErrMemoizeBy)
		}

		return &Memo{policy: MemoByKey, key: key, cache: make(map[any]entry)}, nil
	default:
		return nil, configErr("memoize", ErrMemoizeValue)
	}
}

// Policy returns the key policy of the memo.
func (m *Memo) Policy() MemoPolicy {
	return m.policy
}

// Get returns the cached value for source, if any.
func (m *Memo) Get(source any) (any, bool, error) {
	key, _, ok, err := m.keyFor(source)
	if err != nil || !ok {
		return nil, false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	e, found := m.cache[key]

	return e.value, found, nil
}

// Set stores value for source, replacing any previous entry. Sources that
// cannot be keyed are not stored.
func (m *Memo) Set(source, value any) error {
	key, pin, ok, err := m.keyFor(source)
	if err != nil || !ok {
		return err
	}

	m.mu.Lock()
	m.cache[key] = entry{value: value, pin: pin}
	m.mu.Unlock()

	return nil
}

// Len returns the number of cached entries.
func (m *Memo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.cache)
}

// load returns the cached value for source or computes and stores it.
// The lock is not held while computing, so a transform may evaluate other
// memoized transforms; when two callers race on a miss the first stored
// value is returned to both.
func (m *Memo) load(source any, compute func(any) (any, error)) (any, error) {
	key, pin, ok, err := m.keyFor(source)
	if err != nil {
		return nil, err
	}

	if !ok {
		return compute(source)
	}

	m.mu.Lock()
	e, found := m.cache[key]
	m.mu.Unlock()

	if found {
		return e.value, nil
	}

	v, err := compute(source)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if prev, found := m.cache[key]; found {
		return prev.value, nil
	}

	m.cache[key] = entry{value: v, pin: pin}

	return v, nil
}

type firstKey struct{}

// keyFor returns the cache key of source and the value the key was derived
// from. ok is false when the value has no usable key.
func (m *Memo) keyFor(source any) (key, pin any, ok bool, err error) {
	switch m.policy {
	case MemoFirst:
		return firstKey{}, nil, true, nil
	case MemoByKey:
		k, err := m.key.Evaluate(source)
		if err != nil {
			return nil, nil, false, fmt.Errorf("deriving memo key: %w", err)
		}

		key, ok = cacheKey(k)

		return key, k, ok, nil
	default:
		key, ok = cacheKey(source)

		return key, source, ok, nil
	}
}

// fingerprint is the cache key of a value that cannot be a map key itself.
type fingerprint string

// reference is the cache key of a cyclic map or slice: the container itself.
type reference struct {
	typ reflect.Type
	ptr uintptr
}

var fingerprinter = spew.ConfigState{
	Indent:            " ",
	SortKeys:          true,
	SpewKeys:          true,
	DisableMethods:    true,
	DisableCapacities: true,
}

// cacheKey returns v when it is comparable and a structural fingerprint of
// it otherwise, so maps and slices with equal contents share an entry.
// Pointers inside the fingerprint keep their identity. A value that reaches
// itself is keyed by reference when it is a map or slice and has no key
// otherwise.
func cacheKey(v any) (any, bool) {
	if v == nil {
		return nil, true
	}

	rv := reflect.ValueOf(v)
	if rv.Comparable() {
		return v, true
	}

	if cyclic(rv, make(map[reference]bool)) {
		switch rv.Kind() {
		case reflect.Map, reflect.Slice:
			return reference{typ: rv.Type(), ptr: rv.Pointer()}, true
		default:
			return nil, false
		}
	}

	return fingerprint(fingerprinter.Sdump(v)), true
}

// cyclic reports whether v reaches a map, slice or pointer already on the
// current walk.
func cyclic(v reflect.Value, path map[reference]bool) bool {
	switch v.Kind() {
	case reflect.Interface:
		return !v.IsNil() && cyclic(v.Elem(), path)
	case reflect.Pointer, reflect.Map, reflect.Slice:
		if v.IsNil() {
			return false
		}

		ref := reference{typ: v.Type(), ptr: v.Pointer()}
		if path[ref] {
			return true
		}

		path[ref] = true
		defer delete(path, ref)

		switch v.Kind() {
		case reflect.Pointer:
			return cyclic(v.Elem(), path)
		case reflect.Map:
			iter := v.MapRange()
			for iter.Next() {
				if cyclic(iter.Key(), path) || cyclic(iter.Value(), path) {
					return true
				}
			}
		default:
			return cyclicElems(v, path)
		}
	case reflect.Array:
		return cyclicElems(v, path)
	case reflect.Struct:
		for i := range v.NumField() {
			if cyclic(v.Field(i), path) {
				return true
			}
		}
	}

	return false
}

func cyclicElems(v reflect.Value, path map[reference]bool) bool {
	for i := range v.Len() {
		if cyclic(v.Index(i), path) {
			return true
		}
	}

	return false
}
