package transform

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type address struct {
	City string
}

type person struct {
	FirstName string
	LastName  string
	Address   *address
	secret    string
}

func (p person) FullName() string { return p.FirstName + " " + p.LastName }

func (p *person) Initials() string { return p.FirstName[:1] + p.LastName[:1] }

func (p person) Age() (int, error) { return 0, errors.New("age unknown") }

func (p person) Reveal() string { return p.secret }

type employee struct {
	person

	Title string
}

func evaluate(t *testing.T, spec Spec, source any) (any, error) {
	t.Helper()

	tr, err := New(spec, NoMemo())
	require.NoError(t, err)

	return tr.Evaluate(source)
}

func TestAttribute(t *testing.T) {
	ada := person{FirstName: "Ada", LastName: "Lovelace", Address: &address{City: "London"}, secret: "s"}

	tests := []struct {
		name   string
		spec   Spec
		source any
		want   any
	}{
		{"field", Attribute("FirstName"), ada, "Ada"},
		{"normalized field", Attribute("first_name"), ada, "Ada"},
		{"value method", Attribute("FullName"), ada, "Ada Lovelace"},
		{"normalized method", Attribute("full_name"), ada, "Ada Lovelace"},
		{"pointer method on value", Attribute("Initials"), ada, "AL"},
		{"pointer method on pointer", Attribute("Initials"), &ada, "AL"},
		{"method reads unexported state", Attribute("Reveal"), ada, "s"},
		{"chain through pointer", Attribute("address", "city"), &ada, "London"},
		{"promoted field", Attribute("FirstName"), employee{person: ada, Title: "Countess"}, "Ada"},
		{"interface source", Attribute("LastName"), any(ada), "Lovelace"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := evaluate(t, tt.spec, tt.source)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestAttribute_MethodError(t *testing.T) {
	_, err := evaluate(t, Attribute("Age"), person{})
	require.Error(t, err)
	assert.EqualError(t, err, "age unknown")
}

func TestAttribute_Missing(t *testing.T) {
	_, err := evaluate(t, Attribute("FristName"), person{})
	require.ErrorIs(t, err, ErrAccess)

	var fault *AccessFault
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, KindAttribute, fault.Shape)
	assert.Equal(t, 0, fault.Step)
	assert.Equal(t, "FristName", fault.Accessor)
	assert.Equal(t, "no such method or field", fault.Reason)
	assert.Contains(t, fault.Suggestions, "FirstName")
	assert.Contains(t, err.Error(), "did you mean FirstName")
}

func TestAttribute_Unexported(t *testing.T) {
	_, err := evaluate(t, Attribute("secret"), person{secret: "x"})
	require.ErrorIs(t, err, ErrAccess)
}

func TestAttribute_OnMap(t *testing.T) {
	_, err := evaluate(t, Attribute("name"), map[string]any{"name": "x"})
	require.ErrorIs(t, err, ErrAccess)
	assert.Contains(t, err.Error(), "map entries are read with key chains")
}

func TestAttribute_NilReceiver(t *testing.T) {
	p := &person{FirstName: "Ada"}

	_, err := evaluate(t, Attribute("Address", "City"), p)
	require.ErrorIs(t, err, ErrAccess)

	var fault *AccessFault
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, 1, fault.Step)
	assert.Equal(t, "receiver is nil", fault.Reason)
	assert.Contains(t, err.Error(), `cannot access attribute "City" (step 1)`)

	v, err := evaluate(t, Attribute("Address", "City").WithPropagateNil(true), p)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestKey(t *testing.T) {
	source := map[string]any{
		"order": map[string]any{
			"items": []any{
				map[string]any{"sku": "a-1"},
				map[string]any{"sku": "b-2"},
			},
		},
		"counts": map[int]string{1: "one", 2: "two"},
		"flags":  map[uint8]bool{3: true},
		"person": person{FirstName: "Ada"},
		"pair":   [2]string{"left", "right"},
	}

	tests := []struct {
		name string
		spec Spec
		want any
	}{
		{"nested map", Key("order", "items", 0, "sku"), "a-1"},
		{"negative index", Key("order", "items", -1, "sku"), "b-2"},
		{"float index", Key("order", "items", 1.0, "sku"), "b-2"},
		{"index out of range", Key("order", "items", 2), nil},
		{"negative out of range", Key("order", "items", -3), nil},
		{"missing key", Key("missing"), nil},
		{"int key conversion", Key("counts", int64(2)), "two"},
		{"foreign key type", Key("counts", "2"), nil},
		{"unsigned key", Key("flags", 3), true},
		{"negative unsigned key", Key("flags", -3), nil},
		{"overflowing unsigned key", Key("flags", 300), nil},
		{"struct field", Key("person", "FirstName"), "Ada"},
		{"normalized struct field", Key("person", "first_name"), "Ada"},
		{"array", Key("pair", 1), "right"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := evaluate(t, tt.spec, source)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestKey_Faults(t *testing.T) {
	source := map[string]any{
		"items":  []any{1, 2},
		"count":  3,
		"person": person{},
	}

	tests := []struct {
		name   string
		spec   Spec
		step   int
		reason string
	}{
		{"string index", Key("items", "x"), 1, "index must be an integer, got string"},
		{"fractional index", Key("items", 0.5), 1, "index must be an integer, got float64"},
		{"scalar", Key("count", "x"), 1, "int values are not indexable"},
		{"struct method", Key("person", "FullName"), 1, "no such field"},
		{"struct int key", Key("person", 0), 1, "struct keys must be field names, got int"},
		{"missing then nil", Key("missing", "x"), 1, "receiver is nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := evaluate(t, tt.spec, source)
			require.ErrorIs(t, err, ErrAccess)

			var fault *AccessFault
			require.ErrorAs(t, err, &fault)
			assert.Equal(t, KindKey, fault.Shape)
			assert.Equal(t, tt.step, fault.Step)
			assert.Equal(t, tt.reason, fault.Reason)
		})
	}
}

func TestKey_PropagateNil(t *testing.T) {
	spec := Key("account", "owner", "name").WithPropagateNil(true)

	v, err := evaluate(t, spec, map[string]any{"account": nil})
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = evaluate(t, spec, nil)
	require.NoError(t, err)
	assert.Nil(t, v)

	// non-nil faults still fail
	_, err = evaluate(t, spec, map[string]any{"account": 5})
	require.ErrorIs(t, err, ErrAccess)
}

func TestAccessFault_Error(t *testing.T) {
	err := &AccessFault{
		Shape:       KindKey,
		Step:        2,
		Accessor:    "sku",
		Receiver:    nil,
		Reason:      "receiver is nil",
		Suggestions: nil,
	}

	assert.Equal(t, `cannot access key "sku" (step 2) on nil: receiver is nil`, err.Error())
	assert.ErrorIs(t, err, ErrAccess)
	assert.NotErrorIs(t, err, ErrConfiguration)
}

func TestResolveAccessor_Cached(t *testing.T) {
	first := resolveAccessor(reflect.TypeFor[person](), "first_name", false)
	second := resolveAccessor(reflect.TypeFor[person](), "first_name", false)

	assert.Equal(t, accessorField, first.kind)
	assert.Equal(t, first, second)
	assert.True(t, accessors.Contains(accessorKey{typ: reflect.TypeFor[person](), name: "first_name"}))
}

func TestToInt(t *testing.T) {
	tests := []struct {
		in   any
		want int
		ok   bool
	}{
		{3, 3, true},
		{int8(-2), -2, true},
		{uint16(9), 9, true},
		{2.0, 2, true},
		{float32(1.5), 0, false},
		{math.Pow(2, 63), 0, false},
		{float64(math.MinInt), math.MinInt, true},
		{uint64(math.MaxUint64), 0, false},
		{"1", 0, false},
		{nil, 0, false},
	}

	for _, tt := range tests {
		got, ok := toInt(tt.in)
		assert.Equal(t, tt.ok, ok, "%v", tt.in)
		assert.Equal(t, tt.want, got, "%v", tt.in)
	}
}
