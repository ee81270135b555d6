package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeIdent(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"FirstName", "firstname"},
		{"first_name", "firstname"},
		{"first-name", "firstname"},
		{"firstName", "firstname"},
		{"FIRST_NAME", "firstname"},
		{"OrderID", "orderid"},
		{"strings.upper", "stringsupper"},
		{"humanize.bytes", "humanizebytes"},
		{"Straße", "straße"},
		{"", ""},
		{"_", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeIdent(tt.input))
		})
	}
}

func TestSameIdent(t *testing.T) {
	assert.True(t, SameIdent("first_name", "FirstName"))
	assert.True(t, SameIdent("zip-code", "ZipCode"))
	assert.False(t, SameIdent("first_name", "LastName"))
}

func TestSuggest(t *testing.T) {
	names := []string{"strings.upper", "strings.lower", "strings.trim", "str", "time.now", "strings.upper"}

	tests := []struct {
		name  string
		input string
		limit int
		want  []string
	}{
		{
			name:  "typo",
			input: "strings.uper",
			limit: 3,
			want:  []string{"strings.upper", "strings.lower", "strings.trim"},
		},
		{name: "normalized exact", input: "Strings_Upper", limit: 1, want: []string{"strings.upper"}},
		{name: "nothing close", input: "humanize.bytes", limit: 3, want: []string{}},
		{name: "limited", input: "strings.", limit: 1, want: []string{"strings.trim"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Suggest(tt.input, names, tt.limit))
		})
	}
}
