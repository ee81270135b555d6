package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a        string
		b        string
		expected int
	}{
		{"", "", 0},
		{"name", "name", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"a", "b", 1},
		{"a", "ab", 1},
		{"ab", "a", 1},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"Name", "name", 1},
		{"stringsupper", "stringsuper", 1},
		{"stringsupper", "stringslower", 3},
		{"createdat", "updatedat", 3},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.expected, Levenshtein(tt.a, tt.b))
			assert.Equal(t, tt.expected, Levenshtein(tt.b, tt.a), "distance must be symmetric")
		})
	}
}

func TestLevenshteinNormalized(t *testing.T) {
	tests := []struct {
		a        string
		b        string
		expected float64
	}{
		{"", "", 1},
		{"hello", "hello", 1},
		{"abc", "xyz", 0},
		{"kitten", "sitting", 1 - 3.0/7},
		{"abc", "ab", 1 - 1.0/3},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.InDelta(t, tt.expected, LevenshteinNormalized(tt.a, tt.b), 0.001)
		})
	}
}

func TestNormalizedLevenshteinScore(t *testing.T) {
	tests := []struct {
		a        string
		b        string
		minScore float64
	}{
		{"OrderID", "order_id", 1},
		{"first_name", "FirstName", 1},
		{"strings.upper", "strings_upper", 1},
		{"CreatedAt", "UpdatedAt", 0.5},
		{"Email", "Password", 0},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.GreaterOrEqual(t, NormalizedLevenshteinScore(tt.a, tt.b), tt.minScore)
		})
	}
}

func BenchmarkNormalizedLevenshteinScore(b *testing.B) {
	for b.Loop() {
		NormalizedLevenshteinScore("CustomerOrderID", "customer_order_id")
	}
}
