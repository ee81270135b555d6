package ruleset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	yaml := `
rules:
  - path: id
    from: {key: id}
  - path: [lines, 0]
    from:
      key: [items, 0, sku]
      propagate_nil: true
  - path: status
    from: {value: NEW}
  - path: placed
    from:
      func: date.parse
      input: {key: placed_at}
    memoize: true
  - path: fetched
    from: time.now
    memoize: first
  - path: customer
    from: {key: customer_id}
    memoize:
      by: {key: customer_id}
    description: looked up once per customer
`

	rf, err := Parse([]byte(yaml))
	require.NoError(t, err)
	require.NotNil(t, rf)

	// Version defaults to 1
	assert.Equal(t, "1", rf.Version)
	require.Len(t, rf.Rules, 6)

	// Text path and key chain
	assert.Equal(t, "id", rf.Rules[0].Path.Text)
	assert.Equal(t, KeyList{"id"}, rf.Rules[0].From.Key)
	assert.Equal(t, []string{"key"}, rf.Rules[0].From.Shapes())

	// List path with an index
	assert.Equal(t, []any{"lines", 0}, rf.Rules[1].Path.Steps)
	assert.Equal(t, KeyList{"items", 0, "sku"}, rf.Rules[1].From.Key)
	assert.True(t, rf.Rules[1].From.PropagateNil)
	assert.Equal(t, []string{"key"}, rf.Rules[1].From.Shapes())

	// Constant
	assert.Equal(t, "NEW", rf.Rules[2].From.Value)

	// Function with input
	assert.Equal(t, "date.parse", rf.Rules[3].From.Func)
	require.NotNil(t, rf.Rules[3].From.Input)
	assert.Equal(t, KeyList{"placed_at"}, rf.Rules[3].From.Input.Key)
	assert.True(t, rf.Rules[3].Memoize.Enabled)

	// Bare function name
	assert.Equal(t, "time.now", rf.Rules[4].From.Func)
	assert.True(t, rf.Rules[4].Memoize.First)
	assert.Equal(t, "first", rf.Rules[4].Memoize.String())

	// Memoize by key
	require.NotNil(t, rf.Rules[5].Memoize.By)
	assert.Equal(t, KeyList{"customer_id"}, rf.Rules[5].Memoize.By.Key)
	assert.Equal(t, "looked up once per customer", rf.Rules[5].Description)
}

func TestParse_RootAndExplicitShapes(t *testing.T) {
	yaml := `
version: "1"
rules:
  - from:
      value: null
  - path: 3
    from:
      attribute: Name
`

	rf, err := Parse([]byte(yaml))
	require.NoError(t, err)
	require.Len(t, rf.Rules, 2)

	assert.True(t, rf.Rules[0].Path.IsZero())
	assert.Equal(t, "<root>", rf.Rules[0].Path.String())
	assert.Nil(t, rf.Rules[0].From.Value)
	assert.Equal(t, []string{"value"}, rf.Rules[0].From.Shapes())

	assert.Equal(t, []any{3}, rf.Rules[1].Path.Steps)
	assert.Equal(t, StringOrArray{"Name"}, rf.Rules[1].From.Attribute)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "unknown from key",
			yaml: "rules:\n  - from: {attr: name}\n",
			want: `unknown from key "attr"`,
		},
		{
			name: "from sequence",
			yaml: "rules:\n  - from: [a, b]\n",
			want: "expected function name or mapping",
		},
		{
			name: "memoize word",
			yaml: "rules:\n  - from: {key: a}\n    memoize: sometimes\n",
			want: "memoize must be true, false, first or {by: ...}",
		},
		{
			name: "memoize extra key",
			yaml: "rules:\n  - from: {key: a}\n    memoize: {by: {key: a}, size: 3}\n",
			want: "memoize must be",
		},
		{
			name: "nested key",
			yaml: "rules:\n  - from: {key: [a, [b]]}\n",
			want: "keys must be scalars",
		},
		{
			name: "path mapping",
			yaml: "rules:\n  - path: {a: b}\n    from: {key: a}\n",
			want: "expected path string or array",
		},
		{
			name: "malformed",
			yaml: "rules: [\n",
			want: "failed to parse rule YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")

	require.NoError(t, os.WriteFile(path, []byte("rules:\n  - path: a\n    from: {value: 1}\n"), 0o600))

	rf, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, rf.Rules, 1)
	assert.Equal(t, 1, rf.Rules[0].From.Value)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read rule file")
}
