package ruleset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eizengan/reforge/internal/diagnostic"
)

func errorCodes(d *diagnostic.Diagnostics) []string {
	codes := make([]string, 0, len(d.Errors))
	for _, e := range d.Errors {
		codes = append(codes, e.Code)
	}

	return codes
}

func mustParse(t *testing.T, yaml string) *RuleFile {
	t.Helper()

	rf, err := Parse([]byte(yaml))
	require.NoError(t, err)

	return rf
}

func TestValidate_Valid(t *testing.T) {
	rf := mustParse(t, `
rules:
  - path: order.id
    from: {key: id}
  - path: order.placed
    from:
      func: date.parse
      input: {key: placed_at}
  - path: order.lines[0]
    from:
      key: [items, 0, sku]
      propagate_nil: true
  - path: order.customer
    from: {key: customer}
    memoize:
      by: {func: strings.lower, input: {key: customer}}
  - path: order.status
    from: {value: NEW}
`)

	d := Validate(rf, Builtins())
	assert.True(t, d.IsValid(), "unexpected errors: %v", d.Error())
	assert.Empty(t, d.Warnings)
	assert.NoError(t, d.Error())
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		wantCodes []string
		wantRule  string
		wantPath  string
	}{
		{
			name:      "unsupported version",
			yaml:      "version: \"2\"\nrules:\n  - from: {value: 1}\n",
			wantCodes: []string{"unsupported_version"},
		},
		{
			name:      "invalid path",
			yaml:      "rules:\n  - path: a..b\n    from: {value: 1}\n",
			wantCodes: []string{"invalid_path"},
			wantRule:  "rule 0",
			wantPath:  "a..b",
		},
		{
			name:      "invalid path step",
			yaml:      "rules:\n  - path: [a, 2.5]\n    from: {value: 1}\n",
			wantCodes: []string{"invalid_path"},
		},
		{
			name:      "missing shape",
			yaml:      "rules:\n  - path: a\n    from: {propagate_nil: true}\n",
			wantCodes: []string{"missing_shape"},
		},
		{
			name:      "multiple shapes",
			yaml:      "rules:\n  - path: a\n    from: {key: a, value: 1}\n",
			wantCodes: []string{"multiple_shapes"},
		},
		{
			name:      "input without func",
			yaml:      "rules:\n  - path: a\n    from: {key: a, input: {key: b}}\n",
			wantCodes: []string{"input_without_func"},
		},
		{
			name:      "propagate nil on value",
			yaml:      "rules:\n  - path: a\n    from: {value: 1, propagate_nil: true}\n",
			wantCodes: []string{"invalid_propagate_nil"},
		},
		{
			name:      "propagate nil on func",
			yaml:      "rules:\n  - path: a\n    from: {func: str, propagate_nil: true}\n",
			wantCodes: []string{"invalid_propagate_nil"},
		},
		{
			name:      "empty key chain",
			yaml:      "rules:\n  - path: a\n    from: {key: []}\n",
			wantCodes: []string{"empty_chain"},
		},
		{
			name:      "empty attribute chain",
			yaml:      "rules:\n  - path: a\n    from: {attribute: \"\"}\n",
			wantCodes: []string{"empty_chain"},
		},
		{
			name:      "input on zero-argument function",
			yaml:      "rules:\n  - path: a\n    from: {func: time.now, input: {key: a}}\n",
			wantCodes: []string{"invalid_transform"},
		},
		{
			name:      "nil key step",
			yaml:      "rules:\n  - path: a\n    from: {key: [a, null]}\n",
			wantCodes: []string{"invalid_transform"},
		},
		{
			name:      "unknown memoize by function",
			yaml:      "rules:\n  - path: a\n    from: {key: a}\n    memoize: {by: nope}\n",
			wantCodes: []string{"unknown_func"},
		},
		{
			name:      "path conflict",
			yaml:      "rules:\n  - path: a\n    from: {value: 1}\n  - path: a\n    from: {value: 2}\n",
			wantCodes: []string{"path_conflict"},
			wantRule:  "rule 1",
			wantPath:  "a",
		},
		{
			name:      "path through leaf",
			yaml:      "rules:\n  - path: a\n    from: {value: 1}\n  - path: a.b\n    from: {value: 2}\n",
			wantCodes: []string{"path_conflict"},
		},
		{
			name:      "root then child",
			yaml:      "rules:\n  - from: {value: 1}\n  - path: a\n    from: {value: 2}\n",
			wantCodes: []string{"path_conflict"},
		},
		{
			name:      "path type mismatch",
			yaml:      "rules:\n  - path: a.b\n    from: {value: 1}\n  - path: a[0]\n    from: {value: 2}\n",
			wantCodes: []string{"path_type_mismatch"},
		},
		{
			name: "several problems",
			yaml: `
rules:
  - path: a
    from: {func: nope}
  - path: a
    from: {key: []}
`,
			wantCodes: []string{"unknown_func", "empty_chain", "path_conflict"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Validate(mustParse(t, tt.yaml), Builtins())

			require.True(t, d.HasErrors())
			assert.Equal(t, tt.wantCodes, errorCodes(d))

			if tt.wantRule != "" {
				assert.Equal(t, tt.wantRule, d.Errors[0].Rule)
			}

			if tt.wantPath != "" {
				assert.Equal(t, tt.wantPath, d.Errors[0].Path)
			}
		})
	}
}

func TestValidate_UnknownFuncSuggestions(t *testing.T) {
	rf := mustParse(t, "rules:\n  - path: a\n    from: strings.uper\n")

	d := Validate(rf, Builtins())
	require.Len(t, d.Errors, 1)

	diag := d.Errors[0]
	assert.Equal(t, "unknown_func", diag.Code)
	assert.Contains(t, diag.Suggestions, "strings.upper")
	assert.Contains(t, diag.String(), "did you mean")
	assert.Contains(t, diag.String(), "[rule 0] a: [unknown_func]")
}

func TestValidate_NoRules(t *testing.T) {
	d := Validate(mustParse(t, "rules: []\n"), Builtins())

	assert.False(t, d.HasErrors())
	require.Len(t, d.Warnings, 1)
	assert.Equal(t, "no_rules", d.Warnings[0].Code)
}

func TestValidate_Nil(t *testing.T) {
	d := Validate(nil, Builtins())
	assert.Equal(t, []string{"rule_file_is_nil"}, errorCodes(d))

	d = Validate(&RuleFile{Version: "1"}, nil)
	assert.Equal(t, []string{"registry_is_nil"}, errorCodes(d))
}

func TestValidate_MemoizeFirstNote(t *testing.T) {
	rf := mustParse(t, "rules:\n  - path: a\n    from: {key: a}\n    memoize: first\n")

	d := Validate(rf, Builtins())
	assert.False(t, d.HasErrors())
	require.Len(t, d.Infos, 1)
	assert.Equal(t, "memoize_first_constant", d.Infos[0].Code)
}
