package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eizengan/reforge/internal/diagnostic"
	"github.com/eizengan/reforge/internal/ruleset"
)

const rules = `
rules:
  - path: order.id
    from: {key: id}
    description: order number
  - path: order.lines[1]
    from:
      func: strings.upper
      input: {key: [items, 1, sku]}
    memoize: true
`

func TestRules(t *testing.T) {
	rf, err := ruleset.Parse([]byte(rules))
	require.NoError(t, err)

	out := Rules(rf)
	assert.Contains(t, out, "RULES")
	assert.Contains(t, out, "order.id")
	assert.Contains(t, out, "key(id)")
	assert.Contains(t, out, "order number")
	assert.Contains(t, out, "order.lines[1]")
	assert.Contains(t, out, "func(strings.upper <- key(items.1.sku))")
}

func TestTree(t *testing.T) {
	rf, err := ruleset.Parse([]byte(rules))
	require.NoError(t, err)

	tr, _, err := ruleset.Compile(rf, ruleset.Builtins())
	require.NoError(t, err)

	out := Tree(tr.Tree())
	assert.Contains(t, out, "<root>")
	assert.Contains(t, out, "map{1}")
	assert.Contains(t, out, "lines")
	assert.Contains(t, out, "list[2]")
	assert.Contains(t, out, "key(id)")
	assert.Contains(t, out, "memoize=true")
}

func TestDiagnostics(t *testing.T) {
	assert.Empty(t, Diagnostics(&diagnostic.Diagnostics{}))

	d := &diagnostic.Diagnostics{}
	d.AddErrorWithSuggestions("unknown_func", `from uses unknown function "strings.uper"`, "rule 0", "a",
		[]string{"strings.upper"})
	d.AddWarning("no_rules", "rule file declares no rules", "", "")

	out := Diagnostics(d)
	assert.Contains(t, out, "DIAGNOSTICS")
	assert.Contains(t, out, "unknown_func")
	assert.Contains(t, out, "did you mean strings.upper?")
	assert.Contains(t, out, "warning")
}
