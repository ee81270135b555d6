package render

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/eizengan/reforge/internal/common"
	"github.com/eizengan/reforge/internal/diagnostic"
	"github.com/eizengan/reforge/internal/ruleset"
	"github.com/eizengan/reforge/tree"
)

// maxFromWidth wraps long from descriptions.
const maxFromWidth = 48

func newWriter(title string) table.Writer {
	tw := table.NewWriter()
	tw.SetTitle(title)

	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	tw.SetStyle(style)

	return tw
}

// Rules lists the rules of rf in declaration order.
func Rules(rf *ruleset.RuleFile) string {
	tw := newWriter("RULES")
	tw.AppendHeader(table.Row{"#", "Path", "From", "Memoize", "Description"})

	for i := range rf.Rules {
		r := &rf.Rules[i]
		tw.AppendRow(table.Row{i, r.Path.String(), r.From.String(), r.Memoize.String(), r.Description})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, WidthMax: maxFromWidth},
	})

	return tw.Render()
}

// Tree lists the nodes of t, parents before children, indented by depth.
func Tree(t *tree.Tree) string {
	tw := newWriter("TREE")
	tw.AppendHeader(table.Row{"Node", "Kind", "Evaluator"})

	if t.Empty() {
		return tw.Render()
	}

	_ = tree.Walk(t.Root(), func(n tree.Node) error {
		tw.AppendRow(nodeRow(n))
		return nil
	})

	return tw.Render()
}

func nodeRow(n tree.Node) table.Row {
	path := n.Path()

	label := "<root>"
	if len(path) > 0 {
		label = strings.Repeat("  ", len(path)-1) + path[len(path)-1].String()
	}

	switch n := n.(type) {
	case *tree.Leaf:
		return table.Row{label, "leaf", fmt.Sprint(n.Evaluator())}
	case *tree.OrderedAggregate:
		return table.Row{label, fmt.Sprintf("list[%d]", n.Len()), ""}
	case *tree.NamedAggregate:
		return table.Row{label, fmt.Sprintf("map{%d}", len(n.Names())), ""}
	default:
		return table.Row{label, common.UnknownStr, ""}
	}
}

// Diagnostics lists errors, then warnings, then notes. It returns the empty
// string when there is nothing to report.
func Diagnostics(d *diagnostic.Diagnostics) string {
	all := d.All()
	if len(all) == 0 {
		return ""
	}

	tw := newWriter("DIAGNOSTICS")
	tw.AppendHeader(table.Row{"Severity", "Code", "Rule", "Path", "Message"})

	for _, diag := range all {
		msg := diag.Message
		if len(diag.Suggestions) > 0 {
			msg += " (did you mean " + strings.Join(diag.Suggestions, ", ") + "?)"
		}

		tw.AppendRow(table.Row{diag.Severity, diag.Code, diag.Rule, diag.Path, msg})
	}

	return tw.Render()
}
