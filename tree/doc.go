// Package tree assembles evaluators into a nested output structure.
//
// A Tree is grown by attaching evaluators at paths. Each path step is either
// an index, which places the node inside an ordered aggregate (evaluated to a
// []any), or a name, which places it inside a named aggregate (evaluated to a
// map[string]any). Rules sharing a prefix share the aggregates along it:
//
//	t := tree.New()
//	_ = t.Attach(tree.MustPath("address", "city"), city)
//	_ = t.Attach(tree.MustPath("address", "zip"), zip)
//	out, _ := t.Evaluate(source) // map[address:map[city:... zip:...]]
//
// The first step kind seen at a position fixes the aggregate kind there, so
// a later rule indexing a named aggregate fails with a *PathTypeError, and a
// rule targeting an occupied position fails with a *NodeRedefinitionError.
// Nodes are never removed or replaced.
//
// Ordered aggregates are sparse: positions without a node evaluate to nil.
package tree
