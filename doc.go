// Package reforge compiles declarative extraction rules into a reusable
// transformation.
//
// A rule reads one derived value from a source and places it at a path of the
// output. Rules are declared independently and in any order; Compile arranges
// them into a tree whose shape follows the paths:
//
//	t, err := reforge.NewBuilder().
//		Extract(transform.Key("name"), reforge.Into("full_name")).
//		Extract(transform.Value(1), reforge.Into("meta", "count")).
//		Compile()
//
//	out, err := t.Evaluate(map[string]any{"name": "Alice"})
//	// map[full_name:Alice meta:map[count:1]]
//
// Memoized rules keep their caches for the lifetime of the Transformation, so
// evaluating a batch with EvaluateAll shares lookups across the sources.
package reforge
