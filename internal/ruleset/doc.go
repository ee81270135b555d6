// Package ruleset provides the YAML rule file schema, parsing, validation
// and the function registry used to turn rule files into compiled
// transformations.
//
// # Schema Overview
//
//	version: "1"
//	rules:
//	  - path: ordered_at                 # dotted text form
//	    from: {func: date.parse, input: {key: order_date}}
//	  - path: [attn, first_name]         # or a list of names and indices
//	    from: {key: fn}
//	  - path: attn.last_name
//	    from: {attribute: [Attn, LastName], propagate_nil: true}
//	  - path: account
//	    from: {func: accounts.find, input: {key: account_id}}
//	    memoize: {by: {key: account_id}}
//	  - path: processed_at
//	    from: time.now                   # a bare string names a function
//	    memoize: first
//	  - path: tags[1]
//	    from: {value: featured}
//
// # From
//
// A from selects exactly one of func, attribute, key or value. Functions
// are looked up by name in a FuncRegistry; Builtins provides the standard
// set. input feeds the result of a nested from into a one-argument
// function. propagate_nil applies to attribute and key chains.
//
// # Memoize
//
// memoize is true (cache by source), first (compute once), {by: <from>}
// (cache by a derived key) or false.
//
// # Validation
//
// Validate reports every problem of a rule file as diagnostics, including
// path conflicts found by attaching all rules to a scratch tree.
package ruleset
