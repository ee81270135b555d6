// Package transform builds the per-rule value producers used by a compiled
// reforge tree.
//
// A Transform maps one source value to one derived value. It is built from a
// Spec, which selects one of a closed set of shapes through an explicit
// discriminant:
//
//   - Func: an arbitrary Go function taking zero or one argument
//   - Attribute: a chain of method calls / field reads
//   - Key: a chain of map, slice, array or struct lookups
//   - Value: a constant
//
// # Chains
//
// Attribute and key chains access each step on the result of the previous
// one. Pointers and interfaces are dereferenced on the way. When a step meets
// a nil value the chain fails with an *AccessFault, unless the Spec was built
// with WithPropagateNil(true), in which case the whole chain yields nil.
//
// Attribute names resolve to an exported zero-argument method first, then to
// an exported field. Snake-case names fall back to the field or method with
// the same normalized identifier, so "first_name" reads FirstName.
//
// # Memoization
//
// A Transform may carry a Memo selected by a MemoSpec:
//
//	MemoizeIdentity()      // cache by source value
//	MemoizeBy(Key("id"))   // cache by a derived key
//	MemoizeFirst()         // compute once, return that value forever
//
// Memo caches live as long as the Transform and are never evicted, which is
// what lets a batch of evaluations share lookups.
package transform
