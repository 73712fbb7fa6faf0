// Package types answers two questions about a grammar: whether one type is a
// subtype of another, and whether an annotated tree conforms to its declared type.
//
// A Registry is built once per grammar and is read-only afterwards, so one
// instance serves any number of concurrent callers without locking.
//
// # Subtyping
//
// IsSubtype combines nominal subtyping through unions with structural
// comparison of parameterised types. Rules are tried in order and the first
// that applies decides the result:
//
//  1. identical types are subtypes
//  2. two bare names: follow the left name's union chain upwards
//  3. a structured type with no parameters stands for its head (left)
//  4. primitive.Hole[X] stands for X (left)
//  5. primitive.Hole[Y] stands for Y (right)
//  6. a structured type with no parameters stands for its head (right)
//  7. same head, same arity, parameters pairwise subtypes (covariant)
//  8. a named type is a subtype of any shape its own definition satisfies
//
// # Conformance
//
// IsTypeValid checks a tree node against its declared type, unwrapping named
// definitions and descending into list items, keyed fields, hole content and
// option content.
//
// # Errors
//
// Unknown names raise an error of kind unknown_type from pkg/grammar/errors.
// Building a registry from a grammar that declares a type under two unions
// fails with ambiguous_supertype. Every other outcome is a boolean.
package types
