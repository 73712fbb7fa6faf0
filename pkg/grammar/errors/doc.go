// Package errors provides the error types raised by grammar loading and type checking.
//
// Type checking raises exactly two kinds of error. Every other outcome of a
// subtype or conformance query is a plain boolean.
//
// # Error Kinds
//
// KindUnknownType: a type name used in a query is not known to the registry
//
// KindAmbiguousSupertype: a grammar declares one type under two unions
//
// KindSyntax: a grammar or tree file is not well-formed YAML
//
// KindStructural: a grammar or tree file is well-formed but has the wrong shape
//
// KindIO: a file could not be read
//
// # Basic Usage
//
// Match on the kind with the standard library:
//
//	ok, err := reg.IsSubtype(a, b)
//	if errors.Is(err, grammarErrors.ErrUnknownType) {
//	    // a or b names a type the grammar does not declare
//	}
//
// Accumulate loader errors:
//
//	errList := grammarErrors.NewErrorList()
//	errList.AddError(grammarErrors.KindStructural, "union members must be a list", location)
//	return errList.ToError()
//
// # Suggestions
//
// Unknown type errors carry a Levenshtein-based suggestion when a known name is close:
//
//	[unknown_type] unknown type "lang.Statment"
//	  = suggestion: Did you mean 'lang.Statement'?
package errors
