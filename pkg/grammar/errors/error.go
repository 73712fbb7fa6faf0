package errors

import (
	"fmt"
	"strings"

	"mercator-hq/arbor/pkg/grammar/ast"
)

// Kind categorizes an error.
type Kind string

const (
	KindUnknownType        Kind = "unknown_type"        // Name absent from the registry
	KindAmbiguousSupertype Kind = "ambiguous_supertype" // Type declared under two unions
	KindSyntax             Kind = "syntax"              // YAML syntax error
	KindStructural         Kind = "structural"          // Wrong shape in a grammar or tree file
	KindIO                 Kind = "io"                  // File I/O error
)

// Sentinels for errors.Is. An *Error matches the sentinel of its kind.
var (
	ErrUnknownType        = &Error{Kind: KindUnknownType, Message: "unknown type"}
	ErrAmbiguousSupertype = &Error{Kind: KindAmbiguousSupertype, Message: "ambiguous supertype"}
)

// Error is a grammar or type-checking error with optional location and suggestion.
type Error struct {
	Kind       Kind         // Category of error
	Message    string       // Error message
	Name       string       // Offending type name, if any
	Location   ast.Location // Source location (file, line, column)
	Suggestion string       // Suggested fix (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%s] %s", e.Kind, e.Message))

	if e.Location.IsValid() {
		sb.WriteString(fmt.Sprintf("\n  --> %s", e.Location.String()))
	}

	if e.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("\n  = suggestion: %s", e.Suggestion))
	}

	return sb.String()
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// UnknownType creates an unknown type error naming the offender.
// known is used to build a suggestion and may be nil.
func UnknownType(name string, known []string) *Error {
	suggestion := ""
	if !ast.IsQualified(name) {
		suggestion = SuggestQualified(name, known)
	}
	if suggestion == "" {
		suggestion = SuggestTypeName(name, known)
	}
	return &Error{
		Kind:       KindUnknownType,
		Message:    fmt.Sprintf("unknown type %q", name),
		Name:       name,
		Suggestion: suggestion,
	}
}

// AmbiguousSupertype creates an error for a type declared under two unions.
func AmbiguousSupertype(name, first, second string) *Error {
	return &Error{
		Kind:       KindAmbiguousSupertype,
		Message:    fmt.Sprintf("type %q has ambiguous supertype: declared in both %q and %q", name, first, second),
		Name:       name,
		Suggestion: fmt.Sprintf("Remove '%s' from one of the unions", name),
	}
}

// ErrorList is a collection of errors encountered while loading a file.
// It allows accumulating multiple errors instead of failing on the first error.
type ErrorList struct {
	Errors []*Error
}

// NewErrorList creates a new empty error list.
func NewErrorList() *ErrorList {
	return &ErrorList{
		Errors: make([]*Error, 0),
	}
}

// Add appends an error to the list.
func (el *ErrorList) Add(err *Error) {
	el.Errors = append(el.Errors, err)
}

// AddError creates and adds a new error.
func (el *ErrorList) AddError(kind Kind, message string, location ast.Location) {
	el.Add(&Error{
		Kind:     kind,
		Message:  message,
		Location: location,
	})
}

// HasErrors returns true if the list contains any errors.
func (el *ErrorList) HasErrors() bool {
	return len(el.Errors) > 0
}

// Count returns the number of errors in the list.
func (el *ErrorList) Count() int {
	return len(el.Errors)
}

// Error implements the error interface.
func (el *ErrorList) Error() string {
	if !el.HasErrors() {
		return ""
	}
	if el.Count() == 1 {
		return el.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("found %d error(s):\n", el.Count()))
	for i, err := range el.Errors {
		sb.WriteString(fmt.Sprintf("%d: %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Unwrap exposes the accumulated errors to errors.Is and errors.As.
func (el *ErrorList) Unwrap() []error {
	errs := make([]error, len(el.Errors))
	for i, err := range el.Errors {
		errs[i] = err
	}
	return errs
}

// ToError returns nil if the list is empty, otherwise the list itself.
func (el *ErrorList) ToError() error {
	if !el.HasErrors() {
		return nil
	}
	return el
}

// HasKind returns true if the list contains at least one error of the given kind.
func (el *ErrorList) HasKind(kind Kind) bool {
	for _, err := range el.Errors {
		if err.Kind == kind {
			return true
		}
	}
	return false
}
