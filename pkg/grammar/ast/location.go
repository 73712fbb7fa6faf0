package ast

import "fmt"

// Location is the source position of a grammar entry or tree node in a loaded file.
// In-memory values built by callers have a zero Location.
type Location struct {
	File   string // Path to the source file
	Line   int    // Line number (1-based)
	Column int    // Column number (1-based)
}

// String returns "file:line:column".
func (l Location) String() string {
	if l.File == "" {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// IsValid returns true if the location has file and line information.
func (l Location) IsValid() bool {
	return l.File != "" && l.Line > 0
}
