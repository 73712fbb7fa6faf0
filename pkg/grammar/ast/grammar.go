package ast

import "sort"

// Grammar is the declarative description of a tree language.
// It is authored or loaded once and treated as immutable afterwards.
type Grammar struct {
	// Name is the namespace applied to every bare name the grammar declares.
	Name string

	// Unions maps a supertype name to its ordered direct subtype names.
	Unions map[string][]string

	// Types maps a declared type name to its structural definition.
	Types map[string]*Structured

	// SourceFile is the file the grammar was loaded from, if any.
	SourceFile string
}

// UnionNames returns the declared union names in sorted order.
func (g *Grammar) UnionNames() []string {
	names := make([]string, 0, len(g.Unions))
	for name := range g.Unions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TypeNames returns the declared type names in sorted order.
func (g *Grammar) TypeNames() []string {
	names := make([]string, 0, len(g.Types))
	for name := range g.Types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
