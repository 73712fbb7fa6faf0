package types

import (
	"sort"

	"mercator-hq/arbor/pkg/grammar/ast"
	grammarErrors "mercator-hq/arbor/pkg/grammar/errors"
	"mercator-hq/arbor/pkg/grammar/namespace"
)

// Registry is the read model derived from one grammar.
type Registry struct {
	name        string
	known       map[string]struct{}
	supertypes  map[string]string
	definitions map[string]*ast.Structured
	unions      map[string][]string
	names       []string
}

// New normalizes the grammar and builds a registry from it.
// It fails with an ambiguous_supertype error if a type name is declared
// as a direct subtype under more than one union.
func New(g *ast.Grammar) (*Registry, error) {
	normalized := namespace.Normalize(g)

	r := &Registry{
		name:        normalized.Name,
		known:       make(map[string]struct{}),
		supertypes:  builtinSupertypes(),
		definitions: builtinDefinitions(),
		unions:      make(map[string][]string, len(normalized.Unions)),
	}

	for _, name := range ast.PrimitiveTypes() {
		r.known[name] = struct{}{}
	}

	// Sorted iteration keeps the reported union pair deterministic.
	owner := make(map[string]string)
	for _, union := range normalized.UnionNames() {
		r.known[union] = struct{}{}
		members := normalized.Unions[union]
		r.unions[union] = append([]string(nil), members...)

		for _, member := range members {
			if previous, ok := owner[member]; ok && previous != union {
				return nil, grammarErrors.AmbiguousSupertype(member, previous, union)
			}
			if _, builtin := r.supertypes[member]; builtin {
				return nil, grammarErrors.AmbiguousSupertype(member, r.supertypes[member], union)
			}
			owner[member] = union
		}
	}
	for member, union := range owner {
		r.supertypes[member] = union
	}

	for _, name := range normalized.TypeNames() {
		r.known[name] = struct{}{}
		r.definitions[name] = normalized.Types[name]
	}

	r.names = make([]string, 0, len(r.known))
	for name := range r.known {
		r.names = append(r.names, name)
	}
	sort.Strings(r.names)

	return r, nil
}

// builtinSupertypes returns a fresh copy of the supertype relations every registry starts with.
func builtinSupertypes() map[string]string {
	return map[string]string{
		ast.TypeNothing: ast.TypeLeaf,
	}
}

// builtinDefinitions returns a fresh copy of the definitions every registry starts with.
func builtinDefinitions() map[string]*ast.Structured {
	return map[string]*ast.Structured{
		ast.TypeNothing: ast.Generic(ast.TypeLeaf),
	}
}

// Name returns the name of the grammar the registry was built from.
func (r *Registry) Name() string {
	return r.name
}

// Known reports whether name resolves in the registry.
func (r *Registry) Known(name string) bool {
	_, ok := r.known[name]
	return ok
}

// Supertype returns the direct supertype of name, if one is declared.
func (r *Registry) Supertype(name string) (string, bool) {
	super, ok := r.supertypes[name]
	return super, ok
}

// Definition returns the structural definition of a named type.
func (r *Registry) Definition(name string) (*ast.Structured, bool) {
	def, ok := r.definitions[name]
	return def, ok
}

// Names returns every known type name in sorted order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// Unions returns the normalized unions: supertype name to ordered member names.
func (r *Registry) Unions() map[string][]string {
	out := make(map[string][]string, len(r.unions))
	for union, members := range r.unions {
		out[union] = append([]string(nil), members...)
	}
	return out
}

// Ancestors returns the union chain above name, nearest first.
func (r *Registry) Ancestors(name string) []string {
	var chain []string
	seen := map[string]bool{name: true}
	for {
		super, ok := r.supertypes[name]
		if !ok || seen[super] {
			return chain
		}
		chain = append(chain, super)
		seen[super] = true
		name = super
	}
}

// Resolve returns an unknown_type error for the first name in t that the registry does not know.
func (r *Registry) Resolve(t ast.Type) error {
	return ast.WalkType(t, r.checkHead)
}

func (r *Registry) checkHead(t ast.Type) error {
	if t == nil {
		return grammarErrors.UnknownType("<nil>", nil)
	}
	name := t.HeadName()
	if _, ok := r.known[name]; !ok {
		return grammarErrors.UnknownType(name, r.names)
	}
	return nil
}
