// Package namespace qualifies the bare type names of a grammar with the grammar's name.
package namespace

import (
	"mercator-hq/arbor/pkg/grammar/ast"
)

// Normalize returns an equivalent grammar in which every bare type name is
// rewritten to "<grammar>.<name>": union keys, union members, type definition
// keys, and type parameters at any depth. Names that already contain a
// separator ("primitive.Leaf", "other.Expr") are left unchanged, so Normalize
// is idempotent. Positional parameter order and keyed field names are preserved.
//
// Union keys that qualify to the same name have their member lists merged,
// and a member listed more than once is kept once. The input grammar is not
// modified.
func Normalize(g *ast.Grammar) *ast.Grammar {
	out := &ast.Grammar{
		Name:       g.Name,
		Unions:     make(map[string][]string, len(g.Unions)),
		Types:      make(map[string]*ast.Structured, len(g.Types)),
		SourceFile: g.SourceFile,
	}

	// Bare and qualified spellings of one union key are merged in sorted key order.
	for _, union := range g.UnionNames() {
		key := ast.Qualify(g.Name, union)
		merged := out.Unions[key]
		for _, member := range g.Unions[union] {
			qualified := ast.Qualify(g.Name, member)
			if !contains(merged, qualified) {
				merged = append(merged, qualified)
			}
		}
		if merged == nil {
			merged = []string{}
		}
		out.Unions[key] = merged
	}

	// The first definition in sorted key order wins when two keys qualify to the same name.
	for _, name := range g.TypeNames() {
		key := ast.Qualify(g.Name, name)
		if _, ok := out.Types[key]; ok {
			continue
		}
		out.Types[key] = Structured(g.Name, g.Types[name])
	}

	return out
}

// Type qualifies every bare name in t with the namespace.
func Type(namespace string, t ast.Type) ast.Type {
	switch v := t.(type) {
	case ast.Name:
		return ast.Name(ast.Qualify(namespace, string(v)))
	case *ast.Structured:
		return Structured(namespace, v)
	}
	return t
}

// Structured qualifies the head and all parameters of s with the namespace.
func Structured(namespace string, s *ast.Structured) *ast.Structured {
	if s == nil {
		return nil
	}
	out := &ast.Structured{Head: ast.Qualify(namespace, s.Head)}

	switch p := s.Params.(type) {
	case ast.Positional:
		params := make(ast.Positional, len(p))
		for i, param := range p {
			params[i] = Type(namespace, param)
		}
		out.Params = params
	case ast.Fields:
		fields := make(ast.Fields, len(p))
		for name, param := range p {
			fields[name] = Type(namespace, param)
		}
		out.Params = fields
	default:
		out.Params = ast.Positional{}
	}

	return out
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
