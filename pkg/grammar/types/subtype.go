package types

import (
	"mercator-hq/arbor/pkg/grammar/ast"
)

// IsSubtype reports whether a is a subtype of b.
//
// Every name in both operands must be known to the registry; the first
// unknown name, at any depth, is reported as an unknown_type error.
func (r *Registry) IsSubtype(a, b ast.Type) (bool, error) {
	if err := r.Resolve(a); err != nil {
		return false, err
	}
	if err := r.Resolve(b); err != nil {
		return false, err
	}
	return r.isSubtype(a, b)
}

func (r *Registry) isSubtype(a, b ast.Type) (bool, error) {
	if err := r.checkHead(a); err != nil {
		return false, err
	}
	if err := r.checkHead(b); err != nil {
		return false, err
	}

	if ast.Equal(a, b) {
		return true, nil
	}

	aName, aIsName := a.(ast.Name)
	bName, bIsName := b.(ast.Name)
	if aIsName && bIsName {
		return r.inUnionChain(aName, bName), nil
	}

	aStruct, _ := a.(*ast.Structured)
	bStruct, _ := b.(*ast.Structured)

	if aStruct != nil && hasNoParams(aStruct) {
		return r.isSubtype(ast.Name(aStruct.Head), b)
	}
	if content, ok := holeContent(aStruct); ok {
		return r.isSubtype(content, b)
	}
	if content, ok := holeContent(bStruct); ok {
		return r.isSubtype(a, content)
	}
	if bStruct != nil && hasNoParams(bStruct) {
		return r.isSubtype(a, ast.Name(bStruct.Head))
	}

	if aStruct != nil && bStruct != nil {
		return r.structuralSubtype(aStruct, bStruct)
	}

	if aIsName && bStruct != nil {
		if def, ok := r.definitions[string(aName)]; ok {
			return r.isSubtype(def, b)
		}
	}

	return false, nil
}

// inUnionChain walks a's supertypes looking for b.
// A cyclic union declaration ends the walk instead of looping.
func (r *Registry) inUnionChain(a, b ast.Name) bool {
	seen := map[string]bool{string(a): true}
	current := string(a)
	for {
		super, ok := r.supertypes[current]
		if !ok || seen[super] {
			return false
		}
		if super == string(b) {
			return true
		}
		seen[super] = true
		current = super
	}
}

// structuralSubtype compares two structured types with parameters.
// Positional parameters are compared position by position, keyed parameters
// field by field; the two forms never match each other.
func (r *Registry) structuralSubtype(a, b *ast.Structured) (bool, error) {
	if a.Head != b.Head {
		return false, nil
	}

	if ap, ok := a.Positional(); ok {
		bp, ok := b.Positional()
		if !ok || len(ap) != len(bp) {
			return false, nil
		}
		for i := range ap {
			ok, err := r.isSubtype(ap[i], bp[i])
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	}

	af, _ := a.Fields()
	bf, ok := b.Fields()
	if !ok || len(af) != len(bf) {
		return false, nil
	}
	for _, name := range af.Names() {
		bt, ok := bf[name]
		if !ok {
			return false, nil
		}
		ok, err := r.isSubtype(af[name], bt)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// hasNoParams reports whether s has an empty positional parameter list.
// An empty keyed parameter map is a real record shape and does not count.
func hasNoParams(s *ast.Structured) bool {
	p, ok := s.Positional()
	return ok && len(p) == 0
}

// holeContent returns X for primitive.Hole[X].
func holeContent(s *ast.Structured) (ast.Type, bool) {
	return singleParam(s, ast.TypeHole)
}

// singleParam returns the only positional parameter of s if its head is the given kind.
func singleParam(s *ast.Structured, head string) (ast.Type, bool) {
	if s == nil || s.Head != head {
		return nil, false
	}
	p, ok := s.Positional()
	if !ok || len(p) != 1 {
		return nil, false
	}
	return p[0], true
}
