package types

import (
	"mercator-hq/arbor/pkg/grammar/ast"
)

// IsTypeValid reports whether a tree conforms to its declared type.
//
// Children (list items, keyed fields, hole and option content) must carry a
// declared type that fits the parameter of their parent's shape, and must
// themselves conform to their own declared type. Unfilled holes and empty
// options are always valid. The only errors are unknown_type errors raised
// by the embedded subtype checks.
func (r *Registry) IsTypeValid(n *ast.Node) (bool, error) {
	if n == nil || n.Type == nil || n.Value == nil {
		return false, nil
	}
	return r.conforms(n.Type, n.Value)
}

func (r *Registry) conforms(declared ast.Type, value ast.Value) (bool, error) {
	ok, err := r.IsSubtype(ast.IntrinsicType(value), declared)
	if err != nil || ok {
		return ok, err
	}

	if name, isName := declared.(ast.Name); isName {
		if def, ok := r.definitions[string(name)]; ok {
			return r.conforms(def, value)
		}
		return false, nil
	}

	shape, ok := declared.(*ast.Structured)
	if !ok {
		return false, nil
	}

	switch v := value.(type) {
	case *ast.ListValue:
		if param, ok := singleParam(shape, ast.TypeList); ok {
			return r.listConforms(param, v)
		}
	case *ast.KeyedValue:
		if fields, ok := shape.Fields(); ok && shape.Head == ast.TypeKeyed {
			return r.keyedConforms(fields, v)
		}
	case *ast.HoleValue:
		if _, ok := singleParam(shape, ast.TypeHole); ok {
			if !v.Filled() {
				return true, nil
			}
			return r.IsTypeValid(v.Content)
		}
	case *ast.OptionValue:
		if param, ok := singleParam(shape, ast.TypeOption); ok {
			if v.Content == nil {
				return true, nil
			}
			return r.childConforms(param, v.Content)
		}
	case *ast.LeafValue, *ast.StringValue:
		// Only the intrinsic subtype check applies.
	}

	return false, nil
}

// listConforms requires every item to fit the element type and be valid itself.
func (r *Registry) listConforms(element ast.Type, list *ast.ListValue) (bool, error) {
	for _, item := range list.Items {
		ok, err := r.childConforms(element, item)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// keyedConforms requires exactly the declared field names, each present, fitting and valid.
func (r *Registry) keyedConforms(fields ast.Fields, keyed *ast.KeyedValue) (bool, error) {
	if len(fields) != len(keyed.Items) {
		return false, nil
	}
	for _, name := range fields.Names() {
		child, ok := keyed.Items[name]
		if !ok || child == nil {
			return false, nil
		}
		ok, err := r.childConforms(fields[name], child)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// childConforms checks that a child's declared type fits the expected type and that the child is valid.
func (r *Registry) childConforms(expected ast.Type, child *ast.Node) (bool, error) {
	if child == nil {
		return false, nil
	}
	ok, err := r.IsSubtype(child.Type, expected)
	if err != nil || !ok {
		return false, err
	}
	return r.IsTypeValid(child)
}
