package ast

import "fmt"

// Separator joins a namespace and a bare type name.
const Separator = "."

// PrimitiveNamespace is the reserved namespace of the built-in kinds.
const PrimitiveNamespace = "primitive"

// Primitive type names. These are always known, independent of any grammar.
const (
	TypeKeyed   = "primitive.Keyed"
	TypeList    = "primitive.List"
	TypeLeaf    = "primitive.Leaf"
	TypeString  = "primitive.String"
	TypeHole    = "primitive.Hole"
	TypeOption  = "primitive.Option"
	TypeNothing = "primitive.Nothing"
)

// Kind identifies the runtime shape of a tree value.
type Kind uint8

const (
	KindKeyed Kind = iota + 1
	KindList
	KindLeaf
	KindString
	KindHole
	KindOption
)

// TypeName returns the primitive type name that a value of this kind carries intrinsically.
func (k Kind) TypeName() string {
	switch k {
	case KindKeyed:
		return TypeKeyed
	case KindList:
		return TypeList
	case KindLeaf:
		return TypeLeaf
	case KindString:
		return TypeString
	case KindHole:
		return TypeHole
	case KindOption:
		return TypeOption
	default:
		return fmt.Sprintf("primitive.Kind(%d)", uint8(k))
	}
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	return k.TypeName()
}

// KindOf maps a primitive type name back to its kind.
// primitive.Nothing is not a value shape and reports false.
func KindOf(typeName string) (Kind, bool) {
	switch typeName {
	case TypeKeyed:
		return KindKeyed, true
	case TypeList:
		return KindList, true
	case TypeLeaf:
		return KindLeaf, true
	case TypeString:
		return KindString, true
	case TypeHole:
		return KindHole, true
	case TypeOption:
		return KindOption, true
	}
	return 0, false
}

// PrimitiveTypes returns the names of all built-in kinds, including primitive.Nothing.
// A fresh slice is returned on every call.
func PrimitiveTypes() []string {
	return []string{
		TypeKeyed,
		TypeList,
		TypeLeaf,
		TypeString,
		TypeHole,
		TypeOption,
		TypeNothing,
	}
}
