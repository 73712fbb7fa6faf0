package ast

import (
	"sort"
	"strings"
)

// Type is a reference to a grammar type.
// It is either a bare Name or a *Structured head with parameters.
type Type interface {
	// HeadName returns the name that must resolve in a registry for this type.
	HeadName() string
	String() string
	isType()
}

// Name is a bare type reference such as "lang.Statement" or "primitive.Leaf".
type Name string

// HeadName returns the name itself.
func (n Name) HeadName() string { return string(n) }

func (n Name) String() string { return string(n) }

func (Name) isType() {}

// Structured is a head kind plus parameters, e.g. primitive.List[lang.Statement].
type Structured struct {
	Head   string
	Params Params
}

// HeadName returns the head kind name.
func (s *Structured) HeadName() string { return s.Head }

func (s *Structured) String() string {
	if s.Params == nil {
		return s.Head + "[]"
	}
	return s.Head + s.Params.String()
}

func (*Structured) isType() {}

// Positional returns the list-form parameters and true, or nil and false for keyed parameters.
// A nil Params is treated as an empty positional list.
func (s *Structured) Positional() (Positional, bool) {
	switch p := s.Params.(type) {
	case nil:
		return nil, true
	case Positional:
		return p, true
	}
	return nil, false
}

// Fields returns the keyed-form parameters and true, or nil and false for positional parameters.
func (s *Structured) Fields() (Fields, bool) {
	f, ok := s.Params.(Fields)
	return f, ok
}

// Params holds the parameters of a structured type.
// It is either Positional (generic form) or Fields (record form).
type Params interface {
	Len() int
	String() string
	isParams()
}

// Positional is the ordered, generic form of parameters (e.g. a List's element type).
type Positional []Type

// Len returns the number of parameters.
func (p Positional) Len() int { return len(p) }

func (p Positional) String() string {
	parts := make([]string, len(p))
	for i, t := range p {
		parts[i] = typeString(t)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (Positional) isParams() {}

// Fields is the keyed, record form of parameters: field name to field type.
type Fields map[string]Type

// Len returns the number of fields.
func (f Fields) Len() int { return len(f) }

// Names returns the field names in sorted order.
func (f Fields) Names() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (f Fields) String() string {
	names := f.Names()
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ": " + typeString(f[name])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (Fields) isParams() {}

// Generic builds a structured type with positional parameters.
func Generic(head string, params ...Type) *Structured {
	if params == nil {
		params = Positional{}
	}
	return &Structured{Head: head, Params: Positional(params)}
}

// Record builds a structured type with keyed parameters.
func Record(head string, fields Fields) *Structured {
	if fields == nil {
		fields = Fields{}
	}
	return &Structured{Head: head, Params: fields}
}

// Equal reports whether two types are structurally identical.
// Field order is irrelevant for keyed parameters; a nil Params equals an empty positional list.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch at := a.(type) {
	case Name:
		bt, ok := b.(Name)
		return ok && at == bt
	case *Structured:
		bt, ok := b.(*Structured)
		if !ok {
			return false
		}
		if at == bt {
			return true
		}
		return at.Head == bt.Head && paramsEqual(at, bt)
	}
	return false
}

func paramsEqual(a, b *Structured) bool {
	if ap, ok := a.Positional(); ok {
		bp, ok := b.Positional()
		if !ok || len(ap) != len(bp) {
			return false
		}
		for i := range ap {
			if !Equal(ap[i], bp[i]) {
				return false
			}
		}
		return true
	}

	af, _ := a.Fields()
	bf, ok := b.Fields()
	if !ok || len(af) != len(bf) {
		return false
	}
	for name, at := range af {
		bt, ok := bf[name]
		if !ok || !Equal(at, bt) {
			return false
		}
	}
	return true
}

// IsQualified reports whether a type name already carries a namespace qualifier.
func IsQualified(name string) bool {
	return strings.Contains(name, Separator)
}

// Qualify prefixes a bare name with the namespace. Qualified names are returned unchanged.
func Qualify(namespace, name string) string {
	if IsQualified(name) {
		return name
	}
	return namespace + Separator + name
}

func typeString(t Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
