package ast

// Node is a tree node: a declared type plus a runtime value.
type Node struct {
	Type     Type
	Value    Value
	Location Location
}

// Value is the runtime shape of a node.
// The set of implementations is closed; switch over them with a type switch.
type Value interface {
	// Kind returns the primitive kind of the value.
	Kind() Kind
	isValue()
}

// KeyedValue holds named fields. A nil entry is a field that is present by name but has no node.
type KeyedValue struct {
	Items map[string]*Node
}

// Kind returns KindKeyed.
func (*KeyedValue) Kind() Kind { return KindKeyed }
func (*KeyedValue) isValue()   {}

// ListValue holds an ordered sequence of nodes.
type ListValue struct {
	Items []*Node
}

// Kind returns KindList.
func (*ListValue) Kind() Kind { return KindList }
func (*ListValue) isValue()   {}

// LeafValue carries no payload.
type LeafValue struct{}

// Kind returns KindLeaf.
func (*LeafValue) Kind() Kind { return KindLeaf }
func (*LeafValue) isValue()   {}

// StringValue carries raw text.
type StringValue struct {
	Text string
}

// Kind returns KindString.
func (*StringValue) Kind() Kind { return KindString }
func (*StringValue) isValue()   {}

// HoleValue is a placeholder. Content is nil while the hole is unfilled.
type HoleValue struct {
	Content *Node
}

// Kind returns KindHole.
func (*HoleValue) Kind() Kind { return KindHole }
func (*HoleValue) isValue()   {}

// Filled reports whether the hole has content.
func (h *HoleValue) Filled() bool { return h.Content != nil }

// OptionValue is an optional node. Content is nil when the option is empty.
type OptionValue struct {
	Content *Node
}

// Kind returns KindOption.
func (*OptionValue) Kind() Kind { return KindOption }
func (*OptionValue) isValue()   {}

// IntrinsicType returns the primitive type a value carries regardless of its declared type.
func IntrinsicType(v Value) Type {
	return Name(v.Kind().TypeName())
}
