package ast

import "sort"

// Visitor is called for every node reached by Walk.
// Implement it to perform read-only analysis over a tree (counting, collecting names, etc.).
type Visitor interface {
	VisitNode(*Node) error
}

// VisitorFunc adapts a plain function to the Visitor interface.
type VisitorFunc func(*Node) error

// VisitNode calls f(n).
func (f VisitorFunc) VisitNode(n *Node) error { return f(n) }

// Walk traverses the tree depth-first starting at n and calls the visitor for each node.
// Keyed fields are visited in sorted field-name order; absent fields and empty holes are skipped.
// It returns the first error encountered, or nil if traversal completes.
func Walk(n *Node, visitor Visitor) error {
	if n == nil {
		return nil
	}
	if err := visitor.VisitNode(n); err != nil {
		return err
	}

	switch v := n.Value.(type) {
	case *KeyedValue:
		names := make([]string, 0, len(v.Items))
		for name := range v.Items {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if err := Walk(v.Items[name], visitor); err != nil {
				return err
			}
		}
	case *ListValue:
		for _, item := range v.Items {
			if err := Walk(item, visitor); err != nil {
				return err
			}
		}
	case *HoleValue:
		return Walk(v.Content, visitor)
	case *OptionValue:
		return Walk(v.Content, visitor)
	}

	return nil
}

// WalkType calls visit for t and then for every type nested in its parameters, depth-first.
// Keyed parameters are visited in sorted field-name order.
func WalkType(t Type, visit func(Type) error) error {
	if t == nil {
		return nil
	}
	if err := visit(t); err != nil {
		return err
	}

	s, ok := t.(*Structured)
	if !ok {
		return nil
	}
	switch p := s.Params.(type) {
	case Positional:
		for _, param := range p {
			if err := WalkType(param, visit); err != nil {
				return err
			}
		}
	case Fields:
		for _, name := range p.Names() {
			if err := WalkType(p[name], visit); err != nil {
				return err
			}
		}
	}
	return nil
}

// CountNodes returns the number of nodes in the tree rooted at n.
func CountNodes(n *Node) int {
	count := 0
	_ = Walk(n, VisitorFunc(func(*Node) error {
		count++
		return nil
	}))
	return count
}
