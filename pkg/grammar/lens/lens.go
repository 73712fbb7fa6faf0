// Package lens defines bidirectional transforms between a concrete tree type and
// an abstract one. A lens is a consumer of the type checker: whether it applies to
// a node is decided by subtyping against its concrete type.
package lens

import (
	"fmt"

	"mercator-hq/arbor/pkg/grammar/ast"
)

// Trigger says when a transform is offered.
type Trigger string

// TriggerAutomatic transforms are applied without user action.
const TriggerAutomatic Trigger = "automatic"

// Checker is the part of a type registry a transform needs.
type Checker interface {
	IsSubtype(a, b ast.Type) (bool, error)
}

// Lens maps nodes of the Concrete type to nodes of the Abstract type and back.
// Get returns nil when the concrete node does not have the expected shape.
// Put rebuilds a concrete node from an original concrete node and an updated abstract one.
type Lens struct {
	Concrete ast.Type
	Abstract ast.Type
	Get      func(concrete *ast.Node) *ast.Node
	Put      func(concrete, abstract *ast.Node) *ast.Node
}

// Transform is a named lens.
type Transform struct {
	Name    string
	Trigger Trigger
	Lens    Lens
}

// Applies reports whether the node's declared type is a subtype of the lens's concrete type.
func (t *Transform) Applies(c Checker, node *ast.Node) (bool, error) {
	if node == nil || node.Type == nil {
		return false, nil
	}
	ok, err := c.IsSubtype(node.Type, t.Lens.Concrete)
	if err != nil {
		return false, fmt.Errorf("transform %s: %w", t.Name, err)
	}
	return ok, nil
}

// Forward applies Get. ok is false when the transform does not apply or Get finds no abstract node.
func (t *Transform) Forward(c Checker, concrete *ast.Node) (abstract *ast.Node, ok bool, err error) {
	applies, err := t.Applies(c, concrete)
	if err != nil || !applies {
		return nil, false, err
	}
	abstract = t.Lens.Get(concrete)
	return abstract, abstract != nil, nil
}

// Backward applies Put. The abstract node must be a subtype of the lens's abstract type.
func (t *Transform) Backward(c Checker, concrete, abstract *ast.Node) (*ast.Node, bool, error) {
	applies, err := t.Applies(c, concrete)
	if err != nil || !applies {
		return nil, false, err
	}
	if abstract == nil || abstract.Type == nil {
		return nil, false, nil
	}
	fits, err := c.IsSubtype(abstract.Type, t.Lens.Abstract)
	if err != nil {
		return nil, false, fmt.Errorf("transform %s: %w", t.Name, err)
	}
	if !fits {
		return nil, false, nil
	}
	out := t.Lens.Put(concrete, abstract)
	return out, out != nil, nil
}
