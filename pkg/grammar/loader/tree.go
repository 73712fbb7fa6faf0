package loader

import (
	"gopkg.in/yaml.v3"

	"mercator-hq/arbor/pkg/grammar/ast"
)

// valueKeys are the node keys that select a value shape.
var valueKeys = map[string]ast.Kind{
	"keyed":  ast.KindKeyed,
	"list":   ast.KindList,
	"leaf":   ast.KindLeaf,
	"string": ast.KindString,
	"hole":   ast.KindHole,
	"option": ast.KindOption,
}

// buildTree transforms a tree document into its root node.
func (b *builder) buildTree(root *yaml.Node) (*ast.Node, error) {
	node := b.buildNode(root, 0)
	if b.errors.HasErrors() {
		return nil, b.errors
	}
	return node, nil
}

func (b *builder) buildNode(n *yaml.Node, depth int) *ast.Node {
	if depth > b.maxDepth {
		b.addError(n, "tree exceeds maximum depth %d", b.maxDepth)
		return nil
	}
	if n.Kind != yaml.MappingNode {
		b.addError(n, "tree node must be a mapping, got %s", kindName(n))
		return nil
	}

	node := &ast.Node{Location: b.location(n)}
	var valueKey *yaml.Node
	var valueNode *yaml.Node

	for _, pair := range mappingPairs(n) {
		if pair.key.Value == "type" {
			if t, ok := b.buildType(pair.value, 0); ok {
				node.Type = t
			}
			continue
		}
		if _, ok := valueKeys[pair.key.Value]; !ok {
			b.addError(pair.key, "unknown node key %q", pair.key.Value)
			continue
		}
		if valueKey != nil {
			b.addError(pair.key, "node has both %q and %q values", valueKey.Value, pair.key.Value)
			continue
		}
		valueKey, valueNode = pair.key, pair.value
	}

	if node.Type == nil {
		b.addError(n, "tree node has no type")
	}
	if valueKey == nil {
		b.addError(n, "tree node has no value; expected one of keyed, list, leaf, string, hole, option")
		return node
	}

	node.Value = b.buildValue(valueKeys[valueKey.Value], valueNode, depth)
	return node
}

func (b *builder) buildValue(kind ast.Kind, n *yaml.Node, depth int) ast.Value {
	switch kind {
	case ast.KindKeyed:
		items := make(map[string]*ast.Node)
		if isNull(n) {
			return &ast.KeyedValue{Items: items}
		}
		if n.Kind != yaml.MappingNode {
			b.addError(n, "keyed value must be a mapping, got %s", kindName(n))
			return nil
		}
		for _, pair := range mappingPairs(n) {
			if _, dup := items[pair.key.Value]; dup {
				b.addError(pair.key, "field %q given twice", pair.key.Value)
				continue
			}
			if isNull(pair.value) {
				items[pair.key.Value] = nil
				continue
			}
			items[pair.key.Value] = b.buildNode(pair.value, depth+1)
		}
		return &ast.KeyedValue{Items: items}

	case ast.KindList:
		if isNull(n) {
			return &ast.ListValue{Items: []*ast.Node{}}
		}
		if n.Kind != yaml.SequenceNode {
			b.addError(n, "list value must be a sequence, got %s", kindName(n))
			return nil
		}
		items := make([]*ast.Node, 0, len(n.Content))
		for _, item := range n.Content {
			items = append(items, b.buildNode(resolveAlias(item), depth+1))
		}
		return &ast.ListValue{Items: items}

	case ast.KindLeaf:
		if !isNull(n) && !(n.Kind == yaml.MappingNode && len(n.Content) == 0) {
			b.addError(n, "leaf value must be null or {}")
		}
		return &ast.LeafValue{}

	case ast.KindString:
		if n == nil || n.Kind != yaml.ScalarNode || isNull(n) {
			b.addError(n, "string value must be a scalar, got %s", kindName(n))
			return nil
		}
		return &ast.StringValue{Text: n.Value}

	case ast.KindHole:
		if isNull(n) {
			return &ast.HoleValue{}
		}
		return &ast.HoleValue{Content: b.buildNode(n, depth+1)}

	case ast.KindOption:
		if isNull(n) {
			return &ast.OptionValue{}
		}
		return &ast.OptionValue{Content: b.buildNode(n, depth+1)}
	}
	return nil
}
