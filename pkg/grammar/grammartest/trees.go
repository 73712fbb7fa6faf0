package grammartest

import (
	"mercator-hq/arbor/pkg/grammar/ast"
)

// Leaf returns a node of the given type holding a leaf value.
func Leaf(typ ast.Type) *ast.Node {
	return &ast.Node{Type: typ, Value: &ast.LeafValue{}}
}

// String returns a node of the given type holding text.
func String(typ ast.Type, text string) *ast.Node {
	return &ast.Node{Type: typ, Value: &ast.StringValue{Text: text}}
}

// List returns a node of the given type holding the items.
func List(typ ast.Type, items ...*ast.Node) *ast.Node {
	return &ast.Node{Type: typ, Value: &ast.ListValue{Items: items}}
}

// Keyed returns a node of the given type holding the fields.
func Keyed(typ ast.Type, items map[string]*ast.Node) *ast.Node {
	if items == nil {
		items = map[string]*ast.Node{}
	}
	return &ast.Node{Type: typ, Value: &ast.KeyedValue{Items: items}}
}

// Hole returns a node of the given type holding a hole with optional content.
func Hole(typ ast.Type, content *ast.Node) *ast.Node {
	return &ast.Node{Type: typ, Value: &ast.HoleValue{Content: content}}
}

// Option returns a node of the given type holding an option with optional content.
func Option(typ ast.Type, content *ast.Node) *ast.Node {
	return &ast.Node{Type: typ, Value: &ast.OptionValue{Content: content}}
}

// ExampleProgram returns a lang.Program calling assert(true).
func ExampleProgram() *ast.Node {
	return List(ast.Name("lang.Program"),
		Keyed(ast.Name("lang.ExpressionStatement"), map[string]*ast.Node{
			"expression": Keyed(ast.Name("lang.FunctionCall"), map[string]*ast.Node{
				"function": Keyed(ast.Name("lang.Identifier"), map[string]*ast.Node{
					"name": String(ast.Name(ast.TypeString), "assert"),
				}),
				"arguments": List(ast.Generic(ast.TypeList, ast.Name("lang.Expression")),
					Leaf(ast.Name("lang.BooleanLiteralTrue")),
				),
			}),
		}),
	)
}
