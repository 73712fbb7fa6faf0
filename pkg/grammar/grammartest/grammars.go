// Package grammartest provides example grammars and tree builders for tests.
package grammartest

import (
	"mercator-hq/arbor/pkg/grammar/ast"
)

// Empty returns a grammar that declares nothing; only the primitive kinds are known.
func Empty() *ast.Grammar {
	return &ast.Grammar{
		Name:   "empty",
		Unions: map[string][]string{},
		Types:  map[string]*ast.Structured{},
	}
}

// Lang returns a small statement/expression language used throughout the tests.
// Names are bare; registries qualify them with "lang".
func Lang() *ast.Grammar {
	return &ast.Grammar{
		Name: "lang",
		Unions: map[string][]string{
			"Statement":      {"IfStatement", "ExpressionStatement", "Declaration", "Block"},
			"Declaration":    {"FunctionDeclaration"},
			"Expression":     {"Identifier", "BooleanLiteral", "FunctionCall"},
			"Type":           {"BooleanKeywordType"},
			"BooleanLiteral": {"BooleanLiteralTrue", "BooleanLiteralFalse"},
		},
		Types: map[string]*ast.Structured{
			"Program": ast.Generic(ast.TypeList, ast.Name("Statement")),
			"IfStatement": ast.Record(ast.TypeKeyed, ast.Fields{
				"condition":     ast.Name("Expression"),
				"thenStatement": ast.Name("Statement"),
				"elseStatement": ast.Generic(ast.TypeOption, ast.Name("Statement")),
			}),
			"ExpressionStatement": ast.Record(ast.TypeKeyed, ast.Fields{
				"expression": ast.Name("Expression"),
			}),
			"FunctionDeclaration": ast.Record(ast.TypeKeyed, ast.Fields{
				"name":       ast.Name(ast.TypeString),
				"parameters": ast.Generic(ast.TypeList, ast.Name("FunctionParameter")),
				"body":       ast.Generic(ast.TypeOption, ast.Name("Block")),
			}),
			"Identifier": ast.Record(ast.TypeKeyed, ast.Fields{
				"name": ast.Name(ast.TypeString),
			}),
			"BooleanLiteralTrue":  ast.Generic(ast.TypeLeaf),
			"BooleanLiteralFalse": ast.Generic(ast.TypeLeaf),
			"FunctionCall": ast.Record(ast.TypeKeyed, ast.Fields{
				"function":  ast.Name("Identifier"),
				"arguments": ast.Generic(ast.TypeList, ast.Name("Expression")),
			}),
			"BooleanKeywordType": ast.Generic(ast.TypeLeaf),
			"Block": ast.Record(ast.TypeKeyed, ast.Fields{
				"statements": ast.Generic(ast.TypeList, ast.Name("Statement")),
			}),
			"FunctionParameter": ast.Record(ast.TypeKeyed, ast.Fields{
				"name": ast.Name(ast.TypeString),
				"type": ast.Generic(ast.TypeOption, ast.Name("Type")),
			}),
		},
	}
}
