// Package ast provides the in-memory model for tree grammars and annotated trees.
//
// A grammar declares named union hierarchies and named composite types built
// from a small fixed set of primitive shapes. Trees are values annotated with
// the type they claim to have. Nothing in this package evaluates anything; the
// types package answers subtype and conformance questions over these values.
//
// # Core Types
//
// Type: a type reference, either a Name or a *Structured (head plus parameters)
//
// Params: the parameters of a structured type, either Positional or Fields
//
// Grammar: a named set of unions and type definitions
//
// Node: a tree node, pairing a declared Type with a Value
//
// Value: one of *KeyedValue, *ListValue, *LeafValue, *StringValue, *HoleValue, *OptionValue
//
// # Basic Usage
//
// Describe a grammar:
//
//	g := &ast.Grammar{
//	    Name: "lang",
//	    Unions: map[string][]string{
//	        "Statement": {"ExpressionStatement", "Block"},
//	    },
//	    Types: map[string]*ast.Structured{
//	        "Program": ast.Generic(ast.TypeList, ast.Name("Statement")),
//	    },
//	}
//
// Build a tree:
//
//	tree := &ast.Node{
//	    Type:  ast.Name("lang.Program"),
//	    Value: &ast.ListValue{},
//	}
//
// # Primitive Kinds
//
// The primitive kind names live in the reserved "primitive" namespace and are
// available to every grammar without declaration. primitive.Nothing is a
// zero-parameter synonym for primitive.Leaf.
package ast
