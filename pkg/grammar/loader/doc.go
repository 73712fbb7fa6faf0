// Package loader reads grammar files and tree files written in YAML.
//
// A grammar file names its namespace, its unions and its type definitions:
//
//	name: lang
//	unions:
//	  Statement: [IfStatement, Block]
//	types:
//	  Program:
//	    type: primitive.List
//	    parameters: [Statement]
//	  IfStatement:
//	    type: primitive.Keyed
//	    parameters:
//	      condition: Expression
//	      elseStatement: {type: primitive.Option, parameters: [Statement]}
//	  BooleanLiteralTrue: primitive.Leaf
//
// A type expression is either a scalar name or a mapping with a "type" head and
// optional "parameters" given as a sequence (positional) or a mapping (keyed).
// A scalar in definition position is a head with no parameters.
//
// A tree file is a single node. Each node has a "type" expression and exactly one
// value key: keyed, list, leaf, string, hole or option.
//
//	type: lang.Program
//	list:
//	  - type: lang.BooleanLiteralTrue
//	    leaf: {}
//
// A null keyed field is present by name but has no node; a null hole or option is empty.
// Loaded grammars are not normalized; the registry does that.
package loader
