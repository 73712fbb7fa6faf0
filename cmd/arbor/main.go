// Arbor checks trees and types against declarative tree grammars.
//
// A grammar names union hierarchies and composite type definitions built from
// a fixed set of primitive shapes (keyed record, list, leaf, string, hole,
// option). Arbor answers whether one type is a subtype of another and whether
// an annotated tree conforms to its declared type.
//
// Usage:
//
//	# Load a grammar and list its types
//	arbor check grammars/lang.yaml
//
//	# Ask a subtype question
//	arbor subtype --grammar grammars/lang.yaml BooleanLiteralTrue Expression
//
//	# Validate tree files
//	arbor validate --grammar grammars/lang.yaml trees/
//
//	# Re-validate on every change and serve metrics
//	arbor watch --grammar grammars/lang.yaml trees/
//
//	# Inspect stored check reports
//	arbor reports list --failed
package main

func main() {
	Execute()
}
