package lens

import (
	"mercator-hq/arbor/pkg/grammar/ast"
)

// ExpressionsAsStatements lets an expression statement be edited as the expression it wraps.
func ExpressionsAsStatements() *Transform {
	return &Transform{
		Name:    "expressionsAsStatements",
		Trigger: TriggerAutomatic,
		Lens: Lens{
			Concrete: ast.Name("lang.ExpressionStatement"),
			Abstract: ast.Name("lang.Expression"),
			Get: func(concrete *ast.Node) *ast.Node {
				keyed, ok := concrete.Value.(*ast.KeyedValue)
				if !ok {
					return nil
				}
				return keyed.Items["expression"]
			},
			Put: func(_, abstract *ast.Node) *ast.Node {
				return &ast.Node{
					Type: ast.Name("lang.ExpressionStatement"),
					Value: &ast.KeyedValue{Items: map[string]*ast.Node{
						"expression": abstract,
					}},
				}
			},
		},
	}
}
