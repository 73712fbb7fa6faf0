// Package engine runs subtype queries and tree validations against a type
// registry and instruments every check.
//
// Each check gets a UUID, is logged with run, grammar and check IDs attached,
// is counted in the metrics collector, and is written to the report store
// when one is configured. The registry can be swapped while checks are in
// flight; each check uses the registry that was current when it started.
//
// Example:
//
//	reg, err := grammar.LoadRegistry("lang.yaml")
//	if err != nil {
//	    return err
//	}
//	eng := engine.New(reg, &engine.Config{Logger: logger, Metrics: collector})
//	result := eng.CheckSubtype(ctx, ast.Name("lang.Bool"), ast.Name("lang.Expression"))
//	if result.Err != nil {
//	    return result.Err
//	}
package engine
