// Package health provides liveness, readiness and version endpoints for the
// long-running watch command.
//
// # Endpoints
//
//   - /health: Liveness probe, always ok while the process runs
//   - /ready: Readiness probe, runs every registered check
//   - /version: Build information
//
// # Usage
//
//	checker := health.New(5 * time.Second)
//	checker.RegisterCheck("grammar", session.GrammarHealth)
//	checker.RegisterCheck("reports", func(ctx context.Context) error {
//	    _, err := store.Count(ctx, nil)
//	    return err
//	})
//
//	mux := http.NewServeMux()
//	health.Register(mux, checker, version, commit, buildDate)
//
// Readiness returns 503 when any check fails or times out.
package health
