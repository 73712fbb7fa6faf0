// Package storage provides the report.Storage backends.
package storage

import (
	"fmt"

	"mercator-hq/arbor/pkg/config"
	"mercator-hq/arbor/pkg/report"
)

// New returns the backend selected by cfg.Backend, or nil for "none".
func New(cfg *config.ReportsConfig) (report.Storage, error) {
	switch cfg.Backend {
	case "", "none":
		return nil, nil
	case "memory":
		return NewMemoryStorage(), nil
	case "sqlite":
		return NewSQLiteStorage(cfg.SQLite)
	default:
		return nil, fmt.Errorf("unknown reports backend %q", cfg.Backend)
	}
}
