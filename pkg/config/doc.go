// Package config provides configuration management for arbor.
//
// Configuration is loaded from an optional YAML file, completed with defaults,
// overridden from the environment and validated:
//
//	cfg, err := config.LoadConfigWithEnvOverrides("arbor.yaml")
//
// An empty path skips the file, so a zero-configuration run uses defaults
// plus environment overrides.
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention ARBOR_SECTION_FIELD:
//
//   - ARBOR_LOGGING_LEVEL overrides logging.level
//   - ARBOR_REPORTS_BACKEND overrides reports.backend
//   - ARBOR_REPORTS_SQLITE_PATH overrides reports.sqlite.path
//
// # Example Configuration
//
//	logging:
//	  level: info
//	  format: text
//
//	metrics:
//	  listen_address: "127.0.0.1:9464"
//
//	watch:
//	  debounce: 200ms
//
//	reports:
//	  backend: sqlite
//	  sqlite:
//	    driver: sqlite
//	    path: data/reports.db
//	  retention:
//	    days: 30
//	    schedule: "0 3 * * *"
//
// For process-wide access use Initialize and GetConfig. Tests should pass
// explicit Config values instead of relying on the singleton.
package config
