package config

import "time"

// Config is the root configuration structure for arbor.
type Config struct {
	// Logging controls the structured logger.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics controls the Prometheus endpoint.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing controls OpenTelemetry spans for checks.
	Tracing TracingConfig `yaml:"tracing"`

	// Loader limits the size and nesting of grammar and tree files.
	Loader LoaderConfig `yaml:"loader"`

	// Watch controls re-validation on file changes.
	Watch WatchConfig `yaml:"watch"`

	// Reports controls where check reports are stored and for how long.
	Reports ReportsConfig `yaml:"reports"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics configuration.
type MetricsConfig struct {
	// ListenAddress is where the watch command serves metrics.
	// Empty disables the endpoint; metrics are still collected.
	ListenAddress string `yaml:"listen_address"`

	// Path is the HTTP path of the Prometheus endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace prefixes every metric name.
	// Default: "arbor"
	Namespace string `yaml:"namespace"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled turns on span export. When false a no-op tracer is used.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// ServiceName is the service.name resource attribute.
	// Default: "arbor"
	ServiceName string `yaml:"service_name"`

	// Sampler selects the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "always"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces kept by the "ratio" sampler.
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP gRPC collector address.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS to the collector.
	// Default: false
	Insecure bool `yaml:"insecure"`

	// Timeout bounds each export.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}

// LoaderConfig contains file loading limits.
type LoaderConfig struct {
	// MaxFileSize is the largest grammar or tree file accepted, in bytes.
	// Default: 10485760 (10MB)
	MaxFileSize int64 `yaml:"max_file_size"`

	// MaxDepth is the deepest tree or type expression accepted.
	// Default: 256
	MaxDepth int `yaml:"max_depth"`
}

// WatchConfig contains file watching configuration.
type WatchConfig struct {
	// Debounce is how long to wait after the last change before re-checking.
	// Default: 200ms
	Debounce time.Duration `yaml:"debounce"`

	// Extensions lists the file extensions that trigger a re-check.
	// Default: [".yaml", ".yml"]
	Extensions []string `yaml:"extensions"`
}

// ReportsConfig contains check report storage configuration.
type ReportsConfig struct {
	// Backend selects the report store.
	// Options: "none", "memory", "sqlite"
	// Default: "none"
	Backend string `yaml:"backend"`

	// SQLite configures the sqlite backend.
	SQLite SQLiteConfig `yaml:"sqlite"`

	// Retention limits how many reports are kept.
	Retention RetentionConfig `yaml:"retention"`
}

// SQLiteConfig contains SQLite report store configuration.
type SQLiteConfig struct {
	// Driver selects the database/sql driver.
	// Options: "sqlite" (pure Go), "sqlite3" (cgo)
	// Default: "sqlite"
	Driver string `yaml:"driver"`

	// Path is the database file.
	// Default: "data/reports.db"
	Path string `yaml:"path"`

	// WALMode enables write-ahead logging. Nil means the default.
	// Default: true
	WALMode *bool `yaml:"wal_mode"`

	// BusyTimeout is how long a writer waits on a locked database.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`

	// MaxOpenConns limits open connections.
	// Default: 4
	MaxOpenConns int `yaml:"max_open_conns"`
}

// WALEnabled reports whether write-ahead logging is on.
func (c SQLiteConfig) WALEnabled() bool {
	if c.WALMode == nil {
		return DefaultSQLiteWALMode
	}
	return *c.WALMode
}

// RetentionConfig contains report retention configuration.
type RetentionConfig struct {
	// Days is the maximum report age. A negative value disables the age limit.
	// Default: 30
	Days int `yaml:"days"`

	// MaxRecords caps the number of stored reports. 0 means no cap.
	// Default: 0
	MaxRecords int64 `yaml:"max_records"`

	// Schedule is the cron expression for pruning in long-running commands.
	// Default: "0 3 * * *" (daily at 3 AM)
	Schedule string `yaml:"schedule"`
}
