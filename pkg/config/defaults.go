package config

import "time"

// Default values for configuration fields.
const (
	// Logging defaults
	DefaultLoggingLevel  = "info"
	DefaultLoggingFormat = "text"

	// Metrics defaults
	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "arbor"

	// Tracing defaults
	DefaultTracingServiceName = "arbor"
	DefaultTracingSampler     = "always"
	DefaultTracingSampleRatio = 1.0
	DefaultTracingEndpoint    = "localhost:4317"
	DefaultTracingTimeout     = 10 * time.Second

	// Loader defaults
	DefaultLoaderMaxFileSize = int64(10 * 1024 * 1024)
	DefaultLoaderMaxDepth    = 256

	// Watch defaults
	DefaultWatchDebounce = 200 * time.Millisecond

	// Reports defaults
	DefaultReportsBackend     = "none"
	DefaultSQLiteDriver       = "sqlite"
	DefaultSQLitePath         = "data/reports.db"
	DefaultSQLiteWALMode      = true
	DefaultSQLiteBusyTimeout  = 5 * time.Second
	DefaultSQLiteMaxOpenConns = 4
	DefaultRetentionDays      = 30
	DefaultRetentionSchedule  = "0 3 * * *"
)

// DefaultWatchExtensions are the file extensions watched by default.
func DefaultWatchExtensions() []string {
	return []string{".yaml", ".yml"}
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLoggingFormat
	}

	// Metrics defaults
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}

	// Tracing defaults
	if cfg.Tracing.ServiceName == "" {
		cfg.Tracing.ServiceName = DefaultTracingServiceName
	}
	if cfg.Tracing.Sampler == "" {
		cfg.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Tracing.SampleRatio == 0 {
		cfg.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
	if cfg.Tracing.Endpoint == "" {
		cfg.Tracing.Endpoint = DefaultTracingEndpoint
	}
	if cfg.Tracing.Timeout == 0 {
		cfg.Tracing.Timeout = DefaultTracingTimeout
	}

	// Loader defaults
	if cfg.Loader.MaxFileSize == 0 {
		cfg.Loader.MaxFileSize = DefaultLoaderMaxFileSize
	}
	if cfg.Loader.MaxDepth == 0 {
		cfg.Loader.MaxDepth = DefaultLoaderMaxDepth
	}

	// Watch defaults
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultWatchDebounce
	}
	if len(cfg.Watch.Extensions) == 0 {
		cfg.Watch.Extensions = DefaultWatchExtensions()
	}

	// Reports defaults
	if cfg.Reports.Backend == "" {
		cfg.Reports.Backend = DefaultReportsBackend
	}
	if cfg.Reports.SQLite.Driver == "" {
		cfg.Reports.SQLite.Driver = DefaultSQLiteDriver
	}
	if cfg.Reports.SQLite.Path == "" {
		cfg.Reports.SQLite.Path = DefaultSQLitePath
	}
	if cfg.Reports.SQLite.WALMode == nil {
		wal := DefaultSQLiteWALMode
		cfg.Reports.SQLite.WALMode = &wal
	}
	if cfg.Reports.SQLite.BusyTimeout == 0 {
		cfg.Reports.SQLite.BusyTimeout = DefaultSQLiteBusyTimeout
	}
	if cfg.Reports.SQLite.MaxOpenConns == 0 {
		cfg.Reports.SQLite.MaxOpenConns = DefaultSQLiteMaxOpenConns
	}
	if cfg.Reports.Retention.Days == 0 {
		cfg.Reports.Retention.Days = DefaultRetentionDays
	}
	if cfg.Reports.Retention.Schedule == "" {
		cfg.Reports.Retention.Schedule = DefaultRetentionSchedule
	}
}
