package config

import (
	"testing"
	"time"
)

func TestApplyDefaults(t *testing.T) {
	tests := []struct {
		name  string
		input Config
		check func(*testing.T, *Config)
	}{
		{
			name:  "empty config gets all defaults",
			input: Config{},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != DefaultLoggingLevel {
					t.Errorf("expected logging level %q, got %q", DefaultLoggingLevel, cfg.Logging.Level)
				}
				if cfg.Logging.Format != DefaultLoggingFormat {
					t.Errorf("expected logging format %q, got %q", DefaultLoggingFormat, cfg.Logging.Format)
				}
				if cfg.Metrics.Path != DefaultMetricsPath {
					t.Errorf("expected metrics path %q, got %q", DefaultMetricsPath, cfg.Metrics.Path)
				}
				if cfg.Metrics.ListenAddress != "" {
					t.Errorf("expected metrics endpoint disabled, got %q", cfg.Metrics.ListenAddress)
				}
				if cfg.Tracing.Enabled || cfg.Tracing.Sampler != DefaultTracingSampler || cfg.Tracing.SampleRatio != DefaultTracingSampleRatio {
					t.Errorf("unexpected tracing defaults: %+v", cfg.Tracing)
				}
				if cfg.Loader.MaxFileSize != DefaultLoaderMaxFileSize {
					t.Errorf("expected max file size %d, got %d", DefaultLoaderMaxFileSize, cfg.Loader.MaxFileSize)
				}
				if cfg.Loader.MaxDepth != DefaultLoaderMaxDepth {
					t.Errorf("expected max depth %d, got %d", DefaultLoaderMaxDepth, cfg.Loader.MaxDepth)
				}
				if cfg.Watch.Debounce != DefaultWatchDebounce {
					t.Errorf("expected debounce %v, got %v", DefaultWatchDebounce, cfg.Watch.Debounce)
				}
				if len(cfg.Watch.Extensions) != 2 {
					t.Errorf("expected 2 watch extensions, got %v", cfg.Watch.Extensions)
				}
				if cfg.Reports.Backend != DefaultReportsBackend {
					t.Errorf("expected reports backend %q, got %q", DefaultReportsBackend, cfg.Reports.Backend)
				}
				if cfg.Reports.SQLite.Driver != DefaultSQLiteDriver {
					t.Errorf("expected SQLite driver %q, got %q", DefaultSQLiteDriver, cfg.Reports.SQLite.Driver)
				}
				if !cfg.Reports.SQLite.WALEnabled() {
					t.Error("expected WAL mode enabled by default")
				}
				if cfg.Reports.Retention.Days != DefaultRetentionDays {
					t.Errorf("expected retention days %d, got %d", DefaultRetentionDays, cfg.Reports.Retention.Days)
				}
				if cfg.Reports.Retention.Schedule != DefaultRetentionSchedule {
					t.Errorf("expected retention schedule %q, got %q", DefaultRetentionSchedule, cfg.Reports.Retention.Schedule)
				}
			},
		},
		{
			name: "existing values are preserved",
			input: Config{
				Logging: LoggingConfig{Level: "debug", Format: "json"},
				Watch:   WatchConfig{Debounce: time.Second, Extensions: []string{".tree"}},
				Reports: ReportsConfig{
					Backend: "sqlite",
					SQLite:  SQLiteConfig{Driver: "sqlite3", Path: "x.db", WALMode: boolPtr(false)},
				},
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
					t.Errorf("logging overwritten: %+v", cfg.Logging)
				}
				if cfg.Watch.Debounce != time.Second || cfg.Watch.Extensions[0] != ".tree" {
					t.Errorf("watch overwritten: %+v", cfg.Watch)
				}
				if cfg.Reports.SQLite.Driver != "sqlite3" || cfg.Reports.SQLite.Path != "x.db" {
					t.Errorf("sqlite overwritten: %+v", cfg.Reports.SQLite)
				}
				if cfg.Reports.SQLite.WALEnabled() {
					t.Error("explicit wal_mode: false was overwritten")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.input
			ApplyDefaults(&cfg)
			tt.check(t, &cfg)
		})
	}
}

func TestApplyDefaults_Idempotent(t *testing.T) {
	cfg := Default()
	before := *cfg
	ApplyDefaults(cfg)

	if cfg.Logging != before.Logging || cfg.Loader != before.Loader || cfg.Reports.Retention != before.Reports.Retention {
		t.Error("second ApplyDefaults changed the configuration")
	}
}

func TestDefault_IsValid(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Errorf("default configuration is invalid: %v", err)
	}
}

func boolPtr(b bool) *bool {
	return &b
}
