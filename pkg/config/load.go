package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// An empty path yields the defaults.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
		}

		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention ARBOR_SECTION_FIELD (e.g., ARBOR_LOGGING_LEVEL) and always take
// precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file (skipped for an empty path)
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Values that fail to parse are ignored.
func applyEnvOverrides(cfg *Config) {
	// Logging overrides
	if val := os.Getenv("ARBOR_LOGGING_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("ARBOR_LOGGING_FORMAT"); val != "" {
		cfg.Logging.Format = val
	}
	if val := os.Getenv("ARBOR_LOGGING_ADD_SOURCE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Logging.AddSource = b
		}
	}

	// Metrics overrides
	if val := os.Getenv("ARBOR_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Metrics.ListenAddress = val
	}
	if val := os.Getenv("ARBOR_METRICS_PATH"); val != "" {
		cfg.Metrics.Path = val
	}

	// Tracing overrides
	if val := os.Getenv("ARBOR_TRACING_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Tracing.Enabled = b
		}
	}
	if val := os.Getenv("ARBOR_TRACING_ENDPOINT"); val != "" {
		cfg.Tracing.Endpoint = val
	}
	if val := os.Getenv("ARBOR_TRACING_SAMPLER"); val != "" {
		cfg.Tracing.Sampler = val
	}
	if val := os.Getenv("ARBOR_TRACING_SAMPLE_RATIO"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Tracing.SampleRatio = f
		}
	}

	// Loader overrides
	if val := os.Getenv("ARBOR_LOADER_MAX_FILE_SIZE"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Loader.MaxFileSize = i
		}
	}
	if val := os.Getenv("ARBOR_LOADER_MAX_DEPTH"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Loader.MaxDepth = i
		}
	}

	// Watch overrides
	if val := os.Getenv("ARBOR_WATCH_DEBOUNCE"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Watch.Debounce = d
		}
	}

	// Reports overrides
	if val := os.Getenv("ARBOR_REPORTS_BACKEND"); val != "" {
		cfg.Reports.Backend = val
	}
	if val := os.Getenv("ARBOR_REPORTS_SQLITE_DRIVER"); val != "" {
		cfg.Reports.SQLite.Driver = val
	}
	if val := os.Getenv("ARBOR_REPORTS_SQLITE_PATH"); val != "" {
		cfg.Reports.SQLite.Path = val
	}
	if val := os.Getenv("ARBOR_REPORTS_SQLITE_WAL_MODE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Reports.SQLite.WALMode = &b
		}
	}
	if val := os.Getenv("ARBOR_REPORTS_SQLITE_BUSY_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Reports.SQLite.BusyTimeout = d
		}
	}
	if val := os.Getenv("ARBOR_REPORTS_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Reports.Retention.Days = i
		}
	}
	if val := os.Getenv("ARBOR_REPORTS_RETENTION_MAX_RECORDS"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Reports.Retention.MaxRecords = i
		}
	}
	if val := os.Getenv("ARBOR_REPORTS_RETENTION_SCHEDULE"); val != "" {
		cfg.Reports.Retention.Schedule = val
	}
}
