package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"valid JSON config", Config{Level: "info", Format: "json"}, false},
		{"valid text config", Config{Level: "debug", Format: "text"}, false},
		{"valid console config", Config{Level: "warn", Format: "console"}, false},
		{"defaults", Config{}, false},
		{"invalid log level", Config{Level: "invalid", Format: "json"}, true},
		{"invalid format", Config{Level: "info", Format: "invalid"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.config.Writer = &bytes.Buffer{}
			logger, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && logger == nil {
				t.Error("New() returned nil logger")
			}
		})
	}
}

func TestLogger_Levels(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Level: "warn", Format: "text", Writer: buf})
	if err != nil {
		t.Fatal(err)
	}

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("messages below warn were logged: %s", out)
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Errorf("expected warn and error messages: %s", out)
	}
	if logger.Level() != slog.LevelWarn {
		t.Errorf("Level() = %v, want %v", logger.Level(), slog.LevelWarn)
	}
}

func TestLogger_JSONContextFields(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Level: "info", Format: "json", Writer: buf})
	if err != nil {
		t.Fatal(err)
	}

	ctx := WithRunID(context.Background(), "run-1")
	ctx = WithGrammar(ctx, "lang")
	ctx = WithCheckID(ctx, "check-7")

	logger.InfoContext(ctx, "tree validated", "ok", true)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v: %s", err, buf.String())
	}

	want := map[string]any{
		"msg":      "tree validated",
		"run_id":   "run-1",
		"grammar":  "lang",
		"check_id": "check-7",
		"ok":       true,
	}
	for key, value := range want {
		if entry[key] != value {
			t.Errorf("entry[%q] = %v, want %v", key, entry[key], value)
		}
	}
}

func TestLogger_SlogCarriesContextFields(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Level: "info", Format: "text", Writer: buf})
	if err != nil {
		t.Fatal(err)
	}

	ctx := WithRunID(context.Background(), "run-9")
	logger.Slog().With("component", "engine").InfoContext(ctx, "checked")

	out := buf.String()
	if !strings.Contains(out, "run_id=run-9") || !strings.Contains(out, "component=engine") {
		t.Errorf("expected run_id and component fields: %s", out)
	}
}

func TestLogger_With(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Level: "info", Format: "text", Writer: buf})
	if err != nil {
		t.Fatal(err)
	}

	logger.With("file", "a.yaml").Info("loaded")
	if !strings.Contains(buf.String(), "file=a.yaml") {
		t.Errorf("With() field missing: %s", buf.String())
	}

	buf.Reset()
	logger.WithContext(WithGrammar(context.Background(), "lang")).Info("bound")
	if !strings.Contains(buf.String(), "grammar=lang") {
		t.Errorf("WithContext() field missing: %s", buf.String())
	}

	if logger.WithContext(context.Background()) != logger {
		t.Error("WithContext() without fields should return the same logger")
	}
}

func TestLogger_ConsoleOmitsTime(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Level: "info", Format: "console", Writer: buf})
	if err != nil {
		t.Fatal(err)
	}

	logger.Info("hello")
	if strings.Contains(buf.String(), "time=") {
		t.Errorf("console output should not contain time: %s", buf.String())
	}
}

func TestNop(t *testing.T) {
	logger := Nop()
	logger.Error("nothing happens")
	if logger.Slog().Enabled(context.Background(), slog.LevelError) {
		t.Error("Nop logger should not be enabled at error level")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"trace", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		got, err := parseLevel(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestSetDefault(t *testing.T) {
	previous := slog.Default()
	defer slog.SetDefault(previous)

	var buf bytes.Buffer
	logger, err := New(Config{Level: "info", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	SetDefault(logger)

	ctx := WithRunID(context.Background(), "run-9")
	slog.Default().InfoContext(ctx, "via default")

	if !strings.Contains(buf.String(), `"run_id":"run-9"`) {
		t.Errorf("default logger output = %q, want run_id field", buf.String())
	}
}
