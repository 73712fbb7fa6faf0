package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func resetSingleton() {
	configMutex.Lock()
	globalConfig = nil
	configMutex.Unlock()
	initOnce = sync.Once{}
}

func TestInitialize(t *testing.T) {
	resetSingleton()
	t.Cleanup(resetSingleton)

	path := filepath.Join(t.TempDir(), "arbor.yaml")
	if err := os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	if err := Initialize(path); err != nil {
		t.Fatalf("failed to initialize config: %v", err)
	}

	cfg := GetConfig()
	if cfg == nil {
		t.Fatal("expected non-nil config after initialization")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected logging level %q, got %q", "debug", cfg.Logging.Level)
	}

	// Subsequent calls are ignored.
	if err := Initialize(""); err != nil {
		t.Fatalf("second Initialize() failed: %v", err)
	}
	if GetConfig().Logging.Level != "debug" {
		t.Error("second Initialize() replaced the configuration")
	}
}

func TestInitialize_Error(t *testing.T) {
	resetSingleton()
	t.Cleanup(resetSingleton)

	if err := Initialize(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
	if GetConfig() != nil {
		t.Error("expected nil config after failed initialization")
	}
}

func TestSetConfigAndReload(t *testing.T) {
	resetSingleton()
	t.Cleanup(resetSingleton)

	SetConfig(Default())
	if MustGetConfig().Logging.Level != DefaultLoggingLevel {
		t.Errorf("unexpected config after SetConfig: %+v", GetConfig().Logging)
	}

	path := filepath.Join(t.TempDir(), "arbor.yaml")
	if err := os.WriteFile(path, []byte("logging:\n  level: error\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := ReloadConfig(path); err != nil {
		t.Fatalf("ReloadConfig() failed: %v", err)
	}
	if GetConfig().Logging.Level != "error" {
		t.Errorf("expected reloaded level %q, got %q", "error", GetConfig().Logging.Level)
	}

	if err := os.WriteFile(path, []byte("logging:\n  level: loud\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := ReloadConfig(path); err == nil {
		t.Error("expected reload of invalid config to fail")
	}
	if GetConfig().Logging.Level != "error" {
		t.Error("failed reload replaced the configuration")
	}
}

func TestMustGetConfig_Panics(t *testing.T) {
	resetSingleton()
	t.Cleanup(resetSingleton)

	defer func() {
		if recover() == nil {
			t.Error("expected panic when configuration is not initialized")
		}
	}()
	MustGetConfig()
}
