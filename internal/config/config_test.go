package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Store.Backend != BackendFlatFile {
		t.Errorf("default backend = %q, want %q", cfg.Store.Backend, BackendFlatFile)
	}
	if cfg.Store.FilePath != "tasks.txt" {
		t.Errorf("default tasks file = %q, want tasks.txt", cfg.Store.FilePath)
	}
	if cfg.Context.ShutdownTimeout != 15*time.Second {
		t.Errorf("default shutdown timeout = %v", cfg.Context.ShutdownTimeout)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "carrier-pigeon")

	if _, err := Load(); err == nil {
		t.Error("expected an error for an unknown store backend")
	}
}

func TestDurationFromSeconds(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "30")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Context.ShutdownTimeout != 30*time.Second {
		t.Errorf("timeout = %v, want 30s", cfg.Context.ShutdownTimeout)
	}
}
