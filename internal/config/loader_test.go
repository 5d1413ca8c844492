package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadWritesDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, resolved, err := Load(nil, path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if resolved != path {
		t.Fatalf("resolved path = %q, want %q", resolved, path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config not written: %v", err)
	}

	def := Default()
	if cfg.Addr != def.Addr || cfg.MaxFileSize != def.MaxFileSize || cfg.SweepPeriod != def.SweepPeriod {
		t.Fatalf("loaded config diverges from defaults: %+v", cfg)
	}
}

func TestLoadReadsExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
addr: ":9999"
max_file_size: 42
sweep_period: 10s
allowed_origins:
  - "https://app.example"
log_level: debug
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, err := Load(nil, path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Addr != ":9999" {
		t.Fatalf("addr = %q", cfg.Addr)
	}
	if cfg.MaxFileSize != 42 {
		t.Fatalf("max_file_size = %d", cfg.MaxFileSize)
	}
	if cfg.SweepPeriod != 10*time.Second {
		t.Fatalf("sweep_period = %v", cfg.SweepPeriod)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "https://app.example" {
		t.Fatalf("allowed_origins = %v", cfg.AllowedOrigins)
	}
	// Unset keys keep their defaults.
	if cfg.ShutdownTimeout != Default().ShutdownTimeout {
		t.Fatalf("shutdown_timeout = %v", cfg.ShutdownTimeout)
	}
}
