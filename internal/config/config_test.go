package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ManBinary != "man" || cfg.ColBinary != "col" {
		t.Errorf("binaries = %q, %q", cfg.ManBinary, cfg.ColBinary)
	}
	if cfg.ManWidth != 120 {
		t.Errorf("man width = %d, want 120", cfg.ManWidth)
	}
	if cfg.Addr != ":8080" || cfg.LogLevel != "info" {
		t.Errorf("addr/level = %q, %q", cfg.Addr, cfg.LogLevel)
	}
	if cfg.HistoryPath == "" || cfg.SettingsPath == "" {
		t.Errorf("state paths should have defaults: %+v", cfg)
	}
}

func TestLoadPartialFileFillsMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "man_width = 80\naddr = \":9090\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ManWidth != 80 {
		t.Errorf("man width = %d, want 80", cfg.ManWidth)
	}
	if cfg.Addr != ":9090" {
		t.Errorf("addr = %q, want :9090", cfg.Addr)
	}
	if cfg.ManBinary != "man" {
		t.Errorf("man binary default lost: %q", cfg.ManBinary)
	}
}

func TestLoadRejectsBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("man_width = ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestDefaultPathEnvOverride(t *testing.T) {
	t.Setenv("MANVIEWER_CONFIG_FILE", "/tmp/custom.toml")
	if got := DefaultPath(); got != "/tmp/custom.toml" {
		t.Errorf("DefaultPath = %q", got)
	}
}
