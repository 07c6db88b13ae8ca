// Package config loads the viewer's application configuration. Everything
// has a sensible default, so a missing config file is not an error.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds host-level knobs: which binaries render pages, how wide to
// render them, and where the viewer keeps its state.
type Config struct {
	ManBinary    string `toml:"man_binary"`
	ColBinary    string `toml:"col_binary"`
	ManWidth     int    `toml:"man_width"`
	HistoryPath  string `toml:"history_path"`
	SettingsPath string `toml:"settings_path"`
	Addr         string `toml:"addr"`
	LogLevel     string `toml:"log_level"`
}

// DefaultPath returns the config file location, honoring the
// MANVIEWER_CONFIG_FILE override.
func DefaultPath() string {
	if path := os.Getenv("MANVIEWER_CONFIG_FILE"); path != "" {
		return path
	}
	return filepath.Join(stateDir(), "config.toml")
}

func stateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "manviewer")
	}
	return ".manviewer"
}

// Load reads TOML config from path. A missing file yields pure defaults.
func Load(path string) (*Config, error) {
	cfg := defaults()

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.fillMissing()
	return &cfg, nil
}

func defaults() Config {
	return Config{
		ManBinary:    "man",
		ColBinary:    "col",
		ManWidth:     120,
		HistoryPath:  filepath.Join(stateDir(), "history.db"),
		SettingsPath: filepath.Join(stateDir(), "viewer-settings.json"),
		Addr:         ":8080",
		LogLevel:     "info",
	}
}

// fillMissing restores defaults for fields the file set to empty values.
func (c *Config) fillMissing() {
	d := defaults()
	if c.ManBinary == "" {
		c.ManBinary = d.ManBinary
	}
	if c.ColBinary == "" {
		c.ColBinary = d.ColBinary
	}
	if c.ManWidth <= 0 {
		c.ManWidth = d.ManWidth
	}
	if c.HistoryPath == "" {
		c.HistoryPath = d.HistoryPath
	}
	if c.SettingsPath == "" {
		c.SettingsPath = d.SettingsPath
	}
	if c.Addr == "" {
		c.Addr = d.Addr
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
}
