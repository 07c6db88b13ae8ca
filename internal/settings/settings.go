// Package settings persists viewer preferences for the presentation layer:
// theme, font scale, minimap visibility, the last used search mode, and the
// window geometry. The file is JSON; a missing or unreadable file yields
// defaults rather than an error, and every loaded or merged value is clamped
// into its valid range.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	ThemeDark  = "dark"
	ThemeLight = "light"

	SearchModeFind   = "find"
	SearchModeFilter = "filter"

	minFontScale = 0.75
	maxFontScale = 2.25
	minWidth     = 640.0
	minHeight    = 420.0
)

// WindowState is the persisted window geometry. X, Y, and Maximized are
// pointers so "never positioned" survives round-trips.
type WindowState struct {
	Width     float64  `json:"width"`
	Height    float64  `json:"height"`
	X         *float64 `json:"x"`
	Y         *float64 `json:"y"`
	Maximized *bool    `json:"maximized"`
}

// Settings is the full persisted viewer state.
type Settings struct {
	Theme          string      `json:"theme"`
	FontScale      float64     `json:"fontScale"`
	MinimapVisible bool        `json:"minimapVisible"`
	LastSearchMode string      `json:"lastSearchMode"`
	WindowState    WindowState `json:"windowState"`
}

// Patch carries partial updates; nil fields are left untouched.
type Patch struct {
	Theme          *string           `json:"theme"`
	FontScale      *float64          `json:"fontScale"`
	MinimapVisible *bool             `json:"minimapVisible"`
	LastSearchMode *string           `json:"lastSearchMode"`
	WindowState    *WindowStatePatch `json:"windowState"`
}

type WindowStatePatch struct {
	Width     *float64 `json:"width"`
	Height    *float64 `json:"height"`
	X         *float64 `json:"x"`
	Y         *float64 `json:"y"`
	Maximized *bool    `json:"maximized"`
}

// Default returns the out-of-the-box viewer settings.
func Default() Settings {
	return Settings{
		Theme:          ThemeDark,
		FontScale:      1.0,
		MinimapVisible: true,
		LastSearchMode: SearchModeFind,
		WindowState:    WindowState{Width: 1280, Height: 820},
	}
}

// Load reads settings from path. A missing or unparseable file yields the
// defaults; whatever is read is sanitized before being returned.
func Load(path string) Settings {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Default()
	}
	var s Settings
	if err := json.Unmarshal(raw, &s); err != nil {
		return Default()
	}
	return sanitize(s)
}

// Save writes settings to path, creating parent directories as needed.
func Save(path string, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	data, err := json.MarshalIndent(sanitize(s), "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// Merge applies a patch onto current settings and returns the sanitized
// result. Unset patch fields leave the current values in place.
func Merge(current Settings, patch Patch) Settings {
	if patch.Theme != nil {
		current.Theme = *patch.Theme
	}
	if patch.FontScale != nil {
		current.FontScale = *patch.FontScale
	}
	if patch.MinimapVisible != nil {
		current.MinimapVisible = *patch.MinimapVisible
	}
	if patch.LastSearchMode != nil {
		current.LastSearchMode = *patch.LastSearchMode
	}
	if ws := patch.WindowState; ws != nil {
		if ws.Width != nil {
			current.WindowState.Width = *ws.Width
		}
		if ws.Height != nil {
			current.WindowState.Height = *ws.Height
		}
		if ws.X != nil {
			current.WindowState.X = ws.X
		}
		if ws.Y != nil {
			current.WindowState.Y = ws.Y
		}
		if ws.Maximized != nil {
			current.WindowState.Maximized = ws.Maximized
		}
	}
	return sanitize(current)
}

// sanitize clamps every field into its valid range. Unknown themes fall
// back to dark, unknown search modes to find.
func sanitize(s Settings) Settings {
	if s.Theme != ThemeLight {
		s.Theme = ThemeDark
	}
	if s.LastSearchMode != SearchModeFilter {
		s.LastSearchMode = SearchModeFind
	}
	s.FontScale = clamp(s.FontScale, minFontScale, maxFontScale)
	if s.WindowState.Width < minWidth {
		s.WindowState.Width = minWidth
	}
	if s.WindowState.Height < minHeight {
		s.WindowState.Height = minHeight
	}
	return s
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
