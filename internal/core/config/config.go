// Package config handles configuration loading and validation for widgets.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/widgets/internal/core/styles"
)

// Position is the screen corner or edge the toast stack is anchored to.
type Position string

// Supported toast positions.
const (
	PositionTopLeft      Position = "top-left"
	PositionTopCenter    Position = "top-center"
	PositionTopRight     Position = "top-right"
	PositionBottomLeft   Position = "bottom-left"
	PositionBottomCenter Position = "bottom-center"
	PositionBottomRight  Position = "bottom-right"
)

// Positions returns every supported position.
func Positions() []Position {
	return []Position{
		PositionTopLeft, PositionTopCenter, PositionTopRight,
		PositionBottomLeft, PositionBottomCenter, PositionBottomRight,
	}
}

// IsValid reports whether p is a supported position.
func (p Position) IsValid() bool {
	for _, v := range Positions() {
		if p == v {
			return true
		}
	}
	return false
}

// Top reports whether the stack grows down from the top edge.
func (p Position) Top() bool {
	switch p {
	case PositionTopLeft, PositionTopCenter, PositionTopRight:
		return true
	}
	return false
}

// Config holds the application configuration.
type Config struct {
	Notifications NotificationsConfig `yaml:"notifications"`
	Table         TableConfig         `yaml:"table"`
	TUI           TUIConfig           `yaml:"tui"`
	Database      DatabaseConfig      `yaml:"database"`
	DataDir       string              `yaml:"-"` // set by caller, not from config file
}

// NotificationsConfig holds toast queue settings.
type NotificationsConfig struct {
	DefaultTimeout time.Duration `yaml:"default_timeout"` // 0 keeps toasts until dismissed
	MaxVisible     int           `yaml:"max_visible"`     // 0 = unbounded
	Position       Position      `yaml:"position"`
	History        *bool         `yaml:"history"` // record toasts to the history database
}

// HistoryEnabled reports whether toasts are recorded. Defaults to true.
func (n NotificationsConfig) HistoryEnabled() bool {
	return n.History == nil || *n.History
}

// TableConfig holds data table settings.
type TableConfig struct {
	PageSize   int `yaml:"page_size"`
	PageWindow int `yaml:"page_window"` // page buttons shown around the current page
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme string `yaml:"theme"` // one of styles.ThemeNames()
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Notifications: NotificationsConfig{
			DefaultTimeout: 4 * time.Second,
			MaxVisible:     5,
			Position:       PositionBottomRight,
		},
		Table: TableConfig{
			PageSize:   10,
			PageWindow: 5,
		},
		TUI: TUIConfig{
			Theme: styles.DefaultTheme,
		},
		Database: DatabaseConfig{
			BusyTimeout: 5 * time.Second,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for unset options. Zero is meaningful for
// default_timeout and max_visible, so only empty strings and sizes are filled.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Notifications.Position == "" {
		c.Notifications.Position = defaults.Notifications.Position
	}
	if c.Table.PageSize == 0 {
		c.Table.PageSize = defaults.Table.PageSize
	}
	if c.Table.PageWindow == 0 {
		c.Table.PageWindow = defaults.Table.PageWindow
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = defaults.Database.BusyTimeout
	}
}
