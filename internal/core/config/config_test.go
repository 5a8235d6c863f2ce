package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	dataDir := t.TempDir()

	cfg, err := Load(filepath.Join(dataDir, "nope.yaml"), dataDir)
	require.NoError(t, err)

	want := DefaultConfig()
	want.DataDir = dataDir
	assert.Equal(t, want, *cfg)
	assert.True(t, cfg.Notifications.HistoryEnabled())
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 4*time.Second, cfg.Notifications.DefaultTimeout)
}

func TestLoad_OverridesAndDefaults(t *testing.T) {
	path := writeConfig(t, `
notifications:
  default_timeout: 2500ms
  max_visible: 0
  position: top-center
  history: false
table:
  page_size: 25
tui:
  theme: gruvbox
`)
	dataDir := t.TempDir()

	cfg, err := Load(path, dataDir)
	require.NoError(t, err)

	assert.Equal(t, dataDir, cfg.DataDir, "data dir is not read from the file")
	assert.Equal(t, 2500*time.Millisecond, cfg.Notifications.DefaultTimeout)
	assert.Equal(t, 0, cfg.Notifications.MaxVisible, "zero means unbounded and is kept")
	assert.Equal(t, PositionTopCenter, cfg.Notifications.Position)
	assert.False(t, cfg.Notifications.HistoryEnabled())
	assert.Equal(t, 25, cfg.Table.PageSize)
	assert.Equal(t, 5, cfg.Table.PageWindow, "unset values fall back to defaults")
	assert.Equal(t, "gruvbox", cfg.TUI.Theme)
	assert.Equal(t, 5*time.Second, cfg.Database.BusyTimeout)
}

func TestLoad_ParseError(t *testing.T) {
	path := writeConfig(t, "notifications: [unterminated")

	_, err := Load(path, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestLoad_InvalidConfig(t *testing.T) {
	path := writeConfig(t, "notifications:\n  position: middle\n")

	_, err := Load(path, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
	assert.Contains(t, err.Error(), "notifications.position")
}

func TestPosition(t *testing.T) {
	for _, p := range Positions() {
		assert.True(t, p.IsValid(), p)
	}
	assert.False(t, Position("center").IsValid())
	assert.False(t, Position("").IsValid())

	assert.True(t, PositionTopLeft.Top())
	assert.False(t, PositionBottomCenter.Top())
}
