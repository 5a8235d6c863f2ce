package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a Config with all required fields set for testing.
func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.DataDir = t.TempDir()
	return &cfg
}

func fieldNames(t *testing.T, err error) []string {
	t.Helper()
	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)

	names := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		names[i] = fe.Field
	}
	return names
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig(t).Validate())
}

func TestValidate_Fields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"empty data dir", func(c *Config) { c.DataDir = "" }, "data_dir"},
		{"negative timeout", func(c *Config) { c.Notifications.DefaultTimeout = -1 }, "notifications.default_timeout"},
		{"negative max visible", func(c *Config) { c.Notifications.MaxVisible = -3 }, "notifications.max_visible"},
		{"bad position", func(c *Config) { c.Notifications.Position = "middle" }, "notifications.position"},
		{"zero page size", func(c *Config) { c.Table.PageSize = 0 }, "table.page_size"},
		{"zero page window", func(c *Config) { c.Table.PageWindow = 0 }, "table.page_window"},
		{"unknown theme", func(c *Config) { c.TUI.Theme = "solarized" }, "tui.theme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)

			assert.Equal(t, []string{tt.field}, fieldNames(t, cfg.Validate()))
		})
	}
}

func TestValidate_ReportsAllErrors(t *testing.T) {
	cfg := validConfig(t)
	cfg.Notifications.Position = "nowhere"
	cfg.Table.PageSize = -1
	cfg.TUI.Theme = "nope"

	assert.ElementsMatch(t,
		[]string{"notifications.position", "table.page_size", "tui.theme"},
		fieldNames(t, cfg.Validate()),
	)
}

func TestValidateDeep_ConfigFileIsDirectory(t *testing.T) {
	cfg := validConfig(t)

	err := cfg.ValidateDeep(t.TempDir())
	assert.Equal(t, []string{"config_file"}, fieldNames(t, err))
}

func TestValidateDeep_DataDirIsFile(t *testing.T) {
	cfg := validConfig(t)
	file := filepath.Join(cfg.DataDir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	cfg.DataDir = file

	err := cfg.ValidateDeep("")
	assert.Equal(t, []string{"data_dir"}, fieldNames(t, err))
}

func TestValidateDeep_MissingPathsAreFine(t *testing.T) {
	cfg := validConfig(t)
	cfg.DataDir = filepath.Join(cfg.DataDir, "not-yet")

	assert.NoError(t, cfg.ValidateDeep(filepath.Join(cfg.DataDir, "config.yaml")))
}
