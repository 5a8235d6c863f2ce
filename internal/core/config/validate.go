package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/widgets/internal/core/styles"
)

// Validate checks that the configuration is structurally valid. All problems
// are reported together as criterio.FieldErrors.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("data_dir", c.DataDir, notEmpty),
		c.validateNotifications(),
		c.validateTable(),
		criterio.Run("tui.theme", c.TUI.Theme, isTheme),
		criterio.Run("database.busy_timeout", c.Database.BusyTimeout.Milliseconds(), nonNegative),
	)
}

// ValidateDeep runs Validate and then the checks that touch the filesystem.
// An empty configPath skips the config file check.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
}

func (c *Config) validateNotifications() error {
	var errs criterio.FieldErrorsBuilder

	n := c.Notifications
	if n.DefaultTimeout < 0 {
		errs = errs.Append("notifications.default_timeout", fmt.Errorf("must not be negative, got %s", n.DefaultTimeout))
	}
	if n.MaxVisible < 0 {
		errs = errs.Append("notifications.max_visible", fmt.Errorf("must not be negative, got %d", n.MaxVisible))
	}
	if !n.Position.IsValid() {
		errs = errs.Append("notifications.position", fmt.Errorf("invalid position %q, want one of %v", n.Position, Positions()))
	}

	return errs.ToError()
}

func (c *Config) validateTable() error {
	var errs criterio.FieldErrorsBuilder

	if c.Table.PageSize < 1 {
		errs = errs.Append("table.page_size", fmt.Errorf("must be at least 1, got %d", c.Table.PageSize))
	}
	if c.Table.PageWindow < 1 {
		errs = errs.Append("table.page_window", fmt.Errorf("must be at least 1, got %d", c.Table.PageWindow))
	}

	return errs.ToError()
}

func notEmpty(s string) error {
	if s == "" {
		return errors.New("cannot be empty")
	}
	return nil
}

func nonNegative(n int64) error {
	if n < 0 {
		return fmt.Errorf("must not be negative, got %d", n)
	}
	return nil
}

func isTheme(name string) error {
	if _, ok := styles.GetPalette(name); !ok {
		return fmt.Errorf("unknown theme %q, want one of %v", name, styles.ThemeNames())
	}
	return nil
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}
