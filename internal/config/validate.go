package config

import (
	"slices"
	"strings"
	"time"

	"github.com/ayoisaiah/timesheet/internal/logger"
	"github.com/ayoisaiah/timesheet/store"
)

var (
	// Refresh interval constraints for the live view.
	minRefreshInterval = 100 * time.Millisecond
	maxRefreshInterval = 1 * time.Minute
)

// Validate performs validation checks on the Config struct and its fields.
func (c *Config) Validate() error {
	if err := c.validateStore(); err != nil {
		return err
	}

	if err := c.validateDisplay(); err != nil {
		return err
	}

	return c.validateLog()
}

func (c *Config) validateStore() error {
	if !slices.Contains(store.Drivers, c.Store.Driver) {
		return store.ErrUnknownDriver.Fmt(c.Store.Driver)
	}

	return nil
}

func (c *Config) validateDisplay() error {
	if c.Display.RefreshInterval < minRefreshInterval ||
		c.Display.RefreshInterval > maxRefreshInterval {
		return errInvalidRefresh.Fmt(
			minRefreshInterval,
			maxRefreshInterval,
			c.Display.RefreshInterval,
		)
	}

	if strings.TrimSpace(c.Display.TimeFormat) == "" {
		return errEmptyTimeFormat
	}

	return nil
}

func (c *Config) validateLog() error {
	if !slices.Contains(logger.Levels, strings.ToLower(c.Log.Level)) {
		return errUnknownLogLevel.Fmt(
			c.Log.Level,
			strings.Join(logger.Levels, ", "),
		)
	}

	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 {
		return errInvalidLogRotation
	}

	return nil
}
