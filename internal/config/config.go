package config

import (
	"io"
	"os"
	"time"

	"github.com/ayoisaiah/timesheet/internal/timeutil"
)

type (
	// Config holds all configuration settings
	Config struct {
		Store         StoreConfig        `mapstructure:"store"`
		Display       DisplayConfig      `mapstructure:"display"`
		Log           LogConfig          `mapstructure:"log"`
		Settings      SettingsConfig     `mapstructure:"settings"`
		PathToConfig  string             `mapstructure:"-"`
		Notifications NotificationConfig `mapstructure:"notifications"`
	}

	// StoreConfig selects where and how the registry is persisted
	StoreConfig struct {
		Driver string `mapstructure:"driver"`
		// Path overrides the default store location for the driver.
		Path string `mapstructure:"path"`
		// StartFresh moves a corrupt store aside instead of failing.
		StartFresh bool `mapstructure:"start_fresh"`
	}

	// DisplayConfig holds display-related settings
	DisplayConfig struct {
		TimeFormat      string        `mapstructure:"time_format"`
		RefreshInterval time.Duration `mapstructure:"refresh_interval"`
		DarkTheme       bool          `mapstructure:"dark_theme"`
		TwentyFourHour  bool          `mapstructure:"twenty_four_hour"`
		NoColor         bool          `mapstructure:"-"`
	}

	// NotificationConfig holds notification settings
	NotificationConfig struct {
		Enabled bool `mapstructure:"enabled"`
	}

	// SettingsConfig holds miscellaneous settings
	SettingsConfig struct {
		// Cmd runs after every stop.
		Cmd string `mapstructure:"cmd"`
	}

	// LogConfig controls the rotated log file
	LogConfig struct {
		Level      string `mapstructure:"level"`
		MaxSizeMB  int    `mapstructure:"max_size_mb"`
		MaxBackups int    `mapstructure:"max_backups"`
	}

	// Option is a function that modifies Config
	Option func(*Config) error
)

const Version = "v1.0.0"

const twelveHourLayout = "2006-01-02 03:04:05 PM"

var (
	Stdin  io.Reader = os.Stdin
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

// New creates a new Config, applies options in order and validates the
// result.
func New(opts ...Option) (*Config, error) {
	cfg := &Config{}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, errConfigOption.Wrap(err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, errConfigValidation.Wrap(err)
	}

	return cfg, nil
}

// TimeLayout returns the layout used to display instants. The twelve hour
// clock only replaces the default layout, never a custom one.
func (c *Config) TimeLayout() string {
	if !c.Display.TwentyFourHour &&
		(c.Display.TimeFormat == timeutil.DefaultLayout ||
			c.Display.TimeFormat == "") {
		return twelveHourLayout
	}

	if c.Display.TimeFormat == "" {
		return timeutil.DefaultLayout
	}

	return c.Display.TimeFormat
}
