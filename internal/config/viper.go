package config

import (
	"errors"
	"os"

	"github.com/spf13/viper"

	"github.com/ayoisaiah/timesheet/internal/timeutil"
	"github.com/ayoisaiah/timesheet/store"
)

// viperKeys defines the mapping between config keys and their Viper counterparts.
const (
	keyStoreDriver          = "store.driver"
	keyStorePath            = "store.path"
	keyStoreStartFresh      = "store.start_fresh"
	keyDarkTheme            = "display.dark_theme"
	keyTwentyFourHour       = "display.twenty_four_hour"
	keyRefreshInterval      = "display.refresh_interval"
	keyTimeFormat           = "display.time_format"
	keyNotificationsEnabled = "notifications.enabled"
	keySessionCmd           = "settings.cmd"
	keyLogLevel             = "log.level"
	keyLogMaxSize           = "log.max_size_mb"
	keyLogMaxBackups        = "log.max_backups"
)

// WithViperConfig returns an Option that loads configuration from Viper.
// The defaults are written to configPath if the file does not exist.
func WithViperConfig(configPath string) Option {
	return func(c *Config) error {
		v := viper.New()

		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		setupViper(v, c)

		err := v.ReadInConfig()
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return errReadConfig.Wrap(err)
			}

			if err := v.WriteConfig(); err != nil {
				return errWriteConfig.Wrap(err)
			}
		}

		c.PathToConfig = configPath

		return loadViperConfig(v, c)
	}
}

// setupViper configures Viper with defaults and any values chosen during
// the first-run prompt.
func setupViper(v *viper.Viper, c *Config) {
	v.SetDefault(keyStoreDriver, store.DriverJSON)
	v.SetDefault(keyStorePath, "")
	v.SetDefault(keyStoreStartFresh, false)
	v.SetDefault(keyDarkTheme, true)
	v.SetDefault(keyTwentyFourHour, true)
	v.SetDefault(keyRefreshInterval, "1s")
	v.SetDefault(keyTimeFormat, timeutil.DefaultLayout)
	v.SetDefault(keyNotificationsEnabled, false)
	v.SetDefault(keySessionCmd, "")
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyLogMaxSize, 10)
	v.SetDefault(keyLogMaxBackups, 3)

	if c.Store.Driver != "" {
		v.SetDefault(keyStoreDriver, c.Store.Driver)
		v.SetDefault(keyNotificationsEnabled, c.Notifications.Enabled)
		v.SetDefault(keyDarkTheme, c.Display.DarkTheme)
	}
}

// loadViperConfig loads configuration from Viper into the Config struct.
func loadViperConfig(v *viper.Viper, c *Config) error {
	if err := v.Unmarshal(c); err != nil {
		return errDecodeConfig.Wrap(err)
	}

	return nil
}
