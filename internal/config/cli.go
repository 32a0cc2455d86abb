package config

import (
	"os"
	"strings"

	"github.com/urfave/cli/v2"
)

// CLIOptions represents command-line configuration options.
type CLIOptions struct {
	Driver     string
	StorePath  string
	StartFresh bool
	NoColor    bool
}

// noColorEnv disables styling when any of these is set to a non-empty value.
var noColorEnv = []string{"NO_COLOR", "TIMESHEET_NO_COLOR"}

// WithCLIConfig returns an Option that loads configuration from CLI flags.
func WithCLIConfig(ctx *cli.Context) Option {
	return func(c *Config) error {
		opts := CLIOptions{
			Driver:     ctx.String("store"),
			StorePath:  ctx.String("db"),
			StartFresh: ctx.Bool("start-fresh"),
			NoColor:    ctx.Bool("no-color"),
		}

		return applyCLIOptions(c, opts)
	}
}

// applyCLIOptions applies CLI options to the config.
func applyCLIOptions(c *Config, opts CLIOptions) error {
	if opts.Driver != "" {
		c.Store.Driver = strings.ToLower(strings.TrimSpace(opts.Driver))
	}

	if opts.StorePath != "" {
		c.Store.Path = opts.StorePath
	}

	if opts.StartFresh {
		c.Store.StartFresh = true
	}

	c.Display.NoColor = opts.NoColor

	for _, key := range noColorEnv {
		if os.Getenv(key) != "" {
			c.Display.NoColor = true
		}
	}

	return nil
}
