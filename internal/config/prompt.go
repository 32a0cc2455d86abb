package config

import (
	"errors"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"github.com/ayoisaiah/timesheet/store"
)

const asciiLogo = `
▀█▀ █ █▀▄▀█ █▀▀ █▀ █ █ █▀▀ █▀▀ ▀█▀
 █  █ █ ▀ █ ██▄ ▄█ █▀█ ██▄ ██▄  █ `

// PromptOptions holds the user's responses to the configuration prompts.
type PromptOptions struct {
	Driver        string
	Notifications bool
	DarkTheme     bool
}

// WithPromptConfig returns an Option that asks for the main settings when no
// config file exists yet. Nothing is asked when stdin is not a terminal.
func WithPromptConfig(configPath string) Option {
	return func(c *Config) error {
		_, err := os.Stat(configPath)
		if err == nil || !errors.Is(err, os.ErrNotExist) {
			return err
		}

		if !Interactive() {
			return nil
		}

		opts, err := promptUser()
		if err != nil {
			return err
		}

		applyPromptOptions(c, opts)

		return nil
	}
}

// Interactive reports whether Stdin is a terminal.
func Interactive() bool {
	return isTerminal(Stdin)
}

func isTerminal(r any) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}

	info, err := f.Stat()
	if err != nil {
		return false
	}

	return info.Mode()&os.ModeCharDevice != 0
}

// promptUser handles the interactive configuration process.
func promptUser() (PromptOptions, error) {
	opts := PromptOptions{
		Driver:    store.DriverJSON,
		DarkTheme: true,
	}

	pterm.Println(asciiLogo)

	_ = putils.BulletListFromString(`Follow the prompts below to configure Timesheet for the first time.
Select your preferred value, or press ENTER to accept the defaults.
Edit the config file with 'timesheet edit-config' to change any settings.`, " ").
		Render()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Where should your timesheet be stored?").
				Options(
					huh.NewOption("JSON file", store.DriverJSON).Selected(true),
					huh.NewOption("BoltDB (locked against concurrent use)", store.DriverBolt),
					huh.NewOption("SQLite", store.DriverSQLite),
				).
				Value(&opts.Driver),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Show a desktop notification when a project is stopped?").
				Value(&opts.Notifications),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Is your terminal using a dark theme?").
				Value(&opts.DarkTheme),
		),
	)

	if err := form.Run(); err != nil {
		return opts, err
	}

	return opts, nil
}

// applyPromptOptions applies the user's prompt responses to the configuration.
func applyPromptOptions(c *Config, opts PromptOptions) {
	c.Store.Driver = opts.Driver
	c.Notifications.Enabled = opts.Notifications
	c.Display.DarkTheme = opts.DarkTheme
}
