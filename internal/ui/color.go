package ui

import (
	"github.com/pterm/pterm"

	"github.com/ayoisaiah/timesheet/internal/models"
)

var DarkTheme bool

// Configure sets the theme and disables all styling when noColor is set.
func Configure(darkTheme, noColor bool) {
	DarkTheme = darkTheme

	if noColor {
		DisableStyling()
	}
}

// DisableStyling disables all styling provided by pterm.
func DisableStyling() {
	pterm.DisableColor()
	pterm.DisableStyling()
	pterm.Debug.Prefix.Text = ""
	pterm.Info.Prefix.Text = ""
	pterm.Success.Prefix.Text = ""
	pterm.Warning.Prefix.Text = ""
	pterm.Error.Prefix.Text = ""
	pterm.Fatal.Prefix.Text = ""
}

func Green(a any) string {
	if DarkTheme {
		return pterm.LightGreen(a)
	}

	return pterm.Green(a)
}

func Yellow(a any) string {
	if DarkTheme {
		return pterm.LightYellow(a)
	}

	return pterm.Yellow(a)
}

func Cyan(a any) string {
	if DarkTheme {
		return pterm.LightCyan(a)
	}

	return pterm.Cyan(a)
}

func Red(a any) string {
	if DarkTheme {
		return pterm.LightRed(a)
	}

	return pterm.Red(a)
}

func Highlight(a any) string {
	if DarkTheme {
		return pterm.LightWhite(a)
	}

	return pterm.Black(a)
}

// Status colours a project status.
func Status(s models.Status) string {
	switch s {
	case models.Running:
		return Green(s)
	case models.Paused:
		return Yellow(s)
	default:
		return Red(s)
	}
}
