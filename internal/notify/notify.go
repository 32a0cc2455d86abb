// Package notify reacts to saved tracker changes with a desktop notification
// and a user-configured command
package notify

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/adrg/xdg"
	"github.com/gen2brain/beeep"
	"github.com/kballard/go-shellquote"
	"github.com/pterm/pterm"

	"github.com/ayoisaiah/timesheet/internal/apperr"
	"github.com/ayoisaiah/timesheet/internal/logger"
	"github.com/ayoisaiah/timesheet/internal/pathutil"
	"github.com/ayoisaiah/timesheet/internal/timeutil"
	"github.com/ayoisaiah/timesheet/internal/tracker"
)

const (
	EnvProject    = "TIMESHEET_PROJECT"
	EnvLapSeconds = "TIMESHEET_LAP_SECONDS"
)

var errParseCmd = &apperr.Error{
	Message: "unable to parse settings.cmd option %q",
}

// Notifier handles stop events.
type Notifier struct {
	logger *slog.Logger
	// notify and run are replaced in tests.
	notify  func(title, message, icon string) error
	run     func(cmd *exec.Cmd) error
	iconDir string
	cmd     string
	enabled bool
}

// New returns a notifier. Desktop notifications are shown only when enabled
// is set; cmd runs after every stop when it is not empty.
func New(enabled bool, cmd string, l *slog.Logger) *Notifier {
	if l == nil {
		l = logger.Discard()
	}

	n := &Notifier{
		logger:  l,
		run:     (*exec.Cmd).Run,
		iconDir: pathutil.Dir(),
		cmd:     cmd,
		enabled: enabled,
	}

	n.notify = func(title, message, icon string) error {
		return beeep.Notify(title, message, icon)
	}

	return n
}

// Observe is a tracker.Observer.
func (n *Notifier) Observe(ev tracker.Event) {
	if ev.Op != tracker.OpStop || ev.Session == nil {
		return
	}

	if n.enabled {
		n.showNotification(ev)
	}

	err := n.runCmd(ev)
	if err != nil {
		n.logger.Error("settings.cmd failed",
			slog.String("cmd", n.cmd),
			slog.Any("error", err),
		)

		pterm.Warning.Printfln("post-stop command failed: %v", err)
	}
}

func (n *Notifier) showNotification(ev tracker.Event) {
	title := fmt.Sprintf("%s stopped", ev.Project.Name)
	msg := fmt.Sprintf(
		"Session: %s, total: %s",
		timeutil.FormatDuration(ev.Session.LapTime),
		timeutil.FormatDuration(ev.Project.TotalTime),
	)

	// pathToIcon will be an empty string if file is not found
	pathToIcon, _ := xdg.SearchDataFile(
		filepath.Join(n.iconDir, "static", "icon.png"),
	)

	err := n.notify(title, msg, pathToIcon)
	if err != nil {
		n.logger.Warn("desktop notification failed", slog.Any("error", err))
	}
}

// command builds the configured command for a stop event. It returns nil
// when no command is configured.
func (n *Notifier) command(ev tracker.Event) (*exec.Cmd, error) {
	if n.cmd == "" {
		return nil, nil
	}

	cmdSlice, err := shellquote.Split(n.cmd)
	if err != nil {
		return nil, errParseCmd.Fmt(n.cmd).Wrap(err)
	}

	if len(cmdSlice) == 0 {
		return nil, nil
	}

	//nolint:gosec // the command comes from the user's own config file
	cmd := exec.Command(cmdSlice[0], cmdSlice[1:]...)
	cmd.Env = append(
		os.Environ(),
		EnvProject+"="+ev.Project.Name,
		EnvLapSeconds+"="+strconv.FormatFloat(
			timeutil.DurationToSeconds(ev.Session.LapTime),
			'f',
			-1,
			64,
		),
	)

	return cmd, nil
}

func (n *Notifier) runCmd(ev tracker.Event) error {
	cmd, err := n.command(ev)
	if err != nil || cmd == nil {
		return err
	}

	return n.run(cmd)
}
