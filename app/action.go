package app

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/timesheet/internal/config"
	"github.com/ayoisaiah/timesheet/internal/dashboard"
	"github.com/ayoisaiah/timesheet/internal/logger"
	"github.com/ayoisaiah/timesheet/internal/models"
	"github.com/ayoisaiah/timesheet/internal/notify"
	"github.com/ayoisaiah/timesheet/internal/osutil"
	"github.com/ayoisaiah/timesheet/internal/pathutil"
	"github.com/ayoisaiah/timesheet/internal/timeutil"
	"github.com/ayoisaiah/timesheet/internal/tracker"
	"github.com/ayoisaiah/timesheet/internal/ui"
	"github.com/ayoisaiah/timesheet/store"
)

var noColorEnv = []string{"NO_COLOR", "TIMESHEET_NO_COLOR"}

// firstNonEmptyString returns its first non-empty argument, or "" if all
// arguments are empty.
func firstNonEmptyString(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}

	return ""
}

// session bundles what a command needs: the configuration, a logger and the
// location of the store.
type session struct {
	cfg       *config.Config
	logger    *slog.Logger
	logCloser io.Closer
	storePath string
}

func newSession(ctx *cli.Context) (*session, error) {
	if err := pathutil.Initialize(); err != nil {
		return nil, err
	}

	paths := pathutil.Must()

	configPath := firstNonEmptyString(
		ctx.String("config"),
		paths.ConfigFilePath(),
	)

	cfg, err := config.New(
		config.WithPromptConfig(configPath),
		config.WithViperConfig(configPath),
		config.WithCLIConfig(ctx),
	)
	if err != nil {
		return nil, err
	}

	ui.Configure(cfg.Display.DarkTheme, cfg.Display.NoColor)

	l, closer := logger.New(logger.Options{
		Path:       paths.LogFilePath(),
		Level:      cfg.Log.Level,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	})

	return &session{
		cfg:       cfg,
		logger:    l.With(slog.String("command", ctx.Command.Name)),
		logCloser: closer,
		storePath: firstNonEmptyString(
			cfg.Store.Path,
			paths.StorePath(cfg.Store.Driver),
		),
	}, nil
}

func (s *session) close() {
	_ = s.logCloser.Close()
}

// withTracker opens the store, runs fn and closes everything again.
func withTracker(
	ctx *cli.Context,
	fn func(s *session, t *tracker.Tracker) error,
) error {
	s, err := newSession(ctx)
	if err != nil {
		return err
	}

	defer s.close()

	db, err := store.Open(s.cfg.Store.Driver, s.storePath)
	if err != nil {
		return err
	}

	defer db.Close()

	notifier := notify.New(
		s.cfg.Notifications.Enabled,
		s.cfg.Settings.Cmd,
		s.logger,
	)

	t, err := tracker.New(
		db,
		tracker.WithLogger(s.logger),
		tracker.WithObserver(notifier.Observe),
		tracker.WithStartFresh(s.cfg.Store.StartFresh),
		tracker.WithTimeFormat(s.cfg.TimeLayout(), time.Local),
	)
	if err != nil {
		if errors.Is(err, models.ErrDataCorruption) {
			pterm.Info.Printfln(
				"%s could not be read. Run again with --start-fresh to move it aside and continue with no projects",
				s.storePath,
			)
		}

		return err
	}

	if aside := t.Quarantined(); aside != "" {
		pterm.Warning.Printfln("corrupt data was moved to %s", aside)
	}

	return fn(s, t)
}

// nameArgs returns exactly n positional arguments.
func nameArgs(ctx *cli.Context, n int) ([]string, error) {
	args := ctx.Args().Slice()
	if len(args) != n {
		return nil, errMissingArgs.Fmt(ctx.Command.Name, n, len(args))
	}

	return args, nil
}

func formatInstant(s *session, t time.Time) string {
	return timeutil.FormatInstant(t, s.cfg.TimeLayout(), time.Local)
}

func startAction(ctx *cli.Context) error {
	args, err := nameArgs(ctx, 1)
	if err != nil {
		return err
	}

	return withTracker(ctx, func(s *session, t *tracker.Tracker) error {
		p, err := t.Create(args[0])
		if err != nil {
			return err
		}

		pterm.Success.Printfln(
			"Started %s at %s",
			ui.Highlight(p.Name),
			formatInstant(s, p.Current().StartTime),
		)

		return nil
	})
}

func pauseAction(ctx *cli.Context) error {
	args, err := nameArgs(ctx, 1)
	if err != nil {
		return err
	}

	return withTracker(ctx, func(_ *session, t *tracker.Tracker) error {
		p, err := t.Pause(args[0])
		if err != nil {
			return err
		}

		pterm.Success.Printfln(
			"Paused %s after %s",
			ui.Highlight(p.Name),
			timeutil.FormatDuration(p.LiveElapsed(t.Now())),
		)

		return nil
	})
}

func unpauseAction(ctx *cli.Context) error {
	args, err := nameArgs(ctx, 1)
	if err != nil {
		return err
	}

	return withTracker(ctx, func(_ *session, t *tracker.Tracker) error {
		p, err := t.Unpause(args[0])
		if err != nil {
			return err
		}

		pterm.Success.Printfln(
			"%s is running again (paused for %s in this session)",
			ui.Highlight(p.Name),
			timeutil.FormatDuration(p.Current().TotalPausedTime),
		)

		return nil
	})
}

func resumeAction(ctx *cli.Context) error {
	args, err := nameArgs(ctx, 1)
	if err != nil {
		return err
	}

	return withTracker(ctx, func(s *session, t *tracker.Tracker) error {
		p, err := t.Resume(args[0])
		if err != nil {
			return err
		}

		pterm.Success.Printfln(
			"Started session %d of %s at %s",
			len(p.Sessions),
			ui.Highlight(p.Name),
			formatInstant(s, p.Current().StartTime),
		)

		return nil
	})
}

func stopAction(ctx *cli.Context) error {
	args, err := nameArgs(ctx, 1)
	if err != nil {
		return err
	}

	return withTracker(ctx, func(_ *session, t *tracker.Tracker) error {
		p, err := t.Stop(args[0])
		if err != nil {
			return err
		}

		last := p.Sessions[len(p.Sessions)-1]

		pterm.Success.Printfln(
			"Stopped %s. Session: %s, total: %s",
			ui.Highlight(p.Name),
			ui.Green(timeutil.FormatDuration(last.LapTime)),
			ui.Green(timeutil.FormatDuration(p.TotalTime)),
		)

		return nil
	})
}

func renameAction(ctx *cli.Context) error {
	args, err := nameArgs(ctx, 2)
	if err != nil {
		return err
	}

	return withTracker(ctx, func(_ *session, t *tracker.Tracker) error {
		p, err := t.Rename(args[0], args[1])
		if err != nil {
			return err
		}

		pterm.Success.Printfln("Renamed %s to %s", args[0], ui.Highlight(p.Name))

		return nil
	})
}

// importAction adds the projects of another store, such as a timesheet.json
// written by an earlier version.
func importAction(ctx *cli.Context) error {
	args, err := nameArgs(ctx, 1)
	if err != nil {
		return err
	}

	if _, err := os.Stat(args[0]); err != nil {
		return store.ErrPersistence.Fmt(args[0]).Wrap(err)
	}

	src, err := store.Open(ctx.String("from"), args[0])
	if err != nil {
		return err
	}

	defer src.Close()

	reg, err := src.Load()
	if err != nil {
		return err
	}

	return withTracker(ctx, func(_ *session, t *tracker.Tracker) error {
		n, err := t.Import(reg)
		if err != nil {
			return err
		}

		pterm.Success.Printfln("Imported %d project(s) from %s", n, args[0])

		return nil
	})
}

// watchAction shows the live view. It reads the store on every refresh and
// does not keep it open.
func watchAction(ctx *cli.Context) error {
	s, err := newSession(ctx)
	if err != nil {
		return err
	}

	defer s.close()

	return dashboard.Run(
		dashboard.FromStore(s.cfg.Store.Driver, s.storePath),
		dashboard.Options{
			Interval:  s.cfg.Display.RefreshInterval,
			DarkTheme: s.cfg.Display.DarkTheme,
		},
	)
}

// editConfigAction handles the edit-config command which opens the config
// file in the user's default text editor.
func editConfigAction(ctx *cli.Context) error {
	s, err := newSession(ctx)
	if err != nil {
		return err
	}

	defer s.close()

	defaultEditor := "nano"

	if runtime.GOOS == osutil.Windows {
		defaultEditor = "C:\\Windows\\system32\\notepad.exe"
	}

	editor := firstNonEmptyString(
		os.Getenv("VISUAL"),
		os.Getenv("EDITOR"),
		defaultEditor,
	)

	//nolint:gosec // the editor is chosen by the user
	cmd := exec.Command(editor, s.cfg.PathToConfig)

	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout

	return cmd.Run()
}

func beforeAction(ctx *cli.Context) error {
	// Override the default help template
	cli.AppHelpTemplate = helpText()

	pterm.Error.MessageStyle = pterm.NewStyle(pterm.FgRed)
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "ERROR",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}

	for _, key := range noColorEnv {
		if os.Getenv(key) != "" {
			ui.DisableStyling()
		}
	}

	if ctx.Bool("no-color") {
		ui.DisableStyling()
	}

	return nil
}
