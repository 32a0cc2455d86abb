package app

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/timesheet/internal/config"
	"github.com/ayoisaiah/timesheet/internal/models"
	"github.com/ayoisaiah/timesheet/internal/tracker"
	"github.com/ayoisaiah/timesheet/internal/ui"
)

// confirm asks a yes/no question unless --force was passed.
func confirm(ctx *cli.Context, title string) error {
	if ctx.Bool("force") {
		return nil
	}

	if !config.Interactive() {
		return errConfirmRequired.Fmt(ctx.Command.Name)
	}

	var ok bool

	err := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	if err != nil {
		return err
	}

	if !ok {
		return errAborted
	}

	return nil
}

// deleteAction removes a project in any state. The open session of a
// running project is discarded with it.
func deleteAction(ctx *cli.Context) error {
	args, err := nameArgs(ctx, 1)
	if err != nil {
		return err
	}

	return withTracker(ctx, func(_ *session, t *tracker.Tracker) error {
		p, err := t.Project(args[0])
		if err != nil {
			return err
		}

		title := fmt.Sprintf(
			"Delete %s and its %d session(s)?",
			p.Name,
			len(p.Sessions),
		)

		if p.Status != models.Stopped {
			title = fmt.Sprintf(
				"%s is %s. Delete it and its %d session(s)?",
				p.Name,
				p.Status,
				len(p.Sessions),
			)
		}

		if err := confirm(ctx, title); err != nil {
			return err
		}

		if _, err := t.Delete(p.Name); err != nil {
			return err
		}

		pterm.Success.Printfln("Deleted %s", ui.Highlight(p.Name))

		return nil
	})
}

func clearAction(ctx *cli.Context) error {
	return withTracker(ctx, func(_ *session, t *tracker.Tracker) error {
		n := len(t.Projects())
		if n == 0 {
			pterm.Info.Println("There are no projects to delete")
			return nil
		}

		err := confirm(ctx, fmt.Sprintf("Delete all %d project(s)?", n))
		if err != nil {
			return err
		}

		if err := t.Clear(); err != nil {
			return err
		}

		pterm.Success.Printfln("Deleted %d project(s)", n)

		return nil
	})
}
