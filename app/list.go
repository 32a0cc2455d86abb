package app

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/timesheet/internal/config"
	"github.com/ayoisaiah/timesheet/internal/models"
	"github.com/ayoisaiah/timesheet/internal/timeutil"
	"github.com/ayoisaiah/timesheet/internal/tracker"
	"github.com/ayoisaiah/timesheet/internal/ui"
)

type projectJSON struct {
	Name         string  `json:"name"`
	Status       string  `json:"status"`
	TotalSeconds float64 `json:"total_seconds"`
	LiveSeconds  float64 `json:"live_seconds"`
	Sessions     int     `json:"sessions"`
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(config.Stdout, string(b))

	return err
}

// listAction prints every project with its accumulated time. The total of a
// running project excludes the open session, which is shown separately.
func listAction(ctx *cli.Context) error {
	return withTracker(ctx, func(_ *session, t *tracker.Tracker) error {
		projects := t.Projects()
		now := t.Now()

		if ctx.Bool("json") {
			out := make([]projectJSON, 0, len(projects))

			for i := range projects {
				p := &projects[i]
				out = append(out, projectJSON{
					Name:         p.Name,
					Status:       string(p.Status),
					TotalSeconds: timeutil.DurationToSeconds(p.TotalTime),
					LiveSeconds:  timeutil.DurationToSeconds(p.LiveElapsed(now)),
					Sessions:     len(p.Sessions),
				})
			}

			return printJSON(out)
		}

		if len(projects) == 0 {
			pterm.Info.Println("No projects yet. Create one with 'timesheet start NAME'")
			return nil
		}

		data := [][]string{{"#", "Project", "Status", "Sessions", "Total"}}

		var grand time.Duration

		for i := range projects {
			p := &projects[i]
			grand += p.TotalTime

			data = append(data, []string{
				strconv.Itoa(i + 1),
				p.Name,
				ui.Status(p.Status),
				strconv.Itoa(len(p.Sessions)),
				timeutil.FormatDuration(p.TotalTime),
			})
		}

		data = append(data, []string{
			"", "Total", "", "", timeutil.FormatDuration(grand),
		})

		ui.PrintTableWithFooter(data, config.Stdout)

		return nil
	})
}

// statusAction prints the running and paused projects with the elapsed time
// of their open session.
func statusAction(ctx *cli.Context) error {
	return withTracker(ctx, func(s *session, t *tracker.Tracker) error {
		active := t.Active()
		if len(active) == 0 {
			pterm.Info.Println("No project is running")
			return nil
		}

		now := t.Now()

		for i := range active {
			p := &active[i]
			elapsed := timeutil.FormatDuration(p.LiveElapsed(now))

			if p.Status == models.Paused {
				elapsed += " " + ui.Yellow("(Paused)")
			}

			fmt.Fprintf(
				config.Stdout,
				"%s: %s since %s\n",
				ui.Highlight(p.Name),
				elapsed,
				ui.Cyan(formatInstant(s, p.Current().StartTime)),
			)
		}

		return nil
	})
}

// sessionsAction prints every session of one project.
func sessionsAction(ctx *cli.Context) error {
	args, err := nameArgs(ctx, 1)
	if err != nil {
		return err
	}

	return withTracker(ctx, func(s *session, t *tracker.Tracker) error {
		p, err := t.Project(args[0])
		if err != nil {
			return err
		}

		if len(p.Sessions) == 0 {
			pterm.Info.Printfln("%s has no sessions", p.Name)
			return nil
		}

		now := t.Now()

		data := [][]string{{"#", "Start", "End", "Pauses", "Paused", "Duration"}}

		for i := range p.Sessions {
			sess := &p.Sessions[i]

			end := ui.Green("Running")
			duration := sess.LapTime
			paused := sess.TotalPausedTime

			if sess.Open() {
				duration, _ = sess.Elapsed(now)

				if open := sess.OpenPause(); open != nil {
					end = ui.Yellow("Paused")
					paused += now.Sub(open.Start)
				}
			} else {
				end = formatInstant(s, *sess.EndTime)
			}

			data = append(data, []string{
				strconv.Itoa(i + 1),
				formatInstant(s, sess.StartTime),
				end,
				strconv.Itoa(len(sess.Pauses)),
				timeutil.FormatDuration(paused),
				timeutil.FormatDuration(duration),
			})
		}

		data = append(data, []string{
			"", "", "", "", "Total",
			timeutil.FormatDuration(p.LiveTotal(now)),
		})

		ui.PrintTableWithFooter(data, config.Stdout)

		return nil
	})
}
