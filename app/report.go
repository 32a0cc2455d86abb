package app

import (
	"slices"
	"strconv"
	"time"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/timesheet/internal/config"
	"github.com/ayoisaiah/timesheet/internal/timeutil"
	"github.com/ayoisaiah/timesheet/internal/tracker"
	"github.com/ayoisaiah/timesheet/internal/ui"
	"github.com/ayoisaiah/timesheet/report"
)

type reportJSON struct {
	Projects          []projectJSON `json:"projects"`
	GrandTotalSeconds float64       `json:"grand_total_seconds"`
	GrandLiveSeconds  float64       `json:"grand_live_seconds"`
}

// parseFilter builds the reporting window from --period, --since and
// --until. --since and --until replace the matching bound of the period.
func parseFilter(ctx *cli.Context, now func() time.Time) (report.Filter, error) {
	var f report.Filter

	if period := ctx.String("period"); period != "" {
		p := timeutil.Period(period)
		if !slices.Contains(timeutil.PeriodCollection, p) {
			return f, errInvalidPeriod.Fmt(period, periods())
		}

		if p != timeutil.PeriodAllTime {
			f.Since, f.Until = timeutil.PeriodRange(p, now())
		}
	}

	for _, name := range []string{"since", "until"} {
		v := ctx.String(name)
		if v == "" {
			continue
		}

		t, err := timeutil.FromStr(v, now())
		if err != nil {
			return f, errInvalidDate.Fmt(name, v).Wrap(err)
		}

		if name == "since" {
			f.Since = t
		} else {
			f.Until = t
		}
	}

	if !f.Since.IsZero() && !f.Until.IsZero() && f.Since.After(f.Until) {
		return f, errInvalidWindow.Fmt(
			f.Since.Format(timeutil.DefaultLayout),
			f.Until.Format(timeutil.DefaultLayout),
		)
	}

	return f, nil
}

func reportAction(ctx *cli.Context) error {
	return withTracker(ctx, func(_ *session, t *tracker.Tracker) error {
		filter, err := parseFilter(ctx, t.Now)
		if err != nil {
			return err
		}

		sum := t.Summary(filter)

		if ctx.Bool("json") {
			out := reportJSON{
				Projects:          make([]projectJSON, 0, len(sum.Lines)),
				GrandTotalSeconds: timeutil.DurationToSeconds(sum.GrandTotal),
				GrandLiveSeconds:  timeutil.DurationToSeconds(sum.GrandLive),
			}

			for _, l := range sum.Lines {
				out.Projects = append(out.Projects, projectJSON{
					Name:         l.Project,
					Status:       string(l.Status),
					TotalSeconds: timeutil.DurationToSeconds(l.Total),
					LiveSeconds:  timeutil.DurationToSeconds(l.Live),
					Sessions:     l.Sessions,
				})
			}

			return printJSON(out)
		}

		if len(sum.Lines) == 0 {
			pterm.Info.Println("Nothing to report")
			return nil
		}

		data := [][]string{
			{"Project", "Status", "Sessions", "Total", "Including current"},
		}

		for _, l := range sum.Lines {
			data = append(data, []string{
				l.Project,
				ui.Status(l.Status),
				strconv.Itoa(l.Sessions),
				timeutil.FormatDuration(l.Total),
				timeutil.FormatDuration(l.Total + l.Live),
			})
		}

		data = append(data, []string{
			"Grand total", "", "",
			timeutil.FormatDuration(sum.GrandTotal),
			timeutil.FormatDuration(sum.GrandLive),
		})

		ui.PrintTableWithFooter(data, config.Stdout)

		return nil
	})
}

func exportAction(ctx *cli.Context) error {
	args, err := nameArgs(ctx, 1)
	if err != nil {
		return err
	}

	return withTracker(ctx, func(_ *session, t *tracker.Tracker) error {
		filter, err := parseFilter(ctx, t.Now)
		if err != nil {
			return err
		}

		if err := t.Export(args[0], filter); err != nil {
			return err
		}

		pterm.Success.Printfln("Exported sessions to %s", args[0])

		return nil
	})
}
