package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ayoisaiah/timesheet/internal/models"
	"github.com/ayoisaiah/timesheet/internal/osutil"
	"github.com/ayoisaiah/timesheet/internal/timeutil"
)

// Header is the first row of every export.
var Header = []string{
	"Project Name",
	"Session",
	"Start Time",
	"End Time",
	"Lap Time (h:m:s)",
	"Total Time (h:m:s)",
	"Pauses",
}

const (
	// OpenSessionText replaces the end and lap time of an open session.
	OpenSessionText = "Running"
	// OngoingPauseText replaces the end of a pause that has not ended.
	OngoingPauseText = "Ongoing"
)

// ExportOptions controls how instants are rendered and which sessions are
// written.
type ExportOptions struct {
	Location *time.Location
	Filter   Filter
	Layout   string
}

func (o ExportOptions) instant(t time.Time) string {
	return timeutil.FormatInstant(t, o.Layout, o.Location)
}

func (o ExportOptions) pauses(sess *models.Session) string {
	entries := make([]string, len(sess.Pauses))

	for i, p := range sess.Pauses {
		end := OngoingPauseText
		if p.End != nil {
			end = o.instant(*p.End)
		}

		entries[i] = fmt.Sprintf("Start: %s, End: %s", o.instant(p.Start), end)
	}

	return strings.Join(entries, "; ")
}

// Write renders one CSV row per (project, session) pair, preceded by Header.
// Session numbers are 1-based and count every session of the project, even
// when the filter skips some of them.
func Write(w io.Writer, projects []*models.Project, opts ExportOptions) error {
	cw := csv.NewWriter(w)

	err := cw.Write(Header)
	if err != nil {
		return err
	}

	for _, p := range projects {
		total := timeutil.FormatDuration(p.TotalTime)

		for i := range p.Sessions {
			sess := &p.Sessions[i]

			if !opts.Filter.Includes(sess.StartTime) {
				continue
			}

			end, lap := OpenSessionText, OpenSessionText
			if !sess.Open() {
				end = opts.instant(*sess.EndTime)
				lap = timeutil.FormatDuration(sess.LapTime)
			}

			err = cw.Write([]string{
				p.Name,
				strconv.Itoa(i + 1),
				opts.instant(sess.StartTime),
				end,
				lap,
				total,
				opts.pauses(sess),
			})
			if err != nil {
				return err
			}
		}
	}

	cw.Flush()

	return cw.Error()
}

// ExportFile writes the export to path. The file is either written in full
// or not at all; failures are reported as ErrExport.
func ExportFile(
	path string,
	projects []*models.Project,
	opts ExportOptions,
) error {
	var buf bytes.Buffer

	err := Write(&buf, projects, opts)
	if err != nil {
		return ErrExport.Fmt(path).Wrap(err)
	}

	err = osutil.WriteFileAtomic(path, buf.Bytes(), 0o644)
	if err != nil {
		return ErrExport.Fmt(path).Wrap(err)
	}

	return nil
}
