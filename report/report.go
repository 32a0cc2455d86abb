// Package report aggregates tracked time across projects and exports
// per-session detail
package report

import (
	"time"

	"github.com/ayoisaiah/timesheet/internal/apperr"
	"github.com/ayoisaiah/timesheet/internal/models"
)

var ErrExport = &apperr.Error{
	Message: "exporting report to %s failed",
}

// Filter restricts a report to sessions that started within [Since, Until].
// A zero bound is open.
type Filter struct {
	Since time.Time
	Until time.Time
}

// IsZero reports whether the filter is unbounded.
func (f Filter) IsZero() bool {
	return f.Since.IsZero() && f.Until.IsZero()
}

// Includes reports whether an instant falls within the filter.
func (f Filter) Includes(t time.Time) bool {
	if !f.Since.IsZero() && t.Before(f.Since) {
		return false
	}

	if !f.Until.IsZero() && t.After(f.Until) {
		return false
	}

	return true
}

// Line is the summary of a single project.
type Line struct {
	Project string
	Status  models.Status
	// Total is the accumulated time of closed sessions. It never includes
	// the open session.
	Total time.Duration
	// Live is the elapsed time of the open session at the time the summary
	// was computed.
	Live     time.Duration
	Sessions int
}

// Summary holds the per-project totals and the grand total across projects.
type Summary struct {
	Lines      []Line
	GrandTotal time.Duration
	// GrandLive is GrandTotal plus the live time of every open session.
	GrandLive time.Duration
}

// Summarize computes the totals of the given projects. Without a filter a
// project's total is exactly its TotalTime. With a filter only closed sessions
// that started within the window are counted.
func Summarize(
	projects []*models.Project,
	now time.Time,
	filter Filter,
) Summary {
	var s Summary

	for _, p := range projects {
		line := Line{
			Project: p.Name,
			Status:  p.Status,
		}

		if filter.IsZero() {
			line.Total = p.TotalTime
			line.Sessions = len(p.Sessions)
		} else {
			for i := range p.Sessions {
				sess := &p.Sessions[i]
				if !filter.Includes(sess.StartTime) {
					continue
				}

				line.Sessions++

				if !sess.Open() {
					line.Total += sess.LapTime
				}
			}
		}

		if cur := p.Current(); cur != nil && filter.Includes(cur.StartTime) {
			line.Live = p.LiveElapsed(now)
		}

		s.Lines = append(s.Lines, line)
		s.GrandTotal += line.Total
		s.GrandLive += line.Total + line.Live
	}

	return s
}
