package tracker

import (
	"time"

	"github.com/ayoisaiah/timesheet/internal/models"
	"github.com/ayoisaiah/timesheet/report"
)

func copies(projects []*models.Project) []models.Project {
	out := make([]models.Project, len(projects))

	for i, p := range projects {
		out[i] = *p.Clone()
	}

	return out
}

// Projects returns copies of every project in natural name order.
func (t *Tracker) Projects() []models.Project {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return copies(t.reg.List())
}

func (t *Tracker) Project(name string) (models.Project, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	p, err := t.reg.Get(name)
	if err != nil {
		return models.Project{}, err
	}

	return *p.Clone(), nil
}

// Active returns the running and paused projects.
func (t *Tracker) Active() []models.Project {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var active []*models.Project

	for _, p := range t.reg.List() {
		if p.Status.Active() {
			active = append(active, p)
		}
	}

	return copies(active)
}

// LiveElapsed returns the elapsed time of the project's open session at now.
// It is zero for a stopped project and frozen while the project is paused.
func (t *Tracker) LiveElapsed(name string, now time.Time) (time.Duration, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	p, err := t.reg.Get(name)
	if err != nil {
		return 0, err
	}

	return p.LiveElapsed(now), nil
}

// Summary aggregates the totals of every project.
func (t *Tracker) Summary(filter report.Filter) report.Summary {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return report.Summarize(t.reg.List(), t.clock(), filter)
}

// Export writes the per-session CSV report to path.
func (t *Tracker) Export(path string, filter report.Filter) error {
	t.mu.RLock()
	defer t.mu.RUnlock()

	err := report.ExportFile(path, t.reg.List(), report.ExportOptions{
		Location: t.location,
		Filter:   filter,
		Layout:   t.layout,
	})
	if err != nil {
		t.logger.Error("export failed", "path", path, "error", err)
		return err
	}

	t.logger.Info("exported report", "path", path)

	return nil
}
