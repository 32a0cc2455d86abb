// Package tracker owns the in-memory project registry. Every change goes
// through one mutex, is applied to a copy, saved, and only then published.
package tracker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/davecgh/go-spew/spew"

	"github.com/ayoisaiah/timesheet/internal/logger"
	"github.com/ayoisaiah/timesheet/internal/models"
	"github.com/ayoisaiah/timesheet/internal/timeutil"
	"github.com/ayoisaiah/timesheet/store"
)

// Op names a change applied through the tracker.
type Op string

const (
	OpStart   Op = Op(models.TransitionStart)
	OpResume  Op = Op(models.TransitionResume)
	OpPause   Op = Op(models.TransitionPause)
	OpUnpause Op = Op(models.TransitionUnpause)
	OpStop    Op = Op(models.TransitionStop)
	OpDelete  Op = "delete"
	OpRename  Op = "rename"
	OpClear   Op = "clear"
	OpImport  Op = "import"
)

// Event describes a change after it has been saved.
type Event struct {
	At time.Time
	// Session is the session closed by OpStop.
	Session *models.Session
	Op      Op
	// Previous is the former name for OpRename.
	Previous string
	Project  models.Project
}

// Observer is notified of every saved change. Observers run after the lock
// is released, in registration order.
type Observer func(Event)

type (
	Option func(*Tracker)

	// Tracker serializes all reads and writes of the registry.
	Tracker struct {
		db          store.DB
		reg         *models.Registry
		clock       func() time.Time
		logger      *slog.Logger
		observers   []Observer
		layout      string
		location    *time.Location
		quarantined string
		startFresh  bool
		mu          sync.RWMutex
	}
)

// WithClock replaces the source of the current time.
func WithClock(clock func() time.Time) Option {
	return func(t *Tracker) {
		t.clock = clock
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) {
		t.logger = l
	}
}

func WithObserver(o Observer) Option {
	return func(t *Tracker) {
		t.observers = append(t.observers, o)
	}
}

// WithStartFresh moves a corrupt store aside and continues with an empty
// registry instead of failing.
func WithStartFresh(enabled bool) Option {
	return func(t *Tracker) {
		t.startFresh = enabled
	}
}

// WithTimeFormat sets the layout and location of instants in exports.
func WithTimeFormat(layout string, loc *time.Location) Option {
	return func(t *Tracker) {
		t.layout = layout
		t.location = loc
	}
}

// New loads the registry from db. A corrupt store is reported as
// models.ErrDataCorruption unless WithStartFresh is set.
func New(db store.DB, opts ...Option) (*Tracker, error) {
	t := &Tracker{
		db:       db,
		clock:    timeutil.Now,
		logger:   logger.Discard(),
		layout:   timeutil.DefaultLayout,
		location: time.Local,
	}

	for _, opt := range opts {
		opt(t)
	}

	reg, err := db.Load()
	if err != nil {
		if !errors.Is(err, models.ErrDataCorruption) || !t.startFresh {
			t.logger.Error("loading registry failed",
				slog.String("path", db.Path()),
				slog.Any("error", err),
			)

			return nil, err
		}

		aside, qerr := db.Quarantine()
		if qerr != nil {
			return nil, errors.Join(err, qerr)
		}

		t.logger.Warn("corrupt registry moved aside",
			slog.String("path", db.Path()),
			slog.String("moved_to", aside),
			slog.Any("error", err),
		)

		t.quarantined = aside
		reg = models.NewRegistry()
	}

	t.reg = reg

	if t.logger.Enabled(context.Background(), slog.LevelDebug) {
		t.logger.Debug("registry loaded",
			slog.String("path", db.Path()),
			slog.String("dump", spew.Sdump(reg)),
		)
	}

	return t, nil
}

// Quarantined returns where corrupt data was moved when the tracker was
// opened, or an empty string.
func (t *Tracker) Quarantined() string {
	return t.quarantined
}

// Now returns the current time according to the tracker's clock.
func (t *Tracker) Now() time.Time {
	return t.clock()
}

// mutate applies fn to a copy of the registry, validates it and saves it.
// The copy replaces the live registry only after a successful save.
func (t *Tracker) mutate(
	op Op,
	fn func(reg *models.Registry, now time.Time) (Event, error),
) (Event, error) {
	ev, err := t.apply(op, fn)
	if err != nil {
		return ev, err
	}

	for _, o := range t.observers {
		o(ev)
	}

	return ev, nil
}

func (t *Tracker) apply(
	op Op,
	fn func(reg *models.Registry, now time.Time) (Event, error),
) (Event, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock()
	next := t.reg.Clone()

	ev, err := fn(next, now)
	if err != nil {
		t.logger.Debug("operation rejected",
			slog.String("op", string(op)),
			slog.Any("error", err),
		)

		return Event{}, err
	}

	err = next.Validate()
	if err != nil {
		t.logger.Error("refusing to save an invalid registry",
			slog.String("op", string(op)),
			slog.Any("error", err),
		)

		return Event{}, err
	}

	err = t.db.Save(next)
	if err != nil {
		t.logger.Error("saving registry failed",
			slog.String("op", string(op)),
			slog.String("path", t.db.Path()),
			slog.Any("error", err),
		)

		return Event{}, err
	}

	t.reg = next

	ev.Op = op
	ev.At = now

	t.logger.Info("registry updated",
		slog.String("op", string(op)),
		slog.String("project", ev.Project.Name),
		slog.String("status", string(ev.Project.Status)),
	)

	return ev, nil
}

// transition runs one ledger transition against the named project.
func (t *Tracker) transition(
	op Op,
	name string,
	fn func(p *models.Project, now time.Time) (*models.Session, error),
) (models.Project, error) {
	ev, err := t.mutate(
		op,
		func(reg *models.Registry, now time.Time) (Event, error) {
			p, err := reg.Get(name)
			if err != nil {
				return Event{}, err
			}

			sess, err := fn(p, now)
			if err != nil {
				return Event{}, err
			}

			return Event{Project: *p.Clone(), Session: sess}, nil
		},
	)

	return ev.Project, err
}

// Create adds a project and starts its first session.
func (t *Tracker) Create(name string) (models.Project, error) {
	ev, err := t.mutate(
		OpStart,
		func(reg *models.Registry, now time.Time) (Event, error) {
			p, err := reg.Create(name, now)
			if err != nil {
				return Event{}, err
			}

			return Event{Project: *p.Clone()}, nil
		},
	)

	return ev.Project, err
}

// Resume starts a new session on a stopped project.
func (t *Tracker) Resume(name string) (models.Project, error) {
	return t.transition(
		OpResume,
		name,
		func(p *models.Project, now time.Time) (*models.Session, error) {
			return nil, p.Resume(now)
		},
	)
}

func (t *Tracker) Pause(name string) (models.Project, error) {
	return t.transition(
		OpPause,
		name,
		func(p *models.Project, now time.Time) (*models.Session, error) {
			return nil, p.Pause(now)
		},
	)
}

// Unpause ends the ongoing pause of a paused project.
func (t *Tracker) Unpause(name string) (models.Project, error) {
	return t.transition(
		OpUnpause,
		name,
		func(p *models.Project, now time.Time) (*models.Session, error) {
			return nil, p.Unpause(now)
		},
	)
}

// Stop closes the open session. The closed session is the last element of
// the returned project's sessions.
func (t *Tracker) Stop(name string) (models.Project, error) {
	return t.transition(
		OpStop,
		name,
		func(p *models.Project, now time.Time) (*models.Session, error) {
			sess, err := p.Stop(now)
			if err != nil {
				return nil, err
			}

			return &sess, nil
		},
	)
}

// Delete removes a project in any state and returns it as it was.
func (t *Tracker) Delete(name string) (models.Project, error) {
	ev, err := t.mutate(
		OpDelete,
		func(reg *models.Registry, _ time.Time) (Event, error) {
			p, err := reg.Delete(name)
			if err != nil {
				return Event{}, err
			}

			return Event{Project: *p}, nil
		},
	)

	return ev.Project, err
}

func (t *Tracker) Rename(oldName, newName string) (models.Project, error) {
	ev, err := t.mutate(
		OpRename,
		func(reg *models.Registry, _ time.Time) (Event, error) {
			p, err := reg.Rename(oldName, newName)
			if err != nil {
				return Event{}, err
			}

			return Event{Project: *p.Clone(), Previous: oldName}, nil
		},
	)

	return ev.Project, err
}

// Clear removes every project.
func (t *Tracker) Clear() error {
	_, err := t.mutate(
		OpClear,
		func(reg *models.Registry, _ time.Time) (Event, error) {
			clear(reg.Projects)
			return Event{}, nil
		},
	)

	return err
}

// Import adds every project of src. Nothing is imported if src is invalid or
// any of its names is already taken.
func (t *Tracker) Import(src *models.Registry) (int, error) {
	err := src.Validate()
	if err != nil {
		return 0, err
	}

	_, err = t.mutate(
		OpImport,
		func(reg *models.Registry, _ time.Time) (Event, error) {
			for _, p := range src.List() {
				if _, taken := reg.Projects[p.Name]; taken {
					return Event{}, models.ErrAlreadyExists.Fmt(p.Name)
				}
			}

			for _, p := range src.List() {
				reg.Projects[p.Name] = p.Clone()
			}

			return Event{}, nil
		},
	)
	if err != nil {
		return 0, err
	}

	return src.Len(), nil
}
