// Package models defines projects, their work sessions and pauses, and the
// transitions that move a project between the Stopped, Running and Paused
// states.
package models

import (
	"time"
)

// Status is the activity state of a project.
type Status string

const (
	Stopped Status = "Stopped"
	Running Status = "Running"
	Paused  Status = "Paused"
)

// Valid reports whether s is one of the known states.
func (s Status) Valid() bool {
	switch s {
	case Stopped, Running, Paused:
		return true
	}

	return false
}

// Active reports whether a project in this state has an open session.
func (s Status) Active() bool {
	return s == Running || s == Paused
}

// Pause is one contiguous interruption within a session. End is nil while the
// pause is ongoing.
type Pause struct {
	Start time.Time
	End   *time.Time
}

// Open reports whether the pause has not ended yet.
func (p *Pause) Open() bool {
	return p.End == nil
}

// Session is one contiguous span of work on a project, net of pauses. EndTime
// is nil while the session is open. LapTime is set once when the session is
// closed.
type Session struct {
	StartTime       time.Time
	EndTime         *time.Time
	Pauses          []Pause
	LapTime         time.Duration
	TotalPausedTime time.Duration
}

// Open reports whether the session has not been closed yet.
func (s *Session) Open() bool {
	return s.EndTime == nil
}

// OpenPause returns the ongoing pause of the session, if any.
func (s *Session) OpenPause() *Pause {
	if len(s.Pauses) == 0 {
		return nil
	}

	last := &s.Pauses[len(s.Pauses)-1]
	if !last.Open() {
		return nil
	}

	return last
}

// Project is a named unit of tracked work. TotalTime is the sum of LapTime
// over all closed sessions and excludes the open session.
type Project struct {
	Name      string
	Status    Status
	Sessions  []Session
	TotalTime time.Duration
}

// Current returns the open session of the project, if any.
func (p *Project) Current() *Session {
	if len(p.Sessions) == 0 {
		return nil
	}

	last := &p.Sessions[len(p.Sessions)-1]
	if !last.Open() {
		return nil
	}

	return last
}

// Clone returns a deep copy of the project.
func (p *Project) Clone() *Project {
	c := *p

	if p.Sessions != nil {
		c.Sessions = make([]Session, len(p.Sessions))

		for i := range p.Sessions {
			c.Sessions[i] = p.Sessions[i].clone()
		}
	}

	return &c
}

func (s *Session) clone() Session {
	c := *s
	c.EndTime = cloneTime(s.EndTime)

	if s.Pauses != nil {
		c.Pauses = make([]Pause, len(s.Pauses))

		for i, p := range s.Pauses {
			c.Pauses[i] = Pause{
				Start: p.Start,
				End:   cloneTime(p.End),
			}
		}
	}

	return c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}

	v := *t

	return &v
}
