package models

import "time"

// Transition names a ledger operation.
type Transition string

const (
	TransitionStart   Transition = "start"
	TransitionResume  Transition = "resume"
	TransitionPause   Transition = "pause"
	TransitionUnpause Transition = "unpause"
	TransitionStop    Transition = "stop"
)

// These methods are the only code that changes Status together with the
// session and pause lists. Each one checks its precondition before touching
// anything, so a failed call leaves the project unchanged. An instant earlier
// than the latest one already recorded is raised to it, so a clock that steps
// backwards yields zero length spans instead of negative ones.

// latest returns the most recent instant recorded on the project.
func (p *Project) latest() time.Time {
	if len(p.Sessions) == 0 {
		return time.Time{}
	}

	sess := &p.Sessions[len(p.Sessions)-1]
	t := sess.StartTime

	if sess.EndTime != nil && sess.EndTime.After(t) {
		t = *sess.EndTime
	}

	for i := range sess.Pauses {
		pause := &sess.Pauses[i]

		if pause.Start.After(t) {
			t = pause.Start
		}

		if pause.End != nil && pause.End.After(t) {
			t = *pause.End
		}
	}

	return t
}

func (p *Project) clamp(now time.Time) time.Time {
	if l := p.latest(); now.Before(l) {
		return l
	}

	return now
}

// Resume opens a new session on a stopped project.
func (p *Project) Resume(now time.Time) error {
	if p.Status != Stopped {
		return ErrInvalidTransition.Fmt(TransitionResume, p.Name, p.Status)
	}

	p.Sessions = append(p.Sessions, newSession(p.clamp(now)))
	p.Status = Running

	return nil
}

// Pause starts a pause in the open session of a running project.
func (p *Project) Pause(now time.Time) error {
	if p.Status != Running {
		return ErrInvalidTransition.Fmt(TransitionPause, p.Name, p.Status)
	}

	now = p.clamp(now)
	sess := p.Current()
	sess.Pauses = append(sess.Pauses, Pause{Start: now})
	p.Status = Paused

	return nil
}

// Unpause ends the ongoing pause of a paused project.
func (p *Project) Unpause(now time.Time) error {
	if p.Status != Paused {
		return ErrInvalidTransition.Fmt(TransitionUnpause, p.Name, p.Status)
	}

	p.Current().closePause(p.clamp(now))
	p.Status = Running

	return nil
}

// Stop closes the open session of a running or paused project and adds its
// lap time to the project total. A paused project has its pause closed first
// without passing through Running.
func (p *Project) Stop(now time.Time) (Session, error) {
	if !p.Status.Active() {
		return Session{}, ErrInvalidTransition.Fmt(
			TransitionStop,
			p.Name,
			p.Status,
		)
	}

	now = p.clamp(now)
	sess := p.Current()

	if p.Status == Paused {
		sess.closePause(now)
	}

	sess.close(now)

	p.TotalTime += sess.LapTime
	p.Status = Stopped

	return sess.clone(), nil
}

// LiveElapsed returns the elapsed time of the open session at now, or zero if
// the project is stopped.
func (p *Project) LiveElapsed(now time.Time) time.Duration {
	sess := p.Current()
	if sess == nil {
		return 0
	}

	d, _ := sess.Elapsed(now)

	return d
}

// LiveTotal is TotalTime plus the elapsed time of the open session.
func (p *Project) LiveTotal(now time.Time) time.Duration {
	return p.TotalTime + p.LiveElapsed(now)
}
