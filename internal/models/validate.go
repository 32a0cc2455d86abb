package models

import (
	"fmt"
	"time"
)

// lapTolerance absorbs rounding of persisted durations, per closed session.
const lapTolerance = time.Microsecond

func within(a, b, tolerance time.Duration) bool {
	d := a - b
	if d < 0 {
		d = -d
	}

	return d <= tolerance
}

// Validate checks the structural invariants of every project in the registry.
func (r *Registry) Validate() error {
	for key, p := range r.Projects {
		if key != p.Name {
			return ErrDataCorruption.Wrap(
				fmt.Errorf("project keyed %q is named %q", key, p.Name),
			)
		}

		if err := p.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// Validate checks that the status of the project agrees with its session and
// pause history and that the stored durations are consistent.
func (p *Project) Validate() error {
	fail := func(format string, args ...any) error {
		return ErrDataCorruption.Wrap(
			fmt.Errorf("project %q: "+format, append([]any{p.Name}, args...)...),
		)
	}

	if !p.Status.Valid() {
		return fail("unknown status %q", p.Status)
	}

	if p.TotalTime < 0 {
		return fail("negative total time")
	}

	var (
		sum    time.Duration
		closed int
	)

	for i := range p.Sessions {
		sess := &p.Sessions[i]
		last := i == len(p.Sessions)-1

		if sess.Open() && !last {
			return fail("session %d is open but is not the latest", i+1)
		}

		if err := sess.validate(); err != nil {
			return fail("session %d: %v", i+1, err)
		}

		if !sess.Open() {
			sum += sess.LapTime
			closed++
		}
	}

	if !within(p.TotalTime, sum, time.Duration(closed)*lapTolerance) {
		return fail("total time %v does not match session lap times %v", p.TotalTime, sum)
	}

	current := p.Current()

	switch p.Status {
	case Stopped:
		if current != nil {
			return fail("stopped but the latest session is open")
		}
	case Running:
		if current == nil {
			return fail("running without an open session")
		}

		if current.OpenPause() != nil {
			return fail("running with an ongoing pause")
		}
	case Paused:
		if current == nil {
			return fail("paused without an open session")
		}

		if current.OpenPause() == nil {
			return fail("paused without an ongoing pause")
		}
	}

	return nil
}

func (s *Session) validate() error {
	if s.TotalPausedTime < 0 {
		return fmt.Errorf("negative paused time")
	}

	var paused time.Duration

	for i := range s.Pauses {
		pause := &s.Pauses[i]

		if pause.End != nil {
			paused += pause.End.Sub(pause.Start)
		}

		if pause.Open() && i != len(s.Pauses)-1 {
			return fmt.Errorf("pause %d is ongoing but is not the latest", i+1)
		}

		if pause.End != nil && pause.End.Before(pause.Start) {
			return fmt.Errorf("pause %d ends before it starts", i+1)
		}

		if pause.Start.Before(s.StartTime) {
			return fmt.Errorf("pause %d starts before the session", i+1)
		}
	}

	// each instant and each stored duration may be off by half a microsecond
	pauseTolerance := time.Duration(len(s.Pauses)+1) * lapTolerance

	if !within(s.TotalPausedTime, paused, pauseTolerance) {
		return fmt.Errorf(
			"paused time %v does not match its pauses %v",
			s.TotalPausedTime,
			paused,
		)
	}

	if s.Open() {
		return nil
	}

	if s.EndTime.Before(s.StartTime) {
		return fmt.Errorf("ends before it starts")
	}

	if s.OpenPause() != nil {
		return fmt.Errorf("closed with an ongoing pause")
	}

	if s.LapTime < 0 {
		return fmt.Errorf("negative lap time")
	}

	span := s.EndTime.Sub(s.StartTime) - s.TotalPausedTime
	if !within(s.LapTime, span, 2*lapTolerance) {
		return fmt.Errorf("lap time %v does not match %v worked", s.LapTime, span)
	}

	return nil
}
