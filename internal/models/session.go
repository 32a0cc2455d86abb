package models

import "time"

// Elapsed returns the net worked time of an open session at now. While the
// session is paused the value is frozen at the start of the ongoing pause.
// Closed sessions report ErrSessionClosed since their LapTime is final.
func (s *Session) Elapsed(now time.Time) (time.Duration, error) {
	if !s.Open() {
		return 0, ErrSessionClosed
	}

	until := now
	if p := s.OpenPause(); p != nil {
		until = p.Start
	}

	return until.Sub(s.StartTime) - s.TotalPausedTime, nil
}

// closePause ends the ongoing pause at now and accumulates its duration.
func (s *Session) closePause(now time.Time) {
	p := s.OpenPause()
	if p == nil {
		return
	}

	end := now
	p.End = &end

	s.TotalPausedTime += end.Sub(p.Start)
}

// close ends the session at now and freezes its lap time.
func (s *Session) close(now time.Time) {
	end := now
	s.EndTime = &end

	s.LapTime = end.Sub(s.StartTime) - s.TotalPausedTime
}

func newSession(now time.Time) Session {
	return Session{
		StartTime: now,
		Pauses:    []Pause{},
	}
}
