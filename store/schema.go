package store

import (
	"encoding/json"
	"time"

	"github.com/ayoisaiah/timesheet/internal/models"
	"github.com/ayoisaiah/timesheet/internal/timeutil"
)

// document is the persisted shape of a registry. Instants are seconds since
// the Unix epoch and durations are seconds, both with microsecond precision.
type document struct {
	Projects map[string]projectDoc `json:"projects"`
}

type projectDoc struct {
	Status    string       `json:"status"`
	Sessions  []sessionDoc `json:"sessions"`
	TotalTime float64      `json:"total_time"`
}

type sessionDoc struct {
	EndTime         *float64   `json:"end_time"`
	Pauses          []pauseDoc `json:"pauses"`
	StartTime       float64    `json:"start_time"`
	LapTime         float64    `json:"lap_time"`
	TotalPausedTime float64    `json:"total_paused_time"`
}

type pauseDoc struct {
	PauseEnd   *float64 `json:"pause_end"`
	PauseStart float64  `json:"pause_start"`
}

func secondsPtr(t *time.Time) *float64 {
	if t == nil {
		return nil
	}

	v := timeutil.ToSeconds(*t)

	return &v
}

func timePtr(secs *float64) *time.Time {
	if secs == nil {
		return nil
	}

	v := timeutil.FromSeconds(*secs)

	return &v
}

func toDocument(reg *models.Registry) document {
	doc := document{
		Projects: make(map[string]projectDoc, reg.Len()),
	}

	for name, p := range reg.Projects {
		pd := projectDoc{
			Status:    string(p.Status),
			Sessions:  make([]sessionDoc, len(p.Sessions)),
			TotalTime: timeutil.DurationToSeconds(p.TotalTime),
		}

		for i := range p.Sessions {
			sess := &p.Sessions[i]

			sd := sessionDoc{
				StartTime:       timeutil.ToSeconds(sess.StartTime),
				EndTime:         secondsPtr(sess.EndTime),
				LapTime:         timeutil.DurationToSeconds(sess.LapTime),
				TotalPausedTime: timeutil.DurationToSeconds(sess.TotalPausedTime),
				Pauses:          make([]pauseDoc, len(sess.Pauses)),
			}

			for j, pause := range sess.Pauses {
				sd.Pauses[j] = pauseDoc{
					PauseStart: timeutil.ToSeconds(pause.Start),
					PauseEnd:   secondsPtr(pause.End),
				}
			}

			pd.Sessions[i] = sd
		}

		doc.Projects[name] = pd
	}

	return doc
}

func fromDocument(doc document) *models.Registry {
	reg := models.NewRegistry()

	for name, pd := range doc.Projects {
		p := &models.Project{
			Name:      name,
			Status:    models.Status(pd.Status),
			Sessions:  make([]models.Session, len(pd.Sessions)),
			TotalTime: timeutil.SecondsToDuration(pd.TotalTime),
		}

		for i, sd := range pd.Sessions {
			sess := models.Session{
				StartTime:       timeutil.FromSeconds(sd.StartTime),
				EndTime:         timePtr(sd.EndTime),
				LapTime:         timeutil.SecondsToDuration(sd.LapTime),
				TotalPausedTime: timeutil.SecondsToDuration(sd.TotalPausedTime),
				Pauses:          make([]models.Pause, len(sd.Pauses)),
			}

			for j, pd := range sd.Pauses {
				sess.Pauses[j] = models.Pause{
					Start: timeutil.FromSeconds(pd.PauseStart),
					End:   timePtr(pd.PauseEnd),
				}
			}

			p.Sessions[i] = sess
		}

		reg.Projects[name] = p
	}

	return reg
}

// encode serialises the registry into the persisted document format.
func encode(reg *models.Registry) ([]byte, error) {
	return json.MarshalIndent(toDocument(reg), "", "  ")
}

// decode parses and validates a persisted document. Any failure is reported
// as models.ErrDataCorruption.
func decode(data []byte) (*models.Registry, error) {
	var doc document

	err := json.Unmarshal(data, &doc)
	if err != nil {
		return nil, models.ErrDataCorruption.Wrap(err)
	}

	reg := fromDocument(doc)

	err = reg.Validate()
	if err != nil {
		return nil, err
	}

	return reg, nil
}
