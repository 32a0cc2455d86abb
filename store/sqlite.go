package store

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ayoisaiah/timesheet/internal/models"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS projects (
    name TEXT PRIMARY KEY,
    status TEXT NOT NULL CHECK(status IN ('Stopped', 'Running', 'Paused')),
    total_time INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions (
    project TEXT NOT NULL,
    idx INTEGER NOT NULL,
    start_time INTEGER NOT NULL,
    end_time INTEGER,
    lap_time INTEGER NOT NULL,
    total_paused_time INTEGER NOT NULL,
    PRIMARY KEY (project, idx),
    FOREIGN KEY (project) REFERENCES projects(name)
);

CREATE TABLE IF NOT EXISTS pauses (
    project TEXT NOT NULL,
    session_idx INTEGER NOT NULL,
    idx INTEGER NOT NULL,
    pause_start INTEGER NOT NULL,
    pause_end INTEGER,
    PRIMARY KEY (project, session_idx, idx),
    FOREIGN KEY (project, session_idx) REFERENCES sessions(project, idx)
);
`

// SQLiteClient stores the registry in normalised SQLite tables. Instants are
// microseconds since the Unix epoch and durations are microseconds. A save
// replaces every row inside one transaction.
type SQLiteClient struct {
	db   *sql.DB
	path string
}

func openSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// pragmas apply per connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return db, nil
}

// NewSQLiteClient opens or creates the database at path. ":memory:" is
// accepted for an ephemeral store.
func NewSQLiteClient(path string) (*SQLiteClient, error) {
	if path == "" {
		return nil, ErrPersistence.Fmt("sqlite store").Wrap(
			errors.New("no file path configured"),
		)
	}

	if path != ":memory:" {
		err := os.MkdirAll(filepath.Dir(path), dirMode)
		if err != nil {
			return nil, ErrPersistence.Fmt(path).Wrap(err)
		}
	}

	db, err := openSQLite(path)
	if err != nil {
		return nil, ErrPersistence.Fmt(path).Wrap(err)
	}

	return &SQLiteClient{db: db, path: path}, nil
}

func (c *SQLiteClient) Path() string {
	return c.path
}

func nullMicros(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}

	return sql.NullInt64{Int64: t.UnixMicro(), Valid: true}
}

func fromNullMicros(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}

	t := time.UnixMicro(v.Int64)

	return &t
}

func (c *SQLiteClient) Save(reg *models.Registry) error {
	err := c.save(reg)
	if err != nil {
		return ErrPersistence.Fmt(c.path).Wrap(err)
	}

	return nil
}

func (c *SQLiteClient) save(reg *models.Registry) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}

	//nolint:errcheck // rollback after commit is a no-op
	defer tx.Rollback()

	for _, table := range []string{"pauses", "sessions", "projects"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return err
		}
	}

	for _, p := range reg.List() {
		_, err = tx.Exec(
			"INSERT INTO projects (name, status, total_time) VALUES (?, ?, ?)",
			p.Name, string(p.Status), p.TotalTime.Microseconds(),
		)
		if err != nil {
			return err
		}

		for i := range p.Sessions {
			sess := &p.Sessions[i]

			_, err = tx.Exec(
				`INSERT INTO sessions
				(project, idx, start_time, end_time, lap_time, total_paused_time)
				VALUES (?, ?, ?, ?, ?, ?)`,
				p.Name,
				i,
				sess.StartTime.UnixMicro(),
				nullMicros(sess.EndTime),
				sess.LapTime.Microseconds(),
				sess.TotalPausedTime.Microseconds(),
			)
			if err != nil {
				return err
			}

			for j, pause := range sess.Pauses {
				_, err = tx.Exec(
					`INSERT INTO pauses
					(project, session_idx, idx, pause_start, pause_end)
					VALUES (?, ?, ?, ?, ?)`,
					p.Name,
					i,
					j,
					pause.Start.UnixMicro(),
					nullMicros(pause.End),
				)
				if err != nil {
					return err
				}
			}
		}
	}

	return tx.Commit()
}

func (c *SQLiteClient) Load() (*models.Registry, error) {
	reg, err := c.load()
	if err != nil {
		if errors.Is(err, models.ErrDataCorruption) {
			return nil, err
		}

		return nil, ErrPersistence.Fmt(c.path).Wrap(err)
	}

	err = reg.Validate()
	if err != nil {
		return nil, err
	}

	return reg, nil
}

func (c *SQLiteClient) load() (*models.Registry, error) {
	reg := models.NewRegistry()

	rows, err := c.db.Query("SELECT name, status, total_time FROM projects")
	if err != nil {
		return nil, err
	}

	for rows.Next() {
		var (
			name, status string
			total        int64
		)

		if err := rows.Scan(&name, &status, &total); err != nil {
			rows.Close()
			return nil, err
		}

		reg.Projects[name] = &models.Project{
			Name:      name,
			Status:    models.Status(status),
			Sessions:  []models.Session{},
			TotalTime: time.Duration(total) * time.Microsecond,
		}
	}

	rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = c.db.Query(
		`SELECT project, idx, start_time, end_time, lap_time, total_paused_time
		FROM sessions ORDER BY project, idx`,
	)
	if err != nil {
		return nil, err
	}

	for rows.Next() {
		var (
			project        string
			idx            int
			start          int64
			end            sql.NullInt64
			lap, pausedFor int64
		)

		if err := rows.Scan(&project, &idx, &start, &end, &lap, &pausedFor); err != nil {
			rows.Close()
			return nil, err
		}

		p := reg.Projects[project]
		if p == nil || idx != len(p.Sessions) {
			rows.Close()
			return nil, models.ErrDataCorruption.Wrap(
				fmt.Errorf("session %d of %q is out of sequence", idx+1, project),
			)
		}

		p.Sessions = append(p.Sessions, models.Session{
			StartTime:       time.UnixMicro(start),
			EndTime:         fromNullMicros(end),
			Pauses:          []models.Pause{},
			LapTime:         time.Duration(lap) * time.Microsecond,
			TotalPausedTime: time.Duration(pausedFor) * time.Microsecond,
		})
	}

	rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = c.db.Query(
		`SELECT project, session_idx, idx, pause_start, pause_end
		FROM pauses ORDER BY project, session_idx, idx`,
	)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	for rows.Next() {
		var (
			project      string
			sessIdx, idx int
			start        int64
			end          sql.NullInt64
		)

		if err := rows.Scan(&project, &sessIdx, &idx, &start, &end); err != nil {
			return nil, err
		}

		p := reg.Projects[project]
		if p == nil || sessIdx >= len(p.Sessions) ||
			idx != len(p.Sessions[sessIdx].Pauses) {
			return nil, models.ErrDataCorruption.Wrap(
				fmt.Errorf("pause %d of %q is out of sequence", idx+1, project),
			)
		}

		sess := &p.Sessions[sessIdx]
		sess.Pauses = append(sess.Pauses, models.Pause{
			Start: time.UnixMicro(start),
			End:   fromNullMicros(end),
		})
	}

	return reg, rows.Err()
}

// Quarantine renames the database file to an unused <path>.corrupt-<unix µs> and
// starts over with an empty database at the original path.
func (c *SQLiteClient) Quarantine() (string, error) {
	if c.path == ":memory:" {
		err := c.Save(models.NewRegistry())
		return "", err
	}

	err := c.db.Close()
	if err != nil {
		return "", ErrPersistence.Fmt(c.path).Wrap(err)
	}

	aside, err := quarantinePath(c.path)
	if err != nil {
		return "", ErrPersistence.Fmt(c.path).Wrap(err)
	}

	err = os.Rename(c.path, aside)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", ErrPersistence.Fmt(c.path).Wrap(err)
	}

	db, err := openSQLite(c.path)
	if err != nil {
		return "", ErrPersistence.Fmt(c.path).Wrap(err)
	}

	c.db = db

	return aside, nil
}

func (c *SQLiteClient) Close() error {
	return c.db.Close()
}
