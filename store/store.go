// Package store persists the project registry as a single snapshot and
// defines how a missing or unreadable snapshot is recovered.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ayoisaiah/timesheet/internal/apperr"
	"github.com/ayoisaiah/timesheet/internal/models"
	"github.com/ayoisaiah/timesheet/internal/timeutil"
)

// Supported storage drivers.
const (
	DriverJSON   = "json"
	DriverBolt   = "bolt"
	DriverSQLite = "sqlite"
)

// Drivers lists the supported storage drivers.
var Drivers = []string{DriverJSON, DriverBolt, DriverSQLite}

var (
	ErrPersistence = &apperr.Error{
		Message: "persistence failed for %s",
	}

	ErrLocked = &apperr.Error{
		Message: "%s is in use by another process: only one instance can write at a time",
	}

	ErrUnknownDriver = &apperr.Error{
		Message: "unknown storage driver %q",
	}
)

// DB is the database storage interface.
type DB interface {
	// Load reads the entire registry. A store that holds no data yields an
	// empty registry. Data that fails to parse or validate is reported with
	// models.ErrDataCorruption and left in place.
	Load() (*models.Registry, error)
	// Save replaces the stored registry atomically.
	Save(reg *models.Registry) error
	// Quarantine moves corrupt data aside so that the store starts empty,
	// and returns a description of where the data was moved.
	Quarantine() (string, error)
	// Path returns the location of the store.
	Path() string
	// Close releases the underlying resources.
	Close() error
}

// Open returns a client for the named driver.
func Open(driver, path string) (DB, error) {
	switch driver {
	case DriverJSON, "":
		return NewJSONClient(path)
	case DriverBolt:
		return NewBoltClient(path)
	case DriverSQLite:
		return NewSQLiteClient(path)
	}

	return nil, ErrUnknownDriver.Fmt(driver)
}

// quarantinePath returns an unused <path>.corrupt-<unix µs> name. A numeric
// suffix is added when that name is taken.
func quarantinePath(path string) (string, error) {
	base := fmt.Sprintf("%s.corrupt-%d", path, timeutil.Now().UnixMicro())
	aside := base

	for i := 1; ; i++ {
		_, err := os.Lstat(aside)
		if errors.Is(err, fs.ErrNotExist) {
			return aside, nil
		}

		if err != nil {
			return "", err
		}

		aside = fmt.Sprintf("%s-%d", base, i)
	}
}

// FileExtension returns the conventional file extension for a driver.
func FileExtension(driver string) string {
	switch driver {
	case DriverBolt:
		return ".db"
	case DriverSQLite:
		return ".sqlite"
	}

	return ".json"
}
