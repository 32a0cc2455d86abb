package store

import (
	"errors"
	"io/fs"
	"os"
	"sync"

	"github.com/ayoisaiah/timesheet/internal/models"
	"github.com/ayoisaiah/timesheet/internal/osutil"
)

const (
	dirMode  = osutil.DirPermission
	fileMode = osutil.FilePermission
)

// JSONClient stores the registry as one JSON document on disk. Writes go to
// a temporary file in the same directory which is then renamed over the
// document, so readers never observe a partially written file.
type JSONClient struct {
	mu   sync.RWMutex
	path string
}

// NewJSONClient returns a client for the document at path. The file does not
// need to exist.
func NewJSONClient(path string) (*JSONClient, error) {
	if path == "" {
		return nil, ErrPersistence.Fmt("json store").Wrap(
			errors.New("no file path configured"),
		)
	}

	return &JSONClient{path: path}, nil
}

func (c *JSONClient) Path() string {
	return c.path
}

func (c *JSONClient) Load() (*models.Registry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return models.NewRegistry(), nil
		}

		return nil, ErrPersistence.Fmt(c.path).Wrap(err)
	}

	return decode(data)
}

func (c *JSONClient) Save(reg *models.Registry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := encode(reg)
	if err != nil {
		return ErrPersistence.Fmt(c.path).Wrap(err)
	}

	err = osutil.WriteFileAtomic(c.path, data, fileMode)
	if err != nil {
		return ErrPersistence.Fmt(c.path).Wrap(err)
	}

	return nil
}

// Quarantine renames the document to an unused <path>.corrupt-<unix µs>.
func (c *JSONClient) Quarantine() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	aside, err := quarantinePath(c.path)
	if err != nil {
		return "", ErrPersistence.Fmt(c.path).Wrap(err)
	}

	err = os.Rename(c.path, aside)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}

		return "", ErrPersistence.Fmt(c.path).Wrap(err)
	}

	return aside, nil
}

func (c *JSONClient) Close() error {
	return nil
}
