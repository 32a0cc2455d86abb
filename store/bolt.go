package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/ayoisaiah/timesheet/internal/models"
	"github.com/ayoisaiah/timesheet/internal/timeutil"
)

const (
	registryBucket   = "registry"
	quarantineBucket = "quarantine"
	documentKey      = "document"
)

// BoltClient is a BoltDB database client. The registry document is kept
// under a single key so that every save is one transaction. BoltDB locks
// the file while it is open, which keeps a second process from writing.
type BoltClient struct {
	*bolt.DB
	path string
}

// open creates or opens a database and locks it.
func openDB(pathToDB string) (*bolt.DB, error) {
	err := os.MkdirAll(filepath.Dir(pathToDB), dirMode)
	if err != nil {
		return nil, ErrPersistence.Fmt(pathToDB).Wrap(err)
	}

	db, err := bolt.Open(
		pathToDB,
		fileMode,
		&bolt.Options{Timeout: 1 * time.Second},
	)
	if err != nil {
		if errors.Is(err, bolt.ErrDatabaseOpen) ||
			errors.Is(err, bolt.ErrTimeout) {
			return nil, ErrLocked.Fmt(pathToDB)
		}

		return nil, ErrPersistence.Fmt(pathToDB).Wrap(err)
	}

	return db, nil
}

// NewBoltClient returns a wrapper to a BoltDB connection.
func NewBoltClient(dbPath string) (*BoltClient, error) {
	if dbPath == "" {
		return nil, ErrPersistence.Fmt("bolt store").Wrap(
			errors.New("no file path configured"),
		)
	}

	db, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}

	// Create the necessary buckets for storing data if they do not exist already
	err = db.Update(func(tx *bolt.Tx) error {
		_, err = tx.CreateBucketIfNotExists([]byte(registryBucket))
		if err != nil {
			return err
		}

		_, err = tx.CreateBucketIfNotExists([]byte(quarantineBucket))

		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, ErrPersistence.Fmt(dbPath).Wrap(err)
	}

	return &BoltClient{
		DB:   db,
		path: dbPath,
	}, nil
}

func (c *BoltClient) Path() string {
	return c.path
}

func (c *BoltClient) Load() (*models.Registry, error) {
	var data []byte

	err := c.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(registryBucket)).Get([]byte(documentKey))
		// values are only valid for the life of the transaction
		data = append([]byte(nil), v...)

		return nil
	})
	if err != nil {
		return nil, ErrPersistence.Fmt(c.path).Wrap(err)
	}

	if len(data) == 0 {
		return models.NewRegistry(), nil
	}

	return decode(data)
}

func (c *BoltClient) Save(reg *models.Registry) error {
	data, err := encode(reg)
	if err != nil {
		return ErrPersistence.Fmt(c.path).Wrap(err)
	}

	err = c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(registryBucket)).Put([]byte(documentKey), data)
	})
	if err != nil {
		return ErrPersistence.Fmt(c.path).Wrap(err)
	}

	return nil
}

// Quarantine moves the stored document into the quarantine bucket, keyed by
// the current time. A numeric suffix keeps earlier entries from being
// overwritten.
func (c *BoltClient) Quarantine() (string, error) {
	var (
		key   []byte
		moved bool
	)

	err := c.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(registryBucket))

		v := b.Get([]byte(documentKey))
		if v == nil {
			return nil
		}

		q := tx.Bucket([]byte(quarantineBucket))
		base := timeutil.ToKey(timeutil.Now())
		key = base

		for i := 1; q.Get(key) != nil; i++ {
			key = fmt.Appendf(nil, "%s-%d", base, i)
		}

		err := q.Put(key, append([]byte(nil), v...))
		if err != nil {
			return err
		}

		moved = true

		return b.Delete([]byte(documentKey))
	})
	if err != nil {
		return "", ErrPersistence.Fmt(c.path).Wrap(err)
	}

	if !moved {
		return "", nil
	}

	return fmt.Sprintf("%s (bucket %q, key %q)", c.path, quarantineBucket, key), nil
}

func (c *BoltClient) Close() error {
	err := c.DB.Close()
	if err != nil && !errors.Is(err, fs.ErrClosed) {
		return err
	}

	return nil
}
