package store

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/kubev2v/password-saver/internal/store/migrations"
	srvErrors "github.com/kubev2v/password-saver/pkg/errors"
)

// Store is an explicit handle on one backing file.
type Store struct {
	db      *sql.DB
	lock    *fileLock
	entries *EntryStore
}

// NewStore wraps an already opened and migrated database.
// It takes no lock; use Open for file-backed stores.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:      db,
		entries: NewEntryStore(newQueryInterceptor(db)),
	}
}

type openOptions struct {
	driver string
}

type Option func(*openOptions)

// WithDriver selects the database engine. Defaults to DriverDuckDB.
func WithDriver(driver string) Option {
	return func(o *openOptions) {
		o.driver = driver
	}
}

// Open locks, opens (creating if absent) and migrates the store at path.
//
// It fails with StorageLockedError if another handle holds the path and with
// StorageUnavailableError if the file cannot be opened, created or migrated.
// Nothing stays acquired when Open fails.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	o := openOptions{driver: DriverDuckDB}
	for _, opt := range opts {
		opt(&o)
	}

	var lock *fileLock
	if path != MemoryPath {
		l, err := acquireLock(path)
		if errors.Is(err, errLockHeld) {
			return nil, srvErrors.NewStorageLockedError(path)
		}
		if err != nil {
			return nil, srvErrors.NewStorageUnavailableError(path, err)
		}
		lock = l
	}

	db, err := NewDB(o.driver, path)
	if err != nil {
		_ = lock.Release()
		return nil, srvErrors.NewStorageUnavailableError(path, err)
	}

	if err := migrations.Run(ctx, db); err != nil {
		_ = db.Close()
		_ = lock.Release()
		return nil, srvErrors.NewStorageUnavailableError(path, err)
	}

	zap.S().Named("store").Debugw("store opened", "path", path, "driver", o.driver)

	s := NewStore(db)
	s.lock = lock
	return s, nil
}

func (s *Store) Entries() *EntryStore {
	return s.entries
}

// Close closes the database and releases the lock. Calling it twice is a no-op.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	if lerr := s.lock.Release(); err == nil {
		err = lerr
	}
	s.db = nil
	s.lock = nil
	return err
}
