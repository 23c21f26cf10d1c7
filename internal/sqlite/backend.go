// Package sqlite implements the SQLite Store backend on the pure-Go
// modernc.org/sqlite driver.
//
// With an empty DataDir the database lives in memory. With a DataDir the
// database file is recreated on every Attach; records never outlive the
// process either way.
package sqlite

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/lexicon/pkg/types"
)

// dbFileName is the database file created under DataDir.
const dbFileName = "lexicon.db"

// Compile-time interface check.
var _ types.Store = (*Backend)(nil)

// Backend implements types.Store with SQLite as the record table.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	now      func() time.Time
}

// Option configures a Backend.
type Option func(*Backend)

// WithClock overrides the clock used to stamp CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(b *Backend) { b.now = now }
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Attach opens the database described by config and creates the schema.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dsn := ":memory:"
	if config.DataDir != "" {
		if err := os.MkdirAll(config.DataDir, 0o755); err != nil {
			return errors.Wrap(err, "create data dir")
		}
		dsn = filepath.Join(config.DataDir, dbFileName)
		// Start from an empty database on every attach.
		if err := os.Remove(dsn); err != nil && !os.IsNotExist(err) {
			return errors.Wrap(err, "remove stale database")
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return errors.Wrap(err, "open sqlite")
	}
	// A single connection keeps an in-memory database shared by every query
	// and matches the single-writer model of the store.
	db.SetMaxOpenConns(1)

	for _, stmt := range schemaDDL {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return errors.Wrap(err, "create schema")
		}
	}

	b.db = db
	b.config = config
	b.attached = true
	return nil
}

// Detach closes the database. Idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	b.attached = false
	if b.db != nil {
		err := b.db.Close()
		b.db = nil
		if err != nil {
			return errors.Wrap(err, "close sqlite")
		}
	}
	return nil
}
