// Package store is the public entry point for creating lexicon stores.
// It selects a backend by name while keeping implementations internal.
package store

import (
	"time"

	"github.com/cockroachdb/errors"

	"github.com/mesh-intelligence/lexicon/internal/memory"
	"github.com/mesh-intelligence/lexicon/internal/sqlite"
	"github.com/mesh-intelligence/lexicon/pkg/types"
)

// New creates a detached store for the named backend. now stamps CreatedAt;
// nil uses time.Now.
//
// Example:
//
//	s, err := store.New(types.BackendSQLite, nil)
//	if err != nil { ... }
//	err = s.Attach(types.Config{Backend: types.BackendSQLite})
//	defer s.Detach()
func New(backend string, now func() time.Time) (types.Store, error) {
	if now == nil {
		now = time.Now
	}
	switch backend {
	case types.BackendMemory:
		return memory.NewStore(memory.WithClock(now)), nil
	case types.BackendSQLite:
		return sqlite.NewBackend(sqlite.WithClock(now)), nil
	case "":
		return nil, types.ErrBackendEmpty
	default:
		return nil, errors.Wrapf(types.ErrBackendUnknown, "%q", backend)
	}
}

// Open creates the backend named by config and attaches it.
func Open(config types.Config, now func() time.Time) (types.Store, error) {
	s, err := New(config.Backend, now)
	if err != nil {
		return nil, err
	}
	if err := s.Attach(config); err != nil {
		return nil, errors.Wrapf(err, "attach %s store", config.Backend)
	}
	return s, nil
}
