// Package memory implements the in-process Store backend: a map keyed by
// raw value plus an insertion-order index, guarded by one RWMutex.
package memory

import (
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/mesh-intelligence/lexicon/internal/analyzer"
	"github.com/mesh-intelligence/lexicon/pkg/types"
)

// Compile-time interface check.
var _ types.Store = (*Store)(nil)

// Store keeps records in memory for the lifetime of the process.
type Store struct {
	mu       sync.RWMutex
	attached bool
	records  map[string]types.StringRecord
	order    []string // raw values in insertion order
	now      func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used to stamp CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates a detached in-memory store.
func NewStore(opts ...Option) *Store {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Attach validates config and starts with an empty collection. DataDir is
// ignored.
func (s *Store) Attach(config types.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	s.records = make(map[string]types.StringRecord)
	s.order = nil
	s.attached = true
	return nil
}

// Detach drops every record. Idempotent.
func (s *Store) Detach() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attached = false
	s.records = nil
	s.order = nil
	return nil
}

// Insert analyzes value and stores it unless the value is already present.
func (s *Store) Insert(value string) (types.StringRecord, error) {
	// Analysis is pure, so it runs before taking the lock.
	props := analyzer.Analyze(value)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return types.StringRecord{}, types.ErrDetached
	}
	if _, ok := s.records[value]; ok {
		return types.StringRecord{}, errors.Wrapf(types.ErrDuplicate, "insert %q", value)
	}

	rec := types.NewStringRecord(value, props, s.now())
	s.records[value] = rec
	s.order = append(s.order, value)
	return rec.Clone(), nil
}

// Get returns a copy of the record keyed by value.
func (s *Store) Get(value string) (types.StringRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.attached {
		return types.StringRecord{}, types.ErrDetached
	}
	rec, ok := s.records[value]
	if !ok {
		return types.StringRecord{}, errors.Wrapf(types.ErrNotFound, "get %q", value)
	}
	return rec.Clone(), nil
}

// Delete removes the record keyed by value.
func (s *Store) Delete(value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return types.ErrDetached
	}
	if _, ok := s.records[value]; !ok {
		return errors.Wrapf(types.ErrNotFound, "delete %q", value)
	}

	delete(s.records, value)
	for i, v := range s.order {
		if v == value {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// List returns copies of every record in insertion order.
func (s *Store) List() ([]types.StringRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.attached {
		return nil, types.ErrDetached
	}
	out := make([]types.StringRecord, 0, len(s.order))
	for _, v := range s.order {
		out = append(out, s.records[v].Clone())
	}
	return out, nil
}
