package inmemory

import (
	"context"
	"sync"

	"github.com/spoolworks/spool/pkg/docstore"
)

// Store implements docstore.Store over an in-memory slice, preserving
// insertion order. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	records []docstore.Record
}

// NewStore creates an empty in-memory document store.
func NewStore() *Store {
	return &Store{}
}

// Insert appends records to the store.
func (s *Store) Insert(records ...docstore.Record) error {
	for _, r := range records {
		if r == nil {
			return docstore.ErrNilRecord
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, records...)
	return nil
}

// Count returns the number of records matching the filter.
func (s *Store) Count(_ context.Context, filter docstore.Filter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, r := range s.records {
		if filter.Matches(r) {
			n++
		}
	}
	return n, nil
}

// Iterate returns an iterator over a snapshot of matching records, so
// concurrent inserts never disturb an in-flight iteration.
func (s *Store) Iterate(_ context.Context, filter docstore.Filter, projection []docstore.FieldPath) (*docstore.Iterator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []docstore.Record
	for _, r := range s.records {
		if !filter.Matches(r) {
			continue
		}
		matched = append(matched, docstore.Project(r.Clone(), projection))
	}
	return docstore.FromRecords(matched...), nil
}

// Len returns the number of records in the store.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}
