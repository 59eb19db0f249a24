// Package store holds loaded snapshots and the pure aggregation helpers the
// dashboard layer queries.
package store

import (
	"errors"
	"sort"
	"sync"

	"github.com/epiwatch/covidsnap/internal/record"
)

// ErrNotFound is returned when a snapshot date key has not been loaded.
var ErrNotFound = errors.New("snapshot not found")

// Store keeps the full record set for every loaded snapshot, keyed by date.
type Store struct {
	mu        sync.RWMutex
	snapshots map[string][]record.Record
}

// New constructs an empty Store.
func New() *Store {
	return &Store{snapshots: make(map[string][]record.Record)}
}

// Put replaces the record set for a date key.
func (s *Store) Put(key string, records []record.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]record.Record, len(records))
	copy(cp, records)
	s.snapshots[key] = cp
}

// Snapshot returns a copy of the records for key, or ErrNotFound. A missing
// key is a caller contract violation and is never silently substituted.
func (s *Store) Snapshot(key string) ([]record.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records, ok := s.snapshots[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]record.Record, len(records))
	copy(out, records)
	return out, nil
}

// Keys returns every loaded date key in ascending order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.snapshots))
	for key := range s.snapshots {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Latest returns the most recent date key, or ErrNotFound when the store is
// empty.
func (s *Store) Latest() (string, error) {
	keys := s.Keys()
	if len(keys) == 0 {
		return "", ErrNotFound
	}
	return keys[len(keys)-1], nil
}

// Len reports the number of loaded snapshots.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snapshots)
}
