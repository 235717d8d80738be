// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

package state

import (
	"log/slog"
	"sync"
)

// Store holds the cached value and staleness flag of every state key.
// Values are replaced on update, never mutated in place, so values returned
// by the accessors stay valid but must not be modified by callers.
type Store struct {
	mu     sync.RWMutex
	table  *Table
	logger *slog.Logger
	values map[Key]any
	fresh  map[Key]bool
}

// Option configures a Store.
type Option func(*Store)

// WithTable sets the call classification table.
func WithTable(t *Table) Option {
	return func(s *Store) {
		s.table = t
	}
}

// WithLogger sets the logger used for response handling warnings.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// NewStore creates an empty store in which every key is stale.
func NewStore(opts ...Option) *Store {
	s := &Store{
		values: make(map[Key]any),
		fresh:  make(map[Key]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.table == nil {
		s.table = DefaultTable()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Table returns the call classification table.
func (s *Store) Table() *Table {
	return s.table
}

// IsStale reports whether key must be fetched again. Keys never written are stale.
func (s *Store) IsStale(key Key) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.fresh[key]
}

// MarkStale flags the keys as stale. Cached values are kept.
func (s *Store) MarkStale(keys ...Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.fresh, k)
	}
}

// MarkExecuted marks stale every key invalidated by the executed calls.
// Nothing is changed if any call names an unknown method.
func (s *Store) MarkExecuted(calls []Call) error {
	var keys []Key
	for _, c := range calls {
		inv, err := s.table.Invalidates(c.Method)
		if err != nil {
			return err
		}
		keys = append(keys, inv...)
	}
	s.MarkStale(keys...)
	return nil
}

// Get returns the cached value for key, regardless of staleness.
func (s *Store) Get(key Key) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Snapshot returns the cached values of the requested keys. Requested keys
// without a value map to nil. With no keys, every cached value is returned.
func (s *Store) Snapshot(keys ...Key) map[Key]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(keys) == 0 {
		out := make(map[Key]any, len(s.values))
		for k, v := range s.values {
			out[k] = v
		}
		return out
	}
	out := make(map[Key]any, len(keys))
	for _, k := range keys {
		out[k] = s.values[k]
	}
	return out
}

// markFresh stores value for key and clears its stale flag. Caller holds mu.
func (s *Store) markFresh(key Key, value any) {
	s.values[key] = value
	s.fresh[key] = true
}
