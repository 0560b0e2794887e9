// Package memory provides a thread-safe, in-memory implementation of the
// contextstore.Store interface. It is the default backend, suitable for
// development and tests and for any host where context values need not
// outlive the process.
package memory

import (
	"context"
	"sort"
	"sync"
)

// Store keeps all scopes in process memory.
type Store struct {
	mu     sync.RWMutex
	scopes map[string]map[string]any
}

// New creates an empty store.
func New() *Store {
	return &Store{scopes: make(map[string]map[string]any)}
}

// Get returns the value stored under scope/key.
func (s *Store) Get(_ context.Context, scope, key string) (any, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bucket, ok := s.scopes[scope]
	if !ok {
		return nil, false, nil
	}
	v, ok := bucket[key]
	return v, ok, nil
}

// Set stores value under scope/key, replacing any previous value.
func (s *Store) Set(_ context.Context, scope, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.scopes[scope]
	if !ok {
		bucket = make(map[string]any)
		s.scopes[scope] = bucket
	}
	bucket[key] = value
	return nil
}

// Delete removes scope/key. Deleting an absent key is not an error.
func (s *Store) Delete(_ context.Context, scope, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if bucket, ok := s.scopes[scope]; ok {
		delete(bucket, key)
	}
	return nil
}

// Keys returns the sorted keys of one scope.
func (s *Store) Keys(_ context.Context, scope string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bucket, ok := s.scopes[scope]
	if !ok {
		return nil, nil
	}
	keys := make([]string, 0, len(bucket))
	for k := range bucket {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Close releases nothing; it exists to satisfy contextstore.Store.
func (s *Store) Close() error { return nil }
