// Package memory provides a map-backed [storage.Storage] used as the
// fallback adapter when no durable storage is available, and as the default
// in tests.
package memory

import (
	"context"
	"sync"

	"github.com/mobilisk/authcore/storage"
)

// Store defines a public type used by authcore APIs.
//
// Store instances are safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	items map[string]string
}

// New describes the new operation and its observable behavior.
func New() *Store {
	return &Store{
		items: make(map[string]string),
	}
}

// GetItem returns the value stored under key, or [storage.ErrNoValue].
func (s *Store) GetItem(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.items[key]
	if !ok {
		return "", storage.ErrNoValue
	}
	return value, nil
}

// SetItem stores value under key, replacing any previous value.
func (s *Store) SetItem(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = value
	return nil
}

// RemoveItem deletes the value under key. Removing an absent key is not an
// error.
func (s *Store) RemoveItem(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, key)
	return nil
}
