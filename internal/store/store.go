// Package store provides the persistence layer for Inkpad.
// Everything above it reads and writes whole values through the Store
// interface; the storage medium (localStorage, SQLite, memory) is an
// injected implementation detail.
package store

import "sync"

// Store is a key-value store with synchronous whole-value access.
// Get reports ok=false when the key has never been written.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// Keys used by the application. The document collection and the theme are
// persisted independently.
const (
	KeyDocuments = "inkpad.documents"
	KeyTheme     = "inkpad.theme"
)

// MemoryStore is a map-backed Store. It backs tests and ephemeral sessions.
// Thread-safe for concurrent WASM callbacks.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Get returns the value for key, if one was ever set.
func (s *MemoryStore) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	return v, ok, nil
}

// Set writes value under key, replacing any previous value.
func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}

// Compile-time interface check
var _ Store = (*MemoryStore)(nil)
