package gotrue

import (
	"sync"
)

// SessionStorage persists serialized auth state between client instances.
// Implementations must be safe for concurrent use. The client stores the
// session JSON under its configured storage key and small auxiliary items
// (such as PKCE code verifiers) under derived keys.
//
// An in-memory implementation is provided by NewMemoryStorage; the
// storage/sqlitestore package provides a file-backed one.
type SessionStorage interface {
	// Set stores value under key, replacing any previous value.
	Set(key, value string) error

	// Get returns the value stored under key. The second return is false
	// when the key has no value.
	Get(key string) (string, bool, error)

	// Remove deletes the value stored under key, if any.
	Remove(key string) error
}

// memoryStorage is the default SessionStorage: a mutex-guarded map. Sessions
// kept here do not survive the process.
type memoryStorage struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewMemoryStorage returns an in-memory SessionStorage.
func NewMemoryStorage() SessionStorage {
	return &memoryStorage{items: make(map[string]string)}
}

func (m *memoryStorage) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *memoryStorage) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.items[key]
	return value, ok, nil
}

func (m *memoryStorage) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}
