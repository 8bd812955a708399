package testutil

import (
	"context"
	"sync"

	"taskdeck/internal/storage"
)

var _ storage.Store = (*MemoryStore)(nil)

// MemoryStore is an in-memory storage.Store for testing.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
	puts   int

	// Error injection for testing
	GetErr   error
	PutErr   error
	CloseErr error

	Closed bool
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Set stores a value directly, bypassing error injection and the put count.
func (m *MemoryStore) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

// Value returns the stored value and whether it exists.
func (m *MemoryStore) Value(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

// Puts returns the number of successful Put calls.
func (m *MemoryStore) Puts() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.puts
}

// Get implements storage.Store.
func (m *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	if m.GetErr != nil {
		return "", m.GetErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return "", storage.ErrNotFound
	}
	return v, nil
}

// Put implements storage.Store.
func (m *MemoryStore) Put(ctx context.Context, key, value string) error {
	if m.PutErr != nil {
		return m.PutErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	m.puts++
	return nil
}

// Close implements storage.Store.
func (m *MemoryStore) Close() error {
	m.Closed = true
	return m.CloseErr
}
