package persist

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory persistence backend. Snapshots do not
// survive the process, so it is only suitable for tests and previews.
type MemoryStore struct {
	mu     sync.RWMutex
	slots  map[string][]byte
	closed bool
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		slots: make(map[string][]byte),
	}
}

// Get retrieves the snapshot stored under key.
func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed{}
	}

	data, ok := m.slots[key]
	if !ok {
		return nil, nil
	}

	// Copy so callers can't mutate stored bytes.
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Set persists the snapshot under key.
func (m *MemoryStore) Set(ctx context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed{}
	}

	stored := make([]byte, len(data))
	copy(stored, data)
	m.slots[key] = stored
	return nil
}

// Delete removes the snapshot under key.
func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed{}
	}

	delete(m.slots, key)
	return nil
}

// Close marks the store closed. Subsequent operations fail with
// ErrStoreClosed.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
