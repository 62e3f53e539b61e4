package persist

import "context"

// Store defines the interface for state persistence backends.
// Implementations must be safe for concurrent use.
//
// Each shopkit store owns exactly one slot key; no two stores share a
// key. Callers treat every failure as non-fatal: the in-memory state
// already committed stays authoritative for the process lifetime.
type Store interface {
	// Get retrieves the snapshot stored under key.
	// Returns (nil, nil) if no snapshot exists.
	// Returns (data, nil) if found.
	// Returns (nil, err) on backend errors.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set persists the snapshot under key, overwriting any previous one.
	Set(ctx context.Context, key string, data []byte) error

	// Delete removes the snapshot under key.
	// Should not return an error if the key doesn't exist.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the store.
	Close() error
}

// ErrStoreClosed is returned when operations are attempted on a closed store.
type ErrStoreClosed struct{}

func (e ErrStoreClosed) Error() string {
	return "persist: store is closed"
}
