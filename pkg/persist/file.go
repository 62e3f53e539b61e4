package persist

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore persists snapshots as one file per slot inside a state
// directory. It is the on-device analog of mobile local storage and the
// default backend for desktop and CLI processes.
//
// Writes go through a temp file and rename, so a crash mid-write leaves
// the previous snapshot intact rather than a truncated one.
type FileStore struct {
	dir    string
	ext    string
	mode   os.FileMode
	mu     sync.Mutex
	closed bool
}

// FileStoreOption configures FileStore behavior.
type FileStoreOption func(*fileStoreConfig)

type fileStoreConfig struct {
	ext  string
	mode os.FileMode
}

// WithFileExtension sets the snapshot file extension.
// Default: ".json".
func WithFileExtension(ext string) FileStoreOption {
	return func(c *fileStoreConfig) {
		c.ext = ext
	}
}

// WithFileMode sets the permission bits for snapshot files.
// Default: 0600.
func WithFileMode(mode os.FileMode) FileStoreOption {
	return func(c *fileStoreConfig) {
		c.mode = mode
	}
}

// NewFileStore creates a file-backed store rooted at dir, creating the
// directory if needed.
func NewFileStore(dir string, opts ...FileStoreOption) (*FileStore, error) {
	cfg := &fileStoreConfig{
		ext:  ".json",
		mode: 0o600,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("persist: create state dir: %w", err)
	}

	return &FileStore{
		dir:  dir,
		ext:  cfg.ext,
		mode: cfg.mode,
	}, nil
}

// path returns the snapshot path for a slot key. Path separators in the
// key are flattened so a key can never escape the state directory.
func (f *FileStore) path(key string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(key)
	return filepath.Join(f.dir, safe+f.ext)
}

// Get retrieves the snapshot stored under key.
func (f *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, ErrStoreClosed{}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("persist: read %s: %w", key, err)
	}
	return data, nil
}

// Set persists the snapshot under key via temp file and rename.
func (f *FileStore) Set(ctx context.Context, key string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrStoreClosed{}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dst := f.path(key)
	tmp, err := os.CreateTemp(f.dir, filepath.Base(dst)+".tmp*")
	if err != nil {
		return fmt.Errorf("persist: create temp for %s: %w", key, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("persist: write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("persist: close temp for %s: %w", key, err)
	}
	if err := os.Chmod(tmpName, f.mode); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("persist: chmod %s: %w", key, err)
	}
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("persist: rename %s: %w", key, err)
	}
	return nil
}

// Delete removes the snapshot under key.
func (f *FileStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrStoreClosed{}
	}

	err := os.Remove(f.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("persist: delete %s: %w", key, err)
	}
	return nil
}

// Close marks the store closed.
func (f *FileStore) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}
