// Package pref provides persisted user preferences.
//
// Preferences are small reactive values (theme, currency, locale) that
// survive app restarts. Each preference owns one persistence slot,
// rehydrates lazily on first read, and flushes writes in the background
// the same way the cart and wishlist stores do.
//
// Example:
//
//	theme := pref.New(backend, "theme", "light")
//
//	current := theme.Get(ctx)
//	theme.Set(ctx, "dark")
//
// When a remote copy of the preference arrives (another device, a
// server push), SetFromRemote resolves the conflict with the configured
// merge strategy. The default is last-write-wins.
package pref

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/vango-dev/shopkit/pkg/persist"
	"github.com/vango-dev/shopkit/pkg/reactive"
)

// MergeStrategy determines how conflicts are resolved when local and
// remote values differ.
type MergeStrategy int

const (
	// LWW uses last-write-wins with timestamps. The default.
	LWW MergeStrategy = iota

	// RemoteWins always takes the remote value.
	// For settings the server is authoritative on.
	RemoteWins

	// LocalWins always keeps the local value.
	// For preferences the user just modified on this device.
	LocalWins
)

// Option configures a preference.
type Option[T any] func(*Value[T])

// WithSlot overrides the persistence slot key.
func WithSlot[T any](slot string) Option[T] {
	return func(v *Value[T]) {
		v.slot = slot
	}
}

// WithLogger sets the logger for persistence warnings.
func WithLogger[T any](logger *slog.Logger) Option[T] {
	return func(v *Value[T]) {
		v.logger = logger
	}
}

// WithMerge sets the merge strategy for SetFromRemote.
func WithMerge[T any](strategy MergeStrategy) Option[T] {
	return func(v *Value[T]) {
		v.merge = strategy
	}
}

// WithEquals sets a custom equality function for change detection.
func WithEquals[T any](fn func(T, T) bool) Option[T] {
	return func(v *Value[T]) {
		v.equal = fn
	}
}

// state is the persisted form of a preference.
type state[T any] struct {
	Value     T         `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Value is a persisted reactive preference.
type Value[T any] struct {
	key      string
	slot     string
	defaults T
	merge    MergeStrategy
	equal    func(T, T) bool
	logger   *slog.Logger

	mu        sync.Mutex
	updatedAt time.Time
	loadOnce  sync.Once

	sig     *reactive.Signal[T]
	flusher *persist.Flusher
}

// New creates a preference persisted under "pref:"+key.
func New[T any](store persist.Store, key string, defaultValue T, opts ...Option[T]) *Value[T] {
	v := &Value[T]{
		key:      key,
		slot:     "pref:" + key,
		defaults: defaultValue,
		merge:    LWW,
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.logger == nil {
		v.logger = slog.Default()
	}

	v.sig = reactive.NewSignal(defaultValue)
	if v.equal != nil {
		v.sig.WithEquals(v.equal)
	}
	v.flusher = persist.NewFlusher(store, v.slot, v.logger)
	return v
}

// Key returns the preference key.
func (v *Value[T]) Key() string {
	return v.key
}

// Get returns the current value, rehydrating from the backend on first
// access.
func (v *Value[T]) Get(ctx context.Context) T {
	v.load(ctx)
	return v.sig.Get()
}

// Set updates the value and schedules a background write.
func (v *Value[T]) Set(ctx context.Context, value T) {
	v.load(ctx)

	v.mu.Lock()
	v.updatedAt = time.Now()
	snap := state[T]{Value: value, UpdatedAt: v.updatedAt}
	v.mu.Unlock()

	v.sig.Set(value)
	v.flusher.Flush(ctx, snap)
}

// Reset restores the default value.
func (v *Value[T]) Reset(ctx context.Context) {
	v.Set(ctx, v.defaults)
}

// UpdatedAt returns when the preference last changed on this device.
func (v *Value[T]) UpdatedAt(ctx context.Context) time.Time {
	v.load(ctx)
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.updatedAt
}

// SetFromRemote merges a value from another device or a server push
// using the configured strategy. The losing side is discarded; when the
// remote value wins it is persisted locally like a normal Set.
func (v *Value[T]) SetFromRemote(ctx context.Context, value T, remoteUpdatedAt time.Time) {
	v.load(ctx)

	v.mu.Lock()
	remoteWins := false
	switch v.merge {
	case RemoteWins:
		remoteWins = true
	case LocalWins:
		remoteWins = false
	default:
		remoteWins = remoteUpdatedAt.After(v.updatedAt)
	}
	if !remoteWins {
		v.mu.Unlock()
		return
	}
	v.updatedAt = remoteUpdatedAt
	snap := state[T]{Value: value, UpdatedAt: remoteUpdatedAt}
	v.mu.Unlock()

	v.sig.Set(value)
	v.flusher.Flush(ctx, snap)
}

// Subscribe registers a callback invoked after each change. It returns
// an unsubscribe function.
func (v *Value[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	return v.sig.Subscribe(fn)
}

// Wait blocks until pending writes finish. For tests and shutdown.
func (v *Value[T]) Wait() {
	v.flusher.Wait()
}

// load performs the one-shot rehydration.
func (v *Value[T]) load(ctx context.Context) {
	v.loadOnce.Do(func() {
		var snap state[T]
		if !v.flusher.Rehydrate(ctx, &snap) {
			return
		}
		v.mu.Lock()
		v.updatedAt = snap.UpdatedAt
		v.mu.Unlock()
		v.sig.Force(snap.Value)
	})
}
