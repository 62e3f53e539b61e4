package wishlist

import (
	"context"
	"log/slog"
	"sync"

	"github.com/vango-dev/shopkit/pkg/catalog"
	"github.com/vango-dev/shopkit/pkg/persist"
	"github.com/vango-dev/shopkit/pkg/reactive"
	"github.com/vango-dev/shopkit/pkg/toast"
)

// DefaultSlot is the persistence slot key for the wishlist.
const DefaultSlot = "wishlist"

// State is the wishlist's public state: products in insertion order,
// unique by ID.
type State struct {
	Items []catalog.Product `json:"items"`
}

// Store holds the wishlist. Membership is defined by product ID
// equality only. Mutations commit in memory, notify subscribers, and
// schedule a fire-and-forget snapshot write.
type Store struct {
	flusher  *persist.Flusher
	logger   *slog.Logger
	notifier toast.Notifier

	mu       sync.Mutex
	loadOnce sync.Once

	state *reactive.Signal[State]
}

// Option configures the wishlist store.
type Option func(*config)

type config struct {
	slot     string
	logger   *slog.Logger
	notifier toast.Notifier
}

// WithSlot sets the persistence slot key. Default: "wishlist".
func WithSlot(slot string) Option {
	return func(c *config) {
		c.slot = slot
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithNotifier sets the mutation notifier. Default: none.
func WithNotifier(n toast.Notifier) Option {
	return func(c *config) {
		c.notifier = n
	}
}

// New creates a wishlist store over the given persistence backend.
func New(backend persist.Store, opts ...Option) *Store {
	cfg := &config{
		slot:   DefaultSlot,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Store{
		flusher:  persist.NewFlusher(backend, cfg.slot, cfg.logger),
		logger:   cfg.logger,
		notifier: cfg.notifier,
		state:    reactive.NewSignal(State{}),
	}
}

func (s *Store) ensureLoaded(ctx context.Context) {
	s.loadOnce.Do(func() {
		var loaded State
		if s.flusher.Rehydrate(ctx, &loaded) {
			s.state.Force(loaded)
		}
	})
}

// Add appends the product unless an item with its ID is already
// present. Idempotent under repeated calls with the same product.
func (s *Store) Add(ctx context.Context, product catalog.Product) {
	s.ensureLoaded(ctx)
	s.mu.Lock()

	cur := s.state.Get()
	for _, item := range cur.Items {
		if item.ID == product.ID {
			s.mu.Unlock()
			return
		}
	}

	items := cloneItems(cur.Items)
	items = append(items, product)
	s.commit(ctx, State{Items: items})
	s.mu.Unlock()

	toast.Success(s.notifier, product.Title+" added to wishlist")
}

// Remove filters out the item with the given product ID.
// No-op if absent.
func (s *Store) Remove(ctx context.Context, productID string) {
	s.ensureLoaded(ctx)
	s.mu.Lock()

	cur := s.state.Get()
	items := make([]catalog.Product, 0, len(cur.Items))
	removed := false
	for _, item := range cur.Items {
		if item.ID == productID {
			removed = true
			continue
		}
		items = append(items, item)
	}

	if !removed {
		s.mu.Unlock()
		return
	}

	s.commit(ctx, State{Items: items})
	s.mu.Unlock()

	toast.Info(s.notifier, "Removed from wishlist")
}

// Contains reports whether a product with the given ID is in the
// wishlist. Pure read.
func (s *Store) Contains(ctx context.Context, productID string) bool {
	s.ensureLoaded(ctx)
	for _, item := range s.state.Get().Items {
		if item.ID == productID {
			return true
		}
	}
	return false
}

// Toggle removes the product if present, adds it otherwise. The
// membership test and the add-or-remove are two logically separate
// steps: with a single caller this is fine, but concurrent toggles for
// the same product may race. See the package docs.
func (s *Store) Toggle(ctx context.Context, product catalog.Product) {
	if s.Contains(ctx, product.ID) {
		s.Remove(ctx, product.ID)
		return
	}
	s.Add(ctx, product)
}

// Clear empties the wishlist.
func (s *Store) Clear(ctx context.Context) {
	s.ensureLoaded(ctx)
	s.mu.Lock()
	s.commit(ctx, State{Items: []catalog.Product{}})
	s.mu.Unlock()

	toast.Warning(s.notifier, "Wishlist cleared")
}

// Items returns the current items in insertion order.
func (s *Store) Items(ctx context.Context) []catalog.Product {
	s.ensureLoaded(ctx)
	return cloneItems(s.state.Get().Items)
}

// Count returns the number of items.
func (s *Store) Count(ctx context.Context) int {
	s.ensureLoaded(ctx)
	return len(s.state.Get().Items)
}

// commit publishes the new state and schedules its snapshot write.
// Callers hold s.mu.
func (s *Store) commit(ctx context.Context, next State) {
	s.state.Set(next)
	s.flusher.Flush(ctx, next)
}

// Subscribe registers a callback invoked with the new state after each
// mutation. Returns an unsubscribe function.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	return s.state.Subscribe(fn)
}

// Wait blocks until pending snapshot writes finish.
// This is for tests and graceful shutdown.
func (s *Store) Wait() {
	s.flusher.Wait()
}

func cloneItems(items []catalog.Product) []catalog.Product {
	out := make([]catalog.Product, len(items))
	copy(out, items)
	return out
}
