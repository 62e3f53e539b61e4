package cart

import (
	"context"
	"log/slog"
	"sync"

	"github.com/vango-dev/shopkit/pkg/catalog"
	"github.com/vango-dev/shopkit/pkg/persist"
	"github.com/vango-dev/shopkit/pkg/reactive"
	"github.com/vango-dev/shopkit/pkg/toast"
)

// DefaultSlot is the persistence slot key for the cart.
const DefaultSlot = "cart"

// Line binds a product to a quantity and an optional variant selection.
// Uniqueness key is the product ID: a cart holds at most one line per
// product at any time.
type Line struct {
	Product       catalog.Product `json:"product"`
	Quantity      int             `json:"quantity"`
	SelectedColor string          `json:"selectedColor,omitempty"`
	SelectedSize  string          `json:"selectedSize,omitempty"`
}

// State is the cart's public state: lines in insertion order.
type State struct {
	Lines []Line `json:"items"`
}

// Store holds the shopping cart. Reads are served synchronously from
// memory; every mutation commits in memory, notifies subscribers, and
// schedules a fire-and-forget snapshot write. Exactly one instance
// exists per process, shared by reference.
type Store struct {
	flusher  *persist.Flusher
	logger   *slog.Logger
	notifier toast.Notifier
	slot     string

	// mu serializes mutations; loadOnce gates rehydration.
	mu       sync.Mutex
	loadOnce sync.Once

	state   *reactive.Signal[State]
	loading *reactive.Signal[bool]
}

// Option configures the cart store.
type Option func(*config)

type config struct {
	slot     string
	logger   *slog.Logger
	notifier toast.Notifier
}

// WithSlot sets the persistence slot key. Default: "cart".
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

// New creates a cart store over the given persistence backend.
// The persisted snapshot, if any, is loaded lazily on first access.
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
		slot:     cfg.slot,
		state:    reactive.NewSignal(State{}),
		loading:  reactive.NewSignal(false),
	}
}

// ensureLoaded performs the one-shot rehydration. Best effort: a
// missing or unreadable snapshot leaves the cart empty.
func (s *Store) ensureLoaded(ctx context.Context) {
	s.loadOnce.Do(func() {
		s.loading.Set(true)
		defer s.loading.Set(false)

		var loaded State
		if s.flusher.Rehydrate(ctx, &loaded) {
			s.state.Force(loaded)
		}
	})
}

// AddOption configures a single Add call.
type AddOption func(*addParams)

type addParams struct {
	quantity int
	color    *string
	size     *string
}

// WithQuantity sets the quantity to add. Default: 1.
// The store does not validate the value; zero and negative quantities
// are applied as given.
func WithQuantity(q int) AddOption {
	return func(p *addParams) {
		p.quantity = q
	}
}

// WithColor selects a color variant for the line.
func WithColor(color string) AddOption {
	return func(p *addParams) {
		p.color = &color
	}
}

// WithSize selects a size variant for the line.
func WithSize(size string) AddOption {
	return func(p *addParams) {
		p.size = &size
	}
}

// Add puts a product in the cart. If a line for the product already
// exists the quantity accumulates and variant fields are overwritten
// only when supplied; omitting a variant option never clears a prior
// selection. Otherwise a new line is appended.
func (s *Store) Add(ctx context.Context, product catalog.Product, opts ...AddOption) {
	params := addParams{quantity: 1}
	for _, opt := range opts {
		opt(&params)
	}

	s.ensureLoaded(ctx)
	s.mu.Lock()

	cur := s.state.Get()
	lines := cloneLines(cur.Lines)

	merged := false
	for i := range lines {
		if lines[i].Product.ID == product.ID {
			lines[i].Quantity += params.quantity
			if params.color != nil {
				lines[i].SelectedColor = *params.color
			}
			if params.size != nil {
				lines[i].SelectedSize = *params.size
			}
			merged = true
			break
		}
	}
	if !merged {
		line := Line{Product: product, Quantity: params.quantity}
		if params.color != nil {
			line.SelectedColor = *params.color
		}
		if params.size != nil {
			line.SelectedSize = *params.size
		}
		lines = append(lines, line)
	}

	next := State{Lines: lines}
	s.commit(ctx, next)
	s.mu.Unlock()

	toast.Success(s.notifier, product.Title+" added to cart")
}

// Remove deletes the line with the given product ID.
// No-op if the product is not in the cart.
func (s *Store) Remove(ctx context.Context, productID string) {
	s.ensureLoaded(ctx)
	s.mu.Lock()

	cur := s.state.Get()
	lines := make([]Line, 0, len(cur.Lines))
	removed := false
	for _, line := range cur.Lines {
		if line.Product.ID == productID {
			removed = true
			continue
		}
		lines = append(lines, line)
	}

	if !removed {
		s.mu.Unlock()
		return
	}

	s.commit(ctx, State{Lines: lines})
	s.mu.Unlock()

	toast.Info(s.notifier, "Removed from cart")
}

// SetQuantity sets the quantity of the matching line to the given value
// verbatim; there is no accumulation and no validation. No-op if the
// product is not in the cart.
func (s *Store) SetQuantity(ctx context.Context, productID string, quantity int) {
	s.ensureLoaded(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.state.Get()
	lines := cloneLines(cur.Lines)
	found := false
	for i := range lines {
		if lines[i].Product.ID == productID {
			lines[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return
	}

	s.commit(ctx, State{Lines: lines})
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) {
	s.ensureLoaded(ctx)
	s.mu.Lock()
	s.commit(ctx, State{Lines: []Line{}})
	s.mu.Unlock()

	toast.Warning(s.notifier, "Cart cleared")
}

// commit publishes the new state and schedules its snapshot write.
// Callers hold s.mu.
func (s *Store) commit(ctx context.Context, next State) {
	s.state.Set(next)
	s.flusher.Flush(ctx, next)
}

// Lines returns the current lines in insertion order.
func (s *Store) Lines(ctx context.Context) []Line {
	s.ensureLoaded(ctx)
	return cloneLines(s.state.Get().Lines)
}

// Total returns the cart total, recomputed from current lines on every
// call. Never cached.
func (s *Store) Total(ctx context.Context) float64 {
	s.ensureLoaded(ctx)

	var total float64
	for _, line := range s.state.Get().Lines {
		total += line.Product.Price * float64(line.Quantity)
	}
	return total
}

// Count returns the summed quantity across lines, recomputed on every
// call.
func (s *Store) Count(ctx context.Context) int {
	s.ensureLoaded(ctx)

	var count int
	for _, line := range s.state.Get().Lines {
		count += line.Quantity
	}
	return count
}

// Loading reports whether rehydration is in progress.
func (s *Store) Loading() bool {
	return s.loading.Get()
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

func cloneLines(lines []Line) []Line {
	out := make([]Line, len(lines))
	copy(out, lines)
	return out
}
