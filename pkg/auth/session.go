package auth

import (
	"context"
	"log/slog"
	"sync"

	"github.com/vango-dev/shopkit/pkg/persist"
	"github.com/vango-dev/shopkit/pkg/reactive"
)

// DefaultSlot is the persistence slot key for the session.
const DefaultSlot = "session"

// State is the session's public state. Loading and Err are runtime
// fields and excluded from the persisted snapshot; User, Tokens, and
// FirstVisit survive restarts.
type State struct {
	User       *User   `json:"user,omitempty"`
	Tokens     *Tokens `json:"tokens,omitempty"`
	FirstVisit bool    `json:"firstVisit"`

	Loading bool   `json:"-"`
	Err     string `json:"-"`
}

// Authenticated reports whether the session holds both tokens and a
// user. Derived, never stored.
func (s State) Authenticated() bool {
	return s.User != nil && s.Tokens != nil
}

// Store holds the auth session. Auth operations run their asynchronous
// work against the Backend with Loading flipped true around it; failures
// land in Err and are cleared on the next attempt. A generation guard
// discards results that resolve after a superseding operation, so a
// stale login response can never resurrect tokens past a logout.
type Store struct {
	backend Backend
	flusher *persist.Flusher
	logger  *slog.Logger
	slot    string

	// mu serializes mutations and guards gen.
	mu       sync.Mutex
	gen      uint64
	loadOnce sync.Once

	state *reactive.Signal[State]
}

// Option configures the session store.
type Option func(*config)

type config struct {
	slot   string
	logger *slog.Logger
}

// WithSlot sets the persistence slot key. Default: "session".
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

// New creates a session store over the given backend and persistence
// store. FirstVisit starts true and flips false exactly once, via
// SetFirstVisitDone; it survives restarts to gate one-time onboarding.
func New(backend Backend, store persist.Store, opts ...Option) *Store {
	cfg := &config{
		slot:   DefaultSlot,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Store{
		backend: backend,
		flusher: persist.NewFlusher(store, cfg.slot, cfg.logger),
		logger:  cfg.logger,
		slot:    cfg.slot,
		state:   reactive.NewSignal(State{FirstVisit: true}),
	}
}

// ensureLoaded performs the one-shot rehydration. Defaults (anonymous,
// FirstVisit true) are kept when no usable snapshot exists.
func (s *Store) ensureLoaded(ctx context.Context) {
	s.loadOnce.Do(func() {
		loaded := State{FirstVisit: true}
		if s.flusher.Rehydrate(ctx, &loaded) {
			s.state.Force(loaded)
		}
	})
}

// beginOp starts an async auth operation: flips Loading, clears the
// previous error, and returns the generation this operation owns.
func (s *Store) beginOp(ctx context.Context) uint64 {
	s.ensureLoaded(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	g := s.gen

	st := s.state.Get()
	st.Loading = true
	st.Err = ""
	s.state.Set(st)
	return g
}

// finishOp applies the result of an async operation unless a
// superseding operation (another call, or logout) moved the generation
// forward, in which case the result is discarded entirely. apply
// returns true when the persisted fields changed.
func (s *Store) finishOp(ctx context.Context, g uint64, apply func(*State) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen != g {
		// Stale response: a later operation owns the session now.
		s.logger.Debug("discarding stale auth result", "slot", s.slot)
		return
	}

	st := s.state.Get()
	st.Loading = false
	changed := apply(&st)
	s.state.Set(st)

	if changed {
		s.flusher.Flush(ctx, st)
	}
}

// Login exchanges credentials for a session. On success tokens and user
// are stored and the error cleared; on failure tokens and user are left
// untouched and Err is set.
func (s *Store) Login(ctx context.Context, creds Credentials) {
	g := s.beginOp(ctx)

	grant, err := s.backend.Login(ctx, creds)

	s.finishOp(ctx, g, func(st *State) bool {
		if err != nil {
			st.Err = err.Error()
			return false
		}
		user, tokens := grant.User, grant.Tokens
		st.User = &user
		st.Tokens = &tokens
		return true
	})
}

// Register creates an account; the resulting session follows the same
// contract as Login.
func (s *Store) Register(ctx context.Context, reg Registration) {
	g := s.beginOp(ctx)

	grant, err := s.backend.Register(ctx, reg)

	s.finishOp(ctx, g, func(st *State) bool {
		if err != nil {
			st.Err = err.Error()
			return false
		}
		user, tokens := grant.User, grant.Tokens
		st.User = &user
		st.Tokens = &tokens
		return true
	})
}

// Logout clears tokens and user unconditionally and supersedes any
// in-flight auth operation. FirstVisit is kept.
func (s *Store) Logout(ctx context.Context) {
	s.ensureLoaded(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	// Any in-flight result must not resurrect the session.
	s.gen++

	st := s.state.Get()
	st.User = nil
	st.Tokens = nil
	st.Loading = false
	st.Err = ""
	s.state.Set(st)

	s.flusher.Flush(ctx, st)
}

// RefreshUser fetches the current user with the existing tokens. A
// failed refresh sets Err and leaves tokens untouched; whether to log
// out is the caller's decision. Without tokens it fails immediately.
func (s *Store) RefreshUser(ctx context.Context) {
	g := s.beginOp(ctx)

	s.mu.Lock()
	tokens := s.state.Get().Tokens
	s.mu.Unlock()

	if tokens == nil {
		s.finishOp(ctx, g, func(st *State) bool {
			st.Err = "not authenticated"
			return false
		})
		return
	}

	user, err := s.backend.CurrentUser(ctx, *tokens)

	s.finishOp(ctx, g, func(st *State) bool {
		if err != nil {
			st.Err = err.Error()
			return false
		}
		st.User = &user
		return true
	})
}

// RequestVerificationCode asks the backend to send a verification code
// to target. Isolated request/response action: it never touches tokens
// or user.
func (s *Store) RequestVerificationCode(ctx context.Context, target string) {
	g := s.beginOp(ctx)

	err := s.backend.RequestVerificationCode(ctx, target)

	s.finishOp(ctx, g, func(st *State) bool {
		if err != nil {
			st.Err = err.Error()
		}
		return false
	})
}

// VerifyCode checks a previously requested code. On success the calling
// flow typically proceeds into Login.
func (s *Store) VerifyCode(ctx context.Context, target, code string) {
	g := s.beginOp(ctx)

	err := s.backend.VerifyCode(ctx, target, code)

	s.finishOp(ctx, g, func(st *State) bool {
		if err != nil {
			st.Err = err.Error()
		}
		return false
	})
}

// ResetPassword sets a new password after code verification.
func (s *Store) ResetPassword(ctx context.Context, target, code, newPassword string) {
	g := s.beginOp(ctx)

	err := s.backend.ResetPassword(ctx, target, code, newPassword)

	s.finishOp(ctx, g, func(st *State) bool {
		if err != nil {
			st.Err = err.Error()
		}
		return false
	})
}

// SetFirstVisitDone flips FirstVisit to false. One-directional: there
// is no operation to set it back.
func (s *Store) SetFirstVisitDone(ctx context.Context) {
	s.ensureLoaded(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state.Get()
	if !st.FirstVisit {
		return
	}
	st.FirstVisit = false
	s.state.Set(st)

	s.flusher.Flush(ctx, st)
}

// Snapshot returns the current session state.
func (s *Store) Snapshot(ctx context.Context) State {
	s.ensureLoaded(ctx)
	return s.state.Get()
}

// Authenticated reports whether the session holds tokens and a user.
func (s *Store) Authenticated(ctx context.Context) bool {
	return s.Snapshot(ctx).Authenticated()
}

// Err returns the error from the most recent failed operation, or ""
// after a success or before any operation.
func (s *Store) Err(ctx context.Context) string {
	return s.Snapshot(ctx).Err
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
