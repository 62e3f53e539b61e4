// Package storetest provides helpers for testing code built on the
// shopkit stores.
//
// The backend builder seeds a persistence backend with snapshots so a
// store under test rehydrates into a known state:
//
//	backend := storetest.NewBackend(t).
//	    WithSnapshot("cart", cartState).
//	    WithUser(&auth.User{ID: "u1"}, nil).
//	    Build()
//
// The Expect helpers assert on captured side effects (toasts,
// navigation) without repeating the drain-and-compare boilerplate in
// every test.
package storetest

import (
	"context"
	"strings"
	"testing"

	"github.com/vango-dev/shopkit/pkg/auth"
	"github.com/vango-dev/shopkit/pkg/nav"
	"github.com/vango-dev/shopkit/pkg/persist"
	"github.com/vango-dev/shopkit/pkg/toast"
)

// BackendBuilder assembles a seeded in-memory persistence backend.
type BackendBuilder struct {
	t     *testing.T
	store *persist.MemoryStore
}

// NewBackend creates a backend builder bound to the test.
func NewBackend(t *testing.T) *BackendBuilder {
	t.Helper()
	return &BackendBuilder{
		t:     t,
		store: persist.NewMemoryStore(),
	}
}

// WithSnapshot seeds a versioned snapshot of state under the slot.
func (b *BackendBuilder) WithSnapshot(slot string, state any) *BackendBuilder {
	b.t.Helper()
	data, err := persist.EncodeSnapshot(slot, state)
	if err != nil {
		b.t.Fatalf("storetest: encode snapshot for %q: %v", slot, err)
	}
	return b.WithRawSnapshot(slot, data)
}

// WithRawSnapshot seeds raw bytes under the slot. Use this to simulate
// corrupt or legacy snapshots.
func (b *BackendBuilder) WithRawSnapshot(slot string, data []byte) *BackendBuilder {
	b.t.Helper()
	if err := b.store.Set(context.Background(), slot, data); err != nil {
		b.t.Fatalf("storetest: seed slot %q: %v", slot, err)
	}
	return b
}

// WithUser seeds an authenticated session snapshot under the default
// session slot. FirstVisit is seeded false, matching a returning user.
func (b *BackendBuilder) WithUser(user *auth.User, tokens *auth.Tokens) *BackendBuilder {
	b.t.Helper()
	if tokens == nil {
		tokens = &auth.Tokens{Access: "test-access", Refresh: "test-refresh"}
	}
	return b.WithSnapshot(auth.DefaultSlot, auth.State{
		User:   user,
		Tokens: tokens,
	})
}

// Build returns the seeded backend.
func (b *BackendBuilder) Build() *persist.MemoryStore {
	return b.store
}

// ExpectToast asserts that the recorder captured a notification with
// the given level whose message contains substr.
func ExpectToast(t *testing.T, r *toast.Recorder, level toast.Type, substr string) {
	t.Helper()
	for _, rec := range r.All() {
		if rec.Level == level && strings.Contains(rec.Message, substr) {
			return
		}
	}
	t.Errorf("expected %s toast containing %q, got %v", level, substr, r.All())
}

// ExpectNoToast asserts that the recorder captured nothing.
func ExpectNoToast(t *testing.T, r *toast.Recorder) {
	t.Helper()
	if got := r.All(); len(got) != 0 {
		t.Errorf("expected no toasts, got %v", got)
	}
}

// ExpectNavigate drains the queue and asserts the pending request
// targets the given path.
func ExpectNavigate(t *testing.T, q *nav.Queue, path string) {
	t.Helper()
	req := q.Pending()
	if req == nil {
		t.Fatalf("expected navigation to %q, got none", path)
	}
	if req.Path != path {
		t.Errorf("navigated to %q, want %q", req.Path, path)
	}
}

// ExpectNoNavigate asserts the queue has no pending request.
func ExpectNoNavigate(t *testing.T, q *nav.Queue) {
	t.Helper()
	if req := q.Pending(); req != nil {
		t.Errorf("expected no navigation, got %q", req.Path)
	}
}
