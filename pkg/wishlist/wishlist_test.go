package wishlist

import (
	"context"
	"testing"

	"github.com/vango-dev/shopkit/pkg/catalog"
	"github.com/vango-dev/shopkit/pkg/persist"
	"github.com/vango-dev/shopkit/pkg/toast"
)

var (
	p1 = catalog.Product{ID: "P1", Title: "Lamp", Price: 25}
	p2 = catalog.Product{ID: "P2", Title: "Rug", Price: 120}
)

func TestAddIsIdempotent(t *testing.T) {
	store := New(persist.NewMemoryStore())
	ctx := context.Background()

	store.Add(ctx, p1)
	store.Add(ctx, p1)

	if got := store.Count(ctx); got != 1 {
		t.Errorf("expected single item after repeated add, got %d", got)
	}
	if !store.Contains(ctx, "P1") {
		t.Error("expected P1 to be a member")
	}
}

func TestAddRemoveSequence(t *testing.T) {
	store := New(persist.NewMemoryStore())
	ctx := context.Background()

	store.Add(ctx, p1)
	store.Add(ctx, p1)
	store.Remove(ctx, "P1")

	if got := store.Count(ctx); got != 0 {
		t.Errorf("expected empty wishlist, got %d items", got)
	}
	if store.Contains(ctx, "P1") {
		t.Error("expected P1 not to be a member")
	}
}

func TestRemoveAbsentIsNoOp(t *testing.T) {
	store := New(persist.NewMemoryStore())
	ctx := context.Background()

	store.Add(ctx, p1)
	store.Remove(ctx, "missing")

	if got := store.Count(ctx); got != 1 {
		t.Errorf("expected count unchanged, got %d", got)
	}
}

func TestToggleTwiceRestoresMembership(t *testing.T) {
	store := New(persist.NewMemoryStore())
	ctx := context.Background()

	store.Toggle(ctx, p1)
	if !store.Contains(ctx, "P1") {
		t.Fatal("expected member after first toggle")
	}

	store.Toggle(ctx, p1)
	if store.Contains(ctx, "P1") {
		t.Error("expected membership restored to absent after second toggle")
	}

	// And from the present side.
	store.Add(ctx, p2)
	store.Toggle(ctx, p2)
	store.Toggle(ctx, p2)
	if !store.Contains(ctx, "P2") {
		t.Error("expected membership restored to present after double toggle")
	}
}

func TestInsertionOrder(t *testing.T) {
	store := New(persist.NewMemoryStore())
	ctx := context.Background()

	store.Add(ctx, p2)
	store.Add(ctx, p1)
	store.Add(ctx, p2) // ignored, must not move

	items := store.Items(ctx)
	if len(items) != 2 || items[0].ID != "P2" || items[1].ID != "P1" {
		t.Errorf("expected insertion order [P2 P1], got %+v", items)
	}
}

func TestClear(t *testing.T) {
	store := New(persist.NewMemoryStore())
	ctx := context.Background()

	store.Add(ctx, p1)
	store.Add(ctx, p2)
	store.Clear(ctx)

	if got := store.Count(ctx); got != 0 {
		t.Errorf("expected empty wishlist after clear, got %d", got)
	}
	for _, id := range []string{"P1", "P2"} {
		if store.Contains(ctx, id) {
			t.Errorf("expected %s absent after clear", id)
		}
	}
}

func TestRehydrationRoundTrip(t *testing.T) {
	backend := persist.NewMemoryStore()
	ctx := context.Background()

	store := New(backend)
	store.Add(ctx, p1)
	store.Add(ctx, p2)
	store.Wait()

	fresh := New(backend)
	items := fresh.Items(ctx)
	if len(items) != 2 || items[0].ID != "P1" || items[1].ID != "P2" {
		t.Errorf("unexpected rehydrated items: %+v", items)
	}
	if !fresh.Contains(ctx, "P1") {
		t.Error("expected rehydrated membership for P1")
	}
}

func TestSubscribeAndReadsDoNotNotify(t *testing.T) {
	store := New(persist.NewMemoryStore())
	ctx := context.Background()

	notified := 0
	stop := store.Subscribe(func(State) { notified++ })
	defer stop()

	store.Add(ctx, p1)
	store.Contains(ctx, "P1")
	store.Items(ctx)
	store.Count(ctx)

	if notified != 1 {
		t.Errorf("expected exactly 1 notification, got %d", notified)
	}
}

func TestNotifierSeverities(t *testing.T) {
	rec := &toast.Recorder{}
	store := New(persist.NewMemoryStore(), WithNotifier(rec))
	ctx := context.Background()

	store.Add(ctx, p1)
	store.Add(ctx, p1) // idempotent repeat must not notify
	store.Remove(ctx, "P1")
	store.Clear(ctx)

	got := rec.All()
	if len(got) != 3 {
		t.Fatalf("expected 3 notifications, got %d: %+v", len(got), got)
	}
	if got[0].Level != toast.TypeSuccess || got[1].Level != toast.TypeInfo || got[2].Level != toast.TypeWarning {
		t.Errorf("unexpected severities: %+v", got)
	}
}
