package shopkit

import (
	"context"
	"testing"

	"github.com/vango-dev/shopkit/pkg/auth"
	"github.com/vango-dev/shopkit/pkg/cart"
	"github.com/vango-dev/shopkit/pkg/catalog"
	"github.com/vango-dev/shopkit/pkg/nav"
	"github.com/vango-dev/shopkit/pkg/persist"
)

func newMemoryApp(t *testing.T) *App {
	t.Helper()
	app, err := NewApp(Config{Backend: "memory"})
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	return app
}

func TestAppWiresStores(t *testing.T) {
	app := newMemoryApp(t)
	defer app.Close()
	ctx := context.Background()

	app.Cart.Add(ctx, catalog.Product{ID: "A", Price: 10}, cart.WithQuantity(2))
	if got := app.Cart.Total(ctx); got != 20 {
		t.Errorf("expected total 20, got %v", got)
	}

	app.Wishlist.Add(ctx, catalog.Product{ID: "B"})
	if !app.Wishlist.Contains(ctx, "B") {
		t.Error("expected wishlist membership")
	}
}

func TestAppStoresOwnSeparateSlots(t *testing.T) {
	backend := persist.NewMemoryStore()
	app, err := NewApp(Config{}, WithBackend(backend))
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	ctx := context.Background()

	app.Cart.Add(ctx, catalog.Product{ID: "A"})
	app.Wishlist.Add(ctx, catalog.Product{ID: "B"})
	app.Session.SetFirstVisitDone(ctx)
	app.Cart.Wait()
	app.Wishlist.Wait()
	app.Session.Wait()

	for _, slot := range []string{cart.DefaultSlot, "wishlist", auth.DefaultSlot} {
		data, err := backend.Get(ctx, slot)
		if err != nil || data == nil {
			t.Errorf("expected snapshot in slot %q, got (%v, %v)", slot, data, err)
		}
	}
}

func TestAppRedirect(t *testing.T) {
	queue := nav.NewQueue()
	app, err := NewApp(Config{Backend: "memory"}, WithNavigator(queue))
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	defer app.Close()

	app.Redirect(context.Background())
	req := queue.Pending()
	if req == nil || req.Path != auth.RouteOnboarding {
		t.Errorf("expected onboarding redirect on first visit, got %+v", req)
	}
}

func TestAppUnknownBackend(t *testing.T) {
	if _, err := NewApp(Config{Backend: "carrier-pigeon"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestAppFileBackendRoundTrip(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	app, err := NewApp(Config{Backend: "file", StateDir: dir})
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	app.Cart.Add(ctx, catalog.Product{ID: "A", Price: 5}, cart.WithQuantity(3))
	app.Close()

	reopened, err := NewApp(Config{Backend: "file", StateDir: dir})
	if err != nil {
		t.Fatalf("NewApp reopen failed: %v", err)
	}
	defer reopened.Close()

	if got := reopened.Cart.Total(ctx); got != 15 {
		t.Errorf("expected rehydrated total 15, got %v", got)
	}
}
