package persist

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"
)

// failingStore always fails writes.
type failingStore struct{ MemoryStore }

func (f *failingStore) Set(ctx context.Context, key string, data []byte) error {
	return errors.New("disk full")
}

func TestFlusherWritesSnapshot(t *testing.T) {
	backend := NewMemoryStore()
	f := NewFlusher(backend, "cart", slog.Default())

	f.Flush(context.Background(), testState{Items: []string{"a"}})
	f.Wait()

	data, err := backend.Get(context.Background(), "cart")
	if err != nil || data == nil {
		t.Fatalf("expected snapshot written, got (%v, %v)", data, err)
	}

	var out testState
	if err := DecodeSnapshot(data, &out); err != nil {
		t.Fatalf("snapshot unreadable: %v", err)
	}
	if len(out.Items) != 1 || out.Items[0] != "a" {
		t.Errorf("unexpected state: %v", out.Items)
	}
}

func TestFlusherSwallowsWriteFailure(t *testing.T) {
	f := NewFlusher(&failingStore{}, "cart", slog.Default())

	// Must not panic or propagate.
	f.Flush(context.Background(), testState{})
	f.Wait()
}

func TestFlusherRehydrate(t *testing.T) {
	backend := NewMemoryStore()
	ctx := context.Background()

	f := NewFlusher(backend, "wishlist", nil)

	var out testState
	if f.Rehydrate(ctx, &out) {
		t.Error("expected false for missing snapshot")
	}

	f.Flush(ctx, testState{Items: []string{"p1"}})
	f.Wait()

	fresh := NewFlusher(backend, "wishlist", nil)
	if !fresh.Rehydrate(ctx, &out) {
		t.Fatal("expected rehydration to succeed")
	}
	if len(out.Items) != 1 || out.Items[0] != "p1" {
		t.Errorf("unexpected rehydrated state: %v", out.Items)
	}
}

func TestFlusherRehydrateUnreadableSnapshot(t *testing.T) {
	backend := NewMemoryStore()
	ctx := context.Background()
	backend.Set(ctx, "cart", []byte("not a snapshot"))

	f := NewFlusher(backend, "cart", nil)

	var out testState
	if f.Rehydrate(ctx, &out) {
		t.Error("expected false for unreadable snapshot")
	}
}

// gatedStore blocks every Set until released.
type gatedStore struct {
	MemoryStore
	entered chan struct{}
	release chan struct{}
}

func (g *gatedStore) Set(ctx context.Context, key string, data []byte) error {
	g.entered <- struct{}{}
	<-g.release
	return g.MemoryStore.Set(ctx, key, data)
}

func TestFlushDoesNotWaitOnInflightWrite(t *testing.T) {
	backend := &gatedStore{
		MemoryStore: MemoryStore{slots: make(map[string][]byte)},
		entered:     make(chan struct{}, 2),
		release:     make(chan struct{}),
	}
	f := NewFlusher(backend, "cart", nil)
	ctx := context.Background()

	f.Flush(ctx, testState{Items: []string{"a"}})
	<-backend.entered // first write is now stuck in the backend

	// Subsequent flushes must return without touching the backend.
	done := make(chan struct{})
	go func() {
		f.Flush(ctx, testState{Items: []string{"a", "b"}})
		f.Flush(ctx, testState{Items: []string{"a", "b", "c"}})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Flush blocked on an in-flight backend write")
	}

	close(backend.release)
	<-backend.entered // coalesced write of the newest snapshot
	f.Wait()

	data, err := backend.Get(ctx, "cart")
	if err != nil || data == nil {
		t.Fatalf("expected snapshot written, got (%v, %v)", data, err)
	}
	var out testState
	if err := DecodeSnapshot(data, &out); err != nil {
		t.Fatalf("final snapshot unreadable: %v", err)
	}
	if len(out.Items) != 3 {
		t.Errorf("expected newest snapshot to win, got %v", out.Items)
	}
}

func TestFlusherLastWriteWins(t *testing.T) {
	backend := NewMemoryStore()
	f := NewFlusher(backend, "cart", nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			f.Flush(ctx, testState{Items: []string{"x"}})
		}(i)
	}
	wg.Wait()
	f.Wait()

	data, _ := backend.Get(ctx, "cart")
	var out testState
	if err := DecodeSnapshot(data, &out); err != nil {
		t.Fatalf("final snapshot unreadable: %v", err)
	}
}
