package persist

import (
	"context"
	"log/slog"
	"sync"
)

// Flusher owns the fire-and-forget snapshot writes for one slot.
//
// Mutations commit in memory first, then hand the new state to Flush,
// which encodes it synchronously and queues it for a background worker.
// Callers never wait on the write, even when an earlier write is still
// in flight against a slow backend; a failed or unfinished write leaves
// the persisted snapshot at most one mutation behind the in-memory
// state, which rehydration tolerates.
//
// A single worker drains the queue and always writes the newest queued
// snapshot, so intermediate snapshots coalesce and an older write can
// never clobber a newer one.
type Flusher struct {
	store  Store
	slot   string
	logger *slog.Logger

	mu      sync.Mutex
	pending *pendingWrite
	running bool

	wg sync.WaitGroup
}

// pendingWrite is the newest snapshot awaiting its backend write.
type pendingWrite struct {
	ctx  context.Context
	data []byte
}

// NewFlusher creates a flusher for one slot. A nil logger uses
// slog.Default().
func NewFlusher(store Store, slot string, logger *slog.Logger) *Flusher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Flusher{
		store:  store,
		slot:   slot,
		logger: logger,
	}
}

// Flush encodes state and queues its write, replacing any snapshot
// still waiting for the worker. Encoding happens on the calling
// goroutine so the snapshot reflects the state at call time; the
// backend write never does. All failures are logged and swallowed: the
// committed in-memory state stays authoritative.
func (f *Flusher) Flush(ctx context.Context, state any) {
	data, err := EncodeSnapshot(f.slot, state)
	if err != nil {
		f.logger.Warn("snapshot encode failed, persisted state is stale",
			"slot", f.slot, "error", err)
		return
	}

	// Detach from the caller's cancellation: the mutation is already
	// committed, so the write should proceed even if the UI context ends.
	writeCtx := context.WithoutCancel(ctx)

	f.mu.Lock()
	f.pending = &pendingWrite{ctx: writeCtx, data: data}
	if !f.running {
		f.running = true
		f.wg.Add(1)
		go f.drain()
	}
	f.mu.Unlock()
}

// drain writes queued snapshots until none remain. Only the newest
// snapshot is ever written; anything queued while a write was in flight
// supersedes it.
func (f *Flusher) drain() {
	defer f.wg.Done()

	for {
		f.mu.Lock()
		p := f.pending
		f.pending = nil
		if p == nil {
			f.running = false
			f.mu.Unlock()
			return
		}
		f.mu.Unlock()

		if err := f.store.Set(p.ctx, f.slot, p.data); err != nil {
			f.logger.Warn("snapshot write failed, persisted state is stale",
				"slot", f.slot, "error", err)
		}
	}
}

// Rehydrate performs the one-shot load for the slot, decoding into out.
// It returns false when no usable snapshot exists — missing slot, backend
// failure, or unreadable snapshot — and the caller proceeds with
// defaults.
func (f *Flusher) Rehydrate(ctx context.Context, out any) bool {
	data, err := f.store.Get(ctx, f.slot)
	if err != nil {
		f.logger.Warn("rehydration read failed, using defaults",
			"slot", f.slot, "error", err)
		return false
	}
	if data == nil {
		return false
	}
	if err := DecodeSnapshot(data, out); err != nil {
		f.logger.Warn("snapshot unreadable, using defaults",
			"slot", f.slot, "error", err)
		return false
	}
	return true
}

// Wait blocks until all queued writes have finished.
// This is for tests and graceful shutdown.
func (f *Flusher) Wait() {
	f.wg.Wait()
}
