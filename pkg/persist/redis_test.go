package persist

import (
	"context"
	"testing"
	"time"
)

// fakeRedis implements RedisClient backed by a map.
type fakeRedis struct {
	data map[string][]byte
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string][]byte)}
}

type fakeStatusCmd struct{ err error }

func (c fakeStatusCmd) Err() error { return c.err }

type fakeStringCmd struct {
	data []byte
	err  error
}

func (c fakeStringCmd) Bytes() ([]byte, error) { return c.data, c.err }
func (c fakeStringCmd) Err() error             { return c.err }

type fakeIntCmd struct{ err error }

func (c fakeIntCmd) Err() error { return c.err }

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) RedisStatusCmd {
	f.data[key] = value.([]byte)
	return fakeStatusCmd{}
}

func (f *fakeRedis) Get(ctx context.Context, key string) RedisStringCmd {
	data, ok := f.data[key]
	if !ok {
		return fakeStringCmd{err: ErrRedisNil}
	}
	return fakeStringCmd{data: data}
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) RedisIntCmd {
	for _, k := range keys {
		delete(f.data, k)
	}
	return fakeIntCmd{}
}

func (f *fakeRedis) Close() error { return nil }

func TestRedisStoreRoundTrip(t *testing.T) {
	client := newFakeRedis()
	store := NewRedisStore(client)
	ctx := context.Background()

	if data, err := store.Get(ctx, "cart"); err != nil || data != nil {
		t.Fatalf("expected (nil, nil) for missing slot, got (%v, %v)", data, err)
	}

	if err := store.Set(ctx, "cart", []byte("snapshot")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// Key prefix is applied.
	if _, ok := client.data["shopkit:state:cart"]; !ok {
		t.Errorf("expected prefixed key, have %v", client.data)
	}

	data, err := store.Get(ctx, "cart")
	if err != nil || string(data) != "snapshot" {
		t.Errorf("round trip mismatch: (%s, %v)", data, err)
	}

	if err := store.Delete(ctx, "cart"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if data, _ := store.Get(ctx, "cart"); data != nil {
		t.Errorf("expected nil after delete, got %s", data)
	}
}

func TestRedisStoreCustomPrefix(t *testing.T) {
	client := newFakeRedis()
	store := NewRedisStore(client, WithRedisPrefix("device:42:"))

	if store.Prefix() != "device:42:" {
		t.Errorf("expected custom prefix, got %q", store.Prefix())
	}

	store.Set(context.Background(), "cart", []byte("x"))
	if _, ok := client.data["device:42:cart"]; !ok {
		t.Errorf("expected custom-prefixed key, have %v", client.data)
	}
}

func TestRedisStoreClosed(t *testing.T) {
	store := NewRedisStore(newFakeRedis())
	store.Close()

	if _, err := store.Get(context.Background(), "cart"); err == nil {
		t.Error("expected error from closed store")
	}
}
