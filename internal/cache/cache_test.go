package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func TestLRUCache_GetSet(t *testing.T) {
	c, err := NewLRUCache(2)
	if err != nil {
		t.Fatalf("NewLRUCache failed: %v", err)
	}
	ctx := context.Background()

	c.Set(ctx, "a", []float32{1, 2})
	c.Set(ctx, "b", []float32{3, 4})
	c.Set(ctx, "c", []float32{5, 6})

	if _, ok := c.Get(ctx, "a"); ok {
		t.Error("Expected least recently used entry to be evicted")
	}

	got, ok := c.Get(ctx, "c")
	if !ok || got[0] != 5 {
		t.Fatalf("Expected entry c, got %v (ok=%v)", got, ok)
	}

	got[0] = 99
	again, _ := c.Get(ctx, "c")
	if again[0] != 5 {
		t.Error("Expected Get to return a copy")
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("Expected empty cache, got %d entries", c.Len())
	}
}

func TestVectorEncoding_RoundTrip(t *testing.T) {
	in := []float32{0, -1.5, 3.25, 1e-7}
	out, err := decodeVector(encodeVector(in))
	if err != nil {
		t.Fatalf("decodeVector failed: %v", err)
	}
	for i := range in {
		if in[i] != out[i] {
			t.Errorf("index %d: expected %f, got %f", i, in[i], out[i])
		}
	}

	if _, err := decodeVector([]byte{1, 2, 3}); err == nil {
		t.Error("Expected error for truncated vector")
	}
}

// Requires a running Redis: REDIS_ADDR=localhost:6379 go test ./internal/cache/...
func TestRedisCache_Integration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	c := NewRedisCache(client, "anime-recommender-test:", time.Minute, newTestLogger())

	c.Set(ctx, "romance", []float32{0.25, 0.75})
	got, ok := c.Get(ctx, "romance")
	if !ok || got[1] != 0.75 {
		t.Fatalf("Expected cached vector, got %v (ok=%v)", got, ok)
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, ok := c.Get(ctx, "romance"); ok {
		t.Error("Expected miss after Clear")
	}
}

func TestRedisCache_UnreachableIsMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	c := NewRedisCache(client, "", time.Minute, newTestLogger())
	ctx := context.Background()

	c.Set(ctx, "k", []float32{1})
	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("Expected miss when Redis is unreachable")
	}
}
