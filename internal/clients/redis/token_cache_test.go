package redis

import (
	"context"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

func TestTokenCacheRoundTrip(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set TEST_REDIS_ADDR to run redis integration tests")
	}
	ctx := context.Background()
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })

	cache := NewTokenCache(rdb)
	digest := "test-" + time.Now().Format("150405.000000000")

	if _, ok, err := cache.Get(ctx, digest); err != nil || ok {
		t.Fatalf("Get (miss): ok=%v err=%v", ok, err)
	}
	if err := cache.Set(ctx, digest, `{"email":"a@example.com"}`, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	val, ok, err := cache.Get(ctx, digest)
	if err != nil || !ok || val != `{"email":"a@example.com"}` {
		t.Fatalf("Get: val=%q ok=%v err=%v", val, ok, err)
	}
	if err := cache.Set(ctx, digest+"-expired", "x", 0); err != nil {
		t.Fatalf("Set (zero ttl): %v", err)
	}
	if _, ok, _ := cache.Get(ctx, digest+"-expired"); ok {
		t.Fatalf("zero ttl should not be stored")
	}
}
