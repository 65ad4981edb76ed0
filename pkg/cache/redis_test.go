package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

// newTestRedis connects to GCDASH_TEST_REDIS_ADDR or skips.
func newTestRedis(t *testing.T) *RedisCache {
	t.Helper()
	addr := os.Getenv("GCDASH_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("GCDASH_TEST_REDIS_ADDR not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	c, err := NewRedisCache(ctx, RedisConfig{Addr: addr})
	if err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestNewRedisCacheRequiresAddr(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), RedisConfig{}); err == nil {
		t.Error("NewRedisCache without address should fail")
	}
}

func TestRedisCache(t *testing.T) {
	c := newTestRedis(t)
	ctx := context.Background()
	key := c.Prefix() + "test:" + Hash([]byte(t.Name()))
	defer c.Delete(ctx, key)

	if _, hit, err := c.Get(ctx, key); err != nil || hit {
		t.Fatalf("Get before Set = hit %v, err %v", hit, err)
	}
	if err := c.Set(ctx, key, []byte("payload"), time.Minute); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	got, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(got) != "payload" {
		t.Fatalf("Get = %q, %v, %v", got, hit, err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("Get after Delete should miss")
	}
}

func TestRedisCacheClear(t *testing.T) {
	c := newTestRedis(t)
	ctx := context.Background()

	scoped, err := NewRedisCache(ctx, RedisConfig{Addr: os.Getenv("GCDASH_TEST_REDIS_ADDR"), Prefix: "gcdash-test-clear:"})
	if err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	defer scoped.Close()

	outside := c.Prefix() + "test:keep"
	if err := c.Set(ctx, outside, []byte("x"), time.Minute); err != nil {
		t.Fatal(err)
	}
	defer c.Delete(ctx, outside)

	for _, k := range []string{"a", "b", "c"} {
		if err := scoped.Set(ctx, scoped.Prefix()+k, []byte(k), time.Minute); err != nil {
			t.Fatal(err)
		}
	}

	n, err := scoped.Clear(ctx)
	if err != nil || n != 3 {
		t.Fatalf("Clear = %d, %v; want 3, nil", n, err)
	}
	if _, hit, _ := c.Get(ctx, outside); !hit {
		t.Error("Clear should not touch keys outside its prefix")
	}
}

func TestRedisDefaultPrefix(t *testing.T) {
	c := NewRedisCacheFromClient(nil, "")
	if c.Prefix() != DefaultRedisPrefix {
		t.Errorf("Prefix() = %q, want %q", c.Prefix(), DefaultRedisPrefix)
	}
}
