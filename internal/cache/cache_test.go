// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// testValkeyClient returns a Redis client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, rateKeyPrefix+"test-*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestConnectValkey(t *testing.T) {
	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")

	client, err := ConnectValkey(context.Background(), host, port, os.Getenv("VALKEY_PASSWORD"))
	if err != nil {
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}
	defer client.Close()

	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Errorf("ping after connect: %v", err)
	}
}

func TestConnectValkeyUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, err := ConnectValkey(ctx, "127.0.0.1", "1", ""); err == nil {
		t.Error("expected an error for an unreachable server")
	}
}

func TestRateLimiterWindowKey(t *testing.T) {
	rl := NewRateLimiter(nil, 3, time.Minute)
	rl.now = func() time.Time { return time.Unix(125, 0) }

	if got := rl.windowKey("comment:10.0.0.1"); got != "ratelimit:comment:10.0.0.1:120" {
		t.Errorf("windowKey = %q", got)
	}

	// The next window gets a fresh counter.
	rl.now = func() time.Time { return time.Unix(180, 0) }
	if got := rl.windowKey("comment:10.0.0.1"); !strings.HasSuffix(got, ":180") {
		t.Errorf("windowKey = %q, want the 180 window", got)
	}
}

func TestRateLimiterAllow(t *testing.T) {
	client := testValkeyClient(t)
	ctx := context.Background()
	rl := NewRateLimiter(client, 3, time.Minute)
	key := "test-" + uuid.NewString()

	for i := 0; i < 3; i++ {
		ok, err := rl.Allow(ctx, key)
		if err != nil {
			t.Fatalf("Allow: %v", err)
		}
		if !ok {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	ok, err := rl.Allow(ctx, key)
	if err != nil {
		t.Fatalf("Allow: %v", err)
	}
	if ok {
		t.Error("4th request should be rate-limited")
	}

	if ok, _ := rl.Allow(ctx, key+"-other"); !ok {
		t.Error("a different key should be allowed")
	}

	ttl, err := client.TTL(ctx, rl.windowKey(key)).Result()
	if err != nil {
		t.Fatalf("TTL: %v", err)
	}
	if ttl <= 0 || ttl > time.Minute {
		t.Errorf("counter TTL = %v, want within the window", ttl)
	}
}

func TestRateLimiterAllowUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, err := NewRateLimiter(client, 1, time.Minute).Allow(ctx, "test-x"); err == nil {
		t.Error("expected an error when Valkey is down")
	}
}
