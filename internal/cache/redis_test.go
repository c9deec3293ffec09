package cache

import (
	"bytes"
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/soltixdb/roomsense/internal/compression"
)

// Test helper: check if Redis is available
func isRedisAvailable() bool {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
	})
	defer func() { _ = client.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	return client.Ping(ctx).Err() == nil
}

// Test helper: get Redis URL from env or default
func getRedisURL() string {
	if url := os.Getenv("REDIS_URL"); url != "" {
		return url
	}
	return "redis://localhost:6379"
}

func TestRedisCache_SetAndGet(t *testing.T) {
	if !isRedisAvailable() {
		t.Skip("Redis not available, skipping test")
	}

	for _, algo := range []compression.Algorithm{compression.None, compression.Snappy} {
		t.Run(algo.String(), func(t *testing.T) {
			rc, err := newRedisCache(RedisConfig{
				URL:    getRedisURL(),
				Prefix: "test-roomsense-" + algo.String(),
				TTL:    time.Minute,
			})
			if err != nil {
				t.Fatalf("Failed to create Redis cache: %v", err)
			}
			c, err := NewCompressedCache(rc, algo)
			if err != nil {
				t.Fatalf("Failed to wrap Redis cache: %v", err)
			}
			defer func() { _ = c.Close() }()

			ctx := context.Background()
			defer rc.client.Del(ctx, rc.key("trend:CO2"))

			payload := bytes.Repeat([]byte(`{"trend":"Stable"},`), 200)
			if err := c.Set(ctx, "trend:CO2", payload); err != nil {
				t.Fatalf("Set failed: %v", err)
			}

			stored, err := rc.client.Get(ctx, rc.key("trend:CO2")).Bytes()
			if err != nil {
				t.Fatalf("raw get failed: %v", err)
			}
			if algo == compression.Snappy && len(stored) >= len(payload) {
				t.Errorf("Expected compressed entry, stored %d of %d bytes", len(stored), len(payload))
			}

			got, ok, err := c.Get(ctx, "trend:CO2")
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if !ok {
				t.Fatal("Expected key to exist")
			}
			if !bytes.Equal(payload, got) {
				t.Error("Round-tripped payload differs")
			}

			ttl := rc.client.TTL(ctx, rc.key("trend:CO2")).Val()
			if ttl <= 0 || ttl > time.Minute {
				t.Errorf("Expected TTL within 1m, got %v", ttl)
			}
		})
	}
}

func TestRedisCache_Miss(t *testing.T) {
	if !isRedisAvailable() {
		t.Skip("Redis not available, skipping test")
	}

	c, err := newRedisCache(RedisConfig{URL: getRedisURL(), Prefix: "test-roomsense-miss"})
	if err != nil {
		t.Fatalf("Failed to create Redis cache: %v", err)
	}
	defer func() { _ = c.Close() }()

	_, ok, err := c.Get(context.Background(), "does-not-exist")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("Expected miss")
	}
}

func TestRedisCache_DefaultPrefix(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer func() { _ = client.Close() }()

	c := newRedisCacheWithClient(client, RedisConfig{})
	if got := c.key("a"); got != "roomsense:a" {
		t.Errorf("Expected roomsense:a, got %s", got)
	}
	if c.Type() != TypeRedis {
		t.Errorf("Expected redis type, got %s", c.Type())
	}
}

func TestRedisOptions(t *testing.T) {
	tests := []struct {
		name     string
		cfg      RedisConfig
		addr     string
		password string
		db       int
	}{
		{
			name: "url only",
			cfg:  RedisConfig{URL: "redis://:urlpass@cache:6380/2"},
			addr: "cache:6380", password: "urlpass", db: 2,
		},
		{
			name: "password and db override url",
			cfg:  RedisConfig{URL: "redis://:urlpass@cache:6380/2", Password: "cfgpass", DB: 5},
			addr: "cache:6380", password: "cfgpass", db: 5,
		},
		{
			name: "zero values keep url settings",
			cfg:  RedisConfig{URL: "redis://cache:6379/3"},
			addr: "cache:6379", password: "", db: 3,
		},
		{
			name: "plain address",
			cfg:  RedisConfig{URL: "localhost:6379", Password: "secret", DB: 1},
			addr: "localhost:6379", password: "secret", db: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := redisOptions(tt.cfg)
			if opts.Addr != tt.addr {
				t.Errorf("Expected addr %s, got %s", tt.addr, opts.Addr)
			}
			if opts.Password != tt.password {
				t.Errorf("Expected password %q, got %q", tt.password, opts.Password)
			}
			if opts.DB != tt.db {
				t.Errorf("Expected db %d, got %d", tt.db, opts.DB)
			}
		})
	}
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	if _, err := newRedisCache(RedisConfig{URL: "redis://127.0.0.1:1"}); err == nil {
		t.Error("Expected connection error")
	}
}
