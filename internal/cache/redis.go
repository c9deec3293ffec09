package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig represents the Redis cache backend configuration
type RedisConfig struct {
	URL      string        // Redis URL (e.g., redis://localhost:6379)
	Password string        // Optional password, overrides the URL's
	DB       int           // Database number, overrides the URL's when non-zero
	Prefix   string        // Key prefix (default: "roomsense")
	TTL      time.Duration // Entry lifetime; 0 keeps entries
}

// RedisCache stores entries in Redis
type RedisCache struct {
	client *redis.Client
	config RedisConfig
}

// redisOptions builds client options from a redis:// URL or a plain
// address. A non-empty Password or non-zero DB overrides the URL.
func redisOptions(cfg RedisConfig) *redis.Options {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return &redis.Options{
			Addr:     cfg.URL,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}

	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}
	return opts
}

// newRedisCache connects to Redis and verifies the connection
func newRedisCache(cfg RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(redisOptions(cfg))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return newRedisCacheWithClient(client, cfg), nil
}

func newRedisCacheWithClient(client *redis.Client, cfg RedisConfig) *RedisCache {
	if cfg.Prefix == "" {
		cfg.Prefix = "roomsense"
	}

	return &RedisCache{
		client: client,
		config: cfg,
	}
}

// key namespaces a cache key under the configured prefix
func (c *RedisCache) key(key string) string {
	return fmt.Sprintf("%s:%s", c.config.Prefix, key)
}

// Get retrieves a value
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	return data, true, nil
}

// Set stores a value with the configured TTL
func (c *RedisCache) Set(ctx context.Context, key string, value []byte) error {
	if err := c.client.Set(ctx, c.key(key), value, c.config.TTL).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}

	return nil
}

// Type returns TypeRedis
func (c *RedisCache) Type() Type {
	return TypeRedis
}

// Close closes the Redis client
func (c *RedisCache) Close() error {
	return c.client.Close()
}
