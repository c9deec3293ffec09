package cache

import (
	"fmt"
	"strings"

	"github.com/soltixdb/roomsense/internal/compression"
	"github.com/soltixdb/roomsense/internal/config"
)

// NewCache creates a Cache based on configuration.
// Default is an in-memory cache if type is not specified. Values of memory
// and redis backends are compressed with cfg.Compression.
func NewCache(cfg config.CacheConfig) (Cache, error) {
	cacheType := Type(strings.ToLower(cfg.Type))

	if cacheType == "" {
		cacheType = TypeMemory
	}

	algo, err := compression.ParseAlgorithm(cfg.Compression)
	if err != nil {
		return nil, err
	}

	var backend Cache
	switch cacheType {
	case TypeMemory:
		backend = NewMemoryCacheWithLimit(cfg.TTL, cfg.MaxEntries)

	case TypeRedis:
		redisCache, err := newRedisCache(RedisConfig{
			URL:      cfg.URL,
			Password: cfg.Password,
			DB:       cfg.DB,
			Prefix:   cfg.Prefix,
			TTL:      cfg.TTL,
		})
		if err != nil {
			return nil, err
		}
		backend = redisCache

	case TypeNone:
		return NopCache{}, nil

	default:
		return nil, fmt.Errorf("unsupported cache type: %s (supported: memory, redis, none)", cacheType)
	}

	return NewCompressedCache(backend, algo)
}
