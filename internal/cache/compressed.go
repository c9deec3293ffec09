package cache

import (
	"context"
	"fmt"

	"github.com/soltixdb/roomsense/internal/compression"
)

// CompressedCache encodes values before handing them to the wrapped backend
type CompressedCache struct {
	inner      Cache
	compressor compression.Compressor
}

// NewCompressedCache wraps inner with algo. compression.None returns inner
// unchanged.
func NewCompressedCache(inner Cache, algo compression.Algorithm) (Cache, error) {
	if algo == compression.None {
		return inner, nil
	}

	compressor, err := compression.GetCompressor(algo)
	if err != nil {
		return nil, err
	}

	return &CompressedCache{inner: inner, compressor: compressor}, nil
}

// Get retrieves and decompresses a value
func (c *CompressedCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := c.inner.Get(ctx, key)
	if err != nil || !ok {
		return nil, ok, err
	}

	value, err := c.compressor.Decompress(data)
	if err != nil {
		return nil, false, fmt.Errorf("cache get %s: %w", key, err)
	}
	return value, true, nil
}

// Set compresses and stores a value
func (c *CompressedCache) Set(ctx context.Context, key string, value []byte) error {
	data, err := c.compressor.Compress(value)
	if err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return c.inner.Set(ctx, key, data)
}

// Type returns the backend type
func (c *CompressedCache) Type() Type {
	return c.inner.Type()
}

// Stats forwards the backend statistics when it reports any
func (c *CompressedCache) Stats() Stats {
	if reporter, ok := c.inner.(StatsReporter); ok {
		return reporter.Stats()
	}
	return Stats{Type: c.inner.Type()}
}

// Close closes the backend
func (c *CompressedCache) Close() error {
	return c.inner.Close()
}
