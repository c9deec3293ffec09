// Package cache stores serialized analysis results keyed by dataset and
// request parameters. A cache is an optimisation only: callers recompute
// on any miss or error.
package cache

import (
	"context"
	"errors"
)

// Type names a cache backend
type Type string

const (
	TypeMemory Type = "memory"
	TypeRedis  Type = "redis"
	TypeNone   Type = "none"
)

// ErrClosed is returned by operations on a closed cache
var ErrClosed = errors.New("cache closed")

// Cache is a byte-oriented key/value store with a fixed entry lifetime
type Cache interface {
	// Get returns the value for key; ok is false on a miss
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set stores value under key
	Set(ctx context.Context, key string, value []byte) error

	// Type returns the backend type
	Type() Type

	// Close releases backend resources
	Close() error
}

// Stats describes the occupancy of a bounded cache
type Stats struct {
	Type       Type
	Entries    int
	Expired    int
	MaxEntries int
	Evictions  uint64
}

// StatsReporter is implemented by caches that can report occupancy
type StatsReporter interface {
	Stats() Stats
}

// NopCache never stores anything
type NopCache struct{}

func (NopCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (NopCache) Set(context.Context, string, []byte) error         { return nil }
func (NopCache) Type() Type                                        { return TypeNone }
func (NopCache) Close() error                                      { return nil }
