package cache

import (
	"context"
	"sync"
	"time"
)

const (
	// DefaultCleanupInterval is how often expired entries are swept
	DefaultCleanupInterval = time.Minute

	// DefaultMaxEntries bounds a memory cache created without a limit
	DefaultMaxEntries = 256
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
	seq       uint64 // write order, oldest is evicted first
}

// MemoryCache keeps at most maxEntries entries in process memory and
// sweeps expired ones in the background
type MemoryCache struct {
	mu         sync.RWMutex
	entries    map[string]*memoryEntry
	ttl        time.Duration
	maxEntries int
	seq        uint64
	evictions  uint64
	stopCh     chan struct{}
	once       sync.Once
	closed     bool
}

// NewMemoryCache creates an in-memory cache holding DefaultMaxEntries.
// A non-positive ttl keeps entries until they are evicted or Close.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return newMemoryCache(ttl, DefaultMaxEntries, DefaultCleanupInterval)
}

// NewMemoryCacheWithLimit creates an in-memory cache holding at most
// maxEntries; a non-positive limit selects DefaultMaxEntries
func NewMemoryCacheWithLimit(ttl time.Duration, maxEntries int) *MemoryCache {
	return newMemoryCache(ttl, maxEntries, DefaultCleanupInterval)
}

func newMemoryCache(ttl time.Duration, maxEntries int, cleanupInterval time.Duration) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	c := &MemoryCache{
		entries:    make(map[string]*memoryEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		stopCh:     make(chan struct{}),
	}

	if ttl > 0 {
		go c.cleanup(cleanupInterval)
	}

	return c
}

// Get retrieves a value from cache
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return nil, false, ErrClosed
	}

	entry, exists := c.entries[key]
	if !exists || c.expired(entry, time.Now()) {
		return nil, false, nil
	}

	return entry.value, true, nil
}

// Set stores a copy of value in cache. Storing a new key in a full cache
// drops expired entries first, then the oldest write.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	now := time.Now()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evict(now)
	}

	stored := make([]byte, len(value))
	copy(stored, value)

	c.seq++
	entry := &memoryEntry{value: stored, seq: c.seq}
	if c.ttl > 0 {
		entry.expiresAt = now.Add(c.ttl)
	}
	c.entries[key] = entry

	return nil
}

// evict makes room for one entry. Caller holds the write lock.
func (c *MemoryCache) evict(now time.Time) {
	for key, entry := range c.entries {
		if c.expired(entry, now) {
			delete(c.entries, key)
		}
	}

	for len(c.entries) >= c.maxEntries {
		var oldestKey string
		var oldestSeq uint64
		for key, entry := range c.entries {
			if oldestKey == "" || entry.seq < oldestSeq {
				oldestKey, oldestSeq = key, entry.seq
			}
		}
		delete(c.entries, oldestKey)
		c.evictions++
	}
}

// Len returns the number of stored entries, expired ones included
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Type returns TypeMemory
func (c *MemoryCache) Type() Type {
	return TypeMemory
}

// Close stops the cleanup goroutine and drops all entries
func (c *MemoryCache) Close() error {
	c.once.Do(func() {
		close(c.stopCh)

		c.mu.Lock()
		c.closed = true
		c.entries = make(map[string]*memoryEntry)
		c.mu.Unlock()
	})
	return nil
}

// Stats reports occupancy; expired entries count until they are swept
func (c *MemoryCache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	expired := 0
	now := time.Now()
	for _, entry := range c.entries {
		if c.expired(entry, now) {
			expired++
		}
	}

	return Stats{
		Type:       TypeMemory,
		Entries:    len(c.entries),
		Expired:    expired,
		MaxEntries: c.maxEntries,
		Evictions:  c.evictions,
	}
}

func (c *MemoryCache) expired(entry *memoryEntry, now time.Time) bool {
	return c.ttl > 0 && now.After(entry.expiresAt)
}

// cleanup periodically removes expired entries
func (c *MemoryCache) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for key, entry := range c.entries {
				if c.expired(entry, now) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		case <-c.stopCh:
			return
		}
	}
}
