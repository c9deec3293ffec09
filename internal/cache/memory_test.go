package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestMemoryCache_SetAndGet(t *testing.T) {
	c := NewMemoryCache(time.Second)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	tests := []struct {
		name  string
		key   string
		value []byte
	}{
		{name: "simple_key_value", key: "test-key", value: []byte("test-value")},
		{name: "analysis_key", key: "ds-1:anomalies:Temperature:2.5", value: []byte(`{"total":1440}`)},
		{name: "empty_value", key: "empty-key", value: []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := c.Set(ctx, tt.key, tt.value); err != nil {
				t.Fatalf("Set failed: %v", err)
			}

			value, ok, err := c.Get(ctx, tt.key)
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if !ok {
				t.Error("Expected key to exist in cache")
			}
			if string(value) != string(tt.value) {
				t.Errorf("Expected value %q, got %q", tt.value, value)
			}
		})
	}
}

func TestMemoryCache_StoresCopy(t *testing.T) {
	c := NewMemoryCache(time.Second)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	value := []byte("abc")
	_ = c.Set(ctx, "k", value)
	value[0] = 'z'

	got, _, _ := c.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("Expected stored copy %q, got %q", "abc", got)
	}
}

func TestMemoryCache_GetNonExistent(t *testing.T) {
	c := NewMemoryCache(time.Second)
	defer func() { _ = c.Close() }()

	value, ok, err := c.Get(context.Background(), "nonexistent-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("Expected key to not exist")
	}
	if value != nil {
		t.Errorf("Expected nil value, got %q", value)
	}
}

func TestMemoryCache_GetExpired(t *testing.T) {
	c := NewMemoryCache(50 * time.Millisecond)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	_ = c.Set(ctx, "expiring", []byte("value"))
	time.Sleep(100 * time.Millisecond)

	if _, ok, _ := c.Get(ctx, "expiring"); ok {
		t.Error("Expected expired key to be reported as missing")
	}

	stats := c.Stats()
	if stats.Expired != 1 {
		t.Errorf("Expected 1 expired entry, got %d", stats.Expired)
	}
}

func TestMemoryCache_CleanupRemovesExpired(t *testing.T) {
	c := newMemoryCache(20*time.Millisecond, DefaultMaxEntries, 10*time.Millisecond)
	defer func() { _ = c.Close() }()

	_ = c.Set(context.Background(), "a", []byte("1"))

	deadline := time.Now().Add(time.Second)
	for c.Len() > 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if c.Len() != 0 {
		t.Errorf("Expected cleanup to remove expired entry, %d remain", c.Len())
	}
}

func TestMemoryCache_NoTTL(t *testing.T) {
	c := NewMemoryCache(0)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	_ = c.Set(ctx, "forever", []byte("v"))
	if _, ok, _ := c.Get(ctx, "forever"); !ok {
		t.Error("Expected entry without TTL to be kept")
	}
}

func TestMemoryCache_EvictsOldestWrite(t *testing.T) {
	c := NewMemoryCacheWithLimit(time.Minute, 3)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		_ = c.Set(ctx, key, []byte(key))
	}
	// Overwriting an existing key never evicts
	_ = c.Set(ctx, "a", []byte("a2"))
	if c.Len() != 3 {
		t.Fatalf("Expected 3 entries, got %d", c.Len())
	}

	_ = c.Set(ctx, "d", []byte("d"))
	if c.Len() != 3 {
		t.Errorf("Expected the bound of 3 entries, got %d", c.Len())
	}
	if _, ok, _ := c.Get(ctx, "b"); ok {
		t.Error("Expected oldest write 'b' to be evicted")
	}
	for _, key := range []string{"a", "c", "d"} {
		if _, ok, _ := c.Get(ctx, key); !ok {
			t.Errorf("Expected %q to be kept", key)
		}
	}

	stats := c.Stats()
	if stats.Evictions != 1 || stats.MaxEntries != 3 || stats.Type != TypeMemory {
		t.Errorf("Unexpected stats %+v", stats)
	}
}

func TestMemoryCache_EvictsExpiredFirst(t *testing.T) {
	c := newMemoryCache(30*time.Millisecond, 2, time.Hour)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	_ = c.Set(ctx, "old-1", []byte("1"))
	_ = c.Set(ctx, "old-2", []byte("2"))
	time.Sleep(60 * time.Millisecond)

	_ = c.Set(ctx, "new", []byte("3"))
	if c.Len() != 1 {
		t.Errorf("Expected expired entries to be dropped, %d remain", c.Len())
	}
	if c.Stats().Evictions != 0 {
		t.Errorf("Expected no live entry to be evicted, got %d", c.Stats().Evictions)
	}
}

func TestMemoryCache_BoundedUnderManyKeys(t *testing.T) {
	c := NewMemoryCacheWithLimit(time.Minute, 16)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	for i := 0; i < 200; i++ {
		_ = c.Set(ctx, fmt.Sprintf("ds-1:anomalies:Temperature:%g:true", 1.5+float64(i)*1e-6), []byte("{}"))
	}
	if c.Len() != 16 {
		t.Errorf("Expected 16 entries, got %d", c.Len())
	}
}

func TestMemoryCache_Close(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	ctx := context.Background()
	_ = c.Set(ctx, "k", []byte("v"))

	if err := c.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	// Close is idempotent
	if err := c.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}

	if _, _, err := c.Get(ctx, "k"); !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed from Get, got %v", err)
	}
	if err := c.Set(ctx, "k", []byte("v")); !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed from Set, got %v", err)
	}
}

func TestMemoryCache_Concurrent(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := string(rune('a' + i))
			_ = c.Set(ctx, key, []byte(key))
			_, _, _ = c.Get(ctx, key)
		}(i)
	}
	wg.Wait()

	if c.Len() != 20 {
		t.Errorf("Expected 20 entries, got %d", c.Len())
	}
}

func TestNopCache(t *testing.T) {
	var c Cache = NopCache{}
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, ok, err := c.Get(ctx, "k"); ok || err != nil {
		t.Errorf("Expected miss without error, got ok=%v err=%v", ok, err)
	}
	if c.Type() != TypeNone {
		t.Errorf("Expected type none, got %s", c.Type())
	}
}
