// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeClock lets tests move time forward without sleeping.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func newTestCache(ttl time.Duration) (*Cache, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := New(ttl)
	c.now = clock.Now
	return c, clock
}

func TestCache_GetSet(t *testing.T) {
	t.Parallel()
	c, _ := newTestCache(time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Fatal("Get(missing) reported a hit")
	}

	c.Set("k", 42)
	v, ok := c.Get("k")
	if !ok || v.(int) != 42 {
		t.Fatalf("Get(k) = (%v, %v), want (42, true)", v, ok)
	}

	stats := c.GetStats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.TotalKeys != 1 {
		t.Errorf("stats = %+v, want 1 hit, 1 miss, 1 key", stats)
	}
	if got := c.HitRate(); got != 50 {
		t.Errorf("HitRate() = %v, want 50", got)
	}
}

func TestCache_LazyExpiry(t *testing.T) {
	t.Parallel()
	c, clock := newTestCache(time.Hour)

	c.Set("user:1", "candidates")
	clock.Advance(59 * time.Minute)
	if _, ok := c.Get("user:1"); !ok {
		t.Fatal("entry expired before its TTL")
	}

	clock.Advance(2 * time.Minute)
	if _, ok := c.Get("user:1"); ok {
		t.Fatal("entry served after its TTL")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d after lazy eviction, want 0", c.Len())
	}
	if got := c.GetStats().Evictions; got != 1 {
		t.Errorf("Evictions = %d, want 1", got)
	}
}

func TestCache_SetWithTTL(t *testing.T) {
	t.Parallel()
	c, clock := newTestCache(time.Hour)

	c.SetWithTTL("short", 1, time.Second)
	c.Set("long", 2)
	clock.Advance(2 * time.Second)

	if _, ok := c.Get("short"); ok {
		t.Error("short-lived entry still present")
	}
	if _, ok := c.Get("long"); !ok {
		t.Error("default TTL entry missing")
	}
}

func TestCache_Sweep(t *testing.T) {
	t.Parallel()
	c, clock := newTestCache(time.Minute)

	for i := 0; i < 5; i++ {
		c.Set(fmt.Sprintf("old-%d", i), i)
	}
	clock.Advance(2 * time.Minute)
	c.Set("fresh", 1)

	if removed := c.Sweep(); removed != 5 {
		t.Errorf("Sweep() = %d, want 5", removed)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
	if c.GetStats().LastCleanup.IsZero() {
		t.Error("LastCleanup not recorded")
	}
}

func TestCache_DeleteAndClear(t *testing.T) {
	t.Parallel()
	c, _ := newTestCache(time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Delete("a")
	c.Delete("never-set")

	if _, ok := c.Get("a"); ok {
		t.Error("deleted key still present")
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", c.Len())
	}
	if got := c.GetStats().Evictions; got != 2 {
		t.Errorf("Evictions = %d, want 2 (one delete, one clear)", got)
	}
}

func TestCache_ConcurrentAccess(t *testing.T) {
	t.Parallel()
	c := New(time.Minute)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", i%20)
				c.Set(key, g)
				c.Get(key)
				if i%50 == 0 {
					c.Sweep()
				}
			}
		}(g)
	}
	wg.Wait()

	if c.Len() != 20 {
		t.Errorf("Len() = %d, want 20", c.Len())
	}
}
