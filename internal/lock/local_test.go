// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestLocker(timeout time.Duration) (*LocalLocker, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := NewLocalLocker(timeout)
	l.now = clock.Now
	return l, clock
}

func TestLocalLocker_AcquireRelease(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	l, _ := newTestLocker(time.Minute)

	ok, err := l.Acquire(ctx, "generate:1")
	if err != nil || !ok {
		t.Fatalf("first Acquire = %v, %v; want true, nil", ok, err)
	}
	if ok, _ := l.Acquire(ctx, "generate:1"); ok {
		t.Error("second Acquire on held key = true, want false")
	}
	if ok, _ := l.Acquire(ctx, "generate:2"); !ok {
		t.Error("Acquire on other key = false, want true")
	}

	if err := l.Release(ctx, "generate:1"); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if ok, _ := l.Acquire(ctx, "generate:1"); !ok {
		t.Error("Acquire after Release = false, want true")
	}
	if err := l.Release(ctx, "never-held"); err != nil {
		t.Errorf("Release of free key = %v, want nil", err)
	}
}

func TestLocalLocker_ReclaimsExpired(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	l, clock := newTestLocker(5 * time.Minute)

	if ok, _ := l.Acquire(ctx, "k"); !ok {
		t.Fatal("Acquire = false")
	}
	clock.Advance(4 * time.Minute)
	if ok, _ := l.Acquire(ctx, "k"); ok {
		t.Error("Acquire before timeout = true, want false")
	}
	clock.Advance(time.Minute)
	if ok, _ := l.Acquire(ctx, "k"); !ok {
		t.Error("Acquire after timeout = false, want true")
	}
}

func TestLocalLocker_Sweep(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	l, clock := newTestLocker(time.Minute)

	_, _ = l.Acquire(ctx, "old")
	clock.Advance(2 * time.Minute)
	_, _ = l.Acquire(ctx, "new")

	if n := l.Sweep(); n != 1 {
		t.Errorf("Sweep() = %d, want 1", n)
	}
	if l.Held() != 1 {
		t.Errorf("Held() = %d, want 1", l.Held())
	}
}

func TestLocalLocker_DefaultTimeout(t *testing.T) {
	t.Parallel()
	if l := NewLocalLocker(0); l.timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", l.timeout, DefaultTimeout)
	}
}

func TestLocalLocker_Concurrent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	l := NewLocalLocker(time.Minute)

	var granted atomic.Int32
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Acquire(ctx, "same"); ok {
				granted.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := granted.Load(); got != 1 {
		t.Errorf("granted = %d, want exactly 1", got)
	}
}
