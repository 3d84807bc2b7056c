// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

// Package lock provides the per-key generation locks. A key is held by at
// most one run at a time; a holder that never releases is reclaimed after
// the timeout so one crashed run cannot block a user forever.
package lock

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/cinerank/internal/metrics"
)

// DefaultTimeout is how long an unreleased lock is honored.
const DefaultTimeout = 5 * time.Minute

// LocalLocker holds locks in process memory. It is only correct when a
// single cinerank instance serves a user.
type LocalLocker struct {
	mu      sync.Mutex
	held    map[string]time.Time
	timeout time.Duration
	now     func() time.Time
}

// NewLocalLocker creates a LocalLocker. A non-positive timeout uses
// DefaultTimeout.
func NewLocalLocker(timeout time.Duration) *LocalLocker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &LocalLocker{
		held:    make(map[string]time.Time),
		timeout: timeout,
		now:     time.Now,
	}
}

// Acquire grants key unless a live holder has it. An expired holder is
// reclaimed.
func (l *LocalLocker) Acquire(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if since, ok := l.held[key]; ok {
		if now.Sub(since) < l.timeout {
			return false, nil
		}
		metrics.LocksReclaimed.Inc()
	}
	l.held[key] = now
	return true, nil
}

// Release frees key. Releasing a free key is a no-op.
func (l *LocalLocker) Release(_ context.Context, key string) error {
	l.mu.Lock()
	delete(l.held, key)
	l.mu.Unlock()
	return nil
}

// Sweep drops holders older than the timeout and returns how many were
// reclaimed.
func (l *LocalLocker) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	n := 0
	for key, since := range l.held {
		if now.Sub(since) >= l.timeout {
			delete(l.held, key)
			n++
		}
	}
	if n > 0 {
		metrics.LocksReclaimed.Add(float64(n))
	}
	return n
}

// Held returns the number of keys currently held, expired or not.
func (l *LocalLocker) Held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.held)
}
