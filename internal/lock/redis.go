// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only while it still carries our token, so
// a run whose lock expired cannot free the lock of the run that reclaimed
// it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker holds locks in Redis so every instance sharing the server
// sees the same holders. Expiry is delegated to the key TTL.
type RedisLocker struct {
	client  redis.UniversalClient
	prefix  string
	timeout time.Duration

	mu     sync.Mutex
	tokens map[string]string
}

// NewRedisLocker creates a RedisLocker. A non-positive timeout uses
// DefaultTimeout.
func NewRedisLocker(client redis.UniversalClient, prefix string, timeout time.Duration) *RedisLocker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &RedisLocker{
		client:  client,
		prefix:  prefix,
		timeout: timeout,
		tokens:  make(map[string]string),
	}
}

// Acquire sets the key if absent.
func (l *RedisLocker) Acquire(ctx context.Context, key string) (bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.prefix+key, token, l.timeout).Result()
	if err != nil {
		return false, fmt.Errorf("redis lock %q: %w", key, err)
	}
	if ok {
		l.mu.Lock()
		l.tokens[key] = token
		l.mu.Unlock()
	}
	return ok, nil
}

// Release deletes the key if this locker still owns it.
func (l *RedisLocker) Release(ctx context.Context, key string) error {
	l.mu.Lock()
	token, ok := l.tokens[key]
	delete(l.tokens, key)
	l.mu.Unlock()
	if !ok {
		return nil
	}
	if err := releaseScript.Run(ctx, l.client, []string{l.prefix + key}, token).Err(); err != nil {
		return fmt.Errorf("redis unlock %q: %w", key, err)
	}
	return nil
}
