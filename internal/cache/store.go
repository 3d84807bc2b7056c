// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// JSONStore is a key/value store for JSON-encodable values. A ttl of 0
// means the entry does not expire.
type JSONStore interface {
	// GetJSON decodes the value for key into dest. It returns false with a
	// nil error when the key is absent or expired.
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// MemoryStore is a JSONStore over the in-process TTL Cache. Values are
// stored encoded so callers never share mutable state through the cache.
type MemoryStore struct {
	cache *Cache
}

// NewMemoryStore returns a MemoryStore backed by c.
func NewMemoryStore(c *Cache) *MemoryStore {
	return &MemoryStore{cache: c}
}

// neverExpires stands in for a zero ttl in the TTL cache.
const neverExpires = 100 * 365 * 24 * time.Hour

// GetJSON implements JSONStore.
func (s *MemoryStore) GetJSON(_ context.Context, key string, dest any) (bool, error) {
	raw, ok := s.cache.Get(key)
	if !ok {
		return false, nil
	}
	data, ok := raw.([]byte)
	if !ok {
		return false, fmt.Errorf("memory store: unexpected value type %T for %q", raw, key)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("memory store: decode %q: %w", key, err)
	}
	return true, nil
}

// SetJSON implements JSONStore.
func (s *MemoryStore) SetJSON(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("memory store: encode %q: %w", key, err)
	}
	if ttl <= 0 {
		ttl = neverExpires
	}
	s.cache.SetWithTTL(key, data, ttl)
	return nil
}

// Delete implements JSONStore.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.cache.Delete(key)
	return nil
}

// Sweep drops expired entries from the underlying cache.
func (s *MemoryStore) Sweep() int {
	return s.cache.Sweep()
}

var _ JSONStore = (*MemoryStore)(nil)
