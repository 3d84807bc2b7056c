// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package cache

import (
	"sync"
	"time"
)

type lruNode[K comparable, V any] struct {
	key       K
	value     V
	expiresAt time.Time
	prev      *lruNode[K, V]
	next      *lruNode[K, V]
}

// LRU is a concurrency-safe least-recently-used cache with O(1) Get and Add.
// A zero ttl means entries never expire and are only removed by eviction.
//
// Entries live in a doubly-linked list between two sentinels; head.next is
// the most recently used entry and tail.prev the eviction candidate.
type LRU[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	items    map[K]*lruNode[K, V]
	head     *lruNode[K, V]
	tail     *lruNode[K, V]

	hits   int64
	misses int64
}

// NewLRU creates an LRU holding at most capacity entries.
func NewLRU[K comparable, V any](capacity int, ttl time.Duration) *LRU[K, V] {
	if capacity <= 0 {
		capacity = 1000
	}
	c := &LRU[K, V]{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[K]*lruNode[K, V], capacity),
		head:     &lruNode[K, V]{},
		tail:     &lruNode[K, V]{},
	}
	c.head.next = c.tail
	c.tail.prev = c.head
	return c
}

// Get returns the value for key and marks it most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	node, ok := c.items[key]
	if !ok {
		c.misses++
		return zero, false
	}
	if c.expired(node, time.Now()) {
		c.unlink(node)
		c.misses++
		return zero, false
	}
	c.moveToFront(node)
	c.hits++
	return node.value, true
}

// Add inserts or replaces key, evicting the least recently used entry when full.
func (c *LRU[K, V]) Add(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expiresAt time.Time
	if c.ttl > 0 {
		expiresAt = time.Now().Add(c.ttl)
	}

	if node, ok := c.items[key]; ok {
		node.value = value
		node.expiresAt = expiresAt
		c.moveToFront(node)
		return
	}

	node := &lruNode[K, V]{key: key, value: value, expiresAt: expiresAt}
	c.pushFront(node)
	c.items[key] = node

	for len(c.items) > c.capacity {
		c.unlink(c.tail.prev)
	}
}

// Remove deletes key and reports whether it was present.
func (c *LRU[K, V]) Remove(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, ok := c.items[key]
	if ok {
		c.unlink(node)
	}
	return ok
}

// Len returns the number of entries.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Stats returns hit and miss counts and the current size.
func (c *LRU[K, V]) Stats() (hits, misses int64, size int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses, len(c.items)
}

func (c *LRU[K, V]) expired(node *lruNode[K, V], now time.Time) bool {
	return !node.expiresAt.IsZero() && now.After(node.expiresAt)
}

func (c *LRU[K, V]) pushFront(node *lruNode[K, V]) {
	node.prev = c.head
	node.next = c.head.next
	c.head.next.prev = node
	c.head.next = node
}

func (c *LRU[K, V]) moveToFront(node *lruNode[K, V]) {
	node.prev.next = node.next
	node.next.prev = node.prev
	c.pushFront(node)
}

func (c *LRU[K, V]) unlink(node *lruNode[K, V]) {
	if node == c.head || node == c.tail {
		return
	}
	node.prev.next = node.next
	node.next.prev = node.prev
	delete(c.items, node.key)
}
