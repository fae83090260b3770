/*
cache.go - Short-TTL memoization of the raw row read

PURPOSE:
  A round-trip to the external row store is the expensive operation in
  this system, so the raw read is memoized for a few minutes. The cache
  is an explicit object injected into the service at construction - no
  package-level state - and every successful write invalidates it.

CONCURRENCY:
  One mutex guards get/set/clear. Invalidation happens strictly AFTER
  an append succeeds, never before, so a failed write can't leave the
  cache pretending the write happened.
*/
package ledger

import (
	"sync"
	"time"
)

// ReadCache memoizes expensive reads under string keys.
type ReadCache interface {
	Get(key string) ([][]string, bool)
	Set(key string, rows [][]string)
	Invalidate(key string)
	Clear()
}

// TTLCache is a mutex-guarded ReadCache whose entries expire after a
// fixed duration. The Clock is injected so expiry is testable.
type TTLCache struct {
	mu      sync.Mutex
	clock   Clock
	ttl     time.Duration
	entries map[string]cacheEntry
}

type cacheEntry struct {
	rows      [][]string
	expiresAt time.Time
}

func NewTTLCache(clock Clock, ttl time.Duration) *TTLCache {
	return &TTLCache{
		clock:   clock,
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

func (c *TTLCache) Get(key string) ([][]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.clock.Now().After(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return entry.rows, true
}

func (c *TTLCache) Set(key string, rows [][]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{rows: rows, expiresAt: c.clock.Now().Add(c.ttl)}
}

func (c *TTLCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func (c *TTLCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}
