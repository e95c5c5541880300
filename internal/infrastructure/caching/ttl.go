// Package caching provides small in-process TTL caches for the read-mostly
// directories (project lookups, active-action lists). Session and event
// writes never go through these caches; staleness here is bounded by the
// advertised Cache-Control lifetimes, not a correctness concern.
package caching

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLStore is a concurrency-safe map with per-store expiry.
type TTLStore[V any] struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]entry[V]
}

// NewTTLStore creates a store whose entries expire after ttl.
func NewTTLStore[V any](ttl time.Duration) *TTLStore[V] {
	return &TTLStore[V]{
		ttl:     ttl,
		entries: make(map[string]entry[V]),
	}
}

// Get returns the cached value and whether it is present and unexpired.
func (s *TTLStore[V]) Get(key string) (V, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok || time.Now().After(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores a value under key with the store's TTL.
func (s *TTLStore[V]) Set(key string, value V) {
	s.mu.Lock()
	s.entries[key] = entry[V]{value: value, expiresAt: time.Now().Add(s.ttl)}
	s.mu.Unlock()
}

// Invalidate removes a key immediately.
func (s *TTLStore[V]) Invalidate(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// Sweep removes expired entries and returns how many were dropped.
func (s *TTLStore[V]) Sweep() int {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := 0
	for key, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, key)
			dropped++
		}
	}
	return dropped
}

// Len returns the number of entries, expired or not.
func (s *TTLStore[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
