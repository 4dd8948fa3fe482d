// Package cache provides a small key-value store with per-entry expiry. It
// replaces implicit module-level caching: a store is created for one request
// (or one session) and handed explicitly to the code that needs it.
//
// The store is not safe for concurrent writers; confine it to a single
// in-flight request.
package cache

import "time"

type entry struct {
	value     any
	expiresAt time.Time
}

// TTLStore maps string keys to arbitrary values with individual lifetimes.
type TTLStore struct {
	entries map[string]entry
	now     func() time.Time
}

// New returns an empty store.
func New() *TTLStore {
	return &TTLStore{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Put stores value under key for ttl. ttl <= 0 keeps the entry for the life
// of the store.
func (s *TTLStore) Put(key string, value any, ttl time.Duration) {
	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.entries[key] = e
}

// Get returns the live value under key, if any.
func (s *TTLStore) Get(key string) (any, bool) {
	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if !e.expiresAt.IsZero() && s.now().After(e.expiresAt) {
		delete(s.entries, key)
		return nil, false
	}
	return e.value, true
}

// Len reports how many entries the store holds, counting expired entries not
// yet evicted.
func (s *TTLStore) Len() int {
	return len(s.entries)
}
