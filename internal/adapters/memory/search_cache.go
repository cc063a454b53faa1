package memory

import (
	"context"
	"sync"
	"time"

	"github.com/samirrijal/busticket/internal/core/domain"
)

// DefaultSearchTTL is how long an upstream search id is reused.
const DefaultSearchTTL = 5 * time.Minute

type searchEntry struct {
	id        string
	createdAt time.Time
}

// SearchCache implements ports.SearchCache in process memory.
//
// Expiry is lazy: stale entries are treated as misses but stay in the map
// until the same key is written again. Nothing bounds the map's size, which
// is fine for the handful of city pairs a day sees but would not survive a
// high-cardinality key space.
type SearchCache struct {
	mu      sync.RWMutex
	entries map[domain.SearchKey]searchEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewSearchCache creates a cache whose entries are valid for ttl.
func NewSearchCache(ttl time.Duration) *SearchCache {
	if ttl <= 0 {
		ttl = DefaultSearchTTL
	}
	return &SearchCache{
		entries: make(map[domain.SearchKey]searchEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// WithClock replaces the time source. Intended for tests.
func (c *SearchCache) WithClock(now func() time.Time) *SearchCache {
	c.now = now
	return c
}

// Get returns the search id stored under key if it is younger than the TTL.
func (c *SearchCache) Get(_ context.Context, key domain.SearchKey) (string, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.now().Sub(e.createdAt) >= c.ttl {
		return "", false
	}
	return e.id, true
}

// Put stores id under key with a fresh timestamp, replacing any previous entry.
func (c *SearchCache) Put(_ context.Context, key domain.SearchKey, id string) {
	c.mu.Lock()
	c.entries[key] = searchEntry{id: id, createdAt: c.now()}
	c.mu.Unlock()
}

// Len returns the number of stored entries, stale ones included.
func (c *SearchCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
