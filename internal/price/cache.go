// internal/price/cache.go
package price

import (
	"sync"
	"time"
)

// DefaultTTL is how long a fetched quote stays fresh.
const DefaultTTL = 5 * time.Minute

// Cache is a single-slot price cache. A zero fetchedAt means nothing was fetched yet.
type Cache struct {
	mu        sync.RWMutex
	value     float64
	fetchedAt time.Time
	ttl       time.Duration
}

// NewCache creates an empty cache. A non-positive ttl falls back to DefaultTTL.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{ttl: ttl}
}

// IsExpired reports whether a new fetch is due at now.
func (c *Cache) IsExpired(now time.Time) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.fetchedAt.IsZero() {
		return true
	}
	return now.Sub(c.fetchedAt) >= c.ttl
}

// Value returns the cached quote, zero when nothing was fetched yet.
func (c *Cache) Value() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// FetchedAt returns the time of the last successful fetch.
func (c *Cache) FetchedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fetchedAt
}

// TTL returns the freshness window.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Store records a successful fetch.
func (c *Cache) Store(value float64, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = value
	c.fetchedAt = at
}
