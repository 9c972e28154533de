// Package cache provides the time-to-live caches owned by the resolver.
package cache

import (
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// Cache is a keyed store whose entries expire on their own.
type Cache[K comparable, V any] interface {
	Get(key K) (V, bool)
	Set(key K, value V)
	Delete(key K)
	Clear()
	Len() int
	Stats() Stats
}

// Stats contains cache statistics.
type Stats struct {
	// TTL is the fixed expiry window of every entry
	TTL time.Duration `json:"ttl"`

	// TotalEntries is the number of live entries
	TotalEntries int `json:"total_entries"`

	// HitRate is the cache hit rate (0-1)
	HitRate float64 `json:"hit_rate"`

	// TotalHits is the number of cache hits
	TotalHits uint64 `json:"total_hits"`

	// TotalMisses is the number of cache misses
	TotalMisses uint64 `json:"total_misses"`

	// Evictions counts entries removed by expiry or Clear
	Evictions uint64 `json:"evictions"`
}

// TTL is a Cache backed by ttlcache. Every entry lives for the window given
// at construction; reads do not extend it. A non-positive window disables
// storage so every Get misses.
type TTL[K comparable, V any] struct {
	inner   *ttlcache.Cache[K, V]
	ttl     time.Duration
	mu      sync.Mutex
	running bool
}

// NewTTL creates a cache whose entries expire after ttl.
func NewTTL[K comparable, V any](ttl time.Duration) *TTL[K, V] {
	return &TTL[K, V]{
		ttl: ttl,
		inner: ttlcache.New[K, V](
			ttlcache.WithTTL[K, V](ttl),
			ttlcache.WithDisableTouchOnHit[K, V](),
		),
	}
}

// Get returns the value for key if present and not expired.
func (c *TTL[K, V]) Get(key K) (V, bool) {
	item := c.inner.Get(key)
	if item == nil || item.IsExpired() {
		var zero V
		return zero, false
	}
	return item.Value(), true
}

// Set stores value under key for the cache's window.
func (c *TTL[K, V]) Set(key K, value V) {
	if c.ttl <= 0 {
		return
	}
	c.inner.Set(key, value, ttlcache.DefaultTTL)
}

// Delete removes key.
func (c *TTL[K, V]) Delete(key K) {
	c.inner.Delete(key)
}

// Clear removes every entry unconditionally.
func (c *TTL[K, V]) Clear() {
	c.inner.DeleteAll()
}

// Len returns the number of stored entries, expired ones included until the
// janitor sweeps them.
func (c *TTL[K, V]) Len() int {
	return c.inner.Len()
}

// Stats returns cache statistics.
func (c *TTL[K, V]) Stats() Stats {
	m := c.inner.Metrics()
	s := Stats{
		TTL:          c.ttl,
		TotalEntries: c.inner.Len(),
		TotalHits:    m.Hits,
		TotalMisses:  m.Misses,
		Evictions:    m.Evictions,
	}
	if total := m.Hits + m.Misses; total > 0 {
		s.HitRate = float64(m.Hits) / float64(total)
	}
	return s
}

// Start launches the background sweep of expired entries. It is a no-op if
// the sweep is already running.
func (c *TTL[K, V]) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return
	}
	c.running = true
	go c.inner.Start()
}

// Stop halts the background sweep started by Start.
func (c *TTL[K, V]) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	c.running = false
	c.inner.Stop()
}
