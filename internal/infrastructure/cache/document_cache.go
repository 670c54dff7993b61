// Package cache holds the small read cache that sits in front of the JSON document loader.
package cache

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/styleselector/core/internal/ports"
)

// DefaultCapacity matches the number of documents the store reads.
const DefaultCapacity = 2

type entry struct {
	modTime  time.Time
	filledAt time.Time
	data     []byte
}

// DocumentCache caches raw document bytes keyed by file path.
// An entry is valid only while the file's modification time matches the one
// recorded when it was filled. Entries never expire on their own.
type DocumentCache struct {
	mu       sync.Mutex
	capacity int
	items    *gocache.Cache
	now      func() time.Time

	hits      prometheus.Counter
	misses    prometheus.Counter
	evictions prometheus.Counter
}

// NewDocumentCache creates a cache holding at most capacity documents
func NewDocumentCache(capacity int) *DocumentCache {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &DocumentCache{
		capacity: capacity,
		items:    gocache.New(gocache.NoExpiration, 0),
		now:      time.Now,
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "style_selector_document_cache_hits_total",
			Help: "Document reads served from the cache",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "style_selector_document_cache_misses_total",
			Help: "Document reads that went to disk",
		}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "style_selector_document_cache_evictions_total",
			Help: "Entries dropped to stay within capacity",
		}),
	}
}

// Get returns the cached bytes for path if they were filled at modTime.
// A stale entry is dropped.
func (c *DocumentCache) Get(path string, modTime time.Time) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	value, found := c.items.Get(path)
	if !found {
		c.misses.Inc()
		return nil, false
	}

	e, ok := value.(*entry)
	if !ok || !e.modTime.Equal(modTime) {
		c.items.Delete(path)
		c.misses.Inc()
		return nil, false
	}

	c.hits.Inc()
	out := make([]byte, len(e.data))
	copy(out, e.data)
	return out, true
}

// Set stores data for path, evicting the oldest entry when full.
func (c *DocumentCache) Set(path string, modTime time.Time, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, found := c.items.Get(path); !found && c.items.ItemCount() >= c.capacity {
		c.evictOldest()
	}

	stored := make([]byte, len(data))
	copy(stored, data)
	c.items.Set(path, &entry{modTime: modTime, filledAt: c.now(), data: stored}, gocache.NoExpiration)
}

// Flush drops every entry
func (c *DocumentCache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items.Flush()
}

// Len returns the number of cached documents
func (c *DocumentCache) Len() int {
	return c.items.ItemCount()
}

// Collectors returns the cache's prometheus metrics for registration
func (c *DocumentCache) Collectors() []prometheus.Collector {
	return []prometheus.Collector{c.hits, c.misses, c.evictions}
}

func (c *DocumentCache) evictOldest() {
	var (
		oldestKey string
		oldest    time.Time
	)
	for key, item := range c.items.Items() {
		e, ok := item.Object.(*entry)
		if !ok {
			c.items.Delete(key)
			continue
		}
		if oldestKey == "" || e.filledAt.Before(oldest) {
			oldestKey = key
			oldest = e.filledAt
		}
	}
	if oldestKey != "" {
		c.items.Delete(oldestKey)
		c.evictions.Inc()
	}
}

// Ensure DocumentCache implements ports.DocumentCache.
var _ ports.DocumentCache = (*DocumentCache)(nil)
