// Package cache memoizes ranked search results per (query, options) pair.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/docsearch/internal/domain/search/options"
	"github.com/kailas-cloud/docsearch/internal/domain/search/result"
)

// DefaultCapacity is the number of entries kept when none is configured.
const DefaultCapacity = 100

// Cache is a bounded FIFO map from query keys to ranked results.
// It is not safe for concurrent use; the engine owns it from one goroutine.
type Cache struct {
	capacity int
	entries  map[string][]result.Result
	order    []string
	total    *prometheus.CounterVec
}

// New creates a cache holding at most capacity entries (DefaultCapacity if <= 0).
// total is a counter vec with label "result" ("hit"/"miss"/"evict"); nil disables counting.
func New(capacity int, total *prometheus.CounterVec) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		capacity: capacity,
		entries:  make(map[string][]result.Result, capacity),
		total:    total,
	}
}

// Key serializes a normalized query and its resolved options.
// Option sets that serialize differently produce different keys.
func Key(query string, opts options.Options) string {
	data, err := json.Marshal(struct {
		Query   string          `json:"query"`
		Options options.Options `json:"options"`
	}{query, opts})
	if err != nil {
		// Options holds only plain values; this cannot fail.
		panic(err)
	}
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Get returns the cached results for key.
func (c *Cache) Get(key string) ([]result.Result, bool) {
	res, ok := c.entries[key]
	if ok {
		c.inc("hit")
	} else {
		c.inc("miss")
	}
	return res, ok
}

// Put stores results under key, evicting the oldest entry when full.
// Re-putting an existing key replaces its value and keeps its age.
func (c *Cache) Put(key string, results []result.Result) {
	if _, exists := c.entries[key]; exists {
		c.entries[key] = results
		return
	}
	for len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
		c.inc("evict")
	}
	c.entries[key] = results
	c.order = append(c.order, key)
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.entries = make(map[string][]result.Result, c.capacity)
	c.order = nil
}

// Len returns the number of cached entries.
func (c *Cache) Len() int { return len(c.entries) }

func (c *Cache) inc(label string) {
	if c.total != nil {
		c.total.WithLabelValues(label).Inc()
	}
}
