package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/aevon-lab/salesboard/internal/metrics"
)

// DefaultSummaryCapacity bounds the number of cached bundles.
const DefaultSummaryCapacity = 128

// SummaryCache is a thread-safe LRU cache of computed bundles, keyed by
// dataset and a filter key. A bundle is served while it is younger than the
// TTL and its dataset still has exactly the source files, with the same
// mtimes, that it was built from.
type SummaryCache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	nowFn    func() time.Time
	cache    map[string]*list.Element
	order    *list.List
}

type summaryEntry struct {
	key       string
	value     interface{}
	createdAt time.Time
	version   string
}

// NewSummaryCache creates a cache holding at most capacity bundles.
func NewSummaryCache(capacity int, ttl time.Duration) *SummaryCache {
	if capacity <= 0 {
		capacity = DefaultSummaryCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SummaryCache{
		capacity: capacity,
		ttl:      ttl,
		nowFn:    time.Now,
		cache:    make(map[string]*list.Element),
		order:    list.New(),
	}
}

// SummaryKey builds the cache key of one bundle.
func SummaryKey(dataset, kind, filterKey string) string {
	return dataset + "|" + kind + "|" + filterKey
}

// Get returns the bundle stored under key if it is still valid against the
// current source version of its dataset.
func (c *SummaryCache) Get(key string, current SourceVersion) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, exists := c.cache[key]
	if !exists {
		metrics.RecordLookup(metrics.LayerSummary, metrics.ResultMiss)
		return nil, false
	}

	entry := elem.Value.(*summaryEntry)
	if c.nowFn().Sub(entry.createdAt) >= c.ttl ||
		entry.version != current.Fingerprint ||
		current.Newest.After(entry.createdAt) {
		delete(c.cache, key)
		c.order.Remove(elem)
		metrics.RecordLookup(metrics.LayerSummary, metrics.ResultStale)
		return nil, false
	}

	// Move to front (most recently used)
	c.order.MoveToFront(elem)
	metrics.RecordLookup(metrics.LayerSummary, metrics.ResultHit)
	return entry.value, true
}

// Put stores value under key, evicting the least recently used bundle if
// full. builtAt and built describe the source as read before the records
// were loaded. Stored values are shared between callers and must not be
// modified.
func (c *SummaryCache) Put(key string, value interface{}, builtAt time.Time, built SourceVersion) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, exists := c.cache[key]; exists {
		c.order.MoveToFront(elem)
		entry := elem.Value.(*summaryEntry)
		entry.value = value
		entry.createdAt = builtAt
		entry.version = built.Fingerprint
		return
	}

	if c.order.Len() >= c.capacity {
		if oldest := c.order.Back(); oldest != nil {
			delete(c.cache, oldest.Value.(*summaryEntry).key)
			c.order.Remove(oldest)
		}
	}

	c.cache[key] = c.order.PushFront(&summaryEntry{
		key:       key,
		value:     value,
		createdAt: builtAt,
		version:   built.Fingerprint,
	})
}

func (c *SummaryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Clear removes all entries from the cache.
func (c *SummaryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache = make(map[string]*list.Element)
	c.order = list.New()
}
