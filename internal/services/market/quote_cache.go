package market

import (
	"container/list"
	"sync"

	"github.com/hxuan190/fundswap/internal/domain"
	"github.com/hxuan190/fundswap/internal/metrics"
)

// QuoteKey identifies a quote within one snapshot version. A new snapshot
// gets a new version, so stale entries are never hit and simply age out.
type QuoteKey struct {
	Version   uint64
	From      domain.TokenID
	To        domain.TokenID
	AmountRaw uint64
}

// QuoteCache is a bounded LRU of priced routes.
type QuoteCache struct {
	mu      sync.Mutex
	entries map[QuoteKey]*list.Element
	lru     *list.List
	maxSize int
}

type quoteEntry struct {
	key   QuoteKey
	route domain.RouteData
}

// NewQuoteCache returns nil for a non-positive size; a nil cache stores
// nothing.
func NewQuoteCache(maxSize int) *QuoteCache {
	if maxSize <= 0 {
		return nil
	}
	return &QuoteCache{
		entries: make(map[QuoteKey]*list.Element, maxSize),
		lru:     list.New(),
		maxSize: maxSize,
	}
}

func (c *QuoteCache) Get(key QuoteKey) (domain.RouteData, bool) {
	if c == nil {
		return domain.RouteData{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		metrics.QuoteCacheMisses.Inc()
		return domain.RouteData{}, false
	}
	c.lru.MoveToFront(elem)
	metrics.QuoteCacheHits.Inc()
	return elem.Value.(*quoteEntry).route, true
}

func (c *QuoteCache) Set(key QuoteKey, route domain.RouteData) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		c.lru.MoveToFront(elem)
		elem.Value.(*quoteEntry).route = route
		return
	}

	for len(c.entries) >= c.maxSize {
		c.evictLRU()
	}
	c.entries[key] = c.lru.PushFront(&quoteEntry{key: key, route: route})
	metrics.QuoteCacheSize.Set(float64(len(c.entries)))
}

// evictLRU must be called with mu held.
func (c *QuoteCache) evictLRU() {
	back := c.lru.Back()
	if back == nil {
		return
	}
	c.lru.Remove(back)
	delete(c.entries, back.Value.(*quoteEntry).key)
}

func (c *QuoteCache) Size() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *QuoteCache) Clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[QuoteKey]*list.Element, c.maxSize)
	c.lru.Init()
	metrics.QuoteCacheSize.Set(0)
}
