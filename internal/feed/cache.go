package feed

import (
	"context"
	"sync"
	"time"
)

type cachedQuote struct {
	price   float64
	fetched time.Time
}

// quoteCache holds per-pair latest quotes for a short TTL to cut upstream
// call volume on the fast close-evaluation cadence.
type quoteCache struct {
	mu   sync.RWMutex
	ttl  time.Duration
	data map[string]cachedQuote
}

func newQuoteCache(ttl time.Duration) *quoteCache {
	return &quoteCache{ttl: ttl, data: make(map[string]cachedQuote)}
}

func (c *quoteCache) get(pair string) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	q, ok := c.data[pair]
	if !ok || time.Since(q.fetched) > c.ttl {
		return 0, false
	}
	return q.price, true
}

func (c *quoteCache) set(pair string, price float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[pair] = cachedQuote{price: price, fetched: time.Now()}
}

// CachedSource wraps a PriceSource with a TTL cache on GetLatest.
// Series fetches always go upstream: they only run on the slow cadence
// and staleness there would skew the indicators.
type CachedSource struct {
	src   PriceSource
	cache *quoteCache
}

func NewCachedSource(src PriceSource, ttl time.Duration) *CachedSource {
	return &CachedSource{src: src, cache: newQuoteCache(ttl)}
}

func (c *CachedSource) GetSeries(ctx context.Context, pair string, intervalMin, count int) ([]float64, error) {
	return c.src.GetSeries(ctx, pair, intervalMin, count)
}

func (c *CachedSource) GetLatest(ctx context.Context, pair string) (float64, error) {
	if price, ok := c.cache.get(pair); ok {
		return price, nil
	}
	price, err := c.src.GetLatest(ctx, pair)
	if err != nil {
		return 0, err
	}
	c.cache.set(pair, price)
	return price, nil
}
