package services

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"

	"ebay-price-averager/models"
)

// ResultCache memoises whole-batch results on the full input+settings
// tuple, with a fixed expiry window. A repeated run with identical items
// and filter settings skips the API entirely.
type ResultCache struct {
	cache *ristretto.Cache
	ttl   time.Duration
}

// NewResultCache creates the batch result cache with the given TTL.
func NewResultCache(ttl time.Duration) (*ResultCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1000,
		MaxCost:     100,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("cache: create: %w", err)
	}
	return &ResultCache{cache: c, ttl: ttl}, nil
}

// Get returns the cached batch for the key, if present and unexpired.
func (c *ResultCache) Get(key string) ([]models.AggregateResult, bool) {
	v, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}
	results, ok := v.([]models.AggregateResult)
	return results, ok
}

// Set stores a complete batch under the key.
func (c *ResultCache) Set(key string, results []models.AggregateResult) {
	c.cache.SetWithTTL(key, results, 1, c.ttl)
	// Make the entry visible to an immediately following lookup.
	c.cache.Wait()
}
