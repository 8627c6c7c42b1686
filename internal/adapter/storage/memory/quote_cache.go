// Package memory provides in-process implementations of the cache ports,
// used when Redis is not configured and in tests.
package memory

import (
	"context"
	"strings"
	"sync"

	"qr-settlement-gateway/internal/core/domain"
	"qr-settlement-gateway/internal/core/ports"
)

// QuoteCache is a mutex-guarded map-backed quote cache. Entries never
// expire here; staleness is judged by the oracle from FetchedAt.
type QuoteCache struct {
	mu      sync.RWMutex
	entries map[string]domain.QuoteCacheEntry
}

var _ ports.QuoteCache = (*QuoteCache)(nil)

func NewQuoteCache() *QuoteCache {
	return &QuoteCache{entries: make(map[string]domain.QuoteCacheEntry)}
}

func key(asset, base string) string {
	return strings.ToUpper(asset) + ":" + strings.ToUpper(base)
}

func (c *QuoteCache) Get(_ context.Context, asset, base string) (*domain.QuoteCacheEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key(asset, base)]
	if !ok {
		return nil, nil
	}
	out := entry
	return &out, nil
}

func (c *QuoteCache) Put(_ context.Context, asset, base string, entry domain.QuoteCacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key(asset, base)] = entry
	return nil
}
