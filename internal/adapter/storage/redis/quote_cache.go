package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"qr-settlement-gateway/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

// QuoteCache implements ports.QuoteCache using Redis. Entries are stored
// with a TTL wider than the freshness window: staleness is decided by the
// aggregator from the entry's fetch time, the TTL only bounds garbage.
type QuoteCache struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
}

// NewQuoteCache creates a new Redis-backed quote cache. A non-positive ttl
// defaults to 5 minutes.
func NewQuoteCache(client *goredis.Client, ttl time.Duration) *QuoteCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &QuoteCache{
		client: client,
		prefix: "quote:",
		ttl:    ttl,
	}
}

func (c *QuoteCache) key(asset, base string) string {
	return c.prefix + strings.ToUpper(asset) + ":" + strings.ToUpper(base)
}

// Get retrieves the cached entry for a pair. Returns nil, nil when the pair
// has no entry.
func (c *QuoteCache) Get(ctx context.Context, asset, base string) (*domain.QuoteCacheEntry, error) {
	val, err := c.client.Get(ctx, c.key(asset, base)).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis quote get: %w", err)
	}

	var entry domain.QuoteCacheEntry
	if err := json.Unmarshal(val, &entry); err != nil {
		return nil, fmt.Errorf("redis quote unmarshal: %w", err)
	}
	return &entry, nil
}

// Put stores the entry for a pair, overwriting any previous one.
func (c *QuoteCache) Put(ctx context.Context, asset, base string, entry domain.QuoteCacheEntry) error {
	val, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("redis quote marshal: %w", err)
	}
	if err := c.client.Set(ctx, c.key(asset, base), val, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis quote set: %w", err)
	}
	return nil
}
