package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"qr-settlement-gateway/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteCache_GetMissing(t *testing.T) {
	cache := NewQuoteCache()

	entry, err := cache.Get(context.Background(), "USDT", "ARS")
	assert.NoError(t, err)
	assert.Nil(t, entry)
}

func TestQuoteCache_PutGetRoundTrip(t *testing.T) {
	cache := NewQuoteCache()
	ctx := context.Background()

	want := domain.QuoteCacheEntry{
		Quote: domain.Quote{
			Asset:  "usdt",
			Base:   "ars",
			Price:  1051.3,
			Source: domain.SourceCriptoYa,
		},
		FetchedAt: time.Now(),
	}
	require.NoError(t, cache.Put(ctx, "usdt", "ars", want))

	// Key is case-insensitive.
	got, err := cache.Get(ctx, "USDT", "ARS")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.Quote.Price, got.Quote.Price)
}

func TestQuoteCache_ConcurrentAccess(t *testing.T) {
	cache := NewQuoteCache()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = cache.Put(ctx, "USDT", "ARS", domain.QuoteCacheEntry{FetchedAt: time.Now()})
		}()
		go func() {
			defer wg.Done()
			_, _ = cache.Get(ctx, "USDT", "ARS")
		}()
	}
	wg.Wait()
}
