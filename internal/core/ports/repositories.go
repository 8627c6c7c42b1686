package ports

import (
	"context"
	"time"

	"qr-settlement-gateway/internal/core/domain"

	"github.com/google/uuid"
)

// MerchantRepository defines persistence operations for merchants.
type MerchantRepository interface {
	Create(ctx context.Context, merchant *domain.Merchant) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Merchant, error)
	Update(ctx context.Context, merchant *domain.Merchant) error
}

// PaymentRepository defines persistence operations for payment sessions.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetBySessionID(ctx context.Context, sessionID string) (*domain.Payment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus) error
}

// PriceHistoryRepository persists accepted quotes for the rolling history.
// Append is only ever called with usable quotes (positive finite price).
type PriceHistoryRepository interface {
	Append(ctx context.Context, quote domain.Quote) error
	// QueryRecent returns up to limit quotes for the pair observed at or
	// after since, newest first.
	QueryRecent(ctx context.Context, asset, base string, since time.Time, limit int) ([]domain.Quote, error)
}

// QuoteCache is the injected price cache: one entry per (asset, base) pair,
// last-writer-wins. A missing or stale entry never blocks; callers fall
// through to a live fetch.
type QuoteCache interface {
	// Get returns nil, nil when no entry exists for the pair.
	Get(ctx context.Context, asset, base string) (*domain.QuoteCacheEntry, error)
	Put(ctx context.Context, asset, base string, entry domain.QuoteCacheEntry) error
}
