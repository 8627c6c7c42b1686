package postgres

import (
	"context"
	"fmt"
	"time"

	"qr-settlement-gateway/internal/core/domain"
)

// PriceHistoryRepo implements ports.PriceHistoryRepository. The table is
// append-only; rows are never updated or deleted by this core.
type PriceHistoryRepo struct {
	pool Pool
}

// NewPriceHistoryRepo creates a new PriceHistoryRepo.
func NewPriceHistoryRepo(pool Pool) *PriceHistoryRepo {
	return &PriceHistoryRepo{pool: pool}
}

// Append stores a quote observation.
func (r *PriceHistoryRepo) Append(ctx context.Context, q domain.Quote) error {
	query := `INSERT INTO price_history (asset, base, price, buy, sell, bid, ask, source, observed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		q.Asset, q.Base, q.Price, q.Buy, q.Sell, q.Bid, q.Ask, q.Source, q.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert price history: %w", err)
	}
	return nil
}

// QueryRecent returns up to limit quotes for the pair observed at or after
// since, newest first.
func (r *PriceHistoryRepo) QueryRecent(ctx context.Context, asset, base string, since time.Time, limit int) ([]domain.Quote, error) {
	query := `SELECT asset, base, price, buy, sell, bid, ask, source, observed_at
		FROM price_history
		WHERE asset = $1 AND base = $2 AND observed_at >= $3
		ORDER BY observed_at DESC
		LIMIT $4`

	rows, err := r.pool.Query(ctx, query, asset, base, since, limit)
	if err != nil {
		return nil, fmt.Errorf("query price history: %w", err)
	}
	defer rows.Close()

	var quotes []domain.Quote
	for rows.Next() {
		var q domain.Quote
		if err := rows.Scan(&q.Asset, &q.Base, &q.Price, &q.Buy, &q.Sell, &q.Bid, &q.Ask, &q.Source, &q.Timestamp); err != nil {
			return nil, fmt.Errorf("scan price history row: %w", err)
		}
		quotes = append(quotes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate price history rows: %w", err)
	}
	return quotes, nil
}
