package postgres

import (
	"context"
	"errors"
	"fmt"

	"qr-settlement-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PaymentRepo implements ports.PaymentRepository.
type PaymentRepo struct {
	pool Pool
}

// NewPaymentRepo creates a new PaymentRepo.
func NewPaymentRepo(pool Pool) *PaymentRepo {
	return &PaymentRepo{pool: pool}
}

// Create inserts a new payment session.
func (r *PaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	query := `INSERT INTO payments (id, merchant_id, session_id, amount_fiat, currency, target_crypto, crypto_amount, exchange_rate, status, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.pool.Exec(ctx, query,
		p.ID, p.MerchantID, p.SessionID, p.AmountFiat, p.Currency,
		p.TargetCrypto, p.CryptoAmount, p.ExchangeRate, p.Status,
		p.CreatedAt, p.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// GetBySessionID fetches a payment by the session id embedded in its QR.
// Returns nil, nil when not found.
func (r *PaymentRepo) GetBySessionID(ctx context.Context, sessionID string) (*domain.Payment, error) {
	query := `SELECT id, merchant_id, session_id, amount_fiat, currency, target_crypto, crypto_amount, exchange_rate, status, created_at, expires_at
		FROM payments WHERE session_id = $1`

	p := &domain.Payment{}
	err := r.pool.QueryRow(ctx, query, sessionID).Scan(
		&p.ID, &p.MerchantID, &p.SessionID, &p.AmountFiat, &p.Currency,
		&p.TargetCrypto, &p.CryptoAmount, &p.ExchangeRate, &p.Status,
		&p.CreatedAt, &p.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment by session_id: %w", err)
	}
	return p, nil
}

// UpdateStatus transitions a payment to a new lifecycle state.
func (r *PaymentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus) error {
	query := `UPDATE payments SET status=$1 WHERE id=$2`
	_, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	return nil
}
