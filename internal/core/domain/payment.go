package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus represents the lifecycle state of a payment session.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusExpired   PaymentStatus = "EXPIRED"
)

// Payment represents one QR payment session: a fiat amount priced into a
// target crypto at issuance time, correlated by the session id embedded in
// the payload's extension tags.
type Payment struct {
	ID           uuid.UUID       `json:"id"`
	MerchantID   uuid.UUID       `json:"merchant_id"`
	SessionID    string          `json:"session_id"`
	AmountFiat   decimal.Decimal `json:"amount_fiat"`
	Currency     string          `json:"currency"`
	TargetCrypto string          `json:"target_crypto"`
	CryptoAmount decimal.Decimal `json:"crypto_amount"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
	Status       PaymentStatus   `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	ExpiresAt    time.Time       `json:"expires_at"`
}

// IsExpired reports whether the payment session has passed its expiry.
func (p *Payment) IsExpired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}

// IsPayable reports whether a scan of this session can still settle.
func (p *Payment) IsPayable(now time.Time) bool {
	return p.Status == PaymentStatusPending && !p.IsExpired(now)
}
