package domain

import (
	"time"

	"github.com/google/uuid"
)

// MerchantStatus represents the state of a merchant account.
type MerchantStatus string

const (
	MerchantStatusActive    MerchantStatus = "ACTIVE"
	MerchantStatusSuspended MerchantStatus = "SUSPENDED"
)

// Merchant represents a registered merchant able to present payment QRs.
type Merchant struct {
	ID            uuid.UUID      `json:"id"`
	Name          string         `json:"name"`
	City          *string        `json:"city,omitempty"`
	WalletAddress string         `json:"wallet_address"`
	Status        MerchantStatus `json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// IsActive returns true if the merchant account is active.
func (m *Merchant) IsActive() bool {
	return m.Status == MerchantStatusActive
}
