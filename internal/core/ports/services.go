package ports

import (
	"context"

	"qr-settlement-gateway/internal/core/domain"
	"qr-settlement-gateway/internal/emv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceSource is a single external price feed. Implementations own their
// HTTP client and timeout; a failing source reports an error and the
// aggregator carries on with the rest.
type PriceSource interface {
	Name() domain.QuoteSource
	// Supports reports whether the source can quote the asset at all.
	Supports(asset string) bool
	FetchQuote(ctx context.Context, asset, base string) (domain.Quote, error)
}

// FallbackProvider supplies the last-resort static price used when every
// live source fails. Abstracted so it can later be backed by a slower live
// source without touching the aggregator's control flow.
type FallbackProvider interface {
	LastResort(asset, base string) (float64, bool)
}

// OracleService aggregates multiple price sources into a single best quote
// with caching, fallback, and derived pricing operations.
type OracleService interface {
	// GetCurrentPrice returns the cached quote when fresh, otherwise
	// refetches from all sources and selects the best price.
	GetCurrentPrice(ctx context.Context, asset, base string) (domain.Quote, error)
	// GetAveragePrice queries two sources directly, bypassing the cache,
	// and arithmetic-means their prices.
	GetAveragePrice(ctx context.Context, asset, base string) (domain.Quote, error)
	GetPriceHistory(ctx context.Context, asset, base string, hours int) ([]domain.Quote, error)
	// ConvertFiatToCrypto prices a fiat amount into the target crypto,
	// including the margin-adjusted amount the merchant actually nets.
	ConvertFiatToCrypto(ctx context.Context, amountFiat decimal.Decimal, asset string) (*domain.Conversion, error)
	// GetRateWithMargin returns the raw rate and rate*(1+margin/100).
	GetRateWithMargin(ctx context.Context, asset string, marginPercent float64) (rate, withMargin float64, err error)
	// ValidateRate checks the live rate against expected within a tolerance
	// band. Out-of-tolerance is an advisory result, not an error.
	ValidateRate(ctx context.Context, asset string, expectedRate, tolerancePercent float64) (*domain.RateCheck, error)
}

// RenderOptions controls QR rasterization.
type RenderOptions struct {
	Size          int // pixels per side
	DisableBorder bool
}

// QRService is the payload codec boundary: generation, parsing, and
// rasterization of the TLV wire format.
type QRService interface {
	Generate(merchant emv.MerchantInfo, payment emv.PaymentInfo) (string, error)
	Parse(payload string) (*emv.ParsedQR, error)
	// Render rasterizes the exact payload string into a PNG. It never
	// mutates the input.
	Render(payload string, opts RenderOptions) ([]byte, error)
}

// RegisterMerchantRequest holds validated input for onboarding a merchant.
type RegisterMerchantRequest struct {
	Name          string
	City          *string
	WalletAddress string
}

// MerchantService manages merchant records. Name and city limits mirror the
// payload field limits so a registered merchant can always be encoded.
type MerchantService interface {
	Register(ctx context.Context, req RegisterMerchantRequest) (*domain.Merchant, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Merchant, error)
	SetStatus(ctx context.Context, id uuid.UUID, status domain.MerchantStatus) (*domain.Merchant, error)
}

// CreateQRRequest holds validated input for issuing a payment QR.
type CreateQRRequest struct {
	MerchantID   uuid.UUID
	AmountFiat   decimal.Decimal
	TargetCrypto string
}

// CreateQRResult is the issued payment session plus its QR artifacts.
type CreateQRResult struct {
	Payment *domain.Payment
	Payload string
	PNG     []byte
}

// DecodeResult is the reconstructed payment intent from a scanned payload.
type DecodeResult struct {
	Parsed *emv.ParsedQR
	// Payment is the matching session when the payload carried a known
	// session id, nil otherwise.
	Payment *domain.Payment
	// RateCheck revalidates the embedded exchange rate against the live
	// oracle rate; nil for plain EMV payloads.
	RateCheck *domain.RateCheck
	// SettlementAmount is the crypto amount at the current margin-adjusted
	// rate; zero for plain EMV payloads.
	SettlementAmount decimal.Decimal
}

// PaymentService orchestrates merchants, the oracle, and the QR codec.
type PaymentService interface {
	CreatePaymentQR(ctx context.Context, req CreateQRRequest) (*CreateQRResult, error)
	DecodeQR(ctx context.Context, payload string) (*DecodeResult, error)
}
