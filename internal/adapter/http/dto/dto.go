package dto

import (
	"encoding/base64"
	"time"

	"qr-settlement-gateway/internal/core/domain"
	"qr-settlement-gateway/internal/core/ports"
)

// RegisterMerchantRequest is the request body for merchant onboarding.
type RegisterMerchantRequest struct {
	Name          string  `json:"name" binding:"required,min=1,max=25"`
	City          *string `json:"city,omitempty" binding:"omitempty,max=15"`
	WalletAddress string  `json:"wallet_address" binding:"required,wallet"`
}

// MerchantResponse is the response body for merchant queries.
type MerchantResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	City          *string `json:"city,omitempty"`
	WalletAddress string  `json:"wallet_address"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"created_at"`
}

// CreateQRRequest is the request body for issuing a payment QR.
type CreateQRRequest struct {
	MerchantID   string `json:"merchant_id" binding:"required,uuid"`
	AmountFiat   string `json:"amount_fiat" binding:"required"`
	TargetCrypto string `json:"target_crypto" binding:"required,asset"`
}

// CreateQRResponse is the response body for a freshly issued payment QR.
type CreateQRResponse struct {
	SessionID    string `json:"session_id"`
	Payload      string `json:"payload"`
	ImageBase64  string `json:"image_base64"`
	AmountFiat   string `json:"amount_fiat"`
	Currency     string `json:"currency"`
	TargetCrypto string `json:"target_crypto"`
	CryptoAmount string `json:"crypto_amount"`
	ExchangeRate string `json:"exchange_rate"`
	ExpiresAt    string `json:"expires_at"`
}

// DecodeQRRequest is the request body for decoding a scanned payload.
type DecodeQRRequest struct {
	Payload string `json:"payload" binding:"required,min=6"`
}

// DecodeQRResponse is the response body for a decoded payload.
type DecodeQRResponse struct {
	IsExtended       bool               `json:"is_extended"`
	Standard         StandardData       `json:"standard"`
	Crypto           *CryptoData        `json:"crypto,omitempty"`
	Session          *SessionData       `json:"session,omitempty"`
	RateCheck        *RateCheckResponse `json:"rate_check,omitempty"`
	SettlementAmount string             `json:"settlement_amount,omitempty"`
}

// StandardData mirrors the EMVCo-standard subset of a parsed payload.
type StandardData struct {
	MerchantID           string `json:"merchant_id"`
	MerchantName         string `json:"merchant_name"`
	MerchantCity         string `json:"merchant_city"`
	MerchantCategoryCode string `json:"merchant_category_code"`
	Amount               string `json:"amount"`
	Currency             string `json:"currency"`
	CountryCode          string `json:"country_code"`
}

// CryptoData mirrors the crypto extension fields of a parsed payload.
type CryptoData struct {
	MerchantWallet string `json:"merchant_wallet"`
	TargetCrypto   string `json:"target_crypto"`
	CryptoAmount   string `json:"crypto_amount"`
	ExchangeRate   string `json:"exchange_rate"`
	SessionID      string `json:"session_id"`
	PaymentMethod  string `json:"payment_method"`
}

// SessionData is the matched payment session, when one exists.
type SessionData struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
	ExpiresAt string `json:"expires_at"`
}

// QuoteResponse is the response body for price queries.
type QuoteResponse struct {
	Asset     string  `json:"asset"`
	Base      string  `json:"base"`
	Price     float64 `json:"price"`
	Buy       float64 `json:"buy,omitempty"`
	Sell      float64 `json:"sell,omitempty"`
	Bid       float64 `json:"bid,omitempty"`
	Ask       float64 `json:"ask,omitempty"`
	Source    string  `json:"source"`
	Timestamp string  `json:"timestamp"`
}

// ValidateRateRequest is the request body for rate tolerance validation.
type ValidateRateRequest struct {
	Asset            string  `json:"asset" binding:"required,asset"`
	ExpectedRate     float64 `json:"expected_rate" binding:"required,gt=0"`
	TolerancePercent float64 `json:"tolerance_percent" binding:"omitempty,gt=0"`
}

// RateCheckResponse is the advisory result of a tolerance validation.
type RateCheckResponse struct {
	Valid            bool    `json:"valid"`
	CurrentRate      float64 `json:"current_rate"`
	ExpectedRate     float64 `json:"expected_rate"`
	DeviationPercent float64 `json:"deviation_percent"`
	TolerancePercent float64 `json:"tolerance_percent"`
	Source           string  `json:"source"`
}

// FromMerchant maps a merchant record to its response body.
func FromMerchant(m *domain.Merchant) MerchantResponse {
	return MerchantResponse{
		ID:            m.ID.String(),
		Name:          m.Name,
		City:          m.City,
		WalletAddress: m.WalletAddress,
		Status:        string(m.Status),
		CreatedAt:     m.CreatedAt.Format(time.RFC3339),
	}
}

// FromQuote maps a quote to its response body.
func FromQuote(q domain.Quote) QuoteResponse {
	return QuoteResponse{
		Asset:     q.Asset,
		Base:      q.Base,
		Price:     q.Price,
		Buy:       q.Buy,
		Sell:      q.Sell,
		Bid:       q.Bid,
		Ask:       q.Ask,
		Source:    string(q.Source),
		Timestamp: q.Timestamp.Format(time.RFC3339),
	}
}

// FromRateCheck maps a rate check to its response body.
func FromRateCheck(rc *domain.RateCheck) *RateCheckResponse {
	if rc == nil {
		return nil
	}
	return &RateCheckResponse{
		Valid:            rc.Valid,
		CurrentRate:      rc.CurrentRate,
		ExpectedRate:     rc.ExpectedRate,
		DeviationPercent: rc.DeviationPercent,
		TolerancePercent: rc.TolerancePercent,
		Source:           string(rc.Source),
	}
}

// FromCreateQRResult maps an issued session to its response body.
func FromCreateQRResult(r *ports.CreateQRResult) CreateQRResponse {
	p := r.Payment
	return CreateQRResponse{
		SessionID:    p.SessionID,
		Payload:      r.Payload,
		ImageBase64:  base64.StdEncoding.EncodeToString(r.PNG),
		AmountFiat:   p.AmountFiat.StringFixed(2),
		Currency:     p.Currency,
		TargetCrypto: p.TargetCrypto,
		CryptoAmount: p.CryptoAmount.StringFixed(6),
		ExchangeRate: p.ExchangeRate.StringFixed(2),
		ExpiresAt:    p.ExpiresAt.Format(time.RFC3339),
	}
}

// FromDecodeResult maps a decode result to its response body.
func FromDecodeResult(r *ports.DecodeResult) DecodeQRResponse {
	std := r.Parsed.Standard
	resp := DecodeQRResponse{
		IsExtended: r.Parsed.IsExtended,
		Standard: StandardData{
			MerchantID:           std.MerchantAccount.MerchantID,
			MerchantName:         std.MerchantName,
			MerchantCity:         std.MerchantCity,
			MerchantCategoryCode: std.MerchantCategoryCode,
			Amount:               std.Amount.String(),
			Currency:             std.Currency,
			CountryCode:          std.CountryCode,
		},
		RateCheck: FromRateCheck(r.RateCheck),
	}

	if r.Parsed.Crypto != nil {
		c := r.Parsed.Crypto
		resp.Crypto = &CryptoData{
			MerchantWallet: c.MerchantWallet,
			TargetCrypto:   c.TargetCrypto,
			CryptoAmount:   c.CryptoAmount.String(),
			ExchangeRate:   c.ExchangeRate.String(),
			SessionID:      c.SessionID,
			PaymentMethod:  c.PaymentMethod,
		}
	}
	if r.Payment != nil {
		resp.Session = &SessionData{
			SessionID: r.Payment.SessionID,
			Status:    string(r.Payment.Status),
			ExpiresAt: r.Payment.ExpiresAt.Format(time.RFC3339),
		}
	}
	if r.SettlementAmount.IsPositive() {
		resp.SettlementAmount = r.SettlementAmount.StringFixed(6)
	}
	return resp
}
