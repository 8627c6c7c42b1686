package emv

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"qr-settlement-gateway/pkg/crc16"
)

// maxTransactionAmount is the ceiling for the fiat transaction amount.
var maxTransactionAmount = decimal.RequireFromString("999999999.99")

// MerchantInfo is the merchant record subset embedded into the QR.
type MerchantInfo struct {
	ID   string
	Name string
	City string // empty = DefaultMerchantCity
}

// PaymentInfo carries the fiat amount plus the crypto settlement terms
// embedded into the scheme-private extension tags.
type PaymentInfo struct {
	AmountFiat   decimal.Decimal
	TargetCrypto string
	Wallet       string
	CryptoAmount decimal.Decimal
	ExchangeRate decimal.Decimal
	SessionID    string
}

// ValidationError carries every violated generation rule, not just the first,
// so a caller can report all problems in one round trip.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("qr generation validation failed: %s", strings.Join(e.Violations, "; "))
}

// Validate checks every business rule and returns the full list of
// violations. An empty slice means the input is generatable.
func Validate(m MerchantInfo, p PaymentInfo) []string {
	var violations []string

	if strings.TrimSpace(m.ID) == "" {
		violations = append(violations, "merchant id is required")
	}
	if strings.TrimSpace(m.Name) == "" {
		violations = append(violations, "merchant name is required")
	} else if len(m.Name) > MaxMerchantNameLen {
		violations = append(violations, fmt.Sprintf("merchant name exceeds the %d character limit", MaxMerchantNameLen))
	}
	if m.City != "" && len(m.City) > MaxMerchantCityLen {
		violations = append(violations, fmt.Sprintf("merchant city exceeds the %d character limit", MaxMerchantCityLen))
	}
	if !p.AmountFiat.IsPositive() {
		violations = append(violations, "transaction amount must be positive")
	} else if p.AmountFiat.GreaterThan(maxTransactionAmount) {
		violations = append(violations, "transaction amount exceeds the maximum of 999999999.99")
	}
	if strings.TrimSpace(p.TargetCrypto) == "" {
		violations = append(violations, "target crypto is required")
	}
	if strings.TrimSpace(p.Wallet) == "" {
		violations = append(violations, "merchant wallet is required")
	}
	if !p.CryptoAmount.IsPositive() {
		violations = append(violations, "crypto amount must be positive")
	}
	if !p.ExchangeRate.IsPositive() {
		violations = append(violations, "exchange rate must be positive")
	}

	return violations
}

// Generate builds the complete CRC-terminated QR payload. Field order is
// fixed: it is part of the wire contract consumed by strict EMVCo readers.
func Generate(m MerchantInfo, p PaymentInfo) (string, error) {
	if violations := Validate(m, p); len(violations) > 0 {
		return "", &ValidationError{Violations: violations}
	}

	accountInfo, err := EncodeTLV([]Field{
		{Tag: SubTagAID, Value: SchemeAID},
		{Tag: SubTagMerchantID, Value: MerchantIDPrefix + m.ID},
	})
	if err != nil {
		return "", fmt.Errorf("encode merchant account info: %w", err)
	}

	city := m.City
	if city == "" {
		city = DefaultMerchantCity
	}

	fields := []Field{
		{Tag: TagPayloadFormat, Value: PayloadFormatVersion},
		{Tag: TagPointOfInitiation, Value: InitiationStatic},
		{Tag: TagMerchantAccountInfo, Value: accountInfo},
		{Tag: TagMerchantCategoryCode, Value: CategoryFinancialServices},
		{Tag: TagTransactionCurrency, Value: CurrencyARSNumeric},
		{Tag: TagTransactionAmount, Value: p.AmountFiat.StringFixed(2)},
		{Tag: TagCountryCode, Value: CountryCodeAR},
		{Tag: TagMerchantName, Value: m.Name},
		{Tag: TagMerchantCity, Value: city},
		{Tag: TagCryptoWallet, Value: p.Wallet},
		{Tag: TagCryptoAsset, Value: p.TargetCrypto},
		{Tag: TagCryptoAmount, Value: p.CryptoAmount.StringFixed(6)},
		{Tag: TagExchangeRate, Value: p.ExchangeRate.StringFixed(2)},
		{Tag: TagSessionID, Value: p.SessionID},
		{Tag: TagPaymentMethod, Value: PaymentMethodFiat},
	}

	body, err := EncodeTLV(fields)
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}

	// Terminal CRC tag: no length prefix, the checksum signs everything
	// preceding the final 4 characters, tag included.
	body += TagCRC
	return body + crc16.Checksum(body), nil
}

// NewSessionID returns a collision-resistant correlation token combining a
// millisecond timestamp with a short random component. It is an opaque
// identifier, not a security credential.
func NewSessionID() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
	return fmt.Sprintf("sess_%s_%s", ts, uuid.NewString()[:8])
}
