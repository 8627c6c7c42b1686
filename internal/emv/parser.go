package emv

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"qr-settlement-gateway/pkg/crc16"
)

// ErrInvalidChecksum signals a CRC mismatch. The payload is treated as
// tampered or corrupted and none of its fields are used.
var ErrInvalidChecksum = errors.New("invalid payload checksum")

// MerchantAccount is the decoded Merchant Account Info nested TLV (tag 26).
type MerchantAccount struct {
	AID        string
	MerchantID string
}

// StandardData holds the EMVCo-standard subset of a parsed payload.
type StandardData struct {
	PayloadFormat        string
	PointOfInitiation    string
	MerchantAccount      MerchantAccount
	MerchantCategoryCode string
	Amount               decimal.Decimal
	Currency             string // symbolic, e.g. "ARS"
	CountryCode          string
	MerchantName         string
	MerchantCity         string
}

// CryptoData holds the scheme-private extension fields.
type CryptoData struct {
	MerchantWallet string
	TargetCrypto   string
	CryptoAmount   decimal.Decimal
	ExchangeRate   decimal.Decimal
	SessionID      string
	PaymentMethod  string
}

// ParsedQR is the structured result of parsing a payload. Crypto is non-nil
// iff the payload carries extension tags; IsExtended mirrors that fact for
// downstream branching.
type ParsedQR struct {
	Standard   StandardData
	Crypto     *CryptoData
	IsExtended bool
}

// minPayloadLen is the terminal CRC tag plus its 4-character value.
const minPayloadLen = len(TagCRC) + 4

// Parse validates the CRC and decodes the TLV payload into structured form.
// It is the exact inverse of Generate for any payload Generate produced.
// Failures are ErrInvalidChecksum (reject outright, fields unused) or
// ErrMalformedPayload (structural violation), never a partial result.
func Parse(payload string) (*ParsedQR, error) {
	if len(payload) < minPayloadLen {
		return nil, fmt.Errorf("%w: payload shorter than terminal CRC tag", ErrMalformedPayload)
	}
	if !crc16.Validate(payload) {
		return nil, ErrInvalidChecksum
	}

	// The terminal tag carries no length prefix, so it is stripped before
	// the cursor scan.
	body := payload[:len(payload)-minPayloadLen]
	if !strings.HasSuffix(payload[:len(payload)-4], TagCRC) {
		return nil, fmt.Errorf("%w: missing terminal CRC tag", ErrMalformedPayload)
	}

	tags, err := DecodeTLV(body)
	if err != nil {
		return nil, err
	}

	std := StandardData{
		PayloadFormat:        tags[TagPayloadFormat],
		PointOfInitiation:    tags[TagPointOfInitiation],
		MerchantAccount:      parseMerchantAccount(tags[TagMerchantAccountInfo]),
		MerchantCategoryCode: tags[TagMerchantCategoryCode],
		Currency:             CurrencySymbol(tags[TagTransactionCurrency]),
		CountryCode:          tags[TagCountryCode],
		MerchantName:         tags[TagMerchantName],
		MerchantCity:         tags[TagMerchantCity],
	}

	if raw, ok := tags[TagTransactionAmount]; ok {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: non-numeric transaction amount %q", ErrMalformedPayload, raw)
		}
		std.Amount = amount
	}

	result := &ParsedQR{Standard: std}

	if !hasExtensionTags(tags) {
		return result, nil
	}

	crypto := &CryptoData{
		MerchantWallet: tags[TagCryptoWallet],
		TargetCrypto:   tags[TagCryptoAsset],
		SessionID:      tags[TagSessionID],
		PaymentMethod:  tags[TagPaymentMethod],
	}
	if raw, ok := tags[TagCryptoAmount]; ok {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: non-numeric crypto amount %q", ErrMalformedPayload, raw)
		}
		crypto.CryptoAmount = v
	}
	if raw, ok := tags[TagExchangeRate]; ok {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: non-numeric exchange rate %q", ErrMalformedPayload, raw)
		}
		crypto.ExchangeRate = v
	}

	result.Crypto = crypto
	result.IsExtended = true
	return result, nil
}

// parseMerchantAccount decodes the nested TLV inside tag 26. Real-world
// EMVCo readers are lenient here: when the nested scan fails, the raw value
// is treated as the merchant identifier instead of failing the whole parse.
func parseMerchantAccount(raw string) MerchantAccount {
	sub, err := DecodeTLV(raw)
	if err != nil {
		return MerchantAccount{MerchantID: raw}
	}
	return MerchantAccount{
		AID:        sub[SubTagAID],
		MerchantID: strings.TrimPrefix(sub[SubTagMerchantID], MerchantIDPrefix),
	}
}

func hasExtensionTags(tags map[string]string) bool {
	for _, tag := range []string{TagCryptoWallet, TagCryptoAsset, TagCryptoAmount, TagExchangeRate, TagSessionID, TagPaymentMethod} {
		if _, ok := tags[tag]; ok {
			return true
		}
	}
	return false
}
