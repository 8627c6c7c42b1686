package emv

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qr-settlement-gateway/pkg/crc16"
)

func validMerchant() MerchantInfo {
	return MerchantInfo{ID: "m1", Name: "Kiosco XYZ", City: "Cordoba"}
}

func validPayment() PaymentInfo {
	return PaymentInfo{
		AmountFiat:   decimal.NewFromInt(10000),
		TargetCrypto: "USDT",
		Wallet:       "0xABCDEF123456789",
		CryptoAmount: decimal.RequireFromString("12.5"),
		ExchangeRate: decimal.RequireFromString("800.00"),
		SessionID:    "sess_1",
	}
}

func TestGenerate_ContainsExpectedFields(t *testing.T) {
	payload, err := Generate(validMerchant(), validPayment())
	require.NoError(t, err)

	// Fiat amount with 2 decimals, crypto amount with 6, rate with 2.
	assert.Contains(t, payload, "540810000.00")
	assert.Contains(t, payload, "660912.500000")
	assert.Contains(t, payload, "6706800.00")
	assert.Contains(t, payload, "6806sess_1")
	assert.Contains(t, payload, "6904FIAT")
	assert.True(t, strings.HasPrefix(payload, "000201"), "payload must open with the format indicator")
}

func TestGenerate_CRCSealsPayload(t *testing.T) {
	payload, err := Generate(validMerchant(), validPayment())
	require.NoError(t, err)

	assert.True(t, crc16.Validate(payload))
	assert.Equal(t, TagCRC, payload[len(payload)-6:len(payload)-4])

	// The embedded CRC is uppercase hex.
	crc := payload[len(payload)-4:]
	assert.Equal(t, strings.ToUpper(crc), crc)
}

func TestGenerate_DefaultCity(t *testing.T) {
	m := validMerchant()
	m.City = ""
	payload, err := Generate(m, validPayment())
	require.NoError(t, err)
	assert.Contains(t, payload, DefaultMerchantCity)
}

func TestGenerate_FixedTagOrder(t *testing.T) {
	payload, err := Generate(validMerchant(), validPayment())
	require.NoError(t, err)

	order := []string{"0002", "0102", "2634", "5204", "5303", "5408", "5802", "5910", "6007", "6417", "6504", "6609", "6706", "6806", "6904"}
	pos := -1
	for _, marker := range order {
		next := strings.Index(payload, marker)
		require.GreaterOrEqual(t, next, 0, "marker %s missing", marker)
		assert.Greater(t, next, pos, "marker %s out of order", marker)
		pos = next
	}
}

func TestValidate_AllRulesReported(t *testing.T) {
	m := MerchantInfo{ID: "", Name: strings.Repeat("x", 30)}
	p := PaymentInfo{
		AmountFiat:   decimal.Zero,
		TargetCrypto: "",
		Wallet:       "",
		CryptoAmount: decimal.Zero,
		ExchangeRate: decimal.NewFromInt(-1),
	}

	violations := Validate(m, p)
	assert.Len(t, violations, 6)

	joined := strings.Join(violations, "\n")
	assert.Contains(t, joined, "merchant id is required")
	assert.Contains(t, joined, "25 character limit")
	assert.Contains(t, joined, "transaction amount must be positive")
	assert.Contains(t, joined, "target crypto is required")
	assert.Contains(t, joined, "merchant wallet is required")
	assert.Contains(t, joined, "crypto amount must be positive")
}

func TestValidate_NameLimit(t *testing.T) {
	m := validMerchant()
	m.Name = strings.Repeat("a", 26)
	violations := Validate(m, validPayment())
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "25 character limit")
}

func TestValidate_CityLimit(t *testing.T) {
	m := validMerchant()
	m.City = strings.Repeat("a", 16)
	violations := Validate(m, validPayment())
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "15 character limit")
}

func TestValidate_AmountCeiling(t *testing.T) {
	p := validPayment()
	p.AmountFiat = decimal.RequireFromString("1000000000.00")
	violations := Validate(validMerchant(), p)
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "999999999.99")
}

func TestValidate_Clean(t *testing.T) {
	assert.Empty(t, Validate(validMerchant(), validPayment()))
}

func TestGenerate_ValidationError(t *testing.T) {
	m := validMerchant()
	m.ID = ""
	_, err := Generate(m, validPayment())
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, []string{"merchant id is required"}, vErr.Violations)
}

func TestNewSessionID(t *testing.T) {
	a := NewSessionID()
	b := NewSessionID()
	assert.True(t, strings.HasPrefix(a, "sess_"))
	assert.NotEqual(t, a, b)
}
