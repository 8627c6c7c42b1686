package service

import (
	"bytes"
	"testing"

	"qr-settlement-gateway/internal/core/ports"
	"qr-settlement-gateway/internal/emv"
	"qr-settlement-gateway/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMerchant() emv.MerchantInfo {
	return emv.MerchantInfo{ID: "m1", Name: "Kiosco XYZ", City: "Cordoba"}
}

func testPayment() emv.PaymentInfo {
	return emv.PaymentInfo{
		AmountFiat:   decimal.RequireFromString("10000"),
		TargetCrypto: "USDT",
		Wallet:       "0xABCDEF123456789",
		CryptoAmount: decimal.RequireFromString("12.5"),
		ExchangeRate: decimal.RequireFromString("800.00"),
		SessionID:    "sess_1",
	}
}

func TestQRService_GenerateAndParse(t *testing.T) {
	svc := NewQRService(zerolog.Nop())

	payload, err := svc.Generate(testMerchant(), testPayment())
	require.NoError(t, err)

	parsed, err := svc.Parse(payload)
	require.NoError(t, err)
	assert.True(t, parsed.IsExtended)
	require.NotNil(t, parsed.Crypto)
	assert.Equal(t, "USDT", parsed.Crypto.TargetCrypto)
}

func TestQRService_GenerateValidationError(t *testing.T) {
	svc := NewQRService(zerolog.Nop())

	_, err := svc.Generate(emv.MerchantInfo{}, emv.PaymentInfo{})
	require.Error(t, err)

	appErr, ok := err.(*apperror.AppError)
	require.True(t, ok)
	assert.Equal(t, "QR_001", appErr.Code)
	assert.NotEmpty(t, appErr.Violations)
}

func TestQRService_ParseInvalidChecksum(t *testing.T) {
	svc := NewQRService(zerolog.Nop())

	payload, err := svc.Generate(testMerchant(), testPayment())
	require.NoError(t, err)

	_, err = svc.Parse(payload[:len(payload)-4] + "0000")
	require.Error(t, err)

	appErr, ok := err.(*apperror.AppError)
	require.True(t, ok)
	assert.Equal(t, "QR_002", appErr.Code)
}

func TestQRService_ParseMalformed(t *testing.T) {
	svc := NewQRService(zerolog.Nop())

	_, err := svc.Parse("xx")
	require.Error(t, err)

	appErr, ok := err.(*apperror.AppError)
	require.True(t, ok)
	assert.Equal(t, "QR_003", appErr.Code)
}

func TestQRService_Render(t *testing.T) {
	svc := NewQRService(zerolog.Nop())

	payload, err := svc.Generate(testMerchant(), testPayment())
	require.NoError(t, err)

	png, err := svc.Render(payload, ports.RenderOptions{Size: 256})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}

func TestQRService_RenderDefaultSize(t *testing.T) {
	svc := NewQRService(zerolog.Nop())

	png, err := svc.Render("000201", ports.RenderOptions{})
	require.NoError(t, err)
	assert.NotEmpty(t, png)
}

func TestQRService_RenderEmptyPayload(t *testing.T) {
	svc := NewQRService(zerolog.Nop())

	_, err := svc.Render("", ports.RenderOptions{})
	require.Error(t, err)
}
