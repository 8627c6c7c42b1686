package service

import (
	"errors"
	"fmt"

	"qr-settlement-gateway/internal/core/ports"
	"qr-settlement-gateway/internal/emv"
	"qr-settlement-gateway/pkg/apperror"

	"github.com/rs/zerolog"
	qrcode "github.com/skip2/go-qrcode"
)

const defaultQRSize = 512

// QRServiceImpl implements ports.QRService on top of the emv codec.
type QRServiceImpl struct {
	log zerolog.Logger
}

// NewQRService creates a new QRServiceImpl.
func NewQRService(log zerolog.Logger) *QRServiceImpl {
	return &QRServiceImpl{log: log}
}

// Generate builds a sealed TLV payload. Validation failures surface every
// violated rule at once.
func (s *QRServiceImpl) Generate(merchant emv.MerchantInfo, payment emv.PaymentInfo) (string, error) {
	payload, err := emv.Generate(merchant, payment)
	if err != nil {
		var ve *emv.ValidationError
		if errors.As(err, &ve) {
			return "", apperror.ErrQRValidation(ve.Violations)
		}
		return "", apperror.InternalError(fmt.Errorf("generate payload: %w", err))
	}
	return payload, nil
}

// Parse decodes and verifies a scanned payload. A checksum or structural
// failure maps to its error code without leaking which byte broke.
func (s *QRServiceImpl) Parse(payload string) (*emv.ParsedQR, error) {
	parsed, err := emv.Parse(payload)
	if err != nil {
		switch {
		case errors.Is(err, emv.ErrInvalidChecksum):
			return nil, apperror.ErrInvalidChecksum()
		case errors.Is(err, emv.ErrMalformedPayload):
			return nil, apperror.ErrMalformedPayload(err)
		default:
			return nil, apperror.InternalError(fmt.Errorf("parse payload: %w", err))
		}
	}
	return parsed, nil
}

// Render rasterizes the payload into a PNG. The payload string is embedded
// verbatim; any re-encoding would break the CRC seal.
func (s *QRServiceImpl) Render(payload string, opts ports.RenderOptions) ([]byte, error) {
	if payload == "" {
		return nil, apperror.Validation("payload must not be empty")
	}

	size := opts.Size
	if size <= 0 {
		size = defaultQRSize
	}

	code, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("build qr code: %w", err))
	}
	code.DisableBorder = opts.DisableBorder

	png, err := code.PNG(size)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("encode qr png: %w", err))
	}
	return png, nil
}
