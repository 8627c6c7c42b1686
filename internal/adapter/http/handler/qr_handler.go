package handler

import (
	"qr-settlement-gateway/internal/adapter/http/dto"
	"qr-settlement-gateway/internal/core/ports"
	"qr-settlement-gateway/pkg/apperror"
	"qr-settlement-gateway/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QRHandler handles QR issuing and decoding endpoints.
type QRHandler struct {
	paymentSvc ports.PaymentService
}

// NewQRHandler creates a new QRHandler.
func NewQRHandler(paymentSvc ports.PaymentService) *QRHandler {
	return &QRHandler{paymentSvc: paymentSvc}
}

// CreateQR handles POST /api/v1/qr.
func (h *QRHandler) CreateQR(c *gin.Context) {
	var req dto.CreateQRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	merchantID, err := uuid.Parse(req.MerchantID)
	if err != nil {
		response.Error(c, apperror.Validation("merchant_id must be a UUID"))
		return
	}
	amount, err := decimal.NewFromString(req.AmountFiat)
	if err != nil {
		response.Error(c, apperror.Validation("amount_fiat must be a decimal number"))
		return
	}

	result, err := h.paymentSvc.CreatePaymentQR(c.Request.Context(), ports.CreateQRRequest{
		MerchantID:   merchantID,
		AmountFiat:   amount,
		TargetCrypto: req.TargetCrypto,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.FromCreateQRResult(result))
}

// DecodeQR handles POST /api/v1/qr/decode.
func (h *QRHandler) DecodeQR(c *gin.Context) {
	var req dto.DecodeQRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	result, err := h.paymentSvc.DecodeQR(c.Request.Context(), req.Payload)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.FromDecodeResult(result))
}
