package handler

import (
	"qr-settlement-gateway/internal/adapter/http/dto"
	"qr-settlement-gateway/internal/core/domain"
	"qr-settlement-gateway/internal/core/ports"
	"qr-settlement-gateway/pkg/apperror"
	"qr-settlement-gateway/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MerchantHandler handles merchant onboarding endpoints.
type MerchantHandler struct {
	merchantSvc ports.MerchantService
}

// NewMerchantHandler creates a new MerchantHandler.
func NewMerchantHandler(merchantSvc ports.MerchantService) *MerchantHandler {
	return &MerchantHandler{merchantSvc: merchantSvc}
}

// Register handles POST /api/v1/merchants.
func (h *MerchantHandler) Register(c *gin.Context) {
	var req dto.RegisterMerchantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	merchant, err := h.merchantSvc.Register(c.Request.Context(), ports.RegisterMerchantRequest{
		Name:          req.Name,
		City:          req.City,
		WalletAddress: req.WalletAddress,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.FromMerchant(merchant))
}

// Get handles GET /api/v1/merchants/:id.
func (h *MerchantHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("id must be a UUID"))
		return
	}

	merchant, err := h.merchantSvc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromMerchant(merchant))
}

// Suspend handles POST /api/v1/merchants/:id/suspend.
func (h *MerchantHandler) Suspend(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("id must be a UUID"))
		return
	}

	merchant, err := h.merchantSvc.SetStatus(c.Request.Context(), id, domain.MerchantStatusSuspended)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromMerchant(merchant))
}
