package handler

import (
	"strconv"
	"strings"

	"qr-settlement-gateway/internal/adapter/http/dto"
	"qr-settlement-gateway/internal/core/ports"
	"qr-settlement-gateway/pkg/apperror"
	"qr-settlement-gateway/pkg/response"

	"github.com/gin-gonic/gin"
)

// PriceHandler handles price oracle endpoints.
type PriceHandler struct {
	oracle ports.OracleService
	base   string
}

// NewPriceHandler creates a new PriceHandler. base is the default quote
// currency for path-parameter routes.
func NewPriceHandler(oracle ports.OracleService, base string) *PriceHandler {
	if base == "" {
		base = "ARS"
	}
	return &PriceHandler{oracle: oracle, base: base}
}

func (h *PriceHandler) pair(c *gin.Context) (asset, base string) {
	asset = strings.ToUpper(c.Param("asset"))
	base = strings.ToUpper(c.DefaultQuery("base", h.base))
	return asset, base
}

// GetCurrentPrice handles GET /api/v1/prices/:asset.
func (h *PriceHandler) GetCurrentPrice(c *gin.Context) {
	asset, base := h.pair(c)

	quote, err := h.oracle.GetCurrentPrice(c.Request.Context(), asset, base)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromQuote(quote))
}

// GetAveragePrice handles GET /api/v1/prices/:asset/average.
func (h *PriceHandler) GetAveragePrice(c *gin.Context) {
	asset, base := h.pair(c)

	quote, err := h.oracle.GetAveragePrice(c.Request.Context(), asset, base)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromQuote(quote))
}

// GetPriceHistory handles GET /api/v1/prices/:asset/history?hours=24.
func (h *PriceHandler) GetPriceHistory(c *gin.Context) {
	asset, base := h.pair(c)

	hours, err := strconv.Atoi(c.DefaultQuery("hours", "24"))
	if err != nil || hours <= 0 {
		response.Error(c, apperror.Validation("hours must be a positive integer"))
		return
	}

	quotes, err := h.oracle.GetPriceHistory(c.Request.Context(), asset, base, hours)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.QuoteResponse, 0, len(quotes))
	for _, q := range quotes {
		items = append(items, dto.FromQuote(q))
	}
	response.OK(c, items)
}

// ValidateRate handles POST /api/v1/prices/validate.
func (h *PriceHandler) ValidateRate(c *gin.Context) {
	var req dto.ValidateRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	tolerance := req.TolerancePercent
	if tolerance <= 0 {
		tolerance = 5.0
	}

	check, err := h.oracle.ValidateRate(c.Request.Context(), req.Asset, req.ExpectedRate, tolerance)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromRateCheck(check))
}
