package handler

import (
	"qr-settlement-gateway/internal/adapter/http/middleware"
	redisStore "qr-settlement-gateway/internal/adapter/storage/redis"
	"qr-settlement-gateway/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	PaymentSvc     ports.PaymentService
	OracleSvc      ports.OracleService
	MerchantSvc    ports.MerchantService
	BaseCurrency   string
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	qrHandler := NewQRHandler(deps.PaymentSvc)
	qr := v1.Group("/qr")
	{
		qr.POST("", rl("qr_generate"), qrHandler.CreateQR)
		qr.POST("/decode", rl("qr_decode"), qrHandler.DecodeQR)
	}

	priceHandler := NewPriceHandler(deps.OracleSvc, deps.BaseCurrency)
	prices := v1.Group("/prices")
	{
		prices.POST("/validate", rl("prices"), priceHandler.ValidateRate)
		prices.GET("/:asset", rl("prices"), priceHandler.GetCurrentPrice)
		prices.GET("/:asset/average", rl("prices"), priceHandler.GetAveragePrice)
		prices.GET("/:asset/history", rl("prices"), priceHandler.GetPriceHistory)
	}

	if deps.MerchantSvc != nil {
		merchantHandler := NewMerchantHandler(deps.MerchantSvc)
		merchants := v1.Group("/merchants")
		{
			merchants.POST("", rl("merchants"), merchantHandler.Register)
			merchants.GET("/:id", rl("merchants"), merchantHandler.Get)
			merchants.POST("/:id/suspend", rl("merchants"), merchantHandler.Suspend)
		}
	}

	return r
}
