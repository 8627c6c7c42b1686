package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"qr-settlement-gateway/config"
	httpHandler "qr-settlement-gateway/internal/adapter/http/handler"
	"qr-settlement-gateway/internal/adapter/pricesource"
	memStorage "qr-settlement-gateway/internal/adapter/storage/memory"
	pgStorage "qr-settlement-gateway/internal/adapter/storage/postgres"
	redisStorage "qr-settlement-gateway/internal/adapter/storage/redis"
	"qr-settlement-gateway/internal/core/ports"
	"qr-settlement-gateway/internal/service"
	"qr-settlement-gateway/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Crypto QR Gateway")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize repositories
	merchantRepo := pgStorage.NewMerchantRepo(pool)
	paymentRepo := pgStorage.NewPaymentRepo(pool)
	historyRepo := pgStorage.NewPriceHistoryRepo(pool)

	healthCheckers := []ports.HealthChecker{pgStorage.NewHealthCheck(pool)}

	// Redis backs the quote cache and rate limiter. When disabled the
	// cache falls back to process memory and rate limiting is off.
	var quoteCache ports.QuoteCache
	var rateLimitStore *redisStorage.RateLimitStore
	if cfg.Redis.Enabled {
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		log.Info().Msg("Redis connected")

		quoteCache = redisStorage.NewQuoteCache(rdb, cfg.Oracle.CacheTTL)
		rateLimitStore = redisStorage.NewRateLimitStore(rdb)
		healthCheckers = append(healthCheckers, redisStorage.NewHealthCheck(rdb))
	} else {
		log.Warn().Msg("Redis disabled, using in-memory quote cache without rate limiting")
		quoteCache = memStorage.NewQuoteCache()
	}

	// Price sources, in selection order
	httpClient := &http.Client{Timeout: cfg.Oracle.SourceTimeout}
	sources := []ports.PriceSource{
		pricesource.NewCriptoYaClient(httpClient, cfg.Oracle.CriptoYaURL, log),
		pricesource.NewBuenbitClient(httpClient, cfg.Oracle.BuenbitURL, log),
		pricesource.NewBinanceClient(httpClient, cfg.Oracle.BinanceURL, log),
	}
	fallback := pricesource.NewStaticFallback(cfg.Oracle.FallbackRates)

	// Initialize business services
	oracleSvc := service.NewOracleService(sources, fallback, quoteCache, historyRepo, service.OracleConfig{
		FreshFor:      cfg.Oracle.CacheTTL,
		SourceTimeout: cfg.Oracle.SourceTimeout,
		BaseCurrency:  cfg.Oracle.BaseCurrency,
		MarginPercent: cfg.Oracle.MarginPercent,
	}, log)
	qrSvc := service.NewQRService(log)
	merchantSvc := service.NewMerchantService(merchantRepo)
	paymentSvc := service.NewPaymentService(merchantRepo, paymentRepo, oracleSvc, qrSvc, service.PaymentConfig{
		SessionTTL:       cfg.QR.SessionTTL,
		TolerancePercent: cfg.Oracle.TolerancePercent,
		FiatCurrency:     cfg.Oracle.BaseCurrency,
	}, log)

	// Background price refresher keeps the cache warm for tracked assets
	refresher := service.NewRefresher(oracleSvc, cfg.Oracle.TrackedAssets, cfg.Oracle.BaseCurrency, cfg.Oracle.RefreshInterval, log)
	if err := refresher.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start price refresher")
	}
	defer refresher.Stop()

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		PaymentSvc:     paymentSvc,
		OracleSvc:      oracleSvc,
		MerchantSvc:    merchantSvc,
		BaseCurrency:   cfg.Oracle.BaseCurrency,
		RateLimitStore: rateLimitStore,
		HealthCheckers: healthCheckers,
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
