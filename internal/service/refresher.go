package service

import (
	"context"
	"fmt"
	"time"

	"qr-settlement-gateway/internal/core/ports"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const defaultRefreshInterval = 30 * time.Second

// Refresher keeps the quote cache warm by asking the oracle for every tracked
// pair on a fixed schedule, so interactive requests mostly hit a fresh cache.
type Refresher struct {
	oracle   ports.OracleService
	assets   []string
	base     string
	interval time.Duration
	cron     *cron.Cron
	log      zerolog.Logger
}

// NewRefresher creates a refresher for the given tracked assets.
func NewRefresher(oracle ports.OracleService, assets []string, base string, interval time.Duration, log zerolog.Logger) *Refresher {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	if base == "" {
		base = "ARS"
	}
	return &Refresher{
		oracle:   oracle,
		assets:   assets,
		base:     base,
		interval: interval,
		log:      log,
	}
}

// Start warms the cache once immediately, then refreshes on the interval.
func (r *Refresher) Start() error {
	r.cron = cron.New()
	if _, err := r.cron.AddFunc(fmt.Sprintf("@every %s", r.interval), r.refreshAll); err != nil {
		return fmt.Errorf("schedule price refresh: %w", err)
	}

	go r.refreshAll()
	r.cron.Start()

	r.log.Info().
		Strs("assets", r.assets).
		Str("base", r.base).
		Dur("interval", r.interval).
		Msg("price refresher started")
	return nil
}

// Stop halts the schedule and waits for an in-flight refresh to finish.
func (r *Refresher) Stop() {
	if r.cron == nil {
		return
	}
	<-r.cron.Stop().Done()
	r.log.Info().Msg("price refresher stopped")
}

func (r *Refresher) refreshAll() {
	ctx, cancel := context.WithTimeout(context.Background(), r.interval)
	defer cancel()

	for _, asset := range r.assets {
		if _, err := r.oracle.GetCurrentPrice(ctx, asset, r.base); err != nil {
			r.log.Warn().Err(err).Str("asset", asset).Msg("background price refresh failed")
		}
	}
}
