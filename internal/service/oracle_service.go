package service

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"qr-settlement-gateway/internal/core/domain"
	"qr-settlement-gateway/internal/core/ports"
	"qr-settlement-gateway/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	defaultFreshFor      = 30 * time.Second
	defaultSourceTimeout = 5 * time.Second
	historyLimit         = 100
)

// OracleConfig tunes the aggregator. Zero values fall back to the defaults
// above.
type OracleConfig struct {
	FreshFor      time.Duration
	SourceTimeout time.Duration
	BaseCurrency  string
	MarginPercent float64
}

// OracleServiceImpl implements ports.OracleService. It owns no mutable state
// of its own; the quote cache and history repository are injected and safe
// for concurrent use, so the service itself is too.
type OracleServiceImpl struct {
	sources  []ports.PriceSource
	fallback ports.FallbackProvider
	cache    ports.QuoteCache
	history  ports.PriceHistoryRepository
	cfg      OracleConfig
	log      zerolog.Logger

	now func() time.Time // injectable for freshness tests
}

// NewOracleService creates a new OracleServiceImpl. Sources are tried in the
// order given; the order only fixes tie-breaking, the fetches themselves fan
// out concurrently.
func NewOracleService(
	sources []ports.PriceSource,
	fallback ports.FallbackProvider,
	cache ports.QuoteCache,
	history ports.PriceHistoryRepository,
	cfg OracleConfig,
	log zerolog.Logger,
) *OracleServiceImpl {
	if cfg.FreshFor <= 0 {
		cfg.FreshFor = defaultFreshFor
	}
	if cfg.SourceTimeout <= 0 {
		cfg.SourceTimeout = defaultSourceTimeout
	}
	if cfg.BaseCurrency == "" {
		cfg.BaseCurrency = "ARS"
	}
	if cfg.MarginPercent == 0 {
		cfg.MarginPercent = 2.0
	}
	return &OracleServiceImpl{
		sources:  sources,
		fallback: fallback,
		cache:    cache,
		history:  history,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// GetCurrentPrice returns the cached quote when it is younger than the fresh
// window, otherwise refetches all sources and selects the best price.
func (s *OracleServiceImpl) GetCurrentPrice(ctx context.Context, asset, base string) (domain.Quote, error) {
	entry, err := s.cache.Get(ctx, asset, base)
	if err != nil {
		s.log.Warn().Err(err).Str("asset", asset).Msg("quote cache read failed, falling through to live fetch")
	}
	if entry != nil && s.now().Sub(entry.FetchedAt) < s.cfg.FreshFor {
		return entry.Quote, nil
	}

	return s.refresh(ctx, asset, base)
}

// refresh fans out to every supporting source, folds the successes into the
// best quote, and falls back to the static table when nothing succeeded. The
// fallback table is consulted whenever zero sources produced a quote, even
// for assets no source supports; only when it too comes up empty do we
// distinguish an unsupported asset from a transient outage.
func (s *OracleServiceImpl) refresh(ctx context.Context, asset, base string) (domain.Quote, error) {
	quotes := s.fetchAll(ctx, asset, base)

	best, ok := BestQuote(quotes)
	if !ok {
		price, found := s.fallback.LastResort(asset, base)
		if !found {
			for _, src := range s.sources {
				if src.Supports(asset) {
					return domain.Quote{}, apperror.ErrNoPriceAvailable(asset)
				}
			}
			return domain.Quote{}, apperror.ErrUnsupportedAsset(asset)
		}
		s.log.Warn().
			Str("asset", asset).
			Str("base", base).
			Float64("price", price).
			Msg("all price sources failed, serving static fallback")
		return domain.Quote{
			Asset:     asset,
			Base:      base,
			Price:     price,
			Source:    domain.SourceFallback,
			Timestamp: s.now().UTC(),
		}, nil
	}

	// Best-effort writes: a failing cache or history store must not turn a
	// good quote into an error.
	if err := s.cache.Put(ctx, asset, base, domain.QuoteCacheEntry{Quote: best, FetchedAt: s.now()}); err != nil {
		s.log.Warn().Err(err).Str("asset", asset).Msg("failed to cache winning quote")
	}
	if best.Usable() {
		if err := s.history.Append(ctx, best); err != nil {
			s.log.Warn().Err(err).Str("asset", asset).Msg("failed to persist quote to history")
		}
	}

	return best, nil
}

// fetchAll queries every supporting source concurrently, each under its own
// timeout. Results keep source order so the best-quote fold sees a stable
// input; failures are logged and dropped.
func (s *OracleServiceImpl) fetchAll(ctx context.Context, asset, base string) []domain.Quote {
	results := make([]*domain.Quote, len(s.sources))

	var wg sync.WaitGroup
	for i, src := range s.sources {
		if !src.Supports(asset) {
			continue
		}
		wg.Add(1)
		go func(i int, src ports.PriceSource) {
			defer wg.Done()

			fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.SourceTimeout)
			defer cancel()

			quote, err := src.FetchQuote(fetchCtx, asset, base)
			if err != nil {
				s.log.Warn().
					Err(err).
					Str("source", string(src.Name())).
					Str("asset", asset).
					Msg("price source unavailable")
				return
			}
			if !quote.Usable() {
				s.log.Warn().
					Str("source", string(src.Name())).
					Str("asset", asset).
					Float64("price", quote.Price).
					Msg("discarding unusable quote")
				return
			}
			results[i] = &quote
		}(i, src)
	}
	wg.Wait()

	quotes := make([]domain.Quote, 0, len(results))
	for _, q := range results {
		if q != nil {
			quotes = append(quotes, *q)
		}
	}
	return quotes
}

// GetAveragePrice queries the first two sources directly, bypassing the
// cache, and arithmetic-means whatever succeeded. It fails only when neither
// source produced a usable quote.
func (s *OracleServiceImpl) GetAveragePrice(ctx context.Context, asset, base string) (domain.Quote, error) {
	n := len(s.sources)
	if n > 2 {
		n = 2
	}
	results := make([]*domain.Quote, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		src := s.sources[i]
		if !src.Supports(asset) {
			continue
		}
		wg.Add(1)
		go func(i int, src ports.PriceSource) {
			defer wg.Done()

			fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.SourceTimeout)
			defer cancel()

			quote, err := src.FetchQuote(fetchCtx, asset, base)
			if err != nil {
				s.log.Warn().Err(err).Str("source", string(src.Name())).Msg("price source unavailable for average")
				return
			}
			if quote.Usable() {
				results[i] = &quote
			}
		}(i, src)
	}
	wg.Wait()

	var sum float64
	var count int
	for _, q := range results {
		if q != nil {
			sum += q.Price
			count++
		}
	}
	if count == 0 {
		return domain.Quote{}, apperror.ErrNoPriceAvailable(asset)
	}

	return domain.Quote{
		Asset:     asset,
		Base:      base,
		Price:     sum / float64(count),
		Source:    domain.SourceAverage,
		Timestamp: s.now().UTC(),
	}, nil
}

// GetPriceHistory returns up to 100 persisted quotes within the trailing
// window, newest first.
func (s *OracleServiceImpl) GetPriceHistory(ctx context.Context, asset, base string, hours int) ([]domain.Quote, error) {
	if hours <= 0 {
		hours = 24
	}
	since := s.now().Add(-time.Duration(hours) * time.Hour)

	quotes, err := s.history.QueryRecent(ctx, asset, base, since, historyLimit)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("query price history: %w", err))
	}
	return quotes, nil
}

// ConvertFiatToCrypto prices a fiat amount into the target crypto. The
// margin-adjusted amount takes the configured margin as a haircut: it is
// what the merchant actually nets after the platform's spread.
func (s *OracleServiceImpl) ConvertFiatToCrypto(ctx context.Context, amountFiat decimal.Decimal, asset string) (*domain.Conversion, error) {
	if amountFiat.Sign() <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	quote, err := s.GetCurrentPrice(ctx, asset, s.cfg.BaseCurrency)
	if err != nil {
		return nil, err
	}

	rate := decimal.NewFromFloat(quote.Price)
	amountCrypto := amountFiat.Div(rate).Round(6)
	marginFactor := decimal.NewFromFloat(1 - s.cfg.MarginPercent/100)
	withMargin := amountCrypto.Mul(marginFactor).Round(6)

	return &domain.Conversion{
		AmountFiat:             amountFiat,
		AmountCrypto:           amountCrypto,
		AmountCryptoWithMargin: withMargin,
		Rate:                   rate,
		Source:                 quote.Source,
		Timestamp:              quote.Timestamp,
	}, nil
}

// GetRateWithMargin returns the raw rate and rate*(1+margin/100).
func (s *OracleServiceImpl) GetRateWithMargin(ctx context.Context, asset string, marginPercent float64) (float64, float64, error) {
	quote, err := s.GetCurrentPrice(ctx, asset, s.cfg.BaseCurrency)
	if err != nil {
		return 0, 0, err
	}
	withMargin := quote.Price * (1 + marginPercent/100)
	return quote.Price, withMargin, nil
}

// ValidateRate checks the live rate against an expected rate within a
// tolerance band. An out-of-tolerance rate is an advisory result, not an
// error; the deviation is always reported.
func (s *OracleServiceImpl) ValidateRate(ctx context.Context, asset string, expectedRate, tolerancePercent float64) (*domain.RateCheck, error) {
	if expectedRate <= 0 {
		return nil, apperror.Validation("expected rate must be positive")
	}

	quote, err := s.GetCurrentPrice(ctx, asset, s.cfg.BaseCurrency)
	if err != nil {
		return nil, err
	}

	deviation := math.Abs(quote.Price-expectedRate) / expectedRate * 100

	return &domain.RateCheck{
		Valid:            deviation <= tolerancePercent,
		CurrentRate:      quote.Price,
		ExpectedRate:     expectedRate,
		DeviationPercent: deviation,
		TolerancePercent: tolerancePercent,
		Source:           quote.Source,
	}, nil
}
