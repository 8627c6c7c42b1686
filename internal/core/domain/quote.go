package domain

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// QuoteSource identifies where a price quote came from.
type QuoteSource string

const (
	// SourceCriptoYa is the retail aggregator; its quotes carry both a buy
	// and a sell rate.
	SourceCriptoYa QuoteSource = "criptoya"
	// SourceBuenbit is the broker quote (bid/ask).
	SourceBuenbit QuoteSource = "buenbit"
	// SourceBinance is the spot exchange, crossed through USDT when no
	// direct fiat pair exists.
	SourceBinance QuoteSource = "binance"
	// SourceBinanceFallback marks the static substitute used when the spot
	// call fails: a degraded but successful result.
	SourceBinanceFallback QuoteSource = "binance_fallback"
	// SourceAverage marks a quote averaged across sources.
	SourceAverage QuoteSource = "average"
	// SourceFallback marks the last-resort static table.
	SourceFallback QuoteSource = "fallback"
)

// Quote is a single price observation for an asset/base pair.
type Quote struct {
	Asset     string      `json:"asset"`
	Base      string      `json:"base"`
	Price     float64     `json:"price"`
	Buy       float64     `json:"buy,omitempty"`  // retail aggregator buy rate
	Sell      float64     `json:"sell,omitempty"` // retail aggregator sell rate
	Bid       float64     `json:"bid,omitempty"`  // broker bid
	Ask       float64     `json:"ask,omitempty"`  // broker ask
	Source    QuoteSource `json:"source"`
	Timestamp time.Time   `json:"timestamp"`
}

// Usable reports whether the quote carries a positive finite price. Anything
// else is discarded: never cached, never written to history.
func (q Quote) Usable() bool {
	return q.Price > 0 && !math.IsNaN(q.Price) && !math.IsInf(q.Price, 0)
}

// QuoteCacheEntry is a cached quote plus its fetch time. Freshness is decided
// by the aggregator, not the cache.
type QuoteCacheEntry struct {
	Quote     Quote     `json:"quote"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Conversion is the derived result of pricing a fiat amount into crypto.
// Recomputed on demand from a quote, never stored.
type Conversion struct {
	AmountFiat             decimal.Decimal `json:"amount_fiat"`
	AmountCrypto           decimal.Decimal `json:"amount_crypto"`
	AmountCryptoWithMargin decimal.Decimal `json:"amount_crypto_with_margin"`
	Rate                   decimal.Decimal `json:"rate"`
	Source                 QuoteSource     `json:"source"`
	Timestamp              time.Time       `json:"timestamp"`
}

// RateCheck is the advisory result of a tolerance validation. The deviation
// is reported regardless of pass/fail so callers can log near-misses.
type RateCheck struct {
	Valid            bool        `json:"valid"`
	CurrentRate      float64     `json:"current_rate"`
	ExpectedRate     float64     `json:"expected_rate"`
	DeviationPercent float64     `json:"deviation_percent"`
	TolerancePercent float64     `json:"tolerance_percent"`
	Source           QuoteSource `json:"source"`
}
