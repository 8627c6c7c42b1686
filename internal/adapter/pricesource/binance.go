package pricesource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"qr-settlement-gateway/internal/core/domain"

	"github.com/rs/zerolog"
)

// BinanceClient quotes spot prices from Binance. Pairs without a direct
// fiat market are crossed through USDT. When the live call fails for an
// asset with a static substitute, the client degrades to that substitute
// instead of erroring: a stale-but-plausible price beats no price for a
// spot reference feed.
type BinanceClient struct {
	client   *http.Client
	baseURL  string
	log      zerolog.Logger
	fallback map[string]float64
}

// NewBinanceClient creates a Binance price source. A nil client gets the
// default 5-second timeout.
func NewBinanceClient(client *http.Client, baseURL string, log zerolog.Logger) *BinanceClient {
	if client == nil {
		client = &http.Client{Timeout: defaultSourceTimeout}
	}
	if baseURL == "" {
		baseURL = "https://api.binance.com"
	}
	return &BinanceClient{
		client:  client,
		baseURL: baseURL,
		log:     log,
		// Currency-specific static substitutes, keyed ASSET_BASE.
		fallback: map[string]float64{
			"USDT_ARS": 1050.0,
			"USDC_ARS": 1048.0,
			"DAI_ARS":  1045.0,
		},
	}
}

// Name implements ports.PriceSource.
func (c *BinanceClient) Name() domain.QuoteSource { return domain.SourceBinance }

// Supports implements ports.PriceSource. Binance crosses any asset through
// USDT, so every asset is attemptable.
func (c *BinanceClient) Supports(asset string) bool { return asset != "" }

type binanceTicker struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// FetchQuote implements ports.PriceSource.
func (c *BinanceClient) FetchQuote(ctx context.Context, asset, base string) (domain.Quote, error) {
	asset = strings.ToUpper(asset)
	base = strings.ToUpper(base)

	price, err := c.fetchPair(ctx, asset, base)
	if err != nil {
		if sub, ok := c.fallback[asset+"_"+base]; ok {
			c.log.Warn().Err(err).
				Str("asset", asset).
				Str("base", base).
				Float64("substitute", sub).
				Msg("binance fetch failed, using static substitute price")
			return domain.Quote{
				Asset:     asset,
				Base:      base,
				Price:     sub,
				Source:    domain.SourceBinanceFallback,
				Timestamp: time.Now().UTC(),
			}, nil
		}
		return domain.Quote{}, err
	}

	return domain.Quote{
		Asset:     asset,
		Base:      base,
		Price:     price,
		Source:    domain.SourceBinance,
		Timestamp: time.Now().UTC(),
	}, nil
}

// fetchPair tries the direct symbol first, then a synthetic cross-rate
// through USDT.
func (c *BinanceClient) fetchPair(ctx context.Context, asset, base string) (float64, error) {
	if price, err := c.fetchSymbol(ctx, asset+base); err == nil {
		return price, nil
	}

	if asset == "USDT" || base == "USDT" {
		return 0, fmt.Errorf("binance: no direct market %s%s", asset, base)
	}

	assetUSDT, err := c.fetchSymbol(ctx, asset+"USDT")
	if err != nil {
		return 0, fmt.Errorf("binance: cross leg %sUSDT: %w", asset, err)
	}
	usdtBase, err := c.fetchSymbol(ctx, "USDT"+base)
	if err != nil {
		return 0, fmt.Errorf("binance: cross leg USDT%s: %w", base, err)
	}
	return assetUSDT * usdtBase, nil
}

func (c *BinanceClient) fetchSymbol(ctx context.Context, symbol string) (float64, error) {
	url := fmt.Sprintf("%s/api/v3/ticker/price?symbol=%s", c.baseURL, symbol)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, symbol)
	}

	var ticker binanceTicker
	if err := json.NewDecoder(resp.Body).Decode(&ticker); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}

	price, err := strconv.ParseFloat(ticker.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", ticker.Price, err)
	}
	if price <= 0 {
		return 0, fmt.Errorf("degenerate price for %s", symbol)
	}
	return price, nil
}
