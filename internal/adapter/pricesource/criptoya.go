// Package pricesource contains the HTTP clients for the external price
// feeds consumed by the oracle aggregator. Each client owns its timeout and
// degrades independently: a failing source never takes the aggregate down.
package pricesource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"qr-settlement-gateway/internal/core/domain"

	"github.com/rs/zerolog"
)

const defaultSourceTimeout = 5 * time.Second

// CriptoYaClient quotes crypto/fiat pairs from the CriptoYa retail
// aggregator. Its responses carry both an aggregated buy and sell rate.
type CriptoYaClient struct {
	client  *http.Client
	baseURL string
	log     zerolog.Logger
}

// NewCriptoYaClient creates a CriptoYa price source. A nil client gets the
// default 5-second timeout.
func NewCriptoYaClient(client *http.Client, baseURL string, log zerolog.Logger) *CriptoYaClient {
	if client == nil {
		client = &http.Client{Timeout: defaultSourceTimeout}
	}
	if baseURL == "" {
		baseURL = "https://criptoya.com"
	}
	return &CriptoYaClient{client: client, baseURL: baseURL, log: log}
}

var criptoYaAssets = map[string]bool{
	"USDT": true,
	"USDC": true,
	"DAI":  true,
	"BTC":  true,
	"ETH":  true,
}

// Name implements ports.PriceSource.
func (c *CriptoYaClient) Name() domain.QuoteSource { return domain.SourceCriptoYa }

// Supports implements ports.PriceSource.
func (c *CriptoYaClient) Supports(asset string) bool {
	return criptoYaAssets[strings.ToUpper(asset)]
}

type criptoYaTicker struct {
	Ask      float64 `json:"ask"`
	TotalAsk float64 `json:"totalAsk"`
	Bid      float64 `json:"bid"`
	TotalBid float64 `json:"totalBid"`
	Time     int64   `json:"time"`
}

// FetchQuote implements ports.PriceSource.
func (c *CriptoYaClient) FetchQuote(ctx context.Context, asset, base string) (domain.Quote, error) {
	if !c.Supports(asset) {
		return domain.Quote{}, fmt.Errorf("criptoya: unsupported asset %s", asset)
	}

	url := fmt.Sprintf("%s/api/%s/%s/1", c.baseURL, strings.ToLower(asset), strings.ToLower(base))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("criptoya: build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("criptoya: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Quote{}, fmt.Errorf("criptoya: unexpected status %d", resp.StatusCode)
	}

	var ticker criptoYaTicker
	if err := json.NewDecoder(resp.Body).Decode(&ticker); err != nil {
		return domain.Quote{}, fmt.Errorf("criptoya: decode response: %w", err)
	}
	if ticker.TotalBid <= 0 {
		return domain.Quote{}, fmt.Errorf("criptoya: degenerate quote for %s/%s", asset, base)
	}

	return domain.Quote{
		Asset:     strings.ToUpper(asset),
		Base:      strings.ToUpper(base),
		Price:     ticker.TotalBid,
		Buy:       ticker.TotalBid,
		Sell:      ticker.TotalAsk,
		Source:    domain.SourceCriptoYa,
		Timestamp: time.Now().UTC(),
	}, nil
}
