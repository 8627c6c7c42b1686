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

// BuenbitClient quotes crypto/fiat pairs from the Buenbit broker ticker.
type BuenbitClient struct {
	client  *http.Client
	baseURL string
	log     zerolog.Logger
}

// NewBuenbitClient creates a Buenbit price source. A nil client gets the
// default 5-second timeout.
func NewBuenbitClient(client *http.Client, baseURL string, log zerolog.Logger) *BuenbitClient {
	if client == nil {
		client = &http.Client{Timeout: defaultSourceTimeout}
	}
	if baseURL == "" {
		baseURL = "https://be.buenbit.com"
	}
	return &BuenbitClient{client: client, baseURL: baseURL, log: log}
}

var buenbitAssets = map[string]bool{
	"USDT": true,
	"DAI":  true,
	"BTC":  true,
	"ETH":  true,
}

// Name implements ports.PriceSource.
func (c *BuenbitClient) Name() domain.QuoteSource { return domain.SourceBuenbit }

// Supports implements ports.PriceSource.
func (c *BuenbitClient) Supports(asset string) bool {
	return buenbitAssets[strings.ToUpper(asset)]
}

type buenbitTicker struct {
	PurchasePrice string `json:"purchase_price"`
	SellingPrice  string `json:"selling_price"`
}

type buenbitResponse struct {
	Object map[string]buenbitTicker `json:"object"`
}

// FetchQuote implements ports.PriceSource.
func (c *BuenbitClient) FetchQuote(ctx context.Context, asset, base string) (domain.Quote, error) {
	if !c.Supports(asset) {
		return domain.Quote{}, fmt.Errorf("buenbit: unsupported asset %s", asset)
	}

	url := c.baseURL + "/api/market/tickers/"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("buenbit: build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("buenbit: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Quote{}, fmt.Errorf("buenbit: unexpected status %d", resp.StatusCode)
	}

	var body buenbitResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.Quote{}, fmt.Errorf("buenbit: decode response: %w", err)
	}

	market := strings.ToLower(asset) + strings.ToLower(base)
	ticker, ok := body.Object[market]
	if !ok {
		return domain.Quote{}, fmt.Errorf("buenbit: no market %s", market)
	}

	bid, err := strconv.ParseFloat(ticker.PurchasePrice, 64)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("buenbit: parse purchase price: %w", err)
	}
	ask, err := strconv.ParseFloat(ticker.SellingPrice, 64)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("buenbit: parse selling price: %w", err)
	}
	if bid <= 0 {
		return domain.Quote{}, fmt.Errorf("buenbit: degenerate quote for %s", market)
	}

	return domain.Quote{
		Asset:     strings.ToUpper(asset),
		Base:      strings.ToUpper(base),
		Price:     bid,
		Bid:       bid,
		Ask:       ask,
		Source:    domain.SourceBuenbit,
		Timestamp: time.Now().UTC(),
	}, nil
}
