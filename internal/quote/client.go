// Package quote adapts the external quote provider to the engine's
// QuotePort. The provider is the only blocking collaborator: every call is
// rate limited, bounded by the configured timeout and cancellable through
// its context.
package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/avdeenko/carrymon/internal/contracts"
	"github.com/avdeenko/carrymon/pkg/config"
	"github.com/avdeenko/carrymon/pkg/logger"
)

// expDateLayout is the provider's expiration date format ("20250620").
const expDateLayout = "20060102"

// Client is an HTTP client for the quote provider.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *logger.Logger
}

// NewClient creates a quote-provider client from config.
func NewClient(cfg *config.Config, log *logger.Logger) *Client {
	return &Client{
		baseURL: cfg.Quote.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Quote.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.Quote.RateLimit), cfg.Quote.RateBurst),
		logger:  log.WithField("module", "quote"),
	}
}

// quoteResponse is the provider's wire format.
type quoteResponse struct {
	Bid     float64 `json:"bid"`
	Offer   float64 `json:"offer"`
	LotSize float64 `json:"lot_size"`
	ExpDate string  `json:"expiration_date"` // empty for shares
}

// GetQuote fetches one bid/offer snapshot for an instrument. Unknown
// instruments and provider failures surface as ErrQuoteUnavailable so the
// capture pass can skip the instrument and continue.
func (c *Client) GetQuote(ctx context.Context, code string) (*contracts.Quote, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	reqURL := fmt.Sprintf("%s/quotes/%s", c.baseURL, url.PathEscape(code))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request for %s: %w", code, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", contracts.ErrQuoteUnavailable, code, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: provider returned %d", contracts.ErrQuoteUnavailable, code, resp.StatusCode)
	}

	var body quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %s: decode response: %v", contracts.ErrQuoteUnavailable, code, err)
	}

	q := &contracts.Quote{
		Code:       code,
		Bid:        body.Bid,
		Offer:      body.Offer,
		LotSize:    body.LotSize,
		CapturedAt: time.Now(),
	}

	if body.ExpDate != "" {
		expDate, err := time.Parse(expDateLayout, body.ExpDate)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: bad expiration date %q", contracts.ErrQuoteUnavailable, code, body.ExpDate)
		}
		q.ExpDate = expDate
	}

	c.logger.WithFields(map[string]interface{}{
		"code":  code,
		"bid":   q.Bid,
		"offer": q.Offer,
	}).Debug("Quote fetched")

	return q, nil
}
