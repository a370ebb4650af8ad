package pricefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/aurum-app/aurum/internal/models"
	"github.com/aurum-app/aurum/pkg/logger"
)

// providerResponse is the upstream payload shape. It is validated at
// this boundary so malformed responses never reach the price-change
// detector.
type providerResponse struct {
	Gold      float64            `json:"gold"`
	Silver    float64            `json:"silver"`
	Currency  string             `json:"currency"`
	Rates     map[string]float64 `json:"rates"`
	Timestamp int64              `json:"timestamp"`
}

// Client fetches gold/silver prices and exchange rates from the
// configured provider.
type Client struct {
	logger  *logger.Logger
	baseURL string
	client  *http.Client
}

// NewClient creates a price feed client for the given provider URL.
func NewClient(baseURL string, timeout time.Duration, logger *logger.Logger) *Client {
	return &Client{
		logger:  logger,
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch retrieves and validates the current price snapshot.
func (c *Client) Fetch(ctx context.Context) (*models.PriceSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build price request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prices: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("price provider returned status %d: %s", resp.StatusCode, string(body))
	}

	var payload providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode price response: %w", err)
	}

	if err := validatePayload(&payload); err != nil {
		return nil, fmt.Errorf("malformed price response: %w", err)
	}

	fetchedAt := time.Now()
	if payload.Timestamp > 0 {
		fetchedAt = time.Unix(payload.Timestamp, 0)
	}
	currency := payload.Currency
	if currency == "" {
		currency = "USD"
	}

	snapshot := &models.PriceSnapshot{
		GoldPrice:   payload.Gold,
		SilverPrice: payload.Silver,
		Currency:    currency,
		Rates:       payload.Rates,
		FetchedAt:   fetchedAt,
	}
	c.logger.Debug("Fetched price snapshot ", "gold ", snapshot.GoldPrice, " silver ", snapshot.SilverPrice)
	return snapshot, nil
}

func validatePayload(p *providerResponse) error {
	if math.IsNaN(p.Gold) || math.IsInf(p.Gold, 0) || p.Gold <= 0 {
		return fmt.Errorf("gold price %v is not a positive number", p.Gold)
	}
	if math.IsNaN(p.Silver) || math.IsInf(p.Silver, 0) || p.Silver < 0 {
		return fmt.Errorf("silver price %v is not a valid number", p.Silver)
	}
	if len(p.Rates) == 0 {
		return fmt.Errorf("exchange rates are missing")
	}
	for code, rate := range p.Rates {
		if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
			return fmt.Errorf("rate for %s is not a positive number", code)
		}
	}
	return nil
}
