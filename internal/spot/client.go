package spot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"chargecost/pkg/models"
)

// DefaultBaseURL is the public Norwegian day-ahead price feed.
const DefaultBaseURL = "https://www.hvakosterstrommen.no"

// DayFetcher returns one calendar day's fragment of hourly spot prices.
type DayFetcher interface {
	FetchDay(ctx context.Context, year, month, day int, zone string) ([]models.PriceEntry, error)
}

// Client fetches day fragments from the upstream price feed over HTTP.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a price feed client. An empty baseURL selects the public
// feed; timeout bounds each day-fragment request.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// FetchDay downloads the price fragment for one day and zone. The feed
// partitions data one file per day: /api/v1/prices/{year}/{MM}-{DD}_{zone}.json
func (c *Client) FetchDay(ctx context.Context, year, month, day int, zone string) ([]models.PriceEntry, error) {
	reqURL := fmt.Sprintf("%s/api/v1/prices/%d/%02d-%02d_%s.json", c.BaseURL, year, month, day, zone)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching prices: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("price feed returned status %d: %s", resp.StatusCode, string(body))
	}

	var entries []models.PriceEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decoding price fragment: %w", err)
	}

	return entries, nil
}
