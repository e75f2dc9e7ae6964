package easee

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultBaseURL is the charging provider's public API.
const DefaultBaseURL = "https://api.easee.com/api"

// AuthError represents an authentication failure against the provider.
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	return e.Message
}

// Client talks to the charging provider API. Authentication is request
// scoped: every call takes the bearer token explicitly, there is no client
// level auth state.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	log *logrus.Entry
}

// NewClient creates a provider client. An empty baseURL selects the public
// API; timeout bounds each request.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: timeout},
		log:        logrus.WithField("component", "easee"),
	}
}

// Authenticate logs in with username/password and returns a bearer token.
func (c *Client) Authenticate(ctx context.Context, username, password string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"userName": username,
		"password": password,
	})
	if err != nil {
		return "", fmt.Errorf("encoding login payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/accounts/login", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("login request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &AuthError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("authentication failed (status %d): %s", resp.StatusCode, string(body)),
		}
	}

	var result struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding login response: %w", err)
	}
	if result.AccessToken == "" {
		return "", errors.New("login response contained no access token")
	}

	return result.AccessToken, nil
}

// GetSites returns all sites visible to the token's account.
func (c *Client) GetSites(ctx context.Context, token string) (any, error) {
	return c.getJSON(ctx, token, c.BaseURL+"/sites")
}

// GetChargers returns the chargers installed at a site.
func (c *Client) GetChargers(ctx context.Context, token, siteID string) (any, error) {
	return c.getJSON(ctx, token, fmt.Sprintf("%s/sites/%s/chargers", c.BaseURL, url.PathEscape(siteID)))
}

// consumptionEndpoints are tried in order until one answers; older API
// versions only serve the unqualified consumption path.
var consumptionEndpoints = []string{
	"%s/chargers/%s/consumption/hourly",
	"%s/chargers/%s/energy/hourly",
	"%s/chargers/%s/consumption",
}

// GetHourlyConsumption fetches the raw hourly consumption payload for a
// charger over one calendar month. The response shape is not stable across
// API versions and is returned undecoded for the normalizer to interpret.
//
// Candidate endpoints are tried first-success-wins: a 404 moves on to the
// next candidate with the error kept for diagnostics, any other upstream
// failure surfaces immediately.
func (c *Client) GetHourlyConsumption(ctx context.Context, token, chargerID string, year, month int) (any, error) {
	start, end := monthRange(year, month)

	params := url.Values{}
	params.Set("from", start.Format("2006-01-02T15:04:05.000Z"))
	params.Set("to", end.Format("2006-01-02T15:04:05.999Z"))

	var lastErr error
	for _, pattern := range consumptionEndpoints {
		reqURL := fmt.Sprintf(pattern, c.BaseURL, url.PathEscape(chargerID)) + "?" + params.Encode()

		payload, err := c.getJSON(ctx, token, reqURL)
		if err == nil {
			return payload, nil
		}

		var notFound *notFoundError
		var transport *transportError
		if errors.As(err, &notFound) || errors.As(err, &transport) {
			// keep the last error for diagnostics and try the next candidate
			c.log.WithError(err).Debugf("trying next consumption endpoint")
			lastErr = err
			continue
		}

		return nil, err
	}

	if lastErr == nil {
		lastErr = errors.New("all consumption endpoints failed")
	}
	return nil, lastErr
}

// notFoundError marks a 404 so the endpoint fallback can move on.
type notFoundError struct {
	url string
}

func (e *notFoundError) Error() string {
	return "endpoint not found: " + e.url
}

// transportError marks a request that never reached the provider.
type transportError struct {
	err error
}

func (e *transportError) Error() string {
	return "making request: " + e.err.Error()
}

func (e *transportError) Unwrap() error {
	return e.err
}

// getJSON performs an authenticated GET and decodes the body into any.
func (c *Client) getJSON(ctx context.Context, token, reqURL string) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &transportError{err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, &notFoundError{url: reqURL}
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &AuthError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("authentication failed (status %d): %s", resp.StatusCode, string(body)),
		}
	case resp.StatusCode != http.StatusOK:
		return nil, errors.New(upstreamMessage(resp))
	}

	var payload any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return payload, nil
}

// upstreamMessage extracts a human-readable error from a failed response,
// preferring the provider's own message/error fields.
func upstreamMessage(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))

	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err == nil {
		for _, field := range []string{"message", "error"} {
			if msg, ok := decoded[field].(string); ok && msg != "" {
				return msg
			}
		}
	}

	text := string(body)
	if len(text) > 200 {
		text = text[:200]
	}
	return fmt.Sprintf("status %d: %s", resp.StatusCode, text)
}

// monthRange returns the first instant of the month and the last second
// before the next month.
func monthRange(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Second)
	return start, end
}
