// Package autocomplete fetches keyword suggestions from the public Google
// suggest endpoint. It is the free fallback when no paid provider is set up.
package autocomplete

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/rankforge/seosuite/internal/domain"
	"github.com/rankforge/seosuite/internal/metrics"
)

const defaultBaseURL = "https://suggestqueries.google.com/complete/search"

// Client queries the Google autocomplete endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

// Config holds the autocomplete client settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewClient creates a Google autocomplete client.
func NewClient(cfg *Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		logger:     cfg.Logger,
	}
}

// Suggest returns autocomplete phrases for the query.
// The endpoint replies with a JSON array: [query, [suggestions], ...].
func (c *Client) Suggest(ctx context.Context, query, language string) ([]string, error) {
	params := url.Values{}
	params.Set("client", "firefox")
	params.Set("q", query)
	if language != "" {
		params.Set("hl", language)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	start := time.Now()

	resp, err := c.httpClient.Do(req)

	duration := time.Since(start)

	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues("autocomplete", "error").Inc()
		return nil, fmt.Errorf("autocomplete request: %w: %w", err, domain.ErrProviderError)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ProviderRequestsTotal.WithLabelValues("autocomplete", "error").Inc()
		return nil, fmt.Errorf("autocomplete status %d: %w", resp.StatusCode, domain.ErrProviderError)
	}

	var parsed []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues("autocomplete", "error").Inc()
		return nil, fmt.Errorf("decode autocomplete response: %w: %w", err, domain.ErrProviderError)
	}

	metrics.ProviderRequestsTotal.WithLabelValues("autocomplete", "success").Inc()
	metrics.ProviderRequestDuration.WithLabelValues("autocomplete").Observe(duration.Seconds())

	if len(parsed) < 2 {
		return nil, nil
	}

	var suggestions []string
	if err := json.Unmarshal(parsed[1], &suggestions); err != nil {
		return nil, fmt.Errorf("decode suggestion list: %w: %w", err, domain.ErrProviderError)
	}
	return suggestions, nil
}
