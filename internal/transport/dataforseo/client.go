// Package dataforseo is a client for the DataForSEO keyword data API.
package dataforseo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rankforge/seosuite/internal/domain"
	"github.com/rankforge/seosuite/internal/domain/keyword"
	"github.com/rankforge/seosuite/internal/metrics"
)

const defaultBaseURL = "https://api.dataforseo.com"

// locationCodes maps ISO country codes to DataForSEO location identifiers.
var locationCodes = map[string]int{
	"us": 2840,
	"uk": 2826,
	"ca": 2124,
	"au": 2036,
	"in": 2356,
}

// Client calls the DataForSEO v3 keyword endpoints with Basic auth.
type Client struct {
	httpClient *http.Client
	baseURL    string
	login      string
	password   string
	logger     *zap.Logger
}

// Config holds the DataForSEO credentials and connection settings.
type Config struct {
	Login    string
	Password string
	BaseURL  string
	Timeout  time.Duration
	Logger   *zap.Logger
}

// NewClient creates a DataForSEO API client.
func NewClient(cfg *Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		login:      cfg.Login,
		password:   cfg.Password,
		logger:     cfg.Logger,
	}
}

type keywordsResponse struct {
	Tasks []struct {
		Result []struct {
			Keyword      string  `json:"keyword"`
			SearchVolume int     `json:"search_volume"`
			Competition  float64 `json:"competition"`
			CPC          float64 `json:"cpc"`
		} `json:"result"`
	} `json:"tasks"`
}

// KeywordSuggestions returns related keywords with volume and CPC data.
func (c *Client) KeywordSuggestions(ctx context.Context, seed keyword.Seed) ([]keyword.Suggestion, error) {
	payload := []map[string]any{{
		"keywords":      []string{seed.Keyword()},
		"location_code": locationCode(seed.Country()),
		"language_code": seed.Language(),
		"limit":         seed.Limit(),
	}}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := c.baseURL + "/v3/keywords_data/google_ads/keywords_for_keywords/live"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.SetBasicAuth(c.login, c.password)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()

	resp, err := c.httpClient.Do(req)

	duration := time.Since(start)

	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues("dataforseo", "error").Inc()
		return nil, fmt.Errorf("dataforseo request: %w: %w", err, domain.ErrProviderError)
	}
	defer resp.Body.Close()

	if err := statusError(resp.StatusCode); err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues("dataforseo", "error").Inc()
		return nil, err
	}

	var parsed keywordsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues("dataforseo", "error").Inc()
		return nil, fmt.Errorf("decode dataforseo response: %w: %w", err, domain.ErrProviderError)
	}

	metrics.ProviderRequestsTotal.WithLabelValues("dataforseo", "success").Inc()
	metrics.ProviderRequestDuration.WithLabelValues("dataforseo").Observe(duration.Seconds())

	suggestions := make([]keyword.Suggestion, 0, seed.Limit())
	for _, task := range parsed.Tasks {
		for _, r := range task.Result {
			if r.Keyword == "" {
				continue
			}
			suggestions = append(suggestions, keyword.Suggestion{
				Keyword:      r.Keyword,
				SearchVolume: r.SearchVolume,
				Competition:  competitionLevel(r.Competition),
				CPC:          r.CPC,
				Source:       "dataforseo",
			})
			if len(suggestions) >= seed.Limit() {
				return suggestions, nil
			}
		}
	}
	return suggestions, nil
}

func statusError(code int) error {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Errorf("dataforseo status %d: %w", code, domain.ErrAPIKeyMissing)
	case code == http.StatusTooManyRequests:
		return fmt.Errorf("dataforseo status %d: %w", code, domain.ErrRateLimited)
	case code >= 400:
		return fmt.Errorf("dataforseo status %d: %w", code, domain.ErrProviderError)
	}
	return nil
}

func locationCode(country string) int {
	if code, ok := locationCodes[strings.ToLower(country)]; ok {
		return code
	}
	return locationCodes["us"]
}

func competitionLevel(v float64) keyword.CompetitionLevel {
	switch {
	case v >= 0.66:
		return keyword.CompetitionHigh
	case v >= 0.33:
		return keyword.CompetitionMedium
	default:
		return keyword.CompetitionLow
	}
}
