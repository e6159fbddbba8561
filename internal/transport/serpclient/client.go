// Package serpclient fetches Google search result pages from SerpAPI or
// ValueSERP. Both providers answer with near-identical JSON, so one parser
// covers both.
package serpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/rankforge/seosuite/internal/domain"
	"github.com/rankforge/seosuite/internal/domain/serp"
	"github.com/rankforge/seosuite/internal/metrics"
)

const (
	ProviderSerpAPI   = "serpapi"
	ProviderValueSERP = "valueserp"

	serpAPIBaseURL   = "https://serpapi.com/search"
	valueSERPBaseURL = "https://api.valueserp.com/search"

	maxOrganicResults = 10
)

// Client fetches SERP snapshots from a single configured provider.
type Client struct {
	httpClient *http.Client
	provider   string
	baseURL    string
	apiKey     string
	logger     *zap.Logger
}

// Config holds the SERP provider settings.
type Config struct {
	Provider string // ProviderSerpAPI or ProviderValueSERP
	APIKey   string
	BaseURL  string // override for tests
	Timeout  time.Duration
	Logger   *zap.Logger
}

// NewClient creates a SERP API client for the given provider.
func NewClient(cfg *Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		if cfg.Provider == ProviderValueSERP {
			baseURL = valueSERPBaseURL
		} else {
			baseURL = serpAPIBaseURL
		}
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		provider:   cfg.Provider,
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		logger:     cfg.Logger,
	}
}

// Provider returns the configured provider name.
func (c *Client) Provider() string {
	return c.provider
}

// Fetch retrieves and parses the SERP for the query.
func (c *Client) Fetch(ctx context.Context, q serp.Query) (serp.Analysis, error) {
	params := url.Values{}
	params.Set("q", q.Keyword)
	params.Set("api_key", c.apiKey)
	params.Set("gl", q.Country)
	params.Set("hl", q.Language)
	params.Set("device", q.Device)
	params.Set("num", strconv.Itoa(q.NumResults))
	if c.provider == ProviderValueSERP {
		params.Set("output", "json")
	} else {
		params.Set("engine", "google")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return serp.Analysis{}, fmt.Errorf("build request: %w", err)
	}

	start := time.Now()

	resp, err := c.httpClient.Do(req)

	duration := time.Since(start)

	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues(c.provider, "error").Inc()
		return serp.Analysis{}, fmt.Errorf("%s request: %w: %w", c.provider, err, domain.ErrProviderError)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		metrics.ProviderRequestsTotal.WithLabelValues(c.provider, "error").Inc()
		return serp.Analysis{}, fmt.Errorf("%s status %d: %w", c.provider, resp.StatusCode, domain.ErrAPIKeyMissing)
	case resp.StatusCode == http.StatusTooManyRequests:
		metrics.ProviderRequestsTotal.WithLabelValues(c.provider, "error").Inc()
		return serp.Analysis{}, fmt.Errorf("%s status %d: %w", c.provider, resp.StatusCode, domain.ErrRateLimited)
	case resp.StatusCode != http.StatusOK:
		metrics.ProviderRequestsTotal.WithLabelValues(c.provider, "error").Inc()
		return serp.Analysis{}, fmt.Errorf("%s status %d: %w", c.provider, resp.StatusCode, domain.ErrProviderError)
	}

	var raw serpResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues(c.provider, "error").Inc()
		return serp.Analysis{}, fmt.Errorf("decode %s response: %w: %w", c.provider, err, domain.ErrProviderError)
	}

	metrics.ProviderRequestsTotal.WithLabelValues(c.provider, "success").Inc()
	metrics.ProviderRequestDuration.WithLabelValues(c.provider).Observe(duration.Seconds())

	return parseResponse(q.Keyword, c.provider, raw), nil
}

type serpResponse struct {
	SearchInformation struct {
		TotalResults int64 `json:"total_results"`
	} `json:"search_information"`
	OrganicResults []struct {
		Title         string `json:"title"`
		Link          string `json:"link"`
		DisplayedLink string `json:"displayed_link"`
		Snippet       string `json:"snippet"`
		Date          string `json:"date"`
	} `json:"organic_results"`
	AnswerBox *struct {
		Title  string `json:"title"`
		Answer string `json:"answer"`
		Link   string `json:"link"`
	} `json:"answer_box"`
	RelatedQuestions []struct {
		Question string `json:"question"`
		Snippet  string `json:"snippet"`
		Link     string `json:"link"`
	} `json:"related_questions"`
	RelatedSearches []struct {
		Query string `json:"query"`
	} `json:"related_searches"`
	KnowledgeGraph *struct {
		Title string `json:"title"`
	} `json:"knowledge_graph"`
	LocalResults json.RawMessage `json:"local_results"`
}

func parseResponse(keyword, provider string, raw serpResponse) serp.Analysis {
	analysis := serp.Analysis{
		Keyword:      keyword,
		TotalResults: raw.SearchInformation.TotalResults,
		Provider:     provider,
	}

	for i, r := range raw.OrganicResults {
		if i >= maxOrganicResults {
			break
		}
		displayed := r.DisplayedLink
		if displayed == "" {
			displayed = r.Link
		}
		analysis.OrganicResults = append(analysis.OrganicResults, serp.OrganicResult{
			Position:     i + 1,
			Title:        r.Title,
			URL:          r.Link,
			DisplayedURL: displayed,
			Snippet:      r.Snippet,
			Domain:       serp.ExtractDomain(r.Link),
			Date:         r.Date,
		})
	}

	if raw.AnswerBox != nil {
		analysis.Features = append(analysis.Features, serp.Feature{
			Type:         serp.FeatureFeaturedSnippet,
			Title:        raw.AnswerBox.Title,
			Snippet:      raw.AnswerBox.Answer,
			SourceURL:    raw.AnswerBox.Link,
			SourceDomain: serp.ExtractDomain(raw.AnswerBox.Link),
		})
	}

	for _, q := range raw.RelatedQuestions {
		analysis.PeopleAlsoAsk = append(analysis.PeopleAlsoAsk, serp.Question{
			Question:     q.Question,
			Answer:       q.Snippet,
			SourceURL:    q.Link,
			SourceDomain: serp.ExtractDomain(q.Link),
		})
	}

	for _, rs := range raw.RelatedSearches {
		analysis.RelatedSearches = append(analysis.RelatedSearches, serp.RelatedSearch{Keyword: rs.Query})
	}

	if raw.KnowledgeGraph != nil {
		analysis.Features = append(analysis.Features, serp.Feature{
			Type:  serp.FeatureKnowledgePanel,
			Title: raw.KnowledgeGraph.Title,
		})
	}

	if len(raw.LocalResults) > 0 && string(raw.LocalResults) != "null" {
		analysis.Features = append(analysis.Features, serp.Feature{
			Type: serp.FeatureLocalPack,
		})
	}

	return analysis
}
