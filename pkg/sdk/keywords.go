package seosuite

import (
	"context"
	"net/url"

	"github.com/rankforge/seosuite/internal/domain/keyword"
	"github.com/rankforge/seosuite/internal/usecase/research"
)

// SuggestRequest asks for keyword suggestions around a seed.
type SuggestRequest struct {
	Keyword  string `json:"keyword"`
	Language string `json:"language,omitempty"`
	Country  string `json:"country,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

// SuggestResponse is the suggestion list for a seed keyword.
type SuggestResponse struct {
	SeedKeyword string               `json:"seed_keyword"`
	Suggestions []keyword.Suggestion `json:"suggestions"`
	Total       int                  `json:"total"`
	Cached      bool                 `json:"cached"`
}

// Suggest fetches keyword suggestions for a seed keyword.
func (c *Client) Suggest(ctx context.Context, req SuggestRequest) (SuggestResponse, error) {
	var resp SuggestResponse
	err := c.post(ctx, "/api/v1/keywords/suggest", req, &resp)
	return resp, err
}

// AnalyzeRequest runs the full research pipeline for a seed keyword.
// Nil include flags default to true.
type AnalyzeRequest struct {
	Keyword            string `json:"keyword"`
	Language           string `json:"language,omitempty"`
	Country            string `json:"country,omitempty"`
	Limit              int    `json:"limit,omitempty"`
	IncludeSuggestions *bool  `json:"include_suggestions,omitempty"`
	IncludeVolume      *bool  `json:"include_volume,omitempty"`
	IncludeSERP        *bool  `json:"include_serp,omitempty"`
	IncludeClustering  *bool  `json:"include_clustering,omitempty"`
}

// Analyze runs suggestion, volume, SERP and clustering analysis for a seed.
func (c *Client) Analyze(ctx context.Context, req AnalyzeRequest) (research.Report, error) {
	var report research.Report
	err := c.post(ctx, "/api/v1/keywords/analyze", req, &report)
	return report, err
}

// ClusterRequest groups a keyword list into semantic clusters.
// NumClusters <= 0 lets the server pick a cluster count.
type ClusterRequest struct {
	Keywords    []string `json:"keywords"`
	NumClusters int      `json:"num_clusters,omitempty"`
}

// ClusterResponse is the clustering outcome.
type ClusterResponse struct {
	TotalKeywords int               `json:"total_keywords"`
	NumClusters   int               `json:"num_clusters"`
	Clusters      []keyword.Cluster `json:"clusters"`
	Unclustered   []string          `json:"unclustered_keywords"`
}

// Cluster groups keywords into semantic clusters.
func (c *Client) Cluster(ctx context.Context, req ClusterRequest) (ClusterResponse, error) {
	var resp ClusterResponse
	err := c.post(ctx, "/api/v1/keywords/cluster", req, &resp)
	return resp, err
}

// Metrics fetches volume, competition, intent and difficulty for a single
// keyword. Empty language and country default server-side to en/us.
func (c *Client) Metrics(ctx context.Context, kw, language, country string) (keyword.Metrics, error) {
	q := url.Values{}
	if language != "" {
		q.Set("language", language)
	}
	if country != "" {
		q.Set("country", country)
	}

	var metrics keyword.Metrics
	err := c.get(ctx, "/api/v1/keywords/"+url.PathEscape(kw)+"/metrics", q, &metrics)
	return metrics, err
}
