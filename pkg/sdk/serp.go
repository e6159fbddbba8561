package seosuite

import (
	"context"

	"github.com/rankforge/seosuite/internal/domain/serp"
	"github.com/rankforge/seosuite/internal/usecase/serpuc"
)

// SERPRequest asks for a search result page snapshot.
type SERPRequest struct {
	Keyword    string `json:"keyword"`
	Language   string `json:"language,omitempty"`
	Country    string `json:"country,omitempty"`
	Device     string `json:"device,omitempty"`
	NumResults int    `json:"num_results,omitempty"`
}

// AnalyzeSERP fetches and analyzes the search result page for a keyword.
func (c *Client) AnalyzeSERP(ctx context.Context, req SERPRequest) (serp.Analysis, error) {
	var analysis serp.Analysis
	err := c.post(ctx, "/api/v1/serp/analyze", req, &analysis)
	return analysis, err
}

// Competitors aggregates ranking domains for a keyword.
func (c *Client) Competitors(ctx context.Context, req SERPRequest) (serpuc.CompetitorReport, error) {
	var report serpuc.CompetitorReport
	err := c.post(ctx, "/api/v1/serp/competitors", req, &report)
	return report, err
}
