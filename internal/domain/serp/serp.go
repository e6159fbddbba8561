// Package serp defines the SERP analysis domain model.
package serp

import (
	"net/url"
	"strings"
)

// FeatureType enumerates SERP feature kinds.
type FeatureType string

const (
	FeatureFeaturedSnippet FeatureType = "featured_snippet"
	FeaturePeopleAlsoAsk   FeatureType = "people_also_ask"
	FeatureKnowledgePanel  FeatureType = "knowledge_panel"
	FeatureLocalPack       FeatureType = "local_pack"
	FeatureImagePack       FeatureType = "image_pack"
	FeatureVideoCarousel   FeatureType = "video_carousel"
	FeatureTopStories      FeatureType = "top_stories"
	FeatureSiteLinks       FeatureType = "site_links"
	FeatureShopping        FeatureType = "shopping"
)

// OrganicResult is a single organic search hit.
type OrganicResult struct {
	Position     int    `json:"position"`
	Title        string `json:"title"`
	URL          string `json:"url"`
	DisplayedURL string `json:"displayed_url"`
	Snippet      string `json:"snippet"`
	Domain       string `json:"domain"`
	Date         string `json:"date,omitempty"`
}

// Feature is a non-organic SERP element.
type Feature struct {
	Type         FeatureType `json:"feature_type"`
	Title        string      `json:"title,omitempty"`
	Snippet      string      `json:"snippet,omitempty"`
	SourceURL    string      `json:"source_url,omitempty"`
	SourceDomain string      `json:"source_domain,omitempty"`
}

// Question is a People-Also-Ask entry.
type Question struct {
	Question     string `json:"question"`
	Answer       string `json:"answer,omitempty"`
	SourceURL    string `json:"source_url,omitempty"`
	SourceDomain string `json:"source_domain,omitempty"`
}

// RelatedSearch is a related query suggestion shown on the SERP.
type RelatedSearch struct {
	Keyword string `json:"keyword"`
}

// Query describes one SERP fetch.
type Query struct {
	Keyword    string
	Language   string
	Country    string
	Device     string
	NumResults int
}

// Analysis is a full SERP snapshot for one keyword.
type Analysis struct {
	Keyword         string          `json:"keyword"`
	TotalResults    int64           `json:"total_results"`
	OrganicResults  []OrganicResult `json:"organic_results"`
	Features        []Feature       `json:"features,omitempty"`
	PeopleAlsoAsk   []Question      `json:"people_also_ask,omitempty"`
	RelatedSearches []RelatedSearch `json:"related_searches,omitempty"`
	Provider        string          `json:"serp_provider"`
	Cached          bool            `json:"cached"`
	Insights        *Insights       `json:"insights,omitempty"`
}

// Insights is the AI content-gap analysis of a SERP.
type Insights struct {
	CommonThemes      []string `json:"common_themes,omitempty"`
	ContentGaps       []string `json:"content_gaps,omitempty"`
	RecommendedFormat string   `json:"recommended_format,omitempty"`
	Warning           string   `json:"warning,omitempty"`
}

// CompetitorDomain aggregates a domain's presence across the SERP.
type CompetitorDomain struct {
	Domain      string   `json:"domain"`
	Positions   []int    `json:"ranking_positions"`
	AvgPosition float64  `json:"avg_position"`
	NumRankings int      `json:"num_rankings"`
	URLs        []string `json:"urls"`
}

// ExtractDomain returns the host of a URL without the www prefix.
// Returns "" for unparseable input.
func ExtractDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}
