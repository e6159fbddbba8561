// Package serpuc implements SERP analysis: fetching result pages, caching
// them and mining competitor domains.
package serpuc

import (
	"context"
	"encoding/json"
	"sort"

	"go.uber.org/zap"

	"github.com/rankforge/seosuite/internal/domain/serp"
	"github.com/rankforge/seosuite/internal/repository/cache"
)

const (
	defaultDevice     = "desktop"
	defaultNumResults = 10

	// noProviderWarning is returned when neither SerpAPI nor ValueSERP is set up.
	noProviderWarning = "No SERP API configured. Configure SerpAPI or ValueSERP for real data."
)

// CompetitorReport aggregates the domains ranking for a keyword.
type CompetitorReport struct {
	Keyword          string                  `json:"keyword"`
	TotalCompetitors int                     `json:"total_competitors"`
	TopCompetitors   []serp.CompetitorDomain `json:"top_competitors"`
	CommonFeatures   []serp.FeatureType      `json:"common_serp_features,omitempty"`
	ContentGaps      []string                `json:"content_gaps,omitempty"`
	Recommendations  string                  `json:"recommendations,omitempty"`
}

// Service coordinates SERP fetching and analysis.
type Service struct {
	fetcher   Fetcher // nil when no SERP provider is configured
	insighter Insighter
	cache     *cache.Cache
	logger    *zap.Logger
}

// New creates a SERP Service. fetcher and insighter may be nil.
func New(fetcher Fetcher, insighter Insighter, c *cache.Cache, logger *zap.Logger) *Service {
	return &Service{
		fetcher:   fetcher,
		insighter: insighter,
		cache:     c,
		logger:    logger,
	}
}

// Analyze returns the SERP snapshot for the query, served from cache when
// possible. Without a configured provider it returns an empty snapshot
// carrying a warning insight.
func (s *Service) Analyze(ctx context.Context, q serp.Query) (serp.Analysis, error) {
	q = withDefaults(q)

	if s.fetcher == nil {
		return serp.Analysis{
			Keyword:  q.Keyword,
			Provider: "none",
			Insights: &serp.Insights{Warning: noProviderWarning},
		}, nil
	}

	cacheKey := []string{"serp", q.Keyword, q.Language, q.Country, q.Device}
	if data, ok := s.cache.Get(ctx, cacheKey...); ok {
		var analysis serp.Analysis
		if err := json.Unmarshal(data, &analysis); err == nil {
			analysis.Cached = true
			return analysis, nil
		}
		s.logger.Warn("Discarding corrupt cached SERP snapshot", zap.String("keyword", q.Keyword))
	}

	analysis, err := s.fetcher.Fetch(ctx, q)
	if err != nil {
		return serp.Analysis{}, err
	}

	if s.insighter != nil {
		analysis.Insights = s.insighter.SERPInsights(ctx, analysis)
	}

	if data, err := json.Marshal(analysis); err == nil {
		s.cache.Put(ctx, data, cacheKey...)
	}
	return analysis, nil
}

// Competitors mines competitor domains from the SERP for the query.
// Domains ranking several times sort first, ties break on average position.
func (s *Service) Competitors(ctx context.Context, q serp.Query) (CompetitorReport, error) {
	q = withDefaults(q)

	analysis, err := s.Analyze(ctx, q)
	if err != nil {
		return CompetitorReport{}, err
	}

	competitors := aggregateDomains(analysis.OrganicResults)

	report := CompetitorReport{
		Keyword:          q.Keyword,
		TotalCompetitors: len(competitors),
	}
	if len(competitors) > q.NumResults {
		competitors = competitors[:q.NumResults]
	}
	report.TopCompetitors = competitors

	for _, f := range analysis.Features {
		report.CommonFeatures = append(report.CommonFeatures, f.Type)
	}
	if analysis.Insights != nil {
		report.ContentGaps = analysis.Insights.ContentGaps
		report.Recommendations = analysis.Insights.RecommendedFormat
	}
	return report, nil
}

func aggregateDomains(results []serp.OrganicResult) []serp.CompetitorDomain {
	byDomain := make(map[string]*serp.CompetitorDomain)
	var order []string

	for _, r := range results {
		if r.Domain == "" {
			continue
		}
		d, ok := byDomain[r.Domain]
		if !ok {
			d = &serp.CompetitorDomain{Domain: r.Domain}
			byDomain[r.Domain] = d
			order = append(order, r.Domain)
		}
		d.Positions = append(d.Positions, r.Position)
		d.URLs = append(d.URLs, r.URL)
	}

	competitors := make([]serp.CompetitorDomain, 0, len(order))
	for _, name := range order {
		d := byDomain[name]
		d.NumRankings = len(d.Positions)
		total := 0
		for _, p := range d.Positions {
			total += p
		}
		d.AvgPosition = float64(total) / float64(d.NumRankings)
		competitors = append(competitors, *d)
	}

	sort.SliceStable(competitors, func(i, j int) bool {
		if competitors[i].NumRankings != competitors[j].NumRankings {
			return competitors[i].NumRankings > competitors[j].NumRankings
		}
		return competitors[i].AvgPosition < competitors[j].AvgPosition
	})
	return competitors
}

func withDefaults(q serp.Query) serp.Query {
	if q.Language == "" {
		q.Language = "en"
	}
	if q.Country == "" {
		q.Country = "us"
	}
	if q.Device == "" {
		q.Device = defaultDevice
	}
	if q.NumResults <= 0 {
		q.NumResults = defaultNumResults
	}
	return q
}
