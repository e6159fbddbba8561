// Package research orchestrates the full keyword analysis pipeline:
// suggestions, metric enrichment, intent classification, SERP analysis,
// clustering and strategic recommendations.
package research

import (
	"context"

	"go.uber.org/zap"

	"github.com/rankforge/seosuite/internal/domain/keyword"
	"github.com/rankforge/seosuite/internal/domain/serp"
	"github.com/rankforge/seosuite/internal/usecase/analysis"
	"github.com/rankforge/seosuite/internal/usecase/volume"
)

// Options toggles pipeline stages.
type Options struct {
	IncludeSuggestions bool
	IncludeVolume      bool
	IncludeSERP        bool
	IncludeClustering  bool
}

// DefaultOptions runs every stage.
func DefaultOptions() Options {
	return Options{
		IncludeSuggestions: true,
		IncludeVolume:      true,
		IncludeSERP:        true,
		IncludeClustering:  true,
	}
}

// Report is the complete research output for a seed keyword.
type Report struct {
	SeedKeyword   string                   `json:"seed_keyword"`
	Keywords      []keyword.Metrics        `json:"keywords"`
	Clusters      []keyword.Cluster        `json:"clusters,omitempty"`
	SERP          *serp.Analysis           `json:"serp_analysis,omitempty"`
	Insights      analysis.Recommendations `json:"insights"`
	TotalKeywords int                      `json:"total_keywords"`
	DataSources   []string                 `json:"data_sources"`
	Cached        bool                     `json:"cached"`
}

// Service runs the research pipeline.
type Service struct {
	suggester Suggester
	serp      SERPAnalyzer
	analyzer  Analyzer
	logger    *zap.Logger
}

// New creates the research orchestrator.
func New(suggester Suggester, serpAnalyzer SERPAnalyzer, analyzer Analyzer, logger *zap.Logger) *Service {
	return &Service{
		suggester: suggester,
		serp:      serpAnalyzer,
		analyzer:  analyzer,
		logger:    logger,
	}
}

// Analyze runs the pipeline for the seed keyword.
func (s *Service) Analyze(ctx context.Context, seed keyword.Seed, opts Options) (Report, error) {
	report := Report{
		SeedKeyword: seed.Keyword(),
		DataSources: []string{"keyword_suggestion"},
	}

	suggestions := []keyword.Suggestion{{Keyword: seed.Keyword(), Source: "seed"}}
	if opts.IncludeSuggestions {
		var cached bool
		var err error
		suggestions, cached, err = s.suggester.Suggest(ctx, seed)
		if err != nil {
			return Report{}, err
		}
		report.Cached = cached
	}

	if opts.IncludeVolume {
		suggestions = volume.Enrich(suggestions)
		report.DataSources = append(report.DataSources, "volume_competition")
	}

	metrics := make([]keyword.Metrics, 0, len(suggestions))
	texts := make([]string, 0, len(suggestions))
	for _, sug := range suggestions {
		metrics = append(metrics, keyword.MetricsFromSuggestion(sug))
		texts = append(texts, sug.Keyword)
	}

	intents := s.analyzer.ClassifyIntents(ctx, texts)
	for i := range metrics {
		metrics[i].Intent = intents[metrics[i].Keyword]
	}

	if opts.IncludeSERP {
		serpData, err := s.serp.Analyze(ctx, serp.Query{
			Keyword:  seed.Keyword(),
			Language: seed.Language(),
			Country:  seed.Country(),
		})
		if err != nil {
			return Report{}, err
		}
		report.SERP = &serpData
		report.DataSources = append(report.DataSources, "serp_analysis")

		s.applySeedDifficulty(ctx, seed.Keyword(), serpData, metrics)
	}

	if opts.IncludeClustering && len(metrics) >= 2 {
		report.Clusters = s.analyzer.ClusterKeywords(ctx, metrics, 0)
	}

	report.Insights = s.analyzer.Recommend(ctx, metrics, report.Clusters)
	report.DataSources = append(report.DataSources, "llm_analysis")

	report.Keywords = metrics
	report.TotalKeywords = len(metrics)
	return report, nil
}

// applySeedDifficulty scores ranking difficulty for the seed keyword using
// the SERP features present.
func (s *Service) applySeedDifficulty(ctx context.Context, seed string, serpData serp.Analysis, metrics []keyword.Metrics) {
	for i := range metrics {
		if metrics[i].Keyword != seed {
			continue
		}
		features := make([]string, 0, len(serpData.Features))
		for _, f := range serpData.Features {
			features = append(features, string(f.Type))
		}
		verdict := s.analyzer.AnalyzeDifficulty(ctx, seed, features, metrics[i].CompetitionScore, metrics[i].SearchVolume)
		metrics[i].Difficulty = verdict.Level
		metrics[i].DifficultyScore = verdict.Score
		return
	}
}
