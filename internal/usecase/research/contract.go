package research

import (
	"context"

	"github.com/rankforge/seosuite/internal/domain/keyword"
	"github.com/rankforge/seosuite/internal/domain/serp"
	"github.com/rankforge/seosuite/internal/usecase/analysis"
)

// Suggester resolves keyword suggestions for a seed.
type Suggester interface {
	Suggest(ctx context.Context, seed keyword.Seed) (suggestions []keyword.Suggestion, cached bool, err error)
}

// SERPAnalyzer fetches a SERP snapshot.
type SERPAnalyzer interface {
	Analyze(ctx context.Context, q serp.Query) (serp.Analysis, error)
}

// Analyzer runs the AI analysis operations.
type Analyzer interface {
	ClassifyIntents(ctx context.Context, keywords []string) map[string]keyword.SearchIntent
	ClusterKeywords(ctx context.Context, metrics []keyword.Metrics, numClusters int) []keyword.Cluster
	AnalyzeDifficulty(ctx context.Context, kw string, serpFeatures []string, competitionScore float64, searchVolume int) analysis.DifficultyReport
	Recommend(ctx context.Context, metrics []keyword.Metrics, clusters []keyword.Cluster) analysis.Recommendations
}
