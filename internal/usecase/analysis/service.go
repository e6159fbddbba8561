// Package analysis runs the AI layer of keyword research: intent
// classification, semantic clustering, difficulty scoring and strategic
// recommendations.
package analysis

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/rankforge/seosuite/internal/domain/keyword"
	"github.com/rankforge/seosuite/internal/domain/serp"
)

const systemPrompt = "You are an SEO expert. Always reply with valid JSON matching the requested structure, no extra text."

// Cluster count bounds for auto-determination.
const (
	minClusters        = 2
	maxClusters        = 8
	keywordsPerCluster = 5
)

// DifficultyReport is the ranking difficulty verdict for one keyword.
type DifficultyReport struct {
	Level     keyword.DifficultyLevel `json:"difficulty_level"`
	Score     float64                 `json:"difficulty_score"`
	Reasoning string                  `json:"reasoning,omitempty"`
}

// PriorityKeyword is a keyword the model recommends targeting first.
type PriorityKeyword struct {
	Keyword    string `json:"keyword"`
	Reason     string `json:"reason"`
	Difficulty string `json:"difficulty,omitempty"`
}

// Recommendations is the strategic summary of a research run.
type Recommendations struct {
	PriorityKeywords []PriorityKeyword `json:"priority_keywords,omitempty"`
	QuickWins        []string          `json:"quick_wins,omitempty"`
	LongTermTargets  []string          `json:"long_term_targets,omitempty"`
	OverallStrategy  string            `json:"overall_strategy,omitempty"`
}

// Service wraps the LLM with typed analysis operations.
// Each operation degrades gracefully: a failed or unparseable completion
// yields a neutral result, never a request failure.
type Service struct {
	llm    Completer
	logger *zap.Logger
}

// New creates an analysis Service.
func New(llm Completer, logger *zap.Logger) *Service {
	return &Service{llm: llm, logger: logger}
}

// ClassifyIntents assigns a search intent to every keyword.
// Keywords missing from the model reply come back as IntentUnknown.
func (s *Service) ClassifyIntents(ctx context.Context, keywords []string) map[string]keyword.SearchIntent {
	intents := make(map[string]keyword.SearchIntent, len(keywords))
	for _, kw := range keywords {
		intents[kw] = keyword.IntentUnknown
	}
	if len(keywords) == 0 {
		return intents
	}

	var sb strings.Builder
	sb.WriteString("Classify each keyword as informational, commercial, transactional or navigational.\n")
	sb.WriteString("Keywords:\n")
	for _, kw := range keywords {
		fmt.Fprintf(&sb, "- %s\n", kw)
	}
	sb.WriteString(`Return JSON: {"classifications": [{"keyword": "...", "intent": "..."}]}`)

	var reply struct {
		Classifications []struct {
			Keyword string `json:"keyword"`
			Intent  string `json:"intent"`
		} `json:"classifications"`
	}
	if err := s.llm.CompleteJSON(ctx, "intent_classification", systemPrompt, sb.String(), &reply); err != nil {
		s.logger.Warn("Intent classification failed", zap.Error(err))
		return intents
	}

	for _, c := range reply.Classifications {
		if _, ok := intents[c.Keyword]; ok {
			intents[c.Keyword] = keyword.ParseIntent(c.Intent)
		}
	}
	return intents
}

// ClusterKeywords groups keywords into semantic clusters.
// numClusters <= 0 picks a count from the keyword total.
// Fewer than two keywords or a failed completion yields no clusters.
func (s *Service) ClusterKeywords(ctx context.Context, metrics []keyword.Metrics, numClusters int) []keyword.Cluster {
	if len(metrics) < 2 {
		return nil
	}
	if numClusters <= 0 {
		numClusters = autoClusterCount(len(metrics))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Group these keywords into %d thematic clusters by semantic similarity and intent.\n", numClusters)
	sb.WriteString("Keywords:\n")
	for _, m := range metrics {
		fmt.Fprintf(&sb, "- %s (volume: %d, competition: %s)\n", m.Keyword, m.SearchVolume, m.Competition)
	}
	sb.WriteString(`Return JSON: {"clusters": [{"cluster_id": 1, "cluster_name": "...", "primary_keyword": "...", "keywords": ["..."], "intent": "...", "recommendation": "..."}]}`)

	var reply struct {
		Clusters []struct {
			ID             int      `json:"cluster_id"`
			Name           string   `json:"cluster_name"`
			PrimaryKeyword string   `json:"primary_keyword"`
			Keywords       []string `json:"keywords"`
			Intent         string   `json:"intent"`
			Recommendation string   `json:"recommendation"`
		} `json:"clusters"`
	}
	if err := s.llm.CompleteJSON(ctx, "keyword_clustering", systemPrompt, sb.String(), &reply); err != nil {
		s.logger.Warn("Keyword clustering failed", zap.Error(err))
		return nil
	}

	volumes := make(map[string]int, len(metrics))
	for _, m := range metrics {
		volumes[m.Keyword] = m.SearchVolume
	}

	clusters := make([]keyword.Cluster, 0, len(reply.Clusters))
	for i, c := range reply.Clusters {
		id := c.ID
		if id == 0 {
			id = i + 1
		}
		primary := c.PrimaryKeyword
		if primary == "" && len(c.Keywords) > 0 {
			primary = c.Keywords[0]
		}
		clusters = append(clusters, keyword.Cluster{
			ID:             id,
			Name:           c.Name,
			PrimaryKeyword: primary,
			Keywords:       c.Keywords,
			Intent:         keyword.ParseIntent(c.Intent),
			AvgVolume:      avgVolume(c.Keywords, volumes),
			Recommendation: c.Recommendation,
		})
	}
	return clusters
}

// AnalyzeDifficulty estimates ranking difficulty for one keyword given the
// SERP features present. Falls back to a neutral medium verdict.
func (s *Service) AnalyzeDifficulty(
	ctx context.Context, kw string,
	serpFeatures []string, competitionScore float64, searchVolume int,
) DifficultyReport {
	features := "none"
	if len(serpFeatures) > 0 {
		features = strings.Join(serpFeatures, ", ")
	}

	user := fmt.Sprintf(
		"Estimate how hard ranking in the top 10 is.\nKeyword: %s\nSearch volume: %d\nCompetition score: %.2f\nSERP features: %s\n"+
			`Return JSON: {"difficulty_level": "very_easy|easy|medium|hard|very_hard", "difficulty_score": 0-100, "reasoning": "..."}`,
		kw, searchVolume, competitionScore, features,
	)

	var reply struct {
		Level     string  `json:"difficulty_level"`
		Score     float64 `json:"difficulty_score"`
		Reasoning string  `json:"reasoning"`
	}
	if err := s.llm.CompleteJSON(ctx, "difficulty_analysis", systemPrompt, user, &reply); err != nil {
		s.logger.Warn("Difficulty analysis failed", zap.String("keyword", kw), zap.Error(err))
		return DifficultyReport{Level: keyword.DifficultyMedium, Score: 50}
	}

	return DifficultyReport{
		Level:     keyword.ParseDifficulty(reply.Level),
		Score:     reply.Score,
		Reasoning: reply.Reasoning,
	}
}

// Recommend produces strategic recommendations from analyzed keywords and
// clusters. At most 20 keywords go into the prompt.
func (s *Service) Recommend(ctx context.Context, metrics []keyword.Metrics, clusters []keyword.Cluster) Recommendations {
	var sb strings.Builder
	sb.WriteString("Based on this keyword research, recommend priorities, quick wins and long-term targets.\nKeywords:\n")
	for i, m := range metrics {
		if i >= 20 {
			break
		}
		fmt.Fprintf(&sb, "- %s: volume=%d, competition=%s, intent=%s\n", m.Keyword, m.SearchVolume, m.Competition, m.Intent)
	}
	sb.WriteString("Clusters:\n")
	for _, c := range clusters {
		fmt.Fprintf(&sb, "- %s: %d keywords, intent=%s\n", c.Name, len(c.Keywords), c.Intent)
	}
	sb.WriteString(`Return JSON: {"priority_keywords": [{"keyword": "...", "reason": "...", "difficulty": "..."}], "quick_wins": ["..."], "long_term_targets": ["..."], "overall_strategy": "..."}`)

	var reply Recommendations
	if err := s.llm.CompleteJSON(ctx, "recommendations", systemPrompt, sb.String(), &reply); err != nil {
		s.logger.Warn("Recommendation generation failed", zap.Error(err))
		return Recommendations{OverallStrategy: "Unable to generate recommendations"}
	}
	return reply
}

// SERPInsights mines content gaps from top-ranking titles and snippets.
// Returns nil when the SERP carries no organic results or the model fails.
func (s *Service) SERPInsights(ctx context.Context, analysis serp.Analysis) *serp.Insights {
	if len(analysis.OrganicResults) == 0 {
		return nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Identify common themes and content gaps among top-ranking pages for %q.\nTitles:\n", analysis.Keyword)
	for i, r := range analysis.OrganicResults {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, r.Title)
	}
	sb.WriteString("Snippets:\n")
	for i, r := range analysis.OrganicResults {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, r.Snippet)
	}
	sb.WriteString(`Return JSON: {"common_themes": ["..."], "content_gaps": ["..."], "recommended_format": "..."}`)

	var reply serp.Insights
	if err := s.llm.CompleteJSON(ctx, "serp_insights", systemPrompt, sb.String(), &reply); err != nil {
		s.logger.Warn("SERP insight generation failed", zap.String("keyword", analysis.Keyword), zap.Error(err))
		return nil
	}
	return &reply
}

func autoClusterCount(n int) int {
	count := n / keywordsPerCluster
	if count < minClusters {
		count = minClusters
	}
	if count > maxClusters {
		count = maxClusters
	}
	return count
}

func avgVolume(keywords []string, volumes map[string]int) int {
	total, n := 0, 0
	for _, kw := range keywords {
		if v := volumes[kw]; v > 0 {
			total += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return total / n
}
