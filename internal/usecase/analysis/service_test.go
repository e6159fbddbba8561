package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/rankforge/seosuite/internal/domain/keyword"
	"github.com/rankforge/seosuite/internal/domain/serp"
)

// mockCompleter implements Completer with a canned JSON reply per task.
type mockCompleter struct {
	replies map[string]string
	err     error
	lastRaw string
}

func (m *mockCompleter) CompleteJSON(_ context.Context, task, _, user string, out any) error {
	m.lastRaw = user
	if m.err != nil {
		return m.err
	}
	reply, ok := m.replies[task]
	if !ok {
		return errors.New("no reply configured for " + task)
	}
	return json.Unmarshal([]byte(reply), out)
}

func TestClassifyIntents(t *testing.T) {
	llm := &mockCompleter{replies: map[string]string{
		"intent_classification": `{"classifications": [
			{"keyword": "buy running shoes", "intent": "TRANSACTIONAL"},
			{"keyword": "how to run", "intent": "informational"},
			{"keyword": "not requested", "intent": "commercial"}
		]}`,
	}}
	svc := New(llm, zap.NewNop())

	got := svc.ClassifyIntents(context.Background(), []string{"buy running shoes", "how to run", "nike"})

	if got["buy running shoes"] != keyword.IntentTransactional {
		t.Errorf("intent = %s, want transactional", got["buy running shoes"])
	}
	if got["how to run"] != keyword.IntentInformational {
		t.Errorf("intent = %s, want informational", got["how to run"])
	}
	// Keyword missing from the reply stays unknown.
	if got["nike"] != keyword.IntentUnknown {
		t.Errorf("intent = %s, want unknown", got["nike"])
	}
	// Keyword not asked about must not leak in.
	if _, ok := got["not requested"]; ok {
		t.Error("unexpected keyword in result")
	}
}

func TestClassifyIntents_LLMErrorDegrades(t *testing.T) {
	llm := &mockCompleter{err: errors.New("boom")}
	svc := New(llm, zap.NewNop())

	got := svc.ClassifyIntents(context.Background(), []string{"a", "b"})
	if len(got) != 2 || got["a"] != keyword.IntentUnknown {
		t.Errorf("expected all unknown, got %v", got)
	}
}

func TestClusterKeywords(t *testing.T) {
	llm := &mockCompleter{replies: map[string]string{
		"keyword_clustering": `{"clusters": [
			{"cluster_id": 1, "cluster_name": "Shoes", "primary_keyword": "running shoes",
			 "keywords": ["running shoes", "trail shoes"], "intent": "COMMERCIAL", "recommendation": "comparison page"},
			{"cluster_name": "Training", "keywords": ["how to run"], "intent": "informational"}
		]}`,
	}}
	svc := New(llm, zap.NewNop())

	metrics := []keyword.Metrics{
		{Keyword: "running shoes", SearchVolume: 1000},
		{Keyword: "trail shoes", SearchVolume: 500},
		{Keyword: "how to run", SearchVolume: 200},
	}
	got := svc.ClusterKeywords(context.Background(), metrics, 0)

	if len(got) != 2 {
		t.Fatalf("clusters = %d, want 2", len(got))
	}
	if got[0].AvgVolume != 750 {
		t.Errorf("avg volume = %d, want 750", got[0].AvgVolume)
	}
	if got[0].Intent != keyword.IntentCommercial {
		t.Errorf("intent = %s", got[0].Intent)
	}
	// Missing id defaults to position, missing primary to first keyword.
	if got[1].ID != 2 || got[1].PrimaryKeyword != "how to run" {
		t.Errorf("unexpected second cluster: %+v", got[1])
	}
}

func TestClusterKeywords_TooFewKeywords(t *testing.T) {
	svc := New(&mockCompleter{}, zap.NewNop())

	got := svc.ClusterKeywords(context.Background(), []keyword.Metrics{{Keyword: "solo"}}, 0)
	if got != nil {
		t.Errorf("expected nil for single keyword, got %v", got)
	}
}

func TestAutoClusterCount(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{2, 2},
		{10, 2},
		{25, 5},
		{100, 8},
	}
	for _, tt := range tests {
		if got := autoClusterCount(tt.n); got != tt.want {
			t.Errorf("autoClusterCount(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestAnalyzeDifficulty(t *testing.T) {
	llm := &mockCompleter{replies: map[string]string{
		"difficulty_analysis": `{"difficulty_level": "HARD", "difficulty_score": 72, "reasoning": "strong domains"}`,
	}}
	svc := New(llm, zap.NewNop())

	got := svc.AnalyzeDifficulty(context.Background(), "seo tools", []string{"featured_snippet"}, 0.8, 5000)
	if got.Level != keyword.DifficultyHard || got.Score != 72 {
		t.Errorf("unexpected report: %+v", got)
	}
}

func TestAnalyzeDifficulty_ErrorFallsBackToMedium(t *testing.T) {
	svc := New(&mockCompleter{err: errors.New("boom")}, zap.NewNop())

	got := svc.AnalyzeDifficulty(context.Background(), "seo tools", nil, 0, 0)
	if got.Level != keyword.DifficultyMedium || got.Score != 50 {
		t.Errorf("unexpected fallback: %+v", got)
	}
}

func TestSERPInsights(t *testing.T) {
	llm := &mockCompleter{replies: map[string]string{
		"serp_insights": `{"common_themes": ["pricing"], "content_gaps": ["case studies"], "recommended_format": "guide"}`,
	}}
	svc := New(llm, zap.NewNop())

	got := svc.SERPInsights(context.Background(), serp.Analysis{
		Keyword: "seo tools",
		OrganicResults: []serp.OrganicResult{
			{Title: "Top 10 SEO Tools", Snippet: "We compare..."},
		},
	})
	if got == nil {
		t.Fatal("expected insights")
	}
	if got.RecommendedFormat != "guide" {
		t.Errorf("recommended format = %s", got.RecommendedFormat)
	}
}

func TestSERPInsights_NoOrganicResults(t *testing.T) {
	svc := New(&mockCompleter{}, zap.NewNop())

	if got := svc.SERPInsights(context.Background(), serp.Analysis{Keyword: "x"}); got != nil {
		t.Errorf("expected nil without organic results, got %+v", got)
	}
}

func TestRecommend_ErrorDegrades(t *testing.T) {
	svc := New(&mockCompleter{err: errors.New("boom")}, zap.NewNop())

	got := svc.Recommend(context.Background(), nil, nil)
	if got.OverallStrategy == "" {
		t.Error("expected fallback strategy text")
	}
}
