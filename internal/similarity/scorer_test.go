package similarity

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/rankforge/seosuite/internal/domain"
)

func TestScore_SelfMatch(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog"
	s := NewScorer([]string{text})

	res, err := s.Score(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Score != 1.0 {
		t.Fatalf("expected score 1.0 for exact self-match, got %v", res.Score)
	}
	if res.IsUnique {
		t.Error("exact duplicate must not be unique")
	}
	if res.MatchedSources != 1 {
		t.Errorf("expected 1 matched source, got %d", res.MatchedSources)
	}
}

func TestScore_SelfMatchExactWithRepeatedTokens(t *testing.T) {
	// Repeated tokens produce unequal TF-IDF weights, which exposes sqrt
	// rounding in the cosine denominator. Self-matches must still be 1.0
	// exactly, not one ulp under.
	texts := []string{
		"cheap volume volume page beta volume seo guide volume",
		"rank rank tracker backlink rank audit rank rank",
		"content content brief outline content draft content review content",
	}
	for _, text := range texts {
		res, err := NewScorer([]string{text}).Score(text)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", text, err)
		}
		if res.Score != 1.0 {
			t.Errorf("self-match for %q scored %.17g, want exactly 1.0", text, res.Score)
		}
	}
}

func TestScore_DisjointVocabulary(t *testing.T) {
	s := NewScorer([]string{"gardening compost soil seeds watering"})

	res, err := s.Score("quantum entanglement photon detector")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Score != 0 {
		t.Fatalf("expected score 0 for disjoint vocabularies, got %v", res.Score)
	}
	if !res.IsUnique {
		t.Error("disjoint candidate must be unique")
	}
	if res.MatchedSources != 0 {
		t.Errorf("expected 0 matched sources, got %d", res.MatchedSources)
	}
}

func TestScore_EmptyCorpus(t *testing.T) {
	s := NewScorer(nil)

	res, err := s.Score("any candidate text at all")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Score != 0 || res.MatchedSources != 0 || !res.IsUnique {
		t.Fatalf("empty corpus must yield {0, 0, unique}, got %+v", res)
	}
}

func TestScore_InvalidCandidate(t *testing.T) {
	s := NewScorer([]string{"reference document"})

	cases := []struct {
		name      string
		candidate string
	}{
		{"empty", ""},
		{"whitespace", "   \t\n"},
		{"only stopwords", "the of and a to"},
		{"only punctuation", "... !!! ???"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Score(tc.candidate)
			if !errors.Is(err, domain.ErrInvalidCandidate) {
				t.Fatalf("expected ErrInvalidCandidate, got %v", err)
			}
		})
	}
}

func TestScore_CorpusOrderIndependent(t *testing.T) {
	corpus := []string{
		"keyword research drives content strategy",
		"baking sourdough bread requires patience",
		"search engine optimization improves visibility",
		"keyword research tools compare search volume",
	}
	candidate := "keyword research tools help compare monthly search volume"

	base, err := NewScorer(corpus).Score(candidate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := append([]string(nil), corpus...)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		res, err := NewScorer(shuffled).Score(candidate)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Score != base.Score || res.MatchedSources != base.MatchedSources {
			t.Fatalf("shuffle %d changed result: %+v vs %+v", i, res, base)
		}
	}
}

func TestScore_MonotonicWithSelfInCorpus(t *testing.T) {
	candidate := "backlink profiles influence domain authority"
	corpus := []string{"content freshness matters for rankings"}

	before, err := NewScorer(corpus).Score(candidate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	after, err := NewScorer(append(corpus, candidate)).Score(candidate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if after.Score < before.Score {
		t.Fatalf("adding the candidate to the corpus lowered the score: %v -> %v",
			before.Score, after.Score)
	}
	if after.Score != 1.0 {
		t.Fatalf("expected score 1.0 after adding exact duplicate, got %v", after.Score)
	}
}

func TestScore_MatchedSourcesMonotonicInThreshold(t *testing.T) {
	corpus := []string{
		"seo tools for keyword research and rank tracking",
		"keyword research guide for beginners",
		"unrelated recipe for chocolate cake",
	}
	candidate := "best seo tools for keyword research"

	prev := -1
	for _, match := range []float64{0.9, 0.5, 0.3, 0.1, 0.01} {
		res, err := NewScorer(corpus).WithThresholds(0.8, match).Score(candidate)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if prev >= 0 && res.MatchedSources < prev {
			t.Fatalf("matched sources decreased as threshold dropped: %d -> %d at %v",
				prev, res.MatchedSources, match)
		}
		prev = res.MatchedSources
	}
}

func TestScore_SpecExamples(t *testing.T) {
	t.Run("exact duplicate among sources", func(t *testing.T) {
		s := NewScorer([]string{
			"the quick brown fox jumps",
			"a completely unrelated sentence about cooking",
		})
		res, err := s.Score("the quick brown fox jumps")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Score < 0.99 {
			t.Errorf("expected score ~1.0, got %v", res.Score)
		}
		if res.MatchedSources != 1 {
			t.Errorf("expected 1 matched source, got %d", res.MatchedSources)
		}
		if res.IsUnique {
			t.Error("expected is_unique=false")
		}
	})

	t.Run("novel sentence", func(t *testing.T) {
		s := NewScorer([]string{"completely different topic about gardening"})
		res, err := s.Score("a novel sentence nobody wrote before")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Score > 0.1 {
			t.Errorf("expected score near 0, got %v", res.Score)
		}
		if !res.IsUnique {
			t.Error("expected is_unique=true")
		}
		if res.MatchedSources != 0 {
			t.Errorf("expected 0 matched sources, got %d", res.MatchedSources)
		}
	})
}

func TestScore_ShortCandidate(t *testing.T) {
	s := NewScorer([]string{"coffee", "tea ceremony traditions in japan"})

	res, err := s.Score("coffee")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Score != 1.0 {
		t.Fatalf("single shared term should score 1.0, got %v", res.Score)
	}
}

func TestScore_ScoreAgainstReferences(t *testing.T) {
	s := NewScorer([]string{"bundled corpus entry about something else entirely"})

	res, err := s.ScoreAgainst(
		"fresh roasted coffee beans",
		[]string{"fresh roasted coffee beans", "green tea leaves"},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Score != 1.0 {
		t.Fatalf("expected 1.0 against duplicate reference, got %v", res.Score)
	}
	if res.MatchedSources != 1 {
		t.Fatalf("expected 1 matched source, got %d", res.MatchedSources)
	}
}

func TestScore_ClampedRange(t *testing.T) {
	corpus := []string{
		"alpha beta gamma delta",
		"alpha alpha alpha alpha beta beta",
		"epsilon zeta eta theta",
	}
	s := NewScorer(corpus)
	for _, cand := range []string{
		"alpha beta",
		"alpha beta gamma delta",
		"theta eta zeta epsilon",
		"omega psi chi phi",
	} {
		res, err := s.Score(cand)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", cand, err)
		}
		if res.Score < 0 || res.Score > 1 {
			t.Fatalf("score out of [0,1] for %q: %v", cand, res.Score)
		}
	}
}

func TestWithThresholds_IgnoresInvalid(t *testing.T) {
	s := NewScorer(nil).WithThresholds(-1, 2)
	if s.uniquenessThreshold != DefaultUniquenessThreshold {
		t.Errorf("invalid uniqueness threshold was applied: %v", s.uniquenessThreshold)
	}
	if s.matchThreshold != DefaultMatchThreshold {
		t.Errorf("invalid match threshold was applied: %v", s.matchThreshold)
	}
}
