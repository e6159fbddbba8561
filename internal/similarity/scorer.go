package similarity

import (
	"fmt"
	"math"
	"strings"

	"github.com/rankforge/seosuite/internal/domain"
)

// Default thresholds.
const (
	// DefaultUniquenessThreshold is the max-similarity cutoff above which a
	// candidate is considered a likely duplicate of some corpus source.
	DefaultUniquenessThreshold = 0.8
	// DefaultMatchThreshold is the per-source cutoff used only to count how
	// many corpus documents the candidate meaningfully overlaps with.
	DefaultMatchThreshold = 0.3
)

// Result is the outcome of one scoring call.
type Result struct {
	// Score is the maximum cosine similarity against any single corpus
	// document, in [0,1]. Max (not average) is the conservative signal:
	// averaging would mask exact duplication of one source.
	Score float64
	// MatchedSources counts corpus documents whose similarity exceeds the
	// match threshold.
	MatchedSources int
	// IsUnique reports whether Score is below the uniqueness threshold.
	IsUnique bool
}

// Scorer computes uniqueness scores against an immutable reference corpus.
// A Scorer is a pure computation over its inputs and is safe for concurrent
// use; the corpus is tokenized once at construction and never mutated.
type Scorer struct {
	corpusTokens        [][]string
	uniquenessThreshold float64
	matchThreshold      float64
}

// NewScorer creates a Scorer over the given reference corpus with default
// thresholds. Corpus entries that tokenize to nothing are kept as zero
// vectors (they compare as similarity 0), preserving corpus ordering.
func NewScorer(corpus []string) *Scorer {
	tokens := make([][]string, len(corpus))
	for i, doc := range corpus {
		tokens[i] = Tokenize(doc)
	}
	return &Scorer{
		corpusTokens:        tokens,
		uniquenessThreshold: DefaultUniquenessThreshold,
		matchThreshold:      DefaultMatchThreshold,
	}
}

// WithThresholds overrides the uniqueness and match thresholds.
// Values outside (0,1] keep the current setting.
func (s *Scorer) WithThresholds(uniqueness, match float64) *Scorer {
	if uniqueness > 0 && uniqueness <= 1 {
		s.uniquenessThreshold = uniqueness
	}
	if match > 0 && match <= 1 {
		s.matchThreshold = match
	}
	return s
}

// CorpusSize returns the number of reference documents.
func (s *Scorer) CorpusSize() int { return len(s.corpusTokens) }

// Score computes the uniqueness of candidate against the bundled corpus.
func (s *Scorer) Score(candidate string) (Result, error) {
	return s.score(candidate, s.corpusTokens)
}

// ScoreAgainst computes the uniqueness of candidate against an explicit set
// of reference texts instead of the bundled corpus.
func (s *Scorer) ScoreAgainst(candidate string, references []string) (Result, error) {
	refTokens := make([][]string, len(references))
	for i, ref := range references {
		refTokens[i] = Tokenize(ref)
	}
	return s.score(candidate, refTokens)
}

func (s *Scorer) score(candidate string, refTokens [][]string) (Result, error) {
	if strings.TrimSpace(candidate) == "" {
		return Result{}, fmt.Errorf("candidate is empty: %w", domain.ErrInvalidCandidate)
	}
	candTokens := Tokenize(candidate)
	if len(candTokens) == 0 {
		return Result{}, fmt.Errorf("candidate has no scorable terms: %w", domain.ErrInvalidCandidate)
	}

	// Nothing to compare against: nothing to flag.
	if len(refTokens) == 0 {
		return Result{Score: 0, MatchedSources: 0, IsUnique: true}, nil
	}

	// IDF statistics over {candidate} ∪ references so that the candidate and
	// every reference are vectorized in the same term space.
	docs := make([][]string, 0, len(refTokens)+1)
	docs = append(docs, candTokens)
	docs = append(docs, refTokens...)
	idf := inverseDocFrequencies(docs)

	candVec := vectorize(candTokens, idf)

	var maxSim float64
	matched := 0
	for _, ref := range refTokens {
		sim := cosine(candVec, vectorize(ref, idf))
		if sim > maxSim {
			maxSim = sim
		}
		if sim > s.matchThreshold {
			matched++
		}
	}

	return Result{
		Score:          maxSim,
		MatchedSources: matched,
		IsUnique:       maxSim < s.uniquenessThreshold,
	}, nil
}

// inverseDocFrequencies computes smoothed IDF values over the documents:
// idf(t) = log(1 + N/(1+df(t))).
func inverseDocFrequencies(docs [][]string) map[string]float64 {
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{}, len(doc))
		for _, t := range doc {
			if _, ok := seen[t]; !ok {
				df[t]++
				seen[t] = struct{}{}
			}
		}
	}
	n := float64(len(docs))
	idf := make(map[string]float64, len(df))
	for t, f := range df {
		idf[t] = math.Log(1 + n/(1+float64(f)))
	}
	return idf
}

// vectorize builds a sparse TF-IDF vector: normalized term frequency scaled
// by the shared IDF weights. Returns an empty vector for empty token lists.
func vectorize(tokens []string, idf map[string]float64) map[string]float64 {
	vec := make(map[string]float64, len(tokens))
	if len(tokens) == 0 {
		return vec
	}
	for _, t := range tokens {
		vec[t]++
	}
	n := float64(len(tokens))
	for t, count := range vec {
		vec[t] = count / n * idf[t]
	}
	return vec
}

// cosine computes cosine similarity between two sparse vectors, clamped to
// [0,1]. Zero-norm vectors yield 0, never NaN.
func cosine(a, b map[string]float64) float64 {
	// normB accumulates shared terms in the same order as dot so that
	// identical vectors produce bit-identical sums.
	var dot, normA, normB float64
	for t, x := range a {
		normA += x * x
		if y, ok := b[t]; ok {
			dot += x * y
			normB += y * y
		}
	}
	for t, y := range b {
		if _, ok := a[t]; !ok {
			normB += y * y
		}
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	// Cauchy-Schwarz: dot^2 <= normA*normB, with equality only for parallel
	// vectors. Snapping here avoids sqrt rounding landing one ulp under 1.
	if dot*dot >= normA*normB {
		return 1
	}
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if sim > 1 {
		return 1
	}
	if sim < 0 {
		return 0
	}
	return sim
}
