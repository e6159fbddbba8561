// Package keyword defines the keyword research domain model.
package keyword

import (
	"fmt"
	"strings"
)

// MaxSeedLength is the maximum allowed seed keyword length.
const MaxSeedLength = 200

// Suggestion limits.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// CompetitionLevel classifies advertiser competition for a keyword.
type CompetitionLevel string

const (
	CompetitionLow     CompetitionLevel = "low"
	CompetitionMedium  CompetitionLevel = "medium"
	CompetitionHigh    CompetitionLevel = "high"
	CompetitionUnknown CompetitionLevel = "unknown"
)

// SearchIntent classifies what a searcher wants from a query.
type SearchIntent string

const (
	IntentInformational SearchIntent = "informational"
	IntentCommercial    SearchIntent = "commercial"
	IntentTransactional SearchIntent = "transactional"
	IntentNavigational  SearchIntent = "navigational"
	IntentUnknown       SearchIntent = "unknown"
)

// ParseIntent maps a free-form intent label (as returned by the model)
// to a SearchIntent, falling back to IntentUnknown.
func ParseIntent(s string) SearchIntent {
	switch SearchIntent(strings.ToLower(strings.TrimSpace(s))) {
	case IntentInformational:
		return IntentInformational
	case IntentCommercial:
		return IntentCommercial
	case IntentTransactional:
		return IntentTransactional
	case IntentNavigational:
		return IntentNavigational
	default:
		return IntentUnknown
	}
}

// DifficultyLevel classifies how hard ranking for a keyword is.
type DifficultyLevel string

const (
	DifficultyVeryEasy DifficultyLevel = "very_easy"
	DifficultyEasy     DifficultyLevel = "easy"
	DifficultyMedium   DifficultyLevel = "medium"
	DifficultyHard     DifficultyLevel = "hard"
	DifficultyVeryHard DifficultyLevel = "very_hard"
)

// ParseDifficulty maps a free-form difficulty label to a DifficultyLevel,
// falling back to DifficultyMedium.
func ParseDifficulty(s string) DifficultyLevel {
	switch DifficultyLevel(strings.ToLower(strings.TrimSpace(s))) {
	case DifficultyVeryEasy:
		return DifficultyVeryEasy
	case DifficultyEasy:
		return DifficultyEasy
	case DifficultyHard:
		return DifficultyHard
	case DifficultyVeryHard:
		return DifficultyVeryHard
	default:
		return DifficultyMedium
	}
}

// Suggestion is a keyword suggestion with the metrics a provider returned.
// Zero values mean "not available from this source".
type Suggestion struct {
	Keyword          string           `json:"keyword"`
	SearchVolume     int              `json:"search_volume,omitempty"`
	Competition      CompetitionLevel `json:"competition,omitempty"`
	CompetitionScore float64          `json:"competition_score,omitempty"`
	CPC              float64          `json:"cpc,omitempty"`
	Source           string           `json:"source"`
}

// Metrics is a suggestion enriched with AI analysis.
type Metrics struct {
	Keyword          string           `json:"keyword"`
	SearchVolume     int              `json:"search_volume,omitempty"`
	Competition      CompetitionLevel `json:"competition,omitempty"`
	CompetitionScore float64          `json:"competition_score,omitempty"`
	CPC              float64          `json:"cpc,omitempty"`
	Intent           SearchIntent     `json:"intent,omitempty"`
	Difficulty       DifficultyLevel  `json:"difficulty,omitempty"`
	DifficultyScore  float64          `json:"difficulty_score,omitempty"`
}

// MetricsFromSuggestion carries provider metrics over into a Metrics record.
func MetricsFromSuggestion(s Suggestion) Metrics {
	return Metrics{
		Keyword:          s.Keyword,
		SearchVolume:     s.SearchVolume,
		Competition:      s.Competition,
		CompetitionScore: s.CompetitionScore,
		CPC:              s.CPC,
		Intent:           IntentUnknown,
	}
}

// Cluster is a group of semantically related keywords.
type Cluster struct {
	ID             int          `json:"cluster_id"`
	Name           string       `json:"cluster_name"`
	PrimaryKeyword string       `json:"primary_keyword"`
	Keywords       []string     `json:"keywords"`
	Intent         SearchIntent `json:"intent,omitempty"`
	AvgVolume      int          `json:"avg_search_volume,omitempty"`
	Recommendation string       `json:"recommendation,omitempty"`
}

// Seed is a validated seed keyword with locale parameters.
type Seed struct {
	keyword  string
	language string
	country  string
	limit    int
}

// NewSeed validates and normalizes seed keyword parameters.
// Defaults: language=en, country=us, limit=20. Limit is clamped to MaxLimit.
func NewSeed(kw, language, country string, limit int) (Seed, error) {
	kw = strings.TrimSpace(kw)
	if kw == "" {
		return Seed{}, fmt.Errorf("seed keyword is required")
	}
	if len(kw) > MaxSeedLength {
		return Seed{}, fmt.Errorf("seed keyword too long (max %d chars)", MaxSeedLength)
	}
	if language == "" {
		language = "en"
	}
	if country == "" {
		country = "us"
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Seed{keyword: kw, language: language, country: country, limit: limit}, nil
}

// Keyword returns the trimmed seed keyword.
func (s *Seed) Keyword() string { return s.keyword }

// Language returns the ISO 639-1 language code.
func (s *Seed) Language() string { return s.language }

// Country returns the ISO 3166-1 alpha-2 country code.
func (s *Seed) Country() string { return s.country }

// Limit returns the maximum number of suggestions to return.
func (s *Seed) Limit() int { return s.limit }
