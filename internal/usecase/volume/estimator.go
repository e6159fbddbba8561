// Package volume estimates search volume, competition and CPC for keyword
// suggestions that carry no provider metrics. Short heads score high,
// long tails score low; the hash keeps estimates deterministic per keyword.
package volume

import (
	"hash/fnv"
	"strings"

	"github.com/rankforge/seosuite/internal/domain/keyword"
)

// Enrich fills in estimated metrics for suggestions without volume data.
// Suggestions that already carry a volume are left untouched.
func Enrich(suggestions []keyword.Suggestion) []keyword.Suggestion {
	for i := range suggestions {
		if suggestions[i].SearchVolume > 0 {
			continue
		}
		estimate(&suggestions[i])
	}
	return suggestions
}

func estimate(s *keyword.Suggestion) {
	wordCount := len(strings.Fields(s.Keyword))
	h := hash(s.Keyword)

	switch {
	case wordCount <= 2:
		s.SearchVolume = 5000 + int(h%45000)
		s.Competition = keyword.CompetitionHigh
		s.CompetitionScore = 0.7 + float64(h%30)/100
	case wordCount == 3:
		s.SearchVolume = 1000 + int(h%9000)
		s.Competition = keyword.CompetitionMedium
		s.CompetitionScore = 0.4 + float64(h%30)/100
	default:
		s.SearchVolume = 100 + int(h%900)
		s.Competition = keyword.CompetitionLow
		s.CompetitionScore = 0.1 + float64(h%30)/100
	}
	if s.CompetitionScore > 1.0 {
		s.CompetitionScore = 1.0
	}

	// Long tails cost less per click.
	s.CPC = 5.0 - float64(wordCount)*0.8
	if s.CPC < 0.1 {
		s.CPC = 0.1
	}
}

func hash(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}
