package volume

import (
	"testing"

	"github.com/rankforge/seosuite/internal/domain/keyword"
)

func TestEnrich_ByWordCount(t *testing.T) {
	tests := []struct {
		name            string
		kw              string
		minVol, maxVol  int
		wantCompetition keyword.CompetitionLevel
	}{
		{"head term", "seo", 5000, 50000, keyword.CompetitionHigh},
		{"two words", "seo tools", 5000, 50000, keyword.CompetitionHigh},
		{"three words", "best seo tools", 1000, 10000, keyword.CompetitionMedium},
		{"long tail", "best free seo tools online", 100, 1000, keyword.CompetitionLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Enrich([]keyword.Suggestion{{Keyword: tt.kw}})[0]

			if got.SearchVolume < tt.minVol || got.SearchVolume >= tt.maxVol {
				t.Errorf("volume = %d, want in [%d, %d)", got.SearchVolume, tt.minVol, tt.maxVol)
			}
			if got.Competition != tt.wantCompetition {
				t.Errorf("competition = %s, want %s", got.Competition, tt.wantCompetition)
			}
			if got.CompetitionScore <= 0 || got.CompetitionScore > 1 {
				t.Errorf("competition score = %f, want in (0, 1]", got.CompetitionScore)
			}
			if got.CPC < 0.1 {
				t.Errorf("cpc = %f, want >= 0.1", got.CPC)
			}
		})
	}
}

func TestEnrich_Deterministic(t *testing.T) {
	a := Enrich([]keyword.Suggestion{{Keyword: "golang tutorial"}})[0]
	b := Enrich([]keyword.Suggestion{{Keyword: "golang tutorial"}})[0]

	if a.SearchVolume != b.SearchVolume || a.CompetitionScore != b.CompetitionScore {
		t.Errorf("estimates differ across runs: %+v vs %+v", a, b)
	}
}

func TestEnrich_SkipsSuggestionsWithVolume(t *testing.T) {
	in := []keyword.Suggestion{{Keyword: "seo", SearchVolume: 42, CPC: 1.5}}
	got := Enrich(in)[0]

	if got.SearchVolume != 42 || got.CPC != 1.5 {
		t.Errorf("existing metrics overwritten: %+v", got)
	}
}

func TestEnrich_CPCDecreasesWithLength(t *testing.T) {
	short := Enrich([]keyword.Suggestion{{Keyword: "seo"}})[0]
	long := Enrich([]keyword.Suggestion{{Keyword: "how to learn seo for free"}})[0]

	if long.CPC >= short.CPC {
		t.Errorf("long tail cpc %f should be below head cpc %f", long.CPC, short.CPC)
	}
}
