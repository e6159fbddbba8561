package suggest

import (
	"context"

	"github.com/rankforge/seosuite/internal/domain/keyword"
)

// Provider fetches keyword suggestions from a paid data source.
type Provider interface {
	KeywordSuggestions(ctx context.Context, seed keyword.Seed) ([]keyword.Suggestion, error)
}

// Autocompleter fetches free suggestion phrases.
type Autocompleter interface {
	Suggest(ctx context.Context, query, language string) ([]string, error)
}
