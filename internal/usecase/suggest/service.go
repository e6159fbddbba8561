// Package suggest resolves keyword suggestions through a provider chain:
// paid API first, free autocomplete as fallback, generated variations as the
// last resort.
package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/rankforge/seosuite/internal/domain"
	"github.com/rankforge/seosuite/internal/domain/keyword"
	"github.com/rankforge/seosuite/internal/repository/cache"
)

// minAutocompleteResults is the point below which generated variations top
// up the autocomplete output.
const minAutocompleteResults = 5

// modifiers are prepended and appended to the seed when generating
// last-resort variations.
var modifiers = []string{
	"best", "top", "how to", "what is", "guide", "tutorial",
	"free", "online", "near me", "cheap", "review", "vs",
}

// Service resolves suggestions for a seed keyword.
type Service struct {
	provider     Provider // nil when no paid provider is configured
	autocomplete Autocompleter
	cache        *cache.Cache
	logger       *zap.Logger
}

// New creates a suggestion Service. provider may be nil.
func New(provider Provider, autocomplete Autocompleter, c *cache.Cache, logger *zap.Logger) *Service {
	return &Service{
		provider:     provider,
		autocomplete: autocomplete,
		cache:        c,
		logger:       logger,
	}
}

// Suggest returns up to seed.Limit() suggestions. cached reports whether the
// result came from the response cache.
func (s *Service) Suggest(ctx context.Context, seed keyword.Seed) (suggestions []keyword.Suggestion, cached bool, err error) {
	cacheKey := []string{"suggest", seed.Keyword(), seed.Language(), seed.Country(), strconv.Itoa(seed.Limit())}

	if data, ok := s.cache.Get(ctx, cacheKey...); ok {
		if err := json.Unmarshal(data, &suggestions); err == nil {
			return suggestions, true, nil
		}
		s.logger.Warn("Discarding corrupt cached suggestions", zap.String("keyword", seed.Keyword()))
	}

	suggestions = s.fromProvider(ctx, seed)
	if len(suggestions) == 0 {
		suggestions, err = s.fromFallbacks(ctx, seed)
		if err != nil {
			return nil, false, err
		}
	}

	if len(suggestions) > seed.Limit() {
		suggestions = suggestions[:seed.Limit()]
	}

	if data, err := json.Marshal(suggestions); err == nil {
		s.cache.Put(ctx, data, cacheKey...)
	}
	return suggestions, false, nil
}

func (s *Service) fromProvider(ctx context.Context, seed keyword.Seed) []keyword.Suggestion {
	if s.provider == nil {
		return nil
	}
	suggestions, err := s.provider.KeywordSuggestions(ctx, seed)
	if err != nil {
		s.logger.Warn("Keyword provider failed, falling back",
			zap.String("keyword", seed.Keyword()),
			zap.Error(err))
		return nil
	}
	return suggestions
}

func (s *Service) fromFallbacks(ctx context.Context, seed keyword.Seed) ([]keyword.Suggestion, error) {
	var suggestions []keyword.Suggestion

	phrases, err := s.autocomplete.Suggest(ctx, seed.Keyword(), seed.Language())
	if err != nil {
		s.logger.Warn("Autocomplete fallback failed",
			zap.String("keyword", seed.Keyword()),
			zap.Error(err))
	}
	for _, p := range phrases {
		if len(suggestions) >= seed.Limit() {
			break
		}
		suggestions = append(suggestions, keyword.Suggestion{
			Keyword: p,
			Source:  "google_autocomplete",
		})
	}

	if len(suggestions) < minAutocompleteResults {
		suggestions = append(suggestions, variations(seed.Keyword(), seed.Limit())...)
	}

	// Unreachable for limit >= 1 since variations always yields, but a guard
	// here must still map to 404 rather than a bare 500.
	if len(suggestions) == 0 {
		return nil, fmt.Errorf("no suggestions resolved for %q: %w", seed.Keyword(), domain.ErrNotFound)
	}
	return suggestions, nil
}

// variations generates modifier-based keyword variants, prefix and suffix.
func variations(seed string, limit int) []keyword.Suggestion {
	out := make([]keyword.Suggestion, 0, limit)
	for _, m := range modifiers {
		if len(out) >= limit {
			break
		}
		out = append(out, keyword.Suggestion{Keyword: m + " " + seed, Source: "generated"})
		if len(out) < limit {
			out = append(out, keyword.Suggestion{Keyword: seed + " " + m, Source: "generated"})
		}
	}
	return out
}
