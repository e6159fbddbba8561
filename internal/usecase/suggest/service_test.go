package suggest

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/rankforge/seosuite/internal/db"
	"github.com/rankforge/seosuite/internal/domain"
	"github.com/rankforge/seosuite/internal/domain/keyword"
	"github.com/rankforge/seosuite/internal/repository/cache"
)

type mockProvider struct {
	suggestions []keyword.Suggestion
	err         error
	calls       int
}

func (m *mockProvider) KeywordSuggestions(_ context.Context, _ keyword.Seed) ([]keyword.Suggestion, error) {
	m.calls++
	return m.suggestions, m.err
}

type mockAutocompleter struct {
	phrases []string
	err     error
	calls   int
}

func (m *mockAutocompleter) Suggest(_ context.Context, _, _ string) ([]string, error) {
	m.calls++
	return m.phrases, m.err
}

func mustSeed(t *testing.T, kw string, limit int) keyword.Seed {
	t.Helper()
	seed, err := keyword.NewSeed(kw, "en", "us", limit)
	if err != nil {
		t.Fatalf("NewSeed: %v", err)
	}
	return seed
}

func TestSuggest_ProviderFirst(t *testing.T) {
	provider := &mockProvider{suggestions: []keyword.Suggestion{
		{Keyword: "golang tutorial", Source: "dataforseo"},
	}}
	auto := &mockAutocompleter{phrases: []string{"should not be used"}}
	svc := New(provider, auto, nil, zap.NewNop())

	got, cached, err := svc.Suggest(context.Background(), mustSeed(t, "golang", 20))
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if cached {
		t.Error("cached = true without cache configured")
	}
	if len(got) != 1 || got[0].Source != "dataforseo" {
		t.Errorf("unexpected result: %+v", got)
	}
	if auto.calls != 0 {
		t.Error("autocomplete called despite provider success")
	}
}

func TestSuggest_ProviderErrorFallsBackToAutocomplete(t *testing.T) {
	provider := &mockProvider{err: errors.New("quota exceeded")}
	auto := &mockAutocompleter{phrases: []string{"golang jobs", "golang book", "golang ide", "golang web", "golang cli"}}
	svc := New(provider, auto, nil, zap.NewNop())

	got, _, err := svc.Suggest(context.Background(), mustSeed(t, "golang", 20))
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("len = %d, want 5", len(got))
	}
	for _, s := range got {
		if s.Source != "google_autocomplete" {
			t.Errorf("source = %s, want google_autocomplete", s.Source)
		}
	}
}

func TestSuggest_NoProviderUsesAutocomplete(t *testing.T) {
	auto := &mockAutocompleter{phrases: []string{"a", "b", "c", "d", "e", "f"}}
	svc := New(nil, auto, nil, zap.NewNop())

	got, _, err := svc.Suggest(context.Background(), mustSeed(t, "golang", 20))
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if len(got) != 6 {
		t.Errorf("len = %d, want 6", len(got))
	}
}

func TestSuggest_FewAutocompleteResultsToppedUpWithVariations(t *testing.T) {
	auto := &mockAutocompleter{phrases: []string{"golang jobs"}}
	svc := New(nil, auto, nil, zap.NewNop())

	got, _, err := svc.Suggest(context.Background(), mustSeed(t, "golang", 20))
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if len(got) < minAutocompleteResults {
		t.Fatalf("len = %d, want >= %d", len(got), minAutocompleteResults)
	}
	if got[0].Source != "google_autocomplete" {
		t.Errorf("first source = %s", got[0].Source)
	}
	if got[1].Source != "generated" {
		t.Errorf("second source = %s, want generated", got[1].Source)
	}
}

func TestSuggest_AutocompleteErrorStillGeneratesVariations(t *testing.T) {
	auto := &mockAutocompleter{err: errors.New("network down")}
	svc := New(nil, auto, nil, zap.NewNop())

	got, _, err := svc.Suggest(context.Background(), mustSeed(t, "golang", 10))
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if len(got) != 10 {
		t.Errorf("len = %d, want 10", len(got))
	}
	for _, s := range got {
		if s.Source != "generated" {
			t.Errorf("source = %s, want generated", s.Source)
		}
	}
}

func TestSuggest_LimitEnforced(t *testing.T) {
	provider := &mockProvider{suggestions: make([]keyword.Suggestion, 50)}
	svc := New(provider, &mockAutocompleter{}, nil, zap.NewNop())

	got, _, err := svc.Suggest(context.Background(), mustSeed(t, "golang", 10))
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if len(got) != 10 {
		t.Errorf("len = %d, want 10", len(got))
	}
}

type memStore struct {
	m map[string][]byte
}

func (s *memStore) Get(_ context.Context, key string) ([]byte, error) {
	if v, ok := s.m[key]; ok {
		return v, nil
	}
	return nil, db.ErrKeyNotFound
}

func (s *memStore) SetWithTTL(_ context.Context, key string, value []byte, _ time.Duration) error {
	s.m[key] = value
	return nil
}

func TestSuggest_SecondCallServedFromCache(t *testing.T) {
	provider := &mockProvider{suggestions: []keyword.Suggestion{
		{Keyword: "golang tutorial", Source: "dataforseo"},
	}}
	c := cache.New(&memStore{m: map[string][]byte{}}, "test:", time.Minute, nil, zap.NewNop())
	svc := New(provider, &mockAutocompleter{}, c, zap.NewNop())

	seed := mustSeed(t, "golang", 20)

	if _, cached, err := svc.Suggest(context.Background(), seed); err != nil || cached {
		t.Fatalf("first call: cached=%v err=%v", cached, err)
	}

	got, cached, err := svc.Suggest(context.Background(), seed)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if !cached {
		t.Error("second call should be served from cache")
	}
	if len(got) != 1 || got[0].Keyword != "golang tutorial" {
		t.Errorf("unexpected cached payload: %+v", got)
	}
	if provider.calls != 1 {
		t.Errorf("provider calls = %d, want 1", provider.calls)
	}
}

func TestVariations_NeverEmptyForPositiveLimit(t *testing.T) {
	for _, limit := range []int{1, 2, 5, keyword.MaxLimit} {
		if got := variations("golang", limit); len(got) == 0 {
			t.Errorf("variations(limit=%d) returned no suggestions", limit)
		}
	}
}

func TestFromFallbacks_EmptyResultIsNotFound(t *testing.T) {
	// A zero-value seed has limit 0, so variations cannot top up. The guard
	// must map to a not-found error, not an opaque one.
	auto := &mockAutocompleter{}
	svc := New(nil, auto, nil, zap.NewNop())

	var seed keyword.Seed
	_, err := svc.fromFallbacks(context.Background(), seed)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestVariations_PrefixAndSuffix(t *testing.T) {
	got := variations("golang", 4)
	want := []string{"best golang", "golang best", "top golang", "golang top"}
	if len(got) != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}
	for i := range want {
		if got[i].Keyword != want[i] {
			t.Errorf("got[%d] = %s, want %s", i, got[i].Keyword, want[i])
		}
	}
}
