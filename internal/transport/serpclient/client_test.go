package serpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/rankforge/seosuite/internal/domain"
	"github.com/rankforge/seosuite/internal/domain/serp"
)

const sampleResponse = `{
	"search_information": {"total_results": 1250000},
	"organic_results": [
		{"title": "Go Tutorial", "link": "https://www.golang.org/doc", "displayed_link": "golang.org › doc", "snippet": "Learn Go"},
		{"title": "Go by Example", "link": "https://gobyexample.com", "snippet": "Examples"}
	],
	"answer_box": {"title": "What is Go?", "answer": "A programming language.", "link": "https://go.dev"},
	"related_questions": [
		{"question": "Is Go hard to learn?", "snippet": "No.", "link": "https://example.com/q"}
	],
	"related_searches": [{"query": "golang tutorial"}, {"query": "go vs rust"}],
	"knowledge_graph": {"title": "Go (programming language)"}
}`

func newTestClient(t *testing.T, provider string, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(&Config{
		Provider: provider,
		APIKey:   "test-key",
		BaseURL:  srv.URL,
		Logger:   zap.NewNop(),
	})
}

func testQuery() serp.Query {
	return serp.Query{Keyword: "golang", Language: "en", Country: "us", Device: "desktop", NumResults: 10}
}

func TestFetch_SerpAPI(t *testing.T) {
	client := newTestClient(t, ProviderSerpAPI, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("api_key") != "test-key" {
			t.Error("missing api_key")
		}
		if q.Get("engine") != "google" {
			t.Errorf("engine = %s, want google", q.Get("engine"))
		}
		if q.Get("gl") != "us" || q.Get("hl") != "en" {
			t.Error("missing gl/hl params")
		}
		w.Write([]byte(sampleResponse))
	})

	got, err := client.Fetch(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if got.TotalResults != 1250000 {
		t.Errorf("TotalResults = %d, want 1250000", got.TotalResults)
	}
	if len(got.OrganicResults) != 2 {
		t.Fatalf("organic results = %d, want 2", len(got.OrganicResults))
	}
	first := got.OrganicResults[0]
	if first.Position != 1 || first.Domain != "golang.org" {
		t.Errorf("unexpected first result: %+v", first)
	}
	// Second result has no displayed_link, falls back to link.
	if got.OrganicResults[1].DisplayedURL != "https://gobyexample.com" {
		t.Errorf("DisplayedURL fallback broken: %s", got.OrganicResults[1].DisplayedURL)
	}
	if got.Provider != ProviderSerpAPI {
		t.Errorf("provider = %s", got.Provider)
	}
}

func TestFetch_Features(t *testing.T) {
	client := newTestClient(t, ProviderSerpAPI, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(sampleResponse))
	})

	got, err := client.Fetch(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	types := map[serp.FeatureType]bool{}
	for _, f := range got.Features {
		types[f.Type] = true
	}
	if !types[serp.FeatureFeaturedSnippet] {
		t.Error("expected featured snippet feature")
	}
	if !types[serp.FeatureKnowledgePanel] {
		t.Error("expected knowledge panel feature")
	}
	if len(got.PeopleAlsoAsk) != 1 || got.PeopleAlsoAsk[0].Question != "Is Go hard to learn?" {
		t.Errorf("unexpected PAA: %+v", got.PeopleAlsoAsk)
	}
	if len(got.RelatedSearches) != 2 {
		t.Errorf("related searches = %d, want 2", len(got.RelatedSearches))
	}
}

func TestFetch_ValueSERPParams(t *testing.T) {
	client := newTestClient(t, ProviderValueSERP, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("output"); got != "json" {
			t.Errorf("output = %s, want json", got)
		}
		if r.URL.Query().Has("engine") {
			t.Error("valueserp request must not carry engine param")
		}
		w.Write([]byte(`{"organic_results": []}`))
	})

	got, err := client.Fetch(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got.Provider != ProviderValueSERP {
		t.Errorf("provider = %s", got.Provider)
	}
}

func TestFetch_StatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"unauthorized", http.StatusUnauthorized, domain.ErrAPIKeyMissing},
		{"rate limited", http.StatusTooManyRequests, domain.ErrRateLimited},
		{"server error", http.StatusBadGateway, domain.ErrProviderError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, ProviderSerpAPI, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			})

			_, err := client.Fetch(context.Background(), testQuery())
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFetch_CapsOrganicResults(t *testing.T) {
	client := newTestClient(t, ProviderSerpAPI, func(w http.ResponseWriter, _ *http.Request) {
		body := `{"organic_results": [`
		for i := 0; i < 15; i++ {
			if i > 0 {
				body += ","
			}
			body += `{"title": "t", "link": "https://example.com"}`
		}
		body += `]}`
		w.Write([]byte(body))
	})

	got, err := client.Fetch(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(got.OrganicResults) != maxOrganicResults {
		t.Errorf("organic results = %d, want %d", len(got.OrganicResults), maxOrganicResults)
	}
}
