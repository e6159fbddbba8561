package seosuite

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	healthuc "github.com/rankforge/seosuite/internal/usecase/health"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	opts = append([]Option{WithBaseURL(srv.URL)}, opts...)
	client, err := New(opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client
}

func TestNew_RequiresBaseURL(t *testing.T) {
	if _, err := New(); err == nil {
		t.Fatal("expected error without base URL")
	}
}

func TestSuggest(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody SuggestRequest

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		_ = json.NewEncoder(w).Encode(SuggestResponse{
			SeedKeyword: "coffee",
			Total:       2,
			Cached:      true,
		})
	}, WithAPIKey("secret"))

	resp, err := client.Suggest(context.Background(), SuggestRequest{Keyword: "coffee", Limit: 10})
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}

	if gotPath != "/api/v1/keywords/suggest" {
		t.Errorf("path = %s", gotPath)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("auth = %q", gotAuth)
	}
	if gotBody.Keyword != "coffee" || gotBody.Limit != 10 {
		t.Errorf("body = %+v", gotBody)
	}
	if resp.Total != 2 || !resp.Cached {
		t.Errorf("response = %+v", resp)
	}
}

func TestAPIError_Unwrap(t *testing.T) {
	tests := []struct {
		code     string
		status   int
		sentinel error
	}{
		{"validation_failed", http.StatusBadRequest, ErrInvalidInput},
		{"not_found", http.StatusNotFound, ErrNotFound},
		{"api_key_missing", http.StatusUnauthorized, ErrAPIKeyMissing},
		{"rate_limited", http.StatusTooManyRequests, ErrRateLimited},
		{"provider_error", http.StatusBadGateway, ErrProviderError},
		{"llm_error", http.StatusBadGateway, ErrLLMError},
		{"corpus_unavailable", http.StatusServiceUnavailable, ErrCorpusUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_ = json.NewEncoder(w).Encode(APIError{Code: tt.code, Message: "nope"})
			})

			_, err := client.Suggest(context.Background(), SuggestRequest{Keyword: "x"})
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", err, tt.sentinel)
			}

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %T", err)
			}
			if apiErr.Status != tt.status {
				t.Errorf("status = %d, want %d", apiErr.Status, tt.status)
			}
		})
	}
}

func TestMetrics_EscapesKeyword(t *testing.T) {
	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`{"keyword":"coffee grinder"}`))
	})

	metrics, err := client.Metrics(context.Background(), "coffee grinder", "en", "us")
	if err != nil {
		t.Fatalf("Metrics: %v", err)
	}
	if gotPath != "/api/v1/keywords/coffee%20grinder/metrics" {
		t.Errorf("path = %s", gotPath)
	}
	if metrics.Keyword != "coffee grinder" {
		t.Errorf("keyword = %s", metrics.Keyword)
	}
}

func TestHealth_Degraded(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(healthuc.Report{
			Status: healthuc.Degraded,
			Checks: map[string]healthuc.CheckResult{
				"cache": healthuc.CheckError,
			},
		})
	})

	report, err := client.Health(context.Background())
	if err == nil {
		t.Fatal("expected error for degraded server")
	}
	if report.Status != healthuc.Degraded {
		t.Errorf("status = %s", report.Status)
	}
	if report.Checks["cache"] != healthuc.CheckError {
		t.Errorf("cache check = %s", report.Checks["cache"])
	}
}

func TestHealth_OK(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(healthuc.Report{Status: healthuc.Healthy})
	})

	report, err := client.Health(context.Background())
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if report.Status != healthuc.Healthy {
		t.Errorf("status = %s", report.Status)
	}
}
