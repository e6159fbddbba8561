// Package chi exposes the HTTP API: keyword research, SERP analysis,
// content generation and uniqueness checks.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	chirouter "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/rankforge/seosuite/internal/domain"
	"github.com/rankforge/seosuite/internal/domain/content"
	"github.com/rankforge/seosuite/internal/domain/keyword"
	"github.com/rankforge/seosuite/internal/domain/serp"
	"github.com/rankforge/seosuite/internal/usecase/contentuc"
	healthuc "github.com/rankforge/seosuite/internal/usecase/health"
	"github.com/rankforge/seosuite/internal/usecase/research"
	"github.com/rankforge/seosuite/internal/usecase/serpuc"
	"github.com/rankforge/seosuite/internal/usecase/volume"
	"github.com/rankforge/seosuite/internal/version"
)

// Error codes exposed in error responses.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeNotFound         = "not_found"
	codeAPIKeyMissing    = "api_key_missing"
	codeRateLimited      = "rate_limited"
	codeProviderError    = "provider_error"
	codeLLMError         = "llm_error"
	codeCorpusError      = "corpus_unavailable"
	codeInternalError    = "internal_error"
)

// errorResponse is the JSON error body.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server handles the HTTP API.
type Server struct {
	suggester     suggestService
	researcher    researchService
	serp          serpService
	content       contentService
	clusterer     clusterService
	health        healthService
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// Consumer interfaces over the use case services (ISP).
type suggestService interface {
	Suggest(ctx context.Context, seed keyword.Seed) ([]keyword.Suggestion, bool, error)
}

type researchService interface {
	Analyze(ctx context.Context, seed keyword.Seed, opts research.Options) (research.Report, error)
}

type serpService interface {
	Analyze(ctx context.Context, q serp.Query) (serp.Analysis, error)
	Competitors(ctx context.Context, q serp.Query) (serpuc.CompetitorReport, error)
}

type contentService interface {
	GenerateProduct(ctx context.Context, prompt string, imageURLs []string) (contentuc.Result, error)
	GenerateWebsite(ctx context.Context, pageURL, prompt string) (contentuc.Result, error)
	CheckText(text string, references []string) (content.UniquenessReport, error)
}

type clusterService interface {
	ClusterKeywords(ctx context.Context, metrics []keyword.Metrics, numClusters int) []keyword.Cluster
}

type healthService interface {
	Check(ctx context.Context) healthuc.Report
}

// NewServer creates the HTTP API server.
func NewServer(
	suggester suggestService,
	researcher researchService,
	serpSvc serpService,
	contentSvc contentService,
	clusterer clusterService,
	healthSvc healthService,
	logger *zap.Logger,
) *Server {
	s := &Server{
		suggester:  suggester,
		researcher: researcher,
		serp:       serpSvc,
		content:    contentSvc,
		clusterer:  clusterer,
		health:     healthSvc,
		logger:     logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrInvalidCandidate, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrAPIKeyMissing, http.StatusUnauthorized, codeAPIKeyMissing),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, codeRateLimited),
		sentinelHandler(domain.ErrProviderError, http.StatusBadGateway, codeProviderError),
		sentinelHandler(domain.ErrLLMError, http.StatusBadGateway, codeLLMError),
		sentinelHandler(domain.ErrCorpusUnavailable, http.StatusServiceUnavailable, codeCorpusError),
	}
	return s
}

// Routes registers all API routes on the router.
func (s *Server) Routes(r chirouter.Router) {
	r.Get("/", s.Root)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api/v1", func(r chirouter.Router) {
		r.Route("/keywords", func(r chirouter.Router) {
			r.Post("/suggest", s.SuggestKeywords)
			r.Post("/analyze", s.AnalyzeKeywords)
			r.Post("/cluster", s.ClusterKeywords)
			r.Get("/{keyword}/metrics", s.KeywordMetrics)
		})
		r.Route("/serp", func(r chirouter.Router) {
			r.Post("/analyze", s.AnalyzeSERP)
			r.Post("/competitors", s.AnalyzeCompetitors)
		})
		r.Route("/content", func(r chirouter.Router) {
			r.Post("/product", s.GenerateProductContent)
			r.Post("/website", s.GenerateWebsiteContent)
			r.Post("/check", s.CheckUniqueness)
		})
	})
}

type seedRequest struct {
	Keyword  string `json:"keyword"`
	Language string `json:"language"`
	Country  string `json:"country"`
	Limit    int    `json:"limit"`
}

func (req seedRequest) seed() (keyword.Seed, error) {
	return keyword.NewSeed(req.Keyword, req.Language, req.Country, req.Limit)
}

// SuggestKeywords handles POST /api/v1/keywords/suggest.
func (s *Server) SuggestKeywords(w http.ResponseWriter, r *http.Request) {
	var req seedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	seed, err := req.seed()
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	suggestions, cached, err := s.suggester.Suggest(r.Context(), seed)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"seed_keyword": seed.Keyword(),
		"suggestions":  suggestions,
		"total":        len(suggestions),
		"cached":       cached,
	})
}

type analyzeRequest struct {
	seedRequest
	IncludeSuggestions *bool `json:"include_suggestions"`
	IncludeVolume      *bool `json:"include_volume"`
	IncludeSERP        *bool `json:"include_serp"`
	IncludeClustering  *bool `json:"include_clustering"`
}

// AnalyzeKeywords handles POST /api/v1/keywords/analyze.
func (s *Server) AnalyzeKeywords(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	seed, err := req.seed()
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	opts := research.DefaultOptions()
	if req.IncludeSuggestions != nil {
		opts.IncludeSuggestions = *req.IncludeSuggestions
	}
	if req.IncludeVolume != nil {
		opts.IncludeVolume = *req.IncludeVolume
	}
	if req.IncludeSERP != nil {
		opts.IncludeSERP = *req.IncludeSERP
	}
	if req.IncludeClustering != nil {
		opts.IncludeClustering = *req.IncludeClustering
	}

	report, err := s.researcher.Analyze(r.Context(), seed, opts)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

type clusterRequest struct {
	Keywords    []string `json:"keywords"`
	NumClusters int      `json:"num_clusters"`
}

// ClusterKeywords handles POST /api/v1/keywords/cluster.
func (s *Server) ClusterKeywords(w http.ResponseWriter, r *http.Request) {
	var req clusterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Keywords) < 2 {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "at least two keywords are required")
		return
	}

	suggestions := make([]keyword.Suggestion, len(req.Keywords))
	for i, kw := range req.Keywords {
		suggestions[i] = keyword.Suggestion{Keyword: kw}
	}
	suggestions = volume.Enrich(suggestions)

	metrics := make([]keyword.Metrics, len(suggestions))
	for i, sug := range suggestions {
		metrics[i] = keyword.MetricsFromSuggestion(sug)
	}

	clusters := s.clusterer.ClusterKeywords(r.Context(), metrics, req.NumClusters)

	clustered := make(map[string]bool)
	for _, c := range clusters {
		for _, kw := range c.Keywords {
			clustered[kw] = true
		}
	}
	var unclustered []string
	for _, kw := range req.Keywords {
		if !clustered[kw] {
			unclustered = append(unclustered, kw)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total_keywords":       len(req.Keywords),
		"num_clusters":         len(clusters),
		"clusters":             clusters,
		"unclustered_keywords": unclustered,
	})
}

// KeywordMetrics handles GET /api/v1/keywords/{keyword}/metrics.
// Runs the research pipeline for a single keyword without suggestions or
// clustering.
func (s *Server) KeywordMetrics(w http.ResponseWriter, r *http.Request) {
	kw := chirouter.URLParam(r, "keyword")

	seed, err := keyword.NewSeed(kw, r.URL.Query().Get("language"), r.URL.Query().Get("country"), 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	opts := research.Options{IncludeVolume: true, IncludeSERP: true}
	report, err := s.researcher.Analyze(r.Context(), seed, opts)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	if len(report.Keywords) == 0 {
		writeError(w, http.StatusNotFound, codeNotFound, "keyword metrics not found")
		return
	}
	writeJSON(w, http.StatusOK, report.Keywords[0])
}

type serpRequest struct {
	Keyword    string `json:"keyword"`
	Language   string `json:"language"`
	Country    string `json:"country"`
	Device     string `json:"device"`
	NumResults int    `json:"num_results"`
	TopN       int    `json:"top_n"`
}

func (req serpRequest) query() serp.Query {
	n := req.NumResults
	if n == 0 {
		n = req.TopN
	}
	return serp.Query{
		Keyword:    req.Keyword,
		Language:   req.Language,
		Country:    req.Country,
		Device:     req.Device,
		NumResults: n,
	}
}

// AnalyzeSERP handles POST /api/v1/serp/analyze.
func (s *Server) AnalyzeSERP(w http.ResponseWriter, r *http.Request) {
	var req serpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Keyword == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "keyword is required")
		return
	}

	analysis, err := s.serp.Analyze(r.Context(), req.query())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

// AnalyzeCompetitors handles POST /api/v1/serp/competitors.
func (s *Server) AnalyzeCompetitors(w http.ResponseWriter, r *http.Request) {
	var req serpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Keyword == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "keyword is required")
		return
	}

	report, err := s.serp.Competitors(r.Context(), req.query())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type productContentRequest struct {
	Prompt    string   `json:"prompt"`
	ImageURLs []string `json:"image_urls"`
}

// GenerateProductContent handles POST /api/v1/content/product.
func (s *Server) GenerateProductContent(w http.ResponseWriter, r *http.Request) {
	var req productContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "prompt is required")
		return
	}

	result, err := s.content.GenerateProduct(r.Context(), req.Prompt, req.ImageURLs)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type websiteContentRequest struct {
	URL    string `json:"url"`
	Prompt string `json:"prompt"`
}

// GenerateWebsiteContent handles POST /api/v1/content/website.
func (s *Server) GenerateWebsiteContent(w http.ResponseWriter, r *http.Request) {
	var req websiteContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "url is required")
		return
	}

	result, err := s.content.GenerateWebsite(r.Context(), req.URL, req.Prompt)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type checkRequest struct {
	Text       string   `json:"text"`
	References []string `json:"references"`
}

// CheckUniqueness handles POST /api/v1/content/check.
func (s *Server) CheckUniqueness(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	report, err := s.content.CheckText(req.Text, req.References)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Root handles GET /.
func (s *Server) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service": "seosuite",
		"version": version.Version,
		"status":  "operational",
		"endpoints": map[string]string{
			"keyword_suggestions": "/api/v1/keywords/suggest",
			"keyword_analysis":    "/api/v1/keywords/analyze",
			"serp_analysis":       "/api/v1/serp/analyze",
			"product_content":     "/api/v1/content/product",
			"website_content":     "/api/v1/content/website",
			"uniqueness_check":    "/api/v1/content/check",
		},
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, report)
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidInput,
		domain.ErrInvalidCandidate,
		domain.ErrNotFound,
		domain.ErrAPIKeyMissing,
		domain.ErrRateLimited,
		domain.ErrProviderError,
		domain.ErrLLMError,
		domain.ErrCorpusUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
