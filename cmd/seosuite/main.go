package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/rankforge/seosuite/internal/config"
	"github.com/rankforge/seosuite/internal/corpus"
	dbRedis "github.com/rankforge/seosuite/internal/db/redis"
	logpkg "github.com/rankforge/seosuite/internal/logger"
	"github.com/rankforge/seosuite/internal/metrics"
	"github.com/rankforge/seosuite/internal/repository/cache"
	"github.com/rankforge/seosuite/internal/similarity"
	"github.com/rankforge/seosuite/internal/transport/autocomplete"
	chiTransport "github.com/rankforge/seosuite/internal/transport/chi"
	"github.com/rankforge/seosuite/internal/transport/dataforseo"
	llmclient "github.com/rankforge/seosuite/internal/transport/openai"
	"github.com/rankforge/seosuite/internal/transport/scraper"
	"github.com/rankforge/seosuite/internal/transport/serpclient"
	"github.com/rankforge/seosuite/internal/usecase/analysis"
	"github.com/rankforge/seosuite/internal/usecase/contentuc"
	healthuc "github.com/rankforge/seosuite/internal/usecase/health"
	"github.com/rankforge/seosuite/internal/usecase/research"
	"github.com/rankforge/seosuite/internal/usecase/serpuc"
	"github.com/rankforge/seosuite/internal/usecase/suggest"
	"github.com/rankforge/seosuite/internal/version"
)

func main() {
	// .env is optional; real deployments set variables in the environment.
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting seosuite API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Bool("cache", cfg.HasCache()),
		zap.Bool("llm", cfg.HasLLM()),
		zap.Bool("dataforseo", cfg.HasDataForSEO()),
		zap.Bool("serp_provider", cfg.HasSERPProvider()),
	)

	ctx := context.Background()

	// Response cache is optional: no addrs, no cache.
	var store *dbRedis.Store
	if cfg.HasCache() {
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		logger.Info("Connected to cache")
	}

	// Register provider metrics explicitly (no init())
	metrics.RegisterProviderMetrics()

	var responseCache *cache.Cache
	if store != nil {
		responseCache = cache.New(
			store,
			cfg.Cache.KeyPrefix,
			time.Duration(cfg.Cache.TTLSec)*time.Second,
			metrics.ResponseCacheTotal,
			logger,
		)
	}

	// Reference corpus for the uniqueness scorer. A missing corpus is not
	// fatal: checks against an empty corpus report the text as original.
	var docs []string
	if cfg.Plagiarism.CorpusDir != "" {
		docs, err = corpus.Load(cfg.Plagiarism.CorpusDir)
		if err != nil {
			logger.Warn("Corpus unavailable, uniqueness checks run against an empty corpus",
				zap.String("dir", cfg.Plagiarism.CorpusDir),
				zap.Error(err),
			)
			docs = nil
		}
	}
	scorer := similarity.NewScorer(docs).
		WithThresholds(cfg.Plagiarism.UniquenessThreshold, cfg.Plagiarism.MatchThreshold)
	logger.Info("Uniqueness scorer ready", zap.Int("corpus_docs", scorer.CorpusSize()))

	// The LLM client is always constructed: an unconfigured key fails per
	// request and the analysis layer degrades to neutral results.
	llm := llmclient.NewClient(&llmclient.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: float32(cfg.LLM.Temperature),
		Logger:      logger,
	})

	// Pass nil interface (not typed nil pointer!) if a provider is not
	// configured. Go gotcha: (*dataforseo.Client)(nil) wrapped in
	// suggest.Provider != nil.
	var provider suggest.Provider
	if cfg.HasDataForSEO() {
		provider = dataforseo.NewClient(&dataforseo.Config{
			Login:    cfg.Providers.DataForSEO.Login,
			Password: cfg.Providers.DataForSEO.Password,
			Logger:   logger,
		})
	}

	var fetcher serpuc.Fetcher
	if cfg.HasSERPProvider() {
		serpProvider := serpclient.ProviderSerpAPI
		serpKey := cfg.Providers.SerpAPI.APIKey
		if serpKey == "" {
			serpProvider = serpclient.ProviderValueSERP
			serpKey = cfg.Providers.ValueSERP.APIKey
		}
		fetcher = serpclient.NewClient(&serpclient.Config{
			Provider: serpProvider,
			APIKey:   serpKey,
			Logger:   logger,
		})
		logger.Info("SERP provider configured", zap.String("provider", serpProvider))
	}

	autocompleteClient := autocomplete.NewClient(&autocomplete.Config{Logger: logger})
	pageScraper := scraper.New(&scraper.Config{Logger: logger})

	// Create use case services
	analysisSvc := analysis.New(llm, logger)
	suggestSvc := suggest.New(provider, autocompleteClient, responseCache, logger)
	serpSvc := serpuc.New(fetcher, analysisSvc, responseCache, logger)
	researchSvc := research.New(suggestSvc, serpSvc, analysisSvc, logger)
	contentSvc := contentuc.New(llm, pageScraper, scorer, logger)

	// Health service
	var cachePinger healthuc.CachePinger
	if store != nil {
		cachePinger = store
	}
	var llmChecker healthuc.LLMChecker
	if cfg.HasLLM() {
		llmChecker = llm
	}
	healthSvc := healthuc.New(cachePinger, llmChecker, map[string]bool{
		"cache":         cfg.HasCache(),
		"llm":           cfg.HasLLM(),
		"dataforseo":    cfg.HasDataForSEO(),
		"serp_provider": cfg.HasSERPProvider(),
	})

	// Create chi server
	server := chiTransport.NewServer(
		suggestSvc, researchSvc, serpSvc, contentSvc, analysisSvc, healthSvc, logger,
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
