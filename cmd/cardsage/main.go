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
	"go.uber.org/zap"

	"github.com/cardsage-ai/cardsage/internal/cache"
	"github.com/cardsage-ai/cardsage/internal/config"
	logpkg "github.com/cardsage-ai/cardsage/internal/logger"
	"github.com/cardsage-ai/cardsage/internal/metrics"
	"github.com/cardsage-ai/cardsage/internal/repository/embcache"
	rulingsrepo "github.com/cardsage-ai/cardsage/internal/repository/rulings"
	"github.com/cardsage-ai/cardsage/internal/search"
	chiTransport "github.com/cardsage-ai/cardsage/internal/transport/chi"
	openaiTransport "github.com/cardsage-ai/cardsage/internal/transport/openai"
	answeruc "github.com/cardsage-ai/cardsage/internal/usecase/answer"
	enrichuc "github.com/cardsage-ai/cardsage/internal/usecase/enrich"
	healthuc "github.com/cardsage-ai/cardsage/internal/usecase/health"
	matchuc "github.com/cardsage-ai/cardsage/internal/usecase/match"
	retrieveuc "github.com/cardsage-ai/cardsage/internal/usecase/retrieve"
	"github.com/cardsage-ai/cardsage/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting cardsage API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("search_addrs", cfg.Search.Addrs),
	)

	// Register pipeline metrics explicitly (no init())
	metrics.RegisterRetrievalMetrics()

	// Search backend
	searchClient, err := search.NewClient(search.Config{
		Addrs:              cfg.Search.Addrs,
		Username:           cfg.Search.Username,
		Password:           cfg.Search.Password,
		InsecureSkipVerify: cfg.Search.InsecureSkipVerify,
		Timeout:            time.Duration(cfg.Search.TimeoutSec) * time.Second,
	})
	if err != nil {
		logger.Fatal("Failed to create search client", zap.Error(err))
	}

	// Embedder chain — composition root. The cache decorator is optional.
	embedder, cacheStore := buildEmbedder(cfg, logger)
	if cacheStore != nil {
		defer cacheStore.Close()
	}

	generator := openaiTransport.NewGenerator(&openaiTransport.GeneratorConfig{
		APIKey:      cfg.Model.APIKey,
		BaseURL:     cfg.Model.BaseURL,
		Model:       cfg.Model.Model,
		MaxTokens:   cfg.Model.MaxTokens,
		Temperature: cfg.Model.Temperature,
		Timeout:     time.Duration(cfg.Model.TimeoutSec) * time.Second,
		Logger:      logger,
	})

	fetcher := rulingsrepo.NewFetcher(time.Duration(cfg.Rulings.TimeoutSec)*time.Second, logger)

	// Use case services
	matchSvc := matchuc.New(searchClient, cfg.Search.CardIndex).
		WithPageSize(cfg.Search.LexicalSize)
	enrichSvc := enrichuc.New(fetcher).
		WithMaxConcurrent(cfg.Rulings.MaxConcurrent)
	retrieveSvc := retrieveuc.New(searchClient, embedder).
		WithOverfetchFactor(cfg.Search.OverfetchFactor)
	answerSvc := answeruc.New(matchSvc, enrichSvc, retrieveSvc, generator,
		answeruc.Indexes{Rules: cfg.Search.RulesIndex, QA: cfg.Search.QAIndex},
		cfg.Search.TopK,
	)

	var cachePinger healthuc.CachePinger
	if cacheStore != nil {
		cachePinger = cacheStore
	}
	healthSvc := healthuc.New(searchClient, cachePinger, embedderHealthChecker(cfg, logger))

	server := chiTransport.NewServer(answerSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Register(r)

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

// buildEmbedder assembles the embedder chain: OpenAI -> Cached. The cache
// store is returned separately so main can close it and wire health checks.
func buildEmbedder(cfg config.Config, logger *zap.Logger) (retrieveuc.Embedder, *cache.Store) {
	base := openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Timeout:    time.Duration(cfg.Embedding.TimeoutSec) * time.Second,
		Logger:     logger,
	})

	if len(cfg.Cache.Addrs) == 0 {
		return base, nil
	}

	store, err := cache.NewStore(cache.Config{
		Addrs:    cfg.Cache.Addrs,
		Username: cfg.Cache.Username,
		Password: cfg.Cache.Password,
	})
	if err != nil {
		logger.Warn("Embedding cache unavailable, continuing without it", zap.Error(err))
		return base, nil
	}

	ttl := time.Duration(cfg.Cache.TTLHours) * time.Hour
	return embcache.New(base, store, ttl, logger), store
}

// embedderHealthChecker builds a dedicated provider client for health checks
// so probe traffic never hits the embedding cache.
func embedderHealthChecker(cfg config.Config, logger *zap.Logger) healthuc.EmbeddingChecker {
	return openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:  cfg.Embedding.APIKey,
		BaseURL: cfg.Embedding.BaseURL,
		Model:   cfg.Embedding.Model,
		Timeout: time.Duration(cfg.Embedding.TimeoutSec) * time.Second,
		Logger:  logger,
	})
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

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWith(r.Context(), reqLogger)

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
