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
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/fittingroom/fitsearch/internal/config"
	dbRedis "github.com/fittingroom/fitsearch/internal/db/redis"
	"github.com/fittingroom/fitsearch/internal/domain"
	logpkg "github.com/fittingroom/fitsearch/internal/logger"
	"github.com/fittingroom/fitsearch/internal/metrics"
	"github.com/fittingroom/fitsearch/internal/repository/catalog"
	"github.com/fittingroom/fitsearch/internal/repository/embcache"
	"github.com/fittingroom/fitsearch/internal/repository/vectorindex"
	chiTransport "github.com/fittingroom/fitsearch/internal/transport/chi"
	"github.com/fittingroom/fitsearch/internal/transport/llm"
	openaiEmb "github.com/fittingroom/fitsearch/internal/transport/openai"
	discoveryuc "github.com/fittingroom/fitsearch/internal/usecase/discovery"
	healthuc "github.com/fittingroom/fitsearch/internal/usecase/health"
	interpretuc "github.com/fittingroom/fitsearch/internal/usecase/interpret"
	productuc "github.com/fittingroom/fitsearch/internal/usecase/product"
	"github.com/fittingroom/fitsearch/internal/version"
)

func main() {
	// Load configuration based on ENV
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

	logger.Info("Starting fitsearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("catalog_path", cfg.Catalog.Path),
		zap.Strings("vector_addrs", cfg.Vector.Addrs),
	)

	// Relational catalog
	catalogRepo, err := catalog.Open(cfg.Catalog.Path)
	if err != nil {
		logger.Fatal("Failed to open catalog", zap.Error(err))
	}
	defer catalogRepo.Close()

	// Vector store
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Vector.Addrs,
		Password: cfg.Vector.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create vector store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Vector.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Vector store not ready", zap.Error(err))
	}
	logger.Info("Connected to vector store")

	vectorRepo := vectorindex.New(store, vectorindex.Config{
		IndexName: cfg.Vector.IndexName,
		KeyPrefix: cfg.Vector.KeyPrefix,
		Dim:       cfg.Embedding.Dimensions,
		HNSW: vectorindex.HNSWConfig{
			M:           cfg.Vector.HNSWM,
			EFConstruct: cfg.Vector.HNSWEFConstruct,
		},
	})
	if err := vectorRepo.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to ensure vector index", zap.Error(err))
	}

	// Register provider metrics explicitly (no init())
	metrics.RegisterProviderMetrics()

	// Embedder chain: OpenAI -> cached
	baseEmbedder := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:      cfg.Embedding.APIKey,
		BaseURL:     cfg.Embedding.BaseURL,
		Model:       cfg.Embedding.Model,
		Dimensions:  cfg.Embedding.Dimensions,
		MaxAttempts: cfg.Embedding.MaxAttempts,
		Logger:      logger,
	})
	var embedder domain.Embedder = embcache.New(
		baseEmbedder, store, cfg.Embedding.Model,
		time.Duration(cfg.Embedding.CacheTTLHours)*time.Hour,
		metrics.EmbeddingCacheTotal, logger,
	)
	logger.Info("Embedder created",
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	// Attribute interpreter: chat model with deterministic fallback
	var completer interpretuc.Completer
	chatCompleter, err := llm.NewCompleter(&llm.Config{
		APIKey:     cfg.LLM.APIKey,
		BaseURL:    cfg.LLM.BaseURL,
		Model:      cfg.LLM.Model,
		TimeoutSec: cfg.LLM.TimeoutSec,
		Logger:     logger,
	})
	if err != nil {
		logger.Warn("Chat model unavailable, interpretation will use fallback table", zap.Error(err))
	} else {
		completer = chatCompleter
	}
	interpretSvc := interpretuc.New(completer, cfg.Search.MaxAttributes)

	// Retrieval worker pool shared across requests
	pool, err := ants.NewPool(cfg.Search.Concurrency)
	if err != nil {
		logger.Fatal("Failed to create worker pool", zap.Error(err))
	}
	defer pool.Release()

	discoverySvc := discoveryuc.New(
		interpretSvc, embedder, vectorRepo, catalogRepo, pool,
		discoveryuc.Config{
			TopKPerAttribute: cfg.Search.TopKPerAttribute,
			RetrievalTimeout: time.Duration(cfg.Search.RetrievalTimeoutMS) * time.Millisecond,
			DefaultPageSize:  cfg.Search.DefaultPageSize,
			MaxPageSize:      cfg.Search.MaxPageSize,
		},
	)
	productSvc := productuc.New(catalogRepo, vectorRepo, embedder)
	healthSvc := healthuc.New(catalogRepo, vectorRepo, baseEmbedder)

	server := chiTransport.NewServer(discoverySvc, productSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
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
						"error": "internal error",
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
