package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/smilinTux/forgeprint-sub000/internal/api/http"
	"github.com/smilinTux/forgeprint-sub000/internal/api/middleware"
	"github.com/smilinTux/forgeprint-sub000/internal/domain/blueprint"
	"github.com/smilinTux/forgeprint-sub000/internal/domain/catalog"
	"github.com/smilinTux/forgeprint-sub000/internal/domain/search"
	"github.com/smilinTux/forgeprint-sub000/internal/infrastructure/config"
	"github.com/smilinTux/forgeprint-sub000/internal/infrastructure/logging"
	"github.com/smilinTux/forgeprint-sub000/internal/infrastructure/monitoring"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
	metricsPath       = "/api/metrics"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router  *gin.Engine
	store   *blueprint.Store
	logger  *logging.Logger
	config  *config.Config
	metrics *monitoring.Metrics
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return NewServerWithLogger(cfg, logger)
}

// NewServerWithLogger creates a server that logs to logger
func NewServerWithLogger(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	logger.Info("Initializing blueprint server",
		zap.String("addr", cfg.Server.Addr()),
		zap.String("root", cfg.Blueprints.Root),
		zap.Bool("cache", cfg.Blueprints.Cache),
	)

	metrics := monitoring.NewMetrics()

	var cache *catalog.Cache
	if cfg.Blueprints.Cache {
		cache = catalog.NewCache()
		logger.Info("Catalog cache enabled")
	}

	store := blueprint.NewStore(cfg.Blueprints.Root, blueprint.Options{
		ExcerptLines: cfg.Blueprints.ExcerptLines,
		Cache:        cache,
		Observer:     metrics,
	})
	searcher := search.NewSearcher(store, cfg.Search.MaxResults)

	spa, err := apihttp.SPA(cfg.Server.StaticDir)
	if err != nil {
		return nil, fmt.Errorf("failed to set up client: %w", err)
	}

	// Create router
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware
	corsCfg := middleware.DefaultCORSConfig()
	router.Use(gin.Recovery())
	router.Use(logging.Middleware(logger))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(corsCfg))
	router.Use(middleware.Preflight(corsCfg))
	router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{metricsPath})))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	handlers := apihttp.NewHandlers(store, searcher, apihttp.NewHandlerMetrics(metrics), logger)

	// Register routes
	api := router.Group("/api")
	api.GET("/health", handlers.Health)

	// Blueprints
	api.GET("/blueprints", handlers.ListBlueprints)
	api.GET("/blueprints/:id", handlers.GetBlueprint)
	api.GET("/blueprints/:id/features", handlers.GetFeatures)
	api.GET("/blueprints/:id/files/*path", handlers.GetFile)

	// Stacks and search
	api.GET("/stacks", handlers.ListStacks)
	api.GET("/search", handlers.Search)

	// Drivers
	api.POST("/generate-driver", handlers.GenerateDriver)

	// Metrics
	router.GET(metricsPath, gin.WrapH(metrics.Handler()))

	// Everything else is the client
	router.NoRoute(spa)

	logger.Info("Server initialized successfully")

	return &Server{
		router:  router,
		store:   store,
		logger:  logger,
		config:  cfg,
		metrics: metrics,
	}, nil
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Metrics returns the server's metrics collector.
func (s *Server) Metrics() *monitoring.Metrics {
	return s.metrics
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	addr := s.config.Server.Addr()

	if ids, err := s.store.Categories(ctx); err != nil {
		s.logger.Warn("Failed to scan blueprint root", zap.Error(err))
	} else {
		s.logger.Info("Blueprints discovered", zap.Int("count", len(ids)))
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", zap.String("addr", addr))
		errChan <- srv.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

// Close flushes buffered logs
func (s *Server) Close() error {
	// Sync fails on stdout for some platforms; it is not actionable.
	_ = s.logger.Sync()
	return nil
}
