package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/york1996-max/filebridge/internal/config"
	"github.com/york1996-max/filebridge/internal/fileaccess"
	httpapi "github.com/york1996-max/filebridge/internal/http"
	"github.com/york1996-max/filebridge/internal/logging"
	"github.com/york1996-max/filebridge/internal/middleware"
	"github.com/york1996-max/filebridge/internal/monitoring"
	"github.com/york1996-max/filebridge/internal/service"
	"github.com/york1996-max/filebridge/internal/translator"
	"github.com/york1996-max/filebridge/internal/types"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router   *gin.Engine
	registry *service.Registry
	metrics  *monitoring.Metrics
	log      *logging.Logger
	httpSrv  *http.Server
}

// NewServer creates a server from the loaded configuration and source
// definitions.
func NewServer(cfg *config.Config, sources *config.SourcesFile, log *logging.Logger) (*Server, error) {
	registry := service.NewRegistry()
	metrics := monitoring.NewMetrics()

	for _, spec := range sources.Sources {
		provider, err := buildProvider(spec, cfg.Defaults, log)
		if err != nil {
			return nil, fmt.Errorf("source %q: %w", spec.Name, err)
		}
		if err := registry.Register(provider); err != nil {
			return nil, fmt.Errorf("source %q: %w", spec.Name, err)
		}
		log.Info("registered source", zap.String("name", spec.Name), zap.String("type", spec.Type))
	}

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}
	router.Use(metrics.HTTPMiddleware())

	handlers := httpapi.NewHandlers(registry, metrics, log)

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/procedures", handlers.ListProcedures)
	router.POST("/procedures/:source/:name", handlers.ExecuteProcedure)
	router.GET("/files/:source/content", handlers.DownloadFile)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	return &Server{
		router:   router,
		registry: registry,
		metrics:  metrics,
		log:      log,
		httpSrv:  &http.Server{Addr: addr, Handler: router},
	}, nil
}

// Registry exposes the source registry, mainly for tests.
func (s *Server) Registry() *service.Registry { return s.registry }

// Run starts the server and blocks until it stops.
func (s *Server) Run() error {
	s.log.Info("starting server", zap.String("addr", s.httpSrv.Addr))
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close shuts the server down gracefully.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpSrv.Shutdown(ctx)
}

// buildProvider constructs the fileaccess realization a source spec
// names and wraps it in a procedure provider.
func buildProvider(spec config.SourceSpec, defaults config.DefaultsConfig, log *logging.Logger) (*translator.Provider, error) {
	cfg := translator.Config{
		Encoding:      defaults.Encoding,
		FailOnMissing: defaults.FailOnMissing,
	}
	if spec.Encoding != "" {
		cfg.Encoding = spec.Encoding
	}
	if spec.FailOnMissing != nil {
		cfg.FailOnMissing = *spec.FailOnMissing
	}

	switch spec.Type {
	case "local":
		access, err := fileaccess.NewLocal(spec.Root)
		if err != nil {
			return nil, err
		}
		return translator.New(spec.Name, types.CategoryLocal, access, cfg, log), nil
	case "virtual":
		access := fileaccess.NewVirtual()
		for _, archive := range spec.Archives {
			if err := access.LoadArchive(archive); err != nil {
				return nil, err
			}
		}
		return translator.New(spec.Name, types.CategoryVirtual, access, cfg, log), nil
	default:
		return nil, fmt.Errorf("unknown source type %q", spec.Type)
	}
}
