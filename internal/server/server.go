package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/miragebrowse/mirage/internal/api/http"
	"github.com/miragebrowse/mirage/internal/api/middleware"
	"github.com/miragebrowse/mirage/internal/config"
	"github.com/miragebrowse/mirage/internal/infrastructure/monitoring"
	"github.com/miragebrowse/mirage/internal/logging"
	"github.com/miragebrowse/mirage/internal/proxy"
	"github.com/miragebrowse/mirage/internal/proxy/analytics"
	"github.com/miragebrowse/mirage/internal/proxy/fetch"
	"github.com/miragebrowse/mirage/internal/proxy/policy"
	"github.com/miragebrowse/mirage/internal/proxy/rewrite"
	"github.com/miragebrowse/mirage/internal/proxy/session"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router *gin.Engine
	cfg    *config.Config
	logger *logging.Logger
	source *policy.StaticSource
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		OutputPaths: []string{"stdout"},
	})
	if err != nil {
		return nil, err
	}

	metrics := monitoring.NewMetrics()
	source := policy.NewStaticSource(cfg.Policy.BlockedDomains, cfg.Policy.Maintenance)
	sessions := session.NewStore()

	service := proxy.NewService(
		policy.NewGate(source),
		fetch.New(cfg.Upstream, logger),
		rewrite.New(logger),
		sessions,
		analytics.NewLogRecorder(logger),
		metrics,
		logger,
	)
	handlers := http.NewHandlers(service, sessions, logger)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.POST("/proxy", handlers.Proxy)

	return &Server{
		router: router,
		cfg:    cfg,
		logger: logger,
		source: source,
	}, nil
}

// Run starts the server
func (s *Server) Run() error {
	addr := s.cfg.Server.Host + ":" + s.cfg.Server.Port
	s.logger.Info("starting proxy server", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Close cleans up resources
func (s *Server) Close() error {
	return s.logger.Sync()
}

// PolicySource exposes the runtime-mutable policy state.
func (s *Server) PolicySource() *policy.StaticSource {
	return s.source
}
