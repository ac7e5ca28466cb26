package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/nutrilog/backend/config"
	"github.com/pageza/nutrilog/backend/internal/api"
	"github.com/pageza/nutrilog/backend/internal/metrics"
	"github.com/pageza/nutrilog/backend/internal/middleware"
	"github.com/pageza/nutrilog/backend/internal/service"
	"github.com/pageza/nutrilog/backend/internal/storage"
)

const (
	readHeaderTimeout = 10 * time.Second
	idleTimeout       = 2 * time.Minute
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
}

// New wires the services and routes. A nil redis client disables rate
// limiting and a nil store disables diary exports.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, store storage.ObjectStore) *Server {
	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.RequestLogger())
	router.Use(metrics.Middleware())
	router.Use(middleware.CORS(cfg.CORSOrigins))

	meals := service.NewConsumptionService(db)
	api.RegisterRoutes(router, db, api.Services{
		Auth:         service.NewAuthService(db, cfg.JWTSecret, cfg.TokenTTL),
		Products:     service.NewProductService(db),
		Recipes:      service.NewRecipeService(db),
		Consumptions: meals,
		BodyMetrics:  service.NewBodyMetricService(db),
		Statistics:   service.NewStatisticsService(db),
		Exports:      service.NewExportService(meals, store, cfg.ExportURLTTL),
	}, api.Limiters{
		Auth:   middleware.NewAuthRateLimiter(rdb),
		Writes: middleware.NewWriteRateLimiter(rdb, cfg.RateLimit, cfg.RateLimitWindow),
	})

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           router,
			ReadHeaderTimeout: readHeaderTimeout,
			IdleTimeout:       idleTimeout,
		},
	}
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens until the server is shut down.
func (s *Server) Start() error {
	slog.Info("starting server", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
