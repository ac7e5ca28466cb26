package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pageza/nutrilog/backend/internal/database"
	"github.com/pageza/nutrilog/backend/internal/metrics"
	"github.com/pageza/nutrilog/backend/internal/middleware"
	"github.com/pageza/nutrilog/backend/internal/service"
)

// Services bundles the domain services the handlers depend on.
type Services struct {
	Auth         service.IAuthService
	Products     service.IProductService
	Recipes      service.IRecipeService
	Consumptions service.IConsumptionService
	BodyMetrics  service.IBodyMetricService
	Statistics   service.IStatisticsService
	Exports      service.IExportService
}

// Limiters are the rate limiters applied to public and write routes. Nil
// limiters let every request through.
type Limiters struct {
	Auth   *middleware.RateLimiter
	Writes *middleware.RateLimiter
}

// HealthCheck reports whether the API and its database are reachable
func HealthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := database.HealthCheck(c.Request.Context(), db); err != nil {
			slog.Warn("health check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unreachable",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"message":  "NutriLog API is running",
			"database": "ok",
		})
	}
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, db *gorm.DB, svc Services, limiters Limiters) {
	router.GET("/health", HealthCheck(db))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	writes := limit(limiters.Writes)

	v1 := router.Group("/api/v1")
	NewAuthHandler(svc.Auth, limit(limiters.Auth)).RegisterRoutes(v1)

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(svc.Auth))
	NewProductHandler(svc.Products, writes).RegisterRoutes(protected)
	NewRecipeHandler(svc.Recipes, writes).RegisterRoutes(protected)
	NewConsumptionHandler(svc.Consumptions, writes).RegisterRoutes(protected)
	NewBodyMetricHandler(svc.BodyMetrics, writes).RegisterRoutes(protected)
	NewStatisticsHandler(svc.Statistics).RegisterRoutes(protected)
	NewExportHandler(svc.Exports, writes).RegisterRoutes(protected)
}

// limit returns the middleware of rl, or a pass-through when rl is nil.
func limit(rl *middleware.RateLimiter) gin.HandlerFunc {
	if rl == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return rl.RateLimitMiddleware()
}
