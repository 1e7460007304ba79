package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/nicoshinozaki/Smart-Shelving-System/internal/core/port"
	"github.com/nicoshinozaki/Smart-Shelving-System/internal/infra/config"
	"github.com/nicoshinozaki/Smart-Shelving-System/internal/transport/http/handlers"
	"github.com/nicoshinozaki/Smart-Shelving-System/internal/transport/http/middleware"
	"github.com/nicoshinozaki/Smart-Shelving-System/internal/usecase"
)

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	RateLimiter *middleware.RateLimiter
	Auth        *usecase.AuthService
	Inventory   port.InventorySource
	Metrics     *middleware.HTTPMetrics
	Database    DatabaseChecker
	Cache       CacheChecker
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for cache backends.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.CORS([]string{deps.Config.App.ClientOrigin}))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Instrument())
	}

	sessionGate := middleware.RequireSession(deps.Auth)

	healthOptions := make([]handlers.HealthOption, 0, 2)
	if deps.Database != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("database", deps.Database.Ping))
	}
	if deps.Cache != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("redis", deps.Cache.HealthCheck))
	}

	healthHandler := handlers.NewHealthHandler(healthOptions...)
	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Readiness)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	secureCookies := deps.Config.App.IsProduction()

	api := r.Group("/api")
	api.Use(middleware.CSRFGuard())
	{
		csrfHandler := handlers.NewCSRFHandler(secureCookies)
		api.GET("/csrf-token", csrfHandler.Token)

		authHandler := handlers.NewAuthHandler(deps.Auth, secureCookies)
		loginMiddlewares := buildLoginMiddlewares(deps)
		authHandler.RegisterRoutes(api, sessionGate, loginMiddlewares...)

		inventoryHandler := handlers.NewInventoryHandler(deps.Inventory, deps.Logger)
		api.GET("/items", sessionGate, inventoryHandler.Items)
	}

	return r
}

func buildLoginMiddlewares(deps Dependencies) []gin.HandlerFunc {
	if deps.RateLimiter == nil {
		return nil
	}

	cfg := deps.Config.RateLimit
	if cfg.LoginMaxAttempts <= 0 || cfg.WindowDuration <= 0 {
		return nil
	}

	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(middleware.RateLimitRule{
		Name:   "login",
		Limit:  cfg.LoginMaxAttempts,
		Window: cfg.WindowDuration,
	})}
}
