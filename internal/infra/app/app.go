package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/nicoshinozaki/Smart-Shelving-System/internal/core/domain"
	"github.com/nicoshinozaki/Smart-Shelving-System/internal/core/port"
	"github.com/nicoshinozaki/Smart-Shelving-System/internal/infra/config"
	"github.com/nicoshinozaki/Smart-Shelving-System/internal/infra/database"
	kafkainfra "github.com/nicoshinozaki/Smart-Shelving-System/internal/infra/kafka"
	"github.com/nicoshinozaki/Smart-Shelving-System/internal/infra/logger"
	redisinfra "github.com/nicoshinozaki/Smart-Shelving-System/internal/infra/redis"
	"github.com/nicoshinozaki/Smart-Shelving-System/internal/infra/security"
	postgresrepo "github.com/nicoshinozaki/Smart-Shelving-System/internal/repository/postgres"
	redisrepo "github.com/nicoshinozaki/Smart-Shelving-System/internal/repository/redis"
	sheetsrepo "github.com/nicoshinozaki/Smart-Shelving-System/internal/repository/sheets"
	"github.com/nicoshinozaki/Smart-Shelving-System/internal/transport/http/middleware"
	"github.com/nicoshinozaki/Smart-Shelving-System/internal/transport/http/routes"
	"github.com/nicoshinozaki/Smart-Shelving-System/internal/usecase"
)

type Application struct {
	cfg      *config.AppConfig
	engine   *gin.Engine
	logger   *zap.Logger
	pool     *pgxpool.Pool
	redis    *redisinfra.Client
	producer *kafkainfra.Producer
}

func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	// Fatal when the signing secret is absent; never a per-request failure.
	tokenService, err := security.NewTokenService(cfg.JWT.Secret, cfg.App.Name)
	if err != nil {
		return nil, fmt.Errorf("init token service: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	redisClient, err := redisinfra.NewClient(cfg.Redis, log)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init redis: %w", err)
	}

	users := postgresrepo.NewUserRepository(pool)
	revocations := redisrepo.NewRevocationRepository(redisClient.Client(), cfg.Redis.RevocationPrefix)

	rateLimitTTL := cfg.RateLimit.WindowDuration * 2
	if rateLimitTTL <= 0 {
		rateLimitTTL = 30 * time.Minute
	}
	rateLimitStore := redisrepo.NewRateLimitRepository(redisClient.Client(), redisrepo.SlidingWindowConfig{
		KeyPrefix: cfg.Redis.RateLimitPrefix,
		TTL:       rateLimitTTL,
	})
	rateLimiter := middleware.NewRateLimiter(rateLimitStore, log)

	var producer *kafkainfra.Producer
	var eventPublisher port.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err = kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			eventPublisher = kafkainfra.NewStubPublisher(log)
		} else {
			eventPublisher = kafkainfra.NewEventPublisher(producer, cfg.App, log)
			log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		eventPublisher = kafkainfra.NewStubPublisher(log)
	}

	policy := domain.NewDegradationPolicy(domain.ParseDegradationPolicyMode(cfg.Revocation.DegradationPolicy))
	log.Info("revocation degradation policy configured", zap.String("mode", string(policy.Mode())))

	authService := usecase.NewAuthService(users, revocations, tokenService, policy, log).
		WithTokenLifetimes(cfg.JWT.SessionTTL, cfg.JWT.ExtendedSessionTTL).
		WithEventPublisher(eventPublisher)

	var inventory port.InventorySource
	if cfg.Sheets.SpreadsheetID != "" {
		source, err := sheetsrepo.NewInventoryRepository(ctx, cfg.Sheets)
		if err != nil {
			log.Warn("failed to init sheets inventory source, endpoint will report unavailable", zap.Error(err))
		} else {
			inventory = source
			log.Info("sheets inventory source initialized", zap.String("range", cfg.Sheets.ReadRange))
		}
	} else {
		log.Info("sheets spreadsheet not configured, inventory endpoint will report unavailable")
	}

	metrics, err := middleware.NewHTTPMetrics(nil)
	if err != nil {
		return nil, fmt.Errorf("init http metrics: %w", err)
	}

	engine := routes.Register(routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		RateLimiter: rateLimiter,
		Auth:        authService,
		Inventory:   inventory,
		Metrics:     metrics,
		Database:    pool,
		Cache:       redisClient,
	})

	return &Application{
		cfg:      cfg,
		engine:   engine,
		logger:   log,
		pool:     pool,
		redis:    redisClient,
		producer: producer,
	}, nil
}

func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
		}
	}()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()
	defer func() {
		if a.producer != nil {
			_ = a.producer.Close()
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting smart shelving API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
