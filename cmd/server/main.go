package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"

	httpAdapter "github.com/gigsy2025/gigsy-reconciler/internal/adapter/http"
	"github.com/gigsy2025/gigsy-reconciler/internal/adapter/http/handler"
	"github.com/gigsy2025/gigsy-reconciler/internal/adapter/http/middleware"
	postgresRepo "github.com/gigsy2025/gigsy-reconciler/internal/adapter/repository/postgres"
	redisRepo "github.com/gigsy2025/gigsy-reconciler/internal/adapter/repository/redis"
	"github.com/gigsy2025/gigsy-reconciler/internal/infrastructure/alerting"
	"github.com/gigsy2025/gigsy-reconciler/internal/infrastructure/config"
	"github.com/gigsy2025/gigsy-reconciler/internal/infrastructure/logger"
	"github.com/gigsy2025/gigsy-reconciler/internal/infrastructure/metrics"
	"github.com/gigsy2025/gigsy-reconciler/internal/infrastructure/postgres"
	"github.com/gigsy2025/gigsy-reconciler/internal/infrastructure/redis"
	"github.com/gigsy2025/gigsy-reconciler/internal/scheduler"
	"github.com/gigsy2025/gigsy-reconciler/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "gigsy-reconciler",
	})

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Metrics and alerting
	metricsBundle := metrics.New()
	alertSink := alerting.NewFanOutSink(
		alerting.NewLogSink(log),
		alerting.NewMetricsSink(metricsBundle),
	)

	// Repositories
	retrier := postgresRepo.NewRetrier(log)
	walletRepo := postgresRepo.NewWalletRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	projectionRepo := postgresRepo.NewProjectionRepository(pool, retrier)
	healthRepo := postgresRepo.NewHealthRepository(pool)
	runLock := redisRepo.NewRunLock(redisClient, cfg.ReconcileLockTTL)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()

	// Use cases
	detector := usecase.NewDriftDetector(ledgerRepo, projectionRepo)
	reconcileUC := usecase.NewReconcileUseCase(
		detector,
		walletRepo,
		projectionRepo,
		alertSink,
		runLock,
		idGen,
		usecase.ReconcileConfig{
			BatchSize:                cfg.ReconcileBatchSize,
			RunTimeout:               cfg.ReconcileRunTimeout,
			ErrorRateThreshold:       cfg.ErrorRateThreshold,
			DiscrepancyRateThreshold: cfg.DiscrepancyRateAlert,
			DriftThreshold:           decimal.NewFromFloat(cfg.DriftThreshold),
		},
		metricsBundle,
		log,
	)
	healthUC := usecase.NewHealthUseCase(healthRepo, reconcileUC, log)

	// HTTP surface
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		ReconcileHandler: handler.NewReconcileHandler(reconcileUC),
		HealthHandler:    handler.NewHealthHandler(healthUC, pool, redisClient),
		Logging:          middleware.NewLoggingMiddleware(log),
		Metrics:          middleware.NewMetricsMiddleware(metricsBundle),
		Recovery:         middleware.NewRecoveryMiddleware(log),
		Idempotency:      middleware.NewIdempotencyMiddleware(idempotencyStore, cfg.IdempotencyTTL),
	})

	// Scheduled runs
	sched := scheduler.New(log)
	if cfg.ScheduleEnabled {
		job := scheduler.NewReconcileJob(reconcileUC, cfg.ScheduleDryRun)
		if err := sched.AddJob(cfg.ScheduleCron, job); err != nil {
			log.Fatal().Err(err).Str("schedule", cfg.ScheduleCron).Msg("failed to register reconcile job")
		}
		sched.Start()
		defer sched.Stop()
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
