// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/biolink-labs/biolink-api/internal/admin"
	"github.com/biolink-labs/biolink-api/internal/auth"
	"github.com/biolink-labs/biolink-api/internal/config"
	"github.com/biolink-labs/biolink-api/internal/core"
	"github.com/biolink-labs/biolink-api/internal/entitlement"
	"github.com/biolink-labs/biolink-api/internal/health"
	"github.com/biolink-labs/biolink-api/internal/middleware"
	"github.com/biolink-labs/biolink-api/internal/page"
	"github.com/biolink-labs/biolink-api/internal/server"
	"github.com/biolink-labs/biolink-api/internal/storage"
	"github.com/biolink-labs/biolink-api/internal/user"
)

const (
	drainDelay  = 5 * time.Second
	taskTimeout = 30 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	mongo, err := core.NewMongo(ctx, cfg.Mongo)
	if err != nil {
		return err
	}
	logger.Info("mongo connected",
		"database", cfg.Mongo.Database,
		"max_pool_size", cfg.Mongo.MaxPoolSize,
	)

	if err := ensureIndexes(ctx, mongo); err != nil {
		return err
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.GetKeyID(),
	)

	tasks := core.NewTaskRunner(taskTimeout, logger)

	paymentsClient := entitlement.NewClient(cfg.Payments)
	resolver := entitlement.NewResolver(paymentsClient, logger)

	storageClient := storage.NewClient(cfg.Storage)

	userRepo := user.NewRepository(mongo)
	pageRepo := page.NewRepository(mongo)

	userSvc := user.NewService(userRepo, nil, storageClient, tasks, logger)
	pageSvc := page.NewService(
		pageRepo,
		userSvc,
		resolver,
		storageClient,
		tasks,
		logger,
	)
	userSvc.SetPageRemover(pageSvc)

	userHandler := user.NewHandler(userSvc)
	pageHandler := page.NewHandler(pageSvc)

	authRepo := auth.NewRepository(mongo)
	authSvc := auth.NewService(authRepo, jwtManager, userSvc, redis.Client)
	authHandler := auth.NewHandler(authSvc)

	healthHandler := health.NewHandler(mongo, redis)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		MongoPing:  mongo.Ping,
		RedisPing:  redis.Ping,
		RedisStats: redis.PoolStats,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.App.Environment == "production"))
	router.Use(middleware.CORS(cfg.CORS))
	router.Use(middleware.Lang)

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())

	authenticator := middleware.Authenticator(jwtManager)
	apiKeyGuard := middleware.APIKey(cfg.System.APIKey)

	authHandler.RegisterRoutes(router, authenticator)
	userHandler.RegisterRoutes(router, authenticator)
	userHandler.RegisterSystemRoutes(router, apiKeyGuard)
	pageHandler.RegisterRoutes(router, authenticator)
	adminHandler.RegisterRoutes(router, apiKeyGuard)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	// Dispatched media cleanups and view increments get to finish before
	// the stores go away.
	tasks.Wait()

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := mongo.Close(shutdownCtx); err != nil {
		logger.Error("mongo close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func ensureIndexes(ctx context.Context, mongo *core.Mongo) error {
	if err := user.EnsureIndexes(ctx, mongo); err != nil {
		return err
	}
	if err := page.EnsureIndexes(ctx, mongo); err != nil {
		return err
	}
	return auth.EnsureIndexes(ctx, mongo)
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
