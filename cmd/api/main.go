package main

import (
	"context"
	"log"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-service/config"
	"github.com/pageza/recipe-service/internal/api"
	"github.com/pageza/recipe-service/internal/database"
	"github.com/pageza/recipe-service/internal/middleware"
	"github.com/pageza/recipe-service/internal/router"
	"github.com/pageza/recipe-service/internal/server"
	"github.com/pageza/recipe-service/internal/service"
	"github.com/pageza/recipe-service/internal/store"
	"github.com/pageza/recipe-service/internal/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	gin.SetMode(config.GinMode())
	logger := server.NewLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.OTELEndpoint, cfg.ServiceName)
	if err != nil {
		log.Fatalf("Failed to initialise tracing: %v", err)
	}

	recipeStore, closeStore, err := store.Open(ctx, cfg, cfg.MigrationsDir)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.StoreDriver, err)
	}

	limiter, closeLimiter := newLimiter(ctx, cfg, logger)

	recipeService := service.NewRecipeService(recipeStore, logger)
	traceName := ""
	if cfg.OTELEndpoint != "" {
		traceName = cfg.ServiceName
	}
	engine := router.SetupRouter(router.Options{
		Recipes:     api.NewRecipeHandler(recipeService, logger),
		Health:      recipeService,
		Limiter:     limiter,
		Logger:      logger,
		CORSOrigins: cfg.CORSAllowedOrigins,
		ServiceName: traceName,
	})

	srv := server.New(cfg, engine, logger)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	// Block until we receive a signal or error
	select {
	case err := <-errChan:
		if err != nil {
			logger.Error("server error", "error", err)
		}
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	if err := closeStore(shutdownCtx); err != nil {
		logger.Error("store close error", "error", err)
	}
	if err := closeLimiter(); err != nil {
		logger.Error("rate limiter close error", "error", err)
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		logger.Error("tracer shutdown error", "error", err)
	}
	logger.Info("server stopped")
}

// newLimiter prefers the shared Redis limiter and falls back to a
// per-process one when Redis is not configured or not reachable. The
// returned closer releases the Redis client, if any.
func newLimiter(ctx context.Context, cfg *config.Config, logger *slog.Logger) (middleware.Limiter, func() error) {
	noop := func() error { return nil }
	if !cfg.RateLimitEnabled {
		logger.Info("rate limiting disabled")
		return nil, noop
	}

	if cfg.RedisConfigured() {
		client, err := database.NewRedisClient(cfg)
		if err == nil {
			limiter := middleware.NewRateLimiter(client, middleware.RateLimitConfig{
				Window: cfg.RateLimitWindow,
				Limit:  cfg.RateLimitMax,
			})
			return limiter, client.Close
		}
		logger.Warn("failed to connect to Redis for rate limiting, using in-memory limiter", "error", err)
	}

	limiter := middleware.NewMemoryLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	limiter.StartJanitor(ctx, 2*time.Minute)
	return limiter, noop
}
