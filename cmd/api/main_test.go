package main

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-service/config"
	"github.com/pageza/recipe-service/internal/middleware"
	"github.com/pageza/recipe-service/internal/testhelpers"
)

func limiterConfig() *config.Config {
	return &config.Config{
		RateLimitEnabled: true,
		RateLimitWindow:  time.Minute,
		RateLimitMax:     10,
		RateLimitRPS:     1,
		RateLimitBurst:   5,
	}
}

func TestNewLimiterDisabled(t *testing.T) {
	cfg := limiterConfig()
	cfg.RateLimitEnabled = false

	limiter, closeLimiter := newLimiter(context.Background(), cfg, slog.Default())

	assert.Nil(t, limiter)
	assert.NoError(t, closeLimiter())
}

func TestNewLimiterInMemoryWithoutRedis(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	limiter, closeLimiter := newLimiter(ctx, limiterConfig(), slog.Default())

	assert.IsType(t, &middleware.MemoryLimiter{}, limiter)
	assert.NoError(t, closeLimiter())
}

func TestNewLimiterFallsBackWhenRedisUnreachable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cfg := limiterConfig()
	cfg.RedisHost = "127.0.0.1"
	cfg.RedisPort = "1"

	limiter, closeLimiter := newLimiter(ctx, cfg, slog.Default())

	assert.IsType(t, &middleware.MemoryLimiter{}, limiter)
	assert.NoError(t, closeLimiter())
}

func TestNewLimiterClosesRedisClient(t *testing.T) {
	redisClient := testhelpers.SetupRedis(t)
	cfg := limiterConfig()
	cfg.RedisURL = "redis://" + redisClient.Options().Addr

	limiter, closeLimiter := newLimiter(context.Background(), cfg, slog.Default())
	require.IsType(t, &middleware.RateLimiter{}, limiter)

	_, err := limiter.Allow(context.Background(), "10.0.0.1")
	require.NoError(t, err)

	require.NoError(t, closeLimiter())
	_, err = limiter.Allow(context.Background(), "10.0.0.1")
	assert.Error(t, err)
}
