package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Decision is the outcome of a single rate limit check
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Time
}

// Limiter decides whether a request identified by key may proceed
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Key prefix for Redis keys
	KeyPrefix string
}

// RateLimiter is a fixed-window limiter shared across replicas through Redis
type RateLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
}

// NewRateLimiter creates a new rate limiter instance
func NewRateLimiter(redisClient *redis.Client, config RateLimitConfig) *RateLimiter {
	if config.KeyPrefix == "" {
		config.KeyPrefix = "rate_limit:recipe_mutation"
	}
	return &RateLimiter{
		redis:  redisClient,
		config: config,
	}
}

// Allow implements Limiter
func (rl *RateLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	allowed, remaining, reset, err := rl.IsAllowed(ctx, key)
	if err != nil {
		return Decision{}, err
	}
	return Decision{Allowed: allowed, Limit: rl.config.Limit, Remaining: remaining, Reset: reset}, nil
}

// IsAllowed counts a request against key in the current window
// Returns: allowed, remaining requests, reset time, error
func (rl *RateLimiter) IsAllowed(ctx context.Context, key string) (bool, int, time.Time, error) {
	windowStart := time.Now().Truncate(rl.config.Window)
	redisKey := rl.windowKey(key, windowStart)

	pipe := rl.redis.Pipeline()
	incrCmd := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, rl.config.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := int(incrCmd.Val())
	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}

	return count <= rl.config.Limit, remaining, windowStart.Add(rl.config.Window), nil
}

// GetRemainingRequests returns the number of remaining requests for key
// without consuming one
func (rl *RateLimiter) GetRemainingRequests(ctx context.Context, key string) (int, time.Time, error) {
	windowStart := time.Now().Truncate(rl.config.Window)
	resetTime := windowStart.Add(rl.config.Window)

	count, err := rl.redis.Get(ctx, rl.windowKey(key, windowStart)).Int()
	if err == redis.Nil {
		return rl.config.Limit, resetTime, nil
	}
	if err != nil {
		return 0, time.Time{}, err
	}

	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, resetTime, nil
}

func (rl *RateLimiter) windowKey(key string, windowStart time.Time) string {
	return fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, key, windowStart.Unix())
}

// MemoryLimiter is a per-process token bucket limiter keyed by client
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	rps     rate.Limit
	burst   int
	idleTTL time.Duration
}

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// NewMemoryLimiter creates a limiter refilling rps tokens per second up to burst
func NewMemoryLimiter(rps float64, burst int) *MemoryLimiter {
	return &MemoryLimiter{
		entries: make(map[string]*limiterEntry),
		rps:     rate.Limit(rps),
		burst:   burst,
		idleTTL: 15 * time.Minute,
	}
}

// Allow implements Limiter
func (m *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	now := time.Now()
	lim := m.get(key, now)

	allowed := lim.AllowN(now, 1)
	remaining := int(math.Floor(lim.TokensAt(now)))
	if remaining < 0 {
		remaining = 0
	}

	reset := now
	if m.rps > 0 {
		missing := float64(m.burst) - lim.TokensAt(now)
		reset = now.Add(time.Duration(missing / float64(m.rps) * float64(time.Second)))
	}

	return Decision{Allowed: allowed, Limit: m.burst, Remaining: remaining, Reset: reset}, nil
}

func (m *MemoryLimiter) get(key string, now time.Time) *rate.Limiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ent, ok := m.entries[key]; ok {
		ent.lastSeen = now
		return ent.lim
	}
	lim := rate.NewLimiter(m.rps, m.burst)
	m.entries[key] = &limiterEntry{lim: lim, lastSeen: now}
	return lim
}

// Cleanup forgets clients idle for longer than the idle TTL
func (m *MemoryLimiter) Cleanup() {
	cutoff := time.Now().Add(-m.idleTTL)

	m.mu.Lock()
	defer m.mu.Unlock()
	for k, ent := range m.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(m.entries, k)
		}
	}
}

// StartJanitor runs Cleanup every interval until ctx is done
func (m *MemoryLimiter) StartJanitor(ctx context.Context, every time.Duration) {
	if every <= 0 {
		return
	}
	t := time.NewTicker(every)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				m.Cleanup()
			}
		}
	}()
}

// RateLimit returns a Gin middleware that limits requests per client IP.
// Limiter failures let the request through.
func RateLimit(l Limiter, logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c *gin.Context) {
		d, err := l.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			logger.WarnContext(c.Request.Context(), "rate limit check failed", "error", err)
			c.Header("X-RateLimit-Error", "rate limit check failed")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(d.Reset.Unix(), 10))

		if !d.Allowed {
			rateLimitRejects.Inc()
			retryAfter := int(math.Ceil(time.Until(d.Reset).Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{Error: "rate limit exceeded"})
			return
		}

		c.Next()
	}
}
