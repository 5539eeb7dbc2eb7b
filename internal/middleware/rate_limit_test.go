package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-service/internal/testhelpers"
)

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (Decision, error) {
	return Decision{}, errors.New("redis down")
}

func limitedRouter(l Limiter) *gin.Engine {
	r := gin.New()
	r.POST("/create", RateLimit(l, nil), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return r
}

func post(r http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/create", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMemoryLimiterRejectsAfterBurst(t *testing.T) {
	r := limitedRouter(NewMemoryLimiter(0.001, 2))

	assert.Equal(t, http.StatusOK, post(r, "10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusOK, post(r, "10.0.0.1:1234").Code)

	w := post(r, "10.0.0.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	// other clients have their own bucket
	assert.Equal(t, http.StatusOK, post(r, "10.0.0.2:1234").Code)
}

func TestMemoryLimiterCleanup(t *testing.T) {
	l := NewMemoryLimiter(1, 1)
	l.idleTTL = time.Millisecond

	_, err := l.Allow(context.Background(), "a")
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	l.Cleanup()

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Empty(t, l.entries)
}

func TestRateLimitFailsOpen(t *testing.T) {
	r := limitedRouter(failingLimiter{})

	w := post(r, "10.0.0.1:1234")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "rate limit check failed", w.Header().Get("X-RateLimit-Error"))
}

func TestRedisRateLimiter(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	rl := NewRateLimiter(client, RateLimitConfig{Window: time.Hour, Limit: 2, KeyPrefix: "test"})
	ctx := context.Background()

	remaining, _, err := rl.GetRemainingRequests(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, 2, remaining)

	r := limitedRouter(rl)
	assert.Equal(t, http.StatusOK, post(r, "10.0.0.1:1").Code)
	assert.Equal(t, http.StatusOK, post(r, "10.0.0.1:1").Code)
	assert.Equal(t, http.StatusTooManyRequests, post(r, "10.0.0.1:1").Code)

	remaining, reset, err := rl.GetRemainingRequests(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)
	assert.True(t, reset.After(time.Now()))
}
