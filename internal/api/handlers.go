package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

const healthTimeout = 2 * time.Second

// HealthCheck returns the health status of the API and its store
func HealthCheck(p Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		if err := p.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, HealthResponse{
				Status: "unhealthy",
				Store:  "unreachable",
				Error:  err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, HealthResponse{Status: "healthy", Store: "ok"})
	}
}
