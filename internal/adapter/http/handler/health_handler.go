package handler

import (
	"context"
	"net/http"
	"time"

	"senepay/internal/core/ports"

	"github.com/gin-gonic/gin"
)

// HealthCheck returns a handler that pings each dependency and reports
// per-dependency status. Any failing dependency makes the endpoint 503.
func HealthCheck(checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		healthy := true
		deps := make(map[string]string, len(checkers))
		for _, checker := range checkers {
			if err := checker.Ping(ctx); err != nil {
				healthy = false
				deps[checker.Name()] = "unhealthy: " + err.Error()
			} else {
				deps[checker.Name()] = "healthy"
			}
		}

		status := http.StatusOK
		overall := "healthy"
		if !healthy {
			status = http.StatusServiceUnavailable
			overall = "unhealthy"
		}

		c.JSON(status, gin.H{
			"status":       overall,
			"dependencies": deps,
			"timestamp":    time.Now().UTC().Format(time.RFC3339),
		})
	}
}
