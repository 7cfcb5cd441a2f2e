package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/golfgang/backend/internal/game"
)

var startTime = time.Now()

const version = "1.0.0"

// Pinger is a backing service that can report whether it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthCheck returns server health status. Unconfigured services are
// reported as "disabled"; an unreachable one marks the server degraded.
func HealthCheck(gm *game.GameManager, services map[string]Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := "ok"
		deps := gin.H{}
		for name, svc := range services {
			switch {
			case svc == nil:
				deps[name] = "disabled"
			case svc.Ping(ctx) != nil:
				deps[name] = "down"
				status = "degraded"
			default:
				deps[name] = "up"
			}
		}

		code := http.StatusOK
		if status != "ok" {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":       status,
			"service":      "golfgang-api",
			"version":      version,
			"uptime":       time.Since(startTime).String(),
			"dependencies": deps,
			"game":         gm.Stats(),
		})
	}
}
