package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/golfgang/backend/internal/config"
)

var productionOrigins = []string{
	"https://golfgang.gg",
	"https://play.golfgang.gg",
}

func allowedOrigins(cfg *config.Config) []string {
	origins := append([]string{}, productionOrigins...)
	if cfg.FrontendURL != "" {
		origins = append(origins, cfg.FrontendURL)
	}
	return origins
}

// CORSMiddleware returns a CORS middleware configured for the environment
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods: []string{
			"GET", "POST", "DELETE", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin", "Content-Length", "Content-Type", "Authorization",
			"X-Admin-Token", "Accept", "Cache-Control", "X-Requested-With",
		},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}

	if cfg.Environment == "development" {
		corsConfig.AllowOriginFunc = isLocalOrigin
		corsConfig.AllowCredentials = true
	} else {
		corsConfig.AllowOrigins = allowedOrigins(cfg)
		corsConfig.AllowCredentials = true
		log.Info().Str("component", "cors").Strs("origins", corsConfig.AllowOrigins).Msg("production allowed origins")
	}

	return cors.New(corsConfig)
}

func isLocalOrigin(origin string) bool {
	return strings.HasPrefix(origin, "http://localhost:") ||
		strings.HasPrefix(origin, "http://127.0.0.1:")
}

// WebSocketCORSCheck validates WebSocket upgrade origins. Requests without
// an Origin header (non-browser clients) pass.
func WebSocketCORSCheck(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Only check for WebSocket upgrade requests
		if !strings.Contains(strings.ToLower(c.GetHeader("Connection")), "upgrade") ||
			strings.ToLower(c.GetHeader("Upgrade")) != "websocket" {
			c.Next()
			return
		}

		origin := c.GetHeader("Origin")
		if origin == "" {
			c.Next()
			return
		}

		var allowed bool
		if cfg.Environment == "development" {
			allowed = isLocalOrigin(origin)
		} else {
			for _, o := range allowedOrigins(cfg) {
				if origin == o {
					allowed = true
					break
				}
			}
		}

		if !allowed {
			log.Warn().Str("component", "ws").Str("origin", origin).Msg("websocket origin rejected")
			c.AbortWithStatusJSON(403, gin.H{"error": "WebSocket origin not allowed"})
			return
		}

		c.Next()
	}
}
