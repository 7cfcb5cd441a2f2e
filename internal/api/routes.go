package api

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/golfgang/backend/internal/api/handlers"
	"github.com/golfgang/backend/internal/auth"
	"github.com/golfgang/backend/internal/config"
	"github.com/golfgang/backend/internal/game"
	"github.com/golfgang/backend/internal/middleware"
	"github.com/golfgang/backend/internal/ws"
)

// Deps is everything the routes need. Stats and History are nil when
// Redis or Postgres is not configured.
type Deps struct {
	Config   *config.Config
	Manager  *game.GameManager
	Hub      *ws.Hub
	Issuer   *auth.Issuer
	Stats    handlers.StatsReader
	History  handlers.HistoryReader
	Services map[string]handlers.Pinger
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, d Deps) {
	cfg := d.Config
	router.Use(middleware.CORSMiddleware(cfg))

	if !cfg.IsProduction() {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Next()
		})
		log.Debug().Str("component", "api").Msg("no-cache headers enabled for all routes")
	}

	health := handlers.HealthCheck(d.Manager, d.Services)
	router.GET("/health", health)

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", health)

		v1.POST("/auth/guest", handlers.IssueGuestToken(d.Issuer))

		golf := v1.Group("/golf")
		{
			golf.GET("/courses", handlers.GetCourse(d.Manager))
			golf.GET("/rooms", handlers.ListRooms(d.Manager))
			golf.GET("/rooms/:id", handlers.GetRoom(d.Manager))
			golf.GET("/leaderboard", handlers.GetLeaderboard(d.Stats))
			golf.GET("/players/:key/stats", handlers.GetPlayerStats(d.Stats))
			golf.GET("/games", handlers.ListGames(d.History, d.Stats))
			golf.GET("/ws", middleware.WebSocketCORSCheck(cfg), ws.ServeWS(d.Hub, d.Issuer, cfg.RequireAuth))
		}

		adminGroup := v1.Group("/admin", handlers.AdminMiddleware(cfg.AdminTokenHash))
		{
			adminGroup.GET("/rooms", handlers.AdminListRooms(d.Manager))
			adminGroup.DELETE("/rooms/:id", handlers.AdminCloseRoom(d.Hub))
		}
	}
}
