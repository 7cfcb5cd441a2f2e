package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/golfgang/backend/internal/game"
	"github.com/golfgang/backend/internal/models"
	"github.com/golfgang/backend/internal/store"
)

// StatsReader serves leaderboards and per-player records.
type StatsReader interface {
	Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
	PlayerStats(ctx context.Context, key string) (*models.PlayerStats, error)
	RecentResults(ctx context.Context, limit int) ([]game.GameResult, error)
}

// HistoryReader serves the durable game history.
type HistoryReader interface {
	RecentGames(ctx context.Context, limit int) ([]models.GolfGame, error)
}

// GetLeaderboard ranks golfers by wins.
func GetLeaderboard(stats StatsReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if stats == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "leaderboard is not enabled"})
			return
		}
		entries, err := stats.Leaderboard(c.Request.Context(), queryLimit(c, 10, 100))
		if err != nil {
			log.Error().Err(err).Str("component", "api").Msg("leaderboard read failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load leaderboard"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
	}
}

// GetPlayerStats returns the lifetime record behind a stats key such as
// "user:<id>" or "name:<lowercased name>".
func GetPlayerStats(stats StatsReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if stats == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "stats are not enabled"})
			return
		}
		st, err := stats.PlayerStats(c.Request.Context(), c.Param("key"))
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "player not found"})
			return
		}
		if err != nil {
			log.Error().Err(err).Str("component", "api").Str("key", c.Param("key")).Msg("stats read failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"stats": st})
	}
}

// ListGames returns recently finished games, from Postgres history when
// available and from the short-lived Redis scorecards otherwise.
func ListGames(history HistoryReader, stats StatsReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := queryLimit(c, 20, 100)
		ctx := c.Request.Context()

		switch {
		case history != nil:
			games, err := history.RecentGames(ctx, limit)
			if err != nil {
				log.Error().Err(err).Str("component", "api").Msg("game history read failed")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load games"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"source": "history", "games": games})

		case stats != nil:
			results, err := stats.RecentResults(ctx, limit)
			if err != nil {
				log.Error().Err(err).Str("component", "api").Msg("recent results read failed")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load games"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"source": "recent", "games": results})

		default:
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "game history is not enabled"})
		}
	}
}
