package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/golfgang/backend/internal/admin"
	"github.com/golfgang/backend/internal/game"
)

const adminTokenHeader = "X-Admin-Token"

// RoomCloser force-closes a room and notifies its occupants.
type RoomCloser interface {
	CloseRoom(roomID string) error
}

// AdminMiddleware checks the X-Admin-Token header against the bcrypt hash.
// With no hash configured every admin route is refused.
func AdminMiddleware(tokenHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenHash == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access is not configured"})
			return
		}
		if !admin.VerifyAdminToken(tokenHash, c.GetHeader(adminTokenHeader)) {
			log.Warn().Str("component", "admin").Str("ip", c.ClientIP()).Str("path", c.FullPath()).
				Msg("rejected admin request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

// AdminListRooms lists every room, private ones included, along with the
// IDs of rooms mid-game.
func AdminListRooms(gm *game.GameManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"rooms":   gm.ListRooms(),
			"playing": gm.PlayingRoomIDs(),
			"stats":   gm.Stats(),
		})
	}
}

// AdminCloseRoom force-closes a room.
func AdminCloseRoom(closer RoomCloser) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID := c.Param("id")
		err := closer.CloseRoom(roomID)
		if errors.Is(err, game.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to close room"})
			return
		}
		log.Info().Str("component", "admin").Str("room_id", roomID).Str("ip", c.ClientIP()).Msg("room closed by admin")
		c.JSON(http.StatusOK, gin.H{"closed": roomID})
	}
}
