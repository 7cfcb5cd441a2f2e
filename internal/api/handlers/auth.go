package handlers

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/golfgang/backend/internal/auth"
	"github.com/golfgang/backend/internal/game"
)

// IssueGuestToken hands out an identity token for a display name. The
// token goes on the websocket URL as ?token=.
func IssueGuestToken(issuer *auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			DisplayName string `json:"displayName" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "displayName is required"})
			return
		}
		name := strings.TrimSpace(req.DisplayName)
		if name == "" || utf8.RuneCountInString(name) > game.MaxNameLength {
			c.JSON(http.StatusBadRequest, gin.H{"error": "displayName must be 1-24 characters"})
			return
		}

		id, token, expiresAt, err := issuer.IssueGuest(name)
		if err != nil {
			log.Error().Err(err).Str("component", "auth").Msg("failed to issue guest token")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
			return
		}

		log.Info().Str("component", "auth").Str("user_id", id.UserID).Msg("guest token issued")
		c.JSON(http.StatusOK, gin.H{
			"token":       token,
			"userId":      id.UserID,
			"displayName": id.DisplayName,
			"expiresAt":   expiresAt.Unix(),
		})
	}
}
