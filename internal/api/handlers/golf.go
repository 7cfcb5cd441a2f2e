package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/golfgang/backend/internal/game"
)

// GetCourse returns the course catalog with hole geometry and par.
func GetCourse(gm *game.GameManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		course := gm.Course()
		c.JSON(http.StatusOK, gin.H{
			"name":     course.Name,
			"totalPar": course.TotalPar(),
			"holes":    course.Holes,
		})
	}
}

// ListRooms returns public rooms, oldest first.
func ListRooms(gm *game.GameManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"rooms": gm.ListPublicRooms()})
	}
}

// GetRoom returns one room by ID. Private rooms are reachable by ID, just unlisted.
func GetRoom(gm *game.GameManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		state, ok := gm.GetRoom(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": game.ErrRoomNotFound.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"room": state})
	}
}

// queryLimit reads ?limit=, clamped to [1, max].
func queryLimit(c *gin.Context, def, max int) int {
	n, err := strconv.Atoi(c.Query("limit"))
	if err != nil || n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}
