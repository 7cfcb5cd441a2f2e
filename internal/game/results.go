package game

import (
	"context"
	"strings"
	"time"
)

// GameResult is the final scorecard of a finished room.
type GameResult struct {
	RoomID     string         `json:"roomId"`
	RoomName   string         `json:"roomName"`
	CourseName string         `json:"courseName"`
	CoursePar  int            `json:"coursePar"`
	Players    []PlayerResult `json:"players"`
	StartedAt  time.Time      `json:"startedAt"`
	FinishedAt time.Time      `json:"finishedAt"`
}

type PlayerResult struct {
	PlayerID     string `json:"playerId"`
	UserID       string `json:"userId,omitempty"`
	Name         string `json:"name"`
	TotalStrokes int    `json:"totalStrokes"`
	HoleStrokes  []int  `json:"holeStrokes"`
	Winner       bool   `json:"winner"`
}

// StatsKey identifies the golfer across games: the platform user ID when
// known, otherwise the lowercased display name.
func (p PlayerResult) StatsKey() string {
	if p.UserID != "" {
		return "user:" + p.UserID
	}
	return "name:" + strings.ToLower(strings.TrimSpace(p.Name))
}

// Winner returns the winning player's result, if any.
func (g GameResult) Winner() (PlayerResult, bool) {
	for _, p := range g.Players {
		if p.Winner {
			return p, true
		}
	}
	return PlayerResult{}, false
}

// ResultRecorder persists finished games.
type ResultRecorder interface {
	RecordResult(ctx context.Context, result GameResult) error
}
