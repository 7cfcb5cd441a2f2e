package models

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

// GolfGame is one finished room as stored in postgres.
type GolfGame struct {
	ID            int              `db:"id" json:"id"`
	RoomID        string           `db:"room_id" json:"room_id"`
	RoomName      string           `db:"room_name" json:"room_name"`
	CourseName    string           `db:"course_name" json:"course_name"`
	CoursePar     int              `db:"course_par" json:"course_par"`
	PlayerCount   int              `db:"player_count" json:"player_count"`
	WinnerName    *string          `db:"winner_name" json:"winner_name,omitempty"`
	WinnerStrokes *int             `db:"winner_strokes" json:"winner_strokes,omitempty"`
	StartedAt     *time.Time       `db:"started_at" json:"started_at,omitempty"`
	FinishedAt    time.Time        `db:"finished_at" json:"finished_at"`
	CreatedAt     time.Time        `db:"created_at" json:"created_at"`
	Players       []GolfGamePlayer `db:"-" json:"players,omitempty"`
}

// GolfGamePlayer is one player's scorecard within a GolfGame.
type GolfGamePlayer struct {
	ID           int            `db:"id" json:"-"`
	GameID       int            `db:"game_id" json:"-"`
	PlayerID     string         `db:"player_id" json:"player_id"`
	UserID       sql.NullString `db:"user_id" json:"-"`
	Name         string         `db:"name" json:"name"`
	Seat         int            `db:"seat" json:"seat"`
	TotalStrokes int            `db:"total_strokes" json:"total_strokes"`
	HoleStrokes  pq.Int64Array  `db:"hole_strokes" json:"hole_strokes"`
	IsWinner     bool           `db:"is_winner" json:"is_winner"`
}

// LeaderboardEntry is one ranked golfer.
type LeaderboardEntry struct {
	Rank        int     `json:"rank"`
	Key         string  `json:"key"`
	Name        string  `json:"name"`
	Wins        int64   `json:"wins"`
	GamesPlayed int64   `json:"games_played"`
	BestRound   *int64  `json:"best_round,omitempty"`
	AvgStrokes  float64 `json:"avg_strokes"`
}

// PlayerStats is the lifetime record of one golfer.
type PlayerStats struct {
	Key          string  `json:"key"`
	Name         string  `json:"name"`
	GamesPlayed  int64   `json:"games_played"`
	Wins         int64   `json:"wins"`
	TotalStrokes int64   `json:"total_strokes"`
	HolesPlayed  int64   `json:"holes_played"`
	HoleInOnes   int64   `json:"hole_in_ones"`
	BestRound    *int64  `json:"best_round,omitempty"`
	AvgStrokes   float64 `json:"avg_strokes"`
	LastPlayedAt *int64  `json:"last_played_at,omitempty"`
}
