package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/golfgang/backend/internal/game"
	"github.com/golfgang/backend/internal/models"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresStore keeps the permanent history of finished games.
type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// RecordResult inserts the game and every player's scorecard in one transaction.
func (s *PostgresStore) RecordResult(ctx context.Context, res game.GameResult) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var winnerName sql.NullString
	var winnerStrokes sql.NullInt64
	if w, ok := res.Winner(); ok {
		winnerName = sql.NullString{String: w.Name, Valid: true}
		winnerStrokes = sql.NullInt64{Int64: int64(w.TotalStrokes), Valid: true}
	}
	var startedAt sql.NullTime
	if !res.StartedAt.IsZero() {
		startedAt = sql.NullTime{Time: res.StartedAt, Valid: true}
	}

	var gameID int
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO golf_games (room_id, room_name, course_name, course_par, player_count, winner_name, winner_strokes, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		res.RoomID, res.RoomName, res.CourseName, res.CoursePar, len(res.Players),
		winnerName, winnerStrokes, startedAt, res.FinishedAt,
	).Scan(&gameID)
	if err != nil {
		return fmt.Errorf("insert golf_games: %w", err)
	}

	for seat, p := range res.Players {
		holes := make(pq.Int64Array, len(p.HoleStrokes))
		for i, s := range p.HoleStrokes {
			holes[i] = int64(s)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO golf_game_players (game_id, player_id, user_id, name, seat, total_strokes, hole_strokes, is_winner)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			gameID, p.PlayerID, sql.NullString{String: p.UserID, Valid: p.UserID != ""},
			p.Name, seat, p.TotalStrokes, holes, p.Winner,
		)
		if err != nil {
			return fmt.Errorf("insert golf_game_players for %s: %w", p.PlayerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// RecentGames returns the newest finished games with their scorecards.
func (s *PostgresStore) RecentGames(ctx context.Context, limit int) ([]models.GolfGame, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var games []models.GolfGame
	err := s.db.SelectContext(ctx, &games, `
		SELECT id, room_id, room_name, course_name, course_par, player_count,
		       winner_name, winner_strokes, started_at, finished_at, created_at
		FROM golf_games
		ORDER BY finished_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("select golf_games: %w", err)
	}
	if len(games) == 0 {
		return []models.GolfGame{}, nil
	}

	ids := make(pq.Int64Array, len(games))
	byID := make(map[int]int, len(games))
	for i, g := range games {
		ids[i] = int64(g.ID)
		byID[g.ID] = i
	}

	var players []models.GolfGamePlayer
	err = s.db.SelectContext(ctx, &players, `
		SELECT id, game_id, player_id, user_id, name, seat, total_strokes, hole_strokes, is_winner
		FROM golf_game_players
		WHERE game_id = ANY($1)
		ORDER BY game_id, seat`, ids)
	if err != nil {
		return nil, fmt.Errorf("select golf_game_players: %w", err)
	}
	for _, p := range players {
		if i, ok := byID[p.GameID]; ok {
			games[i].Players = append(games[i].Players, p)
		}
	}
	return games, nil
}
