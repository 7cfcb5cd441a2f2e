package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golfgang/backend/internal/game"
	"github.com/golfgang/backend/internal/models"
	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when a player or game has no stored record.
var ErrNotFound = errors.New("not found")

const (
	winsKey      = "golf:leaderboard:wins"
	bestRoundKey = "golf:leaderboard:best"
	recentKey    = "golf:results:recent"
	recentLimit  = 100
)

func statsKey(key string) string     { return "golf:stats:" + key }
func resultKey(roomID string) string { return "golf:result:" + roomID }

// RedisStore keeps per-player stats, leaderboards and recent scorecards.
type RedisStore struct {
	rdb       *redis.Client
	resultTTL time.Duration
}

func NewRedisStore(rdb *redis.Client, resultTTL time.Duration) *RedisStore {
	if resultTTL <= 0 {
		resultTTL = 24 * time.Hour
	}
	return &RedisStore{rdb: rdb, resultTTL: resultTTL}
}

// RecordResult updates stats and leaderboards for every player in a
// finished game and keeps the scorecard for resultTTL.
func (s *RedisStore) RecordResult(ctx context.Context, res game.GameResult) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	finished := res.FinishedAt
	if finished.IsZero() {
		finished = time.Now()
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetEx(ctx, resultKey(res.RoomID), data, s.resultTTL)
		pipe.LPush(ctx, recentKey, res.RoomID)
		pipe.LTrim(ctx, recentKey, 0, recentLimit-1)

		for _, p := range res.Players {
			key := p.StatsKey()
			hk := statsKey(key)
			pipe.HSet(ctx, hk, "name", p.Name, "last_played_at", finished.Unix())
			pipe.HIncrBy(ctx, hk, "games_played", 1)
			pipe.HIncrBy(ctx, hk, "total_strokes", int64(p.TotalStrokes))
			pipe.HIncrBy(ctx, hk, "holes_played", int64(len(p.HoleStrokes)))
			if aces := countAces(p.HoleStrokes); aces > 0 {
				pipe.HIncrBy(ctx, hk, "hole_in_ones", int64(aces))
			}
			if p.Winner {
				pipe.HIncrBy(ctx, hk, "wins", 1)
				pipe.ZIncrBy(ctx, winsKey, 1, key)
			} else {
				// keep losers on the board with zero wins
				pipe.ZAddNX(ctx, winsKey, redis.Z{Score: 0, Member: key})
			}
			// LT still inserts new members
			pipe.ZAddLT(ctx, bestRoundKey, redis.Z{Score: float64(p.TotalStrokes), Member: key})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("record result %s: %w", res.RoomID, err)
	}
	return nil
}

func countAces(holes []int) int {
	n := 0
	for _, s := range holes {
		if s == 1 {
			n++
		}
	}
	return n
}

// Leaderboard ranks golfers by wins.
func (s *RedisStore) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	ranked, err := s.rdb.ZRevRangeWithScores(ctx, winsKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}
	if len(ranked) == 0 {
		return []models.LeaderboardEntry{}, nil
	}

	statsCmds := make([]*redis.MapStringStringCmd, len(ranked))
	bestCmds := make([]*redis.FloatCmd, len(ranked))
	_, err = s.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, z := range ranked {
			key := fmt.Sprint(z.Member)
			statsCmds[i] = pipe.HGetAll(ctx, statsKey(key))
			bestCmds[i] = pipe.ZScore(ctx, bestRoundKey, key)
		}
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("read leaderboard stats: %w", err)
	}

	entries := make([]models.LeaderboardEntry, 0, len(ranked))
	for i, z := range ranked {
		key := fmt.Sprint(z.Member)
		st := parseStats(key, statsCmds[i].Val())
		entries = append(entries, models.LeaderboardEntry{
			Rank:        i + 1,
			Key:         key,
			Name:        st.Name,
			Wins:        int64(z.Score),
			GamesPlayed: st.GamesPlayed,
			BestRound:   scoreOrNil(bestCmds[i]),
			AvgStrokes:  st.AvgStrokes,
		})
	}
	return entries, nil
}

// PlayerStats returns the lifetime record for a stats key.
func (s *RedisStore) PlayerStats(ctx context.Context, key string) (*models.PlayerStats, error) {
	fields, err := s.rdb.HGetAll(ctx, statsKey(key)).Result()
	if err != nil {
		return nil, fmt.Errorf("read stats %s: %w", key, err)
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}
	st := parseStats(key, fields)
	st.BestRound = scoreOrNil(s.rdb.ZScore(ctx, bestRoundKey, key))
	return &st, nil
}

// RecentResults returns scorecards of recently finished games that have not expired.
func (s *RedisStore) RecentResults(ctx context.Context, limit int) ([]game.GameResult, error) {
	if limit <= 0 || limit > recentLimit {
		limit = 20
	}
	ids, err := s.rdb.LRange(ctx, recentKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("read recent results: %w", err)
	}
	results := make([]game.GameResult, 0, len(ids))
	if len(ids) == 0 {
		return results, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = resultKey(id)
	}
	raw, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("read recent results: %w", err)
	}
	for _, v := range raw {
		str, ok := v.(string)
		if !ok {
			continue
		}
		var res game.GameResult
		if err := json.Unmarshal([]byte(str), &res); err != nil {
			continue
		}
		results = append(results, res)
	}
	return results, nil
}

func scoreOrNil(cmd *redis.FloatCmd) *int64 {
	v, err := cmd.Result()
	if err != nil {
		return nil
	}
	n := int64(v)
	return &n
}

func parseStats(key string, fields map[string]string) models.PlayerStats {
	atoi := func(name string) int64 {
		n, _ := strconv.ParseInt(fields[name], 10, 64)
		return n
	}
	st := models.PlayerStats{
		Key:          key,
		Name:         fields["name"],
		GamesPlayed:  atoi("games_played"),
		Wins:         atoi("wins"),
		TotalStrokes: atoi("total_strokes"),
		HolesPlayed:  atoi("holes_played"),
		HoleInOnes:   atoi("hole_in_ones"),
	}
	if st.GamesPlayed > 0 {
		st.AvgStrokes = float64(st.TotalStrokes) / float64(st.GamesPlayed)
	}
	if ts := atoi("last_played_at"); ts > 0 {
		st.LastPlayedAt = &ts
	}
	return st
}
