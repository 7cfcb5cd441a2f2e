package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golfgang/backend/internal/database"
	"github.com/golfgang/backend/internal/game"
	"github.com/golfgang/backend/internal/models"
	goredis "github.com/golfgang/backend/internal/redis"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRecorder struct {
	err   error
	calls int
}

func (s *stubRecorder) RecordResult(context.Context, game.GameResult) error {
	s.calls++
	return s.err
}

func sampleResult() game.GameResult {
	return game.GameResult{
		RoomID:     "room_" + uuid.NewString(),
		RoomName:   "Sunday League",
		CourseName: "Golf Gang Classic",
		CoursePar:  26,
		StartedAt:  time.Now().Add(-10 * time.Minute).UTC().Truncate(time.Second),
		FinishedAt: time.Now().UTC().Truncate(time.Second),
		Players: []game.PlayerResult{
			{PlayerID: "player_1", UserID: uuid.NewString(), Name: "Alice", TotalStrokes: 24, HoleStrokes: []int{1, 3, 3, 2, 3, 4, 4, 4}, Winner: true},
			{PlayerID: "player_2", Name: "Bob " + uuid.NewString()[:8], TotalStrokes: 30, HoleStrokes: []int{3, 3, 4, 3, 4, 4, 4, 5}},
		},
	}
}

func TestMultiCallsEveryRecorder(t *testing.T) {
	boom := errors.New("boom")
	first := &stubRecorder{err: boom}
	second := &stubRecorder{}

	err := Multi{first, second}.RecordResult(context.Background(), sampleResult())

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
	assert.NoError(t, Multi{}.RecordResult(context.Background(), sampleResult()))
}

func TestParseStats(t *testing.T) {
	got := parseStats("name:alice", map[string]string{
		"name":           "Alice",
		"games_played":   "4",
		"wins":           "3",
		"total_strokes":  "110",
		"holes_played":   "32",
		"hole_in_ones":   "2",
		"last_played_at": "1700000000",
	})

	ts := int64(1700000000)
	want := models.PlayerStats{
		Key:          "name:alice",
		Name:         "Alice",
		GamesPlayed:  4,
		Wins:         3,
		TotalStrokes: 110,
		HolesPlayed:  32,
		HoleInOnes:   2,
		AvgStrokes:   27.5,
		LastPlayedAt: &ts,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parseStats mismatch (-want +got):\n%s", diff)
	}

	empty := parseStats("k", map[string]string{})
	assert.Zero(t, empty.AvgStrokes)
	assert.Nil(t, empty.LastPlayedAt)
}

func TestCountAces(t *testing.T) {
	assert.Equal(t, 2, countAces([]int{1, 3, 1, 0}))
	assert.Zero(t, countAces(nil))
}

// The tests below talk to real services and only run when pointed at them.

func TestRedisStoreRoundTrip(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	rdb, err := goredis.Connect(url)
	require.NoError(t, err)
	defer rdb.Close()

	ctx := context.Background()
	s := NewRedisStore(rdb, time.Minute)
	res := sampleResult()
	require.NoError(t, s.RecordResult(ctx, res))

	alice := res.Players[0]
	st, err := s.PlayerStats(ctx, alice.StatsKey())
	require.NoError(t, err)
	assert.Equal(t, "Alice", st.Name)
	assert.Equal(t, int64(1), st.Wins)
	assert.Equal(t, int64(1), st.HoleInOnes)
	require.NotNil(t, st.BestRound)
	assert.Equal(t, int64(24), *st.BestRound)

	_, err = s.PlayerStats(ctx, "name:nobody-"+uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)

	recent, err := s.RecentResults(ctx, 5)
	require.NoError(t, err)
	require.NotEmpty(t, recent)
	assert.Equal(t, res.RoomID, recent[0].RoomID)

	board, err := s.Leaderboard(ctx, 100)
	require.NoError(t, err)
	found := false
	for _, e := range board {
		if e.Key == alice.StatsKey() {
			found = true
			assert.Equal(t, int64(1), e.Wins)
		}
	}
	assert.True(t, found, "winner should be on the leaderboard")
}

func TestPostgresStoreRoundTrip(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	db, err := database.Connect(url)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	s := NewPostgresStore(db)
	res := sampleResult()
	require.NoError(t, s.RecordResult(ctx, res))

	games, err := s.RecentGames(ctx, 50)
	require.NoError(t, err)
	var got *models.GolfGame
	for i := range games {
		if games[i].RoomID == res.RoomID {
			got = &games[i]
		}
	}
	require.NotNil(t, got)
	require.NotNil(t, got.WinnerName)
	assert.Equal(t, "Alice", *got.WinnerName)
	require.Len(t, got.Players, 2)
	assert.Equal(t, []int64{1, 3, 3, 2, 3, 4, 4, 4}, []int64(got.Players[0].HoleStrokes))
	assert.True(t, got.Players[0].IsWinner)
}
