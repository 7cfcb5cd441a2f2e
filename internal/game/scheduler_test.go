package game

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureBroadcaster struct {
	mu      sync.Mutex
	updates []RoomState
}

func (c *captureBroadcaster) BroadcastRoomUpdate(state RoomState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updates = append(c.updates, state)
}

func (c *captureBroadcaster) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.updates)
}

func (c *captureBroadcaster) last() RoomState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updates[len(c.updates)-1]
}

func TestSchedulerBroadcastsOnlyWhileMoving(t *testing.T) {
	gm := NewGameManager(DefaultCourse())
	out := &captureBroadcaster{}
	s := NewScheduler(gm, out, time.Millisecond, 0)

	roomID, ids := seatPlayers(t, gm, "Alice", "Bob")
	s.Step()
	assert.Zero(t, out.count(), "waiting rooms are not ticked")

	_, err := gm.StartGame(roomID)
	require.NoError(t, err)
	s.Step()
	assert.Zero(t, out.count(), "no ball is moving")

	_, err = gm.HitBall(roomID, ids[0], NewVec2(5, 0))
	require.NoError(t, err)
	for i := 0; i < TicksToRest(5); i++ {
		s.Step()
	}
	assert.Equal(t, TicksToRest(5), out.count())

	final := out.last()
	assert.True(t, final.Players[1].IsCurrentPlayer, "stop tick carries the turn change")

	s.Step()
	assert.Equal(t, TicksToRest(5), out.count())
}

func TestSchedulerSurvivesBrokenRoom(t *testing.T) {
	gm := NewGameManager(DefaultCourse())
	out := &captureBroadcaster{}
	s := NewScheduler(gm, out, time.Millisecond, 0)

	broken := newRoom("room_broken", "broken", true, nil, 4, time.Now())
	broken.phase = PhasePlaying
	broken.players = []*Player{{ID: "p"}}
	broken.balls["p"] = &Ball{ID: "p", IsMoving: true}
	gm.mu.Lock()
	gm.rooms[broken.id] = broken
	gm.mu.Unlock()

	roomID, ids := seatPlayers(t, gm, "Alice", "Bob")
	_, err := gm.StartGame(roomID)
	require.NoError(t, err)
	_, err = gm.HitBall(roomID, ids[0], NewVec2(5, 0))
	require.NoError(t, err)

	require.NotPanics(t, s.Step)
	require.Equal(t, 1, out.count())
	assert.Equal(t, roomID, out.last().ID)
}

func TestSchedulerSkipsIdleTurns(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	gm := NewGameManager(DefaultCourse(), WithClock(clock.Now))
	out := &captureBroadcaster{}
	s := NewScheduler(gm, out, time.Millisecond, 20*time.Second)

	roomID, _ := seatPlayers(t, gm, "Alice", "Bob")
	_, err := gm.StartGame(roomID)
	require.NoError(t, err)

	s.Step()
	assert.Zero(t, out.count())

	clock.Advance(21 * time.Second)
	s.Step()
	require.Equal(t, 1, out.count())
	assert.True(t, out.last().Players[1].IsCurrentPlayer)
}

func TestSchedulerRunStopsOnCancel(t *testing.T) {
	gm := NewGameManager(DefaultCourse())
	s := NewScheduler(gm, nil, time.Millisecond, 0)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	time.Sleep(5 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
