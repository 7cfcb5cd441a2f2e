package game

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultTickInterval is roughly 60 ticks per second.
const DefaultTickInterval = 16 * time.Millisecond

// RoomBroadcaster pushes room snapshots out to connected players.
type RoomBroadcaster interface {
	BroadcastRoomUpdate(state RoomState)
}

// Scheduler drives physics for every playing room on a fixed interval,
// independent of any connection.
type Scheduler struct {
	manager     *GameManager
	out         RoomBroadcaster
	interval    time.Duration
	turnTimeout time.Duration
}

// NewScheduler builds a scheduler. A zero turnTimeout disables idle skipping.
func NewScheduler(gm *GameManager, out RoomBroadcaster, interval, turnTimeout time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Scheduler{manager: gm, out: out, interval: interval, turnTimeout: turnTimeout}
}

// Run ticks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	log.Info().Str("component", "scheduler").Dur("interval", s.interval).
		Dur("turn_timeout", s.turnTimeout).Msg("simulation scheduler started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("component", "scheduler").Msg("simulation scheduler stopping")
			return
		case <-ticker.C:
			s.Step()
		}
	}
}

// Step advances every playing room once.
func (s *Scheduler) Step() {
	for _, room := range s.manager.playingRooms() {
		s.stepRoom(room)
	}
}

func (s *Scheduler) stepRoom(room *Room) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("component", "scheduler").Str("room_id", room.id).
				Interface("panic", r).Bytes("stack", debug.Stack()).Msg("room tick panicked")
		}
	}()

	now := s.manager.now()
	res := s.manager.advance(room, now)
	changed := res.Changed
	if !res.Moving && s.turnTimeout > 0 {
		if skipped, _ := s.manager.SkipIdleTurn(room.id, s.turnTimeout); skipped {
			changed = true
		}
	}

	if changed && s.out != nil {
		s.out.BroadcastRoomUpdate(room.Snapshot())
	}
}
