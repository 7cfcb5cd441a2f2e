package game

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// GameManager is the in-memory directory of rooms and seated players.
// Lock order is always gm.mu before a Room's own mutex.
type GameManager struct {
	rooms        map[string]*Room  // room ID -> room
	playerToRoom map[string]string // player ID -> room ID
	course       *Course
	maxPlayers   int
	recorder     ResultRecorder
	now          func() time.Time
	mu           sync.RWMutex
}

// Option configures a GameManager.
type Option func(*GameManager)

func WithMaxPlayers(n int) Option {
	return func(gm *GameManager) {
		if n > 0 {
			gm.maxPlayers = n
		}
	}
}

// WithRecorder stores finished games through rec.
func WithRecorder(rec ResultRecorder) Option {
	return func(gm *GameManager) { gm.recorder = rec }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(gm *GameManager) { gm.now = now }
}

// NewGameManager creates a manager playing the given course.
func NewGameManager(course *Course, opts ...Option) *GameManager {
	gm := &GameManager{
		rooms:        make(map[string]*Room),
		playerToRoom: make(map[string]string),
		course:       course,
		maxPlayers:   DefaultMaxPlayers,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(gm)
	}
	return gm
}

func (gm *GameManager) Course() *Course { return gm.course }

// CreateRoom opens a waiting room with the host seated. It returns the
// room snapshot and the host's player ID.
func (gm *GameManager) CreateRoom(roomName, hostName string, isPublic bool, userID string) (RoomState, string) {
	now := gm.now()
	host := &Player{
		ID:     generatePlayerID(now),
		Name:   cleanName(hostName, "Player 1"),
		UserID: userID,
	}
	room := newRoom(generateRoomID(now), cleanName(roomName, host.Name+"'s Room"), isPublic, gm.course, gm.maxPlayers, now)
	// a fresh waiting room always has space
	_ = room.addPlayer(host)

	gm.mu.Lock()
	gm.rooms[room.id] = room
	gm.playerToRoom[host.ID] = room.id
	gm.mu.Unlock()

	log.Info().Str("component", "golf").Str("room_id", room.id).Str("player_id", host.ID).
		Bool("public", isPublic).Msg("room created")
	return room.Snapshot(), host.ID
}

// JoinRoom seats a new player in a waiting room.
func (gm *GameManager) JoinRoom(roomID, playerName, userID string) (RoomState, string, error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	room, ok := gm.rooms[roomID]
	if !ok {
		return RoomState{}, "", ErrRoomNotFound
	}

	now := gm.now()
	p := &Player{
		ID:     generatePlayerID(now),
		Name:   cleanName(playerName, "Player"),
		UserID: userID,
	}
	if err := room.addPlayer(p); err != nil {
		return RoomState{}, "", err
	}
	gm.playerToRoom[p.ID] = roomID

	log.Info().Str("component", "golf").Str("room_id", roomID).Str("player_id", p.ID).Msg("player joined")
	return room.Snapshot(), p.ID, nil
}

// LeaveRoom removes a player from whatever room they are in. The returned
// state is nil when the room was deleted because it emptied.
func (gm *GameManager) LeaveRoom(playerID string) (string, *RoomState, bool) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	roomID, ok := gm.playerToRoom[playerID]
	if !ok {
		return "", nil, false
	}
	delete(gm.playerToRoom, playerID)

	room, ok := gm.rooms[roomID]
	if !ok {
		return roomID, nil, true
	}

	remaining, _ := room.removePlayer(playerID, gm.now())
	log.Info().Str("component", "golf").Str("room_id", roomID).Str("player_id", playerID).
		Int("remaining", remaining).Msg("player left")

	if remaining == 0 {
		delete(gm.rooms, roomID)
		log.Info().Str("component", "golf").Str("room_id", roomID).Msg("room closed (empty)")
		return roomID, nil, true
	}
	state := room.Snapshot()
	return roomID, &state, true
}

// StartGame moves a waiting room into play.
func (gm *GameManager) StartGame(roomID string) (RoomState, error) {
	room, err := gm.room(roomID)
	if err != nil {
		return RoomState{}, err
	}
	if err := room.start(gm.now()); err != nil {
		return RoomState{}, err
	}
	log.Info().Str("component", "golf").Str("room_id", roomID).Msg("game started")
	return room.Snapshot(), nil
}

// HitBall strikes the acting player's ball with the given velocity.
func (gm *GameManager) HitBall(roomID, playerID string, velocity Vec2) (RoomState, error) {
	room, err := gm.room(roomID)
	if err != nil {
		return RoomState{}, err
	}
	if err := room.hit(playerID, velocity); err != nil {
		return RoomState{}, err
	}
	return room.Snapshot(), nil
}

// AdvancePhysicsTick runs one physics tick for a room.
func (gm *GameManager) AdvancePhysicsTick(roomID string) (TickResult, error) {
	room, err := gm.room(roomID)
	if err != nil {
		return TickResult{}, err
	}
	return gm.advance(room, gm.now()), nil
}

func (gm *GameManager) advance(room *Room, now time.Time) TickResult {
	res := room.tick(now)
	for _, pid := range res.Hazards {
		log.Debug().Str("component", "golf").Str("room_id", room.id).Str("player_id", pid).Msg("water hazard")
	}
	if res.Finished {
		gm.gameFinished(room)
	}
	return res
}

// SkipIdleTurn passes the turn of a player who has not shot within timeout.
func (gm *GameManager) SkipIdleTurn(roomID string, timeout time.Duration) (bool, error) {
	room, err := gm.room(roomID)
	if err != nil {
		return false, err
	}
	skipped := room.skipIdleTurn(timeout, gm.now())
	if skipped {
		log.Info().Str("component", "golf").Str("room_id", roomID).Msg("idle turn skipped")
	}
	return skipped, nil
}

func (gm *GameManager) gameFinished(room *Room) {
	result := room.result()
	winner, _ := result.Winner()
	log.Info().Str("component", "golf").Str("room_id", room.id).Str("winner", winner.Name).
		Int("strokes", winner.TotalStrokes).Msg("game finished")

	if gm.recorder == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := gm.recorder.RecordResult(ctx, result); err != nil {
			log.Error().Err(err).Str("component", "golf").Str("room_id", result.RoomID).Msg("failed to record result")
		}
	}()
}

// GetRoom returns a snapshot of a room.
func (gm *GameManager) GetRoom(roomID string) (RoomState, bool) {
	room, err := gm.room(roomID)
	if err != nil {
		return RoomState{}, false
	}
	return room.Snapshot(), true
}

// GetRoomForPlayer returns the ID of the room a player is seated in.
func (gm *GameManager) GetRoomForPlayer(playerID string) (string, bool) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	id, ok := gm.playerToRoom[playerID]
	return id, ok
}

// ListPublicRooms returns public rooms in any phase, oldest first.
func (gm *GameManager) ListPublicRooms() []RoomState {
	return gm.list(func(r *Room) bool { return r.IsPublic() })
}

// ListRooms returns every room, public or not.
func (gm *GameManager) ListRooms() []RoomState {
	return gm.list(func(*Room) bool { return true })
}

func (gm *GameManager) list(keep func(*Room) bool) []RoomState {
	gm.mu.RLock()
	rooms := make([]*Room, 0, len(gm.rooms))
	for _, r := range gm.rooms {
		if keep(r) {
			rooms = append(rooms, r)
		}
	}
	gm.mu.RUnlock()

	states := make([]RoomState, 0, len(rooms))
	for _, r := range rooms {
		states = append(states, r.Snapshot())
	}
	sort.Slice(states, func(i, j int) bool {
		if states[i].CreatedAt == states[j].CreatedAt {
			return states[i].ID < states[j].ID
		}
		return states[i].CreatedAt < states[j].CreatedAt
	})
	return states
}

// CloseRoom removes a room and unseats everyone in it. It returns the
// player IDs that were seated.
func (gm *GameManager) CloseRoom(roomID string) ([]string, error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	room, ok := gm.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	ids := room.playerIDs()
	for _, id := range ids {
		delete(gm.playerToRoom, id)
	}
	delete(gm.rooms, roomID)

	log.Warn().Str("component", "golf").Str("room_id", roomID).Int("players", len(ids)).Msg("room force-closed")
	return ids, nil
}

// playingRooms collects rooms currently in play.
func (gm *GameManager) playingRooms() []*Room {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	rooms := make([]*Room, 0, len(gm.rooms))
	for _, r := range gm.rooms {
		if r.Phase() == PhasePlaying {
			rooms = append(rooms, r)
		}
	}
	return rooms
}

// PlayingRoomIDs lists the rooms currently in play.
func (gm *GameManager) PlayingRoomIDs() []string {
	rooms := gm.playingRooms()
	ids := make([]string, 0, len(rooms))
	for _, r := range rooms {
		ids = append(ids, r.id)
	}
	sort.Strings(ids)
	return ids
}

// Stats counts rooms and seated players.
type Stats struct {
	Rooms   int `json:"rooms"`
	Playing int `json:"playing"`
	Players int `json:"players"`
}

func (gm *GameManager) Stats() Stats {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	s := Stats{Rooms: len(gm.rooms), Players: len(gm.playerToRoom)}
	for _, r := range gm.rooms {
		if r.Phase() == PhasePlaying {
			s.Playing++
		}
	}
	return s
}

func (gm *GameManager) room(roomID string) (*Room, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	room, ok := gm.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room, nil
}
