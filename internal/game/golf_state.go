package game

import (
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// GamePhase is the lifecycle stage of a room. It only moves forward.
type GamePhase string

const (
	PhaseWaiting  GamePhase = "waiting"
	PhasePlaying  GamePhase = "playing"
	PhaseFinished GamePhase = "finished"
)

// Player is a seated golfer. UserID is the platform identity, if any, and
// never leaves the server.
type Player struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Color           string `json:"color"`
	TotalStrokes    int    `json:"totalStrokes"`
	HoleStrokes     []int  `json:"holeStrokes"`
	IsCurrentPlayer bool   `json:"isCurrentPlayer"`
	IsOnline        bool   `json:"isOnline"`
	UserID          string `json:"-"`
}

func (p *Player) clone() *Player {
	cp := *p
	cp.HoleStrokes = append([]int(nil), p.HoleStrokes...)
	return &cp
}

// RoomState is a detached copy of a room, safe to marshal and share.
type RoomState struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Players            []Player  `json:"players"`
	CurrentHole        int       `json:"currentHole"`
	CurrentPlayerIndex int       `json:"currentPlayerIndex"`
	Balls              []Ball    `json:"balls"`
	GamePhase          GamePhase `json:"gamePhase"`
	MaxPlayers         int       `json:"maxPlayers"`
	IsPublic           bool      `json:"isPublic"`
	CreatedAt          int64     `json:"createdAt"`
	Winner             *Player   `json:"winner"`
}

// Player looks up a seated player by ID.
func (s RoomState) Player(id string) (Player, bool) {
	for _, p := range s.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// Ball looks up a ball by its owner's ID.
func (s RoomState) Ball(id string) (Ball, bool) {
	for _, b := range s.Balls {
		if b.ID == id {
			return b, true
		}
	}
	return Ball{}, false
}

// TickResult reports what one physics tick did to a room.
type TickResult struct {
	Moving   bool     // some ball is still rolling
	Changed  bool     // state differs from before the tick
	Finished bool     // the game ended on this tick
	Hazards  []string // players who took a water penalty
}

// Room is the authoritative state of one game. All access goes through its
// methods, which hold mu.
type Room struct {
	mu sync.Mutex

	id         string
	name       string
	course     *Course
	maxPlayers int
	isPublic   bool
	createdAt  time.Time

	players            []*Player
	balls              map[string]*Ball
	currentHole        int
	currentPlayerIndex int
	phase              GamePhase
	winner             *Player

	shotInProgress bool
	turnStartedAt  time.Time
	startedAt      time.Time
	finishedAt     time.Time
}

func newRoom(id, name string, isPublic bool, course *Course, maxPlayers int, now time.Time) *Room {
	if maxPlayers <= 0 {
		maxPlayers = DefaultMaxPlayers
	}
	return &Room{
		id:         id,
		name:       name,
		course:     course,
		maxPlayers: maxPlayers,
		isPublic:   isPublic,
		createdAt:  now,
		balls:      make(map[string]*Ball),
		phase:      PhaseWaiting,
	}
}

func (r *Room) ID() string { return r.id }

func (r *Room) Phase() GamePhase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

func (r *Room) IsPublic() bool { return r.isPublic }

// addPlayer seats a new player with the first unused palette color and a
// ball on the current hole's start.
func (r *Room) addPlayer(p *Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseWaiting {
		return ErrGameAlreadyStarted
	}
	if len(r.players) >= r.maxPlayers {
		return ErrRoomFull
	}

	p.Color = r.nextColor()
	p.HoleStrokes = make([]int, r.course.HoleCount())
	p.IsOnline = true
	p.IsCurrentPlayer = false
	r.players = append(r.players, p)
	r.balls[p.ID] = &Ball{
		ID:       p.ID,
		Position: r.hole().StartPosition,
		Color:    p.Color,
	}
	return nil
}

func (r *Room) nextColor() string {
	used := make(map[string]bool, len(r.players))
	for _, p := range r.players {
		used[p.Color] = true
	}
	for _, c := range PlayerColors {
		if !used[c] {
			return c
		}
	}
	return PlayerColors[len(r.players)%len(PlayerColors)]
}

// removePlayer drops a player and their ball. It returns how many players
// remain and whether the player was seated here.
func (r *Room) removePlayer(playerID string, now time.Time) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(playerID)
	if idx < 0 {
		return len(r.players), false
	}
	wasCurrent := r.phase == PhasePlaying && idx == r.currentPlayerIndex

	r.players = append(r.players[:idx], r.players[idx+1:]...)
	delete(r.balls, playerID)

	if len(r.players) == 0 {
		r.currentPlayerIndex = 0
		r.shotInProgress = false
		return 0, true
	}

	// keep the turn with the same player when someone before them leaves
	if idx < r.currentPlayerIndex {
		r.currentPlayerIndex--
	}
	if r.currentPlayerIndex >= len(r.players) {
		r.currentPlayerIndex = 0
	}

	if wasCurrent {
		r.shotInProgress = false
		r.settle(r.currentPlayerIndex, now)
	}
	r.refreshCurrentFlags()
	return len(r.players), true
}

// start moves a waiting room into play with the first seat to shoot.
func (r *Room) start(now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseWaiting {
		return ErrGameAlreadyStarted
	}
	if len(r.players) < MinPlayersToStart {
		return ErrNotEnoughPlayers
	}

	r.phase = PhasePlaying
	r.currentPlayerIndex = 0
	r.startedAt = now
	r.turnStartedAt = now
	r.refreshCurrentFlags()
	return nil
}

// hit sets the current player's ball rolling and charges the stroke.
func (r *Room) hit(playerID string, velocity Vec2) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhasePlaying {
		return ErrGameNotInProgress
	}
	idx := r.indexOf(playerID)
	if idx < 0 {
		return ErrPlayerNotFound
	}
	if idx != r.currentPlayerIndex {
		return ErrNotYourTurn
	}
	ball := r.balls[playerID]
	if ball.IsMoving || r.shotInProgress {
		return ErrBallInMotion
	}
	if ball.IsInHole {
		return ErrBallInHole
	}
	if !velocity.IsFinite() {
		return ErrInvalidVelocity
	}
	if speed := velocity.Magnitude(); speed > MaxHitSpeed {
		velocity = velocity.Times(MaxHitSpeed / speed)
	}

	ball.Velocity = velocity
	ball.IsMoving = true
	r.shotInProgress = true
	r.addStroke(r.players[idx])
	return nil
}

// tick advances every rolling ball and, once the shot has come to rest,
// resolves the turn.
func (r *Room) tick(now time.Time) TickResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	var res TickResult
	if r.phase != PhasePlaying {
		return res
	}

	hole := r.hole()
	for _, p := range r.players {
		b := r.balls[p.ID]
		if !b.IsMoving {
			continue
		}
		out := StepBall(b, hole)
		res.Changed = true
		if out.Hazard {
			r.addStroke(p)
			res.Hazards = append(res.Hazards, p.ID)
		}
		if out.Moving {
			res.Moving = true
		}
	}

	if r.shotInProgress && !res.Moving {
		r.shotInProgress = false
		r.settle(r.currentPlayerIndex+1, now)
		res.Changed = true
		res.Finished = r.phase == PhaseFinished
	}
	return res
}

// skipIdleTurn passes the turn on when the current player has not shot
// within timeout.
func (r *Room) skipIdleTurn(timeout time.Duration, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if timeout <= 0 || r.phase != PhasePlaying || r.shotInProgress || len(r.players) < 2 {
		return false
	}
	if now.Sub(r.turnStartedAt) < timeout {
		return false
	}
	r.settle(r.currentPlayerIndex+1, now)
	return true
}

// settle decides what comes after a shot: the next hole, the end of the
// game, or the next player from index from whose ball is still out.
// Players who already holed out are skipped.
func (r *Room) settle(from int, now time.Time) {
	if len(r.players) == 0 {
		return
	}
	if r.allSunk() {
		if r.currentHole >= r.course.HoleCount()-1 {
			r.finish(now)
			return
		}
		r.currentHole++
		start := r.hole().StartPosition
		for _, b := range r.balls {
			b.placeAt(start)
		}
		r.currentPlayerIndex = 0
		r.turnStartedAt = now
		r.refreshCurrentFlags()
		return
	}

	n := len(r.players)
	for i := 0; i < n; i++ {
		idx := (from + i) % n
		if !r.balls[r.players[idx].ID].IsInHole {
			r.currentPlayerIndex = idx
			break
		}
	}
	r.turnStartedAt = now
	r.refreshCurrentFlags()
}

// finish ends the game. The winner is the first seated player with the
// fewest strokes. A finished game stays as it ended.
func (r *Room) finish(now time.Time) {
	if r.phase == PhaseFinished {
		return
	}
	var best *Player
	for _, p := range r.players {
		if best == nil || p.TotalStrokes < best.TotalStrokes {
			best = p
		}
	}
	r.phase = PhaseFinished
	r.finishedAt = now
	r.shotInProgress = false
	r.refreshCurrentFlags()
	if best != nil && r.winner == nil {
		r.winner = best.clone()
	}
}

func (r *Room) allSunk() bool {
	for _, p := range r.players {
		if !r.balls[p.ID].IsInHole {
			return false
		}
	}
	return true
}

func (r *Room) addStroke(p *Player) {
	p.HoleStrokes[r.currentHole]++
	p.TotalStrokes++
}

func (r *Room) refreshCurrentFlags() {
	for i, p := range r.players {
		p.IsCurrentPlayer = r.phase == PhasePlaying && i == r.currentPlayerIndex
	}
}

func (r *Room) indexOf(playerID string) int {
	for i, p := range r.players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

func (r *Room) hole() *Hole {
	return r.course.Hole(r.currentHole)
}

func (r *Room) hasPlayer(playerID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.indexOf(playerID) >= 0
}

func (r *Room) playerIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.players))
	for _, p := range r.players {
		ids = append(ids, p.ID)
	}
	return ids
}

// Snapshot returns a deep copy of the room for broadcasting.
func (r *Room) Snapshot() RoomState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Room) snapshotLocked() RoomState {
	s := RoomState{
		ID:                 r.id,
		Name:               r.name,
		Players:            make([]Player, 0, len(r.players)),
		CurrentHole:        r.currentHole,
		CurrentPlayerIndex: r.currentPlayerIndex,
		Balls:              make([]Ball, 0, len(r.players)),
		GamePhase:          r.phase,
		MaxPlayers:         r.maxPlayers,
		IsPublic:           r.isPublic,
		CreatedAt:          r.createdAt.UnixMilli(),
	}
	for _, p := range r.players {
		s.Players = append(s.Players, *p.clone())
		s.Balls = append(s.Balls, *r.balls[p.ID])
	}
	if r.winner != nil {
		s.Winner = r.winner.clone()
	}
	return s
}

// result summarizes a finished game for the results store.
func (r *Room) result() GameResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := GameResult{
		RoomID:     r.id,
		RoomName:   r.name,
		CourseName: r.course.Name,
		CoursePar:  r.course.TotalPar(),
		StartedAt:  r.startedAt,
		FinishedAt: r.finishedAt,
	}
	for _, p := range r.players {
		res.Players = append(res.Players, PlayerResult{
			PlayerID:     p.ID,
			UserID:       p.UserID,
			Name:         p.Name,
			TotalStrokes: p.TotalStrokes,
			HoleStrokes:  append([]int(nil), p.HoleStrokes...),
			Winner:       r.winner != nil && r.winner.ID == p.ID,
		})
	}
	return res
}

// cleanName trims a display name and caps its length, falling back when empty.
func cleanName(name, fallback string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		name = string([]rune(name)[:MaxNameLength])
	}
	return name
}
