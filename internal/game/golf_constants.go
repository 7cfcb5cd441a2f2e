package game

// Physics constants. Distances are course pixels, speeds are pixels per tick.
const (
	Friction    = 0.98
	MinVelocity = 0.1
	BallRadius  = 8.0
	HoleRadius  = 16.0

	// A ball inside the cup radius drops only when both velocity
	// components are below this.
	SinkSpeed = 3.0

	// Fraction of speed kept after bouncing off the boundary or a solid obstacle.
	Restitution = 0.7

	HazardPenalty = 1

	// Hits faster than this are scaled down, keeping their direction.
	MaxHitSpeed = 15.0
)

// Room limits
const (
	DefaultMaxPlayers = 4
	MinPlayersToStart = 2
	MaxNameLength     = 24
)

// PlayerColors is the seat palette, assigned in order of first unused color.
var PlayerColors = []string{"#ef4444", "#3b82f6", "#eab308", "#22c55e"}
