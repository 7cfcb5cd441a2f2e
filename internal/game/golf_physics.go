package game

import "math"

// Ball is a player's ball on the current hole. ID is the owning player's ID.
type Ball struct {
	ID       string `json:"id"`
	Position Vec2   `json:"position"`
	Velocity Vec2   `json:"velocity"`
	Color    string `json:"color"`
	IsMoving bool   `json:"isMoving"`
	IsInHole bool   `json:"isInHole"`
}

// StepOutcome describes what happened to a ball during one tick.
type StepOutcome struct {
	Moving   bool
	Sunk     bool
	Hazard   bool // ball touched water and was sent back to the start
	Collided bool // ball bounced off the boundary or a solid obstacle
}

// placeAt puts the ball at rest on pos.
func (b *Ball) placeAt(pos Vec2) {
	b.Position = pos
	b.Velocity = Vec2{}
	b.IsMoving = false
	b.IsInHole = false
}

// StepBall advances a moving ball by one tick against the hole geometry.
// Balls that are at rest or already sunk are left untouched. Hazard
// penalties are not applied here; the caller charges the stroke.
//
// The tick's movement is split into substeps of at most BallRadius so a
// fast ball cannot pass through a thin obstacle between two positions.
func StepBall(b *Ball, h *Hole) StepOutcome {
	if !b.IsMoving || b.IsInHole {
		return StepOutcome{}
	}

	var out StepOutcome
	n := substeps(b.Velocity)
	for i := 0; i < n; i++ {
		b.Position = b.Position.Plus(b.Velocity.Times(1 / float64(n)))
		if reflectOffBounds(b, h.Bounds) {
			out.Collided = true
		}
		collided, hazard := collide(b, h)
		if hazard {
			b.placeAt(h.StartPosition)
			out.Hazard = true
			return out
		}
		if collided {
			out.Collided = true
		}
	}
	b.Velocity = b.Velocity.Times(Friction)

	clampToBounds(b, h.Bounds)

	if b.Position.DistanceTo(h.HolePosition) <= HoleRadius && b.Velocity.SlowerThan(SinkSpeed) {
		b.Position = h.HolePosition
		b.Velocity = Vec2{}
		b.IsMoving = false
		b.IsInHole = true
		out.Sunk = true
		return out
	}

	if b.Velocity.SlowerThan(MinVelocity) {
		b.Velocity = Vec2{}
		b.IsMoving = false
		return out
	}

	out.Moving = true
	return out
}

const (
	maxSubsteps      = 64
	maxResolvePasses = 4
)

func substeps(v Vec2) int {
	n := int(math.Ceil(v.Magnitude() / BallRadius))
	if n < 1 {
		return 1
	}
	if n > maxSubsteps {
		return maxSubsteps
	}
	return n
}

// collide checks the ball against every obstacle in order. Touching water
// stops the check and reports a hazard. Solids are resolved repeatedly
// since pushing out of one can land the ball in a neighbour.
func collide(b *Ball, h *Hole) (collided, hazard bool) {
	for pass := 0; pass < maxResolvePasses; pass++ {
		moved := false
		for _, o := range h.Obstacles {
			r := o.Shape().Rect()
			if !ballOverlaps(b.Position, r) {
				continue
			}
			if !IsSolid(o) {
				return collided, true
			}
			resolveSolid(b, r, h.Bounds)
			collided, moved = true, true
		}
		if !moved {
			break
		}
	}
	return collided, false
}

// reflectOffBounds bounces the ball off the edges of the play area.
func reflectOffBounds(b *Ball, bounds Rect) bool {
	hit := false
	minX, maxX := bounds.Left()+BallRadius, bounds.Right()-BallRadius
	minY, maxY := bounds.Top()+BallRadius, bounds.Bottom()-BallRadius

	if b.Position.X < minX {
		b.Position.X = minX
		b.Velocity.X = math.Abs(b.Velocity.X) * Restitution
		hit = true
	} else if b.Position.X > maxX {
		b.Position.X = maxX
		b.Velocity.X = -math.Abs(b.Velocity.X) * Restitution
		hit = true
	}

	if b.Position.Y < minY {
		b.Position.Y = minY
		b.Velocity.Y = math.Abs(b.Velocity.Y) * Restitution
		hit = true
	} else if b.Position.Y > maxY {
		b.Position.Y = maxY
		b.Velocity.Y = -math.Abs(b.Velocity.Y) * Restitution
		hit = true
	}
	return hit
}

func clampToBounds(b *Ball, bounds Rect) {
	b.Position.X = math.Max(bounds.Left()+BallRadius, math.Min(b.Position.X, bounds.Right()-BallRadius))
	b.Position.Y = math.Max(bounds.Top()+BallRadius, math.Min(b.Position.Y, bounds.Bottom()-BallRadius))
}

// ballOverlaps tests the ball's bounding box against r. Touching edges do not count.
func ballOverlaps(pos Vec2, r Rect) bool {
	return pos.X+BallRadius > r.Left() && pos.X-BallRadius < r.Right() &&
		pos.Y+BallRadius > r.Top() && pos.Y-BallRadius < r.Bottom()
}

// resolveSolid pushes the ball out of r along the axis of least penetration
// and sends it back the way it came on that axis. A face is only used if
// the ball would still sit inside bounds after the push.
func resolveSolid(b *Ball, r Rect, bounds Rect) {
	pushLeft := b.Position.X + BallRadius - r.Left()
	pushRight := r.Right() - (b.Position.X - BallRadius)
	pushUp := b.Position.Y + BallRadius - r.Top()
	pushDown := r.Bottom() - (b.Position.Y - BallRadius)

	if r.Left()-BallRadius < bounds.Left()+BallRadius {
		pushLeft = math.Inf(1)
	}
	if r.Right()+BallRadius > bounds.Right()-BallRadius {
		pushRight = math.Inf(1)
	}
	if r.Top()-BallRadius < bounds.Top()+BallRadius {
		pushUp = math.Inf(1)
	}
	if r.Bottom()+BallRadius > bounds.Bottom()-BallRadius {
		pushDown = math.Inf(1)
	}

	overlapX := math.Min(pushLeft, pushRight)
	overlapY := math.Min(pushUp, pushDown)

	if overlapX < overlapY {
		if pushLeft < pushRight {
			b.Position.X = r.Left() - BallRadius
			b.Velocity.X = -math.Abs(b.Velocity.X) * Restitution
		} else {
			b.Position.X = r.Right() + BallRadius
			b.Velocity.X = math.Abs(b.Velocity.X) * Restitution
		}
		return
	}

	if pushUp < pushDown {
		b.Position.Y = r.Top() - BallRadius
		b.Velocity.Y = -math.Abs(b.Velocity.Y) * Restitution
	} else {
		b.Position.Y = r.Bottom() + BallRadius
		b.Velocity.Y = math.Abs(b.Velocity.Y) * Restitution
	}
}

// TicksToRest estimates how many frictional ticks a free ball with the
// given speed needs before it stops.
func TicksToRest(speed float64) int {
	if speed < MinVelocity {
		return 0
	}
	return int(math.Ceil(math.Log(MinVelocity/speed) / math.Log(Friction)))
}
