package game

import (
	"encoding/json"
	"math"
	"math/rand"
	"strings"
	"testing"
)

// openHole is a 400x300 box with no obstacles and a cup far from the test lanes.
func openHole(obstacles ...Obstacle) *Hole {
	return &Hole{
		ID:            1,
		Name:          "test",
		Par:           3,
		StartPosition: NewVec2(40, 150),
		HolePosition:  NewVec2(380, 280),
		Bounds:        Rect{X: 0, Y: 0, Width: 400, Height: 300},
		Obstacles:     obstacles,
	}
}

func rollingBall(x, y, vx, vy float64) *Ball {
	return &Ball{ID: "b", Position: NewVec2(x, y), Velocity: NewVec2(vx, vy), IsMoving: true}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestFrictionDecaysSpeedEachTick(t *testing.T) {
	hole := openHole()
	ball := rollingBall(100, 150, 5, 0)

	prev := ball.Velocity.Magnitude()
	ticks := 0
	for ball.IsMoving {
		StepBall(ball, hole)
		ticks++
		cur := ball.Velocity.Magnitude()
		if ball.IsMoving && !almostEqual(cur, prev*Friction) {
			t.Fatalf("tick %d: speed %.6f, want %.6f", ticks, cur, prev*Friction)
		}
		prev = cur
		if ticks > 1000 {
			t.Fatal("ball never stopped")
		}
	}

	if ticks != TicksToRest(5) {
		t.Errorf("ball stopped after %d ticks, want %d", ticks, TicksToRest(5))
	}
	if !ball.Velocity.IsZero() {
		t.Errorf("stopped ball kept velocity %+v", ball.Velocity)
	}
	if ball.IsInHole {
		t.Errorf("ball should not have sunk")
	}
	if ball.Position.X < 340 || ball.Position.X > 350 {
		t.Errorf("ball stopped at x=%.2f, want ~345", ball.Position.X)
	}
}

func TestFirstTickIntegratesBeforeFriction(t *testing.T) {
	ball := rollingBall(100, 150, 5, -2)
	out := StepBall(ball, openHole())

	if !out.Moving {
		t.Fatalf("expected ball to keep moving")
	}
	if ball.Position != NewVec2(105, 148) {
		t.Errorf("position = %+v, want {105 148}", ball.Position)
	}
	if !almostEqual(ball.Velocity.X, 4.9) || !almostEqual(ball.Velocity.Y, -1.96) {
		t.Errorf("velocity = %+v, want {4.9 -1.96}", ball.Velocity)
	}
}

func TestRestingAndSunkBallsAreUntouched(t *testing.T) {
	hole := openHole()

	resting := &Ball{Position: NewVec2(100, 100)}
	if out := StepBall(resting, hole); out != (StepOutcome{}) {
		t.Errorf("resting ball outcome = %+v", out)
	}

	sunk := &Ball{Position: hole.HolePosition, IsInHole: true, IsMoving: true, Velocity: NewVec2(3, 3)}
	StepBall(sunk, hole)
	if sunk.Position != hole.HolePosition {
		t.Errorf("sunk ball moved to %+v", sunk.Position)
	}
}

func TestBoundaryReflectionDampsAndClamps(t *testing.T) {
	hole := openHole()
	ball := rollingBall(388, 150, 7, 0)

	out := StepBall(ball, hole)

	if !out.Collided {
		t.Errorf("expected boundary collision")
	}
	if ball.Position.X != 400-BallRadius {
		t.Errorf("x = %.2f, want clamped to %.2f", ball.Position.X, 400-BallRadius)
	}
	want := -7 * Restitution * Friction
	if !almostEqual(ball.Velocity.X, want) {
		t.Errorf("vx = %.4f, want %.4f", ball.Velocity.X, want)
	}
}

func TestFastBallBouncesWithinTick(t *testing.T) {
	hole := openHole()
	ball := rollingBall(380, 150, 24, 0)

	out := StepBall(ball, hole)

	if !out.Collided {
		t.Errorf("expected boundary collision")
	}
	if ball.Velocity.X >= 0 {
		t.Errorf("vx = %.4f, want rebound", ball.Velocity.X)
	}
	if ball.Position.X >= 400-BallRadius {
		t.Errorf("x = %.2f, want the rest of the tick spent rolling back", ball.Position.X)
	}
}

func TestBallNeverLeavesBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	course := DefaultCourse()

	for shot := 0; shot < 200; shot++ {
		hole := &course.Holes[shot%len(course.Holes)]
		ball := &Ball{
			Position: hole.StartPosition,
			Velocity: NewVec2(rng.Float64()*120-60, rng.Float64()*120-60),
			IsMoving: true,
		}
		b := hole.Bounds
		for tick := 0; ball.IsMoving && tick < 2000; tick++ {
			StepBall(ball, hole)
			p := ball.Position
			if p.X < b.Left()+BallRadius || p.X > b.Right()-BallRadius ||
				p.Y < b.Top()+BallRadius || p.Y > b.Bottom()-BallRadius {
				t.Fatalf("shot %d tick %d on %q: ball escaped to %+v", shot, tick, hole.Name, p)
			}
		}
	}
}

func TestWallIsNeverPenetrated(t *testing.T) {
	block := wall("block", 200, 100, 40, 100)
	hole := openHole(block)
	r := block.Shape().Rect()

	shots := []*Ball{
		rollingBall(100, 150, 8, 0),    // head on from the left
		rollingBall(220, 40, 0, 6),     // from above
		rollingBall(330, 160, -9, 0),   // from the right
		rollingBall(150, 260, 4, -5),   // diagonal into the bottom-left corner
		rollingBall(100, 110, 12, 0.5), // grazing the top edge
	}

	for i, ball := range shots {
		hit := false
		for tick := 0; ball.IsMoving && tick < 2000; tick++ {
			out := StepBall(ball, hole)
			hit = hit || out.Collided
			if ballOverlaps(ball.Position, r) {
				t.Fatalf("shot %d tick %d: ball at %+v overlaps wall", i, tick, ball.Position)
			}
		}
		if !hit {
			t.Errorf("shot %d never collided", i)
		}
	}
}

func TestSolidResolvesAlongMinimumOverlap(t *testing.T) {
	r := Rect{X: 200, Y: 100, Width: 40, Height: 100}
	bounds := openHole().Bounds

	// Slightly into the left face: x is the shallow axis.
	ball := &Ball{Position: NewVec2(194, 150), Velocity: NewVec2(3, 1)}
	resolveSolid(ball, r, bounds)
	if ball.Position.X != 192 || ball.Position.Y != 150 {
		t.Errorf("left face: position = %+v, want {192 150}", ball.Position)
	}
	if !almostEqual(ball.Velocity.X, -3*Restitution) || ball.Velocity.Y != 1 {
		t.Errorf("left face: velocity = %+v", ball.Velocity)
	}

	// Slightly into the bottom face: y is the shallow axis.
	ball = &Ball{Position: NewVec2(220, 205), Velocity: NewVec2(1, -4)}
	resolveSolid(ball, r, bounds)
	if ball.Position.Y != 208 || ball.Position.X != 220 {
		t.Errorf("bottom face: position = %+v, want {220 208}", ball.Position)
	}
	if !almostEqual(ball.Velocity.Y, 4*Restitution) || ball.Velocity.X != 1 {
		t.Errorf("bottom face: velocity = %+v", ball.Velocity)
	}
}

func TestSolidNeverPushesOffCourse(t *testing.T) {
	// wall-4 lines the right edge of the course. A ball that ends up deep
	// inside it must come out on the course side.
	r := Rect{X: 730, Y: 70, Width: 20, Height: 460}
	ball := &Ball{Position: NewVec2(742, 250), Velocity: NewVec2(5, 0)}

	resolveSolid(ball, r, courseBounds)

	if ball.Position.X != 722 || ball.Position.Y != 250 {
		t.Errorf("position = %+v, want {722 250}", ball.Position)
	}
	if ball.Velocity.X >= 0 {
		t.Errorf("vx = %.4f, want pointing back onto the course", ball.Velocity.X)
	}
}

func TestFastShotIntoOuterWall(t *testing.T) {
	hole := &DefaultCourse().Holes[0]
	ball := rollingBall(690, 250, 60, 0)

	for tick := 0; ball.IsMoving && tick < 2000; tick++ {
		StepBall(ball, hole)
		for _, o := range hole.Obstacles {
			if ballOverlaps(ball.Position, o.Shape().Rect()) {
				t.Fatalf("tick %d: ball at %+v inside %s", tick, ball.Position, o.Shape().ID)
			}
		}
	}
	if ball.Position.X > 730-BallRadius {
		t.Errorf("ball came to rest at %+v behind the right wall", ball.Position)
	}
}

func TestHighSpeedShotsNeverEndInsideSolids(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	course := DefaultCourse()

	for i := range course.Holes {
		hole := &course.Holes[i]
		for shot := 0; shot < 200; shot++ {
			ball := &Ball{
				Position: hole.StartPosition,
				Velocity: NewVec2(rng.Float64()*120-60, rng.Float64()*120-60),
				IsMoving: true,
			}
			for tick := 0; ball.IsMoving && tick < 3000; tick++ {
				StepBall(ball, hole)
				for _, o := range hole.Obstacles {
					if ballOverlaps(ball.Position, o.Shape().Rect()) {
						t.Fatalf("hole %d shot %d tick %d: ball at %+v inside %s",
							hole.ID, shot, tick, ball.Position, o.Shape().ID)
					}
				}
			}
		}
	}
}

func TestWindmillAndRampAreSolid(t *testing.T) {
	for _, o := range []Obstacle{
		windmill("blade", 200, 100, 10, 100, 45),
		ramp("ramp", 200, 100, 10, 100),
	} {
		if !IsSolid(o) {
			t.Errorf("%s should be solid", o.Kind())
		}
		ball := rollingBall(100, 150, 8, 0)
		hole := openHole(o)
		for ball.IsMoving {
			StepBall(ball, hole)
		}
		if ball.Position.X > 200 {
			t.Errorf("%s: ball passed through to x=%.2f", o.Kind(), ball.Position.X)
		}
	}
	if IsSolid(water("w", 0, 0, 1, 1)) {
		t.Errorf("water should not be solid")
	}
}

func TestWaterResetsOncePerEntry(t *testing.T) {
	hole := openHole(water("pond", 200, 100, 100, 100))
	ball := rollingBall(100, 150, 10, 0)

	hazards := 0
	for tick := 0; ball.IsMoving && tick < 2000; tick++ {
		if StepBall(ball, hole).Hazard {
			hazards++
		}
	}

	if hazards != 1 {
		t.Errorf("hazards = %d, want 1", hazards)
	}
	if ball.Position != hole.StartPosition {
		t.Errorf("ball at %+v, want start %+v", ball.Position, hole.StartPosition)
	}
	if !ball.Velocity.IsZero() || ball.IsMoving || ball.IsInHole {
		t.Errorf("ball not at rest after hazard: %+v", ball)
	}
}

func TestWaterCheckedBeforeSink(t *testing.T) {
	hole := openHole(water("cup-pond", 340, 250, 60, 50))
	ball := rollingBall(370, 280, 1, 0) // over the cup and slow, but in water

	out := StepBall(ball, hole)
	if !out.Hazard || out.Sunk {
		t.Errorf("outcome = %+v, want hazard without sink", out)
	}
}

func TestSlowBallSinks(t *testing.T) {
	hole := openHole()
	ball := rollingBall(hole.HolePosition.X-10, hole.HolePosition.Y, 2, 0)

	out := StepBall(ball, hole)

	if !out.Sunk || !ball.IsInHole || ball.IsMoving {
		t.Fatalf("expected sink, got outcome %+v ball %+v", out, ball)
	}
	if ball.Position != hole.HolePosition || !ball.Velocity.IsZero() {
		t.Errorf("sunk ball not snapped to cup: %+v", ball)
	}
}

func TestFastBallRollsOverCup(t *testing.T) {
	hole := openHole()
	ball := rollingBall(hole.HolePosition.X-20, hole.HolePosition.Y, 15, 0)

	out := StepBall(ball, hole)
	if out.Sunk || ball.IsInHole {
		t.Errorf("fast ball should not drop: %+v", ball)
	}
}

func TestDefaultCourseCatalog(t *testing.T) {
	course := DefaultCourse()

	if course.HoleCount() != 8 {
		t.Fatalf("holes = %d, want 8", course.HoleCount())
	}
	wantPar := []int{2, 3, 3, 2, 3, 4, 4, 5}
	for i, h := range course.Holes {
		if h.ID != i+1 {
			t.Errorf("hole %d has id %d", i, h.ID)
		}
		if h.Par != wantPar[i] {
			t.Errorf("hole %d par = %d, want %d", h.ID, h.Par, wantPar[i])
		}
		for _, o := range h.Obstacles {
			r := o.Shape().Rect()
			if ballOverlaps(h.StartPosition, r) {
				t.Errorf("hole %d: start overlaps %s", h.ID, o.Shape().ID)
			}
			if ballOverlaps(h.HolePosition, r) {
				t.Errorf("hole %d: cup overlaps %s", h.ID, o.Shape().ID)
			}
		}
	}
	if course.TotalPar() != 26 {
		t.Errorf("total par = %d, want 26", course.TotalPar())
	}
	if course.Hole(99) != &course.Holes[7] {
		t.Errorf("Hole should clamp to the last hole")
	}
}

func TestHoleJSONShape(t *testing.T) {
	data, err := json.Marshal(DefaultCourse().Holes[4])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)

	for _, want := range []string{
		`"name":"Spinning Windmill"`,
		`"startPosition":{"x":100,"y":300}`,
		`"bounds":{"x":50,"y":50,"width":700,"height":500}`,
		`{"id":"blade-2","type":"windmill","position":{"x":320,"y":295},"size":{"x":80,"y":10},"rotation":90}`,
		`{"id":"windmill-base","type":"wall","position":{"x":380,"y":280},"size":{"x":40,"y":40}}`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("hole JSON missing %s\n%s", want, s)
		}
	}
}
