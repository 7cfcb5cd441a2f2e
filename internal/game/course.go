package game

import "encoding/json"

// ObstacleType is the wire tag of an obstacle variant.
type ObstacleType string

const (
	ObstacleWall     ObstacleType = "wall"
	ObstacleWater    ObstacleType = "water"
	ObstacleWindmill ObstacleType = "windmill"
	ObstacleRamp     ObstacleType = "ramp"
)

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) Left() float64   { return r.X }
func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Top() float64    { return r.Y }
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Geometry is the placement shared by every obstacle variant.
type Geometry struct {
	ID       string
	Position Vec2
	Size     Vec2
}

func (g Geometry) Shape() Geometry { return g }

func (g Geometry) Rect() Rect {
	return Rect{X: g.Position.X, Y: g.Position.Y, Width: g.Size.X, Height: g.Size.Y}
}

// Obstacle is one of Wall, Water, Windmill or Ramp.
type Obstacle interface {
	Kind() ObstacleType
	Shape() Geometry
}

type Wall struct{ Geometry }

type Water struct{ Geometry }

// Windmill collides like a wall. Rotation is only drawn by clients.
type Windmill struct {
	Geometry
	Rotation float64
}

// Ramp collides like a wall.
type Ramp struct{ Geometry }

func (Wall) Kind() ObstacleType     { return ObstacleWall }
func (Water) Kind() ObstacleType    { return ObstacleWater }
func (Windmill) Kind() ObstacleType { return ObstacleWindmill }
func (Ramp) Kind() ObstacleType     { return ObstacleRamp }

// IsSolid reports whether the ball bounces off the obstacle rather than
// being penalized by it.
func IsSolid(o Obstacle) bool {
	switch o.(type) {
	case Water:
		return false
	default:
		return true
	}
}

type obstacleJSON struct {
	ID       string       `json:"id"`
	Type     ObstacleType `json:"type"`
	Position Vec2         `json:"position"`
	Size     Vec2         `json:"size"`
	Rotation *float64     `json:"rotation,omitempty"`
}

func toObstacleJSON(o Obstacle) obstacleJSON {
	g := o.Shape()
	out := obstacleJSON{ID: g.ID, Type: o.Kind(), Position: g.Position, Size: g.Size}
	if w, ok := o.(Windmill); ok {
		rot := w.Rotation
		out.Rotation = &rot
	}
	return out
}

// Hole is the static geometry of one hole on a course.
type Hole struct {
	ID            int
	Name          string
	Par           int
	StartPosition Vec2
	HolePosition  Vec2
	Bounds        Rect
	Obstacles     []Obstacle
}

func (h Hole) MarshalJSON() ([]byte, error) {
	obstacles := make([]obstacleJSON, 0, len(h.Obstacles))
	for _, o := range h.Obstacles {
		obstacles = append(obstacles, toObstacleJSON(o))
	}
	return json.Marshal(struct {
		ID            int            `json:"id"`
		Name          string         `json:"name"`
		Par           int            `json:"par"`
		StartPosition Vec2           `json:"startPosition"`
		HolePosition  Vec2           `json:"holePosition"`
		Bounds        Rect           `json:"bounds"`
		Obstacles     []obstacleJSON `json:"obstacles"`
	}{h.ID, h.Name, h.Par, h.StartPosition, h.HolePosition, h.Bounds, obstacles})
}

// Course is an ordered, read-only list of holes.
type Course struct {
	Name  string `json:"name"`
	Holes []Hole `json:"holes"`
}

func (c *Course) HoleCount() int { return len(c.Holes) }

// Hole returns the hole at index i, clamped to the course.
func (c *Course) Hole(i int) *Hole {
	if i < 0 {
		i = 0
	}
	if i >= len(c.Holes) {
		i = len(c.Holes) - 1
	}
	return &c.Holes[i]
}

// TotalPar sums par across all holes.
func (c *Course) TotalPar() int {
	total := 0
	for _, h := range c.Holes {
		total += h.Par
	}
	return total
}

func geom(id string, x, y, w, h float64) Geometry {
	return Geometry{ID: id, Position: Vec2{X: x, Y: y}, Size: Vec2{X: w, Y: h}}
}

func wall(id string, x, y, w, h float64) Obstacle  { return Wall{geom(id, x, y, w, h)} }
func water(id string, x, y, w, h float64) Obstacle { return Water{geom(id, x, y, w, h)} }
func ramp(id string, x, y, w, h float64) Obstacle  { return Ramp{geom(id, x, y, w, h)} }

func windmill(id string, x, y, w, h, rotation float64) Obstacle {
	return Windmill{Geometry: geom(id, x, y, w, h), Rotation: rotation}
}

var courseBounds = Rect{X: 50, Y: 50, Width: 700, Height: 500}

func outerWalls() []Obstacle {
	return []Obstacle{
		wall("wall-1", 50, 50, 700, 20),
		wall("wall-2", 50, 530, 700, 20),
		wall("wall-3", 50, 70, 20, 460),
		wall("wall-4", 730, 70, 20, 460),
	}
}

func withWalls(obstacles ...Obstacle) []Obstacle {
	return append(outerWalls(), obstacles...)
}

// DefaultCourse returns the eight-hole Golf Gang course.
func DefaultCourse() *Course {
	return &Course{
		Name: "Golf Gang Classic",
		Holes: []Hole{
			{
				ID: 1, Name: "Straight Shot", Par: 2,
				StartPosition: Vec2{100, 300}, HolePosition: Vec2{700, 300},
				Bounds: courseBounds,
				Obstacles: withWalls(
					wall("barrier-1", 50, 150, 100, 20),
					wall("barrier-2", 50, 430, 100, 20),
					wall("barrier-3", 600, 150, 100, 20),
					wall("barrier-4", 600, 430, 100, 20),
				),
			},
			{
				ID: 2, Name: "U-Turn Challenge", Par: 3,
				StartPosition: Vec2{100, 300}, HolePosition: Vec2{100, 150},
				Bounds: courseBounds,
				Obstacles: withWalls(
					wall("u-barrier-1", 200, 150, 450, 20),
					wall("u-barrier-2", 630, 170, 20, 280),
					wall("u-barrier-3", 200, 430, 450, 20),
				),
			},
			{
				ID: 3, Name: "Pathway Split", Par: 3,
				StartPosition: Vec2{100, 300}, HolePosition: Vec2{700, 300},
				Bounds: courseBounds,
				Obstacles: withWalls(
					wall("divider-1", 300, 200, 200, 20),
					wall("divider-2", 300, 380, 200, 20),
					wall("divider-3", 380, 220, 20, 160),
				),
			},
			{
				ID: 4, Name: "Water Hazard Bridge", Par: 2,
				StartPosition: Vec2{100, 300}, HolePosition: Vec2{700, 300},
				Bounds: courseBounds,
				Obstacles: withWalls(
					water("water-1", 250, 150, 300, 80),
					water("water-2", 250, 370, 300, 80),
					wall("bridge-1", 370, 230, 60, 10),
					wall("bridge-2", 370, 360, 60, 10),
				),
			},
			{
				ID: 5, Name: "Spinning Windmill", Par: 3,
				StartPosition: Vec2{100, 300}, HolePosition: Vec2{700, 300},
				Bounds: courseBounds,
				Obstacles: withWalls(
					wall("windmill-base", 380, 280, 40, 40),
					windmill("blade-1", 400, 200, 10, 80, 0),
					windmill("blade-2", 320, 295, 80, 10, 90),
					windmill("blade-3", 395, 320, 10, 80, 180),
					windmill("blade-4", 420, 295, 80, 10, 270),
				),
			},
			{
				ID: 6, Name: "Tilted Ramp", Par: 4,
				StartPosition: Vec2{100, 450}, HolePosition: Vec2{700, 150},
				Bounds: courseBounds,
				Obstacles: withWalls(
					ramp("ramp-base", 200, 350, 400, 20),
					wall("ramp-left", 180, 300, 20, 70),
					wall("ramp-right", 600, 180, 20, 190),
					wall("barrier-1", 300, 250, 80, 20),
					wall("barrier-2", 420, 200, 80, 20),
				),
			},
			{
				ID: 7, Name: "Maze Challenge", Par: 4,
				StartPosition: Vec2{100, 300}, HolePosition: Vec2{700, 150},
				Bounds: courseBounds,
				Obstacles: withWalls(
					wall("maze-1", 200, 150, 20, 200),
					wall("maze-2", 220, 330, 150, 20),
					wall("maze-3", 350, 200, 20, 150),
					wall("maze-4", 450, 150, 20, 120),
					wall("maze-5", 470, 250, 100, 20),
					wall("maze-6", 550, 180, 20, 90),
					wall("maze-7", 300, 400, 200, 20),
					wall("maze-8", 480, 350, 20, 70),
				),
			},
			{
				ID: 8, Name: "Final Challenge", Par: 5,
				StartPosition: Vec2{100, 450}, HolePosition: Vec2{700, 150},
				Bounds: courseBounds,
				Obstacles: withWalls(
					water("water-1", 200, 300, 150, 100),
					water("water-2", 450, 200, 100, 150),
					wall("windmill-base-2", 380, 380, 30, 30),
					windmill("blade-final-1", 395, 320, 8, 60, 45),
					windmill("blade-final-2", 350, 390, 60, 8, 135),
					wall("maze-final-1", 600, 250, 20, 100),
					wall("maze-final-2", 620, 330, 80, 20),
					ramp("ramp-final", 250, 180, 150, 15),
					wall("final-barrier-1", 650, 180, 20, 60),
					wall("final-barrier-2", 670, 220, 30, 20),
				),
			},
		},
	}
}
