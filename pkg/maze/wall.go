package maze

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/shiftmaze/pkg/bezier"
	"github.com/taigrr/shiftmaze/pkg/math3d"
)

// ScaleBlockThreshold is the scale above which a scaling wall is solid.
const ScaleBlockThreshold = 0.5

// Behavior animates a dynamic wall.
type Behavior interface {
	// Kind returns the cell kind the behavior shows on the grid.
	Kind() Cell
	// Advance steps the animation by dt seconds.
	Advance(dt float64)
	// Transform returns the model matrix for a wall box centred on the
	// origin, given the cell's world centre at half wall height.
	Transform(base math3d.Vec3) math3d.Mat4
	// Blocks reports whether a circle of radius r at pos hits the wall.
	// half is the static collision half extent of a cell.
	Blocks(base, pos math3d.Vec3, r, half float64) bool
}

// DynamicWall is an animated wall occupying one grid cell.
type DynamicWall struct {
	Cell      GridPos
	Behavior  Behavior
	Temporary bool    // Spawned by a shift; expires
	Age       float64 // Seconds since creation
}

// Kind returns the current behavior kind.
func (w *DynamicWall) Kind() Cell {
	return w.Behavior.Kind()
}

// Advance ages the wall and steps its behavior.
func (w *DynamicWall) Advance(dt float64) {
	w.Age += dt
	w.Behavior.Advance(dt)
}

// Rotator spins the wall about its vertical axis.
type Rotator struct {
	Angle float64 // Radians
	Speed float64 // Radians per second
}

func (r *Rotator) Kind() Cell { return DynamicRotate }

func (r *Rotator) Advance(dt float64) {
	r.Angle = math.Mod(r.Angle+r.Speed*dt, 2*math.Pi)
}

func (r *Rotator) Transform(base math3d.Vec3) math3d.Mat4 {
	return math3d.Translate(base).Mul(math3d.RotateY(r.Angle))
}

// Blocks uses the circle circumscribing the spinning square.
func (r *Rotator) Blocks(base, pos math3d.Vec3, radius, half float64) bool {
	reach := half*math.Sqrt2 + radius
	return base.DistanceXZ(pos) < reach
}

// Slider moves the wall back and forth along a Bézier path.
type Slider struct {
	Path  *bezier.Curve
	T     float64
	Speed float64
	Dir   float64 // +1 or -1
}

func (s *Slider) Kind() Cell { return DynamicSlide }

func (s *Slider) Advance(dt float64) {
	s.T, s.Dir = pingPong(s.T+s.Speed*s.Dir*dt, s.Dir)
}

// Position returns the wall centre on its path.
func (s *Slider) Position() math3d.Vec3 {
	return s.Path.Point(s.T)
}

func (s *Slider) Transform(math3d.Vec3) math3d.Mat4 {
	return math3d.Translate(s.Position())
}

func (s *Slider) Blocks(_, pos math3d.Vec3, radius, half float64) bool {
	return boxHit(s.Position(), pos, half, radius)
}

// pingPong reflects t at 0 and 1, returning the clamped value and the
// direction to continue in.
func pingPong(t, dir float64) (float64, float64) {
	switch {
	case t >= 1:
		return 1, -1
	case t <= 0:
		return 0, 1
	}
	return t, dir
}

// Scaler grows and shrinks the wall out of the floor. Target flips between
// 0 and 1 every Period seconds and Scale follows it on a critically damped
// spring.
type Scaler struct {
	Scale     float64
	Velocity  float64
	Target    float64
	Period    float64
	Frequency float64 // Spring frequency in Hz

	timer    float64
	spring   harmonica.Spring
	springDT float64
}

// NewScaler returns a solid scaling wall.
func NewScaler(period, frequency float64) *Scaler {
	return &Scaler{Scale: 1, Target: 1, Period: period, Frequency: frequency}
}

func (s *Scaler) Kind() Cell { return DynamicScale }

func (s *Scaler) Advance(dt float64) {
	if dt <= 0 {
		return
	}
	s.timer += dt
	for s.Period > 0 && s.timer >= s.Period {
		s.timer -= s.Period
		s.Target = 1 - s.Target
	}
	// harmonica bakes the timestep into the spring coefficients.
	if s.springDT != dt {
		s.spring = harmonica.NewSpring(dt, 2*math.Pi*s.Frequency, 1)
		s.springDT = dt
	}
	s.Scale, s.Velocity = s.spring.Update(s.Scale, s.Velocity, s.Target)
	s.Scale = math.Max(0, math.Min(1, s.Scale))
}

// Transform scales the wall about the centre of its footprint on the floor,
// so a small wall sits on the ground rather than floating at mid height.
func (s *Scaler) Transform(base math3d.Vec3) math3d.Mat4 {
	k := math.Max(s.Scale, 1e-3)
	return math3d.Translate(math3d.V3(base.X, base.Y*k, base.Z)).Mul(math3d.ScaleUniform(k))
}

func (s *Scaler) Blocks(base, pos math3d.Vec3, radius, half float64) bool {
	return s.Scale > ScaleBlockThreshold && boxHit(base, pos, half, radius)
}

// boxHit tests a circle of radius r at pos against the square of half
// extent half centred on c, in the XZ plane.
func boxHit(c, pos math3d.Vec3, half, r float64) bool {
	return math.Abs(pos.X-c.X) < half+r && math.Abs(pos.Z-c.Z) < half+r
}
