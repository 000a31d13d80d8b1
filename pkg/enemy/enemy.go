// Package enemy moves the maze's hostiles: patrols along Bézier paths,
// chasers that home in on the player and guards that hold an area.
package enemy

import (
	"math"

	"github.com/taigrr/shiftmaze/pkg/bezier"
	"github.com/taigrr/shiftmaze/pkg/lighting"
	"github.com/taigrr/shiftmaze/pkg/math3d"
)

// Height is the world y at which enemies float.
const Height = 0.5

const (
	defaultRadius    = 0.4
	defaultSpeed     = 0.15
	defaultDetection = 8.0
	spinRate         = math.Pi / 4 // 45 degrees per second
	pulseRate        = 3.0
)

// Kind names an enemy's movement mode.
type Kind int

const (
	Patrol Kind = iota
	Circular
	Chase
	Guard
)

func (k Kind) String() string {
	switch k {
	case Patrol:
		return "patrol"
	case Circular:
		return "circular"
	case Chase:
		return "chase"
	case Guard:
		return "guard"
	}
	return "unknown"
}

// Mode is an enemy's movement strategy.
type Mode interface {
	Kind() Kind
	// Update moves e by one step given the player's eye position.
	Update(e *Enemy, dt float64, player math3d.Vec3)
	// Reset returns the mode to its initial state.
	Reset()
}

// Enemy is a single hostile.
type Enemy struct {
	Position  math3d.Vec3
	Home      math3d.Vec3
	Radius    float64
	BaseSpeed float64
	Speed     float64
	Alive     bool
	Chasing   bool
	Color     lighting.Color
	Mode      Mode

	Pulse float64 // Phase of the size pulse
	Spin  float64 // Radians about Y
}

func newEnemy(home math3d.Vec3, speed float64, c lighting.Color, mode Mode) *Enemy {
	return &Enemy{
		Position:  home,
		Home:      home,
		Radius:    defaultRadius,
		BaseSpeed: speed,
		Speed:     speed,
		Alive:     true,
		Color:     c,
		Mode:      mode,
	}
}

// NewPatrol returns an enemy that shuttles between start and end on a
// cubic Bézier that swerves sideways and bobs up along the way.
func NewPatrol(start, end math3d.Vec3) *Enemy {
	p0 := start.WithY(Height)
	p3 := end.WithY(Height)
	d := end.Sub(start)
	p1 := math3d.V3(start.X+d.X*0.25, Height+0.3, start.Z+d.Z*0.25+0.5)
	p2 := math3d.V3(start.X+d.X*0.75, Height+0.2, start.Z+d.Z*0.75-0.5)
	path := bezier.MustCurve(p0, p1, p2, p3)
	return newEnemy(p0, defaultSpeed, lighting.RGB(0.8, 0.1, 0.1), &PathMode{Path: path, Dir: 1})
}

// NewCircular returns an enemy that sweeps half a circle of radius r around
// center and back.
func NewCircular(center math3d.Vec3, r float64) *Enemy {
	path := bezier.MustCurve(bezier.CircleArcPoints(center, r, Height)...)
	return newEnemy(path.Point(0), defaultSpeed, lighting.RGB(0.8, 0.1, 0.1), &PathMode{Path: path, Dir: 1, circular: true})
}

// NewChase returns an enemy that hunts the player within its detection
// range and drifts home otherwise.
func NewChase(start math3d.Vec3) *Enemy {
	return newEnemy(start.WithY(Height), 0.12, lighting.RGB(1, 0.3, 0), &ChaseMode{DetectionRange: 10})
}

// NewGuard returns an enemy that circles point and attacks anyone who comes
// within one and a half radii of it.
func NewGuard(point math3d.Vec3, radius float64) *Enemy {
	point = point.WithY(Height)
	return newEnemy(point, 0.18, lighting.RGB(0.6, 0, 0.8), &GuardMode{Point: point, Radius: radius})
}

// Kind returns the enemy's mode kind.
func (e *Enemy) Kind() Kind { return e.Mode.Kind() }

// Update advances the animation and the movement mode.
func (e *Enemy) Update(dt float64, player math3d.Vec3) {
	if !e.Alive || dt <= 0 {
		return
	}
	e.Pulse += dt * pulseRate
	e.Spin = math.Mod(e.Spin+spinRate*dt, 2*math.Pi)
	e.Mode.Update(e, dt, player)
}

// PulseScale is the render scale of the body.
func (e *Enemy) PulseScale() float64 {
	return 1 + 0.1*math.Sin(e.Pulse)
}

// Distance is the 3D distance from the enemy to p.
func (e *Enemy) Distance(p math3d.Vec3) float64 {
	return e.Position.Distance(p)
}

// Collides reports whether a sphere of radius r at center touches the
// enemy.
func (e *Enemy) Collides(center math3d.Vec3, r float64) bool {
	if !e.Alive {
		return false
	}
	sum := e.Radius + r
	return e.Position.DistanceSq(center) < sum*sum
}

// Reset sends the enemy home and restarts its mode.
func (e *Enemy) Reset() {
	e.Position = e.Home
	e.Alive = true
	e.Chasing = false
	e.Mode.Reset()
}

// steer moves e toward target in the XZ plane by step, if it is further
// than minDist away.
func (e *Enemy) steer(target math3d.Vec3, step, minDist float64) {
	d := math3d.V3(target.X-e.Position.X, 0, target.Z-e.Position.Z)
	l := d.Len()
	if l <= minDist {
		return
	}
	e.Position = e.Position.Add(d.Scale(step / l))
}
