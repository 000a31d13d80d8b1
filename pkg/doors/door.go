// Package doors animates hinged doors that block corridors until opened.
package doors

import (
	"math"

	"github.com/taigrr/shiftmaze/pkg/lighting"
	"github.com/taigrr/shiftmaze/pkg/math3d"
	"github.com/taigrr/shiftmaze/pkg/maze"
)

// State is where a door is in its open/close cycle.
type State int

const (
	Locked State = iota
	Closed
	Opening
	Open
	Closing
)

func (s State) String() string {
	switch s {
	case Locked:
		return "locked"
	case Closed:
		return "closed"
	case Opening:
		return "opening"
	case Open:
		return "open"
	case Closing:
		return "closing"
	}
	return "unknown"
}

// Door dimensions in world units.
const (
	Width     = 1.8
	Height    = 2.0
	Thickness = 0.15

	// MaxAngle is the fully open angle in degrees.
	MaxAngle = 90.0
	// PassAngle is the angle past which a swinging door no longer blocks.
	PassAngle = 45.0
	// InteractDistance is how close the player must be to use a door.
	InteractDistance = 2.0

	openTime  = 1.0
	closeTime = 0.8
)

var (
	FrameColor    = lighting.RGB(0.4, 0.3, 0.2)
	PanelColor    = lighting.RGB(0.5, 0.35, 0.25)
	LockedColor   = lighting.RGB(0.6, 0.2, 0.2)
	UnlockedColor = lighting.RGB(0.2, 0.5, 0.3)
)

// Door is a panel hinged on one edge. A panel AlongX spans the X axis and
// so blocks travel along Z.
type Door struct {
	Cell     maze.GridPos
	Position math3d.Vec3 // Floor centre
	AlongX   bool
	State    State
	Angle    float64 // Degrees, 0 closed

	t float64 // Animation progress in [0, 1]
}

// New returns a locked door at floor point pos.
func New(cell maze.GridPos, pos math3d.Vec3, alongX bool) *Door {
	return &Door{Cell: cell, Position: pos.WithY(0), AlongX: alongX}
}

// smoothstep is 3t^2 - 2t^3 on [0, 1].
func smoothstep(t float64) float64 {
	t = math.Max(0, math.Min(1, t))
	return t * t * (3 - 2*t)
}

// Update advances an opening or closing door.
func (d *Door) Update(dt float64) {
	switch d.State {
	case Opening:
		d.t += dt / openTime
		if d.t >= 1 {
			d.t, d.State = 1, Open
		}
		d.Angle = MaxAngle * smoothstep(d.t)
	case Closing:
		d.t += dt / closeTime
		if d.t >= 1 {
			d.t, d.State = 1, Closed
		}
		d.Angle = MaxAngle * (1 - smoothstep(d.t))
	}
}

// TryOpen starts opening the door. A locked door needs hasKey. It reports
// whether the door started to open.
func (d *Door) TryOpen(hasKey bool) bool {
	switch d.State {
	case Locked:
		if !hasKey {
			return false
		}
	case Closed:
	default:
		return false
	}
	d.State, d.t = Opening, 0
	return true
}

// Close starts closing an open door.
func (d *Door) Close() bool {
	if d.State != Open {
		return false
	}
	d.State, d.t = Closing, 0
	return true
}

// Blocking reports whether the door can stop the player.
func (d *Door) Blocking() bool {
	return d.State != Open && d.Angle <= PassAngle
}

// Collides reports whether a circle of radius r at pos hits the closed
// panel.
func (d *Door) Collides(pos math3d.Vec3, r float64) bool {
	if !d.Blocking() {
		return false
	}
	hx, hz := Width/2, Thickness/2
	if !d.AlongX {
		hx, hz = hz, hx
	}
	return math.Abs(pos.X-d.Position.X) < hx+r && math.Abs(pos.Z-d.Position.Z) < hz+r
}

// NearPlayer reports whether pos is close enough to interact.
func (d *Door) NearPlayer(pos math3d.Vec3) bool {
	return d.Position.DistanceXZ(pos) < InteractDistance
}

// Hinge returns the floor point of the hinge edge.
func (d *Door) Hinge() math3d.Vec3 {
	if d.AlongX {
		return d.Position.Add(math3d.V3(-Width/2, 0, 0))
	}
	return d.Position.Add(math3d.V3(0, 0, -Width/2))
}

// Size is the panel's extent for a box mesh centred on the origin.
func (d *Door) Size() math3d.Vec3 {
	if d.AlongX {
		return math3d.V3(Width, Height, Thickness)
	}
	return math3d.V3(Thickness, Height, Width)
}

// Transform places a unit-centred panel box in the world, swung about the
// hinge by the current angle.
func (d *Door) Transform() math3d.Mat4 {
	swing := math3d.RotateAbout(d.Hinge(), math3d.Up(), d.Angle*math.Pi/180)
	return swing.Mul(math3d.Translate(d.Position.Add(math3d.V3(0, Height/2, 0))))
}

// Color is the panel tint for the current state.
func (d *Door) Color() lighting.Color {
	switch d.State {
	case Locked:
		return LockedColor
	case Closed:
		return UnlockedColor
	}
	return PanelColor
}
