package enemy

import (
	"math"

	"github.com/taigrr/shiftmaze/pkg/bezier"
	"github.com/taigrr/shiftmaze/pkg/math3d"
)

// PathMode walks a Bézier path back and forth.
type PathMode struct {
	Path *bezier.Curve
	T    float64
	Dir  float64

	circular bool
}

func (m *PathMode) Kind() Kind {
	if m.circular {
		return Circular
	}
	return Patrol
}

func (m *PathMode) Update(e *Enemy, dt float64, _ math3d.Vec3) {
	m.T += e.Speed * m.Dir * dt
	switch {
	case m.T >= 1:
		m.T, m.Dir = 1, -1
	case m.T <= 0:
		m.T, m.Dir = 0, 1
	}
	e.Position = m.Path.Point(m.T)
}

func (m *PathMode) Reset() {
	m.T, m.Dir = 0, 1
}

// ChaseMode homes in on a player within DetectionRange.
type ChaseMode struct {
	DetectionRange float64
}

func (m *ChaseMode) Kind() Kind { return Chase }

func (m *ChaseMode) Update(e *Enemy, dt float64, player math3d.Vec3) {
	e.Chasing = e.Distance(player) < m.DetectionRange
	if e.Chasing {
		e.steer(player, e.Speed*dt*5, 0.01)
		return
	}
	e.steer(e.Home, e.Speed*dt*3, 0.5)
}

func (m *ChaseMode) Reset() {}

// GuardMode orbits Point and chases intruders.
type GuardMode struct {
	Point  math3d.Vec3
	Radius float64
	Phase  float64 // Orbit position in turns
}

// ChaseRange is the distance from the guard point at which the guard
// engages.
func (m *GuardMode) ChaseRange() float64 { return 1.5 * m.Radius }

func (m *GuardMode) Kind() Kind { return Guard }

func (m *GuardMode) Update(e *Enemy, dt float64, player math3d.Vec3) {
	if player.DistanceXZ(m.Point) < m.ChaseRange() {
		e.Chasing = true
		e.steer(player, e.Speed*dt*6, 0.1)
		return
	}
	e.Chasing = false

	if e.Position.DistanceXZ(m.Point) > m.Radius {
		e.steer(m.Point, e.Speed*dt*4, 0)
		return
	}

	angle := m.Phase * 2 * math.Pi
	m.Phase = math.Mod(m.Phase+e.Speed*dt*0.5, 1)
	target := math3d.V3(
		m.Point.X+math.Cos(angle)*m.Radius*0.8,
		e.Position.Y,
		m.Point.Z+math.Sin(angle)*m.Radius*0.8,
	)
	e.Position = e.Position.Lerp(target, math.Min(dt*2, 1))
}

func (m *GuardMode) Reset() { m.Phase = 0 }
