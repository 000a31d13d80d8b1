// Package bezier evaluates Bézier curves and surfaces along with the closed-form
// parametric surfaces (terrain, sphere, cylinder) used to build maze geometry
// and enemy paths.
package bezier

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/shiftmaze/pkg/math3d"
)

// ErrTooFewPoints is returned when a curve or surface has fewer control
// points than its degree requires.
var ErrTooFewPoints = errors.New("bezier: too few control points")

// CircleK is the control-point offset that makes a cubic Bézier arc
// approximate a quarter circle.
const CircleK = 0.5523

// Binomial returns C(n, k). It is 0 when k is outside [0, n].
func Binomial(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	c := 1
	for i := 1; i <= k; i++ {
		c = c * (n - k + i) / i
	}
	return c
}

// Bernstein returns the Bernstein basis polynomial B(n,k) at t:
// C(n,k) * (1-t)^(n-k) * t^k.
func Bernstein(n, k int, t float64) float64 {
	return float64(Binomial(n, k)) * math.Pow(1-t, float64(n-k)) * math.Pow(t, float64(k))
}

// Curve is a Bézier curve of arbitrary degree. Degree is len(points)-1.
type Curve struct {
	points []math3d.Vec3
}

// NewCurve creates a curve from at least two control points.
func NewCurve(points ...math3d.Vec3) (*Curve, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("curve with %d points: %w", len(points), ErrTooFewPoints)
	}
	cp := make([]math3d.Vec3, len(points))
	copy(cp, points)
	return &Curve{points: cp}, nil
}

// MustCurve is NewCurve for literal control polygons.
func MustCurve(points ...math3d.Vec3) *Curve {
	c, err := NewCurve(points...)
	if err != nil {
		panic(err)
	}
	return c
}

// Degree returns the polynomial degree of the curve.
func (c *Curve) Degree() int {
	return len(c.points) - 1
}

// Len returns the number of control points.
func (c *Curve) Len() int {
	return len(c.points)
}

// ControlPoint returns control point i.
func (c *Curve) ControlPoint(i int) math3d.Vec3 {
	return c.points[i]
}

// SetPoint replaces control point i. Used when a path is re-randomized.
func (c *Curve) SetPoint(i int, p math3d.Vec3) {
	c.points[i] = p
}

// Point evaluates the curve at t by Bernstein summation. t is clamped to
// [0, 1].
func (c *Curve) Point(t float64) math3d.Vec3 {
	t = clamp01(t)
	n := c.Degree()
	var p math3d.Vec3
	for i, cp := range c.points {
		p = p.Add(cp.Scale(Bernstein(n, i, t)))
	}
	return p
}

// DeCasteljau evaluates the curve at t by repeated linear interpolation of
// the control polygon. It agrees with Point to floating-point tolerance.
func (c *Curve) DeCasteljau(t float64) math3d.Vec3 {
	return deCasteljau(c.points, clamp01(t))
}

func deCasteljau(points []math3d.Vec3, t float64) math3d.Vec3 {
	work := make([]math3d.Vec3, len(points))
	copy(work, points)
	for n := len(work) - 1; n > 0; n-- {
		for i := range n {
			work[i] = work[i].Lerp(work[i+1], t)
		}
	}
	return work[0]
}

// Tangent returns the derivative dP/dt at t, computed as n times the
// degree n-1 curve over the differences of consecutive control points.
func (c *Curve) Tangent(t float64) math3d.Vec3 {
	return tangent(c.points, clamp01(t))
}

func tangent(points []math3d.Vec3, t float64) math3d.Vec3 {
	n := len(points) - 1
	if n < 1 {
		return math3d.Vec3{}
	}
	diffs := make([]math3d.Vec3, n)
	for i := range n {
		diffs[i] = points[i+1].Sub(points[i])
	}
	return deCasteljau(diffs, t).Scale(float64(n))
}

// Sample returns n+1 evenly spaced points along the curve, including both
// endpoints.
func (c *Curve) Sample(n int) []math3d.Vec3 {
	if n < 1 {
		n = 1
	}
	out := make([]math3d.Vec3, n+1)
	for i := range out {
		out[i] = c.Point(float64(i) / float64(n))
	}
	return out
}

// CircleArcPoints returns the seven-point control polygon that sweeps a
// near-semicircle of radius r around center at height y, starting at +X and
// ending at -X through +Z.
func CircleArcPoints(center math3d.Vec3, r, y float64) []math3d.Vec3 {
	k := CircleK
	cx, cz := center.X, center.Z
	return []math3d.Vec3{
		math3d.V3(cx+r, y, cz),
		math3d.V3(cx+r, y, cz+r*k),
		math3d.V3(cx+r*k, y, cz+r),
		math3d.V3(cx, y, cz+r),
		math3d.V3(cx-r*k, y, cz+r),
		math3d.V3(cx-r, y, cz+r*k),
		math3d.V3(cx-r, y, cz),
	}
}

func clamp01(t float64) float64 {
	return math.Max(0, math.Min(1, t))
}
