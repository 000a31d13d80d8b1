// Package math3d provides the vector and matrix primitives used by the maze
// renderer and simulation. The world is Y-up; the ground plane is XZ.
package math3d

import "math"

// Epsilon is the length below which normalization is a no-op.
const Epsilon = 1e-9

// Vec3 is a point or direction in world space.
type Vec3 struct {
	X, Y, Z float64
}

func V3(x, y, z float64) Vec3 { return Vec3{x, y, z} }

func Zero3() Vec3 { return Vec3{} }

// Up is +Y.
func Up() Vec3 { return Vec3{Y: 1} }

// Forward is the direction a camera with zero yaw looks, -Z.
func Forward() Vec3 { return Vec3{Z: -1} }

// Right is +X.
func Right() Vec3 { return Vec3{X: 1} }

// Heading is the unit ground-plane direction for a yaw angle, measured
// clockwise from Forward when seen from above: 0 is -Z and π/2 is +X.
func Heading(yaw float64) Vec3 {
	s, c := math.Sincos(yaw)
	return Vec3{X: s, Z: -c}
}

// Yaw is the inverse of Heading for the ground-plane part of a.
func (a Vec3) Yaw() float64 {
	return math.Atan2(a.X, -a.Z)
}

func (a Vec3) Add(b Vec3) Vec3 { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }

func (a Vec3) Sub(b Vec3) Vec3 { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }

// Mul multiplies component by component.
func (a Vec3) Mul(b Vec3) Vec3 { return Vec3{a.X * b.X, a.Y * b.Y, a.Z * b.Z} }

func (a Vec3) Scale(s float64) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }

func (a Vec3) Div(s float64) Vec3 { return a.Scale(1 / s) }

func (a Vec3) Negate() Vec3 { return Vec3{-a.X, -a.Y, -a.Z} }

func (a Vec3) Dot(b Vec3) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

// Cross is right-handed: Right × Up is -Forward.
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}

func (a Vec3) LenSq() float64 { return a.Dot(a) }

func (a Vec3) Len() float64 { return math.Sqrt(a.LenSq()) }

// Normalize scales a to unit length. Vectors shorter than Epsilon come back
// unchanged.
func (a Vec3) Normalize() Vec3 {
	l := a.Len()
	if l < Epsilon {
		return a
	}
	return a.Scale(1 / l)
}

func (a Vec3) Lerp(b Vec3, t float64) Vec3 { return a.Add(b.Sub(a).Scale(t)) }

func (a Vec3) Distance(b Vec3) float64 { return a.Sub(b).Len() }

func (a Vec3) DistanceSq(b Vec3) float64 { return a.Sub(b).LenSq() }

// DistanceXZ ignores height, which is how the maze measures reach.
func (a Vec3) DistanceXZ(b Vec3) float64 {
	return math.Hypot(a.X-b.X, a.Z-b.Z)
}

// WithY replaces the height.
func (a Vec3) WithY(y float64) Vec3 {
	a.Y = y
	return a
}

// Min and Max work per component.
func (a Vec3) Min(b Vec3) Vec3 {
	return Vec3{math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Min(a.Z, b.Z)}
}

func (a Vec3) Max(b Vec3) Vec3 {
	return Vec3{math.Max(a.X, b.X), math.Max(a.Y, b.Y), math.Max(a.Z, b.Z)}
}

// IsFinite reports whether no component is NaN or infinite.
func (a Vec3) IsFinite() bool {
	return finite(a.X) && finite(a.Y) && finite(a.Z)
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// ApproxEqual compares per component within eps.
func (a Vec3) ApproxEqual(b Vec3, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps && math.Abs(a.Z-b.Z) <= eps
}
