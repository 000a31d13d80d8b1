package math3d

import "math"

// Vec4 is a homogeneous coordinate. Points carry W=1 and directions W=0;
// after projection it is a clip-space position.
type Vec4 struct {
	X, Y, Z, W float64
}

func V4(x, y, z, w float64) Vec4 { return Vec4{x, y, z, w} }

// V4FromV3 extends v with w.
func V4FromV3(v Vec3, w float64) Vec4 { return Vec4{v.X, v.Y, v.Z, w} }

// XYZ drops W.
func (v Vec4) XYZ() Vec3 { return Vec3{v.X, v.Y, v.Z} }

// Vec3 is XYZ; W is discarded, not divided out.
func (v Vec4) Vec3() Vec3 { return v.XYZ() }

func (v Vec4) Add(b Vec4) Vec4 { return Vec4{v.X + b.X, v.Y + b.Y, v.Z + b.Z, v.W + b.W} }

func (v Vec4) Sub(b Vec4) Vec4 { return Vec4{v.X - b.X, v.Y - b.Y, v.Z - b.Z, v.W - b.W} }

func (v Vec4) Scale(s float64) Vec4 { return Vec4{v.X * s, v.Y * s, v.Z * s, v.W * s} }

func (v Vec4) Dot(b Vec4) float64 { return v.X*b.X + v.Y*b.Y + v.Z*b.Z + v.W*b.W }

// Cross is the 3D cross product of the XYZ parts. The result is a
// direction, so W is 0.
func (v Vec4) Cross(b Vec4) Vec4 { return V4FromV3(v.XYZ().Cross(b.XYZ()), 0) }

func (v Vec4) Len() float64 { return math.Sqrt(v.Dot(v)) }

// Normalize scales v to unit length, leaving it unchanged below Epsilon.
func (v Vec4) Normalize() Vec4 {
	l := v.Len()
	if l < Epsilon {
		return v
	}
	return v.Scale(1 / l)
}

// PerspectiveDivide maps clip space to normalized device coordinates. A
// zero W is left undivided.
func (v Vec4) PerspectiveDivide() Vec3 {
	if v.W == 0 {
		return v.XYZ()
	}
	return v.XYZ().Scale(1 / v.W)
}

func (v Vec4) Lerp(b Vec4, t float64) Vec4 {
	return Vec4{
		v.X + (b.X-v.X)*t,
		v.Y + (b.Y-v.Y)*t,
		v.Z + (b.Z-v.Z)*t,
		v.W + (b.W-v.W)*t,
	}
}

// ClipPlane is one side of the clip-space view volume -W <= X, Y, Z <= W.
type ClipPlane int

const (
	ClipLeft ClipPlane = iota
	ClipRight
	ClipBottom
	ClipTop
	ClipNear
	ClipFar
)

func (p ClipPlane) String() string {
	return [...]string{"left", "right", "bottom", "top", "near", "far"}[p]
}

// ClipDistance is positive inside plane p, zero on it and negative outside.
// It is linear along a clip-space segment, so the crossing of a segment
// from a to b sits at t = da / (da - db).
func (v Vec4) ClipDistance(p ClipPlane) float64 {
	switch p {
	case ClipLeft:
		return v.W + v.X
	case ClipRight:
		return v.W - v.X
	case ClipBottom:
		return v.W + v.Y
	case ClipTop:
		return v.W - v.Y
	case ClipNear:
		return v.W + v.Z
	}
	return v.W - v.Z
}

// InClipVolume reports whether v is on the inside of every plane.
func (v Vec4) InClipVolume() bool {
	for p := ClipLeft; p <= ClipFar; p++ {
		if v.ClipDistance(p) < 0 {
			return false
		}
	}
	return true
}
