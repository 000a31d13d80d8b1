package render

import (
	"github.com/taigrr/shiftmaze/pkg/math3d"
)

// Plane is the set of points p with Normal·p + D = 0.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

// Normalize rescales the plane so its normal has unit length. A degenerate
// plane is left alone.
func (p *Plane) Normalize() {
	if l := p.Normal.Len(); l > 0 {
		p.Normal, p.D = p.Normal.Scale(1/l), p.D/l
	}
}

// DistanceToPoint is the signed distance from the plane to point, positive
// on the side the normal faces.
func (p Plane) DistanceToPoint(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// Plane indices within Frustum.Planes.
const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumNear
	FrustumFar
)

// Frustum is the camera's view volume as six inward-facing planes.
type Frustum struct {
	Planes [6]Plane
}

// Visibility classifies a volume against a frustum.
type Visibility int

const (
	Outside Visibility = iota
	Partial
	Inside
)

func (v Visibility) String() string {
	switch v {
	case Outside:
		return "outside"
	case Partial:
		return "partial"
	}
	return "inside"
}

// NewFrustumFromMatrix reads the planes off a view-projection matrix: each
// one is the last row plus or minus another row.
func NewFrustumFromMatrix(m math3d.Mat4) Frustum {
	var rows [4]Plane
	for i := range rows {
		rows[i] = Plane{Normal: math3d.V3(m.Get(i, 0), m.Get(i, 1), m.Get(i, 2)), D: m.Get(i, 3)}
	}
	w := rows[3]
	combine := func(r Plane, sign float64) Plane {
		return Plane{Normal: w.Normal.Add(r.Normal.Scale(sign)), D: w.D + sign*r.D}
	}

	var f Frustum
	for axis := range 3 {
		f.Planes[2*axis] = combine(rows[axis], 1)
		f.Planes[2*axis+1] = combine(rows[axis], -1)
	}
	for i := range f.Planes {
		f.Planes[i].Normalize()
	}
	return f
}

// Classify reports whether box is wholly outside, straddling or wholly
// inside the frustum.
func (f Frustum) Classify(box AABB) Visibility {
	result := Inside
	for _, p := range f.Planes {
		if p.DistanceToPoint(box.support(p.Normal)) < 0 {
			return Outside
		}
		if p.DistanceToPoint(box.support(p.Normal.Negate())) < 0 {
			result = Partial
		}
	}
	return result
}

// IntersectAABB reports whether any part of box may be visible.
func (f Frustum) IntersectAABB(box AABB) bool {
	return f.Classify(box) != Outside
}

// ContainsPoint reports whether p lies inside every plane.
func (f Frustum) ContainsPoint(p math3d.Vec3) bool {
	return f.IntersectsSphere(p, 0)
}

// IntersectsSphere reports whether a sphere reaches into the frustum.
func (f Frustum) IntersectsSphere(center math3d.Vec3, radius float64) bool {
	for _, p := range f.Planes {
		if p.DistanceToPoint(center) < -radius {
			return false
		}
	}
	return true
}

// AABB is an axis-aligned box.
type AABB struct {
	Min, Max math3d.Vec3
}

// NewAABB spans two opposite corners given in any order.
func NewAABB(a, b math3d.Vec3) AABB {
	return AABB{Min: a.Min(b), Max: a.Max(b)}
}

// AABBFromCenter builds a box from its centre and half extents, the way a
// maze cell is described.
func AABBFromCenter(center, half math3d.Vec3) AABB {
	return AABB{Min: center.Sub(half), Max: center.Add(half)}
}

func (b AABB) Center() math3d.Vec3 { return b.Min.Add(b.Max).Scale(0.5) }

func (b AABB) Size() math3d.Vec3 { return b.Max.Sub(b.Min) }

// Corner returns corner i in 0..7; bit 0 picks Max.X, bit 1 Max.Y and bit 2
// Max.Z.
func (b AABB) Corner(i int) math3d.Vec3 {
	c := b.Min
	if i&1 != 0 {
		c.X = b.Max.X
	}
	if i&2 != 0 {
		c.Y = b.Max.Y
	}
	if i&4 != 0 {
		c.Z = b.Max.Z
	}
	return c
}

// support is the corner furthest along dir.
func (b AABB) support(dir math3d.Vec3) math3d.Vec3 {
	c := b.Min
	if dir.X >= 0 {
		c.X = b.Max.X
	}
	if dir.Y >= 0 {
		c.Y = b.Max.Y
	}
	if dir.Z >= 0 {
		c.Z = b.Max.Z
	}
	return c
}

// Transform bounds the box after m is applied to its corners.
func (b AABB) Transform(m math3d.Mat4) AABB {
	p := m.TransformPoint(b.Corner(0))
	out := AABB{Min: p, Max: p}
	for i := 1; i < 8; i++ {
		p = m.TransformPoint(b.Corner(i))
		out.Min, out.Max = out.Min.Min(p), out.Max.Max(p)
	}
	return out
}

// ContainsPoint reports whether p is inside or on the box.
func (b AABB) ContainsPoint(p math3d.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Overlaps reports whether two boxes share any point.
func (b AABB) Overlaps(o AABB) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y &&
		b.Min.Z <= o.Max.Z && b.Max.Z >= o.Min.Z
}

// Frustum returns the camera's current view volume.
func (c *Camera) Frustum() Frustum {
	return NewFrustumFromMatrix(c.ViewProjectionMatrix())
}
