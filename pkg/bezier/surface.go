package bezier

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/shiftmaze/pkg/math3d"
)

// Surface is a tensor-product Bézier patch. Grid[i][j] is the control point
// at row i (u direction) and column j (v direction).
//
// The grid must not be degenerate: where the u and v tangents are parallel
// the normal is undefined and Normal returns the unnormalized cross product.
type Surface struct {
	Grid [][]math3d.Vec3
}

// NewSurface validates that the grid is rectangular and at least 2x2.
func NewSurface(grid [][]math3d.Vec3) (*Surface, error) {
	if len(grid) < 2 {
		return nil, fmt.Errorf("surface with %d rows: %w", len(grid), ErrTooFewPoints)
	}
	cols := len(grid[0])
	if cols < 2 {
		return nil, fmt.Errorf("surface with %d columns: %w", cols, ErrTooFewPoints)
	}
	for i, row := range grid {
		if len(row) != cols {
			return nil, fmt.Errorf("surface row %d has %d points, want %d", i, len(row), cols)
		}
	}
	return &Surface{Grid: grid}, nil
}

// Point evaluates the patch at (u, v): sum_i sum_j B(m,i,u) B(n,j,v) P_ij.
func (s *Surface) Point(u, v float64) math3d.Vec3 {
	u, v = clamp01(u), clamp01(v)
	m := len(s.Grid) - 1
	n := len(s.Grid[0]) - 1
	var p math3d.Vec3
	for i, row := range s.Grid {
		bu := Bernstein(m, i, u)
		for j, cp := range row {
			p = p.Add(cp.Scale(bu * Bernstein(n, j, v)))
		}
	}
	return p
}

// Partials returns the tangents dP/du and dP/dv at (u, v).
func (s *Surface) Partials(u, v float64) (du, dv math3d.Vec3) {
	u, v = clamp01(u), clamp01(v)

	// Collapse each row along v, then differentiate the resulting column in u.
	col := make([]math3d.Vec3, len(s.Grid))
	for i, row := range s.Grid {
		col[i] = deCasteljau(row, v)
	}
	du = tangent(col, u)

	// Collapse each column along u, then differentiate the resulting row in v.
	cols := len(s.Grid[0])
	row := make([]math3d.Vec3, cols)
	tmp := make([]math3d.Vec3, len(s.Grid))
	for j := range cols {
		for i := range s.Grid {
			tmp[i] = s.Grid[i][j]
		}
		row[j] = deCasteljau(tmp, u)
	}
	dv = tangent(row, v)
	return du, dv
}

// Normal returns the unit surface normal du x dv at (u, v).
func (s *Surface) Normal(u, v float64) math3d.Vec3 {
	du, dv := s.Partials(u, v)
	return du.Cross(dv).Normalize()
}

// ErrEmptyDomain is returned by Terrain.Validate for an empty rectangle.
var ErrEmptyDomain = errors.New("bezier: empty terrain domain")

// Terrain is the floor height field h(x,z) = A*sin(x*fx)*cos(z*fz) sampled
// over [Min.X, Max.X] x [Min.Y, Max.Y] on a Resolution x Resolution grid.
type Terrain struct {
	Amplitude  float64
	FreqX      float64
	FreqZ      float64
	Min, Max   math3d.Vec2
	Resolution int
}

// Validate reports an unusable sampling configuration.
func (t Terrain) Validate() error {
	if t.Resolution < 1 {
		return fmt.Errorf("terrain resolution %d: %w", t.Resolution, ErrTooFewPoints)
	}
	if t.Max.X <= t.Min.X || t.Max.Y <= t.Min.Y {
		return fmt.Errorf("terrain [%v, %v]: %w", t.Min, t.Max, ErrEmptyDomain)
	}
	return nil
}

// Height returns the terrain height at world (x, z).
func (t Terrain) Height(x, z float64) float64 {
	return t.Amplitude * math.Sin(x*t.FreqX) * math.Cos(z*t.FreqZ)
}

// Normal returns normalize(-dh/dx, 1, -dh/dz) at world (x, z).
func (t Terrain) Normal(x, z float64) math3d.Vec3 {
	dhdx := t.Amplitude * t.FreqX * math.Cos(x*t.FreqX) * math.Cos(z*t.FreqZ)
	dhdz := -t.Amplitude * t.FreqZ * math.Sin(x*t.FreqX) * math.Sin(z*t.FreqZ)
	return math3d.V3(-dhdx, 1, -dhdz).Normalize()
}

// Vertex returns the surface position and normal at grid sample (i, j).
func (t Terrain) Vertex(i, j int) (pos, normal math3d.Vec3) {
	step := t.Max.Sub(t.Min).Scale(1 / float64(t.Resolution))
	x := t.Min.X + float64(i)*step.X
	z := t.Min.Y + float64(j)*step.Y
	return math3d.V3(x, t.Height(x, z), z), t.Normal(x, z)
}

// Sphere is a parametric sphere centred at the origin. u sweeps longitude
// and v sweeps latitude from the south pole (v=0) to the north pole (v=1).
type Sphere struct {
	Radius float64
}

// Point returns the surface point at (u, v).
func (s Sphere) Point(u, v float64) math3d.Vec3 {
	return s.Normal(u, v).Scale(s.Radius)
}

// Normal returns the outward unit normal at (u, v).
func (s Sphere) Normal(u, v float64) math3d.Vec3 {
	theta := u * 2 * math.Pi
	phi := (v - 0.5) * math.Pi
	return math3d.V3(
		math.Cos(phi)*math.Cos(theta),
		math.Sin(phi),
		math.Cos(phi)*math.Sin(theta),
	)
}

// Cylinder is a parametric open cylinder along +Y with its base at y=0.
type Cylinder struct {
	Radius float64
	Height float64
}

// Point returns the surface point at (u, v); u sweeps the circumference and
// v the height.
func (c Cylinder) Point(u, v float64) math3d.Vec3 {
	n := c.Normal(u, v)
	return math3d.V3(n.X*c.Radius, v*c.Height, n.Z*c.Radius)
}

// Normal returns the outward radial normal at (u, v).
func (c Cylinder) Normal(u, _ float64) math3d.Vec3 {
	theta := u * 2 * math.Pi
	return math3d.V3(math.Cos(theta), 0, math.Sin(theta))
}
