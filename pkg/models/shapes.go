package models

import (
	"fmt"
	"math"

	"github.com/taigrr/shiftmaze/pkg/bezier"
	"github.com/taigrr/shiftmaze/pkg/lighting"
	"github.com/taigrr/shiftmaze/pkg/math3d"
)

// boxFaces lists each face's outward normal and two in-plane axes with
// u x v = normal, so corners walked u-then-v wind counter-clockwise.
var boxFaces = [6][3]math3d.Vec3{
	{{X: 1}, {Z: -1}, {Y: 1}},
	{{X: -1}, {Z: 1}, {Y: 1}},
	{{Y: 1}, {X: 1}, {Z: -1}},
	{{Y: -1}, {X: 1}, {Z: 1}},
	{{Z: 1}, {X: 1}, {Y: 1}},
	{{Z: -1}, {X: -1}, {Y: 1}},
}

// NewBox builds an axis-aligned box of the given size centred on the origin.
// Each side has its own four vertices so the edges stay sharp under Gouraud
// shading.
func NewBox(name string, size math3d.Vec3, c lighting.Color) *Mesh {
	m := NewMesh(name)
	mat := m.AddMaterial(name, c)
	h := size.Scale(0.5)
	uvs := [4]math3d.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	for _, f := range boxFaces {
		n, u, v := f[0], f[1], f[2]
		center := n.Mul(h)
		du, dv := u.Mul(h), v.Mul(h)
		corners := [4]math3d.Vec3{
			center.Sub(du).Sub(dv),
			center.Add(du).Sub(dv),
			center.Add(du).Add(dv),
			center.Sub(du).Add(dv),
		}
		var idx [4]int
		for i, p := range corners {
			idx[i] = m.AddVertex(p, n, uvs[i])
		}
		m.AddQuad(idx[0], idx[1], idx[2], idx[3], mat)
	}
	m.CalculateBounds()
	return m
}

// gridVertex samples a parametric surface at grid point (i, j).
type gridVertex func(i, j int) (pos, normal math3d.Vec3, uv math3d.Vec2)

// addGrid emits a (cols+1) x (rows+1) vertex grid as quads. When the
// surface's u x v points inward the diagonal order is flipped so faces still
// wind counter-clockwise around the outward normal.
func (m *Mesh) addGrid(cols, rows, mat int, flip bool, vertex gridVertex) {
	base := len(m.Vertices)
	for j := 0; j <= rows; j++ {
		for i := 0; i <= cols; i++ {
			m.AddVertex(vertex(i, j))
		}
	}
	at := func(i, j int) int { return base + j*(cols+1) + i }
	for j := range rows {
		for i := range cols {
			a, b, c, d := at(i, j), at(i+1, j), at(i+1, j+1), at(i, j+1)
			if flip {
				m.AddQuad(a, d, c, b, mat)
			} else {
				m.AddQuad(a, b, c, d, mat)
			}
		}
	}
}

// NewSphere tessellates bezier.Sphere into slices x stacks quads. The quads
// touching the poles collapse to triangles whose degenerate halves are
// dropped by the front-facing test.
func NewSphere(name string, radius float64, slices, stacks int, c lighting.Color) *Mesh {
	slices, stacks = max(slices, 3), max(stacks, 2)
	s := bezier.Sphere{Radius: radius}
	m := NewMesh(name)
	mat := m.AddMaterial(name, c)
	m.addGrid(slices, stacks, mat, true, func(i, j int) (math3d.Vec3, math3d.Vec3, math3d.Vec2) {
		u, v := float64(i)/float64(slices), float64(j)/float64(stacks)
		return s.Point(u, v), s.Normal(u, v), math3d.V2(u, v)
	})
	m.CalculateBounds()
	return m
}

// NewCylinder builds a closed cylinder along +Y with its base at y=0.
func NewCylinder(name string, radius, height float64, slices int, c lighting.Color) *Mesh {
	slices = max(slices, 3)
	cyl := bezier.Cylinder{Radius: radius, Height: height}
	m := NewMesh(name)
	mat := m.AddMaterial(name, c)
	m.addGrid(slices, 1, mat, true, func(i, j int) (math3d.Vec3, math3d.Vec3, math3d.Vec2) {
		u, v := float64(i)/float64(slices), float64(j)
		return cyl.Point(u, v), cyl.Normal(u, v), math3d.V2(u, v)
	})

	// Caps carry flat normals, so they get their own ring vertices.
	for _, top := range []bool{false, true} {
		y, n := 0.0, math3d.V3(0, -1, 0)
		if top {
			y, n = height, math3d.Up()
		}
		center := m.AddVertex(math3d.V3(0, y, 0), n, math3d.V2(0.5, 0.5))
		ring := make([]int, slices)
		for i := range slices {
			a := float64(i) / float64(slices) * 2 * math.Pi
			p := math3d.V3(math.Cos(a)*radius, y, math.Sin(a)*radius)
			ring[i] = m.AddVertex(p, n, math3d.V2(0.5+0.5*math.Cos(a), 0.5+0.5*math.Sin(a)))
		}
		for i := range slices {
			cur, next := ring[i], ring[(i+1)%slices]
			if top {
				m.AddTriangle(center, next, cur, mat)
			} else {
				m.AddTriangle(center, cur, next, mat)
			}
		}
	}
	m.CalculateBounds()
	return m
}

// NewTerrain samples a height field into a (res+1)^2 grid. uvRepeat is the
// number of texture repeats across the whole terrain.
func NewTerrain(name string, t bezier.Terrain, uvRepeat float64, c lighting.Color) (*Mesh, error) {
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("terrain %q: %w", name, err)
	}
	res := t.Resolution
	m := NewMesh(name)
	mat := m.AddMaterial(name, c)
	m.addGrid(res, res, mat, true, func(i, j int) (math3d.Vec3, math3d.Vec3, math3d.Vec2) {
		pos, n := t.Vertex(i, j)
		uv := math3d.V2(float64(i), float64(j)).Scale(uvRepeat / float64(res))
		return pos, n, uv
	})
	m.CalculateBounds()
	return m, nil
}

// NewPatch tessellates a Bézier surface into res x res quads, facing along
// du x dv.
func NewPatch(name string, s *bezier.Surface, res int, c lighting.Color) *Mesh {
	res = max(res, 1)
	m := NewMesh(name)
	mat := m.AddMaterial(name, c)
	m.addGrid(res, res, mat, false, func(i, j int) (math3d.Vec3, math3d.Vec3, math3d.Vec2) {
		u, v := float64(i)/float64(res), float64(j)/float64(res)
		return s.Point(u, v), s.Normal(u, v), math3d.V2(u, v)
	})
	m.CalculateBounds()
	return m
}
