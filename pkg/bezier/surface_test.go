package bezier

import (
	"errors"
	"math"
	"testing"

	"github.com/taigrr/shiftmaze/pkg/math3d"
)

func flatGrid(rows, cols int) [][]math3d.Vec3 {
	grid := make([][]math3d.Vec3, rows)
	for i := range grid {
		grid[i] = make([]math3d.Vec3, cols)
		for j := range grid[i] {
			grid[i][j] = math3d.V3(float64(i), 0, float64(j))
		}
	}
	return grid
}

func TestSurfaceCornersInterpolate(t *testing.T) {
	grid := flatGrid(4, 3)
	grid[1][1].Y = 2
	s, err := NewSurface(grid)
	if err != nil {
		t.Fatal(err)
	}
	corners := []struct {
		u, v float64
		want math3d.Vec3
	}{
		{0, 0, grid[0][0]},
		{1, 0, grid[3][0]},
		{0, 1, grid[0][2]},
		{1, 1, grid[3][2]},
	}
	for _, c := range corners {
		if got := s.Point(c.u, c.v); !got.ApproxEqual(c.want, 1e-12) {
			t.Errorf("P(%v,%v) = %v, want %v", c.u, c.v, got, c.want)
		}
	}
}

func TestFlatSurfaceNormalIsVertical(t *testing.T) {
	s, err := NewSurface(flatGrid(3, 3))
	if err != nil {
		t.Fatal(err)
	}
	// du runs along +X and dv along +Z, so du x dv points down.
	for _, uv := range [][2]float64{{0.2, 0.3}, {0.5, 0.5}, {0.9, 0.1}} {
		n := s.Normal(uv[0], uv[1])
		if !n.ApproxEqual(math3d.V3(0, -1, 0), 1e-9) {
			t.Errorf("normal at %v = %v", uv, n)
		}
	}
}

func TestSurfacePartialsMatchFiniteDifference(t *testing.T) {
	grid := flatGrid(3, 4)
	grid[1][2].Y = 1.5
	grid[2][1].Y = -0.7
	s, err := NewSurface(grid)
	if err != nil {
		t.Fatal(err)
	}
	const h = 1e-6
	u, v := 0.4, 0.6
	du, dv := s.Partials(u, v)
	fdu := s.Point(u+h, v).Sub(s.Point(u-h, v)).Scale(1 / (2 * h))
	fdv := s.Point(u, v+h).Sub(s.Point(u, v-h)).Scale(1 / (2 * h))
	if !du.ApproxEqual(fdu, 1e-4) {
		t.Errorf("du = %v, finite difference %v", du, fdu)
	}
	if !dv.ApproxEqual(fdv, 1e-4) {
		t.Errorf("dv = %v, finite difference %v", dv, fdv)
	}
}

func TestNewSurfaceRejectsBadGrids(t *testing.T) {
	if _, err := NewSurface(flatGrid(1, 3)); !errors.Is(err, ErrTooFewPoints) {
		t.Errorf("1 row: err = %v", err)
	}
	if _, err := NewSurface(flatGrid(3, 1)); !errors.Is(err, ErrTooFewPoints) {
		t.Errorf("1 column: err = %v", err)
	}
	ragged := flatGrid(3, 3)
	ragged[2] = ragged[2][:2]
	if _, err := NewSurface(ragged); err == nil {
		t.Error("ragged grid accepted")
	}
}

func TestTerrainNormalMatchesGradient(t *testing.T) {
	ter := Terrain{Amplitude: 0.3, FreqX: 0.5, FreqZ: 0.7, Resolution: 8}
	const h = 1e-6
	for _, p := range [][2]float64{{0, 0}, {1.3, -2.1}, {4, 4}} {
		x, z := p[0], p[1]
		dx := (ter.Height(x+h, z) - ter.Height(x-h, z)) / (2 * h)
		dz := (ter.Height(x, z+h) - ter.Height(x, z-h)) / (2 * h)
		want := math3d.V3(-dx, 1, -dz).Normalize()
		if got := ter.Normal(x, z); !got.ApproxEqual(want, 1e-6) {
			t.Errorf("normal at (%v,%v) = %v, want %v", x, z, got, want)
		}
	}
}

func TestTerrainValidate(t *testing.T) {
	tests := []struct {
		name string
		ter  Terrain
		want error
	}{
		{"ok", Terrain{Min: math3d.V2(-1, -1), Max: math3d.V2(1, 1), Resolution: 4}, nil},
		{"zero resolution", Terrain{Min: math3d.V2(-1, -1), Max: math3d.V2(1, 1)}, ErrTooFewPoints},
		{"empty", Terrain{Min: math3d.V2(1, 1), Max: math3d.V2(1, 2), Resolution: 4}, ErrEmptyDomain},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.ter.Validate()
			if tc.want == nil && err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestTerrainVertexSpansDomain(t *testing.T) {
	ter := Terrain{Amplitude: 1, FreqX: 1, FreqZ: 1, Min: math3d.V2(-4, -2), Max: math3d.V2(4, 6), Resolution: 4}
	p0, _ := ter.Vertex(0, 0)
	p1, _ := ter.Vertex(4, 4)
	if p0.X != -4 || p0.Z != -2 || p1.X != 4 || p1.Z != 6 {
		t.Errorf("corners %v %v", p0, p1)
	}
}

func TestSphereAndCylinder(t *testing.T) {
	s := Sphere{Radius: 2}
	for _, uv := range [][2]float64{{0, 0.5}, {0.3, 0.2}, {0.8, 0.9}} {
		p := s.Point(uv[0], uv[1])
		if math.Abs(p.Len()-2) > 1e-12 {
			t.Errorf("sphere point %v off radius", p)
		}
		if d := s.Normal(uv[0], uv[1]).Dot(p.Normalize()); math.Abs(d-1) > 1e-12 {
			t.Errorf("sphere normal not radial at %v", uv)
		}
	}
	if p := s.Point(0, 1); !p.ApproxEqual(math3d.V3(0, 2, 0), 1e-12) {
		t.Errorf("north pole = %v", p)
	}

	c := Cylinder{Radius: 0.5, Height: 3}
	p := c.Point(0.25, 1)
	if math.Abs(p.Y-3) > 1e-12 || math.Abs(math.Hypot(p.X, p.Z)-0.5) > 1e-12 {
		t.Errorf("cylinder top point = %v", p)
	}
	if n := c.Normal(0.25, 0); math.Abs(n.Y) > 0 || math.Abs(n.Len()-1) > 1e-12 {
		t.Errorf("cylinder normal = %v", n)
	}
}
