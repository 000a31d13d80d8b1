package render

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/taigrr/shiftmaze/pkg/lighting"
	"github.com/taigrr/shiftmaze/pkg/math3d"
)

func TestPlane(t *testing.T) {
	p := Plane{Normal: math3d.V3(0, 3, 4), D: 10}
	p.Normalize()
	if math.Abs(p.Normal.Len()-1) > 1e-9 || math.Abs(p.D-2) > 1e-9 {
		t.Fatalf("normalized plane = %+v", p)
	}

	tests := []struct {
		point math3d.Vec3
		want  float64
	}{
		{math3d.V3(0, 0, 0), 2},
		{math3d.V3(0, 0, -2.5), 0},
		{math3d.V3(7, 3, 4), 7},
	}
	for _, tt := range tests {
		if got := p.DistanceToPoint(tt.point); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("DistanceToPoint(%v) = %v, want %v", tt.point, got, tt.want)
		}
	}

	zero := Plane{D: 3}
	zero.Normalize()
	if zero.D != 3 {
		t.Errorf("degenerate plane changed: %+v", zero)
	}
}

func TestAABB(t *testing.T) {
	box := NewAABB(math3d.V3(2, 3, 1), math3d.V3(0, 0, -1))
	if box.Min != math3d.V3(0, 0, -1) || box.Max != math3d.V3(2, 3, 1) {
		t.Fatalf("NewAABB = %+v", box)
	}
	if box.Center() != math3d.V3(1, 1.5, 0) || box.Size() != math3d.V3(2, 3, 2) {
		t.Errorf("center %v size %v", box.Center(), box.Size())
	}
	if box.Corner(0) != box.Min || box.Corner(7) != box.Max {
		t.Error("corners 0 and 7 should be Min and Max")
	}
	if got := box.Corner(5); got != math3d.V3(2, 0, 1) {
		t.Errorf("Corner(5) = %v", got)
	}

	cell := AABBFromCenter(math3d.V3(4, 1.5, -6), math3d.V3(1, 1.5, 1))
	tests := []struct {
		name string
		p    math3d.Vec3
		want bool
	}{
		{"middle", math3d.V3(4, 1, -6), true},
		{"on the face", math3d.V3(5, 1, -6), true},
		{"above the wall", math3d.V3(4, 3.1, -6), false},
		{"next cell", math3d.V3(6, 1, -6), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cell.ContainsPoint(tt.p); got != tt.want {
				t.Errorf("ContainsPoint(%v) = %v", tt.p, got)
			}
		})
	}

	neighbour := AABBFromCenter(math3d.V3(6, 1.5, -6), math3d.V3(1, 1.5, 1))
	if !cell.Overlaps(neighbour) {
		t.Error("adjacent cells share a face")
	}
	if cell.Overlaps(AABBFromCenter(math3d.V3(8, 1.5, -6), math3d.V3(1, 1.5, 1))) {
		t.Error("cells two apart overlap")
	}
}

func TestAABBTransform(t *testing.T) {
	unit := NewAABB(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))
	tests := []struct {
		name     string
		m        math3d.Mat4
		min, max math3d.Vec3
	}{
		{"translate", math3d.Translate(math3d.V3(4, 1, -6)), math3d.V3(3, 0, -7), math3d.V3(5, 2, -5)},
		{"scale", math3d.ScaleUniform(0.5), math3d.V3(-0.5, -0.5, -0.5), math3d.V3(0.5, 0.5, 0.5)},
		{"quarter turn", math3d.RotateY(math.Pi / 2), math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1)},
		{"eighth turn", math3d.RotateY(math.Pi / 4), math3d.V3(-math.Sqrt2, -1, -math.Sqrt2), math3d.V3(math.Sqrt2, 1, math.Sqrt2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := unit.Transform(tt.m)
			if !got.Min.ApproxEqual(tt.min, 1e-9) || !got.Max.ApproxEqual(tt.max, 1e-9) {
				t.Errorf("Transform = %+v, want %v..%v", got, tt.min, tt.max)
			}
		})
	}
}

// corridorFrustum is a player standing at the origin looking down -Z.
func corridorFrustum() Frustum {
	return NewCamera().Frustum()
}

func TestFrustumPlanesAreUnit(t *testing.T) {
	f := corridorFrustum()
	for i, p := range f.Planes {
		if math.Abs(p.Normal.Len()-1) > 1e-9 {
			t.Errorf("plane %d normal length %v", i, p.Normal.Len())
		}
	}
	// The near plane faces down the view direction.
	if n := f.Planes[FrustumNear].Normal; n.Z > -0.99 {
		t.Errorf("near normal = %v", n)
	}
}

func TestFrustumClassify(t *testing.T) {
	f := corridorFrustum()
	wall := func(x, z float64) AABB {
		return AABBFromCenter(math3d.V3(x, 1.5, z), math3d.V3(1, 1.5, 1))
	}
	tests := []struct {
		name string
		box  AABB
		want Visibility
	}{
		{"wall down the corridor", wall(0, -10), Inside},
		{"cell the player stands in", wall(0, 0), Partial},
		{"wall behind", wall(0, 10), Outside},
		{"wall past the far plane", wall(0, -150), Outside},
		{"wall far to the right", wall(100, -10), Outside},
		{"whole floor", NewAABB(math3d.V3(-200, -1, -200), math3d.V3(200, 0, 200)), Partial},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.Classify(tt.box)
			if got != tt.want {
				t.Errorf("Classify = %v, want %v", got, tt.want)
			}
			if f.IntersectAABB(tt.box) != (tt.want != Outside) {
				t.Error("IntersectAABB disagrees with Classify")
			}
		})
	}
}

func TestFrustumPointsAndSpheres(t *testing.T) {
	f := corridorFrustum()
	eye := 1.6
	points := []struct {
		name string
		p    math3d.Vec3
		want bool
	}{
		{"ahead", math3d.V3(0, eye, -5), true},
		{"at the far end", math3d.V3(0, eye, -99), true},
		{"behind", math3d.V3(0, eye, 1), false},
		{"inside the near plane", math3d.V3(0, eye, -0.05), false},
		{"beyond far", math3d.V3(0, eye, -101), false},
	}
	for _, tt := range points {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.ContainsPoint(tt.p); got != tt.want {
				t.Errorf("ContainsPoint(%v) = %v", tt.p, got)
			}
		})
	}

	if !f.IntersectsSphere(math3d.V3(0, eye, 0.5), 1) {
		t.Error("enemy brushing the player should be visible")
	}
	if f.IntersectsSphere(math3d.V3(0, eye, 5), 1) {
		t.Error("enemy behind the player should be culled")
	}
}

func TestCameraFrustumFollowsYaw(t *testing.T) {
	cam := NewCamera()
	cam.SetPosition(math3d.V3(0, 1, 0))
	ahead := math3d.V3(0, 1, -10)
	right := math3d.V3(10, 1, 0)

	if !cam.Frustum().ContainsPoint(ahead) {
		t.Error("point down -Z should be visible at theta=0")
	}
	cam.Rotate(math.Pi/2, 0)
	f := cam.Frustum()
	if f.ContainsPoint(ahead) {
		t.Error("point down -Z should be culled after turning right")
	}
	if !f.ContainsPoint(right) {
		t.Error("point down +X should be visible after turning right")
	}
}

func TestRasterizerFrustumPerFrame(t *testing.T) {
	r, _ := createTestRasterizer(32, 32)
	origin := AABBFromCenter(math3d.Zero3(), math3d.V3(1, 1, 1))
	if !r.IsVisible(origin) {
		t.Fatal("box in front of the camera culled")
	}
	r.Camera().Rotate(math.Pi, 0)
	if !r.IsVisible(origin) {
		t.Error("frustum changed before the next frame")
	}
	r.BeginFrame(lighting.Color{})
	if r.IsVisible(origin) {
		t.Error("box behind the turned camera still visible")
	}
}

func BenchmarkFrustumCulling(b *testing.B) {
	cam := NewCamera()
	cam.SetPosition(math3d.V3(-18, 1.6, -18))
	cam.LookAt(math3d.V3(0, 1, 0))
	f := cam.Frustum()

	rng := rand.New(rand.NewPCG(42, 42))
	const n, cell = 21, 2.0
	var walls []AABB
	for x := range n {
		for z := range n {
			if rng.IntN(3) == 0 {
				c := math3d.V3((float64(x)-n/2)*cell, 1.5, (float64(z)-n/2)*cell)
				walls = append(walls, AABBFromCenter(c, math3d.V3(cell/2, 1.5, cell/2)))
			}
		}
	}

	b.Run("classify", func(b *testing.B) {
		for b.Loop() {
			for _, w := range walls {
				_ = f.Classify(w)
			}
		}
	})
	b.Run("extract", func(b *testing.B) {
		vp := cam.ViewProjectionMatrix()
		for b.Loop() {
			_ = NewFrustumFromMatrix(vp)
		}
	})
	b.Run("transform", func(b *testing.B) {
		m := math3d.Translate(math3d.V3(10, 5, -20)).Mul(math3d.RotateY(0.5))
		for b.Loop() {
			_ = walls[0].Transform(m)
		}
	})
}
