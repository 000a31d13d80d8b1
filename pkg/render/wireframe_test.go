package render

import (
	"testing"

	"github.com/taigrr/shiftmaze/pkg/math3d"
)

func newTestWireframe() (*Wireframe, *Framebuffer) {
	r, fb := createTestRasterizer(32, 32)
	fb.Clear(Color{})
	return NewWireframe(r.Camera(), fb), fb
}

func countLit(fb *Framebuffer) int {
	n := 0
	for _, p := range fb.Pixels {
		if p != (Color{}) {
			n++
		}
	}
	return n
}

// litFrom reports whether any pixel at column x or further right is lit.
func litFrom(fb *Framebuffer, x int) bool {
	for i, p := range fb.Pixels {
		if p != (Color{}) && i%fb.Width >= x {
			return true
		}
	}
	return false
}

func TestWireframeLines(t *testing.T) {
	tests := []struct {
		name string
		a, b math3d.Vec3
		minX int // a lit pixel must reach this column; -1 when nothing is drawn
	}{
		{"in view", math3d.V3(-1, -0.1, 0), math3d.V3(1, -0.1, 0), 17},
		{"runs past the camera", math3d.V3(1, -0.1, 0), math3d.V3(1, -0.1, 20), 28},
		{"behind the camera", math3d.V3(-1, 0, 15), math3d.V3(1, 0, 15), -1},
		{"past the far plane", math3d.V3(-1, 0, -200), math3d.V3(1, 0, -200), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wf, fb := newTestWireframe()
			wf.DrawLine3D(tt.a, tt.b, ColorGreen)
			if tt.minX < 0 {
				if n := countLit(fb); n != 0 {
					t.Errorf("drew %d pixels", n)
				}
				return
			}
			if !litFrom(fb, tt.minX) {
				t.Errorf("line stops short of column %d", tt.minX)
			}
		})
	}
}

func TestClipSegmentTrimsToNearPlane(t *testing.T) {
	a := math3d.V4(0, 0, 0, 1)
	b := math3d.V4(0, 0, -3, -1) // crosses w+z = 0 at t = 0.2
	ca, cb, ok := clipSegment(a, b)
	if !ok {
		t.Fatal("segment rejected")
	}
	if ca != a {
		t.Errorf("inside end moved to %v", ca)
	}
	if d := cb.W + cb.Z; d < -1e-9 || d > 1e-9 {
		t.Errorf("clipped end %v not on the near plane", cb)
	}
}

func TestWireframeBoxes(t *testing.T) {
	wf, fb := newTestWireframe()
	wf.DrawAABB(AABBFromCenter(math3d.Zero3(), math3d.V3(1, 1, 1)), ColorRed)
	outline := countLit(fb)
	if outline == 0 {
		t.Fatal("box drew nothing")
	}
	if fb.GetPixel(16, 16) != (Color{}) {
		t.Error("box outline filled its middle")
	}

	wf2, fb2 := newTestWireframe()
	wf2.DrawTransformedBox(math3d.Identity(), math3d.V3(2, 2, 2), ColorRed)
	if got := countLit(fb2); got != outline {
		t.Errorf("transformed box lit %d pixels, AABB lit %d", got, outline)
	}
}

func TestWireframePolyline(t *testing.T) {
	wf, fb := newTestWireframe()
	wf.DrawPolyline([]math3d.Vec3{{X: -1}, {Y: 1}, {X: 1}}, ColorBlue)
	if countLit(fb) == 0 {
		t.Fatal("polyline drew nothing")
	}
	wf.DrawPolyline([]math3d.Vec3{{X: 5}}, ColorRed)
	for _, p := range fb.Pixels {
		if p == ColorRed {
			t.Fatal("single point drew a line")
		}
	}
}
