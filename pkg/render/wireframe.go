package render

import (
	"github.com/taigrr/shiftmaze/pkg/math3d"
)

// Wireframe draws unshaded debug lines over a rendered frame: collision
// boxes, wall slide paths and enemy routes. Lines ignore the depth buffer.
type Wireframe struct {
	camera *Camera
	fb     *Framebuffer
}

func NewWireframe(camera *Camera, fb *Framebuffer) *Wireframe {
	return &Wireframe{camera: camera, fb: fb}
}

// clipSegment trims a clip-space segment to the view volume. It reports
// false when nothing is left.
func clipSegment(a, b math3d.Vec4) (math3d.Vec4, math3d.Vec4, bool) {
	t0, t1 := 0.0, 1.0
	for p := math3d.ClipLeft; p <= math3d.ClipFar; p++ {
		da, db := a.ClipDistance(p), b.ClipDistance(p)
		switch {
		case da < 0 && db < 0:
			return a, b, false
		case da < 0:
			t0 = max(t0, da/(da-db))
		case db < 0:
			t1 = min(t1, da/(da-db))
		}
	}
	if t0 > t1 {
		return a, b, false
	}
	return a.Lerp(b, t0), a.Lerp(b, t1), true
}

// toScreen maps a clipped point to framebuffer pixels.
func (w *Wireframe) toScreen(c math3d.Vec4) (int, int) {
	ndc := c.PerspectiveDivide()
	x := (ndc.X + 1) * 0.5 * float64(w.fb.Width)
	y := (1 - ndc.Y) * 0.5 * float64(w.fb.Height)
	return int(x), int(y)
}

// DrawLine3D draws the visible part of a world-space segment.
func (w *Wireframe) DrawLine3D(p1, p2 math3d.Vec3, color Color) {
	vp := w.camera.ViewProjectionMatrix()
	a, b, ok := clipSegment(vp.MulVec4(math3d.V4FromV3(p1, 1)), vp.MulVec4(math3d.V4FromV3(p2, 1)))
	if !ok {
		return
	}
	x0, y0 := w.toScreen(a)
	x1, y1 := w.toScreen(b)
	w.fb.DrawLine(x0, y0, x1, y1, color)
}

// DrawPolyline connects consecutive points, e.g. samples of a Bézier path.
func (w *Wireframe) DrawPolyline(points []math3d.Vec3, color Color) {
	for i := 1; i < len(points); i++ {
		w.DrawLine3D(points[i-1], points[i], color)
	}
}

// DrawAABB outlines a world-space box.
func (w *Wireframe) DrawAABB(box AABB, color Color) {
	var v [8]math3d.Vec3
	for i := range v {
		v[i] = box.Corner(i)
	}
	w.drawBox(v, color)
}

// DrawTransformedBox outlines a box of the given size, centred on the
// origin, after transform.
func (w *Wireframe) DrawTransformedBox(transform math3d.Mat4, size math3d.Vec3, color Color) {
	local := AABBFromCenter(math3d.Zero3(), size.Scale(0.5))
	var v [8]math3d.Vec3
	for i := range v {
		v[i] = transform.TransformPoint(local.Corner(i))
	}
	w.drawBox(v, color)
}

// drawBox joins every pair of corners whose indices differ in one bit.
func (w *Wireframe) drawBox(v [8]math3d.Vec3, color Color) {
	for i := range v {
		for bit := 1; bit < 8; bit <<= 1 {
			if i&bit == 0 {
				w.DrawLine3D(v[i], v[i|bit], color)
			}
		}
	}
}
