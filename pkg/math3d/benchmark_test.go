package math3d

import (
	"testing"
)

// The per-frame hot paths: every wall cube is placed with a translation,
// every vertex goes through the view-projection and sliding or rotating
// walls rebuild their matrix each tick.

func BenchmarkMat4(b *testing.B) {
	wall := Translate(V3(-7, 1.5, 3)).Mul(RotateY(0.5)).Mul(Scale(V3(2, 3, 2)))
	vp := Perspective(60, 16.0/9.0, 0.1, 100).Mul(LookAt(V3(-7, 1.6, -7), V3(-6.2, 1.4, -7.5), Up()))

	b.Run("mul", func(b *testing.B) {
		for b.Loop() {
			_ = vp.Mul(wall)
		}
	})
	b.Run("clip", func(b *testing.B) {
		v := V4(1, 2, 3, 1)
		for b.Loop() {
			_ = vp.MulVec4(v)
		}
	})
	b.Run("point", func(b *testing.B) {
		v := V3(1, 2, 3)
		for b.Loop() {
			_ = wall.TransformPoint(v)
		}
	})
	b.Run("inverse", func(b *testing.B) {
		for b.Loop() {
			_ = wall.Inverse()
		}
	})
	b.Run("normal", func(b *testing.B) {
		for b.Loop() {
			_ = wall.NormalMatrix()
		}
	})
}

func BenchmarkCamera(b *testing.B) {
	eye, target := V3(-7, 1.5, -7), V3(-6.2, 1.4, -7.5)
	b.Run("look_at", func(b *testing.B) {
		for b.Loop() {
			_ = LookAt(eye, target, Up())
		}
	})
	b.Run("perspective", func(b *testing.B) {
		for b.Loop() {
			_ = Perspective(60, 16.0/9.0, 0.1, 100)
		}
	})
	b.Run("heading", func(b *testing.B) {
		for b.Loop() {
			_ = Heading(0.8).Yaw()
		}
	})
}

func BenchmarkRotatingWall(b *testing.B) {
	pivot, axis := V3(1, 0, -2), Up()
	b.Run("rodrigues", func(b *testing.B) {
		for b.Loop() {
			_ = RotateAbout(pivot, axis, 0.8)
		}
	})
	b.Run("decomposed", func(b *testing.B) {
		for b.Loop() {
			_ = RotateAboutDecomposed(pivot, axis, 0.8)
		}
	})
}

func BenchmarkVec3(b *testing.B) {
	v1, v2 := V3(1, 2, 3), V3(4, 5, 6)
	b.Run("normalize", func(b *testing.B) {
		for b.Loop() {
			_ = v1.Normalize()
		}
	})
	b.Run("cross", func(b *testing.B) {
		for b.Loop() {
			_ = v1.Cross(v2)
		}
	})
	b.Run("distance_xz", func(b *testing.B) {
		for b.Loop() {
			_ = v1.DistanceXZ(v2)
		}
	})
}
