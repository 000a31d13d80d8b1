package math3d

import (
	"errors"
	"fmt"
	"math"
)

// ErrDegenerate is returned when a matrix constructor receives input that
// would produce NaN or infinite entries.
var ErrDegenerate = errors.New("math3d: degenerate input")

// Mat4 is a 4x4 matrix stored in column-major order.
// Composition reads right to left: a.Mul(b) applied to a point applies b
// first, then a. Code outside this package should treat the layout as opaque
// and go through Get or ColumnMajor.
//
// Memory layout (indices):
// | 0  4  8  12 |
// | 1  5  9  13 |
// | 2  6  10 14 |
// | 3  7  11 15 |
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{0: 1, 5: 1, 10: 1, 15: 1}
}

// Translate moves points by v.
func Translate(v Vec3) Mat4 {
	m := Identity()
	m[12], m[13], m[14] = v.X, v.Y, v.Z
	return m
}

// Scale stretches each axis by the matching component of v.
func Scale(v Vec3) Mat4 {
	return Mat4{0: v.X, 5: v.Y, 10: v.Z, 15: 1}
}

// ScaleUniform scales every axis by s.
func ScaleUniform(s float64) Mat4 {
	return Scale(V3(s, s, s))
}

// RotateX turns about the X axis by angle radians, counter-clockwise when
// looking down the axis toward the origin. RotateY and RotateZ do the same
// for their axes.
func RotateX(angle float64) Mat4 {
	s, c := math.Sincos(angle)
	return Mat4{0: 1, 5: c, 6: s, 9: -s, 10: c, 15: 1}
}

// RotateY turns about the Y axis; positive angles carry +Z toward +X.
func RotateY(angle float64) Mat4 {
	s, c := math.Sincos(angle)
	return Mat4{0: c, 2: -s, 5: 1, 8: s, 10: c, 15: 1}
}

// RotateZ turns about the Z axis; positive angles carry +X toward +Y.
func RotateZ(angle float64) Mat4 {
	s, c := math.Sincos(angle)
	return Mat4{0: c, 1: s, 4: -s, 5: c, 10: 1, 15: 1}
}

// NewRotate creates a rotation of angle radians around axis through the
// origin using the closed-form Rodrigues matrix.
func NewRotate(axis Vec3, angle float64) (Mat4, error) {
	if axis.Len() < Epsilon || !axis.IsFinite() {
		return Mat4{}, fmt.Errorf("rotation axis %v: %w", axis, ErrDegenerate)
	}
	axis = axis.Normalize()
	c, s := math.Cos(angle), math.Sin(angle)
	t := 1 - c
	x, y, z := axis.X, axis.Y, axis.Z

	return Mat4{
		t*x*x + c, t*x*y + s*z, t*x*z - s*y, 0,
		t*x*y - s*z, t*y*y + c, t*y*z + s*x, 0,
		t*x*z + s*y, t*y*z - s*x, t*z*z + c, 0,
		0, 0, 0, 1,
	}, nil
}

// Rotate is NewRotate for axes known to be valid. It panics on a zero axis.
func Rotate(axis Vec3, angle float64) Mat4 {
	return must(NewRotate(axis, angle))
}

// NewRotateAbout rotates by angle radians around the line through point with
// direction axis: T(point) * R(axis, angle) * T(-point).
func NewRotateAbout(point, axis Vec3, angle float64) (Mat4, error) {
	r, err := NewRotate(axis, angle)
	if err != nil {
		return Mat4{}, err
	}
	return Translate(point).Mul(r).Mul(Translate(point.Negate())), nil
}

// RotateAbout is NewRotateAbout for axes known to be valid.
func RotateAbout(point, axis Vec3, angle float64) Mat4 {
	return must(NewRotateAbout(point, axis, angle))
}

// RotateAboutDecomposed builds the same rotation as RotateAbout by aligning
// the axis with +Z through a yaw (theta) and an elevation (phi) rotation,
// rotating about Z, and undoing the alignment:
//
//	T(p) * Ry(theta) * Rx(-phi) * Rz(angle) * Rx(phi) * Ry(-theta) * T(-p)
//
// It is numerically less robust than the Rodrigues form near the poles.
func RotateAboutDecomposed(point, axis Vec3, angle float64) Mat4 {
	u := axis.Normalize()
	if u.Len() < Epsilon {
		panic(fmt.Errorf("rotation axis %v: %w", axis, ErrDegenerate))
	}
	theta := math.Atan2(u.X, u.Z)
	phi := math.Atan2(u.Y, math.Hypot(u.X, u.Z))

	align := RotateX(phi).Mul(RotateY(-theta))
	unalign := RotateY(theta).Mul(RotateX(-phi))

	return Translate(point).
		Mul(unalign).
		Mul(RotateZ(angle)).
		Mul(align).
		Mul(Translate(point.Negate()))
}

// NewLookAt creates a view matrix that maps world space into eye space for
// an observer at eye looking at target. The basis is built by Gram-Schmidt:
// right = normalize(forward x up), up' = right x forward.
func NewLookAt(eye, target, up Vec3) (Mat4, error) {
	dir := target.Sub(eye)
	if dir.Len() < Epsilon {
		return Mat4{}, fmt.Errorf("look-at eye equals target %v: %w", eye, ErrDegenerate)
	}
	if up.Len() < Epsilon {
		return Mat4{}, fmt.Errorf("look-at up vector is zero: %w", ErrDegenerate)
	}
	f := dir.Normalize()
	s := f.Cross(up)
	if s.Len() < Epsilon {
		return Mat4{}, fmt.Errorf("look-at up %v parallel to view direction: %w", up, ErrDegenerate)
	}
	s = s.Normalize()
	u := s.Cross(f)

	return Mat4{
		s.X, u.X, -f.X, 0,
		s.Y, u.Y, -f.Y, 0,
		s.Z, u.Z, -f.Z, 0,
		-s.Dot(eye), -u.Dot(eye), f.Dot(eye), 1,
	}, nil
}

// LookAt is NewLookAt that panics on a degenerate basis.
func LookAt(eye, target, up Vec3) Mat4 {
	return must(NewLookAt(eye, target, up))
}

// NewPerspective creates a symmetric-frustum projection. fovY is the
// vertical field of view in degrees. Eye-space z=-near maps to NDC -1 and
// z=-far maps to +1, matching the right-handed LookAt.
func NewPerspective(fovY, aspect, near, far float64) (Mat4, error) {
	switch {
	case !finite(fovY) || !finite(aspect) || !finite(near) || !finite(far):
		return Mat4{}, fmt.Errorf("perspective parameters not finite: %w", ErrDegenerate)
	case fovY <= 0 || fovY >= 180:
		return Mat4{}, fmt.Errorf("perspective fov %v outside (0, 180): %w", fovY, ErrDegenerate)
	case aspect == 0:
		return Mat4{}, fmt.Errorf("perspective aspect is zero: %w", ErrDegenerate)
	case near <= 0:
		return Mat4{}, fmt.Errorf("perspective near %v must be positive: %w", near, ErrDegenerate)
	case near == far:
		return Mat4{}, fmt.Errorf("perspective near equals far (%v): %w", near, ErrDegenerate)
	}

	f := 1.0 / math.Tan(fovY*math.Pi/360)
	nf := 1.0 / (near - far)

	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) * nf, -1,
		0, 0, 2 * far * near * nf, 0,
	}, nil
}

// Perspective is NewPerspective that panics on degenerate parameters.
func Perspective(fovY, aspect, near, far float64) Mat4 {
	return must(NewPerspective(fovY, aspect, near, far))
}

// NewOrthographic creates an orthographic projection.
func NewOrthographic(left, right, bottom, top, near, far float64) (Mat4, error) {
	if left == right || bottom == top || near == far {
		return Mat4{}, fmt.Errorf("orthographic volume is flat: %w", ErrDegenerate)
	}
	rl := 1.0 / (right - left)
	tb := 1.0 / (top - bottom)
	fn := 1.0 / (far - near)

	return Mat4{
		2 * rl, 0, 0, 0,
		0, 2 * tb, 0, 0,
		0, 0, -2 * fn, 0,
		-(right + left) * rl, -(top + bottom) * tb, -(far + near) * fn, 1,
	}, nil
}

// Orthographic is NewOrthographic that panics on a flat volume.
func Orthographic(left, right, bottom, top, near, far float64) Mat4 {
	return must(NewOrthographic(left, right, bottom, top, near, far))
}

func must(m Mat4, err error) Mat4 {
	if err != nil {
		panic(err)
	}
	return m
}

// Mul returns a*b.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for c := 0; c < 16; c += 4 {
		for r := range 4 {
			m[c+r] = a[r]*b[c] + a[r+4]*b[c+1] + a[r+8]*b[c+2] + a[r+12]*b[c+3]
		}
	}
	return m
}

// MulVec4 transforms a homogeneous vector.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		X: m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]*v.W,
		Y: m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]*v.W,
		Z: m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]*v.W,
		W: m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]*v.W,
	}
}

// TransformPoint transforms a position. Projective results are divided by
// w; affine ones, with w exactly 1, are not.
func (m Mat4) TransformPoint(v Vec3) Vec3 {
	p := m.MulVec4(V4FromV3(v, 1))
	if p.W == 0 || p.W == 1 {
		return p.XYZ()
	}
	return Vec3{p.X / p.W, p.Y / p.W, p.Z / p.W}
}

// MulVec3Dir transforms a direction, ignoring translation.
func (m Mat4) MulVec3Dir(v Vec3) Vec3 {
	return m.MulVec4(V4FromV3(v, 0)).XYZ()
}

// Transpose swaps rows and columns.
func (m Mat4) Transpose() Mat4 {
	var t Mat4
	for r := range 4 {
		for c := range 4 {
			t[c+4*r] = m[r+4*c]
		}
	}
	return t
}

// NormalMatrix is the inverse transpose of the upper 3x3 block, the matrix
// that keeps normals perpendicular to surfaces under non-uniform scale. A
// singular block gives the identity.
func (m Mat4) NormalMatrix() Mat4 {
	inv, det := m.upper3().invert()
	if det == 0 {
		return Identity()
	}
	return inv.Transpose()
}

func (m Mat4) upper3() Mat4 {
	u := m
	u[3], u[7], u[11] = 0, 0, 0
	u[12], u[13], u[14], u[15] = 0, 0, 0, 1
	return u
}

// Inverse returns the inverse, or the identity for a singular matrix.
func (m Mat4) Inverse() Mat4 {
	inv, det := m.invert()
	if det == 0 {
		return Identity()
	}
	return inv
}

// Determinant returns det(m), 0 for a singular matrix.
func (m Mat4) Determinant() float64 {
	_, det := m.invert()
	return det
}

// invert runs Gauss-Jordan elimination with partial pivoting on [m | I].
// The determinant falls out as the product of the pivots; it is 0, with a
// zero inverse, when a column has no usable pivot.
func (m Mat4) invert() (Mat4, float64) {
	var a [4][8]float64
	for r := range 4 {
		for c := range 4 {
			a[r][c] = m.Get(r, c)
		}
		a[r][4+r] = 1
	}

	det := 1.0
	for col := range 4 {
		pivot := col
		for r := col + 1; r < 4; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if a[pivot][col] == 0 {
			return Mat4{}, 0
		}
		if pivot != col {
			a[pivot], a[col] = a[col], a[pivot]
			det = -det
		}
		p := a[col][col]
		det *= p
		for c := range 8 {
			a[col][c] /= p
		}
		for r := range 4 {
			if f := a[r][col]; r != col && f != 0 {
				for c := range 8 {
					a[r][c] -= f * a[col][c]
				}
			}
		}
	}

	var inv Mat4
	for r := range 4 {
		for c := range 4 {
			inv[r+4*c] = a[r][4+c]
		}
	}
	return inv, det
}

// Get returns the element at (row, col).
func (m Mat4) Get(row, col int) float64 {
	return m[row+col*4]
}

// Translation extracts the translation component.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[12], m[13], m[14]}
}

// ColumnMajor exports the matrix as 16 floats, column by column.
func (m Mat4) ColumnMajor() [16]float64 {
	return [16]float64(m)
}

// RowMajor exports the matrix as 16 floats, row by row.
func (m Mat4) RowMajor() [16]float64 {
	return [16]float64(m.Transpose())
}

// IsFinite reports whether every entry is a finite number.
func (m Mat4) IsFinite() bool {
	for _, v := range m {
		if !finite(v) {
			return false
		}
	}
	return true
}

// ApproxEqual reports whether every entry of a and b differs by at most eps.
func (a Mat4) ApproxEqual(b Mat4, eps float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}
