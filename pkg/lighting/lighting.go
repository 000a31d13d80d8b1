package lighting

import (
	"math"

	"github.com/taigrr/shiftmaze/pkg/math3d"
)

// Light is a point light with ambient, diffuse and specular contributions
// and quadratic distance attenuation.
type Light struct {
	Position math3d.Vec3
	Ambient  Color
	Diffuse  Color
	Specular Color

	// Attenuation coefficients: 1 / (Constant + Linear*d + Quadratic*d^2).
	Constant  float64
	Linear    float64
	Quadratic float64

	Enabled bool
}

// DefaultLight returns an enabled white-ish light five units above the origin.
func DefaultLight() Light {
	return Light{
		Position:  math3d.V3(0, 5, 0),
		Ambient:   Gray(0.2),
		Diffuse:   RGB(1, 1, 0.9),
		Specular:  Gray(1),
		Constant:  1,
		Linear:    0.05,
		Quadratic: 0.01,
		Enabled:   true,
	}
}

// Material describes how a surface responds to light.
type Material struct {
	Ambient   Color
	Diffuse   Color
	Specular  Color
	Shininess float64
}

// DefaultMaterial returns a neutral grey plastic.
func DefaultMaterial() Material {
	return Material{
		Ambient:   Gray(0.3),
		Diffuse:   Gray(0.7),
		Specular:  Gray(0.2),
		Shininess: 32,
	}
}

// MaterialFromColor derives a material whose diffuse response is c, with a
// darker ambient and a faint specular highlight.
func MaterialFromColor(c Color) Material {
	return Material{
		Ambient:   c.Scale(0.4),
		Diffuse:   c,
		Specular:  Gray(0.2),
		Shininess: 16,
	}
}

// Attenuation returns the intensity falloff of l at distance d.
func Attenuation(l Light, d float64) float64 {
	denom := l.Constant + l.Linear*d + l.Quadratic*d*d
	if denom <= 0 {
		return 1
	}
	return 1 / denom
}

// Shade evaluates the Phong reflection model at point with unit normal, as
// seen from eye. The ambient term is not attenuated. A disabled light
// contributes nothing.
func Shade(point, normal, eye math3d.Vec3, l Light, m Material) Color {
	return shade(point, normal, eye, l, m, true).Clamp()
}

// Lambert is Shade without the specular term.
func Lambert(point, normal math3d.Vec3, l Light, m Material) Color {
	return shade(point, normal, math3d.Vec3{}, l, m, false).Clamp()
}

// shade returns the unclamped contribution of one light.
func shade(point, normal, eye math3d.Vec3, l Light, m Material, specular bool) Color {
	if !l.Enabled {
		return Color{}
	}
	n := normal.Normalize()
	toLight := l.Position.Sub(point)
	att := Attenuation(l, toLight.Len())
	ld := toLight.Normalize()

	out := l.Ambient.Mul(m.Ambient)

	ndotl := n.Dot(ld)
	if ndotl <= 0 {
		return out
	}
	out = out.Add(l.Diffuse.Mul(m.Diffuse).Scale(ndotl * att))

	if specular {
		r := n.Scale(2 * ndotl).Sub(ld)
		v := eye.Sub(point).Normalize()
		if rdotv := r.Dot(v); rdotv > 0 {
			s := math.Pow(rdotv, m.Shininess)
			out = out.Add(l.Specular.Mul(m.Specular).Scale(s * att))
		}
	}
	return out
}

// IsFrontFacing reports whether a face with the given normal and centroid
// faces viewPoint.
func IsFrontFacing(normal, centroid, viewPoint math3d.Vec3) bool {
	return normal.Dot(viewPoint.Sub(centroid)) > 0
}

// Interpolate blends three vertex colours by barycentric weights.
func Interpolate(c0, c1, c2 Color, w0, w1, w2 float64) Color {
	return Color{
		R: c0.R*w0 + c1.R*w1 + c2.R*w2,
		G: c0.G*w0 + c1.G*w1 + c2.G*w2,
		B: c0.B*w0 + c1.B*w1 + c2.B*w2,
	}
}

// Fog is exponential distance fog.
type Fog struct {
	Color   Color
	Density float64
}

// Apply blends c toward the fog colour for a surface at distance d.
func (f Fog) Apply(c Color, d float64) Color {
	if f.Density <= 0 {
		return c
	}
	k := math.Exp(-f.Density * d)
	return c.Scale(k).Add(f.Color.Scale(1 - k))
}
