// Package lighting implements Phong and Lambert shading, distance
// attenuation, exponential fog and Gouraud colour interpolation.
package lighting

import (
	"image/color"
	"math"
)

// Color is a linear RGB colour with components nominally in [0, 1].
type Color struct {
	R, G, B float64
}

// RGB creates a Color.
func RGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b}
}

// Gray returns a colour with all three components set to v.
func Gray(v float64) Color {
	return Color{R: v, G: v, B: v}
}

// Add returns a + b.
func (a Color) Add(b Color) Color {
	return Color{a.R + b.R, a.G + b.G, a.B + b.B}
}

// Mul returns the component-wise product.
func (a Color) Mul(b Color) Color {
	return Color{a.R * b.R, a.G * b.G, a.B * b.B}
}

// Scale multiplies every component by s.
func (a Color) Scale(s float64) Color {
	return Color{a.R * s, a.G * s, a.B * s}
}

// Lerp blends a toward b by t.
func (a Color) Lerp(b Color, t float64) Color {
	return Color{
		a.R + (b.R-a.R)*t,
		a.G + (b.G-a.G)*t,
		a.B + (b.B-a.B)*t,
	}
}

// Clamp restricts every component to [0, 1].
func (a Color) Clamp() Color {
	return Color{clamp01(a.R), clamp01(a.G), clamp01(a.B)}
}

// RGBA converts to an opaque 8-bit colour. Components are clamped first.
func (a Color) RGBA() color.RGBA {
	c := a.Clamp()
	return color.RGBA{
		R: uint8(c.R*255 + 0.5),
		G: uint8(c.G*255 + 0.5),
		B: uint8(c.B*255 + 0.5),
		A: 255,
	}
}

// FromRGBA converts an 8-bit colour to a Color, ignoring alpha.
func FromRGBA(c color.RGBA) Color {
	return Color{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255}
}

// Luminance returns the Rec. 709 relative luminance.
func (a Color) Luminance() float64 {
	return 0.2126*a.R + 0.7152*a.G + 0.0722*a.B
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
