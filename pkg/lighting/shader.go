package lighting

import "github.com/taigrr/shiftmaze/pkg/math3d"

// Model selects the reflection model used by a Shader.
type Model int

const (
	Phong Model = iota
	LambertOnly
)

func (m Model) String() string {
	if m == LambertOnly {
		return "lambert"
	}
	return "phong"
}

// Shader evaluates lit vertex colours for a fixed set of lights and eye
// position. Every shape emitter goes through ShadeVertex.
type Shader struct {
	Lights []Light
	Model  Model
	Eye    math3d.Vec3

	// Fog is applied per vertex when non-nil.
	Fog *Fog
}

// ShadeVertex sums the contribution of every enabled light and clamps once.
func (s *Shader) ShadeVertex(pos, normal math3d.Vec3, m Material) Color {
	var c Color
	for _, l := range s.Lights {
		c = c.Add(shade(pos, normal, s.Eye, l, m, s.Model == Phong))
	}
	c = c.Clamp()
	if s.Fog != nil {
		c = s.Fog.Apply(c, pos.Distance(s.Eye)).Clamp()
	}
	return c
}

// ShadeFace culls a triangle facing away from the eye and otherwise returns
// the shaded colour of each vertex. Vertices use the face normal.
func (s *Shader) ShadeFace(v [3]math3d.Vec3, normal math3d.Vec3, m Material) ([3]Color, bool) {
	centroid := v[0].Add(v[1]).Add(v[2]).Scale(1.0 / 3)
	if !IsFrontFacing(normal, centroid, s.Eye) {
		return [3]Color{}, false
	}
	return [3]Color{
		s.ShadeVertex(v[0], normal, m),
		s.ShadeVertex(v[1], normal, m),
		s.ShadeVertex(v[2], normal, m),
	}, true
}
