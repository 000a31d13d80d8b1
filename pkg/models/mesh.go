// Package models holds triangle meshes: procedural shapes for the maze
// geometry, a glTF loader for enemy models and a GLB exporter for scenes.
package models

import (
	"image"
	"math"

	"github.com/taigrr/shiftmaze/pkg/lighting"
	"github.com/taigrr/shiftmaze/pkg/math3d"
)

// Mesh is an indexed triangle mesh. Faces wind counter-clockwise when seen
// from the side their normal points to.
type Mesh struct {
	Name      string
	Vertices  []MeshVertex
	Faces     []Face
	Materials []Material

	// Bounding box, refreshed by CalculateBounds.
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// MeshVertex holds all vertex attributes.
type MeshVertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	UV       math3d.Vec2
}

// Face is a triangle with a material reference.
type Face struct {
	V        [3]int // Indices into Mesh.Vertices
	Material int    // Index into Mesh.Materials (-1 for no material)
}

// Material is the surface description a mesh carries in and out of glTF.
type Material struct {
	Name      string
	BaseColor lighting.Color
	Texture   image.Image // Optional base color texture
}

// Shading converts the material to the lighting model's coefficients.
func (m Material) Shading() lighting.Material {
	return lighting.MaterialFromColor(m.BaseColor)
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// AddMaterial appends a material and returns its index.
func (m *Mesh) AddMaterial(name string, c lighting.Color) int {
	m.Materials = append(m.Materials, Material{Name: name, BaseColor: c})
	return len(m.Materials) - 1
}

// AddVertex appends a vertex and returns its index.
func (m *Mesh) AddVertex(pos, normal math3d.Vec3, uv math3d.Vec2) int {
	m.Vertices = append(m.Vertices, MeshVertex{Position: pos, Normal: normal, UV: uv})
	return len(m.Vertices) - 1
}

// AddTriangle appends a face.
func (m *Mesh) AddTriangle(a, b, c, material int) {
	m.Faces = append(m.Faces, Face{V: [3]int{a, b, c}, Material: material})
}

// AddQuad appends the two triangles of the counter-clockwise quad abcd.
func (m *Mesh) AddQuad(a, b, c, d, material int) {
	m.AddTriangle(a, b, c, material)
	m.AddTriangle(a, c, d, material)
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		m.BoundsMin, m.BoundsMax = math3d.Zero3(), math3d.Zero3()
		return
	}

	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// CalculateNormals assigns each face's normal to its vertices. Vertices
// shared between faces end up with the last face's normal, so this is only
// correct for meshes with unshared vertices.
func (m *Mesh) CalculateNormals() {
	for _, f := range m.Faces {
		normal := m.faceNormal(f).Normalize()
		for _, vi := range f.V {
			m.Vertices[vi].Normal = normal
		}
	}
}

// CalculateSmoothNormals computes area-weighted averaged normals.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Zero3()
	}

	// The unnormalized cross product weights each face by its area.
	for _, f := range m.Faces {
		normal := m.faceNormal(f)
		for _, vi := range f.V {
			m.Vertices[vi].Normal = m.Vertices[vi].Normal.Add(normal)
		}
	}

	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
	}
}

func (m *Mesh) faceNormal(f Face) math3d.Vec3 {
	v0 := m.Vertices[f.V[0]].Position
	v1 := m.Vertices[f.V[1]].Position
	v2 := m.Vertices[f.V[2]].Position
	return v1.Sub(v0).Cross(v2.Sub(v0))
}

// Transform applies a transformation matrix to all vertices. Normals go
// through the inverse transpose so non-uniform scales keep them
// perpendicular to the surface.
func (m *Mesh) Transform(mat math3d.Mat4) {
	normalMat := mat.NormalMatrix()
	for i := range m.Vertices {
		m.Vertices[i].Position = mat.TransformPoint(m.Vertices[i].Position)
		m.Vertices[i].Normal = normalMat.MulVec3Dir(m.Vertices[i].Normal).Normalize()
	}
	m.CalculateBounds()
}

// FitToRadius recenters the mesh on the origin and scales it uniformly so
// its bounding box fits inside a sphere of radius r. Imported models come in
// arbitrary units; the game wants them the size of an enemy.
func (m *Mesh) FitToRadius(r float64) {
	m.CalculateBounds()
	half := m.Size().Scale(0.5).Len()
	if half == 0 {
		return
	}
	s := r / half
	m.Transform(math3d.ScaleUniform(s).Mul(math3d.Translate(m.Center().Negate())))
}

// Append copies other into m with transform applied, carrying its materials
// along. Faces of other without a material stay without one.
func (m *Mesh) Append(other *Mesh, transform math3d.Mat4) {
	normalMat := transform.NormalMatrix()
	baseVertex := len(m.Vertices)
	baseMaterial := len(m.Materials)

	m.Materials = append(m.Materials, other.Materials...)
	for _, v := range other.Vertices {
		m.Vertices = append(m.Vertices, MeshVertex{
			Position: transform.TransformPoint(v.Position),
			Normal:   normalMat.MulVec3Dir(v.Normal).Normalize(),
			UV:       v.UV,
		})
	}
	for _, f := range other.Faces {
		mat := f.Material
		if mat >= 0 {
			mat += baseMaterial
		}
		m.Faces = append(m.Faces, Face{
			V:        [3]int{f.V[0] + baseVertex, f.V[1] + baseVertex, f.V[2] + baseVertex},
			Material: mat,
		})
	}
	m.CalculateBounds()
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Vertices:  make([]MeshVertex, len(m.Vertices)),
		Faces:     make([]Face, len(m.Faces)),
		Materials: make([]Material, len(m.Materials)),
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.Faces, m.Faces)
	copy(clone.Materials, m.Materials)
	return clone
}

// BoundingRadius returns the largest distance from the origin to a vertex.
func (m *Mesh) BoundingRadius() float64 {
	r := 0.0
	for _, v := range m.Vertices {
		r = math.Max(r, v.Position.Len())
	}
	return r
}

// GetVertex returns the position, normal, and UV for vertex i.
func (m *Mesh) GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2) {
	v := m.Vertices[i]
	return v.Position, v.Normal, v.UV
}

// GetFace returns the vertex indices for face i.
func (m *Mesh) GetFace(i int) [3]int {
	return m.Faces[i].V
}

// GetFaceMaterial returns the material index for face i.
// Returns -1 if no material assigned.
func (m *Mesh) GetFaceMaterial(i int) int {
	return m.Faces[i].Material
}

// GetMaterial returns the material at index i.
// Returns nil if index is out of bounds or -1.
func (m *Mesh) GetMaterial(i int) *Material {
	if i < 0 || i >= len(m.Materials) {
		return nil
	}
	return &m.Materials[i]
}

// MaterialCount returns the number of materials.
func (m *Mesh) MaterialCount() int {
	return len(m.Materials)
}

// PrimaryMaterial returns the shading of the first material, or fallback
// when the mesh has none.
func (m *Mesh) PrimaryMaterial(fallback lighting.Material) lighting.Material {
	if len(m.Materials) == 0 {
		return fallback
	}
	return m.Materials[0].Shading()
}

// GetBounds returns the axis-aligned bounding box.
func (m *Mesh) GetBounds() (min, max math3d.Vec3) {
	return m.BoundsMin, m.BoundsMax
}
