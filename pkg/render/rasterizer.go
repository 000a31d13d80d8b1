package render

import (
	"math"

	"github.com/taigrr/shiftmaze/pkg/lighting"
	"github.com/taigrr/shiftmaze/pkg/math3d"
)

// Vertex is a pre-shaded vertex ready for rasterization.
type Vertex struct {
	Position math3d.Vec3    // World position
	Color    lighting.Color // Lit colour, interpolated across the face
	UV       math3d.Vec2    // Texture coordinates (used when the triangle has a texture)
}

// Triangle is a pre-shaded triangle. When Texture is set, the sampled texel
// is modulated by the interpolated vertex colour.
type Triangle struct {
	V       [3]Vertex
	Texture *Texture
}

// Rasterizer handles software triangle rasterization.
type Rasterizer struct {
	camera  *Camera
	fb      *Framebuffer
	zbuffer []float64 // Depth buffer (1D array, row-major)

	frustum     Frustum
	haveFrustum bool

	CullingStats CullingStats // Statistics for debugging/benchmarking

	// CullBackfaces rejects triangles wound clockwise on screen. Scene
	// geometry is already culled with lighting.IsFrontFacing, so this is off
	// by default.
	CullBackfaces bool
}

// CullingStats tracks per-frame culling counts.
type CullingStats struct {
	MeshesTested   int
	MeshesCulled   int
	TrianglesDrawn int
	TrianglesCut   int // Triangles split or dropped by the near plane
}

// NewRasterizer creates a new rasterizer.
func NewRasterizer(camera *Camera, fb *Framebuffer) *Rasterizer {
	r := &Rasterizer{
		camera: camera,
		fb:     fb,
	}
	r.Resize()
	return r
}

// Resize resizes the rasterizer's depth buffer to match the framebuffer.
func (r *Rasterizer) Resize() {
	if r.fb == nil {
		r.zbuffer = nil
		return
	}
	r.zbuffer = make([]float64, r.fb.Width*r.fb.Height)
	r.ClearDepth()
}

// Width returns the framebuffer width.
func (r *Rasterizer) Width() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Width
}

// Height returns the framebuffer height.
func (r *Rasterizer) Height() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Height
}

// Camera returns the camera the rasterizer projects through.
func (r *Rasterizer) Camera() *Camera {
	return r.camera
}

// ClearDepth clears the Z-buffer (call before each frame).
func (r *Rasterizer) ClearDepth() {
	// Use copy-doubling for faster clearing
	n := len(r.zbuffer)
	if n == 0 {
		return
	}
	r.zbuffer[0] = math.MaxFloat64
	for i := 1; i < n; i *= 2 {
		copy(r.zbuffer[i:], r.zbuffer[:i])
	}
}

// BeginFrame clears colour and depth and resets statistics.
func (r *Rasterizer) BeginFrame(clear lighting.Color) {
	r.fb.Clear(clear.RGBA())
	r.ClearDepth()
	r.CullingStats = CullingStats{}
	r.frustum, r.haveFrustum = r.camera.Frustum(), true
}

// IsVisible tests a world-space box against the camera frustum, as it was
// at BeginFrame.
func (r *Rasterizer) IsVisible(worldBounds AABB) bool {
	if !r.haveFrustum {
		r.frustum, r.haveFrustum = r.camera.Frustum(), true
	}
	return r.frustum.IntersectAABB(worldBounds)
}

// Depth returns the stored depth at (x, y).
func (r *Rasterizer) Depth(x, y int) float64 {
	if x < 0 || x >= r.Width() || y < 0 || y >= r.Height() {
		return math.MaxFloat64
	}
	return r.zbuffer[y*r.Width()+x]
}

func (r *Rasterizer) setDepth(x, y int, z float64) {
	if x < 0 || x >= r.Width() || y < 0 || y >= r.Height() {
		return
	}
	r.zbuffer[y*r.Width()+x] = z
}

// clipVertex is a vertex in homogeneous clip space.
type clipVertex struct {
	pos   math3d.Vec4
	color lighting.Color
	uv    math3d.Vec2
}

func (a clipVertex) lerp(b clipVertex, t float64) clipVertex {
	return clipVertex{
		pos:   a.pos.Lerp(b.pos, t),
		color: a.color.Lerp(b.color, t),
		uv:    a.uv.Lerp(b.uv, t),
	}
}

func nearDistance(v clipVertex) float64 {
	return v.pos.ClipDistance(math3d.ClipNear)
}

// clipNear clips a polygon against the near plane (Sutherland-Hodgman).
func clipNear(in []clipVertex, out []clipVertex) []clipVertex {
	out = out[:0]
	for i := range in {
		a := in[i]
		b := in[(i+1)%len(in)]
		da, db := nearDistance(a), nearDistance(b)
		if da >= 0 {
			out = append(out, a)
		}
		if (da >= 0) != (db >= 0) {
			out = append(out, a.lerp(b, da/(da-db)))
		}
	}
	return out
}

// screenVertex holds a vertex transformed to screen space.
type screenVertex struct {
	X, Y  float64 // Screen coordinates
	Z     float64 // NDC depth (for Z-buffer)
	InvW  float64 // 1/w for perspective-correct UVs
	Color lighting.Color
	UV    math3d.Vec2
}

// DrawTriangle clips a pre-shaded triangle to the near plane and
// rasterizes it with Gouraud colour interpolation.
func (r *Rasterizer) DrawTriangle(tri Triangle) {
	viewProj := r.camera.ViewProjectionMatrix()

	var inBuf [3]clipVertex
	inside := 0
	for i := range 3 {
		inBuf[i] = clipVertex{
			pos:   viewProj.MulVec4(math3d.V4FromV3(tri.V[i].Position, 1)),
			color: tri.V[i].Color,
			uv:    tri.V[i].UV,
		}
		if nearDistance(inBuf[i]) >= 0 {
			inside++
		}
	}

	switch inside {
	case 0:
		r.CullingStats.TrianglesCut++
		return
	case 3:
		r.rasterize(inBuf[0], inBuf[1], inBuf[2], tri.Texture)
		return
	}

	r.CullingStats.TrianglesCut++
	var outBuf [4]clipVertex
	poly := clipNear(inBuf[:], outBuf[:0])
	for i := 1; i+1 < len(poly); i++ {
		r.rasterize(poly[0], poly[i], poly[i+1], tri.Texture)
	}
}

// DrawTriangles draws a batch of triangles.
func (r *Rasterizer) DrawTriangles(tris []Triangle) {
	for i := range tris {
		r.DrawTriangle(tris[i])
	}
}

func (r *Rasterizer) rasterize(c0, c1, c2 clipVertex, texture *Texture) {
	var sv [3]screenVertex
	for i, c := range [3]clipVertex{c0, c1, c2} {
		w := c.pos.W
		if w <= 0 {
			return
		}
		inv := 1 / w
		sv[i] = screenVertex{
			X:     (c.pos.X*inv + 1) * 0.5 * float64(r.Width()),
			Y:     (1 - c.pos.Y*inv) * 0.5 * float64(r.Height()), // Y flipped
			Z:     c.pos.Z * inv,
			InvW:  inv,
			Color: c.color,
			UV:    c.uv,
		}
	}

	// Signed area in screen space. Counter-clockwise in NDC is negative here
	// because screen Y points down.
	area := (sv[1].X-sv[0].X)*(sv[2].Y-sv[0].Y) - (sv[1].Y-sv[0].Y)*(sv[2].X-sv[0].X)
	if area == 0 || math.IsNaN(area) {
		return
	}
	if r.CullBackfaces && area > 0 {
		return
	}

	minX := int(math.Max(0, math.Floor(min3(sv[0].X, sv[1].X, sv[2].X))))
	maxX := int(math.Min(float64(r.Width()-1), math.Ceil(max3(sv[0].X, sv[1].X, sv[2].X))))
	minY := int(math.Max(0, math.Floor(min3(sv[0].Y, sv[1].Y, sv[2].Y))))
	maxY := int(math.Min(float64(r.Height()-1), math.Ceil(max3(sv[0].Y, sv[1].Y, sv[2].Y))))
	if minX > maxX || minY > maxY {
		return
	}
	r.CullingStats.TrianglesDrawn++

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5

			bc := barycentric(
				sv[0].X, sv[0].Y,
				sv[1].X, sv[1].Y,
				sv[2].X, sv[2].Y,
				px, py,
			)
			if bc.X < 0 || bc.Y < 0 || bc.Z < 0 {
				continue
			}

			z := bc.X*sv[0].Z + bc.Y*sv[1].Z + bc.Z*sv[2].Z
			if z > 1 || z >= r.Depth(x, y) {
				continue
			}

			c := lighting.Interpolate(sv[0].Color, sv[1].Color, sv[2].Color, bc.X, bc.Y, bc.Z)
			if texture != nil {
				// Perspective-correct UVs: interpolate uv/w and 1/w, then divide.
				w0, w1, w2 := bc.X*sv[0].InvW, bc.Y*sv[1].InvW, bc.Z*sv[2].InvW
				oneOverW := w0 + w1 + w2
				u := (w0*sv[0].UV.X + w1*sv[1].UV.X + w2*sv[2].UV.X) / oneOverW
				v := (w0*sv[0].UV.Y + w1*sv[1].UV.Y + w2*sv[2].UV.Y) / oneOverW
				c = c.Mul(lighting.FromRGBA(texture.Sample(u, v)))
			}

			r.setDepth(x, y, z)
			r.fb.SetPixel(x, y, c.RGBA())
		}
	}
}

// barycentric calculates barycentric coordinates for point (px, py) in triangle.
func barycentric(x0, y0, x1, y1, x2, y2, px, py float64) math3d.Vec3 {
	v0x, v0y := x2-x0, y2-y0
	v1x, v1y := x1-x0, y1-y0
	v2x, v2y := px-x0, py-y0

	dot00 := v0x*v0x + v0y*v0y
	dot01 := v0x*v1x + v0y*v1y
	dot02 := v0x*v2x + v0y*v2y
	dot11 := v1x*v1x + v1y*v1y
	dot12 := v1x*v2x + v1y*v2y

	invDenom := 1.0 / (dot00*dot11 - dot01*dot01)
	u := (dot11*dot02 - dot01*dot12) * invDenom
	v := (dot00*dot12 - dot01*dot02) * invDenom

	return math3d.V3(1-u-v, v, u)
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}

// MeshSource is the read-only view of a mesh the rasterizer needs. It is
// satisfied by *models.Mesh without importing that package.
type MeshSource interface {
	VertexCount() int
	TriangleCount() int
	GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2)
	GetFace(i int) [3]int
}

// BoundedMesh is a MeshSource that also reports its local bounds.
type BoundedMesh interface {
	MeshSource
	GetBounds() (min, max math3d.Vec3)
}

// DrawMesh transforms, culls and shades a mesh, then rasterizes it.
// Faces turned away from the shader's eye are skipped before shading.
// Returns false if the whole mesh was outside the frustum.
func (r *Rasterizer) DrawMesh(mesh MeshSource, transform math3d.Mat4, mat lighting.Material, shader *lighting.Shader) bool {
	return r.DrawTexturedMesh(mesh, transform, mat, shader, nil)
}

// DrawTexturedMesh is DrawMesh with every face sampling tex. A nil tex
// draws vertex colours only.
func (r *Rasterizer) DrawTexturedMesh(mesh MeshSource, transform math3d.Mat4, mat lighting.Material, shader *lighting.Shader, tex *Texture) bool {
	r.CullingStats.MeshesTested++
	if bm, ok := mesh.(BoundedMesh); ok {
		lo, hi := bm.GetBounds()
		if !r.IsVisible(NewAABB(lo, hi).Transform(transform)) {
			r.CullingStats.MeshesCulled++
			return false
		}
	}

	for _, tri := range ShadeMesh(mesh, transform, mat, shader) {
		tri.Texture = tex
		r.DrawTriangle(tri)
	}
	return true
}

// ShadeMesh converts a mesh into world-space, pre-shaded triangles.
func ShadeMesh(mesh MeshSource, transform math3d.Mat4, mat lighting.Material, shader *lighting.Shader) []Triangle {
	n := mesh.VertexCount()
	pos := make([]math3d.Vec3, n)
	nrm := make([]math3d.Vec3, n)
	uvs := make([]math3d.Vec2, n)
	normalMat := transform.NormalMatrix()
	for i := range n {
		p, nv, uv := mesh.GetVertex(i)
		pos[i] = transform.TransformPoint(p)
		nrm[i] = normalMat.MulVec3Dir(nv).Normalize()
		uvs[i] = uv
	}

	// Shade each vertex at most once; shared vertices keep smooth normals.
	colors := make([]lighting.Color, n)
	shaded := make([]bool, n)

	out := make([]Triangle, 0, mesh.TriangleCount())
	for fi := range mesh.TriangleCount() {
		f := mesh.GetFace(fi)
		a, b, c := pos[f[0]], pos[f[1]], pos[f[2]]
		faceNormal := b.Sub(a).Cross(c.Sub(a))
		centroid := a.Add(b).Add(c).Scale(1.0 / 3)
		if !lighting.IsFrontFacing(faceNormal, centroid, shader.Eye) {
			continue
		}
		var tri Triangle
		for k, vi := range f {
			if !shaded[vi] {
				colors[vi] = shader.ShadeVertex(pos[vi], nrm[vi], mat)
				shaded[vi] = true
			}
			tri.V[k] = Vertex{Position: pos[vi], Color: colors[vi], UV: uvs[vi]}
		}
		out = append(out, tri)
	}
	return out
}
