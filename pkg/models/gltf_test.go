package models

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"

	"github.com/taigrr/shiftmaze/pkg/lighting"
	"github.com/taigrr/shiftmaze/pkg/math3d"
)

func TestLoadGLBInvalidPath(t *testing.T) {
	_, err := LoadGLB("/nonexistent/path.glb")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestFromDocumentTextureAndNormals(t *testing.T) {
	dir := t.TempDir()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(1, 1, color.NRGBA{R: 200, A: 255})
	f, err := os.Create(filepath.Join(dir, "skin.png"))
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	m := NewBox("crate", math3d.V3(1, 1, 1), lighting.Gray(1))
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Vec3{}
	}
	doc := BuildDocument(m)
	doc.Images = append(doc.Images, &gltf.Image{URI: "skin.png"})
	doc.Textures = append(doc.Textures, &gltf.Texture{Source: gltf.Index(0)})
	doc.Materials[0].PBRMetallicRoughness.BaseColorTexture = &gltf.TextureInfo{Index: 0}

	got, err := FromDocument(doc, "crate", dir)
	if err != nil {
		t.Fatal(err)
	}
	tex := got.Materials[0].Texture
	if tex == nil {
		t.Fatal("texture not loaded")
	}
	if r, _, _, _ := tex.At(1, 1).RGBA(); r>>8 != 200 {
		t.Errorf("texel red = %d", r>>8)
	}
	if !got.hasNormals() {
		t.Error("missing normals were not rebuilt")
	}

	doc.Images[0].URI = "missing.png"
	got, err = FromDocument(doc, "crate", dir)
	if err != nil {
		t.Fatal(err)
	}
	if got.Materials[0].Texture != nil {
		t.Error("unreadable image should leave the material untextured")
	}
}

func TestExportLoadRoundTrip(t *testing.T) {
	wall := NewBox("wall", math3d.V3(2, 2, 2), lighting.RGB(0.6, 0.5, 0.4))
	wall.Transform(math3d.Translate(math3d.V3(3, 1, -3)))
	enemy := NewSphere("enemy", 0.4, 8, 4, lighting.RGB(0.8, 0.1, 0.1))

	path := filepath.Join(t.TempDir(), "scene.glb")
	if err := ExportGLB(path, wall, enemy); err != nil {
		t.Fatal(err)
	}

	got, err := LoadGLB(path)
	if err != nil {
		t.Fatal(err)
	}

	if want := wall.VertexCount() + enemy.VertexCount(); got.VertexCount() != want {
		t.Errorf("vertex count = %d, want %d", got.VertexCount(), want)
	}
	if want := wall.TriangleCount() + enemy.TriangleCount(); got.TriangleCount() != want {
		t.Errorf("triangle count = %d, want %d", got.TriangleCount(), want)
	}
	if got.MaterialCount() != 2 {
		t.Fatalf("material count = %d, want 2", got.MaterialCount())
	}
	if c := got.Materials[0].BaseColor; math.Abs(c.R-0.6) > 1e-6 || math.Abs(c.B-0.4) > 1e-6 {
		t.Errorf("wall colour = %+v", c)
	}
	if f := got.Faces[len(got.Faces)-1]; f.Material != 1 {
		t.Errorf("last face material = %d, want the enemy's", f.Material)
	}

	// float32 storage loses a little precision.
	if !got.BoundsMin.ApproxEqual(math3d.V3(-0.4, -0.4, -4), 1e-5) ||
		!got.BoundsMax.ApproxEqual(math3d.V3(4, 2, 0.4), 1e-5) {
		t.Errorf("bounds = %v..%v", got.BoundsMin, got.BoundsMax)
	}
	for i, v := range wall.Vertices {
		if !got.Vertices[i].Position.ApproxEqual(v.Position, 1e-5) {
			t.Fatalf("vertex %d = %v, want %v", i, got.Vertices[i].Position, v.Position)
		}
		if !got.Vertices[i].Normal.ApproxEqual(v.Normal, 1e-5) {
			t.Fatalf("normal %d = %v, want %v", i, got.Vertices[i].Normal, v.Normal)
		}
		if math.Abs(got.Vertices[i].UV.Y-v.UV.Y) > 1e-6 {
			t.Fatalf("uv %d = %v, want %v", i, got.Vertices[i].UV, v.UV)
		}
	}
	// Winding survives the trip.
	assertOutwardWinding(t, got)
}

func TestExportRejectsEmpty(t *testing.T) {
	err := ExportGLB(filepath.Join(t.TempDir(), "empty.glb"), NewMesh("nothing"))
	if !errors.Is(err, ErrNoGeometry) {
		t.Errorf("err = %v, want ErrNoGeometry", err)
	}
}

func TestBuildDocumentGroupsByMaterial(t *testing.T) {
	m := NewMesh("two-tone")
	red := m.AddMaterial("red", lighting.RGB(1, 0, 0))
	blue := m.AddMaterial("blue", lighting.RGB(0, 0, 1))
	for range 4 {
		m.AddVertex(math3d.Zero3(), math3d.Up(), math3d.Vec2{})
	}
	m.AddTriangle(0, 1, 2, red)
	m.AddTriangle(1, 2, 3, blue)
	m.AddTriangle(0, 2, 3, red)
	m.AddTriangle(0, 1, 3, -1)

	doc := BuildDocument(m)
	if len(doc.Meshes) != 1 {
		t.Fatalf("meshes = %d, want 1", len(doc.Meshes))
	}
	prims := doc.Meshes[0].Primitives
	if len(prims) != 3 {
		t.Fatalf("primitives = %d, want 3 (red, blue, none)", len(prims))
	}
	if prims[0].Material == nil || *prims[0].Material != 0 {
		t.Error("first primitive should use the red material")
	}
	if prims[2].Material != nil {
		t.Error("faces without a material should export without one")
	}
	if n := doc.Accessors[*prims[0].Indices].Count; n != 6 {
		t.Errorf("red index count = %d, want 6", n)
	}
}
