package models

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/shiftmaze/pkg/lighting"
	"github.com/taigrr/shiftmaze/pkg/math3d"
)

// ErrNoGeometry is returned when a file holds no triangle primitives.
var ErrNoGeometry = errors.New("models: no triangle geometry")

// LoadGLB reads a .glb or .gltf file and merges every triangle primitive
// into one mesh. Base colour textures are decoded onto their materials.
func LoadGLB(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	return FromDocument(doc, filepath.Base(path), filepath.Dir(path))
}

// FromDocument converts a parsed document. External image URIs resolve
// against dir. Meshes without normals get smooth ones.
func FromDocument(doc *gltf.Document, name, dir string) (*Mesh, error) {
	mesh := NewMesh(name)
	for _, mat := range doc.Materials {
		mesh.Materials = append(mesh.Materials, readMaterial(doc, mat, dir))
	}
	for _, m := range doc.Meshes {
		for _, prim := range m.Primitives {
			if err := readPrimitive(doc, prim, mesh); err != nil {
				return nil, fmt.Errorf("mesh %q: %w", m.Name, err)
			}
		}
	}
	if len(mesh.Faces) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrNoGeometry)
	}

	if !mesh.hasNormals() {
		mesh.CalculateSmoothNormals()
	}
	mesh.CalculateBounds()
	return mesh, nil
}

func (m *Mesh) hasNormals() bool {
	for _, v := range m.Vertices {
		if v.Normal.LenSq() > 1e-6 {
			return true
		}
	}
	return false
}

func readMaterial(doc *gltf.Document, mat *gltf.Material, dir string) Material {
	out := Material{Name: mat.Name, BaseColor: lighting.Gray(1)}
	pbr := mat.PBRMetallicRoughness
	if pbr == nil {
		return out
	}
	if f := pbr.BaseColorFactor; f != nil {
		out.BaseColor = lighting.RGB(f[0], f[1], f[2])
	}
	if ti := pbr.BaseColorTexture; ti != nil && ti.Index < len(doc.Textures) {
		if src := doc.Textures[ti.Index].Source; src != nil && *src < len(doc.Images) {
			out.Texture = decodeImage(doc, doc.Images[*src], dir)
		}
	}
	return out
}

// decodeImage finds an image's bytes in a data URI, a buffer view or a file
// beside the model. Anything unreadable yields nil and the material falls
// back to its colour.
func decodeImage(doc *gltf.Document, img *gltf.Image, dir string) image.Image {
	var data []byte
	switch {
	case img.IsEmbeddedResource():
		data, _ = img.MarshalData()
	case img.BufferView != nil:
		bv := doc.BufferViews[*img.BufferView]
		if buf := doc.Buffers[bv.Buffer]; buf.Data != nil {
			data = buf.Data[bv.ByteOffset : bv.ByteOffset+bv.ByteLength]
		}
	case img.URI != "":
		data, _ = os.ReadFile(filepath.Join(dir, img.URI))
	}
	if len(data) == 0 {
		return nil
	}
	decoded, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	return decoded
}

// readPrimitive appends one primitive's vertices and faces. Points and lines
// are skipped.
func readPrimitive(doc *gltf.Document, prim *gltf.Primitive, mesh *Mesh) error {
	if prim.Mode != gltf.PrimitiveTriangles {
		return nil
	}
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return fmt.Errorf("read positions: %w", err)
	}
	var normals [][3]float32
	if i, ok := prim.Attributes[gltf.NORMAL]; ok {
		if normals, err = modeler.ReadNormal(doc, doc.Accessors[i], nil); err != nil {
			return fmt.Errorf("read normals: %w", err)
		}
	}
	var uvs [][2]float32
	if i, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		if uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[i], nil); err != nil {
			return fmt.Errorf("read uvs: %w", err)
		}
	}

	material := -1
	if prim.Material != nil && *prim.Material < len(mesh.Materials) {
		material = *prim.Material
	}

	base := len(mesh.Vertices)
	for i, p := range positions {
		v := MeshVertex{Position: vec3(p)}
		if i < len(normals) {
			v.Normal = vec3(normals[i])
		}
		if i < len(uvs) {
			// glTF puts V=0 at the top of the image.
			v.UV = math3d.V2(float64(uvs[i][0]), 1-float64(uvs[i][1]))
		}
		mesh.Vertices = append(mesh.Vertices, v)
	}

	var indices []uint32
	if prim.Indices != nil {
		if indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil); err != nil {
			return fmt.Errorf("read indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	// Both glTF and Mesh wind front faces counter-clockwise.
	for i := 0; i+2 < len(indices); i += 3 {
		mesh.AddTriangle(base+int(indices[i]), base+int(indices[i+1]), base+int(indices[i+2]), material)
	}
	return nil
}

func vec3(f [3]float32) math3d.Vec3 {
	return math3d.V3(float64(f[0]), float64(f[1]), float64(f[2]))
}
