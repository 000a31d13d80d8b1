package models

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// BuildDocument converts meshes into a glTF document with one node per
// mesh. Faces are grouped into one primitive per material; faces without a
// material share a primitive with no material.
func BuildDocument(meshes ...*Mesh) *gltf.Document {
	doc := gltf.NewDocument()
	for _, m := range meshes {
		if m == nil || len(m.Faces) == 0 {
			continue
		}

		positions := make([][3]float32, len(m.Vertices))
		normals := make([][3]float32, len(m.Vertices))
		uvs := make([][2]float32, len(m.Vertices))
		for i, v := range m.Vertices {
			positions[i] = [3]float32{float32(v.Position.X), float32(v.Position.Y), float32(v.Position.Z)}
			normals[i] = [3]float32{float32(v.Normal.X), float32(v.Normal.Y), float32(v.Normal.Z)}
			// Mesh UVs have V=0 at the bottom; glTF has it at the top.
			uvs[i] = [2]float32{float32(v.UV.X), float32(1 - v.UV.Y)}
		}
		attrs := map[string]int{
			gltf.POSITION:   modeler.WritePosition(doc, positions),
			gltf.NORMAL:     modeler.WriteNormal(doc, normals),
			gltf.TEXCOORD_0: modeler.WriteTextureCoord(doc, uvs),
		}

		materialBase := len(doc.Materials)
		for _, mat := range m.Materials {
			c := mat.BaseColor.Clamp()
			doc.Materials = append(doc.Materials, &gltf.Material{
				Name: mat.Name,
				PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
					BaseColorFactor: &[4]float64{c.R, c.G, c.B, 1},
					MetallicFactor:  gltf.Float(0),
				},
			})
		}

		// Group indices by material, keeping first-seen order stable.
		groups := map[int][]uint32{}
		var order []int
		for _, f := range m.Faces {
			if _, ok := groups[f.Material]; !ok {
				order = append(order, f.Material)
			}
			groups[f.Material] = append(groups[f.Material], uint32(f.V[0]), uint32(f.V[1]), uint32(f.V[2]))
		}

		gm := &gltf.Mesh{Name: m.Name}
		for _, mi := range order {
			prim := &gltf.Primitive{
				Mode:       gltf.PrimitiveTriangles,
				Attributes: attrs,
				Indices:    gltf.Index(modeler.WriteIndices(doc, groups[mi])),
			}
			if mi >= 0 && mi < len(m.Materials) {
				prim.Material = gltf.Index(materialBase + mi)
			}
			gm.Primitives = append(gm.Primitives, prim)
		}
		doc.Meshes = append(doc.Meshes, gm)
		doc.Nodes = append(doc.Nodes, &gltf.Node{Name: m.Name, Mesh: gltf.Index(len(doc.Meshes) - 1)})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)
	}
	return doc
}

// ExportGLB writes meshes to a binary glTF file.
func ExportGLB(path string, meshes ...*Mesh) error {
	doc := BuildDocument(meshes...)
	if len(doc.Meshes) == 0 {
		return fmt.Errorf("export %s: %w", path, ErrNoGeometry)
	}
	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	return nil
}
