package utils

import (
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/voxelsplace/bod/bod"
)

// NewGLBDocument returns a document with the single vertex-colored material
// every organism mesh uses.
func NewGLBDocument(generator string, hasAlpha bool) *gltf.Document {
	doc := gltf.NewDocument()
	doc.Asset.Generator = generator
	pbr := &gltf.PBRMetallicRoughness{BaseColorFactor: &[4]float32{1, 1, 1, 1}, MetallicFactor: gltf.Float(0), RoughnessFactor: gltf.Float(1)}
	material := &gltf.Material{PBRMetallicRoughness: pbr, AlphaMode: gltf.AlphaOpaque}
	if hasAlpha {
		material.AlphaMode = gltf.AlphaBlend
	}
	doc.Materials = []*gltf.Material{material}
	return doc
}

// AddMeshNode writes mesh into doc as a new mesh and node, adds the node to
// the default scene and returns the node.
func AddMeshNode(doc *gltf.Document, mesh *bod.Mesh, name string) *gltf.Node {
	positions := make([][3]float32, len(mesh.Vertices))
	normals := make([][3]float32, len(mesh.Vertices))
	colors := make([][4]float32, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		positions[i] = v.Position
		normals[i] = v.Normal
		colors[i] = v.Color
	}
	indices := make([]uint32, len(mesh.Indices))
	copy(indices, mesh.Indices)

	posAccessor := modeler.WritePosition(doc, positions)
	normalAccessor := modeler.WriteNormal(doc, normals)
	colorAccessor := modeler.WriteColor(doc, colors)
	indicesAccessor := modeler.WriteIndices(doc, indices)

	prim := &gltf.Primitive{
		Attributes: map[string]uint32{
			gltf.POSITION: uint32(posAccessor),
			gltf.NORMAL:   uint32(normalAccessor),
			gltf.COLOR_0:  uint32(colorAccessor),
		},
		Indices:  gltf.Index(uint32(indicesAccessor)),
		Material: gltf.Index(0),
	}
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{Name: name, Primitives: []*gltf.Primitive{prim}})
	node := &gltf.Node{Name: name, Mesh: gltf.Index(uint32(len(doc.Meshes) - 1))}
	doc.Nodes = append(doc.Nodes, node)
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)-1))
	return node
}

func meshHasAlpha(mesh *bod.Mesh) bool {
	for _, v := range mesh.Vertices {
		if v.Color[3] < 1.0 {
			return true
		}
	}
	return false
}
