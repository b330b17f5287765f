package model

import (
	"github.com/go-gl/mathgl/mgl32"
)

// ImportedModel represents a 3D model loaded from an external format.
// This is the universal format that importers (glTF, GLB) produce.
type ImportedModel struct {
	// Name is the model identifier.
	Name string

	// Meshes contains all mesh data (may have multiple meshes/submeshes).
	Meshes []ImportedMesh

	// BaseColor is the baseline albedo color (RGBA, linear 0..1) of the first material, or opaque white.
	BaseColor [4]float32
}

// ImportedMesh represents a single mesh primitive within an imported model.
type ImportedMesh struct {
	// Name is the mesh identifier.
	Name string

	// Positions are the vertex positions in model space.
	Positions []mgl32.Vec3

	// Normals are the per-vertex normals, the same length as Positions.
	Normals []mgl32.Vec3

	// Indices are the triangle indices.
	Indices []uint32

	// BoundingMin is the minimum corner of the axis-aligned bounding box.
	BoundingMin mgl32.Vec3

	// BoundingMax is the maximum corner of the axis-aligned bounding box.
	BoundingMax mgl32.Vec3
}

// VertexCount returns the number of vertices in the mesh.
func (m ImportedMesh) VertexCount() int {
	return len(m.Positions)
}
