package model

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

// model is the implementation of the Model interface.
type model struct {
	name           string
	meshes         []ImportedMesh
	baseColor      colorful.Color
	boundingMin    mgl32.Vec3
	boundingMax    mgl32.Vec3
	boundingRadius float32
}

// Model defines the interface for a loaded model template.
// A Model is immutable once built: it exposes getters only, and every flock instance cloned from it
// shares the same geometry by reference.
// It is produced by the Loader after importing and processing a model file.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Meshes retrieves the mesh primitives of the model.
	// The returned slice is a copy, but the vertex data inside each mesh is shared and must be treated as read-only.
	//
	// Returns:
	//   - []ImportedMesh: the meshes
	Meshes() []ImportedMesh

	// BaseColor retrieves the baseline material color of the model.
	//
	// Returns:
	//   - colorful.Color: the base color
	BaseColor() colorful.Color

	// BoundingMin returns the minimum corner of the model's axis-aligned bounding box.
	//
	// Returns:
	//   - mgl32.Vec3: the minimum corner
	BoundingMin() mgl32.Vec3

	// BoundingMax returns the maximum corner of the model's axis-aligned bounding box.
	//
	// Returns:
	//   - mgl32.Vec3: the maximum corner
	BoundingMax() mgl32.Vec3

	// BoundingRadius returns the bounding sphere radius for this model, measured as
	// the maximum vertex distance from the origin. Used by frustum culling.
	//
	// Returns:
	//   - float32: the bounding radius
	BoundingRadius() float32

	// VertexCount returns the total vertex count across all meshes.
	//
	// Returns:
	//   - int: the vertex count
	VertexCount() int
}

var _ Model = &model{}

// NewModel creates a new Model instance with the specified options applied.
// Bounds not supplied through an option are derived from the meshes.
//
// Parameters:
//   - options: a variadic list of ModelBuilderOption functions to configure the Model
//
// Returns:
//   - Model: a new instance of Model configured with the provided options
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{
		baseColor:      colorful.Color{R: 1, G: 1, B: 1},
		boundingRadius: -1,
	}
	for _, opt := range options {
		opt(m)
	}

	if m.boundingMin == (mgl32.Vec3{}) && m.boundingMax == (mgl32.Vec3{}) {
		m.boundingMin, m.boundingMax = meshBounds(m.meshes)
	}
	if m.boundingRadius < 0 {
		m.boundingRadius = meshRadius(m.meshes)
	}
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Meshes() []ImportedMesh {
	out := make([]ImportedMesh, len(m.meshes))
	copy(out, m.meshes)
	return out
}

func (m *model) BaseColor() colorful.Color {
	return m.baseColor
}

func (m *model) BoundingMin() mgl32.Vec3 {
	return m.boundingMin
}

func (m *model) BoundingMax() mgl32.Vec3 {
	return m.boundingMax
}

func (m *model) BoundingRadius() float32 {
	return m.boundingRadius
}

func (m *model) VertexCount() int {
	n := 0
	for _, mesh := range m.meshes {
		n += mesh.VertexCount()
	}
	return n
}

// meshBounds merges the bounding boxes of all meshes.
func meshBounds(meshes []ImportedMesh) (mgl32.Vec3, mgl32.Vec3) {
	if len(meshes) == 0 {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}
	lo, hi := meshes[0].BoundingMin, meshes[0].BoundingMax
	for _, mesh := range meshes[1:] {
		for i := range 3 {
			lo[i] = min(lo[i], mesh.BoundingMin[i])
			hi[i] = max(hi[i], mesh.BoundingMax[i])
		}
	}
	return lo, hi
}

// meshRadius returns the largest vertex distance from the origin.
func meshRadius(meshes []ImportedMesh) float32 {
	var r float32
	for _, mesh := range meshes {
		for _, p := range mesh.Positions {
			r = max(r, p.Len())
		}
	}
	return r
}
