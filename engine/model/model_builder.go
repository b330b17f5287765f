package model

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

// ModelBuilderOption is a functional option for configuring a Model via NewModel.
type ModelBuilderOption func(*model)

// WithName is an option builder that sets the name of the Model.
//
// Parameters:
//   - name: the model identifier
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithMeshes is an option builder that sets the mesh primitives of the Model.
// The slice is copied; the vertex data is shared.
//
// Parameters:
//   - meshes: the meshes to set
//
// Returns:
//   - ModelBuilderOption: a function that applies the meshes option to a model
func WithMeshes(meshes []ImportedMesh) ModelBuilderOption {
	return func(m *model) {
		m.meshes = append([]ImportedMesh(nil), meshes...)
	}
}

// WithBaseColor is an option builder that sets the baseline material color of the Model.
//
// Parameters:
//   - c: the base color
//
// Returns:
//   - ModelBuilderOption: a function that applies the base color option to a model
func WithBaseColor(c colorful.Color) ModelBuilderOption {
	return func(m *model) {
		m.baseColor = c
	}
}

// WithBounds is an option builder that overrides the axis-aligned bounding box of the Model.
//
// Parameters:
//   - lo: the minimum corner
//   - hi: the maximum corner
//
// Returns:
//   - ModelBuilderOption: a function that applies the bounds option to a model
func WithBounds(lo, hi mgl32.Vec3) ModelBuilderOption {
	return func(m *model) {
		m.boundingMin = lo
		m.boundingMax = hi
	}
}

// WithBoundingRadius is an option builder that overrides the bounding sphere radius of the Model.
//
// Parameters:
//   - radius: the bounding radius
//
// Returns:
//   - ModelBuilderOption: a function that applies the bounding radius option to a model
func WithBoundingRadius(radius float32) ModelBuilderOption {
	return func(m *model) {
		m.boundingRadius = radius
	}
}

// FromImported converts an ImportedModel into Model options.
//
// Parameters:
//   - imported: the imported model
//
// Returns:
//   - []ModelBuilderOption: options carrying the name, meshes and base color
func FromImported(imported *ImportedModel) []ModelBuilderOption {
	c := imported.BaseColor
	return []ModelBuilderOption{
		WithName(imported.Name),
		WithMeshes(imported.Meshes),
		WithBaseColor(colorful.Color{R: float64(c[0]), G: float64(c[1]), B: float64(c[2])}),
	}
}
