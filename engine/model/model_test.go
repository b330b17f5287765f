package model

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
)

func triangle(offset float32) ImportedMesh {
	return ImportedMesh{
		Name:        "tri",
		Positions:   []mgl32.Vec3{{offset, 0, 0}, {offset + 1, 0, 0}, {offset, 2, 0}},
		Normals:     []mgl32.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
		Indices:     []uint32{0, 1, 2},
		BoundingMin: mgl32.Vec3{offset, 0, 0},
		BoundingMax: mgl32.Vec3{offset + 1, 2, 0},
	}
}

func TestNewModelDerivesBounds(t *testing.T) {
	m := NewModel(WithName("star"), WithMeshes([]ImportedMesh{triangle(0), triangle(-3)}))

	assert.Equal(t, "star", m.Name())
	assert.Equal(t, 6, m.VertexCount())
	assert.Equal(t, mgl32.Vec3{-3, 0, 0}, m.BoundingMin())
	assert.Equal(t, mgl32.Vec3{1, 2, 0}, m.BoundingMax())
	assert.InDelta(t, 3, m.BoundingRadius(), 1e-5)
	assert.Equal(t, colorful.Color{R: 1, G: 1, B: 1}, m.BaseColor())
}

func TestNewModelExplicitBoundsWin(t *testing.T) {
	m := NewModel(
		WithMeshes([]ImportedMesh{triangle(0)}),
		WithBounds(mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1}),
		WithBoundingRadius(7),
	)
	assert.Equal(t, mgl32.Vec3{-1, -1, -1}, m.BoundingMin())
	assert.InDelta(t, 7, m.BoundingRadius(), 1e-6)
}

func TestMeshesReturnsCopy(t *testing.T) {
	m := NewModel(WithMeshes([]ImportedMesh{triangle(0)}))
	meshes := m.Meshes()
	meshes[0] = ImportedMesh{}
	assert.Equal(t, 3, m.Meshes()[0].VertexCount())
}

func TestFromImported(t *testing.T) {
	imported := &ImportedModel{
		Name:      "heart",
		Meshes:    []ImportedMesh{triangle(0)},
		BaseColor: [4]float32{1, 0.5, 0, 1},
	}
	m := NewModel(FromImported(imported)...)
	assert.Equal(t, "heart", m.Name())
	assert.InDelta(t, 0.5, m.BaseColor().G, 1e-6)
	assert.Equal(t, 3, m.VertexCount())
}
