package loader

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-flock/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	errMissingPosition = errors.New("primitive has no POSITION attribute")
	errNoMeshes        = errors.New("document contains no meshes")
)

// importModel flattens every primitive of every mesh into one ImportedModel.
//
// Parameters:
//   - fallbackName: the model name to use when the default scene has none
//
// Returns:
//   - *model.ImportedModel: the geometry and base color
//   - error: an error if any primitive cannot be read
func (f *gltfFile) importModel(fallbackName string) (*model.ImportedModel, error) {
	var meshes []model.ImportedMesh
	for mi, mesh := range f.doc.Meshes {
		for pi := range mesh.Primitives {
			m, err := f.importPrimitive(&mesh.Primitives[pi], primitiveName(mesh.Name, mi, pi))
			if err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
			}
			meshes = append(meshes, m)
		}
	}
	if len(meshes) == 0 {
		return nil, errNoMeshes
	}

	return &model.ImportedModel{
		Name:      f.modelName(fallbackName),
		Meshes:    meshes,
		BaseColor: f.baseColor(),
	}, nil
}

func (f *gltfFile) importPrimitive(prim *gltfPrimitive, name string) (model.ImportedMesh, error) {
	if prim.Mode != nil && *prim.Mode != modeTriangles {
		return model.ImportedMesh{}, fmt.Errorf("primitive mode %d is not triangles", *prim.Mode)
	}
	posIndex, ok := prim.Attributes["POSITION"]
	if !ok {
		return model.ImportedMesh{}, errMissingPosition
	}

	positions, err := f.readVec3(posIndex)
	if err != nil {
		return model.ImportedMesh{}, fmt.Errorf("positions: %w", err)
	}

	var indices []uint32
	if prim.Indices != nil {
		if indices, err = f.readIndices(*prim.Indices); err != nil {
			return model.ImportedMesh{}, fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	var normals []mgl32.Vec3
	if normIndex, ok := prim.Attributes["NORMAL"]; ok {
		if normals, err = f.readVec3(normIndex); err != nil {
			return model.ImportedMesh{}, fmt.Errorf("normals: %w", err)
		}
		if len(normals) != len(positions) {
			return model.ImportedMesh{}, fmt.Errorf("%d normals for %d positions", len(normals), len(positions))
		}
	} else {
		normals = smoothNormals(positions, indices)
	}

	bmin, bmax := bounds(positions)
	return model.ImportedMesh{
		Name:        name,
		Positions:   positions,
		Normals:     normals,
		Indices:     indices,
		BoundingMin: bmin,
		BoundingMax: bmax,
	}, nil
}

func primitiveName(meshName string, meshIndex, primIndex int) string {
	if meshName == "" {
		meshName = fmt.Sprintf("mesh_%d", meshIndex)
	}
	if primIndex == 0 {
		return meshName
	}
	return fmt.Sprintf("%s_prim%d", meshName, primIndex)
}

// modelName prefers the default scene's name, then the file's base name.
func (f *gltfFile) modelName(fallback string) string {
	if s := f.doc.Scene; s != nil && *s >= 0 && *s < len(f.doc.Scenes) && f.doc.Scenes[*s].Name != "" {
		return f.doc.Scenes[*s].Name
	}
	if fallback != "" {
		return fallback
	}
	return "unnamed_model"
}

// baseColor is the first material's base color factor, or opaque white.
func (f *gltfFile) baseColor() [4]float32 {
	if len(f.doc.Materials) > 0 {
		if pbr := f.doc.Materials[0].PbrMetallicRoughness; pbr != nil && pbr.BaseColorFactor != nil {
			return *pbr.BaseColorFactor
		}
	}
	return [4]float32{1, 1, 1, 1}
}

func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func bounds(positions []mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	if len(positions) == 0 {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}
	lo, hi := positions[0], positions[0]
	for _, p := range positions[1:] {
		for c := range 3 {
			lo[c] = min(lo[c], p[c])
			hi[c] = max(hi[c], p[c])
		}
	}
	return lo, hi
}

// smoothNormals averages area-weighted face normals onto each vertex. Vertices that touch only
// degenerate triangles, or none, point up.
func smoothNormals(positions []mgl32.Vec3, indices []uint32) []mgl32.Vec3 {
	n := uint32(len(positions))
	sum := make([]mgl32.Vec3, n)

	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		if a >= n || b >= n || c >= n {
			continue
		}
		face := positions[b].Sub(positions[a]).Cross(positions[c].Sub(positions[a]))
		sum[a] = sum[a].Add(face)
		sum[b] = sum[b].Add(face)
		sum[c] = sum[c].Add(face)
	}

	for i, v := range sum {
		if v.Len() < 1e-6 {
			sum[i] = mgl32.Vec3{0, 1, 0}
		} else {
			sum[i] = v.Normalize()
		}
	}
	return sum
}
