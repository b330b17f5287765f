package loader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-flock/engine/model"
)

// loaderBackend decodes one model file format.
type loaderBackend interface {
	// Load decodes the model file at path.
	Load(path string) (*model.ImportedModel, error)

	// LoadReader decodes a model stream. External buffers resolve against the working directory.
	//
	// Parameters:
	//   - r: the model data
	//   - isGLB: true for a GLB container, false for glTF JSON
	//
	// Returns:
	//   - *model.ImportedModel: the decoded model
	//   - error: an error if decoding fails
	LoadReader(r io.Reader, isGLB bool) (*model.ImportedModel, error)
}

// gltfBackend decodes glTF 2.0 JSON documents and GLB containers.
type gltfBackend struct{}

var _ loaderBackend = gltfBackend{}

func (gltfBackend) Load(path string) (*model.ImportedModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	isGLB := strings.EqualFold(filepath.Ext(path), ".glb") || hasGLBMagic(data)
	f, err := decodeGLTF(data, isGLB, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return f.importModel(fileStem(path))
}

func (gltfBackend) LoadReader(r io.Reader, isGLB bool) (*model.ImportedModel, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read model stream: %w", err)
	}

	f, err := decodeGLTF(data, isGLB, "")
	if err != nil {
		return nil, fmt.Errorf("failed to parse model stream: %w", err)
	}
	return f.importModel("")
}
