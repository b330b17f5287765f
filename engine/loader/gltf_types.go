package loader

// The subset of the glTF 2.0 schema a flock template needs: triangle geometry, its buffers and the
// first material's base color. Everything else in a document is ignored by encoding/json.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html

type gltfDocument struct {
	Asset struct {
		Version string `json:"version"`
	} `json:"asset"`

	Scene  *int `json:"scene,omitempty"`
	Scenes []struct {
		Name string `json:"name,omitempty"`
	} `json:"scenes,omitempty"`

	Meshes      []gltfMesh       `json:"meshes,omitempty"`
	Accessors   []gltfAccessor   `json:"accessors,omitempty"`
	BufferViews []gltfBufferView `json:"bufferViews,omitempty"`
	Buffers     []gltfBuffer     `json:"buffers,omitempty"`
	Materials   []gltfMaterial   `json:"materials,omitempty"`

	ExtensionsRequired []string `json:"extensionsRequired,omitempty"`
}

type gltfMesh struct {
	Name       string          `json:"name,omitempty"`
	Primitives []gltfPrimitive `json:"primitives"`
}

type gltfPrimitive struct {
	// Attributes maps semantics such as POSITION and NORMAL to accessor indices.
	Attributes map[string]int `json:"attributes"`
	Indices    *int           `json:"indices,omitempty"`
	Material   *int           `json:"material,omitempty"`
	Mode       *int           `json:"mode,omitempty"` // nil means triangles
}

type gltfAccessor struct {
	BufferView    *int      `json:"bufferView,omitempty"`
	ByteOffset    int       `json:"byteOffset,omitempty"`
	ComponentType int       `json:"componentType"`
	Count         int       `json:"count"`
	Type          string    `json:"type"`
	Sparse        *struct{} `json:"sparse,omitempty"`
}

type gltfBufferView struct {
	Buffer     int  `json:"buffer"`
	ByteOffset int  `json:"byteOffset,omitempty"`
	ByteLength int  `json:"byteLength"`
	ByteStride *int `json:"byteStride,omitempty"`
}

type gltfBuffer struct {
	// URI is a data URI or a path relative to the document. Empty selects the GLB binary chunk.
	URI        string `json:"uri,omitempty"`
	ByteLength int    `json:"byteLength"`

	data []byte
}

type gltfMaterial struct {
	PbrMetallicRoughness *struct {
		BaseColorFactor *[4]float32 `json:"baseColorFactor,omitempty"`
	} `json:"pbrMetallicRoughness,omitempty"`
}

const (
	modeTriangles = 4

	componentUnsignedByte  = 5121
	componentUnsignedShort = 5123
	componentUnsignedInt   = 5125
	componentFloat         = 5126

	extensionDraco = "KHR_draco_mesh_compression"
)

// GLB container layout. Magic and chunk types are ASCII read as little-endian uint32.
const (
	glbMagic           = 0x46546C67 // "glTF"
	glbVersion         = 2
	glbChunkJSON       = 0x4E4F534A // "JSON"
	glbChunkBIN        = 0x004E4942 // "BIN\0"
	glbHeaderSize      = 12
	glbChunkHeaderSize = 8
)
