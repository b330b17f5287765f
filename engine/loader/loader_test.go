package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-flock/common"
	"github.com/Carmen-Shannon/oxy-flock/engine/model"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// triangleBuffer packs three float32 positions followed by three uint16 indices, padded to 4 bytes.
func triangleBuffer() []byte {
	var buf bytes.Buffer
	positions := [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	_ = binary.Write(&buf, binary.LittleEndian, positions)
	_ = binary.Write(&buf, binary.LittleEndian, []uint16{0, 1, 2})
	buf.Write([]byte{0, 0})
	return buf.Bytes()
}

// triangleJSON returns a glTF document for a single triangle. An empty uri targets the GLB binary chunk.
func triangleJSON(uri string, extra string) string {
	uriField := ""
	if uri != "" {
		uriField = fmt.Sprintf(`"uri": %q,`, uri)
	}
	return fmt.Sprintf(`{
  "asset": {"version": "2.0"},
  %s
  "buffers": [{%s "byteLength": 44}],
  "bufferViews": [
    {"buffer": 0, "byteOffset": 0, "byteLength": 36},
    {"buffer": 0, "byteOffset": 36, "byteLength": 6}
  ],
  "accessors": [
    {"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3", "min": [0,0,0], "max": [1,1,0]},
    {"bufferView": 1, "componentType": 5123, "count": 3, "type": "SCALAR"}
  ],
  "materials": [{"pbrMetallicRoughness": {"baseColorFactor": [1.0, 0.5, 0.25, 1.0]}}],
  "meshes": [{"name": "tri", "primitives": [{"attributes": {"POSITION": 0}, "indices": 1, "material": 0}]}]
}`, extra, uriField)
}

func dataURI(b []byte) string {
	return "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(b)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// buildGLB wraps a JSON document and a binary chunk in the GLB container.
func buildGLB(jsonDoc string, bin []byte) []byte {
	jsonBytes := []byte(jsonDoc)
	for len(jsonBytes)%4 != 0 {
		jsonBytes = append(jsonBytes, ' ')
	}
	total := 12 + 8 + len(jsonBytes) + 8 + len(bin)

	var out bytes.Buffer
	_ = binary.Write(&out, binary.LittleEndian, []uint32{glbMagic, glbVersion, uint32(total)})
	_ = binary.Write(&out, binary.LittleEndian, []uint32{uint32(len(jsonBytes)), glbChunkJSON})
	out.Write(jsonBytes)
	_ = binary.Write(&out, binary.LittleEndian, []uint32{uint32(len(bin)), glbChunkBIN})
	out.Write(bin)
	return out.Bytes()
}

// fakeBackend counts loads and can block or panic on demand.
type fakeBackend struct {
	calls   atomic.Int32
	release chan struct{}
	panics  bool
	err     error
}

func (b *fakeBackend) Load(path string) (*model.ImportedModel, error) {
	b.calls.Add(1)
	if b.release != nil {
		<-b.release
	}
	if b.panics {
		panic("decoder exploded")
	}
	if b.err != nil {
		return nil, b.err
	}
	return &model.ImportedModel{
		Name: path,
		Meshes: []model.ImportedMesh{{
			Positions: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
			Indices:   []uint32{0, 1, 2},
		}},
		BaseColor: [4]float32{1, 1, 1, 1},
	}, nil
}

func (b *fakeBackend) LoadReader(r io.Reader, isGLB bool) (*model.ImportedModel, error) {
	return b.Load("reader")
}

func withBackend(b loaderBackend) LoaderBuilderOption {
	return func(l *loader) {
		l.backend = b
	}
}

func await(t *testing.T, f *Future) (model.Model, error) {
	t.Helper()
	select {
	case <-f.Done():
		return f.Result()
	case <-time.After(5 * time.Second):
		t.Fatal("future did not complete")
		return nil, nil
	}
}

func TestLoadDataURITriangle(t *testing.T) {
	path := writeFile(t, "tri.gltf", triangleJSON(dataURI(triangleBuffer()), ""))
	l := NewLoader(BackendTypeGLTF, WithAsset("star", path))
	defer l.Close()

	m, err := l.Load("star")
	require.NoError(t, err)

	assert.Equal(t, "star", m.Name())
	assert.Equal(t, 3, m.VertexCount())
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, m.BoundingMin())
	assert.Equal(t, mgl32.Vec3{1, 1, 0}, m.BoundingMax())
	assert.InDelta(t, 1, m.BoundingRadius(), 1e-6)
	assert.InDelta(t, 0.5, m.BaseColor().G, 1e-6)

	mesh := m.Meshes()[0]
	assert.Equal(t, []uint32{0, 1, 2}, mesh.Indices)
	require.Len(t, mesh.Normals, 3)
	for _, n := range mesh.Normals {
		assert.True(t, n.ApproxEqual(mgl32.Vec3{0, 0, 1}), "generated normal %v", n)
	}
}

func TestLoadExternalBuffer(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tri.bin"), triangleBuffer(), 0644))
	path := filepath.Join(dir, "tri.gltf")
	require.NoError(t, os.WriteFile(path, []byte(triangleJSON("tri.bin", "")), 0644))

	l := NewLoader(BackendTypeGLTF, WithAsset("heart", path))
	defer l.Close()

	m, err := l.Load("heart")
	require.NoError(t, err)
	assert.Equal(t, 3, m.VertexCount())
}

func TestLoadReaderGLB(t *testing.T) {
	glb := buildGLB(triangleJSON("", ""), triangleBuffer())
	l := NewLoader(BackendTypeGLTF)
	defer l.Close()

	m, err := l.LoadReader("usagi", bytes.NewReader(glb), true)
	require.NoError(t, err)
	assert.Equal(t, "usagi", m.Name())
	assert.Equal(t, 3, m.VertexCount())
	assert.Same(t, m, l.Get("usagi"))
}

func TestDracoIsRejected(t *testing.T) {
	doc := triangleJSON(dataURI(triangleBuffer()), `"extensionsRequired": ["KHR_draco_mesh_compression"],`)
	path := writeFile(t, "draco.gltf", doc)
	l := NewLoader(BackendTypeGLTF, WithAsset("usagi", path))
	defer l.Close()

	_, err := l.Load("usagi")
	require.Error(t, err)

	var ae *AssetLoadError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "usagi", ae.Name)
	assert.Equal(t, path, ae.Path)
	assert.ErrorIs(t, err, errDracoUnsupported)
}

func TestParseErrors(t *testing.T) {
	cases := map[string]struct {
		doc  string
		want error
	}{
		"wrong version": {doc: `{"asset": {"version": "1.0"}}`, want: errInvalidGLTFVersion},
		"truncated buffer": {
			doc:  triangleJSON(dataURI(triangleBuffer()[:20]), ""),
			want: errBufferSizeMismatch,
		},
		"no position": {
			doc:  `{"asset": {"version": "2.0"}, "meshes": [{"primitives": [{"attributes": {}}]}]}`,
			want: errMissingPosition,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, "bad.gltf", tc.doc)
			l := NewLoader(BackendTypeGLTF, WithAsset("bad", path))
			defer l.Close()

			_, err := l.Load("bad")
			var ae *AssetLoadError
			require.ErrorAs(t, err, &ae)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestUnknownAndUnsupported(t *testing.T) {
	l := NewLoader(BackendTypeGLTF, WithAsset("mesh", "model.obj"))
	defer l.Close()

	_, err := l.Load("missing")
	assert.ErrorIs(t, err, ErrUnknownAsset)

	_, err = l.Load("mesh")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	var ae *AssetLoadError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "model.obj", ae.Path)
}

func TestLoadCachesByName(t *testing.T) {
	backend := &fakeBackend{}
	l := NewLoader(BackendTypeGLTF, withBackend(backend), WithAsset("star", "star.glb"))
	defer l.Close()

	first, err := l.Load("star")
	require.NoError(t, err)
	second, err := l.Load("star")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), backend.calls.Load())

	f := l.LoadAsync("star")
	assert.True(t, f.Ready(), "cached templates resolve immediately")
	m, err := f.Result()
	require.NoError(t, err)
	assert.Same(t, first, m)
	assert.Equal(t, int32(1), backend.calls.Load())
	assert.Same(t, first, l.Get("star"))
}

func TestLoadConcurrentCallsDecodeOnce(t *testing.T) {
	backend := &fakeBackend{release: make(chan struct{})}
	l := NewLoader(BackendTypeGLTF, withBackend(backend), WithAsset("star", "star.glb"))
	defer l.Close()

	var wg sync.WaitGroup
	results := make([]model.Model, 4)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = l.Load("star")
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(backend.release)
	wg.Wait()

	assert.Equal(t, int32(1), backend.calls.Load())
	for _, m := range results {
		assert.Same(t, results[0], m)
	}
}

func TestLoadAsyncReturnsInFlightFuture(t *testing.T) {
	backend := &fakeBackend{release: make(chan struct{})}
	l := NewLoader(BackendTypeGLTF, withBackend(backend), WithAsset("heart", "heart.glb"))
	defer l.Close()

	f1 := l.LoadAsync("heart")
	f2 := l.LoadAsync("heart")
	assert.Same(t, f1, f2)
	assert.False(t, f1.Ready())

	close(backend.release)
	m, err := await(t, f1)
	require.NoError(t, err)
	assert.Equal(t, "heart", m.Name())
	assert.Equal(t, int32(1), backend.calls.Load())
}

func TestLoadAsyncFailureAndPanic(t *testing.T) {
	backend := &fakeBackend{err: errors.New("corrupt file")}
	l := NewLoader(BackendTypeGLTF, withBackend(backend), WithAsset("usagi", "usagi.glb"))
	defer l.Close()

	_, err := await(t, l.LoadAsync("usagi"))
	var ae *AssetLoadError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "usagi", ae.Name)
	assert.Nil(t, l.Get("usagi"))

	panicky := NewLoader(BackendTypeGLTF, withBackend(&fakeBackend{panics: true}), WithAsset("star", "star.glb"))
	defer panicky.Close()

	_, err = await(t, panicky.LoadAsync("star"))
	require.ErrorAs(t, err, &ae)
	assert.Contains(t, err.Error(), "decoder exploded")
}

func TestClosedLoaderRejects(t *testing.T) {
	l := NewLoader(BackendTypeGLTF, withBackend(&fakeBackend{}), WithAsset("star", "star.glb"))
	l.Close()
	l.Close()

	_, err := await(t, l.LoadAsync("star"))
	assert.ErrorIs(t, err, ErrLoaderClosed)
	_, err = l.Load("star")
	assert.ErrorIs(t, err, ErrLoaderClosed)
}

func TestLoadTexture(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	img.Set(3, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	path := writeFile(t, "alphaMap.png", buf.String())

	l := NewLoader(BackendTypeGLTF)
	defer l.Close()

	tex, err := l.LoadTexture(path)
	require.NoError(t, err)
	assert.Equal(t, uint32(4), tex.Width)
	assert.Equal(t, uint32(2), tex.Height)
	assert.Len(t, tex.Pixels, 4*2*4)

	_, err = l.LoadTexture(filepath.Join(t.TempDir(), "missing.png"))
	var ae *AssetLoadError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "missing.png", ae.Name)
}

func TestLoadTextureOrWhite(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	path := writeFile(t, "ramp.png", buf.String())

	l := NewLoader(BackendTypeGLTF)
	defer l.Close()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	tex := LoadTextureOrWhite(l, path, logger)
	assert.Equal(t, uint32(2), tex.Width)
	assert.Empty(t, logs.String())

	assert.Equal(t, common.WhiteTexture(), LoadTextureOrWhite(l, "", logger))
	assert.Empty(t, logs.String(), "no texture configured is not a failure")

	broken := writeFile(t, "broken.png", "not a png")
	assert.Equal(t, common.WhiteTexture(), LoadTextureOrWhite(l, broken, logger))
	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "broken.png")
}

func TestSmoothNormalsDegenerate(t *testing.T) {
	normals := smoothNormals([]mgl32.Vec3{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}}, []uint32{0, 1, 2})
	for _, n := range normals {
		assert.Equal(t, mgl32.Vec3{0, 1, 0}, n)
	}
	assert.False(t, math.IsNaN(float64(normals[0].X())))
}

func TestSplitGLBErrors(t *testing.T) {
	valid := buildGLB(triangleJSON("", ""), triangleBuffer())

	badMagic := append([]byte(nil), valid...)
	badMagic[0] = 'x'

	truncated := append([]byte(nil), valid[:len(valid)-8]...)
	binary.LittleEndian.PutUint32(truncated[8:], uint32(len(valid)))

	cases := map[string]struct {
		data []byte
		want error
	}{
		"too small":       {data: valid[:8], want: errGLBTooSmall},
		"bad magic":       {data: badMagic, want: errInvalidGLBMagic},
		"chunk overflows": {data: truncated, want: errGLBChunkBounds},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := splitGLB(tc.data)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestStridedAccessor(t *testing.T) {
	// Two vec3 positions interleaved with a 4-byte pad each.
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, []float32{1, 2, 3, 0, 4, 5, 6, 0})
	f := &gltfFile{doc: gltfDocument{
		Accessors:   []gltfAccessor{{BufferView: ptr(0), ComponentType: componentFloat, Count: 2, Type: "VEC3"}},
		BufferViews: []gltfBufferView{{Buffer: 0, ByteLength: 32, ByteStride: ptr(16)}},
		Buffers:     []gltfBuffer{{ByteLength: 32, data: buf.Bytes()}},
	}}

	got, err := f.readVec3(0)
	require.NoError(t, err)
	assert.Equal(t, []mgl32.Vec3{{1, 2, 3}, {4, 5, 6}}, got)

	f.doc.Accessors[0].Count = 3
	_, err = f.readVec3(0)
	assert.ErrorIs(t, err, errAccessorBounds)
}

func ptr(v int) *int {
	return &v
}
