package loader

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var (
	errInvalidGLTFVersion = errors.New("invalid glTF version: must be 2.x")
	errDracoUnsupported   = errors.New("draco-compressed geometry is not supported")
	errGLBTooSmall        = errors.New("GLB container is shorter than its header")
	errInvalidGLBMagic    = errors.New("invalid GLB magic number")
	errInvalidGLBVersion  = errors.New("invalid GLB version: must be 2")
	errGLBChunkBounds     = errors.New("GLB chunk runs past the end of the container")
	errMissingJSONChunk   = errors.New("GLB container has no JSON chunk")
	errInvalidBufferURI   = errors.New("invalid buffer URI")
	errBufferSizeMismatch = errors.New("buffer is shorter than its declared byteLength")
)

// gltfFile is a decoded document whose buffers are loaded into memory.
type gltfFile struct {
	doc     gltfDocument
	baseDir string
}

func hasGLBMagic(data []byte) bool {
	return len(data) >= 4 && binary.LittleEndian.Uint32(data) == glbMagic
}

// decodeGLTF decodes a .gltf JSON document or a GLB container and loads every buffer it references.
//
// Parameters:
//   - data: the file contents
//   - isGLB: whether data is a GLB container
//   - baseDir: the directory external buffer URIs are relative to
//
// Returns:
//   - *gltfFile: the decoded file
//   - error: a parse, version, extension or buffer error
func decodeGLTF(data []byte, isGLB bool, baseDir string) (*gltfFile, error) {
	jsonChunk, bin := data, []byte(nil)
	if isGLB {
		var err error
		if jsonChunk, bin, err = splitGLB(data); err != nil {
			return nil, err
		}
	}

	f := &gltfFile{baseDir: baseDir}
	if err := json.Unmarshal(jsonChunk, &f.doc); err != nil {
		return nil, fmt.Errorf("failed to parse glTF JSON: %w", err)
	}
	if !strings.HasPrefix(f.doc.Asset.Version, "2.") {
		return nil, errInvalidGLTFVersion
	}
	if slices.Contains(f.doc.ExtensionsRequired, extensionDraco) {
		return nil, errDracoUnsupported
	}
	if err := f.resolveBuffers(bin); err != nil {
		return nil, err
	}
	return f, nil
}

// splitGLB returns the first JSON and BIN chunks of a GLB container. Other chunk types are skipped.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#glb-file-format-specification
func splitGLB(data []byte) (jsonChunk, bin []byte, err error) {
	if len(data) < glbHeaderSize {
		return nil, nil, errGLBTooSmall
	}
	le := binary.LittleEndian
	if le.Uint32(data[0:]) != glbMagic {
		return nil, nil, errInvalidGLBMagic
	}
	if le.Uint32(data[4:]) != glbVersion {
		return nil, nil, errInvalidGLBVersion
	}

	end := min(int(le.Uint32(data[8:])), len(data))
	for off := glbHeaderSize; off+glbChunkHeaderSize <= end; {
		length := int(le.Uint32(data[off:]))
		kind := le.Uint32(data[off+4:])
		start := off + glbChunkHeaderSize
		if start+length > end {
			return nil, nil, errGLBChunkBounds
		}

		chunk := data[start : start+length]
		switch {
		case kind == glbChunkJSON && jsonChunk == nil:
			jsonChunk = chunk
		case kind == glbChunkBIN && bin == nil:
			bin = chunk
		}
		off = start + length
	}

	if jsonChunk == nil {
		return nil, nil, errMissingJSONChunk
	}
	return jsonChunk, bin, nil
}

// resolveBuffers loads each buffer from the GLB binary chunk, a data URI or a file next to the document.
func (f *gltfFile) resolveBuffers(bin []byte) error {
	for i := range f.doc.Buffers {
		buf := &f.doc.Buffers[i]

		switch {
		case buf.URI == "" && i == 0 && bin != nil:
			buf.data = bin
		case buf.URI == "":
			return fmt.Errorf("buffer %d has no uri and there is no GLB binary chunk", i)
		case strings.HasPrefix(buf.URI, "data:"):
			data, err := decodeDataURI(buf.URI)
			if err != nil {
				return fmt.Errorf("buffer %d: %w", i, err)
			}
			buf.data = data
		default:
			rel, err := url.PathUnescape(buf.URI)
			if err != nil {
				return fmt.Errorf("buffer %d: %w: %v", i, errInvalidBufferURI, err)
			}
			data, err := os.ReadFile(filepath.Join(f.baseDir, filepath.FromSlash(rel)))
			if err != nil {
				return fmt.Errorf("buffer %d: %w", i, err)
			}
			buf.data = data
		}

		if len(buf.data) < buf.ByteLength {
			return fmt.Errorf("buffer %d holds %d of %d bytes: %w", i, len(buf.data), buf.ByteLength, errBufferSizeMismatch)
		}
	}
	return nil
}

// decodeDataURI decodes data:[<mediatype>];base64,<payload>. Percent-encoded payloads are rejected.
func decodeDataURI(uri string) ([]byte, error) {
	header, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return nil, errInvalidBufferURI
	}
	if !strings.HasSuffix(header, ";base64") {
		return nil, fmt.Errorf("%w: only base64 data URIs are supported", errInvalidBufferURI)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidBufferURI, err)
	}
	return data, nil
}
