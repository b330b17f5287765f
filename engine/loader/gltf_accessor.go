package loader

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

var errAccessorBounds = errors.New("accessor reads past the end of its buffer")

// accessorView is a strided window over the elements of one accessor.
type accessorView struct {
	data   []byte
	offset int
	stride int
	size   int
	count  int
}

func (v accessorView) element(i int) []byte {
	start := v.offset + i*v.stride
	return v.data[start : start+v.size]
}

// view resolves an accessor through its buffer view and checks that every element fits the buffer.
func (f *gltfFile) view(index int) (gltfAccessor, accessorView, error) {
	doc := &f.doc
	if index < 0 || index >= len(doc.Accessors) {
		return gltfAccessor{}, accessorView{}, fmt.Errorf("accessor %d out of range", index)
	}
	acc := doc.Accessors[index]
	if acc.Sparse != nil {
		return acc, accessorView{}, fmt.Errorf("accessor %d is sparse, which is not supported", index)
	}
	if acc.BufferView == nil || *acc.BufferView < 0 || *acc.BufferView >= len(doc.BufferViews) {
		return acc, accessorView{}, fmt.Errorf("accessor %d has no valid bufferView", index)
	}
	bv := doc.BufferViews[*acc.BufferView]
	if bv.Buffer < 0 || bv.Buffer >= len(doc.Buffers) {
		return acc, accessorView{}, fmt.Errorf("bufferView %d points at missing buffer %d", *acc.BufferView, bv.Buffer)
	}

	size := componentSize(acc.ComponentType) * componentCount(acc.Type)
	if size == 0 {
		return acc, accessorView{}, fmt.Errorf("accessor %d has unsupported layout %s/%d", index, acc.Type, acc.ComponentType)
	}
	v := accessorView{
		data:   doc.Buffers[bv.Buffer].data,
		offset: bv.ByteOffset + acc.ByteOffset,
		stride: size,
		size:   size,
		count:  acc.Count,
	}
	if bv.ByteStride != nil && *bv.ByteStride > 0 {
		v.stride = *bv.ByteStride
	}
	if v.count > 0 && v.offset+(v.count-1)*v.stride+v.size > len(v.data) {
		return acc, accessorView{}, errAccessorBounds
	}
	return acc, v, nil
}

// readVec3 reads a VEC3 float accessor.
func (f *gltfFile) readVec3(index int) ([]mgl32.Vec3, error) {
	acc, v, err := f.view(index)
	if err != nil {
		return nil, err
	}
	if acc.Type != "VEC3" || acc.ComponentType != componentFloat {
		return nil, fmt.Errorf("accessor %d is %s/%d, want VEC3 float", index, acc.Type, acc.ComponentType)
	}

	out := make([]mgl32.Vec3, v.count)
	for i := range out {
		e := v.element(i)
		for c := range 3 {
			out[i][c] = math.Float32frombits(binary.LittleEndian.Uint32(e[c*4:]))
		}
	}
	return out, nil
}

// readIndices reads a SCALAR accessor of unsigned bytes, shorts or ints, widening to uint32.
func (f *gltfFile) readIndices(index int) ([]uint32, error) {
	acc, v, err := f.view(index)
	if err != nil {
		return nil, err
	}
	if acc.Type != "SCALAR" {
		return nil, fmt.Errorf("index accessor %d is %s, want SCALAR", index, acc.Type)
	}

	out := make([]uint32, v.count)
	for i := range out {
		e := v.element(i)
		switch acc.ComponentType {
		case componentUnsignedByte:
			out[i] = uint32(e[0])
		case componentUnsignedShort:
			out[i] = uint32(binary.LittleEndian.Uint16(e))
		case componentUnsignedInt:
			out[i] = binary.LittleEndian.Uint32(e)
		default:
			return nil, fmt.Errorf("index accessor %d has unsupported component type %d", index, acc.ComponentType)
		}
	}
	return out, nil
}

func componentSize(componentType int) int {
	switch componentType {
	case 5120, componentUnsignedByte:
		return 1
	case 5122, componentUnsignedShort:
		return 2
	case componentUnsignedInt, componentFloat:
		return 4
	}
	return 0
}

func componentCount(accessorType string) int {
	switch accessorType {
	case "SCALAR":
		return 1
	case "VEC2":
		return 2
	case "VEC3":
		return 3
	case "VEC4":
		return 4
	case "MAT4":
		return 16
	}
	return 0
}
