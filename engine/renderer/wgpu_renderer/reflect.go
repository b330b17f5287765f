package wgpu_renderer

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// typeLayout holds the byte size and alignment of a WGSL type.
type typeLayout struct {
	size  uint64
	align uint64
}

// structField is a single member of a WGSL struct.
type structField struct {
	name      string
	typeName  string
	isBuiltin bool
}

// wgslStruct is a struct block found in WGSL source.
type wgslStruct struct {
	name   string
	fields []structField
}

// primitiveLayouts maps the WGSL scalar, vector and matrix types the billboard shader can bind
// to their size and alignment.
//
// Reference: https://www.w3.org/TR/WGSL/#alignment-and-size
var primitiveLayouts = map[string]typeLayout{
	"f32":         {4, 4},
	"i32":         {4, 4},
	"u32":         {4, 4},
	"vec2<f32>":   {8, 8},
	"vec2f":       {8, 8},
	"vec3<f32>":   {12, 16},
	"vec3f":       {12, 16},
	"vec4<f32>":   {16, 16},
	"vec4f":       {16, 16},
	"vec2<u32>":   {8, 8},
	"vec4<u32>":   {16, 16},
	"mat4x4<f32>": {64, 16},
	"mat4x4f":     {64, 16},
}

var (
	structBlockRegex = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)
	builtinRegex     = regexp.MustCompile(`@builtin\(\w+\)`)
	fieldRegex       = regexp.MustCompile(`(?:@\w+\([^)]*\)\s*)*(\w+)\s*:\s*(.+)`)

	vertexEntryRegex   = regexp.MustCompile(`(?s)@vertex\b.*?\bfn\s+(\w+)`)
	fragmentEntryRegex = regexp.MustCompile(`(?s)@fragment\b.*?\bfn\s+(\w+)`)

	// bindingDeclRegex captures group, binding, address space, name and type from declarations like
	// @group(0) @binding(1) var<storage, read> instances: array<BillboardInstance>;
	bindingDeclRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
)

// shaderReflection is what the renderer needs to know about a WGSL module before building a pipeline.
type shaderReflection struct {
	vertexEntry   string
	fragmentEntry string

	// layouts holds one bind group layout descriptor per group index, entries sorted by binding.
	layouts map[int]wgpu.BindGroupLayoutDescriptor

	// names maps group and binding to the declared variable name.
	names map[int]map[int]string
}

// reflectShader parses the entry points and resource bindings of a WGSL module. Every binding is
// made visible to both the vertex and fragment stages.
//
// Parameters:
//   - source: the WGSL source
//
// Returns:
//   - shaderReflection: the parsed entry points and bind group layouts
func reflectShader(source string) shaderReflection {
	cleaned := stripComments(source)
	r := shaderReflection{
		vertexEntry:   findEntryPoint(cleaned, vertexEntryRegex),
		fragmentEntry: findEntryPoint(cleaned, fragmentEntryRegex),
		names:         make(map[int]map[int]string),
	}

	sizes := computeStructSizes(parseStructBlocks(cleaned))
	groups := make(map[int][]wgpu.BindGroupLayoutEntry)

	for _, match := range bindingDeclRegex.FindAllStringSubmatch(cleaned, -1) {
		group, _ := strconv.Atoi(match[1])
		binding, _ := strconv.Atoi(match[2])
		addressSpace := strings.TrimSpace(match[3])
		name := strings.TrimSpace(match[4])
		typeName := strings.TrimSpace(match[5])

		entry := classifyResource(uint32(binding), wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, addressSpace, typeName)
		if entry.Buffer.Type != wgpu.BufferBindingTypeUndefined {
			if layout, ok := resolveTypeLayout(typeName, sizes); ok {
				entry.Buffer.MinBindingSize = layout.size
			}
		}
		groups[group] = append(groups[group], entry)

		if r.names[group] == nil {
			r.names[group] = make(map[int]string)
		}
		r.names[group][binding] = name
	}

	r.layouts = make(map[int]wgpu.BindGroupLayoutDescriptor, len(groups))
	for g, entries := range groups {
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Binding < entries[j].Binding
		})
		r.layouts[g] = wgpu.BindGroupLayoutDescriptor{Entries: entries}
	}
	return r
}

// binding returns the binding index of a named variable in a group, or -1 if it is not declared.
func (r shaderReflection) binding(group int, name string) int {
	for b, n := range r.names[group] {
		if n == name {
			return b
		}
	}
	return -1
}

// classifyResource builds a layout entry from a WGSL resource declaration. Declarations with an
// address space are buffers; the rest are textures or samplers.
//
// Parameters:
//   - binding: the binding index
//   - visibility: the shader stages that see the resource
//   - addressSpace: the var<...> qualifier, empty for handle types
//   - typeName: the declared WGSL type
//
// Returns:
//   - wgpu.BindGroupLayoutEntry: the populated layout entry
func classifyResource(binding uint32, visibility wgpu.ShaderStage, addressSpace, typeName string) wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: visibility,
	}

	if addressSpace != "" {
		switch {
		case addressSpace == "uniform":
			entry.Buffer.Type = wgpu.BufferBindingTypeUniform
		case strings.HasPrefix(addressSpace, "storage"):
			if strings.Contains(addressSpace, "read_write") {
				entry.Buffer.Type = wgpu.BufferBindingTypeStorage
			} else {
				entry.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
			}
		}
		return entry
	}

	switch {
	case typeName == "sampler":
		entry.Sampler.Type = wgpu.SamplerBindingTypeFiltering
	case typeName == "texture_2d<f32>":
		entry.Texture.SampleType = wgpu.TextureSampleTypeFloat
		entry.Texture.ViewDimension = wgpu.TextureViewDimension2D
	}
	return entry
}

// resolveTypeLayout resolves a type against the primitives and the known structs. A runtime sized
// array resolves to the stride of one element.
func resolveTypeLayout(typeName string, known map[string]typeLayout) (typeLayout, bool) {
	if layout, ok := primitiveLayouts[typeName]; ok {
		return layout, true
	}
	if layout, ok := known[typeName]; ok {
		return layout, true
	}

	if strings.HasPrefix(typeName, "array<") && strings.HasSuffix(typeName, ">") {
		inner := typeName[6 : len(typeName)-1]
		parts := strings.SplitN(inner, ",", 2)
		elem, ok := resolveTypeLayout(strings.TrimSpace(parts[0]), known)
		if !ok {
			return typeLayout{}, false
		}
		stride := roundUpAlign(elem.align, elem.size)
		if len(parts) == 2 {
			count, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 64)
			if err != nil {
				return typeLayout{}, false
			}
			return typeLayout{count * stride, elem.align}, true
		}
		return typeLayout{stride, elem.align}, true
	}

	return typeLayout{}, false
}

// computeStructSizes lays out every struct, resolving structs that nest other structs over as many
// passes as it takes.
func computeStructSizes(structs []wgslStruct) map[string]typeLayout {
	resolved := make(map[string]typeLayout, len(structs))
	remaining := append([]wgslStruct(nil), structs...)

	for len(remaining) > 0 {
		progress := false
		next := remaining[:0]
		for _, s := range remaining {
			if layout, ok := computeStructLayout(s, resolved); ok {
				resolved[s.name] = layout
				progress = true
			} else {
				next = append(next, s)
			}
		}
		remaining = next
		if !progress {
			break
		}
	}
	return resolved
}

// computeStructLayout places each field at its next aligned offset and rounds the total up to the
// largest field alignment. Builtin fields are not part of any buffer and are skipped.
func computeStructLayout(s wgslStruct, known map[string]typeLayout) (typeLayout, bool) {
	offset := uint64(0)
	maxAlign := uint64(1)

	for _, f := range s.fields {
		if f.isBuiltin {
			continue
		}
		layout, ok := resolveTypeLayout(f.typeName, known)
		if !ok {
			return typeLayout{}, false
		}
		offset = roundUpAlign(layout.align, offset) + layout.size
		maxAlign = max(maxAlign, layout.align)
	}

	return typeLayout{roundUpAlign(maxAlign, offset), maxAlign}, true
}

func parseStructBlocks(source string) []wgslStruct {
	matches := structBlockRegex.FindAllStringSubmatch(source, -1)
	structs := make([]wgslStruct, 0, len(matches))
	for _, m := range matches {
		structs = append(structs, wgslStruct{name: m[1], fields: parseStructFields(m[2])})
	}
	return structs
}

func parseStructFields(body string) []structField {
	var fields []structField
	for _, line := range splitAtTopLevelCommas(body) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fm := fieldRegex.FindStringSubmatch(line)
		if fm == nil {
			continue
		}
		fields = append(fields, structField{
			name:      fm[1],
			typeName:  strings.TrimSpace(fm[2]),
			isBuiltin: builtinRegex.MatchString(line),
		})
	}
	return fields
}

// splitAtTopLevelCommas splits at commas outside angle brackets so array<T, N> stays whole.
func splitAtTopLevelCommas(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

func findEntryPoint(source string, re *regexp.Regexp) string {
	if m := re.FindStringSubmatch(source); m != nil {
		return m[1]
	}
	return ""
}

func roundUpAlign(alignment, value uint64) uint64 {
	if alignment == 0 {
		return value
	}
	return (value + alignment - 1) &^ (alignment - 1)
}

// stripComments removes line comments and nested block comments.
func stripComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	depth := 0
	for i := 0; i < len(source); i++ {
		if i+1 < len(source) {
			switch {
			case source[i] == '/' && source[i+1] == '*':
				depth++
				i++
				continue
			case source[i] == '*' && source[i+1] == '/' && depth > 0:
				depth--
				i++
				continue
			case depth == 0 && source[i] == '/' && source[i+1] == '/':
				for i < len(source) && source[i] != '\n' {
					i++
				}
				if i < len(source) {
					sb.WriteByte('\n')
				}
				continue
			}
		}
		if depth == 0 {
			sb.WriteByte(source[i])
		}
	}
	return sb.String()
}
