package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/maximus-cyber109/ddt-3d/viewer/model"
)

// Common errors returned by the glTF parser
var (
	errInvalidGLTFVersion = errors.New("invalid glTF version: must be 2.0")
	errInvalidGLBMagic    = errors.New("invalid GLB magic number")
	errInvalidGLBVersion  = errors.New("invalid GLB version: must be 2")
	errMissingJSONChunk   = errors.New("GLB file missing JSON chunk")
	errInvalidBufferURI   = errors.New("invalid buffer URI")
	errNoMeshes           = errors.New("glTF document contains no meshes")
)

// GLB container constants.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#glb-file-format-specification
const (
	glbMagic     = 0x46546C67 // "glTF"
	glbVersion   = 2
	glbChunkJSON = 0x4E4F534A // "JSON"
	glbChunkBIN  = 0x004E4942 // "BIN\0"
)

// glTF accessor component types
const (
	gltfComponentTypeUnsignedByte  = 5121
	gltfComponentTypeUnsignedShort = 5123
	gltfComponentTypeUnsignedInt   = 5125
	gltfComponentTypeFloat         = 5126
)

// glTF accessor types
const (
	gltfAccessorTypeScalar = "SCALAR"
	gltfAccessorTypeVec3   = "VEC3"
	gltfAccessorTypeVec4   = "VEC4"
)

// gltfDocument is the subset of the glTF 2.0 JSON schema this backend reads:
// enough to extract static triangle meshes with normals and base colors.
type gltfDocument struct {
	Asset struct {
		Version string `json:"version"`
	} `json:"asset"`
	Buffers     []gltfBuffer     `json:"buffers"`
	BufferViews []gltfBufferView `json:"bufferViews"`
	Accessors   []gltfAccessor   `json:"accessors"`
	Meshes      []gltfMesh       `json:"meshes"`
	Materials   []gltfMaterial   `json:"materials"`
}

type gltfBuffer struct {
	URI        string `json:"uri"`
	ByteLength int    `json:"byteLength"`

	Data []byte `json:"-"`
}

type gltfBufferView struct {
	Buffer     int  `json:"buffer"`
	ByteOffset int  `json:"byteOffset"`
	ByteLength int  `json:"byteLength"`
	ByteStride *int `json:"byteStride"`
}

type gltfAccessor struct {
	BufferView    *int   `json:"bufferView"`
	ByteOffset    int    `json:"byteOffset"`
	ComponentType int    `json:"componentType"`
	Count         int    `json:"count"`
	Type          string `json:"type"`
}

type gltfMesh struct {
	Name       string          `json:"name"`
	Primitives []gltfPrimitive `json:"primitives"`
}

type gltfPrimitive struct {
	Attributes map[string]int `json:"attributes"`
	Indices    *int           `json:"indices"`
	Material   *int           `json:"material"`
}

type gltfMaterial struct {
	PBRMetallicRoughness struct {
		BaseColorFactor *[4]float32 `json:"baseColorFactor"`
	} `json:"pbrMetallicRoughness"`
}

// gltfLoaderBackendImpl is the implementation of gltfLoaderBackend.
type gltfLoaderBackendImpl struct{}

// gltfLoaderBackend is a loaderBackend implementation for glTF/GLB files.
// It reads POSITION, NORMAL, and index accessors from every primitive of
// every mesh and flattens them into a single vertex/index stream; the
// material base color factor becomes the vertex color.
type gltfLoaderBackend interface {
	loaderBackend
}

var _ gltfLoaderBackend = &gltfLoaderBackendImpl{}

// newGLTFLoaderBackend creates a new glTF loader backend.
//
// Returns:
//   - gltfLoaderBackend: the loader backend for glTF/GLB files
func newGLTFLoaderBackend() gltfLoaderBackend {
	return &gltfLoaderBackendImpl{}
}

func (b *gltfLoaderBackendImpl) Load(path string, progress ProgressFunc) (*importedMesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	total := int64(-1)
	if info, statErr := f.Stat(); statErr == nil {
		total = info.Size()
	}

	data, err := io.ReadAll(newProgressReader(f, total, progress))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	isGLB := strings.ToLower(filepath.Ext(path)) == ".glb" ||
		(len(data) >= 4 && binary.LittleEndian.Uint32(data[:4]) == glbMagic)

	doc, err := b.parseDocument(data, isGLB, filepath.Dir(path))
	if err != nil {
		return nil, err
	}

	mesh, err := b.extractMesh(doc)
	if err != nil {
		return nil, err
	}
	mesh.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return mesh, nil
}

func (b *gltfLoaderBackendImpl) LoadReader(r io.Reader, progress ProgressFunc) (*importedMesh, error) {
	data, err := io.ReadAll(newProgressReader(r, -1, progress))
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}

	isGLB := len(data) >= 4 && binary.LittleEndian.Uint32(data[:4]) == glbMagic
	doc, err := b.parseDocument(data, isGLB, "")
	if err != nil {
		return nil, err
	}
	return b.extractMesh(doc)
}

// parseDocument decodes either a GLB container or plain glTF JSON and loads
// all referenced buffers.
func (b *gltfLoaderBackendImpl) parseDocument(data []byte, isGLB bool, baseDir string) (*gltfDocument, error) {
	var jsonData []byte
	var binChunk []byte

	if isGLB {
		var err error
		jsonData, binChunk, err = parseGLBContainer(data)
		if err != nil {
			return nil, err
		}
	} else {
		jsonData = data
	}

	var doc gltfDocument
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse glTF JSON: %w", err)
	}
	if !strings.HasPrefix(doc.Asset.Version, "2.") {
		return nil, errInvalidGLTFVersion
	}

	if err := loadGLTFBuffers(&doc, binChunk, baseDir); err != nil {
		return nil, fmt.Errorf("failed to load buffers: %w", err)
	}
	return &doc, nil
}

// parseGLBContainer splits a GLB byte stream into its JSON and BIN chunks.
func parseGLBContainer(data []byte) (jsonChunk, binChunk []byte, err error) {
	if len(data) < 12 {
		return nil, nil, errors.New("GLB file too small")
	}

	r := bytes.NewReader(data)

	var header struct {
		Magic   uint32
		Version uint32
		Length  uint32
	}
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, nil, fmt.Errorf("failed to read GLB header: %w", err)
	}
	if header.Magic != glbMagic {
		return nil, nil, errInvalidGLBMagic
	}
	if header.Version != glbVersion {
		return nil, nil, errInvalidGLBVersion
	}

	for {
		var chunkHeader struct {
			ChunkLength uint32
			ChunkType   uint32
		}
		if err := binary.Read(r, binary.LittleEndian, &chunkHeader); err != nil {
			if err == io.EOF {
				break
			}
			return nil, nil, fmt.Errorf("failed to read chunk header: %w", err)
		}

		chunkData := make([]byte, chunkHeader.ChunkLength)
		if _, err := io.ReadFull(r, chunkData); err != nil {
			return nil, nil, fmt.Errorf("failed to read chunk data: %w", err)
		}

		switch chunkHeader.ChunkType {
		case glbChunkJSON:
			jsonChunk = chunkData
		case glbChunkBIN:
			binChunk = chunkData
		}
	}

	if jsonChunk == nil {
		return nil, nil, errMissingJSONChunk
	}
	return jsonChunk, binChunk, nil
}

// loadGLTFBuffers loads all buffer data (from URIs, embedded data, or the GLB binary chunk).
func loadGLTFBuffers(doc *gltfDocument, binChunk []byte, baseDir string) error {
	for i := range doc.Buffers {
		buf := &doc.Buffers[i]

		if buf.URI == "" {
			if i == 0 && binChunk != nil {
				buf.Data = binChunk
				if len(buf.Data) < buf.ByteLength {
					return fmt.Errorf("buffer %d: size mismatch", i)
				}
				continue
			}
			return fmt.Errorf("buffer %d has no URI and no GLB binary chunk", i)
		}

		data, err := loadGLTFBufferURI(buf.URI, baseDir)
		if err != nil {
			return fmt.Errorf("buffer %d: %w", i, err)
		}
		buf.Data = data

		if len(buf.Data) < buf.ByteLength {
			return fmt.Errorf("buffer %d: size mismatch", i)
		}
	}
	return nil
}

// loadGLTFBufferURI loads buffer data from a data: URI or a file relative to baseDir.
func loadGLTFBufferURI(uri, baseDir string) ([]byte, error) {
	if strings.HasPrefix(uri, "data:") {
		commaIdx := strings.Index(uri, ",")
		if commaIdx < 0 {
			return nil, errInvalidBufferURI
		}
		header := uri[5:commaIdx]
		if !strings.Contains(header, "base64") {
			return nil, fmt.Errorf("unsupported data URI encoding: %s", header)
		}
		data, err := base64.StdEncoding.DecodeString(uri[commaIdx+1:])
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64: %w", err)
		}
		return data, nil
	}

	if baseDir == "" {
		return nil, fmt.Errorf("cannot resolve external buffer %q from a stream", uri)
	}
	data, err := os.ReadFile(filepath.Join(baseDir, uri))
	if err != nil {
		return nil, fmt.Errorf("failed to load buffer file %q: %w", uri, err)
	}
	return data, nil
}

// extractMesh flattens all primitives of all meshes into a single
// vertex/index stream, offsetting indices by the running vertex count.
func (b *gltfLoaderBackendImpl) extractMesh(doc *gltfDocument) (*importedMesh, error) {
	if len(doc.Meshes) == 0 {
		return nil, errNoMeshes
	}

	mesh := &importedMesh{Name: doc.Meshes[0].Name}

	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			posAccessor, ok := prim.Attributes["POSITION"]
			if !ok {
				return nil, fmt.Errorf("mesh %d primitive %d has no POSITION attribute", mi, pi)
			}

			positions, err := readVec3Accessor(doc, posAccessor)
			if err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d positions: %w", mi, pi, err)
			}

			var normals [][3]float32
			if normAccessor, ok := prim.Attributes["NORMAL"]; ok {
				normals, err = readVec3Accessor(doc, normAccessor)
				if err != nil {
					return nil, fmt.Errorf("mesh %d primitive %d normals: %w", mi, pi, err)
				}
			}

			color := [4]float32{1, 1, 1, 1}
			if prim.Material != nil && *prim.Material < len(doc.Materials) {
				if factor := doc.Materials[*prim.Material].PBRMetallicRoughness.BaseColorFactor; factor != nil {
					color = *factor
				}
			}

			base := uint32(len(mesh.Vertices))
			for i, pos := range positions {
				v := model.Vertex{Position: pos, Color: color}
				if i < len(normals) {
					v.Normal = normals[i]
				}
				mesh.Vertices = append(mesh.Vertices, v)
			}

			if prim.Indices != nil {
				indices, err := readIndicesAccessor(doc, *prim.Indices)
				if err != nil {
					return nil, fmt.Errorf("mesh %d primitive %d indices: %w", mi, pi, err)
				}
				for _, idx := range indices {
					mesh.Indices = append(mesh.Indices, base+idx)
				}
			} else {
				// Non-indexed primitive: synthesize sequential indices.
				for i := range positions {
					mesh.Indices = append(mesh.Indices, base+uint32(i))
				}
			}
		}
	}

	return mesh, nil
}

// readAccessorData reads an accessor's raw bytes, honoring bufferView strides.
func readAccessorData(doc *gltfDocument, accessorIndex int) (*gltfAccessor, []byte, error) {
	if accessorIndex < 0 || accessorIndex >= len(doc.Accessors) {
		return nil, nil, fmt.Errorf("accessor index %d out of range", accessorIndex)
	}
	acc := &doc.Accessors[accessorIndex]
	if acc.BufferView == nil {
		return nil, nil, errors.New("accessor has no bufferView")
	}
	if *acc.BufferView < 0 || *acc.BufferView >= len(doc.BufferViews) {
		return nil, nil, fmt.Errorf("bufferView index %d out of range", *acc.BufferView)
	}

	bv := &doc.BufferViews[*acc.BufferView]
	if bv.Buffer < 0 || bv.Buffer >= len(doc.Buffers) {
		return nil, nil, fmt.Errorf("buffer index %d out of range", bv.Buffer)
	}
	buf := &doc.Buffers[bv.Buffer]

	componentSize := gltfComponentTypeSize(acc.ComponentType)
	componentCount := gltfAccessorTypeComponentCount(acc.Type)
	if componentSize == 0 || componentCount == 0 {
		return nil, nil, fmt.Errorf("unsupported accessor: type=%s, componentType=%d", acc.Type, acc.ComponentType)
	}
	elementSize := componentSize * componentCount

	stride := elementSize
	if bv.ByteStride != nil && *bv.ByteStride > 0 {
		stride = *bv.ByteStride
	}

	bufferOffset := bv.ByteOffset + acc.ByteOffset
	if need := bufferOffset + (acc.Count-1)*stride + elementSize; acc.Count > 0 && need > len(buf.Data) {
		return nil, nil, fmt.Errorf("accessor %d overruns buffer (%d > %d bytes)", accessorIndex, need, len(buf.Data))
	}

	result := make([]byte, acc.Count*elementSize)
	for i := 0; i < acc.Count; i++ {
		srcOffset := bufferOffset + i*stride
		copy(result[i*elementSize:(i+1)*elementSize], buf.Data[srcOffset:srcOffset+elementSize])
	}
	return acc, result, nil
}

// readVec3Accessor reads an accessor as vec3 float data.
func readVec3Accessor(doc *gltfDocument, accessorIndex int) ([][3]float32, error) {
	acc, data, err := readAccessorData(doc, accessorIndex)
	if err != nil {
		return nil, err
	}
	if acc.Type != gltfAccessorTypeVec3 || acc.ComponentType != gltfComponentTypeFloat {
		return nil, fmt.Errorf("accessor is not VEC3 FLOAT: type=%s, componentType=%d", acc.Type, acc.ComponentType)
	}

	result := make([][3]float32, acc.Count)
	r := bytes.NewReader(data)
	for i := 0; i < acc.Count; i++ {
		if err := binary.Read(r, binary.LittleEndian, &result[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// readIndicesAccessor reads an accessor as index data, converting
// UNSIGNED_BYTE and UNSIGNED_SHORT components to uint32.
func readIndicesAccessor(doc *gltfDocument, accessorIndex int) ([]uint32, error) {
	acc, data, err := readAccessorData(doc, accessorIndex)
	if err != nil {
		return nil, err
	}
	if acc.Type != gltfAccessorTypeScalar {
		return nil, fmt.Errorf("index accessor is not SCALAR: type=%s", acc.Type)
	}

	result := make([]uint32, acc.Count)
	r := bytes.NewReader(data)

	switch acc.ComponentType {
	case gltfComponentTypeUnsignedByte:
		for i := 0; i < acc.Count; i++ {
			var v uint8
			if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
				return nil, err
			}
			result[i] = uint32(v)
		}
	case gltfComponentTypeUnsignedShort:
		for i := 0; i < acc.Count; i++ {
			var v uint16
			if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
				return nil, err
			}
			result[i] = uint32(v)
		}
	case gltfComponentTypeUnsignedInt:
		if err := binary.Read(r, binary.LittleEndian, &result); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported index component type: %d", acc.ComponentType)
	}
	return result, nil
}

// gltfComponentTypeSize returns the byte size of a component type.
func gltfComponentTypeSize(componentType int) int {
	switch componentType {
	case gltfComponentTypeUnsignedByte:
		return 1
	case gltfComponentTypeUnsignedShort:
		return 2
	case gltfComponentTypeUnsignedInt, gltfComponentTypeFloat:
		return 4
	default:
		return 0
	}
}

// gltfAccessorTypeComponentCount returns the number of components for an accessor type.
func gltfAccessorTypeComponentCount(accessorType string) int {
	switch accessorType {
	case gltfAccessorTypeScalar:
		return 1
	case gltfAccessorTypeVec3:
		return 3
	case gltfAccessorTypeVec4:
		return 4
	default:
		return 0
	}
}
