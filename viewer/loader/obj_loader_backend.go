package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/maximus-cyber109/ddt-3d/viewer/model"
)

// Common errors returned by the OBJ parser
var (
	errOBJNoFaces       = errors.New("OBJ file contains no faces")
	errOBJBadFaceVertex = errors.New("malformed face vertex reference")
)

// objLoaderBackendImpl is the implementation of objLoaderBackend.
type objLoaderBackendImpl struct{}

// objLoaderBackend is a loaderBackend implementation for Wavefront OBJ files.
// Positions, normals, and faces are supported; faces with more than three
// vertices are fan-triangulated. Material libraries (.mtl) referenced via
// mtllib contribute only the diffuse color.
type objLoaderBackend interface {
	loaderBackend
}

var _ objLoaderBackend = &objLoaderBackendImpl{}

// newOBJLoaderBackend creates a new OBJ loader backend.
//
// Returns:
//   - objLoaderBackend: the loader backend for OBJ files
func newOBJLoaderBackend() objLoaderBackend {
	return &objLoaderBackendImpl{}
}

func (b *objLoaderBackendImpl) Load(path string, progress ProgressFunc) (*importedMesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	total := int64(-1)
	if info, statErr := f.Stat(); statErr == nil {
		total = info.Size()
	}

	mesh, err := b.parse(newProgressReader(f, total, progress), filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	mesh.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return mesh, nil
}

func (b *objLoaderBackendImpl) LoadReader(r io.Reader, progress ProgressFunc) (*importedMesh, error) {
	return b.parse(newProgressReader(r, -1, progress), "")
}

// objVertexKey identifies a unique position/normal/material combination so
// shared corners collapse to one vertex.
type objVertexKey struct {
	position int
	normal   int
	material string
}

func (b *objLoaderBackendImpl) parse(r io.Reader, baseDir string) (*importedMesh, error) {
	var positions [][3]float32
	var normals [][3]float32

	materials := make(map[string][4]float32)
	currentMaterial := ""

	mesh := &importedMesh{}
	seen := make(map[objVertexKey]uint32)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			p, err := parseFloat3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: bad vertex: %w", lineNo, err)
			}
			positions = append(positions, p)

		case "vn":
			n, err := parseFloat3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: bad normal: %w", lineNo, err)
			}
			normals = append(normals, n)

		case "mtllib":
			if baseDir == "" || len(fields) < 2 {
				continue
			}
			// A missing material library only costs vertex colors.
			if mats, err := parseMTL(filepath.Join(baseDir, fields[1])); err == nil {
				for name, color := range mats {
					materials[name] = color
				}
			}

		case "usemtl":
			if len(fields) >= 2 {
				currentMaterial = fields[1]
			}

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices", lineNo)
			}
			corners := make([]uint32, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				idx, err := b.resolveVertex(ref, positions, normals, currentMaterial, materials, mesh, seen)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				corners = append(corners, idx)
			}
			// Fan-triangulate polygons.
			for i := 1; i+1 < len(corners); i++ {
				mesh.Indices = append(mesh.Indices, corners[0], corners[i], corners[i+1])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read OBJ data: %w", err)
	}

	if len(mesh.Indices) == 0 {
		return nil, errOBJNoFaces
	}
	return mesh, nil
}

// resolveVertex turns a face vertex reference ("v", "v/vt", "v//vn",
// "v/vt/vn", negative indices allowed) into a mesh vertex index, deduplicating
// repeated combinations.
func (b *objLoaderBackendImpl) resolveVertex(
	ref string,
	positions, normals [][3]float32,
	currentMaterial string,
	materials map[string][4]float32,
	mesh *importedMesh,
	seen map[objVertexKey]uint32,
) (uint32, error) {
	parts := strings.Split(ref, "/")

	posIdx, err := objIndex(parts[0], len(positions))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errOBJBadFaceVertex, ref)
	}

	normIdx := -1
	if len(parts) == 3 && parts[2] != "" {
		normIdx, err = objIndex(parts[2], len(normals))
		if err != nil {
			return 0, fmt.Errorf("%w: %q", errOBJBadFaceVertex, ref)
		}
	}

	key := objVertexKey{position: posIdx, normal: normIdx, material: currentMaterial}
	if idx, ok := seen[key]; ok {
		return idx, nil
	}

	v := model.Vertex{
		Position: positions[posIdx],
		Color:    [4]float32{1, 1, 1, 1},
	}
	if normIdx >= 0 {
		v.Normal = normals[normIdx]
	}
	if color, ok := materials[currentMaterial]; ok {
		v.Color = color
	}

	idx := uint32(len(mesh.Vertices))
	mesh.Vertices = append(mesh.Vertices, v)
	seen[key] = idx
	return idx, nil
}

// objIndex converts a 1-based (or negative, relative) OBJ index into a
// 0-based slice index, validating the range.
func objIndex(s string, count int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		n = count + n
	} else {
		n--
	}
	if n < 0 || n >= count {
		return 0, fmt.Errorf("index %s out of range (%d entries)", s, count)
	}
	return n, nil
}

func parseFloat3(fields []string) ([3]float32, error) {
	var out [3]float32
	if len(fields) < 3 {
		return out, fmt.Errorf("expected 3 components, got %d", len(fields))
	}
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return out, err
		}
		out[i] = float32(f)
	}
	return out, nil
}

// parseMTL extracts diffuse colors (Kd) from a Wavefront material library.
// Everything else in the file is ignored.
func parseMTL(path string) (map[string][4]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	materials := make(map[string][4]float32)
	current := ""

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(strings.TrimSpace(scanner.Text()))
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "newmtl":
			if len(fields) >= 2 {
				current = fields[1]
				materials[current] = [4]float32{1, 1, 1, 1}
			}
		case "Kd":
			if current == "" || len(fields) < 4 {
				continue
			}
			rgb, err := parseFloat3(fields[1:])
			if err != nil {
				continue
			}
			materials[current] = [4]float32{rgb[0], rgb[1], rgb[2], 1}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return materials, nil
}
