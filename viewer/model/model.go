package model

import (
	"sync"

	"github.com/maximus-cyber109/ddt-3d/common"
)

// Vertex is the GPU vertex layout shared by every loader backend and the
// render pipeline: position, normal, and an RGBA base color.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	Color    [4]float32
}

// modelImpl is the implementation of the Model interface.
type modelImpl struct {
	mu *sync.RWMutex

	name     string
	vertices []Vertex
	indices  []uint32
	bounds   common.Box3

	position [3]float32
	rotation [3]float32
	scale    [3]float32
}

// Model is a loaded 3D asset: immutable mesh data produced by a loader
// backend plus a mutable transform. The stage normalizes the transform once
// at load completion; the renderer reads it every frame.
type Model interface {
	// Name returns the asset identifier (usually the source path).
	//
	// Returns:
	//   - string: the model name
	Name() string

	// VertexCount returns the number of vertices in the mesh.
	//
	// Returns:
	//   - int: the vertex count
	VertexCount() int

	// IndexCount returns the number of indices in the mesh.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// VertexData returns the raw vertex bytes for GPU upload.
	//
	// Returns:
	//   - []byte: the vertex data
	VertexData() []byte

	// IndexData returns the raw index bytes for GPU upload.
	//
	// Returns:
	//   - []byte: the index data
	IndexData() []byte

	// Bounds returns the axis-aligned bounding box of the raw mesh, computed
	// before any transform is applied.
	//
	// Returns:
	//   - common.Box3: the mesh bounding box
	Bounds() common.Box3

	// Transform returns the model's current position, rotation, and scale.
	//
	// Returns:
	//   - position, rotation, scale: the transform components
	Transform() (position, rotation, scale [3]float32)

	// SetPosition sets the model's translation. The renderer applies it in
	// model-local space, before rotation and scale, so a position of
	// -boundingBoxCenter centers the mesh exactly at the origin.
	//
	// Parameters:
	//   - x, y, z: translation components
	SetPosition(x, y, z float32)

	// SetRotation sets the model's Euler rotation in radians.
	//
	// Parameters:
	//   - rx, ry, rz: rotation angles around each axis
	SetRotation(rx, ry, rz float32)

	// Rotation returns the model's current Euler rotation in radians.
	//
	// Returns:
	//   - rx, ry, rz: rotation angles around each axis
	Rotation() (rx, ry, rz float32)

	// SetUniformScale sets the same scale factor on all three axes.
	//
	// Parameters:
	//   - s: the uniform scale factor
	SetUniformScale(s float32)
}

var _ Model = &modelImpl{}

// NewModel creates a Model with an identity transform. The bounding box is
// computed from the supplied vertices unless WithBounds overrides it.
//
// Parameters:
//   - options: functional options to configure the model
//
// Returns:
//   - Model: the newly created model
func NewModel(options ...ModelOption) Model {
	m := &modelImpl{
		mu:    &sync.RWMutex{},
		scale: [3]float32{1, 1, 1},
	}

	for _, option := range options {
		option(m)
	}

	if m.bounds.Empty() {
		m.bounds = computeBounds(m.vertices)
	}
	return m
}

// computeBounds derives the axis-aligned bounding box of a vertex set.
func computeBounds(vertices []Vertex) common.Box3 {
	box := common.NewBox3()
	for i := range vertices {
		box = box.ExpandByPoint(common.Vec3{
			X: vertices[i].Position[0],
			Y: vertices[i].Position[1],
			Z: vertices[i].Position[2],
		})
	}
	return box
}

func (m *modelImpl) Name() string {
	return m.name
}

func (m *modelImpl) VertexCount() int {
	return len(m.vertices)
}

func (m *modelImpl) IndexCount() int {
	return len(m.indices)
}

func (m *modelImpl) VertexData() []byte {
	return common.SliceToBytes(m.vertices)
}

func (m *modelImpl) IndexData() []byte {
	return common.SliceToBytes(m.indices)
}

func (m *modelImpl) Bounds() common.Box3 {
	return m.bounds
}

func (m *modelImpl) Transform() (position, rotation, scale [3]float32) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.position, m.rotation, m.scale
}

func (m *modelImpl) SetPosition(x, y, z float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = [3]float32{x, y, z}
}

func (m *modelImpl) SetRotation(rx, ry, rz float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rotation = [3]float32{rx, ry, rz}
}

func (m *modelImpl) Rotation() (rx, ry, rz float32) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rotation[0], m.rotation[1], m.rotation[2]
}

func (m *modelImpl) SetUniformScale(s float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scale = [3]float32{s, s, s}
}
