package model

import "github.com/maximus-cyber109/ddt-3d/common"

// ModelOption is a functional option for configuring a Model.
type ModelOption func(*modelImpl)

// WithName sets the asset identifier.
//
// Parameters:
//   - name: the model name
//
// Returns:
//   - ModelOption: functional option to set the name
func WithName(name string) ModelOption {
	return func(m *modelImpl) {
		m.name = name
	}
}

// WithVertices sets the mesh vertex data.
//
// Parameters:
//   - vertices: the vertex slice (retained, not copied)
//
// Returns:
//   - ModelOption: functional option to set the vertices
func WithVertices(vertices []Vertex) ModelOption {
	return func(m *modelImpl) {
		m.vertices = vertices
	}
}

// WithIndices sets the mesh triangle indices.
//
// Parameters:
//   - indices: the index slice (retained, not copied)
//
// Returns:
//   - ModelOption: functional option to set the indices
func WithIndices(indices []uint32) ModelOption {
	return func(m *modelImpl) {
		m.indices = indices
	}
}

// WithBounds overrides the computed bounding box. Used when a loader backend
// already derived the bounds during parsing.
//
// Parameters:
//   - bounds: the bounding box to use
//
// Returns:
//   - ModelOption: functional option to set the bounds
func WithBounds(bounds common.Box3) ModelOption {
	return func(m *modelImpl) {
		m.bounds = bounds
	}
}
