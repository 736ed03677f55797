package model

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/maximus-cyber109/ddt-3d/common"
)

func triangleVertices() []Vertex {
	return []Vertex{
		{Position: [3]float32{0, 0, 0}, Normal: [3]float32{0, 0, 1}, Color: [4]float32{1, 1, 1, 1}},
		{Position: [3]float32{2, 0, 0}, Normal: [3]float32{0, 0, 1}, Color: [4]float32{1, 1, 1, 1}},
		{Position: [3]float32{0, 4, 6}, Normal: [3]float32{0, 0, 1}, Color: [4]float32{1, 1, 1, 1}},
	}
}

func TestNewModelComputesBoundsFromVertices(t *testing.T) {
	m := NewModel(
		WithName("tri"),
		WithVertices(triangleVertices()),
		WithIndices([]uint32{0, 1, 2}),
	)

	assert.Equal(t, "tri", m.Name())
	assert.Equal(t, 3, m.VertexCount())
	assert.Equal(t, 3, m.IndexCount())

	bounds := m.Bounds()
	assert.Equal(t, common.Vec3{X: 0, Y: 0, Z: 0}, bounds.Min)
	assert.Equal(t, common.Vec3{X: 2, Y: 4, Z: 6}, bounds.Max)
	assert.Equal(t, float32(6), bounds.MaxDimension())
}

func TestWithBoundsOverridesComputedBounds(t *testing.T) {
	override := common.Box3{
		Min: common.Vec3{X: -5, Y: -5, Z: -5},
		Max: common.Vec3{X: 5, Y: 5, Z: 5},
	}
	m := NewModel(WithVertices(triangleVertices()), WithBounds(override))

	assert.Equal(t, override, m.Bounds())
}

func TestNewModelDefaultsToIdentityTransform(t *testing.T) {
	m := NewModel(WithName("empty"))

	position, rotation, scale := m.Transform()
	assert.Equal(t, [3]float32{0, 0, 0}, position)
	assert.Equal(t, [3]float32{0, 0, 0}, rotation)
	assert.Equal(t, [3]float32{1, 1, 1}, scale)
	assert.True(t, m.Bounds().Empty())
}

func TestTransformSetters(t *testing.T) {
	m := NewModel(WithName("crate"))

	m.SetPosition(-1, -2, -3)
	m.SetRotation(0.2, 0, -0.1)
	m.SetUniformScale(0.5)

	position, rotation, scale := m.Transform()
	assert.Equal(t, [3]float32{-1, -2, -3}, position)
	assert.Equal(t, [3]float32{0.2, 0, -0.1}, rotation)
	assert.Equal(t, [3]float32{0.5, 0.5, 0.5}, scale)

	rx, ry, rz := m.Rotation()
	assert.Equal(t, float32(0.2), rx)
	assert.Equal(t, float32(0), ry)
	assert.Equal(t, float32(-0.1), rz)
}

func TestVertexAndIndexDataSizes(t *testing.T) {
	m := NewModel(WithVertices(triangleVertices()), WithIndices([]uint32{0, 1, 2}))

	assert.Len(t, m.VertexData(), 3*int(common.SizeOf[Vertex]()))
	assert.Len(t, m.IndexData(), 3*4)

	empty := NewModel(WithName("empty"))
	assert.Nil(t, empty.VertexData())
	assert.Nil(t, empty.IndexData())
}
