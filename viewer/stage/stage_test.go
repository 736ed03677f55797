package stage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maximus-cyber109/ddt-3d/common"
	"github.com/maximus-cyber109/ddt-3d/viewer/model"
)

func boxModel(min, max common.Vec3) model.Model {
	return model.NewModel(
		model.WithName("box"),
		model.WithBounds(common.Box3{Min: min, Max: max}),
	)
}

func TestStageStartsPending(t *testing.T) {
	s := NewStage()
	assert.Equal(t, StatePending, s.State())
	assert.Nil(t, s.Model())
	assert.Empty(t, s.FailReason())
}

func TestResolveNormalizesModel(t *testing.T) {
	s := NewStage(WithTargetSize(3), WithTilt(0.2, -0.1))
	m := boxModel(common.Vec3{X: 0, Y: 0, Z: 0}, common.Vec3{X: 2, Y: 4, Z: 6})

	require.True(t, s.Resolve(m))
	assert.Equal(t, StateLoaded, s.State())
	assert.Same(t, m, s.Model())

	pos, rot, scale := m.Transform()
	// Largest dimension 6 scaled to 3.
	assert.InDelta(t, 0.5, scale[0], 1e-6)
	assert.InDelta(t, 0.5, scale[1], 1e-6)
	assert.InDelta(t, 0.5, scale[2], 1e-6)
	// Position is the negated bounding-box center.
	assert.InDelta(t, -1.0, pos[0], 1e-6)
	assert.InDelta(t, -2.0, pos[1], 1e-6)
	assert.InDelta(t, -3.0, pos[2], 1e-6)
	// Presentation tilt.
	assert.InDelta(t, 0.2, rot[0], 1e-6)
	assert.InDelta(t, 0.0, rot[1], 1e-6)
	assert.InDelta(t, -0.1, rot[2], 1e-6)
}

func TestResolveCentersBoundingBoxAtOrigin(t *testing.T) {
	s := NewStage(WithTargetSize(3), WithTilt(0.2, -0.1))
	m := boxModel(common.Vec3{X: 0, Y: 0, Z: 0}, common.Vec3{X: 2, Y: 4, Z: 6})
	require.True(t, s.Resolve(m))

	// Running the resolved transform through the model matrix must land the
	// box center exactly on the origin, tilt included.
	pos, rot, scale := m.Transform()
	matrix := make([]float32, 16)
	common.BuildModelMatrix(matrix,
		pos[0], pos[1], pos[2],
		rot[0], rot[1], rot[2],
		scale[0], scale[1], scale[2],
	)

	center := m.Bounds().Center()
	x := matrix[0]*center.X + matrix[4]*center.Y + matrix[8]*center.Z + matrix[12]
	y := matrix[1]*center.X + matrix[5]*center.Y + matrix[9]*center.Z + matrix[13]
	z := matrix[2]*center.X + matrix[6]*center.Y + matrix[10]*center.Z + matrix[14]
	assert.InDelta(t, 0, float64(x), 1e-6)
	assert.InDelta(t, 0, float64(y), 1e-6)
	assert.InDelta(t, 0, float64(z), 1e-6)
}

func TestResolveIsOneShot(t *testing.T) {
	s := NewStage()
	first := boxModel(common.Vec3{X: -1, Y: -1, Z: -1}, common.Vec3{X: 1, Y: 1, Z: 1})
	second := boxModel(common.Vec3{X: -2, Y: -2, Z: -2}, common.Vec3{X: 2, Y: 2, Z: 2})

	require.True(t, s.Resolve(first))
	assert.False(t, s.Resolve(second))
	assert.Same(t, first, s.Model())
}

func TestResolveRejectsDegenerateBounds(t *testing.T) {
	s := NewStage()
	// A point cloud collapsed to a single position has zero extent.
	m := boxModel(common.Vec3{X: 1, Y: 1, Z: 1}, common.Vec3{X: 1, Y: 1, Z: 1})

	assert.False(t, s.Resolve(m))
	assert.Equal(t, StateFailed, s.State())
	assert.NotEmpty(t, s.FailReason())
	assert.Nil(t, s.Model())
}

func TestResolveRejectsEmptyBounds(t *testing.T) {
	s := NewStage()
	m := model.NewModel(model.WithName("empty"))

	assert.False(t, s.Resolve(m))
	assert.Equal(t, StateFailed, s.State())
}

func TestFailIsOneShot(t *testing.T) {
	s := NewStage()
	s.Fail("asset not found")
	assert.Equal(t, StateFailed, s.State())
	assert.Equal(t, "asset not found", s.FailReason())

	s.Fail("other reason")
	assert.Equal(t, "asset not found", s.FailReason())

	m := boxModel(common.Vec3{X: -1, Y: -1, Z: -1}, common.Vec3{X: 1, Y: 1, Z: 1})
	assert.False(t, s.Resolve(m))
	assert.Equal(t, StateFailed, s.State())
}

func TestPresentationSpinRidesOnTilt(t *testing.T) {
	s := NewStage(WithTilt(0.2, -0.1))
	m := boxModel(common.Vec3{X: -1, Y: -1, Z: -1}, common.Vec3{X: 1, Y: 1, Z: 1})
	require.True(t, s.Resolve(m))

	s.SetPresentationSpin(0.05, 1.5)
	rx, ry, rz := m.Rotation()
	assert.InDelta(t, 0.25, rx, 1e-6)
	assert.InDelta(t, 1.5, ry, 1e-6)
	assert.InDelta(t, -0.1, rz, 1e-6)

	// Resetting the spin restores the base tilt.
	s.SetPresentationSpin(0, 0)
	rx, ry, rz = m.Rotation()
	assert.InDelta(t, 0.2, rx, 1e-6)
	assert.InDelta(t, 0.0, ry, 1e-6)
	assert.InDelta(t, -0.1, rz, 1e-6)
}

func TestPresentationSpinBeforeResolveAppliesAtResolve(t *testing.T) {
	s := NewStage(WithTilt(0.2, -0.1))
	s.SetPresentationSpin(0.1, 0.3)

	m := boxModel(common.Vec3{X: -1, Y: -1, Z: -1}, common.Vec3{X: 1, Y: 1, Z: 1})
	require.True(t, s.Resolve(m))

	rx, ry, rz := m.Rotation()
	assert.InDelta(t, 0.3, rx, 1e-6)
	assert.InDelta(t, 0.3, ry, 1e-6)
	assert.InDelta(t, -0.1, rz, 1e-6)
}
