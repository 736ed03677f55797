package renderer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/maximus-cyber109/ddt-3d/common"
	"github.com/maximus-cyber109/ddt-3d/viewer/model"
)

// orbitViewProjection builds the matrix an orbit frame hands to RenderFrame:
// camera on the +Z axis at the given distance, looking at the origin.
func orbitViewProjection(distance float32) [16]float32 {
	view := make([]float32, 16)
	proj := make([]float32, 16)
	var vp [16]float32
	common.LookAt(view, 0, 0, distance, 0, 0, 0, 0, 1, 0)
	common.Perspective(proj, float32(math.Pi/4), 16.0/9.0, 0.1, 100.0)
	common.Mul4(vp[:], proj, view)
	return vp
}

func unitCube(t *testing.T) model.Model {
	t.Helper()
	return model.NewModel(
		model.WithName("cube"),
		model.WithBounds(common.Box3{
			Min: common.Vec3{X: -1, Y: -1, Z: -1},
			Max: common.Vec3{X: 1, Y: 1, Z: 1},
		}),
	)
}

func TestModelVisibleAtOrigin(t *testing.T) {
	assert.True(t, modelVisible(orbitViewProjection(5), unitCube(t)))
}

func TestModelVisibleIgnoresEmptyBounds(t *testing.T) {
	m := model.NewModel(model.WithName("unbounded"))
	assert.True(t, modelVisible(orbitViewProjection(5), m))
}

func TestModelCulledBehindCamera(t *testing.T) {
	m := unitCube(t)
	m.SetPosition(0, 0, 50)
	assert.False(t, modelVisible(orbitViewProjection(5), m))
}

func TestModelCulledFarOffAxis(t *testing.T) {
	m := unitCube(t)
	m.SetPosition(200, 0, 0)
	assert.False(t, modelVisible(orbitViewProjection(5), m))
}

func TestModelNearEdgeStaysVisible(t *testing.T) {
	// The padded bounding sphere keeps a model partially in view drawn.
	m := unitCube(t)
	m.SetPosition(2, 0, 0)
	assert.True(t, modelVisible(orbitViewProjection(5), m))
}

func TestModelScaleGrowsCullSphere(t *testing.T) {
	// Position is model-local: the same offset lands much farther out at
	// scale 30, but the cull sphere grows with it and reaches back in.
	m := unitCube(t)
	m.SetUniformScale(30)
	m.SetPosition(2, 0, 0)
	assert.True(t, modelVisible(orbitViewProjection(5), m))

	small := unitCube(t)
	small.SetPosition(60, 0, 0)
	assert.False(t, modelVisible(orbitViewProjection(5), small))
}

func TestStagedModelAlwaysVisibleFromOrbit(t *testing.T) {
	// A stage-normalized model (position = negated bounds center) sits at
	// the origin, where every orbit frame can see it.
	m := model.NewModel(
		model.WithName("offset"),
		model.WithBounds(common.Box3{
			Min: common.Vec3{X: 90, Y: 0, Z: 0},
			Max: common.Vec3{X: 110, Y: 20, Z: 20},
		}),
	)
	m.SetUniformScale(0.15)
	m.SetPosition(-100, -10, -10)
	assert.True(t, modelVisible(orbitViewProjection(5), m))
}
