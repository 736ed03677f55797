package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// showcaseFrustum builds a view-projection for a camera at +Z looking at the
// origin, the arrangement every orbit frame produces.
func showcaseFrustum() Frustum {
	view := make([]float32, 16)
	proj := make([]float32, 16)
	vp := make([]float32, 16)
	LookAt(view, 0, 0, 10, 0, 0, 0, 0, 1, 0)
	Perspective(proj, float32(math.Pi/4), 1.0, 0.1, 100.0)
	Mul4(vp, proj, view)
	return ExtractFrustumFromMatrix(vp)
}

func TestFrustumPlaneNormalsAreUnitLength(t *testing.T) {
	f := showcaseFrustum()
	for i, p := range f.Planes {
		length := math.Sqrt(float64(
			p.Normal[0]*p.Normal[0] + p.Normal[1]*p.Normal[1] + p.Normal[2]*p.Normal[2],
		))
		assert.InDelta(t, 1.0, length, 1e-5, "plane %d", i)
	}
}

func TestFrustumContainsSphereAtTarget(t *testing.T) {
	f := showcaseFrustum()
	assert.True(t, f.ContainsSphere(0, 0, 0, 1))
}

func TestFrustumRejectsSphereBehindCamera(t *testing.T) {
	f := showcaseFrustum()
	assert.False(t, f.ContainsSphere(0, 0, 50, 1))
}

func TestFrustumRejectsSphereFarToTheSide(t *testing.T) {
	f := showcaseFrustum()
	assert.False(t, f.ContainsSphere(100, 0, 0, 1))
	assert.False(t, f.ContainsSphere(0, -100, 0, 1))
}

func TestFrustumKeepsSphereStraddlingAPlane(t *testing.T) {
	f := showcaseFrustum()
	// Center just outside the left plane, radius reaching back in.
	assert.True(t, f.ContainsSphere(-10, 0, 0, 8))
}
