package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentity(t *testing.T) {
	m := make([]float32, 16)
	for i := range m {
		m[i] = 9
	}
	Identity(m)

	for i, v := range m {
		if i == 0 || i == 5 || i == 10 || i == 15 {
			assert.Equal(t, float32(1), v, "diagonal element %d", i)
		} else {
			assert.Equal(t, float32(0), v, "off-diagonal element %d", i)
		}
	}
}

func TestMul4IdentityIsNeutral(t *testing.T) {
	a := []float32{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	}
	ident := make([]float32, 16)
	Identity(ident)

	out := make([]float32, 16)
	Mul4(out, a, ident)
	assert.Equal(t, a, out)

	Mul4(out, ident, a)
	assert.Equal(t, a, out)
}

func TestMul4TranslationComposition(t *testing.T) {
	// Two column-major translations compose by adding offsets.
	ta := make([]float32, 16)
	tb := make([]float32, 16)
	Identity(ta)
	Identity(tb)
	ta[12], ta[13], ta[14] = 1, 2, 3
	tb[12], tb[13], tb[14] = 10, 20, 30

	out := make([]float32, 16)
	Mul4(out, ta, tb)

	assert.Equal(t, float32(11), out[12])
	assert.Equal(t, float32(22), out[13])
	assert.Equal(t, float32(33), out[14])
	assert.Equal(t, float32(1), out[15])
}

func TestMul4AliasesOutput(t *testing.T) {
	// out may alias an input; the result must still be correct.
	a := make([]float32, 16)
	Identity(a)
	a[12] = 5

	Mul4(a, a, a)
	assert.Equal(t, float32(10), a[12])
}

func TestPerspectiveZeroToOneDepth(t *testing.T) {
	out := make([]float32, 16)
	fovY := float32(math.Pi / 2)
	Perspective(out, fovY, 2.0, 1.0, 101.0)

	f := float32(1.0 / math.Tan(float64(fovY)/2))
	assert.InDelta(t, f/2.0, out[0], 1e-6)
	assert.InDelta(t, f, out[5], 1e-6)
	assert.Equal(t, float32(-1), out[11])
	assert.Equal(t, float32(0), out[15])

	// A point on the near plane maps to depth 0, on the far plane to depth 1
	// (after perspective divide), the WebGPU clip-space convention.
	nearZ := out[10]*-1 + out[14]
	assert.InDelta(t, 0, float64(nearZ/1.0), 1e-5)
	farZ := out[10]*-101 + out[14]
	assert.InDelta(t, 1, float64(farZ/101.0), 1e-5)
}

func TestLookAtTransformsEyeToOrigin(t *testing.T) {
	out := make([]float32, 16)
	LookAt(out, 3, 4, 5, 0, 0, 0, 0, 1, 0)

	// The eye position maps to the view-space origin.
	x := out[0]*3 + out[4]*4 + out[8]*5 + out[12]
	y := out[1]*3 + out[5]*4 + out[9]*5 + out[13]
	z := out[2]*3 + out[6]*4 + out[10]*5 + out[14]
	assert.InDelta(t, 0, float64(x), 1e-5)
	assert.InDelta(t, 0, float64(y), 1e-5)
	assert.InDelta(t, 0, float64(z), 1e-5)
}

func TestLookAtTargetOnNegativeZ(t *testing.T) {
	out := make([]float32, 16)
	LookAt(out, 0, 0, 5, 0, 0, 0, 0, 1, 0)

	// The target sits straight ahead, on the view-space -Z axis.
	z := out[2]*0 + out[6]*0 + out[10]*0 + out[14]
	assert.InDelta(t, -5, float64(z), 1e-5)
}

func TestBuildModelMatrixTranslationAndScale(t *testing.T) {
	out := make([]float32, 16)
	BuildModelMatrix(out, 1, 2, 3, 0, 0, 0, 2, 2, 2)

	assert.Equal(t, float32(2), out[0])
	assert.Equal(t, float32(2), out[5])
	assert.Equal(t, float32(2), out[10])
	// The local translation is scaled along with the mesh.
	assert.Equal(t, float32(2), out[12])
	assert.Equal(t, float32(4), out[13])
	assert.Equal(t, float32(6), out[14])
	assert.Equal(t, float32(1), out[15])
}

func TestBuildModelMatrixTranslationPrecedesRotation(t *testing.T) {
	out := make([]float32, 16)
	BuildModelMatrix(out, 1, 0, 0, 0, float32(math.Pi/2), 0, 1, 1, 1)

	// A local +X offset under a quarter turn around Y ends up on -Z.
	assert.InDelta(t, 0, float64(out[12]), 1e-6)
	assert.InDelta(t, 0, float64(out[13]), 1e-6)
	assert.InDelta(t, -1, float64(out[14]), 1e-6)
}

func TestBuildModelMatrixNegatedCenterCancelsOut(t *testing.T) {
	// A point at the mesh center maps to the origin when the translation is
	// the negated center, whatever the rotation and scale.
	out := make([]float32, 16)
	BuildModelMatrix(out, -1, -2, -3, 0.2, 0.7, -0.1, 0.5, 0.5, 0.5)

	x := out[0]*1 + out[4]*2 + out[8]*3 + out[12]
	y := out[1]*1 + out[5]*2 + out[9]*3 + out[13]
	z := out[2]*1 + out[6]*2 + out[10]*3 + out[14]
	assert.InDelta(t, 0, float64(x), 1e-6)
	assert.InDelta(t, 0, float64(y), 1e-6)
	assert.InDelta(t, 0, float64(z), 1e-6)
}

func TestBuildModelMatrixYawQuarterTurn(t *testing.T) {
	out := make([]float32, 16)
	BuildModelMatrix(out, 0, 0, 0, 0, float32(math.Pi/2), 0, 1, 1, 1)

	// A quarter turn around Y maps +X to -Z.
	x := out[0]*1 + out[4]*0 + out[8]*0 + out[12]
	z := out[2]*1 + out[6]*0 + out[10]*0 + out[14]
	assert.InDelta(t, 0, float64(x), 1e-6)
	assert.InDelta(t, -1, float64(z), 1e-6)
}

func TestWrapAngle(t *testing.T) {
	const tau = 2 * math.Pi

	assert.InDelta(t, 1.0, float64(WrapAngle(1.0)), 1e-6)
	assert.InDelta(t, 1.0, float64(WrapAngle(float32(1.0+tau))), 1e-5)
	assert.InDelta(t, tau-1.0, float64(WrapAngle(-1.0)), 1e-5)
	assert.Equal(t, float32(0), WrapAngle(0))
	assert.InDelta(t, 0, float64(WrapAngle(float32(tau))), 1e-5)
}

func TestSliceToBytes(t *testing.T) {
	assert.Nil(t, SliceToBytes([]float32(nil)))

	data := []uint32{0x04030201}
	raw := SliceToBytes(data)
	assert.Len(t, raw, 4)
	assert.Equal(t, byte(0x01), raw[0])
	assert.Equal(t, byte(0x04), raw[3])
}

func TestSizeOf(t *testing.T) {
	assert.Equal(t, uint64(4), SizeOf[float32]())
	assert.Equal(t, uint64(16), SizeOf[[4]float32]())
}
