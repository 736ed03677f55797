package rig

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock drives timers with virtual time.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{}
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves virtual time forward and fires every due timer.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.at <= c.now {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

// Pending counts timers that are armed and have neither fired nor been stopped.
func (c *fakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// fire invokes the callback regardless of the stopped flag, simulating a
// timer whose callback was already in flight when Stop was called.
func (t *fakeTimer) fire() {
	t.f()
}

func TestAutoRotateAdvancesAzimuthPerFrame(t *testing.T) {
	const step = float32(0.02)
	r := NewRig(
		WithClock(newFakeClock()),
		WithAutoRotateStep(step),
	)

	const frames = 500
	for i := 0; i < frames; i++ {
		r.Update()
	}

	expected := math.Mod(float64(step)*frames, 2*math.Pi)
	assert.InDelta(t, expected, float64(r.Azimuth()), 1e-3)
}

func TestAzimuthStaysNormalized(t *testing.T) {
	r := NewRig(
		WithClock(newFakeClock()),
		WithAutoRotateStep(1.0),
	)

	for i := 0; i < 100; i++ {
		r.Update()
		az := float64(r.Azimuth())
		assert.GreaterOrEqual(t, az, 0.0)
		assert.Less(t, az, 2*math.Pi)
	}
}

func TestPointerDownSuspendsAutoRotation(t *testing.T) {
	r := NewRig(WithClock(newFakeClock()))

	r.PointerDown(100, 100)
	require.Equal(t, ModeDragging, r.Mode())
	require.False(t, r.AutoRotating())

	before := r.Azimuth()
	r.Update()
	assert.Equal(t, before, r.Azimuth(), "no automatic advance while dragging")
}

func TestDragDeltaMapsPixelsToRadians(t *testing.T) {
	r := NewRig(
		WithClock(newFakeClock()),
		WithDragDivisor(200),
	)

	start := r.Azimuth()
	r.PointerDown(0, 0)
	r.PointerMove(200, 0)

	assert.InDelta(t, float64(start)+1.0, float64(r.Azimuth()), 1e-5,
		"200 px of travel at divisor 200 is one radian")
}

func TestPointerUpFreezesRotationUntilResume(t *testing.T) {
	clock := newFakeClock()
	r := NewRig(
		WithClock(clock),
		WithResumeDelay(3*time.Second),
		WithAutoRotateStep(0.05),
	)

	r.PointerDown(10, 10)
	r.PointerUp()
	require.Equal(t, ModeAwaitingResume, r.Mode())
	require.True(t, r.ResumePending())

	frozen := r.Azimuth()
	for i := 0; i < 10; i++ {
		r.Update()
	}
	assert.Equal(t, frozen, r.Azimuth(), "rotation stays frozen before the timer fires")

	clock.Advance(3 * time.Second)
	assert.Equal(t, ModeAutoRotating, r.Mode())

	r.Update()
	assert.NotEqual(t, frozen, r.Azimuth(), "rotation resumes after the delay")
}

func TestAtMostOnePendingTimer(t *testing.T) {
	clock := newFakeClock()
	r := NewRig(WithClock(clock), WithResumeDelay(2*time.Second))

	for i := 0; i < 20; i++ {
		r.PointerDown(float64(i), 0)
		r.PointerUp()
	}

	assert.Equal(t, 1, clock.Pending(), "rearming always cancels the prior timer")
}

func TestPointerDownCancelsPendingResume(t *testing.T) {
	clock := newFakeClock()
	r := NewRig(WithClock(clock), WithResumeDelay(2*time.Second))

	r.PointerDown(0, 0)
	r.PointerUp()
	require.True(t, r.ResumePending())

	r.PointerDown(5, 5)
	assert.Equal(t, ModeDragging, r.Mode())
	assert.Equal(t, 0, clock.Pending())

	// A full delay later nothing flips the mode back.
	clock.Advance(5 * time.Second)
	assert.Equal(t, ModeDragging, r.Mode())
}

func TestStaleTimerFireLosesToNewDrag(t *testing.T) {
	clock := newFakeClock()
	r := NewRig(WithClock(clock), WithResumeDelay(2*time.Second))

	r.PointerDown(0, 0)
	r.PointerUp()
	stale := clock.timers[len(clock.timers)-1]

	// New drag supersedes the armed timer, then its callback arrives late.
	r.PointerDown(1, 1)
	r.PointerUp()
	stale.fire()

	assert.Equal(t, ModeAwaitingResume, r.Mode(),
		"a superseded timer must not resume rotation early")
	assert.Equal(t, 1, clock.Pending())
}

func TestGestureStartSuspendsWithoutDeltas(t *testing.T) {
	r := NewRig(WithClock(newFakeClock()))

	az := r.Azimuth()
	r.GestureStart()
	require.Equal(t, ModeDragging, r.Mode())
	assert.Equal(t, az, r.Azimuth())

	// First move after a gesture only anchors; the second applies a delta.
	r.PointerMove(100, 0)
	assert.Equal(t, az, r.Azimuth())
	r.PointerMove(300, 0)
	assert.NotEqual(t, az, r.Azimuth())
}

func TestPolarLockHoldsExactly(t *testing.T) {
	lock := float32(math.Pi / 2)
	r := NewRig(
		WithClock(newFakeClock()),
		WithPolarLock(lock),
	)

	r.PointerDown(0, 0)
	r.PointerMove(50, 400) // vertical travel must not tilt the orbit
	r.PointerUp()

	for i := 0; i < 5; i++ {
		r.Update()
		assert.Equal(t, lock, r.Polar())
	}
}

func TestPositionDerivedFromAngularState(t *testing.T) {
	const radius = float32(4)
	r := NewRig(
		WithClock(newFakeClock()),
		WithRadius(radius),
		WithPolarLock(float32(math.Pi/2)),
		WithAzimuth(0.7),
	)
	r.Update()

	x, y, z := r.Position()
	assert.InDelta(t, radius*float32(math.Sin(0.7+0.01)), x, 1e-4)
	assert.InDelta(t, 0, y, 1e-4)
	assert.InDelta(t, radius*float32(math.Cos(0.7+0.01)), z, 1e-4)
}

func TestDegenerateRadiusHoldsLastPosition(t *testing.T) {
	r := NewRig(
		WithClock(newFakeClock()),
		WithRadius(3),
		WithPolarLock(float32(math.Pi/2)),
	)
	r.Update()
	_, _, z0 := r.Position()
	require.NotZero(t, z0)

	bad := NewRig(
		WithClock(newFakeClock()),
		WithRadius(float32(math.NaN())),
	)
	bad.Update()
	bx, by, bz := bad.Position()
	assert.Zero(t, bx)
	assert.Zero(t, by)
	assert.Zero(t, bz)

	// A valid rig keeps reporting a stable, finite transform.
	r.Update()
	x1, y1, z1 := r.Position()
	for _, v := range []float32{x1, y1, z1} {
		assert.False(t, math.IsNaN(float64(v)))
	}
}

func TestFreePolarClampsToBounds(t *testing.T) {
	r := NewRig(
		WithClock(newFakeClock()),
		WithPolarBounds(0.2, 2.8),
		WithDragDivisor(1), // one pixel per radian for easy overshoot
	)

	r.PointerDown(0, 0)
	r.PointerMove(0, 100) // drive polar far past the upper bound
	assert.InDelta(t, 2.8, float64(r.Polar()), 1e-5)

	r.PointerMove(0, -300)
	assert.InDelta(t, 0.2, float64(r.Polar()), 1e-5)
}

func TestEndToEndInteractionScenario(t *testing.T) {
	clock := newFakeClock()
	r := NewRig(
		WithClock(clock),
		WithResumeDelay(2500*time.Millisecond),
	)

	require.Equal(t, ModeAutoRotating, r.Mode())

	r.PointerDown(40, 40)
	require.Equal(t, ModeDragging, r.Mode())
	require.False(t, r.AutoRotating())

	r.PointerUp()
	require.Equal(t, ModeAwaitingResume, r.Mode())
	require.True(t, r.ResumePending())

	clock.Advance(2400 * time.Millisecond)
	require.Equal(t, ModeAwaitingResume, r.Mode())

	clock.Advance(200 * time.Millisecond)
	assert.Equal(t, ModeAutoRotating, r.Mode())
	assert.False(t, r.ResumePending())
}
