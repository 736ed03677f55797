package rig

import (
	"math"
	"sync"
	"time"

	"github.com/maximus-cyber109/ddt-3d/common"
)

// InteractionMode identifies which state of the rig's interaction machine is
// active. Exactly one mode is active at a time; transitions are edge-triggered
// by pointer events and the resume timer.
type InteractionMode int

const (
	// ModeAutoRotating is the initial state: the azimuth advances by a fixed
	// step each frame and pointer deltas are not applied.
	ModeAutoRotating InteractionMode = iota

	// ModeDragging is entered on a pointer or gesture start. Auto-rotation is
	// suspended and angles follow pointer deltas directly.
	ModeDragging

	// ModeAwaitingResume is entered on pointer release. Rotation stays frozen
	// until the resume timer fires, which returns the rig to ModeAutoRotating.
	ModeAwaitingResume
)

// String returns a human-readable mode name for logs and the preview stream.
func (m InteractionMode) String() string {
	switch m {
	case ModeAutoRotating:
		return "auto-rotating"
	case ModeDragging:
		return "dragging"
	case ModeAwaitingResume:
		return "awaiting-resume"
	default:
		return "unknown"
	}
}

// rigImpl is the single implementation of Rig. Camera position is always
// derived from the spherical state (azimuth, polar, radius, target) by
// updatePosition; it is never mutated directly.
type rigImpl struct {
	mu *sync.Mutex

	position [3]float32
	target   [3]float32

	radius  float32
	azimuth float32 // horizontal orbit angle, kept in [0, 2π)
	polar   float32 // tilt angle from the vertical pole

	// Constraint policy. When lockPolar is set the polar angle is forced to
	// lockPolarValue on every Update regardless of mode, overriding whatever
	// a drag computed.
	lockPolar      bool
	lockPolarValue float32
	minPolar       float32
	maxPolar       float32

	autoRotateStep float32 // radians advanced per Update while auto-rotating
	dragDivisor    float32 // pixels of pointer travel per radian

	mode InteractionMode

	// Drag anchor. hasAnchor is false after a gesture start until the first
	// pointer move establishes a reference position.
	hasAnchor    bool
	lastX, lastY float64

	clock       Clock
	resumeDelay time.Duration
	resumeTimer Timer
	armGen      uint64 // invalidates timers that fired after being superseded
}

// Rig is the camera rig controller: it owns the orbit camera's angular state,
// blends user input with automatic rotation, and manages the idle/active
// transitions without fighting the user's input.
//
// All methods are safe for concurrent use; pointer events and the per-frame
// Update may arrive from different goroutines, and an event that lands before
// a frame update is always observed by that update.
type Rig interface {
	// Update advances the rig by one frame: in ModeAutoRotating the azimuth
	// moves by the configured step, in the other modes rotation stays frozen.
	// The polar lock, when configured, is re-asserted unconditionally. The
	// camera position is recomputed from the angular state; degenerate inputs
	// (non-finite or non-positive radius) hold the last valid position.
	Update()

	// PointerDown begins a drag at the given pixel coordinates. Auto-rotation
	// is suspended immediately and any pending resume timer is cancelled.
	//
	// Parameters:
	//   - x, y: pointer position in pixels
	PointerDown(x, y float64)

	// PointerMove applies pointer travel while dragging. Pixel deltas map
	// linearly to radians via the configured drag divisor. Ignored outside
	// ModeDragging.
	//
	// Parameters:
	//   - x, y: pointer position in pixels
	PointerMove(x, y float64)

	// PointerUp ends a drag: the rig enters ModeAwaitingResume and the resume
	// timer is armed. Arming always cancels any prior pending timer, so at
	// most one timer is pending at any instant.
	PointerUp()

	// GestureStart suspends auto-rotation exactly like PointerDown but
	// contributes no angle deltas (pinch/rotate gestures carry no anchor).
	GestureStart()

	// Mode returns the currently active interaction mode.
	//
	// Returns:
	//   - InteractionMode: the active mode
	Mode() InteractionMode

	// AutoRotating reports whether the automatic azimuth advance is active.
	//
	// Returns:
	//   - bool: true only in ModeAutoRotating
	AutoRotating() bool

	// Azimuth returns the horizontal orbit angle, normalized to [0, 2π).
	//
	// Returns:
	//   - float32: azimuth in radians
	Azimuth() float32

	// Polar returns the tilt angle measured from the vertical pole.
	//
	// Returns:
	//   - float32: polar angle in radians
	Polar() float32

	// Radius returns the orbit distance, fixed for the session.
	//
	// Returns:
	//   - float32: distance from the target
	Radius() float32

	// Position returns the camera's world-space position as last derived from
	// the angular state.
	//
	// Returns:
	//   - x, y, z: world-space camera position
	Position() (x, y, z float32)

	// Target returns the fixed look-at point.
	//
	// Returns:
	//   - x, y, z: world-space target position
	Target() (x, y, z float32)

	// ResumePending reports whether a resume timer is currently armed.
	//
	// Returns:
	//   - bool: true while a timer is pending
	ResumePending() bool

	// Close cancels any pending resume timer. The rig must not be used after
	// Close; it is called when the owning session tears down.
	Close()
}

var _ Rig = &rigImpl{}

// NewRig creates a camera rig controller in ModeAutoRotating with sensible
// defaults: radius 5, polar π/2, a 0.01 rad/frame auto-rotate step, a 200
// px/rad drag divisor, and a 3 second resume delay.
//
// Parameters:
//   - options: functional options to configure the rig
//
// Returns:
//   - Rig: the newly created rig controller
func NewRig(options ...RigOption) Rig {
	r := &rigImpl{
		mu:     &sync.Mutex{},
		target: [3]float32{0, 0, 0},

		radius:  5.0,
		azimuth: 0.0,
		polar:   float32(math.Pi / 2),

		minPolar: 0.05,
		maxPolar: float32(math.Pi - 0.05),

		autoRotateStep: 0.01,
		dragDivisor:    200.0,

		mode:        ModeAutoRotating,
		clock:       systemClock{},
		resumeDelay: 3 * time.Second,
	}

	for _, option := range options {
		option(r)
	}

	r.applyConstraints()
	r.updatePosition()
	return r
}

// --- internal helpers ---

// applyConstraints enforces the polar constraint policy: a configured lock
// wins over the free-orbit bounds. Caller must hold the mutex.
func (r *rigImpl) applyConstraints() {
	if r.lockPolar {
		r.polar = r.lockPolarValue
		return
	}
	if r.polar < r.minPolar {
		r.polar = r.minPolar
	}
	if r.polar > r.maxPolar {
		r.polar = r.maxPolar
	}
}

// updatePosition recomputes the camera position from the spherical state.
// Degenerate inputs leave the previous position in place so the camera never
// jumps to an invalid transform. Caller must hold the mutex.
func (r *rigImpl) updatePosition() {
	if r.radius <= 0 || !isFinite(r.radius) || !isFinite(r.azimuth) || !isFinite(r.polar) {
		return
	}

	sinPolar := float32(math.Sin(float64(r.polar)))
	cosPolar := float32(math.Cos(float64(r.polar)))
	sinAzim := float32(math.Sin(float64(r.azimuth)))
	cosAzim := float32(math.Cos(float64(r.azimuth)))

	candidate := common.Vec3{
		X: r.target[0] + r.radius*sinPolar*sinAzim,
		Y: r.target[1] + r.radius*cosPolar,
		Z: r.target[2] + r.radius*sinPolar*cosAzim,
	}
	if !candidate.IsFinite() {
		return
	}

	r.position[0] = candidate.X
	r.position[1] = candidate.Y
	r.position[2] = candidate.Z
}

// armResumeTimer cancels any pending timer and schedules a fresh one. The
// generation counter invalidates a superseded timer whose callback already
// fired and is waiting on the mutex. Caller must hold the mutex.
func (r *rigImpl) armResumeTimer() {
	r.cancelResumeTimer()
	r.armGen++
	gen := r.armGen
	r.resumeTimer = r.clock.AfterFunc(r.resumeDelay, func() {
		r.onResumeFired(gen)
	})
}

// cancelResumeTimer stops the pending timer, if any. Caller must hold the mutex.
func (r *rigImpl) cancelResumeTimer() {
	if r.resumeTimer != nil {
		r.resumeTimer.Stop()
		r.resumeTimer = nil
	}
}

// onResumeFired transitions back to auto-rotation when the timer that fired
// is still the current one. A pointer-down that raced the fire wins: it either
// bumped the generation or moved the rig out of ModeAwaitingResume.
func (r *rigImpl) onResumeFired(gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if gen != r.armGen || r.mode != ModeAwaitingResume {
		return
	}
	r.resumeTimer = nil
	r.mode = ModeAutoRotating
}

func isFinite(f float32) bool {
	v := float64(f)
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// --- Rig implementation ---

func (r *rigImpl) Update() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.lockPolar {
		r.polar = r.lockPolarValue
	}
	if r.mode == ModeAutoRotating {
		r.azimuth = common.WrapAngle(r.azimuth + r.autoRotateStep)
	}
	r.updatePosition()
}

func (r *rigImpl) PointerDown(x, y float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cancelResumeTimer()
	r.armGen++
	r.mode = ModeDragging
	r.hasAnchor = true
	r.lastX, r.lastY = x, y
}

func (r *rigImpl) PointerMove(x, y float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.mode != ModeDragging {
		return
	}
	if !r.hasAnchor {
		r.hasAnchor = true
		r.lastX, r.lastY = x, y
		return
	}

	dx := float32(x-r.lastX) / r.dragDivisor
	dy := float32(y-r.lastY) / r.dragDivisor
	r.lastX, r.lastY = x, y

	r.azimuth = common.WrapAngle(r.azimuth + dx)
	if !r.lockPolar {
		r.polar += dy
	}
	r.applyConstraints()
	r.updatePosition()
}

func (r *rigImpl) PointerUp() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.mode != ModeDragging {
		return
	}
	r.mode = ModeAwaitingResume
	r.hasAnchor = false
	r.armResumeTimer()
}

func (r *rigImpl) GestureStart() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cancelResumeTimer()
	r.armGen++
	r.mode = ModeDragging
	r.hasAnchor = false
}

func (r *rigImpl) Mode() InteractionMode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mode
}

func (r *rigImpl) AutoRotating() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mode == ModeAutoRotating
}

func (r *rigImpl) Azimuth() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.azimuth
}

func (r *rigImpl) Polar() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.polar
}

func (r *rigImpl) Radius() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.radius
}

func (r *rigImpl) Position() (x, y, z float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.position[0], r.position[1], r.position[2]
}

func (r *rigImpl) Target() (x, y, z float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.target[0], r.target[1], r.target[2]
}

func (r *rigImpl) ResumePending() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resumeTimer != nil
}

func (r *rigImpl) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelResumeTimer()
	r.armGen++
}
