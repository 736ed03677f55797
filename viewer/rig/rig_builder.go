package rig

import "time"

// RigOption is a functional option for configuring a Rig.
type RigOption func(*rigImpl)

// WithRadius sets the orbit distance from the target. The radius is fixed for
// the life of the session.
//
// Parameters:
//   - radius: distance from the orbit target
//
// Returns:
//   - RigOption: functional option to set the radius
func WithRadius(radius float32) RigOption {
	return func(r *rigImpl) {
		r.radius = radius
	}
}

// WithAzimuth sets the initial horizontal orbit angle.
//
// Parameters:
//   - azimuth: horizontal angle in radians (0 = +Z axis)
//
// Returns:
//   - RigOption: functional option to set the azimuth
func WithAzimuth(azimuth float32) RigOption {
	return func(r *rigImpl) {
		r.azimuth = azimuth
	}
}

// WithPolar sets the initial tilt angle from the vertical pole.
//
// Parameters:
//   - polar: tilt angle in radians (π/2 = equator)
//
// Returns:
//   - RigOption: functional option to set the polar angle
func WithPolar(polar float32) RigOption {
	return func(r *rigImpl) {
		r.polar = polar
	}
}

// WithTarget sets the fixed look-at point.
//
// Parameters:
//   - x, y, z: world-space coordinates
//
// Returns:
//   - RigOption: functional option to set the target
func WithTarget(x, y, z float32) RigOption {
	return func(r *rigImpl) {
		r.target[0] = x
		r.target[1] = y
		r.target[2] = z
	}
}

// WithPolarLock configures the vertical-only constraint policy: the polar
// angle is forced to the given value on every frame, restricting the orbit to
// a single horizontal axis of rotation.
//
// Parameters:
//   - polar: the locked tilt angle in radians
//
// Returns:
//   - RigOption: functional option to enable the polar lock
func WithPolarLock(polar float32) RigOption {
	return func(r *rigImpl) {
		r.lockPolar = true
		r.lockPolarValue = polar
	}
}

// WithPolarBounds sets the free-orbit tilt limits used when no polar lock is
// configured.
//
// Parameters:
//   - min: minimum tilt in radians (prevents flipping over the top pole)
//   - max: maximum tilt in radians (prevents flipping under the bottom pole)
//
// Returns:
//   - RigOption: functional option to set the polar bounds
func WithPolarBounds(min, max float32) RigOption {
	return func(r *rigImpl) {
		r.minPolar = min
		r.maxPolar = max
	}
}

// WithAutoRotateStep sets the azimuth advance applied each frame while
// auto-rotating.
//
// Parameters:
//   - step: radians per frame
//
// Returns:
//   - RigOption: functional option to set the auto-rotate step
func WithAutoRotateStep(step float32) RigOption {
	return func(r *rigImpl) {
		r.autoRotateStep = step
	}
}

// WithDragDivisor sets the linear pixel-to-radian mapping used while
// dragging: a pointer travel of divisor pixels rotates the orbit one radian.
//
// Parameters:
//   - divisor: pixels per radian (values <= 0 keep the default)
//
// Returns:
//   - RigOption: functional option to set the drag divisor
func WithDragDivisor(divisor float32) RigOption {
	return func(r *rigImpl) {
		if divisor > 0 {
			r.dragDivisor = divisor
		}
	}
}

// WithResumeDelay sets the quiet period after a drag ends before
// auto-rotation resumes.
//
// Parameters:
//   - delay: the resume delay
//
// Returns:
//   - RigOption: functional option to set the resume delay
func WithResumeDelay(delay time.Duration) RigOption {
	return func(r *rigImpl) {
		r.resumeDelay = delay
	}
}

// WithClock replaces the timer source. Tests use this to drive the resume
// timer with virtual time.
//
// Parameters:
//   - clock: the Clock to schedule the resume timer on
//
// Returns:
//   - RigOption: functional option to set the clock
func WithClock(clock Clock) RigOption {
	return func(r *rigImpl) {
		r.clock = clock
	}
}
