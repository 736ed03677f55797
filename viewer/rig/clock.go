package rig

import "time"

// Clock abstracts deferred-callback scheduling so the resume timer can be
// driven by virtual time in tests.
type Clock interface {
	// AfterFunc schedules f to run after duration d.
	//
	// Parameters:
	//   - d: the delay before f runs
	//   - f: the callback to invoke
	//
	// Returns:
	//   - Timer: a handle that can cancel the pending callback
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a handle to a pending deferred callback.
type Timer interface {
	// Stop cancels the pending callback.
	//
	// Returns:
	//   - bool: true if the callback was cancelled before it ran
	Stop() bool
}

// systemClock is the default Clock backed by the time package.
type systemClock struct{}

var _ Clock = systemClock{}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
