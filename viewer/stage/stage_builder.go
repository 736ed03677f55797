package stage

// StageOption is a functional option for configuring a Stage at creation.
type StageOption func(*stageImpl)

// WithTargetSize sets the largest dimension the normalized model is scaled to.
// Values <= 0 are ignored.
//
// Parameters:
//   - size: target size in world units
//
// Returns:
//   - StageOption: the option function
func WithTargetSize(size float32) StageOption {
	return func(s *stageImpl) {
		if size > 0 {
			s.targetSize = size
		}
	}
}

// WithTilt sets the fixed presentation tilt applied after normalization.
//
// Parameters:
//   - tiltX: rotation around X in radians
//   - tiltZ: rotation around Z in radians
//
// Returns:
//   - StageOption: the option function
func WithTilt(tiltX, tiltZ float32) StageOption {
	return func(s *stageImpl) {
		s.tiltX = tiltX
		s.tiltZ = tiltZ
	}
}
