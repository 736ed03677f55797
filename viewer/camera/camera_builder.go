package camera

// CameraOption is a functional option for configuring a Camera at creation.
type CameraOption func(*cameraImpl)

// WithFov sets the field of view in radians.
//
// Parameters:
//   - fov: field of view in radians
//
// Returns:
//   - CameraOption: the option function
func WithFov(fov float32) CameraOption {
	return func(c *cameraImpl) {
		c.fov = fov
	}
}

// WithAspect sets the aspect ratio (width / height).
//
// Parameters:
//   - aspect: the aspect ratio
//
// Returns:
//   - CameraOption: the option function
func WithAspect(aspect float32) CameraOption {
	return func(c *cameraImpl) {
		c.aspect = aspect
	}
}

// WithClipPlanes sets the near and far clip plane distances.
//
// Parameters:
//   - near: near clip plane distance
//   - far: far clip plane distance
//
// Returns:
//   - CameraOption: the option function
func WithClipPlanes(near, far float32) CameraOption {
	return func(c *cameraImpl) {
		c.near = near
		c.far = far
	}
}

// WithController attaches a Controller at creation time.
//
// Parameters:
//   - ctrl: the controller to attach
//
// Returns:
//   - CameraOption: the option function
func WithController(ctrl Controller) CameraOption {
	return func(c *cameraImpl) {
		c.controller = ctrl
	}
}
