package renderer

// RendererBuilderOption is a functional option for configuring a Renderer at creation.
type RendererBuilderOption func(*rendererImpl)

// WithForceFallbackAdapter forces the backend to use a software/fallback GPU
// adapter. Useful for headless environments and CI.
//
// Returns:
//   - RendererBuilderOption: the option function
func WithForceFallbackAdapter() RendererBuilderOption {
	return func(r *rendererImpl) {
		r.forceFallbackAdapter = true
	}
}

// WithPresentMode sets the surface present mode.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: the option function
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *rendererImpl) {
		r.pendingPresentMode = &mode
	}
}

// WithClearColor sets the background color used when clearing each frame.
//
// Parameters:
//   - r, g, b, a: color components in [0, 1]
//
// Returns:
//   - RendererBuilderOption: the option function
func WithClearColor(r, g, b, a float64) RendererBuilderOption {
	return func(ri *rendererImpl) {
		ri.pendingClearColor = &[4]float64{r, g, b, a}
	}
}
