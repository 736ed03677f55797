package renderer

import (
	"sync"

	"github.com/maximus-cyber109/ddt-3d/common"
	"github.com/maximus-cyber109/ddt-3d/viewer/model"
	"github.com/maximus-cyber109/ddt-3d/viewer/window"
)

// rendererImpl is the implementation of the Renderer interface.
type rendererImpl struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingClearColor    *[4]float64
}

// Renderer draws one showcased model per frame through a fixed lambert
// pipeline. The GPU surface, shaders, and pipeline are owned here; callers
// only upload meshes and issue frame calls. The swapchain, command encoding,
// and synchronization stay behind the backend.
type Renderer interface {
	// Resize configures the underlying backend to handle a new surface size.
	// This should be called when re-sizing the window or when the surface size should change.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// UploadMesh creates GPU vertex and index buffers for the given model.
	// Uploading the same model name again replaces the previous buffers.
	//
	// Parameters:
	//   - m: the model whose vertex and index data should be uploaded
	//
	// Returns:
	//   - error: an error if buffer creation fails
	UploadMesh(m model.Model) error

	// RenderFrame draws a single frame: acquires the swapchain texture, clears
	// it, draws the model if one is provided and uploaded, and presents.
	// A nil model renders a clear-color-only frame.
	//
	// Parameters:
	//   - viewProjection: the camera's combined view-projection matrix (column-major)
	//   - m: the model to draw, or nil
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	RenderFrame(viewProjection [16]float32, m model.Model) error

	// Release frees all GPU resources owned by the renderer.
	Release()
}

var _ Renderer = &rendererImpl{}

// NewRenderer creates a new Renderer bound to the given window's surface.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - win: the window providing the surface descriptor and initial size
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new Renderer instance
//   - error: an error if GPU initialization fails
func NewRenderer(backendType RendererBackendType, win window.Window, options ...RendererBuilderOption) (Renderer, error) {
	r := &rendererImpl{
		mu:          &sync.Mutex{},
		backendType: backendType,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	var err error
	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend, err = newWGPURendererBackend(win.SurfaceDescriptor(), r.forceFallbackAdapter)
	}
	if err != nil {
		return nil, err
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	if r.pendingClearColor != nil {
		r.backend.SetClearColor(*r.pendingClearColor)
	}

	r.backend.ConfigureSurface(win.Width(), win.Height())
	if err := r.backend.CreatePipeline(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *rendererImpl) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.ConfigureSurface(width, height)
}

func (r *rendererImpl) UploadMesh(m model.Model) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.backend.UploadMesh(m.Name(), m.VertexData(), m.IndexData(), m.IndexCount())
}

func (r *rendererImpl) RenderFrame(viewProjection [16]float32, m model.Model) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.backend.BeginFrame(); err != nil {
		return err
	}
	if m != nil && modelVisible(viewProjection, m) {
		r.backend.DrawModel(viewProjection, m)
	}
	r.backend.EndFrame()
	r.backend.Present()
	return nil
}

// modelVisible tests the model's bounding sphere against the view frustum so
// a model dragged fully offscreen costs no draw call. The model matrix
// applies position before rotation and scale, so the world-space center is
// the scaled sum of the bounds center and the position; the radius is padded
// to stay conservative under rotation.
func modelVisible(viewProjection [16]float32, m model.Model) bool {
	bounds := m.Bounds()
	if bounds.Empty() {
		return true
	}

	position, _, scale := m.Transform()
	maxScale := max(scale[0], max(scale[1], scale[2]))
	radius := bounds.MaxDimension() * maxScale * 1.5

	center := bounds.Center()
	x := (center.X + position[0]) * maxScale
	y := (center.Y + position[1]) * maxScale
	z := (center.Z + position[2]) * maxScale

	frustum := common.ExtractFrustumFromMatrix(viewProjection[:])
	return frustum.ContainsSphere(x, y, z, radius)
}

func (r *rendererImpl) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.Release()
}
