package viewer

import (
	"time"

	"github.com/maximus-cyber109/ddt-3d/internal/preview"
	"github.com/maximus-cyber109/ddt-3d/viewer/camera"
	"github.com/maximus-cyber109/ddt-3d/viewer/loader"
	"github.com/maximus-cyber109/ddt-3d/viewer/renderer"
	"github.com/maximus-cyber109/ddt-3d/viewer/rig"
	"github.com/maximus-cyber109/ddt-3d/viewer/stage"
	"github.com/maximus-cyber109/ddt-3d/viewer/window"
)

// SceneSessionOption is a functional option for configuring a SceneSession.
// Use the With* functions to create options that are applied directly to the
// session instance.
type SceneSessionOption func(*sceneSession)

// WithWindow sets the window the session renders into. Required.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - SceneSessionOption: option function to apply
func WithWindow(w window.Window) SceneSessionOption {
	return func(s *sceneSession) {
		s.window = w
	}
}

// WithRenderer sets the renderer the session draws with. Required.
//
// Parameters:
//   - r: a pre-configured Renderer instance
//
// Returns:
//   - SceneSessionOption: option function to apply
func WithRenderer(r renderer.Renderer) SceneSessionOption {
	return func(s *sceneSession) {
		s.renderer = r
	}
}

// WithRig sets a custom camera rig rather than the default auto-rotating one.
//
// Parameters:
//   - r: a pre-configured Rig instance
//
// Returns:
//   - SceneSessionOption: option function to apply
func WithRig(r rig.Rig) SceneSessionOption {
	return func(s *sceneSession) {
		s.rig = r
	}
}

// WithStage sets a custom stage rather than the default empty one.
//
// Parameters:
//   - st: a pre-configured Stage instance
//
// Returns:
//   - SceneSessionOption: option function to apply
func WithStage(st stage.Stage) SceneSessionOption {
	return func(s *sceneSession) {
		s.stage = st
	}
}

// WithCamera sets a custom camera. When omitted the session builds one sized
// to the window and bound to the rig.
//
// Parameters:
//   - c: a pre-configured Camera instance
//
// Returns:
//   - SceneSessionOption: option function to apply
func WithCamera(c camera.Camera) SceneSessionOption {
	return func(s *sceneSession) {
		s.camera = c
	}
}

// WithLoader sets a custom asset loader.
//
// Parameters:
//   - l: a pre-configured Loader instance
//
// Returns:
//   - SceneSessionOption: option function to apply
func WithLoader(l loader.Loader) SceneSessionOption {
	return func(s *sceneSession) {
		s.loader = l
	}
}

// WithPreviewPublisher attaches a websocket status publisher. The session
// streams rig snapshots to it while running and closes it on teardown.
//
// Parameters:
//   - p: a started preview Publisher
//
// Returns:
//   - SceneSessionOption: option function to apply
func WithPreviewPublisher(p *preview.Publisher) SceneSessionOption {
	return func(s *sceneSession) {
		s.publisher = p
	}
}

// WithPublishInterval sets how often rig snapshots are streamed to the
// preview publisher. Values <= 0 keep the default (100ms).
//
// Parameters:
//   - interval: time between snapshots
//
// Returns:
//   - SceneSessionOption: option function to apply
func WithPublishInterval(interval time.Duration) SceneSessionOption {
	return func(s *sceneSession) {
		if interval > 0 {
			s.publishInterval = interval
		}
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per
// second. Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - SceneSessionOption: option function to apply
func WithRenderFrameLimit(fps float64) SceneSessionOption {
	return func(s *sceneSession) {
		if fps <= 0 {
			s.renderFrameLimit = 0
			return
		}
		s.renderFrameLimit = time.Second / time.Duration(fps)
	}
}
