package viewer

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/maximus-cyber109/ddt-3d/internal/preview"
	"github.com/maximus-cyber109/ddt-3d/viewer/camera"
	"github.com/maximus-cyber109/ddt-3d/viewer/loader"
	"github.com/maximus-cyber109/ddt-3d/viewer/model"
	"github.com/maximus-cyber109/ddt-3d/viewer/renderer"
	"github.com/maximus-cyber109/ddt-3d/viewer/rig"
	"github.com/maximus-cyber109/ddt-3d/viewer/stage"
	"github.com/maximus-cyber109/ddt-3d/viewer/window"
)

// ErrMissingWindow is returned when a session is built without a window.
var ErrMissingWindow = errors.New("scene session requires a window")

// ErrMissingRenderer is returned when a session is built without a renderer.
var ErrMissingRenderer = errors.New("scene session requires a renderer")

// sceneSession implements the SceneSession interface.
// Coordinates the render goroutine and the window's message thread.
type sceneSession struct {
	wg sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window   window.Window
	renderer renderer.Renderer
	camera   camera.Camera
	rig      rig.Rig
	stage    stage.Stage
	loader   loader.Loader

	publisher       *preview.Publisher
	publishInterval time.Duration

	scrollSpin float32 // accumulated presentation spin around Y, driven by the scroll wheel

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// SceneSession is the explicit context object tying one window, one renderer,
// one camera rig, and one stage together for the life of a showcase run. It
// owns the render loop and routes window input to the rig.
type SceneSession interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Rig returns the camera rig controller driving the orbit.
	//
	// Returns:
	//   - rig.Rig: the rig instance
	Rig() rig.Rig

	// Stage returns the stage holding the presented model.
	//
	// Returns:
	//   - stage.Stage: the stage instance
	Stage() stage.Stage

	// Camera returns the session camera.
	//
	// Returns:
	//   - camera.Camera: the camera instance
	Camera() camera.Camera

	// Loader returns the asset loader.
	//
	// Returns:
	//   - loader.Loader: the loader instance
	Loader() loader.Loader

	// LoadModel kicks off an asynchronous load of the model at path. On
	// success the model is normalized onto the stage and uploaded to the
	// GPU; on failure the stage is marked failed and the session keeps
	// rendering an empty scene.
	//
	// Parameters:
	//   - path: filesystem path to an OBJ, GLTF, or GLB asset
	LoadModel(path string)

	// SetRenderFrameLimit sets an optional render frame rate cap in frames
	// per second. Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run starts the render goroutine and blocks pumping window messages on
	// the calling thread until the window closes or Quit is called. Session
	// resources are released before Run returns.
	Run()

	// Quit signals all session goroutines to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

var _ SceneSession = &sceneSession{}

// NewSceneSession creates a session from the provided options. A window and a
// renderer are required; the rig, camera, stage, and loader default to fresh
// instances when not supplied, and the camera is bound to the rig as its
// positional controller.
//
// Parameters:
//   - options: functional options for session configuration
//
// Returns:
//   - SceneSession: the newly created session
//   - error: ErrMissingWindow or ErrMissingRenderer when a required part is absent
func NewSceneSession(options ...SceneSessionOption) (SceneSession, error) {
	s := &sceneSession{
		quitChannel:     make(chan struct{}),
		publishInterval: 100 * time.Millisecond,
	}

	for _, opt := range options {
		opt(s)
	}

	if s.window == nil {
		log.Error().Msg("scene session built without a window")
		return nil, ErrMissingWindow
	}
	if s.renderer == nil {
		log.Error().Msg("scene session built without a renderer")
		return nil, ErrMissingRenderer
	}

	if s.rig == nil {
		s.rig = rig.NewRig()
	}
	if s.stage == nil {
		s.stage = stage.NewStage()
	}
	if s.loader == nil {
		s.loader = loader.NewLoader()
	}
	if s.camera == nil {
		aspect := float32(1)
		if s.window.Height() > 0 {
			aspect = float32(s.window.Width()) / float32(s.window.Height())
		}
		s.camera = camera.NewCamera(camera.WithAspect(aspect))
	}
	if s.camera.Controller() == nil {
		s.camera.SetController(s.rig)
	}

	s.wireWindow()
	return s, nil
}

// wireWindow routes window callbacks into the rig, stage, renderer, and camera.
func (s *sceneSession) wireWindow() {
	s.window.SetResizeCallback(func(width, height int) {
		if width <= 0 || height <= 0 {
			return
		}
		s.renderer.Resize(width, height)
		s.camera.SetAspect(float32(width) / float32(height))
	})

	s.window.SetPointerDownCallback(func(x, y float64) {
		s.rig.PointerDown(x, y)
	})
	s.window.SetPointerUpCallback(func(x, y float64) {
		s.rig.PointerUp()
	})
	s.window.SetPointerMoveCallback(func(x, y float64) {
		s.rig.PointerMove(x, y)
	})

	// The scroll wheel spins the product itself rather than the camera.
	s.window.SetScrollCallback(func(delta float32) {
		s.scrollSpin += delta * 0.1
		s.stage.SetPresentationSpin(0, s.scrollSpin)
	})
}

func (s *sceneSession) Window() window.Window {
	return s.window
}

func (s *sceneSession) Rig() rig.Rig {
	return s.rig
}

func (s *sceneSession) Stage() stage.Stage {
	return s.stage
}

func (s *sceneSession) Camera() camera.Camera {
	return s.camera
}

func (s *sceneSession) Loader() loader.Loader {
	return s.loader
}

func (s *sceneSession) LoadModel(path string) {
	log.Info().Str("path", path).Msg("loading model")
	s.loader.LoadAsync(path, loader.LoadCallbacks{
		OnProgress: func(loaded, total int64) {
			log.Debug().Int64("loaded", loaded).Int64("total", total).Msg("load progress")
		},
		OnComplete: func(m model.Model) {
			// Upload before resolving: a model the GPU rejected must not
			// reach the stage, and resolving only normalizes the transform.
			if err := s.renderer.UploadMesh(m); err != nil {
				s.stage.Fail(err.Error())
				log.Error().Err(err).Str("model", m.Name()).Msg("mesh upload failed")
				return
			}
			if !s.stage.Resolve(m) {
				log.Error().Str("model", m.Name()).Str("reason", s.stage.FailReason()).Msg("model rejected by stage")
				return
			}
			log.Info().Str("model", m.Name()).Msg("model staged")
		},
		OnError: func(err error) {
			s.stage.Fail(err.Error())
			log.Error().Err(err).Str("path", path).Msg("model load failed")
		},
	})
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (s *sceneSession) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		s.renderFrameLimit = 0
		return
	}
	s.renderFrameLimit = time.Second / time.Duration(fps)
}

func (s *sceneSession) Run() {
	s.handle()
	s.window.ProcessMessages()
	s.signalQuit()
	s.wg.Wait()
	s.teardown()
}

// Quit signals all session goroutines to stop.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (s *sceneSession) Quit() {
	s.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (s *sceneSession) signalQuit() {
	s.quitOnce.Do(func() {
		close(s.quitChannel)
	})
}

// handle launches the render, preview, and quit goroutines.
// Each goroutine is tracked by the session's WaitGroup.
func (s *sceneSession) handle() {
	s.wg.Add(3)
	go s.handleRender()
	go s.handlePreview()
	go s.handleQuit()
}

// handleRender runs the render loop in its own goroutine: advance the rig,
// recompute the camera, and draw whatever the stage holds. Recovers from
// panics to avoid crashing the process and signals quit on recovery.
func (s *sceneSession) handleRender() {
	defer s.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Error().Any("panic", r).Msg("render goroutine recovered from panic")
			s.signalQuit()
		}
	}()

	lastRender := time.Now()

	for {
		select {
		case <-s.quitChannel:
			return
		default:
			s.rig.Update()
			s.camera.Update()

			if err := s.renderer.RenderFrame(s.camera.ViewProjectionMatrix(), s.stage.Model()); err != nil {
				log.Debug().Err(err).Msg("frame skipped")
			}

			// Frame rate limiting
			if s.renderFrameLimit > 0 {
				elapsed := time.Since(lastRender)
				if remaining := s.renderFrameLimit - elapsed; remaining > 0 {
					time.Sleep(remaining)
				}
			}
			lastRender = time.Now()
		}
	}
}

// handlePreview streams rig snapshots to the websocket publisher at the
// configured interval. A session without a publisher exits immediately.
func (s *sceneSession) handlePreview() {
	defer s.wg.Done()

	if s.publisher == nil {
		return
	}

	ticker := time.NewTicker(s.publishInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.quitChannel:
			return
		case <-ticker.C:
			s.publisher.Publish(preview.Snapshot{
				Azimuth:   s.rig.Azimuth(),
				Polar:     s.rig.Polar(),
				Radius:    s.rig.Radius(),
				Mode:      s.rig.Mode().String(),
				LoadState: s.stage.State().String(),
			})
		}
	}
}

// handleQuit blocks until the quit channel is closed, then decrements the WaitGroup.
func (s *sceneSession) handleQuit() {
	defer s.wg.Done()
	<-s.quitChannel
}

// teardown releases session resources after the loops have stopped.
func (s *sceneSession) teardown() {
	s.rig.Close()
	s.renderer.Release()
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			log.Debug().Err(err).Msg("preview publisher close")
		}
	}
	if err := s.window.Close(); err != nil {
		log.Debug().Err(err).Msg("window close")
	}
}
