package main

import (
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/maximus-cyber109/ddt-3d/common"
	"github.com/maximus-cyber109/ddt-3d/internal/config"
	"github.com/maximus-cyber109/ddt-3d/internal/preview"
	"github.com/maximus-cyber109/ddt-3d/viewer"
	"github.com/maximus-cyber109/ddt-3d/viewer/camera"
	"github.com/maximus-cyber109/ddt-3d/viewer/renderer"
	"github.com/maximus-cyber109/ddt-3d/viewer/rig"
	"github.com/maximus-cyber109/ddt-3d/viewer/stage"
	"github.com/maximus-cyber109/ddt-3d/viewer/window"
)

func main() {
	// ---- Flags (config file can override most) ----
	var (
		modelPath     = flag.String("model", "", "path to the product model (OBJ, GLTF, or GLB)")
		configDir     = flag.String("config-dir", ".", "directory containing showcase.cfg.json")
		fpsCap        = flag.Float64("fps-cap", 0, "render frame rate cap (0 = uncapped)")
		forceFallback = flag.Bool("force-fallback-adapter", false, "use the software GPU adapter")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	// ---- Config (optional file; defaults carry the viewer) ----
	if err := config.Load(*configDir); err != nil {
		log.Warn().Err(err).Str("dir", *configDir).Msg("config load failed; proceeding with defaults")
	}
	if level, err := zerolog.ParseLevel(config.GetString("logLevel")); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	windowCfg := config.GetWindowConfig()
	modelCfg := config.GetModelConfig()
	rigCfg := config.GetRigConfig()
	previewCfg := config.GetPreviewConfig()

	path := common.Coalesce(*modelPath, modelCfg.Path)
	if path == "" {
		log.Fatal().Msg("no model to show: pass -model or set model.path in the config")
	}

	// ---- Window ----
	win := window.NewWindow(
		window.WithTitle(windowCfg.Title),
		window.WithWidth(windowCfg.Width),
		window.WithHeight(windowCfg.Height),
	)

	// ---- Renderer ----
	rendererOptions := []renderer.RendererBuilderOption{}
	if *forceFallback {
		rendererOptions = append(rendererOptions, renderer.WithForceFallbackAdapter())
	}
	rend, err := renderer.NewRenderer(renderer.BackendTypeWGPU, win, rendererOptions...)
	if err != nil {
		log.Fatal().Err(err).Msg("renderer init failed")
	}

	// ---- Rig ----
	rigOptions := []rig.RigOption{
		rig.WithRadius(float32(rigCfg.Radius)),
		rig.WithAutoRotateStep(float32(rigCfg.AutoRotateStep)),
		rig.WithDragDivisor(float32(rigCfg.DragDivisor)),
		rig.WithResumeDelay(rigCfg.ResumeDelay),
	}
	if rigCfg.PolarLock {
		rigOptions = append(rigOptions, rig.WithPolarLock(float32(rigCfg.PolarAngle)))
	} else {
		rigOptions = append(rigOptions, rig.WithPolar(float32(rigCfg.PolarAngle)))
	}
	orbit := rig.NewRig(rigOptions...)

	// ---- Stage + camera ----
	productStage := stage.NewStage(
		stage.WithTargetSize(float32(modelCfg.TargetSize)),
		stage.WithTilt(float32(modelCfg.TiltX), float32(modelCfg.TiltZ)),
	)
	cam := camera.NewCamera(
		camera.WithController(orbit),
		camera.WithAspect(float32(win.Width())/float32(win.Height())),
	)

	// ---- Session ----
	sessionOptions := []viewer.SceneSessionOption{
		viewer.WithWindow(win),
		viewer.WithRenderer(rend),
		viewer.WithRig(orbit),
		viewer.WithStage(productStage),
		viewer.WithCamera(cam),
		viewer.WithRenderFrameLimit(*fpsCap),
	}
	if previewCfg.Enabled {
		publisher := preview.NewPublisher()
		publisher.Start(previewCfg.Addr)
		sessionOptions = append(sessionOptions, viewer.WithPreviewPublisher(publisher))
	}

	session, err := viewer.NewSceneSession(sessionOptions...)
	if err != nil {
		log.Fatal().Err(err).Msg("session init failed")
	}

	session.LoadModel(path)

	log.Info().
		Str("model", path).
		Int("width", win.Width()).
		Int("height", win.Height()).
		Msg("showcase starting")
	session.Run()
}
