// Command oxy-flock opens a window with the scroll and pointer reactive flock scene.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Carmen-Shannon/oxy-flock/common"
	"github.com/Carmen-Shannon/oxy-flock/config"
	"github.com/Carmen-Shannon/oxy-flock/engine"
	"github.com/Carmen-Shannon/oxy-flock/engine/camera"
	"github.com/Carmen-Shannon/oxy-flock/engine/flock"
	"github.com/Carmen-Shannon/oxy-flock/engine/input"
	"github.com/Carmen-Shannon/oxy-flock/engine/label"
	"github.com/Carmen-Shannon/oxy-flock/engine/light"
	"github.com/Carmen-Shannon/oxy-flock/engine/loader"
	"github.com/Carmen-Shannon/oxy-flock/engine/panel"
	"github.com/Carmen-Shannon/oxy-flock/engine/particle"
	"github.com/Carmen-Shannon/oxy-flock/engine/renderer"
	"github.com/Carmen-Shannon/oxy-flock/engine/renderer/wgpu_renderer"
	"github.com/Carmen-Shannon/oxy-flock/engine/scene"
	"github.com/Carmen-Shannon/oxy-flock/engine/theme"
	"github.com/Carmen-Shannon/oxy-flock/engine/window"
	"github.com/go-gl/mathgl/mgl32"
)

func main() {
	configPath := flag.String("config", "oxy-flock.yaml", "path to the YAML configuration")
	headless := flag.Bool("headless", false, "tick the scene without a window or renderer")
	writeConfig := flag.String("write-config", "", "write the effective configuration to this path and exit")
	flag.Parse()

	if *writeConfig != "" {
		if err := dumpConfig(*configPath, *writeConfig); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}
	if err := run(*configPath, *headless); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// dumpConfig writes the configuration loaded from configPath, defaults included, to out.
func dumpConfig(configPath, out string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	return config.Save(cfg, out)
}

func run(configPath string, headless bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger, err := common.NewLogger(os.Stderr, cfg.LogLevel)
	if err != nil {
		return err
	}

	ld := loader.NewLoader(loader.BackendTypeGLTF,
		loader.WithAssets(cfg.Scene.Assets),
		loader.WithLogger(logger),
	)
	defer ld.Close()

	palette, err := flock.ParsePalette(cfg.Theme.Palette)
	if err != nil {
		return err
	}
	gen := flock.NewGenerator(ld,
		flock.WithPalette(palette),
		flock.WithSeed(cfg.Scene.Seed),
		flock.WithLogger(logger),
	)

	lightPreset, darkPreset, err := theme.PresetsFromConfig(cfg.Theme)
	if err != nil {
		return err
	}
	machine := theme.NewMachine(
		theme.WithPresets(lightPreset, darkPreset),
		theme.WithDriftStep(cfg.Theme.DriftStep),
		theme.WithRotationJitter(cfg.Theme.RotationJitter),
		theme.WithLogger(logger),
	)

	width, height := cfg.Window.Width, cfg.Window.Height
	cam := camera.NewCamera(
		camera.WithPosition(mgl32.Vec3{0, 0, cfg.Camera.Distance}),
		camera.WithTarget(mgl32.Vec3{0, 0, 0}),
		camera.WithFov(common.Radians(cfg.Camera.FovDegrees)),
		camera.WithAspect(float32(width)/float32(max(height, 1))),
	)
	rig := camera.NewRig(
		camera.WithParallaxGain(cfg.Camera.ParallaxGain),
		camera.WithSmoothing(cfg.Camera.Smoothing),
		camera.WithMaxDelta(cfg.Camera.MaxDelta),
		camera.WithObjectDistance(cfg.Scene.ObjectDistance),
	)
	field := particle.NewField(
		particle.WithCount(cfg.Particles.Count),
		particle.WithSpread(cfg.Particles.Spread),
		particle.WithLayout(cfg.Scene.ObjectDistance, cfg.Scene.Sections),
		particle.WithTint(lightPreset.ParticleTint),
	)
	state := input.NewState(
		input.WithViewport(width, height),
		input.WithSections(cfg.Scene.Sections),
	)

	pnl := panel.NewPanel(panel.ParamsFromConfig(cfg.Scene))
	if cfg.Panel.ParamsFile != "" {
		watcher, err := panel.NewFileWatcher(cfg.Panel.ParamsFile, pnl, panel.WithLogger(logger))
		if err != nil {
			return err
		}
		if err := watcher.Start(); err != nil {
			return err
		}
		defer watcher.Close()
	}

	sceneOptions := []scene.SceneBuilderOption{
		scene.WithCamera(cam),
		scene.WithLight(light.NewLight()),
		scene.WithField(field),
		scene.WithBackground(lightPreset.Background),
		scene.WithLogger(logger),
	}
	engineOptions := []engine.EngineBuilderOption{
		engine.WithGenerator(gen, cfg.AssetNames()...),
		engine.WithInput(state),
		engine.WithRig(rig),
		engine.WithThemeMachine(machine),
		engine.WithPanel(pnl),
		engine.WithLabel(label.NewTerminalLabel()),
		engine.WithTickRate(float64(cfg.Render.TickRate)),
		engine.WithMaxDelta(cfg.Camera.MaxDelta),
		engine.WithProfiling(cfg.Render.Profiling),
		engine.WithLogger(logger),
	}

	if headless {
		sc := scene.NewScene(sceneOptions...)
		defer sc.Release()
		eng, err := engine.NewEngine(append(engineOptions, engine.WithScene(sc))...)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		logger.Info("running headless", "tick_rate", cfg.Render.TickRate)
		return eng.RunHeadless(ctx)
	}

	win, err := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(width, height),
		window.WithMinSize(480, 320),
	)
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}

	rnd, err := newRenderer(cfg, win, ld, logger)
	if err != nil {
		_ = win.Close()
		return err
	}
	defer rnd.Release()

	sc := scene.NewScene(append(sceneOptions, scene.WithRenderer(rnd))...)
	defer sc.Release()

	eng, err := engine.NewEngine(append(engineOptions,
		engine.WithScene(sc),
		engine.WithWindow(win),
	)...)
	if err != nil {
		return err
	}
	return eng.Run()
}

func newRenderer(cfg *config.Config, win window.Window, ld loader.Loader, logger *slog.Logger) (renderer.Renderer, error) {
	options := []wgpu_renderer.RendererBuilderOption{
		wgpu_renderer.WithPresentMode(renderer.PresentModeFor(cfg.Render.VSync)),
		wgpu_renderer.WithMSAA(renderer.MSAAFor(cfg.Render.Antialias)),
		wgpu_renderer.WithForceSoftwareRenderer(cfg.Render.ForceSoftware),
		wgpu_renderer.WithSpriteTexture(loader.LoadTextureOrWhite(ld, cfg.Scene.SpriteTexture, logger)),
		wgpu_renderer.WithRampTexture(loader.LoadTextureOrWhite(ld, cfg.Scene.RampTexture, logger)),
		wgpu_renderer.WithLogger(logger),
	}

	rnd, err := wgpu_renderer.NewRenderer(win.SurfaceDescriptor(), win.Width(), win.Height(), options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	return rnd, nil
}
