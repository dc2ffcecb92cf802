// Package game is the interactive texture viewer: a raylib window with the
// parameter panel on the left and the texture under an inspection camera.
package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/noisetex/app"
	"github.com/pthm-cable/noisetex/camera"
	"github.com/pthm-cable/noisetex/config"
	"github.com/pthm-cable/noisetex/noise"
	"github.com/pthm-cable/noisetex/renderer"
	"github.com/pthm-cable/noisetex/telemetry"
	"github.com/pthm-cable/noisetex/ui"
)

// Options configures the viewer.
type Options struct {
	OutputDir string // CSV logs and config snapshot; empty disables
	LogPerf   bool   // Log frame timing every perf window
}

// Game holds the viewer state.
type Game struct {
	app    *app.App
	camera *camera.Camera
	logger *slog.Logger

	// Rendering
	view      *renderer.TextureView
	gradients *renderer.GradientRenderer
	truePix   *renderer.TruePixelRenderer

	// UI
	overlays  *ui.OverlayRegistry
	params    *ui.ParamPanel
	controls  *ui.ControlsPanel
	hud       *ui.HUD
	perfPanel *ui.PerfPanel
	inspector *ui.Inspector

	// Telemetry
	perf          *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	logPerf       bool
	frame         int64

	lastEvent    app.FinishedEvent
	hasEvent     bool
	fittedW      int
	fittedH      int
	screenWidth  float32
	screenHeight float32
}

// NewGameWithOptions creates the viewer and requests the initial texture.
// The raylib window must already be open.
func NewGameWithOptions(opts Options, initial noise.Request) (*Game, error) {
	cfg := config.Cfg()
	logger := slog.Default()

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := om.WriteConfig(cfg); err != nil {
		logger.Warn("failed to write config snapshot", "error", err)
	}

	screenW := float32(rl.GetScreenWidth())
	screenH := float32(rl.GetScreenHeight())
	panelW := float32(cfg.Screen.PanelWidth)

	cam := camera.New(screenW-panelW, screenH, camera.Settings{
		ZoomStep:          float32(cfg.Camera.ZoomStep),
		MinZoom:           float32(cfg.Camera.MinZoom),
		MaxZoom:           float32(cfg.Camera.MaxZoom),
		PanSpeed:          float32(cfg.Camera.PanSpeed),
		FastPanMultiplier: float32(cfg.Camera.FastPanMultiplier),
	})
	cam.SetViewport(panelW, 0, screenW-panelW, screenH)

	gc := cfg.Overlay.GradientColor
	g := &Game{
		app: app.New(
			app.WithLogger(logger),
			app.WithBudget(cfg.Derived.TimeBudget),
			app.WithThreads(cfg.Generation.Threads),
			app.WithOutput(om),
			app.WithStatsStride(cfg.Telemetry.StatsStride),
			app.WithGlyphSize(float32(cfg.Overlay.GradientGlyphSize)),
		),
		camera: cam,
		logger: logger,
		view:   renderer.NewTextureView(),
		gradients: &renderer.GradientRenderer{
			GlyphSize: float32(cfg.Overlay.GradientGlyphSize),
			LineWidth: float32(cfg.Overlay.GradientLineWidth),
			Color:     rl.Color{R: gc[0], G: gc[1], B: gc[2], A: gc[3]},
		},
		truePix:       &renderer.TruePixelRenderer{Border: rl.Black},
		overlays:      ui.NewOverlayRegistry(),
		params:        ui.NewParamPanel(0, 0, int32(panelW), int32(screenH), initial),
		controls:      ui.NewControlsPanel(int32(screenW)-210, 10, 200),
		hud:           ui.NewHUD(int32(panelW)+10, 10),
		perfPanel:     ui.NewPerfPanel(int32(screenW)-250, int32(screenH)-130),
		inspector:     ui.NewInspector(int32(screenW)-210, 150, 200),
		perf:          telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		outputManager: om,
		logPerf:       opts.LogPerf,
		screenWidth:   screenW,
		screenHeight:  screenH,
	}
	g.app.OnFinished(g.onFinished)

	if err := g.requestTexture(initial); err != nil {
		g.Unload()
		return nil, err
	}
	return g, nil
}

// Update runs input, the generation slice and the snapshot for one frame.
func (g *Game) Update() {
	g.perf.StartFrame()

	g.perf.StartPhase(telemetry.PhaseInput)
	g.handleInput()

	g.perf.StartPhase(telemetry.PhaseGeneration)
	g.app.Update()

	g.perf.StartPhase(telemetry.PhasePrepareDraw)
	if tex, ok := g.app.Texture(); ok {
		g.view.Ensure(tex.Surface.Width(), tex.Surface.Height())
		g.app.PrepareDraw(g.view)
	}
}

// requestTexture starts a new generation and resets texture overlays,
// which the app drops with the old texture.
func (g *Game) requestTexture(req noise.Request) error {
	if err := g.app.Request(req); err != nil {
		return err
	}
	g.overlays.SetEnabled(ui.OverlayGradients, false)
	g.overlays.SetEnabled(ui.OverlayTruePixels, false)

	if req.Width != g.fittedW || req.Height != g.fittedH {
		g.camera.FitTo(float32(req.Width), float32(req.Height))
		g.fittedW, g.fittedH = req.Width, req.Height
	}
	return nil
}

func (g *Game) onFinished(ev app.FinishedEvent) {
	g.lastEvent = ev
	g.hasEvent = true
}

// Unload aborts generation and frees resources.
func (g *Game) Unload() {
	g.app.Shutdown()
	g.view.Unload()
	if err := g.outputManager.Close(); err != nil {
		g.logger.Error("failed to close output", "error", err)
	}
}
