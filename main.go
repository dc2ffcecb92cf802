package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/noisetex/app"
	"github.com/pthm-cable/noisetex/config"
	"github.com/pthm-cable/noisetex/export"
	"github.com/pthm-cable/noisetex/game"
	"github.com/pthm-cable/noisetex/noise"
	"github.com/pthm-cable/noisetex/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Generate one texture without a window")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	exportPath := flag.String("export", "", "Headless: write the texture to this .png or .bmp file")
	algorithm := flag.String("algorithm", "", "Override defaults.algorithm (perlin, interpolation, white, simplex)")
	seed := flag.Int64("seed", 0, "Override the seed of the selected algorithm (0 = keep config)")
	width := flag.Int("width", 0, "Override texture width (0 = keep config)")
	height := flag.Int("height", 0, "Override texture height (0 = keep config)")
	timeout := flag.Duration("timeout", 0, "Headless: abort generation after this long (0 = no limit)")
	logPerf := flag.Bool("log-perf", false, "Log frame timing every perf window")
	debug := flag.Bool("debug", false, "Enable debug logging")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	req, err := app.RequestFromConfig(cfg)
	if err != nil {
		slog.Error("invalid default request", "error", err)
		os.Exit(1)
	}
	if *algorithm != "" {
		if req.Algorithm, err = noise.ParseAlgorithm(*algorithm); err != nil {
			slog.Error("invalid -algorithm", "error", err)
			os.Exit(1)
		}
	}
	if *width > 0 {
		req.Width = *width
	}
	if *height > 0 {
		req.Height = *height
	}
	if *seed != 0 {
		applySeed(&req, *seed)
	}

	if *headless {
		if err := runHeadless(req, *outputDir, *exportPath, *timeout); err != nil {
			slog.Error("headless generation failed", "error", err)
			os.Exit(1)
		}
		return
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Noise Textures")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGameWithOptions(game.Options{OutputDir: *outputDir, LogPerf: *logPerf}, req)
	if err != nil {
		slog.Error("failed to start viewer", "error", err)
		return
	}
	defer g.Unload()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()
	}
}

func applySeed(req *noise.Request, seed int64) {
	switch req.Algorithm {
	case noise.AlgoPerlin:
		req.Perlin.RandomSeed = seed
	case noise.AlgoWhite:
		req.White.RandomSeed = seed
	case noise.AlgoSimplex:
		req.Simplex.Seed = seed
	}
}

// runHeadless generates req with the same scheduler as the viewer and
// optionally exports the result. Ctrl-C aborts the job.
func runHeadless(req noise.Request, outputDir, exportPath string, timeout time.Duration) error {
	cfg := config.Cfg()

	om, err := telemetry.NewOutputManager(outputDir)
	if err != nil {
		return err
	}
	defer om.Close()
	if err := om.WriteConfig(cfg); err != nil {
		slog.Warn("failed to write config snapshot", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	a := app.New(
		app.WithLogger(slog.Default()),
		app.WithBudget(cfg.Derived.TimeBudget),
		app.WithThreads(cfg.Generation.Threads),
		app.WithOutput(om),
		app.WithStatsStride(cfg.Telemetry.StatsStride),
	)
	defer a.Shutdown()

	slog.Info("starting headless generation",
		"algorithm", req.Algorithm.String(),
		"width", req.Width,
		"height", req.Height,
		"threads", cfg.Generation.Threads,
	)
	ev, err := a.RunHeadless(ctx, req)
	if err != nil {
		return err
	}

	if exportPath != "" {
		tex, _ := a.Texture()
		if err := export.Write(exportPath, tex.Surface.Image(), cfg.Export.Scale); err != nil {
			return err
		}
		slog.Info("texture exported", "path", exportPath, "seq", ev.Record.Sequence)
	}
	return nil
}
