package game

import (
	"fmt"
	"path/filepath"

	"github.com/pthm-cable/noisetex/config"
	"github.com/pthm-cable/noisetex/export"
)

// flushPerf writes frame timing once per perf window.
func (g *Game) flushPerf() {
	window := int64(config.Cfg().Telemetry.PerfCollectorWindow)
	if window <= 0 || g.frame%window != 0 {
		return
	}

	stats := g.perf.Stats()
	if g.logPerf {
		g.logger.Info("frame timing", "frame", g.frame, "perf", stats)
	}
	if err := g.outputManager.WritePerf(stats, g.frame); err != nil {
		g.logger.Error("failed to write perf", "error", err)
	}
}

// exportTexture saves the presented texture. Textures still generating are
// skipped so partial images are never written.
func (g *Game) exportTexture() {
	tex, ok := g.app.Texture()
	if !ok {
		return
	}
	if g.app.Generating() {
		g.logger.Info("export skipped, texture still generating", "seq", tex.Seq)
		return
	}

	cfg := config.Cfg().Export
	name := fmt.Sprintf("texture_%03d_%s.%s", tex.Seq, tex.Request.Algorithm, cfg.Format)
	path := filepath.Join(cfg.Dir, name)
	if err := export.Write(path, tex.Surface.Image(), cfg.Scale); err != nil {
		g.logger.Error("export failed", "path", path, "error", err)
		return
	}
	g.logger.Info("texture exported", "path", path, "scale", cfg.Scale)
}
