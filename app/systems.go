package app

import (
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/noisetex/components"
	"github.com/pthm-cable/noisetex/generation"
	"github.com/pthm-cable/noisetex/noise"
	"github.com/pthm-cable/noisetex/surface"
	"github.com/pthm-cable/noisetex/telemetry"
)

// Update advances the running job by one time slice. It returns true when a
// texture finished during this call.
func (a *App) Update() bool {
	type finished struct {
		entity ecs.Entity
		tex    components.Texture
		res    generation.Result
	}
	var done []finished

	query := a.genFilter.Query()
	for query.Next() {
		tex, gen := query.Get()
		if gen.Job.Continue(a.budget) {
			done = append(done, finished{entity: query.Entity(), tex: *tex, res: gen.Job.Finished()})
		}
	}

	for _, f := range done {
		a.genMap.Remove(f.entity)
		a.finish(f.tex, f.res)
	}
	return len(done) > 0
}

// PrepareDraw publishes the current texture to dst. It must be called from
// the same goroutine as Update, once per frame.
func (a *App) PrepareDraw(dst surface.Bitmap) bool {
	tex, ok := a.Texture()
	if !ok {
		return false
	}
	return tex.Surface.PrepareForDraw(dst)
}

// finish records a completed texture and notifies listeners.
func (a *App) finish(tex components.Texture, res generation.Result) {
	// Sync-generated textures are never snapshotted by a job.
	tex.Surface.MarkModified()

	stats := telemetry.ComputeTextureStats(tex.Surface.WorkingCopy(), a.statsStride)
	rec := telemetry.GenerationRecord{
		Finished:  time.Now(),
		Sequence:  tex.Seq,
		Algorithm: tex.Request.Algorithm.String(),
		Width:     tex.Request.Width,
		Height:    tex.Request.Height,
		Seed:      tex.Seed,
		Threads:   a.threadsFor(tex.Request.Algorithm),
		CPUSec:    res.SecondsCPU(),
		WallSec:   res.Wall.Seconds(),
	}
	switch tex.Request.Algorithm {
	case noise.AlgoPerlin:
		rec.Interpolation = tex.Request.Perlin.Interpolation.String()
	case noise.AlgoCorner:
		rec.Interpolation = tex.Request.Corner.Algorithm.String()
	}
	rec.SetStats(stats)

	a.logger.Info("texture generated", "record", rec, "stats", stats)
	if err := a.output.WriteGeneration(rec); err != nil {
		a.logger.Warn("failed to write generation record", "error", err)
	}

	ev := FinishedEvent{Record: rec, Result: res, Stats: stats}
	a.last = &ev
	for _, fn := range a.listeners {
		fn(ev)
	}
}

func (a *App) threadsFor(algo noise.Algorithm) int {
	switch algo {
	case noise.AlgoPerlin, noise.AlgoSimplex:
		return a.threads
	default:
		return 1
	}
}
