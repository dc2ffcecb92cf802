// Package app drives texture generation through an ECS world: one entity per
// texture, a Generation component while its job runs, and overlay entities
// for the inspection aids. It has no rendering dependency; the graphical
// shell in package game and the headless runner both sit on top of it.
package app

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/noisetex/components"
	"github.com/pthm-cable/noisetex/generation"
	"github.com/pthm-cable/noisetex/noise"
	"github.com/pthm-cable/noisetex/surface"
	"github.com/pthm-cable/noisetex/telemetry"
)

// FinishedEvent is delivered to OnFinished listeners when a texture is
// complete. Cancelled generations produce no event.
type FinishedEvent struct {
	Record telemetry.GenerationRecord
	Result generation.Result
	Stats  telemetry.TextureStats
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger for the app and its jobs.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) { a.logger = l }
}

// WithBudget sets the wall time the main goroutine spends per Update.
func WithBudget(d time.Duration) Option {
	return func(a *App) { a.budget = d }
}

// WithThreads sets the number of column ranges per job.
func WithThreads(k int) Option {
	return func(a *App) { a.threads = k }
}

// WithOutput records every finished generation to om.
func WithOutput(om *telemetry.OutputManager) Option {
	return func(a *App) { a.output = om }
}

// WithStatsStride samples every nth pixel for texture statistics.
func WithStatsStride(n int) Option {
	return func(a *App) { a.statsStride = n }
}

// WithGlyphSize sets the gradient glyph side used to cap overlay scale.
func WithGlyphSize(px float32) Option {
	return func(a *App) { a.glyphSize = px }
}

// App owns the ECS world and every running job.
type App struct {
	world *ecs.World

	perlinMapper *ecs.Map2[components.Texture, components.PerlinInfo]
	cornerMapper *ecs.Map2[components.Texture, components.CornerInfo]
	textureMap   *ecs.Map1[components.Texture]
	genMap       *ecs.Map1[components.Generation]
	gradientMap  *ecs.Map1[components.GradientOverlay]
	truePixMap   *ecs.Map1[components.TruePixelOverlay]

	textureFilter  *ecs.Filter1[components.Texture]
	genFilter      *ecs.Filter2[components.Texture, components.Generation]
	perlinFilter   *ecs.Filter2[components.Texture, components.PerlinInfo]
	cornerFilter   *ecs.Filter2[components.Texture, components.CornerInfo]
	gradientFilter *ecs.Filter1[components.GradientOverlay]
	truePixFilter  *ecs.Filter1[components.TruePixelOverlay]

	logger      *slog.Logger
	output      *telemetry.OutputManager
	budget      time.Duration
	threads     int
	statsStride int
	glyphSize   float32

	listeners []func(FinishedEvent)
	seq       int
	last      *FinishedEvent
}

// New creates an app with an empty world.
func New(opts ...Option) *App {
	world := ecs.NewWorld()
	a := &App{
		world:          world,
		perlinMapper:   ecs.NewMap2[components.Texture, components.PerlinInfo](world),
		cornerMapper:   ecs.NewMap2[components.Texture, components.CornerInfo](world),
		textureMap:     ecs.NewMap1[components.Texture](world),
		genMap:         ecs.NewMap1[components.Generation](world),
		gradientMap:    ecs.NewMap1[components.GradientOverlay](world),
		truePixMap:     ecs.NewMap1[components.TruePixelOverlay](world),
		textureFilter:  ecs.NewFilter1[components.Texture](world),
		genFilter:      ecs.NewFilter2[components.Texture, components.Generation](world),
		perlinFilter:   ecs.NewFilter2[components.Texture, components.PerlinInfo](world),
		cornerFilter:   ecs.NewFilter2[components.Texture, components.CornerInfo](world),
		gradientFilter: ecs.NewFilter1[components.GradientOverlay](world),
		truePixFilter:  ecs.NewFilter1[components.TruePixelOverlay](world),
		logger:         slog.Default(),
		budget:         generation.DefaultBudget,
		threads:        generation.NumThreads,
		statsStride:    1,
		glyphSize:      50,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// OnFinished registers a listener for completed generations.
func (a *App) OnFinished(fn func(FinishedEvent)) {
	a.listeners = append(a.listeners, fn)
}

// LastFinished returns the most recent completion event, if any.
func (a *App) LastFinished() (FinishedEvent, bool) {
	if a.last == nil {
		return FinishedEvent{}, false
	}
	return *a.last, true
}

// Request cancels any running generation, drops the current texture and
// starts generating req. Perlin and simplex textures are generated by a
// background job advanced by Update; white and corner textures are written
// synchronously and reported before Request returns.
func (a *App) Request(req noise.Request) error {
	if err := req.Validate(); err != nil {
		return err
	}

	a.cancel()
	a.clearOverlays()
	a.seq++

	surf := surface.New(req.Width, req.Height)
	tex := components.Texture{Surface: surf, Request: req, Seq: a.seq}
	log := a.logger.With("seq", a.seq, "algorithm", req.Algorithm.String())

	switch req.Algorithm {
	case noise.AlgoPerlin:
		start := time.Now()
		tex.Seed = req.Perlin.Seed()
		field, err := noise.NewVectorField(req.Perlin.FieldParams(), rand.New(rand.NewSource(tex.Seed)))
		if err != nil {
			return err
		}
		perlin := noise.NewPerlin(field)
		entity := a.perlinMapper.NewEntity(&tex, &components.PerlinInfo{Field: field})
		a.startJob(entity, surf, perlin, time.Since(start))
		log.Info("perlin generation started", "seed", tex.Seed,
			"grid_x", req.Perlin.GridSizeX, "grid_y", req.Perlin.GridSizeY,
			"interpolation", req.Perlin.Interpolation.String())

	case noise.AlgoSimplex:
		simplex, err := noise.NewSimplex(req.Simplex.Scale, req.Simplex.Seed)
		if err != nil {
			return err
		}
		tex.Seed = req.Simplex.Seed
		entity := a.textureMap.NewEntity(&tex)
		a.startJob(entity, surf, simplex, 0)
		log.Info("simplex generation started", "seed", tex.Seed, "scale", req.Simplex.Scale)

	case noise.AlgoWhite:
		tex.Seed = req.White.Seed()
		white, err := noise.NewWhite(req.White.BlackProbability, tex.Seed)
		if err != nil {
			return err
		}
		a.textureMap.NewEntity(&tex)
		res := generation.GenerateSync(surf, white)
		a.finish(tex, res)

	case noise.AlgoCorner:
		corner, err := noise.NewCornerInterpolated(req.Corner.Colors, req.Corner.Algorithm, req.Width, req.Height)
		if err != nil {
			return err
		}
		a.cornerMapper.NewEntity(&tex, &components.CornerInfo{Colors: corner.Colors()})
		res := generation.GenerateSync(surf, corner)
		a.finish(tex, res)

	default:
		return fmt.Errorf("algorithm %v: %w", req.Algorithm, noise.ErrInvalidRequest)
	}
	return nil
}

func (a *App) startJob(entity ecs.Entity, surf *surface.Surface, s generation.Sampler, setup time.Duration) {
	job := generation.NewJob(surf, s,
		generation.WithLogger(a.logger.With("seq", a.seq)),
		generation.WithThreads(a.threads),
		generation.WithSetup(setup),
	)
	a.genMap.Add(entity, &components.Generation{Job: job, Started: time.Now()})
}

// cancel aborts running jobs and removes every texture entity.
func (a *App) cancel() {
	var running []ecs.Entity
	query := a.genFilter.Query()
	for query.Next() {
		tex, gen := query.Get()
		gen.Job.Abort()
		a.logger.Info("generation cancelled", "seq", tex.Seq)
		running = append(running, query.Entity())
	}
	for _, e := range running {
		a.genMap.Remove(e)
	}

	var textures []ecs.Entity
	texQuery := a.textureFilter.Query()
	for texQuery.Next() {
		textures = append(textures, texQuery.Entity())
	}
	a.removeEntities(textures)
}

// Generating reports whether a job is in flight.
func (a *App) Generating() bool {
	n := 0
	query := a.genFilter.Query()
	for query.Next() {
		n++
	}
	return n > 0
}

// Texture returns the current texture, if any.
func (a *App) Texture() (components.Texture, bool) {
	var (
		tex   components.Texture
		found bool
	)
	query := a.textureFilter.Query()
	for query.Next() {
		tex = *query.Get()
		found = true
	}
	return tex, found
}

// Shutdown aborts and joins every running job.
func (a *App) Shutdown() {
	a.cancel()
	a.clearOverlays()
}
