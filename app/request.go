package app

import (
	"fmt"

	"github.com/pthm-cable/noisetex/config"
	"github.com/pthm-cable/noisetex/interp"
	"github.com/pthm-cable/noisetex/noise"
)

// RequestFromConfig builds the initial request from the defaults section.
func RequestFromConfig(cfg *config.Config) (noise.Request, error) {
	d := cfg.Defaults
	req := noise.DefaultRequest()

	algo, err := noise.ParseAlgorithm(d.Algorithm)
	if err != nil {
		return req, fmt.Errorf("defaults.algorithm: %w", err)
	}
	req.Algorithm = algo
	req.Width = d.Width
	req.Height = d.Height

	req.White.BlackProbability = d.White.BlackProbability
	req.White.RandomSeed = d.White.RandomSeed

	interpolation, err := noise.ParseInterpolation(d.Perlin.Interpolation)
	if err != nil {
		return req, fmt.Errorf("defaults.perlin.interpolation: %w", err)
	}
	req.Perlin = noise.PerlinParams{
		GridSizeX:        d.Perlin.GridSize[0],
		GridSizeY:        d.Perlin.GridSize[1],
		StepX:            float32(d.Perlin.GridStep[0]),
		StepY:            float32(d.Perlin.GridStep[1]),
		OffsetX:          float32(d.Perlin.Offset[0]),
		OffsetY:          float32(d.Perlin.Offset[1]),
		NormalizeOffsets: d.Perlin.NormalizeOffsets,
		Interpolation:    interpolation,
		RandomSeed:       d.Perlin.RandomSeed,
	}

	cornerAlgo, err := noise.ParseCornerAlgorithm(d.Corner.Algorithm)
	if err != nil {
		return req, fmt.Errorf("defaults.corner.algorithm: %w", err)
	}
	req.Corner.Algorithm = cornerAlgo
	if len(d.Corner.Colors) == len(req.Corner.Colors) {
		for i, c := range d.Corner.Colors {
			req.Corner.Colors[i] = interp.Vec3{X: float32(c[0]), Y: float32(c[1]), Z: float32(c[2])}
		}
	}

	req.Simplex = noise.SimplexParams{Scale: d.Simplex.Scale, Seed: d.Simplex.Seed}

	if err := req.Validate(); err != nil {
		return req, fmt.Errorf("defaults: %w", err)
	}
	return req, nil
}
