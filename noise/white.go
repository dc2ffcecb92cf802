package noise

import (
	"fmt"
	"image/color"
	"math/rand"
)

// White draws every channel of every pixel independently: black with
// probability BlackProbability, full intensity otherwise.
// It owns a single RNG and must not be sampled from several goroutines.
type White struct {
	blackProb float64
	rng       *rand.Rand
}

// NewWhite creates a white noise sampler.
func NewWhite(blackProbability float64, seed int64) (*White, error) {
	if blackProbability < 0 || blackProbability > 1 {
		return nil, fmt.Errorf("black probability %g outside [0,1]: %w", blackProbability, ErrInvalidRequest)
	}
	return &White{
		blackProb: blackProbability,
		rng:       rand.New(rand.NewSource(seed)),
	}, nil
}

func (w *White) channel() uint8 {
	if w.rng.Float64() < w.blackProb {
		return 0
	}
	return 255
}

// Sample returns the next random pixel. Coordinates are ignored.
func (w *White) Sample(_, _ int) color.RGBA {
	return color.RGBA{R: w.channel(), G: w.channel(), B: w.channel(), A: 255}
}
