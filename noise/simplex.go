package noise

import (
	"fmt"
	"image/color"

	"github.com/ojrac/opensimplex-go"
)

// Simplex samples normalized OpenSimplex noise as a grey texture.
// Evaluation only reads the permutation tables, so it is safe to share.
type Simplex struct {
	noise opensimplex.Noise
	scale float64
}

// NewSimplex creates a sampler where one noise unit spans scale pixels.
func NewSimplex(scale float64, seed int64) (*Simplex, error) {
	if scale <= 0 {
		return nil, fmt.Errorf("simplex scale %g must be positive: %w", scale, ErrInvalidRequest)
	}
	return &Simplex{noise: opensimplex.NewNormalized(seed), scale: scale}, nil
}

// Evaluate returns the noise value at (x, y) in [0, 1].
func (s *Simplex) Evaluate(x, y float64) float32 {
	return clamp01(float32(s.noise.Eval2(x/s.scale, y/s.scale)))
}

// Sample returns the grey pixel at (x, y).
func (s *Simplex) Sample(x, y int) color.RGBA {
	b := uint8(255 * s.Evaluate(float64(x), float64(y)))
	return color.RGBA{R: b, G: b, B: b, A: 255}
}
