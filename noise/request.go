package noise

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pthm-cable/noisetex/interp"
)

// ErrInvalidRequest is wrapped by every validation error in this package.
var ErrInvalidRequest = errors.New("invalid generation request")

// Algorithm is the texture family a request asks for.
type Algorithm int

const (
	AlgoPerlin Algorithm = iota
	AlgoCorner
	AlgoWhite
	AlgoSimplex
)

var algorithmNames = [...]string{
	AlgoPerlin:  "perlin",
	AlgoCorner:  "interpolation",
	AlgoWhite:   "white",
	AlgoSimplex: "simplex",
}

func (a Algorithm) String() string {
	if a < 0 || int(a) >= len(algorithmNames) {
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
	return algorithmNames[a]
}

// AlgorithmNames lists the algorithms in panel order.
func AlgorithmNames() []string {
	return algorithmNames[:]
}

// ParseAlgorithm converts a name such as "perlin" to an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	for i, name := range algorithmNames {
		if strings.EqualFold(s, name) {
			return Algorithm(i), nil
		}
	}
	return 0, fmt.Errorf("unknown algorithm %q: %w", s, ErrInvalidRequest)
}

// DefaultTextureSize divides by 3 so the corner sectors line up exactly.
const DefaultTextureSize = 900

// WhiteParams configures white noise.
type WhiteParams struct {
	BlackProbability float64
	RandomSeed       int64 // <= 0 seeds from the clock
}

// Seed returns RandomSeed, or a clock-derived seed when it is not positive.
func (p WhiteParams) Seed() int64 {
	return seedOrClock(p.RandomSeed)
}

// PerlinParams configures Perlin noise.
type PerlinParams struct {
	GridSizeX, GridSizeY int
	StepX, StepY         float32
	OffsetX, OffsetY     float32
	NormalizeOffsets     bool
	Interpolation        Interpolation
	RandomSeed           int64 // <= 0 seeds from the clock
}

// FieldParams converts the request parameters to grid parameters.
func (p PerlinParams) FieldParams() FieldParams {
	return FieldParams{
		GridSizeX:        p.GridSizeX,
		GridSizeY:        p.GridSizeY,
		StepX:            p.StepX,
		StepY:            p.StepY,
		OffsetX:          p.OffsetX,
		OffsetY:          p.OffsetY,
		NormalizeOffsets: p.NormalizeOffsets,
		Interpolation:    p.Interpolation,
	}
}

// Seed returns RandomSeed, or a clock-derived seed when it is not positive.
func (p PerlinParams) Seed() int64 {
	return seedOrClock(p.RandomSeed)
}

func seedOrClock(seed int64) int64 {
	if seed <= 0 {
		return time.Now().UnixNano()
	}
	return seed
}

// CornerParams configures the corner-interpolated texture.
type CornerParams struct {
	Colors    [16]interp.Vec3
	Algorithm CornerAlgorithm
}

// SimplexParams configures OpenSimplex noise.
type SimplexParams struct {
	Scale float64
	Seed  int64
}

// Request is what the parameter panel hands to the generator.
type Request struct {
	Algorithm Algorithm
	Width     int
	Height    int

	White   WhiteParams
	Perlin  PerlinParams
	Corner  CornerParams
	Simplex SimplexParams
}

// DefaultRequest returns the stock parameters for every algorithm.
func DefaultRequest() Request {
	return Request{
		Algorithm: AlgoPerlin,
		Width:     DefaultTextureSize,
		Height:    DefaultTextureSize,
		White:     WhiteParams{BlackProbability: 0.5},
		Perlin: PerlinParams{
			GridSizeX:     31,
			GridSizeY:     31,
			StepX:         30,
			StepY:         30,
			Interpolation: InterpBicubic,
		},
		Corner: CornerParams{
			Colors:    DefaultCornerColors(),
			Algorithm: CornerBicubic,
		},
		Simplex: SimplexParams{Scale: 60, Seed: 1},
	}
}

// Validate checks the fields relevant to the selected algorithm.
func (r Request) Validate() error {
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("texture size %dx%d must be positive: %w", r.Width, r.Height, ErrInvalidRequest)
	}
	switch r.Algorithm {
	case AlgoWhite:
		if r.White.BlackProbability < 0 || r.White.BlackProbability > 1 {
			return fmt.Errorf("black probability %g outside [0,1]: %w", r.White.BlackProbability, ErrInvalidRequest)
		}
	case AlgoPerlin:
		return r.Perlin.FieldParams().validate()
	case AlgoCorner:
		if r.Width < sectorsPerAxis || r.Height < sectorsPerAxis {
			return fmt.Errorf("texture %dx%d smaller than %d sectors: %w", r.Width, r.Height, sectorsPerAxis, ErrInvalidRequest)
		}
		if r.Corner.Algorithm < 0 || int(r.Corner.Algorithm) >= len(cornerAlgorithmNames) {
			return fmt.Errorf("corner algorithm %d: %w", int(r.Corner.Algorithm), ErrInvalidRequest)
		}
	case AlgoSimplex:
		if r.Simplex.Scale <= 0 {
			return fmt.Errorf("simplex scale %g must be positive: %w", r.Simplex.Scale, ErrInvalidRequest)
		}
	default:
		return fmt.Errorf("algorithm %d: %w", int(r.Algorithm), ErrInvalidRequest)
	}
	return nil
}
