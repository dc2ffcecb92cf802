// Package noise implements the texture samplers: Perlin noise over a random
// gradient grid, corner-color interpolation, white noise and OpenSimplex.
package noise

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/pthm-cable/noisetex/interp"
)

// Interpolation selects how Perlin node contributions are combined.
type Interpolation int

const (
	InterpBilinear Interpolation = iota
	InterpBicubic
	InterpBicubicZero
	InterpNearestNeighbor
)

var interpolationNames = [...]string{
	InterpBilinear:        "bilinear",
	InterpBicubic:         "bicubic",
	InterpBicubicZero:     "bicubic_zero",
	InterpNearestNeighbor: "nearest_neighbor",
}

func (i Interpolation) String() string {
	if i < 0 || int(i) >= len(interpolationNames) {
		return fmt.Sprintf("Interpolation(%d)", int(i))
	}
	return interpolationNames[i]
}

// ParseInterpolation converts a name such as "bicubic_zero" to an Interpolation.
func ParseInterpolation(s string) (Interpolation, error) {
	for i, name := range interpolationNames {
		if strings.EqualFold(s, name) {
			return Interpolation(i), nil
		}
	}
	return 0, fmt.Errorf("unknown interpolation %q: %w", s, ErrInvalidRequest)
}

// margin is the number of extra grid cells each side the algorithm needs
// around the cell containing the query point.
func (i Interpolation) margin() int {
	switch i {
	case InterpBilinear, InterpNearestNeighbor:
		return 0
	case InterpBicubic, InterpBicubicZero:
		return 1
	default:
		panic(fmt.Sprintf("noise: unknown interpolation %d", int(i)))
	}
}

// FieldParams describes the gradient grid backing a Perlin evaluator.
type FieldParams struct {
	GridSizeX, GridSizeY int
	StepX, StepY         float32
	OffsetX, OffsetY     float32
	NormalizeOffsets     bool
	Interpolation        Interpolation
}

func (p FieldParams) validate() error {
	if p.GridSizeX <= 0 || p.GridSizeY <= 0 {
		return fmt.Errorf("grid size %dx%d must be positive: %w", p.GridSizeX, p.GridSizeY, ErrInvalidRequest)
	}
	if !(p.StepX > 0) || !(p.StepY > 0) {
		return fmt.Errorf("grid step %gx%g must be positive: %w", p.StepX, p.StepY, ErrInvalidRequest)
	}
	if p.Interpolation < 0 || int(p.Interpolation) >= len(interpolationNames) {
		return fmt.Errorf("interpolation %d: %w", int(p.Interpolation), ErrInvalidRequest)
	}
	return nil
}

// VectorField is an immutable grid of gradient directions.
// It is safe for concurrent reads.
type VectorField struct {
	params    FieldParams
	gradients []interp.Vec2
}

// NewVectorField fills a GridSizeX*GridSizeY grid with unit vectors at
// uniformly random angles in [0, 2π).
func NewVectorField(p FieldParams, rng *rand.Rand) (*VectorField, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	grads := make([]interp.Vec2, p.GridSizeX*p.GridSizeY)
	for i := range grads {
		angle := rng.Float64() * 2 * math.Pi
		grads[i] = interp.Vec2{X: float32(math.Cos(angle)), Y: float32(math.Sin(angle))}
	}
	return &VectorField{params: p, gradients: grads}, nil
}

// NewVectorFieldFromGradients builds a field from explicit gradients laid out
// row by row (index = x + y*GridSizeX).
func NewVectorFieldFromGradients(p FieldParams, gradients []interp.Vec2) (*VectorField, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if len(gradients) != p.GridSizeX*p.GridSizeY {
		return nil, fmt.Errorf("got %d gradients for a %dx%d grid: %w",
			len(gradients), p.GridSizeX, p.GridSizeY, ErrInvalidRequest)
	}
	grads := make([]interp.Vec2, len(gradients))
	copy(grads, gradients)
	return &VectorField{params: p, gradients: grads}, nil
}

// Params returns the parameters the field was built with.
func (f *VectorField) Params() FieldParams {
	return f.params
}

// Gradient returns the direction stored at grid node (ix, iy).
func (f *VectorField) Gradient(ix, iy int) interp.Vec2 {
	return f.gradients[ix+iy*f.params.GridSizeX]
}

// NodePosition returns the position of node (ix, iy) relative to the offset.
func (f *VectorField) NodePosition(ix, iy int) interp.Vec2 {
	return interp.Vec2{X: f.params.StepX * float32(ix), Y: f.params.StepY * float32(iy)}
}

// Extent returns the pixel size covered by the grid, including the offset.
func (f *VectorField) Extent() (w, h float32) {
	p := f.params
	return p.OffsetX + p.StepX*float32(p.GridSizeX-1), p.OffsetY + p.StepY*float32(p.GridSizeY-1)
}
