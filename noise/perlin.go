package noise

import (
	"fmt"
	"image/color"
	"math"

	"github.com/pthm-cable/noisetex/interp"
)

// Perlin samples gradient noise from a VectorField.
// Evaluation is deterministic and allocation-free, so one Perlin value can be
// shared by every generation worker.
type Perlin struct {
	field *VectorField
	diag  float32
}

// NewPerlin creates an evaluator over field.
func NewPerlin(field *VectorField) *Perlin {
	p := field.params
	return &Perlin{
		field: field,
		diag:  float32(math.Sqrt(float64(p.StepX*p.StepX + p.StepY*p.StepY))),
	}
}

// Field returns the gradient grid the evaluator reads.
func (p *Perlin) Field() *VectorField {
	return p.field
}

// Evaluate returns the noise value at (x, y) in [0, 1].
// Points outside the grid support return 0; there is no fallback to a
// cheaper kernel near the edges.
func (p *Perlin) Evaluate(x, y float32) float32 {
	params := p.field.params
	cx := x - params.OffsetX
	cy := y - params.OffsetY

	left := int(math.Floor(float64(cx / params.StepX)))
	top := int(math.Floor(float64(cy / params.StepY)))
	right := left + 1
	bot := top + 1

	m := params.Interpolation.margin()
	if left-m < 0 || right+m >= params.GridSizeX || top-m < 0 || bot+m >= params.GridSizeY {
		return 0
	}

	query := interp.Vec2{X: cx, Y: cy}
	dot := func(ix, iy int) float32 {
		offset := p.field.NodePosition(ix, iy).Sub(query)
		if params.NormalizeOffsets {
			offset = offset.Normalized()
		}
		return offset.Dot(p.field.Gradient(ix, iy))
	}

	topLeft := dot(left, top)
	topRight := dot(right, top)
	botLeft := dot(left, bot)
	botRight := dot(right, bot)

	dx := cx - params.StepX*float32(left)
	dy := cy - params.StepY*float32(top)
	kx := dx / params.StepX
	ky := dy / params.StepY

	var v float32
	switch params.Interpolation {
	case InterpBilinear:
		v = float32(interp.Bilinear(interp.Scalar(topLeft), interp.Scalar(topRight),
			interp.Scalar(botLeft), interp.Scalar(botRight), kx, ky))

	case InterpBicubic:
		corners := p.cornerValues(topLeft, topRight, botLeft, botRight)
		g := [4]interp.Vec2{
			p.field.Gradient(left, top), p.field.Gradient(right, top),
			p.field.Gradient(left, bot), p.field.Gradient(right, bot),
		}
		corners.DFx = interp.Quad[interp.Scalar]{
			TopLeft: interp.Scalar(g[0].X), TopRight: interp.Scalar(g[1].X),
			BotLeft: interp.Scalar(g[2].X), BotRight: interp.Scalar(g[3].X),
		}
		corners.DFy = interp.Quad[interp.Scalar]{
			TopLeft: interp.Scalar(g[0].Y), TopRight: interp.Scalar(g[1].Y),
			BotLeft: interp.Scalar(g[2].Y), BotRight: interp.Scalar(g[3].Y),
		}
		v = float32(interp.Bicubic(kx, ky, interp.CalcBicubicCoefficients(corners)))

	case InterpBicubicZero:
		corners := p.cornerValues(topLeft, topRight, botLeft, botRight)
		v = float32(interp.Bicubic(kx, ky, interp.CalcBicubicCoefficients(corners)))

	case InterpNearestNeighbor:
		useLeft := dx <= params.StepX/2
		useTop := dy <= params.StepY/2
		switch {
		case useLeft && useTop:
			v = topLeft
		case useTop:
			v = topRight
		case useLeft:
			v = botLeft
		default:
			v = botRight
		}

	default:
		panic(fmt.Sprintf("noise: unknown interpolation %d", int(params.Interpolation)))
	}

	if !params.NormalizeOffsets {
		v /= p.diag
	}
	return clamp01((1 + v) / 2)
}

func (p *Perlin) cornerValues(tl, tr, bl, br float32) interp.Corners[interp.Scalar] {
	return interp.Corners[interp.Scalar]{
		F: interp.Quad[interp.Scalar]{
			TopLeft:  interp.Scalar(tl),
			TopRight: interp.Scalar(tr),
			BotLeft:  interp.Scalar(bl),
			BotRight: interp.Scalar(br),
		},
	}
}

// Sample returns the grey pixel for integer coordinates.
func (p *Perlin) Sample(x, y int) color.RGBA {
	b := uint8(255 * p.Evaluate(float32(x), float32(y)))
	return color.RGBA{R: b, G: b, B: b, A: 255}
}
