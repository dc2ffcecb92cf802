package noise

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/pthm-cable/noisetex/interp"
)

// CornerAlgorithm selects how the 4x4 corner colors are blended.
type CornerAlgorithm int

const (
	CornerBilinear CornerAlgorithm = iota
	CornerBicubic
	CornerNearestNeighbor
)

var cornerAlgorithmNames = [...]string{
	CornerBilinear:        "bilinear",
	CornerBicubic:         "bicubic",
	CornerNearestNeighbor: "nearest_neighbor",
}

func (a CornerAlgorithm) String() string {
	if a < 0 || int(a) >= len(cornerAlgorithmNames) {
		return fmt.Sprintf("CornerAlgorithm(%d)", int(a))
	}
	return cornerAlgorithmNames[a]
}

// ParseCornerAlgorithm converts a name such as "bicubic" to a CornerAlgorithm.
func ParseCornerAlgorithm(s string) (CornerAlgorithm, error) {
	for i, name := range cornerAlgorithmNames {
		if strings.EqualFold(s, name) {
			return CornerAlgorithm(i), nil
		}
	}
	return 0, fmt.Errorf("unknown corner algorithm %q: %w", s, ErrInvalidRequest)
}

// CornerGridSize is the number of corner nodes per axis.
const CornerGridSize = 4

// sectorsPerAxis is the number of sectors the image is split into per axis.
const sectorsPerAxis = CornerGridSize - 1

// DefaultCornerColors returns the stock 4x4 palette, row by row.
func DefaultCornerColors() [16]interp.Vec3 {
	red := interp.Vec3{X: 1}
	green := interp.Vec3{Y: 1}
	blue := interp.Vec3{Z: 1}
	white := interp.Vec3{X: 1, Y: 1, Z: 1}
	return [16]interp.Vec3{
		red, red, blue, blue,
		red, white, blue, blue,
		green, green, red, white,
		green, green, white, white,
	}
}

// CornerInterpolated blends a fixed 4x4 grid of colors over a 3x3 sector
// layout of the output image. Node (i, j) sits at pixel (i*width/3, j*height/3).
type CornerInterpolated struct {
	colors  [16]interp.Vec3
	algo    CornerAlgorithm
	sectorW int
	sectorH int

	// Bicubic patches for the 9 interior sectors, index col + row*3.
	patches [sectorsPerAxis * sectorsPerAxis]interp.Coefficients[interp.Vec3]
}

// NewCornerInterpolated prepares an evaluator for a width x height texture.
// Bicubic patches are computed once here and reused for every pixel.
func NewCornerInterpolated(colors [16]interp.Vec3, algo CornerAlgorithm, width, height int) (*CornerInterpolated, error) {
	if width < sectorsPerAxis || height < sectorsPerAxis {
		return nil, fmt.Errorf("texture %dx%d smaller than %d sectors: %w",
			width, height, sectorsPerAxis, ErrInvalidRequest)
	}
	if algo < 0 || int(algo) >= len(cornerAlgorithmNames) {
		return nil, fmt.Errorf("corner algorithm %d: %w", int(algo), ErrInvalidRequest)
	}

	c := &CornerInterpolated{
		colors:  colors,
		algo:    algo,
		sectorW: width / sectorsPerAxis,
		sectorH: height / sectorsPerAxis,
	}
	if algo == CornerBicubic {
		for row := 0; row < sectorsPerAxis; row++ {
			for col := 0; col < sectorsPerAxis; col++ {
				c.patches[col+row*sectorsPerAxis] = c.patch(col, row)
			}
		}
	}
	return c, nil
}

// Colors returns the corner palette.
func (c *CornerInterpolated) Colors() [16]interp.Vec3 {
	return c.colors
}

func (c *CornerInterpolated) node(gx, gy int) interp.Vec3 {
	return c.colors[gx+gy*CornerGridSize]
}

func interior(g int) bool {
	return g > 0 && g < CornerGridSize-1
}

// dFx is the centered difference along x in patch units; zero on the outer ring.
func (c *CornerInterpolated) dFx(gx, gy int) interp.Vec3 {
	if !interior(gx) {
		return interp.Vec3{}
	}
	return c.node(gx+1, gy).Sub(c.node(gx-1, gy)).Scale(0.5)
}

func (c *CornerInterpolated) dFy(gx, gy int) interp.Vec3 {
	if !interior(gy) {
		return interp.Vec3{}
	}
	return c.node(gx, gy+1).Sub(c.node(gx, gy-1)).Scale(0.5)
}

func (c *CornerInterpolated) dFxy(gx, gy int) interp.Vec3 {
	if !interior(gx) || !interior(gy) {
		return interp.Vec3{}
	}
	return c.node(gx+1, gy+1).
		Sub(c.node(gx-1, gy+1)).
		Sub(c.node(gx+1, gy-1)).
		Add(c.node(gx-1, gy-1)).
		Scale(0.25)
}

func (c *CornerInterpolated) patch(col, row int) interp.Coefficients[interp.Vec3] {
	quad := func(f func(gx, gy int) interp.Vec3) interp.Quad[interp.Vec3] {
		return interp.Quad[interp.Vec3]{
			TopLeft:  f(col, row),
			TopRight: f(col+1, row),
			BotLeft:  f(col, row+1),
			BotRight: f(col+1, row+1),
		}
	}
	return interp.CalcBicubicCoefficients(interp.Corners[interp.Vec3]{
		F:    quad(c.node),
		DFx:  quad(c.dFx),
		DFy:  quad(c.dFy),
		DFxy: quad(c.dFxy),
	})
}

// sectorCoords locates the sector containing (x, y) and the offset inside it.
func (c *CornerInterpolated) sectorCoords(x, y int) (col, row, dx, dy int) {
	col = x / c.sectorW
	row = y / c.sectorH
	return col, row, x - col*c.sectorW, y - row*c.sectorH
}

// Evaluate returns the interpolated color at pixel (x, y) as an RGB vector.
func (c *CornerInterpolated) Evaluate(x, y int) interp.Vec3 {
	col, row, dx, dy := c.sectorCoords(x, y)
	last := CornerGridSize - 1

	switch c.algo {
	case CornerBilinear:
		kx := float32(dx) / float32(c.sectorW)
		ky := float32(dy) / float32(c.sectorH)
		left := min(col, last)
		right := min(col+1, last)
		top := min(row, last)
		bot := min(row+1, last)
		return interp.Bilinear(c.node(left, top), c.node(right, top), c.node(left, bot), c.node(right, bot), kx, ky)

	case CornerNearestNeighbor:
		nx, ny := col, row
		if dx > c.sectorW/2 {
			nx++
		}
		if dy > c.sectorH/2 {
			ny++
		}
		return c.node(min(nx, last), min(ny, last))

	case CornerBicubic:
		kx := float32(dx) / float32(c.sectorW)
		ky := float32(dy) / float32(c.sectorH)
		if col >= sectorsPerAxis {
			col = sectorsPerAxis - 1
			kx = 1
		}
		if row >= sectorsPerAxis {
			row = sectorsPerAxis - 1
			ky = 1
		}
		return interp.Bicubic(kx, ky, c.patches[col+row*sectorsPerAxis])

	default:
		panic(fmt.Sprintf("noise: unknown corner algorithm %d", int(c.algo)))
	}
}

// Sample returns the pixel color at (x, y).
func (c *CornerInterpolated) Sample(x, y int) color.RGBA {
	return ToRGBA(c.Evaluate(x, y))
}

// NodePixel returns the pixel position of corner node (i, j) for a
// width x height texture, as used by the true-pixel overlay.
func NodePixel(i, j, width, height int) (x, y int) {
	return i * width / sectorsPerAxis, j * height / sectorsPerAxis
}
