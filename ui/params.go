package ui

import (
	"fmt"
	"math/rand"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/noisetex/interp"
	"github.com/pthm-cable/noisetex/noise"
)

const (
	sliderHeight = 18
	sliderStep   = 34
	valueWidth   = 60
)

// ParamPanel edits a generation request with raygui widgets.
type ParamPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	height   int32

	defaults noise.Request
	Request  noise.Request
}

// NewParamPanel creates a panel filling the column at x.
func NewParamPanel(x, y, width, height int32, defaults noise.Request) *ParamPanel {
	return &ParamPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		height:   height,
		defaults: defaults,
		Request:  defaults,
	}
}

// Resize updates the panel height after a window resize.
func (p *ParamPanel) Resize(height int32) {
	p.height = height
}

// Draw renders the panel and applies edits to p.Request. It returns true
// when the user asked for a new texture.
func (p *ParamPanel) Draw() bool {
	r := p.renderer
	pad := float32(r.Theme.Padding)
	r.DrawPanel(p.x, p.y, p.width, p.height)

	x := float32(p.x) + pad
	y := float32(p.y) + pad
	w := float32(p.width) - 2*pad

	rl.DrawText("Generator", int32(x), int32(y), 20, rl.White)
	y += 30

	algos := noise.AlgorithmNames()
	active := gui.ToggleGroup(
		rl.Rectangle{X: x, Y: y, Width: w/float32(len(algos)) - 2, Height: 24},
		strings.Join(algos, ";"),
		int32(p.Request.Algorithm),
	)
	p.Request.Algorithm = noise.Algorithm(active)
	y += 36

	req := &p.Request
	req.Width = int(p.slider(x, &y, w, "Width", float32(req.Width), 16, 2048, "%.0f"))
	req.Height = int(p.slider(x, &y, w, "Height", float32(req.Height), 16, 2048, "%.0f"))
	y += 6

	switch req.Algorithm {
	case noise.AlgoPerlin:
		p.drawPerlin(x, &y, w)
	case noise.AlgoCorner:
		p.drawCorner(x, &y, w)
	case noise.AlgoWhite:
		req.White.BlackProbability = float64(p.slider(x, &y, w, "Black probability", float32(req.White.BlackProbability), 0, 1, "%.2f"))
		req.White.RandomSeed = p.seedSlider(x, &y, w, req.White.RandomSeed)
	case noise.AlgoSimplex:
		req.Simplex.Scale = float64(p.slider(x, &y, w, "Scale (pixels per unit)", float32(req.Simplex.Scale), 1, 400, "%.0f"))
		req.Simplex.Seed = p.seedSlider(x, &y, w, req.Simplex.Seed)
	}

	y += 10
	generate := gui.Button(rl.Rectangle{X: x, Y: y, Width: w/2 - 5, Height: 30}, "Generate")
	if gui.Button(rl.Rectangle{X: x + w/2 + 5, Y: y, Width: w/2 - 5, Height: 30}, "Reset") {
		p.Request = p.defaults
	}
	y += 40

	if err := p.Request.Validate(); err != nil {
		rl.DrawText(wrapError(err), int32(x), int32(y), r.Theme.FontSize, rl.Red)
		return false
	}
	return generate
}

func (p *ParamPanel) drawPerlin(x float32, y *float32, w float32) {
	pp := &p.Request.Perlin
	pp.GridSizeX = int(p.slider(x, y, w, "Grid nodes X", float32(pp.GridSizeX), 2, 128, "%.0f"))
	pp.GridSizeY = int(p.slider(x, y, w, "Grid nodes Y", float32(pp.GridSizeY), 2, 128, "%.0f"))
	pp.StepX = p.slider(x, y, w, "Grid step X", pp.StepX, 1, 200, "%.1f")
	pp.StepY = p.slider(x, y, w, "Grid step Y", pp.StepY, 1, 200, "%.1f")
	pp.OffsetX = p.slider(x, y, w, "Offset X", pp.OffsetX, 0, 200, "%.1f")
	pp.OffsetY = p.slider(x, y, w, "Offset Y", pp.OffsetY, 0, 200, "%.1f")

	pp.NormalizeOffsets = gui.CheckBox(rl.Rectangle{X: x, Y: *y, Width: 16, Height: 16}, "Normalize offsets", pp.NormalizeOffsets)
	*y += 26

	rl.DrawText("Interpolation", int32(x), int32(*y), 14, rl.Gray)
	*y += 18
	pp.Interpolation = noise.Interpolation(gui.ToggleGroup(
		rl.Rectangle{X: x, Y: *y, Width: w/4 - 2, Height: 22},
		"bilinear;bicubic;zero;nearest",
		int32(pp.Interpolation),
	))
	*y += 32

	pp.RandomSeed = p.seedSlider(x, y, w, pp.RandomSeed)
}

func (p *ParamPanel) drawCorner(x float32, y *float32, w float32) {
	c := &p.Request.Corner
	rl.DrawText("Algorithm", int32(x), int32(*y), 14, rl.Gray)
	*y += 18
	c.Algorithm = noise.CornerAlgorithm(gui.ToggleGroup(
		rl.Rectangle{X: x, Y: *y, Width: w/3 - 2, Height: 22},
		"bilinear;bicubic;nearest",
		int32(c.Algorithm),
	))
	*y += 32

	// Palette preview, one swatch per node.
	cell := min(w/noise.CornerGridSize, 30)
	for j := 0; j < noise.CornerGridSize; j++ {
		for i := 0; i < noise.CornerGridSize; i++ {
			col := noise.ToRGBA(c.Colors[i+j*noise.CornerGridSize])
			rl.DrawRectangle(int32(x+float32(i)*cell), int32(*y+float32(j)*cell), int32(cell)-2, int32(cell)-2, col)
		}
	}
	*y += cell*noise.CornerGridSize + 8

	if gui.Button(rl.Rectangle{X: x, Y: *y, Width: w/2 - 5, Height: 26}, "Shuffle Colors") {
		for i := range c.Colors {
			c.Colors[i] = interp.Vec3{X: rand.Float32(), Y: rand.Float32(), Z: rand.Float32()}
		}
	}
	if gui.Button(rl.Rectangle{X: x + w/2 + 5, Y: *y, Width: w/2 - 5, Height: 26}, "Stock Colors") {
		c.Colors = noise.DefaultCornerColors()
	}
	*y += 36
}

// seedSlider edits a seed; 0 means a fresh seed from the clock.
func (p *ParamPanel) seedSlider(x float32, y *float32, w float32, seed int64) int64 {
	v := p.slider(x, y, w, "Seed (0 = clock)", float32(seed), 0, 99999, "%.0f")
	if gui.Button(rl.Rectangle{X: x, Y: *y, Width: 120, Height: 24}, "Random Seed") {
		v = float32(rl.GetRandomValue(1, 99999))
	}
	*y += 32
	return int64(v)
}

// slider draws a labelled slider bar and returns the new value.
func (p *ParamPanel) slider(x float32, y *float32, w float32, label string, value, minV, maxV float32, format string) float32 {
	rl.DrawText(label, int32(x), int32(*y), 14, rl.Gray)
	*y += 16
	newValue := gui.SliderBar(
		rl.Rectangle{X: x, Y: *y, Width: w - valueWidth, Height: sliderHeight},
		"", "",
		value, minV, maxV,
	)
	rl.DrawText(fmt.Sprintf(format, value), int32(x+w-valueWidth+6), int32(*y+2), 14, rl.LightGray)
	*y += sliderStep - 16
	return newValue
}

// wrapError keeps the validation message inside the panel.
func wrapError(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ": "+noise.ErrInvalidRequest.Error()); i > 0 {
		msg = msg[:i]
	}
	return msg
}
