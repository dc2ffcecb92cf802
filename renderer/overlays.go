package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/noisetex/app"
	"github.com/pthm-cable/noisetex/components"
	"github.com/pthm-cable/noisetex/interp"
)

// GradientRenderer draws Perlin gradients as arrows.
type GradientRenderer struct {
	GlyphSize float32 // Arrow length in screen pixels at scale 1/zoom
	LineWidth float32
	Color     rl.Color
}

// Draw renders one arrow per glyph. scale converts glyph pixels to world
// units, see app.GradientScale.
func (r *GradientRenderer) Draw(glyphs []app.Glyph, scale float32, texW, texH int) {
	if scale <= 0 {
		return
	}
	ox, oy := Origin(texW, texH)
	length := r.GlyphSize * scale
	width := r.LineWidth * scale
	head := length / 4

	for _, g := range glyphs {
		from := rl.Vector2{X: ox + g.Pos.X, Y: oy + g.Pos.Y}
		to := rl.Vector2{X: from.X + g.Dir.X*length, Y: from.Y + g.Dir.Y*length}
		rl.DrawLineEx(from, to, width, r.Color)

		// Arrow head: two strokes swept back from the tip.
		back := rl.Vector2{X: -g.Dir.X * head, Y: -g.Dir.Y * head}
		side := rl.Vector2{X: -g.Dir.Y * head / 2, Y: g.Dir.X * head / 2}
		rl.DrawLineEx(to, rl.Vector2{X: to.X + back.X + side.X, Y: to.Y + back.Y + side.Y}, width, r.Color)
		rl.DrawLineEx(to, rl.Vector2{X: to.X + back.X - side.X, Y: to.Y + back.Y - side.Y}, width, r.Color)
		rl.DrawCircleV(from, width, r.Color)
	}
}

// DrawBounds outlines the area spanned by the gradient grid.
func (r *GradientRenderer) DrawBounds(minPos, maxPos interp.Vec2, scale float32, texW, texH int) {
	if scale <= 0 {
		return
	}
	ox, oy := Origin(texW, texH)
	rl.DrawRectangleLinesEx(rl.Rectangle{
		X:      ox + minPos.X,
		Y:      oy + minPos.Y,
		Width:  maxPos.X - minPos.X,
		Height: maxPos.Y - minPos.Y,
	}, r.LineWidth*scale/2, rl.Fade(r.Color, 0.5))
}

// TruePixelRenderer draws corner nodes as bordered squares centered on
// their exact pixels.
type TruePixelRenderer struct {
	Border rl.Color
}

// Draw renders the markers.
func (r *TruePixelRenderer) Draw(markers []app.Marker, ov components.TruePixelOverlay, texW, texH int) {
	ox, oy := Origin(texW, texH)
	half := ov.MarkerSize / 2
	for _, m := range markers {
		// Pixel centers sit half a pixel inside the pixel's corner.
		cx := ox + float32(m.X) + 0.5
		cy := oy + float32(m.Y) + 0.5
		rect := rl.Rectangle{X: cx - half, Y: cy - half, Width: ov.MarkerSize, Height: ov.MarkerSize}
		rl.DrawRectangleRec(rect, m.Color)
		rl.DrawRectangleLinesEx(rect, ov.BorderSize, r.Border)
		rl.DrawRectangleRec(rl.Rectangle{X: cx - 0.5, Y: cy - 0.5, Width: 1, Height: 1}, r.Border)
	}
}
