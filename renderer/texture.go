// Package renderer draws the generated texture and its inspection overlays
// with raylib.
package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// TextureView is the GPU copy of a generated texture. It implements
// surface.Bitmap so PrepareForDraw can upload snapshots into it.
type TextureView struct {
	tex           rl.Texture2D
	width, height int
	loaded        bool
}

// NewTextureView creates an empty view. Ensure must be called after the
// raylib window exists.
func NewTextureView() *TextureView {
	return &TextureView{}
}

// Ensure (re)allocates the GPU texture when the size changes.
func (v *TextureView) Ensure(width, height int) {
	if v.loaded && v.width == width && v.height == height {
		return
	}
	v.Unload()

	img := rl.GenImageColor(width, height, rl.Gray)
	v.tex = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	rl.SetTextureFilter(v.tex, rl.FilterPoint)

	v.width = width
	v.height = height
	v.loaded = true
}

// Update uploads a full frame of pixels.
func (v *TextureView) Update(pixels []color.RGBA) {
	if !v.loaded || len(pixels) != v.width*v.height {
		return
	}
	rl.UpdateTexture(v.tex, pixels)
}

// Size returns the texture size in pixels.
func (v *TextureView) Size() (width, height int) {
	return v.width, v.height
}

// Draw renders the texture centered on the world origin. Call inside
// BeginView/EndView.
func (v *TextureView) Draw() {
	if !v.loaded {
		return
	}
	x, y := Origin(v.width, v.height)
	rl.DrawTextureV(v.tex, rl.Vector2{X: x, Y: y}, rl.White)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: x, Y: y, Width: float32(v.width), Height: float32(v.height)},
		1, rl.DarkGray,
	)
}

// Unload frees resources.
func (v *TextureView) Unload() {
	if v.loaded {
		rl.UnloadTexture(v.tex)
		v.loaded = false
	}
}

// Origin returns the world position of texture pixel (0, 0). The texture
// is centered on the world origin.
func Origin(width, height int) (x, y float32) {
	return -float32(width) / 2, -float32(height) / 2
}
