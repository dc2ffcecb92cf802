package app

import (
	"errors"
	"image/color"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/noisetex/components"
	"github.com/pthm-cable/noisetex/interp"
	"github.com/pthm-cable/noisetex/noise"
)

var (
	// ErrNoPerlinTexture is returned when gradients are requested for a
	// texture that has no gradient grid.
	ErrNoPerlinTexture = errors.New("current texture is not perlin noise")
	// ErrNoCornerTexture is returned when node markers are requested for a
	// texture that is not corner-interpolated.
	ErrNoCornerTexture = errors.New("current texture is not corner interpolated")
)

// Glyph is one gradient arrow in texture pixel coordinates.
type Glyph struct {
	Pos interp.Vec2
	Dir interp.Vec2
}

// Marker is one corner node drawn at its true pixel.
type Marker struct {
	X, Y  int
	Color color.RGBA
}

// ShowGradients toggles the Perlin gradient overlay.
func (a *App) ShowGradients(on bool) error {
	if !on {
		a.removeGradientOverlays()
		return nil
	}
	field, ok := a.perlinField()
	if !ok {
		return ErrNoPerlinTexture
	}
	if a.GradientsShown() {
		return nil
	}
	p := field.Params()
	a.gradientMap.NewEntity(&components.GradientOverlay{
		MaxScale: min(p.StepX, p.StepY) / a.glyphSize / 2,
	})
	return nil
}

// GradientsShown reports whether the gradient overlay is on.
func (a *App) GradientsShown() bool {
	_, ok := a.gradientOverlay()
	return ok
}

// GradientScale returns the glyph scale for a camera zoom: glyphs keep a
// constant screen size until they would overlap their neighbours.
func (a *App) GradientScale(zoom float32) float32 {
	ov, ok := a.gradientOverlay()
	if !ok || zoom <= 0 {
		return 0
	}
	return min(1/zoom, ov.MaxScale)
}

// GradientGlyphs returns one glyph per grid node, or nil when the overlay
// is off.
func (a *App) GradientGlyphs() []Glyph {
	if !a.GradientsShown() {
		return nil
	}
	field, ok := a.perlinField()
	if !ok {
		return nil
	}
	p := field.Params()
	glyphs := make([]Glyph, 0, p.GridSizeX*p.GridSizeY)
	for iy := 0; iy < p.GridSizeY; iy++ {
		for ix := 0; ix < p.GridSizeX; ix++ {
			pos := field.NodePosition(ix, iy)
			pos.X += p.OffsetX
			pos.Y += p.OffsetY
			glyphs = append(glyphs, Glyph{Pos: pos, Dir: field.Gradient(ix, iy)})
		}
	}
	return glyphs
}

// GradientBounds returns the rectangle covered by the gradient grid in
// texture pixels, offset included. ok is false when the overlay is off.
func (a *App) GradientBounds() (minPos, maxPos interp.Vec2, ok bool) {
	if !a.GradientsShown() {
		return interp.Vec2{}, interp.Vec2{}, false
	}
	field, ok := a.perlinField()
	if !ok {
		return interp.Vec2{}, interp.Vec2{}, false
	}
	p := field.Params()
	w, h := field.Extent()
	return interp.Vec2{X: p.OffsetX, Y: p.OffsetY}, interp.Vec2{X: w, Y: h}, true
}

// ShowTruePixels toggles the corner node markers.
func (a *App) ShowTruePixels(on bool) error {
	if !on {
		a.removeTruePixelOverlays()
		return nil
	}
	tex, _, ok := a.cornerTexture()
	if !ok {
		return ErrNoCornerTexture
	}
	if a.TruePixelsShown() {
		return nil
	}
	size := max(float32(min(tex.Request.Width, tex.Request.Height))/10, 3)
	a.truePixMap.NewEntity(&components.TruePixelOverlay{
		MarkerSize: size,
		BorderSize: max(size/10, 1),
	})
	return nil
}

// TruePixelsShown reports whether the node markers are on.
func (a *App) TruePixelsShown() bool {
	_, ok := a.truePixelOverlay()
	return ok
}

// TruePixels returns the 16 node markers and their size, or nil when the
// overlay is off. Markers on the far edge are pulled inside the texture.
func (a *App) TruePixels() ([]Marker, components.TruePixelOverlay) {
	ov, ok := a.truePixelOverlay()
	if !ok {
		return nil, components.TruePixelOverlay{}
	}
	tex, info, ok := a.cornerTexture()
	if !ok {
		return nil, components.TruePixelOverlay{}
	}
	w, h := tex.Request.Width, tex.Request.Height
	markers := make([]Marker, 0, noise.CornerGridSize*noise.CornerGridSize)
	for j := 0; j < noise.CornerGridSize; j++ {
		for i := 0; i < noise.CornerGridSize; i++ {
			x, y := noise.NodePixel(i, j, w, h)
			markers = append(markers, Marker{
				X:     min(x, w-1),
				Y:     min(y, h-1),
				Color: noise.ToRGBA(info.Colors[i+j*noise.CornerGridSize]),
			})
		}
	}
	return markers, ov
}

func (a *App) clearOverlays() {
	a.removeGradientOverlays()
	a.removeTruePixelOverlays()
}

// Entities are collected first; the world is locked while a query is open.
func (a *App) removeGradientOverlays() {
	var entities []ecs.Entity
	query := a.gradientFilter.Query()
	for query.Next() {
		entities = append(entities, query.Entity())
	}
	a.removeEntities(entities)
}

func (a *App) removeTruePixelOverlays() {
	var entities []ecs.Entity
	query := a.truePixFilter.Query()
	for query.Next() {
		entities = append(entities, query.Entity())
	}
	a.removeEntities(entities)
}

func (a *App) removeEntities(entities []ecs.Entity) {
	for _, e := range entities {
		a.world.RemoveEntity(e)
	}
}

func (a *App) perlinField() (*noise.VectorField, bool) {
	var field *noise.VectorField
	query := a.perlinFilter.Query()
	for query.Next() {
		_, info := query.Get()
		field = info.Field
	}
	return field, field != nil
}

func (a *App) cornerTexture() (components.Texture, components.CornerInfo, bool) {
	var (
		tex   components.Texture
		info  components.CornerInfo
		found bool
	)
	query := a.cornerFilter.Query()
	for query.Next() {
		t, c := query.Get()
		tex, info, found = *t, *c, true
	}
	return tex, info, found
}

func (a *App) gradientOverlay() (components.GradientOverlay, bool) {
	var (
		ov    components.GradientOverlay
		found bool
	)
	query := a.gradientFilter.Query()
	for query.Next() {
		ov, found = *query.Get(), true
	}
	return ov, found
}

func (a *App) truePixelOverlay() (components.TruePixelOverlay, bool) {
	var (
		ov    components.TruePixelOverlay
		found bool
	)
	query := a.truePixFilter.Query()
	for query.Next() {
		ov, found = *query.Get(), true
	}
	return ov, found
}
