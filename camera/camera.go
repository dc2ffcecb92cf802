// Package camera provides a 2D pan/zoom camera for inspecting a texture.
package camera

import "math"

// Settings holds the zoom and panning constants.
type Settings struct {
	ZoomStep          float32 // Multiplier per wheel notch
	MinZoom, MaxZoom  float32
	PanSpeed          float32 // World units per second for keyboard panning
	FastPanMultiplier float32 // Applied to PanSpeed while shift is held
}

// DefaultSettings returns the stock camera constants.
func DefaultSettings() Settings {
	return Settings{
		ZoomStep:          1.1,
		MinZoom:           0.01,
		MaxZoom:           100,
		PanSpeed:          100,
		FastPanMultiplier: 2,
	}
}

// Box is an axis-aligned rectangle in world coordinates.
type Box struct {
	MinX, MinY, MaxX, MaxY float32
}

// Contains reports whether (x, y) lies inside the box.
func (b Box) Contains(x, y float32) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

// Camera controls the viewport onto the texture plane. World coordinates
// are texture pixels; the texture is drawn centered on the origin.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float32

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification)
	Zoom float32

	// Viewport rectangle on screen
	ViewportX, ViewportY float32
	ViewportW, ViewportH float32

	Settings Settings

	dragging bool
}

// New creates a camera at the origin with 1:1 zoom.
func New(viewportW, viewportH float32, s Settings) *Camera {
	return &Camera{
		Zoom:      1.0,
		ViewportW: viewportW,
		ViewportH: viewportH,
		Settings:  s,
	}
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	sx = c.ViewportX + c.ViewportW/2 + (wx-c.X)*c.Zoom
	sy = c.ViewportY + c.ViewportH/2 + (wy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = c.X + (sx-c.ViewportX-c.ViewportW/2)/c.Zoom
	wy = c.Y + (sy-c.ViewportY-c.ViewportH/2)/c.Zoom
	return wx, wy
}

// InViewport reports whether a screen point falls inside the viewport.
func (c *Camera) InViewport(sx, sy float32) bool {
	return sx >= c.ViewportX && sx < c.ViewportX+c.ViewportW &&
		sy >= c.ViewportY && sy < c.ViewportY+c.ViewportH
}

// SetViewport places the viewport on screen.
func (c *Camera) SetViewport(x, y, w, h float32) {
	c.ViewportX, c.ViewportY = x, y
	c.ViewportW, c.ViewportH = w, h
}

// Pan moves the camera by a delta in screen pixels.
func (c *Camera) Pan(dx, dy float32) {
	c.X += dx / c.Zoom
	c.Y += dy / c.Zoom
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.Settings.MinZoom, c.Settings.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Wheel applies mouse wheel movement: each positive notch multiplies the
// zoom by ZoomStep, each negative one divides by it.
func (c *Camera) Wheel(notches float32) {
	switch {
	case notches > 0:
		c.ZoomBy(c.Settings.ZoomStep)
	case notches < 0:
		c.ZoomBy(1 / c.Settings.ZoomStep)
	}
}

// BeginDrag starts mouse dragging.
func (c *Camera) BeginDrag() { c.dragging = true }

// EndDrag stops mouse dragging.
func (c *Camera) EndDrag() { c.dragging = false }

// Dragging reports whether a mouse drag is in progress.
func (c *Camera) Dragging() bool { return c.dragging }

// Drag moves the view with the mouse: the texture follows the cursor.
// Ignored unless a drag is in progress.
func (c *Camera) Drag(mouseDX, mouseDY float32) {
	if !c.dragging {
		return
	}
	c.Pan(-mouseDX, -mouseDY)
}

// KeyboardPan moves the camera in direction (dirX, dirY) for dt seconds.
// The direction is normalized so diagonals are not faster. Mouse dragging
// overrides keyboard panning.
func (c *Camera) KeyboardPan(dirX, dirY, dt float32, fast bool) {
	if c.dragging {
		return
	}
	l := float32(math.Hypot(float64(dirX), float64(dirY)))
	if l < 1e-6 {
		return
	}
	speed := c.Settings.PanSpeed
	if fast {
		speed *= c.Settings.FastPanMultiplier
	}
	k := speed / l * dt
	c.X += dirX * k
	c.Y += dirY * k
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Reset returns the camera to the origin at 1:1 zoom.
func (c *Camera) Reset() {
	c.X = 0
	c.Y = 0
	c.Zoom = 1.0
}

// FitTo zooms so a w x h texture centered on the origin fills the viewport.
func (c *Camera) FitTo(w, h float32) {
	c.X, c.Y = 0, 0
	if w <= 0 || h <= 0 {
		return
	}
	c.SetZoom(min(c.ViewportW/w, c.ViewportH/h))
}

// View returns the world-coordinate box visible in the viewport.
func (c *Camera) View() Box {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)
	return Box{
		MinX: c.X - halfW,
		MinY: c.Y - halfH,
		MaxX: c.X + halfW,
		MaxY: c.Y + halfH,
	}
}

// clamp restricts a value to a range.
func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
