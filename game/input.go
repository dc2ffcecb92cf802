package game

import (
	"errors"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/noisetex/app"
	"github.com/pthm-cable/noisetex/config"
	"github.com/pthm-cable/noisetex/ui"
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	for _, key := range g.overlays.Keys() {
		if rl.IsKeyPressed(key) {
			if id, on, ok := g.overlays.HandleKeyPress(key); ok {
				g.applyOverlay(id, on)
			}
		}
	}

	if rl.IsKeyPressed(rl.KeyEnter) {
		g.submit()
	}
	if rl.IsKeyPressed(rl.KeyE) {
		g.exportTexture()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		if tex, ok := g.app.Texture(); ok {
			g.camera.FitTo(float32(tex.Request.Width), float32(tex.Request.Height))
		} else {
			g.camera.Reset()
		}
	}

	g.handleCameraInput()
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	panelW := float32(config.Cfg().Screen.PanelWidth)
	g.camera.SetViewport(panelW, 0, w-panelW, h)
	g.params.Resize(int32(h))
	g.controls.SetPosition(int32(w)-210, 10)
	g.inspector.SetPosition(int32(w)-210, 150)
	g.perfPanel.SetPosition(int32(w)-250, int32(h)-130)
}

// handleCameraInput processes camera pan/zoom controls. The wheel and
// dragging only act while the cursor is over the texture viewport.
func (g *Game) handleCameraInput() {
	mouse := rl.GetMousePosition()
	inView := g.camera.InViewport(mouse.X, mouse.Y)

	if wheel := rl.GetMouseWheelMove(); wheel != 0 && inView {
		g.camera.Wheel(wheel)
	}

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) && inView {
		g.camera.BeginDrag()
	}
	if rl.IsMouseButtonReleased(rl.MouseButtonLeft) {
		g.camera.EndDrag()
	}
	if g.camera.Dragging() {
		d := rl.GetMouseDelta()
		g.camera.Drag(d.X, d.Y)
	}

	var dirX, dirY float32
	if rl.IsKeyDown(rl.KeyRight) || rl.IsKeyDown(rl.KeyD) {
		dirX++
	}
	if rl.IsKeyDown(rl.KeyLeft) || rl.IsKeyDown(rl.KeyA) {
		dirX--
	}
	if rl.IsKeyDown(rl.KeyDown) || rl.IsKeyDown(rl.KeyS) {
		dirY++
	}
	if rl.IsKeyDown(rl.KeyUp) || rl.IsKeyDown(rl.KeyW) {
		dirY--
	}
	fast := rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift)
	g.camera.KeyboardPan(dirX, dirY, rl.GetFrameTime(), fast)
}

// applyOverlay pushes a registry toggle to the app. Overlays that do not
// apply to the current texture are switched back off.
func (g *Game) applyOverlay(id ui.OverlayID, on bool) {
	var err error
	switch id {
	case ui.OverlayGradients:
		err = g.app.ShowGradients(on)
	case ui.OverlayTruePixels:
		err = g.app.ShowTruePixels(on)
	default:
		return
	}
	if err != nil {
		g.overlays.SetEnabled(id, false)
		if errors.Is(err, app.ErrNoPerlinTexture) || errors.Is(err, app.ErrNoCornerTexture) {
			g.logger.Debug("overlay not available", "overlay", string(id), "reason", err)
			return
		}
		g.logger.Warn("overlay toggle failed", "overlay", string(id), "error", err)
	}
}

// submit requests a texture from the parameter panel.
func (g *Game) submit() {
	if err := g.requestTexture(g.params.Request); err != nil {
		g.logger.Warn("request rejected", "error", err)
	}
}
