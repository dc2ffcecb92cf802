package game

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/noisetex/renderer"
	"github.com/pthm-cable/noisetex/telemetry"
	"github.com/pthm-cable/noisetex/ui"
)

const controlsLegend = "Wheel: zoom | Drag/WASD: pan (Shift fast) | R: fit | Enter: generate | E: export | G/T/I/F3: overlays"

// Draw renders the frame and closes the frame timing sample.
func (g *Game) Draw() {
	g.perf.StartPhase(telemetry.PhaseRender)

	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 30, G: 30, B: 34, A: 255})

	tex, hasTex := g.app.Texture()

	renderer.BeginView(g.camera)
	g.view.Draw()
	if hasTex {
		w, h := tex.Request.Width, tex.Request.Height
		if glyphs := g.app.GradientGlyphs(); glyphs != nil {
			scale := g.app.GradientScale(g.camera.Zoom)
			if minPos, maxPos, ok := g.app.GradientBounds(); ok {
				g.gradients.DrawBounds(minPos, maxPos, scale, w, h)
			}
			g.gradients.Draw(glyphs, scale, w, h)
		}
		if markers, ov := g.app.TruePixels(); markers != nil {
			g.truePix.Draw(markers, ov, w, h)
		}
	}
	renderer.EndView()

	if g.params.Draw() {
		g.submit()
	}

	hud := ui.HUDData{
		Title:      "Noise Textures",
		Generating: g.app.Generating(),
		FPS:        rl.GetFPS(),
		Zoom:       g.camera.Zoom,
	}
	if hasTex {
		hud.Algorithm = tex.Request.Algorithm.String()
		hud.Width, hud.Height = tex.Request.Width, tex.Request.Height
		hud.Seq = tex.Seq
	}
	if g.hasEvent {
		hud.CPUSec = g.lastEvent.Record.CPUSec
		hud.WallSec = g.lastEvent.Record.WallSec
	}
	g.hud.Draw(hud)
	g.hud.DrawControls(int32(g.screenHeight), controlsLegend)

	if id, ok := g.controls.Draw(g.overlays); ok {
		g.applyOverlay(id, g.overlays.Toggle(id))
	}

	if g.overlays.IsEnabled(ui.OverlayInspector) {
		g.inspector.Draw(g.inspectorData())
	}
	if g.overlays.IsEnabled(ui.OverlayPerf) {
		g.perfPanel.Draw(g.perf.Stats())
	}

	rl.EndDrawing()

	g.perf.EndFrame()
	g.frame++
	g.flushPerf()
}

// inspectorData reads the presented pixel under the cursor.
func (g *Game) inspectorData() ui.InspectorData {
	var data ui.InspectorData
	if g.hasEvent {
		data.HasStats = true
		data.Stats = g.lastEvent.Stats
	}

	tex, ok := g.app.Texture()
	if !ok {
		return data
	}
	mouse := rl.GetMousePosition()
	if !g.camera.InViewport(mouse.X, mouse.Y) {
		return data
	}
	wx, wy := g.camera.ScreenToWorld(mouse.X, mouse.Y)
	ox, oy := renderer.Origin(tex.Request.Width, tex.Request.Height)
	px := int(math.Floor(float64(wx - ox)))
	py := int(math.Floor(float64(wy - oy)))
	if px < 0 || py < 0 || px >= tex.Request.Width || py >= tex.Request.Height {
		return data
	}

	data.X, data.Y = px, py
	data.InBounds = true
	data.Pixel = tex.Surface.PresentedAt(px, py)
	return data
}
