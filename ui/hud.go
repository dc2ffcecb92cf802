package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/noisetex/telemetry"
)

// HUDData holds all the data needed to render the status line.
type HUDData struct {
	Title      string
	Algorithm  string
	Width      int
	Height     int
	Seq        int
	Generating bool
	CPUSec     float64 // Last finished generation
	WallSec    float64
	FPS        int32
	Zoom       float32
}

// HUD renders the status text over the texture viewport.
type HUD struct {
	x, y int32
}

// NewHUD creates a HUD anchored at (x, y).
func NewHUD(x, y int32) *HUD {
	return &HUD{x: x, y: y}
}

// SetPosition updates the HUD anchor.
func (h *HUD) SetPosition(x, y int32) {
	h.x = x
	h.y = y
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, h.x, h.y, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("#%d %s %dx%d | Zoom: %.2fx | FPS: %d", data.Seq, data.Algorithm, data.Width, data.Height, data.Zoom, data.FPS),
		h.x, h.y+25, 16, rl.LightGray,
	)

	if data.Generating {
		rl.DrawText("Generating...", h.x, h.y+45, 16, rl.Yellow)
	} else if data.Seq > 0 {
		rl.DrawText(fmt.Sprintf("Done: cpu %.3fs, wall %.3fs", data.CPUSec, data.WallSec), h.x, h.y+45, 16, rl.Green)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, h.x, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the frame phase breakdown.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x := p.x
	y := p.y
	p.renderer.DrawPanel(x-6, y-6, 260, 28+int32(len(telemetry.Phases()))*14+16)

	rl.DrawText("Frame Timing", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Avg: %s (%.0f fps)", stats.AvgFrameDuration.Round(time.Microsecond), stats.FPS), x, y, 14, rl.Yellow)
	y += 16

	for _, phase := range telemetry.Phases() {
		pct := stats.PhasePct[phase]
		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}
		rl.DrawText(
			fmt.Sprintf("%-14s %8s %5.1f%%", phase, stats.PhaseAvg[phase].Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
