package ui

import (
	"fmt"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/noisetex/telemetry"
)

// InspectorData holds the pixel under the cursor and the statistics of the
// last finished texture.
type InspectorData struct {
	X, Y     int
	InBounds bool
	Pixel    color.RGBA
	HasStats bool
	Stats    telemetry.TextureStats
}

var inspectorSections = []SectionDescriptor{
	{
		Title: "Pixel",
		Fields: []FieldDescriptor{
			{Label: "Position", Widget: WidgetText, TextGetter: func(d any) string {
				data := d.(InspectorData)
				if !data.InBounds {
					return "outside"
				}
				return fmt.Sprintf("%d, %d", data.X, data.Y)
			}},
			{Label: "RGB", Widget: WidgetText, Visible: inBounds, TextGetter: func(d any) string {
				p := d.(InspectorData).Pixel
				return fmt.Sprintf("%d %d %d", p.R, p.G, p.B)
			}},
			{Label: "Color", Widget: WidgetColorSwatch, Visible: inBounds, ColorGetter: func(d any) rl.Color {
				return rl.Color(d.(InspectorData).Pixel)
			}},
			{Label: "Luma", Widget: WidgetBar, Visible: inBounds, Getter: func(d any) float32 {
				return float32(telemetry.Luminance(d.(InspectorData).Pixel))
			}},
		},
	},
	{
		Title:   "Texture",
		Visible: func(d any) bool { return d.(InspectorData).HasStats },
		Fields: []FieldDescriptor{
			{Label: "Mean", Widget: WidgetBar, Getter: statGetter(func(s telemetry.TextureStats) float64 { return s.Mean })},
			{Label: "Std dev", Widget: WidgetText, Format: "%.3f", Getter: statGetter(func(s telemetry.TextureStats) float64 { return s.StdDev })},
			{Label: "Min", Widget: WidgetText, Format: "%.3f", Getter: statGetter(func(s telemetry.TextureStats) float64 { return s.Min })},
			{Label: "Max", Widget: WidgetText, Format: "%.3f", Getter: statGetter(func(s telemetry.TextureStats) float64 { return s.Max })},
			{Label: "P10/50/90", Widget: WidgetText, TextGetter: func(d any) string {
				s := d.(InspectorData).Stats
				return fmt.Sprintf("%.2f %.2f %.2f", s.P10, s.P50, s.P90)
			}},
		},
	},
}

func inBounds(d any) bool {
	return d.(InspectorData).InBounds
}

func statGetter(f func(telemetry.TextureStats) float64) func(any) float32 {
	return func(d any) float32 {
		return float32(f(d.(InspectorData).Stats))
	}
}

// Inspector renders the pixel inspection panel.
type Inspector struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewInspector creates a new inspector panel.
func NewInspector(x, y, width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Draw renders the inspector panel and returns the Y below it.
func (ins *Inspector) Draw(data InspectorData) int32 {
	r := ins.renderer
	padding := r.Theme.Padding

	height := padding * 2
	for _, sd := range inspectorSections {
		height += r.SectionHeight(sd, data)
	}
	r.DrawPanel(ins.x, ins.y, ins.width, height)

	y := ins.y + padding
	for _, sd := range inspectorSections {
		y = r.DrawSection(ins.x+padding, y, sd, data, ins.width-padding*2)
	}
	return ins.y + height
}
