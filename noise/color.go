package noise

import (
	"image/color"

	"github.com/pthm-cable/noisetex/interp"
)

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ToRGBA converts a [0, 1] color vector to 8-bit RGBA. Channels that
// overshoot (bicubic ringing) are clamped.
func ToRGBA(c interp.Vec3) color.RGBA {
	return color.RGBA{
		R: uint8(255*clamp01(c.X) + 0.5),
		G: uint8(255*clamp01(c.Y) + 0.5),
		B: uint8(255*clamp01(c.Z) + 0.5),
		A: 255,
	}
}
