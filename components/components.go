// Package components defines ECS components for the texture viewer.
package components

import (
	"time"

	"github.com/pthm-cable/noisetex/generation"
	"github.com/pthm-cable/noisetex/interp"
	"github.com/pthm-cable/noisetex/noise"
	"github.com/pthm-cable/noisetex/surface"
)

// Texture is a generated (or generating) noise texture.
type Texture struct {
	Surface *surface.Surface
	Request noise.Request
	Seq     int   // Increments with every request
	Seed    int64 // Seed actually used, 0 when the algorithm has none
}

// Generation is attached to a texture while its Job is running.
type Generation struct {
	Job     *generation.Job
	Started time.Time
}

// PerlinInfo keeps the gradient grid of a Perlin texture for the overlay.
type PerlinInfo struct {
	Field *noise.VectorField
}

// CornerInfo keeps the node colors of a corner-interpolated texture.
type CornerInfo struct {
	Colors [16]interp.Vec3
}

// GradientOverlay exists while Perlin gradients are shown.
type GradientOverlay struct {
	// MaxScale caps the glyph scale so neighbouring glyphs never overlap.
	MaxScale float32
}

// TruePixelOverlay exists while corner node markers are shown.
type TruePixelOverlay struct {
	MarkerSize float32 // Side of a marker in texture pixels
	BorderSize float32
}
