package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/noisetex/camera"
)

// BeginView clips drawing to the camera viewport and switches to world
// coordinates.
func BeginView(cam *camera.Camera) {
	rl.BeginScissorMode(int32(cam.ViewportX), int32(cam.ViewportY), int32(cam.ViewportW), int32(cam.ViewportH))
	rl.BeginMode2D(rl.Camera2D{
		Offset: rl.Vector2{X: cam.ViewportX + cam.ViewportW/2, Y: cam.ViewportY + cam.ViewportH/2},
		Target: rl.Vector2{X: cam.X, Y: cam.Y},
		Zoom:   cam.Zoom,
	})
}

// EndView restores screen coordinates.
func EndView() {
	rl.EndMode2D()
	rl.EndScissorMode()
}
