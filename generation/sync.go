package generation

import (
	"time"

	"github.com/pthm-cable/noisetex/surface"
)

// GenerateSync writes every pixel of surf in a single pass on the calling
// goroutine. Used for samplers that are cheap or not safe to share.
func GenerateSync(surf *surface.Surface, s Sampler) Result {
	start := time.Now()
	w := surf.Writer()
	busy := time.Now()
	for x := 0; x < surf.Width(); x++ {
		for y := 0; y < surf.Height(); y++ {
			w.Set(x, y, s.Sample(x, y))
		}
	}
	w.Release()
	return Result{CPU: time.Since(busy), Wall: time.Since(start), Columns: surf.Width()}
}
