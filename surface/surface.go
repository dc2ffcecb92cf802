// Package surface holds the pixel buffers a texture is generated into.
//
// Generation workers write into the working buffer while holding the shared
// side of a reader/writer lock. Once per frame the render side calls
// PrepareForDraw, which raises the preparing flag so writers pause at their
// next column boundary, takes the exclusive lock and publishes the working
// buffer to the presented buffer.
package surface

import (
	"image"
	"image/color"
	"sync"
	"sync/atomic"
)

// Bitmap receives presented pixels, row-major, width*height long.
type Bitmap interface {
	Update(pixels []color.RGBA)
}

// Surface is a width x height RGBA texture under concurrent generation.
type Surface struct {
	width, height int

	mu        sync.RWMutex
	working   []color.RGBA
	presented []color.RGBA
	modified  atomic.Bool

	preparing atomic.Bool
	pauseMu   sync.Mutex
	pauseCond *sync.Cond
}

var initialColor = color.RGBA{R: 128, G: 128, B: 128, A: 255}

// New allocates a surface filled with mid grey. The preparing flag starts
// raised, so writers block until the first PrepareForDraw.
func New(width, height int) *Surface {
	if width <= 0 || height <= 0 {
		panic("surface: non-positive size")
	}
	s := &Surface{
		width:     width,
		height:    height,
		working:   make([]color.RGBA, width*height),
		presented: make([]color.RGBA, width*height),
	}
	for i := range s.working {
		s.working[i] = initialColor
		s.presented[i] = initialColor
	}
	s.pauseCond = sync.NewCond(&s.pauseMu)
	s.preparing.Store(true)
	return s
}

// Width returns the texture width in pixels.
func (s *Surface) Width() int { return s.width }

// Height returns the texture height in pixels.
func (s *Surface) Height() int { return s.height }

// Writer is a shared hold on the working buffer.
type Writer struct {
	s *Surface
}

// Writer acquires the shared lock. Several writers may hold it at once as
// long as they write disjoint pixels.
func (s *Surface) Writer() *Writer {
	s.mu.RLock()
	return &Writer{s: s}
}

// Set writes one pixel of the working buffer.
func (w *Writer) Set(x, y int, c color.RGBA) {
	w.s.working[x+y*w.s.width] = c
}

// Release drops the shared lock and marks the surface modified.
func (w *Writer) Release() {
	w.s.modified.Store(true)
	w.s.mu.RUnlock()
}

// Preparing reports whether a snapshot is pending or in progress.
func (s *Surface) Preparing() bool {
	return s.preparing.Load()
}

// WaitWhilePreparing blocks until the preparing flag clears or stop returns
// true. stop may be nil. Callers must not hold a Writer.
func (s *Surface) WaitWhilePreparing(stop func() bool) {
	s.pauseMu.Lock()
	defer s.pauseMu.Unlock()
	for s.preparing.Load() {
		if stop != nil && stop() {
			return
		}
		s.pauseCond.Wait()
	}
}

// Wake wakes every goroutine blocked in WaitWhilePreparing so it can
// re-check its stop condition.
func (s *Surface) Wake() {
	s.pauseMu.Lock()
	s.pauseCond.Broadcast()
	s.pauseMu.Unlock()
}

// MarkModified flags the working buffer as changed since the last snapshot.
func (s *Surface) MarkModified() {
	s.modified.Store(true)
}

// PrepareForDraw publishes the working buffer. If it changed since the last
// call, it is copied to the presented buffer and handed to dst (which may be
// nil). Returns whether a copy happened. Must be called from a single
// goroutine, never while holding a Writer.
func (s *Surface) PrepareForDraw(dst Bitmap) bool {
	s.preparing.Store(true)
	s.mu.Lock()
	copied := s.modified.Swap(false)
	if copied {
		copy(s.presented, s.working)
		if dst != nil {
			dst.Update(s.presented)
		}
	}
	s.mu.Unlock()

	s.pauseMu.Lock()
	s.preparing.Store(false)
	s.pauseCond.Broadcast()
	s.pauseMu.Unlock()
	return copied
}

// WorkingCopy returns a copy of the working buffer, including writes not
// yet published. It takes the exclusive lock and so waits for every
// writer; call it once generation has finished.
func (s *Surface) WorkingCopy() []color.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]color.RGBA, len(s.working))
	copy(out, s.working)
	return out
}

// Presented returns a copy of the last published pixels.
func (s *Surface) Presented() []color.RGBA {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]color.RGBA, len(s.presented))
	copy(out, s.presented)
	return out
}

// PresentedAt returns one published pixel. Coordinates must be in range.
func (s *Surface) PresentedAt(x, y int) color.RGBA {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.presented[x+y*s.width]
}

// Image returns the last published pixels as an image.
func (s *Surface) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i, c := range s.presented {
		o := i * 4
		img.Pix[o] = c.R
		img.Pix[o+1] = c.G
		img.Pix[o+2] = c.B
		img.Pix[o+3] = c.A
	}
	return img
}
