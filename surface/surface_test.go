package surface

import (
	"image/color"
	"sync/atomic"
	"testing"
	"time"
)

type recordingBitmap struct {
	updates int
	last    []color.RGBA
}

func (b *recordingBitmap) Update(pixels []color.RGBA) {
	b.updates++
	b.last = append(b.last[:0], pixels...)
}

func TestNewSurfaceStartsPreparing(t *testing.T) {
	s := New(4, 3)
	if !s.Preparing() {
		t.Error("new surface should start with preparing raised")
	}
	if s.Width() != 4 || s.Height() != 3 {
		t.Errorf("size = %dx%d, want 4x3", s.Width(), s.Height())
	}
	for i, c := range s.Presented() {
		if c != initialColor {
			t.Fatalf("pixel %d = %+v, want grey", i, c)
		}
	}

	s.PrepareForDraw(nil)
	if s.Preparing() {
		t.Error("preparing should clear after PrepareForDraw")
	}
}

func TestPrepareForDrawCopiesOnlyWhenModified(t *testing.T) {
	s := New(2, 2)
	bm := &recordingBitmap{}

	if s.PrepareForDraw(bm) {
		t.Error("unmodified surface should not copy")
	}
	if bm.updates != 0 {
		t.Errorf("bitmap updated %d times, want 0", bm.updates)
	}

	red := color.RGBA{R: 255, A: 255}
	w := s.Writer()
	w.Set(1, 1, red)
	w.Release()

	if !s.PrepareForDraw(bm) {
		t.Fatal("modified surface should copy")
	}
	if bm.updates != 1 {
		t.Fatalf("bitmap updated %d times, want 1", bm.updates)
	}
	if bm.last[3] != red {
		t.Errorf("bitmap pixel (1,1) = %+v, want red", bm.last[3])
	}
	if s.Presented()[3] != red {
		t.Errorf("presented pixel (1,1) = %+v, want red", s.Presented()[3])
	}

	if s.PrepareForDraw(bm) {
		t.Error("second prepare without writes should not copy")
	}

	s.MarkModified()
	if !s.PrepareForDraw(bm) {
		t.Error("MarkModified should force a copy")
	}
}

func TestWaitWhilePreparingReleasedBySnapshot(t *testing.T) {
	s := New(2, 2)
	done := make(chan struct{})
	go func() {
		s.WaitWhilePreparing(nil)
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("waiter returned before the first snapshot")
	case <-time.After(20 * time.Millisecond):
	}

	s.PrepareForDraw(nil)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("waiter not released by PrepareForDraw")
	}
}

func TestWaitWhilePreparingStopAndWake(t *testing.T) {
	s := New(2, 2)
	var stop atomic.Bool
	done := make(chan struct{})
	go func() {
		s.WaitWhilePreparing(stop.Load)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	stop.Store(true)
	s.Wake()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("waiter not released by Wake with stop set")
	}
	if !s.Preparing() {
		t.Error("Wake must not clear the preparing flag")
	}
}

func TestImageMatchesPresented(t *testing.T) {
	s := New(3, 2)
	w := s.Writer()
	w.Set(2, 1, color.RGBA{R: 1, G: 2, B: 3, A: 255})
	w.Release()
	s.PrepareForDraw(nil)

	img := s.Image()
	if got := img.RGBAAt(2, 1); got != (color.RGBA{R: 1, G: 2, B: 3, A: 255}) {
		t.Errorf("image pixel = %+v", got)
	}
	if got := img.RGBAAt(0, 0); got != initialColor {
		t.Errorf("untouched pixel = %+v, want grey", got)
	}
	if got := s.PresentedAt(2, 1); got != (color.RGBA{R: 1, G: 2, B: 3, A: 255}) {
		t.Errorf("PresentedAt(2,1) = %+v", got)
	}
}

func TestConcurrentWritersShareLock(t *testing.T) {
	s := New(8, 8)
	s.PrepareForDraw(nil)

	w1 := s.Writer()
	acquired := make(chan struct{})
	go func() {
		w2 := s.Writer()
		w2.Set(7, 7, color.RGBA{B: 255, A: 255})
		w2.Release()
		close(acquired)
	}()
	select {
	case <-acquired:
	case <-time.After(2 * time.Second):
		t.Fatal("second writer blocked by the first")
	}
	w1.Set(0, 0, color.RGBA{G: 255, A: 255})
	w1.Release()

	s.PrepareForDraw(nil)
	px := s.Presented()
	if px[0].G != 255 || px[63].B != 255 {
		t.Errorf("writes not published: %+v %+v", px[0], px[63])
	}
}

func TestWorkingCopyDoesNotPublish(t *testing.T) {
	s := New(2, 1)
	w := s.Writer()
	w.Set(0, 0, color.RGBA{R: 9, A: 255})
	w.Release()

	if got := s.WorkingCopy()[0]; got.R != 9 {
		t.Errorf("working copy pixel = %+v", got)
	}
	if got := s.Presented()[0]; got != initialColor {
		t.Errorf("presented changed before PrepareForDraw: %+v", got)
	}
	if !s.PrepareForDraw(nil) {
		t.Error("WorkingCopy must not clear the modified flag")
	}
}
