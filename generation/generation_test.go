package generation

import (
	"image/color"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pthm-cable/noisetex/surface"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type columnSampler struct{}

func (columnSampler) Sample(x, y int) color.RGBA {
	return color.RGBA{R: uint8(x), G: uint8(y), B: 7, A: 255}
}

type slowSampler struct {
	delay time.Duration
}

func (s slowSampler) Sample(x, y int) color.RGBA {
	if y == 0 {
		time.Sleep(s.delay)
	}
	return color.RGBA{R: 255, A: 255}
}

func TestPartition(t *testing.T) {
	for _, width := range []int{1, 2, 3, 4, 5, 17, 900, 901, 903} {
		for k := 1; k <= 6; k++ {
			ranges := Partition(width, k)
			if len(ranges) != k {
				t.Fatalf("Partition(%d,%d) returned %d ranges", width, k, len(ranges))
			}
			next := 0
			for i, r := range ranges {
				if r.From != next {
					t.Fatalf("Partition(%d,%d): range %d starts at %d, want %d", width, k, i, r.From, next)
				}
				if i < k-1 && r.Len() != width/k {
					t.Errorf("Partition(%d,%d): range %d has %d columns, want %d", width, k, i, r.Len(), width/k)
				}
				next = r.Until
			}
			if next != width {
				t.Errorf("Partition(%d,%d) covers %d columns", width, k, next)
			}
		}
	}
}

func TestPartitionPanicsOnInvalidInput(t *testing.T) {
	for _, tc := range [][2]int{{0, 4}, {10, 0}, {-3, 2}} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Partition(%d,%d) did not panic", tc[0], tc[1])
				}
			}()
			Partition(tc[0], tc[1])
		}()
	}
}

func runToCompletion(t *testing.T, surf *surface.Surface, job *Job) int {
	t.Helper()
	trues := 0
	deadline := time.Now().Add(10 * time.Second)
	for !job.Done() {
		if job.Continue(time.Millisecond) {
			trues++
		}
		surf.PrepareForDraw(nil)
		if time.Now().After(deadline) {
			job.Abort()
			t.Fatal("generation did not finish")
		}
	}
	return trues
}

func TestJobWritesEveryColumnOnce(t *testing.T) {
	for _, width := range []int{2, 37, 128} {
		surf := surface.New(width, 5)
		counts := make([]atomic.Int32, width)
		job := NewJob(surf, columnSampler{},
			WithLogger(quietLogger),
			WithColumnHook(func(x int) { counts[x].Add(1) }),
		)

		if trues := runToCompletion(t, surf, job); trues != 1 {
			t.Errorf("width %d: Continue returned true %d times", width, trues)
		}
		if job.Continue(time.Millisecond) {
			t.Errorf("width %d: Continue returned true after completion", width)
		}

		for x := range counts {
			if c := counts[x].Load(); c != 1 {
				t.Errorf("width %d: column %d written %d times", width, x, c)
			}
		}

		surf.MarkModified()
		surf.PrepareForDraw(nil)
		px := surf.Presented()
		for y := 0; y < 5; y++ {
			for x := 0; x < width; x++ {
				if px[x+y*width] != (columnSampler{}).Sample(x, y) {
					t.Fatalf("width %d: pixel (%d,%d) = %+v", width, x, y, px[x+y*width])
				}
			}
		}

		res := job.Finished()
		if res.Columns != width {
			t.Errorf("width %d: result columns %d", width, res.Columns)
		}
		if res.CPU <= 0 || res.Wall <= 0 {
			t.Errorf("width %d: expected positive timings, got %+v", width, res)
		}
	}
}

func TestJobWorkersWaitForFirstSnapshot(t *testing.T) {
	surf := surface.New(40, 3)
	var maxColumn atomic.Int32
	maxColumn.Store(-1)
	job := NewJob(surf, columnSampler{},
		WithLogger(quietLogger),
		WithColumnHook(func(x int) {
			for {
				cur := maxColumn.Load()
				if int32(x) <= cur || maxColumn.CompareAndSwap(cur, int32(x)) {
					return
				}
			}
		}),
	)

	job.Continue(50 * time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	mainUntil := job.Ranges()[0].Until
	if got := int(maxColumn.Load()); got >= mainUntil {
		t.Errorf("worker wrote column %d before the first snapshot", got)
	}

	job.Abort()
}

func TestJobAbortStopsWrites(t *testing.T) {
	surf := surface.New(200, 2)
	var written atomic.Int64
	job := NewJob(surf, slowSampler{delay: time.Millisecond},
		WithLogger(quietLogger),
		WithColumnHook(func(int) { written.Add(1) }),
	)

	for i := 0; i < 3; i++ {
		job.Continue(2 * time.Millisecond)
		surf.PrepareForDraw(nil)
	}
	job.Abort()
	after := written.Load()

	time.Sleep(20 * time.Millisecond)
	if got := written.Load(); got != after {
		t.Errorf("columns written after Abort returned: %d -> %d", after, got)
	}
	if after >= 200 {
		t.Fatalf("job finished before abort (%d columns); slow the sampler down", after)
	}
	if job.Continue(time.Millisecond) {
		t.Error("Continue after Abort returned true")
	}
	job.Abort()
}

func TestJobAbortWhileWorkersPaused(t *testing.T) {
	surf := surface.New(64, 2)
	job := NewJob(surf, columnSampler{}, WithLogger(quietLogger))
	job.Continue(time.Millisecond)

	done := make(chan struct{})
	go func() {
		job.Abort()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Abort did not return while workers waited for a snapshot")
	}
}

func TestAbortBeforeStart(t *testing.T) {
	surf := surface.New(8, 8)
	job := NewJob(surf, columnSampler{}, WithLogger(quietLogger))
	job.Abort()
	job.Abort()
	if job.Continue(time.Millisecond) {
		t.Error("aborted job should not report completion")
	}
}

func TestWithThreadsAndSetup(t *testing.T) {
	surf := surface.New(10, 1)
	job := NewJob(surf, columnSampler{},
		WithLogger(quietLogger),
		WithThreads(1),
		WithSetup(5*time.Millisecond),
	)
	if n := len(job.Ranges()); n != 1 {
		t.Fatalf("got %d ranges, want 1", n)
	}
	runToCompletion(t, surf, job)
	res := job.Finished()
	if res.Wall < 5*time.Millisecond || res.CPU < 5*time.Millisecond {
		t.Errorf("setup time not accounted: %+v", res)
	}
}

// blockingBitmap holds the exclusive surface lock inside PrepareForDraw.
type blockingBitmap struct {
	entered chan struct{}
	hold    time.Duration
}

func (b blockingBitmap) Update([]color.RGBA) {
	close(b.entered)
	time.Sleep(b.hold)
}

func TestCPUExcludesLockWait(t *testing.T) {
	const hold = 150 * time.Millisecond
	surf := surface.New(4, 4)
	surf.MarkModified()

	bm := blockingBitmap{entered: make(chan struct{}), hold: hold}
	done := make(chan struct{})
	go func() {
		surf.PrepareForDraw(bm)
		close(done)
	}()
	<-bm.entered

	job := NewJob(surf, columnSampler{}, WithLogger(quietLogger), WithThreads(1))
	if !job.Continue(time.Second) {
		t.Fatal("single-range job should finish in one slice")
	}
	<-done

	res := job.Finished()
	if res.Wall < hold/2 {
		t.Errorf("wall %v should include the wait for the writer", res.Wall)
	}
	if res.CPU >= hold/2 {
		t.Errorf("cpu %v counts time blocked on the snapshot lock", res.CPU)
	}
}

func TestGenerateSync(t *testing.T) {
	surf := surface.New(6, 4)
	res := GenerateSync(surf, columnSampler{})
	if res.Columns != 6 {
		t.Errorf("columns = %d, want 6", res.Columns)
	}
	if !surf.PrepareForDraw(nil) {
		t.Fatal("GenerateSync should mark the surface modified")
	}
	px := surf.Presented()
	if px[5+3*6] != (columnSampler{}).Sample(5, 3) {
		t.Errorf("pixel (5,3) = %+v", px[5+3*6])
	}
}

func BenchmarkJob(b *testing.B) {
	for i := 0; i < b.N; i++ {
		surf := surface.New(256, 256)
		job := NewJob(surf, columnSampler{}, WithLogger(quietLogger))
		for !job.Continue(time.Millisecond) {
			surf.PrepareForDraw(nil)
		}
	}
}
