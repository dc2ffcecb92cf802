package generation

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pthm-cable/noisetex/surface"
)

// Result summarizes a finished generation.
type Result struct {
	// CPU is the time spent writing columns, summed over every goroutine.
	CPU time.Duration
	// Wall is the time spent inside Continue calls plus setup.
	Wall time.Duration
	// Columns is the number of columns written.
	Columns int
}

// SecondsCPU returns CPU in seconds.
func (r Result) SecondsCPU() float64 {
	return r.CPU.Seconds()
}

// Option configures a Job.
type Option func(*Job)

// WithLogger sets the logger used for worker lifecycle messages.
func WithLogger(l *slog.Logger) Option {
	return func(j *Job) { j.logger = l }
}

// WithThreads overrides NumThreads.
func WithThreads(k int) Option {
	return func(j *Job) { j.threads = k }
}

// WithColumnHook registers a callback run after each column is written.
// It is called from worker goroutines.
func WithColumnHook(fn func(x int)) Option {
	return func(j *Job) { j.columnHook = fn }
}

// WithSetup accounts time already spent preparing the sampler, such as
// building a gradient grid.
func WithSetup(d time.Duration) Option {
	return func(j *Job) {
		j.cpuNanos.Add(int64(d))
		j.wall += d
	}
}

// Job generates a surface column by column. Continue, Abort and Finished
// must be called from the goroutine that also calls PrepareForDraw on the
// surface.
type Job struct {
	surf       *surface.Surface
	sampler    Sampler
	logger     *slog.Logger
	threads    int
	columnHook func(x int)

	ranges   []ColumnRange
	mainNext int

	started bool
	done    bool
	joined  bool

	workersFinished atomic.Int32
	abort           atomic.Bool
	wg              sync.WaitGroup

	cpuNanos atomic.Int64
	columns  atomic.Int64
	wall     time.Duration
}

// NewJob prepares a job for surf. No goroutine starts until the first
// Continue.
func NewJob(surf *surface.Surface, s Sampler, opts ...Option) *Job {
	j := &Job{
		surf:    surf,
		sampler: s,
		logger:  slog.Default(),
		threads: NumThreads,
	}
	for _, opt := range opts {
		opt(j)
	}
	j.ranges = Partition(surf.Width(), j.threads)

	covered := 0
	for _, r := range j.ranges {
		covered += r.Len()
	}
	if covered != surf.Width() {
		panic(fmt.Sprintf("generation: ranges cover %d of %d columns", covered, surf.Width()))
	}
	j.mainNext = j.ranges[0].From
	return j
}

// Ranges returns the column ranges, the first being the caller's share.
func (j *Job) Ranges() []ColumnRange {
	out := make([]ColumnRange, len(j.ranges))
	copy(out, j.ranges)
	return out
}

func (j *Job) start() {
	j.started = true
	j.logger.Info("starting generation workers",
		"workers", j.threads-1,
		"main_from", j.ranges[0].From,
		"main_until", j.ranges[0].Until,
	)
	for i := 1; i < j.threads; i++ {
		j.wg.Add(1)
		go j.worker(i, j.ranges[i])
	}
}

// writeColumns writes columns from next until until or keepGoing returns
// false after a column. Returns the next unwritten column.
func (j *Job) writeColumns(next, until int, keepGoing func() bool) int {
	height := j.surf.Height()

	w := j.surf.Writer()
	start := time.Now()
	for next < until {
		for y := 0; y < height; y++ {
			w.Set(next, y, j.sampler.Sample(next, y))
		}
		if j.columnHook != nil {
			j.columnHook(next)
		}
		j.columns.Add(1)
		next++
		if !keepGoing() {
			break
		}
	}
	w.Release()

	j.cpuNanos.Add(int64(time.Since(start)))
	return next
}

func (j *Job) worker(id int, r ColumnRange) {
	defer j.wg.Done()

	next := r.From
	keepGoing := func() bool {
		return !j.abort.Load() && !j.surf.Preparing()
	}
	for next < r.Until {
		j.surf.WaitWhilePreparing(j.abort.Load)
		if j.abort.Load() {
			j.logger.Info("worker aborted", "worker", id, "next", next, "until", r.Until)
			return
		}
		next = j.writeColumns(next, r.Until, keepGoing)
		if j.abort.Load() {
			j.logger.Info("worker aborted", "worker", id, "next", next, "until", r.Until)
			return
		}
		if next < r.Until {
			j.logger.Debug("worker pausing", "worker", id, "next", next, "until", r.Until)
		}
	}
	j.logger.Info("worker finished", "worker", id, "until", r.Until)
	j.workersFinished.Add(1)
}

// Continue runs one time slice of the caller's share. On the first call it
// starts the worker goroutines. If the caller's share is already written it
// sleeps for budget instead. Returns true exactly once, when every column
// has been written and all workers have been joined.
func (j *Job) Continue(budget time.Duration) bool {
	if j.done || j.abort.Load() {
		return false
	}
	if !j.started {
		j.start()
	}

	start := time.Now()
	j.surf.MarkModified()

	mainUntil := j.ranges[0].Until
	if j.mainNext >= mainUntil {
		time.Sleep(budget)
	} else {
		j.mainNext = j.writeColumns(j.mainNext, mainUntil, func() bool {
			return time.Since(start) < budget
		})
	}

	elapsed := time.Since(start)
	j.wall += elapsed

	finished := int(j.workersFinished.Load())
	mainDone := j.mainNext >= mainUntil
	j.logger.Debug("pausing generation",
		"spent_ms", elapsed.Milliseconds(),
		"workers_finished", finished,
		"main_finished", mainDone,
	)

	if finished == j.threads-1 && mainDone {
		j.wg.Wait()
		j.joined = true
		j.done = true
		res := j.Finished()
		j.logger.Info("generation finished",
			"cpu_sec", res.SecondsCPU(),
			"wall_ms", res.Wall.Milliseconds(),
			"columns", res.Columns,
		)
		return true
	}
	return false
}

// Abort stops every worker at its next column boundary and waits for them
// to exit. It is safe to call more than once and after completion.
func (j *Job) Abort() {
	if j.joined {
		return
	}
	j.abort.Store(true)
	j.surf.Wake()
	j.wg.Wait()
	j.joined = true
	if j.started && !j.done {
		j.logger.Info("generation aborted", "columns", j.columns.Load())
	}
}

// Done reports whether Continue has returned true.
func (j *Job) Done() bool {
	return j.done
}

// Finished returns the accumulated timings.
func (j *Job) Finished() Result {
	return Result{
		CPU:     time.Duration(j.cpuNanos.Load()),
		Wall:    j.wall,
		Columns: int(j.columns.Load()),
	}
}
