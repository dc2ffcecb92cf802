// Package generation fills a surface.Surface from a Sampler, either in one
// synchronous pass or as a Job split between worker goroutines and a
// time-sliced share run on the caller's goroutine.
package generation

import (
	"fmt"
	"image/color"
	"time"
)

// NumThreads is the number of column ranges a Job is split into, counting
// the share run by the caller.
const NumThreads = 4

// DefaultBudget is the wall time one Continue call may spend writing.
const DefaultBudget = 25 * time.Millisecond

// Sampler produces the color of a single pixel. Samplers used by a Job are
// called from several goroutines at once.
type Sampler interface {
	Sample(x, y int) color.RGBA
}

// ColumnRange is the half-open column interval [From, Until).
type ColumnRange struct {
	From, Until int
}

// Len returns the number of columns in the range.
func (r ColumnRange) Len() int {
	return r.Until - r.From
}

// Partition splits width columns into k contiguous ranges. Every range but
// the last holds width/k columns; the last one absorbs the remainder.
func Partition(width, k int) []ColumnRange {
	if width <= 0 || k <= 0 {
		panic(fmt.Sprintf("generation: cannot partition %d columns into %d ranges", width, k))
	}
	per := width / k
	ranges := make([]ColumnRange, k)
	for i := range ranges {
		ranges[i].From = i * per
		if i == k-1 {
			ranges[i].Until = width
		} else {
			ranges[i].Until = (i + 1) * per
		}
	}
	return ranges
}
