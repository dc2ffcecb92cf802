package app

import (
	"context"
	"errors"

	"github.com/pthm-cable/noisetex/noise"
)

// RunHeadless generates req without a window, driving the same
// Update/PrepareDraw cycle a frame loop would. It returns the completion
// event, or ctx's error after aborting the job if ctx ends first.
func (a *App) RunHeadless(ctx context.Context, req noise.Request) (FinishedEvent, error) {
	if err := a.Request(req); err != nil {
		return FinishedEvent{}, err
	}
	seq := a.seq
	for {
		if ev, ok := a.LastFinished(); ok && ev.Record.Sequence == seq {
			// Publish the final pixels for Image and export.
			a.PrepareDraw(nil)
			return ev, nil
		}
		if err := ctx.Err(); err != nil {
			a.Shutdown()
			return FinishedEvent{}, err
		}
		if !a.Generating() {
			return FinishedEvent{}, errors.New("generation stopped without finishing")
		}
		a.Update()
		a.PrepareDraw(nil)
	}
}
