package draw

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/jaosorio1013/MeasureIt-ARCH/internal/logx"
)

// Orchestrator gates per-redraw drawing behind an explicit start/stop lifecycle
type Orchestrator struct {
	running atomic.Bool
	frames  atomic.Int64
}

// NewOrchestrator returns a stopped orchestrator
func NewOrchestrator() *Orchestrator {
	return &Orchestrator{}
}

// Start enables drawing on redraw
func (o *Orchestrator) Start() {
	if !o.running.Swap(true) {
		logx.Logger().Info("measurement overlay started")
	}
}

// Stop disables drawing on redraw
func (o *Orchestrator) Stop() {
	if o.running.Swap(false) {
		logx.Logger().Info("measurement overlay stopped", "frames", o.frames.Load())
	}
}

// Running reports whether the overlay is active
func (o *Orchestrator) Running() bool {
	return o.running.Load()
}

// Frames returns the number of frames drawn since creation
func (o *Orchestrator) Frames() int64 {
	return o.frames.Load()
}

// OnRedraw draws the frame when running; the bool reports whether it did
func (o *Orchestrator) OnRedraw(fc FrameContext) (FrameStats, bool) {
	if !o.Running() {
		return FrameStats{}, false
	}
	stats := DrawFrame(fc)
	o.frames.Add(1)
	return stats, true
}

// RenderFrames calls render for frames 0..n-1, checking ctx before each one.
// It returns how many frames completed; frames written before a cancellation
// or failure are kept.
func RenderFrames(ctx context.Context, n int, render func(ctx context.Context, frame int) error) (int, error) {
	log := logx.Logger()
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			log.Info("render cancelled", "completed", i, "requested", n)
			return i, fmt.Errorf("render cancelled after %d of %d frames: %w", i, n, err)
		}
		if err := render(ctx, i); err != nil {
			return i, fmt.Errorf("failed to render frame %d: %w", i, err)
		}
		log.Info("rendered frame", "frame", i)
	}
	return n, nil
}
