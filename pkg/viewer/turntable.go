package viewer

import (
	"context"
	"fmt"
	"image/color"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/draw"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/measurement"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/tessellate"
)

// Turntable renders a sequence of PNG frames around the scene
type Turntable struct {
	Frames    int
	OrbitStep float64 // Degrees of azimuth between frames
	Output    string  // Target file; with several frames each gets a -NNN suffix
}

// FramePath returns the file name of frame i
func (t Turntable) FramePath(i int) string {
	if t.Frames <= 1 {
		return t.Output
	}
	ext := filepath.Ext(t.Output)
	return fmt.Sprintf("%s-%03d%s", strings.TrimSuffix(t.Output, ext), i, ext)
}

// Render draws and saves every frame, orbiting cam between them.
// Frames written before a cancellation stay on disk; the returned stats are the
// last completed frame's.
func (t Turntable) Render(ctx context.Context, scene draw.Scene, cam *Camera, opts draw.Options, ro RenderOptions, fonts *tessellate.FontCache) (int, draw.FrameStats, error) {
	var last draw.FrameStats
	n, err := draw.RenderFrames(ctx, max(t.Frames, 1), func(_ context.Context, i int) error {
		if i > 0 {
			cam.Rotate(0, mgl64.DegToRad(t.OrbitStep))
		}
		r, stats := Render(scene, cam, opts, ro, fonts, nil)
		if err := r.SavePNG(t.FramePath(i)); err != nil {
			return err
		}
		last = stats
		return nil
	})
	return n, last, err
}

// RGBA converts a float color to 8-bit
func RGBA(c measurement.Color) color.RGBA {
	return toRGBA(c)
}
