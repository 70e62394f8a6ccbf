package main

import (
	"context"
	"fmt"
	"image/color"
	"os"
	"os/signal"
	"syscall"

	"github.com/jaosorio1013/MeasureIt-ARCH/internal/config"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/draw"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/scene"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/tessellate"
	"github.com/jaosorio1013/MeasureIt-ARCH/pkg/viewer"
	"github.com/spf13/cobra"
)

var (
	renderOut    string
	renderFrames int
	renderOrbit  float64
	renderWidth  int
	renderHeight int
)

var renderCmd = &cobra.Command{
	Use:   "render [scene.yaml]",
	Short: "Render the scene with its measurement overlay to PNG",
	Long: `Render the visible meshes and their measurement overlay with the software
rasterizer. With --frames greater than one the camera orbits the scene and
every frame is written with a numbered suffix. Interrupting keeps the frames
already written.`,
	Args: cobra.ExactArgs(1),
	Run:  runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "measureit.png", "Output PNG file")
	renderCmd.Flags().IntVarP(&renderFrames, "frames", "n", 0, "Number of frames (default from config)")
	renderCmd.Flags().Float64Var(&renderOrbit, "orbit", 0, "Degrees of orbit between frames (default from config)")
	renderCmd.Flags().IntVar(&renderWidth, "width", 0, "Image width (default from config)")
	renderCmd.Flags().IntVar(&renderHeight, "height", 0, "Image height (default from config)")
}

func runRender(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fonts, err := tessellate.NewFontCache()
	if err != nil {
		fail("Error loading font: %v", err)
	}

	s := loadScene(args[0])
	tt := viewer.Turntable{
		Frames:    pick(renderFrames, cfg.Render.Frames),
		OrbitStep: pick(renderOrbit, cfg.Render.OrbitStep),
		Output:    renderOut,
	}

	n, stats, err := renderScene(ctx, s, cfg, fonts, tt)
	if err != nil {
		fail("Error: %v (%d frame(s) written)", err, n)
	}
	fmt.Printf("Rendered %d frame(s) to %s\n", n, tt.FramePath(0))
	printFrameStats(stats)
}

func renderScene(ctx context.Context, s *scene.Scene, c *config.Config, fonts *tessellate.FontCache, tt viewer.Turntable) (int, draw.FrameStats, error) {
	cam := viewer.NewCamera(s.Bounds(), c.Render.FOV)
	opts := c.Options(fonts)
	opts.Units = s.ResolveUnits(opts.Units)
	return tt.Render(ctx, s, cam, opts, renderOptions(c), fonts)
}

func renderOptions(c *config.Config) viewer.RenderOptions {
	return viewer.RenderOptions{
		Width:        pick(renderWidth, c.Render.Width),
		Height:       pick(renderHeight, c.Render.Height),
		Background:   viewer.RGBA(c.Render.Background),
		Surface:      true,
		SurfaceColor: color.RGBA{R: 150, G: 150, B: 155, A: 255},
		Wireframe:    c.Render.Wireframe,
		WireColor:    viewer.RGBA(c.Render.WireColor),
	}
}

func printFrameStats(stats draw.FrameStats) {
	fmt.Printf("  Objects: %d, measures: %d, batches: %d, text lines: %d\n",
		stats.Objects, stats.Entities, stats.Batches, stats.TextLines)
	if stats.Skipped > 0 {
		fmt.Println(warning(fmt.Sprintf("  Skipped %d unresolvable measure(s)", stats.Skipped)))
	}
	if stats.Warnings > 0 {
		fmt.Println(warning(fmt.Sprintf("  %d measure(s) ignore a non-zero excluded axis", stats.Warnings)))
	}
}

// pick returns flag unless it is the zero value
func pick[T int | float64](flag, fallback T) T {
	if flag != 0 {
		return flag
	}
	return fallback
}
