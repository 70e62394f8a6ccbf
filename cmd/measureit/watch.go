package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jaosorio1013/MeasureIt-ARCH/internal/logx"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/scene"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/tessellate"
	"github.com/jaosorio1013/MeasureIt-ARCH/pkg/viewer"
	"github.com/jaosorio1013/MeasureIt-ARCH/pkg/watcher"
	"github.com/spf13/cobra"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [scene.yaml]",
	Short: "Re-render whenever the scene, its meshes or the config change",
	Args:  cobra.ExactArgs(1),
	Run:   runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVarP(&renderOut, "out", "o", "measureit.png", "Output PNG file")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 200*time.Millisecond, "Delay before re-rendering after a change")
}

func runWatch(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	path := args[0]
	fonts, err := tessellate.NewFontCache()
	if err != nil {
		fail("Error loading font: %v", err)
	}
	tt := viewer.Turntable{Frames: 1, Output: renderOut}

	var w *watcher.Watcher
	rerender := func() {
		c, err := loadConfig(configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, warning(fmt.Sprintf("config: %v", err)))
			return
		}
		s, err := scene.Load(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, warning(fmt.Sprintf("scene: %v", err)))
			return
		}
		if err := w.Add(s.MeshFiles()...); err != nil {
			logx.Logger().Warn("cannot watch meshes", "error", err)
		}
		if _, stats, err := renderScene(ctx, s, c, fonts, tt); err != nil {
			fmt.Fprintln(os.Stderr, warning(err.Error()))
		} else {
			fmt.Printf("%s rendered %s\n", time.Now().Format("15:04:05"), tt.Output)
			printFrameStats(stats)
		}
	}

	w, err = watcher.New(watchDebounce, func(paths []string) {
		logx.Logger().Info("scene changed", "files", paths)
		rerender()
	})
	if err != nil {
		fail("Error creating watcher: %v", err)
	}
	files := []string{path}
	if configPath != "" {
		files = append(files, configPath)
	}
	if err := w.Add(files...); err != nil {
		fail("Error: %v", err)
	}

	rerender()
	fmt.Println(dim("watching for changes, press Ctrl+C to stop"))
	if err := w.Run(ctx); err != nil {
		fail("Error: %v", err)
	}
}
