package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jaosorio1013/MeasureIt-ARCH/internal/config"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/logx"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/scene"
	"github.com/jaosorio1013/MeasureIt-ARCH/version"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	cfg        *config.Config

	stdout = termenv.NewOutput(os.Stdout)
	stderr = termenv.NewOutput(os.Stderr)
)

var rootCmd = &cobra.Command{
	Use:   "measureit",
	Short: "Measurement annotations for 3D scenes",
	Long: `measureit manages dimension annotations attached to mesh objects:
distances, projected and linked distances, angles, arcs, areas and labels.
Scenes are YAML documents; measurements are resolved against the current
object transforms every time they are listed or drawn.`,
	Version: version.GetFullVersion(),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()

		c, err := loadConfig(configPath)
		if err != nil {
			fail("Error loading config: %v", err)
		}
		cfg = c
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "TOML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log progress to stderr")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fail("Error: %v", err)
	}
}

func setupLogging() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func loadScene(path string) *scene.Scene {
	s, err := scene.Load(path)
	if err != nil {
		fail("Error loading scene: %v", err)
	}
	return s
}

func saveScene(s *scene.Scene, path string) {
	if err := s.Save(path); err != nil {
		fail("Error saving scene: %v", err)
	}
}

// fail prints a red error and exits
func fail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, stderr.String(msg).Foreground(stderr.Color("1")))
	os.Exit(1)
}

func heading(title string) string {
	return stdout.String(title).Bold().String()
}

func warning(text string) string {
	return stdout.String(text).Foreground(stdout.Color("3")).String()
}

func dim(text string) string {
	return stdout.String(text).Faint().String()
}
