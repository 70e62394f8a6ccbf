package main

import (
	"fmt"
	"os"

	"github.com/jaosorio1013/MeasureIt-ARCH/internal/config"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "measureit-raylib <scene.yaml>",
	Short: "GPU viewer for measurement scenes",
	Long: `Open a scene in a raylib window with its measurement overlay.

  Drag         orbit
  Wheel        zoom
  M            start or stop the overlay
  G            toggle ghost mode (all objects or selected only)
  D            toggle vertex debug overlay
  W            toggle wireframe
  Home         reset the camera`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Default()
		if configPath != "" {
			c, err := config.Load(configPath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
				os.Exit(1)
			}
			cfg = c
		}
		if err := Run(args[0], configPath, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML configuration file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
