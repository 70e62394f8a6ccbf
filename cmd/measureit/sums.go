package main

import (
	"fmt"

	"github.com/jaosorio1013/MeasureIt-ARCH/internal/draw"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/edit"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/measurement"
	"github.com/spf13/cobra"
)

var sumsCmd = &cobra.Command{
	Use:   "sums [scene.yaml]",
	Short: "Print the group sums of every object",
	Long: `Accumulate the distances of segment and projected measures per group letter.
Hidden measures still count; measures that cannot be resolved are left out.`,
	Args: cobra.ExactArgs(1),
	Run:  runSums,
}

var clearSumsCmd = &cobra.Command{
	Use:   "clear-sums [scene.yaml] [object]",
	Short: "Remove the group assignment of all measures",
	Args:  cobra.RangeArgs(1, 2),
	Run:   runClearSums,
}

func init() {
	rootCmd.AddCommand(sumsCmd)
	rootCmd.AddCommand(clearSumsCmd)
}

func runSums(cmd *cobra.Command, args []string) {
	s := loadScene(args[0])
	units := s.ResolveUnits(cfg.MeasureUnits())
	style := cfg.Style()
	meters := measurement.Units{System: units.System, Scale: 1}

	var all measurement.GroupSums
	for _, obj := range s.All() {
		sums := draw.Sums(obj, s, units)
		if sums.Empty() {
			continue
		}
		fmt.Println(heading(obj.Name()))
		for b, total := range sums.Buckets() {
			fmt.Printf("  %s: %s\n", b, measurement.FormatDistance(total, meters, style.Precision, style.HideUnits))
		}
		fmt.Printf("  Total: %s\n", measurement.FormatDistance(sums.Total, meters, style.Precision, style.HideUnits))
		all.Merge(sums)
	}

	if all.Empty() {
		fmt.Println(dim("no grouped measures"))
		return
	}
	fmt.Printf("%s %s\n", heading("Scene total:"), measurement.FormatDistance(all.Total, meters, style.Precision, style.HideUnits))
}

func runClearSums(cmd *cobra.Command, args []string) {
	s := loadScene(args[0])
	object := ""
	if len(args) > 1 {
		object = args[1]
	}
	if err := edit.ClearSums(s, object); err != nil {
		fail("Error: %v (objects: %s)", err, objectNames(s))
	}
	saveScene(s, args[0])
	fmt.Println("Group sums cleared")
}
