package main

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/jaosorio1013/MeasureIt-ARCH/internal/measurement"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/scene"
	"github.com/spf13/cobra"
)

var resolveObject string

var resolveCmd = &cobra.Command{
	Use:   "resolve [scene.yaml]",
	Short: "List every measurement with its current value",
	Long: `Resolve all measurements against the current object transforms and print
their values as they would be labeled. Measurements that cannot be resolved
are listed with the reason; axis-exclusion warnings are highlighted.`,
	Args: cobra.ExactArgs(1),
	Run:  runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().StringVarP(&resolveObject, "object", "o", "", "Only list measures of this object")
}

func runResolve(cmd *cobra.Command, args []string) {
	s := loadScene(args[0])
	units := s.ResolveUnits(cfg.MeasureUnits())
	defaults := cfg.Style()

	for _, obj := range s.All() {
		if resolveObject != "" && obj.Name() != resolveObject {
			continue
		}
		fmt.Println(heading(obj.Name()))
		if obj.Measures().Len() == 0 {
			fmt.Println(dim("  no measures"))
			continue
		}

		src := obj.Source()
		for id, e := range obj.Measures().All() {
			prefix := fmt.Sprintf("  [%d] %-18s", id.Index, e.Kind)
			r, err := measurement.Resolve(e, src, s)
			if err != nil {
				var ue *measurement.UnresolvableError
				if errors.As(err, &ue) {
					fmt.Printf("%s %s\n", prefix, warning("unresolvable: "+ue.Reason))
				} else {
					fmt.Printf("%s %s\n", prefix, warning(err.Error()))
				}
				continue
			}

			style := measurement.ResolveStyle(e, s.Styles(), defaults)
			line := prefix + " " + describe(e, r, units, style)
			if e.Bucket != measurement.BucketNone {
				line += dim(" group " + e.Bucket.String())
			}
			if !e.Visible {
				line += dim(" hidden")
			}
			fmt.Println(line)
			if r.Warning != nil {
				fmt.Println(warning("      " + r.Warning.Error()))
			}
		}
	}
}

// describe renders the value of a resolved entity the way its label reads
func describe(e *measurement.Entity, r *measurement.Resolved, units measurement.Units, style measurement.ConcreteStyle) string {
	dist := func(v float64) string {
		return measurement.FormatDistance(v, units, style.Precision, style.HideUnits)
	}

	switch {
	case e.Kind.Distance():
		text := dist(r.Value)
		if r.Degenerate {
			text += dim(" (degenerate)")
		}
		return text
	case e.Kind == measurement.KindAngle:
		return measurement.FormatAngle(r.Value, style.Precision, style.HideUnits)
	case e.Kind == measurement.KindArc:
		parts := []string{e.Arc.RadiusPrefix + dist(r.Secondary), e.Arc.LengthPrefix + dist(r.Value)}
		if r.Arc != nil {
			parts = append(parts, e.Arc.AnglePrefix+measurement.FormatAngle(math.Abs(r.Arc.Sweep), style.Precision, style.HideUnits))
		}
		return strings.Join(parts, " ")
	case e.Kind == measurement.KindArea:
		return measurement.FormatArea(r.Value, units, style.Precision, style.HideUnits)
	}
	return fmt.Sprintf("%q", e.Text)
}

// objectNames lists the scene objects for error messages
func objectNames(s *scene.Scene) string {
	names := make([]string, 0, len(s.All()))
	for _, o := range s.All() {
		names = append(names, o.Name())
	}
	return strings.Join(names, ", ")
}
