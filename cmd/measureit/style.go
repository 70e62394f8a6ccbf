package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jaosorio1013/MeasureIt-ARCH/internal/edit"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/measurement"
	"github.com/spf13/cobra"
)

var (
	styleColor     string
	styleAreaColor string
	styleLineWidth float64
	styleFontSize  float64
	stylePrecision int
	styleDashed    bool
	styleHideUnits bool
	styleArrowA    string
	styleArrowB    string
	styleAlign     string
)

var styleCmd = &cobra.Command{
	Use:   "style",
	Short: "Manage the named styles of a scene",
}

var styleListCmd = &cobra.Command{
	Use:   "list [scene.yaml]",
	Short: "List the named styles",
	Args:  cobra.ExactArgs(1),
	Run:   runStyleList,
}

var styleAddCmd = &cobra.Command{
	Use:   "add [scene.yaml] [name]",
	Short: "Add a named style; unset flags defer to the scene defaults",
	Args:  cobra.ExactArgs(2),
	Run:   runStyleAdd,
}

var styleDeleteAllCmd = &cobra.Command{
	Use:   "delete-all [scene.yaml]",
	Short: "Delete every named style; measures using one fall back to the defaults",
	Args:  cobra.ExactArgs(1),
	Run:   runStyleDeleteAll,
}

func init() {
	rootCmd.AddCommand(styleCmd)
	styleCmd.AddCommand(styleListCmd, styleAddCmd, styleDeleteAllCmd)

	f := styleAddCmd.Flags()
	f.StringVar(&styleColor, "color", "", "Line and text color as r,g,b[,a] in 0..1")
	f.StringVar(&styleAreaColor, "area-color", "", "Area fill color as r,g,b[,a] in 0..1")
	f.Float64Var(&styleLineWidth, "line-width", 1, "Line width in pixels")
	f.Float64Var(&styleFontSize, "font-size", 14, "Font size in pixels")
	f.IntVar(&stylePrecision, "precision", 2, "Fractional digits")
	f.BoolVar(&styleDashed, "dashed", false, "Dashed lines")
	f.BoolVar(&styleHideUnits, "hide-units", false, "Omit the unit suffix")
	f.StringVar(&styleArrowA, "arrow-a", "", "Arrow at the first end: none, line, triangle or tshape")
	f.StringVar(&styleArrowB, "arrow-b", "", "Arrow at the second end")
	f.StringVar(&styleAlign, "align", "", "Text alignment: left, center or right")
}

func runStyleList(cmd *cobra.Command, args []string) {
	s := loadScene(args[0])
	if s.StyleSet().Len() == 0 {
		fmt.Println(dim("no styles"))
		return
	}
	for _, style := range s.StyleSet().All() {
		fmt.Printf("%3d  %s\n", style.ID, style.Name)
	}
}

func runStyleAdd(cmd *cobra.Command, args []string) {
	path, name := args[0], args[1]
	s := loadScene(path)

	fields, err := styleFields(cmd)
	if err != nil {
		fail("Error: %v", err)
	}
	id, err := edit.AddStyle(s, name, fields)
	if err != nil {
		fail("Error: %v", err)
	}
	saveScene(s, path)
	fmt.Printf("Added style %s with id %d\n", name, id)
}

func runStyleDeleteAll(cmd *cobra.Command, args []string) {
	s := loadScene(args[0])
	n := edit.DeleteAllStyles(s)
	saveScene(s, args[0])
	fmt.Printf("Deleted %d style(s)\n", n)
}

// styleFields collects the flags the user actually set
func styleFields(cmd *cobra.Command) (measurement.StyleFields, error) {
	var f measurement.StyleFields
	changed := cmd.Flags().Changed

	if changed("color") {
		c, err := parseColor(styleColor)
		if err != nil {
			return f, err
		}
		f.Color = &c
	}
	if changed("area-color") {
		c, err := parseColor(styleAreaColor)
		if err != nil {
			return f, err
		}
		f.AreaColor = &c
	}
	if changed("line-width") {
		f.LineWidth = &styleLineWidth
	}
	if changed("font-size") {
		f.FontSize = &styleFontSize
	}
	if changed("precision") {
		f.Precision = &stylePrecision
	}
	if changed("dashed") {
		f.Dashed = &styleDashed
	}
	if changed("hide-units") {
		f.HideUnits = &styleHideUnits
	}
	for _, arrow := range []struct {
		flag string
		text string
		dst  **measurement.ArrowKind
	}{
		{"arrow-a", styleArrowA, &f.ArrowA},
		{"arrow-b", styleArrowB, &f.ArrowB},
	} {
		if !changed(arrow.flag) {
			continue
		}
		var k measurement.ArrowKind
		if err := k.UnmarshalText([]byte(arrow.text)); err != nil {
			return f, err
		}
		*arrow.dst = &k
	}
	if changed("align") {
		var a measurement.Align
		if err := a.UnmarshalText([]byte(styleAlign)); err != nil {
			return f, err
		}
		f.FontAlign = &a
	}
	return f, nil
}

func parseColor(text string) (measurement.Color, error) {
	c := measurement.Color{0, 0, 0, 1}
	parts := strings.Split(text, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return c, fmt.Errorf("invalid color %q, want r,g,b[,a]", text)
	}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || v < 0 || v > 1 {
			return c, fmt.Errorf("invalid color component %q", p)
		}
		c[i] = v
	}
	return c, nil
}
