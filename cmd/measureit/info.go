package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jaosorio1013/MeasureIt-ARCH/pkg/analysis"
	"github.com/jaosorio1013/MeasureIt-ARCH/pkg/stl"
	"github.com/spf13/cobra"
)

var infoEdges int

var infoCmd = &cobra.Command{
	Use:   "info [scene.yaml|model.stl]",
	Short: "Display mesh statistics of a scene or STL file",
	Long:  "Show vertex, face and edge counts, bounding box, surface area and measure counts per object.",
	Args:  cobra.ExactArgs(1),
	Run:   runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().IntVarP(&infoEdges, "edges", "e", 0, "Also list the N longest edges of each mesh")
}

func runInfo(cmd *cobra.Command, args []string) {
	filename := args[0]

	if strings.EqualFold(filepath.Ext(filename), ".stl") {
		model, err := stl.Parse(filename)
		if err != nil {
			fail("Error parsing STL file: %v", err)
		}
		vertices, faces := model.Indexed()
		fmt.Println(heading("STL File Information"))
		if model.Name != "" {
			fmt.Printf("Name: %s\n", model.Name)
		}
		fmt.Printf("File: %s\n\n", filename)
		printStats(analysis.Analyze(vertices, faces, mgl64.Ident4()))
		return
	}

	s := loadScene(filename)
	units := s.ResolveUnits(cfg.MeasureUnits())
	fmt.Println(heading("Scene Information"))
	fmt.Printf("File: %s\n", filename)
	fmt.Printf("Units: %s (scale %g)\n", units.System, units.Scale)
	fmt.Printf("Styles: %d\n", s.StyleSet().Len())
	fmt.Printf("Objects: %d\n", len(s.All()))

	for _, obj := range s.All() {
		fmt.Println()
		state := ""
		if !obj.Visible() {
			state += " hidden"
		}
		if obj.Selected() {
			state += " selected"
		}
		fmt.Printf("%s%s\n", heading(obj.Name()), dim(state))
		fmt.Printf("  Measures: %d\n", obj.Measures().Len())
		printStats(analysis.Analyze(obj.Vertices(), obj.Faces(), obj.Transform()))
	}
}

func printStats(result *analysis.MeshStats) {
	fmt.Println("  Mesh:")
	fmt.Printf("    Vertices: %d\n", result.VertexCount)
	fmt.Printf("    Faces: %d\n", result.FaceCount)
	if result.InvalidFaces > 0 {
		fmt.Println(warning(fmt.Sprintf("    Invalid faces: %d", result.InvalidFaces)))
	}
	fmt.Printf("    Edges: %d\n", result.EdgeCount)
	fmt.Printf("    Surface Area: %.6f square units\n", result.SurfaceArea)

	if result.BoundingBox.Empty() {
		return
	}
	fmt.Println("  Bounding Box:")
	fmt.Printf("    Min: %s\n", analysis.FormatVector(result.BoundingBox.Min))
	fmt.Printf("    Max: %s\n", analysis.FormatVector(result.BoundingBox.Max))
	fmt.Printf("    Center: %s\n", analysis.FormatVector(result.BoundingBox.Center()))
	fmt.Printf("    Size: %.6f x %.6f x %.6f (diagonal %.6f)\n",
		result.Dimensions.X, result.Dimensions.Y, result.Dimensions.Z, result.BoundingBox.Diagonal())

	if result.EdgeCount == 0 {
		return
	}
	fmt.Println("  Edge Lengths:")
	fmt.Printf("    Minimum: %.6f\n", result.MinEdgeLength)
	fmt.Printf("    Maximum: %.6f\n", result.MaxEdgeLength)
	fmt.Printf("    Average: %.6f\n", result.AvgEdgeLength)
	for i, e := range result.LongestEdges(infoEdges) {
		fmt.Printf("    %3d. %d-%d: %.6f\n", i+1, e.A, e.B, e.Length)
	}
}
