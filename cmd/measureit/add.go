package main

import (
	"fmt"
	"strings"

	"github.com/jaosorio1013/MeasureIt-ARCH/internal/edit"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/measurement"
	"github.com/jaosorio1013/MeasureIt-ARCH/pkg/geometry"
	"github.com/spf13/cobra"
)

var (
	addVertices     string
	addEdges        string
	addFaces        string
	addAxis         string
	addText         string
	addTarget       string
	addTargetVertex int
	addStyle        string
	addGroup        string
	addOut          string
)

var addCmd = &cobra.Command{
	Use:   "add [scene.yaml] [object] [kind]",
	Short: "Add measurements from a vertex, edge or face selection",
	Long: `Add measurements to an object. Kinds: ` + strings.Join(edit.Kinds, ", ") + `.

Without --vertices, --edges or --faces the selection stored in the scene is used.
Vertex order matters for angles and arcs: the second vertex is the angle apex.`,
	Example: `  measureit add scene.yaml Plate segment --vertices 0,1
  measureit add scene.yaml Plate projected --vertices 2 --axis z --group A
  measureit add scene.yaml Plate area --faces 0:1:2:3
  measureit add scene.yaml Plate link --target Post --target-vertex 1`,
	Args: cobra.ExactArgs(3),
	Run:  runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringVar(&addVertices, "vertices", "", "Comma separated vertex indices in selection order")
	addCmd.Flags().StringVar(&addEdges, "edges", "", "Comma separated edges as a-b")
	addCmd.Flags().StringVar(&addFaces, "faces", "", "Comma separated face loops as a:b:c")
	addCmd.Flags().StringVar(&addAxis, "axis", "x", "Axis of projected measures (x, y or z)")
	addCmd.Flags().StringVar(&addText, "text", "", "Text of labels and annotations; | starts a new line")
	addCmd.Flags().StringVar(&addTarget, "target", "", "Second object of a link")
	addCmd.Flags().IntVar(&addTargetVertex, "target-vertex", -1, "Vertex of the link target, or the object itself when negative")
	addCmd.Flags().StringVar(&addStyle, "style", "", "Named style to reference")
	addCmd.Flags().StringVar(&addGroup, "group", "", "Group-sum letter A-Z")
	addCmd.Flags().StringVarP(&addOut, "out", "o", "", "Write the scene here instead of in place")
}

func runAdd(cmd *cobra.Command, args []string) {
	path, object, kind := args[0], args[1], args[2]
	s := loadScene(path)

	axis, err := geometry.ParseAxis(addAxis)
	if err != nil {
		fail("Error: %v", err)
	}

	req := edit.Request{
		Kind:   kind,
		Axis:   axis,
		Text:   addText,
		Target: addTarget,
		Style:  addStyle,
		Group:  addGroup,
	}

	if addVertices != "" || addEdges != "" || addFaces != "" {
		sel, err := parseSelection(addVertices, addEdges, addFaces)
		if err != nil {
			fail("Error: %v", err)
		}
		req.Selection = &sel
	}
	if addTargetVertex >= 0 {
		req.TargetSel = &measurement.Selection{Vertices: []int{addTargetVertex}}
	}

	res, err := edit.Add(s, object, req)
	if err != nil {
		fail("Error: %v (objects: %s)", err, objectNames(s))
	}

	out := path
	if addOut != "" {
		out = addOut
	}
	saveScene(s, out)

	fmt.Printf("Added %d %s measure(s) to %s\n", len(res.Created), kind, object)
	if res.Duplicates > 0 {
		fmt.Println(warning(fmt.Sprintf("Skipped %d duplicate(s)", res.Duplicates)))
	}
}

func parseSelection(vertices, edges, faces string) (measurement.Selection, error) {
	v, err := edit.ParseIndices(vertices)
	if err != nil {
		return measurement.Selection{}, err
	}
	e, err := edit.ParseEdges(edges)
	if err != nil {
		return measurement.Selection{}, err
	}
	f, err := edit.ParseFaces(faces)
	if err != nil {
		return measurement.Selection{}, err
	}
	return edit.SelectionOf(v, e, f), nil
}
