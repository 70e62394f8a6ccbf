package scene

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jaosorio1013/MeasureIt-ARCH/internal/draw"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/measurement"
	"github.com/jaosorio1013/MeasureIt-ARCH/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const plateDoc = `
units: {system: mm, scale: 0.001}
styles:
  - {id: 3, name: Red, color: [1, 0, 0, 1]}
objects:
  - name: Plate
    vertices: [[0, 0, 0], [10, 0, 0], [10, 5, 0], [0, 5, 0]]
    faces: [[0, 1, 2, 3]]
    location: [1, 0, 0]
    selected: true
    selection: {vertices: [0, 2], history: [0, 1, 2], faces: [0]}
    measures:
      - {kind: segment, a: 0, b: 1, group: A, style: 3}
      - {kind: segment, a: 1, b: 2, freed: true}
      - {kind: projected, a: 2, axis: y}
      - {kind: label, a: 3, text: "Corner|NW", visible: false}
  - name: Post
    vertices: [[0, 0, 0]]
    location: [0, 0, 2]
    collection_visible: false
`

const triangleSTL = `solid tri
facet normal 0 0 1
  outer loop
    vertex 0 0 0
    vertex 2 0 0
    vertex 0 2 0
  endloop
endfacet
endsolid tri
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func loadPlate(t *testing.T) *Scene {
	t.Helper()
	s, err := Load(writeFile(t, t.TempDir(), "scene.yaml", plateDoc))
	require.NoError(t, err)
	return s
}

func TestLoad(t *testing.T) {
	s := loadPlate(t)

	require.NotNil(t, s.Units)
	assert.Equal(t, measurement.UnitsMillimeters, s.Units.System)
	assert.Equal(t, 1, s.StyleSet().Len())
	require.Len(t, s.All(), 2)

	plate, ok := s.Object("Plate")
	require.True(t, ok)
	assert.True(t, plate.Visible())
	assert.True(t, plate.Selected())
	assert.Len(t, plate.Vertices(), 4)

	// The freed entry is compacted away
	assert.Equal(t, 3, plate.Measures().Len())
	_, first, ok := plate.Measures().At(0)
	require.True(t, ok)
	assert.Equal(t, measurement.KindSegment, first.Kind)
	assert.Equal(t, measurement.StyleID(3), first.StyleRef)
	assert.Equal(t, "A", first.Bucket.String())
	assert.True(t, first.Visible)
	assert.True(t, first.Axes.All())
	assert.Equal(t, "r=", first.Arc.RadiusPrefix)

	_, projected, ok := plate.Measures().At(1)
	require.True(t, ok)
	assert.Equal(t, geometry.AxisY, projected.Axis)

	_, label, ok := plate.Measures().At(2)
	require.True(t, ok)
	assert.False(t, label.Visible)
	assert.Equal(t, "Corner|NW", label.Text)

	sel := plate.Selection()
	assert.Equal(t, 4, sel.MeshSize)
	assert.Equal(t, []int{0, 1, 2}, sel.History)
	assert.Equal(t, [][]int{{0, 1, 2, 3}}, sel.Faces)

	post, ok := s.Object("Post")
	require.True(t, ok)
	assert.False(t, post.Visible())
	assert.Len(t, s.Objects(), 2)
}

func TestSceneLookup(t *testing.T) {
	s := loadPlate(t)

	src, ok := s.Lookup("Post")
	require.True(t, ok)
	assert.True(t, geometry.Origin(src.Transform).NearlyEqual(geometry.NewVector3(0, 0, 2), 1e-12))

	_, ok = s.Lookup("Missing")
	assert.False(t, ok)

	style, ok := s.Styles().Style(3)
	require.True(t, ok)
	assert.Equal(t, "Red", style.Name)
}

func TestSceneSums(t *testing.T) {
	s := loadPlate(t)
	plate, _ := s.Object("Plate")

	sums := draw.Sums(plate, s, s.ResolveUnits(measurement.DefaultUnits()))
	assert.InDelta(t, 0.01, sums.Total, 1e-12)
}

func TestSceneBounds(t *testing.T) {
	s := loadPlate(t)

	// The hidden post is left out
	b := s.Bounds()
	assert.True(t, b.Min.NearlyEqual(geometry.NewVector3(1, 0, 0), 1e-12))
	assert.True(t, b.Max.NearlyEqual(geometry.NewVector3(11, 5, 0), 1e-12))
}

func TestLoadSTLMesh(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tri.stl", triangleSTL)
	path := writeFile(t, dir, "scene.yaml", `
objects:
  - name: Tri
    mesh: {stl: tri.stl}
    scale: [2, 2, 2]
    measures:
      - {kind: area, faces: [[0, 1, 2]]}
`)

	s, err := Load(path)
	require.NoError(t, err)
	tri, ok := s.Object("Tri")
	require.True(t, ok)
	assert.Len(t, tri.Vertices(), 3)
	assert.Equal(t, [][]int{{0, 1, 2}}, tri.Faces())

	_, e, ok := tri.Measures().At(0)
	require.True(t, ok)
	r, err := measurement.Resolve(e, tri.Source(), s)
	require.NoError(t, err)
	assert.InDelta(t, 8.0, r.Value, 1e-9)
	assert.Equal(t, []string{filepath.Join(dir, "tri.stl")}, s.MeshFiles())
}

func TestLoadSCADMissingDependency(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "part.scad", "include <./missing.scad>\ncube(1);\n")
	path := writeFile(t, dir, "scene.yaml", `
objects:
  - name: Part
    mesh: {scad: part.scad}
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "object Part")
	assert.Contains(t, err.Error(), "missing.scad")
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tri.stl", triangleSTL)
	path := writeFile(t, dir, "scene.yaml", plateDoc+`  - name: Tri
    mesh: {stl: tri.stl}
    rotation: [0, 0, 90]
`)
	s, err := Load(path)
	require.NoError(t, err)

	// Delete one entity so the saved document has to skip a freed slot
	plate, _ := s.Object("Plate")
	id, _, ok := plate.Measures().At(1)
	require.True(t, ok)
	require.NoError(t, plate.Measures().Delete(id))

	out := filepath.Join(dir, "saved.yaml")
	require.NoError(t, s.Save(out))
	loaded, err := Load(out)
	require.NoError(t, err)

	assert.Equal(t, s.Units, loaded.Units)
	assert.Equal(t, s.StyleSet().All(), loaded.StyleSet().All())
	require.Len(t, loaded.All(), 3)
	for i, o := range s.All() {
		l := loaded.All()[i]
		assert.Equal(t, o.Name(), l.Name())
		assert.Equal(t, o.Vertices(), l.Vertices())
		assert.Equal(t, o.Faces(), l.Faces())
		assert.Equal(t, o.Location, l.Location)
		assert.Equal(t, o.Rotation, l.Rotation)
		assert.Equal(t, o.Visible(), l.Visible())
		assert.Equal(t, o.Selection(), l.Selection())
		assert.Equal(t, o.Measures().Compact(), l.Measures().Compact())
	}

	reloaded, _ := loaded.Object("Plate")
	assert.Equal(t, 2, reloaded.Measures().Len())
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing kind", "objects:\n  - name: A\n    vertices: [[0, 0, 0]]\n    measures:\n      - {a: 0}\n"},
		{"unknown kind", "objects:\n  - name: A\n    measures:\n      - {kind: spiral}\n"},
		{"bad face", "objects:\n  - name: A\n    vertices: [[0, 0, 0]]\n    faces: [[0, 1, 2]]\n"},
		{"bad selected face", "objects:\n  - name: A\n    vertices: [[0, 0, 0]]\n    selection: {faces: [4]}\n"},
		{"duplicate name", "objects:\n  - name: A\n  - name: A\n"},
		{"missing mesh", "objects:\n  - name: A\n    mesh: {stl: nowhere.stl}\n"},
		{"duplicate style", "styles:\n  - {id: 1, name: X}\n  - {id: 1, name: Y}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, t.TempDir(), "scene.yaml", tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestAddThroughSelection(t *testing.T) {
	s := loadPlate(t)
	plate, _ := s.Object("Plate")

	res, err := measurement.AddArea(plate.Measures(), plate.Selection(), measurement.AddOptions{})
	require.NoError(t, err)
	assert.Len(t, res.Created, 1)

	res, err = measurement.AddAngle(plate.Measures(), plate.Selection(), measurement.AddOptions{})
	require.NoError(t, err)
	assert.Len(t, res.Created, 1)
	assert.Equal(t, 5, plate.Measures().Len())
}

func TestSelectVertices(t *testing.T) {
	s := loadPlate(t)
	plate, _ := s.Object("Plate")

	plate.SelectVertices([]int{2, 0, 2})
	sel := plate.Selection()
	assert.Equal(t, []int{2, 0}, sel.Vertices)
	assert.Equal(t, []int{2, 0, 2}, sel.History)
	assert.Empty(t, sel.Faces)
	assert.Equal(t, 4, sel.MeshSize)

	path := filepath.Join(t.TempDir(), "picked.yaml")
	require.NoError(t, s.Save(path))
	loaded, err := Load(path)
	require.NoError(t, err)
	again, _ := loaded.Object("Plate")
	assert.Equal(t, []int{2, 0}, again.Selection().Vertices)
	assert.Equal(t, []int{2, 0, 2}, again.Selection().History)
	assert.Empty(t, again.Selection().Faces)

	plate.SelectVertices(nil)
	assert.Empty(t, plate.Selection().Vertices)
}
