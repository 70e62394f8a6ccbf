package edit

import (
	"testing"

	"github.com/jaosorio1013/MeasureIt-ARCH/internal/measurement"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/scene"
	"github.com/jaosorio1013/MeasureIt-ARCH/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testScene(t *testing.T) *scene.Scene {
	t.Helper()
	quad := [][3]float64{{0, 0, 0}, {4, 0, 0}, {4, 3, 0}, {0, 3, 0}}
	doc := scene.Document{
		Objects: []scene.ObjectDoc{
			{
				Name:      "Plate",
				Vertices:  quad,
				Faces:     [][]int{{0, 1, 2, 3}},
				Selection: &scene.SelectionDoc{Vertices: []int{0, 1}, History: []int{0, 1}},
			},
			{Name: "Post", Vertices: [][3]float64{{0, 0, 0}, {0, 0, 2}}, Location: [3]float64{10, 0, 0}},
		},
	}
	s, err := scene.FromDocument(doc, t.TempDir())
	require.NoError(t, err)
	return s
}

func measures(t *testing.T, s *scene.Scene, name string) []measurement.Entity {
	t.Helper()
	obj, ok := s.Object(name)
	require.True(t, ok)
	return obj.Measures().Compact()
}

func TestAddUsesStoredSelection(t *testing.T) {
	s := testScene(t)

	res, err := Add(s, "Plate", Request{Kind: "segment"})
	require.NoError(t, err)
	assert.Len(t, res.Created, 1)

	got := measures(t, s, "Plate")
	require.Len(t, got, 1)
	assert.Equal(t, measurement.KindSegment, got[0].Kind)
	assert.Equal(t, 0, got[0].A)
	assert.Equal(t, 1, got[0].B)

	res, err = Add(s, "Plate", Request{Kind: "segment"})
	require.NoError(t, err)
	assert.Empty(t, res.Created)
	assert.Equal(t, 1, res.Duplicates)
}

func TestAddKinds(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want measurement.Kind
	}{
		{"line", Request{Kind: "line"}, measurement.KindFreeLine},
		{"projected", Request{Kind: "projected", Axis: geometry.AxisY}, measurement.KindProjected},
		{"angle", Request{Kind: "angle", Selection: sel(0, 1, 2)}, measurement.KindAngle},
		{"arc", Request{Kind: "arc", Selection: sel(0, 1, 2)}, measurement.KindArc},
		{"label", Request{Kind: "label", Text: "corner", Selection: sel(3)}, measurement.KindLabel},
		{"annotation", Request{Kind: "annotation", Text: "note"}, measurement.KindAnnotation},
		{"origin", Request{Kind: "origin", Selection: sel(2)}, measurement.KindVertexToOrigin},
		{"area", Request{Kind: "area", Selection: &measurement.Selection{Faces: [][]int{{0, 1, 2, 3}}}}, measurement.KindArea},
		{"link", Request{Kind: "link", Selection: sel(), Target: "Post"}, measurement.KindObjectToObjectLink},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testScene(t)
			res, err := Add(s, "Plate", tt.req)
			require.NoError(t, err)
			require.NotEmpty(t, res.Created)

			got := measures(t, s, "Plate")
			assert.Equal(t, tt.want, got[0].Kind)
		})
	}
}

func sel(vertices ...int) *measurement.Selection {
	s := SelectionOf(vertices, nil, nil)
	return &s
}

func TestAddProjectedEveryVertex(t *testing.T) {
	s := testScene(t)
	res, err := Add(s, "Plate", Request{Kind: "projected", Axis: geometry.AxisZ, Selection: sel(0, 1, 2)})
	require.NoError(t, err)
	assert.Len(t, res.Created, 3)
}

func TestAddStyleAndGroup(t *testing.T) {
	s := testScene(t)
	id, err := AddStyle(s, "red", measurement.StyleFields{Color: &measurement.Color{1, 0, 0, 1}})
	require.NoError(t, err)

	_, err = Add(s, "Plate", Request{Kind: "segment", Style: "red", Group: "c"})
	require.NoError(t, err)

	got := measures(t, s, "Plate")
	require.Len(t, got, 1)
	assert.Equal(t, id, got[0].StyleRef)
	assert.Equal(t, "C", got[0].Bucket.String())
}

func TestAddErrors(t *testing.T) {
	s := testScene(t)

	_, err := Add(s, "Nope", Request{Kind: "segment"})
	assert.ErrorIs(t, err, ErrUnknownObject)

	_, err = Add(s, "Plate", Request{Kind: "volume"})
	assert.ErrorContains(t, err, "unknown measurement kind")

	_, err = Add(s, "Plate", Request{Kind: "angle"})
	assert.ErrorIs(t, err, measurement.ErrPrecondition)

	_, err = Add(s, "Plate", Request{Kind: "segment", Style: "missing"})
	assert.ErrorContains(t, err, "unknown style")

	_, err = Add(s, "Plate", Request{Kind: "segment", Group: "AB"})
	assert.ErrorContains(t, err, "single letter")

	_, err = Add(s, "Plate", Request{Kind: "link", Target: "Ghost"})
	assert.ErrorIs(t, err, ErrUnknownObject)

	_, err = AddStyle(s, "", measurement.StyleFields{})
	assert.Error(t, err)
}

func TestDelete(t *testing.T) {
	s := testScene(t)
	_, err := Add(s, "Plate", Request{Kind: "projected", Axis: geometry.AxisX, Selection: sel(0, 1, 2)})
	require.NoError(t, err)

	require.NoError(t, Delete(s, "Plate", 1))
	assert.Len(t, measures(t, s, "Plate"), 2)

	err = Delete(s, "Plate", 1)
	assert.ErrorIs(t, err, measurement.ErrNotFound)

	n, err := DeleteAll(s, "")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Empty(t, measures(t, s, "Plate"))

	_, err = DeleteAll(s, "Nope")
	assert.ErrorIs(t, err, ErrUnknownObject)
}

func TestClearSums(t *testing.T) {
	s := testScene(t)
	_, err := Add(s, "Plate", Request{Kind: "segment", Group: "A"})
	require.NoError(t, err)

	require.NoError(t, ClearSums(s, "Plate"))
	assert.Equal(t, measurement.BucketNone, measures(t, s, "Plate")[0].Bucket)
}

func TestDeleteAllStyles(t *testing.T) {
	s := testScene(t)
	_, err := AddStyle(s, "a", measurement.StyleFields{})
	require.NoError(t, err)
	_, err = AddStyle(s, "a", measurement.StyleFields{})
	assert.ErrorContains(t, err, "already exists")

	assert.Equal(t, 1, DeleteAllStyles(s))
	assert.Zero(t, s.StyleSet().Len())
}

func TestParse(t *testing.T) {
	idx, err := ParseIndices("0, 3,5")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 3, 5}, idx)

	_, err = ParseIndices("1,x")
	assert.Error(t, err)
	_, err = ParseIndices("-1")
	assert.Error(t, err)

	edges, err := ParseEdges("0-1,2-3")
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{0, 1}, {2, 3}}, edges)

	_, err = ParseEdges("0:1")
	assert.Error(t, err)

	faces, err := ParseFaces("0:1:2,2:3:0")
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0, 1, 2}, {2, 3, 0}}, faces)

	_, err = ParseFaces("0:1")
	assert.Error(t, err)
}
