package measurement

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestResolveStylePrecedence(t *testing.T) {
	defaults := DefaultStyle()
	defaults.Color = Color{1, 0, 0, 1}

	styles := NewStyleSet()
	id := styles.Add("Dims", StyleFields{Color: ptr(Color{0, 1, 0, 1}), LineWidth: ptr(3.0)})

	e := NewEntity(KindSegment)
	e.StyleRef = id
	e.Style.Color = ptr(Color{0, 0, 1, 1})

	got := ResolveStyle(&e, styles, defaults)
	assert.Equal(t, Color{0, 0, 1, 1}, got.Color)
	assert.Equal(t, 3.0, got.LineWidth)
	assert.Equal(t, defaults.FontSize, got.FontSize)

	e.Style.Color = nil
	assert.Equal(t, Color{0, 1, 0, 1}, ResolveStyle(&e, styles, defaults).Color)

	e.StyleRef = 0
	assert.Equal(t, Color{1, 0, 0, 1}, ResolveStyle(&e, styles, defaults).Color)
}

func TestResolveStyleDanglingReference(t *testing.T) {
	styles := NewStyleSet()
	id := styles.Add("", StyleFields{LineWidth: ptr(7.0)})

	e := NewEntity(KindSegment)
	e.StyleRef = id
	styles.DeleteAll()

	got := ResolveStyle(&e, styles, DefaultStyle())
	assert.Equal(t, DefaultStyle(), got)

	// New styles never take over a deleted identifier
	assert.NotEqual(t, id, styles.Add("", StyleFields{}))
}

func TestStyleSetNaming(t *testing.T) {
	styles := NewStyleSet()
	id := styles.Add("", StyleFields{})
	s, ok := styles.Style(id)
	assert.True(t, ok)
	assert.Equal(t, "Style1", s.Name)

	_, ok = styles.ByName("Style1")
	assert.True(t, ok)
	assert.Equal(t, 1, styles.Len())
}

func TestStyleSetRestore(t *testing.T) {
	styles := NewStyleSet()
	assert.NoError(t, styles.Restore(Style{ID: 5, Name: "Five"}))
	assert.Error(t, styles.Restore(Style{ID: 5, Name: "Again"}))
	assert.Error(t, styles.Restore(Style{Name: "Zero"}))
	assert.Equal(t, StyleID(6), styles.Add("", StyleFields{}))
}

func TestFreeLineHidesText(t *testing.T) {
	e := NewEntity(KindFreeLine)
	got := ResolveStyle(&e, nil, DefaultStyle())
	assert.False(t, got.ShowDistance)
	assert.False(t, got.ShowText)
}
