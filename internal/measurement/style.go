package measurement

import (
	"fmt"
	"strings"
)

// Color is an RGBA color with components in 0..1
type Color [4]float64

// RGBA8 converts the color to 8-bit channels
func (c Color) RGBA8() (r, g, b, a uint8) {
	conv := func(v float64) uint8 {
		if v <= 0 {
			return 0
		}
		if v >= 1 {
			return 255
		}
		return uint8(v*255 + 0.5)
	}
	return conv(c[0]), conv(c[1]), conv(c[2]), conv(c[3])
}

// Align is the horizontal alignment of a text block relative to its anchor
type Align uint8

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

func (a Align) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	}
	return fmt.Sprintf("align(%d)", uint8(a))
}

// MarshalText implements encoding.TextMarshaler
func (a Align) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler
func (a *Align) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "left", "l":
		*a = AlignLeft
	case "center", "c":
		*a = AlignCenter
	case "right", "r":
		*a = AlignRight
	default:
		return fmt.Errorf("unknown alignment %q", text)
	}
	return nil
}

// ArrowKind is the marker drawn at a line end
type ArrowKind uint8

const (
	ArrowNone ArrowKind = iota
	ArrowLine
	ArrowTriangle
	ArrowTShape
)

func (k ArrowKind) String() string {
	switch k {
	case ArrowNone:
		return "none"
	case ArrowLine:
		return "line"
	case ArrowTriangle:
		return "triangle"
	case ArrowTShape:
		return "tshape"
	}
	return fmt.Sprintf("arrow(%d)", uint8(k))
}

// MarshalText implements encoding.TextMarshaler
func (k ArrowKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler
func (k *ArrowKind) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "none", "":
		*k = ArrowNone
	case "line":
		*k = ArrowLine
	case "triangle":
		*k = ArrowTriangle
	case "tshape", "t":
		*k = ArrowTShape
	default:
		return fmt.Errorf("unknown arrow kind %q", text)
	}
	return nil
}

// StyleFields is a partial drawing style; nil fields defer to the next layer
type StyleFields struct {
	Color        *Color      `yaml:"color,omitempty" toml:"color,omitempty"`
	AreaColor    *Color      `yaml:"area_color,omitempty" toml:"area_color,omitempty"`
	LineWidth    *float64    `yaml:"line_width,omitempty" toml:"line_width,omitempty"`
	Spacing      *float64    `yaml:"spacing,omitempty" toml:"spacing,omitempty"`
	FontSize     *float64    `yaml:"font_size,omitempty" toml:"font_size,omitempty"`
	FontRotation *float64    `yaml:"font_rotation,omitempty" toml:"font_rotation,omitempty"`
	FontAlign    *Align      `yaml:"font_align,omitempty" toml:"font_align,omitempty"`
	FontOffset   *[2]float64 `yaml:"font_offset,omitempty" toml:"font_offset,omitempty"`
	ArrowA       *ArrowKind  `yaml:"arrow_a,omitempty" toml:"arrow_a,omitempty"`
	ArrowB       *ArrowKind  `yaml:"arrow_b,omitempty" toml:"arrow_b,omitempty"`
	ArrowSize    *float64    `yaml:"arrow_size,omitempty" toml:"arrow_size,omitempty"`
	ArcArrowA    *ArrowKind  `yaml:"arc_arrow_a,omitempty" toml:"arc_arrow_a,omitempty"`
	ArcArrowB    *ArrowKind  `yaml:"arc_arrow_b,omitempty" toml:"arc_arrow_b,omitempty"`
	ArcArrowSize *float64    `yaml:"arc_arrow_size,omitempty" toml:"arc_arrow_size,omitempty"`
	Precision    *int        `yaml:"precision,omitempty" toml:"precision,omitempty"`
	HideUnits    *bool       `yaml:"hide_units,omitempty" toml:"hide_units,omitempty"`
	Dashed       *bool       `yaml:"dashed,omitempty" toml:"dashed,omitempty"`
	DashScale    *float64    `yaml:"dash_scale,omitempty" toml:"dash_scale,omitempty"`
	ShowDistance *bool       `yaml:"show_distance,omitempty" toml:"show_distance,omitempty"`
	ShowText     *bool       `yaml:"show_text,omitempty" toml:"show_text,omitempty"`
}

// ConcreteStyle is a fully populated drawing style
type ConcreteStyle struct {
	Color        Color      `toml:"color"`
	AreaColor    Color      `toml:"area_color"`
	LineWidth    float64    `toml:"line_width"`
	Spacing      float64    `toml:"spacing"`
	FontSize     float64    `toml:"font_size"`
	FontRotation float64    `toml:"font_rotation"`
	FontAlign    Align      `toml:"font_align"`
	FontOffset   [2]float64 `toml:"font_offset"`
	ArrowA       ArrowKind  `toml:"arrow_a"`
	ArrowB       ArrowKind  `toml:"arrow_b"`
	ArrowSize    float64    `toml:"arrow_size"`
	ArcArrowA    ArrowKind  `toml:"arc_arrow_a"`
	ArcArrowB    ArrowKind  `toml:"arc_arrow_b"`
	ArcArrowSize float64    `toml:"arc_arrow_size"`
	Precision    int        `toml:"precision"`
	HideUnits    bool       `toml:"hide_units"`
	Dashed       bool       `toml:"dashed"`
	DashScale    float64    `toml:"dash_scale"`
	ShowDistance bool       `toml:"show_distance"`
	ShowText     bool       `toml:"show_text"`
}

// DefaultStyle returns the built-in scene defaults
func DefaultStyle() ConcreteStyle {
	return ConcreteStyle{
		Color:        Color{0.173, 0.545, 1.0, 1.0},
		AreaColor:    Color{0.1, 0.1, 0.1, 0.4},
		LineWidth:    1,
		Spacing:      0.1,
		FontSize:     14,
		FontAlign:    AlignCenter,
		ArrowSize:    15,
		ArcArrowSize: 15,
		Precision:    2,
		DashScale:    10,
		ShowDistance: true,
		ShowText:     true,
	}
}

// apply overlays every non-nil field of f
func (s *ConcreteStyle) apply(f StyleFields) {
	if f.Color != nil {
		s.Color = *f.Color
	}
	if f.AreaColor != nil {
		s.AreaColor = *f.AreaColor
	}
	if f.LineWidth != nil {
		s.LineWidth = *f.LineWidth
	}
	if f.Spacing != nil {
		s.Spacing = *f.Spacing
	}
	if f.FontSize != nil {
		s.FontSize = *f.FontSize
	}
	if f.FontRotation != nil {
		s.FontRotation = *f.FontRotation
	}
	if f.FontAlign != nil {
		s.FontAlign = *f.FontAlign
	}
	if f.FontOffset != nil {
		s.FontOffset = *f.FontOffset
	}
	if f.ArrowA != nil {
		s.ArrowA = *f.ArrowA
	}
	if f.ArrowB != nil {
		s.ArrowB = *f.ArrowB
	}
	if f.ArrowSize != nil {
		s.ArrowSize = *f.ArrowSize
	}
	if f.ArcArrowA != nil {
		s.ArcArrowA = *f.ArcArrowA
	}
	if f.ArcArrowB != nil {
		s.ArcArrowB = *f.ArcArrowB
	}
	if f.ArcArrowSize != nil {
		s.ArcArrowSize = *f.ArcArrowSize
	}
	if f.Precision != nil {
		s.Precision = *f.Precision
	}
	if f.HideUnits != nil {
		s.HideUnits = *f.HideUnits
	}
	if f.Dashed != nil {
		s.Dashed = *f.Dashed
	}
	if f.DashScale != nil {
		s.DashScale = *f.DashScale
	}
	if f.ShowDistance != nil {
		s.ShowDistance = *f.ShowDistance
	}
	if f.ShowText != nil {
		s.ShowText = *f.ShowText
	}
}

// StyleID identifies a named style within a scene; zero means no style
type StyleID uint32

// Style is a named, reusable bundle of style fields
type Style struct {
	ID     StyleID     `yaml:"id"`
	Name   string      `yaml:"name"`
	Fields StyleFields `yaml:",inline"`
}

// StyleLookup resolves style references
type StyleLookup interface {
	Style(id StyleID) (*Style, bool)
}

// ResolveStyle merges scene defaults, the referenced named style and the entity
// overrides, innermost last. A dangling style reference falls back to defaults.
func ResolveStyle(e *Entity, styles StyleLookup, defaults ConcreteStyle) ConcreteStyle {
	style := defaults
	if e.StyleRef != 0 && styles != nil {
		if named, ok := styles.Style(e.StyleRef); ok {
			style.apply(named.Fields)
		}
	}
	style.apply(e.Style)
	return style
}

// StyleSet is the ordered per-scene collection of named styles
type StyleSet struct {
	styles []*Style
	nextID StyleID
}

// NewStyleSet creates an empty style collection
func NewStyleSet() *StyleSet {
	return &StyleSet{nextID: 1}
}

// Add appends a named style and returns its identifier
// Identifiers are never reused, so references to deleted styles stay dangling.
func (s *StyleSet) Add(name string, fields StyleFields) StyleID {
	id := s.nextID
	s.nextID++
	if name == "" {
		name = fmt.Sprintf("Style%d", id)
	}
	s.styles = append(s.styles, &Style{ID: id, Name: name, Fields: fields})
	return id
}

// Restore inserts a style with a persisted identifier
func (s *StyleSet) Restore(style Style) error {
	if style.ID == 0 {
		return fmt.Errorf("style %q: identifier must be positive", style.Name)
	}
	if _, ok := s.Style(style.ID); ok {
		return fmt.Errorf("style %q: duplicate identifier %d", style.Name, style.ID)
	}
	s.styles = append(s.styles, &style)
	if style.ID >= s.nextID {
		s.nextID = style.ID + 1
	}
	return nil
}

// Style implements StyleLookup
func (s *StyleSet) Style(id StyleID) (*Style, bool) {
	for _, style := range s.styles {
		if style.ID == id {
			return style, true
		}
	}
	return nil, false
}

// ByName finds a style by name
func (s *StyleSet) ByName(name string) (*Style, bool) {
	for _, style := range s.styles {
		if style.Name == name {
			return style, true
		}
	}
	return nil, false
}

// All returns the styles in creation order
func (s *StyleSet) All() []*Style {
	return s.styles
}

// Len returns the number of styles
func (s *StyleSet) Len() int {
	return len(s.styles)
}

// DeleteAll removes every style; entities referencing them fall back to defaults
func (s *StyleSet) DeleteAll() {
	s.styles = nil
}
