package tessellate

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Align is the horizontal placement of text lines relative to the anchor
type Align uint8

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// TextSpec describes a text block anchored at a clip-space point
type TextSpec struct {
	Anchor   mgl32.Vec4
	Lines    []string
	Size     float32    // Font size in pixels
	Rotation float32    // Degrees, counter-clockwise about the anchor
	Align    Align      // Per-line horizontal alignment
	Offset   mgl32.Vec2 // Pixel offset applied after rotation
}

// TextLine is one laid-out line with its textured quad
type TextLine struct {
	Text          string
	Width, Height float32
	Quad          Mesh
}

// TextQuads lays out a text block; the last line sits on the anchor and earlier lines stack upward
func TextQuads(block TextSpec, metrics Metrics, vp Viewport) []TextLine {
	a := block.Anchor
	if a[3] <= 0 || a[2]+a[3] < 0 || len(block.Lines) == 0 {
		return nil
	}

	s, c := math32.Sincos(mgl32.DegToRad(block.Rotation))
	place := func(x, y float32) mgl32.Vec4 {
		rx := x*c - y*s + block.Offset[0]
		ry := x*s + y*c + block.Offset[1]
		p := fromPixels(a, rx, ry, vp)
		p[2] -= TextDepthOffset * p[3]
		return p
	}

	out := make([]TextLine, 0, len(block.Lines))
	var y float32
	for i := len(block.Lines) - 1; i >= 0; i-- {
		text := block.Lines[i]
		w, h := metrics.LineMetrics(text, block.Size)

		var x float32
		switch block.Align {
		case AlignCenter:
			x = -w / 2
		case AlignRight:
			x = -w
		}

		line := TextLine{
			Text:   text,
			Width:  w,
			Height: h,
			Quad: quad([4]Vertex{
				{Pos: place(x, y), UV: mgl32.Vec2{0, 1}},
				{Pos: place(x, y+h), UV: mgl32.Vec2{0, 0}},
				{Pos: place(x+w, y), UV: mgl32.Vec2{1, 1}},
				{Pos: place(x+w, y+h), UV: mgl32.Vec2{1, 0}},
			}),
		}
		out = append(out, line)
		y += h
	}

	// Top line first
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
