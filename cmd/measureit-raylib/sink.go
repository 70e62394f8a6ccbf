package main

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/draw"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/measurement"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/tessellate"
)

// screenSink draws overlay batches as 2D triangles and text after the 3D pass
type screenSink struct {
	width, height float32
	font          rl.Font
}

// Triangles implements draw.Sink
func (s *screenSink) Triangles(b draw.Batch) error {
	mesh := b.Mesh
	if b.Class == draw.ClassDashed {
		mesh = tessellate.SplitDashed(mesh, b.DashScale)
	}
	col := toColor(b.Color)
	for i := 0; i+2 < len(mesh.Indices); i += 3 {
		v1, ok1 := s.toScreen(mesh.Vertices[mesh.Indices[i]].Pos)
		v2, ok2 := s.toScreen(mesh.Vertices[mesh.Indices[i+1]].Pos)
		v3, ok3 := s.toScreen(mesh.Vertices[mesh.Indices[i+2]].Pos)
		if !ok1 || !ok2 || !ok3 {
			continue
		}
		// raylib only fills counter-clockwise triangles on a y-down screen
		if (v2.X-v1.X)*(v3.Y-v1.Y)-(v3.X-v1.X)*(v2.Y-v1.Y) > 0 {
			v2, v3 = v3, v2
		}
		rl.DrawTriangle(v1, v2, v3, col)
	}
	return nil
}

// Text implements draw.Sink. Quads are ordered bottom-left, top-left,
// bottom-right, top-right.
func (s *screenSink) Text(t draw.TextBatch) error {
	col := toColor(t.Color)
	for _, line := range t.Lines {
		if len(line.Quad.Vertices) != 4 {
			continue
		}
		bl, ok1 := s.toScreen(line.Quad.Vertices[0].Pos)
		tl, ok2 := s.toScreen(line.Quad.Vertices[1].Pos)
		br, ok3 := s.toScreen(line.Quad.Vertices[2].Pos)
		if !ok1 || !ok2 || !ok3 {
			continue
		}
		size := rl.Vector2Distance(bl, tl)
		rotation := float32(math.Atan2(float64(br.Y-bl.Y), float64(br.X-bl.X)) * 180 / math.Pi)
		rl.DrawTextPro(s.font, line.Text, tl, rl.Vector2{}, rotation, size, 0, col)
	}
	return nil
}

// toScreen divides a clip-space position into y-down pixels
func (s *screenSink) toScreen(p mgl32.Vec4) (rl.Vector2, bool) {
	if p[3] <= 0 {
		return rl.Vector2{}, false
	}
	return rl.Vector2{
		X: (p[0]/p[3] + 1) / 2 * s.width,
		Y: (1 - p[1]/p[3]) / 2 * s.height,
	}, true
}

func toColor(c measurement.Color) rl.Color {
	r, g, b, a := c.RGBA8()
	return rl.NewColor(r, g, b, a)
}
