package viewer

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/draw"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/measurement"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/tessellate"
	"github.com/jaosorio1013/MeasureIt-ARCH/pkg/geometry"
)

// Raster is a software render target and the image-backed draw sink
type Raster struct {
	img       *image.RGBA
	depth     []float32
	width     int
	height    int
	fonts     *tessellate.FontCache
	glyphs    map[glyphKey]*image.Alpha
	DepthTest bool // Overlay triangles are hidden behind nearer surfaces
}

type glyphKey struct {
	text string
	size float32
}

// screenVertex is a vertex after the perspective divide, with 1/w kept for perspective-correct attributes
type screenVertex struct {
	x, y, z float64
	invW    float64
	arc     float64
	u, v    float64
}

// NewRaster creates a cleared target
func NewRaster(width, height int, background color.RGBA, fonts *tessellate.FontCache) *Raster {
	r := &Raster{
		img:       image.NewRGBA(image.Rect(0, 0, width, height)),
		depth:     make([]float32, width*height),
		width:     width,
		height:    height,
		fonts:     fonts,
		glyphs:    make(map[glyphKey]*image.Alpha),
		DepthTest: true,
	}
	r.Clear(background)
	return r
}

// Clear fills the image with background and resets depth
func (r *Raster) Clear(background color.RGBA) {
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			r.img.SetRGBA(x, y, background)
		}
	}
	for i := range r.depth {
		r.depth[i] = math.MaxFloat32
	}
}

// Image returns the render target
func (r *Raster) Image() *image.RGBA { return r.img }

// Viewport returns the target size for tessellation
func (r *Raster) Viewport() tessellate.Viewport {
	return tessellate.Viewport{Width: float32(r.width), Height: float32(r.height)}
}

// Triangles implements draw.Sink
func (r *Raster) Triangles(b draw.Batch) error {
	m := b.Mesh
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("%s batch: index count %d is not a multiple of 3", b.Class, len(m.Indices))
	}
	col := toRGBA(b.Color)

	verts := make([]screenVertex, len(m.Vertices))
	for i, v := range m.Vertices {
		verts[i] = r.toScreen(v)
	}

	for i := 0; i < len(m.Indices); i += 3 {
		i0, i1, i2 := int(m.Indices[i]), int(m.Indices[i+1]), int(m.Indices[i+2])
		if i0 >= len(verts) || i1 >= len(verts) || i2 >= len(verts) {
			return fmt.Errorf("%s batch: index out of range", b.Class)
		}
		r.fill(verts[i0], verts[i1], verts[i2], false, func(s screenVertex) (color.RGBA, bool) {
			if b.Class == draw.ClassDashed && !tessellate.DashVisible(float32(s.arc), b.DashScale) {
				return col, false
			}
			return col, true
		})
	}
	return nil
}

// Text implements draw.Sink; each line quad samples its rendered glyph mask
func (r *Raster) Text(t draw.TextBatch) error {
	col := toRGBA(t.Color)
	for _, line := range t.Lines {
		mask := r.glyph(line.Text, t.Size)
		b := mask.Bounds()
		q := line.Quad
		if len(q.Vertices) != 4 {
			return fmt.Errorf("text %q: quad has %d vertices", line.Text, len(q.Vertices))
		}

		verts := make([]screenVertex, 4)
		for i, v := range q.Vertices {
			verts[i] = r.toScreen(v)
		}

		shade := func(s screenVertex) (color.RGBA, bool) {
			px := b.Min.X + int(s.u*float64(b.Dx()))
			py := b.Min.Y + int(s.v*float64(b.Dy()))
			a := mask.AlphaAt(min(px, b.Max.X-1), min(py, b.Max.Y-1)).A
			if a == 0 {
				return col, false
			}
			c := col
			c.A = uint8(uint16(c.A) * uint16(a) / 255)
			return c, true
		}
		for i := 0; i < len(q.Indices); i += 3 {
			r.fill(verts[q.Indices[i]], verts[q.Indices[i+1]], verts[q.Indices[i+2]], false, shade)
		}
	}
	return nil
}

func (r *Raster) glyph(text string, size float32) *image.Alpha {
	key := glyphKey{text, size}
	if g, ok := r.glyphs[key]; ok {
		return g
	}
	g := r.fonts.Render(text, size)
	r.glyphs[key] = g
	return g
}

func (r *Raster) toScreen(v tessellate.Vertex) screenVertex {
	w := float64(v.Pos[3])
	if w <= 0 {
		w = 1e-9
	}
	inv := 1 / w
	return screenVertex{
		x:    (float64(v.Pos[0])*inv + 1) / 2 * float64(r.width),
		y:    (1 - float64(v.Pos[1])*inv) / 2 * float64(r.height),
		z:    float64(v.Pos[2]) * inv,
		invW: inv,
		arc:  float64(v.Arc) * inv,
		u:    float64(v.UV[0]) * inv,
		v:    float64(v.UV[1]) * inv,
	}
}

// fill rasterizes a triangle by barycentric coverage of pixel centers.
// Attributes are interpolated perspective-correctly; shade may discard.
func (r *Raster) fill(a, b, c screenVertex, writeDepth bool, shade func(screenVertex) (color.RGBA, bool)) {
	area := edge(a, b, c.x, c.y)
	if math.Abs(area) < 1e-12 {
		return
	}

	minX := int(math.Max(0, math.Floor(math.Min(a.x, math.Min(b.x, c.x)))))
	maxX := int(math.Min(float64(r.width-1), math.Ceil(math.Max(a.x, math.Max(b.x, c.x)))))
	minY := int(math.Max(0, math.Floor(math.Min(a.y, math.Min(b.y, c.y)))))
	maxY := int(math.Min(float64(r.height-1), math.Ceil(math.Max(a.y, math.Max(b.y, c.y)))))

	for y := minY; y <= maxY; y++ {
		py := float64(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float64(x) + 0.5
			w0 := edge(b, c, px, py) / area
			w1 := edge(c, a, px, py) / area
			w2 := edge(a, b, px, py) / area
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			z := w0*a.z + w1*b.z + w2*c.z
			idx := y*r.width + x
			if r.DepthTest && float32(z) > r.depth[idx] {
				continue
			}

			invW := w0*a.invW + w1*b.invW + w2*c.invW
			s := screenVertex{
				x: px, y: py, z: z, invW: invW,
				arc: (w0*a.arc + w1*b.arc + w2*c.arc) / invW,
				u:   (w0*a.u + w1*b.u + w2*c.u) / invW,
				v:   (w0*a.v + w1*b.v + w2*c.v) / invW,
			}
			col, ok := shade(s)
			if !ok {
				continue
			}
			if writeDepth {
				r.depth[idx] = float32(z)
			}
			r.blend(x, y, col)
		}
	}
}

func edge(a, b screenVertex, px, py float64) float64 {
	return (b.x-a.x)*(py-a.y) - (b.y-a.y)*(px-a.x)
}

// blend composites col over the pixel
func (r *Raster) blend(x, y int, col color.RGBA) {
	if col.A == 255 {
		r.img.SetRGBA(x, y, col)
		return
	}
	dst := r.img.RGBAAt(x, y)
	a := uint32(col.A)
	mix := func(s, d uint8) uint8 {
		return uint8((uint32(s)*a + uint32(d)*(255-a)) / 255)
	}
	r.img.SetRGBA(x, y, color.RGBA{mix(col.R, dst.R), mix(col.G, dst.G), mix(col.B, dst.B), 255})
}

// Surface fills the faces of obj with flat shading by the angle to the eye, writing depth
func (r *Raster) Surface(viewProj mgl64.Mat4, eye geometry.Vector3, obj draw.Object, base color.RGBA) {
	world := worldVertices(obj)

faces:
	for _, face := range obj.Faces() {
		if len(face) < 3 {
			continue
		}
		loop := make([]geometry.Vector3, len(face))
		for i, idx := range face {
			if idx < 0 || idx >= len(world) {
				continue faces
			}
			loop[i] = world[idx]
		}

		normal := loop[1].Sub(loop[0]).Cross(loop[2].Sub(loop[0])).Normalize()
		_, centroid := geometry.PolygonArea(loop)
		facing := math.Abs(normal.Dot(eye.Sub(centroid).Normalize()))
		k := 0.35 + 0.65*facing
		col := color.RGBA{uint8(float64(base.R) * k), uint8(float64(base.G) * k), uint8(float64(base.B) * k), 255}

		clip := make([]screenVertex, len(loop))
		visible := true
		for i, p := range loop {
			c := tessellate.Project(viewProj, p)
			if c[3] <= 0 || c[2]+c[3] < 0 {
				visible = false
				break
			}
			clip[i] = r.toScreen(tessellate.Vertex{Pos: c})
		}
		if !visible {
			continue
		}
		for i := 1; i+1 < len(clip); i++ {
			r.fill(clip[0], clip[i], clip[i+1], true, func(screenVertex) (color.RGBA, bool) { return col, true })
		}
	}
}

// Wireframe draws the face edges of obj with Bresenham lines, ignoring depth
func (r *Raster) Wireframe(viewProj mgl64.Mat4, obj draw.Object, col color.RGBA) {
	world := worldVertices(obj)
	type edgeKey struct{ a, b int }
	seen := make(map[edgeKey]bool)

	for _, face := range obj.Faces() {
		for i := range face {
			a, b := face[i], face[(i+1)%len(face)]
			if a < 0 || b < 0 || a >= len(world) || b >= len(world) {
				continue
			}
			if a > b {
				a, b = b, a
			}
			if seen[edgeKey{a, b}] {
				continue
			}
			seen[edgeKey{a, b}] = true

			x1, y1, _, ok1 := Project(viewProj, world[a], r.width, r.height)
			x2, y2, _, ok2 := Project(viewProj, world[b], r.width, r.height)
			if !ok1 || !ok2 {
				continue
			}
			drawLine(r.img, int(x1), int(y1), int(x2), int(y2), col)
		}
	}
}

func worldVertices(obj draw.Object) []geometry.Vector3 {
	m := obj.Transform()
	locals := obj.Vertices()
	world := make([]geometry.Vector3, len(locals))
	for i, p := range locals {
		world[i] = geometry.TransformPoint(m, p)
	}
	return world
}

// WritePNG encodes the image as PNG
func (r *Raster) WritePNG(w io.Writer) error {
	if err := png.Encode(w, r.img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// SavePNG writes the image to path
func (r *Raster) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := r.WritePNG(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// drawLine draws a line on an image using Bresenham's algorithm
func drawLine(img *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	bounds := img.Bounds()

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx, sy := -1, -1
	if x1 < x2 {
		sx = 1
	}
	if y1 < y2 {
		sy = 1
	}

	err := dx - dy
	for {
		if x1 >= 0 && x1 < bounds.Max.X && y1 >= 0 && y1 < bounds.Max.Y {
			img.SetRGBA(x1, y1, col)
		}
		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func toRGBA(c measurement.Color) color.RGBA {
	r, g, b, a := c.RGBA8()
	return color.RGBA{r, g, b, a}
}
