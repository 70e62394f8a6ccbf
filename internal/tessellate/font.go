package tessellate

import (
	"fmt"
	"image"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Metrics measures a single line of text at a pixel size
type Metrics interface {
	LineMetrics(text string, size float32) (width, height float32)
}

// FontCache rasterizes and measures text with the Go regular face, caching one face per size
type FontCache struct {
	mu    sync.Mutex
	font  *opentype.Font
	faces map[float32]font.Face
}

// NewFontCache parses the embedded Go regular font
func NewFontCache() (*FontCache, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return &FontCache{font: f, faces: make(map[float32]font.Face)}, nil
}

// Face returns the face for a pixel size, falling back to a fixed bitmap face
func (c *FontCache) Face(size float32) font.Face {
	if c == nil || c.font == nil || size <= 0 {
		return basicfont.Face7x13
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if face, ok := c.faces[size]; ok {
		return face
	}
	face, err := opentype.NewFace(c.font, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	c.faces[size] = face
	return face
}

// LineMetrics implements Metrics
func (c *FontCache) LineMetrics(text string, size float32) (float32, float32) {
	face := c.Face(size)
	w := font.MeasureString(face, text)
	h := face.Metrics().Height
	return fixedToFloat(w), fixedToFloat(h)
}

// Render draws one line into an alpha mask sized to its metrics
func (c *FontCache) Render(text string, size float32) *image.Alpha {
	face := c.Face(size)
	w := font.MeasureString(face, text).Ceil()
	m := face.Metrics()
	h := m.Height.Ceil()
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewAlpha(image.Rect(0, 0, w, h))
	d := font.Drawer{
		Dst:  dst,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.Point26_6{X: 0, Y: m.Ascent},
	}
	d.DrawString(text)
	return dst
}

func fixedToFloat(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
