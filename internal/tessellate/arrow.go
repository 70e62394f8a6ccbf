package tessellate

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// ArrowKind selects the marker drawn at a line end
type ArrowKind uint8

const (
	ArrowNone ArrowKind = iota
	ArrowLine
	ArrowTriangle
	ArrowTShape
)

// arrowSpread is the half-angle between the shaft and each wing
const arrowSpread = math32.Pi / 7

// Arrow draws a head of size pixels at tip, pointing away from tail
func Arrow(tip, tail mgl32.Vec4, kind ArrowKind, size, width float32, vp Viewport) Mesh {
	if kind == ArrowNone || tip[3] <= 0 || tail[3] <= 0 {
		return Mesh{}
	}

	back := toPixels(tail, vp).Sub(toPixels(tip, vp))
	l := back.Len()
	if l < 1e-6 {
		return Mesh{}
	}
	back = back.Mul(1 / l)

	at := func(d mgl32.Vec2) mgl32.Vec4 {
		return fromPixels(tip, d[0], d[1], vp)
	}

	switch kind {
	case ArrowLine:
		m := ThickLine(tip, at(rotate(back, arrowSpread).Mul(size)), width, vp)
		m.Append(ThickLine(tip, at(rotate(back, -arrowSpread).Mul(size)), width, vp))
		return m

	case ArrowTriangle:
		return Mesh{
			Vertices: []Vertex{
				{Pos: tip},
				{Pos: at(rotate(back, arrowSpread).Mul(size))},
				{Pos: at(rotate(back, -arrowSpread).Mul(size))},
			},
			Indices: []uint16{0, 1, 2},
		}

	case ArrowTShape:
		perp := mgl32.Vec2{-back[1], back[0]}.Mul(size / 2)
		return ThickLine(at(perp), at(perp.Mul(-1)), width, vp)
	}

	return Mesh{}
}

func rotate(v mgl32.Vec2, angle float32) mgl32.Vec2 {
	s, c := math32.Sincos(angle)
	return mgl32.Vec2{v[0]*c - v[1]*s, v[0]*s + v[1]*c}
}
