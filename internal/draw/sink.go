package draw

import (
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/measurement"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/tessellate"
)

// Class selects the fragment program a batch is drawn with
type Class uint8

const (
	ClassSolid Class = iota
	ClassDashed
	ClassFill
)

func (c Class) String() string {
	switch c {
	case ClassSolid:
		return "solid"
	case ClassDashed:
		return "dashed"
	case ClassFill:
		return "fill"
	}
	return "unknown"
}

// Batch is one triangle submission sharing a class and color
type Batch struct {
	Class     Class
	Color     measurement.Color
	DashScale float32
	Mesh      tessellate.Mesh
}

// TextBatch is a set of text quads sharing a color and size
type TextBatch struct {
	Color measurement.Color
	Size  float32
	Lines []tessellate.TextLine
}

// Sink receives the tessellated output of a frame
type Sink interface {
	Triangles(Batch) error
	Text(TextBatch) error
}

type batchKey struct {
	class Class
	color measurement.Color
	dash  float32
}

type textKey struct {
	color measurement.Color
	size  float32
}

// batcher groups meshes by style key in first-appearance order
type batcher struct {
	batches []Batch
	open    map[batchKey]int
	texts   []TextBatch
	openTxt map[textKey]int
}

func newBatcher() *batcher {
	return &batcher{
		open:    make(map[batchKey]int),
		openTxt: make(map[textKey]int),
	}
}

func (b *batcher) add(class Class, color measurement.Color, dash float32, m tessellate.Mesh) {
	if m.Empty() {
		return
	}
	if class != ClassDashed {
		dash = 0
	}
	key := batchKey{class, color, dash}

	// A batch is split when its 16-bit indices would overflow
	if i, ok := b.open[key]; ok && b.batches[i].Mesh.Fits(m) {
		b.batches[i].Mesh.Append(m)
		return
	}
	var mesh tessellate.Mesh
	mesh.Append(m)
	b.open[key] = len(b.batches)
	b.batches = append(b.batches, Batch{Class: class, Color: color, DashScale: dash, Mesh: mesh})
}

func (b *batcher) text(color measurement.Color, size float32, lines []tessellate.TextLine) {
	if len(lines) == 0 {
		return
	}
	key := textKey{color, size}
	if i, ok := b.openTxt[key]; ok {
		b.texts[i].Lines = append(b.texts[i].Lines, lines...)
		return
	}
	b.openTxt[key] = len(b.texts)
	b.texts = append(b.texts, TextBatch{Color: color, Size: size, Lines: lines})
}
