package draw

import (
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/logx"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/measurement"
)

// DrawFrame resolves every visible entity of the scene, tessellates it and
// submits the batched result to fc.Sink. A failing entity is skipped and never
// aborts the frame. DrawFrame keeps no state between calls.
func DrawFrame(fc FrameContext) FrameStats {
	var stats FrameStats
	if fc.Scene == nil {
		return stats
	}

	log := logx.Logger()
	f := &frame{fc: fc, b: newBatcher(), metrics: fc.metrics()}
	styles := fc.Scene.Styles()
	scale := fc.Options.Units.Factor()

	for _, obj := range fc.Scene.Objects() {
		if !obj.Visible() || (!fc.Options.Ghost && !obj.Selected()) {
			continue
		}
		stats.Objects++

		if store := obj.Measures(); store != nil {
			src := measurement.NewSource(obj.Vertices(), obj.Transform())
			for id, e := range store.All() {
				r, err := measurement.Resolve(e, src, fc.Scene)
				if err != nil {
					stats.Skipped++
					log.Debug("skipping entity", "object", obj.Name(), "id", id, "err", err)
					continue
				}
				if e.Kind.Summable() {
					stats.Sums.Add(e.Bucket, r.Filtered*scale)
				}
				if !e.Visible {
					continue
				}
				if r.Warning != nil {
					stats.Warnings++
					log.Warn("distance ignores excluded axes", "object", obj.Name(), "id", id, "warning", r.Warning)
				}

				f.entity(e, r, measurement.ResolveStyle(e, styles, fc.Options.Defaults))
				stats.Entities++
			}
		}

		if obj.Selected() && fc.Options.Debug.Enabled() {
			f.debug(obj)
		}
	}

	f.submit(&stats)
	return stats
}

// submit hands the batches to the sink, geometry first so text lands on top
func (f *frame) submit(stats *FrameStats) {
	log := logx.Logger()
	stats.Batches = len(f.b.batches)
	for _, t := range f.b.texts {
		stats.TextLines += len(t.Lines)
	}
	if f.fc.Sink == nil {
		return
	}

	for _, b := range f.b.batches {
		log.Debug("submitting batch", "class", b.Class, "vertices", len(b.Mesh.Vertices), "triangles", b.Mesh.Triangles())
		if err := f.fc.Sink.Triangles(b); err != nil {
			stats.SinkErrors++
			log.Warn("sink rejected batch", "class", b.Class, "err", err)
		}
	}
	for _, t := range f.b.texts {
		if err := f.fc.Sink.Text(t); err != nil {
			stats.SinkErrors++
			log.Warn("sink rejected text", "lines", len(t.Lines), "err", err)
		}
	}
}

// Sums aggregates the filtered distances of obj's summable entities per bucket,
// scaled to meters by units. Unresolvable entities are left out.
func Sums(obj Object, objects measurement.ObjectLookup, units measurement.Units) measurement.GroupSums {
	var sums measurement.GroupSums
	store := obj.Measures()
	if store == nil {
		return sums
	}

	src := measurement.NewSource(obj.Vertices(), obj.Transform())
	for _, e := range store.All() {
		if !e.Kind.Summable() || e.Bucket == measurement.BucketNone {
			continue
		}
		r, err := measurement.Resolve(e, src, objects)
		if err != nil {
			continue
		}
		sums.Add(e.Bucket, r.Filtered*units.Factor())
	}
	return sums
}
