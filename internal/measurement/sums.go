package measurement

import "iter"

// GroupSums holds per-bucket distance totals and their grand total
type GroupSums struct {
	Totals [BucketCount]float64
	Active [BucketCount]bool
	Total  float64
}

// Add accumulates value into bucket; BucketNone is ignored
func (g *GroupSums) Add(b Bucket, value float64) {
	i := b.Index()
	if i < 0 {
		return
	}
	g.Totals[i] += value
	g.Active[i] = true
	g.Total += value
}

// Merge adds every bucket of other
func (g *GroupSums) Merge(other GroupSums) {
	for i := range other.Totals {
		if other.Active[i] {
			g.Add(Bucket(i+1), other.Totals[i])
		}
	}
}

// Empty reports whether nothing was accumulated
func (g GroupSums) Empty() bool {
	for _, a := range g.Active {
		if a {
			return false
		}
	}
	return true
}

// Buckets iterates the active buckets in letter order
func (g GroupSums) Buckets() iter.Seq2[Bucket, float64] {
	return func(yield func(Bucket, float64) bool) {
		for i, active := range g.Active {
			if active && !yield(Bucket(i+1), g.Totals[i]) {
				return
			}
		}
	}
}
