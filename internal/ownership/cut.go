package ownership

import (
	"github.com/dreamware/shardplan/internal/ring"
)

// CutAt partitions the owned set at the given ending positions and returns
// one subset per position, in ring order. positions carries one entry per
// slice; the last one is the owned-space end and does not cut (everything
// after the previous position belongs to the final subset). A position that
// falls in an unowned gap, or beyond the owned space, yields its slice
// boundary with no owned piece attached to it.
func (lr *LocalRanges) CutAt(positions []ring.Token) []*LocalRanges {
	if len(positions) == 0 {
		return nil
	}
	interior := positions[:len(positions)-1]
	subsets := make([]*LocalRanges, 0, len(positions))
	var cur []ring.WeightedRange
	flush := func() {
		subsets = append(subsets, lr.subset(cur))
		cur = nil
	}
	pi := 0
	for _, e := range lr.entries {
		for pi < len(interior) && interior[pi] <= e.Range.Left {
			flush()
			pi++
		}
		left := e.Range.Left
		right := e.Range.Right
		for pi < len(interior) && cutsWithin(left, right, interior[pi]) {
			cur = append(cur, ring.WeightedRange{Weight: e.Weight, Range: ring.Range{Left: left, Right: interior[pi]}})
			flush()
			left = interior[pi]
			pi++
		}
		// The remainder of the entry, unless the last cut consumed it
		// exactly. A full-ring entry keeps its to-the-end remainder.
		if left != right || right == ring.MinimumToken {
			cur = append(cur, ring.WeightedRange{Weight: e.Weight, Range: ring.Range{Left: left, Right: right}})
		}
	}
	for pi < len(interior) {
		flush()
		pi++
	}
	flush()
	return subsets
}

// cutsWithin reports whether position p falls on the forward arc (left,
// right], with right == MinimumToken meaning the ring end.
func cutsWithin(left, right, p ring.Token) bool {
	if p <= left {
		return false
	}
	return right == ring.MinimumToken || p <= right
}

// subset builds a LocalRanges directly from already-normalized entries,
// skipping input validation.
func (lr *LocalRanges) subset(entries []ring.WeightedRange) *LocalRanges {
	s := &LocalRanges{part: lr.part, entries: entries}
	for _, e := range entries {
		s.totalSize += e.Size(lr.part)
		s.totalWeightedSize += e.WeightedSize(lr.part)
	}
	return s
}
