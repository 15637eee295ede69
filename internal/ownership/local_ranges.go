package ownership

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/slices"

	"github.com/dreamware/shardplan/internal/ring"
)

// ErrInvalidWeight is returned when an owned range carries a weight that is
// not positive and finite.
var ErrInvalidWeight = errors.New("owned range weight must be positive and finite")

// ErrOverlappingRanges is returned when two owned ranges share more than an
// endpoint.
var ErrOverlappingRanges = errors.New("owned ranges overlap")

// ErrInvalidSplitCount is returned when a split into fewer than one piece is
// requested.
var ErrInvalidSplitCount = errors.New("split count must be at least 1")

// LocalRanges is the sorted, normalized set of weighted token ranges this
// node owns. It is immutable after construction and safe for concurrent
// readers.
type LocalRanges struct {
	part    ring.Partitioner
	entries []ring.WeightedRange

	totalSize         float64
	totalWeightedSize float64
}

// New builds a LocalRanges from an engine snapshot of owned ranges. Wrapping
// ranges are unwrapped, entries are sorted by left endpoint, and the totals
// are accumulated once, left to right. Returns an error for non-positive or
// NaN weights and for overlapping entries.
func New(part ring.Partitioner, ranges []ring.WeightedRange) (*LocalRanges, error) {
	entries := make([]ring.WeightedRange, 0, len(ranges))
	for _, wr := range ranges {
		if math.IsNaN(wr.Weight) || math.IsInf(wr.Weight, 0) || wr.Weight <= 0 {
			return nil, fmt.Errorf("%w: %v for range (%d, %d]", ErrInvalidWeight, wr.Weight, wr.Range.Left, wr.Range.Right)
		}
		for _, arc := range wr.Range.Unwrap() {
			entries = append(entries, ring.WeightedRange{Weight: wr.Weight, Range: arc})
		}
	}
	slices.SortFunc(entries, func(a, b ring.WeightedRange) int {
		switch {
		case a.Range.Left < b.Range.Left:
			return -1
		case a.Range.Left > b.Range.Left:
			return 1
		default:
			return 0
		}
	})
	for i := 0; i < len(entries)-1; i++ {
		right := entries[i].Range.Right
		if right == ring.MinimumToken || right > entries[i+1].Range.Left {
			return nil, fmt.Errorf("%w: (%d, %d] and (%d, %d]",
				ErrOverlappingRanges,
				entries[i].Range.Left, entries[i].Range.Right,
				entries[i+1].Range.Left, entries[i+1].Range.Right)
		}
	}

	lr := &LocalRanges{part: part, entries: entries}
	for _, e := range entries {
		lr.totalSize += e.Size(part)
		lr.totalWeightedSize += e.WeightedSize(part)
	}
	return lr, nil
}

// Full returns a LocalRanges owning the entire ring at the given weight.
func Full(part ring.Partitioner, weight float64) (*LocalRanges, error) {
	min := part.MinimumToken()
	return New(part, []ring.WeightedRange{{Weight: weight, Range: ring.Range{Left: min, Right: min}}})
}

// Partitioner returns the partitioner the set was built with.
func (lr *LocalRanges) Partitioner() ring.Partitioner { return lr.part }

// Empty reports whether the node owns no token space.
func (lr *LocalRanges) Empty() bool { return len(lr.entries) == 0 }

// Ranges returns a copy of the normalized entries in ring order.
func (lr *LocalRanges) Ranges() []ring.WeightedRange {
	out := make([]ring.WeightedRange, len(lr.entries))
	copy(out, lr.entries)
	return out
}

// TotalSize returns the owned fraction of the ring, unweighted.
func (lr *LocalRanges) TotalSize() float64 { return lr.totalSize }

// TotalWeightedSize returns the weighted owned size, the quantity Split
// divides into equal pieces.
func (lr *LocalRanges) TotalWeightedSize() float64 { return lr.totalWeightedSize }

// End returns the token where the owned space ends: the right endpoint of
// the last entry in ring order, or the ring origin when that entry runs to
// the ring end (and for an empty set).
func (lr *LocalRanges) End() ring.Token {
	if len(lr.entries) == 0 {
		return lr.part.MinimumToken()
	}
	return lr.entries[len(lr.entries)-1].Range.Right
}

// Start returns the left endpoint of the first owned entry in ring order,
// or the ring origin for an empty set.
func (lr *LocalRanges) Start() ring.Token {
	if len(lr.entries) == 0 {
		return lr.part.MinimumToken()
	}
	return lr.entries[0].Range.Left
}

// IntersectionSize returns the unweighted fraction of the ring covered by
// the intersection of q with the owned set. Wrapping queries are split into
// forward arcs first; a query with equal endpoints is the whole ring.
func (lr *LocalRanges) IntersectionSize(q ring.Range) float64 {
	sum := 0.0
	for _, e := range lr.entries {
		sum += ring.OverlapSize(lr.part, e.Range, q)
	}
	return sum
}

// WeightedIntersectionSize is IntersectionSize with each entry's overlap
// scaled by its weight. This is the quantity the spanned-fraction query
// aggregates.
func (lr *LocalRanges) WeightedIntersectionSize(q ring.Range) float64 {
	sum := 0.0
	for _, e := range lr.entries {
		sum += e.Weight * ring.OverlapSize(lr.part, e.Range, q)
	}
	return sum
}

// Split divides the owned space into k equal-weighted pieces and returns the
// k piece-ending positions in ring order: k-1 interior boundary tokens
// followed by End(). A target that falls exactly on an entry boundary
// resolves to that endpoint. An empty set yields nil.
func (lr *LocalRanges) Split(k int) ([]ring.Token, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSplitCount, k)
	}
	if lr.Empty() {
		return nil, nil
	}
	out := make([]ring.Token, 0, k)
	per := lr.totalWeightedSize / float64(k)
	target := per
	acc := 0.0
	for _, e := range lr.entries {
		sz := e.WeightedSize(lr.part)
		for len(out) < k-1 && acc+sz >= target {
			// Convert the weighted remainder back to an unweighted
			// position within this entry.
			within := (target - acc) / e.Weight
			ratio := within / e.Size(lr.part)
			out = append(out, lr.part.Split(e.Range.Left, e.Range.Right, ratio))
			target += per
		}
		acc += sz
	}
	// Float residue can leave the last interior targets unmet; they sit on
	// the owned end.
	for len(out) < k-1 {
		out = append(out, lr.End())
	}
	out = append(out, lr.End())
	return out, nil
}
