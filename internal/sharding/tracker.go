package sharding

import (
	"github.com/dreamware/shardplan/internal/ownership"
	"github.com/dreamware/shardplan/internal/ring"
)

// Tracker is the stateful cursor the compaction writer advances through the
// shards of a plan. Single-owner, single-thread; tokens must be passed in
// non-decreasing ring order.
type Tracker interface {
	// AdvanceTo moves the cursor to the given token and reports whether it
	// crossed into a new shard, stepping through as many shards as the
	// token requires. A token equal to the current shard's end does not
	// cross; step past it with the partitioner's Next. Once in the
	// terminal shard, AdvanceTo always reports false.
	AdvanceTo(t ring.Token) bool

	// ShardStart returns the current shard's start token.
	ShardStart() ring.Token

	// ShardEnd returns the current shard's end token. The second result is
	// false for the terminal shard, which is unbounded forward.
	ShardEnd() (ring.Token, bool)

	// ShardIndex returns the current shard's position in the plan.
	ShardIndex() int

	// Count returns the total number of shards in the plan.
	Count() int

	// ShardSpanSize returns the weighted owned size of the current shard.
	ShardSpanSize() float64

	// FractionInShard returns the fraction of the arc that lies within the
	// current shard, unweighted. Zero for a collapsed shard or an empty
	// arc.
	FractionInShard(r ring.Range) float64
}

// boundaryTracker walks a shared immutable plan with a single index. It
// performs one comparison per crossed shard, so a monotone token stream
// costs amortized constant time per token.
type boundaryTracker struct {
	local *ownership.LocalRanges
	plan  *plan
	index int
}

func (t *boundaryTracker) AdvanceTo(tok ring.Token) bool {
	crossed := false
	for t.index < len(t.plan.ends)-1 && tok > t.plan.ends[t.index] {
		t.index++
		crossed = true
	}
	return crossed
}

func (t *boundaryTracker) ShardStart() ring.Token {
	if t.index == 0 {
		return t.plan.start
	}
	return t.plan.ends[t.index-1]
}

func (t *boundaryTracker) ShardEnd() (ring.Token, bool) {
	if t.index >= len(t.plan.ends)-1 {
		return ring.MinimumToken, false
	}
	return t.plan.ends[t.index], true
}

func (t *boundaryTracker) ShardIndex() int { return t.index }

func (t *boundaryTracker) Count() int { return len(t.plan.ends) }

func (t *boundaryTracker) ShardSpanSize() float64 {
	r, ok := t.shardRange()
	if !ok {
		return 0
	}
	return t.local.WeightedIntersectionSize(r)
}

func (t *boundaryTracker) FractionInShard(q ring.Range) float64 {
	r, ok := t.shardRange()
	if !ok {
		return 0
	}
	total := q.Size(t.local.Partitioner())
	if total <= 0 {
		return 0
	}
	return ring.OverlapSize(t.local.Partitioner(), r, q) / total
}

// shardRange returns the current shard's arc. The terminal shard uses the
// owned-space end as its right bound. A collapsed shard (both bounds on the
// same non-origin token) has no arc; equal bounds at the origin are the
// full ring, the single-shard full-ownership plan.
func (t *boundaryTracker) shardRange() (ring.Range, bool) {
	if len(t.plan.ends) == 0 {
		return ring.Range{}, false
	}
	start := t.ShardStart()
	end := t.plan.ends[t.index]
	if start == end && start != ring.MinimumToken {
		return ring.Range{}, false
	}
	return ring.Range{Left: start, Right: end}, true
}
