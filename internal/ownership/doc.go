// Package ownership maintains the sorted set of token ranges this node owns,
// the planner's view of local data placement.
//
// # Overview
//
// A LocalRanges is built once per compaction job from an engine snapshot of
// the owned ranges and is read-only afterwards. Each entry carries a weight
// (a replication multiplier), so the set has both an unweighted total (the
// owned fraction of the ring) and a weighted total (the quantity shard
// planning equalizes).
//
// # Normalization
//
// Construction normalizes the input so that downstream arithmetic never sees
// a wrapping arc:
//
//   - Wrapping ranges are unwrapped into a leading (origin, right] piece and
//     a trailing (left, origin] piece that runs to the ring end.
//   - Entries are sorted by left endpoint in ring order.
//   - Weights must be positive and finite; entries must not overlap.
//
// # Operations
//
// The set answers two questions for the sharding layer: how much of an
// arbitrary query arc is owned (IntersectionSize, WeightedIntersectionSize),
// and where the k equal-weighted-piece boundaries of the owned space lie
// (Split). Split is also how the engine derives disk boundary positions.
package ownership
