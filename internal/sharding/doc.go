// Package sharding plans how an immutable table's token space is divided for
// compaction, and answers how much of the locally owned token space a table
// spans.
//
// # Overview
//
// Compaction writes its output in shards to bound individual file sizes. A
// Manager is built once per compaction job from a DiskBoundaries snapshot:
// the node's owned ranges plus the positions the engine already uses to
// stripe data across storage devices. From that it serves two things:
//
//   - RangeSpanned, the stateless query behind density accounting: the
//     fraction of owned token space a table covers, with corrections for
//     degenerate inputs (single-partition tables, tables outside the owned
//     ranges, unusable reported coverage).
//   - Boundaries, which mints a Tracker: a single-owner cursor the writer
//     advances token by token to learn when to roll a new output file.
//
// # Plans
//
// For D disks and a requested shard count S, the plan is exactly D*S shard
// end tokens in ring order: each disk slice is subdivided into S pieces of
// equal weighted owned size, and no shard crosses a disk boundary. The final
// shard is unbounded forward (its end is reported as absent). Plans are
// memoized per shard count; the first computed plan for a count wins and is
// shared, immutable, by every tracker minted for it.
//
// # Concurrency
//
// A Manager and its plans are safe for concurrent readers once constructed.
// Trackers are not: each one is single-owner and lives for one compaction
// write. Advancing a tracker never mutates the plan.
//
// # Spanned-fraction decision table
//
// RangeSpanned applies these rules in order, first match wins:
//
//  1. First == Last: the table is a single partition, span 1.0 regardless of
//     any reported coverage.
//  2. Reported coverage is positive (not NaN): that value is the candidate
//     span. Otherwise the candidate is the weighted intersection of
//     (First, Last] with the owned ranges.
//  3. A candidate below 2^-48 is degenerate (a leftover of the same two
//     cases, observed through on-disk stats) and corrects to 1.0; anything
//     larger is returned as is.
package sharding
