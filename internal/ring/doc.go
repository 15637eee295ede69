// Package ring models the cyclic token space that places data on nodes.
//
// # Overview
//
// Every partition key hashes to a Token, a point on a cyclic 64-bit keyspace
// whose canonical origin is MinimumToken. The package provides the token
// arithmetic the rest of the planner is built on: the fraction of the ring an
// arc covers, the token at a fractional position along an arc, and the
// successor of a token.
//
// # Arcs
//
// A Range is the half-open forward arc (Left, Right]. Two conventions carry
// through all arithmetic:
//
//   - A range whose endpoints are equal covers the full ring. The canonical
//     encoding of the full ring is (MinimumToken, MinimumToken).
//   - A non-wrapping range may use MinimumToken as its Right endpoint to mean
//     "up to the ring end" (the position just before the origin comes around
//     again).
//
// Any wrapping range can be normalized with Unwrap into at most two
// non-wrapping arcs, which is how the ownership and sharding packages do all
// interval arithmetic.
//
// # Determinism
//
// Size and Split are pure integer arithmetic with a single float rounding per
// call, so results are bit-identical across runs and platforms. This matters:
// shard boundaries computed here are compared for equality by the compaction
// writer.
package ring
