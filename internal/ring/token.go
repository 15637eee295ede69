package ring

import (
	"math"

	"github.com/cespare/xxhash/v2"
)

// Token is a point on the cyclic keyspace. Tokens are totally ordered by
// plain integer comparison, with MinimumToken as the ring origin.
type Token int64

// MinimumToken is the canonical ring origin, the smallest token.
const MinimumToken Token = math.MinInt64

// ringWidth is the total number of positions on the ring, as a float.
const ringWidth float64 = 1 << 64

// Partitioner maps partition keys onto the ring and provides the token
// arithmetic the planner needs. Implementations must be deterministic:
// identical inputs produce identical tokens on every platform.
type Partitioner interface {
	// MinimumToken returns the ring origin.
	MinimumToken() Token

	// Size returns the fraction of the ring, in [0, 1], covered by the
	// forward arc (a, b]. Equal endpoints denote the full ring.
	Size(a, b Token) float64

	// Split returns the token at fractional position ratio along the
	// forward arc (a, b]. Split(a, b, 0) == a and Split(a, b, 1) == b.
	// With a == b the arc is the full ring.
	Split(a, b Token, ratio float64) Token

	// Next returns the immediate successor of t in ring order.
	// t must not be the maximum token.
	Next(t Token) Token

	// Token hashes a partition key to its position on the ring.
	Token(key []byte) Token
}

// HashPartitioner is the production partitioner: xxHash-derived tokens over
// the full signed 64-bit range. The zero value is ready to use.
type HashPartitioner struct{}

// MinimumToken returns the ring origin.
func (HashPartitioner) MinimumToken() Token { return MinimumToken }

// Size returns the fraction of the ring covered by the forward arc (a, b].
// The width is modular, so wrapping arcs need no special handling; equal
// endpoints denote the full ring.
func (HashPartitioner) Size(a, b Token) float64 {
	width := uint64(b) - uint64(a)
	if width == 0 {
		return 1.0
	}
	return float64(width) / ringWidth
}

// Split returns the token at fractional position ratio along (a, b].
// The result is a + round(ratio * width) in modular arithmetic, giving one
// float rounding per call.
func (HashPartitioner) Split(a, b Token, ratio float64) Token {
	if ratio <= 0 {
		return a
	}
	if ratio >= 1 {
		return b
	}
	width := float64(uint64(b) - uint64(a))
	if width == 0 {
		width = ringWidth
	}
	offset := math.Round(ratio * width)
	if offset >= ringWidth {
		return b
	}
	return Token(uint64(a) + uint64(offset))
}

// Next returns t + 1. The caller must not pass the maximum token; shard ends
// are always strictly below it.
func (HashPartitioner) Next(t Token) Token { return t + 1 }

// Token hashes key to its ring position.
func (HashPartitioner) Token(key []byte) Token {
	return Token(int64(xxhash.Sum64(key)))
}
