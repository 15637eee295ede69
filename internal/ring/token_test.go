package ring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const delta = 1e-15

var part = HashPartitioner{}

// tokenAt returns the token at fractional position pos on the ring.
func tokenAt(pos float64) Token {
	return part.Split(MinimumToken, MinimumToken, pos)
}

func TestSizeFullRing(t *testing.T) {
	assert.Equal(t, 1.0, part.Size(MinimumToken, MinimumToken))

	// Equal endpoints denote the full ring wherever they sit.
	assert.Equal(t, 1.0, part.Size(tokenAt(0.3), tokenAt(0.3)))
}

func TestSizeForwardArcs(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
		want float64
	}{
		{name: "simple arc", a: 0.1, b: 0.5, want: 0.4},
		{name: "from origin", a: 0.0, b: 0.25, want: 0.25},
		{name: "wrapping arc", a: 0.9, b: 0.1, want: 0.2},
		{name: "almost full", a: 0.1, b: 0.0, want: 0.9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, part.Size(tokenAt(tt.a), tokenAt(tt.b)), delta)
		})
	}
}

func TestSizeAdditivity(t *testing.T) {
	// size(a, b) + size(b, c) == size(a, c) along a forward traversal.
	a, b, c := tokenAt(0.15), tokenAt(0.4), tokenAt(0.85)
	assert.InDelta(t, part.Size(a, c), part.Size(a, b)+part.Size(b, c), delta)

	// Holds across the origin as well.
	a, b, c = tokenAt(0.8), tokenAt(0.95), tokenAt(0.3)
	assert.InDelta(t, part.Size(a, c), part.Size(a, b)+part.Size(b, c), delta)
}

func TestSplitEndpoints(t *testing.T) {
	a, b := tokenAt(0.2), tokenAt(0.7)
	assert.Equal(t, a, part.Split(a, b, 0))
	assert.Equal(t, b, part.Split(a, b, 1))
	assert.Equal(t, MinimumToken, part.Split(MinimumToken, MinimumToken, 0))
	assert.Equal(t, MinimumToken, part.Split(MinimumToken, MinimumToken, 1))
}

func TestSplitPositions(t *testing.T) {
	// Split lands at the expected fraction of the arc.
	a, b := tokenAt(0.2), tokenAt(0.6)
	mid := part.Split(a, b, 0.5)
	assert.InDelta(t, 0.4, part.Size(MinimumToken, mid), delta)

	// Full-ring split places tokens at absolute fractions.
	assert.InDelta(t, 0.25, part.Size(MinimumToken, tokenAt(0.25)), delta)

	// Splitting a wrapping arc stays on the arc.
	a, b = tokenAt(0.9), tokenAt(0.3)
	q := part.Split(a, b, 0.5)
	assert.InDelta(t, 0.1, part.Size(MinimumToken, q), delta)
}

func TestSplitDeterministic(t *testing.T) {
	a, b := tokenAt(0.123), tokenAt(0.789)
	first := part.Split(a, b, 0.618)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, part.Split(a, b, 0.618))
	}
}

func TestNext(t *testing.T) {
	tok := tokenAt(0.5)
	next := part.Next(tok)
	assert.True(t, next > tok)
	assert.Less(t, part.Size(tok, next), 1e-18)

	assert.Equal(t, MinimumToken+1, part.Next(MinimumToken))
}

func TestTokenHashing(t *testing.T) {
	// Deterministic and sensitive to the key.
	assert.Equal(t, part.Token([]byte("k1")), part.Token([]byte("k1")))
	assert.NotEqual(t, part.Token([]byte("k1")), part.Token([]byte("k2")))
}

func TestMinimumToken(t *testing.T) {
	assert.Equal(t, Token(math.MinInt64), part.MinimumToken())
	assert.Equal(t, MinimumToken, part.MinimumToken())
}
