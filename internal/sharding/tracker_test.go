package sharding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamware/shardplan/internal/ring"
)

func TestTrackerInitialShard(t *testing.T) {
	local := buildLocal(t, []int{10, 50}, nil)
	tracker, err := CreateNoDisks(local).Boundaries(2)
	require.NoError(t, err)

	assert.Equal(t, 0, tracker.ShardIndex())
	assert.Equal(t, 2, tracker.Count())
	assert.Equal(t, tokenAt(0.10), tracker.ShardStart())

	end, ok := tracker.ShardEnd()
	require.True(t, ok)
	assert.Equal(t, 30, posOf(end))

	// Tokens inside the first shard do not cross.
	assert.False(t, tracker.AdvanceTo(ring.MinimumToken))
	assert.False(t, tracker.AdvanceTo(tokenAt(0.20)))
	assert.Equal(t, 0, tracker.ShardIndex())
}

func TestTrackerBoundaryExclusiveOnEntry(t *testing.T) {
	local := buildLocal(t, []int{10, 50}, nil)
	tracker, err := CreateNoDisks(local).Boundaries(2)
	require.NoError(t, err)

	end, ok := tracker.ShardEnd()
	require.True(t, ok)

	// The end token still belongs to the current shard; its successor
	// crosses.
	assert.False(t, tracker.AdvanceTo(end))
	assert.True(t, tracker.AdvanceTo(part.Next(end)))
	assert.Equal(t, 1, tracker.ShardIndex())
	assert.Equal(t, end, tracker.ShardStart())
}

func TestTrackerSkipsShards(t *testing.T) {
	local := fullLocal(t)
	tracker, err := CreateNoDisks(local).Boundaries(5)
	require.NoError(t, err)

	// A single advance steps through as many shards as the token needs.
	assert.True(t, tracker.AdvanceTo(tokenAt(0.90)))
	assert.Equal(t, 4, tracker.ShardIndex())
	assert.Equal(t, 80, posOf(tracker.ShardStart()))
}

func TestTrackerTerminalShard(t *testing.T) {
	local := buildLocal(t, []int{10, 50}, nil)
	tracker, err := CreateNoDisks(local).Boundaries(2)
	require.NoError(t, err)

	require.True(t, tracker.AdvanceTo(tokenAt(0.95)))
	assert.Equal(t, 1, tracker.ShardIndex())

	// The terminal shard is unbounded forward.
	_, ok := tracker.ShardEnd()
	assert.False(t, ok)
	assert.False(t, tracker.AdvanceTo(tokenAt(0.99)))
	assert.Equal(t, 1, tracker.ShardIndex())
}

func TestTrackerShardSpanSize(t *testing.T) {
	local := buildLocal(t, []int{10, 51, 61, 70}, nil)
	tracker, err := CreateNoDisks(local).Boundaries(5)
	require.NoError(t, err)

	// Owned total is 0.50, so every shard holds 0.10 of it, including the
	// pieces straddling the gap.
	for {
		assert.InDelta(t, 0.10, tracker.ShardSpanSize(), delta)
		end, ok := tracker.ShardEnd()
		if !ok {
			break
		}
		tracker.AdvanceTo(part.Next(end))
	}
}

func TestTrackerFractionInShard(t *testing.T) {
	local := fullLocal(t)
	tracker, err := CreateNoDisks(local).Boundaries(4)
	require.NoError(t, err)

	// First shard is (origin, 0.25].
	assert.InDelta(t, 1.0, tracker.FractionInShard(rangeAt(0.05, 0.20)), delta)
	assert.InDelta(t, 0.5, tracker.FractionInShard(rangeAt(0.15, 0.35)), delta)
	assert.InDelta(t, 0.0, tracker.FractionInShard(rangeAt(0.30, 0.40)), delta)

	require.True(t, tracker.AdvanceTo(tokenAt(0.30)))
	assert.InDelta(t, 1.0, tracker.FractionInShard(rangeAt(0.30, 0.40)), delta)
	assert.InDelta(t, 0.25, tracker.FractionInShard(rangeAt(0.45, 0.65)), delta)
}

func TestTrackerFullRingSingleShard(t *testing.T) {
	local := fullLocal(t)
	tracker, err := CreateNoDisks(local).Boundaries(1)
	require.NoError(t, err)

	assert.Equal(t, 1, tracker.Count())
	_, ok := tracker.ShardEnd()
	assert.False(t, ok)
	assert.InDelta(t, 1.0, tracker.ShardSpanSize(), delta)
	assert.InDelta(t, 1.0, tracker.FractionInShard(rangeAt(0.2, 0.9)), delta)
	assert.False(t, tracker.AdvanceTo(tokenAt(0.99)))
}

func TestTrackerCollapsedShards(t *testing.T) {
	// Disk positions beyond the owned space produce slices that own
	// nothing; their shards collapse onto the disk boundary and a single
	// advance walks through all of them.
	local := buildLocal(t, []int{10, 30}, nil)
	positions := []ring.Token{tokenAt(0.20), tokenAt(0.60), tokenAt(0.80)}
	tracker, err := Create(DiskBoundaries{Local: local, Positions: positions}).Boundaries(2)
	require.NoError(t, err)

	require.Equal(t, 6, tracker.Count())
	require.True(t, tracker.AdvanceTo(tokenAt(0.95)))
	assert.Equal(t, 5, tracker.ShardIndex())
	assert.Zero(t, tracker.ShardSpanSize())
}
