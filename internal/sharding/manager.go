package sharding

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dreamware/shardplan/internal/logging"
	"github.com/dreamware/shardplan/internal/ownership"
	"github.com/dreamware/shardplan/internal/ring"
)

// ErrInvalidShardCount is returned when fewer than one shard is requested.
var ErrInvalidShardCount = errors.New("shard count must be at least 1")

// minimumTokenCoverage is the smallest span RangeSpanned reports. Anything
// below it is a degenerate measurement (a single-partition table or a table
// outside the owned ranges) and corrects to 1.0.
const minimumTokenCoverage = 0x1p-48

// Table describes an immutable on-disk table for span queries. Only token
// endpoints and the table's own coverage statistic are consulted; data
// access stays with the engine.
type Table interface {
	// First returns the token of the table's first partition key.
	First() ring.Token

	// Last returns the token of the table's last partition key.
	// Must not precede First in ring order.
	Last() ring.Token

	// TokenSpaceCoverage returns the table's self-reported estimate of the
	// fraction of token space its partitions span, or NaN when unknown.
	// On-disk stats are more accurate than the endpoint arc because they
	// see the gaps between partitions.
	TokenSpaceCoverage() float64
}

// DiskBoundaries is the engine snapshot a Manager is built from: the owned
// ranges and the D disk ending positions in ring order. A position marks the
// exclusive end of a disk slice; the last one is the owned-space end (the
// ring origin for full-ring ownership). Snapshots are materialized before
// construction and held read-only for the job's duration.
type DiskBoundaries struct {
	Local     *ownership.LocalRanges
	Positions []ring.Token
}

// Manager is the planning facade handed to compaction. Implementations are
// immutable after construction and safe for concurrent readers.
type Manager interface {
	// RangeSpanned returns the fraction of owned token space the table
	// covers, corrected per the package decision table. Always positive.
	RangeSpanned(t Table) float64

	// SpanOfRange returns the raw weighted intersection of the arc with
	// the owned ranges, with no corrections. May be zero.
	SpanOfRange(r ring.Range) float64

	// LocalSpaceCoverage returns the weighted total of the owned ranges,
	// the denominator density normalization uses.
	LocalSpaceCoverage() float64

	// Density returns the table's on-disk bytes per unit of owned token
	// space, the quantity compaction tiers tables by.
	Density(onDiskLength int64, t Table) float64

	// Boundaries returns a fresh tracker over the plan for the given
	// shard count. Plans are memoized per count and shared.
	Boundaries(shardCount int) (Tracker, error)
}

// Option configures a Manager.
type Option func(*base)

// WithLogger injects the logger plan construction reports to. Without it,
// output is discarded.
func WithLogger(l *slog.Logger) Option {
	return func(b *base) { b.log = logging.Default(l) }
}

// Create builds the planner for a disk-boundary snapshot. A snapshot with at
// most one position has nothing to stripe across, so the whole owned space
// is a single slice.
func Create(db DiskBoundaries, opts ...Option) Manager {
	if len(db.Positions) <= 1 || db.Local.Empty() {
		return CreateNoDisks(db.Local, opts...)
	}
	m := &diskAwareManager{positions: append([]ring.Token(nil), db.Positions...)}
	m.init(db.Local, opts)
	m.compute = m.computePlan
	return m
}

// CreateNoDisks builds the planner variant that treats the entire owned
// space as one slice.
func CreateNoDisks(local *ownership.LocalRanges, opts ...Option) Manager {
	m := &noDisksManager{}
	m.init(local, opts)
	m.compute = m.computePlan
	return m
}

// base carries the state and queries shared by both planner variants.
type base struct {
	local *ownership.LocalRanges
	log   *slog.Logger

	// compute builds the plan for a shard count; set by the variant.
	compute func(count int) *plan

	mu    sync.RWMutex
	plans map[int]*plan
}

func (b *base) init(local *ownership.LocalRanges, opts []Option) {
	b.local = local
	b.log = logging.Discard()
	b.plans = make(map[int]*plan)
	for _, opt := range opts {
		opt(b)
	}
	b.log = b.log.With("component", "sharding")
}

// RangeSpanned implements the package decision table.
func (b *base) RangeSpanned(t Table) float64 {
	first, last := t.First(), t.Last()
	if first == last {
		// Single-partition table. This wins over any reported coverage:
		// stats like 1e-50 are the same degeneracy observed on disk.
		return 1.0
	}
	span := t.TokenSpaceCoverage()
	if !(span > 0) {
		// NaN, zero or negative: fall back to the endpoint arc.
		span = b.local.WeightedIntersectionSize(ring.Range{Left: first, Right: last})
	}
	if span >= minimumTokenCoverage {
		return span
	}
	// Out-of-local-range correction: the table is a standalone unit.
	return 1.0
}

// SpanOfRange returns the raw weighted intersection of the arc with the
// owned ranges.
func (b *base) SpanOfRange(r ring.Range) float64 {
	return b.local.WeightedIntersectionSize(r)
}

// LocalSpaceCoverage returns the weighted total of the owned ranges.
func (b *base) LocalSpaceCoverage() float64 {
	return b.local.TotalWeightedSize()
}

// Density returns onDiskLength divided by the table's spanned fraction.
// RangeSpanned never returns zero, so the ratio is always defined.
func (b *base) Density(onDiskLength int64, t Table) float64 {
	return float64(onDiskLength) / b.RangeSpanned(t)
}

// Boundaries returns a fresh tracker over the memoized plan for the count.
// The first computed plan for a count wins; a concurrently built duplicate
// is discarded.
func (b *base) Boundaries(shardCount int) (Tracker, error) {
	if shardCount < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidShardCount, shardCount)
	}
	b.mu.RLock()
	pl := b.plans[shardCount]
	b.mu.RUnlock()
	if pl == nil {
		built := b.compute(shardCount)
		b.mu.Lock()
		if winner, ok := b.plans[shardCount]; ok {
			pl = winner
		} else {
			b.plans[shardCount] = built
			pl = built
		}
		b.mu.Unlock()
		if pl == built {
			b.log.Debug("computed shard plan",
				"shards", shardCount, "boundaries", len(pl.ends))
		}
	}
	return &boundaryTracker{local: b.local, plan: pl}, nil
}

// noDisksManager plans over the whole owned space as a single slice.
type noDisksManager struct {
	base
}

func (m *noDisksManager) computePlan(count int) *plan {
	// Split cannot fail here: the count was validated by Boundaries.
	ends, _ := m.local.Split(count)
	return &plan{start: m.local.Start(), ends: ends}
}

// diskAwareManager subdivides each disk slice independently so that no
// shard crosses a disk boundary.
type diskAwareManager struct {
	base
	positions []ring.Token
}

func (m *diskAwareManager) computePlan(count int) *plan {
	ends := make([]ring.Token, 0, len(m.positions)*count)
	for i, sub := range m.local.CutAt(m.positions) {
		end := m.positions[i]
		if sub.Empty() || sub.TotalWeightedSize() <= 0 {
			// Nothing owned on this slice: its shards collapse onto the
			// disk boundary, which is still produced.
			for j := 0; j < count; j++ {
				ends = append(ends, end)
			}
			continue
		}
		bounds, _ := sub.Split(count)
		bounds[len(bounds)-1] = end
		ends = append(ends, bounds...)
	}
	return &plan{start: m.local.Start(), ends: ends}
}

// plan is the computed, immutable shard layout: one end token per shard in
// ring order. The final entry is the owned-space end; the tracker reports
// that shard as unbounded forward.
type plan struct {
	start ring.Token
	ends  []ring.Token
}
