package longscroll

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBlockSet(n int) (*BlockSet, *Scheduler, *fakeDataSource, *fakeHostSurface) {
	ds := newFakeDataSource(n)
	sched := NewScheduler()
	idx := NewRowHeightIndex(n, 30)
	surface := newFakeHostSurface(300)
	bs := NewBlockSet(n, ds, sched, idx, surface, nil, nil).WithPreferredBlockSize(10)
	bs.randFloat = func() float64 { return 1 } // never probabilistically skip
	bs.nowFunc = func() time.Time { return time.Unix(0, 0) }
	return bs, sched, ds, surface
}

func TestBlockSet_SetTargetSeedsAndCovers(t *testing.T) {
	t.Parallel()

	bs, sched, _, _ := newTestBlockSet(200)
	bs.SetTarget(IndexRange(95, 105), 100)
	sched.Drain(0, 0)

	assert.NotEmpty(t, bs.Blocks())
	assert.True(t, bs.CoveredRange().Contains(IndexRange(95, 105)))
}

func TestBlockSet_SetTargetIsIdempotent(t *testing.T) {
	t.Parallel()

	bs, sched, _, _ := newTestBlockSet(200)
	bs.SetTarget(IndexRange(95, 105), 100)
	sched.Drain(0, 0)
	before := len(bs.Blocks())

	bs.SetTarget(IndexRange(95, 105), 100) // identical call: no new write task
	assert.Equal(t, 0, sched.Pending(bs))
	assert.Len(t, bs.Blocks(), before)
}

func TestBlockSet_EnsureCoversGrowsBothDirections(t *testing.T) {
	t.Parallel()

	bs, sched, _, _ := newTestBlockSet(500)
	bs.SetTarget(IndexRange(240, 260), 250)
	sched.Drain(0, 0)

	covered := bs.CoveredRange()
	assert.LessOrEqual(t, covered.Top, 240.0)
	assert.GreaterOrEqual(t, covered.Bot, 260.0)
}

func TestBlockSet_FreeOutsideLeaveRangeReclaimsFarBlocks(t *testing.T) {
	t.Parallel()

	bs, sched, _, _ := newTestBlockSet(1000)
	bs.SetTarget(IndexRange(0, 10), 5)
	sched.Drain(0, 0)
	firstCount := len(bs.Blocks())
	require.NotZero(t, firstCount)

	// Retarget far away; the old blocks fall well outside the new leave
	// range and must be freed.
	bs.SetTarget(IndexRange(900, 910), 905)
	sched.Drain(0, 0)

	for _, b := range bs.Blocks() {
		assert.True(t, b.Range().ContainsNum(905))
	}
}

func TestBlockSet_DoWorkPreparesNearestUnpreparedBlock(t *testing.T) {
	t.Parallel()

	bs, sched, _, _ := newTestBlockSet(200)
	bs.SetTarget(IndexRange(95, 105), 100)
	sched.Drain(0, 0)

	center := bs.blockIndexContaining(bs.targetRow)
	require.GreaterOrEqual(t, center, 0)
	assert.False(t, bs.blocks[center].Prepared())

	bs.DoWork(SchedulerEvent{LoadFactor: 0})

	assert.True(t, bs.blocks[center].Prepared())
}

func TestBlockSet_DoWorkIsNoopWithoutTarget(t *testing.T) {
	t.Parallel()

	bs, _, _, _ := newTestBlockSet(200)
	assert.NotPanics(t, func() { bs.DoWork(SchedulerEvent{}) })
}

func TestBlockSet_RecordPrepareDurationShrinksAfterFourOfFiveSlow(t *testing.T) {
	t.Parallel()

	bs, _, _, _ := newTestBlockSet(200)
	bs.preferredBlockSize = 19
	slowRange := IndexRange(0, 19)

	for i := 0; i < 4; i++ {
		bs.recordPrepareDuration(20*time.Millisecond, slowRange)
	}
	assert.Equal(t, 19, bs.preferredBlockSize) // history not full yet
	bs.recordPrepareDuration(20*time.Millisecond, slowRange)

	// ceil(0.2 * 19) == 4, so 19 - 4 == 15.
	assert.Equal(t, 15, bs.preferredBlockSize)
	assert.Empty(t, bs.prepareHistory)
}

func TestBlockSet_RecordPrepareDurationIgnoresStaleSizedBlocks(t *testing.T) {
	t.Parallel()

	bs, _, _, _ := newTestBlockSet(200)
	bs.preferredBlockSize = 10
	staleRange := IndexRange(0, 19) // 19 rows, doesn't match preferredBlockSize

	for i := 0; i < 5; i++ {
		bs.recordPrepareDuration(20*time.Millisecond, staleRange)
	}
	assert.Equal(t, 10, bs.preferredBlockSize)
	assert.Empty(t, bs.prepareHistory)
}

func TestBlockSet_RecordPrepareDurationNeverShrinksBelowMinimum(t *testing.T) {
	t.Parallel()

	bs, _, _, _ := newTestBlockSet(200)
	bs.preferredBlockSize = minBlockSize

	for round := 0; round < 3; round++ {
		for i := 0; i < prepareHistoryLen; i++ {
			bs.recordPrepareDuration(100*time.Millisecond, IndexRange(0, bs.preferredBlockSize))
		}
	}
	assert.Equal(t, minBlockSize, bs.preferredBlockSize)
}

func TestBlockSet_UpdateRowSizeRepositionsLiveBlocks(t *testing.T) {
	t.Parallel()

	bs, sched, _, surface := newTestBlockSet(50)
	bs.SetTarget(IndexRange(10, 20), 15)
	sched.Drain(0, 0)
	require.NotEmpty(t, bs.Blocks())

	bs.idx.Set(0, 200)
	bs.UpdateRowSize([]RowSizeChange{{Index: 0, NewSize: 200}})

	for i, b := range bs.Blocks() {
		assert.Equal(t, bs.idx.PrefixSum(b.Range().IndexTop()), surface.hosts[i].translateY)
	}
}
