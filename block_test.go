package longscroll

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlock_NewBlockBuildsPlaceholdersAndSchedulesAppend(t *testing.T) {
	t.Parallel()

	ds := newFakeDataSource(10)
	sched := NewScheduler()
	idx := NewRowHeightIndex(10, 30)
	surface := newFakeHostSurface(300)

	b := newBlock(IndexRange(2, 5), ds, sched, idx, surface, nil, nil)

	assert.Equal(t, []int{2, 3, 4}, ds.madeDummy)
	assert.False(t, b.Prepared())
	assert.True(t, b.Dirty())
	assert.False(t, surface.hosts[0].appended)

	sched.Drain(0, 0)
	assert.True(t, surface.hosts[0].appended)
}

func TestBlock_PrepareBuildsRealElements(t *testing.T) {
	t.Parallel()

	ds := newFakeDataSource(10)
	sched := NewScheduler()
	idx := NewRowHeightIndex(10, 30)
	surface := newFakeHostSurface(300)

	b := newBlock(IndexRange(0, 3), ds, sched, idx, surface, nil, nil)
	sched.Drain(0, 0)

	b.Prepare()
	assert.True(t, b.Prepared())
	assert.Equal(t, []int{0, 1, 2}, ds.madeReal)
}

func TestBlock_RenderReportsSizeChangesAfterPrepare(t *testing.T) {
	t.Parallel()

	ds := newFakeDataSource(10)
	ds.realHeights[1] = 45

	sched := NewScheduler()
	idx := NewRowHeightIndex(10, 30)
	surface := newFakeHostSurface(300)

	var changes []RowSizeChange
	onSize := func(c []RowSizeChange) { changes = append(changes, c...) }

	b := newBlock(IndexRange(0, 3), ds, sched, idx, surface, onSize, nil)
	sched.Drain(0, 0) // flush construction's AppendToPane

	b.Prepare()
	b.Render()
	drainUntilIdle(sched, b, 5)

	require := assert.New(t)
	require.Len(changes, 1)
	require.Equal(1, changes[0].Index)
	require.Equal(45.0, changes[0].NewSize)
	// Block only reports the change; applying it to the index is the
	// coordinator's job (LongScroll.updateRowSize), not wired in here.
	require.Equal(30.0, idx.Get(1))
}

func TestBlock_RenderIsNoopWhenNotDirty(t *testing.T) {
	t.Parallel()

	ds := newFakeDataSource(5)
	sched := NewScheduler()
	idx := NewRowHeightIndex(5, 30)
	surface := newFakeHostSurface(300)

	b := newBlock(IndexRange(0, 3), ds, sched, idx, surface, nil, nil)
	sched.Drain(0, 0)
	b.Render()
	drainUntilIdle(sched, b, 5)
	assert.Equal(t, 0, sched.Pending(b))

	b.Render() // dirty flag already cleared, must not enqueue anything
	assert.Equal(t, 0, sched.Pending(b))
}

func TestBlock_FreeCancelsJobsBeforeReleasingElements(t *testing.T) {
	t.Parallel()

	ds := newFakeDataSource(5)
	sched := NewScheduler()
	idx := NewRowHeightIndex(5, 30)
	surface := newFakeHostSurface(300)

	b := newBlock(IndexRange(0, 3), ds, sched, idx, surface, nil, nil)
	b.Prepare()
	b.Render() // leaves a pending idle-write continuation

	b.Free()

	assert.Equal(t, 0, sched.Pending(b))
	assert.Equal(t, []int{0, 1, 2}, ds.freedReal)
	assert.True(t, surface.hosts[0].disposed)

	// Draining afterward must not panic or touch the freed block's state.
	assert.NotPanics(t, func() { sched.Drain(0, 0) })
}

func TestBlock_UpdatePosTranslatesToCurrentOffset(t *testing.T) {
	t.Parallel()

	ds := newFakeDataSource(10)
	sched := NewScheduler()
	idx := NewRowHeightIndex(10, 30)
	surface := newFakeHostSurface(300)

	b := newBlock(IndexRange(2, 5), ds, sched, idx, surface, nil, nil)
	sched.Drain(0, 0)

	idx.Set(0, 100) // grows a row above the block, shifting its offset
	b.UpdatePos()

	assert.Equal(t, idx.PrefixSum(2), surface.hosts[0].translateY)
}
