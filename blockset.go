package longscroll

import (
	"math"
	"math/rand"
	"time"
)

// Tunables for the adaptive block-sizing control loop.
const (
	defaultPreferredBlockSize = 50
	minBlockSize              = 5
	preferredBlockTime        = 12 * time.Millisecond
	prepareHistoryLen         = 5
	ensureCoversMaxIterations = 10
	renderThrottleInterval    = 10 * time.Millisecond
)

// BlockSet maintains the ordered list of live blocks covering a target row
// range, freeing blocks that fall outside a wider "leave" range, creating
// new ones to keep the target covered, prioritizing which block prepares
// next by distance from the focal row, and adaptively shrinking block size
// when preparation is too slow.
type BlockSet struct {
	n       int
	ds      DataSource
	sched   *Scheduler
	idx     *RowHeightIndex
	surface HostSurface
	onSize  func([]RowSizeChange)
	onError func(error)

	blocks []*Block

	hasTarget   bool
	targetRange Range
	targetRow   int
	leaveRange  Range

	preferredBlockSize int
	prepareHistory     []time.Duration

	lastRenderAt time.Time
	nowFunc      func() time.Time
	randFloat    func() float64
}

// NewBlockSet builds an empty BlockSet over n rows.
func NewBlockSet(
	n int,
	ds DataSource,
	sched *Scheduler,
	idx *RowHeightIndex,
	surface HostSurface,
	onSize func([]RowSizeChange),
	onError func(error),
) *BlockSet {
	return &BlockSet{
		n:                  n,
		ds:                 ds,
		sched:              sched,
		idx:                idx,
		surface:            surface,
		onSize:             onSize,
		onError:            onError,
		preferredBlockSize: defaultPreferredBlockSize,
		nowFunc:            time.Now,
		randFloat:          rand.Float64,
	}
}

// WithPreferredBlockSize overrides the initial block size, clamped below by
// minBlockSize.
func (bs *BlockSet) WithPreferredBlockSize(n int) *BlockSet {
	if n < minBlockSize {
		n = minBlockSize
	}
	bs.preferredBlockSize = n
	return bs
}

// Blocks returns the live blocks, ordered and contiguous.
func (bs *BlockSet) Blocks() []*Block { return bs.blocks }

// PreferredBlockSize returns the current adaptive block size.
func (bs *BlockSet) PreferredBlockSize() int { return bs.preferredBlockSize }

// LeaveRange returns the range outside which blocks may be reclaimed.
func (bs *BlockSet) LeaveRange() Range { return bs.leaveRange }

// CoveredRange returns the row range the live blocks span, or an empty
// range at 0 if there are no live blocks.
func (bs *BlockSet) CoveredRange() Range {
	if len(bs.blocks) == 0 {
		return Range{}
	}
	return IndexRange(bs.blocks[0].Range().IndexTop(), bs.blocks[len(bs.blocks)-1].Range().IndexBot())
}

// SetTarget records the row range the set must cover and the focal row
// preparation proceeds outward from, widens it by a third on each side to
// form the leave range, and schedules ensureCovers under a write task.
// Two consecutive calls with an identical range and focus are a no-op:
// no block is created or freed.
func (bs *BlockSet) SetTarget(r Range, focus int) {
	if bs.hasTarget && r.Equals(bs.targetRange) && focus == bs.targetRow {
		return
	}
	bs.hasTarget = true
	bs.targetRange = r
	bs.targetRow = focus

	expand := r.Height() / 3
	bs.leaveRange = r.Expand(expand).ClampTo(IndexRange(0, bs.n))

	bs.sched.ScheduleWrite(bs, func(_ SchedulerEvent, err error) {
		if IsCancelled(err) {
			return
		}
		bs.ensureCovers()
	})
}

// ensureCovers frees blocks that have fallen fully outside leaveRange, then
// grows the set at either end until targetRange is covered, bounded by
// ensureCoversMaxIterations as a runaway safeguard.
func (bs *BlockSet) ensureCovers() {
	bs.freeOutsideLeaveRange()

	if len(bs.blocks) == 0 {
		bs.seedAroundTarget()
	}

	for i := 0; i < ensureCoversMaxIterations && !bs.covers(bs.targetRange); i++ {
		if len(bs.blocks) == 0 {
			break
		}
		front := bs.blocks[0]
		back := bs.blocks[len(bs.blocks)-1]

		switch {
		case float64(front.Range().IndexTop()) > bs.targetRange.Top:
			if !bs.prepend(front.Range().IndexTop()) {
				return
			}
		case float64(back.Range().IndexBot()) < bs.targetRange.Bot:
			if !bs.appendBlock(back.Range().IndexBot()) {
				return
			}
		default:
			return
		}
	}
}

func (bs *BlockSet) covers(r Range) bool {
	if len(bs.blocks) == 0 {
		return r.Empty()
	}
	covered := bs.CoveredRange()
	return covered.Contains(r)
}

// freeOutsideLeaveRange frees from the front while the frontmost block's
// range lies fully at or above leaveRange.Top, and symmetrically from the
// back, without ever exposing a partially-freed slice to other code.
func (bs *BlockSet) freeOutsideLeaveRange() {
	blocks := bs.blocks
	start := 0
	for start < len(blocks) && float64(blocks[start].Range().IndexBot()) <= bs.leaveRange.Top {
		start++
	}
	end := len(blocks)
	for end > start && float64(blocks[end-1].Range().IndexTop()) >= bs.leaveRange.Bot {
		end--
	}
	if start == 0 && end == len(blocks) {
		return
	}
	for _, b := range blocks[:start] {
		b.Free()
	}
	for _, b := range blocks[end:] {
		b.Free()
	}
	kept := make([]*Block, end-start)
	copy(kept, blocks[start:end])
	bs.blocks = kept
}

func (bs *BlockSet) seedAroundTarget() {
	half := bs.preferredBlockSize / 2
	top := bs.targetRow - half
	bot := top + bs.preferredBlockSize
	rng := IndexRange(top, bot).ClampTo(IndexRange(0, bs.n))
	if rng.Empty() {
		return
	}
	bs.blocks = append(bs.blocks, bs.newBlockAt(rng))
}

func (bs *BlockSet) prepend(beforeRow int) bool {
	bot := beforeRow
	top := bot - bs.preferredBlockSize
	rng := IndexRange(top, bot).ClampTo(IndexRange(0, bs.n))
	if rng.Empty() {
		return false
	}
	bs.blocks = append([]*Block{bs.newBlockAt(rng)}, bs.blocks...)
	return true
}

func (bs *BlockSet) appendBlock(afterRow int) bool {
	top := afterRow
	bot := top + bs.preferredBlockSize
	rng := IndexRange(top, bot).ClampTo(IndexRange(0, bs.n))
	if rng.Empty() {
		return false
	}
	bs.blocks = append(bs.blocks, bs.newBlockAt(rng))
	return true
}

func (bs *BlockSet) newBlockAt(rng Range) *Block {
	return newBlock(rng, bs.ds, bs.sched, bs.idx, bs.surface, bs.onSize, bs.onError)
}

// blockIndexContaining returns the index of the live block whose range
// contains row, or -1 if none does.
func (bs *BlockSet) blockIndexContaining(row int) int {
	for i, b := range bs.blocks {
		if b.Range().ContainsNum(float64(row)) {
			return i
		}
	}
	return -1
}

// DoWork is called once per frame tick with the scheduler's event. It
// returns immediately if the focal row isn't covered by any live block
// yet, otherwise applies a probabilistic skip driven by the load factor,
// and if not skipped, prepares the nearest-to-focus unprepared block and
// throttles a render request for the whole set.
func (bs *BlockSet) DoWork(evt SchedulerEvent) {
	center := bs.blockIndexContaining(bs.targetRow)
	if center < 0 {
		return
	}
	if bs.randFloat() <= evt.LoadFactor {
		return
	}
	target := bs.nextUnprepared(center)
	if target == nil {
		return
	}
	dur := target.Prepare()
	bs.recordPrepareDuration(dur, target.Range())
	bs.requestRenderThrottled()
}

// nextUnprepared walks outward from center (center, center-1, center+1, ...)
// and returns the first block whose real elements haven't been built yet.
func (bs *BlockSet) nextUnprepared(center int) *Block {
	n := len(bs.blocks)
	if n == 0 {
		return nil
	}
	if !bs.blocks[center].Prepared() {
		return bs.blocks[center]
	}
	for r := 1; r < n; r++ {
		if lo := center - r; lo >= 0 && !bs.blocks[lo].Prepared() {
			return bs.blocks[lo]
		}
		if hi := center + r; hi < n && !bs.blocks[hi].Prepared() {
			return bs.blocks[hi]
		}
	}
	return nil
}

// recordPrepareDuration feeds one Prepare duration into the adaptive
// sizing control loop. Durations from a block whose row count no longer
// matches the current preferredBlockSize are stale measurements and
// discarded so they cannot distort the loop.
func (bs *BlockSet) recordPrepareDuration(dur time.Duration, rng Range) {
	rows := rng.IndexBot() - rng.IndexTop()
	if rows != bs.preferredBlockSize {
		return
	}
	bs.prepareHistory = append(bs.prepareHistory, dur)
	if len(bs.prepareHistory) > prepareHistoryLen {
		bs.prepareHistory = bs.prepareHistory[len(bs.prepareHistory)-prepareHistoryLen:]
	}
	if len(bs.prepareHistory) < prepareHistoryLen {
		return
	}
	over := 0
	for _, d := range bs.prepareHistory {
		if d > preferredBlockTime {
			over++
		}
	}
	if over >= 4 {
		shrink := int(math.Ceil(0.2 * float64(bs.preferredBlockSize)))
		next := bs.preferredBlockSize - shrink
		if next < minBlockSize {
			next = minBlockSize
		}
		bs.preferredBlockSize = next
		bs.prepareHistory = bs.prepareHistory[:0]
	}
}

func (bs *BlockSet) requestRenderThrottled() {
	now := bs.nowFunc()
	if !bs.lastRenderAt.IsZero() && now.Sub(bs.lastRenderAt) < renderThrottleInterval {
		return
	}
	bs.lastRenderAt = now
	bs.Render()
}

// Render calls Render on every live block.
func (bs *BlockSet) Render() {
	for _, b := range bs.blocks {
		b.Render()
	}
}

// UpdateRowSize repositions every live block after a height change has
// shifted the rows below it.
func (bs *BlockSet) UpdateRowSize(_ []RowSizeChange) {
	for _, b := range bs.blocks {
		b.UpdatePos()
	}
}
