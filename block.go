package longscroll

import (
	"fmt"
	"time"
)

// RowSizeChange describes one row whose measured height differed from the
// value RowHeightIndex held for it. Block.Render collects these during its
// read phase and delivers them to LongScroll.updateRowSize.
type RowSizeChange struct {
	Index   int
	NewSize float64
}

// Block owns the host element for one contiguous, immutable row range: a
// placeholder fragment that exists from the instant the block is created,
// and an optional real fragment populated by Prepare. Render swaps between
// them and re-measures; Free tears the whole thing down.
type Block struct {
	rng     Range
	ds      DataSource
	sched   *Scheduler
	idx     *RowHeightIndex
	host    BlockHost
	onSize  func([]RowSizeChange)
	onError func(error)

	placeholders []Element
	real         []Element
	dirty        bool
	prepared     bool
	freed        bool
}

// newBlock constructs a Block over rng, builds its placeholder fragment
// synchronously, and schedules the write task that attaches the (still
// detached) host element to the pane. rng must already be clamped to
// [0, N) by the caller (BlockSet); newBlock does not clamp.
func newBlock(
	rng Range,
	ds DataSource,
	sched *Scheduler,
	idx *RowHeightIndex,
	surface HostSurface,
	onSize func([]RowSizeChange),
	onError func(error),
) *Block {
	b := &Block{
		rng:     rng,
		ds:      ds,
		sched:   sched,
		idx:     idx,
		onSize:  onSize,
		onError: onError,
	}

	b.host = surface.NewBlockHost()
	b.host.SetTranslateY(idx.PrefixSum(rng.IndexTop()))
	sched.ScheduleWrite(b, func(_ SchedulerEvent, err error) {
		if IsCancelled(err) {
			return
		}
		b.host.AppendToPane()
	})

	top, bot := rng.IndexTop(), rng.IndexBot()
	b.placeholders = make([]Element, 0, bot-top)
	for i := top; i < bot; i++ {
		el := ds.MakeDummyDom(i)
		el.SetHeight(idx.Get(i))
		b.placeholders = append(b.placeholders, el)
	}
	b.dirty = true
	return b
}

// Range returns the block's row range. It never changes after construction.
func (b *Block) Range() Range { return b.rng }

// Host returns the block's host element, so a HostSurface implementation
// can read back its own concrete type (e.g. to walk attached content for
// painting) without the core needing any knowledge of what that type is.
func (b *Block) Host() BlockHost { return b.host }

// Prepared reports whether real elements have been built.
func (b *Block) Prepared() bool { return b.prepared }

// Dirty reports whether Render still needs to attach elements to the host.
func (b *Block) Dirty() bool { return b.dirty }

// Prepare builds the real elements via the data source. This call is
// permitted to be slow — its duration is what drives BlockSet's adaptive
// block sizing — and must not be invoked concurrently with anything else
// touching b: the render pipeline is single-threaded and cooperative.
func (b *Block) Prepare() time.Duration {
	start := time.Now()
	top, bot := b.rng.IndexTop(), b.rng.IndexBot()
	real := make([]Element, 0, bot-top)
	for i := top; i < bot; i++ {
		real = append(real, b.ds.MakeDom(i))
	}
	b.real = real
	b.dirty = true
	b.prepared = true
	return time.Since(start)
}

// Render attaches the current fragment (placeholder if not yet prepared,
// real otherwise) to the host element and re-measures, following an
// idle-write-then-read-then-write chain: attach and reposition while idle,
// read back the laid-out heights, then write any resulting placeholder
// resizes. It is a no-op if the block is not dirty.
func (b *Block) Render() {
	if !b.dirty {
		return
	}
	// Cache up front: prepared may flip concurrently with other blocks'
	// frames, but not with ours mid-render under the cooperative model.
	isPlaceholderRender := !b.prepared
	fragment := b.placeholders
	if !isPlaceholderRender {
		fragment = b.real
	}
	b.dirty = false

	b.sched.ScheduleIdleWrite(b, func(_ SchedulerEvent, err error) {
		if IsCancelled(err) {
			return
		}
		b.host.Attach(fragment)
		b.host.SetTranslateY(b.idx.PrefixSum(b.rng.IndexTop()))

		b.sched.ScheduleRead(b, func(_ SchedulerEvent, err error) {
			if IsCancelled(err) {
				return
			}
			if !isPlaceholderRender && len(fragment) > 0 && fragment[0].Height() == 0 {
				b.reportInvariant(fmt.Errorf(
					"%w: block %s: first real row measured height 0", ErrInvariantViolation, b.rng))
				return
			}
			changes := b.measure(fragment, isPlaceholderRender)
			if len(changes) == 0 {
				return
			}
			b.sched.ScheduleWrite(b, func(_ SchedulerEvent, err error) {
				if IsCancelled(err) {
					return
				}
				b.applyPlaceholderResizes(changes)
				if b.onSize != nil {
					b.onSize(changes)
				}
			})
		})
	})
}

// measure reads the laid-out height of every element in fragment and
// reports the rows whose height differs from what RowHeightIndex holds.
// Placeholder renders are never measured: their height was just set FROM
// the index, not observed from layout.
func (b *Block) measure(fragment []Element, isPlaceholderRender bool) []RowSizeChange {
	if isPlaceholderRender {
		return nil
	}
	top := b.rng.IndexTop()
	var changes []RowSizeChange
	for i, el := range fragment {
		h := el.Height()
		row := top + i
		if h != b.idx.Get(row) {
			changes = append(changes, RowSizeChange{Index: row, NewSize: h})
		}
	}
	return changes
}

func (b *Block) applyPlaceholderResizes(changes []RowSizeChange) {
	top := b.rng.IndexTop()
	for _, c := range changes {
		i := c.Index - top
		if i >= 0 && i < len(b.placeholders) {
			b.placeholders[i].SetHeight(c.NewSize)
		}
	}
}

func (b *Block) reportInvariant(err error) {
	if b.onError != nil {
		b.onError(err)
		return
	}
	log().Error("longscroll: invariant violation", "error", err)
}

// UpdatePos re-translates the host element to the row range's current
// pixel offset, used after a height update shifts every block below the
// changed row.
func (b *Block) UpdatePos() {
	if b.freed {
		return
	}
	b.host.SetTranslateY(b.idx.PrefixSum(b.rng.IndexTop()))
}

// Free surrenders every element back to the data source, cancels every
// scheduler task this block owns, and disposes the host element.
// Cancellation happens before any element is released so that no
// in-flight render continuation can ever observe the freed state.
func (b *Block) Free() {
	if b.freed {
		return
	}
	b.freed = true
	b.sched.CancelJobs(b)

	top := b.rng.IndexTop()
	for i, el := range b.real {
		b.ds.FreeDom(top+i, el)
	}
	for i, el := range b.placeholders {
		b.ds.FreeDummyDom(top+i, el)
	}
	b.real = nil
	b.placeholders = nil

	b.host.Dispose()
}
