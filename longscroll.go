package longscroll

import "fmt"

// LongScroll is the coordinator: it wires scroll events, the viewport, the
// look-ahead buffer region, and row height updates together, owning a
// RowHeightIndex, a Scheduler, a FrameTimer, a VelocityTracker, and a
// BlockSet. It is the only public entry point a host program needs.
//
// Like every other piece of this package, LongScroll is single-threaded
// and cooperative: OnScroll, OnResize, OnDataChange, and Tick must all be
// called from the same goroutine.
type LongScroll struct {
	ds         DataSource
	sched      *Scheduler
	frameTimer *FrameTimer
	velocity   *VelocityTracker
	idx        *RowHeightIndex
	blockSet   *BlockSet
	surface    HostSurface

	n                  int
	initialized        bool
	viewport           Range
	viewportValid      bool
	paneHeight         float64
	defaultRowHeight   float64
	preferredBlockSize int
	onError            func(error)
}

// NewLongScroll builds a LongScroll over the given data source. Call
// MakeDom before using any geometry accessor or feeding scroll events.
func NewLongScroll(ds DataSource) *LongScroll {
	return &LongScroll{
		ds:               ds,
		sched:            NewScheduler(),
		frameTimer:       NewFrameTimer(),
		velocity:         NewVelocityTracker(),
		defaultRowHeight: DefaultRowHeightPx,
	}
}

// WithDefaultRowHeight overrides the height new rows start at before any
// real measurement arrives.
func (ls *LongScroll) WithDefaultRowHeight(px float64) *LongScroll {
	ls.defaultRowHeight = px
	return ls
}

// WithPreferredBlockSize overrides BlockSet's initial adaptive block size.
func (ls *LongScroll) WithPreferredBlockSize(rows int) *LongScroll {
	ls.preferredBlockSize = rows
	return ls
}

// WithErrorHandler installs a callback for non-cancellation errors: these
// denote bugs and must reach the host. The frame loop itself keeps running
// regardless of what the handler does.
func (ls *LongScroll) WithErrorHandler(fn func(error)) *LongScroll {
	ls.onError = fn
	return ls
}

// Scheduler exposes the coordinator's Scheduler, mostly for tests and for
// hosts that want to drive Drain directly instead of through Tick.
func (ls *LongScroll) Scheduler() *Scheduler { return ls.sched }

// FrameTimer exposes the coordinator's FrameTimer.
func (ls *LongScroll) FrameTimer() *FrameTimer { return ls.frameTimer }

// BlockSet exposes the coordinator's BlockSet, mostly for tests.
func (ls *LongScroll) BlockSet() *BlockSet { return ls.blockSet }

// MakeDom attaches the coordinator to a host surface and performs the
// initial reinit.
func (ls *LongScroll) MakeDom(surface HostSurface) *LongScroll {
	ls.surface = surface
	ls.Reinit()
	return ls
}

// Reinit rebuilds the RowHeightIndex over the data source's current
// length, freeing any previously live blocks, sets the pane height to the
// new total, invalidates the cached viewport, and fires OnScroll once to
// trigger initial buffering.
func (ls *LongScroll) Reinit() {
	if ls.blockSet != nil {
		for _, b := range ls.blockSet.Blocks() {
			b.Free()
		}
	}

	ls.n = ls.ds.Length()
	ls.idx = NewRowHeightIndex(ls.n, ls.defaultRowHeight)
	ls.blockSet = NewBlockSet(ls.n, ls.ds, ls.sched, ls.idx, ls.surface, ls.updateRowSize, ls.reportError)
	if ls.preferredBlockSize > 0 {
		ls.blockSet.WithPreferredBlockSize(ls.preferredBlockSize)
	}

	ls.initialized = true
	ls.viewportValid = false
	ls.paneHeight = ls.idx.Total()
	if ls.surface != nil {
		paneHeight := ls.paneHeight
		ls.sched.ScheduleWrite(ls, func(_ SchedulerEvent, err error) {
			if IsCancelled(err) {
				return
			}
			ls.surface.SetPaneHeight(paneHeight)
		})
	}

	ls.OnScroll()
}

// OnResize triggers a full reinit. Resize is handled as a full rebuild
// rather than an incremental repair; that is a deliberate, documented
// limitation, not an oversight.
func (ls *LongScroll) OnResize() {
	ls.Reinit()
}

// OnDataChange triggers a full reinit, for the same reason as OnResize.
func (ls *LongScroll) OnDataChange() {
	ls.Reinit()
}

// OnScroll requests a viewport recomputation. It is a no-op until MakeDom
// has been called.
func (ls *LongScroll) OnScroll() {
	if !ls.initialized {
		return
	}
	ls.scheduleUpdateViewport()
}

// scheduleUpdateViewport schedules the read-phase task that recomputes the
// viewport, feeds the velocity tracker, derives the buffer region, and
// retargets the block set.
func (ls *LongScroll) scheduleUpdateViewport() {
	ls.sched.ScheduleRead(ls, func(_ SchedulerEvent, err error) {
		if IsCancelled(err) {
			return
		}
		defer func() {
			if r := recover(); r != nil {
				ls.reportError(fmt.Errorf("%w: panic in updateViewport: %v", ErrInvariantViolation, r))
			}
		}()

		top := ls.surface.ScrollTop()
		height := ls.surface.ClientHeight()
		vp, err := NewRange(top, top+height)
		if err != nil {
			ls.reportError(err)
			return
		}
		ls.viewport = vp
		ls.viewportValid = true

		ls.velocity.OnScroll(top)
		v := ls.velocity.GetVelocity()
		buf := computeBufferRegion(vp, v)

		rowTop := ls.idx.ClampedIndexAt(buf.Top)
		rowBot := ls.idx.ClampedIndexAt(buf.Bot)
		if rowBot < rowTop {
			rowTop, rowBot = rowBot, rowTop
		}
		targetRow := (rowTop + rowBot) / 2
		targetRange := IndexRange(rowTop, rowBot+1).ClampTo(IndexRange(0, ls.n))

		ls.blockSet.SetTarget(targetRange, targetRow)
		ls.blockSet.Render()
	})
}

// updateRowSize applies measured-height changes to the RowHeightIndex,
// repositions every live block, and re-runs updateViewport. Resizing the
// scroll pane itself to RowHeightIndex.Total() is deliberately deferred —
// the pane is sized once at Reinit and not again, which lets the
// scrollbar's range drift as rows grow. This is carried forward as a
// documented seam, not fixed, so a future change has a single place to
// flip.
func (ls *LongScroll) updateRowSize(changes []RowSizeChange) {
	for _, c := range changes {
		ls.idx.Set(c.Index, c.NewSize)
	}
	ls.blockSet.UpdateRowSize(changes)
	ls.resizePaneDeferred()
	ls.scheduleUpdateViewport()
}

// resizePaneDeferred is intentionally a no-op; see updateRowSize's doc
// comment.
func (ls *LongScroll) resizePaneDeferred() {}

// Tick runs one frame's worth of work: it schedules an idle-write
// continuation that calls BlockSet.DoWork with the event this Drain call
// produces, then drains the scheduler.
func (ls *LongScroll) Tick() {
	defer func() {
		if r := recover(); r != nil {
			ls.reportError(fmt.Errorf("%w: panic in Tick: %v", ErrInvariantViolation, r))
		}
	}()

	lastFrame := ls.frameTimer.Last()
	avgFrame := ls.frameTimer.Average()

	ls.sched.ScheduleIdleWrite(ls, func(evt SchedulerEvent, err error) {
		if IsCancelled(err) {
			return
		}
		ls.blockSet.DoWork(evt)
	})
	ls.sched.Drain(lastFrame, avgFrame)
}

// StartFrameLoop starts FrameTimer ticking Tick once per frame. Hosts that
// already drive a frame loop of their own (e.g. a bubbletea tea.Tick
// command) should call Tick directly instead and leave this unused.
func (ls *LongScroll) StartFrameLoop() {
	ls.frameTimer.Start(ls.Tick)
}

// StopFrameLoop stops the internal FrameTimer, if it was started.
func (ls *LongScroll) StopFrameLoop() {
	ls.frameTimer.Stop()
}

func (ls *LongScroll) reportError(err error) {
	if err == nil {
		return
	}
	if IsCancelled(err) {
		log().Info("longscroll: task cancelled", "error", err)
		return
	}
	if ls.onError != nil {
		ls.onError(err)
		return
	}
	log().Error("longscroll: error", "error", err)
}

func (ls *LongScroll) requireInit() error {
	if !ls.initialized {
		return ErrInitRequired
	}
	return nil
}

// Viewport returns the cached, read-phase-memoized viewport.
func (ls *LongScroll) Viewport() (Range, error) {
	if err := ls.requireInit(); err != nil {
		return Range{}, err
	}
	return ls.viewport, nil
}

// GetPaneHeight returns the scroll pane's declared pixel height.
func (ls *LongScroll) GetPaneHeight() (float64, error) {
	if err := ls.requireInit(); err != nil {
		return 0, err
	}
	return ls.paneHeight, nil
}

// GetRowHeight returns row i's current pixel height.
func (ls *LongScroll) GetRowHeight(i int) (float64, error) {
	if err := ls.requireInit(); err != nil {
		return 0, err
	}
	return ls.idx.Get(i), nil
}

// GetRowTop returns row i's pixel offset from the top of the pane.
func (ls *LongScroll) GetRowTop(i int) (float64, error) {
	if err := ls.requireInit(); err != nil {
		return 0, err
	}
	return ls.idx.PrefixSum(i), nil
}

// GetRowAtPx returns the row at pixel offset px, erroring if px falls
// outside [0, RowHeightIndex.Total()].
func (ls *LongScroll) GetRowAtPx(px float64) (int, error) {
	if err := ls.requireInit(); err != nil {
		return 0, err
	}
	return ls.idx.IndexAtChecked(px)
}

// GetClampedRowAtPx returns the row at pixel offset px, saturating to
// [0, N-1] instead of erroring out of bounds.
func (ls *LongScroll) GetClampedRowAtPx(px float64) (int, error) {
	if err := ls.requireInit(); err != nil {
		return 0, err
	}
	return ls.idx.ClampedIndexAt(px), nil
}
