package longscroll

// Element is one row's rendered unit, real or placeholder, as produced by
// a DataSource. SetHeight applies an expected height (a placeholder's
// styling rule); Height reads back the laid-out height. SetHeight is called
// synchronously when a Block builds its placeholders and otherwise only from
// a write-phase task; Height is called only from a read-phase task.
type Element interface {
	// SetHeight applies an expected height, the way a placeholder's CSS
	// height rule is set from the current RowHeightIndex value.
	SetHeight(px float64)
	// Height returns the element's laid-out height. Calling this outside a
	// read-phase task violates the pipeline's layout discipline.
	Height() float64
}

// DataSource is the external collaborator providing real and placeholder
// row elements for a given index. Its element methods are consumed by
// Block only; LongScroll reads just Length.
type DataSource interface {
	// Length returns the number of rows, constant between Reinit calls.
	Length() int
	// MakeDom builds the real element for row i. May be expensive; its
	// cost is what drives BlockSet's adaptive block sizing.
	MakeDom(i int) Element
	// MakeDummyDom builds a cheap placeholder element for row i. Must be
	// cheap: it runs synchronously during Block construction.
	MakeDummyDom(i int) Element
	// FreeDom returns a real element the core no longer needs. The data
	// source may pool it.
	FreeDom(i int, el Element)
	// FreeDummyDom returns a placeholder element the core no longer needs.
	FreeDummyDom(i int, el Element)
}

// BlockHost is one Block's absolutely-positioned host element: a single
// subtree translated on the Y axis to its row range's pixel offset, whose
// children are swapped wholesale between placeholder and real elements.
// Positioning via translate, rather than re-flowing the pane, is what
// lets BlockSet reposition blocks without invalidating sibling layout.
type BlockHost interface {
	// SetTranslateY moves the host element to the given pane-relative Y
	// offset. Cheap local state; safe to call synchronously at
	// construction, and again from a write-phase task thereafter.
	SetTranslateY(px float64)
	// AppendToPane inserts this still-detached host element into the
	// live pane. Write-phase only: this is the layout-forcing half of
	// construction, deferred behind a scheduled write task.
	AppendToPane()
	// Attach replaces the host element's children with fragment,
	// discarding whatever was attached before. Write- or idle-write-phase
	// only.
	Attach(fragment []Element)
	// Dispose removes the host element from the pane (if attached) and
	// releases any surface-level resources it held. Write-phase only.
	Dispose()
}

// HostSurface is the external collaborator: a container element with a
// scrollable inner pane. The core only reads geometry from it and
// appends/removes block host elements; it never reaches into the pane's
// contents directly.
type HostSurface interface {
	// ScrollTop returns the pane's current scroll offset in pixels.
	// Read-phase only.
	ScrollTop() float64
	// ClientHeight returns the viewport's visible height in pixels.
	// Read-phase only.
	ClientHeight() float64
	// SetPaneHeight sets the scrollable inner pane's total declared
	// height. Write-phase only.
	SetPaneHeight(px float64)
	// NewBlockHost synchronously constructs one detached, absolutely
	// positioned block host element. It is not yet part of the pane;
	// callers must schedule a write task that calls its AppendToPane.
	NewBlockHost() BlockHost
}
