// Package longscroll implements the render pipeline of a virtualized
// long-list: a row-height index for translating between row and pixel
// coordinate systems, a block set that materializes only the rows near
// the viewport, a frame-phase scheduler that separates layout reads from
// writes, and a velocity-aware look-ahead buffer that sizes itself to
// scroll speed.
//
// The package is host-agnostic. It never touches a concrete rendering
// surface directly; callers supply a DataSource (real and placeholder row
// elements) and a HostSurface (scroll geometry), and longscroll coordinates
// them without ever interleaving layout reads and DOM-like writes within a
// frame.
package longscroll
