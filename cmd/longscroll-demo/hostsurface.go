package main

import "github.com/gristlabs/long-scroll"

// termBlockHost is the BlockHost implementation for the terminal demo: a
// block's host element is just its current line-slice and Y offset: View
// walks the live blocks in translateY order and prints whichever lines fall
// inside the viewport.
type termBlockHost struct {
	translateY float64
	lines      []string
	appended   bool
	disposed   bool
}

func (h *termBlockHost) SetTranslateY(px float64) { h.translateY = px }
func (h *termBlockHost) AppendToPane()            { h.appended = true }

func (h *termBlockHost) Attach(fragment []longscroll.Element) {
	lines := make([]string, 0, len(fragment))
	for _, el := range fragment {
		te, ok := el.(*termElement)
		if !ok {
			continue
		}
		lines = append(lines, te.text)
	}
	h.lines = lines
}

func (h *termBlockHost) Dispose() {
	h.appended = false
	h.disposed = true
	h.lines = nil
}

// termSurface is the HostSurface implementation: the terminal viewport
// itself, addressed in line-offset ("pixel") space.
type termSurface struct {
	scrollTop    float64
	clientHeight float64
	paneHeight   float64
	hosts        []*termBlockHost
}

func (s *termSurface) ScrollTop() float64        { return s.scrollTop }
func (s *termSurface) ClientHeight() float64     { return s.clientHeight }
func (s *termSurface) SetPaneHeight(px float64)  { s.paneHeight = px }

func (s *termSurface) NewBlockHost() longscroll.BlockHost {
	h := &termBlockHost{}
	s.hosts = append(s.hosts, h)
	return h
}

// clampScroll keeps scrollTop within [0, paneHeight-clientHeight], the same
// saturating behavior a browser's scrollable element gives for free.
func (s *termSurface) clampScroll(px float64) float64 {
	max := s.paneHeight - s.clientHeight
	if max < 0 {
		max = 0
	}
	if px < 0 {
		return 0
	}
	if px > max {
		return max
	}
	return px
}
