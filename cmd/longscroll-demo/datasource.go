package main

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gristlabs/long-scroll"
)

// termElement is the Element implementation for the terminal demo host: a
// pre-wrapped block of text and the line count it occupies. One "pixel" in
// this host is one terminal line.
type termElement struct {
	text   string
	height float64
}

func (e *termElement) SetHeight(px float64) { e.height = px }
func (e *termElement) Height() float64      { return e.height }

// rowDataSource generates the demo's junk rows lazily and word-wraps each
// one to the host's current content width, sized for a virtualized,
// variable-height row instead of a fixed-height one.
type rowDataSource struct {
	n     int
	width int
}

const junkText = "the quick brown fox jumps over the lazy dog and keeps going for quite a while so that some rows wrap across several terminal lines while most stay short"

func newRowDataSource(n, width int) *rowDataSource {
	return &rowDataSource{n: n, width: width}
}

func (ds *rowDataSource) Length() int { return ds.n }

func (ds *rowDataSource) rowText(i int) string {
	r := rand.New(rand.NewSource(int64(i)))
	end := 10 + r.Intn(len(junkText)-10)
	return fmt.Sprintf("row %6d | %s", i, junkText[:end])
}

func (ds *rowDataSource) MakeDom(i int) longscroll.Element {
	wrapped := lipgloss.NewStyle().Width(ds.width).Render(ds.rowText(i))
	lines := strings.Count(wrapped, "\n") + 1
	return &termElement{text: wrapped, height: float64(lines)}
}

func (ds *rowDataSource) MakeDummyDom(i int) longscroll.Element {
	return &termElement{text: strings.Repeat(" ", ds.width)}
}

func (ds *rowDataSource) FreeDom(i int, el longscroll.Element)      {}
func (ds *rowDataSource) FreeDummyDom(i int, el longscroll.Element) {}
