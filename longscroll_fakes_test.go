package longscroll

// Fakes shared by block_test.go, blockset_test.go, and longscroll_test.go.
// They implement Element, DataSource, BlockHost, and HostSurface with just
// enough behavior to exercise the real scheduling and measurement paths.

type fakeElement struct {
	height float64
}

func (e *fakeElement) SetHeight(px float64) { e.height = px }
func (e *fakeElement) Height() float64      { return e.height }

type fakeDataSource struct {
	n             int
	realHeights   map[int]float64 // overrides the 30px default for MakeDom
	madeReal      []int
	madeDummy     []int
	freedReal     []int
	freedDummy    []int
}

func newFakeDataSource(n int) *fakeDataSource {
	return &fakeDataSource{n: n, realHeights: map[int]float64{}}
}

func (ds *fakeDataSource) Length() int { return ds.n }

func (ds *fakeDataSource) MakeDom(i int) Element {
	ds.madeReal = append(ds.madeReal, i)
	h := 30.0
	if v, ok := ds.realHeights[i]; ok {
		h = v
	}
	return &fakeElement{height: h}
}

func (ds *fakeDataSource) MakeDummyDom(i int) Element {
	ds.madeDummy = append(ds.madeDummy, i)
	return &fakeElement{}
}

func (ds *fakeDataSource) FreeDom(i int, _ Element)      { ds.freedReal = append(ds.freedReal, i) }
func (ds *fakeDataSource) FreeDummyDom(i int, _ Element) { ds.freedDummy = append(ds.freedDummy, i) }

type fakeBlockHost struct {
	translateY float64
	attached   []Element
	appended   bool
	disposed   bool
}

func (h *fakeBlockHost) SetTranslateY(px float64)   { h.translateY = px }
func (h *fakeBlockHost) AppendToPane()              { h.appended = true }
func (h *fakeBlockHost) Attach(fragment []Element)  { h.attached = fragment }
func (h *fakeBlockHost) Dispose()                   { h.disposed = true }

type fakeHostSurface struct {
	scrollTop    float64
	clientHeight float64
	paneHeight   float64
	hosts        []*fakeBlockHost
}

func newFakeHostSurface(clientHeight float64) *fakeHostSurface {
	return &fakeHostSurface{clientHeight: clientHeight}
}

func (s *fakeHostSurface) ScrollTop() float64     { return s.scrollTop }
func (s *fakeHostSurface) ClientHeight() float64  { return s.clientHeight }
func (s *fakeHostSurface) SetPaneHeight(px float64) { s.paneHeight = px }

func (s *fakeHostSurface) NewBlockHost() BlockHost {
	h := &fakeBlockHost{}
	s.hosts = append(s.hosts, h)
	return h
}

// drainUntilIdle runs Drain repeatedly until owner has no more pending
// tasks (or a generous iteration cap is hit), to flush a multi-phase
// idle-write -> read -> write continuation chain across several frames.
func drainUntilIdle(sched *Scheduler, owner Owner, maxDrains int) {
	for i := 0; i < maxDrains && sched.Pending(owner) > 0; i++ {
		sched.Drain(0, 0)
	}
}
