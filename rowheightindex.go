package longscroll

import (
	"fmt"
	"math/bits"
)

// DefaultRowHeightPx is the per-instance constant height new rows start
// with before any real measurement arrives.
const DefaultRowHeightPx = 30.0

// RowHeightIndex maps a row index in [0, N) to its pixel height and
// supports the two operations the render pipeline is built on: a forward
// prefix sum (row -> pixel offset) and its inverse (pixel offset -> row),
// both in O(log N). It is implemented as a Fenwick tree (binary indexed
// tree) of per-row heights, the standard structure for point-update/
// prefix-sum workloads.
//
// IndexAt's binary-lifting walk is exact only when every row height is
// non-negative; a zero-height row is permitted but collapses that row's
// pixel span to nothing, so distinct row indices can map to the same
// prefix sum and IndexAt(PrefixSum(i)) is then only guaranteed to return
// some row sharing that offset, not necessarily i itself.
type RowHeightIndex struct {
	n       int
	heights []float64 // heights[i], 0-indexed, kept for Set's old-value delta
	tree    []float64 // Fenwick tree, 1-indexed, tree[0] unused
	total   float64
	highPow int // exponent of the highest power of two <= n, for the prefix-find walk
}

// NewRowHeightIndex builds an index over n rows, each starting at
// defaultHeight pixels.
func NewRowHeightIndex(n int, defaultHeight float64) *RowHeightIndex {
	if n < 0 {
		n = 0
	}
	idx := &RowHeightIndex{
		n:       n,
		heights: make([]float64, n),
		tree:    make([]float64, n+1),
	}
	for i := range idx.heights {
		idx.heights[i] = defaultHeight
	}
	idx.rebuild()
	return idx
}

func (idx *RowHeightIndex) rebuild() {
	for i := 1; i <= idx.n; i++ {
		idx.tree[i] = 0
	}
	for i := 0; i < idx.n; i++ {
		idx.add(i, idx.heights[i])
	}
	idx.total = 0
	for _, h := range idx.heights {
		idx.total += h
	}
	idx.highPow = 0
	if idx.n > 0 {
		idx.highPow = bits.Len(uint(idx.n)) - 1
	}
}

// add applies +delta to the Fenwick tree at 0-indexed position i.
func (idx *RowHeightIndex) add(i int, delta float64) {
	for p := i + 1; p <= idx.n; p += p & (-p) {
		idx.tree[p] += delta
	}
}

// N returns the number of rows the index covers.
func (idx *RowHeightIndex) N() int { return idx.n }

// Total returns the sum of all row heights, i.e. the scroll pane's pixel
// height when committed.
func (idx *RowHeightIndex) Total() float64 { return idx.total }

// PrefixSum returns the sum of heights over rows [0, i). i may range over
// [0, N]; PrefixSum(0) is 0 and PrefixSum(N) equals Total().
func (idx *RowHeightIndex) PrefixSum(i int) float64 {
	if i <= 0 {
		return 0
	}
	if i > idx.n {
		i = idx.n
	}
	var sum float64
	for p := i; p > 0; p -= p & (-p) {
		sum += idx.tree[p]
	}
	return sum
}

// SumRange returns the sum of heights over rows [a, b).
func (idx *RowHeightIndex) SumRange(a, b int) float64 {
	if a >= b {
		return 0
	}
	return idx.PrefixSum(b) - idx.PrefixSum(a)
}

// Get returns the height of row i.
func (idx *RowHeightIndex) Get(i int) float64 {
	if i < 0 || i >= idx.n {
		return 0
	}
	return idx.heights[i]
}

// Set updates the height of row i, adjusting the tree and running total by
// the delta. Returns the delta applied (newHeight - oldHeight), or 0 when
// i is out of range or the height is unchanged.
func (idx *RowHeightIndex) Set(i int, h float64) float64 {
	if i < 0 || i >= idx.n {
		return 0
	}
	delta := h - idx.heights[i]
	if delta == 0 {
		return 0
	}
	idx.heights[i] = h
	idx.add(i, delta)
	idx.total += delta
	return delta
}

// IndexAt returns the largest row index i such that PrefixSum(i) <= px,
// or N if px is past the end of the pane. Implemented as a Fenwick
// "find by prefix sum" binary-lifting walk, which is exact (not a binary
// search approximation) because every height is non-negative, guaranteeing
// IndexAt agrees with PrefixSum bit-for-bit — except across a zero-height
// row, where a range of indices shares one prefix sum and any of them is a
// valid answer.
func (idx *RowHeightIndex) IndexAt(px float64) int {
	if idx.n == 0 {
		return 0
	}
	if px < 0 {
		px = 0
	}
	pos := 0
	remaining := px
	for pw := idx.highPow; pw >= 0; pw-- {
		next := pos + (1 << uint(pw))
		if next <= idx.n && idx.tree[next] <= remaining {
			pos = next
			remaining -= idx.tree[next]
		}
	}
	return pos
}

// ClampedIndexAt is IndexAt saturated to the last valid row, [0, N-1],
// instead of returning N past the end.
func (idx *RowHeightIndex) ClampedIndexAt(px float64) int {
	i := idx.IndexAt(px)
	if i >= idx.n {
		i = idx.n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// IndexAtChecked is IndexAt but reports ErrInvariantViolation for an
// out-of-bounds pixel lookup, for callers that want GetRowAtPx's strict
// behavior rather than GetClampedRowAtPx's saturating one.
func (idx *RowHeightIndex) IndexAtChecked(px float64) (int, error) {
	if px < 0 || px > idx.total {
		return 0, fmt.Errorf("%w: pixel offset %v out of [0, %v]", ErrInvariantViolation, px, idx.total)
	}
	return idx.IndexAt(px), nil
}
