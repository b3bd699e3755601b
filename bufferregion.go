package longscroll

import "math"

// cornerSpeed is the velocity, in px/ms, at which the buffer-region ratio
// has swung halfway (0.75) from the at-rest 0.5 toward "all lookahead on
// one side".
const cornerSpeed = 5.0

// bufferBaseWidth is the at-rest total width of the look-ahead slab, in
// pixels, before speed scaling; the ratio splits it between the two sides.
const bufferBaseWidth = 2000.0

// computeBufferRegion turns a viewport Range and a signed scroll velocity
// (px/ms) into an asymmetric pixel-space look-ahead region. At rest it
// extends 1000px on each side of the viewport center; under fast
// scrolling it grows and shifts in the direction of travel.
func computeBufferRegion(vp Range, velocity float64) Range {
	ratio := math.Atan(velocity/cornerSpeed)/math.Pi + 0.5
	scaleFactor := math.Max(1, math.Sqrt(absFloat(velocity)/cornerSpeed))
	width := bufferBaseWidth * scaleFactor
	center := (vp.Top + vp.Bot) / 2

	return MustRange(center-width*(1-ratio), center+width*ratio)
}
