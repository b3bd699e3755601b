package longscroll

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeBufferRegion_AtRestIsSymmetric(t *testing.T) {
	t.Parallel()

	vp := MustRange(1000, 1500)
	buf := computeBufferRegion(vp, 0)

	center := (vp.Top + vp.Bot) / 2
	assert.InDelta(t, center-bufferBaseWidth/2, buf.Top, 1e-6)
	assert.InDelta(t, center+bufferBaseWidth/2, buf.Bot, 1e-6)
}

func TestComputeBufferRegion_SkewsTowardScrollDirection(t *testing.T) {
	t.Parallel()

	vp := MustRange(1000, 1500)
	center := (vp.Top + vp.Bot) / 2

	down := computeBufferRegion(vp, 10)
	// Scrolling down (positive velocity) should push more buffer below the
	// viewport than above it.
	assert.Greater(t, down.Bot-center, center-down.Top)

	up := computeBufferRegion(vp, -10)
	assert.Greater(t, center-up.Top, up.Bot-center)
}

func TestComputeBufferRegion_GrowsWithSpeed(t *testing.T) {
	t.Parallel()

	vp := MustRange(1000, 1500)
	slow := computeBufferRegion(vp, 1)
	fast := computeBufferRegion(vp, 100)

	assert.Greater(t, fast.Height(), slow.Height())
}
