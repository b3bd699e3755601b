package longscroll

import (
	"log/slog"
	"time"
)

// Velocity smoothing and decay constants.
const (
	velocityBlendOld = 0.8
	velocityBlendNew = 0.2

	// jumpThreshold is the input-position jump, in pixels, above which an
	// onScroll event is logged as suspicious. It is still blended into the
	// velocity estimate: this is a documented imperfection, not a bug,
	// carried forward rather than "fixed" by the Go rewrite.
	jumpThreshold = 1000.0

	decayStart = 50 * time.Millisecond
	decayFull  = 200 * time.Millisecond
)

// VelocityTracker turns raw scroll-position samples into an
// exponentially-smoothed, idle-decaying velocity estimate in pixels per
// millisecond. It is the single input the buffer-region computation uses
// to decide how far, and in which direction, to look ahead of the
// viewport.
type VelocityTracker struct {
	nowFunc func() time.Time

	hasSample bool
	lastPos   float64
	lastTime  time.Time
	lastVel   float64
}

// NewVelocityTracker builds an idle VelocityTracker.
func NewVelocityTracker() *VelocityTracker {
	return &VelocityTracker{nowFunc: time.Now}
}

// OnScroll records a new scroll position. The first call only initializes
// state; from the second call on it computes an instantaneous velocity and
// blends it into the running estimate as 0.8*old + 0.2*new.
func (vt *VelocityTracker) OnScroll(px float64) {
	vt.onScrollAt(px, vt.nowFunc())
}

func (vt *VelocityTracker) onScrollAt(px float64, now time.Time) {
	if !vt.hasSample {
		vt.hasSample = true
		vt.lastPos = px
		vt.lastTime = now
		return
	}

	dt := now.Sub(vt.lastTime)
	if dt < time.Millisecond {
		dt = time.Millisecond
	}
	dPx := px - vt.lastPos
	if absFloat(dPx) > jumpThreshold {
		log().Warn("longscroll: velocity tracker saw a large scroll jump",
			slog.Float64("delta_px", dPx), slog.Duration("dt", dt))
	}

	instant := dPx / (float64(dt) / float64(time.Millisecond))
	vt.lastVel = velocityBlendOld*vt.lastVel + velocityBlendNew*instant

	vt.lastPos = px
	vt.lastTime = now
}

// GetVelocity returns the current, possibly decayed, velocity estimate in
// px/ms: the raw blended velocity if less than decayStart has elapsed since
// the last sample, zero once decayFull has elapsed, and linearly
// interpolated in between. This prevents the look-ahead buffer from
// lingering once scrolling has actually stopped.
func (vt *VelocityTracker) GetVelocity() float64 {
	return vt.velocityAt(vt.nowFunc())
}

func (vt *VelocityTracker) velocityAt(now time.Time) float64 {
	if !vt.hasSample {
		return 0
	}
	elapsed := now.Sub(vt.lastTime)
	switch {
	case elapsed < decayStart:
		return vt.lastVel
	case elapsed >= decayFull:
		return 0
	default:
		remaining := float64(decayFull-elapsed) / float64(decayFull-decayStart)
		return vt.lastVel * remaining
	}
}

func absFloat(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
