package longscroll

import (
	"fmt"
	"math"
)

// Range is a half-open interval [Top, Bot) over real numbers. The same
// structure is used for both row-index space (integers, represented as
// float64) and pixel space. It is immutable: every method returns a new
// Range rather than mutating the receiver.
type Range struct {
	Top, Bot float64
}

// NewRange constructs a Range, returning ErrInvariantViolation if top > bot
// or either bound is NaN.
func NewRange(top, bot float64) (Range, error) {
	if math.IsNaN(top) || math.IsNaN(bot) {
		return Range{}, fmt.Errorf("%w: NaN range bound", ErrInvariantViolation)
	}
	if top > bot {
		return Range{}, fmt.Errorf("%w: range top %v > bot %v", ErrInvariantViolation, top, bot)
	}
	return Range{Top: top, Bot: bot}, nil
}

// MustRange is NewRange but panics on an invalid range. Intended for
// constant/literal ranges constructed from already-validated values.
func MustRange(top, bot float64) Range {
	r, err := NewRange(top, bot)
	if err != nil {
		panic(err)
	}
	return r
}

// IndexRange constructs a Range over integer row indices.
func IndexRange(top, bot int) Range {
	return MustRange(float64(top), float64(bot))
}

// Height returns Bot - Top.
func (r Range) Height() float64 {
	return r.Bot - r.Top
}

// Empty reports whether the range contains no points.
func (r Range) Empty() bool {
	return r.Top >= r.Bot
}

// ContainsNum reports whether Top <= i < Bot.
func (r Range) ContainsNum(i float64) bool {
	return r.Top <= i && i < r.Bot
}

// Contains reports whether other is covered by r. An empty other is always
// contained; a non-empty other is contained iff both its first point and
// its last point (Bot - 1 in the discrete sense, approximated here as a
// point just inside Bot) lie in r.
func (r Range) Contains(other Range) bool {
	if other.Empty() {
		return true
	}
	return r.ContainsNum(other.Top) && r.containsLastPoint(other)
}

// containsLastPoint checks the "bot - 1" endpoint for discrete ranges: the
// largest value strictly less than other.Bot.
func (r Range) containsLastPoint(other Range) bool {
	last := math.Nextafter(other.Bot, math.Inf(-1))
	return r.Top <= last && last < r.Bot
}

// Equals reports exact equality of both bounds.
func (r Range) Equals(other Range) bool {
	return r.Top == other.Top && r.Bot == other.Bot
}

// ClampTo returns the intersection of r and other, collapsed to an empty
// range (at other's Top, to keep clamping deterministic) when they are
// disjoint.
func (r Range) ClampTo(other Range) Range {
	top := math.Max(r.Top, other.Top)
	bot := math.Min(r.Bot, other.Bot)
	if top > bot {
		return Range{Top: other.Top, Bot: other.Top}
	}
	return Range{Top: top, Bot: bot}
}

// ClampNum clamps i to [Top, Bot-1], the valid "last index" form used for
// row-index ranges where Bot is exclusive.
func (r Range) ClampNum(i float64) float64 {
	lo := r.Top
	hi := r.Bot - 1
	if hi < lo {
		hi = lo
	}
	if i < lo {
		return lo
	}
	if i > hi {
		return hi
	}
	return i
}

// Expand returns a Range widened by d on each side, not yet clamped to any
// bound. Used by BlockSet.SetTarget to grow the leave range.
func (r Range) Expand(d float64) Range {
	return Range{Top: r.Top - d, Bot: r.Bot + d}
}

// IndexTop returns Top truncated to an int, for ranges over row-index space.
func (r Range) IndexTop() int { return int(r.Top) }

// IndexBot returns Bot truncated to an int, for ranges over row-index space.
func (r Range) IndexBot() int { return int(r.Bot) }

func (r Range) String() string {
	return fmt.Sprintf("[%v, %v)", r.Top, r.Bot)
}
