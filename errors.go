package longscroll

import "errors"

// Sentinel error kinds. Task cancellation is a normal operating condition
// and must be distinguishable from bugs.
var (
	// ErrInvariantViolation marks a broken data-model invariant: an invalid
	// Range, a measured height of 0, an out-of-bounds pixel lookup, or a
	// render of a block that claims to be prepared but has no real
	// elements. These denote bugs and are never swallowed.
	ErrInvariantViolation = errors.New("longscroll: invariant violation")

	// ErrTaskCancelled is returned to a suspended scheduler caller when its
	// owner's jobs are cancelled. It is swallowed at every prepare/render/
	// ensureCovers boundary and logged at info level.
	ErrTaskCancelled = errors.New("longscroll: task cancelled")

	// ErrInitRequired is returned by viewport/pane accessors invoked before
	// MakeDom has attached the coordinator to a host surface.
	ErrInitRequired = errors.New("longscroll: MakeDom not called yet")
)

// IsCancelled reports whether err is (or wraps) ErrTaskCancelled, the only
// error kind callers are expected to swallow rather than propagate.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrTaskCancelled)
}
