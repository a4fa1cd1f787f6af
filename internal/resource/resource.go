package resource

import (
	"context"
	"time"
)

// Resource is a named, queryable unit of external state. Implementations
// cache the result of Refresh; Available and LastUpdated are undefined
// until Refresh has been called at least once. Refresh must be idempotent.
//
// LastUpdated returns the zero time.Time when the resource is unavailable
// or carries no timestamp; the zero value doubles as the beginning-of-time
// sentinel in staleness comparisons.
type Resource interface {
	Name() string

	// Required reports whether absence of this resource is fatal to the
	// step that declared it as an input, as opposed to merely meaning
	// "not yet produced".
	Required() bool

	// Refresh re-determines availability and timestamp. It may block on
	// filesystem or network I/O and honors ctx cancellation.
	Refresh(ctx context.Context) error

	Available() bool
	LastUpdated() time.Time
}

// RefreshAll refreshes every resource in order, stopping at the first
// transport-level error.
func RefreshAll(ctx context.Context, resources []Resource) error {
	for _, r := range resources {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.Refresh(ctx); err != nil {
			return err
		}
	}
	return nil
}
