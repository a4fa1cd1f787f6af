package engine

import (
	"context"
	"sync/atomic"

	"github.com/vk/stepflow/internal/progress"
)

// Step is the unit of schedulable work. The engine only ever needs this
// small surface; the set of implementations is closed (Conversion, Group).
type Step interface {
	progress.Node

	// Hidden steps are excluded from the progress display and from the
	// all-children-skipped aggregation of their parent group.
	Hidden() bool

	// Prepare registers the step and its statically known descendants in
	// the run's progress registry, inserted after anchor at the given
	// nesting level. It returns the new anchor: the step itself, or its
	// last visible descendant.
	Prepare(rc *Context, anchor progress.Node, level int) progress.Node

	// Execute drives the step to a terminal state. A non-nil error means
	// cancellation or an internal fault that unwinds the run; resource
	// failures are recorded on the run context instead.
	Execute(ctx context.Context, rc *Context) error
}

// base carries the identity and state machine shared by every step kind.
type base struct {
	name   string
	hidden bool
	kind   progress.Kind
	state  atomic.Int32
}

// Name implements progress.Node.
func (b *base) Name() string { return b.name }

// Kind implements progress.Node.
func (b *base) Kind() progress.Kind { return b.kind }

// State implements progress.Node.
func (b *base) State() progress.Status { return progress.Status(b.state.Load()) }

// Hidden reports whether the step is excluded from display and skip
// aggregation.
func (b *base) Hidden() bool { return b.hidden }

// SetHidden marks the step hidden. Must be called before Prepare.
func (b *base) SetHidden(hidden bool) { b.hidden = hidden }

// SetKind overrides the rendering hint. Must be called before Prepare.
func (b *base) SetKind(kind progress.Kind) { b.kind = kind }

func (b *base) setState(s progress.Status) { b.state.Store(int32(s)) }
