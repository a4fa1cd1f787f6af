package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/vk/stepflow/internal/ctxlog"
	"github.com/vk/stepflow/internal/progress"
	"github.com/vk/stepflow/internal/resource"
)

// WorkFunc is the caller-supplied body of a leaf step. Every output
// produced during one call must be stamped with ts, the run's logical
// timestamp for this execution, so later staleness comparisons stay
// meaningful across resources.
type WorkFunc func(ctx context.Context, rc *Context, ts time.Time) error

// Resolver computes a leaf's resource lists per run context, for steps
// whose inputs and outputs are not known at construction.
type Resolver func(rc *Context) (inputs, outputs []resource.Resource)

// Conversion is the leaf step: declared inputs and outputs plus a work
// function invoked only when the staleness decision demands it.
type Conversion struct {
	base
	inputs  []resource.Resource
	outputs []resource.Resource
	resolve Resolver
	work    WorkFunc
}

// NewConversion creates a leaf step with fixed resource lists.
func NewConversion(name string, inputs, outputs []resource.Resource, work WorkFunc) *Conversion {
	c := &Conversion{inputs: inputs, outputs: outputs, work: work}
	c.name = name
	return c
}

// NewResolvedConversion creates a leaf step whose resource lists are
// computed by resolve when the step executes.
func NewResolvedConversion(name string, resolve Resolver, work WorkFunc) *Conversion {
	c := &Conversion{resolve: resolve, work: work}
	c.name = name
	return c
}

// SetWork installs the work function. Builders use it when the work
// closure needs the step itself in scope, e.g. as the anchor for nested
// progress sub-items. Must be called before Execute.
func (s *Conversion) SetWork(work WorkFunc) { s.work = work }

// Prepare implements Step. Leaf steps have no descendants, so the step
// itself becomes the new anchor; hidden steps register nothing and leave
// the anchor untouched.
func (s *Conversion) Prepare(rc *Context, anchor progress.Node, level int) progress.Node {
	if s.Hidden() {
		return anchor
	}
	rc.registry.Insert(s, anchor, level)
	return s
}

func (s *Conversion) resources(rc *Context) (inputs, outputs []resource.Resource) {
	if s.resolve != nil {
		return s.resolve(rc)
	}
	return s.inputs, s.outputs
}

// Execute implements Step, running the staleness decision over the input
// and output resources and conditionally invoking the work function.
// Failures scoped to this step (missing required inputs, missing outputs
// after the run, a work error) are recorded on rc; only cancellation
// unwinds as a returned error.
func (s *Conversion) Execute(ctx context.Context, rc *Context) error {
	logger := ctxlog.FromContext(ctx)
	s.setState(progress.Running)

	inputs, outputs := s.resources(rc)

	if ok, err := s.refresh(ctx, rc, inputs); !ok {
		s.setState(progress.Done)
		return err
	}
	if ok, err := s.refresh(ctx, rc, outputs); !ok {
		s.setState(progress.Done)
		return err
	}

	missing := 0
	for _, in := range inputs {
		if in.Required() && !in.Available() {
			rc.Fail(s, fmt.Sprintf("required input %q not available", in.Name()))
			missing++
		}
	}
	if missing > 0 {
		logger.Warn("Step aborted, required inputs missing.", "step", s.name, "missing", missing)
		s.setState(progress.Done)
		return nil
	}

	necessity := Classify(inputs, outputs)
	logger.Debug("Classified step.", "step", s.name, "necessity", necessity.String())

	if necessity == Redundant {
		// Outputs were just seen available, but re-validate so a racing
		// deletion is still reported.
		err := s.validateOutputs(ctx, rc, outputs)
		s.setState(progress.Skip)
		return err
	}

	ts := time.Now()
	if err := s.work(ctx, rc, ts); err != nil {
		if ctx.Err() != nil {
			s.setState(progress.Done)
			return ctx.Err()
		}
		rc.Fail(s, fmt.Sprintf("execution failed: %v", err))
		s.setState(progress.Done)
		return nil
	}

	err := s.validateOutputs(ctx, rc, outputs)
	s.setState(progress.Done)
	return err
}

// refresh refreshes a resource list. A transport-level failure is recorded
// against the step and reported via ok=false; cancellation is returned as
// the error.
func (s *Conversion) refresh(ctx context.Context, rc *Context, resources []resource.Resource) (ok bool, err error) {
	if err := resource.RefreshAll(ctx, resources); err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		rc.Fail(s, fmt.Sprintf("resource refresh failed: %v", err))
		return false, nil
	}
	return true, nil
}

// validateOutputs re-refreshes the outputs and records every one that is
// still unavailable.
func (s *Conversion) validateOutputs(ctx context.Context, rc *Context, outputs []resource.Resource) error {
	if ok, err := s.refresh(ctx, rc, outputs); !ok {
		return err
	}
	for _, out := range outputs {
		if !out.Available() {
			rc.Fail(s, fmt.Sprintf("output %q not available after execution", out.Name()))
		}
	}
	return nil
}
