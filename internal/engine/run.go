package engine

import (
	"context"
	"time"

	"github.com/vk/stepflow/internal/ctxlog"
	"github.com/vk/stepflow/internal/progress"
)

// Probe is a live auxiliary status item (memory use, GC cycles) displayed
// alongside the step tree and sampled once per second while the root step
// is running.
type Probe interface {
	progress.Node

	// Sample refreshes the probe's displayed value through the run
	// context. It must be cheap; it runs on the sampling ticker.
	Sample(ctx context.Context, rc *Context)
}

// sampleInterval is how often auxiliary probes are refreshed.
const sampleInterval = time.Second

// Run drives a root step to completion: it registers the root and every
// statically known descendant in the progress registry, registers the
// auxiliary probes after them, starts the probe sampler, executes the root
// and finally surfaces the accumulated failures as one aggregate error.
// A cancellation unwinds immediately and is returned as-is, without
// touching the failure accumulator.
func Run(ctx context.Context, rc *Context, root Step, probes []Probe) error {
	logger := ctxlog.FromContext(ctx)

	anchor := root.Prepare(rc, nil, 0)
	for _, p := range probes {
		rc.registry.Insert(p, anchor, 0)
		anchor = p
	}
	logger.Debug("Run prepared.", "nodes", rc.registry.Len(), "probes", len(probes))

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(sampleInterval)
		defer ticker.Stop()
		for _, p := range probes {
			p.Sample(ctx, rc)
		}
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if s := root.State(); s != progress.Wait && s != progress.Running {
					return
				}
				for _, p := range probes {
					p.Sample(ctx, rc)
				}
			}
		}
	}()

	err := root.Execute(ctx, rc)

	close(stop)
	<-done

	if err != nil {
		logger.Warn("Run unwound early.", "error", err)
		return err
	}
	return rc.EnsureValid()
}
