package app

import (
	"context"
	"fmt"

	"github.com/vk/stepflow/internal/ctxlog"
	"github.com/vk/stepflow/internal/engine"
	"github.com/vk/stepflow/internal/pipeline"
	"github.com/vk/stepflow/internal/probe"
	"github.com/vk/stepflow/internal/render"
)

// Run executes the loaded pipeline: builds the step tree, attaches the
// renderer and status probes, and drives the engine to completion.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")
	defer a.client.Close()

	if a.config.Concurrency > 0 {
		if a.model.Pipeline == nil {
			a.model.Pipeline = &pipeline.PipelineBlock{Name: "pipeline"}
		}
		a.model.Pipeline.Concurrency = a.config.Concurrency
	}

	builder := pipeline.NewBuilder(a.client)
	root, err := builder.Build(a.model)
	if err != nil {
		return fmt.Errorf("failed to build step tree: %w", err)
	}

	rc := engine.NewContext()

	var probes []engine.Probe
	if mem, err := probe.NewMemory(); err == nil {
		probes = append(probes, mem)
	} else {
		a.logger.Warn("Memory probe unavailable.", "error", err)
	}
	probes = append(probes, probe.NewGC())

	if !a.config.NoProgress {
		renderer := render.NewRenderer(a.uiW, rc.Registry())
		stop := renderer.Start(ctx)
		defer stop()
	}

	a.logger.Info("Starting pipeline run.")
	if err := engine.Run(ctx, rc, root, probes); err != nil {
		return fmt.Errorf("pipeline run failed: %w", err)
	}
	a.logger.Info("Pipeline run finished.", "state", root.State().String())
	return nil
}
