package probe

import (
	"context"
	"runtime"

	"github.com/vk/stepflow/internal/engine"
	"github.com/vk/stepflow/internal/progress"
)

// GC reports completed garbage-collection cycles and heap in use.
type GC struct{}

// NewGC creates the GC cycle probe.
func NewGC() *GC { return &GC{} }

// Name implements progress.Node.
func (g *GC) Name() string { return "gc cycles" }

// Kind implements progress.Node.
func (g *GC) Kind() progress.Kind { return progress.KindSteps }

// State implements progress.Node.
func (g *GC) State() progress.Status { return progress.Running }

// Sample implements engine.Probe.
func (g *GC) Sample(ctx context.Context, rc *engine.Context) {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	rc.SetProgress(g, int64(stats.NumGC))
}
