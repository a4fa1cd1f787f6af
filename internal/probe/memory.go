package probe

import (
	"context"
	"os"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/vk/stepflow/internal/ctxlog"
	"github.com/vk/stepflow/internal/engine"
	"github.com/vk/stepflow/internal/progress"
)

// Memory reports the resident set size of the running process.
type Memory struct {
	proc *process.Process
}

// NewMemory creates the RSS probe for the current process.
func NewMemory() (*Memory, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	return &Memory{proc: proc}, nil
}

// Name implements progress.Node.
func (m *Memory) Name() string { return "memory" }

// Kind implements progress.Node.
func (m *Memory) Kind() progress.Kind { return progress.KindBytes }

// State implements progress.Node. A probe is live for the whole run.
func (m *Memory) State() progress.Status { return progress.Running }

// Sample implements engine.Probe.
func (m *Memory) Sample(ctx context.Context, rc *engine.Context) {
	info, err := m.proc.MemoryInfoWithContext(ctx)
	if err != nil {
		ctxlog.FromContext(ctx).Debug("Memory probe sample failed.", "error", err)
		return
	}
	rc.SetProgress(m, int64(info.RSS))
}
