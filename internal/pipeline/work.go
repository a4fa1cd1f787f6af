package pipeline

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"

	"github.com/vk/stepflow/internal/atomicfs"
	"github.com/vk/stepflow/internal/ctxlog"
	"github.com/vk/stepflow/internal/engine"
	"github.com/vk/stepflow/internal/progress"
	"github.com/vk/stepflow/internal/resource"
)

// WorkSpec hands a work factory everything it needs to close over: the
// step being built (for progress anchoring), its decoded block and its
// output resources.
type WorkSpec struct {
	Step    *engine.Conversion
	Block   *StepBlock
	Outputs []resource.Resource
}

// WorkFactory builds the work function for one run-block kind.
type WorkFactory func(b *Builder, spec *WorkSpec) (engine.WorkFunc, error)

// execBody is the decoded body of a `run "exec"` block.
type execBody struct {
	Command string `hcl:"command"`
	Dir     string `hcl:"dir,optional"`
}

// newExecWork runs a shell command and stamps the declared outputs with
// the logical timestamp afterwards, since an external command writes with
// wall-clock mtimes.
func newExecWork(b *Builder, spec *WorkSpec) (engine.WorkFunc, error) {
	var body execBody
	if diags := gohcl.DecodeBody(spec.Block.Run.Body, newEvalContext(), &body); diags.HasErrors() {
		return nil, fmt.Errorf("invalid exec block: %w", diags)
	}

	return func(ctx context.Context, rc *engine.Context, ts time.Time) error {
		logger := ctxlog.FromContext(ctx)
		logger.Info("Running command.", "step", spec.Step.Name(), "command", body.Command)

		cmd := exec.CommandContext(ctx, "sh", "-c", body.Command)
		cmd.Dir = body.Dir
		out, err := cmd.CombinedOutput()
		if err != nil {
			return fmt.Errorf("command failed: %w (output: %s)", err, out)
		}
		return stampOutputs(spec.Outputs, ts)
	}, nil
}

// stampOutputs rewrites each produced artifact's timestamp to the logical
// build timestamp so staleness comparisons stay consistent across the run.
func stampOutputs(outputs []resource.Resource, ts time.Time) error {
	for _, out := range outputs {
		switch r := out.(type) {
		case *resource.File:
			if err := os.Chtimes(r.Path(), ts, ts); err != nil && !os.IsNotExist(err) {
				return err
			}
		case *resource.Dir:
			marker := filepath.Join(r.Path(), atomicfs.UpdateMarker)
			if err := os.WriteFile(marker, nil, 0o644); err != nil {
				if os.IsNotExist(err) {
					continue
				}
				return err
			}
			if err := os.Chtimes(marker, ts, ts); err != nil {
				return err
			}
		case *resource.Value:
			r.Set(true, ts)
		}
	}
	return nil
}

// downloadBody is the decoded body of a `run "download"` block.
type downloadBody struct {
	URL string `hcl:"url"`
}

// transferNode is the nested byte-level progress row a download registers
// under its step.
type transferNode struct {
	name  string
	state atomic.Int32
}

func (t *transferNode) Name() string           { return t.name }
func (t *transferNode) Kind() progress.Kind    { return progress.KindBytes }
func (t *transferNode) State() progress.Status { return progress.Status(t.state.Load()) }
func (t *transferNode) set(s progress.Status)  { t.state.Store(int32(s)) }

// newDownloadWork fetches a URL into the step's first file output through
// an atomic writer, so an aborted transfer never leaves a partial artifact
// under the final name.
func newDownloadWork(b *Builder, spec *WorkSpec) (engine.WorkFunc, error) {
	var body downloadBody
	if diags := gohcl.DecodeBody(spec.Block.Run.Body, newEvalContext(), &body); diags.HasErrors() {
		return nil, fmt.Errorf("invalid download block: %w", diags)
	}

	var target *resource.File
	for _, out := range spec.Outputs {
		if f, ok := out.(*resource.File); ok {
			target = f
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("download needs a file output")
	}

	return func(ctx context.Context, rc *engine.Context, ts time.Time) error {
		logger := ctxlog.FromContext(ctx)
		logger.Info("Downloading.", "step", spec.Step.Name(), "url", body.URL)

		tr := &transferNode{name: "transfer"}
		tr.set(progress.Running)
		rc.RegisterAfter(tr, spec.Step)

		res, err := b.client.R().SetContext(ctx).Get(body.URL)
		if err != nil {
			return err
		}
		if res.StatusCode() < 200 || res.StatusCode() > 299 {
			return fmt.Errorf("unexpected status %d fetching %s", res.StatusCode(), body.URL)
		}

		payload := res.Bytes()
		rc.SetTotal(tr, int64(len(payload)))

		w, err := atomicfs.NewFileWriter(target.Path())
		if err != nil {
			return err
		}
		defer w.Discard()

		if _, err := w.Write(payload); err != nil {
			return err
		}
		rc.SetProgress(tr, int64(len(payload)))

		if err := w.Commit(ts); err != nil {
			return err
		}
		tr.set(progress.Done)
		return nil
	}, nil
}
