package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/stepflow/internal/progress"
	"github.com/vk/stepflow/internal/resource"
)

func TestConversion_RedundantSkipsWork(t *testing.T) {
	t.Parallel()

	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	in := avail("in", t1)
	out := avail("out", t1.Add(time.Hour))

	invoked := 0
	step := NewConversion("convert", []resource.Resource{in}, []resource.Resource{out},
		func(ctx context.Context, rc *Context, ts time.Time) error {
			invoked++
			return nil
		})

	rc := NewContext()
	require.NoError(t, step.Execute(context.Background(), rc))

	assert.Equal(t, progress.Skip, step.State())
	assert.Zero(t, invoked, "redundant step must not invoke work")
	assert.Empty(t, rc.Failures())
}

func TestConversion_NecessaryRunsWorkWithLogicalTimestamp(t *testing.T) {
	t.Parallel()

	out := missing("out")
	var gotTS time.Time
	step := NewConversion("convert", nil, []resource.Resource{out},
		func(ctx context.Context, rc *Context, ts time.Time) error {
			gotTS = ts
			out.available = true
			out.ts = ts
			return nil
		})

	rc := NewContext()
	require.NoError(t, step.Execute(context.Background(), rc))

	assert.Equal(t, progress.Done, step.State())
	assert.False(t, gotTS.IsZero(), "work must receive the logical timestamp")
	assert.Empty(t, rc.Failures())
}

func TestConversion_MissingRequiredInputsBatchFailures(t *testing.T) {
	t.Parallel()

	in1 := &fakeResource{name: "a", required: true}
	in2 := &fakeResource{name: "b", required: true}
	out := missing("out")

	invoked := 0
	step := NewConversion("convert", []resource.Resource{in1, in2}, []resource.Resource{out},
		func(ctx context.Context, rc *Context, ts time.Time) error {
			invoked++
			return nil
		})

	rc := NewContext()
	require.NoError(t, step.Execute(context.Background(), rc))

	assert.Equal(t, progress.Done, step.State())
	assert.Zero(t, invoked, "step with missing required inputs must not run")

	failures := rc.Failures()
	require.Len(t, failures, 2, "all missing required inputs are reported together")
	assert.Contains(t, failures[0], `required input "a" not available`)
	assert.Contains(t, failures[1], `required input "b" not available`)
}

func TestConversion_OutputStillMissingAfterRun(t *testing.T) {
	t.Parallel()

	out := missing("out")
	step := NewConversion("convert", nil, []resource.Resource{out},
		func(ctx context.Context, rc *Context, ts time.Time) error {
			return nil // forgets to produce the output
		})

	rc := NewContext()
	require.NoError(t, step.Execute(context.Background(), rc))

	failures := rc.Failures()
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0], `output "out" not available after execution`)
}

func TestConversion_WorkErrorIsRecordedNotReturned(t *testing.T) {
	t.Parallel()

	out := missing("out")
	step := NewConversion("convert", nil, []resource.Resource{out},
		func(ctx context.Context, rc *Context, ts time.Time) error {
			return errors.New("boom")
		})

	rc := NewContext()
	require.NoError(t, step.Execute(context.Background(), rc))

	assert.Equal(t, progress.Done, step.State())
	failures := rc.Failures()
	require.NotEmpty(t, failures)
	assert.Contains(t, failures[0], "boom")
}

func TestConversion_CancellationUnwinds(t *testing.T) {
	t.Parallel()

	out := missing("out")
	step := NewConversion("convert", nil, []resource.Resource{out},
		func(ctx context.Context, rc *Context, ts time.Time) error {
			return ctx.Err()
		})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rc := NewContext()
	err := step.Execute(ctx, rc)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, rc.Failures(), "cancellation must not touch the accumulator")
}

func TestConversion_ResolverComputesResources(t *testing.T) {
	t.Parallel()

	out := missing("out")
	step := NewResolvedConversion("convert",
		func(rc *Context) ([]resource.Resource, []resource.Resource) {
			return nil, []resource.Resource{out}
		},
		func(ctx context.Context, rc *Context, ts time.Time) error {
			out.available = true
			out.ts = ts
			return nil
		})

	rc := NewContext()
	require.NoError(t, step.Execute(context.Background(), rc))
	assert.Equal(t, progress.Done, step.State())
	assert.Empty(t, rc.Failures())
}

func TestConversion_HiddenPrepareLeavesAnchor(t *testing.T) {
	t.Parallel()

	rc := NewContext()
	anchor := newStubStep("anchor", progress.Done)
	rc.Registry().Insert(anchor, nil, 0)

	step := NewConversion("hidden", nil, nil, nil)
	step.SetHidden(true)

	got := step.Prepare(rc, anchor, 1)
	assert.Equal(t, progress.Node(anchor), got)
	assert.False(t, rc.Registry().Contains(step))
}
