package probe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/stepflow/internal/engine"
)

func TestMemory_SampleReportsBytes(t *testing.T) {
	t.Parallel()

	mem, err := NewMemory()
	require.NoError(t, err)

	rc := engine.NewContext()
	rc.Registry().Insert(mem, nil, 0)
	mem.Sample(context.Background(), rc)

	rows := rc.Registry().Snapshot()
	require.Len(t, rows, 1)
	assert.Positive(t, rows[0].Value, "a live process has a non-zero RSS")
}

func TestGC_SampleReportsCycles(t *testing.T) {
	t.Parallel()

	gc := NewGC()
	rc := engine.NewContext()
	rc.Registry().Insert(gc, nil, 0)
	gc.Sample(context.Background(), rc)

	rows := rc.Registry().Snapshot()
	require.Len(t, rows, 1)
	assert.GreaterOrEqual(t, rows[0].Value, int64(0))
}
