package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vk/stepflow/internal/resource"
)

func avail(name string, ts time.Time) *fakeResource {
	return &fakeResource{name: name, available: true, ts: ts}
}

func missing(name string) *fakeResource {
	return &fakeResource{name: name}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	t3 := t2.Add(time.Hour)

	tests := []struct {
		name    string
		inputs  []resource.Resource
		outputs []resource.Resource
		want    Necessity
	}{
		{
			name:    "missing output forces run regardless of timestamps",
			inputs:  []resource.Resource{avail("in", t1)},
			outputs: []resource.Resource{avail("out1", t3), missing("out2")},
			want:    Necessary,
		},
		{
			name:    "missing optional input means nothing to compare",
			inputs:  []resource.Resource{missing("in")},
			outputs: []resource.Resource{avail("out", t1)},
			want:    Redundant,
		},
		{
			name:    "output older than input is stale",
			inputs:  []resource.Resource{avail("in", t2)},
			outputs: []resource.Resource{avail("out", t1)},
			want:    Recommended,
		},
		{
			name:    "output equal to input is stale",
			inputs:  []resource.Resource{avail("in", t2)},
			outputs: []resource.Resource{avail("out", t2)},
			want:    Recommended,
		},
		{
			name:    "output newer than every input is fresh",
			inputs:  []resource.Resource{avail("in1", t1), avail("in2", t2)},
			outputs: []resource.Resource{avail("out", t3)},
			want:    Redundant,
		},
		{
			name:    "oldest output decides against newest input",
			inputs:  []resource.Resource{avail("in", t2)},
			outputs: []resource.Resource{avail("out1", t3), avail("out2", t1)},
			want:    Recommended,
		},
		{
			name:    "no inputs reads as beginning of time",
			outputs: []resource.Resource{avail("out", t1)},
			want:    Redundant,
		},
		{
			name:   "no outputs always runs",
			inputs: []resource.Resource{avail("in", t1)},
			want:   Recommended,
		},
		{
			name: "no resources at all runs",
			want: Recommended,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Classify(tt.inputs, tt.outputs))
		})
	}
}
