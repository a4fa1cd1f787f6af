package progress

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeNode is a minimal Node for registry tests.
type fakeNode struct {
	name  string
	kind  Kind
	state Status
}

func (f *fakeNode) Name() string  { return f.name }
func (f *fakeNode) Kind() Kind    { return f.kind }
func (f *fakeNode) State() Status { return f.state }

func names(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	return out
}

func TestRegistry_InsertAfterAnchor(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	a := &fakeNode{name: "a"}
	b := &fakeNode{name: "b"}
	c := &fakeNode{name: "c"}

	reg.Insert(a, nil, 0)
	reg.Insert(b, a, 1)
	// Late insertion anchored after a must land between a and b.
	reg.Insert(c, a, 1)

	want := []string{"a", "c", "b"}
	if diff := cmp.Diff(want, names(reg.Snapshot())); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}
}

func TestRegistry_InsertNilOrUnknownAnchorAppends(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	a := &fakeNode{name: "a"}
	b := &fakeNode{name: "b"}
	unknown := &fakeNode{name: "unknown"}

	reg.Insert(a, nil, 0)
	reg.Insert(b, unknown, 0)

	require.Equal(t, []string{"a", "b"}, names(reg.Snapshot()))
}

func TestRegistry_ReinsertIsNoOp(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	a := &fakeNode{name: "a"}
	reg.Insert(a, nil, 0)
	reg.Insert(a, nil, 3)

	require.Equal(t, 1, reg.Len())
	assert.Equal(t, 0, reg.Level(a))
}

func TestRegistry_Levels(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	a := &fakeNode{name: "a"}
	b := &fakeNode{name: "b"}
	reg.Insert(a, nil, 0)
	reg.Insert(b, a, 2)

	assert.Equal(t, 0, reg.Level(a))
	assert.Equal(t, 2, reg.Level(b))
	assert.Equal(t, -1, reg.Level(&fakeNode{name: "absent"}))
}

func TestRegistry_CountersIgnoreUnregistered(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	a := &fakeNode{name: "a", kind: KindSteps}
	hidden := &fakeNode{name: "hidden"}

	reg.Insert(a, nil, 0)
	reg.SetTotal(a, 10)
	reg.Add(a, 3)
	reg.SetValue(hidden, 99)
	reg.Add(hidden, 1)
	reg.SetTotal(hidden, 5)

	rows := reg.Snapshot()
	require.Len(t, rows, 1)
	assert.Equal(t, int64(3), rows[0].Value)
	assert.Equal(t, int64(10), rows[0].Total)
}

func TestRegistry_SnapshotPollsLiveState(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	a := &fakeNode{name: "a", state: Wait}
	reg.Insert(a, nil, 0)

	require.Equal(t, Wait, reg.Snapshot()[0].State)
	a.state = Done
	require.Equal(t, Done, reg.Snapshot()[0].State)
}
