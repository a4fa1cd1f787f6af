package engine

import (
	"context"
	"time"

	"github.com/vk/stepflow/internal/progress"
)

// fakeResource is a controllable resource for classification and step
// tests.
type fakeResource struct {
	name      string
	required  bool
	available bool
	ts        time.Time
	refreshes int
	onRefresh func(f *fakeResource)
}

func (f *fakeResource) Name() string   { return f.name }
func (f *fakeResource) Required() bool { return f.required }

func (f *fakeResource) Refresh(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.refreshes++
	if f.onRefresh != nil {
		f.onRefresh(f)
	}
	return nil
}

func (f *fakeResource) Available() bool        { return f.available }
func (f *fakeResource) LastUpdated() time.Time { return f.ts }

// stubStep is a scriptable step for group tests.
type stubStep struct {
	base
	execute func(ctx context.Context, rc *Context) error
}

func newStubStep(name string, terminal progress.Status) *stubStep {
	s := &stubStep{}
	s.name = name
	s.execute = func(ctx context.Context, rc *Context) error {
		s.setState(progress.Running)
		s.setState(terminal)
		return nil
	}
	return s
}

func (s *stubStep) Prepare(rc *Context, anchor progress.Node, level int) progress.Node {
	if s.Hidden() {
		return anchor
	}
	rc.registry.Insert(s, anchor, level)
	return s
}

func (s *stubStep) Execute(ctx context.Context, rc *Context) error {
	return s.execute(ctx, rc)
}
