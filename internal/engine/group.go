package engine

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/vk/stepflow/internal/ctxlog"
	"github.com/vk/stepflow/internal/progress"
)

// Discovery is an optional callback started when a group begins executing,
// concurrently with child consumption. Its job is to call Add for children
// that are not known ahead of time. The work queue is closed when it
// returns.
type Discovery func(ctx context.Context, rc *Context) error

// Group is a composite step executing its children either one at a time in
// list order (sequential) or through a bounded consumer pool (parallel).
// Children may be appended while the group is already running.
type Group struct {
	base
	parallel bool
	limit    int
	discover Discovery

	mu       sync.Mutex
	children []Step
	queue    *workQueue
	tail     progress.Node
	level    int
	prepared bool
}

// NewSequential creates a group whose children run one at a time in FIFO
// order.
func NewSequential(name string) *Group {
	g := &Group{queue: newWorkQueue()}
	g.name = name
	g.kind = progress.KindSteps
	return g
}

// NewParallel creates a group whose children are drained from the shared
// queue by min(GOMAXPROCS, limit) consumers. A non-positive limit means no
// caller-imposed bound.
func NewParallel(name string, limit int) *Group {
	g := &Group{parallel: true, limit: limit, queue: newWorkQueue()}
	g.name = name
	g.kind = progress.KindSteps
	return g
}

// SetDiscovery installs the discovery callback. Must be called before
// Execute.
func (g *Group) SetDiscovery(fn Discovery) { g.discover = fn }

// Children returns a snapshot of the current child list.
func (g *Group) Children() []Step {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Step, len(g.children))
	copy(out, g.children)
	return out
}

// Add appends a child. Before Prepare it only extends the static child
// list; afterwards it also registers the child in the progress registry,
// anchored after the group's last visible descendant, queues it for the
// consumers and raises the group's progress target. Safe to call from a
// discovery callback while consumers are draining.
func (g *Group) Add(s Step, rc *Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.children = append(g.children, s)
	if !g.prepared {
		return
	}
	g.tail = s.Prepare(rc, g.tail, g.level+1)
	g.queue.push(s)
	rc.SetTotal(g, g.visibleCountLocked())
}

// Prepare implements Step: it registers the group, then eagerly registers
// every statically known child, each anchored after the previous, and
// seeds the work queue. The returned anchor is the group's last visible
// descendant (or the incoming anchor, when the group itself is hidden and
// has no visible children).
func (g *Group) Prepare(rc *Context, anchor progress.Node, level int) progress.Node {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.level = level
	g.tail = anchor
	if !g.Hidden() {
		rc.registry.Insert(g, anchor, level)
		g.tail = g
	}
	for _, child := range g.children {
		g.tail = child.Prepare(rc, g.tail, level+1)
		g.queue.push(child)
	}
	g.prepared = true
	rc.SetTotal(g, g.visibleCountLocked())
	return g.tail
}

func (g *Group) visibleCountLocked() int64 {
	var n int64
	for _, c := range g.children {
		if !c.Hidden() {
			n++
		}
	}
	return n
}

// workerCount returns the consumer pool size for this group.
func (g *Group) workerCount() int {
	if !g.parallel {
		return 1
	}
	n := runtime.GOMAXPROCS(0)
	if g.limit > 0 && g.limit < n {
		n = g.limit
	}
	return n
}

// Execute implements Step. Consumers and the discovery callback run
// concurrently; a child pushed by discovery may finish before discovery
// itself returns. The queue is closed once discovery completes, so the
// consumers terminate after draining it.
func (g *Group) Execute(ctx context.Context, rc *Context) error {
	logger := ctxlog.FromContext(ctx)
	g.setState(progress.Running)

	workers := g.workerCount()
	logger.Debug("Group starting.", "group", g.name, "parallel", g.parallel, "workers", workers)

	eg, egCtx := errgroup.WithContext(ctx)

	discoverErr := make(chan error, 1)
	go func() {
		var err error
		if g.discover != nil {
			err = g.discover(egCtx, rc)
		}
		g.queue.close()
		discoverErr <- err
	}()

	for i := 0; i < workers; i++ {
		eg.Go(func() error {
			for {
				child, ok := g.queue.pop()
				if !ok {
					return nil
				}
				if err := egCtx.Err(); err != nil {
					return err
				}
				if err := child.Execute(egCtx, rc); err != nil {
					return err
				}
				if !child.Hidden() {
					rc.IncrementProgress(g, 1)
				}
			}
		})
	}

	runErr := eg.Wait()
	dErr := <-discoverErr

	g.setState(g.terminalState())
	logger.Debug("Group finished.", "group", g.name, "state", g.State().String())

	if runErr != nil {
		return runErr
	}
	if dErr != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		rc.Fail(g, fmt.Sprintf("child discovery failed: %v", dErr))
	}
	return nil
}

// terminalState applies the all-skipped rule: Skip iff every non-hidden
// child ended in Skip and at least one non-hidden child exists. A group
// with no visible children ends Done, so a vacuous "all skipped" never
// reads as Skip.
func (g *Group) terminalState() progress.Status {
	g.mu.Lock()
	defer g.mu.Unlock()

	allSkipped := true
	visible := false
	for _, c := range g.children {
		if c.Hidden() {
			continue
		}
		visible = true
		if c.State() != progress.Skip {
			allSkipped = false
		}
	}
	if visible && allSkipped {
		return progress.Skip
	}
	return progress.Done
}
