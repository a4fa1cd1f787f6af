package engine

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/vk/stepflow/internal/progress"
)

// Context is the run-scoped hub steps report through. It owns the progress
// registry and the failure accumulator; both are shared across concurrent
// child executions.
type Context struct {
	registry *progress.Registry

	mu       sync.Mutex
	failures []string
}

// NewContext creates a run context with an empty registry and accumulator.
func NewContext() *Context {
	return &Context{registry: progress.NewRegistry()}
}

// Registry exposes the progress registry, primarily for renderers and for
// work functions registering nested sub-items.
func (c *Context) Registry() *progress.Registry {
	return c.registry
}

// Fail records a failure attributed to node. It never returns an error;
// accumulated failures are surfaced by EnsureValid.
func (c *Context) Fail(node progress.Node, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures = append(c.failures, fmt.Sprintf("%s: %s", node.Name(), message))
}

// Failures returns a copy of every recorded failure message, in order.
func (c *Context) Failures() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.failures))
	copy(out, c.failures)
	return out
}

// EnsureValid returns an aggregate error naming every accumulated failure,
// newline-joined, or nil if none were recorded.
func (c *Context) EnsureValid() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.failures) == 0 {
		return nil
	}
	return errors.New(strings.Join(c.failures, "\n"))
}

// RegisterAfter inserts a sub-item one nesting level below the anchor.
// Work functions use it for nested progress such as byte-level transfer.
func (c *Context) RegisterAfter(node progress.Node, anchor progress.Node) {
	c.registry.Insert(node, anchor, c.registry.Level(anchor)+1)
}

// SetTotal forwards a progress target; no-op for unregistered nodes.
func (c *Context) SetTotal(node progress.Node, total int64) {
	c.registry.SetTotal(node, total)
}

// SetProgress forwards an absolute progress value; no-op for unregistered
// nodes.
func (c *Context) SetProgress(node progress.Node, value int64) {
	c.registry.SetValue(node, value)
}

// IncrementProgress forwards a progress delta; no-op for unregistered
// nodes.
func (c *Context) IncrementProgress(node progress.Node, delta int64) {
	c.registry.Add(node, delta)
}

// Level returns the node's nesting depth for rendering indentation, or -1
// if the node is not registered.
func (c *Context) Level(node progress.Node) int {
	return c.registry.Level(node)
}
