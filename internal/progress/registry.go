package progress

import "sync"

// entry is the registry's bookkeeping for one registered node.
type entry struct {
	node  Node
	level int
	value int64
	total int64
}

// Registry is an ordered index of progress nodes. Order reflects the
// depth-first registration sequence, not completion order. All methods are
// safe for concurrent use; operations on unregistered nodes are no-ops so
// hidden steps can call through the same code paths.
type Registry struct {
	mu    sync.Mutex
	order []*entry
	index map[Node]*entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[Node]*entry)}
}

// Insert registers node at the given nesting level, immediately after the
// anchor node. A nil or unknown anchor appends at the end. Re-registering a
// node is a no-op.
func (r *Registry) Insert(node Node, after Node, level int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.index[node]; exists {
		return
	}

	e := &entry{node: node, level: level}
	r.index[node] = e

	pos := len(r.order)
	if after != nil {
		if _, known := r.index[after]; known {
			for i, cur := range r.order {
				if cur.node == after {
					pos = i + 1
					break
				}
			}
		}
	}

	r.order = append(r.order, nil)
	copy(r.order[pos+1:], r.order[pos:])
	r.order[pos] = e
}

// Contains reports whether node has been registered.
func (r *Registry) Contains(node Node) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.index[node]
	return ok
}

// Level returns the nesting level assigned at registration, or -1 for an
// unregistered node.
func (r *Registry) Level(node Node) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.index[node]; ok {
		return e.level
	}
	return -1
}

// SetTotal updates the node's progress target.
func (r *Registry) SetTotal(node Node, total int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.index[node]; ok {
		e.total = total
	}
}

// SetValue sets the node's current progress value.
func (r *Registry) SetValue(node Node, value int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.index[node]; ok {
		e.value = value
	}
}

// Add increments the node's current progress value by delta.
func (r *Registry) Add(node Node, delta int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.index[node]; ok {
		e.value += delta
	}
}

// Len returns the number of registered nodes.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

// Row is a point-in-time copy of one registry entry, in display order.
type Row struct {
	Name  string
	Kind  Kind
	State Status
	Level int
	Value int64
	Total int64
}

// Snapshot returns a copy of every entry in display order. State is polled
// from the node at snapshot time, so renderers see live lifecycle changes
// without the registry tracking them.
func (r *Registry) Snapshot() []Row {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := make([]Row, 0, len(r.order))
	for _, e := range r.order {
		rows = append(rows, Row{
			Name:  e.node.Name(),
			Kind:  e.node.Kind(),
			State: e.node.State(),
			Level: e.level,
			Value: e.value,
			Total: e.total,
		})
	}
	return rows
}
