package resource

import (
	"context"
	"sync"
	"time"
)

// Value is an in-memory holder passed between steps of the same run. It is
// available once a producing step has called Set; the timestamp is supplied
// by the producer, typically the producing step's logical timestamp.
type Value struct {
	name     string
	required bool

	mu    sync.Mutex
	set   bool
	val   any
	mtime time.Time
}

// NewValue creates an empty in-memory resource.
func NewValue(name string, required bool) *Value {
	return &Value{name: name, required: required}
}

// Name implements Resource.
func (v *Value) Name() string { return v.name }

// Required implements Resource.
func (v *Value) Required() bool { return v.required }

// Set stores the produced value together with its logical timestamp.
func (v *Value) Set(val any, ts time.Time) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.set = true
	v.val = val
	v.mtime = ts
}

// Get returns the stored value, or nil if none was set.
func (v *Value) Get() any {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.val
}

// Refresh implements Resource. In-memory state needs no probing.
func (v *Value) Refresh(ctx context.Context) error {
	return ctx.Err()
}

// Available implements Resource.
func (v *Value) Available() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.set
}

// LastUpdated implements Resource.
func (v *Value) LastUpdated() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.set {
		return time.Time{}
	}
	return v.mtime
}
