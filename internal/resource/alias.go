package resource

import (
	"context"
	"time"
)

// Alias presents another resource under its own name and required flag.
// It lets a later-finishing resource's timestamp stand in for an earlier
// computation step, e.g. when a step's real artifact is produced further
// down the pipeline.
type Alias struct {
	name     string
	required bool
	target   Resource
}

// NewAlias wraps target under a new identity.
func NewAlias(name string, required bool, target Resource) *Alias {
	return &Alias{name: name, required: required, target: target}
}

// Name implements Resource.
func (a *Alias) Name() string { return a.name }

// Required implements Resource.
func (a *Alias) Required() bool { return a.required }

// Refresh implements Resource by delegating to the target.
func (a *Alias) Refresh(ctx context.Context) error { return a.target.Refresh(ctx) }

// Available implements Resource.
func (a *Alias) Available() bool { return a.target.Available() }

// LastUpdated implements Resource.
func (a *Alias) LastUpdated() time.Time { return a.target.LastUpdated() }
