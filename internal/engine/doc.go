// Package engine implements the incremental step-execution core: a closed
// set of step kinds (leaf conversion steps plus sequential and parallel
// groups), the staleness classification that decides whether a leaf's work
// must run, and the run context that accumulates failures and forwards
// progress to the registry.
//
// Individual resource problems are recorded, never returned, so an entire
// tree runs to completion and reports every failure at once; only
// EnsureValid converts the accumulated set into an error. Cancellation is
// the sole condition that unwinds execution early.
package engine
