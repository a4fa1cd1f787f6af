package engine

import (
	"time"

	"github.com/vk/stepflow/internal/resource"
)

// Necessity is the outcome of the staleness decision for a leaf step.
type Necessity int

const (
	// Redundant: every output is at least as new as every input, or an
	// optional input is missing so there is nothing meaningful to compare
	// against. Work is not invoked.
	Redundant Necessity = iota
	// Recommended: all resources are available but some output is not
	// newer than some input, so the whole step is rebuilt.
	Recommended
	// Necessary: at least one output is missing entirely.
	Necessary
)

// String implements fmt.Stringer for log output.
func (n Necessity) String() string {
	switch n {
	case Redundant:
		return "redundant"
	case Recommended:
		return "recommended"
	case Necessary:
		return "necessary"
	default:
		return "unknown"
	}
}

// Classify applies the whole-step rebuild rule: any missing output forces a
// run; otherwise the oldest output is compared against the newest input and
// the step is stale when it is not strictly newer. Missing required inputs
// must be handled before calling; a missing optional input yields
// Redundant. The zero time.Time stands in for beginning-of-time when a
// side has no resources.
func Classify(inputs, outputs []resource.Resource) Necessity {
	for _, out := range outputs {
		if !out.Available() {
			return Necessary
		}
	}
	for _, in := range inputs {
		if !in.Available() {
			return Redundant
		}
	}

	var newestInput time.Time
	for _, in := range inputs {
		if ts := in.LastUpdated(); ts.After(newestInput) {
			newestInput = ts
		}
	}

	var oldestOutput time.Time
	for i, out := range outputs {
		ts := out.LastUpdated()
		if i == 0 || ts.Before(oldestOutput) {
			oldestOutput = ts
		}
	}

	if !oldestOutput.After(newestInput) {
		return Recommended
	}
	return Redundant
}
