// Package probe provides the auxiliary status items displayed alongside a
// run's step tree: live process memory and garbage-collection counters.
// Probes satisfy the engine.Probe contract and are sampled on the run's
// ticker; they never participate in scheduling.
package probe
