// Package app wires the application together: it builds the isolated
// logger, loads the pipeline configuration, assembles the step tree and
// drives the engine, attaching the terminal renderer and the auxiliary
// status probes around the run.
package app
