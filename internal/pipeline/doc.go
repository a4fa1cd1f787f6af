// Package pipeline loads declarative HCL pipeline files and builds the
// executable step tree from them. A pipeline file declares nested group
// and step blocks; each step declares its input and output resources and a
// run block selecting a registered work kind. The loader is the only place
// the engine's step tree is assembled from configuration; programmatic
// callers can build trees directly against the engine package.
package pipeline
