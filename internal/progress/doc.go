// Package progress maintains the ordered, hierarchical index of every
// reportable node in a run. Nodes are registered after an explicit anchor
// node so that children discovered while their parent is already executing
// still appear in display order, immediately after their logical
// predecessor. The registry is safe for concurrent use; renderers consume
// it by polling Snapshot.
package progress
