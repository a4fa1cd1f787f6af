// Package atomicfs implements stage-then-commit writers for files and
// directories. A writer stages content under a randomized sibling path and
// only makes it visible under the final name on an explicit Commit, which
// also stamps the artifact with the run's logical timestamp. A writer that
// is never committed must be Discarded by its owner; no finalizer cleans up
// on its behalf.
package atomicfs
