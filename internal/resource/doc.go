// Package resource models the named units of external state a step reads
// and produces: filesystem files and directories, remote HTTP objects and
// in-memory values. A resource's availability and last-updated timestamp
// are only meaningful after an explicit Refresh, which may perform
// filesystem or network I/O; results are cached until the next Refresh.
package resource
