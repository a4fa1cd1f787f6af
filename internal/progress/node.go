package progress

// Status is the lifecycle state of a node. A node transitions exactly once
// from Wait through Running to either Done or Skip.
type Status int32

const (
	Wait Status = iota
	Running
	Done
	Skip
)

// String implements fmt.Stringer for log output.
func (s Status) String() string {
	switch s {
	case Wait:
		return "wait"
	case Running:
		return "running"
	case Done:
		return "done"
	case Skip:
		return "skip"
	default:
		return "unknown"
	}
}

// Kind is a rendering hint describing how a node's value/total pair should
// be displayed. The engine never interprets it.
type Kind int

const (
	KindNone Kind = iota
	KindPercent
	KindSteps
	KindBytes
	KindDuration
)

// Node is the minimal contract the registry needs from anything that wants
// a row in the progress display. Steps and auxiliary status probes both
// implement it.
type Node interface {
	Name() string
	Kind() Kind
	State() Status
}
