package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	// KindSpanBegin marks the start of a logical operation.
	KindSpanBegin Kind = iota + 1
	// KindSpanEnd marks the end of a logical operation.
	KindSpanEnd
	// KindPoint represents an instant event.
	KindPoint
	// KindError reports a failure; emitted at every level except off.
	KindError
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Scope indicates the granularity of the event.
// Lower numeric values are coarser.
type Scope uint8

const (
	// ScopeRun covers a whole aggregation run and its phases.
	ScopeRun Scope = iota + 1
	// ScopeFile covers loading one input file.
	ScopeFile
	// ScopeGroup covers a single aggregation group (most detailed).
	ScopeGroup
)

// String returns the string representation of Scope.
func (s Scope) String() string {
	switch s {
	case ScopeRun:
		return "run"
	case ScopeFile:
		return "file"
	case ScopeGroup:
		return "group"
	default:
		return "unknown"
	}
}

// Event represents a single trace event.
type Event struct {
	Time     time.Time         // wall-clock timestamp
	Seq      uint64            // global sequence number (monotonic)
	Kind     Kind              // event kind
	Scope    Scope             // granularity
	SpanID   uint64            // span identifier, 0 for points outside spans
	ParentID uint64            // parent span (0 if root)
	Name     string            // e.g. "load", "file:warnings.json"
	Detail   string            // optional detail message
	Extra    map[string]string // extensible key-value pairs
}
