package constraints

import (
	"github.com/dd0wney/jnetc/pkg/topology"
)

// GraphReader defines the read-only operations needed for topology checks.
// *topology.Graph satisfies it; tests may supply smaller fakes.
type GraphReader interface {
	StageIDs() []string
	Stage(id string) *topology.Stage
	Outgoing(id string) []string
	Incoming(id string) []string
	Neighbors(id string) []string
	VehicleAnchorID() string
	LRTAnchorID() string
	IsAnchor(id string) bool
	IsTerminal(id string) bool
}

// Severity indicates the importance of a violation
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "Info"
	case Warning:
		return "Warning"
	case Error:
		return "Error"
	default:
		return "Unknown"
	}
}

// ViolationType categorizes a topology violation
type ViolationType int

const (
	MissingAnchor ViolationType = iota
	InvalidAnchor
	DeadEnd
	Unreachable
)

func (vt ViolationType) String() string {
	switch vt {
	case MissingAnchor:
		return "MissingAnchor"
	case InvalidAnchor:
		return "InvalidAnchor"
	case DeadEnd:
		return "DeadEnd"
	case Unreachable:
		return "Unreachable"
	default:
		return "Unknown"
	}
}

// Violation represents a single failed topology check
type Violation struct {
	Type       ViolationType
	Severity   Severity
	StageID    string
	Constraint string
	Message    string
	Details    map[string]any
}

// Constraint is the interface every topology check implements
type Constraint interface {
	// Validate checks the constraint against the graph and returns every
	// violation found (empty if valid)
	Validate(graph GraphReader) ([]Violation, error)

	// Name returns a human-readable name for the constraint
	Name() string
}
