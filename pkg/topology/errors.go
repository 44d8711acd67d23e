package topology

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownKind          = errors.New("unknown stage kind")
	ErrUnknownCompensation  = errors.New("unknown compensation class")
	ErrDuplicateStage       = errors.New("duplicate stage")
	ErrUnknownStage         = errors.New("unknown stage")
	ErrDuplicateTransition  = errors.New("conflicting duplicate transition")
	ErrSelfTransition       = errors.New("transition from a stage to itself")
	ErrMissingVehicleAnchor = errors.New("vehicle anchor not declared")
)

// GraphError describes a structural problem found while building a Graph
type GraphError struct {
	Op      string // build step that failed, e.g. "AddTransition"
	StageID string
	From    string
	To      string
	Cause   error
}

func (e *GraphError) Error() string {
	switch {
	case e.From != "" || e.To != "":
		return fmt.Sprintf("%s %s->%s: %v", e.Op, e.From, e.To, e.Cause)
	case e.StageID != "":
		return fmt.Sprintf("%s stage %s: %v", e.Op, e.StageID, e.Cause)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Cause)
	}
}

// Unwrap returns the underlying cause for error chain support.
func (e *GraphError) Unwrap() error {
	return e.Cause
}
