package constraints

import (
	"fmt"
	"time"

	"github.com/dd0wney/jnetc/pkg/parallel"
)

// ValidationResult contains the results of validating a graph against constraints
type ValidationResult struct {
	Valid      bool
	Violations []Violation
	CheckedAt  time.Time
}

// GetViolationsByType returns violations filtered by type
func (vr *ValidationResult) GetViolationsByType(violationType ViolationType) []Violation {
	filtered := make([]Violation, 0)
	for _, v := range vr.Violations {
		if v.Type == violationType {
			filtered = append(filtered, v)
		}
	}
	return filtered
}

// Err returns a *TopologyError carrying every violation, or nil when the
// graph passed.
func (vr *ValidationResult) Err() error {
	if vr.Valid {
		return nil
	}
	return &TopologyError{Violations: vr.Violations}
}

// Validator runs a set of constraints. It never stops at the first failure.
type Validator struct {
	constraints []Constraint
}

// NewValidator creates a validator running constraints in order
func NewValidator(constraints ...Constraint) *Validator {
	return &Validator{constraints: constraints}
}

// NewTopologyValidator returns a validator with the anchor, dead-end and
// reachability checks. Reachability searches are scheduled on pool.
func NewTopologyValidator(pool *parallel.WorkerPool) *Validator {
	return NewValidator(
		&AnchorConstraint{},
		&DeadEndConstraint{},
		&ReachabilityConstraint{Pool: pool},
	)
}

// Validate runs every constraint and collects all violations. An error is
// returned only when a check itself could not run.
func (v *Validator) Validate(graph GraphReader) (*ValidationResult, error) {
	result := &ValidationResult{
		Valid:      true,
		Violations: make([]Violation, 0),
		CheckedAt:  time.Now(),
	}

	for _, c := range v.constraints {
		violations, err := c.Validate(graph)
		if err != nil {
			return nil, fmt.Errorf("%s check: %w", c.Name(), err)
		}
		if len(violations) > 0 {
			result.Valid = false
			result.Violations = append(result.Violations, violations...)
		}
	}

	return result, nil
}
