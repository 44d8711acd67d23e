package constraints

import (
	"fmt"

	"github.com/dd0wney/jnetc/pkg/parallel"
)

// ReachabilityConstraint requires every stage to reach the vehicle anchor by
// forward traversal. Declared terminals are exempt. One search per stage is
// scheduled on Pool; a nil Pool gets a temporary one.
type ReachabilityConstraint struct {
	Pool *parallel.WorkerPool
}

func (c *ReachabilityConstraint) Name() string { return "reachability" }

func (c *ReachabilityConstraint) Validate(graph GraphReader) ([]Violation, error) {
	violations := make([]Violation, 0)

	va := graph.VehicleAnchorID()
	if graph.Stage(va) == nil {
		// Reported by AnchorConstraint; nothing to measure against.
		return violations, nil
	}

	pool := c.Pool
	if pool == nil {
		p, err := parallel.NewWorkerPool(0)
		if err != nil {
			return nil, fmt.Errorf("reachability: %w", err)
		}
		defer p.Close()
		pool = p
	}

	var starts []string
	for _, id := range graph.StageIDs() {
		if !graph.IsTerminal(id) {
			starts = append(starts, id)
		}
	}

	reached := parallel.NewTraverser(graph, pool).ReachesTarget(starts, va)
	for _, id := range starts {
		if reached[id] {
			continue
		}
		violations = append(violations, Violation{
			Type:       Unreachable,
			Severity:   Error,
			StageID:    id,
			Constraint: c.Name(),
			Message:    fmt.Sprintf("vehicle anchor %s is unreachable from stage %s", va, id),
		})
	}

	return violations, nil
}
