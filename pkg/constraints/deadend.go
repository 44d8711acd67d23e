package constraints

import (
	"fmt"
)

// DeadEndConstraint requires every stage that is entered by a transition to
// also be left by one. Anchors and declared terminals are exempt.
type DeadEndConstraint struct{}

func (c *DeadEndConstraint) Name() string { return "dead-end" }

func (c *DeadEndConstraint) Validate(graph GraphReader) ([]Violation, error) {
	violations := make([]Violation, 0)

	for _, id := range graph.StageIDs() {
		if len(graph.Incoming(id)) == 0 || len(graph.Outgoing(id)) > 0 {
			continue
		}
		if graph.IsAnchor(id) || graph.IsTerminal(id) {
			continue
		}
		violations = append(violations, Violation{
			Type:       DeadEnd,
			Severity:   Error,
			StageID:    id,
			Constraint: c.Name(),
			Message:    fmt.Sprintf("stage %s is entered but has no outgoing transition", id),
			Details:    map[string]any{"entered_from": graph.Incoming(id)},
		})
	}

	return violations, nil
}
