package constraints

import (
	"fmt"

	"github.com/dd0wney/jnetc/pkg/topology"
)

// AnchorConstraint requires the vehicle anchor to be a declared stage and a
// declared LRT anchor to be a declared LRT stage.
type AnchorConstraint struct{}

func (c *AnchorConstraint) Name() string { return "anchors" }

func (c *AnchorConstraint) Validate(graph GraphReader) ([]Violation, error) {
	violations := make([]Violation, 0)

	va := graph.VehicleAnchorID()
	if graph.Stage(va) == nil {
		violations = append(violations, Violation{
			Type:       MissingAnchor,
			Severity:   Error,
			StageID:    va,
			Constraint: c.Name(),
			Message:    fmt.Sprintf("vehicle anchor %q is not a declared stage", va),
		})
	}

	if la := graph.LRTAnchorID(); la != "" {
		s := graph.Stage(la)
		switch {
		case s == nil:
			violations = append(violations, Violation{
				Type:       MissingAnchor,
				Severity:   Error,
				StageID:    la,
				Constraint: c.Name(),
				Message:    fmt.Sprintf("LRT anchor %q is not a declared stage", la),
			})
		case s.Kind != topology.LRT:
			violations = append(violations, Violation{
				Type:       InvalidAnchor,
				Severity:   Error,
				StageID:    la,
				Constraint: c.Name(),
				Message:    fmt.Sprintf("LRT anchor %q has kind %s", la, s.Kind),
				Details:    map[string]any{"kind": s.Kind.String()},
			})
		}
	}

	return violations, nil
}
