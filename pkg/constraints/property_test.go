package constraints

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/dd0wney/jnetc/pkg/topology"
)

// randomGraph builds a graph over n vehicle stages S0..S{n-1} (S0 is the
// anchor) from a flat list of edge endpoints.
func randomGraph(n int, ends []int) (*topology.Graph, bool) {
	b := topology.NewBuilder().SetAnchors("S0", "")
	for i := 0; i < n; i++ {
		b.AddStage(topology.Stage{ID: fmt.Sprintf("S%d", i), Compensation: topology.Minimum})
	}
	for i := 0; i+1 < len(ends); i += 2 {
		from, to := ends[i]%n, ends[i+1]%n
		if from == to {
			continue
		}
		b.AddTransition(topology.Transition{
			From:    fmt.Sprintf("S%d", from),
			To:      fmt.Sprintf("S%d", to),
			Ordinal: i,
		})
	}
	g, err := b.Build()
	return g, err == nil
}

func TestValidatedTopologiesHoldInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("validated graphs have no dead ends and reach the anchor", prop.ForAll(
		func(n int, ends []int) bool {
			g, ok := randomGraph(n, ends)
			if !ok {
				return true
			}
			result, err := NewTopologyValidator(nil).Validate(g)
			if err != nil {
				return false
			}
			if !result.Valid {
				return len(result.Violations) > 0
			}
			for _, id := range g.StageIDs() {
				if !g.IsAnchor(id) && len(g.Incoming(id)) > 0 && len(g.Outgoing(id)) == 0 {
					return false
				}
				if !g.CanReach(id, "S0") {
					return false
				}
			}
			return true
		},
		gen.IntRange(2, 8),
		gen.SliceOf(gen.IntRange(0, 7)),
	))

	properties.TestingRun(t)
}
