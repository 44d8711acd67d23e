package templates

import (
	"github.com/dd0wney/jnetc/pkg/topology"
)

// GTFunc selects the green-time function for the stage being left
func GTFunc(from *topology.Stage) string {
	if from.Kind != topology.LRT && from.Compensation == topology.Compensated {
		return "GTcpmin(" + from.ID + ")"
	}
	return "GTmin_" + from.ID
}
