package constraints

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTopologyInvalid matches any *TopologyError via errors.Is
var ErrTopologyInvalid = errors.New("topology invalid")

// TopologyError aborts a compile run. It lists every violation found.
type TopologyError struct {
	Violations []Violation
}

func (e *TopologyError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "topology invalid: %d violation(s)", len(e.Violations))
	for _, v := range e.Violations {
		fmt.Fprintf(&b, "\n  %s %s: %s", v.Type, v.StageID, v.Message)
	}
	return b.String()
}

// Is reports whether target is ErrTopologyInvalid
func (e *TopologyError) Is(target error) bool {
	return target == ErrTopologyInvalid
}
