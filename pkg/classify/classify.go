// Package classify maps a transition onto its structural template.
package classify

import (
	"errors"
	"fmt"

	"github.com/dd0wney/jnetc/pkg/templates"
	"github.com/dd0wney/jnetc/pkg/topology"
)

// ErrUnsupportedKinds is the cause of every classification failure
var ErrUnsupportedKinds = errors.New("no template for this combination of stage kinds")

// Error reports a transition that matches no row of the decision table.
// It excludes the row, not the run.
type Error struct {
	From     string
	To       string
	FromKind topology.Kind
	ToKind   topology.Kind
	Cause    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("classify %s->%s (%s->%s): %v", e.From, e.To, e.FromKind, e.ToKind, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Classification is the template chosen for a transition
type Classification struct {
	Template templates.ID
	Variant  templates.Variant
}

// Name returns the variant when present, otherwise the template id
func (c Classification) Name() string {
	if c.Variant != templates.NoVariant {
		return string(c.Variant)
	}
	return string(c.Template)
}

// Classifier applies the decision table against one graph
type Classifier struct {
	graph *topology.Graph
}

// New creates a classifier for graph
func New(graph *topology.Graph) *Classifier {
	return &Classifier{graph: graph}
}

// Classify returns the template for from->to
func (c *Classifier) Classify(from, to string) (Classification, error) {
	src, dst := c.graph.Stage(from), c.graph.Stage(to)
	if src == nil || dst == nil {
		return Classification{}, &Error{From: from, To: to, Cause: topology.ErrUnknownStage}
	}

	switch {
	case src.Kind == topology.Vehicle && dst.Kind == topology.Vehicle:
		return Classification{Template: templates.A, Variant: c.variantA(to)}, nil
	case src.Kind == topology.Vehicle && dst.Kind == topology.LRT:
		if c.graph.IsLRTAnchor(to) {
			return Classification{Template: templates.C}, nil
		}
		return Classification{Template: templates.B}, nil
	case src.Kind == topology.LRT && dst.Kind == topology.Vehicle:
		return Classification{Template: templates.D}, nil
	case src.Kind == topology.LRT && dst.Kind == topology.LigClearance:
		return Classification{Template: templates.E}, nil
	case src.Kind == topology.LigClearance && dst.Kind == topology.Vehicle:
		return Classification{Template: templates.F}, nil
	case src.Kind == topology.LRT && dst.Kind == topology.LRT:
		return Classification{Template: templates.G}, nil
	}

	return Classification{}, &Error{
		From: from, To: to, FromKind: src.Kind, ToKind: dst.Kind, Cause: ErrUnsupportedKinds,
	}
}

// variantA is A1 when the target has a direct outgoing edge to an LRT stage
func (c *Classifier) variantA(to string) templates.Variant {
	for _, next := range c.graph.Outgoing(to) {
		if c.graph.Stage(next).Kind == topology.LRT {
			return templates.A1
		}
	}
	return templates.A2
}
