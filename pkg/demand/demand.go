// Package demand builds the detector clause that gates a transition.
package demand

import (
	"strings"

	"github.com/dd0wney/jnetc/pkg/topology"
)

// Term is one detector condition
type Term struct {
	Active   bool
	Detector string
}

func (t Term) String() string {
	if t.Active {
		return "IsActive(" + t.Detector + ")"
	}
	return "IsInactive(" + t.Detector + ")"
}

// Clause is an ordered conjunction of terms. The zero value is an empty
// clause and renders as "" so callers can omit the sub-expression entirely.
type Clause struct {
	Terms []Term
}

// Empty reports whether the clause has no terms
func (c Clause) Empty() bool {
	return len(c.Terms) == 0
}

func (c Clause) String() string {
	parts := make([]string, len(c.Terms))
	for i, t := range c.Terms {
		parts[i] = t.String()
	}
	return strings.Join(parts, " and ")
}

func (c *Clause) add(t Term) {
	for _, existing := range c.Terms {
		if existing == t {
			return
		}
	}
	c.Terms = append(c.Terms, t)
}

// Builder derives demand clauses from one graph
type Builder struct {
	graph *topology.Graph
}

// NewBuilder creates a demand builder for graph
func NewBuilder(graph *topology.Graph) *Builder {
	return &Builder{graph: graph}
}

// Build returns the demand clause for from->to. Terms are emitted in a fixed
// order: the target's own detector, then higher-priority siblings, then the
// one-level waterfall.
func (b *Builder) Build(from, to string) Clause {
	var clause Clause
	src, dst := b.graph.Stage(from), b.graph.Stage(to)
	if dst == nil {
		return clause
	}

	if dst.HasDetector() {
		clause.add(Term{Active: true, Detector: dst.Detector})
	}

	if dst.PriorityRank > 0 {
		for _, sib := range b.graph.Siblings(to) {
			if sib.ID == from || !sib.HasDetector() {
				continue
			}
			if sib.PriorityRank > 0 && sib.PriorityRank < dst.PriorityRank {
				clause.add(Term{Detector: sib.Detector})
			}
		}
	}

	if src == nil {
		return clause
	}
	fromLevel, ok := src.Level()
	if !ok {
		return clause
	}
	toLevel, ok := dst.Level()
	if !ok || fromLevel-toLevel != 1 {
		return clause
	}
	for _, s := range b.graph.StagesAtLevel(fromLevel + 1) {
		if s.HasDetector() {
			clause.add(Term{Detector: s.Detector})
		}
	}

	return clause
}
