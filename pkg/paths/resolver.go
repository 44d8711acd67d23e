// Package paths resolves LRT lookups and builds the WTG and AT arguments of
// generated expressions.
package paths

import (
	"slices"
	"strings"

	"github.com/dd0wney/jnetc/pkg/result"
	"github.com/dd0wney/jnetc/pkg/topology"
)

// Resolver answers path questions against one immutable graph. It holds
// only derived read-only lookups and is safe for concurrent use.
type Resolver struct {
	graph    *topology.Graph
	distToVA map[string]int
	threat   ThreatStrategy
}

// Option configures a Resolver
type Option func(*Resolver)

// WithThreatStrategy replaces the default threatening-LRT strategy
func WithThreatStrategy(s ThreatStrategy) Option {
	return func(r *Resolver) { r.threat = s }
}

// NewResolver precomputes the distance of every stage to the vehicle anchor
func NewResolver(g *topology.Graph, opts ...Option) *Resolver {
	r := &Resolver{
		graph:    g,
		distToVA: g.DistancesTo(g.VehicleAnchorID()),
		threat:   ContextThreat{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Graph returns the graph the resolver reads
func (r *Resolver) Graph() *topology.Graph {
	return r.graph
}

// ThreatStrategy returns the configured threatening-LRT strategy
func (r *Resolver) ThreatStrategy() ThreatStrategy {
	return r.threat
}

// LRTMatch is the result of a nearest-LRT search
type LRTMatch struct {
	Stage    *topology.Stage
	Distance int
	// Tied lists every LRT at the winning distance when more than one exists
	Tied []string
}

// Diagnostics reports a tie broken by identifier
func (m LRTMatch) Diagnostics(origin string) []result.Diagnostic {
	if len(m.Tied) < 2 {
		return nil
	}
	return []result.Diagnostic{result.Note(result.CodeNearestLRTTie,
		"nearest LRT from %s tied at distance %d between %s; chose %s",
		origin, m.Distance, strings.Join(m.Tied, ", "), m.Stage.ID)}
}

// NearestLRT finds the LRT stage with the fewest hops from id. LRT stages
// are not expanded through. Ties resolve to the lowest identifier.
func (r *Resolver) NearestLRT(id string) (LRTMatch, bool) {
	found, dist := r.graph.NearestWhere(id, func(s *topology.Stage) bool {
		return s.Kind == topology.LRT
	})
	if len(found) == 0 {
		return LRTMatch{}, false
	}
	m := LRTMatch{Stage: r.graph.Stage(found[0]), Distance: dist}
	if len(found) > 1 {
		m.Tied = found
	}
	return m, true
}

// DirectLRT returns the LRT the source stage can call directly, preferring
// stages other than the LRT anchor and then the lowest identifier.
func (r *Resolver) DirectLRT(id string) (*topology.Stage, bool) {
	var anchor *topology.Stage
	for _, next := range r.graph.Outgoing(id) {
		s := r.graph.Stage(next)
		if s.Kind != topology.LRT {
			continue
		}
		if r.graph.IsLRTAnchor(next) {
			anchor = s
			continue
		}
		return s, true
	}
	return anchor, anchor != nil
}

// NextVehicle returns the vehicle stage an LRT stage releases to first in
// skeleton order, ignoring the vehicle anchor. It falls back to the vehicle
// anchor when the LRT stage releases to no other vehicle stage.
func (r *Resolver) NextVehicle(id string) *topology.Stage {
	var candidates []*topology.Stage
	for _, next := range r.graph.Outgoing(id) {
		s := r.graph.Stage(next)
		if s.Kind == topology.Vehicle && !r.graph.IsVehicleAnchor(next) {
			candidates = append(candidates, s)
		}
	}
	if len(candidates) == 0 {
		return r.graph.VehicleAnchor()
	}
	slices.SortStableFunc(candidates, func(a, b *topology.Stage) int {
		if d := r.skeletonKey(a.ID) - r.skeletonKey(b.ID); d != 0 {
			return d
		}
		return strings.Compare(a.ID, b.ID)
	})
	return candidates[0]
}

// FirstVehicle returns the first vehicle stage of seq, or the vehicle anchor
func (r *Resolver) FirstVehicle(seq []*topology.Stage) *topology.Stage {
	for _, s := range seq {
		if s.Kind == topology.Vehicle {
			return s
		}
	}
	return r.graph.VehicleAnchor()
}

// ArrivalFor returns the LRT an arrival token should name after reaching
// id: its nearest LRT, else the LRT anchor.
func (r *Resolver) ArrivalFor(id string) (*topology.Stage, []result.Diagnostic, bool) {
	if m, ok := r.NearestLRT(id); ok {
		return m.Stage, m.Diagnostics(id), true
	}
	if la := r.graph.LRTAnchor(); la != nil {
		return la, nil, true
	}
	return nil, nil, false
}

func (r *Resolver) skeletonKey(id string) int {
	if pos, ok := r.graph.SkeletonPosition(id); ok {
		return pos
	}
	return len(r.graph.Skeleton()) + 1
}

// Stages maps ids to stages, failing on the first unknown id
func (r *Resolver) Stages(ids ...string) ([]*topology.Stage, error) {
	out := make([]*topology.Stage, 0, len(ids))
	for _, id := range ids {
		s := r.graph.Stage(id)
		if s == nil {
			return nil, &StageError{ID: id}
		}
		out = append(out, s)
	}
	return out, nil
}

// StageError names an identifier absent from the graph
type StageError struct {
	ID string
}

func (e *StageError) Error() string {
	return "unknown stage " + e.ID
}

func (e *StageError) Unwrap() error {
	return ErrUnknownStage
}
