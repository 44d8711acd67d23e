package topology

import (
	"slices"
	"sort"
)

// Transition is a directed edge between two stages as declared in the
// junction's inter-stage table.
type Transition struct {
	From string
	To   string
	// Rest is the configured rest-of-skeleton including or excluding the
	// leading To token. HasRest false means the path is derived.
	Rest    []string
	HasRest bool
	// Ordinal is the source row number used to order output
	Ordinal int
}

// sameShape reports whether two declarations of one edge are identical
func (t *Transition) sameShape(o *Transition) bool {
	return t.From == o.From && t.To == o.To && t.HasRest == o.HasRest && slices.Equal(t.Rest, o.Rest)
}

type edgeKey struct {
	from, to string
}

// Graph is the immutable directed stage graph. All methods are safe for
// concurrent use once Build has returned.
type Graph struct {
	stages      map[string]*Stage
	ids         []string
	outgoing    map[string][]string
	incoming    map[string][]string
	transitions []*Transition
	byEdge      map[edgeKey]*Transition

	vehicleAnchor string
	lrtAnchor     string
	skeleton      []string
	skeletonPos   map[string]int
	terminals     map[string]bool
}

// Stage returns the stage with the given id, or nil
func (g *Graph) Stage(id string) *Stage {
	return g.stages[id]
}

// HasStage reports whether id names a declared stage
func (g *Graph) HasStage(id string) bool {
	_, ok := g.stages[id]
	return ok
}

// StageIDs returns every stage id in ascending order
func (g *Graph) StageIDs() []string {
	return slices.Clone(g.ids)
}

// Stages returns every stage in ascending id order
func (g *Graph) Stages() []*Stage {
	out := make([]*Stage, 0, len(g.ids))
	for _, id := range g.ids {
		out = append(out, g.stages[id])
	}
	return out
}

// Outgoing returns the ids of the direct successors of id, ascending
func (g *Graph) Outgoing(id string) []string {
	return g.outgoing[id]
}

// Incoming returns the ids of the direct predecessors of id, ascending
func (g *Graph) Incoming(id string) []string {
	return g.incoming[id]
}

// Neighbors is Outgoing under the name the parallel traversal expects
func (g *Graph) Neighbors(id string) []string {
	return g.outgoing[id]
}

// HasEdge reports whether from->to is a declared transition
func (g *Graph) HasEdge(from, to string) bool {
	_, ok := g.byEdge[edgeKey{from, to}]
	return ok
}

// Transition returns the declaration of from->to, or nil
func (g *Graph) Transition(from, to string) *Transition {
	return g.byEdge[edgeKey{from, to}]
}

// Transitions returns the declared transitions ordered by source ordinal
func (g *Graph) Transitions() []*Transition {
	return slices.Clone(g.transitions)
}

// VehicleAnchor returns the vehicle anchor stage
func (g *Graph) VehicleAnchor() *Stage {
	return g.stages[g.vehicleAnchor]
}

// VehicleAnchorID returns the declared vehicle anchor id
func (g *Graph) VehicleAnchorID() string {
	return g.vehicleAnchor
}

// LRTAnchorID returns the declared LRT anchor id, or "" if none
func (g *Graph) LRTAnchorID() string {
	return g.lrtAnchor
}

// LRTAnchor returns the LRT anchor stage, or nil if none is declared
func (g *Graph) LRTAnchor() *Stage {
	if g.lrtAnchor == "" {
		return nil
	}
	return g.stages[g.lrtAnchor]
}

// IsVehicleAnchor reports whether id is the vehicle anchor
func (g *Graph) IsVehicleAnchor(id string) bool {
	return id == g.vehicleAnchor
}

// IsLRTAnchor reports whether id is the LRT anchor
func (g *Graph) IsLRTAnchor(id string) bool {
	return g.lrtAnchor != "" && id == g.lrtAnchor
}

// IsAnchor reports whether id is either anchor
func (g *Graph) IsAnchor(id string) bool {
	return g.IsVehicleAnchor(id) || g.IsLRTAnchor(id)
}

// IsTerminal reports whether id is a declared termination endpoint
func (g *Graph) IsTerminal(id string) bool {
	return g.terminals[id]
}

// Terminals returns the declared termination endpoints, ascending
func (g *Graph) Terminals() []string {
	out := make([]string, 0, len(g.terminals))
	for id := range g.terminals {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Skeleton returns the ordered vehicle skeleton
func (g *Graph) Skeleton() []string {
	return slices.Clone(g.skeleton)
}

// SkeletonPosition returns the first index of id in the skeleton
func (g *Graph) SkeletonPosition(id string) (int, bool) {
	pos, ok := g.skeletonPos[id]
	return pos, ok
}

// SkeletonSuccessor returns the token following id in the skeleton
func (g *Graph) SkeletonSuccessor(id string) (string, bool) {
	pos, ok := g.skeletonPos[id]
	if !ok || pos+1 >= len(g.skeleton) {
		return "", false
	}
	return g.skeleton[pos+1], true
}

// Siblings returns the other members of id's sibling group, ordered by
// priority rank then id.
func (g *Graph) Siblings(id string) []*Stage {
	s := g.stages[id]
	if s == nil || !s.InSiblingGroup() {
		return nil
	}
	var out []*Stage
	for _, sid := range g.ids {
		other := g.stages[sid]
		if sid != id && other.SiblingGroup == s.SiblingGroup {
			out = append(out, other)
		}
	}
	SortByRank(out)
	return out
}

// StagesAtLevel returns every stage at the given waterfall level ordered by
// priority rank then id.
func (g *Graph) StagesAtLevel(level int) []*Stage {
	var out []*Stage
	for _, id := range g.ids {
		s := g.stages[id]
		if l, ok := s.Level(); ok && l == level {
			out = append(out, s)
		}
	}
	SortByRank(out)
	return out
}

// SortByRank orders stages by priority rank then id. Unranked stages sort
// after ranked ones.
func SortByRank(stages []*Stage) {
	slices.SortStableFunc(stages, func(a, b *Stage) int {
		ra, rb := rankKey(a), rankKey(b)
		if ra != rb {
			return ra - rb
		}
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
}

func rankKey(s *Stage) int {
	if s.PriorityRank <= 0 {
		return int(^uint(0) >> 2)
	}
	return s.PriorityRank
}
