package paths

import (
	"container/list"
	"fmt"
	"slices"
	"strings"

	"github.com/dd0wney/jnetc/pkg/topology"
)

// Rest is the continuation of a transition beyond its target
type Rest struct {
	// Stages follow the target, the target itself excluded
	Stages []*topology.Stage
	// Configured is true when the junction file supplied the value
	Configured bool
}

// RestOfSkeleton returns the stages travelled after from->to. A configured
// value is returned as written with a leading target token removed. Otherwise
// the rest is derived by walking forward from to.
func (r *Resolver) RestOfSkeleton(from, to string) (Rest, error) {
	if t := r.graph.Transition(from, to); t != nil && t.HasRest {
		ids := t.Rest
		if len(ids) > 0 && ids[0] == to {
			ids = ids[1:]
		}
		stages, err := r.Stages(ids...)
		if err != nil {
			return Rest{}, err
		}
		return Rest{Stages: stages, Configured: true}, nil
	}

	seq, err := r.Walk(from, to)
	if err != nil {
		return Rest{}, err
	}
	return Rest{Stages: seq[2:]}, nil
}

// Walk derives a forward sequence starting with from and to. At each step it
// prefers the skeleton successor when that edge is declared, then vehicle
// stages before other kinds, then the stage closest to the vehicle anchor,
// then skeleton position and identifier. Clearance stages are never chosen,
// nor is a stage that can only reach the vehicle anchor through stages
// already walked. The walk ends where the anchor stop rule says it must.
func (r *Resolver) Walk(from, to string) ([]*topology.Stage, error) {
	seq, err := r.Stages(from, to)
	if err != nil {
		return nil, err
	}
	if StopIndex(r.graph, seq) == 1 {
		return seq, nil
	}

	visited := map[string]bool{from: true, to: true}
	for steps := 0; steps <= len(r.graph.StageIDs()); steps++ {
		cur := seq[len(seq)-1]
		next := r.step(cur.ID, visited)
		if next == nil {
			if r.graph.IsTerminal(cur.ID) {
				return seq, nil
			}
			return nil, fmt.Errorf("%w: %s->%s stuck at %s after %s",
				ErrNoWalk, from, to, cur.ID, joinIDs(seq))
		}
		visited[next.ID] = true
		seq = append(seq, next)
		if StopIndex(r.graph, seq) == len(seq)-1 {
			return seq, nil
		}
	}
	return nil, fmt.Errorf("%w: %s->%s does not terminate", ErrNoWalk, from, to)
}

func (r *Resolver) step(cur string, visited map[string]bool) *topology.Stage {
	var candidates []*topology.Stage
	for _, id := range r.graph.Outgoing(cur) {
		s := r.graph.Stage(id)
		if s.Kind == topology.LigClearance {
			continue
		}
		if visited[id] && !r.graph.IsVehicleAnchor(id) {
			continue
		}
		if _, ok := r.distToVA[id]; !ok {
			continue
		}
		if !r.reachesEnd(id, visited) {
			continue
		}
		candidates = append(candidates, s)
	}
	if len(candidates) == 0 {
		return nil
	}

	if succ, ok := r.graph.SkeletonSuccessor(cur); ok {
		for _, c := range candidates {
			if c.ID == succ {
				return c
			}
		}
	}

	slices.SortStableFunc(candidates, func(a, b *topology.Stage) int {
		if ka, kb := kindRank(a), kindRank(b); ka != kb {
			return ka - kb
		}
		if d := r.distToVA[a.ID] - r.distToVA[b.ID]; d != 0 {
			return d
		}
		if d := r.skeletonKey(a.ID) - r.skeletonKey(b.ID); d != 0 {
			return d
		}
		return strings.Compare(a.ID, b.ID)
	})
	return candidates[0]
}

// reachesEnd reports whether the vehicle anchor or a termination endpoint
// can be reached from start without entering a visited stage.
func (r *Resolver) reachesEnd(start string, visited map[string]bool) bool {
	isEnd := func(id string) bool {
		return r.graph.IsVehicleAnchor(id) || r.graph.IsTerminal(id)
	}
	if isEnd(start) {
		return true
	}
	seen := map[string]bool{start: true}
	queue := list.New()
	queue.PushBack(start)
	for queue.Len() > 0 {
		cur := queue.Remove(queue.Front()).(string)
		for _, id := range r.graph.Outgoing(cur) {
			if seen[id] || r.graph.Stage(id).Kind == topology.LigClearance {
				continue
			}
			if r.graph.IsVehicleAnchor(id) {
				return true
			}
			if visited[id] {
				continue
			}
			if r.graph.IsTerminal(id) {
				return true
			}
			seen[id] = true
			queue.PushBack(id)
		}
	}
	return false
}

func kindRank(s *topology.Stage) int {
	if s.Kind == topology.Vehicle {
		return 0
	}
	return 1
}

// StopIndex returns the index of the token that terminates seq under the
// anchor stop rule, or -1 when no token does. The first token never
// terminates. The vehicle anchor always terminates; the LRT anchor only when
// it directly follows the first token or follows another LRT stage.
func StopIndex(g *topology.Graph, seq []*topology.Stage) int {
	for i := 1; i < len(seq); i++ {
		id := seq[i].ID
		if g.IsVehicleAnchor(id) {
			return i
		}
		if g.IsLRTAnchor(id) && (i == 1 || seq[i-1].Kind == topology.LRT) {
			return i
		}
	}
	return -1
}

// TruncateAtStop cuts seq after its terminating token, if any
func TruncateAtStop(g *topology.Graph, seq []*topology.Stage) []*topology.Stage {
	if i := StopIndex(g, seq); i >= 0 {
		return seq[:i+1]
	}
	return seq
}

func joinIDs(seq []*topology.Stage) string {
	ids := make([]string, len(seq))
	for i, s := range seq {
		ids[i] = s.ID
	}
	return strings.Join(ids, "-")
}
