package topology

import (
	"container/list"
	"slices"
)

// CanReach reports whether target is reachable from start by following
// outgoing edges. A stage always reaches itself.
func (g *Graph) CanReach(start, target string) bool {
	if start == target {
		return true
	}
	visited := map[string]bool{start: true}
	queue := list.New()
	queue.PushBack(start)

	for queue.Len() > 0 {
		current := queue.Remove(queue.Front()).(string)
		for _, next := range g.outgoing[current] {
			if next == target {
				return true
			}
			if !visited[next] {
				visited[next] = true
				queue.PushBack(next)
			}
		}
	}
	return false
}

// DistancesTo returns the hop count from every stage that can reach target.
// Stages absent from the map cannot reach it.
func (g *Graph) DistancesTo(target string) map[string]int {
	distances := map[string]int{target: 0}
	queue := list.New()
	queue.PushBack(target)

	for queue.Len() > 0 {
		current := queue.Remove(queue.Front()).(string)
		for _, prev := range g.incoming[current] {
			if _, seen := distances[prev]; !seen {
				distances[prev] = distances[current] + 1
				queue.PushBack(prev)
			}
		}
	}
	return distances
}

// ShortestPath returns the stage ids of a minimum-hop path from start to
// end inclusive, or nil when end is unreachable. Ties between equal-length
// paths resolve toward lower ids because neighbours are visited in order.
func (g *Graph) ShortestPath(start, end string) []string {
	if start == end {
		return []string{start}
	}
	parent := map[string]string{start: start}
	queue := list.New()
	queue.PushBack(start)

	for queue.Len() > 0 {
		current := queue.Remove(queue.Front()).(string)
		for _, next := range g.outgoing[current] {
			if _, seen := parent[next]; seen {
				continue
			}
			parent[next] = current
			if next == end {
				path := []string{end}
				for node := current; node != start; node = parent[node] {
					path = append(path, node)
				}
				path = append(path, start)
				slices.Reverse(path)
				return path
			}
			queue.PushBack(next)
		}
	}
	return nil
}

// NearestWhere runs a breadth-first search from start and returns every
// stage satisfying match at the smallest hop count, ascending by id.
// Matching stages are not expanded through and start itself never matches.
// The returned distance is -1 when nothing matches.
func (g *Graph) NearestWhere(start string, match func(*Stage) bool) ([]string, int) {
	visited := map[string]bool{start: true}
	frontier := []string{start}

	for depth := 1; len(frontier) > 0; depth++ {
		var found []string
		var next []string
		for _, current := range frontier {
			for _, n := range g.outgoing[current] {
				if visited[n] {
					continue
				}
				visited[n] = true
				if match(g.stages[n]) {
					found = append(found, n)
					continue
				}
				next = append(next, n)
			}
		}
		if len(found) > 0 {
			slices.Sort(found)
			return found, depth
		}
		frontier = next
	}
	return nil, -1
}
