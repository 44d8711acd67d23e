package parallel

import (
	"container/list"
)

// Adjacency is the read-only view of a directed graph needed for traversal
type Adjacency interface {
	Neighbors(id string) []string
}

// Traverser runs independent forward searches concurrently
type Traverser struct {
	graph Adjacency
	pool  *WorkerPool
}

// NewTraverser creates a traverser that schedules searches on pool
func NewTraverser(graph Adjacency, pool *WorkerPool) *Traverser {
	return &Traverser{graph: graph, pool: pool}
}

// ReachesTarget runs a forward breadth-first search from every start and
// reports, per start, whether target was reached. A start equal to target
// reaches it trivially.
func (t *Traverser) ReachesTarget(starts []string, target string) map[string]bool {
	results := make([]bool, len(starts))
	t.pool.ForEach(len(starts), func(i int) {
		results[i] = t.reaches(starts[i], target)
	})

	out := make(map[string]bool, len(starts))
	for i, s := range starts {
		out[s] = results[i]
	}
	return out
}

func (t *Traverser) reaches(start, target string) bool {
	if start == target {
		return true
	}
	visited := map[string]bool{start: true}
	queue := list.New()
	queue.PushBack(start)

	for queue.Len() > 0 {
		current := queue.Remove(queue.Front()).(string)
		for _, next := range t.graph.Neighbors(current) {
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
