package parallel

import (
	"testing"
)

type adjacency map[string][]string

func (a adjacency) Neighbors(id string) []string { return a[id] }

func TestReachesTarget(t *testing.T) {
	g := adjacency{
		"A0": {"B"},
		"B":  {"C", "X"},
		"C":  {"A0"},
		"X":  {"Y"},
		"Y":  {"X"},
	}

	pool, err := NewWorkerPool(3)
	if err != nil {
		t.Fatalf("NewWorkerPool: %v", err)
	}
	defer pool.Close()

	got := NewTraverser(g, pool).ReachesTarget([]string{"A0", "B", "C", "X", "Y"}, "A0")

	want := map[string]bool{"A0": true, "B": true, "C": true, "X": false, "Y": false}
	for id, w := range want {
		if got[id] != w {
			t.Errorf("reaches(%s) = %v, want %v", id, got[id], w)
		}
	}
}
