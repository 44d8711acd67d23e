// Package topologytest provides small junction graphs shared by tests.
package topologytest

import (
	"github.com/dd0wney/jnetc/pkg/topology"
)

func level(n int) *int { return &n }

// StandardStages is a seven-stage junction with one stage of every kind:
//
//	A0 -> B -> C -> D -> A0   vehicle skeleton
//	B -> L30, D -> L39        light-rail calls
//	L30 -> C, L30 -> A31 -> D, L30 -> L39, L39 -> A0
func StandardStages() []topology.Stage {
	return []topology.Stage{
		{ID: "A0", Kind: topology.Vehicle},
		{ID: "B", Kind: topology.Vehicle, Compensation: topology.Compensated, Detector: "DB",
			SiblingGroup: "S1", PriorityRank: 1, WaterfallLevel: level(0)},
		{ID: "C", Kind: topology.Vehicle, Compensation: topology.Minimum, Detector: "DC",
			SiblingGroup: "S1", PriorityRank: 2, WaterfallLevel: level(1)},
		{ID: "D", Kind: topology.Vehicle, Compensation: topology.Compensated, Detector: "DD",
			WaterfallLevel: level(1)},
		{ID: "L30", Kind: topology.LRT},
		{ID: "L39", Kind: topology.LRT},
		{ID: "A31", Kind: topology.LigClearance},
	}
}

// StandardTransitions returns the declared edges of the standard junction in
// source order. Ordinals start at 2 as in a spreadsheet with a header row.
func StandardTransitions() []topology.Transition {
	pairs := [][2]string{
		{"A0", "B"}, {"B", "C"}, {"C", "D"}, {"D", "A0"},
		{"B", "L30"}, {"D", "L39"},
		{"L30", "C"}, {"L30", "A31"}, {"A31", "D"},
		{"L30", "L39"}, {"L39", "A0"},
	}
	out := make([]topology.Transition, 0, len(pairs))
	for i, p := range pairs {
		out = append(out, topology.Transition{From: p[0], To: p[1], Ordinal: i + 2})
	}
	return out
}

// Standard builds the standard junction graph and panics on failure
func Standard() *topology.Graph {
	return MustBuild(StandardStages(), StandardTransitions(), "A0", "L39",
		[]string{"A0", "B", "C", "D", "A0"}, nil)
}

// MustBuild assembles a graph from parts and panics on failure
func MustBuild(stages []topology.Stage, transitions []topology.Transition, vehicleAnchor, lrtAnchor string, skeleton, terminals []string) *topology.Graph {
	b := topology.NewBuilder().
		SetAnchors(vehicleAnchor, lrtAnchor).
		SetSkeleton(skeleton).
		SetTerminals(terminals)
	for _, s := range stages {
		b.AddStage(s)
	}
	for _, t := range transitions {
		b.AddTransition(t)
	}
	g, err := b.Build()
	if err != nil {
		panic(err)
	}
	return g
}
