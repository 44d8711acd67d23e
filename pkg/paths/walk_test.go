package paths

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/jnetc/pkg/topology"
	"github.com/dd0wney/jnetc/pkg/topology/topologytest"
)

func ids(seq []*topology.Stage) []string {
	out := make([]string, len(seq))
	for i, s := range seq {
		out[i] = s.ID
	}
	return out
}

func TestRestOfSkeletonDerived(t *testing.T) {
	r := NewResolver(topologytest.Standard())

	tests := []struct {
		from, to string
		want     []string
	}{
		{"A0", "B", []string{"C", "D", "A0"}},
		{"B", "C", []string{"D", "A0"}},
		{"D", "A0", []string{}},
		{"B", "L30", []string{"C", "D", "A0"}}, // vehicle before LRT, clearance skipped
		{"L30", "A31", []string{"D", "A0"}},
		{"D", "L39", []string{}}, // LRT anchor as direct target stops
		{"L30", "L39", []string{}},
		{"L39", "A0", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			rest, err := r.RestOfSkeleton(tt.from, tt.to)
			require.NoError(t, err)
			assert.False(t, rest.Configured)
			assert.Equal(t, tt.want, ids(rest.Stages))
		})
	}
}

func TestRestOfSkeletonMinMiddleToken(t *testing.T) {
	stages := []topology.Stage{
		{ID: "A0"},
		{ID: "B", Compensation: topology.Compensated, Detector: "D1"},
		{ID: "C", Compensation: topology.Minimum},
	}
	trs := []topology.Transition{
		{From: "A0", To: "B", Ordinal: 2},
		{From: "B", To: "C", Ordinal: 3},
		{From: "C", To: "A0", Ordinal: 4},
	}
	g := topologytest.MustBuild(stages, trs, "A0", "", []string{"A0", "B", "C", "A0"}, nil)
	r := NewResolver(g)

	seq, err := r.Walk("B", "C")
	require.NoError(t, err)
	assert.Equal(t, "B_Cmin_A0", Wait(seq).String())
}

func TestRestOfSkeletonConfigured(t *testing.T) {
	trs := topologytest.StandardTransitions()
	trs[1].HasRest = true
	trs[1].Rest = []string{"C", "D", "A0"} // B->C written with its target first
	trs[0].HasRest = true
	trs[0].Rest = nil // A0->B: "end of skeleton"
	g := topologytest.MustBuild(topologytest.StandardStages(), trs, "A0", "L39", nil, nil)
	r := NewResolver(g)

	rest, err := r.RestOfSkeleton("B", "C")
	require.NoError(t, err)
	assert.True(t, rest.Configured)
	assert.Equal(t, []string{"D", "A0"}, ids(rest.Stages))

	rest, err = r.RestOfSkeleton("A0", "B")
	require.NoError(t, err)
	assert.True(t, rest.Configured)
	assert.Empty(t, rest.Stages)
}

func TestWalkContinuesPastUnqualifiedLRTAnchor(t *testing.T) {
	// B -> L9 is not the first hop and L9 is entered from a vehicle stage,
	// so the walk must continue to the vehicle anchor.
	stages := []topology.Stage{
		{ID: "A0"},
		{ID: "B", Compensation: topology.Compensated},
		{ID: "C", Compensation: topology.Minimum},
		{ID: "L9", Kind: topology.LRT},
	}
	trs := []topology.Transition{
		{From: "A0", To: "B", Ordinal: 1},
		{From: "B", To: "L9", Ordinal: 2},
		{From: "L9", To: "C", Ordinal: 3},
		{From: "C", To: "A0", Ordinal: 4},
	}
	g := topologytest.MustBuild(stages, trs, "A0", "L9", nil, nil)
	r := NewResolver(g)

	seq, err := r.Walk("A0", "B")
	require.NoError(t, err)
	assert.Equal(t, []string{"A0", "B", "L9", "C", "A0"}, ids(seq))
	assert.Equal(t, "A0_Bcpn_L9_DQ_Cmin_A0", Wait(seq).String())
}

func TestWalkStopsAtLRTAnchorAfterLRT(t *testing.T) {
	stages := []topology.Stage{
		{ID: "A0"},
		{ID: "L1", Kind: topology.LRT},
		{ID: "L9", Kind: topology.LRT},
		{ID: "B", Compensation: topology.Compensated},
	}
	trs := []topology.Transition{
		{From: "B", To: "L1", Ordinal: 1},
		{From: "L1", To: "L9", Ordinal: 2},
		{From: "L9", To: "A0", Ordinal: 3},
		{From: "A0", To: "B", Ordinal: 4},
	}
	g := topologytest.MustBuild(stages, trs, "A0", "L9", nil, nil)

	seq, err := NewResolver(g).Walk("B", "L1")
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "L1", "L9"}, ids(seq))
}

// loopGraph has a side loop C -> X -> B that only rejoins the skeleton at a
// stage the walk may already have passed.
func loopGraph() *topology.Graph {
	stages := []topology.Stage{
		{ID: "A0"},
		{ID: "B", Compensation: topology.Compensated},
		{ID: "C", Compensation: topology.Minimum},
		{ID: "X", Compensation: topology.Minimum},
		{ID: "L39", Kind: topology.LRT},
	}
	trs := []topology.Transition{
		{From: "A0", To: "B", Ordinal: 2},
		{From: "B", To: "C", Ordinal: 3},
		{From: "C", To: "X", Ordinal: 4},
		{From: "X", To: "B", Ordinal: 5},
		{From: "B", To: "A0", Ordinal: 6},
		{From: "A0", To: "L39", Ordinal: 7},
		{From: "L39", To: "A0", Ordinal: 8},
	}
	return topologytest.MustBuild(stages, trs, "A0", "L39", []string{"A0", "B", "C", "A0"}, nil)
}

func TestWalkSkipsSuccessorThatCannotReachAnchor(t *testing.T) {
	r := NewResolver(loopGraph())

	tests := []struct {
		from, to string
		want     []string
	}{
		// C is B's skeleton successor but only leads back through X and B
		{"X", "B", []string{"X", "B", "A0"}},
		{"A0", "B", []string{"A0", "B", "A0"}},
		{"C", "X", []string{"C", "X", "B", "A0"}},
	}
	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			seq, err := r.Walk(tt.from, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(seq))
		})
	}
}

func TestWalkWithoutSimplePathFails(t *testing.T) {
	// From C every route to A0 passes B again.
	_, err := NewResolver(loopGraph()).Walk("B", "C")
	require.ErrorIs(t, err, ErrNoWalk)
	assert.Contains(t, err.Error(), "stuck at C")
}

func TestWalkStuck(t *testing.T) {
	stages := []topology.Stage{
		{ID: "A0"},
		{ID: "B", Compensation: topology.Compensated},
		{ID: "X", Compensation: topology.Minimum},
	}
	trs := []topology.Transition{
		{From: "A0", To: "B", Ordinal: 1},
		{From: "B", To: "X", Ordinal: 2},
	}
	g := topologytest.MustBuild(stages, trs, "A0", "", nil, nil)

	_, err := NewResolver(g).Walk("A0", "B")
	assert.ErrorIs(t, err, ErrNoWalk)
}

func TestStopIndex(t *testing.T) {
	g := topologytest.Standard()
	r := NewResolver(g)

	seq, _ := r.Stages("A0", "B", "C", "D", "A0", "B")
	assert.Equal(t, 4, StopIndex(g, seq), "starting anchor is exempt")
	assert.Equal(t, []string{"A0", "B", "C", "D", "A0"}, ids(TruncateAtStop(g, seq)))

	seq, _ = r.Stages("A0", "B", "C")
	assert.Equal(t, -1, StopIndex(g, seq))

	seq, _ = r.Stages("C", "D", "L39", "A0")
	assert.Equal(t, 3, StopIndex(g, seq), "LRT anchor entered from a vehicle stage does not stop")

	seq, _ = r.Stages("L30", "L39", "A0")
	assert.Equal(t, 1, StopIndex(g, seq))
}
