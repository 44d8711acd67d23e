package paths

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/jnetc/pkg/result"
	"github.com/dd0wney/jnetc/pkg/topology"
	"github.com/dd0wney/jnetc/pkg/topology/topologytest"
)

func TestNearestLRT(t *testing.T) {
	r := NewResolver(topologytest.Standard())

	m, ok := r.NearestLRT("B")
	require.True(t, ok)
	assert.Equal(t, "L30", m.Stage.ID)
	assert.Equal(t, 1, m.Distance)
	assert.Empty(t, m.Diagnostics("B"))

	m, ok = r.NearestLRT("C")
	require.True(t, ok)
	assert.Equal(t, "L39", m.Stage.ID)
	assert.Equal(t, 2, m.Distance)
}

func TestNearestLRTTieBreaksOnIdentifier(t *testing.T) {
	stages := []topology.Stage{
		{ID: "A0"},
		{ID: "L7", Kind: topology.LRT},
		{ID: "L3", Kind: topology.LRT},
	}
	trs := []topology.Transition{
		{From: "A0", To: "L7", Ordinal: 1},
		{From: "A0", To: "L3", Ordinal: 2},
		{From: "L7", To: "A0", Ordinal: 3},
		{From: "L3", To: "A0", Ordinal: 4},
	}
	r := NewResolver(topologytest.MustBuild(stages, trs, "A0", "", nil, nil))

	m, ok := r.NearestLRT("A0")
	require.True(t, ok)
	assert.Equal(t, "L3", m.Stage.ID)
	assert.Equal(t, []string{"L3", "L7"}, m.Tied)

	diags := m.Diagnostics("A0")
	require.Len(t, diags, 1)
	assert.Equal(t, result.CodeNearestLRTTie, diags[0].Code)
	assert.False(t, diags[0].Corrected)
}

func TestDirectLRTPrefersNonAnchor(t *testing.T) {
	stages := []topology.Stage{
		{ID: "A0"},
		{ID: "B", Compensation: topology.Compensated},
		{ID: "L1", Kind: topology.LRT},
		{ID: "L9", Kind: topology.LRT},
	}
	trs := []topology.Transition{
		{From: "B", To: "L1", Ordinal: 1},
		{From: "B", To: "L9", Ordinal: 2},
		{From: "L1", To: "A0", Ordinal: 3},
		{From: "L9", To: "A0", Ordinal: 4},
		{From: "A0", To: "B", Ordinal: 5},
	}
	r := NewResolver(topologytest.MustBuild(stages, trs, "A0", "L1", nil, nil))

	s, ok := r.DirectLRT("B")
	require.True(t, ok)
	assert.Equal(t, "L9", s.ID)

	_, ok = r.DirectLRT("A0")
	assert.False(t, ok)
}

func TestNextVehicle(t *testing.T) {
	r := NewResolver(topologytest.Standard())
	assert.Equal(t, "C", r.NextVehicle("L30").ID)
	assert.Equal(t, "A0", r.NextVehicle("L39").ID, "vehicle anchor is the fallback")
}

func TestArrivalFor(t *testing.T) {
	r := NewResolver(topologytest.Standard())

	lrt, _, ok := r.ArrivalFor("C")
	require.True(t, ok)
	assert.Equal(t, "L39", lrt.ID)
}

func TestContextThreat(t *testing.T) {
	r := NewResolver(topologytest.Standard())

	m, diags, err := ContextThreat{}.Threat(r, "D", "A0")
	require.NoError(t, err)
	assert.Equal(t, "L30", m.Stage.ID)
	require.NotEmpty(t, diags)
	assert.Equal(t, result.CodeThreatLRT, diags[len(diags)-1].Code)
}

func TestContextThreatFallsBackToSourceThenAnchor(t *testing.T) {
	stages := []topology.Stage{
		{ID: "A0"},
		{ID: "B", Compensation: topology.Compensated},
		{ID: "C", Compensation: topology.Minimum},
		{ID: "L1", Kind: topology.LRT},
	}
	trs := []topology.Transition{
		{From: "B", To: "C", Ordinal: 1},
		{From: "C", To: "A0", Ordinal: 2},
		{From: "B", To: "L1", Ordinal: 3},
		{From: "L1", To: "A0", Ordinal: 4},
		{From: "A0", To: "B", Ordinal: 5},
	}

	r := NewResolver(topologytest.MustBuild(stages, trs, "A0", "", nil, nil))
	m, _, err := ContextThreat{}.Threat(r, "B", "C")
	require.NoError(t, err)
	assert.Equal(t, "L1", m.Stage.ID, "C reaches A0 which reaches B -> L1")

	noLRT := []topology.Stage{{ID: "A0"}, {ID: "B", Compensation: topology.Compensated}}
	loop := []topology.Transition{{From: "A0", To: "B", Ordinal: 1}, {From: "B", To: "A0", Ordinal: 2}}
	r = NewResolver(topologytest.MustBuild(noLRT, loop, "A0", "", nil, nil))
	_, _, err = ContextThreat{}.Threat(r, "A0", "B")
	assert.ErrorIs(t, err, ErrNoLRT)
}

func TestAnchorThreatAndRegistry(t *testing.T) {
	s, err := StrategyByName("anchor")
	require.NoError(t, err)

	r := NewResolver(topologytest.Standard(), WithThreatStrategy(s))
	assert.Equal(t, "anchor", r.ThreatStrategy().Name())

	m, _, err := r.ThreatStrategy().Threat(r, "B", "C")
	require.NoError(t, err)
	assert.Equal(t, "L39", m.Stage.ID)

	_, err = StrategyByName("nearest-ever")
	assert.ErrorIs(t, err, ErrStrategy)
	assert.Equal(t, []string{"anchor", "context"}, StrategyNames())
}
