package constraints

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/jnetc/pkg/parallel"
	"github.com/dd0wney/jnetc/pkg/topology"
	"github.com/dd0wney/jnetc/pkg/topology/topologytest"
)

func newPool(t *testing.T) *parallel.WorkerPool {
	t.Helper()
	pool, err := parallel.NewWorkerPool(4)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func TestTopologyValidator_StandardJunctionPasses(t *testing.T) {
	result, err := NewTopologyValidator(newPool(t)).Validate(topologytest.Standard())
	require.NoError(t, err)

	assert.True(t, result.Valid)
	assert.Empty(t, result.Violations)
	assert.NoError(t, result.Err())
	assert.False(t, result.CheckedAt.IsZero())
}

func TestTopologyValidator_DeadEndAbortsWithEveryViolation(t *testing.T) {
	// X is only ever a destination, Y is isolated.
	stages := []topology.Stage{
		{ID: "A0"},
		{ID: "B", Compensation: topology.Compensated, Detector: "D1"},
		{ID: "C", Compensation: topology.Minimum},
		{ID: "X", Compensation: topology.Minimum},
		{ID: "Y", Compensation: topology.Minimum},
	}
	trs := []topology.Transition{
		{From: "A0", To: "B", Ordinal: 2},
		{From: "B", To: "C", Ordinal: 3},
		{From: "C", To: "A0", Ordinal: 4},
		{From: "B", To: "X", Ordinal: 5},
	}
	g := topologytest.MustBuild(stages, trs, "A0", "", nil, nil)

	result, err := NewTopologyValidator(newPool(t)).Validate(g)
	require.NoError(t, err)
	require.False(t, result.Valid)

	deadEnds := result.GetViolationsByType(DeadEnd)
	require.Len(t, deadEnds, 1)
	assert.Equal(t, "X", deadEnds[0].StageID)

	unreachable := result.GetViolationsByType(Unreachable)
	ids := make([]string, 0, len(unreachable))
	for _, v := range unreachable {
		ids = append(ids, v.StageID)
	}
	assert.ElementsMatch(t, []string{"X", "Y"}, ids)

	err = result.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTopologyInvalid))

	var te *TopologyError
	require.True(t, errors.As(err, &te))
	assert.Len(t, te.Violations, 3)
	assert.Contains(t, err.Error(), "DeadEnd X")
}

func TestTopologyValidator_TerminalsAreExempt(t *testing.T) {
	stages := []topology.Stage{
		{ID: "A0"},
		{ID: "B", Compensation: topology.Compensated},
		{ID: "T", Compensation: topology.Minimum},
	}
	trs := []topology.Transition{
		{From: "A0", To: "B", Ordinal: 2},
		{From: "B", To: "A0", Ordinal: 3},
		{From: "B", To: "T", Ordinal: 4},
	}
	g := topologytest.MustBuild(stages, trs, "A0", "", nil, []string{"T"})

	result, err := NewTopologyValidator(newPool(t)).Validate(g)
	require.NoError(t, err)
	assert.True(t, result.Valid, "violations: %v", result.Violations)
}

func TestTopologyValidator_AnchorsMayBeSinks(t *testing.T) {
	stages := []topology.Stage{
		{ID: "A0"},
		{ID: "B", Compensation: topology.Compensated},
		{ID: "L9", Kind: topology.LRT},
	}
	trs := []topology.Transition{
		{From: "A0", To: "B", Ordinal: 2},
		{From: "B", To: "A0", Ordinal: 3},
		{From: "B", To: "L9", Ordinal: 4},
	}
	g := topologytest.MustBuild(stages, trs, "A0", "L9", nil, nil)

	result, err := NewTopologyValidator(newPool(t)).Validate(g)
	require.NoError(t, err)

	assert.Empty(t, result.GetViolationsByType(DeadEnd), "LRT anchor is exempt from the dead-end check")
	unreachable := result.GetViolationsByType(Unreachable)
	require.Len(t, unreachable, 1, "but it must still reach the vehicle anchor")
	assert.Equal(t, "L9", unreachable[0].StageID)
}

func TestAnchorConstraint(t *testing.T) {
	stages := []topology.Stage{
		{ID: "A0"},
		{ID: "B", Compensation: topology.Compensated},
	}
	trs := []topology.Transition{
		{From: "A0", To: "B", Ordinal: 2},
		{From: "B", To: "A0", Ordinal: 3},
	}

	t.Run("LRT anchor must be declared", func(t *testing.T) {
		g := topologytest.MustBuild(stages, trs, "A0", "L39", nil, nil)
		v, err := (&AnchorConstraint{}).Validate(g)
		require.NoError(t, err)
		require.Len(t, v, 1)
		assert.Equal(t, MissingAnchor, v[0].Type)
	})

	t.Run("LRT anchor must be LRT", func(t *testing.T) {
		g := topologytest.MustBuild(stages, trs, "A0", "B", nil, nil)
		v, err := (&AnchorConstraint{}).Validate(g)
		require.NoError(t, err)
		require.Len(t, v, 1)
		assert.Equal(t, InvalidAnchor, v[0].Type)
	})

	t.Run("vehicle anchor must be declared", func(t *testing.T) {
		g := topologytest.MustBuild(stages, trs, "Z0", "", nil, nil)
		v, err := (&AnchorConstraint{}).Validate(g)
		require.NoError(t, err)
		require.Len(t, v, 1)
		assert.Equal(t, "Z0", v[0].StageID)

		r, err := (&ReachabilityConstraint{}).Validate(g)
		require.NoError(t, err)
		assert.Empty(t, r, "reachability is not measured against a missing anchor")
	})
}

func TestViolationTypeString(t *testing.T) {
	assert.Equal(t, "DeadEnd", DeadEnd.String())
	assert.Equal(t, "Unreachable", Unreachable.String())
	assert.Equal(t, "Error", Error.String())
}
