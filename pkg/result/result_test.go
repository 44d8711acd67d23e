package result

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/jnetc/pkg/templates"
)

func TestAssembleOrdersByOrdinal(t *testing.T) {
	rows := []Row{
		{Ordinal: 5, From: "C", To: "A0", Template: templates.A},
		{Ordinal: 2, From: "A0", To: "B", Template: templates.A},
		{Ordinal: 3, From: "B", To: "L30", Err: NewRowError(SubstitutionFailed, errors.New("no LRT"))},
		{Ordinal: 4, From: "L30", To: "C", Template: templates.D,
			Diagnostics: []Diagnostic{Correction(CodeSuffixCorrected, "fixed"), Note(CodeThreatLRT, "picked")}},
	}

	set := Assemble("run-1", "TA12", rows)

	require.Len(t, set.Rows, 4)
	for i, want := range []int{2, 3, 4, 5} {
		assert.Equal(t, want, set.Rows[i].Ordinal)
	}
	assert.Equal(t, 5, rows[0].Ordinal, "input slice is not reordered")

	assert.Equal(t, 4, set.Summary.Rows)
	assert.Equal(t, 1, set.Summary.Errors)
	assert.Equal(t, 1, set.Summary.Corrected)
	assert.Equal(t, 1, set.Summary.Flagged)
	assert.Equal(t, 2, set.Summary.ByTemplate[templates.A])
	assert.Equal(t, 1, set.Summary.Diagnostics[CodeThreatLRT])
}

func TestRowErrorSurvivesJSON(t *testing.T) {
	cause := errors.New("slot at unresolved")
	row := Row{Ordinal: 2, From: "A0", To: "B", Err: NewRowError(SubstitutionFailed, cause)}
	assert.ErrorIs(t, row.Err, cause)
	assert.False(t, row.OK())

	data, err := json.Marshal(row)
	require.NoError(t, err)

	var back Row
	require.NoError(t, json.Unmarshal(data, &back))
	require.NotNil(t, back.Err)
	assert.Equal(t, SubstitutionFailed, back.Err.Kind)
	assert.Equal(t, "substitution: slot at unresolved", back.Err.Error())
}

func TestDiagnosticString(t *testing.T) {
	assert.Equal(t, "[eg-missing] x", Note(CodeEGMissing, "x").String())
	assert.Equal(t, "[suffix-corrected, corrected] B -> Bcpn", Correction(CodeSuffixCorrected, "%s -> %s", "B", "Bcpn").String())
}
